package main

import "github.com/Egor213/LogBoard/internal/app"

func main() {
	app.Run()
}
