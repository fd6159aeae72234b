package metrics

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
)

const Path = "/metrics"

func ConfigureRouter(handler *echo.Echo) {
	handler.GET(Path, echoprometheus.NewHandler())
}
