package httpv1

import (
	"context"
	"time"

	"github.com/alexliesenfeld/health"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func NewHealthChecker(db Pinger) health.Checker {
	return health.NewChecker(
		health.WithCacheDuration(time.Second),
		health.WithTimeout(5*time.Second),
		health.WithCheck(health.Check{
			Name:  "database",
			Check: db.Ping,
		}),
	)
}
