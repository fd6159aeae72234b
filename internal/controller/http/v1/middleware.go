package httpv1

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type MiddlewareConfig struct {
	Subsystem      string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	// Registerer receives the HTTP request metrics. Nil disables them.
	Registerer prometheus.Registerer
}

func SetupMiddleware(handler *echo.Echo, cfg MiddlewareConfig) {
	handler.Use(middleware.Recover())
	handler.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	// Outside the request logger, so the status it records is the one the
	// error handler wrote.
	if cfg.Registerer != nil {
		handler.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  cfg.Subsystem,
			Registerer: cfg.Registerer,
		}))
	}

	handler.Use(requestLogger())
	handler.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		ExposeHeaders: []string{echo.HeaderXRequestID, echo.HeaderContentDisposition},
	}))

	if cfg.RateLimitRPS > 0 {
		handler.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimitRPS),
				Burst:     cfg.RateLimitBurst,
				ExpiresIn: 3 * time.Minute,
			}),
		}))
	}
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(log.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
			})
			if v.Error != nil {
				entry = entry.WithField("error", v.Error.Error())
				if v.Status >= http.StatusInternalServerError {
					entry.Error("Request failed")
				} else {
					entry.Warn("Request rejected")
				}
				return nil
			}
			entry.Info("Request handled")
			return nil
		},
	})
}
