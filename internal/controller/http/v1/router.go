package httpv1

import (
	"net/http"

	"github.com/Egor213/LogBoard/internal/service"
	"github.com/alexliesenfeld/health"
	"github.com/labstack/echo/v4"
)

const (
	APIPrefix  = "/api/v1"
	HealthPath = APIPrefix + "/health"
)

type AppInfo struct {
	Name        string
	Version     string
	MetricsPath string
}

// ConfigureRouter mounts the REST API under /api/v1 and installs the JSON
// error envelope and request validator.
func ConfigureRouter(handler *echo.Echo, services *service.Services, checker health.Checker, info AppInfo) {
	handler.HTTPErrorHandler = ErrorHandler
	handler.Validator = NewRequestValidator()

	api := handler.Group(APIPrefix)

	api.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, infoResponse{
			Name:    info.Name,
			Version: info.Version,
			Health:  HealthPath,
			Metrics: info.MetricsPath,
		})
	})
	api.GET("/health", echo.WrapHandler(health.NewHandler(checker)))

	logs := api.Group("/logs")
	newAnalyticsRoutes(logs, services.Analytics, services.Metadata)
	newExportRoutes(logs.Group("/export"), services.Export)
	newLogRoutes(logs, services.Log)
}
