package httpv1

import (
	"net/http"

	"github.com/Egor213/LogBoard/internal/service"
	"github.com/labstack/echo/v4"
)

type analyticsRoutes struct {
	analyticsService service.Analytics
	metadataService  service.Metadata
}

func newAnalyticsRoutes(g *echo.Group, as service.Analytics, ms service.Metadata) {
	r := &analyticsRoutes{
		analyticsService: as,
		metadataService:  ms,
	}

	g.GET("/aggregation", r.aggregation)
	g.GET("/chart-data", r.chartData)
	g.GET("/metadata", r.metadata)
}

func (r *analyticsRoutes) aggregation(c echo.Context) error {
	var req FilterQuery
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	agg, err := r.analyticsService.Aggregate(c.Request().Context(), req.toFilter())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, agg)
}

func (r *analyticsRoutes) chartData(c echo.Context) error {
	var req chartQuery
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	series, err := r.analyticsService.ChartSeries(c.Request().Context(), req.toFilter(), req.GroupBy)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, series)
}

func (r *analyticsRoutes) metadata(c echo.Context) error {
	md, err := r.metadataService.Snapshot(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, md)
}
