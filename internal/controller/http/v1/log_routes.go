package httpv1

import (
	"fmt"
	"net/http"

	logginghelper "github.com/Egor213/LogBoard/internal/controller/common/logging"
	"github.com/Egor213/LogBoard/internal/service"
	"github.com/labstack/echo/v4"
)

type logRoutes struct {
	logService service.Log
}

func newLogRoutes(g *echo.Group, ls service.Log) {
	r := &logRoutes{logService: ls}

	g.POST("", r.create)
	g.GET("", r.list)
	g.GET("/:id", r.get)
	g.PUT("/:id", r.update)
	g.PATCH("/:id", r.update)
	g.DELETE("/:id", r.delete)
}

func (r *logRoutes) create(c echo.Context) error {
	var req createLogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	entry, err := r.logService.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}

	logginghelper.LogCreated(entry)
	return c.JSON(http.StatusCreated, entry)
}

func (r *logRoutes) list(c echo.Context) error {
	var req listQuery
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	page, err := r.logService.List(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (r *logRoutes) get(c echo.Context) error {
	var req idRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	entry, err := r.logService.Get(c.Request().Context(), req.ID)
	if err != nil {
		return withResourceID(err, req.ID)
	}
	return c.JSON(http.StatusOK, entry)
}

func (r *logRoutes) update(c echo.Context) error {
	var req updateLogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	entry, err := r.logService.Update(c.Request().Context(), req.ID, req.toUpdate())
	if err != nil {
		return withResourceID(err, req.ID)
	}

	logginghelper.LogUpdated(entry)
	return c.JSON(http.StatusOK, entry)
}

func (r *logRoutes) delete(c echo.Context) error {
	var req idRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := r.logService.Delete(c.Request().Context(), req.ID); err != nil {
		return withResourceID(err, req.ID)
	}

	logginghelper.LogDeleted(req.ID)
	return c.JSON(http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Log %d deleted successfully", req.ID),
	})
}
