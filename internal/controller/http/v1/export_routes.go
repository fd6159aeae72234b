package httpv1

import (
	"context"
	"io"
	"mime"
	"net/http"

	logginghelper "github.com/Egor213/LogBoard/internal/controller/common/logging"
	"github.com/Egor213/LogBoard/internal/repo/repotypes"
	"github.com/Egor213/LogBoard/internal/service"
	"github.com/labstack/echo/v4"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type exportRoutes struct {
	exportService service.Export
}

func newExportRoutes(g *echo.Group, es service.Export) {
	r := &exportRoutes{exportService: es}

	g.GET("/csv", r.csv)
	g.GET("/xlsx", r.xlsx)
}

// attachmentWriter commits the download headers on the first write, so an
// export that fails before producing output can still answer with JSON.
type attachmentWriter struct {
	c           echo.Context
	contentType string
	filename    string
}

func (w *attachmentWriter) commit() {
	res := w.c.Response()
	if res.Committed {
		return
	}
	res.Header().Set(echo.HeaderContentType, w.contentType)
	res.Header().Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": w.filename}))
	res.WriteHeader(http.StatusOK)
}

func (w *attachmentWriter) Write(p []byte) (int, error) {
	w.commit()
	res := w.c.Response()
	n, err := res.Write(p)
	if err == nil {
		res.Flush()
	}
	return n, err
}

type exportFunc func(ctx context.Context, filter repotypes.LogFilter, w io.Writer) error

func (r *exportRoutes) serve(c echo.Context, format, contentType, filename string, export exportFunc) error {
	var req FilterQuery
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	filter := req.toFilter()
	w := &attachmentWriter{c: c, contentType: contentType, filename: filename}
	if err := export(c.Request().Context(), filter, w); err != nil {
		if c.Response().Committed {
			// Headers and part of the body are gone; only dropping the
			// connection tells the client the download is incomplete.
			logginghelper.LogFailed(format+" export", err)
			panic(http.ErrAbortHandler)
		}
		return err
	}

	w.commit()

	logginghelper.LogExported(format, filter)
	return nil
}

func (r *exportRoutes) csv(c echo.Context) error {
	return r.serve(c, service.FormatCSV, "text/csv; charset=utf-8", service.CSVFilename, r.exportService.ExportCSV)
}

func (r *exportRoutes) xlsx(c echo.Context) error {
	return r.serve(c, service.FormatXLSX, mimeXLSX, service.XLSXFilename, r.exportService.ExportXLSX)
}
