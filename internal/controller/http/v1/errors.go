package httpv1

import (
	"errors"
	"fmt"
	"net/http"

	logginghelper "github.com/Egor213/LogBoard/internal/controller/common/logging"
	"github.com/Egor213/LogBoard/internal/service"
	"github.com/labstack/echo/v4"
)

const (
	CodeInternal   = 1000
	CodeValidation = 1001
	CodeNotFound   = 2001
	CodeStore      = 3001
)

type errorBody struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Details any    `json:"details,omitempty"`
}

type errorResponse struct {
	Error     errorBody `json:"error"`
	Success   bool      `json:"success"`
	RequestID string    `json:"request_id,omitempty"`
}

func httpErrorMessage(he *echo.HTTPError) string {
	if msg, ok := he.Message.(string); ok {
		return msg
	}
	return fmt.Sprint(he.Message)
}

// toErrorResponse maps service errors to a status and envelope.
func toErrorResponse(err error) (int, errorBody) {
	var (
		vErr    *service.ValidationError
		sErr    *service.StoreError
		httpErr *echo.HTTPError
	)

	switch {
	case errors.As(err, &vErr):
		return http.StatusUnprocessableEntity, errorBody{
			Message: vErr.Message,
			Code:    CodeValidation,
			Details: map[string]any{"violations": vErr.Violations},
		}
	case errors.Is(err, service.ErrLogNotFound):
		var details any
		if id, ok := notFoundID(err); ok {
			details = map[string]any{"resource_id": id}
		}
		return http.StatusNotFound, errorBody{
			Message: "Log entry not found",
			Code:    CodeNotFound,
			Details: details,
		}
	case errors.As(err, &sErr):
		return http.StatusInternalServerError, errorBody{
			Message: fmt.Sprintf("Database error during %s", sErr.Operation),
			Code:    CodeStore,
			Details: map[string]any{
				"operation":  sErr.Operation,
				"category":   sErr.Category,
				"suggestion": sErr.Category.Suggestion(),
			},
		}
	case errors.As(err, &httpErr):
		return httpErr.Code, errorBody{
			Message: httpErrorMessage(httpErr),
			Code:    CodeInternal,
		}
	}

	return http.StatusInternalServerError, errorBody{
		Message: "An unexpected error occurred",
		Code:    CodeInternal,
	}
}

func notFoundID(err error) (string, bool) {
	var idErr *notFoundError
	if errors.As(err, &idErr) {
		return idErr.id, true
	}
	return "", false
}

// notFoundError attaches the requested id to a not found error.
type notFoundError struct {
	id  string
	err error
}

func (e *notFoundError) Error() string { return e.err.Error() }
func (e *notFoundError) Unwrap() error { return e.err }

func withResourceID(err error, id int64) error {
	if errors.Is(err, service.ErrLogNotFound) {
		return &notFoundError{id: fmt.Sprint(id), err: err}
	}
	return err
}

// ErrorHandler renders every error returned by a handler or middleware as
// the JSON envelope. Reporting is left to the request logger, and a response
// that is already written is left alone.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := toErrorResponse(err)

	resp := errorResponse{
		Error:     body,
		Success:   false,
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, resp)
	}
	if writeErr != nil {
		logginghelper.LogFailed("write error response", writeErr)
	}
}
