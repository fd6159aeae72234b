package httpv1

import (
	"errors"
	"reflect"
	"strings"

	"github.com/Egor213/LogBoard/internal/service"
	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// RequestValidator type-checks bound DTOs before they reach the services.
// Business rules stay in the service layer.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Validate(i any) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	vErr := &service.ValidationError{Message: "invalid request"}
	for _, fe := range fieldErrs {
		vErr.Violations = append(vErr.Violations, service.FieldViolation{
			Field:  fe.Field(),
			Value:  fe.Value(),
			Reason: describeTag(fe),
		})
	}
	return vErr
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return "failed " + fe.Tag() + " check"
}

// bindAndValidate binds path, query and body into req. Type errors are
// reported as validation failures.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		reason := err.Error()
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			reason = httpErrorMessage(httpErr)
		}
		return &service.ValidationError{
			Message:    "invalid request",
			Violations: []service.FieldViolation{{Field: "request", Reason: reason}},
		}
	}
	return c.Validate(req)
}
