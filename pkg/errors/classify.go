package errorsUtils

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

type StoreCategory string

const (
	CategoryConnectionTimeout   StoreCategory = "connection_timeout"
	CategoryConnectionRefused   StoreCategory = "connection_refused"
	CategoryConnectionFailed    StoreCategory = "connection_failed"
	CategoryDuplicateEntry      StoreCategory = "duplicate_entry"
	CategoryConstraintViolation StoreCategory = "constraint_violation"
	CategoryAccessDenied        StoreCategory = "access_denied"
	CategoryQueryError          StoreCategory = "query_error"
	CategoryResourceLimit       StoreCategory = "resource_limit"
	CategoryConcurrencyConflict StoreCategory = "concurrency_conflict"
	CategoryUnknown             StoreCategory = "unknown"
)

var suggestions = map[StoreCategory]string{
	CategoryConnectionTimeout:   "Try again in a moment. If this persists, contact system administrator.",
	CategoryConnectionRefused:   "Check if the database service is running.",
	CategoryConnectionFailed:    "Check database connectivity and try again.",
	CategoryDuplicateEntry:      "Check if a similar record already exists or modify the data to make it unique.",
	CategoryConstraintViolation: "Verify all required fields are provided and data meets format requirements.",
	CategoryAccessDenied:        "Contact system administrator to check database permissions.",
	CategoryQueryError:          "This appears to be a system error. Please contact support.",
	CategoryResourceLimit:       "Try again later or contact system administrator.",
	CategoryConcurrencyConflict: "Try the operation again - this is usually temporary.",
	CategoryUnknown:             "Please try again or contact support if the problem persists.",
}

// Suggestion returns operator-facing advice for the category.
func (c StoreCategory) Suggestion() string {
	if s, ok := suggestions[c]; ok {
		return s
	}
	return suggestions[CategoryUnknown]
}

// ClassifyStoreError maps a persistence error to a diagnostic category.
// SQLSTATE classes win over network errors, which win over message keywords.
func ClassifyStoreError(err error) StoreCategory {
	if err == nil {
		return CategoryUnknown
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if c, ok := classifyPgCode(pgErr.Code); ok {
			return c
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryConnectionTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return CategoryConnectionRefused
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryConnectionTimeout
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return CategoryConnectionFailed
	}

	return classifyMessage(strings.ToLower(err.Error()))
}

func classifyPgCode(code string) (StoreCategory, bool) {
	switch {
	case code == CodeUniqueViolation:
		return CategoryDuplicateEntry, true
	case code == CodeQueryCanceled:
		return CategoryConnectionTimeout, true
	case code == CodeInsufficientPriv:
		return CategoryAccessDenied, true
	case code == "40001", code == "40P01":
		return CategoryConcurrencyConflict, true
	case strings.HasPrefix(code, "08"):
		return CategoryConnectionFailed, true
	case strings.HasPrefix(code, "23"):
		return CategoryConstraintViolation, true
	case strings.HasPrefix(code, "28"):
		return CategoryAccessDenied, true
	case strings.HasPrefix(code, "42"):
		return CategoryQueryError, true
	case strings.HasPrefix(code, "53"), strings.HasPrefix(code, "54"):
		return CategoryResourceLimit, true
	}
	return "", false
}

var keywordCategories = []struct {
	category StoreCategory
	keywords []string
}{
	{CategoryConnectionTimeout, []string{"timeout", "timed out"}},
	{CategoryConnectionRefused, []string{"refused"}},
	{CategoryConnectionFailed, []string{"connection", "connect"}},
	{CategoryDuplicateEntry, []string{"unique", "duplicate"}},
	{CategoryConstraintViolation, []string{"constraint", "violates"}},
	{CategoryAccessDenied, []string{"permission", "denied", "unauthorized"}},
	{CategoryQueryError, []string{"syntax", "malformed", "parse"}},
	{CategoryResourceLimit, []string{"disk", "memory", "quota", "too many"}},
	{CategoryConcurrencyConflict, []string{"deadlock", "lock", "serialization"}},
}

func classifyMessage(msg string) StoreCategory {
	for _, kc := range keywordCategories {
		for _, kw := range kc.keywords {
			if strings.Contains(msg, kw) {
				return kc.category
			}
		}
	}
	return CategoryUnknown
}
