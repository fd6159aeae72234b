package repotypes

import (
	"math"
	"time"

	"github.com/Egor213/LogBoard/internal/domain"
)

// LogFilter is shared by list, aggregation, chart and export queries.
// Zero values mean "no constraint".
type LogFilter struct {
	Severity  domain.Severity
	Source    string
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type SortField string

const (
	SortByTimestamp SortField = "timestamp"
	SortBySeverity  SortField = "severity"
	SortBySource    SortField = "source"
	SortByMessage   SortField = "message"
)

// SortFields lists the fields a caller may sort by, in display order.
var SortFields = []SortField{SortByTimestamp, SortBySeverity, SortBySource, SortByMessage}

type SortParams struct {
	Field SortField
	Order SortOrder
}

type PageParams struct {
	Page     int
	PageSize int
}

// Offset is the number of rows before the page. It saturates at
// math.MaxInt64, the largest OFFSET PostgreSQL accepts, so a page far past the
// end reads as empty.
func (p PageParams) Offset() uint64 {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	skip := uint64(p.Page - 1)
	if skip > math.MaxInt64/uint64(p.PageSize) {
		return math.MaxInt64
	}
	return skip * uint64(p.PageSize)
}

// LogQuery is the scoped query handed to the store for listing.
type LogQuery struct {
	Filter LogFilter
	Sort   SortParams
	Page   PageParams
}
