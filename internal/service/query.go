package service

import (
	"strconv"
	"strings"

	"github.com/Egor213/LogBoard/internal/domain"
	"github.com/Egor213/LogBoard/internal/repo/repotypes"
	"github.com/samber/lo"
)

// ListLogsInput carries raw list parameters. Nil pointers and empty strings
// take the defaults.
type ListLogsInput struct {
	Filter    repotypes.LogFilter
	SortBy    string
	SortOrder string
	Page      *int
	PageSize  *int
}

// BuildLogQuery validates list parameters and turns them into a scoped query.
// All violations are reported together. An unknown sort_by silently sorts by
// timestamp while a bad sort_order is rejected; clients depend on both.
func BuildLogQuery(in ListLogsInput, limits domain.PageLimits) (repotypes.LogQuery, error) {
	var v violations

	validateFilter(&v, in.Filter)

	page := 1
	if in.Page != nil {
		page = *in.Page
		if page < 1 {
			v.add("page", page, "must be at least 1")
		}
	}

	pageSize := limits.Default
	if in.PageSize != nil {
		pageSize = *in.PageSize
		switch {
		case pageSize < 1:
			v.add("page_size", pageSize, "must be at least 1")
		case pageSize > limits.Max:
			v.add("page_size", pageSize, "must be at most "+strconv.Itoa(limits.Max))
		}
	}

	order := repotypes.SortDesc
	if in.SortOrder != "" {
		switch o := repotypes.SortOrder(strings.ToLower(in.SortOrder)); o {
		case repotypes.SortAsc, repotypes.SortDesc:
			order = o
		default:
			v.add("sort_order", in.SortOrder, "must be asc or desc")
		}
	}

	if err := v.err("invalid query parameters"); err != nil {
		return repotypes.LogQuery{}, err
	}

	return repotypes.LogQuery{
		Filter: in.Filter,
		Sort: repotypes.SortParams{
			Field: parseSortField(in.SortBy),
			Order: order,
		},
		Page: repotypes.PageParams{
			Page:     page,
			PageSize: pageSize,
		},
	}, nil
}

func parseSortField(s string) repotypes.SortField {
	f := repotypes.SortField(strings.ToLower(s))
	if lo.Contains(repotypes.SortFields, f) {
		return f
	}
	return repotypes.SortByTimestamp
}
