package httpv1

import (
	"strconv"

	"github.com/Egor213/LogBoard/internal/domain"
	"github.com/Egor213/LogBoard/internal/repo/repotypes"
	"github.com/Egor213/LogBoard/internal/service"
)

type createLogRequest struct {
	Timestamp *flexTime `json:"timestamp"`
	Message   string    `json:"message" validate:"required"`
	Severity  string    `json:"severity" validate:"required,oneof=DEBUG INFO WARNING ERROR CRITICAL"`
	Source    string    `json:"source" validate:"required"`
}

func (r createLogRequest) toInput() service.CreateLogInput {
	return service.CreateLogInput{
		Timestamp: r.Timestamp.Ptr(),
		Message:   r.Message,
		Severity:  domain.Severity(r.Severity),
		Source:    r.Source,
	}
}

type updateLogRequest struct {
	ID        int64     `param:"id" json:"-"`
	Timestamp *flexTime `json:"timestamp"`
	Message   *string   `json:"message"`
	Severity  *string   `json:"severity" validate:"omitempty,oneof=DEBUG INFO WARNING ERROR CRITICAL"`
	Source    *string   `json:"source"`
}

func (r updateLogRequest) toUpdate() domain.LogUpdate {
	upd := domain.LogUpdate{
		Timestamp: r.Timestamp.Ptr(),
		Message:   r.Message,
		Source:    r.Source,
	}
	if r.Severity != nil {
		s := domain.Severity(*r.Severity)
		upd.Severity = &s
	}
	return upd
}

type idRequest struct {
	ID int64 `param:"id"`
}

type FilterQuery struct {
	Severity  string   `query:"severity" validate:"omitempty,oneof=DEBUG INFO WARNING ERROR CRITICAL"`
	Source    string   `query:"source"`
	StartDate flexTime `query:"start_date"`
	EndDate   flexTime `query:"end_date"`
	Search    string   `query:"search"`
}

func (q FilterQuery) toFilter() repotypes.LogFilter {
	return repotypes.LogFilter{
		Severity:  domain.Severity(q.Severity),
		Source:    q.Source,
		StartDate: q.StartDate.Ptr(),
		EndDate:   q.EndDate.Ptr(),
		Search:    q.Search,
	}
}

// optInt remembers whether the query param was present at all.
type optInt struct {
	value int
	set   bool
}

func (o *optInt) UnmarshalParam(param string) error {
	v, err := strconv.Atoi(param)
	if err != nil {
		return err
	}
	o.value, o.set = v, true
	return nil
}

func (o optInt) ptr() *int {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

type listQuery struct {
	FilterQuery
	SortBy    string `query:"sort_by"`
	SortOrder string `query:"sort_order"`
	Page      optInt `query:"page"`
	PageSize  optInt `query:"page_size"`
}

func (q listQuery) toInput() service.ListLogsInput {
	return service.ListLogsInput{
		Filter:    q.toFilter(),
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
		Page:      q.Page.ptr(),
		PageSize:  q.PageSize.ptr(),
	}
}

type chartQuery struct {
	FilterQuery
	GroupBy string `query:"group_by"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type infoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Health  string `json:"health"`
	Metrics string `json:"metrics"`
}
