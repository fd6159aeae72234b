package domain

import (
	"slices"
	"time"
)

// TimeLayout is the ISO-8601 form used for every date-time leaving the service.
const TimeLayout = "2006-01-02T15:04:05.999999Z07:00"

type Severity string

const (
	SeverityDebug    Severity = "DEBUG"
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// Severities lists every level from least to most severe.
var Severities = []Severity{
	SeverityDebug,
	SeverityInfo,
	SeverityWarning,
	SeverityError,
	SeverityCritical,
}

func (s Severity) Valid() bool {
	return slices.Contains(Severities, s)
}

// Rank is the position of s in Severities, -1 when unknown.
func (s Severity) Rank() int {
	return slices.Index(Severities, s)
}

func (s Severity) String() string {
	return string(s)
}

type LogEntry struct {
	ID        int64     `db:"id" json:"id"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
	Message   string    `db:"message" json:"message"`
	Severity  Severity  `db:"severity" json:"severity"`
	Source    string    `db:"source" json:"source"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// LogUpdate is a partial update: nil fields keep their stored value.
type LogUpdate struct {
	Timestamp *time.Time
	Message   *string
	Severity  *Severity
	Source    *string
}

func (u LogUpdate) Empty() bool {
	return u.Timestamp == nil && u.Message == nil && u.Severity == nil && u.Source == nil
}

type LogPage struct {
	Logs       []LogEntry `json:"logs"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

const (
	DefaultPageSize    = 50
	DefaultMaxPageSize = 1000
)

type PageLimits struct {
	Default int `json:"default_page_size"`
	Max     int `json:"max_page_size"`
}

// TotalPages is ceil(total/pageSize), or 1 for an empty result.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
