package domain

import (
	"encoding/json"
	"time"
)

type SeverityCount struct {
	Severity Severity `json:"severity"`
	Count    int      `json:"count"`
}

type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Aggregation struct {
	TotalLogs      int             `json:"total_logs"`
	DateRangeStart *time.Time      `json:"date_range_start"`
	DateRangeEnd   *time.Time      `json:"date_range_end"`
	BySeverity     []SeverityCount `json:"by_severity"`
	BySource       []SourceCount   `json:"by_source"`
	ByDate         []DateCount     `json:"by_date"`
}

type Bucket string

const (
	BucketHour  Bucket = "hour"
	BucketDay   Bucket = "day"
	BucketWeek  Bucket = "week"
	BucketMonth Bucket = "month"
)

// ParseBucket falls back to day for anything it does not recognise.
func ParseBucket(s string) Bucket {
	switch b := Bucket(s); b {
	case BucketHour, BucketDay, BucketWeek, BucketMonth:
		return b
	}
	return BucketDay
}

// BucketCount is one (bucket start, severity) group as read from the store.
type BucketCount struct {
	Start    time.Time
	Severity Severity
	Count    int
}

type ChartPoint struct {
	Timestamp string           `json:"timestamp"`
	Total     int              `json:"total"`
	Counts    map[Severity]int `json:"-"`
}

type ChartSeries struct {
	Data      []ChartPoint       `json:"data"`
	GroupBy   Bucket             `json:"group_by"`
	StartDate *time.Time         `json:"start_date"`
	EndDate   *time.Time         `json:"end_date"`
	Filters   map[string]*string `json:"filters"`
}

type DateRange struct {
	Earliest *time.Time `json:"earliest"`
	Latest   *time.Time `json:"latest"`
}

type Metadata struct {
	SeverityLevels []Severity       `json:"severity_levels"`
	Sources        []string         `json:"sources"`
	DateRange      DateRange        `json:"date_range"`
	SeverityStats  map[Severity]int `json:"severity_stats"`
	TotalLogs      int              `json:"total_logs"`
	SortFields     []string         `json:"sort_fields"`
	Pagination     PageLimits       `json:"pagination"`
}

func NewChartPoint(start time.Time) ChartPoint {
	return ChartPoint{
		Timestamp: start.Format(TimeLayout),
		Counts:    make(map[Severity]int, len(Severities)),
	}
}

// Add records count entries of severity s in the point.
func (p *ChartPoint) Add(s Severity, count int) {
	p.Counts[s] += count
	p.Total += count
}

func (p ChartPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Timestamp string `json:"timestamp"`
		Total     int    `json:"total"`
		Debug     int    `json:"DEBUG"`
		Info      int    `json:"INFO"`
		Warning   int    `json:"WARNING"`
		Error     int    `json:"ERROR"`
		Critical  int    `json:"CRITICAL"`
	}{
		Timestamp: p.Timestamp,
		Total:     p.Total,
		Debug:     p.Counts[SeverityDebug],
		Info:      p.Counts[SeverityInfo],
		Warning:   p.Counts[SeverityWarning],
		Error:     p.Counts[SeverityError],
		Critical:  p.Counts[SeverityCritical],
	})
}
