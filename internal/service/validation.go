package service

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Egor213/LogBoard/internal/domain"
	"github.com/Egor213/LogBoard/internal/repo/repotypes"
)

const (
	MaxMessageLength = 10000
	MaxSourceLength  = 255
)

func validateText(v *violations, field, value string, maxLen int) {
	switch {
	case strings.TrimSpace(value) == "":
		v.add(field, value, "must not be empty or whitespace")
	case utf8.RuneCountInString(value) > maxLen:
		v.add(field, utf8.RuneCountInString(value), "must be at most "+strconv.Itoa(maxLen)+" characters")
	}
}

func validateSeverity(v *violations, field string, s domain.Severity) {
	if !s.Valid() {
		v.add(field, string(s), "must be one of DEBUG, INFO, WARNING, ERROR, CRITICAL")
	}
}

// validateTimestamp rejects future event times. Zone-less input is parsed in
// the local zone by the transport, so one comparison covers both kinds.
func validateTimestamp(v *violations, ts time.Time) {
	if ts.After(time.Now()) {
		v.add("timestamp", ts.Format(domain.TimeLayout), "must not be in the future")
	}
}

func validateID(id int64) error {
	var v violations
	if id <= 0 {
		v.add("id", id, "must be a positive integer")
	}
	return v.err("invalid log id")
}

func validateCreate(in CreateLogInput) error {
	var v violations
	validateText(&v, "message", in.Message, MaxMessageLength)
	validateText(&v, "source", in.Source, MaxSourceLength)
	validateSeverity(&v, "severity", in.Severity)
	if in.Timestamp != nil {
		validateTimestamp(&v, *in.Timestamp)
	}
	return v.err("invalid log entry")
}

func validateUpdate(id int64, upd domain.LogUpdate) error {
	var v violations
	if id <= 0 {
		v.add("id", id, "must be a positive integer")
	}
	if upd.Message != nil {
		validateText(&v, "message", *upd.Message, MaxMessageLength)
	}
	if upd.Source != nil {
		validateText(&v, "source", *upd.Source, MaxSourceLength)
	}
	if upd.Severity != nil {
		validateSeverity(&v, "severity", *upd.Severity)
	}
	if upd.Timestamp != nil {
		validateTimestamp(&v, *upd.Timestamp)
	}
	return v.err("invalid log update")
}

func validateFilter(v *violations, f repotypes.LogFilter) {
	if f.Severity != "" {
		validateSeverity(v, "severity", f.Severity)
	}
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		v.add("start_date", f.StartDate.Format(domain.TimeLayout), "must not be after end_date")
	}
}

func checkFilter(f repotypes.LogFilter) error {
	var v violations
	validateFilter(&v, f)
	return v.err("invalid filter")
}
