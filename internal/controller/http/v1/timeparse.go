package httpv1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Zone-less layouts are read in the server's local zone.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", s)
}

// flexTime accepts RFC 3339 and zone-less ISO-8601 date-times in query
// params and JSON bodies.
type flexTime struct {
	time.Time
}

func (f *flexTime) UnmarshalParam(param string) error {
	t, err := parseTimestamp(param)
	if err != nil {
		return err
	}
	f.Time = t
	return nil
}

func (f *flexTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("datetime must be a string")
	}
	return f.UnmarshalParam(s)
}

// Ptr is nil when the value was never set.
func (f *flexTime) Ptr() *time.Time {
	if f == nil || f.IsZero() {
		return nil
	}
	t := f.Time
	return &t
}
