package broker

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Egor213/LogBoard/internal/domain"
)

type Producer interface {
	SendMessage(ctx context.Context, key, value []byte) error
}

type EventType string

const (
	EventLogCreated EventType = "log.created"
	EventLogUpdated EventType = "log.updated"
	EventLogDeleted EventType = "log.deleted"
)

// LogEvent describes a committed change to a log entry. Log is nil for deletions.
type LogEvent struct {
	Type       EventType        `json:"type"`
	LogID      int64            `json:"log_id"`
	Log        *domain.LogEntry `json:"log,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func NewLogEvent(t EventType, id int64, entry *domain.LogEntry) LogEvent {
	return LogEvent{
		Type:       t,
		LogID:      id,
		Log:        entry,
		OccurredAt: time.Now().UTC(),
	}
}

// Key partitions events by log id so changes to one entry stay ordered.
func (e LogEvent) Key() []byte {
	return []byte(strconv.FormatInt(e.LogID, 10))
}

func (e LogEvent) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// NopProducer drops every message. Used when kafka is disabled.
type NopProducer struct{}

func (NopProducer) SendMessage(context.Context, []byte, []byte) error {
	return nil
}
