package logginghelper

import (
	"github.com/Egor213/LogBoard/internal/domain"
	log "github.com/sirupsen/logrus"
)

func LogCreated(entry domain.LogEntry) {
	log.WithFields(log.Fields{
		"id":       entry.ID,
		"source":   entry.Source,
		"severity": entry.Severity,
	}).Info("Log entry created")
}

func LogUpdated(entry domain.LogEntry) {
	log.WithFields(log.Fields{
		"id":       entry.ID,
		"source":   entry.Source,
		"severity": entry.Severity,
	}).Info("Log entry updated")
}

func LogDeleted(id int64) {
	log.WithField("id", id).Info("Log entry deleted")
}

func LogExported(format string, filter any) {
	log.WithFields(log.Fields{
		"format": format,
		"filter": filter,
	}).Info("Logs exported")
}

func LogFailed(operation string, err error) {
	log.WithFields(log.Fields{
		"operation": operation,
		"error":     err,
	}).Error("Request failed")
}
