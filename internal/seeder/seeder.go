package seeder

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Egor213/LogBoard/internal/domain"
	"github.com/Egor213/LogBoard/internal/repo"
	errorsUtils "github.com/Egor213/LogBoard/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultCount    = 1000
	DefaultDaysBack = 30
	progressEvery   = 100
)

type weightedSeverity struct {
	severity domain.Severity
	weight   int
}

var severityWeights = []weightedSeverity{
	{domain.SeverityDebug, 30},
	{domain.SeverityInfo, 40},
	{domain.SeverityWarning, 20},
	{domain.SeverityError, 8},
	{domain.SeverityCritical, 2},
}

var Sources = []string{
	"api-server", "web-frontend", "database", "authentication", "payment-gateway",
	"email-service", "file-storage", "analytics", "monitoring", "background-jobs",
	"cache-service", "user-service", "notification-service", "reporting", "security",
}

// %d placeholders are filled with a random number.
var messages = map[domain.Severity][]string{
	domain.SeverityDebug: {
		"Database connection pool initialized",
		"Cache warming started",
		"Processing request with ID: %d",
		"User authentication token validated",
		"Memory usage: %dMB",
		"Request processing time: %dms",
	},
	domain.SeverityInfo: {
		"Application started successfully",
		"New user registration: user_%d",
		"Scheduled backup completed",
		"System health check passed",
		"Session created for user: %d",
		"Report generated successfully",
	},
	domain.SeverityWarning: {
		"High memory usage detected: %dMB",
		"Slow database query detected: %dms",
		"Disk space running low: %d%% used",
		"Connection timeout occurred",
		"Queue size growing: %d items",
		"Deprecated API endpoint accessed",
	},
	domain.SeverityError: {
		"Database connection failed",
		"Authentication failed for user: %d",
		"Payment processing error: transaction_%d",
		"API request failed with status: %d",
		"Unable to connect to external service",
	},
	domain.SeverityCritical: {
		"Database server is down",
		"System out of memory",
		"Multiple service failures detected",
		"System overload: %d concurrent users",
		"Backup restoration failed",
	},
}

type Seeder struct {
	logRepo repo.Log
	rnd     *rand.Rand
	now     func() time.Time
}

func New(lr repo.Log, seed uint64) *Seeder {
	return &Seeder{
		logRepo: lr,
		rnd:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:     time.Now,
	}
}

func (s *Seeder) pickSeverity() domain.Severity {
	n := s.rnd.IntN(100)
	for _, w := range severityWeights {
		if n < w.weight {
			return w.severity
		}
		n -= w.weight
	}
	return domain.SeverityInfo
}

// Sample builds a random entry whose timestamp falls within the last daysBack days.
func (s *Seeder) Sample(daysBack int) domain.LogEntry {
	span := time.Duration(daysBack) * 24 * time.Hour
	severity := s.pickSeverity()

	tmpl := messages[severity][s.rnd.IntN(len(messages[severity]))]
	msg := tmpl
	if strings.Contains(tmpl, "%d") {
		msg = fmt.Sprintf(tmpl, 1+s.rnd.IntN(9999))
	}

	return domain.LogEntry{
		Timestamp: s.now().UTC().Add(-time.Duration(s.rnd.Int64N(int64(span) + 1))),
		Message:   msg,
		Severity:  severity,
		Source:    Sources[s.rnd.IntN(len(Sources))],
	}
}

// Seed inserts count sample entries and returns how many were created.
func (s *Seeder) Seed(ctx context.Context, count, daysBack int) (int, error) {
	for i := 0; i < count; i++ {
		entry := s.Sample(daysBack)
		if _, err := s.logRepo.Create(ctx, &entry); err != nil {
			return i, errorsUtils.WrapPathErr(err)
		}
		if (i+1)%progressEvery == 0 {
			log.Infof("Inserted %d/%d records...", i+1, count)
		}
	}
	return count, nil
}
