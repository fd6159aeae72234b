package service

import (
	"context"
	"errors"
	"time"

	"github.com/Egor213/LogBoard/internal/broker"
	"github.com/Egor213/LogBoard/internal/domain"
	"github.com/Egor213/LogBoard/internal/metrics"
	"github.com/Egor213/LogBoard/internal/repo"
	"github.com/Egor213/LogBoard/internal/repo/repoerrs"
	errorsUtils "github.com/Egor213/LogBoard/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type CreateLogInput struct {
	Timestamp *time.Time
	Message   string
	Severity  domain.Severity
	Source    string
}

type LogService struct {
	logRepo        repo.Log
	counters       *metrics.Counters
	brokerProducer broker.Producer
	txManager      TxManager
	limits         domain.PageLimits
}

func NewLogService(lr repo.Log, cnt *metrics.Counters, p broker.Producer, tm TxManager, limits domain.PageLimits) *LogService {
	if p == nil {
		p = broker.NopProducer{}
	}
	return &LogService{
		logRepo:        lr,
		counters:       cnt,
		brokerProducer: p,
		txManager:      tm,
		limits:         limits,
	}
}

func (s *LogService) Create(ctx context.Context, in CreateLogInput) (domain.LogEntry, error) {
	if err := validateCreate(in); err != nil {
		return domain.LogEntry{}, err
	}

	entry := &domain.LogEntry{
		Timestamp: time.Now().UTC(),
		Message:   in.Message,
		Severity:  in.Severity,
		Source:    in.Source,
	}
	if in.Timestamp != nil {
		entry.Timestamp = *in.Timestamp
	}

	created, err := s.logRepo.Create(ctx, entry)
	if err != nil {
		return domain.LogEntry{}, errorsUtils.WrapPathErr(newStoreError("create log", err))
	}

	s.counters.LogMutations.Inc("create", created.Severity.String())
	s.publish(ctx, broker.NewLogEvent(broker.EventLogCreated, created.ID, &created))
	return created, nil
}

func (s *LogService) Get(ctx context.Context, id int64) (domain.LogEntry, error) {
	if err := validateID(id); err != nil {
		return domain.LogEntry{}, err
	}

	entry, err := s.logRepo.GetByID(ctx, id)
	if errors.Is(err, repoerrs.ErrNotFound) {
		return domain.LogEntry{}, notFound(id)
	}
	if err != nil {
		return domain.LogEntry{}, errorsUtils.WrapPathErr(newStoreError("get log", err))
	}
	return entry, nil
}

func (s *LogService) List(ctx context.Context, in ListLogsInput) (domain.LogPage, error) {
	q, err := BuildLogQuery(in, s.limits)
	if err != nil {
		return domain.LogPage{}, err
	}

	var (
		logs  []domain.LogEntry
		total int
	)
	// The count and the page are read from one snapshot.
	err = s.txManager.Do(ctx, func(ctx context.Context) (err error) {
		logs, total, err = s.logRepo.List(ctx, q)
		return err
	})
	if err != nil {
		return domain.LogPage{}, errorsUtils.WrapPathErr(newStoreError("list logs", err))
	}
	if logs == nil {
		logs = []domain.LogEntry{}
	}

	return domain.LogPage{
		Logs:       logs,
		Total:      total,
		Page:       q.Page.Page,
		PageSize:   q.Page.PageSize,
		TotalPages: domain.TotalPages(total, q.Page.PageSize),
	}, nil
}

// Update applies only the supplied fields. An empty update still refreshes updated_at.
func (s *LogService) Update(ctx context.Context, id int64, upd domain.LogUpdate) (domain.LogEntry, error) {
	if err := validateUpdate(id, upd); err != nil {
		return domain.LogEntry{}, err
	}

	updated, err := s.logRepo.Update(ctx, id, upd)
	if errors.Is(err, repoerrs.ErrNotFound) {
		return domain.LogEntry{}, notFound(id)
	}
	if err != nil {
		return domain.LogEntry{}, errorsUtils.WrapPathErr(newStoreError("update log", err))
	}

	s.counters.LogMutations.Inc("update", updated.Severity.String())
	s.publish(ctx, broker.NewLogEvent(broker.EventLogUpdated, updated.ID, &updated))
	return updated, nil
}

func (s *LogService) Delete(ctx context.Context, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}

	err := s.logRepo.Delete(ctx, id)
	if errors.Is(err, repoerrs.ErrNotFound) {
		return notFound(id)
	}
	if err != nil {
		return errorsUtils.WrapPathErr(newStoreError("delete log", err))
	}

	s.counters.LogMutations.Inc("delete", "")
	s.publish(ctx, broker.NewLogEvent(broker.EventLogDeleted, id, nil))
	return nil
}

// publish only logs failures.
func (s *LogService) publish(ctx context.Context, event broker.LogEvent) {
	value, err := event.Encode()
	if err == nil {
		err = s.brokerProducer.SendMessage(ctx, event.Key(), value)
	}
	if err != nil {
		log.WithFields(log.Fields{
			"event":  event.Type,
			"log_id": event.LogID,
		}).Warnf("Failed to publish log event: %v", err)
	}
}
