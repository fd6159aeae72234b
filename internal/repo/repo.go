package repo

import (
	"context"
	"time"

	"github.com/Egor213/LogBoard/internal/domain"
	"github.com/Egor213/LogBoard/internal/repo/pgdb"
	"github.com/Egor213/LogBoard/internal/repo/repotypes"
	"github.com/Egor213/LogBoard/pkg/postgres"
)

type Log interface {
	Create(ctx context.Context, entry *domain.LogEntry) (domain.LogEntry, error)
	GetByID(ctx context.Context, id int64) (domain.LogEntry, error)
	List(ctx context.Context, q repotypes.LogQuery) ([]domain.LogEntry, int, error)
	Update(ctx context.Context, id int64, upd domain.LogUpdate) (domain.LogEntry, error)
	Delete(ctx context.Context, id int64) error
	StreamLogs(ctx context.Context, filter repotypes.LogFilter, fn func(domain.LogEntry) error) error
}

type Analytics interface {
	CountTotal(ctx context.Context, filter repotypes.LogFilter) (int, error)
	CountBySeverity(ctx context.Context, filter repotypes.LogFilter) ([]domain.SeverityCount, error)
	CountBySource(ctx context.Context, filter repotypes.LogFilter, limit uint64) ([]domain.SourceCount, error)
	CountByDate(ctx context.Context, filter repotypes.LogFilter) ([]domain.DateCount, error)
	CountByBucket(ctx context.Context, filter repotypes.LogFilter, bucket domain.Bucket) ([]domain.BucketCount, error)
	DistinctSources(ctx context.Context) ([]string, error)
	TimestampRange(ctx context.Context) (earliest, latest *time.Time, err error)
}

type Repositories struct {
	Log
	Analytics
}

func NewRepositories(pg *postgres.Postgres) *Repositories {
	logRepo := pgdb.NewLogRepo(pg)
	return &Repositories{
		Log:       logRepo,
		Analytics: logRepo,
	}
}
