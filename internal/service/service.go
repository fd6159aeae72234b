package service

import (
	"context"
	"io"

	"github.com/Egor213/LogBoard/internal/broker"
	"github.com/Egor213/LogBoard/internal/domain"
	"github.com/Egor213/LogBoard/internal/metrics"
	"github.com/Egor213/LogBoard/internal/repo"
	"github.com/Egor213/LogBoard/internal/repo/repotypes"
)

type Log interface {
	Create(ctx context.Context, in CreateLogInput) (domain.LogEntry, error)
	Get(ctx context.Context, id int64) (domain.LogEntry, error)
	List(ctx context.Context, in ListLogsInput) (domain.LogPage, error)
	Update(ctx context.Context, id int64, upd domain.LogUpdate) (domain.LogEntry, error)
	Delete(ctx context.Context, id int64) error
}

type Analytics interface {
	Aggregate(ctx context.Context, filter repotypes.LogFilter) (domain.Aggregation, error)
	ChartSeries(ctx context.Context, filter repotypes.LogFilter, groupBy string) (domain.ChartSeries, error)
}

type Export interface {
	ExportCSV(ctx context.Context, filter repotypes.LogFilter, w io.Writer) error
	ExportXLSX(ctx context.Context, filter repotypes.LogFilter, w io.Writer) error
}

type Metadata interface {
	Snapshot(ctx context.Context) (domain.Metadata, error)
}

// TxManager runs fn in one database transaction. Repositories pick the
// transaction up from ctx.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type Services struct {
	Log
	Analytics
	Export
	Metadata
}

type ServicesDependencies struct {
	Repos          *repo.Repositories
	TxManager      TxManager
	Counters       *metrics.Counters
	BrokerProducer broker.Producer
	PageLimits     domain.PageLimits
}

func NewServices(deps ServicesDependencies) *Services {
	return &Services{
		Log:       NewLogService(deps.Repos.Log, deps.Counters, deps.BrokerProducer, deps.TxManager, deps.PageLimits),
		Analytics: NewAnalyticsService(deps.Repos.Analytics, deps.TxManager),
		Export:    NewExportService(deps.Repos.Log, deps.Counters),
		Metadata:  NewMetadataService(deps.Repos.Analytics, deps.TxManager, deps.PageLimits),
	}
}
