package service

import (
	"context"
	"time"

	"github.com/Egor213/LogBoard/internal/domain"
	"github.com/Egor213/LogBoard/internal/repo"
	"github.com/Egor213/LogBoard/internal/repo/repotypes"
	errorsUtils "github.com/Egor213/LogBoard/pkg/errors"
	"github.com/samber/lo"
)

const TopSourcesLimit = 10

type AnalyticsService struct {
	analyticsRepo repo.Analytics
	txManager     TxManager
}

func NewAnalyticsService(ar repo.Analytics, tm TxManager) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: ar,
		txManager:     tm,
	}
}

// Aggregate counts matching entries by severity, source and day. Free text
// search does not apply to dashboard figures.
func (s *AnalyticsService) Aggregate(ctx context.Context, filter repotypes.LogFilter) (domain.Aggregation, error) {
	if err := checkFilter(filter); err != nil {
		return domain.Aggregation{}, err
	}
	filter.Search = ""

	agg := domain.Aggregation{
		DateRangeStart: filter.StartDate,
		DateRangeEnd:   filter.EndDate,
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		if agg.TotalLogs, err = s.analyticsRepo.CountTotal(ctx, filter); err != nil {
			return err
		}
		if agg.BySeverity, err = s.analyticsRepo.CountBySeverity(ctx, filter); err != nil {
			return err
		}
		if agg.BySource, err = s.analyticsRepo.CountBySource(ctx, filter, TopSourcesLimit); err != nil {
			return err
		}
		agg.ByDate, err = s.analyticsRepo.CountByDate(ctx, filter)
		return err
	})
	if err != nil {
		return domain.Aggregation{}, errorsUtils.WrapPathErr(newStoreError("aggregation", err))
	}

	agg.BySeverity = lo.Ternary(agg.BySeverity == nil, []domain.SeverityCount{}, agg.BySeverity)
	agg.BySource = lo.Ternary(agg.BySource == nil, []domain.SourceCount{}, agg.BySource)
	agg.ByDate = lo.Ternary(agg.ByDate == nil, []domain.DateCount{}, agg.ByDate)
	return agg, nil
}

// ChartSeries returns one point per non-empty bucket, oldest first, with every
// severity present in the point and missing ones at zero.
func (s *AnalyticsService) ChartSeries(ctx context.Context, filter repotypes.LogFilter, groupBy string) (domain.ChartSeries, error) {
	if err := checkFilter(filter); err != nil {
		return domain.ChartSeries{}, err
	}
	filter.Search = ""
	bucket := domain.ParseBucket(groupBy)

	counts, err := s.analyticsRepo.CountByBucket(ctx, filter, bucket)
	if err != nil {
		return domain.ChartSeries{}, errorsUtils.WrapPathErr(newStoreError("chart data", err))
	}

	return domain.ChartSeries{
		Data:      buildChartPoints(counts),
		GroupBy:   bucket,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Filters: map[string]*string{
			"severity": lo.EmptyableToPtr(filter.Severity.String()),
			"source":   lo.EmptyableToPtr(filter.Source),
		},
	}, nil
}

// buildChartPoints folds rows ordered by bucket start into points.
func buildChartPoints(counts []domain.BucketCount) []domain.ChartPoint {
	points := []domain.ChartPoint{}
	var current time.Time
	for _, c := range counts {
		if len(points) == 0 || !c.Start.Equal(current) {
			current = c.Start
			points = append(points, domain.NewChartPoint(c.Start))
		}
		points[len(points)-1].Add(c.Severity, c.Count)
	}
	return points
}
