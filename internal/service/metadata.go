package service

import (
	"context"

	"github.com/Egor213/LogBoard/internal/domain"
	"github.com/Egor213/LogBoard/internal/repo"
	"github.com/Egor213/LogBoard/internal/repo/repotypes"
	errorsUtils "github.com/Egor213/LogBoard/pkg/errors"
	"github.com/samber/lo"
)

type MetadataService struct {
	analyticsRepo repo.Analytics
	txManager     TxManager
	limits        domain.PageLimits
}

func NewMetadataService(ar repo.Analytics, tm TxManager, limits domain.PageLimits) *MetadataService {
	return &MetadataService{
		analyticsRepo: ar,
		txManager:     tm,
		limits:        limits,
	}
}

// Snapshot describes the whole table for dashboard controls. It is computed
// fresh in one transaction on every call.
func (s *MetadataService) Snapshot(ctx context.Context) (domain.Metadata, error) {
	md := domain.Metadata{
		SeverityLevels: domain.Severities,
		SortFields: lo.Map(repotypes.SortFields, func(f repotypes.SortField, _ int) string {
			return string(f)
		}),
		Pagination: s.limits,
	}

	var bySeverity []domain.SeverityCount
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		all := repotypes.LogFilter{}
		if md.Sources, err = s.analyticsRepo.DistinctSources(ctx); err != nil {
			return err
		}
		if md.DateRange.Earliest, md.DateRange.Latest, err = s.analyticsRepo.TimestampRange(ctx); err != nil {
			return err
		}
		if bySeverity, err = s.analyticsRepo.CountBySeverity(ctx, all); err != nil {
			return err
		}
		md.TotalLogs, err = s.analyticsRepo.CountTotal(ctx, all)
		return err
	})
	if err != nil {
		return domain.Metadata{}, errorsUtils.WrapPathErr(newStoreError("metadata", err))
	}

	if md.Sources == nil {
		md.Sources = []string{}
	}
	md.SeverityStats = lo.SliceToMap(bySeverity, func(c domain.SeverityCount) (domain.Severity, int) {
		return c.Severity, c.Count
	})
	return md, nil
}
