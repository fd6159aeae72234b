package pgdb

import (
	"context"
	"time"

	"github.com/Egor213/LogBoard/internal/domain"
	"github.com/Egor213/LogBoard/internal/repo/repotypes"
	errorsUtils "github.com/Egor213/LogBoard/pkg/errors"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const dateLayout = "2006-01-02"

func (r *LogRepo) CountTotal(ctx context.Context, filter repotypes.LogFilter) (int, error) {
	sql, args, err := applyFilters(r.Builder.Select("COUNT(*)").From(logsTable), filter).ToSql()
	if err != nil {
		return 0, errorsUtils.WrapPathErr(err)
	}

	var total int
	err = r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).QueryRow(ctx, sql, args...).Scan(&total)
	if err != nil {
		return 0, errorsUtils.WrapPathErr(err)
	}
	return total, nil
}

func (r *LogRepo) CountBySeverity(ctx context.Context, filter repotypes.LogFilter) ([]domain.SeverityCount, error) {
	query := applyFilters(r.Builder.Select("severity", "COUNT(*) AS count_logs").From(logsTable), filter).
		GroupBy("severity").
		OrderBy(severityRankExpr)

	return collectGrouped(ctx, r, query, func(row pgx.CollectableRow) (domain.SeverityCount, error) {
		var sc domain.SeverityCount
		var severity string
		err := row.Scan(&severity, &sc.Count)
		sc.Severity = domain.Severity(severity)
		return sc, err
	})
}

// CountBySource returns the busiest sources first, at most limit of them.
// Sources with equal counts keep the store's order.
func (r *LogRepo) CountBySource(ctx context.Context, filter repotypes.LogFilter, limit uint64) ([]domain.SourceCount, error) {
	query := applyFilters(r.Builder.Select("source", "COUNT(*) AS count_logs").From(logsTable), filter).
		GroupBy("source").
		OrderBy("count_logs DESC").
		Limit(limit)

	return collectGrouped(ctx, r, query, func(row pgx.CollectableRow) (domain.SourceCount, error) {
		var sc domain.SourceCount
		err := row.Scan(&sc.Source, &sc.Count)
		return sc, err
	})
}

func (r *LogRepo) CountByDate(ctx context.Context, filter repotypes.LogFilter) ([]domain.DateCount, error) {
	query := applyFilters(r.Builder.Select("DATE("+colTimestamp+") AS day", "COUNT(*) AS count_logs").From(logsTable), filter).
		GroupBy("day").
		OrderBy("day")

	return collectGrouped(ctx, r, query, func(row pgx.CollectableRow) (domain.DateCount, error) {
		var dc domain.DateCount
		var day time.Time
		err := row.Scan(&day, &dc.Count)
		dc.Date = day.Format(dateLayout)
		return dc, err
	})
}

// CountByBucket groups matching entries by (bucket start, severity), ordered by bucket.
func (r *LogRepo) CountByBucket(ctx context.Context, filter repotypes.LogFilter, bucket domain.Bucket) ([]domain.BucketCount, error) {
	query := applyFilters(r.Builder.Select(bucketExpression(bucket)+" AS bucket", "severity", "COUNT(*) AS count_logs").From(logsTable), filter).
		GroupBy("bucket", "severity").
		OrderBy("bucket", severityRankExpr)

	return collectGrouped(ctx, r, query, func(row pgx.CollectableRow) (domain.BucketCount, error) {
		var bc domain.BucketCount
		var severity string
		err := row.Scan(&bc.Start, &severity, &bc.Count)
		bc.Severity = domain.Severity(severity)
		return bc, err
	})
}

func (r *LogRepo) DistinctSources(ctx context.Context) ([]string, error) {
	query := r.Builder.Select("DISTINCT source").From(logsTable).OrderBy("source")

	return collectGrouped(ctx, r, query, func(row pgx.CollectableRow) (string, error) {
		var source string
		err := row.Scan(&source)
		return source, err
	})
}

// TimestampRange returns nil bounds when the table is empty.
func (r *LogRepo) TimestampRange(ctx context.Context) (earliest, latest *time.Time, err error) {
	sql, args, err := r.Builder.
		Select("MIN("+colTimestamp+")", "MAX("+colTimestamp+")").
		From(logsTable).
		ToSql()
	if err != nil {
		return nil, nil, errorsUtils.WrapPathErr(err)
	}

	err = r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).QueryRow(ctx, sql, args...).Scan(&earliest, &latest)
	if err != nil {
		return nil, nil, errorsUtils.WrapPathErr(err)
	}
	return earliest, latest, nil
}

func collectGrouped[T any](ctx context.Context, r *LogRepo, query sq.SelectBuilder, scan pgx.RowToFunc[T]) ([]T, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}

	rows, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}

	result, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}
	return result, nil
}
