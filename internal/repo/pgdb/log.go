package pgdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Egor213/LogBoard/internal/domain"
	"github.com/Egor213/LogBoard/internal/repo/repoerrs"
	"github.com/Egor213/LogBoard/internal/repo/repotypes"
	errorsUtils "github.com/Egor213/LogBoard/pkg/errors"
	"github.com/Egor213/LogBoard/pkg/postgres"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

type LogRepo struct {
	*postgres.Postgres
}

func NewLogRepo(pg *postgres.Postgres) *LogRepo {
	return &LogRepo{pg}
}

func returningLogColumns() string {
	return "RETURNING " + strings.Join(logColumns, ", ")
}

func (r *LogRepo) Create(ctx context.Context, entry *domain.LogEntry) (domain.LogEntry, error) {
	sql, args, err := r.Builder.
		Insert(logsTable).
		Columns(colTimestamp, "message", "severity", "source").
		Values(entry.Timestamp, entry.Message, string(entry.Severity), entry.Source).
		Suffix(returningLogColumns()).
		ToSql()
	if err != nil {
		return domain.LogEntry{}, errorsUtils.WrapPathErr(err)
	}

	rows, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Query(ctx, sql, args...)
	if err != nil {
		if errorsUtils.IsUniqueViolation(err) {
			return domain.LogEntry{}, errorsUtils.WrapPathErr(fmt.Errorf("%w: %w", repoerrs.ErrAlreadyExists, err))
		}
		return domain.LogEntry{}, errorsUtils.WrapPathErr(err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.LogEntry])
	if err != nil {
		return domain.LogEntry{}, errorsUtils.WrapPathErr(err)
	}
	return created, nil
}

func (r *LogRepo) GetByID(ctx context.Context, id int64) (domain.LogEntry, error) {
	sql, args, err := r.Builder.
		Select(logColumns...).
		From(logsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.LogEntry{}, errorsUtils.WrapPathErr(err)
	}

	rows, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Query(ctx, sql, args...)
	if err != nil {
		return domain.LogEntry{}, errorsUtils.WrapPathErr(err)
	}

	entry, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.LogEntry])
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LogEntry{}, repoerrs.ErrNotFound
	}
	if err != nil {
		return domain.LogEntry{}, errorsUtils.WrapPathErr(err)
	}
	return entry, nil
}

// List returns one page of matching entries and the total match count.
func (r *LogRepo) List(ctx context.Context, q repotypes.LogQuery) ([]domain.LogEntry, int, error) {
	countSql, countArgs, err := applyFilters(r.Builder.Select("COUNT(*)").From(logsTable), q.Filter).ToSql()
	if err != nil {
		return nil, 0, errorsUtils.WrapPathErr(err)
	}

	db := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool)

	var total int
	if err := db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, errorsUtils.WrapPathErr(err)
	}

	query := applyFilters(r.Builder.Select(logColumns...).From(logsTable), q.Filter).
		OrderBy(BuildSortExpression(q.Sort)).
		Offset(q.Page.Offset()).
		Limit(uint64(q.Page.PageSize))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, errorsUtils.WrapPathErr(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, errorsUtils.WrapPathErr(err)
	}

	logs, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.LogEntry])
	if err != nil {
		return nil, 0, errorsUtils.WrapPathErr(err)
	}

	return logs, total, nil
}

// Update changes only the supplied fields; updated_at is always refreshed.
func (r *LogRepo) Update(ctx context.Context, id int64, upd domain.LogUpdate) (domain.LogEntry, error) {
	query := r.Builder.
		Update(logsTable).
		Set("updated_at", sq.Expr("now()"))

	if upd.Timestamp != nil {
		query = query.Set(colTimestamp, *upd.Timestamp)
	}
	if upd.Message != nil {
		query = query.Set("message", *upd.Message)
	}
	if upd.Severity != nil {
		query = query.Set("severity", string(*upd.Severity))
	}
	if upd.Source != nil {
		query = query.Set("source", *upd.Source)
	}

	sql, args, err := query.
		Where(sq.Eq{"id": id}).
		Suffix(returningLogColumns()).
		ToSql()
	if err != nil {
		return domain.LogEntry{}, errorsUtils.WrapPathErr(err)
	}

	rows, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Query(ctx, sql, args...)
	if err != nil {
		return domain.LogEntry{}, errorsUtils.WrapPathErr(err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.LogEntry])
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LogEntry{}, repoerrs.ErrNotFound
	}
	if err != nil {
		return domain.LogEntry{}, errorsUtils.WrapPathErr(err)
	}
	return updated, nil
}

func (r *LogRepo) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.Builder.
		Delete(logsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}

	tag, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Exec(ctx, sql, args...)
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repoerrs.ErrNotFound
	}
	return nil
}

// StreamLogs walks every matching entry newest first without buffering the
// result set. Iteration stops at the first error returned by fn.
func (r *LogRepo) StreamLogs(ctx context.Context, filter repotypes.LogFilter, fn func(domain.LogEntry) error) error {
	sql, args, err := applyFilters(r.Builder.Select(logColumns...).From(logsTable), filter).
		OrderBy(colTimestamp + " DESC").
		ToSql()
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}

	rows, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Query(ctx, sql, args...)
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := pgx.RowToStructByName[domain.LogEntry](rows)
		if err != nil {
			return errorsUtils.WrapPathErr(err)
		}
		if err := fn(entry); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	return nil
}
