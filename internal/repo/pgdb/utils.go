package pgdb

import (
	"fmt"
	"strings"

	"github.com/Egor213/LogBoard/internal/domain"
	"github.com/Egor213/LogBoard/internal/repo/repotypes"
	sq "github.com/Masterminds/squirrel"
)

const (
	logsTable    = "logs"
	colTimestamp = `"timestamp"`
)

var logColumns = []string{"id", colTimestamp, "message", "severity", "source", "created_at", "updated_at"}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere in the value.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func BuildLogQueryFilters(filter repotypes.LogFilter) []sq.Sqlizer {
	conds := []sq.Sqlizer{}

	if filter.Severity != "" {
		conds = append(conds, sq.Eq{"severity": string(filter.Severity)})
	}
	if filter.Source != "" {
		conds = append(conds, sq.ILike{"source": containsPattern(filter.Source)})
	}
	if filter.StartDate != nil {
		conds = append(conds, sq.GtOrEq{colTimestamp: *filter.StartDate})
	}
	if filter.EndDate != nil {
		conds = append(conds, sq.LtOrEq{colTimestamp: *filter.EndDate})
	}
	if filter.Search != "" {
		conds = append(conds, sq.ILike{"message": containsPattern(filter.Search)})
	}

	return conds
}

func applyFilters(query sq.SelectBuilder, filter repotypes.LogFilter) sq.SelectBuilder {
	conds := BuildLogQueryFilters(filter)
	if len(conds) > 0 {
		query = query.Where(sq.And(conds))
	}
	return query
}

var severityRankExpr = func() string {
	var b strings.Builder
	b.WriteString("CASE severity")
	for rank, s := range domain.Severities {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", s, rank)
	}
	b.WriteString(" END")
	return b.String()
}()

// BuildSortExpression renders the ORDER BY clause. Unknown fields sort by
// timestamp. Severity sorts by level rank, not alphabetically. Rows with equal
// keys come back in whatever order the store produces.
func BuildSortExpression(sort repotypes.SortParams) string {
	column := colTimestamp
	switch sort.Field {
	case repotypes.SortBySeverity:
		column = severityRankExpr
	case repotypes.SortBySource:
		column = "source"
	case repotypes.SortByMessage:
		column = "message"
	}

	direction := "DESC"
	if sort.Order == repotypes.SortAsc {
		direction = "ASC"
	}

	return column + " " + direction
}

// bucketExpression truncates the timestamp to the start of the bucket in the
// session time zone.
func bucketExpression(bucket domain.Bucket) string {
	return fmt.Sprintf("date_trunc('%s', %s)", domain.ParseBucket(string(bucket)), colTimestamp)
}
