package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Egor213/LogBoard/internal/domain"
	"github.com/Egor213/LogBoard/internal/metrics"
	"github.com/Egor213/LogBoard/internal/repo"
	"github.com/Egor213/LogBoard/internal/repo/repotypes"
	errorsUtils "github.com/Egor213/LogBoard/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	CSVFilename  = "logs_export.csv"
	XLSXFilename = "logs_export.xlsx"

	xlsxSheet = "Sheet1"
)

// ExportColumns is the fixed column order of every export.
var ExportColumns = []string{"id", "timestamp", "severity", "source", "message", "created_at"}

type ExportService struct {
	logRepo  repo.Log
	counters *metrics.Counters
}

func NewExportService(lr repo.Log, cnt *metrics.Counters) *ExportService {
	return &ExportService{
		logRepo:  lr,
		counters: cnt,
	}
}

func exportRecord(e domain.LogEntry) []string {
	return []string{
		strconv.FormatInt(e.ID, 10),
		e.Timestamp.Format(domain.TimeLayout),
		e.Severity.String(),
		e.Source,
		e.Message,
		e.CreatedAt.Format(domain.TimeLayout),
	}
}

// ExportCSV streams every matching entry, newest first, to w. Nothing is
// written to w when the filter is invalid.
func (s *ExportService) ExportCSV(ctx context.Context, filter repotypes.LogFilter, w io.Writer) error {
	if err := checkFilter(filter); err != nil {
		return err
	}
	filter.Search = ""

	cw := csv.NewWriter(w)
	err := cw.Write(ExportColumns)
	if err == nil {
		err = s.logRepo.StreamLogs(ctx, filter, func(e domain.LogEntry) error {
			return cw.Write(exportRecord(e))
		})
	}
	if err == nil {
		cw.Flush()
		err = cw.Error()
	}

	return s.finish(FormatCSV, err)
}

// ExportXLSX writes the same rows as ExportCSV into a single-sheet workbook.
func (s *ExportService) ExportXLSX(ctx context.Context, filter repotypes.LogFilter, w io.Writer) error {
	if err := checkFilter(filter); err != nil {
		return err
	}
	filter.Search = ""

	f := excelize.NewFile()
	defer f.Close()

	err := s.writeSheet(ctx, f, filter)
	if err == nil {
		_, err = f.WriteTo(w)
	}

	return s.finish(FormatXLSX, err)
}

func (s *ExportService) writeSheet(ctx context.Context, f *excelize.File, filter repotypes.LogFilter) error {
	sw, err := f.NewStreamWriter(xlsxSheet)
	if err != nil {
		return err
	}

	row := 1
	appendRow := func(values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++

		cells := make([]any, len(values))
		for i, v := range values {
			cells[i] = v
		}
		return sw.SetRow(cell, cells)
	}

	if err := appendRow(ExportColumns); err != nil {
		return err
	}
	err = s.logRepo.StreamLogs(ctx, filter, func(e domain.LogEntry) error {
		return appendRow(exportRecord(e))
	})
	if err != nil {
		return err
	}
	return sw.Flush()
}

func (s *ExportService) finish(format string, err error) error {
	if err != nil {
		s.counters.LogsExported.Inc(format, "error")
		return errorsUtils.WrapPathErr(newStoreError(fmt.Sprintf("%s export", format), err))
	}
	s.counters.LogsExported.Inc(format, "success")
	return nil
}
