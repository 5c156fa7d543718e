// Package exporter renders analysis results as downloadable Excel
// workbooks.
package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"creditscan/pkg/contracts/domain"
)

const (
	summarySheet = "Summary"
	issuesSheet  = "Issues"
)

// ExcelWriter builds xlsx workbooks from analysis results.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates an ExcelWriter.
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger.With(slog.String("component", "exporter"))}
}

// WriteWorkbook renders the result as a two-sheet workbook: a document
// summary and one row per issue.
func (w *ExcelWriter) WriteWorkbook(result *domain.AnalysisResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := w.writeSummary(f, result); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(issuesSheet); err != nil {
		return nil, fmt.Errorf("failed to create issues sheet: %w", err)
	}
	if err := w.writeIssues(f, result); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	w.logger.Debug("workbook written",
		slog.String("filename", result.Filename),
		slog.Int("accounts", len(result.Accounts)),
		slog.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

func (w *ExcelWriter) writeSummary(f *excelize.File, result *domain.AnalysisResult) error {
	rows := [][]interface{}{
		{"Document", result.Filename},
		{"Total Pages", result.TotalPages},
		{"Accounts With Issues", result.AccountsWithIssues()},
		{},
		{"Account", "Issue Count"},
	}
	for _, acct := range result.Accounts {
		rows = append(rows, []interface{}{acct.Name, len(acct.Issues)})
	}
	return writeRows(f, summarySheet, rows)
}

func (w *ExcelWriter) writeIssues(f *excelize.File, result *domain.AnalysisResult) error {
	rows := [][]interface{}{
		{"Account", "Bureau", "Month", "Year", "Status"},
	}
	for _, acct := range result.Accounts {
		for _, issue := range acct.Issues {
			rows = append(rows, []interface{}{
				acct.Name, string(issue.Bureau), issue.Month, issue.Year, issue.Status,
			})
		}
	}
	return writeRows(f, issuesSheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	return nil
}
