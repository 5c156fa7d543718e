package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"creditscan/pkg/contracts/domain"
)

func sampleResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		Filename:   "report.pdf",
		TotalPages: 4,
		Accounts: []domain.AccountRecord{
			{
				Name: "SAMPLE BANK",
				Issues: []domain.Issue{
					{Bureau: domain.BureauTransUnion, Month: "Jan", Year: "2023", Status: "30 Days Late"},
					{Bureau: domain.BureauEquifax, Month: "Mar", Year: "2023", Status: "Chargeoff or Collection"},
				},
			},
			{
				Name: "ACME CARD",
				Issues: []domain.Issue{
					{Bureau: domain.BureauExperian, Month: "Jul", Year: "2024", Status: "Payment Plan"},
				},
			},
		},
	}
}

func TestWriteWorkbook(t *testing.T) {
	w := NewExcelWriter(nil)

	data, err := w.WriteWorkbook(sampleResult())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Issues"}, f.GetSheetList())

	// Summary carries the document facts.
	doc, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", doc)
	accounts, err := f.GetCellValue("Summary", "B3")
	require.NoError(t, err)
	assert.Equal(t, "2", accounts)

	// Issues sheet: header plus one row per issue.
	rows, err := f.GetRows("Issues")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Account", "Bureau", "Month", "Year", "Status"}, rows[0])
	assert.Equal(t, []string{"SAMPLE BANK", "TransUnion", "Jan", "2023", "30 Days Late"}, rows[1])
	assert.Equal(t, []string{"ACME CARD", "Experian", "Jul", "2024", "Payment Plan"}, rows[3])
}

func TestWriteWorkbook_EmptyResult(t *testing.T) {
	w := NewExcelWriter(nil)

	data, err := w.WriteWorkbook(&domain.AnalysisResult{Filename: "clean.pdf", TotalPages: 2})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Issues")
	require.NoError(t, err)
	require.Len(t, rows, 1, "only the header row")
}
