package analysis

import (
	"math"
	"sort"
	"strings"

	"creditscan/pkg/contracts/domain"
)

// monthAbbrevs are the twelve labels that identify the month row.
var monthAbbrevs = map[string]bool{
	"Jan": true, "Feb": true, "Mar": true, "Apr": true,
	"May": true, "Jun": true, "Jul": true, "Aug": true,
	"Sep": true, "Oct": true, "Nov": true, "Dec": true,
}

// row is one physical line of the grid window: items sharing a rounded
// y position.
type row struct {
	y     float64
	items []domain.TextItem
}

// buildGrid carves the marker's window out of the stream and parses it
// into a structured grid. A window missing its month or year row yields
// an empty grid rather than an error; the account simply contributes no
// issues.
func (a *Analyzer) buildGrid(items []domain.TextItem, marker domain.TextItem) domain.Grid {
	rows := clusterRows(a.windowItems(items, marker), a.cfg.RowGranularity)

	monthRow, ok := findRow(rows, func(s string) bool { return monthAbbrevs[s] })
	if !ok {
		return domain.Grid{}
	}
	// Late codes like "30" are two digits too, so bureau rows are not
	// year-row candidates.
	yearRow, ok := findRow(nonBureauRows(rows), isTwoDigits)
	if !ok {
		return domain.Grid{}
	}

	headers := buildHeaders(monthRow)
	assignYears(headers, yearRow)

	statuses := make(map[domain.Bureau][]string)
	for _, bureau := range domain.Bureaus {
		bureauRow, ok := findRow(rows, func(s string) bool {
			return strings.Contains(s, string(bureau))
		})
		if !ok {
			continue
		}
		statuses[bureau] = decodeBureauRow(headers, bureauRow, bureau)
	}

	return domain.Grid{Headers: headers, Statuses: statuses}
}

// windowItems selects the items spatially belonging to the marker's
// grid: same page, y strictly inside the fixed vertical window below the
// marker.
func (a *Analyzer) windowItems(items []domain.TextItem, marker domain.TextItem) []domain.TextItem {
	lower := marker.Y - a.cfg.WindowAbove
	upper := marker.Y - a.cfg.WindowBelow

	var window []domain.TextItem
	for _, it := range items {
		if it.Page == marker.Page && it.Y > lower && it.Y < upper {
			window = append(window, it)
		}
	}
	return window
}

// clusterRows groups items whose y positions round to the same step into
// one physical row, then orders rows top-down. Row identity downstream is
// by content, not position; the ordering only keeps traversal readable.
func clusterRows(items []domain.TextItem, granularity float64) []row {
	buckets := make(map[int64][]domain.TextItem)
	for _, it := range items {
		key := int64(math.Round(it.Y / granularity))
		buckets[key] = append(buckets[key], it)
	}

	rows := make([]row, 0, len(buckets))
	for key, bucket := range buckets {
		rows = append(rows, row{y: float64(key) * granularity, items: bucket})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].y > rows[j].y
	})
	return rows
}

// nonBureauRows filters out rows carrying a bureau label.
func nonBureauRows(rows []row) []row {
	out := make([]row, 0, len(rows))
	for _, r := range rows {
		if !containsBureauLabel(r.items) {
			out = append(out, r)
		}
	}
	return out
}

func containsBureauLabel(items []domain.TextItem) bool {
	for _, it := range items {
		for _, bureau := range domain.Bureaus {
			if strings.Contains(it.Text, string(bureau)) {
				return true
			}
		}
	}
	return false
}

// findRow returns the first row containing an item whose trimmed text
// matches. Each row class matches at most one row.
func findRow(rows []row, match func(string) bool) ([]domain.TextItem, bool) {
	for _, r := range rows {
		for _, it := range r.items {
			if match(strings.TrimSpace(it.Text)) {
				return r.items, true
			}
		}
	}
	return nil, false
}

// buildHeaders turns the month row into column headers sorted ascending
// by x. Row items carry no ordering guarantee of their own.
func buildHeaders(monthRow []domain.TextItem) []domain.Header {
	headers := make([]domain.Header, 0, len(monthRow))
	for _, it := range monthRow {
		headers = append(headers, domain.Header{
			Month: strings.TrimSpace(it.Text),
			X:     it.X,
		})
	}
	sort.Slice(headers, func(i, j int) bool {
		return headers[i].X < headers[j].X
	})
	return headers
}

// assignYears resolves each two-digit year item to the header nearest in
// x and expands it to a four-digit year. Equidistant headers keep the
// leftmost one.
func assignYears(headers []domain.Header, yearRow []domain.TextItem) {
	for _, it := range yearRow {
		text := strings.TrimSpace(it.Text)
		if !isTwoDigits(text) {
			continue
		}
		if idx := nearestHeader(headers, it.X); idx >= 0 {
			headers[idx].Year = "20" + text
		}
	}
}

// decodeBureauRow assigns each status item to its nearest column.
// Items carrying the bureau's own name are row labels, not cells.
// Columns no item maps to keep the empty string.
func decodeBureauRow(headers []domain.Header, bureauRow []domain.TextItem, bureau domain.Bureau) []string {
	statuses := make([]string, len(headers))
	for _, it := range bureauRow {
		if strings.Contains(it.Text, string(bureau)) {
			continue
		}
		if idx := nearestHeader(headers, it.X); idx >= 0 {
			statuses[idx] = strings.TrimSpace(it.Text)
		}
	}
	return statuses
}

// nearestHeader maps a horizontal position to the structurally closest
// column, ties broken toward ascending x.
func nearestHeader(headers []domain.Header, x float64) int {
	return nearestIndex(len(headers), nil, func(i int) float64 {
		return math.Abs(headers[i].X - x)
	})
}

func isTwoDigits(s string) bool {
	if len(s) != 2 {
		return false
	}
	return s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9'
}
