package analysis

import (
	"strings"

	"creditscan/pkg/contracts/domain"
)

// currentCode marks a month the account was paid as agreed; it never
// produces an issue.
const currentCode = "OK"

// extractIssues scans every decoded bureau row for statuses deviating
// from current and resolves their display labels. Unknown codes are kept
// visible with a synthesized label instead of being dropped.
func (a *Analyzer) extractIssues(grid domain.Grid) []domain.Issue {
	if grid.Empty() {
		return nil
	}

	var issues []domain.Issue
	for _, bureau := range domain.Bureaus {
		statuses, ok := grid.Statuses[bureau]
		if !ok {
			continue
		}
		for i, code := range statuses {
			code = strings.TrimSpace(code)
			if code == "" || code == currentCode {
				continue
			}

			// The header invariant guarantees one header per column;
			// the guard covers malformed grids anyway.
			month, year := "N/A", "N/A"
			if i < len(grid.Headers) {
				month = grid.Headers[i].Month
				year = grid.Headers[i].Year
			}

			label, known := a.legend[code]
			if !known {
				label = "Unknown Code: " + code
			}
			issues = append(issues, domain.Issue{
				Bureau: bureau,
				Month:  month,
				Year:   year,
				Status: label,
			})
		}
	}
	return issues
}
