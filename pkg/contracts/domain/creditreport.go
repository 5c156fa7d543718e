package domain

// Bureau identifies a credit-reporting agency.
type Bureau string

const (
	BureauTransUnion Bureau = "TransUnion"
	BureauExperian   Bureau = "Experian"
	BureauEquifax    Bureau = "Equifax"
)

// Bureaus lists all known bureaus in the order their rows are decoded.
var Bureaus = []Bureau{BureauTransUnion, BureauExperian, BureauEquifax}

// TextItem is the atomic unit of extracted document text: a glyph string
// with its page number and position. Page is 1-based; larger Y means
// higher on the page.
type TextItem struct {
	Text string  `json:"text"`
	Page int     `json:"page"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Header describes one column of a payment-history grid: a month label,
// its horizontal position, and the resolved four-digit year once the
// year row has been aligned. Year is empty until assigned.
type Header struct {
	Month string  `json:"month"`
	X     float64 `json:"x"`
	Year  string  `json:"year,omitempty"`
}

// Grid is one account's reconstructed payment-history table. Headers are
// ordered ascending by X. Each bureau's status slice has exactly one entry
// per header; an empty string means no data for that column.
type Grid struct {
	Headers  []Header            `json:"headers"`
	Statuses map[Bureau][]string `json:"statuses"`
}

// Empty reports whether the grid carries no columns. A marker whose
// window is missing its month or year row yields an empty grid.
func (g Grid) Empty() bool {
	return len(g.Headers) == 0
}

// Issue is a single deviation from "current" payment standing.
type Issue struct {
	Bureau Bureau `json:"bureau"`
	Month  string `json:"month"`
	Year   string `json:"year"`
	Status string `json:"status"`
}

// AccountRecord holds the issues found for one account. Records are
// produced one-to-one with markers; accounts without issues are dropped
// during aggregation.
type AccountRecord struct {
	Name   string  `json:"name"`
	Issues []Issue `json:"issues"`
}

// AnalysisResult is the document-level outcome of one analysis call.
type AnalysisResult struct {
	Filename   string          `json:"filename"`
	TotalPages int             `json:"totalPages"`
	Accounts   []AccountRecord `json:"accounts"`
}

// AccountsWithIssues returns the number of accounts that carried at
// least one issue.
func (r *AnalysisResult) AccountsWithIssues() int {
	return len(r.Accounts)
}

// Legend maps payment-status codes to their display labels.
type Legend map[string]string

// DefaultLegend returns the status-code table for the supported report
// template.
func DefaultLegend() Legend {
	return Legend{
		"OK":  "Current",
		"30":  "30 Days Late",
		"60":  "60 Days Late",
		"90":  "90 Days Late",
		"120": "120 Days Late",
		"150": "150 Days Late",
		"180": "180 Days Late",
		"CO":  "Chargeoff or Collection",
		"RF":  "Repossession or Foreclosure",
		"PP":  "Payment Plan",
		"VS":  "Voluntary Surrender",
		"NDP": "No Data Provided",
	}
}
