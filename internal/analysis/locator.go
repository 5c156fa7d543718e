package analysis

import (
	"strings"
	"unicode"

	"creditscan/pkg/contracts/domain"
)

// fallbackAccountName is used when no qualifying name item sits above a
// marker on its page.
const fallbackAccountName = "Unknown Account"

// account pairs a section anchor with its resolved display name.
type account struct {
	marker domain.TextItem
	name   string
}

// locateAccounts scans the stream for sentinel occurrences and resolves
// each marker's account name. Marker order follows first occurrence in
// the input stream.
func (a *Analyzer) locateAccounts(items []domain.TextItem) ([]account, error) {
	var accounts []account
	for _, it := range items {
		if strings.Contains(it.Text, a.cfg.Sentinel) {
			accounts = append(accounts, account{
				marker: it,
				name:   resolveAccountName(items, it),
			})
		}
	}
	if len(accounts) == 0 {
		return nil, ErrUnsupportedDocument
	}
	return accounts, nil
}

// resolveAccountName picks, among the items on the marker's page that sit
// strictly above it and look like an account heading, the one with the
// smallest vertical distance to the marker. Equidistant candidates keep
// the first one encountered in stream order.
func resolveAccountName(items []domain.TextItem, marker domain.TextItem) string {
	idx := nearestIndex(len(items),
		func(i int) bool {
			it := items[i]
			return it.Page == marker.Page && it.Y > marker.Y && isAccountHeading(it.Text)
		},
		func(i int) float64 {
			return items[i].Y - marker.Y
		},
	)
	if idx < 0 {
		return fallbackAccountName
	}
	return strings.TrimSpace(items[idx].Text)
}

// isAccountHeading reports whether a string qualifies as an account
// name: trimmed length above two and fully upper-case, with at least one
// letter so headings of bare digits do not qualify.
func isAccountHeading(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) <= 2 {
		return false
	}
	hasLetter := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		hasLetter = true
	}
	return hasLetter
}
