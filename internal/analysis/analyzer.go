package analysis

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"creditscan/pkg/contracts/domain"
)

// ErrUnsupportedDocument is returned when the input stream contains no
// payment-history section anchors. The whole analysis aborts; there are
// no partial results.
var ErrUnsupportedDocument = errors.New("unsupported document format: no payment history sections found")

// Config carries the layout constants tuned to the supported report
// template. Template revisions are handled by recalibrating these values,
// not by touching the algorithm.
type Config struct {
	// Sentinel is the phrase that anchors each account's
	// payment-history section.
	Sentinel string

	// WindowAbove and WindowBelow bound an account's grid: items with
	// marker.Y-WindowAbove < y < marker.Y-WindowBelow belong to it.
	WindowAbove float64
	WindowBelow float64

	// RowGranularity is the y-rounding step used to absorb sub-unit
	// rendering jitter when clustering items into rows.
	RowGranularity float64
}

// DefaultConfig returns the constants calibrated for the supported
// report template.
func DefaultConfig() Config {
	return Config{
		Sentinel:       "Payment History",
		WindowAbove:    100,
		WindowBelow:    20,
		RowGranularity: 1,
	}
}

func (c Config) validate() error {
	if c.Sentinel == "" {
		return errors.New("sentinel phrase must not be empty")
	}
	if c.WindowAbove <= c.WindowBelow {
		return fmt.Errorf("window above (%v) must exceed window below (%v)", c.WindowAbove, c.WindowBelow)
	}
	if c.RowGranularity <= 0 {
		return fmt.Errorf("row granularity must be positive, got %v", c.RowGranularity)
	}
	return nil
}

// Analyzer runs the payment-history pipeline over extracted text items.
// It is immutable after construction and safe for concurrent use.
type Analyzer struct {
	cfg    Config
	legend domain.Legend
}

// New creates an Analyzer with the given layout configuration and
// status-code legend.
func New(cfg Config, legend domain.Legend) (*Analyzer, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis config: %w", err)
	}
	if len(legend) == 0 {
		return nil, errors.New("status legend must not be empty")
	}
	return &Analyzer{cfg: cfg, legend: legend}, nil
}

// Analyze reconstructs every account's payment-history grid and returns
// the accounts that carry at least one issue, in marker discovery order.
// It returns ErrUnsupportedDocument when no marker is found.
func (a *Analyzer) Analyze(ctx context.Context, items []domain.TextItem) ([]domain.AccountRecord, error) {
	accounts, err := a.locateAccounts(items)
	if err != nil {
		return nil, err
	}

	// Per-account processing is independent and side-effect-free, so
	// accounts fan out across goroutines. Records are written by index
	// to keep discovery order.
	records := make([]domain.AccountRecord, len(accounts))
	g, ctx := errgroup.WithContext(ctx)
	for i, acct := range accounts {
		i, acct := i, acct
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			grid := a.buildGrid(items, acct.marker)
			records[i] = domain.AccountRecord{
				Name:   acct.name,
				Issues: a.extractIssues(grid),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]domain.AccountRecord, 0, len(records))
	for _, rec := range records {
		if len(rec.Issues) > 0 {
			results = append(results, rec)
		}
	}
	return results, nil
}
