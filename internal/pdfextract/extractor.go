// Package pdfextract decodes a PDF document into the positioned
// text-item stream the analysis core consumes.
package pdfextract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"creditscan/pkg/contracts/domain"
)

// glyph runs on the same line closer than this fraction of the font
// size belong to one word.
const wordGapFactor = 0.3

// Glyph runs whose baselines differ by less than this are on one line.
const lineTolerance = 0.5

// Extractor turns PDF bytes into domain.TextItem records. It is
// stateless and safe for concurrent use.
type Extractor struct {
	logger *slog.Logger
}

// New creates an Extractor.
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger.With(slog.String("component", "pdfextract"))}
}

// Extract reads every page of the document and returns its word-level
// text items plus the page count. Item positions come straight from the
// page's text matrix: x grows rightward, y grows up the page.
func (e *Extractor) Extract(ctx context.Context, r io.ReaderAt, size int64) (items []domain.TextItem, pages int, err error) {
	// The pdf library panics on some malformed content streams; uploads
	// are untrusted, so turn that into an error.
	defer func() {
		if rec := recover(); rec != nil {
			items, pages = nil, 0
			err = fmt.Errorf("malformed document: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open document: %w", err)
	}

	pages = reader.NumPage()
	for pageNum := 1; pageNum <= pages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		texts := page.Content().Text
		words := coalesceWords(texts)
		for _, w := range words {
			items = append(items, domain.TextItem{
				Text: w.text,
				Page: pageNum,
				X:    w.x,
				Y:    w.y,
			})
		}

		e.logger.DebugContext(ctx, "page extracted",
			slog.Int("page", pageNum),
			slog.Int("glyph_runs", len(texts)),
			slog.Int("words", len(words)))
	}

	return items, pages, nil
}

type word struct {
	text string
	x, y float64
}

// coalesceWords merges the library's per-glyph runs into words. Runs
// stay together while they share a baseline and the horizontal gap
// between them is small relative to the font size; anything else starts
// a new word. Whitespace-only words are dropped.
func coalesceWords(texts []pdf.Text) []word {
	var (
		words   []word
		current strings.Builder
		startX  float64
		startY  float64
		endX    float64
		started bool
	)

	flush := func() {
		if !started {
			return
		}
		if text := strings.TrimSpace(current.String()); text != "" {
			words = append(words, word{text: text, x: startX, y: startY})
		}
		current.Reset()
		started = false
	}

	for _, t := range texts {
		if t.S == "" {
			continue
		}

		maxGap := t.FontSize * wordGapFactor
		if maxGap <= 0 {
			maxGap = 1
		}

		sameLine := started && absFloat(t.Y-startY) < lineTolerance
		gap := t.X - endX
		if !sameLine || gap < -lineTolerance || gap > maxGap {
			flush()
		}

		if !started {
			startX, startY = t.X, t.Y
			started = true
		}
		current.WriteString(t.S)
		endX = t.X + t.W
	}
	flush()

	return words
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
