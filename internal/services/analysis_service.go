package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"creditscan/internal/analysis"
	"creditscan/internal/exporter"
	"creditscan/internal/metrics"
	ws "creditscan/internal/websocket"
	"creditscan/pkg/contracts/domain"
)

// ErrUnreadableDocument marks a document the extraction adapter could
// not decode.
var ErrUnreadableDocument = errors.New("unable to read document")

// Extractor decodes document bytes into positioned text items plus the
// total page count.
type Extractor interface {
	Extract(ctx context.Context, r io.ReaderAt, size int64) ([]domain.TextItem, int, error)
}

// Broadcaster pushes analysis lifecycle events to subscribers.
type Broadcaster interface {
	Broadcast(eventType string, payload interface{})
}

// AnalysisService orchestrates one document analysis: extraction,
// grid reconstruction, export, metrics, and event broadcasting.
type AnalysisService struct {
	extractor Extractor
	analyzer  *analysis.Analyzer
	exporter  *exporter.ExcelWriter
	metrics   *metrics.Metrics
	events    Broadcaster
	legend    domain.Legend
	logger    *slog.Logger
}

// NewAnalysisService creates an AnalysisService. events may be nil when
// no push channel is wired.
func NewAnalysisService(
	extractor Extractor,
	analyzer *analysis.Analyzer,
	excel *exporter.ExcelWriter,
	m *metrics.Metrics,
	events Broadcaster,
	legend domain.Legend,
	logger *slog.Logger,
) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		extractor: extractor,
		analyzer:  analyzer,
		exporter:  excel,
		metrics:   m,
		events:    events,
		legend:    legend,
		logger:    logger.With(slog.String("service", "analysis")),
	}
}

// Legend returns the status-code table passed through to API responses.
func (s *AnalysisService) Legend() domain.Legend {
	return s.legend
}

// Analyze runs the full pipeline over an uploaded document and returns
// the accounts carrying payment issues.
func (s *AnalysisService) Analyze(ctx context.Context, filename string, data []byte) (*domain.AnalysisResult, error) {
	start := time.Now()
	s.broadcast(ws.TypeAnalysisStarted, map[string]interface{}{
		"filename": filename,
	})

	items, pages, err := s.extractor.Extract(ctx, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		s.fail(ctx, filename, "unreadable", err)
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	accounts, err := s.analyzer.Analyze(ctx, items)
	if err != nil {
		reason := "analysis"
		if errors.Is(err, analysis.ErrUnsupportedDocument) {
			reason = "unsupported"
		}
		s.fail(ctx, filename, reason, err)
		return nil, err
	}

	result := &domain.AnalysisResult{
		Filename:   filename,
		TotalPages: pages,
		Accounts:   accounts,
	}

	if s.metrics != nil {
		s.metrics.DocumentsAnalyzed.Inc()
		s.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
		s.metrics.AccountsWithIssues.Observe(float64(len(accounts)))
	}
	s.broadcast(ws.TypeAnalysisComplete, map[string]interface{}{
		"filename":           filename,
		"totalPages":         pages,
		"accountsWithIssues": len(accounts),
	})

	s.logger.InfoContext(ctx, "document analyzed",
		slog.String("filename", filename),
		slog.Int("total_pages", pages),
		slog.Int("text_items", len(items)),
		slog.Int("accounts_with_issues", len(accounts)),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}

// Export analyzes the document and renders the result as an xlsx
// workbook.
func (s *AnalysisService) Export(ctx context.Context, filename string, data []byte) ([]byte, error) {
	result, err := s.Analyze(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	workbook, err := s.exporter.WriteWorkbook(result)
	if err != nil {
		return nil, fmt.Errorf("failed to export analysis: %w", err)
	}
	return workbook, nil
}

func (s *AnalysisService) fail(ctx context.Context, filename, reason string, err error) {
	if s.metrics != nil {
		s.metrics.AnalysisFailures.WithLabelValues(reason).Inc()
	}
	s.broadcast(ws.TypeAnalysisFailed, map[string]interface{}{
		"filename": filename,
		"reason":   reason,
	})
	s.logger.WarnContext(ctx, "analysis failed",
		slog.String("filename", filename),
		slog.String("reason", reason),
		slog.String("error", err.Error()))
}

func (s *AnalysisService) broadcast(eventType string, payload interface{}) {
	if s.events != nil {
		s.events.Broadcast(eventType, payload)
	}
}
