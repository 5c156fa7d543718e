package http

import (
	"context"

	"creditscan/pkg/contracts/domain"
)

// AnalysisService defines the interface the analyze handler depends on.
// Keeping it here lets handler tests substitute the service.
type AnalysisService interface {
	// Analyze runs the payment-history pipeline over document bytes.
	Analyze(ctx context.Context, filename string, data []byte) (*domain.AnalysisResult, error)

	// Export runs the pipeline and renders the result as an xlsx
	// workbook.
	Export(ctx context.Context, filename string, data []byte) ([]byte, error)

	// Legend returns the status-code table passed through to responses.
	Legend() domain.Legend
}
