package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/render"

	"creditscan/internal/analysis"
	"creditscan/internal/config"
	apierrors "creditscan/internal/errors"
	"creditscan/internal/metrics"
	"creditscan/internal/services"
	"creditscan/pkg/contracts/domain"
)

const uploadFieldName = "file"

// AnalyzeResponse is the success envelope of POST /api/analyze.
type AnalyzeResponse struct {
	Success            bool                   `json:"success"`
	Filename           string                 `json:"filename"`
	TotalPages         int                    `json:"totalPages"`
	AccountsWithIssues int                    `json:"accountsWithIssues"`
	Results            []domain.AccountRecord `json:"results"`
	Legend             domain.Legend          `json:"legend"`
}

// AnalyzeHandler handles document upload and analysis requests
type AnalyzeHandler struct {
	service AnalysisService
	upload  config.UploadConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(service AnalysisService, upload config.UploadConfig, m *metrics.Metrics, logger *slog.Logger) *AnalyzeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeHandler{
		service: service,
		upload:  upload,
		metrics: m,
		logger:  logger.With(slog.String("handler", "analyze")),
	}
}

// Analyze handles POST /api/analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	filename, data, apiErr := h.readUpload(w, r)
	if apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}

	result, err := h.service.Analyze(r.Context(), filename, data)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(h.mapAnalysisError(r, err)))
		return
	}

	render.JSON(w, r, AnalyzeResponse{
		Success:            true,
		Filename:           result.Filename,
		TotalPages:         result.TotalPages,
		AccountsWithIssues: result.AccountsWithIssues(),
		Results:            result.Accounts,
		Legend:             h.service.Legend(),
	})
}

// Export handles POST /api/analyze/export
func (h *AnalyzeHandler) Export(w http.ResponseWriter, r *http.Request) {
	filename, data, apiErr := h.readUpload(w, r)
	if apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}

	workbook, err := h.service.Export(r.Context(), filename, data)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(h.mapAnalysisError(r, err)))
		return
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-issues.xlsx"`, base))
	w.WriteHeader(http.StatusOK)
	w.Write(workbook)
}

// readUpload parses the multipart form and returns the uploaded file's
// name and bytes, enforcing the size and extension bounds.
func (h *AnalyzeHandler) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, *apierrors.APIError) {
	r.Body = http.MaxBytesReader(w, r.Body, h.upload.MaxBytes)

	if err := r.ParseMultipartForm(h.upload.MaxBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.rejectUpload(r, "too_large")
			return "", nil, apierrors.ErrFileTooLarge
		}
		h.rejectUpload(r, "bad_form")
		return "", nil, apierrors.InvalidRequestWithError(err)
	}

	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		h.rejectUpload(r, "missing_file")
		return "", nil, apierrors.ErrMissingFile
	}
	defer file.Close()

	if !h.allowedExtension(header.Filename) {
		h.rejectUpload(r, "bad_extension")
		return "", nil, apierrors.InvalidUploadError(h.upload.AllowedExtensions)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.rejectUpload(r, "read_failure")
		return "", nil, apierrors.InvalidRequestWithError(err)
	}

	return header.Filename, data, nil
}

func (h *AnalyzeHandler) allowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range h.upload.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

func (h *AnalyzeHandler) rejectUpload(r *http.Request, reason string) {
	if h.metrics != nil {
		h.metrics.UploadsRejected.WithLabelValues(reason).Inc()
	}
	h.logger.WarnContext(r.Context(), "upload rejected",
		slog.String("reason", reason),
		slog.String("remote_addr", r.RemoteAddr))
}

// mapAnalysisError translates pipeline errors into API errors.
func (h *AnalyzeHandler) mapAnalysisError(r *http.Request, err error) *apierrors.APIError {
	switch {
	case errors.Is(err, analysis.ErrUnsupportedDocument):
		return apierrors.ErrUnsupportedDocument
	case errors.Is(err, services.ErrUnreadableDocument):
		return apierrors.ErrUnreadableDocument
	default:
		h.logger.ErrorContext(r.Context(), "analysis failed",
			slog.String("error", err.Error()))
		return apierrors.ErrInternalServer
	}
}
