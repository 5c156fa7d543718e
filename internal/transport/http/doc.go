// Package http contains the HTTP handlers of the credit-report
// analysis service: document upload and analysis, workbook export,
// health probes, and version info. Handlers depend on narrow service
// interfaces and render chi/render envelopes; all pipeline semantics
// live below the service layer.
package http
