// Package analysis reconstructs payment-history tables from a
// page-positioned text-item stream extracted from a credit report.
//
// The report template lays each account's payment history out purely as
// spatial coordinates, with no structural markup. The package finds the
// section anchor for each account, carves out the text items belonging to
// that account's grid, clusters them into rows and columns by proximity,
// and emits every calendar-month entry whose payment-status code deviates
// from "current".
//
// # Pipeline
//
//	TextItems → Account Locator → Grid Extractor → Grid Parser → Issue Extractor → AccountRecords
//
// The locator runs once over the full stream; everything after it is
// stateless per account, so accounts are processed concurrently while
// result order follows marker discovery order.
//
// The package is pure: no I/O, no logging, no shared mutable state.
// Document decoding belongs to the pdfextract adapter, transport concerns
// to the HTTP layer.
package analysis
