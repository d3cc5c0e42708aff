// Package diag defines the core diagnostic model shared by all analysis phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced by the call-site extractors and checkers.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Model fix suggestions as structured edits that the driver or CLI can
//     materialise and optionally apply.
//
// # Scope
//
// Package diag does not perform any formatting, IO, CLI integration, or
// interactive behaviour. Rendering responsibilities live in internal/diagfmt,
// whereas orchestration and application of fixes lives in internal/fix and the
// driver layer.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional Fix records describing how to address the problem.
//
// Notes should be used sparingly: each note must add new context (e.g. “other
// call here”) rather than repeating the diagnostic message.
//
// # Fix suggestions
//
// Fix represents a possible automated correction. Each fix carries:
//
//   - ID – stable identifier so `swaplint fix --id` can target it.
//   - Title – short label used in UI listings.
//   - Kind – coarse classification (quick fix, refactor).
//   - Applicability – confidence level: AlwaysSafe, SafeWithHeuristics,
//     NeedsReview.
//   - IsPreferred – optionally mark the most relevant fix when several exist.
//   - Edits – concrete text edits (Span + new/old text) to apply.
//
// Fixes are intentionally data-only. TextEdit spans are in source
// coordinates; OldText acts as an optional guard that the fix engine uses to
// validate the context before applying edits.
//
// # Emitting diagnostics
//
// Checkers use a diag.Reporter to decouple emission from storage. A checker
// constructs a ReportBuilder via NewReportBuilder (or the helper functions
// ReportError/ReportWarning/ReportInfo) and chains WithNote /
// WithFixSuggestion before calling Emit.
//
// When no additional metadata is needed, producers may call Reporter.Report
// directly. For convenience, diag.BagReporter aggregates diagnostics into a
// Bag, which supports sorting, deduplication, and merging.
//
// # Consumers
//
//   - internal/diagfmt: renders Diagnostics into pretty/short/json/sarif.
//   - internal/fix: applies Fix edits to source files.
//   - internal/driver: coordinates bag collection per file and transports
//     diagnostic data to CLI commands (and to the disk cache).
//
// Keep the data model deterministic: any new fields should honour the package’s
// layering constraints and avoid side effects, so the CLI and future tooling can
// safely serialise diagnostics for caching and testing.
package diag
