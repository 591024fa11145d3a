// Package journal persists a history of reconciliation runs.
//
// Every run, including dry runs and failures, is written to the sync_runs
// table with its preset, workbook paths, outcome and counters. The journal
// answers "what did the last run touch" without re-downloading workbooks.
//
// # Optionality
//
// The Recorder tolerates a nil database connection and degrades to a
// no-op, so the service works without MySQL configured.
//
// # Schema verification
//
// VerifySchema compares the live table against the Run model's GORM tags
// and reports missing columns and type drift. The status feature exposes
// the report over HTTP.
package journal
