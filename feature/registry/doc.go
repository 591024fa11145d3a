// Package registry synchronizes the agent registry worksheets. It is
// the feature that replaced a pile of one-off sync scripts: each script
// became a named preset, and all of them now share one engine, one
// storage client and one journal.
//
// # Presets
//
//   - summary   : БД → СВОДНАЯ across two workbooks, with compressed terminal ranges.
//   - workbook  : БД → СВОДНАЯ inside a single workbook, clearing stray residue.
//   - terminals : БД → терминалы, addresses plus the certificate flag parsed from comments.
//   - certflag  : Лист1 → СВОДНАЯ, MTS certificate flag back into the summary.
//   - flags     : СВОДНАЯ → Лист1, certificate and ticket-sales flags for handover.
//
// A run downloads the workbooks, plans the merge, applies it in memory,
// restyles inserted rows, reapplies the boolean fill rules and uploads
// the target. A target that needed no changes is not uploaded, so
// rerunning a preset against synchronized sheets is a no-op. Concurrent
// runs of the same preset against the same paths collapse into one.
//
// # HTTP Endpoints
//
//   - GET  /sync/presets : Lists every preset.
//   - GET  /sync/runs : Lists recent journaled runs (supports ?limit=N).
//   - GET  /sync/agent/{id} : Reports one key on both sides (supports ?preset=, ?source=, ?target=).
//   - POST /sync/{preset} : Runs a preset (supports ?source=, ?target=, ?dry_run=true).
//
// Deleting target-only rows is never exposed over HTTP; the prune mode
// exists only behind the CLI's confirmation prompt.
package registry
