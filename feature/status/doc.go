// Package status exposes operational self-checks: is the workbook
// storage reachable, does the journal database still match the model,
// and is every preset runnable. All checks are read-only.
//
// # HTTP Endpoints
//
//   - GET /status : Runs all checks and returns one combined report.
//   - GET /status/storage : Pings the workbook storage.
//   - GET /status/database : Checks journal connectivity and schema.
package status
