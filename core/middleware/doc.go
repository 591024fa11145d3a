// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides the cross-cutting request plumbing that sits in front of the
// feature handlers.
//
// # Components
//
//   - auth: API key validation protecting the sync and status endpoints.
//   - rayid: a unique ray ID per incoming request, injected into the
//     context and response headers so log lines and support tickets can be
//     matched up.
//
// Both are registered globally in the serve command, rayid first so every
// later log line carries the ID.
package middleware
