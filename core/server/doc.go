// Package server holds the HTTP server configuration.
//
// While the serve command handles the server startup, this package
// defines the configuration structure for server settings.
//
// # Configuration
//
// The Config struct defines the HTTP port and the API key that the auth
// middleware enforces on mutating routes.
//
// # Usage
//
// This package is primarily used by the core/config package to embed
// server settings.
package server
