// Package database handles the optional MySQL connection behind the run
// journal.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) that
// configures the MySQL connection from the application's configuration:
// encoded credentials, connection and I/O timeouts in the DSN, a silent
// GORM logger and sane pool limits, verified by an initial ping.
//
// # Optionality
//
// A missing or unreachable database must never block a reconciliation
// run. Callers warn and continue; core/journal degrades to a disabled
// recorder.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("running without a journal", zap.Error(err))
//	}
package database
