// Package config provides configuration management for the worksheet
// reconciliation service.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Storage: cloud file storage provider, credentials and endpoints
//   - Database: MySQL connection for the run journal
//   - Log: Logging level and format
//   - Sync: default preset and workbook paths
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
