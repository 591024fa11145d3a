// Package storage provides an abstraction layer for the file hosting
// that holds the maintained workbooks.
//
// Two providers hide behind the same Client interface. The disk
// provider speaks a Yandex-Disk-compatible REST API where every
// transfer is a two-step href flow and uploads can be rejected with
// HTTP 423 while somebody has the file open in the online editor; the
// client retries those with capped exponential backoff. The s3 provider
// wraps the MinIO Go client and keeps workbooks as objects in a single
// bucket, which suits self-hosted mirrors and integration environments.
//
// # Client Interface
//
// The Client interface abstracts the provider, making it easy to mock
// storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - Download: fetches a workbook's bytes by storage path.
//   - Upload: overwrites a workbook, retrying while the file is locked.
//   - Ping: verifies reachability and credentials for health checks.
//
// # Usage
//
//	client, err := storage.NewClient(cfg, logger)
//	data, err := client.Download(ctx, "/sheets/summary.xlsx")
package storage
