package storage

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client defines the interface for workbook storage operations.
type Client interface {
	// Download fetches a file's bytes by its storage path.
	Download(ctx context.Context, path string) ([]byte, error)
	// Upload stores a file's bytes under a storage path, overwriting
	// any existing file.
	Upload(ctx context.Context, path string, data []byte) error
	// Ping verifies that the provider is reachable and the credentials
	// are accepted.
	Ping(ctx context.Context) error
}

// NewClient creates a storage client for the configured provider.
func NewClient(cfg Config, logger *zap.Logger) (Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Provider {
	case ProviderDisk, "":
		return newDiskClient(cfg, logger)
	case ProviderS3:
		return newS3Client(cfg)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// newTransport builds an HTTP transport with strict timeouts so a stuck
// provider fails the run instead of hanging it.
func newTransport(timeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout, // Connection setup timeout
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout, // TLS Handshake timeout
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout, // Wait for first response byte timeout
	}
}

// timeoutOrDefault normalizes the configured timeout.
func timeoutOrDefault(seconds int) time.Duration {
	if seconds <= 0 {
		seconds = 60
	}
	return time.Duration(seconds) * time.Second
}
