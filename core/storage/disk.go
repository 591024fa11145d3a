package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LockedError reports an upload that kept hitting HTTP 423: somebody has
// the file open in the online editor, which blocks writes server-side.
type LockedError struct {
	// Path is the storage path of the locked file.
	Path string
	// Attempts is how many uploads were tried before giving up.
	Attempts int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("file %q is locked after %d attempts: close it in the online editor and rerun", e.Path, e.Attempts)
}

// diskClient talks to a Yandex-Disk-compatible REST API. Every transfer
// is a two-step href flow: ask the authenticated API for a short-lived
// href, then move the bytes against that href without auth headers.
type diskClient struct {
	api     string
	token   string
	http    *http.Client
	retries int
	logger  *zap.Logger

	// lockWait is the backoff between attempts on a locked file.
	// Overridable in tests.
	lockWait func(attempt int) time.Duration
}

func newDiskClient(cfg Config, logger *zap.Logger) (*diskClient, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("disk storage: token is not set")
	}
	retries := cfg.UploadRetries
	if retries <= 0 {
		retries = 8
	}
	timeout := timeoutOrDefault(cfg.TimeoutSeconds)

	return &diskClient{
		api:   strings.TrimRight(cfg.Endpoint, "/"),
		token: cfg.Token,
		http: &http.Client{
			Timeout:   timeout,
			Transport: newTransport(timeout),
		},
		retries:  retries,
		logger:   logger,
		lockWait: lockBackoff,
	}, nil
}

// lockBackoff grows exponentially per attempt and is capped at 30s.
func lockBackoff(attempt int) time.Duration {
	d := time.Duration(1<<uint(attempt)) * time.Second
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}

func (c *diskClient) Download(ctx context.Context, path string) ([]byte, error) {
	href, err := c.resolveHref(ctx, "/resources/download", path, false)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, href, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("disk download %q: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, apiError("download", path, resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("disk download %q: read body: %w", path, err)
	}
	return data, nil
}

func (c *diskClient) Upload(ctx context.Context, path string, data []byte) error {
	href, err := c.resolveHref(ctx, "/resources/upload", path, true)
	if err != nil {
		return err
	}

	for attempt := 1; attempt <= c.retries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, href, bytes.NewReader(data))
		if err != nil {
			return err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("disk upload %q: %w", path, err)
		}

		if resp.StatusCode < 400 {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil
		}
		if resp.StatusCode != http.StatusLocked {
			defer resp.Body.Close()
			return apiError("upload", path, resp)
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if attempt == c.retries {
			break
		}

		wait := c.lockWait(attempt)
		c.logger.Warn("upload target is locked, retrying",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return &LockedError{Path: path, Attempts: c.retries}
}

// Ping asks the API root for account metadata, which exercises both
// reachability and the token.
func (c *diskClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.api, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "OAuth "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("disk ping: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError("ping", "", resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// resolveHref performs the authenticated API half of a transfer and
// returns the short-lived href for the bytes.
func (c *diskClient) resolveHref(ctx context.Context, endpoint, path string, overwrite bool) (string, error) {
	u := c.api + endpoint + "?path=" + url.QueryEscape(path)
	if overwrite {
		u += "&overwrite=true"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "OAuth "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("disk %s %q: %w", strings.TrimPrefix(endpoint, "/resources/"), path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError(strings.TrimPrefix(endpoint, "/resources/"), path, resp)
	}

	var href struct {
		Href string `json:"href"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&href); err != nil {
		return "", fmt.Errorf("disk %s %q: decode href: %w", endpoint, path, err)
	}
	if href.Href == "" {
		return "", fmt.Errorf("disk %s %q: empty href in response", endpoint, path)
	}
	return href.Href, nil
}

// apiError folds an HTTP error response, body included, into one error.
// The API explains most failures (quota, missing path, bad token) in the
// body, so dropping it would hide the actual cause.
func apiError(op, path string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
	return fmt.Errorf("disk %s %q: status %d: %s", op, path, resp.StatusCode, strings.TrimSpace(string(body)))
}
