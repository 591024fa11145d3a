package storage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDiskClient(api string, retries int) *diskClient {
	return &diskClient{
		api:      api,
		token:    "test-token",
		http:     &http.Client{Timeout: 5 * time.Second},
		retries:  retries,
		logger:   zap.NewNop(),
		lockWait: func(int) time.Duration { return time.Millisecond },
	}
}

func TestDiskClient_Download(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/resources/download", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "OAuth test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/sheets/summary.xlsx", r.URL.Query().Get("path"))
		json.NewEncoder(w).Encode(map[string]string{"href": srv.URL + "/blob"})
	})
	mux.HandleFunc("/blob", func(w http.ResponseWriter, r *http.Request) {
		// href requests carry no auth header
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte("workbook bytes"))
	})

	c := newTestDiskClient(srv.URL, 3)

	data, err := c.Download(context.Background(), "/sheets/summary.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []byte("workbook bytes"), data)
}

func TestDiskClient_DownloadErrorKeepsBody(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/resources/download", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"DiskNotFoundError"}`))
	})

	c := newTestDiskClient(srv.URL, 3)

	_, err := c.Download(context.Background(), "/missing.xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "DiskNotFoundError")
}

func TestDiskClient_UploadRetriesWhileLocked(t *testing.T) {
	var puts atomic.Int32

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/resources/upload", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("overwrite"))
		json.NewEncoder(w).Encode(map[string]string{"href": srv.URL + "/put"})
	})
	mux.HandleFunc("/put", func(w http.ResponseWriter, r *http.Request) {
		// the online editor holds the file for the first two attempts
		if puts.Add(1) <= 2 {
			w.WriteHeader(http.StatusLocked)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	c := newTestDiskClient(srv.URL, 5)

	err := c.Upload(context.Background(), "/sheets/summary.xlsx", []byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, int32(3), puts.Load())
}

func TestDiskClient_UploadGivesUpWhenLockPersists(t *testing.T) {
	var puts atomic.Int32

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/resources/upload", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"href": srv.URL + "/put"})
	})
	mux.HandleFunc("/put", func(w http.ResponseWriter, r *http.Request) {
		puts.Add(1)
		w.WriteHeader(http.StatusLocked)
	})

	c := newTestDiskClient(srv.URL, 4)

	err := c.Upload(context.Background(), "/sheets/summary.xlsx", []byte("payload"))
	require.Error(t, err)

	var locked *LockedError
	require.True(t, errors.As(err, &locked))
	assert.Equal(t, "/sheets/summary.xlsx", locked.Path)
	assert.Equal(t, 4, locked.Attempts)
	assert.Equal(t, int32(4), puts.Load())
}

func TestDiskClient_UploadFatalStatusDoesNotRetry(t *testing.T) {
	var puts atomic.Int32

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/resources/upload", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"href": srv.URL + "/put"})
	})
	mux.HandleFunc("/put", func(w http.ResponseWriter, r *http.Request) {
		puts.Add(1)
		w.WriteHeader(http.StatusInsufficientStorage)
		w.Write([]byte("quota exceeded"))
	})

	c := newTestDiskClient(srv.URL, 5)

	err := c.Upload(context.Background(), "/sheets/summary.xlsx", []byte("payload"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, int32(1), puts.Load(), "non-lock failures are fatal")
}

func TestLockBackoffIsCapped(t *testing.T) {
	assert.Equal(t, 2*time.Second, lockBackoff(1))
	assert.Equal(t, 4*time.Second, lockBackoff(2))
	assert.Equal(t, 16*time.Second, lockBackoff(4))
	assert.Equal(t, 30*time.Second, lockBackoff(5))
	assert.Equal(t, 30*time.Second, lockBackoff(10))
}
