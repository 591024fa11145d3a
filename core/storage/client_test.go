package storage_test

import (
	"testing"

	"sheet-sync/core/storage"

	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	t.Run("DiskIsTheDefaultProvider", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint: "https://cloud-api.example/v1/disk",
			Token:    "secret",
		}

		client, err := storage.NewClient(cfg, nil)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("DiskRequiresToken", func(t *testing.T) {
		cfg := storage.Config{
			Provider: storage.ProviderDisk,
			Endpoint: "https://cloud-api.example/v1/disk",
		}

		client, err := storage.NewClient(cfg, nil)
		assert.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("S3Config", func(t *testing.T) {
		cfg := storage.Config{
			Provider:   storage.ProviderS3,
			S3Endpoint: "localhost:9000",
			AccessKey:  "testkey",
			SecretKey:  "testsecret",
			UseSSL:     false,
			Bucket:     "workbooks",
		}

		client, err := storage.NewClient(cfg, nil)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("S3EndpointWithScheme", func(t *testing.T) {
		cfg := storage.Config{
			Provider:   storage.ProviderS3,
			S3Endpoint: "https://s3.amazonaws.com",
			AccessKey:  "testkey",
			SecretKey:  "testsecret",
			UseSSL:     true,
			Region:     "us-east-1",
			Bucket:     "workbooks",
		}

		client, err := storage.NewClient(cfg, nil)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		cfg := storage.Config{Provider: "ftp"}

		client, err := storage.NewClient(cfg, nil)
		assert.Error(t, err)
		assert.Nil(t, client)
	})
}
