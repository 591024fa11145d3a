package storage

// Provider names accepted by NewClient.
const (
	// ProviderDisk is the REST file-hosting backend (href-based
	// download/upload flow, OAuth token auth).
	ProviderDisk = "disk"
	// ProviderS3 is the S3/MinIO object storage backend.
	ProviderS3 = "s3"
)

// Config holds configuration for the workbook storage provider.
type Config struct {
	// Provider selects the backend: disk or s3.
	Provider string `mapstructure:"provider" default:"disk"`
	// Endpoint is the REST API base URL of the disk provider.
	Endpoint string `mapstructure:"endpoint" default:"https://cloud-api.yandex.net/v1/disk"`
	// Token is the OAuth token for the disk provider.
	Token string `mapstructure:"token" default:""`
	// UploadRetries caps how often an upload locked by the online
	// editor (HTTP 423) is retried before giving up.
	UploadRetries int `mapstructure:"upload_retries" default:"8"`
	// S3Endpoint is the S3/MinIO endpoint without scheme (host:port).
	S3Endpoint string `mapstructure:"s3_endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for s3 authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for s3 authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for s3 connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the s3 bucket holding the workbooks.
	Bucket string `mapstructure:"bucket" default:"workbooks"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
}
