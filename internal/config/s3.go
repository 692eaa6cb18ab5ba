package config

import (
	"path"
	"path/filepath"
	"strings"
	"time"
)

// S3Config holds the object storage settings used for s3:// inputs and report upload
type S3Config struct {
	Bucket       string `mapstructure:"s3_bucket"`
	Prefix       string `mapstructure:"s3_prefix"`
	Region       string `mapstructure:"s3_region"`
	AccessKey    string `mapstructure:"s3_access_key"`
	SecretKey    string `mapstructure:"s3_secret_key"`
	SessionToken string `mapstructure:"s3_session_token"`
	Endpoint     string `mapstructure:"s3_endpoint"` // For MinIO, Wasabi, etc.
}

// Validate checks if S3 configuration is valid
func (c *S3Config) Validate() error {
	if c.Bucket == "" {
		return nil
	}

	// Clean up prefix - ensure it doesn't start/end with slash
	c.Prefix = strings.Trim(c.Prefix, "/")
	if c.Prefix != "" {
		c.Prefix += "/"
	}

	return nil
}

// Enabled reports whether reports should be uploaded to S3
func (c *S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Key returns the S3 key for a given filename
func (c *S3Config) Key(filename string) string {
	if c.Prefix == "" {
		return filepath.ToSlash(filename)
	}
	return filepath.ToSlash(filepath.Join(c.Prefix, filename))
}

// ReportKey returns the S3 key for a run's report, grouped by day
func (c *S3Config) ReportKey(startedAt time.Time, filename string) string {
	return c.Key(path.Join("reports", startedAt.UTC().Format("2006-01-02"), path.Base(filepath.ToSlash(filename))))
}

// JournalKey returns the S3 key for the import journal
func (c *S3Config) JournalKey() string {
	return c.Key("journal.json")
}

// IsMinIO returns true if the configuration appears to be for MinIO or similar S3-compatible service
func (c *S3Config) IsMinIO() bool {
	return c.Endpoint != "" && !strings.Contains(c.Endpoint, "amazonaws.com")
}
