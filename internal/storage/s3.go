package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/koltyakov/orgimport/internal/config"
	apperrors "github.com/koltyakov/orgimport/pkg/errors"
)

// URIScheme prefixes object storage input paths
const URIScheme = "s3://"

const (
	partSize          = 5 * 1024 * 1024
	uploadConcurrency = 5
	connectivityKey   = ".orgimport-connectivity-test"
)

// Location addresses one object
type Location struct {
	Bucket string
	Key    string
}

// String renders the location as an s3:// URI
func (l Location) String() string {
	return URIScheme + l.Bucket + "/" + l.Key
}

// Name returns the base name of the object key
func (l Location) Name() string {
	return path.Base(l.Key)
}

// IsURI reports whether p is an s3:// path
func IsURI(p string) bool {
	return strings.HasPrefix(strings.ToLower(p), URIScheme)
}

// ParseURI splits s3://bucket/key into its parts
func ParseURI(uri string) (Location, error) {
	if !IsURI(uri) {
		return Location{}, apperrors.NewInputError("storage.ParseURI", "not an s3 uri: "+uri, nil)
	}
	rest := uri[len(URIScheme):]
	bucket, key, ok := strings.Cut(rest, "/")
	key = strings.TrimLeft(key, "/")
	if !ok || bucket == "" || key == "" {
		return Location{}, apperrors.NewInputError("storage.ParseURI", "s3 uri needs bucket and key: "+uri, nil)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// S3Client fetches import inputs from and publishes reports to S3
type S3Client struct {
	client   *s3.Client
	uploader *manager.Uploader
	cfg      *config.S3Config
}

// NewS3Client creates a new S3 client from configuration
func NewS3Client(ctx context.Context, cfg *config.S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, apperrors.NewConfigError("storage.NewS3Client", "S3 bucket is required", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Endpoint != "" {
		// Region is required by the SDK but unused by custom endpoints
		if cfg.Region == "" {
			opts = append(opts, awsconfig.WithRegion("us-east-1"))
		}
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			cfg.SessionToken,
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, apperrors.NewStorageError("storage.NewS3Client", "failed to load AWS config", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.IsMinIO()
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = partSize
		u.Concurrency = uploadConcurrency
	})

	return &S3Client{
		client:   client,
		uploader: uploader,
		cfg:      cfg,
	}, nil
}

// UploadStream uploads data from an io.Reader to the configured bucket
func (s *S3Client) UploadStream(ctx context.Context, key string, r io.Reader) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
		Body:   r,
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return apperrors.NewStorageError("storage.Upload", fmt.Sprintf("failed to upload to S3 (key=%s)", key), err)
	}
	return nil
}

// UploadFile uploads a local file, typically a rendered report
func (s *S3Client) UploadFile(ctx context.Context, key, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return apperrors.NewIOError("storage.UploadFile", "failed to open "+filePath, err)
	}
	defer f.Close()

	return s.UploadStream(ctx, key, f)
}

// Fetch downloads an object. An empty bucket falls back to the configured one.
func (s *S3Client) Fetch(ctx context.Context, loc Location) ([]byte, error) {
	bucket := loc.Bucket
	if bucket == "" {
		bucket = s.cfg.Bucket
	}

	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, apperrors.NewIOError("storage.Fetch", "key not found: "+loc.String(), err)
		}
		return nil, apperrors.NewStorageError("storage.Fetch", "failed to download "+loc.String(), err)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, apperrors.NewStorageError("storage.Fetch", "failed to read "+loc.String(), err)
	}
	return data, nil
}

// Exists checks if a key exists in the configured bucket
func (s *S3Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		var nf *types.NotFound
		if errors.As(err, &nsk) || errors.As(err, &nf) {
			return false, nil
		}
		return false, apperrors.NewStorageError("storage.Exists", fmt.Sprintf("failed to check S3 object (key=%s)", key), err)
	}
	return true, nil
}

// CheckConnection verifies connectivity and PutObject permission by writing
// and deleting a small object
func (s *S3Client) CheckConnection(ctx context.Context) error {
	key := s.cfg.Key(connectivityKey)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader([]byte("connectivity check")),
	})
	if err != nil {
		return apperrors.NewStorageError("storage.CheckConnection", "S3 connection check failed", err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return apperrors.NewStorageError("storage.CheckConnection", "S3 connection check succeeded but cleanup failed", err)
	}
	return nil
}
