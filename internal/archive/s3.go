// Package archive uploads password-wrapped packages to S3-compatible storage.
// Only encrypted packages are ever passed here.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Options configure the S3 client.
type Options struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	Timeout      time.Duration
}

// Uploader stores one object and returns its location.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte) (string, error)
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// seams for tests
var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
)

var ErrNoBucket = errors.New("archive bucket is not configured")

// S3Archiver implements Uploader over an S3 client.
type S3Archiver struct {
	client  putObjectAPI
	bucket  string
	timeout time.Duration
}

// NewS3Archiver builds a client from opts. Static credentials are used when an
// access key is set, the default AWS chain otherwise. A base endpoint
// switches to path-style addressing, as MinIO and most S3-compatible
// services expect.
func NewS3Archiver(ctx context.Context, opts Options) (*S3Archiver, error) {
	if opts.Bucket == "" {
		return nil, ErrNoBucket
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Archiver(client, opts.Bucket, opts.Timeout), nil
}

func newS3Archiver(client putObjectAPI, bucket string, timeout time.Duration) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, timeout: timeout}
}

// Upload puts body under key and returns "s3://bucket/key".
func (a *S3Archiver) Upload(ctx context.Context, key string, body []byte) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", a.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}

// ObjectKey names the archived package of a vault:
// vaults/<vault>/<yyyy>/<mm>/<dd>/<random>.encrypted.json
func ObjectKey(vaultUUID string, now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf("vaults/%s/%d/%02d/%02d/%s.encrypted.json", vaultUUID, now.Year(), now.Month(), now.Day(), uuid.New())
}
