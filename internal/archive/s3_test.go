package archive

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input    *s3.PutObjectInput
	body     []byte
	deadline bool
	err      error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	_, f.deadline = ctx.Deadline()
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestNewS3Archiver_AppliesOptions(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-west-1", lo.Region)
		require.NotNil(t, lo.Credentials, "static credentials expected")
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ak", creds.AccessKeyID)
		assert.Equal(t, "sk", creds.SecretAccessKey)
		return aws.Config{Region: lo.Region}, nil
	}

	var captured s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&captured)
		}
		return &s3.Client{}
	}

	a, err := NewS3Archiver(context.Background(), Options{
		Bucket:       "dr",
		Region:       "eu-west-1",
		BaseEndpoint: "http://127.0.0.1:9000",
		AccessKey:    "ak",
		SecretKey:    "sk",
	})
	require.NoError(t, err)
	require.NotNil(t, a)

	require.NotNil(t, captured.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *captured.BaseEndpoint)
	assert.True(t, captured.UsePathStyle)
}

func TestNewS3Archiver_Errors(t *testing.T) {
	_, err := NewS3Archiver(context.Background(), Options{})
	require.ErrorIs(t, err, ErrNoBucket)

	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err = NewS3Archiver(context.Background(), Options{Bucket: "b"})
	require.EqualError(t, err, "load-fail")
}

func TestUpload(t *testing.T) {
	fake := &fakeS3{}
	a := newS3Archiver(fake, "dr", time.Minute)

	loc, err := a.Upload(context.Background(), "vaults/v/x.json", []byte(`{"type":"encrypted"}`))
	require.NoError(t, err)

	assert.Equal(t, "s3://dr/vaults/v/x.json", loc)
	assert.Equal(t, "dr", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "vaults/v/x.json", aws.ToString(fake.input.Key))
	assert.Equal(t, "application/json", aws.ToString(fake.input.ContentType))
	assert.Equal(t, int64(20), aws.ToInt64(fake.input.ContentLength))
	assert.Equal(t, `{"type":"encrypted"}`, string(fake.body))
	assert.True(t, fake.deadline, "timeout is applied")
}

func TestUpload_Error(t *testing.T) {
	a := newS3Archiver(&fakeS3{err: errors.New("denied")}, "dr", 0)

	_, err := a.Upload(context.Background(), "k", nil)
	require.ErrorContains(t, err, "put s3://dr/k: denied")
}

func TestObjectKey(t *testing.T) {
	now := time.Date(2024, 2, 3, 23, 0, 0, 0, time.FixedZone("X", -3*3600))
	key := ObjectKey("v-1", now)

	assert.Regexp(t, regexp.MustCompile(`^vaults/v-1/2024/02/04/[0-9a-f-]{36}\.encrypted\.json$`), key)
	assert.NotEqual(t, key, ObjectKey("v-1", now))
}
