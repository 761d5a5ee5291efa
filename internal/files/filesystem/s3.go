package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/vvka-141/ecomload/pkg/ecomload"
)

// S3FileSystem implements Provider over objects stored below a bucket prefix.
// Credentials come from the default AWS chain (env, shared config, IMDS).
type S3FileSystem struct {
	client *s3.Client
	bucket string
	prefix string
}

// ParseS3URL splits s3://bucket/some/prefix into bucket and prefix.
func ParseS3URL(raw string) (bucket, prefix string, err error) {
	if !strings.HasPrefix(raw, ecomload.S3Scheme) {
		return "", "", fmt.Errorf("not an s3 location: %q", raw)
	}
	rest := strings.TrimPrefix(raw, ecomload.S3Scheme)
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("s3 location %q names no bucket", raw)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

// NewS3FileSystem builds a provider for location (s3://bucket/prefix).
func NewS3FileSystem(ctx context.Context, location string, cfg ecomload.S3Config) (*S3FileSystem, error) {
	bucket, prefix, err := ParseS3URL(location)
	if err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewS3FileSystemWithClient(client, bucket, prefix), nil
}

// NewS3FileSystemWithClient wraps an existing client.
func NewS3FileSystemWithClient(client *s3.Client, bucket, prefix string) *S3FileSystem {
	return &S3FileSystem{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (p *S3FileSystem) key(name string) string {
	if p.prefix == "" {
		return name
	}
	return path.Join(p.prefix, name)
}

func (p *S3FileSystem) Location(name string) string {
	return ecomload.S3Scheme + p.bucket + "/" + p.key(name)
}

func (p *S3FileSystem) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := p.key(name)
	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &p.bucket, Key: &key})
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("failed to access %s: %w", p.Location(name), fs.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to get %s: %w", p.Location(name), err)
	}
	return out.Body, nil
}

func isS3NotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return true
		}
	}
	return false
}
