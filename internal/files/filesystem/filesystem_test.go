package filesystem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, p Provider, name string) string {
	t.Helper()
	rc, err := p.Open(context.Background(), name)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestOSFileSystem_Open(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "customers.csv"), []byte("customer_id\nC1\n"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "orders.csv"), 0755))

	p := NewOSFileSystem(dir)

	assert.Equal(t, "customer_id\nC1\n", readAll(t, p, "customers.csv"))
	assert.Equal(t, filepath.Join(dir, "customers.csv"), p.Location("customers.csv"))

	_, err := p.Open(context.Background(), "missing.csv")
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)

	_, err = p.Open(context.Background(), "orders.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestMemoryFileSystem_Open(t *testing.T) {
	m := NewMemoryFileSystem("data")
	m.AddFile("products.csv", "product_id\nP1\n")

	assert.Equal(t, "product_id\nP1\n", readAll(t, m, "products.csv"))
	assert.Equal(t, "/data/products.csv", m.Location("products.csv"))

	_, err := m.Open(context.Background(), "orders.csv")
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)
}

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		raw     string
		bucket  string
		prefix  string
		wantErr bool
	}{
		{raw: "s3://bucket", bucket: "bucket"},
		{raw: "s3://bucket/", bucket: "bucket"},
		{raw: "s3://bucket/exports/2026/", bucket: "bucket", prefix: "exports/2026"},
		{raw: "s3://", wantErr: true},
		{raw: "/local/dir", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			bucket, prefix, err := ParseS3URL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.prefix, prefix)
		})
	}
}

// fakeS3 answers path-style GetObject requests from a map of bucket/key -> body.
type fakeS3 struct {
	objects map[string]string
	status  int
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	if f.status != 0 {
		return &http.Response{StatusCode: f.status, Body: io.NopCloser(strings.NewReader("")), Header: http.Header{}}, nil
	}
	if req.Method != http.MethodGet {
		return &http.Response{StatusCode: http.StatusNotImplemented, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
	}
	body, ok := f.objects[strings.TrimPrefix(req.URL.Path, "/")]
	if !ok {
		msg := `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader(msg)),
			Header:     http.Header{"Content-Type": {"application/xml"}},
		}, nil
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header: http.Header{
			"Content-Length": {fmt.Sprintf("%d", len(body))},
			"Content-Type":   {"text/csv"},
		},
	}, nil
}

func newFakeS3Client(t *testing.T, rt http.RoundTripper) *s3.Client {
	t.Helper()
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
	})
}

func TestS3FileSystem_Open(t *testing.T) {
	rt := &fakeS3{objects: map[string]string{
		"exports/nightly/customers.csv": "customer_id\nC1\n",
	}}
	p := NewS3FileSystemWithClient(newFakeS3Client(t, rt), "exports", "/nightly/")

	assert.Equal(t, "customer_id\nC1\n", readAll(t, p, "customers.csv"))
	assert.Equal(t, "s3://exports/nightly/customers.csv", p.Location("customers.csv"))

	_, err := p.Open(context.Background(), "orders.csv")
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)
}

func TestS3FileSystem_Open_ServerError(t *testing.T) {
	p := NewS3FileSystemWithClient(newFakeS3Client(t, &fakeS3{status: http.StatusForbidden}), "exports", "")

	_, err := p.Open(context.Background(), "customers.csv")
	require.Error(t, err)
	assert.False(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "s3://exports/customers.csv")
}
