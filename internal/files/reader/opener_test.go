package reader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/ecomload/internal/checksum"
	"github.com/vvka-141/ecomload/internal/files/filesystem"
	"github.com/vvka-141/ecomload/internal/schema"
	"github.com/vvka-141/ecomload/pkg/ecomload"
)

func TestProviderFor_Local(t *testing.T) {
	dir := t.TempDir()

	p, err := ProviderFor(context.Background(), ecomload.LoadConfig{DataDir: dir})
	require.NoError(t, err)

	_, ok := p.(*filesystem.OSFileSystem)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "orders.csv"), p.Location("orders.csv"))
}

func TestProviderFor_S3(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	p, err := ProviderFor(context.Background(), ecomload.LoadConfig{
		DataDir: "s3://shop-exports/daily/",
		S3:      ecomload.S3Config{Region: "eu-west-1", Endpoint: "http://localhost:9000", PathStyle: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "s3://shop-exports/daily/orders.csv", p.Location("orders.csv"))
}

func TestProviderFor_S3WithoutBucket(t *testing.T) {
	_, err := ProviderFor(context.Background(), ecomload.LoadConfig{DataDir: "s3://"})
	assert.True(t, errors.Is(err, ecomload.ErrInvalidConfig), "got %v", err)
}

func TestNewOpener_ReadsFromDataDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "customers.csv"),
		[]byte("customer_id,name,email\nC1,Ada,ada@example.com\n"), 0o600))

	open := NewOpener(schema.Default(), checksum.New())
	rr, err := open(context.Background(), ecomload.LoadConfig{DataDir: dir})
	require.NoError(t, err)

	data, err := rr.ReadTable(context.Background(), schema.Customers)
	require.NoError(t, err)
	assert.Len(t, data.Rows, 1)
	assert.Equal(t, filepath.Join(dir, "customers.csv"), data.Source)

	_, err = rr.ReadTable(context.Background(), schema.Products)
	assert.True(t, errors.Is(err, ecomload.ErrSourceNotFound))
}

func TestNewOpener_NilDeps(t *testing.T) {
	assert.Panics(t, func() { NewOpener(nil, checksum.New()) })
	assert.Panics(t, func() { NewOpener(schema.Default(), nil) })
}
