package local

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groundwater-backend/internal/shared/storage/object"
)

func TestPutThenOpen(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	n, err := store.Put(ctx, "catalog/regions.yaml", "application/yaml", strings.NewReader("regions: []\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	rc, err := store.Open(ctx, "catalog/regions.yaml")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "regions: []\n", string(body))
}

func TestPutReplacesExisting(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	_, err := store.Put(ctx, "a.yaml", "", strings.NewReader("first"))
	require.NoError(t, err)
	_, err = store.Put(ctx, "a.yaml", "", strings.NewReader("second"))
	require.NoError(t, err)

	rc, err := store.Open(ctx, "a.yaml")
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "second", string(body))
}

func TestRejectsEscapingKeys(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"../outside.yaml", "/etc/passwd", "", "."} {
		_, err := store.Open(ctx, key)
		assert.ErrorIs(t, err, object.ErrInvalidKey, "key %q", key)
	}
}

func TestHonoursCancelledContext(t *testing.T) {
	store := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Open(ctx, "a.yaml")
	assert.ErrorIs(t, err, context.Canceled)
}
