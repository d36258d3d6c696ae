package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/catalog"
	"storefront/internal/models"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `[
		{"id":"p1","name":"Lavender Candle","price":12.5,"image":"/images/lavender.jpg"},
		{"id":"p2","name":"Linen Pillow","price":30,"image":"/images/linen.jpg"}
	]`)

	snap, err := catalog.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())

	p, ok := snap.Get("p2")
	require.True(t, ok)
	assert.Equal(t, "Linen Pillow", p.Name)
	assert.Equal(t, 30.0, p.Price)

	_, ok = snap.Get("missing")
	assert.False(t, ok)
}

func TestLoad_Errors(t *testing.T) {
	_, err := catalog.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)

	_, err = catalog.Load(writeFile(t, `{not json`))
	assert.Error(t, err)
}

func TestSnapshotIsImmutable(t *testing.T) {
	src := []models.Product{{ID: "p1", Name: "Candle", Price: 10}}
	snap := catalog.NewSnapshot(src)

	src[0].Name = "changed"
	all := snap.All()
	all[0].Price = 999

	p, _ := snap.Get("p1")
	assert.Equal(t, "Candle", p.Name)
	assert.Equal(t, 10.0, p.Price)
}
