package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/apperrors"
	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

func TestCatalogProductRepository(t *testing.T) {
	repo := repositories.NewCatalogProductRepository(catalog.NewSnapshot([]models.Product{
		{ID: "p1", Name: "Candle", Price: 10},
		{ID: "p2", Name: "Pillow", Price: 25},
	}))

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "p1", all[0].ID)

	p, err := repo.GetByID("p2")
	require.NoError(t, err)
	assert.Equal(t, "Pillow", p.Name)

	_, err = repo.GetByID("p9")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogProductRepository_NilSnapshot(t *testing.T) {
	repo := repositories.NewCatalogProductRepository(nil)
	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}
