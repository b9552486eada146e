package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-service/internal/apperr"
	"restaurant-service/internal/entity"
)

func TestProductServiceSoftDelete(t *testing.T) {
	t.Setenv("ENV", "test")
	store := newFakeProductStore()
	svc := NewProductService(store, nil)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, &entity.Product{Name: "Margherita", Price: dec("12.50"), Category: "mains"})
	require.NoError(t, err)
	assert.True(t, created.IsAvailable)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))

	fetched, err := svc.GetProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, fetched.IsAvailable)

	listed, err := svc.GetProducts(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestCreateProductValidation(t *testing.T) {
	t.Setenv("ENV", "test")
	svc := NewProductService(newFakeProductStore(), nil)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, &entity.Product{Price: dec("1")})
	assert.True(t, apperr.IsInvalid(err))

	_, err = svc.CreateProduct(ctx, &entity.Product{Name: "Margherita", Price: dec("-1")})
	assert.True(t, apperr.IsInvalid(err))
}

func TestGetProductsFiltersByCategory(t *testing.T) {
	t.Setenv("ENV", "test")
	store := newFakeProductStore()
	svc := NewProductService(store, nil)
	ctx := context.Background()

	store.add(entity.Product{Name: "Margherita", Price: dec("12.50"), Category: "mains", IsAvailable: true})
	store.add(entity.Product{Name: "Tiramisu", Price: dec("6.00"), Category: "desserts", IsAvailable: true})

	listed, err := svc.GetProducts(ctx, "desserts")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Tiramisu", listed[0].Name)
}
