package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"

	"restaurant-service/internal/apperr"
	"restaurant-service/internal/entity"
)

const productCacheTTL = 1 * time.Minute

type ProductService struct {
	products ProductStore
	rdb      *redis.Client
}

// NewProductService creates a new instance of ProductService.
func NewProductService(products ProductStore, rdb *redis.Client) *ProductService {
	return &ProductService{
		products: products,
		rdb:      rdb,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if product.Name == "" {
		return nil, apperr.Invalid("product name is required")
	}
	if product.Price.IsNegative() {
		return nil, apperr.Invalid("product price cannot be negative")
	}

	product.IsAvailable = true

	createdProduct, err := s.products.CreateProduct(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating product")
		return nil, err
	}

	return createdProduct, nil
}

func (s *ProductService) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	if os.Getenv("ENV") == "test" {
		return s.products.GetProductByID(ctx, id)
	}

	// Read from cache
	key := fmt.Sprintf("product:%d", id)
	productCache, err := s.rdb.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.Error().Err(err).Msgf("Error getting product %d from cache", id)
	}

	if productCache != "" {
		var product entity.Product
		err := json.Unmarshal([]byte(productCache), &product)
		if err == nil {
			return &product, nil
		}
		logger.Error().Err(err).Msgf("Error unmarshalling cached product %d", id)
	}

	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Write to cache
	productJSON, err := json.Marshal(product)
	if err == nil {
		if err := s.rdb.Set(ctx, key, productJSON, productCacheTTL).Err(); err != nil {
			logger.Error().Err(err).Msgf("Error setting product %d in cache", id)
		}
	}

	return product, nil
}

func (s *ProductService) GetProducts(ctx context.Context, category string) ([]*entity.Product, error) {
	return s.products.GetProducts(ctx, category)
}

func (s *ProductService) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	existing, err := s.products.GetProductByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	if product.Name == "" {
		product.Name = existing.Name
	}
	if product.Price.IsNegative() {
		return nil, apperr.Invalid("product price cannot be negative")
	}

	updatedProduct, err := s.products.UpdateProduct(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating product %d", product.ID)
		return nil, err
	}

	s.invalidateProductCache(ctx, product.ID)
	return updatedProduct, nil
}

// DeleteProduct soft-deletes: the row stays for order history, the product
// can no longer be ordered.
func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	if _, err := s.products.GetProductByID(ctx, id); err != nil {
		return err
	}
	if err := s.products.SetProductAvailable(ctx, id, false); err != nil {
		return err
	}

	s.invalidateProductCache(ctx, id)
	return nil
}

func (s *ProductService) invalidateProductCache(ctx context.Context, id int) {
	if os.Getenv("ENV") == "test" {
		return
	}
	key := fmt.Sprintf("product:%d", id)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error deleting product %d from cache", id)
	}
}
