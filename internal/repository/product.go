package repository

import (
	"context"
	"database/sql"
	"errors"

	"restaurant-service/internal/apperr"
	"restaurant-service/internal/entity"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	product := &entity.Product{}

	query := `SELECT id, name, description, price, category, is_available FROM products WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.Category, &product.IsAvailable)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("product %d not found", id)
		}
		return nil, err
	}

	return product, nil
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `INSERT INTO products (name, description, price, category, is_available) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, product.Name, product.Description, product.Price, product.Category, product.IsAvailable)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	product.ID = int(id)
	return product, nil
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `UPDATE products SET name = ?, description = ?, price = ?, category = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, product.Name, product.Description, product.Price, product.Category, product.ID)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// SetProductAvailable toggles the soft-delete flag.
func (r *ProductRepository) SetProductAvailable(ctx context.Context, id int, available bool) error {
	query := `UPDATE products SET is_available = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, available, id)
	return err
}

// GetProducts lists available products, optionally filtered by category.
func (r *ProductRepository) GetProducts(ctx context.Context, category string) ([]*entity.Product, error) {
	var products []*entity.Product

	query := `SELECT id, name, description, price, category, is_available FROM products WHERE is_available = TRUE`
	args := []interface{}{}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var product entity.Product
		err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.Category, &product.IsAvailable)
		if err != nil {
			return nil, err
		}
		products = append(products, &product)
	}

	return products, rows.Err()
}
