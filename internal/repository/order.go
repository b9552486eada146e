package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"restaurant-service/internal/apperr"
	"restaurant-service/internal/entity"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db}
}

const orderColumns = `id, customer_id, total_amount, status, notes, created_at, updated_at`

func scanOrder(row interface {
	Scan(dest ...interface{}) error
}) (*entity.Order, error) {
	order := &entity.Order{}
	var notes sql.NullString
	err := row.Scan(&order.ID, &order.CustomerID, &order.TotalAmount, &order.Status, &notes, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	order.Notes = notes.String
	return order, nil
}

// GetOrderByID fetches an order together with its customer and products.
func (r *OrderRepository) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	orderQuery := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, orderQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("order %d not found", id)
		}
		return nil, err
	}

	productQuery := `
		SELECT p.id, p.name, p.description, p.price, p.category, p.is_available
		FROM products p
		JOIN order_products op ON op.product_id = p.id
		WHERE op.order_id = ?`
	rows, err := r.db.QueryContext(ctx, productQuery, id)
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
		order.Products = append(order.Products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	customerQuery := `SELECT id, name, email, phone, address, is_active, loyalty_active, created_at FROM customers WHERE id = ?`
	customer := &entity.Customer{}
	err = r.db.QueryRowContext(ctx, customerQuery, order.CustomerID).Scan(&customer.ID, &customer.Name, &customer.Email, &customer.Phone, &customer.Address, &customer.IsActive, &customer.LoyaltyActive, &customer.CreatedAt)
	if err == nil {
		order.Customer = customer
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	orderQuery := `INSERT INTO orders (customer_id, total_amount, status, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, orderQuery, order.CustomerID, order.TotalAmount, order.Status, order.Notes, now, now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Insert join rows with a single batch statement
	productQuery := `INSERT INTO order_products (order_id, product_id) VALUES `

	var values []interface{}
	for _, product := range order.Products {
		productQuery += "(?, ?),"
		values = append(values, orderID, product.ID)
	}
	productQuery = productQuery[:len(productQuery)-1]

	_, err = tx.ExecContext(ctx, productQuery, values...)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	err = tx.Commit()
	if err != nil {
		return nil, err
	}

	order.ID = int(orderID)
	order.CreatedAt = now
	order.UpdatedAt = now
	return order, nil
}

func (r *OrderRepository) UpdateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	orderQuery := `UPDATE orders SET notes = ?, updated_at = ? WHERE id = ?`
	_, err = tx.ExecContext(ctx, orderQuery, order.Notes, now, order.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if len(order.Products) > 0 {
		deleteQuery := `DELETE FROM order_products WHERE order_id = ?`
		_, err = tx.ExecContext(ctx, deleteQuery, order.ID)
		if err != nil {
			tx.Rollback()
			return nil, err
		}

		productQuery := `INSERT INTO order_products (order_id, product_id) VALUES (?, ?)`
		for _, product := range order.Products {
			_, err := tx.ExecContext(ctx, productQuery, order.ID, product.ID)
			if err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	err = tx.Commit()
	if err != nil {
		return nil, err
	}

	order.UpdatedAt = now
	return order, nil
}

func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id int, status entity.OrderStatus) error {
	query := `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, status, time.Now().UTC().Truncate(time.Second), id)
	return err
}

// ListOrders returns orders with the given status, or every non-cancelled
// order when status is nil.
func (r *OrderRepository) ListOrders(ctx context.Context, status *entity.OrderStatus) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE `
	var arg interface{}
	if status != nil {
		query += `status = ?`
		arg = string(*status)
	} else {
		query += `status <> ?`
		arg = string(entity.StatusCancelled)
	}
	query += ` ORDER BY created_at DESC`

	return r.queryOrders(ctx, query, arg)
}

func (r *OrderRepository) ListOrdersByCustomer(ctx context.Context, customerID int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = ? ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, customerID)
}

// ActiveOrdersByCustomer returns the customer's non-cancelled orders, newest
// first. This is the loyalty engine's view of order history.
func (r *OrderRepository) ActiveOrdersByCustomer(ctx context.Context, customerID int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = ? AND status <> ? ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, customerID, string(entity.StatusCancelled))
}

func (r *OrderRepository) CountActiveOrdersSince(ctx context.Context, customerID int, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM orders WHERE customer_id = ? AND status <> ? AND created_at >= ?`
	var count int
	err := r.db.QueryRowContext(ctx, query, customerID, string(entity.StatusCancelled), since).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}
