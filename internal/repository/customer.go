package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"restaurant-service/internal/apperr"
	"restaurant-service/internal/entity"
)

const mysqlErrDuplicateEntry = 1062

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db}
}

func (r *CustomerRepository) GetCustomerByID(ctx context.Context, id int) (*entity.Customer, error) {
	customer := &entity.Customer{}
	query := `SELECT id, name, email, phone, address, is_active, loyalty_active, created_at FROM customers WHERE id = ?`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&customer.ID, &customer.Name, &customer.Email, &customer.Phone, &customer.Address, &customer.IsActive, &customer.LoyaltyActive, &customer.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("customer %d not found", id)
		}
		return nil, err
	}

	return customer, nil
}

func (r *CustomerRepository) CreateCustomer(ctx context.Context, customer *entity.Customer) (*entity.Customer, error) {
	query := `INSERT INTO customers (name, email, phone, address, is_active, loyalty_active) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, customer.Name, customer.Email, customer.Phone, customer.Address, customer.IsActive, customer.LoyaltyActive)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return nil, apperr.Conflict("customer with email %s already exists", customer.Email)
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	customer.ID = int(id)
	return customer, nil
}

// GetCustomers lists customers that have not been soft-deleted.
func (r *CustomerRepository) GetCustomers(ctx context.Context) ([]*entity.Customer, error) {
	var customers []*entity.Customer

	query := `SELECT id, name, email, phone, address, is_active, loyalty_active, created_at FROM customers WHERE is_active = TRUE`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var customer entity.Customer
		err := rows.Scan(&customer.ID, &customer.Name, &customer.Email, &customer.Phone, &customer.Address, &customer.IsActive, &customer.LoyaltyActive, &customer.CreatedAt)
		if err != nil {
			return nil, err
		}
		customers = append(customers, &customer)
	}

	return customers, rows.Err()
}

func (r *CustomerRepository) UpdateCustomer(ctx context.Context, customer *entity.Customer) (*entity.Customer, error) {
	query := `UPDATE customers SET name = ?, email = ?, phone = ?, address = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, customer.Name, customer.Email, customer.Phone, customer.Address, customer.ID)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return nil, apperr.Conflict("customer with email %s already exists", customer.Email)
		}
		return nil, err
	}
	return customer, nil
}

// SetCustomerActive toggles the soft-delete flag.
func (r *CustomerRepository) SetCustomerActive(ctx context.Context, id int, active bool) error {
	query := `UPDATE customers SET is_active = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, active, id)
	return err
}

// SetLoyaltyActive toggles loyalty program participation. Independent of the
// soft-delete flag so a suspended customer stays visible in listings.
func (r *CustomerRepository) SetLoyaltyActive(ctx context.Context, id int, active bool) error {
	query := `UPDATE customers SET loyalty_active = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, active, id)
	return err
}
