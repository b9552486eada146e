package service

import (
	"context"
	"time"

	"restaurant-service/internal/entity"
)

// Store interfaces are satisfied by the mysql repositories and by in-memory
// fakes in tests.

type CustomerStore interface {
	GetCustomerByID(ctx context.Context, id int) (*entity.Customer, error)
	CreateCustomer(ctx context.Context, customer *entity.Customer) (*entity.Customer, error)
	GetCustomers(ctx context.Context) ([]*entity.Customer, error)
	UpdateCustomer(ctx context.Context, customer *entity.Customer) (*entity.Customer, error)
	SetCustomerActive(ctx context.Context, id int, active bool) error
	SetLoyaltyActive(ctx context.Context, id int, active bool) error
}

type ProductStore interface {
	GetProductByID(ctx context.Context, id int) (*entity.Product, error)
	CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	GetProducts(ctx context.Context, category string) ([]*entity.Product, error)
	UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	SetProductAvailable(ctx context.Context, id int, available bool) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error)
	GetOrderByID(ctx context.Context, id int) (*entity.Order, error)
	ListOrders(ctx context.Context, status *entity.OrderStatus) ([]*entity.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID int) ([]*entity.Order, error)
	ActiveOrdersByCustomer(ctx context.Context, customerID int) ([]*entity.Order, error)
	CountActiveOrdersSince(ctx context.Context, customerID int, since time.Time) (int, error)
	UpdateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status entity.OrderStatus) error
}
