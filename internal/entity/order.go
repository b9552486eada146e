package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID          int             `json:"id"`
	CustomerID  int             `json:"customer_id"`
	Customer    *Customer       `json:"customer,omitempty"`
	Products    []Product       `json:"products,omitempty"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

/*
Mysql Table

CREATE TABLE orders (
	id INT AUTO_INCREMENT PRIMARY KEY,
	customer_id INT NOT NULL,
	total_amount DECIMAL(10,2) NOT NULL,
	status VARCHAR(20) NOT NULL,
	notes TEXT,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE order_products (
	id INT AUTO_INCREMENT PRIMARY KEY,
	order_id INT NOT NULL REFERENCES orders(id),
	product_id INT NOT NULL
);
*/
