package migrations

import (
	"database/sql"
	"time"
)

func execWithRetry(db *sql.DB, query string, retries int) error {
	_, err := db.Exec(query)
	for i := 0; err != nil && i < retries; i++ {
		time.Sleep(1 * time.Second)
		_, err = db.Exec(query)
	}
	return err
}

// AutoMigrateCustomers creates the customers table if it does not exist.
func AutoMigrateCustomers(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS customers (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			email VARCHAR(100) NOT NULL UNIQUE,
			phone VARCHAR(30) NOT NULL DEFAULT '',
			address VARCHAR(255) NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			loyalty_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`
	return execWithRetry(db, query, retries)
}

// AutoMigrateProducts creates the products table if it does not exist.
func AutoMigrateProducts(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS products (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			description TEXT,
			price DECIMAL(10,2) NOT NULL,
			category VARCHAR(50) NOT NULL DEFAULT '',
			is_available BOOLEAN NOT NULL DEFAULT TRUE
		);
	`
	return execWithRetry(db, query, retries)
}

// AutoMigrateOrders creates the orders table if it does not exist.
func AutoMigrateOrders(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS orders (
			id INT AUTO_INCREMENT PRIMARY KEY,
			customer_id INT NOT NULL,
			total_amount DECIMAL(10,2) NOT NULL,
			status VARCHAR(20) NOT NULL,
			notes TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			INDEX idx_orders_customer_created (customer_id, created_at),
			FOREIGN KEY (customer_id) REFERENCES customers(id)
		);
	`
	return execWithRetry(db, query, retries)
}

// AutoMigrateOrderProducts creates the order_products table if it does not exist.
func AutoMigrateOrderProducts(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS order_products (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_id INT NOT NULL,
			product_id INT NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
			FOREIGN KEY (product_id) REFERENCES products(id)
		);
	`
	return execWithRetry(db, query, retries)
}
