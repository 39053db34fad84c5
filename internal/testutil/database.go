package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration database. It expects a MySQL instance on
// localhost:3306 with a database named vitashop_test and skips otherwise.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/vitashop_test?parseTime=true&clientFoundRows=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.Ping()
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties every table and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"OrderItems", "Orders", "PaymentSplitConfig", "Persons", "Users", "Products"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema used by the repositories.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createUsersTable := `
	CREATE TABLE IF NOT EXISTS Users (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(150),
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		deletedAt DATETIME NULL
	)`

	createPersonsTable := `
	CREATE TABLE IF NOT EXISTS Persons (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		userId INT NOT NULL UNIQUE,
		firstName VARCHAR(100) NOT NULL DEFAULT '',
		lastName VARCHAR(100) NOT NULL DEFAULT '',
		document VARCHAR(20),
		phone VARCHAR(30),
		INDEX idx_user (userId)
	)`

	createProductsTable := `
	CREATE TABLE IF NOT EXISTS Products (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		price DECIMAL(10,2) NULL,
		quantity INT NULL,
		externalUrl VARCHAR(500) NULL,
		status VARCHAR(30) NOT NULL DEFAULT 'active',
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		deletedAt DATETIME NULL,
		INDEX idx_deleted (deletedAt)
	)`

	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS Orders (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		userId INT NOT NULL,
		status VARCHAR(30) NOT NULL DEFAULT 'pending',
		subtotal DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		shippingCost DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		tax DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		total DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		paymentMethod VARCHAR(30) NULL,
		paymentStatus VARCHAR(30) NOT NULL DEFAULT 'pending',
		paymentTransactionId VARCHAR(100) NULL,
		shippingAddress TEXT NULL,
		billingAddress TEXT NULL,
		notes TEXT NULL,
		trackingNumber VARCHAR(100) NULL,
		stockReserved TINYINT(1) NOT NULL DEFAULT 0,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		deletedAt DATETIME NULL,
		INDEX idx_user (userId),
		INDEX idx_status (status, paymentStatus)
	)`

	createOrderItemsTable := `
	CREATE TABLE IF NOT EXISTS OrderItems (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId INT UNSIGNED NOT NULL,
		productId INT NOT NULL,
		quantity INT NOT NULL,
		unitPrice DECIMAL(10,2) NOT NULL,
		discount DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		total DECIMAL(12,2) NOT NULL,
		FOREIGN KEY (orderId) REFERENCES Orders(id) ON DELETE CASCADE,
		INDEX idx_order (orderId),
		INDEX idx_product (productId)
	)`

	createSplitConfigTable := `
	CREATE TABLE IF NOT EXISTS PaymentSplitConfig (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		recipientId VARCHAR(100) NOT NULL,
		platformRecipientId VARCHAR(100) NOT NULL,
		percentage INT NOT NULL,
		isActive TINYINT(1) NOT NULL DEFAULT 1,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Users", createUsersTable},
		{"Persons", createPersonsTable},
		{"Products", createProductsTable},
		{"Orders", createOrdersTable},
		{"OrderItems", createOrderItemsTable},
		{"PaymentSplitConfig", createSplitConfigTable},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}

// InsertProduct adds a product row and returns its id. Nil price or quantity
// are stored as NULL.
func InsertProduct(t *testing.T, db *sql.DB, name string, price *string, quantity *int, externalURL *string) int {
	result, err := db.Exec(`
		INSERT INTO Products (name, description, price, quantity, externalUrl, status)
		VALUES (?, '', ?, ?, ?, 'active')
	`, name, price, quantity, externalURL)
	if err != nil {
		t.Fatalf("failed to insert product: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read product id: %v", err)
	}
	return int(id)
}
