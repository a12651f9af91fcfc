package database

import "fmt"

// Tables in dependency order. Drops run in reverse.
var tables = []string{"accounts", "suppliers", "category", "type", "products", "stockin", "stockout", "orders"}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    username VARCHAR(64) NOT NULL,
	    password_hash VARCHAR(100) NOT NULL,
	    fname VARCHAR(100) NOT NULL,
	    lname VARCHAR(100) NOT NULL,
	    role ENUM('Admin', 'Staff') NOT NULL DEFAULT 'Staff',
	    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	    UNIQUE KEY uk_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS suppliers (
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    name VARCHAR(200) NOT NULL,
	    UNIQUE KEY uk_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS category (
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    name VARCHAR(200) NOT NULL,
	    UNIQUE KEY uk_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	"CREATE TABLE IF NOT EXISTS `type` (" + `
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    name VARCHAR(200) NOT NULL,
	    category_id BIGINT NOT NULL,
	    FOREIGN KEY (category_id) REFERENCES category(id),
	    UNIQUE KEY uk_category_name (category_id, name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS products (
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    name VARCHAR(255) NOT NULL,
	    type_id BIGINT NOT NULL,
	    supplier_id BIGINT NOT NULL,
	    price DECIMAL(10,2) NOT NULL,
	    quantity INT NOT NULL DEFAULT 0,
	    total DECIMAL(12,2) NOT NULL,
	    reorder_level INT NOT NULL DEFAULT 0,
	    supplied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	    FOREIGN KEY (type_id) REFERENCES ` + "`type`" + `(id),
	    FOREIGN KEY (supplier_id) REFERENCES suppliers(id),
	    INDEX idx_quantity (quantity),
	    INDEX idx_type (type_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS stockin (
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    product_id BIGINT NOT NULL,
	    account_id BIGINT NOT NULL,
	    quantity INT NOT NULL,
	    reference CHAR(36) NOT NULL,
	    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	    FOREIGN KEY (product_id) REFERENCES products(id),
	    FOREIGN KEY (account_id) REFERENCES accounts(id),
	    INDEX idx_product (product_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS stockout (
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    product_id BIGINT NOT NULL,
	    account_id BIGINT NOT NULL,
	    quantity INT NOT NULL,
	    reference CHAR(36) NOT NULL,
	    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	    FOREIGN KEY (product_id) REFERENCES products(id),
	    FOREIGN KEY (account_id) REFERENCES accounts(id),
	    INDEX idx_product (product_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS orders (
	    id BIGINT PRIMARY KEY AUTO_INCREMENT,
	    supplier_id BIGINT NOT NULL,
	    product_id BIGINT NOT NULL,
	    quantity INT NOT NULL,
	    expected_date DATE NOT NULL,
	    status ENUM('Pending', 'Delivered') NOT NULL DEFAULT 'Pending',
	    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	    FOREIGN KEY (supplier_id) REFERENCES suppliers(id),
	    FOREIGN KEY (product_id) REFERENCES products(id),
	    INDEX idx_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// SetupSchema creates all inventory tables
func (db *DB) SetupSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

// DropSchema drops all inventory tables in reverse dependency order
func (db *DB) DropSchema() error {
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.Exec("DROP TABLE IF EXISTS `" + tables[i] + "`"); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", tables[i], err)
		}
	}
	return nil
}

// TableCounts returns the row count per inventory table
func (db *DB) TableCounts() (map[string]int64, error) {
	counts := make(map[string]int64, len(tables))
	for _, table := range tables {
		var n int64
		if err := db.QueryRow("SELECT COUNT(*) FROM `" + table + "`").Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// Tables lists the inventory tables in dependency order
func Tables() []string {
	out := make([]string, len(tables))
	copy(out, tables)
	return out
}
