package repository

// Foreign keys carry no ON DELETE action; dependent rows are removed
// explicitly by the services inside the same transaction.

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price TEXT NOT NULL,
		sku TEXT NOT NULL UNIQUE,
		category_id TEXT REFERENCES categories(id),
		CHECK (CAST(price AS REAL) >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category_id ON products(category_id)`,
	`CREATE TABLE IF NOT EXISTS inventory (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL UNIQUE REFERENCES products(id),
		quantity INTEGER NOT NULL DEFAULT 0,
		min_stock_level INTEGER NOT NULL DEFAULT 0,
		last_updated TEXT NOT NULL,
		CHECK (quantity >= 0),
		CHECK (min_stock_level >= 0)
	)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description VARCHAR(1000) NOT NULL DEFAULT '',
		CONSTRAINT uq_categories_name UNIQUE (name)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS products (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description VARCHAR(1000) NOT NULL DEFAULT '',
		price DECIMAL(12,2) NOT NULL,
		sku VARCHAR(64) NOT NULL,
		category_id CHAR(36) NULL,
		CONSTRAINT uq_products_sku UNIQUE (sku),
		CONSTRAINT chk_products_price CHECK (price >= 0),
		CONSTRAINT fk_products_category FOREIGN KEY (category_id) REFERENCES categories(id),
		INDEX idx_products_category_id (category_id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS inventory (
		id CHAR(36) NOT NULL PRIMARY KEY,
		product_id CHAR(36) NOT NULL,
		quantity INT NOT NULL DEFAULT 0,
		min_stock_level INT NOT NULL DEFAULT 0,
		last_updated VARCHAR(40) NOT NULL,
		CONSTRAINT uq_inventory_product UNIQUE (product_id),
		CONSTRAINT chk_inventory_quantity CHECK (quantity >= 0),
		CONSTRAINT chk_inventory_min_stock CHECK (min_stock_level >= 0),
		CONSTRAINT fk_inventory_product FOREIGN KEY (product_id) REFERENCES products(id)
	) ENGINE=InnoDB`,
}
