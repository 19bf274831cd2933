package main

import (
	"context"
	"os"

	"inventory-backend/internal/config"
	"inventory-backend/internal/infrastructure/database"
	"inventory-backend/pkg/logger"

	"github.com/joho/godotenv"
)

// Schema statements are idempotent; rerunning the migrator is safe.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id          UUID PRIMARY KEY,
		name        VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS categories_name_key ON categories (LOWER(name))`,

	`CREATE TABLE IF NOT EXISTS suppliers (
		id             UUID PRIMARY KEY,
		name           VARCHAR(255) NOT NULL,
		contact_person VARCHAR(255) NOT NULL DEFAULT '',
		phone          VARCHAR(64) NOT NULL DEFAULT '',
		email          VARCHAR(255) NOT NULL DEFAULT '',
		address        TEXT NOT NULL DEFAULT '',
		is_active      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS suppliers_name_key ON suppliers (LOWER(name))`,

	`CREATE TABLE IF NOT EXISTS customers (
		id         UUID PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		phone      VARCHAR(64) NOT NULL DEFAULT '',
		email      VARCHAR(255) NOT NULL DEFAULT '',
		address    TEXT NOT NULL DEFAULT '',
		is_active  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS warehouses (
		id         UUID PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		location   TEXT NOT NULL DEFAULT '',
		is_active  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS warehouses_name_key ON warehouses (LOWER(name))`,

	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		username      VARCHAR(64) NOT NULL,
		full_name     VARCHAR(255) NOT NULL,
		role          VARCHAR(16) NOT NULL
			CHECK (role IN ('ADMIN', 'MANAGER', 'SALES', 'WAREHOUSE')),
		password_hash VARCHAR(255) NOT NULL,
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_username_key ON users (LOWER(username))`,

	`CREATE TABLE IF NOT EXISTS products (
		id            UUID PRIMARY KEY,
		code          VARCHAR(64) NOT NULL UNIQUE,
		name          VARCHAR(255) NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		category_id   UUID REFERENCES categories (id),
		supplier_id   UUID REFERENCES suppliers (id),
		unit          VARCHAR(32) NOT NULL DEFAULT '',
		cost_price    NUMERIC(12,2) NOT NULL CHECK (cost_price >= 0),
		selling_price NUMERIC(12,2) NOT NULL CHECK (selling_price >= 0),
		reorder_level BIGINT NOT NULL DEFAULT 0 CHECK (reorder_level >= 0),
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS product_stocks (
		product_id   UUID NOT NULL REFERENCES products (id),
		warehouse_id UUID NOT NULL REFERENCES warehouses (id),
		on_hand      BIGINT NOT NULL DEFAULT 0 CHECK (on_hand >= 0),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (product_id, warehouse_id)
	)`,

	`CREATE TABLE IF NOT EXISTS purchase_headers (
		id                  UUID PRIMARY KEY,
		reference_number    VARCHAR(64) NOT NULL UNIQUE,
		supplier_id         UUID REFERENCES suppliers (id),
		warehouse_id        UUID NOT NULL REFERENCES warehouses (id),
		status              VARCHAR(16) NOT NULL
			CHECK (status IN ('DRAFT', 'POSTED', 'CANCELLED')),
		total_amount        NUMERIC(14,2) NOT NULL DEFAULT 0,
		notes               TEXT NOT NULL DEFAULT '',
		is_compensation     BOOLEAN NOT NULL DEFAULT FALSE,
		compensates_sale_id UUID,
		cancelled_by_sale_id UUID,
		created_by          UUID NOT NULL REFERENCES users (id),
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS purchase_items (
		id         UUID PRIMARY KEY,
		header_id  UUID NOT NULL REFERENCES purchase_headers (id),
		product_id UUID NOT NULL REFERENCES products (id),
		quantity   BIGINT NOT NULL CHECK (quantity > 0),
		unit_cost  NUMERIC(12,2) NOT NULL CHECK (unit_cost >= 0),
		line_total NUMERIC(14,2) NOT NULL,
		notes      TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS purchase_items_header_idx ON purchase_items (header_id)`,

	`CREATE TABLE IF NOT EXISTS sale_headers (
		id                      UUID PRIMARY KEY,
		invoice_number          VARCHAR(64) NOT NULL UNIQUE,
		customer_id             UUID REFERENCES customers (id),
		warehouse_id            UUID NOT NULL REFERENCES warehouses (id),
		status                  VARCHAR(16) NOT NULL
			CHECK (status IN ('DRAFT', 'POSTED', 'CANCELLED')),
		total_amount            NUMERIC(14,2) NOT NULL DEFAULT 0,
		notes                   TEXT NOT NULL DEFAULT '',
		is_compensation         BOOLEAN NOT NULL DEFAULT FALSE,
		compensates_purchase_id UUID,
		cancelled_by_purchase_id UUID,
		created_by              UUID NOT NULL REFERENCES users (id),
		created_at              TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS sale_items (
		id                 UUID PRIMARY KEY,
		header_id          UUID NOT NULL REFERENCES sale_headers (id),
		product_id         UUID NOT NULL REFERENCES products (id),
		quantity           BIGINT NOT NULL CHECK (quantity > 0),
		unit_price         NUMERIC(12,2) NOT NULL CHECK (unit_price >= 0),
		unit_cost_snapshot NUMERIC(12,2) NOT NULL CHECK (unit_cost_snapshot >= 0),
		line_total         NUMERIC(14,2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS sale_items_header_idx ON sale_items (header_id)`,

	`CREATE TABLE IF NOT EXISTS stock_movements (
		id                 BIGSERIAL PRIMARY KEY,
		product_id         UUID NOT NULL REFERENCES products (id),
		warehouse_id       UUID NOT NULL REFERENCES warehouses (id),
		delta              BIGINT NOT NULL CHECK (delta <> 0),
		kind               VARCHAR(16) NOT NULL
			CHECK (kind IN ('PURCHASE_IN', 'SALE_OUT', 'ADJUSTMENT')),
		doc_kind           VARCHAR(16) NOT NULL
			CHECK (doc_kind IN ('PURCHASE', 'SALE', 'ADJUSTMENT')),
		doc_id             UUID,
		line_id            UUID,
		unit_cost_snapshot NUMERIC(12,2),
		reason             TEXT NOT NULL DEFAULT '',
		occurred_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		actor              UUID NOT NULL REFERENCES users (id)
	)`,
	`CREATE INDEX IF NOT EXISTS stock_movements_product_idx
		ON stock_movements (product_id, warehouse_id, occurred_at, id)`,
	`CREATE INDEX IF NOT EXISTS stock_movements_kind_time_idx
		ON stock_movements (kind, occurred_at)`,

	`CREATE TABLE IF NOT EXISTS inventory_alerts (
		id                     UUID PRIMARY KEY,
		product_id             UUID NOT NULL REFERENCES products (id),
		kind                   VARCHAR(16) NOT NULL
			CHECK (kind IN ('LOW_STOCK', 'OUT_OF_STOCK')),
		message                TEXT NOT NULL,
		observed_on_hand       BIGINT NOT NULL,
		observed_reorder_level BIGINT NOT NULL,
		opened_at              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		resolved_at            TIMESTAMPTZ,
		resolved_by            VARCHAR(255)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS inventory_alerts_open_key
		ON inventory_alerts (product_id, kind) WHERE resolved_at IS NULL`,
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", err)
		os.Exit(1)
	}

	logger.Init(cfg.App.Environment)

	ctx := context.Background()
	db := database.NewPostgresDB(&cfg.Database)
	if err := db.Connect(ctx); err != nil {
		logger.Error("failed to connect database", err)
		os.Exit(1)
	}
	defer db.Close()

	for i, stmt := range statements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			logger.Error("migration failed", err)
			logger.Info("failed statement", map[string]interface{}{"index": i})
			os.Exit(1)
		}
	}

	logger.Info("schema migrated", map[string]interface{}{"statements": len(statements)})
}
