// Package schema defines the database schema.
//
// Tables are created with CREATE TABLE IF NOT EXISTS; columns added after the first
// release go into ColumnAdditions so older databases pick them up on boot. Readers must
// treat every added column as nullable.
package schema

// TableDefinitions contains all the SQL statements to create the database tables.
// Catalog and format columns are JSON, not JSONB: vendor and item order live in object
// key order, and JSONB re-sorts keys.
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS worlds (
		id BIGSERIAL PRIMARY KEY,
		code VARCHAR(8) UNIQUE NOT NULL,
		name VARCHAR(255),
		status VARCHAR(32) NOT NULL,
		owner_user_id VARCHAR(64) NOT NULL,
		catalog JSON,
		order_format JSON,
		display_format JSON,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS world_bindings (
		user_id VARCHAR(64) NOT NULL,
		world_id BIGINT NOT NULL REFERENCES worlds(id) ON DELETE CASCADE,
		role VARCHAR(20) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, world_id)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_world_bindings_one_owner ON world_bindings(user_id) WHERE role = 'owner'`,
	`CREATE TABLE IF NOT EXISTS current_worlds (
		user_id VARCHAR(64) PRIMARY KEY,
		world_id BIGINT NOT NULL REFERENCES worlds(id) ON DELETE CASCADE,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id VARCHAR(64) NOT NULL,
		branch VARCHAR(255) NOT NULL DEFAULT '',
		world_id BIGINT,
		item_name VARCHAR(255) NOT NULL,
		quantity INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_item_name ON order_items(item_name)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_world_id ON order_items(world_id)`,
	`CREATE TABLE IF NOT EXISTS order_history (
		id VARCHAR(64) PRIMARY KEY,
		order_id VARCHAR(64) NOT NULL,
		action VARCHAR(32) NOT NULL,
		branch VARCHAR(255) NOT NULL DEFAULT '',
		world_id BIGINT,
		user_id VARCHAR(64) NOT NULL,
		actor_label VARCHAR(255) NOT NULL DEFAULT '',
		before_data JSONB,
		after_data JSONB,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_history_action_created ON order_history(action, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_order_history_world_id ON order_history(world_id)`,
}

// ColumnAdditions are additive changes applied after TableDefinitions
var ColumnAdditions = []string{
	`ALTER TABLE worlds ADD COLUMN IF NOT EXISTS menu_image_url TEXT`,
	`ALTER TABLE worlds ADD COLUMN IF NOT EXISTS excel_mapping JSONB`,
	`ALTER TABLE worlds ADD COLUMN IF NOT EXISTS item_attribute_options JSONB`,
}

// TableNames returns a list of all table names in creation order
var TableNames = []string{
	"worlds",
	"world_bindings",
	"current_worlds",
	"order_items",
	"order_history",
}
