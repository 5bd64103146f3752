package database

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (table_number, items, total, status, archived)
		VALUES ($1, $2, $3::numeric, $4, FALSE)
		RETURNING id, created_at`

	GetOrderSQL = `
		SELECT id, table_number, items, total::text, status, archived, created_at
		FROM orders WHERE id = $1`

	ListActiveOrdersSQL = `
		SELECT id, table_number, items, total::text, status, archived, created_at
		FROM orders WHERE archived = FALSE
		ORDER BY created_at ASC`

	ListArchivedOrdersSQL = `
		SELECT id, table_number, items, total::text, status, archived, created_at
		FROM orders WHERE archived = TRUE
		ORDER BY created_at DESC
		LIMIT $1`

	UpdateOrderStatusSQL = `
		UPDATE orders SET status = $1
		WHERE id = $2
		RETURNING id, table_number, items, total::text, status, archived, created_at`

	ArchiveOrderSQL = `
		UPDATE orders SET archived = TRUE
		WHERE id = $1
		RETURNING id, table_number, items, total::text, status, archived, created_at`
)

// Menu queries
const (
	ListMenuItemsSQL = `
		SELECT id, name, description, price::text, category, image_url, available, created_at
		FROM menu_items
		ORDER BY id ASC`

	GetMenuItemSQL = `
		SELECT id, name, description, price::text, category, image_url, available, created_at
		FROM menu_items WHERE id = $1`

	InsertMenuItemSQL = `
		INSERT INTO menu_items (name, description, price, category, image_url, available)
		VALUES ($1, $2, $3::numeric, $4, $5, $6)
		RETURNING id, created_at`

	UpdateMenuItemSQL = `
		UPDATE menu_items
		SET name = $1, description = $2, price = $3::numeric, category = $4, image_url = $5, available = $6
		WHERE id = $7
		RETURNING created_at`

	DeleteMenuItemSQL = `
		DELETE FROM menu_items WHERE id = $1`

	CountMenuItemsByIDSQL = `
		SELECT id FROM menu_items WHERE id = ANY($1)`
)

// Menu option queries
const (
	ListMenuOptionsSQL = `
		SELECT id, menu_item_id, name, extra_price::text, created_at
		FROM menu_options WHERE menu_item_id = $1
		ORDER BY id ASC`

	ListAllMenuOptionsSQL = `
		SELECT id, menu_item_id, name, extra_price::text, created_at
		FROM menu_options
		ORDER BY id ASC`

	InsertMenuOptionSQL = `
		INSERT INTO menu_options (menu_item_id, name, extra_price)
		VALUES ($1, $2, $3::numeric)
		RETURNING id, created_at`

	UpdateMenuOptionSQL = `
		UPDATE menu_options
		SET name = $1, extra_price = $2::numeric
		WHERE id = $3
		RETURNING menu_item_id, created_at`

	DeleteMenuOptionSQL = `
		DELETE FROM menu_options WHERE id = $1`
)

// User queries
const (
	GetUserByUsernameSQL = `
		SELECT id, username, password_hash, is_admin, created_at
		FROM users WHERE username = $1`

	InsertUserSQL = `
		INSERT INTO users (username, password_hash, is_admin)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	ListUsersSQL = `
		SELECT id, username, password_hash, is_admin, created_at
		FROM users
		ORDER BY id ASC`
)
