package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"table-orders/internal/database"
	"table-orders/internal/models"
)

// PostgresRepository persists the menu catalog in PostgreSQL
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates a new menu repository
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListMenuItems returns the full catalog with options attached
func (r *PostgresRepository) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := r.db.Query(ctx, database.ListMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	index := make(map[int64]int)
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		index[item.ID] = len(items)
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	optionRows, err := r.db.Query(ctx, database.ListAllMenuOptionsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu options: %w", err)
	}
	defer optionRows.Close()

	for optionRows.Next() {
		option, err := scanMenuOption(optionRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu option: %w", err)
		}
		if i, ok := index[option.MenuItemID]; ok {
			items[i].Options = append(items[i].Options, *option)
		}
	}

	return items, optionRows.Err()
}

// GetMenuItem returns one catalog entry without its options
func (r *PostgresRepository) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	item, err := scanMenuItem(r.db.QueryRow(ctx, database.GetMenuItemSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "menu item", ID: id}
		}
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}
	return item, nil
}

// CreateMenuItem inserts a catalog entry and fills in id and timestamp
func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	name, description, err := marshalTexts(item.Name, item.Description)
	if err != nil {
		return err
	}

	err = r.db.QueryRow(ctx, database.InsertMenuItemSQL,
		name,
		description,
		item.Price.String(),
		item.Category,
		item.ImageURL,
		item.Available,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

// UpdateMenuItem replaces a catalog entry's content
func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	name, description, err := marshalTexts(item.Name, item.Description)
	if err != nil {
		return err
	}

	err = r.db.QueryRow(ctx, database.UpdateMenuItemSQL,
		name,
		description,
		item.Price.String(),
		item.Category,
		item.ImageURL,
		item.Available,
		item.ID,
	).Scan(&item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &models.NotFoundError{Resource: "menu item", ID: item.ID}
		}
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	return nil
}

// DeleteMenuItem removes a catalog entry; its options cascade
func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, id int64) error {
	return r.db.Exec(ctx, database.DeleteMenuItemSQL, id)
}

// ListOptions returns the options of one menu item
func (r *PostgresRepository) ListOptions(ctx context.Context, menuItemID int64) ([]models.MenuOption, error) {
	rows, err := r.db.Query(ctx, database.ListMenuOptionsSQL, menuItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu options: %w", err)
	}
	defer rows.Close()

	var options []models.MenuOption
	for rows.Next() {
		option, err := scanMenuOption(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu option: %w", err)
		}
		options = append(options, *option)
	}
	return options, rows.Err()
}

// CreateOption inserts an option and fills in id and timestamp
func (r *PostgresRepository) CreateOption(ctx context.Context, option *models.MenuOption) error {
	name, err := json.Marshal(option.Name)
	if err != nil {
		return fmt.Errorf("failed to marshal option name: %w", err)
	}

	err = r.db.QueryRow(ctx, database.InsertMenuOptionSQL,
		option.MenuItemID,
		string(name),
		option.ExtraPrice.String(),
	).Scan(&option.ID, &option.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert menu option: %w", err)
	}
	return nil
}

// UpdateOption replaces an option's content
func (r *PostgresRepository) UpdateOption(ctx context.Context, option *models.MenuOption) error {
	name, err := json.Marshal(option.Name)
	if err != nil {
		return fmt.Errorf("failed to marshal option name: %w", err)
	}

	err = r.db.QueryRow(ctx, database.UpdateMenuOptionSQL,
		string(name),
		option.ExtraPrice.String(),
		option.ID,
	).Scan(&option.MenuItemID, &option.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &models.NotFoundError{Resource: "menu option", ID: option.ID}
		}
		return fmt.Errorf("failed to update menu option: %w", err)
	}
	return nil
}

// DeleteOption removes an option
func (r *PostgresRepository) DeleteOption(ctx context.Context, id int64) error {
	return r.db.Exec(ctx, database.DeleteMenuOptionSQL, id)
}

// MissingMenuItemIDs returns the subset of ids absent from the catalog
func (r *PostgresRepository) MissingMenuItemIDs(ctx context.Context, ids []int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, database.CountMenuItemsByIDSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu item ids: %w", err)
	}
	defer rows.Close()

	found := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int64
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func marshalTexts(name, description models.LocalizedText) (string, string, error) {
	nameJSON, err := json.Marshal(name)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal name: %w", err)
	}
	if description == nil {
		description = models.LocalizedText{}
	}
	descriptionJSON, err := json.Marshal(description)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal description: %w", err)
	}
	return string(nameJSON), string(descriptionJSON), nil
}

func scanMenuItem(row pgx.Row) (*models.MenuItem, error) {
	var (
		item        models.MenuItem
		name        []byte
		description []byte
		price       string
	)

	err := row.Scan(
		&item.ID,
		&name,
		&description,
		&price,
		&item.Category,
		&item.ImageURL,
		&item.Available,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(name, &item.Name); err != nil {
		return nil, fmt.Errorf("failed to unmarshal name: %w", err)
	}
	if err := json.Unmarshal(description, &item.Description); err != nil {
		return nil, fmt.Errorf("failed to unmarshal description: %w", err)
	}
	item.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price: %w", err)
	}

	return &item, nil
}

func scanMenuOption(row pgx.Row) (*models.MenuOption, error) {
	var (
		option models.MenuOption
		name   []byte
		price  string
	)

	err := row.Scan(
		&option.ID,
		&option.MenuItemID,
		&name,
		&price,
		&option.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(name, &option.Name); err != nil {
		return nil, fmt.Errorf("failed to unmarshal option name: %w", err)
	}
	option.ExtraPrice, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("failed to parse extra price: %w", err)
	}

	return &option, nil
}
