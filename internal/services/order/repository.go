package order

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

// PostgresRepository persists orders in PostgreSQL. Order items are stored
// as a JSON document; they are an immutable snapshot, never joined back to
// the catalog.
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates a new order repository
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// InsertOrder persists a new order and fills in the server-assigned id and
// timestamp
func (r *PostgresRepository) InsertOrder(ctx context.Context, order *models.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	err = r.db.QueryRow(ctx, database.InsertOrderSQL,
		order.TableNumber,
		string(items),
		order.Total.String(),
		string(order.Status),
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

// GetOrder returns the order with the given id
func (r *PostgresRepository) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, database.GetOrderSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "order", ID: id}
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	return order, nil
}

// ListActive returns all orders with archived=false
func (r *PostgresRepository) ListActive(ctx context.Context) ([]models.Order, error) {
	return r.listOrders(ctx, database.ListActiveOrdersSQL)
}

// ListArchived returns up to limit archived orders, newest first
func (r *PostgresRepository) ListArchived(ctx context.Context, limit int) ([]models.Order, error) {
	return r.listOrders(ctx, database.ListArchivedOrdersSQL, limit)
}

// UpdateStatus overwrites the order's status
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, database.UpdateOrderStatusSQL, string(status), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "order", ID: id}
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return order, nil
}

// Archive sets archived=true, independent of the order's status
func (r *PostgresRepository) Archive(ctx context.Context, id int64) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, database.ArchiveOrderSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "order", ID: id}
		}
		return nil, fmt.Errorf("failed to archive order: %w", err)
	}
	return order, nil
}

func (r *PostgresRepository) listOrders(ctx context.Context, sql string, args ...interface{}) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	return orders, rows.Err()
}

// scanOrder reads one order row. The total is read as text and parsed to
// keep the numeric value exact.
func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		order models.Order
		items []byte
		total string
	)

	err := row.Scan(
		&order.ID,
		&order.TableNumber,
		&items,
		&total,
		&order.Status,
		&order.Archived,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}

	order.Total, err = decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order total: %w", err)
	}

	return &order, nil
}
