// Package order owns the canonical representation of submitted orders:
// creation, status transitions, and archival.
package order

import (
	"context"
	"fmt"

	"table-orders/internal/logger"
	"table-orders/internal/models"
)

// Orders staff screens keep on the archived list
const archivedListLimit = 20

// Repository defines persistence operations for orders
type Repository interface {
	InsertOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	ListActive(ctx context.Context) ([]models.Order, error)
	ListArchived(ctx context.Context, limit int) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error)
	Archive(ctx context.Context, id int64) (*models.Order, error)
}

// Catalog checks submitted menu item ids against the current catalog
type Catalog interface {
	MissingMenuItemIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// Service implements the order lifecycle
type Service struct {
	repo    Repository
	catalog Catalog
	logger  *logger.Logger
}

// NewService creates a new order service
func NewService(repo Repository, catalog Catalog, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		logger:  log,
	}
}

// CreateOrder validates and persists a new order with status pending.
// Every referenced menu item must exist in the current catalog; stale
// clients submitting items removed from the menu are rejected before
// anything is persisted.
func (s *Service) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ids := menuItemIDs(req.Items)
	missing, err := s.catalog.MissingMenuItemIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check catalog: %w", err)
	}
	if len(missing) > 0 {
		return nil, &models.ValidationError{
			Field:  "items",
			Reason: fmt.Sprintf("unknown menu item ids %v", missing),
		}
	}

	order := &models.Order{
		TableNumber: req.TableNumber,
		Items:       req.Items,
		Total:       req.Total,
		Status:      models.StatusPending,
		Archived:    false,
	}

	if err := s.repo.InsertOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	s.logger.Info("order_created", "Order created", "", map[string]interface{}{
		"order_id":     order.ID,
		"table_number": order.TableNumber,
		"total":        order.Total.String(),
	})

	return order, nil
}

// SetStatus changes an order's status. Only transitions in the lifecycle
// table are allowed; completed and cancelled are terminal.
func (s *Service) SetStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, &models.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", status)}
	}

	current, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !current.Status.CanTransitionTo(status) {
		return nil, &models.TransitionError{From: current.Status, To: status}
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order_status_changed", "Order status changed", "", map[string]interface{}{
		"order_id":   id,
		"old_status": string(current.Status),
		"new_status": string(status),
	})

	return updated, nil
}

// Archive marks an order archived regardless of its status. Archival is the
// terminal display bucket; orders are never deleted in normal operation.
func (s *Service) Archive(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.repo.Archive(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("order_archived", "Order archived", "", map[string]interface{}{
		"order_id": id,
		"status":   string(order.Status),
	})

	return order, nil
}

// ListActive returns all orders not yet archived, whatever their status
func (s *Service) ListActive(ctx context.Context) ([]models.Order, error) {
	return s.repo.ListActive(ctx)
}

// ListArchived returns the most recent archived orders, newest first
func (s *Service) ListArchived(ctx context.Context) ([]models.Order, error) {
	return s.repo.ListArchived(ctx, archivedListLimit)
}

// menuItemIDs collects the distinct menu item ids referenced by the items
func menuItemIDs(items []models.OrderItem) []int64 {
	seen := make(map[int64]bool, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if !seen[item.MenuItemID] {
			seen[item.MenuItemID] = true
			ids = append(ids, item.MenuItemID)
		}
	}
	return ids
}
