// Package menu manages the restaurant catalog and keeps connected clients
// in sync through the realtime fan-out channel.
package menu

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"table-orders/internal/logger"
	"table-orders/internal/models"
)

// Repository defines persistence operations for the catalog
type Repository interface {
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id int64) error
	ListOptions(ctx context.Context, menuItemID int64) ([]models.MenuOption, error)
	CreateOption(ctx context.Context, option *models.MenuOption) error
	UpdateOption(ctx context.Context, option *models.MenuOption) error
	DeleteOption(ctx context.Context, id int64) error
	MissingMenuItemIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// Publisher broadcasts menu snapshots to subscribed clients
type Publisher interface {
	PublishMenu(ctx context.Context, snapshot models.MenuSnapshot) error
}

// Service manages the catalog. Writes go to the store first and only then
// to the fan-out channel, so a fresh page load can never see data the
// broadcast has but the store lost.
type Service struct {
	repo    Repository
	pub     Publisher
	logger  *logger.Logger
	version atomic.Int64
}

// NewService creates a new menu service
func NewService(repo Repository, pub Publisher, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		pub:    pub,
		logger: log,
	}
}

// Snapshot reads the full catalog and stamps it with a fresh version, so a
// pull response is ordered against concurrent broadcasts.
func (s *Service) Snapshot(ctx context.Context) (models.MenuSnapshot, error) {
	items, err := s.repo.ListMenuItems(ctx)
	if err != nil {
		return models.MenuSnapshot{}, fmt.Errorf("failed to list menu items: %w", err)
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	return models.MenuSnapshot{Version: s.nextVersion(), Items: items}, nil
}

// CreateMenuItem adds a catalog entry and republishes the menu
func (s *Service) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if err := validateMenuItem(item); err != nil {
		return err
	}
	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return err
	}
	s.republish(ctx)
	return nil
}

// UpdateMenuItem replaces a catalog entry and republishes the menu
func (s *Service) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if err := validateMenuItem(item); err != nil {
		return err
	}
	if err := s.repo.UpdateMenuItem(ctx, item); err != nil {
		return err
	}
	s.republish(ctx)
	return nil
}

// DeleteMenuItem removes a catalog entry and republishes the menu
func (s *Service) DeleteMenuItem(ctx context.Context, id int64) error {
	if err := s.repo.DeleteMenuItem(ctx, id); err != nil {
		return err
	}
	s.republish(ctx)
	return nil
}

// ListOptions returns the options of one menu item
func (s *Service) ListOptions(ctx context.Context, menuItemID int64) ([]models.MenuOption, error) {
	return s.repo.ListOptions(ctx, menuItemID)
}

// CreateOption adds an option and republishes the menu
func (s *Service) CreateOption(ctx context.Context, option *models.MenuOption) error {
	if err := validateOption(option); err != nil {
		return err
	}
	if _, err := s.repo.GetMenuItem(ctx, option.MenuItemID); err != nil {
		return err
	}
	if err := s.repo.CreateOption(ctx, option); err != nil {
		return err
	}
	s.republish(ctx)
	return nil
}

// UpdateOption replaces an option and republishes the menu
func (s *Service) UpdateOption(ctx context.Context, option *models.MenuOption) error {
	if err := validateOption(option); err != nil {
		return err
	}
	if err := s.repo.UpdateOption(ctx, option); err != nil {
		return err
	}
	s.republish(ctx)
	return nil
}

// DeleteOption removes an option and republishes the menu
func (s *Service) DeleteOption(ctx context.Context, id int64) error {
	if err := s.repo.DeleteOption(ctx, id); err != nil {
		return err
	}
	s.republish(ctx)
	return nil
}

// MissingMenuItemIDs implements the catalog check used at order creation
func (s *Service) MissingMenuItemIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return s.repo.MissingMenuItemIDs(ctx, ids)
}

// republish broadcasts the current catalog after a successful write. The
// broadcast is best-effort: a publish failure is logged, not returned, since
// the store already holds the authoritative state and clients converge on
// their next pull.
func (s *Service) republish(ctx context.Context) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		s.logger.Error("menu_snapshot_failed", "Failed to build menu snapshot", "", err, nil)
		return
	}
	if err := s.pub.PublishMenu(ctx, snapshot); err != nil {
		s.logger.Error("menu_publish_failed", "Failed to broadcast menu snapshot", "", err, map[string]interface{}{
			"version": snapshot.Version,
		})
	}
}

// nextVersion returns a strictly increasing version. Versions are derived
// from the wall clock so independent publishers stay roughly comparable, and
// bumped past the last issued value so one publisher never repeats itself.
func (s *Service) nextVersion() int64 {
	for {
		now := time.Now().UnixNano()
		last := s.version.Load()
		if now <= last {
			now = last + 1
		}
		if s.version.CompareAndSwap(last, now) {
			return now
		}
	}
}

func validateMenuItem(item *models.MenuItem) error {
	if len(item.Name) == 0 || item.Name.Get(models.LangEnglish) == "" {
		return &models.ValidationError{Field: "name", Reason: "name is required"}
	}
	if item.Price.IsNegative() {
		return &models.ValidationError{Field: "price", Reason: "price must not be negative"}
	}
	if item.Category == "" {
		return &models.ValidationError{Field: "category", Reason: "category is required"}
	}
	return nil
}

func validateOption(option *models.MenuOption) error {
	if len(option.Name) == 0 || option.Name.Get(models.LangEnglish) == "" {
		return &models.ValidationError{Field: "name", Reason: "name is required"}
	}
	if option.ExtraPrice.IsNegative() {
		return &models.ValidationError{Field: "extra_price", Reason: "extra price must not be negative"}
	}
	return nil
}
