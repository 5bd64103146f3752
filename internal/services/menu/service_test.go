package menu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"table-orders/internal/logger"
	"table-orders/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fakeRepository keeps the catalog in memory
type fakeRepository struct {
	nextItemID   int64
	nextOptionID int64
	items        map[int64]*models.MenuItem
	options      map[int64]*models.MenuOption
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		nextItemID:   1,
		nextOptionID: 1,
		items:        make(map[int64]*models.MenuItem),
		options:      make(map[int64]*models.MenuOption),
	}
}

func (f *fakeRepository) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	for _, item := range f.items {
		items = append(items, *item)
	}
	return items, nil
}

func (f *fakeRepository) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "menu item", ID: id}
	}
	copied := *item
	return &copied, nil
}

func (f *fakeRepository) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	item.ID = f.nextItemID
	item.CreatedAt = time.Now().UTC()
	f.nextItemID++
	stored := *item
	f.items[item.ID] = &stored
	return nil
}

func (f *fakeRepository) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if _, ok := f.items[item.ID]; !ok {
		return &models.NotFoundError{Resource: "menu item", ID: item.ID}
	}
	stored := *item
	f.items[item.ID] = &stored
	return nil
}

func (f *fakeRepository) DeleteMenuItem(ctx context.Context, id int64) error {
	delete(f.items, id)
	return nil
}

func (f *fakeRepository) ListOptions(ctx context.Context, menuItemID int64) ([]models.MenuOption, error) {
	var options []models.MenuOption
	for _, option := range f.options {
		if option.MenuItemID == menuItemID {
			options = append(options, *option)
		}
	}
	return options, nil
}

func (f *fakeRepository) CreateOption(ctx context.Context, option *models.MenuOption) error {
	option.ID = f.nextOptionID
	option.CreatedAt = time.Now().UTC()
	f.nextOptionID++
	stored := *option
	f.options[option.ID] = &stored
	return nil
}

func (f *fakeRepository) UpdateOption(ctx context.Context, option *models.MenuOption) error {
	if _, ok := f.options[option.ID]; !ok {
		return &models.NotFoundError{Resource: "menu option", ID: option.ID}
	}
	stored := *option
	f.options[option.ID] = &stored
	return nil
}

func (f *fakeRepository) DeleteOption(ctx context.Context, id int64) error {
	delete(f.options, id)
	return nil
}

func (f *fakeRepository) MissingMenuItemIDs(ctx context.Context, ids []int64) ([]int64, error) {
	var missing []int64
	for _, id := range ids {
		if _, ok := f.items[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// fakePublisher records published snapshots
type fakePublisher struct {
	snapshots []models.MenuSnapshot
}

func (f *fakePublisher) PublishMenu(ctx context.Context, snapshot models.MenuSnapshot) error {
	f.snapshots = append(f.snapshots, snapshot)
	return nil
}

func pizza() *models.MenuItem {
	return &models.MenuItem{
		Name:      models.LocalizedText{"en": "Margherita", "fr": "Margherita", "ar": "مارغريتا"},
		Price:     d("8.00"),
		Category:  "pizza",
		Available: true,
	}
}

func TestCreateMenuItemPublishesSnapshot(t *testing.T) {
	repo := newFakeRepository()
	pub := &fakePublisher{}
	svc := NewService(repo, pub, logger.New("test"))

	item := pizza()
	if err := svc.CreateMenuItem(context.Background(), item); err != nil {
		t.Fatalf("CreateMenuItem returned error: %v", err)
	}
	if item.ID == 0 {
		t.Error("expected assigned id")
	}

	if len(pub.snapshots) != 1 {
		t.Fatalf("published %d snapshots, want 1", len(pub.snapshots))
	}
	snap := pub.snapshots[0]
	if len(snap.Items) != 1 {
		t.Errorf("snapshot has %d items, want 1", len(snap.Items))
	}
	if snap.Version == 0 {
		t.Error("snapshot must carry a version")
	}
}

func TestSnapshotVersionsIncrease(t *testing.T) {
	repo := newFakeRepository()
	pub := &fakePublisher{}
	svc := NewService(repo, pub, logger.New("test"))

	for i := 0; i < 3; i++ {
		if err := svc.CreateMenuItem(context.Background(), pizza()); err != nil {
			t.Fatalf("CreateMenuItem returned error: %v", err)
		}
	}

	for i := 1; i < len(pub.snapshots); i++ {
		if pub.snapshots[i].Version <= pub.snapshots[i-1].Version {
			t.Errorf("version %d (%d) not greater than previous (%d)",
				i, pub.snapshots[i].Version, pub.snapshots[i-1].Version)
		}
	}
}

func TestPullSnapshotOrderedAgainstBroadcasts(t *testing.T) {
	repo := newFakeRepository()
	pub := &fakePublisher{}
	svc := NewService(repo, pub, logger.New("test"))

	if err := svc.CreateMenuItem(context.Background(), pizza()); err != nil {
		t.Fatalf("CreateMenuItem returned error: %v", err)
	}

	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if snap.Version <= pub.snapshots[0].Version {
		t.Error("a pull after a write must carry a higher version than the write's broadcast")
	}
}

func TestCreateMenuItemValidation(t *testing.T) {
	repo := newFakeRepository()
	pub := &fakePublisher{}
	svc := NewService(repo, pub, logger.New("test"))

	tests := []struct {
		name   string
		mutate func(*models.MenuItem)
	}{
		{"missing name", func(m *models.MenuItem) { m.Name = nil }},
		{"negative price", func(m *models.MenuItem) { m.Price = d("-1") }},
		{"missing category", func(m *models.MenuItem) { m.Category = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := pizza()
			tt.mutate(item)
			err := svc.CreateMenuItem(context.Background(), item)
			var ve *models.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}

	if len(pub.snapshots) != 0 {
		t.Error("rejected writes must not broadcast")
	}
}

func TestCreateOptionRequiresMenuItem(t *testing.T) {
	repo := newFakeRepository()
	pub := &fakePublisher{}
	svc := NewService(repo, pub, logger.New("test"))

	option := &models.MenuOption{
		MenuItemID: 99,
		Name:       models.LocalizedText{"en": "Extra cheese"},
		ExtraPrice: d("1.50"),
	}

	err := svc.CreateOption(context.Background(), option)
	var nf *models.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDeleteMenuItemPublishes(t *testing.T) {
	repo := newFakeRepository()
	pub := &fakePublisher{}
	svc := NewService(repo, pub, logger.New("test"))

	item := pizza()
	if err := svc.CreateMenuItem(context.Background(), item); err != nil {
		t.Fatalf("CreateMenuItem returned error: %v", err)
	}
	if err := svc.DeleteMenuItem(context.Background(), item.ID); err != nil {
		t.Fatalf("DeleteMenuItem returned error: %v", err)
	}

	last := pub.snapshots[len(pub.snapshots)-1]
	if len(last.Items) != 0 {
		t.Errorf("snapshot after delete has %d items, want 0", len(last.Items))
	}
}
