package menusync

import (
	"context"
	"testing"

	"table-orders/internal/logger"
	"table-orders/internal/models"
)

func snap(version int64, names ...string) models.MenuSnapshot {
	items := make([]models.MenuItem, 0, len(names))
	for i, name := range names {
		items = append(items, models.MenuItem{
			ID:   int64(i + 1),
			Name: models.LocalizedText{"en": name},
		})
	}
	return models.MenuSnapshot{Version: version, Items: items}
}

type fakeFetcher struct {
	snapshot models.MenuSnapshot
}

func (f *fakeFetcher) FetchMenu(ctx context.Context) (models.MenuSnapshot, error) {
	return f.snapshot, nil
}

type fakeStream struct {
	snapshots []models.MenuSnapshot
}

func (f *fakeStream) Start(ctx context.Context, handler func(context.Context, models.MenuSnapshot) error) error {
	for _, s := range f.snapshots {
		if err := handler(ctx, s); err != nil {
			return err
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

func newSyncer() *Syncer {
	return New(&fakeFetcher{}, &fakeStream{}, logger.New("test"))
}

func TestApplyKeepsNewerSnapshot(t *testing.T) {
	s := newSyncer()

	if !s.Apply(snap(1, "Margherita")) {
		t.Fatal("first snapshot must be kept")
	}
	if !s.Apply(snap(2, "Margherita", "Pepperoni")) {
		t.Fatal("newer snapshot must be kept")
	}
	if len(s.Current().Items) != 2 {
		t.Errorf("current has %d items, want 2", len(s.Current().Items))
	}
}

func TestApplyDiscardsStaleSnapshot(t *testing.T) {
	s := newSyncer()

	// A push lands before the pull response resolves; the older pull
	// result must not regress the view.
	s.Apply(snap(5, "Margherita", "Pepperoni"))
	if s.Apply(snap(3, "Margherita")) {
		t.Fatal("stale snapshot must be discarded")
	}

	current := s.Current()
	if current.Version != 5 {
		t.Errorf("current version = %d, want 5", current.Version)
	}
	if len(current.Items) != 2 {
		t.Errorf("current has %d items, want 2", len(current.Items))
	}
}

func TestApplyDiscardsEqualVersion(t *testing.T) {
	s := newSyncer()

	s.Apply(snap(5, "Margherita"))
	if s.Apply(snap(5, "Pepperoni")) {
		t.Error("a snapshot with the same version must be discarded")
	}
}

func TestSubscribeFiresImmediately(t *testing.T) {
	s := newSyncer()
	s.Apply(snap(1, "Margherita"))

	var got []models.MenuSnapshot
	unsub := s.Subscribe(func(snapshot models.MenuSnapshot) {
		got = append(got, snapshot)
	})
	defer unsub()

	if len(got) != 1 || got[0].Version != 1 {
		t.Fatalf("expected immediate delivery of current snapshot, got %v", got)
	}

	s.Apply(snap(2, "Margherita", "Pepperoni"))
	if len(got) != 2 || got[1].Version != 2 {
		t.Errorf("expected delivery of new snapshot, got %d deliveries", len(got))
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := newSyncer()
	s.Apply(snap(1, "Margherita"))

	count := 0
	unsub := s.Subscribe(func(models.MenuSnapshot) { count++ })
	unsub()

	s.Apply(snap(2, "Margherita", "Pepperoni"))
	if count != 1 {
		t.Errorf("callback fired %d times after unsubscribe, want 1 (the immediate one)", count)
	}
}

func TestStartSeedsFromPullThenAppliesPushes(t *testing.T) {
	fetcher := &fakeFetcher{snapshot: snap(10, "Margherita")}
	stream := &fakeStream{snapshots: []models.MenuSnapshot{
		snap(8, "Stale"),
		snap(12, "Margherita", "Pepperoni"),
	}}
	s := New(fetcher, stream, logger.New("test"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // fakeStream exits once its queued snapshots are delivered

	_ = s.Start(ctx)

	current := s.Current()
	if current.Version != 12 {
		t.Errorf("current version = %d, want 12", current.Version)
	}
	if len(current.Items) != 2 {
		t.Errorf("current has %d items, want 2", len(current.Items))
	}
}
