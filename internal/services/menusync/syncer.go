// Package menusync reconciles the two sources of menu truth a client sees:
// an authoritative pull from the catalog and push updates from the fan-out
// channel. The pull and the push are unordered with respect to each other,
// so every snapshot carries a version and the syncer keeps the highest one;
// a stale arrival on either path is discarded instead of regressing the view.
package menusync

import (
	"context"
	"fmt"
	"sync"

	"table-orders/internal/logger"
	"table-orders/internal/models"
)

// Fetcher pulls the current catalog snapshot from the server
type Fetcher interface {
	FetchMenu(ctx context.Context) (models.MenuSnapshot, error)
}

// Stream delivers pushed snapshots until the context is cancelled
type Stream interface {
	Start(ctx context.Context, handler func(ctx context.Context, snapshot models.MenuSnapshot) error) error
}

// Syncer maintains one client-visible menu view fed by both sources
type Syncer struct {
	fetcher Fetcher
	stream  Stream
	logger  *logger.Logger

	mu      sync.Mutex
	current models.MenuSnapshot
	subs    map[int]func(models.MenuSnapshot)
	nextSub int
}

// New creates a syncer over the given pull and push sources
func New(fetcher Fetcher, stream Stream, log *logger.Logger) *Syncer {
	return &Syncer{
		fetcher: fetcher,
		stream:  stream,
		logger:  log,
		subs:    make(map[int]func(models.MenuSnapshot)),
	}
}

// Start fetches the initial snapshot and then consumes pushed updates until
// the context is cancelled. The initial pull may lose to a push that arrives
// first; Apply arbitrates by version either way.
func (s *Syncer) Start(ctx context.Context) error {
	snapshot, err := s.fetcher.FetchMenu(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch initial menu: %w", err)
	}
	s.Apply(snapshot)

	return s.stream.Start(ctx, func(ctx context.Context, snapshot models.MenuSnapshot) error {
		s.Apply(snapshot)
		return nil
	})
}

// Apply installs the snapshot if it is newer than the current view and
// notifies subscribers. It reports whether the snapshot was kept.
func (s *Syncer) Apply(snapshot models.MenuSnapshot) bool {
	s.mu.Lock()

	if s.current.Version != 0 && snapshot.Version <= s.current.Version {
		stale := s.current.Version
		s.mu.Unlock()
		s.logger.Debug("menu_snapshot_discarded", "Discarded stale menu snapshot", "", map[string]interface{}{
			"version":         snapshot.Version,
			"current_version": stale,
		})
		return false
	}

	s.current = snapshot
	subs := make([]func(models.MenuSnapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
	return true
}

// Subscribe registers an update callback and returns an unsubscribe func.
// The callback fires immediately with the current snapshot, if any.
func (s *Syncer) Subscribe(fn func(models.MenuSnapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	current := s.current
	s.mu.Unlock()

	if current.Version != 0 {
		fn(current)
	}

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Current returns the latest snapshot seen
func (s *Syncer) Current() models.MenuSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
