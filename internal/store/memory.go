// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Holds live guessing games for the HTTP service between requests.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Update runs a callback under the write lock so guesses on one game serialize.
//   - Prune evicts games matching a predicate; the HTTP server uses it to drop
//     won games after a grace period and abandoned games once their ticket expired.
//   - State is lost when the process restarts; finished games go to history.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/willeagren/edurust/internal/game"
)

// ErrNotFound is returned for unknown game IDs.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for live games.
type Store interface {
	// Save persists or updates a game state.
	Save(ctx context.Context, g *game.Game) error

	// Get returns a copy of the game with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (game.Game, error)

	// Update applies fn to the stored game while holding it exclusively.
	// The error returned by fn is passed through; the game stays stored either way.
	Update(ctx context.Context, id string, fn func(g *game.Game) error) error

	// Delete removes a game. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Prune removes every game for which expired returns true and reports how many went.
	Prune(ctx context.Context, expired func(g game.Game) bool) (int, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex          // guards games map
	games map[string]*game.Game // keyed by Game.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.Game)}
}

func (m *memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return *g, nil
	}
	return game.Game{}, ErrNotFound
}

func (m *memory) Update(ctx context.Context, id string, fn func(g *game.Game) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return ErrNotFound
	}
	return fn(g)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

func (m *memory) Prune(ctx context.Context, expired func(g game.Game) bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, g := range m.games {
		if expired(*g) {
			delete(m.games, id)
			n++
		}
	}
	return n, nil
}
