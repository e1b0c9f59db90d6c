// Package hub is the process-wide registry of games and mailboxes.
//
// Lock order is always hub before game. Callers get a *game.Game back and
// call it after the hub lock has been released. CreateGameFor and JoinGame are
// the exception: they hold the hub lock across the membership check and the
// join, so a name can never end up in two games.
package hub

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Thechi2000/were-legends/internal/apperr"
	"github.com/Thechi2000/were-legends/internal/game"
	"github.com/Thechi2000/were-legends/internal/mailbox"
)

type Hub struct {
	mu        sync.RWMutex
	games     map[uuid.UUID]*game.Game
	mailboxes map[string]*mailbox.Mailbox

	opts game.Options
	log  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub returns an empty registry. Every game it creates uses opts and is
// closed when parent is cancelled or Shutdown is called.
func NewHub(parent context.Context, opts game.Options) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Hub{
		games:     make(map[uuid.UUID]*game.Game),
		mailboxes: make(map[string]*mailbox.Mailbox),
		opts:      opts,
		log:       opts.Logger.Named("hub"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// CreateGame registers a fresh game in Setup and starts its feed driver.
func (h *Hub) CreateGame() (uuid.UUID, *game.Game) {
	h.mu.Lock()
	defer h.mu.Unlock()

	g := h.createLocked()
	return g.ID(), g
}

// CreateGameFor creates a game with name as its first member. It fails with
// ErrAlreadyInGame if name already belongs to a game.
func (h *Hub) CreateGameFor(name string) (uuid.UUID, *game.Game, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, found := h.findByPlayerLocked(name); found {
		return uuid.Nil, nil, apperr.ErrAlreadyInGame
	}

	g := h.createLocked()
	if err := g.Join(name, h.mailboxLocked(name)); err != nil {
		delete(h.games, g.ID())
		g.Close()
		return uuid.Nil, nil, err
	}
	return g.ID(), g, nil
}

// JoinGame adds name to game id. It fails with ErrNotFound for unknown or
// closed games and ErrAlreadyInGame if name already belongs to any game.
func (h *Hub) JoinGame(id uuid.UUID, name string) (*game.Game, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	g, ok := h.games[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if _, found := h.findByPlayerLocked(name); found {
		return nil, apperr.ErrAlreadyInGame
	}
	if err := g.Join(name, h.mailboxLocked(name)); err != nil {
		return nil, err
	}
	return g, nil
}

func (h *Hub) createLocked() *game.Game {
	g := game.New(h.ctx, h.opts)
	h.games[g.ID()] = g
	h.log.Info("game created", zap.Stringer("game", g.ID()), zap.Int("games", len(h.games)))
	return g
}

func (h *Hub) FindGameByID(id uuid.UUID) (*game.Game, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	g, ok := h.games[id]
	return g, ok
}

// FindGameByPlayer scans every game for name.
func (h *Hub) FindGameByPlayer(name string) (uuid.UUID, *game.Game, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	id, found := h.findByPlayerLocked(name)
	if !found {
		return uuid.Nil, nil, false
	}
	return id, h.games[id], true
}

func (h *Hub) findByPlayerLocked(name string) (uuid.UUID, bool) {
	for id, g := range h.games {
		if g.HasPlayer(name) {
			return id, true
		}
	}
	return uuid.Nil, false
}

// TryRemoveGame drops the game if nobody is left in it, and stops its driver.
// It reports whether the game was removed.
func (h *Hub) TryRemoveGame(id uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	g, ok := h.games[id]
	if !ok || g.Len() > 0 {
		return false
	}
	delete(h.games, id)
	g.Close()
	h.log.Info("game removed",
		zap.Stringer("game", id),
		zap.Duration("age", time.Since(g.CreatedAt())),
		zap.Int("games", len(h.games)),
	)
	return true
}

// GetOrCreateMailbox is idempotent by name: a returning player keeps the
// mailbox, and anything still pending in it.
func (h *Hub) GetOrCreateMailbox(name string) *mailbox.Mailbox {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mailboxLocked(name)
}

func (h *Hub) mailboxLocked(name string) *mailbox.Mailbox {
	if mb, ok := h.mailboxes[name]; ok {
		return mb
	}
	mb := mailbox.New()
	h.mailboxes[name] = mb
	return mb
}

// Mailbox looks a mailbox up without creating it.
func (h *Hub) Mailbox(name string) (*mailbox.Mailbox, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	mb, ok := h.mailboxes[name]
	return mb, ok
}

func (h *Hub) GameCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games)
}

// Shutdown closes every game. The hub must not be used afterwards.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, g := range h.games {
		g.Close()
	}
	clear(h.games)
	h.cancel()
}
