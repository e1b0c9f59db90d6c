// Package game runs the lifecycle of a single party game:
//
//	Setup -> Draft -> InGame -> Voting -> End
//
// Every mutation and every tick takes the game's write lock, so transitions
// and role timers never run concurrently. Status reads take the read lock and
// see a consistent snapshot.
package game

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Thechi2000/were-legends/internal/apperr"
	"github.com/Thechi2000/were-legends/internal/engine"
	"github.com/Thechi2000/were-legends/internal/mailbox"
	"github.com/Thechi2000/were-legends/pkg/types"
)

const (
	MaxPlayers = engine.CompositionSize

	DefaultMinDuration  = 10 * time.Second
	DefaultFeedInterval = 3 * time.Second
)

type Options struct {
	Logger *zap.Logger
	Source engine.Source
	Now    func() time.Time

	// MinDuration is how long a match must run before End is accepted.
	MinDuration time.Duration
	// FeedInterval is the driver's wake-up period. Zero or less disables the driver.
	FeedInterval time.Duration
}

func DefaultOptions() Options {
	return Options{
		MinDuration:  DefaultMinDuration,
		FeedInterval: DefaultFeedInterval,
	}
}

type Game struct {
	mu sync.RWMutex

	id      uuid.UUID
	players map[string]*Player
	order   []string // join order

	state      types.StateName
	createdAt  time.Time
	startedAt  time.Time
	lastSample float64
	external   bool // an outside feed has taken over from the driver
	ballots    map[string]types.Ballot
	roles      map[string]types.Role // frozen at End

	opts Options
	log  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a game in Setup and launches its feed driver. The driver stops
// when parent is cancelled or Close is called.
func New(parent context.Context, opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Source == nil {
		opts.Source = engine.Global
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ctx, cancel := context.WithCancel(parent)
	id := uuid.New()

	g := &Game{
		id:        id,
		players:   make(map[string]*Player, MaxPlayers),
		state:     types.StateSetup,
		createdAt: opts.Now(),
		opts:      opts,
		log:       opts.Logger.With(zap.String("game", id.String())),
		ctx:       ctx,
		cancel:    cancel,
	}

	if opts.FeedInterval > 0 {
		go g.loop(opts.FeedInterval)
	}
	return g
}

func (g *Game) ID() uuid.UUID { return g.id }

// Close stops the feed driver. It is safe to call more than once.
func (g *Game) Close() { g.cancel() }

func (g *Game) CreatedAt() time.Time { return g.createdAt }

// Done is closed once the game has been closed.
func (g *Game) Done() <-chan struct{} { return g.ctx.Done() }

func (g *Game) State() types.StateName {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *Game) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.players)
}

func (g *Game) HasPlayer(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.players[name]
	return ok
}

// AddPlayer inserts name in Setup. It sends nothing; see Join.
func (g *Game) AddPlayer(name string, mb *mailbox.Mailbox) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addPlayerLocked(name, mb)
}

// Join adds name and, under the same lock, tells every member about it. The
// joiner also learns who was already there, so every mailbox ends up with the
// same PlayerJoin sequence in join order.
func (g *Game) Join(name string, mb *mailbox.Mailbox) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.addPlayerLocked(name, mb); err != nil {
		return err
	}

	joiner := g.players[name]
	for _, member := range g.order {
		if member == name {
			continue
		}
		g.players[member].Send(types.PlayerJoin(name))
		joiner.Send(types.PlayerJoin(member))
	}
	joiner.Send(types.PlayerJoin(name))
	return nil
}

func (g *Game) addPlayerLocked(name string, mb *mailbox.Mailbox) error {
	if g.ctx.Err() != nil {
		return apperr.ErrNotFound
	}
	if g.state != types.StateSetup {
		return apperr.ErrIncorrectState
	}
	if _, exists := g.players[name]; exists {
		return apperr.ErrAlreadyInGame
	}
	if len(g.players) >= MaxPlayers {
		return apperr.ErrMaxPlayerReached
	}

	g.players[name] = &Player{name: name, mailbox: mb}
	g.order = append(g.order, name)
	g.log.Info("player joined", zap.String("player", name), zap.Int("players", len(g.players)))
	return nil
}

// RemovePlayer is allowed in Setup and End only.
func (g *Game) RemovePlayer(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != types.StateSetup && g.state != types.StateEnd {
		return apperr.ErrIncorrectState
	}
	if _, exists := g.players[name]; !exists {
		return apperr.ErrNotInGame
	}

	delete(g.players, name)
	g.order = slices.DeleteFunc(g.order, func(n string) bool { return n == name })
	g.log.Info("player left", zap.String("player", name), zap.Int("players", len(g.players)))
	return nil
}

// Start moves Setup to Draft (dealing roles) and Draft to InGame (starting
// role timers).
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case types.StateSetup:
		return g.draftLocked()
	case types.StateDraft:
		g.beginMatchLocked()
		return nil
	default:
		return apperr.ErrIncorrectState
	}
}

func (g *Game) draftLocked() error {
	if len(g.players) < MaxPlayers {
		return apperr.ErrNotEnoughPlayers
	}
	for _, name := range g.order {
		if g.players[name].engine != nil {
			return apperr.Internal("player %s already has a role", name)
		}
	}

	dealt, err := engine.Deal(g.order, g.opts.Source)
	if err != nil {
		return apperr.Internal("deal roles: %v", err)
	}

	engines := make(map[string]*engine.Engine, len(dealt))
	for name, role := range dealt {
		e, err := engine.New(role, g.opts.Source)
		if err != nil {
			return apperr.Internal("role engine for %s: %v", name, err)
		}
		engines[name] = e
	}

	// Commit every assignment before anything is sent.
	for name, e := range engines {
		g.players[name].engine = e
	}
	g.state = types.StateDraft

	for _, name := range g.order {
		p := g.players[name]
		p.Send(types.RoleAssigned(p.engine.Role()))
	}
	g.broadcastStateLocked()
	g.log.Info("roles dealt")
	return nil
}

func (g *Game) beginMatchLocked() {
	g.startedAt = g.opts.Now()
	g.lastSample = 0
	g.external = false
	g.state = types.StateInGame

	for _, name := range g.order {
		p := g.players[name]
		if err := p.engine.Initialize(p); err != nil {
			g.log.Error("role initialize failed", zap.String("player", name), zap.Error(err))
		}
	}
	g.broadcastStateLocked()
	g.log.Info("match started")
}

// End closes the match and opens the ballots.
func (g *Game) End() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != types.StateInGame {
		return apperr.ErrIncorrectState
	}
	if played := g.elapsedLocked(); played < g.opts.MinDuration {
		g.log.Debug("end rejected", zap.Duration("played", played))
		return apperr.ErrIncorrectState
	}

	g.state = types.StateVoting
	g.ballots = make(map[string]types.Ballot, MaxPlayers)
	g.broadcastStateLocked()
	g.log.Info("voting opened")
	return nil
}

// Tick forwards one elapsed-seconds sample from an outside feed to every
// behaviour and reports whether it was applied. The first such sample silences
// the driver for the rest of the match, so the two clocks never interleave.
// Samples not newer than the last one delivered are dropped.
func (g *Game) Tick(elapsed float64) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != types.StateInGame {
		return false, apperr.ErrIncorrectState
	}
	if !g.external {
		g.external = true
		g.log.Info("external feed took over", zap.Float64("elapsed", elapsed))
	}
	return g.tickLocked(elapsed), nil
}

func (g *Game) tickLocked(elapsed float64) bool {
	if elapsed <= g.lastSample {
		g.log.Debug("stale sample dropped", zap.Float64("elapsed", elapsed), zap.Float64("last", g.lastSample))
		return false
	}
	g.lastSample = elapsed

	for _, name := range g.order {
		p := g.players[name]
		if err := p.engine.OnTick(elapsed, p); err != nil {
			g.log.Error("role tick failed", zap.String("player", name), zap.Error(err))
		}
	}
	return true
}

// elapsedLocked is the wall-clock match time since Draft -> InGame.
func (g *Game) elapsedLocked() time.Duration {
	return g.opts.Now().Sub(g.startedAt)
}

func (g *Game) broadcastStateLocked() {
	for _, name := range g.order {
		g.players[name].Send(types.StateChanged(g.state))
	}
}
