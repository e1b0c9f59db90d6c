package engine

import (
	"errors"
	"fmt"

	"github.com/Thechi2000/were-legends/pkg/types"
)

var ErrUnknownRole = errors.New("unknown role")
var ErrInvalidDistribution = errors.New("invalid distribution parameters")

// Player is what a behaviour sees of the player it runs for.
type Player interface {
	Name() string
	Send(d types.Directive)
}

// Behaviour is the runtime of one role. The set of implementations is closed:
// SuperHero, Impostor, Crook, Kamikaze, Romeo, TwoFace and Droid.
//
// Callers serialise every call (the owning game holds its lock), so
// behaviours keep no locks of their own.
type Behaviour interface {
	// Initialize runs once, when the game goes from Draft to InGame.
	Initialize(p Player) error
	// OnTick runs on every match feed sample while the game is InGame.
	OnTick(elapsed float64, p Player) error
	Snapshot() types.PlayerState

	isBehaviour()
}

// Engine holds the behaviour of one player and dispatches lifecycle calls to it.
type Engine struct {
	role      types.Role
	behaviour Behaviour
}

// New maps a role to its behaviour. Every valid role has exactly one.
// Distribution parameters are checked here, so the behaviours never fail to draw.
func New(role types.Role, src Source) (*Engine, error) {
	if src == nil {
		src = Global
	}

	var (
		b   Behaviour
		err error
	)
	switch role {
	case types.RoleSuperHero:
		b = &SuperHero{}
	case types.RoleImpostor:
		b = &Impostor{}
	case types.RoleCrook:
		b = &Crook{}
	case types.RoleKamikaze:
		b = &Kamikaze{}
	case types.RoleRomeo:
		b = &Romeo{src: src}
	case types.RoleTwoFace:
		b, err = newTwoFace(src)
	case types.RoleDroid:
		b, err = newDroid(src)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", role, err)
	}

	return &Engine{role: role, behaviour: b}, nil
}

func (e *Engine) Role() types.Role { return e.role }

// Behaviour exposes the concrete variant for callers that need to match on it.
func (e *Engine) Behaviour() Behaviour { return e.behaviour }

func (e *Engine) Initialize(p Player) error {
	if err := e.behaviour.Initialize(p); err != nil {
		return fmt.Errorf("%s initialize: %w", e.role, err)
	}
	return nil
}

func (e *Engine) OnTick(elapsed float64, p Player) error {
	if err := e.behaviour.OnTick(elapsed, p); err != nil {
		return fmt.Errorf("%s tick at %.1fs: %w", e.role, elapsed, err)
	}
	return nil
}

func (e *Engine) Snapshot() types.PlayerState {
	return e.behaviour.Snapshot()
}
