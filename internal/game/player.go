package game

import (
	"github.com/Thechi2000/were-legends/internal/engine"
	"github.com/Thechi2000/were-legends/internal/mailbox"
	"github.com/Thechi2000/were-legends/pkg/types"
)

// Player is a member of one game. The mailbox outlives the player: it belongs
// to the name and is reused across games.
type Player struct {
	name    string
	mailbox *mailbox.Mailbox
	engine  *engine.Engine // nil until the game leaves Setup
}

func (p *Player) Name() string { return p.name }

func (p *Player) Send(d types.Directive) { p.mailbox.Push(d) }

// Role reports the dealt role, if any.
func (p *Player) Role() (types.Role, bool) {
	if p.engine == nil {
		return "", false
	}
	return p.engine.Role(), true
}

// Engine is nil while the game is in Setup.
func (p *Player) Engine() *engine.Engine { return p.engine }
