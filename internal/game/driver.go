package game

import (
	"time"

	"go.uber.org/zap"

	"github.com/Thechi2000/were-legends/pkg/types"
)

// loop is the match feed driver: every interval it samples the match clock
// and ticks the behaviours while the game is InGame. Delayed wake-ups are not
// caught up. It exits when the game is closed.
func (g *Game) loop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	g.log.Debug("feed driver started", zap.Duration("interval", interval))
	for {
		select {
		case <-g.ctx.Done():
			g.log.Debug("feed driver stopped")
			return

		case <-ticker.C:
			g.Advance()
		}
	}
}

// Advance ticks the game with the current match time. Outside InGame, or once
// an outside feed has called Tick, it does nothing.
func (g *Game) Advance() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != types.StateInGame || g.external {
		return
	}
	g.tickLocked(g.elapsedLocked().Seconds())
}
