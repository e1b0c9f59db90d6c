package game

import (
	"maps"
	"slices"

	"github.com/Thechi2000/were-legends/internal/apperr"
	"github.com/Thechi2000/were-legends/pkg/types"
)

// PublicStatus is what anyone holding the game id may see.
func (g *Game) PublicStatus() types.GameStatus {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.publicStatusLocked()
}

// PlayerStatus adds the caller's own role snapshot. Non-members are refused.
func (g *Game) PlayerStatus(name string) (types.AuthenticatedGameStatus, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	p, ok := g.players[name]
	if !ok {
		return types.AuthenticatedGameStatus{}, apperr.ErrUnauthorized
	}

	status := types.AuthenticatedGameStatus{GameStatus: g.publicStatusLocked()}
	if p.engine != nil {
		snap := p.engine.Snapshot()
		status.PlayerState = &snap
	}
	return status, nil
}

func (g *Game) publicStatusLocked() types.GameStatus {
	return types.GameStatus{
		UID:         g.id.String(),
		PlayerNames: slices.Clone(g.order),
		State:       g.stateViewLocked(),
	}
}

func (g *Game) stateViewLocked() types.StateView {
	view := types.StateView{Name: g.state}

	switch g.state {
	case types.StateVoting:
		view.VotesReceived = slices.Sorted(maps.Keys(g.ballots))
	case types.StateEnd:
		view.Votes = make(map[string]types.Ballot, len(g.ballots))
		for voter, ballot := range g.ballots {
			view.Votes[voter] = maps.Clone(ballot)
		}
		view.Roles = maps.Clone(g.roles)
		view.Scores = Scores(g.ballots, g.roles)
	}
	return view
}
