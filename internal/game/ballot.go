package game

import (
	"go.uber.org/zap"

	"github.com/Thechi2000/were-legends/internal/apperr"
	"github.com/Thechi2000/were-legends/pkg/types"
)

// AddBallot records voter's guesses about the other members. Guesses about
// the voter or about names not in the game are dropped. The fifth ballot ends
// the game and reveals every role.
func (g *Game) AddBallot(voter string, ballot types.Ballot) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != types.StateVoting {
		return apperr.ErrIncorrectState
	}
	if _, member := g.players[voter]; !member {
		return apperr.ErrNotInGame
	}
	if _, voted := g.ballots[voter]; voted || len(g.ballots) >= MaxPlayers {
		return apperr.ErrVotesClosed
	}

	kept := make(types.Ballot, len(ballot))
	for name, guess := range ballot {
		if _, member := g.players[name]; member && name != voter {
			kept[name] = guess
		}
	}
	g.ballots[voter] = kept
	g.log.Info("ballot received",
		zap.String("voter", voter),
		zap.Int("guesses", len(kept)),
		zap.Int("dropped", len(ballot)-len(kept)),
		zap.Int("ballots", len(g.ballots)),
	)

	if len(g.ballots) == MaxPlayers {
		g.closeVotingLocked()
	}
	return nil
}

func (g *Game) closeVotingLocked() {
	g.roles = make(map[string]types.Role, len(g.players))
	for name, p := range g.players {
		if role, ok := p.Role(); ok {
			g.roles[name] = role
		}
	}
	g.state = types.StateEnd
	g.broadcastStateLocked()
	g.log.Info("game over")
}

// Scores counts, for each voter, how many roles they guessed right.
func Scores(ballots map[string]types.Ballot, roles map[string]types.Role) map[string]int {
	scores := make(map[string]int, len(ballots))
	for voter, ballot := range ballots {
		correct := 0
		for name, guess := range ballot {
			if name == voter {
				continue
			}
			if actual, ok := roles[name]; ok && actual == guess {
				correct++
			}
		}
		scores[voter] = correct
	}
	return scores
}
