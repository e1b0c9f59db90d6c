package engine

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/Thechi2000/were-legends/pkg/types"
)

// CompositionSize is the number of players, and roles, in a game.
const CompositionSize = 5

// Every composition holds these three.
var baseComposition = []types.Role{
	types.RoleSuperHero,
	types.RoleDroid,
	types.RoleTwoFace,
}

// Exactly one alignment is drawn uniformly.
var alignments = [][]types.Role{
	{types.RoleImpostor},
	{types.RoleCrook},
	{types.RoleImpostor, types.RoleCrook},
}

// Remaining slots are drawn from here without replacement.
var fillerRoles = []types.Role{
	types.RoleKamikaze,
	types.RoleRomeo,
}

// GenerateComposition draws the five roles of a starting game.
func GenerateComposition(src Source) []types.Role {
	if src == nil {
		src = Global
	}

	roles := make([]types.Role, 0, CompositionSize)
	roles = append(roles, baseComposition...)
	roles = append(roles, pick(src, alignments)...)

	rng := rand.New(src)
	pool := slices.Clone(fillerRoles)
	for len(roles) < CompositionSize {
		i := rng.IntN(len(pool))
		roles = append(roles, pool[i])
		pool = slices.Delete(pool, i, i+1)
	}
	return roles
}

// Deal draws a composition and hands its roles out to names in random order.
func Deal(names []string, src Source) (map[string]types.Role, error) {
	if len(names) != CompositionSize {
		return nil, fmt.Errorf("deal needs %d players, got %d", CompositionSize, len(names))
	}
	if src == nil {
		src = Global
	}

	roles := GenerateComposition(src)
	rng := rand.New(src)
	for i := len(roles) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		roles[i], roles[j] = roles[j], roles[i]
	}

	dealt := make(map[string]types.Role, len(names))
	for i, name := range names {
		dealt[name] = roles[i]
	}
	return dealt, nil
}
