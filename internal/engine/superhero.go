package engine

import "github.com/Thechi2000/were-legends/pkg/types"

// passive is embedded by the roles that receive no directives during the match.
type passive struct{}

func (passive) Initialize(Player) error      { return nil }
func (passive) OnTick(float64, Player) error { return nil }
func (passive) isBehaviour()                 {}

// SuperHero has to carry the game.
type SuperHero struct{ passive }

func (*SuperHero) Snapshot() types.PlayerState { return types.PlayerState{Class: types.RoleSuperHero} }

// Impostor has to lose without getting caught.
type Impostor struct{ passive }

func (*Impostor) Snapshot() types.PlayerState { return types.PlayerState{Class: types.RoleImpostor} }

// Crook has to win with the worst possible score.
type Crook struct{ passive }

func (*Crook) Snapshot() types.PlayerState { return types.PlayerState{Class: types.RoleCrook} }

// Kamikaze has to die more than anyone else.
type Kamikaze struct{ passive }

func (*Kamikaze) Snapshot() types.PlayerState { return types.PlayerState{Class: types.RoleKamikaze} }
