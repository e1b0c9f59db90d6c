package engine

import (
	"slices"

	"github.com/Thechi2000/were-legends/pkg/types"
)

// Romeo is given a lane to protect, and a substitute should it be unplayable.
type Romeo struct {
	src      Source
	juliette *types.Juliette
}

func (r *Romeo) isBehaviour() {}

func (r *Romeo) Initialize(p Player) error {
	juliette := pick(r.src, types.Positions)
	others := slices.DeleteFunc(slices.Clone(types.Positions), func(pos types.PlayerPosition) bool {
		return pos == juliette
	})

	r.juliette = &types.Juliette{Juliette: juliette, Substitute: pick(r.src, others)}
	p.Send(types.JulietteAssigned(*r.juliette))
	return nil
}

func (r *Romeo) OnTick(float64, Player) error { return nil }

func (r *Romeo) Snapshot() types.PlayerState {
	var juliette *types.Juliette
	if r.juliette != nil {
		j := *r.juliette
		juliette = &j
	}
	return types.PlayerState{Class: types.RoleRomeo, Juliette: juliette}
}
