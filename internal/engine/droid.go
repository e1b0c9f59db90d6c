package engine

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Thechi2000/were-legends/pkg/types"
)

const (
	droidMissionMean   = 20.0
	droidMissionStdDev = 2.0
)

// Droid receives a random mission roughly every twenty seconds of match time.
type Droid struct {
	src      Source
	gap      distuv.Normal
	mission  *types.Mission
	nextFire float64
}

func newDroid(src Source) (*Droid, error) {
	gap, err := newNormal(src, droidMissionMean, droidMissionStdDev)
	if err != nil {
		return nil, err
	}
	return &Droid{src: src, gap: gap}, nil
}

func (d *Droid) isBehaviour() {}

func (d *Droid) Initialize(Player) error {
	d.nextFire = math.Max(d.gap.Rand(), 0)
	return nil
}

// OnTick fires at most once per sample. An interval drawn negative is kept
// as-is; the next sample simply fires again.
func (d *Droid) OnTick(elapsed float64, p Player) error {
	if elapsed < d.nextFire {
		return nil
	}

	d.nextFire += d.gap.Rand()
	mission := pick(d.src, types.Missions)
	d.mission = &mission
	p.Send(types.MissionAssigned(mission))
	return nil
}

func (d *Droid) Snapshot() types.PlayerState {
	var mission *types.Mission
	if d.mission != nil {
		m := *d.mission
		mission = &m
	}
	return types.PlayerState{Class: types.RoleDroid, Mission: mission}
}

// NextMissionAt is the match time of the next mission.
func (d *Droid) NextMissionAt() float64 { return d.nextFire }
