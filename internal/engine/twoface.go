package engine

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Thechi2000/were-legends/pkg/types"
)

const (
	twoFaceSwapMin = 5.0
	twoFaceSwapMax = 20.0
)

// TwoFace alternates between playing to win and inting.
type TwoFace struct {
	swap     distuv.Uniform
	coin     distuv.Bernoulli
	inting   bool
	nextSwap float64
}

func newTwoFace(src Source) (*TwoFace, error) {
	swap, err := newUniform(src, twoFaceSwapMin, twoFaceSwapMax)
	if err != nil {
		return nil, err
	}
	return &TwoFace{swap: swap, coin: coin(src)}, nil
}

func (tf *TwoFace) isBehaviour() {}

func (tf *TwoFace) Initialize(p Player) error {
	tf.nextSwap = tf.swap.Rand()
	tf.inting = tf.coin.Rand() == 1
	p.Send(types.TwoFaceState(tf.inting))
	return nil
}

func (tf *TwoFace) OnTick(elapsed float64, p Player) error {
	if elapsed < tf.nextSwap {
		return nil
	}

	tf.inting = !tf.inting
	tf.nextSwap += tf.swap.Rand()
	p.Send(types.TwoFaceState(tf.inting))
	return nil
}

func (tf *TwoFace) Snapshot() types.PlayerState {
	return types.PlayerState{Class: types.RoleTwoFace, Inting: tf.inting}
}

// NextSwapAt is the match time of the next alignment flip.
func (tf *TwoFace) NextSwapAt() float64 { return tf.nextSwap }
