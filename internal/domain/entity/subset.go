package entity

import (
	"errors"
	"fmt"
	"math"
)

type Subset string

const (
	SubsetTrain Subset = "train"
	SubsetVal   Subset = "val"
	SubsetTest  Subset = "test"
)

// Subsets returns every subset in output order.
func Subsets() []Subset {
	return []Subset{SubsetTrain, SubsetVal, SubsetTest}
}

// fractionTolerance absorbs float rounding in user-supplied fractions such as 0.7/0.2/0.1.
const fractionTolerance = 1e-6

var ErrInvalidFractions = errors.New("invalid split fractions")

type Fractions struct {
	Train float64
	Val   float64
	Test  float64
}

// NewFractions derives the test fraction as whatever train and val leave over.
func NewFractions(train, val float64) Fractions {
	return Fractions{Train: train, Val: val, Test: 1 - train - val}
}

func (f Fractions) Validate() error {
	for _, p := range []struct {
		name string
		v    float64
	}{{"train", f.Train}, {"val", f.Val}, {"test", f.Test}} {
		if math.IsNaN(p.v) || p.v < -fractionTolerance || p.v > 1+fractionTolerance {
			return fmt.Errorf("%w: %s fraction %g outside [0,1]", ErrInvalidFractions, p.name, p.v)
		}
	}
	if sum := f.Train + f.Val + f.Test; math.Abs(sum-1) > fractionTolerance {
		return fmt.Errorf("%w: fractions sum to %g, want 1", ErrInvalidFractions, sum)
	}
	return nil
}

// Clamped pulls fractions that Validate accepted within tolerance back into
// [0,1] and keeps Train+Val at most 1, so sample sizes never exceed n.
func (f Fractions) Clamped() Fractions {
	clamp := func(v float64) float64 { return math.Min(1, math.Max(0, v)) }
	out := Fractions{Train: clamp(f.Train), Val: clamp(f.Val), Test: clamp(f.Test)}
	if out.Train+out.Val > 1 {
		out.Val = 1 - out.Train
	}
	return out
}
