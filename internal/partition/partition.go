// Package partition computes random three-way train/val/test splits over
// example indices.
package partition

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/fiapx/fiapx-dataset-splitter/internal/domain/entity"
	"gonum.org/v1/gonum/stat/sampleuv"
)

var ErrSampleSize = errors.New("sample larger than population")

// NewSource returns a PCG source seeded from seed, or from the global
// generator when seed is nil. Only seeded sources give reproducible splits.
func NewSource(seed *uint64) rand.Source {
	if seed == nil {
		return rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return rand.NewPCG(*seed, *seed)
}

// Sizes floors the train and val counts; test takes the remainder.
func Sizes(n int, f entity.Fractions) (nTrain, nVal, nTest int) {
	f = f.Clamped()
	nTrain = int(math.Floor(float64(n) * f.Train))
	nVal = int(math.Floor(float64(n) * f.Val))
	nTest = n - nTrain - nVal
	return nTrain, nVal, nTest
}

// Compute samples train from [0, n), then val from the indices train left
// over. Whatever remains is test.
func Compute(n int, f entity.Fractions, src rand.Source) (entity.Split, error) {
	if n < 0 {
		return entity.Split{}, fmt.Errorf("%w: negative example count %d", ErrSampleSize, n)
	}
	nTrain, nVal, _ := Sizes(n, f)

	all := make([]int, n)
	for i := range all {
		all[i] = i
	}

	train, rest, err := sample(all, nTrain, src)
	if err != nil {
		return entity.Split{}, fmt.Errorf("sample train: %w", err)
	}
	val, test, err := sample(rest, nVal, src)
	if err != nil {
		return entity.Split{}, fmt.Errorf("sample val: %w", err)
	}

	return entity.Split{Train: train, Val: val, Test: test}, nil
}

// sample draws k distinct elements of pop uniformly and returns them together
// with the elements that were not drawn, both in pop order.
func sample(pop []int, k int, src rand.Source) (picked, rest []int, err error) {
	if k < 0 || k > len(pop) {
		return nil, nil, fmt.Errorf("%w: want %d of %d", ErrSampleSize, k, len(pop))
	}
	if k == 0 {
		return []int{}, append([]int{}, pop...), nil
	}

	pos := make([]int, k)
	sampleuv.WithoutReplacement(pos, len(pop), src)

	taken := make([]bool, len(pop))
	for _, p := range pos {
		taken[p] = true
	}
	picked = make([]int, 0, k)
	rest = make([]int, 0, len(pop)-k)
	for p, v := range pop {
		if taken[p] {
			picked = append(picked, v)
		} else {
			rest = append(rest, v)
		}
	}
	return picked, rest, nil
}
