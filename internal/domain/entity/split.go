package entity

import "github.com/google/uuid"

// Split assigns example indices to subsets. The three slices are pairwise
// disjoint and together cover [0, n).
type Split struct {
	Train []int
	Val   []int
	Test  []int
}

func (s Split) Members(subset Subset) []int {
	switch subset {
	case SubsetTrain:
		return s.Train
	case SubsetVal:
		return s.Val
	default:
		return s.Test
	}
}

func (s Split) Counts() map[Subset]int {
	return map[Subset]int{
		SubsetTrain: len(s.Train),
		SubsetVal:   len(s.Val),
		SubsetTest:  len(s.Test),
	}
}

func (s Split) Len() int {
	return len(s.Train) + len(s.Val) + len(s.Test)
}

// Assignments returns the subset of every index in [0, Len()).
func (s Split) Assignments() []Subset {
	out := make([]Subset, s.Len())
	for _, subset := range Subsets() {
		for _, i := range s.Members(subset) {
			out[i] = subset
		}
	}
	return out
}

// Summary is what a finished run reports.
type Summary struct {
	RunID    uuid.UUID
	Examples int
	Counts   map[Subset]int
	Files    int
	Bytes    int64
	Archive  string
	Uploaded int
}
