package report

import (
	"sort"

	"github.com/datar-psa/lazarsfeld/scoring"
)

// Comparison pairs the score of one tree node in two runs.
type Comparison struct {
	Key
	Base  *float64
	Other *float64
	// Difference is Other - Base rounded to three decimals, nil when either side is missing
	Difference *float64
}

// Compare joins base and other on the row key and computes the score difference of every node.
// A node present in only one run keeps a nil score on the other side.
func Compare(base, other []Row) []Comparison {
	byKey := make(map[Key]*Comparison, len(base))
	for _, r := range base {
		c := entry(byKey, r.Key())
		c.Base = r.Score
	}
	for _, r := range other {
		c := entry(byKey, r.Key())
		c.Other = r.Score
	}

	out := make([]Comparison, 0, len(byKey))
	for _, c := range byKey {
		if c.Base != nil && c.Other != nil {
			d := scoring.Round(*c.Other - *c.Base)
			c.Difference = &d
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i].Key, out[j].Key) })
	return out
}

func entry(m map[Key]*Comparison, k Key) *Comparison {
	c, ok := m[k]
	if !ok {
		c = &Comparison{Key: k}
		m[k] = c
	}
	return c
}

func less(a, b Key) bool {
	switch {
	case a.Label != b.Label:
		return a.Label < b.Label
	case a.Model != b.Model:
		return a.Model < b.Model
	case a.Concept != b.Concept:
		return a.Concept < b.Concept
	case a.Dimension != b.Dimension:
		return a.Dimension < b.Dimension
	case a.Question != b.Question:
		return a.Question < b.Question
	default:
		return a.Level < b.Level
	}
}
