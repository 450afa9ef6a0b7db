// Package scoring aggregates per-question answers into dimension, concept, model and text scores.
//
// Every level uses the same rule: the overall score is the arithmetic mean of the non-nil child
// scores rounded to three decimals, and nil when every child is nil. A nil child is left out of
// both the numerator and the denominator; it is never counted as zero. Declared weights are carried
// into the result tree but do not take part in the mean.
package scoring

import "math"

// Round rounds v to three decimal places. Exact ties go to the even neighbour, so 0.0625 becomes 0.062.
func Round(v float64) float64 {
	return math.RoundToEven(v*1000) / 1000
}

// Mean returns the rounded arithmetic mean of the non-nil values, or nil when there are none.
func Mean(values []*float64) *float64 {
	sum := 0.0
	n := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	mean := Round(sum / float64(n))
	return &mean
}
