package scoring

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ptr[T any](v T) *T { return &v }

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []*float64
		want   *float64
	}{
		{name: "empty", values: nil, want: nil},
		{name: "all nil", values: []*float64{nil, nil}, want: nil},
		{name: "single", values: []*float64{ptr(0.42)}, want: ptr(0.42)},
		{name: "nil excluded not zeroed", values: []*float64{ptr(0.8), nil, ptr(0.4)}, want: ptr(0.6)},
		{name: "rounded to three decimals", values: []*float64{ptr(0.1), ptr(0.2), ptr(0.2)}, want: ptr(0.167)},
		{name: "equal scores", values: []*float64{ptr(0.9), ptr(0.8)}, want: ptr(0.85)},
		{name: "tie rounds to even", values: []*float64{ptr(0.125), ptr(0.0)}, want: ptr(0.062)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mean(tt.values)
			if diff := cmp.Diff(tt.want, got, floatEq); diff != "" {
				t.Errorf("Mean() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMean_OrderIndependent(t *testing.T) {
	a := Mean([]*float64{ptr(0.1), nil, ptr(0.35), ptr(0.9)})
	b := Mean([]*float64{ptr(0.9), ptr(0.1), ptr(0.35), nil})
	if diff := cmp.Diff(a, b, floatEq); diff != "" {
		t.Errorf("Mean() depends on order (-a +b):\n%s", diff)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.12345, 0.123},
		{0.9996, 1.0},
		{0.0004, 0.0},
		{0.5, 0.5},
		{0.0625, 0.062},
		{0.1875, 0.188},
		{-0.0625, -0.062},
	}
	for _, tt := range tests {
		if got := Round(tt.in); got != tt.want {
			t.Errorf("Round(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

var floatEq = cmp.Comparer(func(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
})
