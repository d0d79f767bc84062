// internal/metrics/stats_test.go
package metrics

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestMean(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Fatalf("mean of empty slice should be 0, got %v", got)
	}
	if got := Mean([]float64{2, 4, 6}); got != 4 {
		t.Fatalf("expected 4, got %v", got)
	}
}

func TestMedian(t *testing.T) {
	if got := Median(nil); got != 0 {
		t.Fatalf("median of empty slice should be 0, got %v", got)
	}
	if got := Median([]float64{5, 1, 3}); got != 3 {
		t.Fatalf("odd count: expected 3, got %v", got)
	}
	if got := Median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Fatalf("even count: expected 2.5, got %v", got)
	}

	// Median must not reorder the caller's slice.
	values := []float64{5, 1, 3}
	Median(values)
	if values[0] != 5 {
		t.Fatal("Median mutated its input")
	}
}

func TestStdDev(t *testing.T) {
	if got := StdDev([]float64{7}, 7); got != 0 {
		t.Fatalf("single value should have 0 stddev, got %v", got)
	}

	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mean := Mean(values)
	// Sample (n-1) stddev: sqrt(32/7).
	want := math.Sqrt(32.0 / 7.0)
	if got := StdDev(values, mean); !almostEqual(got, want, 1e-9) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPercentileNearestRank(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	cases := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{50, 6},  // round(0.5*9) = 5 -> value 6, no interpolation
		{99, 10}, // round(0.99*9) = 9 -> last value
		{100, 10},
		{-5, 1},   // clamped low
		{150, 10}, // clamped high
	}
	for _, tc := range cases {
		if got := Percentile(sorted, tc.p); got != tc.want {
			t.Fatalf("p=%v: expected %v, got %v", tc.p, tc.want, got)
		}
	}

	if got := Percentile(nil, 50); got != 0 {
		t.Fatalf("empty slice should yield 0, got %v", got)
	}
	if got := Percentile([]float64{42}, 99); got != 42 {
		t.Fatalf("single value should yield itself, got %v", got)
	}
}

func TestPercentileMonotonic(t *testing.T) {
	values := []float64{12, 3, 44, 7, 19, 25, 31, 2, 16, 9, 27, 38}
	prev := math.Inf(-1)
	for p := 0.0; p <= 100; p += 5 {
		v := Percentile(values, p)
		if v < prev {
			t.Fatalf("percentile not monotonic at p=%v: %v < %v", p, v, prev)
		}
		prev = v
	}
}
