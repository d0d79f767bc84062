// internal/metrics/aggregate_test.go
package metrics

import (
	"math"
	"testing"
)

// buildFrames fabricates a run buffer: warmupCount warm-up frames with an
// inflated frame time, then steady frames at steadyMs.
func buildFrames(total, warmupCount int, steadyMs float64) []FrameMetrics {
	frames := make([]FrameMetrics, total)
	for i := range frames {
		ft := steadyMs
		if i < warmupCount {
			ft = steadyMs * 4 // warm-up frames are slow and must be ignored
		}
		frames[i] = FrameMetrics{
			FrameIndex:    uint32(i),
			FrameTimeMs:   ft,
			GPUTimeMs:     ft * 0.75,
			IsWarmupFrame: i < warmupCount,
		}
	}
	return frames
}

func TestAggregateMarksSpikeAsOutlier(t *testing.T) {
	// 42 frames, 2 warm-up, one 200ms spike in an otherwise steady 16ms run.
	// With 40 post-warm-up samples the spike sits far beyond five standard
	// deviations of the raw distribution; smaller buffers cannot trip a 5
	// sigma threshold because a single point's deviation is bounded by
	// (n-1)/sqrt(n) sigmas.
	frames := buildFrames(42, 2, 16.0)
	frames[5].FrameTimeMs = 200.0

	agg := Aggregate(frames, "Perf_Spike", 0)

	if agg.ConfigName != "Perf_Spike" || agg.RunIndex != 0 {
		t.Fatalf("identity fields not set: %+v", agg)
	}
	if agg.OutlierCount != 1 {
		t.Fatalf("expected 1 outlier, got %d", agg.OutlierCount)
	}
	if agg.ValidFrameCount != 39 {
		t.Fatalf("expected 39 valid frames, got %d", agg.ValidFrameCount)
	}
	if !frames[5].IsOutlier {
		t.Fatal("spike frame must be flagged IsOutlier in place")
	}
	for i, m := range frames {
		if i != 5 && m.IsOutlier {
			t.Fatalf("frame %d wrongly flagged as outlier", i)
		}
	}

	// Clean statistics exclude the spike entirely.
	if !almostEqual(agg.MeanFrameTime, 16.0, 1e-9) {
		t.Fatalf("expected clean mean 16.0, got %v", agg.MeanFrameTime)
	}
	if agg.MaxFrameTime != 16.0 {
		t.Fatalf("expected clean max 16.0, got %v", agg.MaxFrameTime)
	}
	if !almostEqual(agg.MeanFPS, 62.5, 1e-9) {
		t.Fatalf("expected mean FPS 62.5, got %v", agg.MeanFPS)
	}
	if !almostEqual(agg.FPS1PercentLow, 62.5, 1e-9) {
		t.Fatalf("expected 1%% low FPS 62.5 on a uniform run, got %v", agg.FPS1PercentLow)
	}
}

func TestAggregateStripsWarmupFrames(t *testing.T) {
	frames := buildFrames(12, 3, 10.0)
	agg := Aggregate(frames, "cfg", 1)

	if agg.ValidFrameCount != 9 {
		t.Fatalf("expected 9 valid frames, got %d", agg.ValidFrameCount)
	}
	// Warm-up frames run at 40ms; a clean mean of 10 proves they were cut.
	if !almostEqual(agg.MeanFrameTime, 10.0, 1e-9) {
		t.Fatalf("warm-up frames leaked into the mean: %v", agg.MeanFrameTime)
	}
	if !almostEqual(agg.MeanGPUTime, 7.5, 1e-9) {
		t.Fatalf("expected mean GPU time 7.5, got %v", agg.MeanGPUTime)
	}
	// Warm-up frames are never outliers; they are excluded before detection.
	for i := 0; i < 3; i++ {
		if frames[i].IsOutlier {
			t.Fatalf("warm-up frame %d flagged as outlier", i)
		}
	}
}

func TestAggregateEmptyBuffers(t *testing.T) {
	for _, frames := range [][]FrameMetrics{
		nil,
		{},
		buildFrames(5, 5, 10.0), // all warm-up
	} {
		agg := Aggregate(frames, "empty", 2)
		if agg.ValidFrameCount != 0 || agg.OutlierCount != 0 {
			t.Fatalf("expected zero rollup, got %+v", agg)
		}
		if agg.MeanFrameTime != 0 || agg.MeanFPS != 0 {
			t.Fatalf("expected zero statistics, got %+v", agg)
		}
		if agg.ConfigName != "empty" || agg.RunIndex != 2 {
			t.Fatalf("identity fields must survive the zero rollup: %+v", agg)
		}
	}
}

func TestAggregateUniformRunHasNoOutliers(t *testing.T) {
	frames := buildFrames(50, 5, 16.67)
	agg := Aggregate(frames, "uniform", 0)

	if agg.OutlierCount != 0 {
		t.Fatalf("uniform run produced %d outliers", agg.OutlierCount)
	}
	if agg.ValidFrameCount != 45 {
		t.Fatalf("expected 45 valid frames, got %d", agg.ValidFrameCount)
	}
	if agg.StddevFrameTime != 0 {
		t.Fatalf("expected 0 stddev, got %v", agg.StddevFrameTime)
	}
	if agg.MinFrameTime != agg.MaxFrameTime {
		t.Fatalf("uniform run: min %v != max %v", agg.MinFrameTime, agg.MaxFrameTime)
	}
	if math.Abs(agg.Percentile99-16.67) > 1e-9 {
		t.Fatalf("expected p99 16.67, got %v", agg.Percentile99)
	}
}

func TestAggregatePercentile99ReflectsTail(t *testing.T) {
	// A jittery baseline alternating 9/11ms with a mild 14/15ms tail. The
	// tail is slow but well inside the 5 sigma rejection threshold, so it
	// must survive into the clean set and show up in p99 and max.
	frames := make([]FrameMetrics, 100)
	for i := range frames {
		ft := 9.0
		if i%2 == 1 {
			ft = 11.0
		}
		frames[i] = FrameMetrics{FrameIndex: uint32(i), FrameTimeMs: ft}
	}
	frames[50].FrameTimeMs = 14.0
	frames[70].FrameTimeMs = 15.0

	agg := Aggregate(frames, "tail", 0)
	if agg.OutlierCount != 0 {
		t.Fatalf("mild tail frames must not be rejected, got %d outliers", agg.OutlierCount)
	}
	if agg.Percentile99 < 14.0 {
		t.Fatalf("p99 should land in the tail, got %v", agg.Percentile99)
	}
	if agg.MaxFrameTime != 15.0 {
		t.Fatalf("expected max 15.0, got %v", agg.MaxFrameTime)
	}
}
