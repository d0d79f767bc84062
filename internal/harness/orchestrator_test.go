// internal/harness/orchestrator_test.go
package harness

import (
	"context"
	"errors"
	"testing"

	"github.com/mwiater/aquabench/internal/campath"
	"github.com/mwiater/aquabench/internal/gputimer"
)

// fakeHost drives the orchestrator without a real renderer. The degraded
// timer path is exercised on purpose: orchestration behavior must not depend
// on a working timestamp facility.
type fakeHost struct {
	applied     []TestConfig
	poses       []campath.Keyframe
	renders     int
	failAt      int
	cancelAfter int
	cancel      context.CancelFunc
	capture     []byte
}

func (h *fakeHost) ApplyConfig(cfg TestConfig)         { h.applied = append(h.applied, cfg) }
func (h *fakeHost) ApplyCamera(pose campath.Keyframe)  { h.poses = append(h.poses, pose) }
func (h *fakeHost) CaptureFrame() []byte               { return h.capture }
func (h *fakeHost) RenderFrame(*gputimer.Timer) error {
	h.renders++
	if h.failAt > 0 && h.renders == h.failAt {
		return errors.New("device lost")
	}
	if h.cancelAfter > 0 && h.renders == h.cancelAfter {
		h.cancel()
	}
	return nil
}

// memorySink records everything the orchestrator emits.
type memorySink struct {
	runs     []TestRunResult
	suites   []TestSuiteResult
	captured []uint32
	lastSeen bool
	err      error
}

func (s *memorySink) RunCompleted(run TestRunResult) error {
	s.runs = append(s.runs, run)
	return s.err
}

func (s *memorySink) SuiteCompleted(suite TestSuiteResult) error {
	s.suites = append(s.suites, suite)
	return s.err
}

func (s *memorySink) FrameCaptured(cfg TestConfig, runIndex int, frameIndex uint32, pixels []byte, lastFrame bool) error {
	s.captured = append(s.captured, frameIndex)
	if lastFrame {
		s.lastSeen = true
	}
	return s.err
}

func testConfig(name string, depth DepthLevel, frames, warmup, repeats int) TestConfig {
	return TestConfig{
		Name:         name,
		Depth:        depth,
		TotalFrames:  frames,
		WarmupFrames: warmup,
		RepeatCount:  repeats,
	}
}

func TestRunSuiteExecutesQueueInOrder(t *testing.T) {
	host := &fakeHost{}
	sink := &memorySink{}
	orch := NewOrchestrator(host, gputimer.New(nil), sink)

	cfgA := testConfig("A", DepthShallow, 6, 1, 2)
	cfgB := testConfig("B", DepthShallow, 4, 0, 2)
	if err := orch.Enqueue(cfgA, cfgB); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	suite, err := orch.RunSuite(context.Background(), "ordered")
	if err != nil {
		t.Fatalf("suite failed: %v", err)
	}
	if orch.State() != StateSuiteComplete {
		t.Fatalf("expected SuiteComplete, got %v", orch.State())
	}

	want := []struct {
		name string
		run  int
	}{
		{"A", 0}, {"A", 1}, {"B", 0}, {"B", 1},
	}
	if len(suite.Runs) != len(want) {
		t.Fatalf("expected %d runs, got %d", len(want), len(suite.Runs))
	}
	for i, w := range want {
		run := suite.Runs[i]
		if run.Config.Name != w.name || run.RunIndex != w.run {
			t.Fatalf("run %d: got %s/%d, want %s/%d", i, run.Config.Name, run.RunIndex, w.name, w.run)
		}
	}

	if len(sink.runs) != 4 || len(sink.suites) != 1 {
		t.Fatalf("sink saw %d runs and %d suites", len(sink.runs), len(sink.suites))
	}
	if host.renders != 2*6+2*4 {
		t.Fatalf("expected 20 rendered frames, got %d", host.renders)
	}

	// First run: 6 frames recorded, frame 0 flagged warm-up, 5 valid.
	first := suite.Runs[0]
	if len(first.Frames) != 6 {
		t.Fatalf("expected 6 frames, got %d", len(first.Frames))
	}
	if !first.Frames[0].IsWarmupFrame || first.Frames[1].IsWarmupFrame {
		t.Fatalf("warm-up flags wrong: %+v", first.Frames[:2])
	}
	if first.Aggregated.ValidFrameCount != 5 {
		t.Fatalf("expected 5 valid frames, got %d", first.Aggregated.ValidFrameCount)
	}
	if first.EndTime.Before(first.StartTime) {
		t.Fatal("run end precedes start")
	}
}

func TestPathSelectionByDepth(t *testing.T) {
	for _, depth := range []DepthLevel{DepthShallow, DepthDeep} {
		host := &fakeHost{}
		orch := NewOrchestrator(host, gputimer.New(nil), &memorySink{})
		if err := orch.Enqueue(testConfig("depth", depth, 10, 0, 1)); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
		if _, err := orch.RunSuite(context.Background(), "paths"); err != nil {
			t.Fatalf("suite failed: %v", err)
		}

		if len(host.poses) != 10 {
			t.Fatalf("expected 10 poses, got %d", len(host.poses))
		}
		firstY := host.poses[0].Position.Y()
		if firstY != -5 {
			t.Fatalf("depth %v: first pose Y = %v, want -5", depth, firstY)
		}
		// The final frame samples t=0.9, short of the path end: a deep run
		// has descended well past -25 by then, a shallow run never leaves -5.
		lastY := host.poses[9].Position.Y()
		if depth == DepthDeep && lastY > -25 {
			t.Fatalf("deep run never descended: last Y = %v", lastY)
		}
		if depth == DepthShallow && lastY != -5 {
			t.Fatalf("shallow run left the surface: last Y = %v", lastY)
		}
	}
}

func TestPathOverrideWins(t *testing.T) {
	host := &fakeHost{}
	orch := NewOrchestrator(host, gputimer.New(nil), &memorySink{})
	orch.PathOverride = campath.UnderwaterPath()

	if err := orch.Enqueue(testConfig("override", DepthShallow, 4, 0, 1)); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if _, err := orch.RunSuite(context.Background(), "override"); err != nil {
		t.Fatalf("suite failed: %v", err)
	}
	if got := host.poses[0].Position.Y(); got != -25 {
		t.Fatalf("override ignored: first pose Y = %v, want -25", got)
	}
}

func TestRunSuiteAbortFinalizesPartialRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	host := &fakeHost{cancelAfter: 3, cancel: cancel}
	sink := &memorySink{}
	orch := NewOrchestrator(host, gputimer.New(nil), sink)

	if err := orch.Enqueue(testConfig("abort", DepthShallow, 100, 2, 2)); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	suite, err := orch.RunSuite(ctx, "aborted")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// The partial run is finalized with the frames it got, and the suite
	// summary is still emitted.
	if len(suite.Runs) != 1 {
		t.Fatalf("expected 1 partial run, got %d", len(suite.Runs))
	}
	if got := len(suite.Runs[0].Frames); got != 3 {
		t.Fatalf("expected 3 recorded frames, got %d", got)
	}
	if len(sink.suites) != 1 {
		t.Fatalf("suite summary not emitted on abort")
	}
	if orch.State() != StateSuiteComplete {
		t.Fatalf("expected SuiteComplete after abort, got %v", orch.State())
	}
}

func TestRunSuiteRenderFailureFinalizesPartialRun(t *testing.T) {
	host := &fakeHost{failAt: 2}
	sink := &memorySink{}
	orch := NewOrchestrator(host, gputimer.New(nil), sink)

	if err := orch.Enqueue(testConfig("fail", DepthShallow, 10, 0, 1)); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	suite, err := orch.RunSuite(context.Background(), "failed")
	if err == nil {
		t.Fatal("expected render error to surface")
	}
	if len(suite.Runs) != 1 {
		t.Fatalf("expected 1 partial run, got %d", len(suite.Runs))
	}
	// The failing frame was never recorded.
	if got := len(suite.Runs[0].Frames); got != 1 {
		t.Fatalf("expected 1 recorded frame, got %d", got)
	}
}

func TestCaptureRunScoresImageQuality(t *testing.T) {
	capture := make([]byte, 16*16*4)
	for i := range capture {
		capture[i] = byte(i % 256)
	}
	host := &fakeHost{capture: capture}
	sink := &memorySink{}
	orch := NewOrchestrator(host, gputimer.New(nil), sink)

	cfg := testConfig("iq", DepthShallow, 5, 1, 1)
	cfg.CaptureFrames = true
	if err := orch.Enqueue(cfg); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	suite, err := orch.RunSuite(context.Background(), "capture")
	if err != nil {
		t.Fatalf("suite failed: %v", err)
	}
	run := suite.Runs[0]

	// Frame 1 is the reference; frames 2..4 are scored against it.
	if len(run.ImageQuality) != 3 {
		t.Fatalf("expected 3 scored frames, got %d", len(run.ImageQuality))
	}
	for _, iq := range run.ImageQuality {
		if iq.SSIM < 0.999 || iq.PSNR != 100 {
			t.Fatalf("identical captures must score perfect: %+v", iq)
		}
	}
	if run.Aggregated.AvgPSNR != 100 {
		t.Fatalf("expected aggregated PSNR 100, got %v", run.Aggregated.AvgPSNR)
	}
	if run.Aggregated.TemporalStability != 1 {
		t.Fatalf("identical captures must be perfectly coherent, got %v", run.Aggregated.TemporalStability)
	}

	// Every frame reached the sink; the last one was flagged.
	if len(sink.captured) != 5 || !sink.lastSeen {
		t.Fatalf("capture export incomplete: %d frames, last=%v", len(sink.captured), sink.lastSeen)
	}
}

func TestSinkFailuresAreNotFatal(t *testing.T) {
	host := &fakeHost{capture: make([]byte, 64)}
	sink := &memorySink{err: errors.New("disk full")}
	orch := NewOrchestrator(host, gputimer.New(nil), sink)

	cfg := testConfig("sink", DepthShallow, 3, 0, 1)
	cfg.CaptureFrames = true
	if err := orch.Enqueue(cfg); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	suite, err := orch.RunSuite(context.Background(), "sink")
	if err != nil {
		t.Fatalf("sink errors must not abort the suite: %v", err)
	}
	if len(suite.Runs) != 1 {
		t.Fatalf("in-memory results must survive sink failure, got %d runs", len(suite.Runs))
	}
}

func TestEnqueueRejectsInvalidConfig(t *testing.T) {
	orch := NewOrchestrator(&fakeHost{}, gputimer.New(nil), &memorySink{})

	bad := testConfig("bad", DepthShallow, 0, 0, 1)
	if err := orch.Enqueue(bad); err == nil {
		t.Fatal("expected validation error for zero totalFrames")
	}

	bad = testConfig("bad", DepthShallow, 10, 11, 1)
	if err := orch.Enqueue(bad); err == nil {
		t.Fatal("expected validation error for warmup > total")
	}
}

func TestFrameRingCapacityIsConfigurable(t *testing.T) {
	capture := make([]byte, 8*8*4)
	host := &fakeHost{capture: capture}
	orch := NewOrchestrator(host, gputimer.New(nil), &memorySink{})
	orch.SetFrameRingCapacity(2)

	cfg := testConfig("ring", DepthShallow, 5, 0, 1)
	cfg.CaptureFrames = true
	if err := orch.Enqueue(cfg); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	suite, err := orch.RunSuite(context.Background(), "ring")
	if err != nil {
		t.Fatalf("suite failed: %v", err)
	}

	// Five captures through a 2-frame ring leave exactly one frame pair for
	// temporal analysis, so the scored span ends at index 1.
	if got := suite.Runs[0].Temporal.EndFrame; got != 1 {
		t.Fatalf("ring capacity ignored: temporal span ends at %d, want 1", got)
	}
}

func TestApplyFrameOverrides(t *testing.T) {
	configs := PerformanceConfigs(true)

	overridden := ApplyFrameOverrides(configs, 40, 8)
	for _, cfg := range overridden {
		if cfg.TotalFrames != 40 || cfg.WarmupFrames != 8 {
			t.Fatalf("override not applied: %+v", cfg)
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("overridden config invalid: %v", err)
		}
	}

	// Originals are untouched.
	if configs[0].TotalFrames != 120 {
		t.Fatalf("ApplyFrameOverrides mutated its input: %d", configs[0].TotalFrames)
	}

	// Zero overrides leave the generated shape in place.
	unchanged := ApplyFrameOverrides(configs, 0, 0)
	if unchanged[0].TotalFrames != 120 || unchanged[0].WarmupFrames != 5 {
		t.Fatalf("zero override changed the shape: %+v", unchanged[0])
	}

	// A warm-up override larger than the total clamps to a valid shape.
	clamped := ApplyFrameOverrides(configs, 10, 25)
	for _, cfg := range clamped {
		if cfg.WarmupFrames != cfg.TotalFrames {
			t.Fatalf("warm-up not clamped: %+v", cfg)
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("clamped config invalid: %v", err)
		}
	}
}

func TestPresetGeneratorCounts(t *testing.T) {
	cases := []struct {
		name string
		got  int
		want int
	}{
		{"perf fast", len(PerformanceConfigs(true)), 6},
		{"perf full", len(PerformanceConfigs(false)), 36},
		{"iq fast", len(ImageQualityConfigs(true)), 3},
		{"iq full", len(ImageQualityConfigs(false)), 3},
		{"sweep fast", len(TradeOffSweepConfigs(true)), 6},
		{"sweep full", len(TradeOffSweepConfigs(false)), 14},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("%s: expected %d configs, got %d", tc.name, tc.want, tc.got)
		}
	}

	// Every generated config must be executable.
	all := append(PerformanceConfigs(false), append(ImageQualityConfigs(false), TradeOffSweepConfigs(false)...)...)
	for _, cfg := range all {
		if err := cfg.Validate(); err != nil {
			t.Fatalf("generated config invalid: %v", err)
		}
	}

	for _, cfg := range ImageQualityConfigs(true) {
		if !cfg.CaptureFrames {
			t.Fatalf("image-quality config %s must enable capture", cfg.Name)
		}
		if cfg.RepeatCount != 1 {
			t.Fatalf("image-quality config %s must be single-repeat", cfg.Name)
		}
	}
}
