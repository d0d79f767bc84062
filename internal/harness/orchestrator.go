// internal/harness/orchestrator.go
package harness

import (
	"context"
	"time"

	"github.com/mwiater/aquabench/internal/campath"
	"github.com/mwiater/aquabench/internal/gputimer"
	"github.com/mwiater/aquabench/internal/logging"
	"github.com/mwiater/aquabench/internal/metrics"
	"github.com/mwiater/aquabench/internal/quality"
)

// progressLogInterval controls how often a running test logs its progress.
const progressLogInterval = 50

// FrameHost is the surface the external renderer exposes to the harness.
//
// RenderFrame must issue exactly one render submission bracketed by the
// timer's ResetForFrame/WriteStart/WriteEnd calls and then fully drain the
// GPU before returning. Draining after every frame defeats CPU/GPU overlap
// on purpose: without it a timestamp pair could span more than one frame's
// work or belong to the wrong submission.
type FrameHost interface {
	// ApplyConfig installs the scenario's rendering settings before a run.
	ApplyConfig(cfg TestConfig)
	// ApplyCamera moves the camera before render work is issued.
	ApplyCamera(pose campath.Keyframe)
	// RenderFrame renders one fully drained frame bracketed by timer writes.
	RenderFrame(timer *gputimer.Timer) error
	// CaptureFrame returns the last frame as raw RGBA8 bytes, or nil when
	// capture is unsupported.
	CaptureFrame() []byte
}

// RunSink receives finalized results. Sink failures are logged by the
// orchestrator and never abort a suite; in-memory results stay available.
type RunSink interface {
	RunCompleted(run TestRunResult) error
	SuiteCompleted(suite TestSuiteResult) error
	// FrameCaptured receives raw frames for optional periodic persistence.
	FrameCaptured(cfg TestConfig, runIndex int, frameIndex uint32, pixels []byte, lastFrame bool) error
}

// State is the orchestrator's position in the suite state machine.
type State int

const (
	StateIdle State = iota
	StateRunActive
	StateRunComplete
	StateSuiteComplete
)

// TestRunResult is one finalized run: its config, raw frames, quality scores
// and aggregate rollup. Immutable once returned.
type TestRunResult struct {
	Config       TestConfig                    `json:"config"`
	RunIndex     int                           `json:"runIndex"`
	Frames       []metrics.FrameMetrics        `json:"frames"`
	ImageQuality []quality.ImageQualityMetrics `json:"imageQuality,omitempty"`
	Temporal     quality.TemporalMetrics       `json:"temporal"`
	Aggregated   metrics.AggregatedRunMetrics  `json:"aggregated"`
	StartTime    time.Time                     `json:"startTime"`
	EndTime      time.Time                     `json:"endTime"`
}

// TestSuiteResult is the ordered collection of completed runs.
type TestSuiteResult struct {
	SuiteName string          `json:"suiteName"`
	Timestamp time.Time       `json:"timestamp"`
	Runs      []TestRunResult `json:"runs"`
}

// ProgressUpdate is a snapshot of suite progress for display layers.
type ProgressUpdate struct {
	ConfigName  string
	ConfigIndex int
	ConfigCount int
	RunIndex    int
	RepeatCount int
	FrameIndex  int
	TotalFrames int
	FPS         float64
	GPUTimeMs   float64
}

// Orchestrator executes a queue of test configurations against a FrameHost.
// It is single-threaded and cooperative: the per-frame sequence runs on the
// caller's goroutine and cancellation is checked once per frame.
type Orchestrator struct {
	host  FrameHost
	timer *gputimer.Timer
	sink  RunSink

	// OnProgress, when set, is invoked after every recorded frame.
	OnProgress func(ProgressUpdate)

	// PathOverride, when non-empty, replaces depth-based path selection.
	PathOverride campath.Path

	state       State
	queue       []TestConfig
	configIndex int
	runIndex    int
	frameIndex  int

	config   TestConfig
	path     campath.Path
	recorder *metrics.Recorder
	ring     *quality.FrameRing
	refFrame []byte
	iq       []quality.ImageQualityMetrics
	started  time.Time

	suite TestSuiteResult
}

// NewOrchestrator wires the harness to a host renderer, its GPU timer and a
// result sink.
func NewOrchestrator(host FrameHost, timer *gputimer.Timer, sink RunSink) *Orchestrator {
	return &Orchestrator{
		host:  host,
		timer: timer,
		sink:  sink,
		state: StateIdle,
		ring:  quality.NewFrameRing(quality.DefaultRingSize),
	}
}

// SetFrameRingCapacity bounds the temporal-analysis frame ring. Must be
// called before RunSuite; non-positive capacities fall back to the default.
func (o *Orchestrator) SetFrameRingCapacity(capacity int) {
	o.ring = quality.NewFrameRing(capacity)
}

// State returns the current state machine position.
func (o *Orchestrator) State() State { return o.state }

// Progress returns run completion as a percentage of total frames.
func (o *Orchestrator) Progress() float64 {
	if o.state != StateRunActive || o.config.TotalFrames == 0 {
		return 0
	}
	return float64(o.frameIndex) / float64(o.config.TotalFrames) * 100
}

// Enqueue validates and appends configs to the suite queue. Must be called
// before RunSuite.
func (o *Orchestrator) Enqueue(configs ...TestConfig) error {
	for _, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	o.queue = append(o.queue, configs...)
	return nil
}

// pathFor selects the camera path associated with a configuration: shallow
// configs orbit near the surface, deep configs descend while orbiting.
func (o *Orchestrator) pathFor(cfg TestConfig) campath.Path {
	if len(o.PathOverride.Keyframes) > 0 {
		return o.PathOverride
	}
	switch cfg.Depth {
	case DepthDeep:
		return campath.DepthTransitionPath()
	case DepthShallow:
		return campath.SurfacePath()
	}
	return campath.UnderwaterPath()
}

// startRun resets per-run state and transitions to RunActive.
func (o *Orchestrator) startRun(cfg TestConfig, runIndex int) {
	o.config = cfg
	o.runIndex = runIndex
	o.frameIndex = 0
	o.recorder = metrics.NewRecorder(cfg.TotalFrames, cfg.WarmupFrames)
	o.ring.Reset()
	o.refFrame = nil
	o.iq = nil
	o.path = o.pathFor(cfg)
	o.started = time.Now()
	o.timer.ResetRun()
	o.host.ApplyConfig(cfg)
	o.state = StateRunActive

	logging.LogEvent("[Harness] Started run %d on path %q for %s", runIndex, o.path.Name, cfg)
}

// stepFrame executes the per-frame sequence: pose the camera, render one
// drained submission, read the GPU timer, record the frame.
func (o *Orchestrator) stepFrame() error {
	pose := o.path.Pose(float32(o.frameIndex) / float32(o.config.TotalFrames))
	o.host.ApplyCamera(pose)

	wallStart := time.Now()
	if err := o.host.RenderFrame(o.timer); err != nil {
		return err
	}
	gpuTimeMs := o.timer.ReadBack()
	frameTimeMs := float64(time.Since(wallStart)) / float64(time.Millisecond)

	o.recorder.RecordFrame(uint32(o.frameIndex), frameTimeMs, gpuTimeMs, pose)

	if o.config.CaptureFrames {
		o.captureFrame(uint32(o.frameIndex))
	}

	o.frameIndex++

	if o.frameIndex%progressLogInterval == 0 {
		fps := 0.0
		if frameTimeMs > 0 {
			fps = 1000 / frameTimeMs
		}
		logging.LogEvent("[Harness] Progress: %d/%d (%.1f%%) - FPS: %.1f | GPU: %.2fms",
			o.frameIndex, o.config.TotalFrames, o.Progress(), fps, gpuTimeMs)
	}

	if o.OnProgress != nil {
		fps := 0.0
		if frameTimeMs > 0 {
			fps = 1000 / frameTimeMs
		}
		o.OnProgress(ProgressUpdate{
			ConfigName:  o.config.Name,
			ConfigIndex: o.configIndex,
			ConfigCount: len(o.queue),
			RunIndex:    o.runIndex,
			RepeatCount: o.config.RepeatCount,
			FrameIndex:  o.frameIndex,
			TotalFrames: o.config.TotalFrames,
			FPS:         fps,
			GPUTimeMs:   gpuTimeMs,
		})
	}
	return nil
}

// captureFrame stores the frame for temporal analysis, scores it against the
// run's reference frame and hands it to the sink for periodic persistence.
func (o *Orchestrator) captureFrame(frameIndex uint32) {
	pixels := o.host.CaptureFrame()
	if len(pixels) == 0 {
		return
	}
	o.ring.Push(pixels)

	if int(frameIndex) >= o.config.WarmupFrames {
		if o.refFrame == nil {
			// First post-warm-up capture becomes the run's reference.
			o.refFrame = append([]byte(nil), pixels...)
		} else {
			o.iq = append(o.iq, quality.Compare(frameIndex, pixels, o.refFrame))
		}
	}

	last := int(frameIndex) == o.config.TotalFrames-1
	if err := o.sink.FrameCaptured(o.config, o.runIndex, frameIndex, pixels, last); err != nil {
		logging.LogEvent("[Harness] Frame capture export failed: %v", err)
	}
}

// finalizeRun aggregates whatever frames were recorded, emits the result to
// the sink and appends it to the suite. Called for completed and aborted
// runs alike; a partial or empty buffer degrades to a zero rollup.
func (o *Orchestrator) finalizeRun() TestRunResult {
	frames := o.recorder.Frames()
	agg := metrics.Aggregate(frames, o.config.Name, o.runIndex)

	var temporal quality.TemporalMetrics
	if o.ring.Len() >= 2 {
		temporal = quality.AnalyzeTemporalStability(o.ring.Frames())
		agg.TemporalStability = temporal.Coherence
	}
	if len(o.iq) > 0 {
		var ssimSum, psnrSum float64
		for _, m := range o.iq {
			ssimSum += m.SSIM
			psnrSum += m.PSNR
		}
		agg.AvgSSIM = ssimSum / float64(len(o.iq))
		agg.AvgPSNR = psnrSum / float64(len(o.iq))
	}

	run := TestRunResult{
		Config:       o.config,
		RunIndex:     o.runIndex,
		Frames:       frames,
		ImageQuality: o.iq,
		Temporal:     temporal,
		Aggregated:   agg,
		StartTime:    o.started,
		EndTime:      time.Now(),
	}
	o.state = StateRunComplete

	logging.LogEvent("[Harness] Run complete: mean FPS %.2f, mean frame time %.2fms, 1%% low FPS %.2f, outliers removed %d",
		agg.MeanFPS, agg.MeanFrameTime, agg.FPS1PercentLow, agg.OutlierCount)

	if err := o.sink.RunCompleted(run); err != nil {
		logging.LogEvent("[Harness] Run export failed (results retained in memory): %v", err)
	}
	o.suite.Runs = append(o.suite.Runs, run)
	return run
}

// RunSuite executes every queued config for its full repeat count, in queue
// order. Cancellation is checked once per frame; an aborted run is still
// finalized with whatever frames it recorded. The suite result is returned
// in both cases, with ctx.Err() when aborted.
func (o *Orchestrator) RunSuite(ctx context.Context, suiteName string) (TestSuiteResult, error) {
	o.suite = TestSuiteResult{
		SuiteName: suiteName,
		Timestamp: time.Now(),
	}

	for o.configIndex = 0; o.configIndex < len(o.queue); o.configIndex++ {
		cfg := o.queue[o.configIndex]
		for run := 0; run < cfg.RepeatCount; run++ {
			o.startRun(cfg, run)
			for o.frameIndex < cfg.TotalFrames {
				if err := ctx.Err(); err != nil {
					logging.LogEvent("[Harness] Suite aborted at frame %d of run %d (%s), finalizing partial run", o.frameIndex, run, cfg.Name)
					o.finalizeRun()
					o.emitSuite()
					return o.suite, err
				}
				if err := o.stepFrame(); err != nil {
					logging.LogEvent("[Harness] Render failed at frame %d of run %d (%s), finalizing partial run: %v", o.frameIndex, run, cfg.Name, err)
					o.finalizeRun()
					o.emitSuite()
					return o.suite, err
				}
			}
			o.finalizeRun()
		}
	}

	o.emitSuite()
	return o.suite, nil
}

// emitSuite transitions to SuiteComplete and hands the suite rollup to the
// sink for summary export.
func (o *Orchestrator) emitSuite() {
	o.state = StateSuiteComplete
	if err := o.sink.SuiteCompleted(o.suite); err != nil {
		logging.LogEvent("[Harness] Suite export failed (results retained in memory): %v", err)
	}
	logging.LogEvent("[Harness] Suite %q complete: %d runs", o.suite.SuiteName, len(o.suite.Runs))
}
