// internal/harness/presets.go
package harness

import "fmt"

// Run-shape constants. Fast mode is a reduced representative matrix for
// iteration; full mode is the exhaustive sweep.
const (
	perfTotalFramesFast  = 120
	perfWarmupFramesFast = 5
	perfRepeatCountFast  = 3
	perfTotalFramesFull  = 300
	perfWarmupFramesFull = 10
	perfRepeatCountFull  = 10

	iqTotalFramesFast  = 30
	iqWarmupFramesFast = 3
	iqTotalFramesFull  = 60
	iqWarmupFramesFull = 5

	sweepTotalFramesFast  = 100
	sweepWarmupFramesFast = 5
	sweepRepeatCountFast  = 2
	sweepTotalFramesFull  = 200
	sweepWarmupFramesFull = 10
	sweepRepeatCountFull  = 5

	sampleCountMid = 8
	causticRaysMid = 64
)

// PerformanceConfigs generates the performance test matrix.
//
// Fast mode brackets the interesting range: Low and High turbidity (Medium
// interpolates between them), shallow depth only, moving light only (the
// most stressful case), all three rendering modes -- 6 configs. Full mode is
// the exhaustive 3x2x2x3 sweep.
func PerformanceConfigs(fast bool) []TestConfig {
	turbidities := []TurbidityLevel{TurbidityLow, TurbidityHigh}
	depths := []DepthLevel{DepthShallow}
	lightMotions := []LightMotion{LightMoving}
	totalFrames, warmupFrames, repeatCount := perfTotalFramesFast, perfWarmupFramesFast, perfRepeatCountFast
	if !fast {
		turbidities = []TurbidityLevel{TurbidityLow, TurbidityMedium, TurbidityHigh}
		depths = []DepthLevel{DepthShallow, DepthDeep}
		lightMotions = []LightMotion{LightStatic, LightMoving}
		totalFrames, warmupFrames, repeatCount = perfTotalFramesFull, perfWarmupFramesFull, perfRepeatCountFull
	}
	modes := []RenderingMode{ModeBaseline, ModePhysical, ModeOptimized}

	var configs []TestConfig
	for _, mode := range modes {
		for _, turb := range turbidities {
			for _, depth := range depths {
				for _, light := range lightMotions {
					configs = append(configs, TestConfig{
						Name:            fmt.Sprintf("Perf_Mode%d_T%d_D%d_L%d", int(mode), int(turb), int(depth), int(light)),
						Turbidity:       turb,
						Depth:           depth,
						LightMotion:     light,
						RenderingMode:   mode,
						SampleCount:     sampleCountMid,
						CausticRayCount: causticRaysMid,
						TotalFrames:     totalFrames,
						WarmupFrames:    warmupFrames,
						RepeatCount:     repeatCount,
					})
				}
			}
		}
	}
	return configs
}

// ImageQualityConfigs generates one capture-enabled config per rendering
// mode. Image-quality runs are single-repeat visual comparisons, not
// exhaustive coverage.
func ImageQualityConfigs(fast bool) []TestConfig {
	totalFrames, warmupFrames := iqTotalFramesFast, iqWarmupFramesFast
	if !fast {
		totalFrames, warmupFrames = iqTotalFramesFull, iqWarmupFramesFull
	}

	var configs []TestConfig
	for _, mode := range []RenderingMode{ModeBaseline, ModePhysical, ModeOptimized} {
		configs = append(configs, TestConfig{
			Name:            fmt.Sprintf("IQ_Mode%d", int(mode)),
			Turbidity:       TurbidityMedium,
			Depth:           DepthShallow,
			LightMotion:     LightStatic,
			RenderingMode:   mode,
			SampleCount:     sampleCountMid,
			CausticRayCount: causticRaysMid,
			TotalFrames:     totalFrames,
			WarmupFrames:    warmupFrames,
			RepeatCount:     1,
			CaptureFrames:   true,
		})
	}
	return configs
}

// ApplyFrameOverrides returns a copy of configs with per-run frame counts
// replaced by the given overrides. A zero override leaves the generated value
// in place; warm-up counts are clamped so the result always validates.
func ApplyFrameOverrides(configs []TestConfig, totalFrames, warmupFrames int) []TestConfig {
	out := append([]TestConfig(nil), configs...)
	for i := range out {
		if totalFrames > 0 {
			out[i].TotalFrames = totalFrames
		}
		if warmupFrames > 0 {
			out[i].WarmupFrames = warmupFrames
		}
		if out[i].WarmupFrames > out[i].TotalFrames {
			out[i].WarmupFrames = out[i].TotalFrames
		}
	}
	return out
}

// TradeOffSweepConfigs generates the quality/performance trade-off sweep
// over sample count, caustic ray count and the async/tiling optimizations.
// Fast mode keeps the bracketing values only (6 configs).
func TradeOffSweepConfigs(fast bool) []TestConfig {
	sampleCounts := []int{1, sampleCountMid}
	causticRayCounts := []int{0, causticRaysMid}
	asyncTiling := [][2]bool{{false, false}, {true, true}}
	totalFrames, warmupFrames, repeatCount := sweepTotalFramesFast, sweepWarmupFramesFast, sweepRepeatCountFast
	turbidity := TurbidityLow
	if !fast {
		sampleCounts = []int{1, 2, 4, 8, 16}
		causticRayCounts = []int{16, 32, 64, 128, 256}
		asyncTiling = [][2]bool{{false, false}, {true, false}, {false, true}, {true, true}}
		totalFrames, warmupFrames, repeatCount = sweepTotalFramesFull, sweepWarmupFramesFull, sweepRepeatCountFull
		turbidity = TurbidityMedium
	}

	base := TestConfig{
		Turbidity:       turbidity,
		Depth:           DepthShallow,
		LightMotion:     LightMoving,
		RenderingMode:   ModePhysical,
		SampleCount:     sampleCountMid,
		CausticRayCount: causticRaysMid,
		TotalFrames:     totalFrames,
		WarmupFrames:    warmupFrames,
		RepeatCount:     repeatCount,
	}

	var configs []TestConfig
	for _, samples := range sampleCounts {
		cfg := base
		cfg.Name = fmt.Sprintf("Sweep_Samples%d", samples)
		cfg.SampleCount = samples
		configs = append(configs, cfg)
	}
	for _, rays := range causticRayCounts {
		cfg := base
		cfg.Name = fmt.Sprintf("Sweep_Caustics%d", rays)
		cfg.CausticRayCount = rays
		configs = append(configs, cfg)
	}
	for _, combo := range asyncTiling {
		cfg := base
		cfg.Name = fmt.Sprintf("Sweep_Async%t_Tiling%t", combo[0], combo[1])
		cfg.AsyncEnabled = combo[0]
		cfg.TilingEnabled = combo[1]
		configs = append(configs, cfg)
	}
	return configs
}
