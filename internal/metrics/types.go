// internal/metrics/types.go
// Package metrics collects per-frame timing records during a benchmark run
// and reduces them into outlier-robust aggregate statistics.
package metrics

import "github.com/mwiater/aquabench/internal/campath"

// FrameMetrics is the timing record for one rendered frame. A record is
// created exactly once per frame; IsOutlier is the only field mutated after
// creation, during aggregation.
type FrameMetrics struct {
	FrameIndex  uint32  `json:"frameIndex"`
	FrameTimeMs float64 `json:"frameTimeMs"`
	GPUTimeMs   float64 `json:"gpuTimeMs"`
	CPUTimeMs   float64 `json:"cpuTimeMs"`
	TimestampNs int64   `json:"timestampNs"`

	// Camera pose snapshot at this frame.
	CameraPosition campath.Vec3 `json:"cameraPosition"`
	CameraYaw      float32      `json:"cameraYaw"`
	CameraPitch    float32      `json:"cameraPitch"`

	IsWarmupFrame bool `json:"isWarmupFrame"`
	IsOutlier     bool `json:"isOutlier"`
}

// AggregatedRunMetrics is the per-run statistical rollup over the clean
// (non-warm-up, non-outlier) frame set.
type AggregatedRunMetrics struct {
	ConfigName      string `json:"configName"`
	RunIndex        int    `json:"runIndex"`
	ValidFrameCount int    `json:"validFrameCount"`
	OutlierCount    int    `json:"outlierCount"`

	// Frame time statistics in milliseconds.
	MeanFrameTime   float64 `json:"meanFrameTime"`
	MedianFrameTime float64 `json:"medianFrameTime"`
	StddevFrameTime float64 `json:"stddevFrameTime"`
	MinFrameTime    float64 `json:"minFrameTime"`
	MaxFrameTime    float64 `json:"maxFrameTime"`
	Percentile99    float64 `json:"percentile99"`

	// FPS statistics. FPS1PercentLow is the 1st-percentile FPS value
	// (nearest-rank), not the mean of the worst 1% of frames.
	MeanFPS        float64 `json:"meanFPS"`
	MedianFPS      float64 `json:"medianFPS"`
	FPS1PercentLow float64 `json:"fps1PercentLow"`

	// GPU time statistics over the same clean set.
	MeanGPUTime   float64 `json:"meanGpuTime"`
	MedianGPUTime float64 `json:"medianGpuTime"`
	StddevGPUTime float64 `json:"stddevGpuTime"`

	// Image quality, populated only for capture-enabled runs.
	AvgSSIM           float64 `json:"avgSSIM"`
	AvgPSNR           float64 `json:"avgPSNR"`
	TemporalStability float64 `json:"temporalStability"`
}
