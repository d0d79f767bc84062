// internal/metrics/recorder.go
package metrics

import (
	"time"

	"github.com/mwiater/aquabench/internal/campath"
)

// Recorder owns the in-flight frame buffer for a single run. It is created
// fresh at run start and consumed by Aggregate at run end; a recorder that
// never sees a frame yields an empty buffer the aggregator handles cleanly.
type Recorder struct {
	frames       []FrameMetrics
	warmupFrames int
}

// NewRecorder allocates a recorder sized for totalFrames. Frames with index
// below warmupFrames are flagged as warm-up.
func NewRecorder(totalFrames, warmupFrames int) *Recorder {
	capacity := totalFrames
	if capacity < 0 {
		capacity = 0
	}
	return &Recorder{
		frames:       make([]FrameMetrics, 0, capacity),
		warmupFrames: warmupFrames,
	}
}

// RecordFrame appends one frame record assembled from the wall time, the GPU
// timer reading and the camera pose. CPU time is the wall time not accounted
// for by the GPU, clamped at zero.
func (r *Recorder) RecordFrame(frameIndex uint32, frameTimeMs, gpuTimeMs float64, pose campath.Keyframe) FrameMetrics {
	cpuTimeMs := frameTimeMs - gpuTimeMs
	if cpuTimeMs < 0 {
		cpuTimeMs = 0
	}

	m := FrameMetrics{
		FrameIndex:     frameIndex,
		FrameTimeMs:    frameTimeMs,
		GPUTimeMs:      gpuTimeMs,
		CPUTimeMs:      cpuTimeMs,
		TimestampNs:    time.Now().UnixNano(),
		CameraPosition: pose.Position,
		CameraYaw:      pose.Yaw,
		CameraPitch:    pose.Pitch,
		IsWarmupFrame:  int(frameIndex) < r.warmupFrames,
	}
	r.frames = append(r.frames, m)
	return m
}

// Frames returns the run buffer. The aggregator mutates IsOutlier in place.
func (r *Recorder) Frames() []FrameMetrics { return r.frames }

// Len returns the number of recorded frames.
func (r *Recorder) Len() int { return len(r.frames) }
