// internal/quality/temporal.go
package quality

import "math"

// DefaultRingSize bounds how many recent frames are retained for temporal
// analysis.
const DefaultRingSize = 30

// TemporalMetrics scores the frame-to-frame stability of a captured sequence.
// Coherence is 1/(1+flicker), bounded in (0,1]; higher is better.
type TemporalMetrics struct {
	StartFrame          uint32  `json:"startFrame"`
	EndFrame            uint32  `json:"endFrame"`
	AvgFrameToFrameSSIM float64 `json:"avgFrameToFrameSSIM"`
	MinFrameToFrameSSIM float64 `json:"minFrameToFrameSSIM"`
	FlickerScore        float64 `json:"flickerScore"`
	Coherence           float64 `json:"coherence"`
}

// FrameRing keeps the most recent frames in arrival order, evicting the
// oldest once capacity is reached. Pushed buffers are copied so callers can
// reuse theirs.
type FrameRing struct {
	frames   [][]byte
	capacity int
}

// NewFrameRing creates a ring bounded at capacity frames; non-positive
// capacities fall back to DefaultRingSize.
func NewFrameRing(capacity int) *FrameRing {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &FrameRing{capacity: capacity}
}

// Push appends a copy of frame, evicting the oldest entry when full. Empty
// frames are ignored.
func (r *FrameRing) Push(frame []byte) {
	if len(frame) == 0 {
		return
	}
	cp := append([]byte(nil), frame...)
	if len(r.frames) >= r.capacity {
		r.frames = r.frames[1:]
	}
	r.frames = append(r.frames, cp)
}

// Len returns the number of retained frames.
func (r *FrameRing) Len() int { return len(r.frames) }

// Frames returns the retained frames, oldest first.
func (r *FrameRing) Frames() [][]byte { return r.frames }

// Reset discards all retained frames.
func (r *FrameRing) Reset() { r.frames = nil }

// AnalyzeTemporalStability computes consecutive-frame SSIM and flicker over
// an ordered frame sequence. Fewer than two frames yields a zero result.
func AnalyzeTemporalStability(frames [][]byte) TemporalMetrics {
	var tm TemporalMetrics
	if len(frames) < 2 {
		return tm
	}
	tm.EndFrame = uint32(len(frames) - 1)

	var ssimValues, diffValues []float64
	for i := 1; i < len(frames); i++ {
		ssimValues = append(ssimValues, SSIM(frames[i-1], frames[i]))

		// Mean absolute per-byte delta, the raw flicker signal.
		if len(frames[i]) == len(frames[i-1]) && len(frames[i]) > 0 {
			total := 0.0
			for j := range frames[i] {
				total += math.Abs(float64(frames[i][j]) - float64(frames[i-1][j]))
			}
			diffValues = append(diffValues, total/float64(len(frames[i])))
		} else {
			diffValues = append(diffValues, 0)
		}
	}

	tm.AvgFrameToFrameSSIM = mean(ssimValues)
	tm.MinFrameToFrameSSIM = ssimValues[0]
	for _, v := range ssimValues[1:] {
		if v < tm.MinFrameToFrameSSIM {
			tm.MinFrameToFrameSSIM = v
		}
	}

	tm.FlickerScore = sampleStdDev(diffValues, mean(diffValues))
	tm.Coherence = 1 / (1 + tm.FlickerScore)
	return tm
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
