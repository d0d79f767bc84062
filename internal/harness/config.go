// internal/harness/config.go
// Package harness drives the host renderer through repeatable benchmark
// scenarios: a queue of immutable test configurations, each executed for a
// fixed number of frames along a deterministic camera path, repeated a fixed
// number of times.
package harness

import "fmt"

// TurbidityLevel is the enumerated water-clarity configuration axis.
type TurbidityLevel int

const (
	TurbidityLow TurbidityLevel = iota
	TurbidityMedium
	TurbidityHigh
)

// String returns the short label used in config names and exports.
func (t TurbidityLevel) String() string {
	switch t {
	case TurbidityLow:
		return "Low"
	case TurbidityMedium:
		return "Medium"
	case TurbidityHigh:
		return "High"
	}
	return fmt.Sprintf("Turbidity(%d)", int(t))
}

// DepthLevel selects the camera depth regime and therefore the camera path.
type DepthLevel int

const (
	DepthShallow DepthLevel = iota
	DepthDeep
)

func (d DepthLevel) String() string {
	switch d {
	case DepthShallow:
		return "Shallow"
	case DepthDeep:
		return "Deep"
	}
	return fmt.Sprintf("Depth(%d)", int(d))
}

// LightMotion selects static or animated lighting during a run.
type LightMotion int

const (
	LightStatic LightMotion = iota
	LightMoving
)

func (l LightMotion) String() string {
	switch l {
	case LightStatic:
		return "Static"
	case LightMoving:
		return "Moving"
	}
	return fmt.Sprintf("Light(%d)", int(l))
}

// RenderingMode selects which water shading implementation the host uses.
type RenderingMode int

const (
	// ModeBaseline is the unoptimized reference implementation.
	ModeBaseline RenderingMode = iota
	// ModePhysical is the physically-based implementation.
	ModePhysical
	// ModeOptimized is the performance-tuned implementation.
	ModeOptimized
)

func (m RenderingMode) String() string {
	switch m {
	case ModeBaseline:
		return "BL"
	case ModePhysical:
		return "PB"
	case ModeOptimized:
		return "OPT"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// TestConfig is one immutable benchmark scenario. It never mutates after a
// run starts.
type TestConfig struct {
	Name string `json:"name"`

	Turbidity     TurbidityLevel `json:"turbidity"`
	Depth         DepthLevel     `json:"depth"`
	LightMotion   LightMotion    `json:"lightMotion"`
	RenderingMode RenderingMode  `json:"renderingMode"`

	// Trade-off sweep knobs.
	SampleCount     int  `json:"sampleCount"`
	CausticRayCount int  `json:"causticRayCount"`
	AsyncEnabled    bool `json:"asyncEnabled"`
	TilingEnabled   bool `json:"tilingEnabled"`

	// Run shape.
	TotalFrames  int `json:"totalFrames"`
	WarmupFrames int `json:"warmupFrames"`
	RepeatCount  int `json:"repeatCount"`

	// CaptureFrames enables per-frame RGBA8 capture for image-quality and
	// temporal scoring.
	CaptureFrames bool `json:"captureFrames"`
}

// Validate reports an error for run shapes the orchestrator cannot execute.
func (c TestConfig) Validate() error {
	if c.TotalFrames <= 0 {
		return fmt.Errorf("config %q: totalFrames must be positive, got %d", c.Name, c.TotalFrames)
	}
	if c.WarmupFrames < 0 || c.WarmupFrames > c.TotalFrames {
		return fmt.Errorf("config %q: warmupFrames %d outside [0, totalFrames=%d]", c.Name, c.WarmupFrames, c.TotalFrames)
	}
	if c.RepeatCount <= 0 {
		return fmt.Errorf("config %q: repeatCount must be positive, got %d", c.Name, c.RepeatCount)
	}
	return nil
}

// String summarizes the configuration for log lines.
func (c TestConfig) String() string {
	return fmt.Sprintf("Config[%s]: Turb=%s Depth=%s Light=%s Mode=%s Samples=%d Caustics=%d",
		c.Name, c.Turbidity, c.Depth, c.LightMotion, c.RenderingMode, c.SampleCount, c.CausticRayCount)
}
