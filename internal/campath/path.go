// internal/campath/path.go
// Package campath provides deterministic keyframed camera paths for benchmark
// runs. A path maps normalized time in [0,1] to a camera pose so that every
// run of a configuration sees the exact same camera motion.
package campath

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Vec3 is a 3-component float32 position vector.
type Vec3 [3]float32

// Lerp linearly interpolates between v and v2 by s.
func (v Vec3) Lerp(v2 Vec3, s float32) Vec3 {
	return Vec3{
		v[0] + (v2[0]-v[0])*s,
		v[1] + (v2[1]-v[1])*s,
		v[2] + (v2[2]-v[2])*s,
	}
}

// X returns the x component.
func (v Vec3) X() float32 { return v[0] }

// Y returns the y component.
func (v Vec3) Y() float32 { return v[1] }

// Z returns the z component.
func (v Vec3) Z() float32 { return v[2] }

// Keyframe is a camera pose pinned to a normalized timestamp in [0,1].
type Keyframe struct {
	Position  Vec3    `json:"position"`
	Yaw       float32 `json:"yaw"`
	Pitch     float32 `json:"pitch"`
	Timestamp float32 `json:"timestamp"`
}

// Path is a named sequence of keyframes with strictly increasing timestamps.
type Path struct {
	Name          string     `json:"name"`
	Keyframes     []Keyframe `json:"keyframes"`
	TotalDuration float32    `json:"totalDuration"`
}

// Validate reports an error when keyframe timestamps are not strictly increasing
// or fall outside [0,1].
func (p Path) Validate() error {
	for i, k := range p.Keyframes {
		if k.Timestamp < 0 || k.Timestamp > 1 {
			return fmt.Errorf("path %q: keyframe %d timestamp %v outside [0,1]", p.Name, i, k.Timestamp)
		}
		if i > 0 && k.Timestamp <= p.Keyframes[i-1].Timestamp {
			return fmt.Errorf("path %q: keyframe %d timestamp %v not strictly increasing", p.Name, i, k.Timestamp)
		}
	}
	return nil
}

// Pose returns the interpolated camera pose at normalized time t.
//
// t is clamped to [0,1]. The segment surrounding t is eased with smoothstep
// (3u^2 - 2u^3), so a t landing exactly on a keyframe timestamp returns that
// keyframe's pose with no blending. Yaw and pitch are lerped naively: a path
// crossing the +/-180 degree wrap will sweep the long way around, so presets
// are authored to avoid the wrap.
func (p Path) Pose(t float32) Keyframe {
	if len(p.Keyframes) == 0 {
		return Keyframe{}
	}
	if len(p.Keyframes) == 1 {
		return p.Keyframes[0]
	}

	t = math32.Min(math32.Max(t, 0), 1)

	// Find the segment: first keyframe whose timestamp reaches t.
	i := 0
	for ; i < len(p.Keyframes)-1; i++ {
		if p.Keyframes[i+1].Timestamp >= t {
			break
		}
	}

	k0 := p.Keyframes[i]
	next := i + 1
	if next >= len(p.Keyframes) {
		next = len(p.Keyframes) - 1
	}
	k1 := p.Keyframes[next]

	var u float32
	if k1.Timestamp > k0.Timestamp {
		u = (t - k0.Timestamp) / (k1.Timestamp - k0.Timestamp)
	}

	// Smoothstep ease.
	s := u * u * (3 - 2*u)

	return Keyframe{
		Position:  k0.Position.Lerp(k1.Position, s),
		Yaw:       k0.Yaw + (k1.Yaw-k0.Yaw)*s,
		Pitch:     k0.Pitch + (k1.Pitch-k0.Pitch)*s,
		Timestamp: t,
	}
}
