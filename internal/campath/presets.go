// internal/campath/presets.go
package campath

// Preset orbit geometry: all three paths circle an object at the origin at
// radius 55, eight keyframes per revolution.
const (
	orbitRadius   = 55.0
	orbitRadius45 = 38.89 // orbitRadius * sin(45 deg)
)

// UnderwaterPath returns a full 360-degree orbit at a constant depth of -25,
// looking toward the center. This is the default path when a configuration
// does not select another one.
func UnderwaterPath() Path {
	const y = -25.0
	return Path{
		Name:          "UnderwaterSweep",
		TotalDuration: 10,
		Keyframes: []Keyframe{
			{Position: Vec3{0, y, orbitRadius}, Yaw: 0, Pitch: 5, Timestamp: 0},
			{Position: Vec3{orbitRadius45, y, orbitRadius45}, Yaw: 45, Pitch: 5, Timestamp: 0.125},
			{Position: Vec3{orbitRadius, y, 0}, Yaw: 90, Pitch: 5, Timestamp: 0.25},
			{Position: Vec3{orbitRadius45, y, -orbitRadius45}, Yaw: 135, Pitch: 5, Timestamp: 0.375},
			{Position: Vec3{0, y, -orbitRadius}, Yaw: 180, Pitch: 5, Timestamp: 0.5},
			{Position: Vec3{-orbitRadius45, y, -orbitRadius45}, Yaw: -135, Pitch: 5, Timestamp: 0.625},
			{Position: Vec3{-orbitRadius, y, 0}, Yaw: -90, Pitch: 5, Timestamp: 0.75},
			{Position: Vec3{-orbitRadius45, y, orbitRadius45}, Yaw: -45, Pitch: 5, Timestamp: 0.875},
			{Position: Vec3{0, y, orbitRadius}, Yaw: 0, Pitch: 5, Timestamp: 1},
		},
	}
}

// SurfacePath returns the same orbit just below the surface at depth -5.
// Shallow-water configurations use this path.
func SurfacePath() Path {
	const y = -5.0
	return Path{
		Name:          "SurfaceSweep",
		TotalDuration: 10,
		Keyframes: []Keyframe{
			{Position: Vec3{0, y, orbitRadius}, Yaw: 0, Pitch: 5, Timestamp: 0},
			{Position: Vec3{orbitRadius45, y, orbitRadius45}, Yaw: 45, Pitch: 5, Timestamp: 0.125},
			{Position: Vec3{orbitRadius, y, 0}, Yaw: 90, Pitch: 5, Timestamp: 0.25},
			{Position: Vec3{orbitRadius45, y, -orbitRadius45}, Yaw: 135, Pitch: 5, Timestamp: 0.375},
			{Position: Vec3{0, y, -orbitRadius}, Yaw: 180, Pitch: 5, Timestamp: 0.5},
			{Position: Vec3{-orbitRadius45, y, -orbitRadius45}, Yaw: -135, Pitch: 5, Timestamp: 0.625},
			{Position: Vec3{-orbitRadius, y, 0}, Yaw: -90, Pitch: 5, Timestamp: 0.75},
			{Position: Vec3{-orbitRadius45, y, orbitRadius45}, Yaw: -45, Pitch: 5, Timestamp: 0.875},
			{Position: Vec3{0, y, orbitRadius}, Yaw: -90, Pitch: 5, Timestamp: 1},
		},
	}
}

// DepthTransitionPath returns an orbit that descends from -5 to -55 over one
// revolution. Deep-water configurations use this path.
func DepthTransitionPath() Path {
	return Path{
		Name:          "DepthTransition",
		TotalDuration: 10,
		Keyframes: []Keyframe{
			{Position: Vec3{0, -5, orbitRadius}, Yaw: 0, Pitch: 5, Timestamp: 0},
			{Position: Vec3{orbitRadius45, -9, orbitRadius45}, Yaw: 45, Pitch: 3, Timestamp: 0.125},
			{Position: Vec3{orbitRadius, -13, 0}, Yaw: 90, Pitch: 1, Timestamp: 0.25},
			{Position: Vec3{orbitRadius45, -17, -orbitRadius45}, Yaw: 135, Pitch: -1, Timestamp: 0.375},
			{Position: Vec3{0, -21, -orbitRadius}, Yaw: 180, Pitch: -3, Timestamp: 0.5},
			{Position: Vec3{-orbitRadius45, -25, -orbitRadius45}, Yaw: -135, Pitch: -3, Timestamp: 0.625},
			{Position: Vec3{-orbitRadius, -29, 0}, Yaw: -90, Pitch: -1, Timestamp: 0.75},
			{Position: Vec3{-orbitRadius45, -53, orbitRadius45}, Yaw: -45, Pitch: 1, Timestamp: 0.875},
			{Position: Vec3{0, -55, orbitRadius}, Yaw: 0, Pitch: 3, Timestamp: 1},
		},
	}
}
