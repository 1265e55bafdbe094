// Package lighting provides the directional light used for shading.
package lighting

import "github.com/chewxy/math32"

// Directional is a single infinite light source.
type Directional struct {
	Direction [3]float32 // Normalized, points towards the light
	Ambient   [3]float32
	Diffuse   [3]float32
}

// Default returns the fixed key light the viewer shades with.
func Default() Directional {
	return Directional{
		Direction: FromAngles(-22, 26),
		Ambient:   [3]float32{0.25, 0.25, 0.25},
		Diffuse:   [3]float32{0.75, 0.75, 0.75},
	}
}

// FromAngles converts longitude/latitude angles to a light direction vector.
// Longitude is rotation around Y axis (0-360), latitude is elevation from horizon (0-90).
// Returns a normalized direction vector pointing towards the light.
func FromAngles(longitude, latitude float32) [3]float32 {
	lonRad := longitude * math32.Pi / 180.0
	latRad := latitude * math32.Pi / 180.0

	// Longitude is around Y axis, latitude is elevation from horizon
	x := math32.Cos(latRad) * math32.Sin(lonRad)
	y := math32.Sin(latRad)
	z := math32.Cos(latRad) * math32.Cos(lonRad)

	return [3]float32{x, y, z}
}
