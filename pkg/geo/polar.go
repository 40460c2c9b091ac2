package geo

import "math"

// PolarToTable converts a track coordinate to table coordinates. Theta is
// measured clockwise from "up" (negative Y), rho is a fraction of maxRadius.
func PolarToTable(theta, rho float64, center Vec2, maxRadius float64) Vec2 {
	r := rho * maxRadius
	return Vec2{
		X: center.X + math.Sin(theta)*r,
		Y: center.Y - math.Cos(theta)*r,
	}
}

// TableCenter returns the integer centre of a width x height table.
func TableCenter(width, height int) Vec2 {
	return Vec2{X: float64(width / 2), Y: float64(height / 2)}
}

// TrackRadius returns the largest radius a track may reach on a table of the
// given width, leaving border cells clear at the edge.
func TrackRadius(width, border int) float64 {
	return float64(width/2 - border)
}
