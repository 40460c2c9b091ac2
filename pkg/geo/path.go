package geo

// Path is the ordered sequence of points the ball is sent to.
type Path struct {
	Points []Vec2
}

// NewPath creates a path from a list of points.
func NewPath(pts ...Vec2) Path {
	return Path{Points: pts}
}

// Length returns the total arc length of the path.
func (p Path) Length() float64 {
	total := 0.0
	for i := 1; i < len(p.Points); i++ {
		total += p.Points[i-1].Distance(p.Points[i])
	}
	return total
}

// PointAt returns the point at fraction t in [0,1] along the path length.
func (p Path) PointAt(t float64) Vec2 {
	if len(p.Points) == 0 {
		return Vec2{}
	}
	if len(p.Points) == 1 || t <= 0 {
		return p.Points[0]
	}
	if t >= 1 {
		return p.Points[len(p.Points)-1]
	}

	target := t * p.Length()
	walked := 0.0
	for i := 1; i < len(p.Points); i++ {
		seg := p.Points[i-1].Distance(p.Points[i])
		if walked+seg >= target && seg > 0 {
			return p.Points[i-1].Lerp(p.Points[i], (target-walked)/seg)
		}
		walked += seg
	}
	return p.Points[len(p.Points)-1]
}

// BoundingBox returns the axis-aligned bounding box as (min, max).
func (p Path) BoundingBox() (Vec2, Vec2) {
	if len(p.Points) == 0 {
		return Vec2{}, Vec2{}
	}
	minP := p.Points[0]
	maxP := p.Points[0]
	for _, v := range p.Points[1:] {
		minP.X = min(minP.X, v.X)
		minP.Y = min(minP.Y, v.Y)
		maxP.X = max(maxP.X, v.X)
		maxP.Y = max(maxP.Y, v.Y)
	}
	return minP, maxP
}
