package sand

import "github.com/ChicagoDave/showthr/pkg/geo"

// Ball moves at constant speed toward its current target. It knows nothing
// about the sand it rolls over.
type Ball struct {
	position geo.Vec2
	target   geo.Vec2
	radius   float64
	speed    float64
	atTarget bool
}

// NewBall creates a ball at the origin with the default speed.
func NewBall(radius float64) *Ball {
	return &Ball{radius: radius, speed: DefaultSpeed}
}

// SetTarget points the ball at (x, y). The ball counts as arrived
// immediately when it is already within ArrivalEpsilon (squared distance).
func (b *Ball) SetTarget(x, y float64) {
	b.target = geo.V(x, y)
	b.atTarget = b.target.DistanceSquared(b.position) < ArrivalEpsilon
}

// Advance moves the ball one step of length speed*dt toward the target.
//
// The snap test compares the squared remaining distance with the linear
// step length speed*dt. The two are not in the same unit; track timing
// depends on this exact comparison so it is kept as is.
func (b *Ball) Advance(dt float64) {
	d := b.target.Sub(b.position)
	lenSq := d.LengthSquared()
	if lenSq == 0 || lenSq < b.speed*dt {
		b.position = b.target
		b.atTarget = true
		return
	}
	b.position = b.position.Add(d.Normalize().Scale(b.speed * dt))
	b.atTarget = false
}

// AtTarget reports whether the last SetTarget or Advance reached the target.
func (b *Ball) AtTarget() bool { return b.atTarget }

// Position returns the ball centre.
func (b *Ball) Position() geo.Vec2 { return b.position }

// Target returns the point the ball is heading to.
func (b *Ball) Target() geo.Vec2 { return b.target }

// Radius returns the ball radius in cells.
func (b *Ball) Radius() float64 { return b.radius }

// Speed returns the ball speed in cells per time unit.
func (b *Ball) Speed() float64 { return b.speed }

// SetPosition teleports the ball without touching the sand.
func (b *Ball) SetPosition(p geo.Vec2) { b.position = p }
