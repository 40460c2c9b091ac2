package sand

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/showthr/pkg/geo"
)

// Config describes a simulation at construction time.
type Config struct {
	Width      int
	Height     int
	BallRadius float64
	Depth      float64
	Params     Params
}

// Stats accumulates work done over the life of a simulation.
type Stats struct {
	Steps     int     `json:"steps"`
	Sweeps    int     `json:"sweeps"`
	Transfers int     `json:"transfers"`
	Moved     float64 `json:"moved"`
	// PeakSweeps is the largest sweep count of a single step.
	PeakSweeps int `json:"peak_sweeps"`
}

// Simulation rolls one ball over one field.
type Simulation struct {
	ball   *Ball
	field  *Field
	params Params
	// segmentStart is where the ball was when the current target was set.
	segmentStart geo.Vec2
	stats        Stats
}

// New builds a simulation with uniform sand and the ball resting at the
// centre of the table. A zero Params selects DefaultParams.
func New(cfg Config) (*Simulation, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("table size %dx%d must be positive", cfg.Width, cfg.Height)
	}
	if cfg.Width > math.MaxInt/cfg.Height {
		return nil, fmt.Errorf("table size %dx%d is too large", cfg.Width, cfg.Height)
	}
	if cfg.BallRadius < 0 || !finite(cfg.BallRadius) {
		return nil, fmt.Errorf("ball radius %v must be finite and non-negative", cfg.BallRadius)
	}
	if cfg.Depth < 0 || !finite(cfg.Depth) {
		return nil, fmt.Errorf("sand depth %v must be finite and non-negative", cfg.Depth)
	}

	if cfg.Params == (Params{}) {
		cfg.Params = DefaultParams()
	}

	start := geo.V(float64(cfg.Width)/2, float64(cfg.Height)/2)
	ball := NewBall(cfg.BallRadius)
	ball.SetPosition(start)
	ball.SetTarget(start.X, start.Y)

	return &Simulation{
		ball:         ball,
		field:        NewField(cfg.Width, cfg.Height, cfg.Depth),
		params:       cfg.Params,
		segmentStart: start,
	}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SetTarget starts a new segment from the ball's current position.
func (s *Simulation) SetTarget(x, y float64) {
	s.segmentStart = s.ball.Position()
	s.ball.SetTarget(x, y)
}

// Advance moves the ball one step, pushes sand from under it and settles
// the area covered since the segment started. All three run even when the
// ball is already at its target.
func (s *Simulation) Advance(dt float64) error {
	s.ball.Advance(dt)
	pos := s.ball.Position()
	push := s.field.Push(pos, s.ball.Radius())

	win := s.field.WindowAround(s.segmentStart, pos, s.ball.Radius(), s.params.RelaxMargin)
	relax, err := s.field.Relax(win, s.params)

	s.stats.Steps++
	s.stats.Moved += push.Moved
	s.stats.Sweeps += relax.Sweeps
	s.stats.Transfers += relax.Transfers
	s.stats.PeakSweeps = max(s.stats.PeakSweeps, relax.Sweeps)

	if err != nil {
		return fmt.Errorf("step %d at (%.2f, %.2f): %w", s.stats.Steps, pos.X, pos.Y, err)
	}
	return nil
}

// AtTarget reports whether the ball has reached its current target.
func (s *Simulation) AtTarget() bool { return s.ball.AtTarget() }

// Field returns the sand field. Callers must treat it as read-only.
func (s *Simulation) Field() *Field { return s.field }

// Ball returns the ball. Callers must treat it as read-only.
func (s *Simulation) Ball() *Ball { return s.ball }

// SegmentStart returns where the current segment began.
func (s *Simulation) SegmentStart() geo.Vec2 { return s.segmentStart }

// Stats returns the accumulated counters.
func (s *Simulation) Stats() Stats { return s.stats }
