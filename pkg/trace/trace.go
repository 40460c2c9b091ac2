// Package trace drives a simulation through a track, one waypoint at a
// time.
package trace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ChicagoDave/showthr/pkg/config"
	"github.com/ChicagoDave/showthr/pkg/geo"
	"github.com/ChicagoDave/showthr/pkg/sand"
	"github.com/ChicagoDave/showthr/pkg/thr"
)

// Simulator is the part of a simulation the driver needs.
type Simulator interface {
	SetTarget(x, y float64)
	Advance(dt float64) error
	AtTarget() bool
}

// Progress is reported after each waypoint is reached.
type Progress struct {
	Index   int      `json:"index"`
	Line    int      `json:"line"`
	Percent float64  `json:"percent"`
	Steps   int      `json:"steps"`
	Target  geo.Vec2 `json:"target"`
}

// ErrStepLimit is returned when a run uses up Options.MaxSteps.
var ErrStepLimit = errors.New("step limit reached")

// cancelCheckSteps is how often the context is polled inside a segment.
const cancelCheckSteps = 64

// Options controls a run.
type Options struct {
	DT        float64
	Center    geo.Vec2
	MaxRadius float64
	// MaxSteps caps the total number of advances; zero means no cap.
	MaxSteps int
	// Progress, when set, is called after every waypoint.
	Progress func(Progress)
}

// Result summarises a finished run.
type Result struct {
	Waypoints int           `json:"waypoints"`
	Steps     int           `json:"steps"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Run feeds every waypoint of track to sim in order and advances until the
// ball arrives. The context is checked between waypoints and every
// cancelCheckSteps advances within a segment.
func Run(ctx context.Context, sim Simulator, track *thr.Track, opts Options) (res Result, err error) {
	if opts.DT <= 0 {
		return res, fmt.Errorf("time step %v must be positive", opts.DT)
	}
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	for i, wp := range track.Waypoints {
		if err = ctx.Err(); err != nil {
			return res, err
		}

		target := geo.PolarToTable(wp.Theta, wp.Rho, opts.Center, opts.MaxRadius)
		sim.SetTarget(target.X, target.Y)

		steps := 0
		for !sim.AtTarget() {
			if opts.MaxSteps > 0 && res.Steps >= opts.MaxSteps {
				return res, fmt.Errorf("%s:%d: %w after %d steps", track.Name, wp.Line, ErrStepLimit, res.Steps)
			}
			if steps > 0 && steps%cancelCheckSteps == 0 {
				if err = ctx.Err(); err != nil {
					return res, err
				}
			}
			if err = sim.Advance(opts.DT); err != nil {
				return res, fmt.Errorf("%s:%d: %w", track.Name, wp.Line, err)
			}
			steps++
			res.Steps++
		}
		res.Waypoints++

		if opts.Progress != nil {
			p := Progress{Index: i, Line: wp.Line, Steps: steps, Target: target}
			if track.Lines > 0 {
				p.Percent = 100 * float64(wp.Line) / float64(track.Lines)
			}
			opts.Progress(p)
		}
	}
	return res, nil
}

// Render builds a simulation from cfg and runs track through it.
func Render(ctx context.Context, cfg *config.Config, track *thr.Track, progress func(Progress)) (*sand.Simulation, Result, error) {
	sim, err := sand.New(cfg.Simulation())
	if err != nil {
		return nil, Result{}, fmt.Errorf("building simulation: %w", err)
	}
	res, err := Run(ctx, sim, track, Options{
		DT:        cfg.Run.DT,
		Center:    cfg.Center(),
		MaxRadius: cfg.TrackRadius(),
		MaxSteps:  cfg.Run.MaxSteps,
		Progress:  progress,
	})
	return sim, res, err
}

// IsStepLimit reports whether err came from running out of steps.
func IsStepLimit(err error) bool {
	return errors.Is(err, ErrStepLimit)
}

// IsNotSettled reports whether err came from relaxation hitting its cap.
func IsNotSettled(err error) bool {
	return errors.Is(err, sand.ErrNotSettled)
}
