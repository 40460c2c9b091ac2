package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/ChicagoDave/showthr/pkg/config"
)

// ValidateConfig checks a run configuration before any simulation starts.
func ValidateConfig(c *config.Config) *Report {
	r := NewReport()

	validateTable(c, r)
	validateBall(c, r)
	validateSand(c, r)
	validateRun(c, r)
	validateLog(c, r)
	validateServer(c, r)

	return r
}

func validateTable(c *config.Config, r *Report) {
	t := c.Table
	if t.Width <= 0 || t.Height <= 0 {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     fmt.Sprintf("table size %dx%d must be positive", t.Width, t.Height),
			Path:        "table",
			ActualValue: fmt.Sprintf("%dx%d", t.Width, t.Height),
			Expected:    "> 0",
		})
		return
	}
	if t.Border < 0 {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     "table.border must be non-negative",
			Path:        "table.border",
			ActualValue: t.Border,
			Expected:    ">= 0",
		})
	}
	if c.TrackRadius() <= 0 {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     fmt.Sprintf("border %d leaves no room for a track on a %d wide table", t.Border, t.Width),
			Path:        "table.border",
			ActualValue: t.Border,
			Expected:    fmt.Sprintf("< %d", t.Width/2),
			Suggestions: []string{"Reduce table.border or widen the table"},
		})
	}
	if t.Width != t.Height {
		r.AddInfo(Result{
			Level:   LevelConfig,
			Message: fmt.Sprintf("table is %dx%d; track radius is taken from the width", t.Width, t.Height),
			Path:    "table",
		})
	}
}

func validateBall(c *config.Config, r *Report) {
	radius := c.Ball.Radius
	if radius < 1 || !finite(radius) {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     fmt.Sprintf("ball radius %v must be finite and at least one cell to touch the sand", radius),
			Path:        "ball.radius",
			ActualValue: fmt.Sprint(radius),
			Expected:    ">= 1",
		})
		return
	}
	if side := min(c.Table.Width, c.Table.Height); side > 0 && radius > float64(side)/2 {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     fmt.Sprintf("ball radius %.1f does not fit on a %dx%d table", radius, c.Table.Width, c.Table.Height),
			Path:        "ball.radius",
			ActualValue: radius,
			Expected:    fmt.Sprintf("<= %d", side/2),
		})
		return
	}
	if radius > float64(min(c.Table.Width, c.Table.Height))/4 {
		r.AddWarning(Result{
			Level:       LevelConfig,
			Message:     fmt.Sprintf("ball radius %.1f is large for a %dx%d table", radius, c.Table.Width, c.Table.Height),
			Path:        "ball.radius",
			ActualValue: radius,
			Expected:    fmt.Sprintf("<= %d", min(c.Table.Width, c.Table.Height)/4),
		})
	}
}

func validateSand(c *config.Config, r *Report) {
	s := c.Sand
	if s.Depth < 0 || !finite(s.Depth) {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     "sand.depth must be finite and non-negative",
			Path:        "sand.depth",
			ActualValue: fmt.Sprint(s.Depth),
			Expected:    ">= 0",
		})
	}
	if s.MaxSlope <= 0 {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     "sand.max_slope must be > 0",
			Path:        "sand.max_slope",
			ActualValue: s.MaxSlope,
			Expected:    "> 0",
		})
	}
	if s.RedistributionRate <= 0 || s.RedistributionRate > 0.5 {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     fmt.Sprintf("sand.redistribution_rate %.3f must be in (0, 0.5]", s.RedistributionRate),
			Path:        "sand.redistribution_rate",
			ActualValue: s.RedistributionRate,
			Expected:    "0 < rate <= 0.5",
			Suggestions: []string{"Rates above 0.5 move more than half the difference and can oscillate"},
		})
	}
	if s.RelaxMargin <= 1 {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     "sand.relax_margin must be greater than 1",
			Path:        "sand.relax_margin",
			ActualValue: s.RelaxMargin,
			Expected:    "> 1",
		})
	}
	if s.MaxSweeps <= 0 {
		r.AddWarning(Result{
			Level:       LevelConfig,
			Message:     "sand.max_sweeps is not positive; relaxation is unbounded",
			Path:        "sand.max_sweeps",
			ActualValue: s.MaxSweeps,
			Expected:    "> 0",
		})
	}
}

func validateRun(c *config.Config, r *Report) {
	if c.Run.DT <= 0 || !finite(c.Run.DT) {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     "run.dt must be finite and > 0",
			Path:        "run.dt",
			ActualValue: fmt.Sprint(c.Run.DT),
			Expected:    "> 0",
		})
	} else if c.Run.DT > c.Ball.Radius {
		r.AddWarning(Result{
			Level:        LevelConfig,
			Message:      fmt.Sprintf("run.dt %.2f moves the ball further than its radius per step; the track will be dotted", c.Run.DT),
			Path:         "run.dt",
			ActualValue:  c.Run.DT,
			ConflictWith: "ball.radius",
		})
	}
	if c.Run.Jobs <= 0 {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     "run.jobs must be > 0",
			Path:        "run.jobs",
			ActualValue: c.Run.Jobs,
			Expected:    "> 0",
		})
	}
	if c.Run.MaxSteps < 0 {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     "run.max_steps must be >= 0 (0 means no cap)",
			Path:        "run.max_steps",
			ActualValue: c.Run.MaxSteps,
			Expected:    ">= 0",
		})
	}
}

var logLevels = []string{"debug", "info", "warn", "error"}

func validateLog(c *config.Config, r *Report) {
	lvl := strings.ToLower(c.Log.Level)
	known := false
	for _, l := range logLevels {
		if l == lvl {
			known = true
		}
	}
	if !known {
		r.AddWarning(Result{
			Level:       LevelConfig,
			Message:     fmt.Sprintf("unknown log level %q, using info", c.Log.Level),
			Path:        "log.level",
			ActualValue: c.Log.Level,
			Expected:    strings.Join(logLevels, ", "),
		})
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		r.AddWarning(Result{
			Level:       LevelConfig,
			Message:     fmt.Sprintf("unknown log format %q, using json", c.Log.Format),
			Path:        "log.format",
			ActualValue: c.Log.Format,
			Expected:    "console, json",
		})
	}
}

func validateServer(c *config.Config, r *Report) {
	sv := c.Server
	if sv.Port < 0 || sv.Port > 65535 {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     fmt.Sprintf("server.port %d is not a TCP port", sv.Port),
			Path:        "server.port",
			ActualValue: sv.Port,
			Expected:    "0-65535",
		})
	}
	if sv.MaxTrackBytes <= 0 {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     "server.max_track_bytes must be > 0; every upload would be rejected",
			Path:        "server.max_track_bytes",
			ActualValue: sv.MaxTrackBytes,
			Expected:    "> 0",
		})
	}
	if sv.MaxCells <= 0 {
		r.AddError(Result{
			Level:       LevelConfig,
			Message:     "server.max_cells must be > 0",
			Path:        "server.max_cells",
			ActualValue: sv.MaxCells,
			Expected:    "> 0",
		})
	}
	if sv.MaxSteps <= 0 {
		r.AddWarning(Result{
			Level:       LevelConfig,
			Message:     "server.max_steps is not positive; a single upload can run without bound",
			Path:        "server.max_steps",
			ActualValue: sv.MaxSteps,
			Expected:    "> 0",
		})
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
