package config

import (
	"github.com/ChicagoDave/showthr/pkg/geo"
	"github.com/ChicagoDave/showthr/pkg/sand"
)

// Config is the full run configuration of a sand table render.
type Config struct {
	Table  Table  `yaml:"table" json:"table"`
	Ball   Ball   `yaml:"ball" json:"ball"`
	Sand   Sand   `yaml:"sand" json:"sand"`
	Run    Run    `yaml:"run" json:"run"`
	Log    Log    `yaml:"log" json:"log"`
	Server Server `yaml:"server" json:"server"`
}

type Table struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
	// Border is the gap in cells kept between rho=1 and the table edge.
	Border int `yaml:"border" json:"border"`
}

type Ball struct {
	Radius float64 `yaml:"radius" json:"radius"`
}

type Sand struct {
	Depth              float64 `yaml:"depth" json:"depth"`
	MaxSlope           float64 `yaml:"max_slope" json:"max_slope"`
	RedistributionRate float64 `yaml:"redistribution_rate" json:"redistribution_rate"`
	RelaxMargin        float64 `yaml:"relax_margin" json:"relax_margin"`
	MaxSweeps          int     `yaml:"max_sweeps" json:"max_sweeps"`
}

type Run struct {
	DT float64 `yaml:"dt" json:"dt"`
	// Jobs bounds concurrent renders in batch mode.
	Jobs int `yaml:"jobs" json:"jobs"`
	// MaxSteps caps the advances of one render; zero means no cap.
	MaxSteps int `yaml:"max_steps" json:"max_steps"`
}

type Log struct {
	Level      string `yaml:"level" json:"level"`
	Format     string `yaml:"format" json:"format"`
	File       string `yaml:"file" json:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" json:"max_age_days"`
	Compress   bool   `yaml:"compress" json:"compress"`
}

type Server struct {
	Port int `yaml:"port" json:"port"`
	// MaxTrackBytes limits uploaded track size.
	MaxTrackBytes int64 `yaml:"max_track_bytes" json:"max_track_bytes"`
	// MaxCells limits width*height of a requested table.
	MaxCells int `yaml:"max_cells" json:"max_cells"`
	// MaxSteps caps the advances of one request.
	MaxSteps int `yaml:"max_steps" json:"max_steps"`
}

// Default returns the stock 300x300 table with a radius 5 ball over 2 units
// of sand.
func Default() *Config {
	p := sand.DefaultParams()
	return &Config{
		Table: Table{Width: 300, Height: 300, Border: 20},
		Ball:  Ball{Radius: 5},
		Sand: Sand{
			Depth:              2,
			MaxSlope:           p.MaxSlope,
			RedistributionRate: p.RedistributionRate,
			RelaxMargin:        p.RelaxMargin,
			MaxSweeps:          p.MaxSweeps,
		},
		Run: Run{DT: 0.2, Jobs: 4},
		Log: Log{Level: "info", Format: "console", MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28},
		Server: Server{
			Port:          3000,
			MaxTrackBytes: 8 << 20,
			MaxCells:      1000 * 1000,
			MaxSteps:      2_000_000,
		},
	}
}

// Params returns the settling parameters.
func (c *Config) Params() sand.Params {
	return sand.Params{
		MaxSlope:           c.Sand.MaxSlope,
		RedistributionRate: c.Sand.RedistributionRate,
		RelaxMargin:        c.Sand.RelaxMargin,
		MaxSweeps:          c.Sand.MaxSweeps,
	}
}

// Simulation returns the construction parameters of a simulation.
func (c *Config) Simulation() sand.Config {
	return sand.Config{
		Width:      c.Table.Width,
		Height:     c.Table.Height,
		BallRadius: c.Ball.Radius,
		Depth:      c.Sand.Depth,
		Params:     c.Params(),
	}
}

// Center returns the table point at rho=0.
func (c *Config) Center() geo.Vec2 {
	return geo.TableCenter(c.Table.Width, c.Table.Height)
}

// TrackRadius returns the table distance of rho=1.
func (c *Config) TrackRadius() float64 {
	return geo.TrackRadius(c.Table.Width, c.Table.Border)
}
