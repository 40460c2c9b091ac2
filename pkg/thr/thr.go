// Package thr reads theta-rho track files.
//
// A track is plain text with one "theta rho" pair per line: theta is an
// angle in radians, rho a distance from the table centre between 0 and 1.
// Blank lines and lines starting with # are ignored.
package thr

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ChicagoDave/showthr/pkg/geo"
	"github.com/ChicagoDave/showthr/pkg/validation"
)

// ErrEmptyTrack is returned for a track with no waypoints.
var ErrEmptyTrack = errors.New("track has no waypoints")

// Waypoint is one polar target.
type Waypoint struct {
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
	// Line is the 1-based source line.
	Line int `json:"line"`
}

// Track is a parsed track file.
type Track struct {
	Name      string     `json:"name"`
	Waypoints []Waypoint `json:"waypoints"`
	// Lines counts every source line, including comments and blanks.
	Lines int `json:"lines"`
}

// ParseError reports the first malformed line of a track.
type ParseError struct {
	Name string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %q: %v", e.Name, e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads a whole track. Nothing is returned unless every line parses.
func Parse(r io.Reader, name string) (*Track, error) {
	t := &Track{Name: name}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		t.Lines++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		wp, err := parseLine(line)
		if err != nil {
			return nil, &ParseError{Name: name, Line: t.Lines, Text: line, Err: err}
		}
		wp.Line = t.Lines
		t.Waypoints = append(t.Waypoints, wp)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(t.Waypoints) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyTrack)
	}
	return t, nil
}

// ParseFile reads a track from disk.
func ParseFile(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening track: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

func parseLine(line string) (Waypoint, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Waypoint{}, errors.New("expected theta and rho")
	}
	theta, err := parseFloat(fields[0])
	if err != nil {
		return Waypoint{}, fmt.Errorf("theta: %w", err)
	}
	rho, err := parseFloat(fields[1])
	if err != nil {
		return Waypoint{}, fmt.Errorf("rho: %w", err)
	}
	return Waypoint{Theta: theta, Rho: rho}, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

// Targets converts every waypoint to table coordinates.
func (t *Track) Targets(center geo.Vec2, maxRadius float64) []geo.Vec2 {
	out := make([]geo.Vec2, len(t.Waypoints))
	for i, wp := range t.Waypoints {
		out[i] = geo.PolarToTable(wp.Theta, wp.Rho, center, maxRadius)
	}
	return out
}

// Path returns the table path through every waypoint.
func (t *Track) Path(center geo.Vec2, maxRadius float64) geo.Path {
	return geo.NewPath(t.Targets(center, maxRadius)...)
}

// Validate reports waypoints whose rho lies outside [0,1]. They are still
// drawn, but may run off the table.
func (t *Track) Validate() *validation.Report {
	r := validation.NewReport()
	for i, wp := range t.Waypoints {
		if wp.Rho < 0 || wp.Rho > 1 {
			r.AddWarning(validation.Result{
				Level:       validation.LevelTrack,
				Message:     fmt.Sprintf("%s:%d: rho %.4f is outside [0,1]", t.Name, wp.Line, wp.Rho),
				Path:        fmt.Sprintf("waypoints[%d].rho", i),
				ActualValue: wp.Rho,
				Expected:    "0-1",
			})
		}
	}
	return r
}
