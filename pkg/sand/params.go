package sand

import "errors"

const (
	// MaxSlope is the largest height difference two 4-connected cells may
	// hold before sand slides from the higher one.
	MaxSlope = 1.0
	// RedistributionRate is the fraction of a violating difference moved per
	// relaxation pass, split between all lower neighbours.
	RedistributionRate = 0.5
	// RelaxMargin scales the ball radius to pad the relaxation window. Must be
	// greater than 1 so the window covers the whole ball footprint.
	RelaxMargin = 4.0
	// ArrivalEpsilon is the squared distance under which a new target counts
	// as already reached.
	ArrivalEpsilon = 0.1
	// DefaultSpeed is the ball speed in cells per time unit.
	DefaultSpeed = 1.0
	// DefaultMaxSweeps bounds a single relaxation call.
	DefaultMaxSweeps = 1_000_000
)

// ErrNotSettled is returned when relaxation hits its sweep cap with slope
// violations still present.
var ErrNotSettled = errors.New("sand did not settle")

// Params tunes the settling rule.
type Params struct {
	MaxSlope           float64 `json:"max_slope"`
	RedistributionRate float64 `json:"redistribution_rate"`
	RelaxMargin        float64 `json:"relax_margin"`
	// MaxSweeps caps the sweeps of one Relax call. Zero or negative means
	// no cap.
	MaxSweeps int `json:"max_sweeps"`
}

// DefaultParams returns the standard settling constants.
func DefaultParams() Params {
	return Params{
		MaxSlope:           MaxSlope,
		RedistributionRate: RedistributionRate,
		RelaxMargin:        RelaxMargin,
		MaxSweeps:          DefaultMaxSweeps,
	}
}
