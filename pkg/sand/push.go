package sand

import (
	"math"

	"github.com/ChicagoDave/showthr/pkg/geo"
)

// PushStats summarises one displacement step.
type PushStats struct {
	Cells int     `json:"cells"`
	Moved float64 `json:"moved"`
}

// ballProfile is the height the ball leaves under itself at the given
// distance from its centre: about 0.46 in the middle, 0 at the rim.
func ballProfile(distance float64, radius int) float64 {
	return math.Max(0, 1-math.Cos(math.Max(0, 1-distance/float64(radius))))
}

// Push displaces sand from under a ball resting at center. Every cell of the
// footprint holding more than the ball profile gives its excess to the cell
// mirrored outward through it, at twice its offset from the centre. Cells
// whose mirror falls off the field are left alone. The deposit is applied
// before the source is overwritten, so the centre cell (its own mirror)
// simply drops to the profile height.
//
// Centre and radius are truncated to whole cells. A radius below one cell
// pushes nothing.
func (f *Field) Push(center geo.Vec2, radius float64) PushStats {
	var stats PushStats
	bx, by := center.Cell()
	r := int(radius)
	if r <= 0 {
		return stats
	}

	// Footprint cells off the field are skipped, so only the overlap is walked.
	for i := max(bx-r, 0); i <= min(bx+r, f.width-1); i++ {
		for j := max(by-r, 0); j <= min(by+r, f.height-1); j++ {
			dx, dy := i-bx, j-by
			di, dj := i+dx, j+dy
			if !f.InBounds(di, dj) {
				continue
			}
			distance := math.Sqrt(float64(dx*dx + dy*dy))
			if distance > float64(r) {
				continue
			}

			a := f.cells[f.index(i, j)]
			b := ballProfile(distance, r)
			if a < b {
				continue
			}
			toMove := a - b
			f.cells[f.index(di, dj)] += toMove
			f.cells[f.index(i, j)] = b
			stats.Cells++
			stats.Moved += toMove
		}
	}
	return stats
}
