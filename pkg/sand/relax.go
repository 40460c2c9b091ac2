package sand

import (
	"fmt"

	"github.com/ChicagoDave/showthr/pkg/geo"
)

// Window is an inclusive, field-clamped rectangle of cells.
type Window struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

// FullWindow covers the whole field.
func (f *Field) FullWindow() Window {
	return Window{MaxX: f.width - 1, MaxY: f.height - 1}
}

// WindowAround returns the box spanning a and b, padded by radius*margin
// cells on every side and clamped to the field. Coordinates are truncated
// to whole cells before padding.
func (f *Field) WindowAround(a, b geo.Vec2, radius, margin float64) Window {
	ax, ay := a.Cell()
	bx, by := b.Cell()
	pad := int(radius * margin)

	w := Window{
		MinX: min(ax, bx) - pad,
		MinY: min(ay, by) - pad,
		MaxX: max(ax, bx) + pad,
		MaxY: max(ay, by) + pad,
	}
	w.MinX = max(w.MinX, 0)
	w.MinY = max(w.MinY, 0)
	w.MaxX = min(w.MaxX, f.width-1)
	w.MaxY = min(w.MaxY, f.height-1)
	return w
}

// RelaxStats summarises one Relax call.
type RelaxStats struct {
	Sweeps    int `json:"sweeps"`
	Transfers int `json:"transfers"`
}

// neighbour offsets in the fixed order left, right, up, down.
var neighbours = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Relax lets sand slide until no scanned cell stands more than MaxSlope
// above any 4-connected neighbour. Cells are scanned row by row (ascending
// y, then x) and updated in place, so later cells see values already moved
// earlier in the same sweep. The scan stops two cells short of the window's
// right and bottom edges; neighbours may lie outside the window as long as
// they are on the field.
//
// Each violating neighbour receives diff*RedistributionRate/n, where n is
// the number of violating neighbours and diff is recomputed after every
// transfer. Sweeps repeat until one completes with no transfer. When
// p.MaxSweeps is positive and reached first, ErrNotSettled is returned with
// the field left as it is.
func (f *Field) Relax(win Window, p Params) (RelaxStats, error) {
	var stats RelaxStats
	var lower [4]int

	for {
		stats.Sweeps++
		settled := true

		for y := win.MinY; y < win.MaxY-1; y++ {
			for x := win.MinX; x < win.MaxX-1; x++ {
				here := f.index(x, y)
				limit := f.cells[here] - p.MaxSlope

				n := 0
				for _, d := range neighbours {
					nx, ny := x+d[0], y+d[1]
					if !f.InBounds(nx, ny) {
						continue
					}
					if idx := f.index(nx, ny); f.cells[idx] < limit {
						lower[n] = idx
						n++
					}
				}
				if n == 0 {
					continue
				}

				settled = false
				share := p.RedistributionRate / float64(n)
				for _, idx := range lower[:n] {
					transfer := (f.cells[here] - f.cells[idx]) * share
					f.cells[idx] += transfer
					f.cells[here] -= transfer
					stats.Transfers++
				}
			}
		}

		if settled {
			return stats, nil
		}
		if p.MaxSweeps > 0 && stats.Sweeps >= p.MaxSweeps {
			return stats, fmt.Errorf("%w after %d sweeps", ErrNotSettled, stats.Sweeps)
		}
	}
}
