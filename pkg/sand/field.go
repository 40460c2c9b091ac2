package sand

// Field is a fixed-size grid of sand heights stored in row-major order.
type Field struct {
	width, height int
	cells         []float64
}

// NewField allocates a width x height field with every cell at depth.
// Negative dimensions produce an empty field.
func NewField(width, height int, depth float64) *Field {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	f := &Field{width: width, height: height, cells: make([]float64, width*height)}
	for i := range f.cells {
		f.cells[i] = depth
	}
	return f
}

// Width returns the number of columns.
func (f *Field) Width() int { return f.width }

// Height returns the number of rows.
func (f *Field) Height() int { return f.height }

// InBounds reports whether (x, y) is a cell of the field.
func (f *Field) InBounds(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

func (f *Field) index(x, y int) int { return y*f.width + x }

// At returns the height at (x, y), or 0 outside the field.
func (f *Field) At(x, y int) float64 {
	if !f.InBounds(x, y) {
		return 0
	}
	return f.cells[f.index(x, y)]
}

// Set stores h at (x, y). Writes outside the field are dropped.
func (f *Field) Set(x, y int, h float64) {
	if f.InBounds(x, y) {
		f.cells[f.index(x, y)] = h
	}
}

// Sum returns the total amount of sand on the field.
func (f *Field) Sum() float64 {
	total := 0.0
	for _, h := range f.cells {
		total += h
	}
	return total
}

// Max returns the tallest cell, or 0 for an empty field.
func (f *Field) Max() float64 {
	m := 0.0
	for _, h := range f.cells {
		if h > m {
			m = h
		}
	}
	return m
}

// Snapshot returns an independent copy of the field.
func (f *Field) Snapshot() *Field {
	c := &Field{width: f.width, height: f.height, cells: make([]float64, len(f.cells))}
	copy(c.cells, f.cells)
	return c
}

// Rows returns a copy of the heights as rows of cells, top row first.
func (f *Field) Rows() [][]float64 {
	rows := make([][]float64, f.height)
	for y := range rows {
		rows[y] = make([]float64, f.width)
		copy(rows[y], f.cells[y*f.width:(y+1)*f.width])
	}
	return rows
}
