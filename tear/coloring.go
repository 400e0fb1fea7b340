package tear

// Coloring holds an optional colour per point. A point without a colour is
// not on a tear.
type Coloring struct {
	channels int
	values   []float64 // n × channels, row-major
	valid    []bool
}

// NewColoring returns an all-unset colouring of n points.
func NewColoring(n, channels int) *Coloring {
	if channels < 1 {
		channels = 1
	}
	return &Coloring{channels: channels, values: make([]float64, n*channels), valid: make([]bool, n)}
}

// Len returns the number of points.
func (c *Coloring) Len() int { return len(c.valid) }

// Channels returns the number of values per colour.
func (c *Coloring) Channels() int { return c.channels }

// Valid reports whether point n has a colour.
func (c *Coloring) Valid(n int) bool { return n >= 0 && n < len(c.valid) && c.valid[n] }

// At returns the colour of point n and whether it is set.
func (c *Coloring) At(n int) ([]float64, bool) {
	if !c.Valid(n) {
		return nil, false
	}
	return c.values[n*c.channels : (n+1)*c.channels], true
}

// Set assigns a colour to point n; missing channels are zero.
func (c *Coloring) Set(n int, vals ...float64) {
	if n < 0 || n >= len(c.valid) {
		return
	}
	row := c.values[n*c.channels : (n+1)*c.channels]
	for i := range row {
		row[i] = 0
		if i < len(vals) {
			row[i] = vals[i]
		}
	}
	c.valid[n] = true
}

// Count returns the number of coloured points.
func (c *Coloring) Count() int {
	k := 0
	for _, v := range c.valid {
		if v {
			k++
		}
	}
	return k
}

// Channel returns channel ch of every point and the validity mask.
func (c *Coloring) Channel(ch int) ([]float64, []bool) {
	out := make([]float64, len(c.valid))
	if ch < 0 || ch >= c.channels {
		return out, append([]bool(nil), c.valid...)
	}
	for n := range out {
		out[n] = c.values[n*c.channels+ch]
	}
	return out, append([]bool(nil), c.valid...)
}
