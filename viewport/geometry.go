package viewport

import "math"

// Vec is a point or translation in logical units.
type Vec struct {
	X float64
	Y float64
}

func (v Vec) Add(o Vec) Vec { return Vec{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec { return Vec{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec) Scale(k float64) Vec { return Vec{X: v.X * k, Y: v.Y * k} }

// finite replaces non-finite components with fallback.
func (v Vec) finite(fallback Vec) Vec {
	if math.IsNaN(v.X) || math.IsInf(v.X, 0) {
		v.X = fallback.X
	}
	if math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
		v.Y = fallback.Y
	}
	return v
}

type Size struct {
	Width  float64
	Height float64
}

func (s Size) Center() Vec {
	return Vec{X: s.Width / 2, Y: s.Height / 2}
}

// Rect is an axis-aligned rectangle. A zero-size Rect is a single point.
type Rect struct {
	Min Vec
	Max Vec
}

func (r Rect) Width() float64 { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

func (r Rect) Contains(v Vec) bool {
	return v.X >= r.Min.X && v.X <= r.Max.X && v.Y >= r.Min.Y && v.Y <= r.Max.Y
}

// Clamp clamps each axis of v independently into r. NaN components land on Min.
func (r Rect) Clamp(v Vec) Vec {
	return Vec{
		X: clampAxis(v.X, r.Min.X, r.Max.X),
		Y: clampAxis(v.Y, r.Min.Y, r.Max.Y),
	}
}

func clampAxis(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Transform maps grid-local coordinates to screen coordinates:
// screen = Offset + Scale*local.
type Transform struct {
	Scale  float64
	Offset Vec
}

func (t Transform) Apply(local Vec) Vec {
	return t.Offset.Add(local.Scale(t.Scale))
}

// Invert maps a screen point back to grid-local coordinates.
func (t Transform) Invert(screen Vec) Vec {
	if t.Scale == 0 {
		return Vec{}
	}
	return screen.Sub(t.Offset).Scale(1 / t.Scale)
}

// ApplyRect maps a grid-local rectangle to screen space.
func (t Transform) ApplyRect(r Rect) Rect {
	return Rect{Min: t.Apply(r.Min), Max: t.Apply(r.Max)}
}
