package viewport

import (
	"math"

	"seat-reserve-cli/grid"
)

// RecomputeSeatGeometry picks a seat size that fits the grid into the
// container on both axes, clamped to [MinSeatSize, MaxSeatSize], and derives
// the spacing from it. Axes with no rows or columns do not constrain the fit.
func (s *State) RecomputeSeatGeometry(container Size, extents grid.Extents) {
	s.container = container
	s.extents = extents

	usable := 1 - s.cfg.SpacingReserve
	size := math.Inf(1)
	if extents.MaxColumn > 0 {
		available := container.Width - 2*s.cfg.Padding
		size = min(size, available/float64(extents.MaxColumn)*usable/s.cfg.CellWidthRatio)
	}
	if extents.MaxRow > 0 {
		available := container.Height - 2*s.cfg.Padding
		size = min(size, available/float64(extents.MaxRow)*usable/s.cfg.CellHeightRatio)
	}
	if math.IsNaN(size) {
		size = s.cfg.MinSeatSize
	}
	s.seatSize = min(max(size, s.cfg.MinSeatSize), s.cfg.MaxSeatSize)
	s.seatSpacing = max(s.seatSize*s.cfg.SpacingRatio, s.cfg.MinSpacing)
	s.notify()
}

// CellSize is the unscaled size of one grid cell.
func (s *State) CellSize() Size {
	return Size{
		Width:  s.seatSize * s.cfg.CellWidthRatio,
		Height: s.seatSize * s.cfg.CellHeightRatio,
	}
}

// GridSize is the unscaled extent of the whole grid including inner spacing.
func (s *State) GridSize() Size {
	cell := s.CellSize()
	var size Size
	if cols := s.extents.MaxColumn; cols > 0 {
		size.Width = cell.Width*float64(cols) + s.seatSpacing*float64(cols-1)
	}
	if rows := s.extents.MaxRow; rows > 0 {
		size.Height = cell.Height*float64(rows) + s.seatSpacing*float64(rows-1)
	}
	return size
}

// centeredOffset is the offset that centres the grid at scale, biased
// upwards by VerticalBias of the container height.
func (s *State) centeredOffset(container Size, scale float64) Vec {
	total := s.GridSize()
	return Vec{
		X: (container.Width - total.Width*scale) / 2,
		Y: (container.Height-total.Height*scale)/2 - s.cfg.VerticalBias*container.Height,
	}
}

// Recenter moves both the live and committed offset to the centred position
// for the current scale.
func (s *State) Recenter(container Size) {
	s.container = container
	centered := s.centeredOffset(container, s.scale)
	s.offset = centered
	s.lastOffset = centered
	s.notify()
}

// RecomputeDragLimits derives the rectangle of permitted offsets. When the
// scaled grid fits the container it collapses to the centred offset. The live
// and committed offsets are clamped into the new limits.
func (s *State) RecomputeDragLimits(container Size) {
	s.container = container
	centered := s.centeredOffset(container, s.scale)
	total := s.GridSize()
	overX := total.Width*s.scale - container.Width
	overY := total.Height*s.scale - container.Height

	if overX <= 0 && overY <= 0 {
		s.dragLimits = Rect{Min: centered, Max: centered}
	} else {
		horizontal := max(overX, 0)/2 + s.cfg.HorizontalSlack*container.Width
		top := max(overY, 0)/2 + s.cfg.TopSlack*container.Height
		bottom := max(overY, 0)/2 + s.cfg.BottomSlack*container.Height
		s.dragLimits = Rect{
			Min: Vec{X: centered.X - horizontal, Y: centered.Y - bottom},
			Max: Vec{X: centered.X + horizontal, Y: centered.Y + top},
		}
	}

	s.offset = s.dragLimits.Clamp(s.offset)
	s.lastOffset = s.dragLimits.Clamp(s.lastOffset)
	s.notify()
}

// CellBounds is the grid-local rectangle of the seat at (row, column).
func (s *State) CellBounds(row int, column int) Rect {
	cell := s.CellSize()
	origin := Vec{
		X: float64(column-1) * (cell.Width + s.seatSpacing),
		Y: float64(row-1) * (cell.Height + s.seatSpacing),
	}
	return Rect{Min: origin, Max: origin.Add(Vec{X: cell.Width, Y: cell.Height})}
}

// HitTest resolves a screen point under t to the cell it falls in. Points in
// the spacing between cells or outside the grid are background.
func (s *State) HitTest(t Transform, screen Vec) (grid.Key, bool) {
	if s.extents.Empty() || t.Scale <= 0 {
		return grid.Key{}, false
	}
	local := t.Invert(screen)
	if !(local.X >= 0 && local.Y >= 0) {
		return grid.Key{}, false
	}
	cell := s.CellSize()
	pitchX := cell.Width + s.seatSpacing
	pitchY := cell.Height + s.seatSpacing

	if local.X >= pitchX*float64(s.extents.MaxColumn) || local.Y >= pitchY*float64(s.extents.MaxRow) {
		return grid.Key{}, false
	}
	col := int(local.X/pitchX) + 1
	row := int(local.Y/pitchY) + 1
	if local.X-float64(col-1)*pitchX > cell.Width || local.Y-float64(row-1)*pitchY > cell.Height {
		return grid.Key{}, false
	}
	return grid.Key{Row: row, Column: col}, true
}
