// Package viewport maps the logical seat grid onto a container.
//
// State owns the committed scale and offset, the in-gesture offset, the anchor
// of the current zoom and the geometry derived from the container size. Screen
// and grid-local coordinates are related by screen = offset + scale*local, with
// local measured from the grid's top-left corner and screen from the
// container's top-left corner.
//
// All methods are meant to be called from a single goroutine. Work that must
// run after the current input event is handed to a schedule.Queue.
package viewport

import (
	"seat-reserve-cli/grid"
	"seat-reserve-cli/schedule"
)

// Snapshot is a copy of the observable viewport state.
type Snapshot struct {
	Container   Size
	Extents     grid.Extents
	Scale       float64
	Offset      Vec
	LastOffset  Vec
	ZoomCenter  Vec
	SeatSize    float64
	SeatSpacing float64
	DragLimits  Rect
}

type State struct {
	cfg   Config
	queue *schedule.Queue

	container Size
	extents   grid.Extents

	scale      float64
	offset     Vec
	lastOffset Vec
	zoomCenter Vec

	seatSize    float64
	seatSpacing float64
	dragLimits  Rect

	observers    map[int]func(Snapshot)
	nextObserver int
}

// New returns a State at scale 1 with no layout. queue receives the deferred
// snap-back and drag-limit work scheduled by ClampScale; a nil queue drops it.
func New(cfg Config, queue *schedule.Queue) *State {
	s := &State{
		cfg:       cfg,
		queue:     queue,
		scale:     cfg.ClampScale(1),
		seatSize:  cfg.MinSeatSize,
		observers: map[int]func(Snapshot){},
	}
	s.seatSpacing = max(s.seatSize*cfg.SpacingRatio, cfg.MinSpacing)
	return s
}

func (s *State) Config() Config { return s.cfg }
func (s *State) Scale() float64 { return s.scale }
func (s *State) Offset() Vec { return s.offset }
func (s *State) LastOffset() Vec { return s.lastOffset }
func (s *State) ZoomCenter() Vec { return s.zoomCenter }
func (s *State) SeatSize() float64 { return s.seatSize }
func (s *State) SeatSpacing() float64 { return s.seatSpacing }
func (s *State) DragLimits() Rect { return s.dragLimits }
func (s *State) Container() Size { return s.container }
func (s *State) Extents() grid.Extents { return s.extents }

// Transform is the committed-scale transform with the live offset.
func (s *State) Transform() Transform {
	return Transform{Scale: s.scale, Offset: s.offset}
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Container:   s.container,
		Extents:     s.extents,
		Scale:       s.scale,
		Offset:      s.offset,
		LastOffset:  s.lastOffset,
		ZoomCenter:  s.zoomCenter,
		SeatSize:    s.seatSize,
		SeatSpacing: s.seatSpacing,
		DragLimits:  s.dragLimits,
	}
}

// Subscribe registers fn to be called with a snapshot after every mutation.
// The returned func removes the subscription.
func (s *State) Subscribe(fn func(Snapshot)) func() {
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn
	return func() { delete(s.observers, id) }
}

func (s *State) notify() {
	if len(s.observers) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range s.observers {
		fn(snap)
	}
}

// Layout runs the full layout pass for a container size: seat geometry,
// recentering and drag limits, in that order.
func (s *State) Layout(container Size, extents grid.Extents) {
	s.RecomputeSeatGeometry(container, extents)
	s.Recenter(container)
	s.RecomputeDragLimits(container)
}

// ApplyPan sets the live offset to lastOffset+delta clamped to the drag
// limits. The committed offset is left alone.
func (s *State) ApplyPan(delta Vec) {
	delta = delta.finite(Vec{})
	s.offset = s.dragLimits.Clamp(s.lastOffset.Add(delta))
	s.notify()
}

// CommitPan makes the live offset the one the next pan resumes from.
func (s *State) CommitPan() {
	s.lastOffset = s.offset
	s.notify()
}

// ClampScale clamps candidate to the configured bounds and schedules a drag
// limit recompute. A result inside the snap-back band also schedules a reset
// to scale 1. Both run on the next drain of the queue.
func (s *State) ClampScale(candidate float64) float64 {
	clamped := s.cfg.ClampScale(candidate)
	if s.cfg.nearMinimum(clamped) {
		s.queue.Defer("snap-back", s.snapBack)
	}
	s.queue.Defer("drag-limits", func() {
		s.RecomputeDragLimits(s.container)
	})
	return clamped
}

// snapBack resets the viewport unless the committed scale has left the
// snap-back band since it was scheduled.
func (s *State) snapBack() {
	if !s.cfg.nearMinimum(s.scale) {
		return
	}
	s.Reset()
}

// Reset returns to scale 1, recenters and recomputes the drag limits.
func (s *State) Reset() {
	s.scale = s.cfg.ClampScale(1)
	s.zoomCenter = Vec{}
	s.Recenter(s.container)
	s.RecomputeDragLimits(s.container)
}

// CenterOn moves the cell at (row, column) to the middle of the container,
// within the drag limits, and commits the result.
func (s *State) CenterOn(row int, column int) bool {
	if row < 1 || column < 1 || row > s.extents.MaxRow || column > s.extents.MaxColumn {
		return false
	}
	cell := s.CellBounds(row, column)
	mid := cell.Min.Add(cell.Max).Scale(0.5)
	target := s.container.Center().Sub(mid.Scale(s.scale))
	s.offset = s.dragLimits.Clamp(target)
	s.lastOffset = s.offset
	s.notify()
	return true
}
