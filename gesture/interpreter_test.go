package gesture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seat-reserve-cli/grid"
	"seat-reserve-cli/schedule"
	"seat-reserve-cli/viewport"
)

var container = viewport.Size{Width: 800, Height: 600}

func newInterpreter(t *testing.T) (*Interpreter, *viewport.State, *schedule.Queue) {
	t.Helper()
	q := schedule.NewQueue()
	vp := viewport.New(viewport.DefaultConfig(), q)
	vp.Layout(container, grid.Extents{MaxRow: 10, MaxColumn: 12})
	return New(vp), vp, q
}

func TestPinch_LiveFramesAreVisualOnly(t *testing.T) {
	in, vp, _ := newInterpreter(t)
	before := vp.Snapshot()

	in.PinchChanged(1.4, viewport.Vec{X: 300, Y: 200})
	in.PinchChanged(1.8, viewport.Vec{X: 320, Y: 210})

	assert.Equal(t, Active, in.PinchPhase())
	assert.Equal(t, 1.8, in.LiveFactor())
	assert.Equal(t, before.Scale, vp.Scale())
	assert.Equal(t, before.LastOffset, vp.LastOffset())
	assert.InDelta(t, before.Scale*1.8, in.Transform().Scale, 1e-9)
}

func TestPinch_AnchorTracksCentroid(t *testing.T) {
	in, vp, _ := newInterpreter(t)

	in.PinchChanged(1.2, viewport.Vec{X: 100, Y: 100})
	first := vp.ZoomCenter()
	in.PinchChanged(1.3, viewport.Vec{X: 500, Y: 400})
	second := vp.ZoomCenter()

	assert.NotEqual(t, first, second)
	screen := vp.Transform().Apply(second)
	assert.InDelta(t, 500, screen.X, 1e-9)
	assert.InDelta(t, 400, screen.Y, 1e-9)
}

func TestPinchEnded_CommitsAroundAnchor(t *testing.T) {
	in, vp, q := newInterpreter(t)
	centroid := viewport.Vec{X: 400, Y: 300}

	in.PinchChanged(2, centroid)
	anchor := vp.ZoomCenter()
	preview := in.Transform().Apply(anchor)
	in.PinchEnded(2)

	assert.Equal(t, Ended, in.PinchPhase())
	assert.Equal(t, 2.0, vp.Scale())
	assert.Equal(t, vp.Offset(), vp.LastOffset())
	assert.True(t, vp.DragLimits().Contains(vp.Offset()), "limits are committed synchronously")
	assert.InDelta(t, preview.X, in.Transform().Apply(anchor).X, 1e-6)
	assert.Equal(t, []string{"drag-limits"}, q.Names())
}

func TestPinchEnded_ClampsScale(t *testing.T) {
	in, vp, q := newInterpreter(t)

	in.PinchChanged(10, container.Center())
	in.PinchEnded(10)
	assert.Equal(t, 3.0, vp.Scale())
	q.Drain()

	in.PinchChanged(0.01, container.Center())
	in.PinchEnded(0.01)
	assert.Equal(t, 0.5, vp.Scale())
	assert.Contains(t, q.Names(), "snap-back")

	q.Drain()
	assert.Equal(t, 1.0, vp.Scale())
}

func TestPinchEnded_NonFiniteFactorClampsToBounds(t *testing.T) {
	in, vp, _ := newInterpreter(t)

	in.PinchEnded(math.Inf(1))
	assert.Equal(t, 3.0, vp.Scale())

	in.PinchEnded(math.NaN())
	assert.Equal(t, 3.0, vp.Scale())

	in.PinchEnded(-2)
	assert.Equal(t, 0.5, vp.Scale())
	assert.False(t, math.IsNaN(vp.Offset().X) || math.IsNaN(vp.Offset().Y))
}

func TestDrag_ResumesFromCommittedOffset(t *testing.T) {
	in, vp, _ := newInterpreter(t)
	in.PinchChanged(3, container.Center())
	in.PinchEnded(3)
	start := vp.LastOffset()

	in.DragChanged(viewport.Vec{X: 20, Y: 10})
	assert.Equal(t, Active, in.DragPhase())
	assert.Equal(t, start, vp.LastOffset())
	in.DragChanged(viewport.Vec{X: 40, Y: 20})
	in.DragEnded(viewport.Vec{X: 40, Y: 20})

	assert.Equal(t, Ended, in.DragPhase())
	want := vp.DragLimits().Clamp(start.Add(viewport.Vec{X: 40, Y: 20}))
	assert.Equal(t, want, vp.Offset())
	assert.Equal(t, want, vp.LastOffset())

	in.DragChanged(viewport.Vec{X: -10, Y: 0})
	assert.Equal(t, vp.DragLimits().Clamp(want.Add(viewport.Vec{X: -10})), vp.Offset())
}

func TestDrag_ZeroDeltaTapIsHarmless(t *testing.T) {
	in, vp, _ := newInterpreter(t)
	before := vp.Snapshot()

	in.DragChanged(viewport.Vec{})
	in.DragEnded(viewport.Vec{})

	after := vp.Snapshot()
	assert.Equal(t, before.Offset, after.Offset)
	assert.Equal(t, before.LastOffset, after.LastOffset)
}

func TestSimultaneousPinchAndDrag(t *testing.T) {
	in, vp, _ := newInterpreter(t)
	in.PinchChanged(3, container.Center())
	in.PinchEnded(3)

	in.DragChanged(viewport.Vec{X: 30, Y: 0})
	in.PinchChanged(1.2, viewport.Vec{X: 350, Y: 280})
	require.Equal(t, Active, in.DragPhase())
	require.Equal(t, Active, in.PinchPhase())

	in.PinchEnded(1.2)
	assert.Equal(t, 3.0, vp.Scale(), "clamped at maximum")
	assert.Equal(t, Active, in.DragPhase(), "drag channel is independent")

	in.DragEnded(viewport.Vec{X: 30, Y: 0})
	assert.True(t, vp.DragLimits().Contains(vp.Offset()))
	assert.Equal(t, vp.Offset(), vp.LastOffset())
}

func TestPinchEndedDuringDrag_CommitsTranslationOnce(t *testing.T) {
	in, vp, _ := newInterpreter(t)
	in.PinchChanged(2, container.Center())
	in.PinchEnded(2)
	start := vp.LastOffset()

	in.DragChanged(viewport.Vec{X: 20, Y: 0})
	in.PinchChanged(1, viewport.Vec{X: 300, Y: 250})
	in.PinchEnded(1)
	assert.Equal(t, start, vp.LastOffset(), "pinch must not commit the drag")

	in.DragChanged(viewport.Vec{X: 40, Y: 0})
	in.DragEnded(viewport.Vec{X: 40, Y: 0})
	assert.InDelta(t, 40, vp.LastOffset().X-start.X, 1e-9)
	assert.InDelta(t, 0, vp.LastOffset().Y-start.Y, 1e-9)
}

func TestPinchEndedDuringDrag_MatchesCommittedPanThenZoom(t *testing.T) {
	point := viewport.Vec{X: 350, Y: 260}

	during, duringVP, _ := newInterpreter(t)
	during.PinchChanged(2, container.Center())
	during.PinchEnded(2)
	during.DragChanged(viewport.Vec{X: 20, Y: 10})
	during.PinchChanged(1.5, point)
	during.PinchEnded(1.5)
	during.DragChanged(viewport.Vec{X: 40, Y: 20})
	during.DragEnded(viewport.Vec{X: 40, Y: 20})

	split, splitVP, _ := newInterpreter(t)
	split.PinchChanged(2, container.Center())
	split.PinchEnded(2)
	split.DragChanged(viewport.Vec{X: 20, Y: 10})
	split.DragEnded(viewport.Vec{X: 20, Y: 10})
	split.PinchChanged(1.5, point)
	split.PinchEnded(1.5)
	split.DragChanged(viewport.Vec{X: 20, Y: 10})
	split.DragEnded(viewport.Vec{X: 20, Y: 10})

	require.InDelta(t, splitVP.Scale(), duringVP.Scale(), 1e-9)
	assert.InDelta(t, splitVP.LastOffset().X, duringVP.LastOffset().X, 1e-9)
	assert.InDelta(t, splitVP.LastOffset().Y, duringVP.LastOffset().Y, 1e-9)
}

func TestInterrupt_CommitsNothing(t *testing.T) {
	in, vp, _ := newInterpreter(t)
	in.PinchChanged(3, container.Center())
	in.PinchEnded(3)
	committed := vp.Snapshot()

	in.DragChanged(viewport.Vec{X: 50, Y: 50})
	in.PinchChanged(0.7, viewport.Vec{X: 10, Y: 10})
	in.Interrupt()

	assert.Equal(t, Idle, in.PinchPhase())
	assert.Equal(t, Idle, in.DragPhase())
	assert.Equal(t, committed.Scale, vp.Scale())
	assert.Equal(t, committed.LastOffset, vp.LastOffset())
	assert.Equal(t, 1.0, in.LiveFactor())

	// The next drag overwrites the frozen live offset from the committed one.
	in.DragChanged(viewport.Vec{})
	assert.Equal(t, committed.LastOffset, vp.Offset())
}
