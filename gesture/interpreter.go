// Package gesture turns continuous pinch and drag input into viewport updates.
//
// Pinch and drag are tracked on independent channels and may be active at the
// same time. Only the ended transition of a channel commits state; a gesture
// that is interrupted simply stops, leaving the committed state untouched.
package gesture

import (
	"math"

	"seat-reserve-cli/viewport"
)

type Phase int

const (
	Idle Phase = iota
	Active
	Ended
)

func (p Phase) String() string {
	switch p {
	case Active:
		return "active"
	case Ended:
		return "ended"
	default:
		return "idle"
	}
}

type pinchChannel struct {
	phase  Phase
	factor float64
}

type dragChannel struct {
	phase       Phase
	translation viewport.Vec
}

type Interpreter struct {
	vp    *viewport.State
	pinch pinchChannel
	drag  dragChannel
}

func New(vp *viewport.State) *Interpreter {
	return &Interpreter{
		vp:    vp,
		pinch: pinchChannel{factor: 1},
	}
}

func (in *Interpreter) PinchPhase() Phase { return in.pinch.phase }
func (in *Interpreter) DragPhase() Phase { return in.drag.phase }

// LiveFactor is the scale factor of the pinch in flight, 1 when idle.
func (in *Interpreter) LiveFactor() float64 {
	if in.pinch.phase != Active {
		return 1
	}
	return in.pinch.factor
}

// PinchChanged records a pinch frame. The zoom anchor follows centroid on
// every frame; the factor only affects the rendered transform.
func (in *Interpreter) PinchChanged(factor float64, centroid viewport.Vec) {
	in.pinch.phase = Active
	in.pinch.factor = sanitizeFactor(factor)
	in.vp.BeginZoom(centroid)
}

// PinchEnded commits the pinch: the final scale is clamped, the offset is
// adjusted around the anchor and the drag limits are recomputed before
// returning. A drag in flight keeps panning from the zoomed committed
// offset.
func (in *Interpreter) PinchEnded(factor float64) {
	newScale := in.vp.ClampScale(in.vp.Scale() * sanitizeFactor(factor))
	if in.drag.phase == Active {
		in.vp.ApplyZoomDeltaDuringPan(newScale)
		in.vp.RecomputeDragLimits(in.vp.Container())
		in.vp.ApplyPan(in.drag.translation)
	} else {
		in.vp.ApplyZoomDelta(newScale)
		in.vp.RecomputeDragLimits(in.vp.Container())
	}
	in.pinch = pinchChannel{phase: Ended, factor: 1}
}

// DragChanged pans by the translation since the drag started.
func (in *Interpreter) DragChanged(translation viewport.Vec) {
	in.drag.phase = Active
	in.drag.translation = translation
	in.vp.ApplyPan(translation)
}

// DragEnded applies the final translation and commits it.
func (in *Interpreter) DragEnded(translation viewport.Vec) {
	in.vp.ApplyPan(translation)
	in.vp.CommitPan()
	in.drag = dragChannel{phase: Ended}
}

// Interrupt drops both channels without committing anything.
func (in *Interpreter) Interrupt() {
	in.pinch = pinchChannel{factor: 1}
	in.drag = dragChannel{}
}

// Transform is what the renderer should draw: the committed scale with the
// live offset, or the pinch preview while a pinch is active.
func (in *Interpreter) Transform() viewport.Transform {
	if in.pinch.phase == Active {
		return in.vp.PreviewZoom(in.vp.Scale() * in.pinch.factor)
	}
	return in.vp.Transform()
}

// sanitizeFactor maps NaN to no-op. Infinite and non-positive factors are left
// for the scale clamp to pin to a bound.
func sanitizeFactor(factor float64) float64 {
	if math.IsNaN(factor) {
		return 1
	}
	return factor
}
