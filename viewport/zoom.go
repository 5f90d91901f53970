package viewport

// BeginZoom anchors the zoom at screenPoint, converted to grid-local
// coordinates through the inverse of the current transform. Call it on every
// pinch frame so the anchor follows the fingers.
func (s *State) BeginZoom(screenPoint Vec) {
	screenPoint = screenPoint.finite(s.container.Center())
	s.zoomCenter = s.Transform().Invert(screenPoint)
	s.notify()
}

// PreviewZoom returns the transform that keeps the zoom anchor fixed at
// newScale without touching the committed state.
func (s *State) PreviewZoom(newScale float64) Transform {
	newScale = s.cfg.ClampScale(newScale)
	return Transform{Scale: newScale, Offset: s.zoomedOffset(newScale)}
}

// ApplyZoomDelta commits newScale, moving the offset so the point under the
// zoom anchor stays on the same screen position.
func (s *State) ApplyZoomDelta(newScale float64) {
	newScale = s.cfg.ClampScale(newScale)
	s.offset = s.zoomedOffset(newScale)
	s.lastOffset = s.offset
	s.scale = newScale
	s.notify()
}

// ApplyZoomDeltaDuringPan commits newScale while a pan is in flight. The zoom
// shift is applied to the live and the committed offset alike, so the pan
// translation stays relative to lastOffset and is not committed twice.
func (s *State) ApplyZoomDeltaDuringPan(newScale float64) {
	newScale = s.cfg.ClampScale(newScale)
	shift := s.zoomCenter.Scale(newScale - s.scale)
	s.offset = s.offset.Sub(shift)
	s.lastOffset = s.lastOffset.Sub(shift)
	s.scale = newScale
	s.notify()
}

// zoomedOffset solves offset' + newScale*anchor == offset + scale*anchor.
func (s *State) zoomedOffset(newScale float64) Vec {
	return s.offset.Sub(s.zoomCenter.Scale(newScale - s.scale))
}
