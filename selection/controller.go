// Package selection tracks the single selected seat and the delayed reveal of
// its detail panel.
package selection

import (
	"time"

	"seat-reserve-cli/model"
)

const DefaultRevealDelay = 200 * time.Millisecond

type Phase int

const (
	Unselected Phase = iota
	Selected
	DetailVisible
)

func (p Phase) String() string {
	switch p {
	case Selected:
		return "selected"
	case DetailVisible:
		return "detail"
	default:
		return "unselected"
	}
}

// Ticket identifies one pending reveal. A ticket goes stale as soon as the
// selection changes.
type Ticket struct {
	SeatID     string
	generation uint64
}

// Change is delivered to subscribers after every transition.
type Change struct {
	From   Phase
	To     Phase
	SeatID string
}

type Controller struct {
	phase      Phase
	seatID     string
	generation uint64

	observers    map[int]func(Change)
	nextObserver int
}

func NewController() *Controller {
	return &Controller{observers: map[int]func(Change){}}
}

func (c *Controller) Phase() Phase { return c.phase }

// SelectedID is the id of the selected seat, empty when unselected.
func (c *Controller) SelectedID() string { return c.seatID }

func (c *Controller) IsSelected(id string) bool {
	return c.phase != Unselected && id != "" && c.seatID == id
}

func (c *Controller) DetailVisible() bool { return c.phase == DetailVisible }

// Tap handles a tap on seat. Tapping the selected seat clears the selection.
// Any other seat replaces the selection and returns a ticket for the delayed
// reveal of the detail panel.
func (c *Controller) Tap(seat model.Seat) (Ticket, bool) {
	if seat.Id == "" {
		c.clear()
		return Ticket{}, false
	}
	if c.phase != Unselected && c.seatID == seat.Id {
		c.clear()
		return Ticket{}, false
	}
	from := c.phase
	c.generation++
	c.phase = Selected
	c.seatID = seat.Id
	c.emit(from)
	return Ticket{SeatID: seat.Id, generation: c.generation}, true
}

// TapBackground clears the selection.
func (c *Controller) TapBackground() { c.clear() }

// Dismiss closes the detail panel, which also clears the selection.
func (c *Controller) Dismiss() { c.clear() }

// Reveal shows the detail panel if t still belongs to the current selection.
func (c *Controller) Reveal(t Ticket) bool {
	if c.phase != Selected || t.generation != c.generation || t.SeatID != c.seatID {
		return false
	}
	c.phase = DetailVisible
	c.emit(Selected)
	return true
}

func (c *Controller) clear() {
	if c.phase == Unselected {
		return
	}
	from := c.phase
	c.generation++
	c.phase = Unselected
	c.seatID = ""
	c.emit(from)
}

// Subscribe registers fn for transitions and returns a cancel func.
func (c *Controller) Subscribe(fn func(Change)) func() {
	id := c.nextObserver
	c.nextObserver++
	c.observers[id] = fn
	return func() { delete(c.observers, id) }
}

func (c *Controller) emit(from Phase) {
	change := Change{From: from, To: c.phase, SeatID: c.seatID}
	for _, fn := range c.observers {
		fn(change)
	}
}
