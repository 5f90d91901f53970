// Package grid indexes seat records by their (row, column) position.
//
// A Grid is built once from a decoded dataset and never mutated afterwards.
package grid

import (
	"sort"
	"strings"

	"seat-reserve-cli/model"
)

// Key is the position of a seat in the logical grid. Rows and columns start at 1.
type Key struct {
	Row    int
	Column int
}

// Extents are the largest occupied row and column indices.
type Extents struct {
	MaxRow    int
	MaxColumn int
}

// Empty reports whether the grid has no rows or no columns.
func (e Extents) Empty() bool {
	return e.MaxRow <= 0 || e.MaxColumn <= 0
}

// SkipReason explains why a seat record was left out of the index.
type SkipReason string

const (
	SkipInvalidPosition SkipReason = "invalid position"
	SkipDuplicateKey    SkipReason = "duplicate position"
	SkipDuplicateID     SkipReason = "duplicate id"
	SkipMissingID       SkipReason = "missing id"
)

type Skipped struct {
	Seat   model.Seat
	Reason SkipReason
}

type Grid struct {
	seats   []model.Seat
	byKey   map[Key]int
	byID    map[string]int
	extents Extents
	skipped []Skipped
}

// New indexes seats. Records with a non-positive row or column, an empty id,
// or whose position or id is already taken, are skipped; the first record
// wins.
func New(seats []model.Seat) *Grid {
	g := &Grid{
		byKey: make(map[Key]int, len(seats)),
		byID:  make(map[string]int, len(seats)),
	}

	accepted := make([]model.Seat, 0, len(seats))
	for _, seat := range seats {
		key := Key{Row: seat.RowPosition, Column: seat.ColumnPosition}
		switch {
		case key.Row <= 0 || key.Column <= 0:
			g.skipped = append(g.skipped, Skipped{Seat: seat, Reason: SkipInvalidPosition})
			continue
		case strings.TrimSpace(seat.Id) == "":
			g.skipped = append(g.skipped, Skipped{Seat: seat, Reason: SkipMissingID})
			continue
		case g.hasKey(key):
			g.skipped = append(g.skipped, Skipped{Seat: seat, Reason: SkipDuplicateKey})
			continue
		case g.hasID(seat.Id):
			g.skipped = append(g.skipped, Skipped{Seat: seat, Reason: SkipDuplicateID})
			continue
		}
		accepted = append(accepted, seat)
		g.byKey[key] = len(accepted) - 1
		g.byID[seat.Id] = len(accepted) - 1
	}

	// Keep storage in reading order; rebuild both indexes after sorting.
	sort.SliceStable(accepted, func(i, j int) bool {
		if accepted[i].RowPosition != accepted[j].RowPosition {
			return accepted[i].RowPosition < accepted[j].RowPosition
		}
		return accepted[i].ColumnPosition < accepted[j].ColumnPosition
	})
	for i, seat := range accepted {
		g.byKey[Key{Row: seat.RowPosition, Column: seat.ColumnPosition}] = i
		g.byID[seat.Id] = i
		g.extents.MaxRow = max(g.extents.MaxRow, seat.RowPosition)
		g.extents.MaxColumn = max(g.extents.MaxColumn, seat.ColumnPosition)
	}
	g.seats = accepted
	return g
}

func (g *Grid) hasKey(key Key) bool {
	_, ok := g.byKey[key]
	return ok
}

func (g *Grid) hasID(id string) bool {
	_, ok := g.byID[id]
	return ok
}

// Lookup returns the seat at (row, column).
func (g *Grid) Lookup(row int, column int) (model.Seat, bool) {
	if g == nil {
		return model.Seat{}, false
	}
	i, ok := g.byKey[Key{Row: row, Column: column}]
	if !ok {
		return model.Seat{}, false
	}
	return g.seats[i], true
}

// ByID resolves a seat id.
func (g *Grid) ByID(id string) (model.Seat, bool) {
	if g == nil || id == "" {
		return model.Seat{}, false
	}
	i, ok := g.byID[id]
	if !ok {
		return model.Seat{}, false
	}
	return g.seats[i], true
}

func (g *Grid) Extents() Extents {
	if g == nil {
		return Extents{}
	}
	return g.extents
}

func (g *Grid) Len() int {
	if g == nil {
		return 0
	}
	return len(g.seats)
}

// Seats returns a copy of the indexed seats in row, then column order.
func (g *Grid) Seats() []model.Seat {
	if g == nil {
		return nil
	}
	return append([]model.Seat(nil), g.seats...)
}

func (g *Grid) Skipped() []Skipped {
	if g == nil {
		return nil
	}
	return append([]Skipped(nil), g.skipped...)
}
