package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"seat-reserve-cli/model"
	"seat-reserve-cli/viewport"
)

type cellKind int

const (
	kindEmpty cellKind = iota
	kindReservable
	kindNotReservable
	kindSelected
	kindSelectedBlocked
)

type rasterCell struct {
	kind cellKind
	ch   rune
}

var kindStyles = map[cellKind]lipgloss.Style{
	kindReservable:      lipgloss.NewStyle().Background(lipgloss.Color("2")).Foreground(lipgloss.Color("15")),
	kindNotReservable:   lipgloss.NewStyle().Background(lipgloss.Color("8")).Foreground(lipgloss.Color("15")),
	kindSelected:        lipgloss.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15")).Bold(true),
	kindSelectedBlocked: lipgloss.NewStyle().Background(lipgloss.Color("8")).Foreground(lipgloss.Color("12")).Bold(true).Underline(true),
}

func (m appModel) seatMapView() string {
	lines := m.renderSeatMap(m.width, m.mapHeight())

	if m.selection.DetailVisible() {
		if seat, ok := m.grid.ByID(m.selection.SelectedID()); ok {
			panel := strings.Split(m.detailPanel(seat), "\n")
			if len(panel) <= len(lines) {
				copy(lines[len(lines)-len(panel):], panel)
			}
		}
	}

	return strings.Join(lines, "\n") + "\n" + m.statusLine() + "\n" + m.help.View(m.keys)
}

func (m appModel) statusLine() string {
	parts := []string{fmt.Sprintf("zoom %.2fx", m.gestures.Transform().Scale)}
	if id := m.selection.SelectedID(); id != "" {
		if seat, ok := m.grid.ByID(id); ok {
			parts = append(parts, "selected "+seat.SeatNumber)
		}
	}
	if m.grid.Len() == 0 {
		parts = append(parts, "no seats")
	}
	return hint(strings.Join(parts, " • "))
}

// renderSeatMap rasterises the grid into width x height terminal cells. A
// cell belongs to a seat when its centre falls inside the seat's box; the
// spacing between seats and cells without a seat stay blank.
func (m appModel) renderSeatMap(width int, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	t := m.gestures.Transform()
	cells := make([][]rasterCell, height)
	for y := range cells {
		cells[y] = make([]rasterCell, width)
		for x := range cells[y] {
			cells[y][x].ch = ' '
			k, ok := m.vp.HitTest(t, cellCenter(x, y))
			if !ok {
				continue
			}
			if seat, found := m.grid.Lookup(k.Row, k.Column); found {
				cells[y][x].kind = m.seatKind(seat)
			}
		}
	}
	if m.showLabels {
		m.placeLabels(cells, t)
	}

	lines := make([]string, height)
	for y, row := range cells {
		lines[y] = renderRow(row)
	}
	return lines
}

func (m appModel) seatKind(seat model.Seat) cellKind {
	selected := m.selection.IsSelected(seat.Id)
	switch {
	case !seat.IsReservable() && selected:
		return kindSelectedBlocked
	case !seat.IsReservable():
		return kindNotReservable
	case selected:
		return kindSelected
	default:
		return kindReservable
	}
}

// placeLabels centres each seat number in the seat's box. Labels that do not
// fit the box are left out rather than truncated.
func (m appModel) placeLabels(cells [][]rasterCell, t viewport.Transform) {
	height := len(cells)
	width := len(cells[0])
	for _, seat := range m.grid.Seats() {
		box := t.ApplyRect(m.vp.CellBounds(seat.RowPosition, seat.ColumnPosition))
		x0 := int(math.Ceil(box.Min.X/unitsPerColumn - 0.5))
		x1 := int(math.Floor(box.Max.X/unitsPerColumn - 0.5))
		y0 := int(math.Ceil(box.Min.Y/unitsPerRow - 0.5))
		y1 := int(math.Floor(box.Max.Y/unitsPerRow - 0.5))
		if x1 < 0 || y1 < 0 || x0 >= width || y0 >= height || x0 > x1 || y0 > y1 {
			continue
		}

		label := []rune(seat.SeatNumber)
		if m.starred[seat.Id] {
			label = append([]rune("★"), label...)
		}
		span := x1 - x0 + 1
		if len(label) == 0 || len(label) > span {
			continue
		}
		y := (y0 + y1) / 2
		if y < 0 || y >= height {
			continue
		}
		start := x0 + (span-len(label))/2
		for i, r := range label {
			x := start + i
			if x < 0 || x >= width || cells[y][x].kind == kindEmpty {
				continue
			}
			cells[y][x].ch = r
		}
	}
}

func cellCenter(x int, y int) viewport.Vec {
	return viewport.Vec{
		X: (float64(x) + 0.5) * unitsPerColumn,
		Y: (float64(y) + 0.5) * unitsPerRow,
	}
}

// renderRow styles runs of equal kind together to keep escape sequences short.
func renderRow(row []rasterCell) string {
	var b strings.Builder
	for start := 0; start < len(row); {
		end := start
		var run strings.Builder
		for end < len(row) && row[end].kind == row[start].kind {
			run.WriteRune(row[end].ch)
			end++
		}
		if style, ok := kindStyles[row[start].kind]; ok {
			b.WriteString(style.Render(run.String()))
		} else {
			b.WriteString(run.String())
		}
		start = end
	}
	return b.String()
}

func (m appModel) detailPanel(seat model.Seat) string {
	status := lipgloss.NewStyle().Bold(true).Foreground(statusColor(seat.ReservableType)).Render(seat.ReservableType.Label())
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("Seat: " + seat.SeatNumber),
		status,
		hint(fmt.Sprintf("Row %d • Column %d • Section %s", seat.RowPosition, seat.ColumnPosition, orDash(seat.SectionId))),
		hint(fmt.Sprintf("Type %s • Alignment %s • QR %s", orDash(seat.Type), orDash(seat.Alignment), orDash(seat.QrCode))),
	}
	if !seat.IsActive {
		lines = append(lines, hint("inactive"))
	}
	if m.starred[seat.Id] {
		lines = append(lines, hint("★ starred"))
	}

	panel := lipgloss.NewStyle().
		Padding(0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(strings.Join(lines, "\n"))
	if m.width > 0 {
		panel = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, panel)
	}
	return panel
}

func statusColor(r model.ReservableType) lipgloss.Color {
	switch r {
	case model.Reservable:
		return lipgloss.Color("2")
	case model.NotReservable:
		return lipgloss.Color("1")
	default:
		return lipgloss.Color("8")
	}
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
