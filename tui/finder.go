package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"seat-reserve-cli/model"
)

type seatItem struct {
	seat    model.Seat
	starred bool
}

func (s seatItem) Title() string {
	if s.starred {
		return s.seat.SeatNumber + " ★"
	}
	return s.seat.SeatNumber
}

func (s seatItem) Description() string {
	desc := fmt.Sprintf("Row %d • Column %d • %s", s.seat.RowPosition, s.seat.ColumnPosition, s.seat.ReservableType.Label())
	if s.seat.SectionId != "" {
		desc += " • " + s.seat.SectionId
	}
	return desc
}

func (s seatItem) FilterValue() string {
	parts := []string{s.seat.SeatNumber, s.seat.ReservableType.Label(), s.seat.SectionId, s.seat.Type}
	return strings.ToLower(strings.Join(parts, " "))
}

// buildSeatItems lists starred seats first, each group in grid order.
func buildSeatItems(seats []model.Seat, starred map[string]bool) []list.Item {
	sorted := make([]model.Seat, len(seats))
	copy(sorted, seats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return starred[sorted[i].Id] && !starred[sorted[j].Id]
	})

	items := make([]list.Item, 0, len(sorted))
	for _, seat := range sorted {
		items = append(items, seatItem{seat: seat, starred: starred[seat.Id]})
	}
	return items
}

func (m *appModel) refreshFinder() {
	_ = m.finder.SetItems(buildSeatItems(m.grid.Seats(), m.starred))
}

func (m appModel) handleFinderKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		if m.finder.FilterValue() != "" {
			m.finder.ResetFilter()
			return m, nil, true
		}
		m.state = stateSeatMap
		return m, nil, true
	case "enter":
		item, ok := m.finder.SelectedItem().(seatItem)
		if !ok {
			return m, nil, true
		}
		m.finder.ResetFilter()
		cmd := m.jumpTo(item.seat)
		return m, cmd, true
	}
	return m, nil, false
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	listPtr.SetFilterText(listPtr.FilterValue() + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

func (m *appModel) activeList() *list.Model {
	if m.state == stateFinder {
		return &m.finder
	}
	return nil
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}
