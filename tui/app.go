package tui

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"seat-reserve-cli/gesture"
	"seat-reserve-cli/grid"
	"seat-reserve-cli/model"
	"seat-reserve-cli/schedule"
	"seat-reserve-cli/selection"
	"seat-reserve-cli/service"
	"seat-reserve-cli/store"
	"seat-reserve-cli/viewport"
)

type appState int

const (
	stateLoading appState = iota
	stateSeatMap
	stateFinder
	stateError
)

const (
	// One terminal cell covers unitsPerColumn x unitsPerRow viewport units.
	unitsPerColumn = 8.0
	unitsPerRow    = 16.0

	mapTop      = 1
	chromeLines = 3

	wheelFactor   = 1.15
	keyZoomFactor = 1.25
	loadTimeout   = 30 * time.Second
)

// Options configures the seat map program.
type Options struct {
	// Source labels the dataset in the header and keys starred seats.
	Source      string
	Load        func(ctx context.Context) ([]model.Seat, error)
	RevealDelay time.Duration
}

type dragState struct {
	active bool
	moved  bool
	startX int
	startY int
}

type appModel struct {
	opts Options

	state     appState
	lastState appState
	err       error

	width  int
	height int

	grid      *grid.Grid
	queue     *schedule.Queue
	vp        *viewport.State
	gestures  *gesture.Interpreter
	selection *selection.Controller

	drag       dragState
	showLabels bool
	starred    map[string]bool

	finder  list.Model
	spinner spinner.Model
	keys    keyMap
	help    help.Model
}

type errMsg struct {
	err error
}

type seatsMsg struct {
	seats []model.Seat
	err   error
}

// drainMsg runs the deferred viewport work queued by the previous update.
type drainMsg struct{}

type revealMsg struct {
	ticket selection.Ticket
}

func New(opts Options) tea.Model {
	if opts.Load == nil {
		opts.Load = func(context.Context) ([]model.Seat, error) { return service.LoadBundled() }
	}
	if opts.Source == "" {
		opts.Source = service.BundledSource
	}
	if opts.RevealDelay < 0 {
		opts.RevealDelay = selection.DefaultRevealDelay
	}

	queue := schedule.NewQueue()
	vp := viewport.New(viewport.DefaultConfig(), queue)
	m := appModel{
		opts:       opts,
		state:      stateLoading,
		grid:       grid.New(nil),
		queue:      queue,
		vp:         vp,
		gestures:   gesture.New(vp),
		selection:  selection.NewController(),
		showLabels: true,
		starred:    make(map[string]bool),
		finder:     newList("Find Seat"),
		keys:       newKeyMap(),
		help:       help.New(),
	}
	m.selection.Subscribe(func(c selection.Change) {
		log.Printf("selection %s -> %s %s", c.From, c.To, c.SeatID)
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.loadSeatsCmd(), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if next.queue.Pending() > 0 {
		return next, tea.Batch(cmd, drainCmd)
	}
	return next, cmd
}

func (m appModel) update(msg tea.Msg) (appModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if m.handleFilterInput(msg) {
			return m, nil
		}
		var cmd tea.Cmd
		var handled bool
		m, cmd, handled = m.handleKey(msg)
		if handled {
			return m, cmd
		}
		// fallthrough to component update

	case tea.MouseMsg:
		if m.state == stateSeatMap {
			return m.handleMouse(msg)
		}
		return m, nil

	case tea.BlurMsg:
		m.gestures.Interrupt()
		m.drag = dragState{}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.state == stateLoading {
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		m.lastState = m.recoverState()
		m.state = stateError
		return m, nil

	case seatsMsg:
		if msg.err != nil {
			return m, errCmd(msg.err)
		}
		m.setSeats(msg.seats)
		m.state = stateSeatMap
		return m, nil

	case drainMsg:
		if n := m.queue.Drain(); n > 0 {
			log.Printf("ran %d deferred task(s), scale %.2f", n, m.vp.Scale())
		}
		return m, nil

	case revealMsg:
		m.selection.Reveal(msg.ticket)
		return m, nil
	}

	var cmd tea.Cmd
	if m.state == stateFinder {
		m.finder, cmd = m.finder.Update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateLoading:
		return header + "\n\n" + m.loadingView()
	case stateSeatMap:
		return header + "\n" + m.seatMapView()
	case stateFinder:
		view := header + "\n\n" + m.finder.View()
		if filter := m.finder.FilterValue(); filter != "" {
			view += "\n" + hint(fmt.Sprintf("Filter: %s", filter))
		}
		return view + "\n" + hint("type to filter • enter jump to seat • esc back")
	case stateError:
		msg := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.err.Error())
		return header + "\n\n" + msg + "\n\n" + hint("Press r to retry, esc to go back or ctrl+c to quit.")
	default:
		return header
	}
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Seat Map")
	meta := m.opts.Source
	if m.grid.Len() > 0 {
		ext := m.grid.Extents()
		meta += fmt.Sprintf(" • %d seats • %d×%d", m.grid.Len(), ext.MaxRow, ext.MaxColumn)
	}
	return title + " " + lipgloss.NewStyle().Faint(true).Render(meta)
}

func (m appModel) loadingView() string {
	return fmt.Sprintf("%s Loading seats\n\n%s", m.spinner.View(), hint("Reading "+m.opts.Source+"..."))
}

func (m appModel) handleKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit, true
	}

	switch m.state {
	case stateFinder:
		return m.handleFinderKey(msg)
	case stateLoading:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit, true
		}
		return m, nil, true
	case stateError:
		switch msg.String() {
		case "q":
			return m, tea.Quit, true
		case "r":
			if m.grid.Len() == 0 {
				m.state = stateLoading
				return m, tea.Batch(m.loadSeatsCmd(), m.spinner.Tick), true
			}
		case "esc":
			if m.grid.Len() > 0 {
				m.state = m.lastState
			}
		}
		return m, nil, true
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Back):
		m.selection.Dismiss()
	case key.Matches(msg, m.keys.Pan):
		m.panByKey(msg.String())
	case key.Matches(msg, m.keys.ZoomIn):
		m.zoomAround(m.vp.Container().Center(), keyZoomFactor)
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoomAround(m.vp.Container().Center(), 1/keyZoomFactor)
	case key.Matches(msg, m.keys.Reset):
		m.gestures.Interrupt()
		m.drag = dragState{}
		m.vp.Reset()
	case key.Matches(msg, m.keys.Labels):
		m.showLabels = !m.showLabels
	case key.Matches(msg, m.keys.Star):
		return m.toggleStar()
	case key.Matches(msg, m.keys.Find):
		m.state = stateFinder
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m appModel) handleMouse(msg tea.MouseMsg) (appModel, tea.Cmd) {
	point := screenPoint(msg.X, msg.Y)
	switch {
	case msg.Button == tea.MouseButtonWheelUp && msg.Action == tea.MouseActionPress:
		m.zoomAround(point, wheelFactor)
	case msg.Button == tea.MouseButtonWheelDown && msg.Action == tea.MouseActionPress:
		m.zoomAround(point, 1/wheelFactor)
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		if m.inMap(msg.Y) {
			m.drag = dragState{active: true, startX: msg.X, startY: msg.Y}
		}
	case msg.Action == tea.MouseActionMotion && m.drag.active:
		translation := m.drag.translation(msg.X, msg.Y)
		if m.drag.moved || translation != (viewport.Vec{}) {
			m.drag.moved = true
			m.gestures.DragChanged(translation)
		}
	case msg.Action == tea.MouseActionRelease && m.drag.active:
		drag := m.drag
		m.drag = dragState{}
		if drag.moved {
			m.gestures.DragEnded(drag.translation(msg.X, msg.Y))
			return m, nil
		}
		cmd := m.tapAt(point)
		// A tap is also a drag with zero translation.
		m.gestures.DragChanged(viewport.Vec{})
		m.gestures.DragEnded(viewport.Vec{})
		return m, cmd
	}
	return m, nil
}

func (d dragState) translation(x int, y int) viewport.Vec {
	return viewport.Vec{
		X: float64(x-d.startX) * unitsPerColumn,
		Y: float64(y-d.startY) * unitsPerRow,
	}
}

// screenPoint maps the centre of terminal cell (x, y) into container units.
func screenPoint(x int, y int) viewport.Vec {
	return viewport.Vec{
		X: (float64(x) + 0.5) * unitsPerColumn,
		Y: (float64(y-mapTop) + 0.5) * unitsPerRow,
	}
}

func (m appModel) inMap(y int) bool {
	return y >= mapTop && y < mapTop+m.mapHeight()
}

func (m appModel) mapHeight() int {
	return max(m.height-chromeLines, 1)
}

func (m appModel) tapAt(point viewport.Vec) tea.Cmd {
	if k, ok := m.vp.HitTest(m.gestures.Transform(), point); ok {
		if seat, found := m.grid.Lookup(k.Row, k.Column); found {
			return m.tap(seat)
		}
	}
	m.selection.TapBackground()
	return nil
}

func (m appModel) tap(seat model.Seat) tea.Cmd {
	ticket, ok := m.selection.Tap(seat)
	if !ok {
		return nil
	}
	return revealAfter(m.opts.RevealDelay, ticket)
}

// jumpTo centres the map on seat and selects it.
func (m *appModel) jumpTo(seat model.Seat) tea.Cmd {
	m.state = stateSeatMap
	m.gestures.Interrupt()
	m.drag = dragState{}
	m.vp.CenterOn(seat.RowPosition, seat.ColumnPosition)
	if m.selection.IsSelected(seat.Id) {
		return nil
	}
	return m.tap(seat)
}

// panByKey moves the view one seat pitch as a complete drag gesture.
func (m *appModel) panByKey(dir string) {
	if m.drag.active {
		return
	}
	cell := m.vp.CellSize()
	scale := m.vp.Scale()
	stepX := (cell.Width + m.vp.SeatSpacing()) * scale
	stepY := (cell.Height + m.vp.SeatSpacing()) * scale

	var delta viewport.Vec
	switch dir {
	case "left", "h":
		delta.X = stepX
	case "right", "l":
		delta.X = -stepX
	case "up", "k":
		delta.Y = stepY
	case "down", "j":
		delta.Y = -stepY
	}
	m.gestures.DragChanged(delta)
	m.gestures.DragEnded(delta)
}

func (m *appModel) zoomAround(point viewport.Vec, factor float64) {
	m.gestures.PinchChanged(factor, point)
	m.gestures.PinchEnded(factor)
}

func (m appModel) toggleStar() (appModel, tea.Cmd, bool) {
	id := m.selection.SelectedID()
	if id == "" {
		return m, nil, true
	}
	star := !m.starred[id]
	if err := store.SetSeatStarred(m.opts.Source, id, star); err != nil {
		return m, errCmd(fmt.Errorf("star seat: %w", err)), true
	}
	if star {
		m.starred[id] = true
	} else {
		delete(m.starred, id)
	}
	m.refreshFinder()
	return m, nil, true
}

func (m *appModel) setSeats(seats []model.Seat) {
	m.grid = grid.New(seats)
	for _, s := range m.grid.Skipped() {
		log.Printf("skipped seat %q at (%d,%d): %s", s.Seat.Id, s.Seat.RowPosition, s.Seat.ColumnPosition, s.Reason)
	}

	starred, err := store.LoadStarredSeats(m.opts.Source)
	if err != nil {
		log.Printf("load starred seats: %v", err)
		starred = make(map[string]bool)
	}
	m.starred = starred
	m.refreshFinder()
	m.layout()
}

func (m *appModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.finder.SetSize(m.width, h)
	m.help.Width = m.width
	m.layout()
}

// layout runs on first load and on every resize. Any gesture in flight is
// dropped since its coordinates refer to the old container.
func (m *appModel) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	container := viewport.Size{
		Width:  float64(m.width) * unitsPerColumn,
		Height: float64(m.mapHeight()) * unitsPerRow,
	}
	m.gestures.Interrupt()
	m.drag = dragState{}
	m.vp.Layout(container, m.grid.Extents())
	log.Printf("layout %.0fx%.0f seat %.1f scale %.2f", container.Width, container.Height, m.vp.SeatSize(), m.vp.Scale())
}

func (m appModel) recoverState() appState {
	switch m.state {
	case stateLoading, stateError:
		if m.grid.Len() == 0 {
			return stateLoading
		}
		return stateSeatMap
	default:
		return m.state
	}
}

func (m appModel) loadSeatsCmd() tea.Cmd {
	load := m.opts.Load
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		seats, err := load(ctx)
		return seatsMsg{seats: seats, err: err}
	}
}

func drainCmd() tea.Msg {
	return drainMsg{}
}

func revealAfter(delay time.Duration, ticket selection.Ticket) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return revealMsg{ticket: ticket}
	})
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}
