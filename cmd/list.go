package cmd

import (
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"

	"seat-reserve-cli/grid"
	"seat-reserve-cli/model"
	"seat-reserve-cli/service"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every seat of the hall as a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGrid(cmd)
		if err != nil {
			return err
		}
		renderSeatTable(cmd.OutOrStdout(), g)
		renderSummary(cmd.OutOrStdout(), g)
		return nil
	},
}

func loadGrid(cmd *cobra.Command) (*grid.Grid, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	log.SetOutput(io.Discard)
	seats, err := newLoader(cfg, service.NewClient(nil)).Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	g := grid.New(seats)
	for _, s := range g.Skipped() {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped seat %q at (%d,%d): %s\n",
			s.Seat.Id, s.Seat.RowPosition, s.Seat.ColumnPosition, s.Reason)
	}
	return g, nil
}

func renderSeatTable(out io.Writer, g *grid.Grid) {
	rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Row", "Column", "Seat", "Status", "Section"}, rowConfigAutoMerge)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
		{Number: 5, WidthMax: 20},
	})

	row := 0
	for _, seat := range g.Seats() {
		if row != 0 && seat.RowPosition != row {
			t.AppendSeparator()
		}
		row = seat.RowPosition
		t.AppendRow(table.Row{
			seat.RowPosition,
			seat.ColumnPosition,
			seat.SeatNumber,
			seat.ReservableType.Label(),
			seat.SectionId,
		}, rowConfigAutoMerge)
	}
	ext := g.Extents()
	t.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d seats", g.Len()), fmt.Sprintf("%dx%d grid", ext.MaxRow, ext.MaxColumn)})
	t.Render()
}

func renderSummary(out io.Writer, g *grid.Grid) {
	counts := statusCounts(g.Seats())
	statuses := maps.Keys(counts)
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Status", "Seats"})
	for _, status := range statuses {
		t.AppendRow(table.Row{status.Label(), strconv.Itoa(counts[status])})
	}
	t.Render()
}

func statusCounts(seats []model.Seat) map[model.ReservableType]int {
	counts := make(map[model.ReservableType]int)
	for _, seat := range seats {
		counts[seat.ReservableType]++
	}
	return counts
}
