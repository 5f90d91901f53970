package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"seat-reserve-cli/model"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [seat-number]",
	Short: "Pick a seat and print its details",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGrid(cmd)
		if err != nil {
			return err
		}
		seats := g.Seats()
		if len(seats) == 0 {
			return errors.New("dataset has no seats")
		}

		var seat model.Seat
		if len(args) == 1 {
			found, ok := findSeatByNumber(seats, args[0])
			if !ok {
				return fmt.Errorf("seat %q not found", args[0])
			}
			seat = found
		} else {
			picked, err := promptSelectSeat(seats)
			if err != nil {
				return err
			}
			seat = picked
		}
		renderSeatDetail(cmd.OutOrStdout(), seat)
		return nil
	},
}

func findSeatByNumber(seats []model.Seat, number string) (model.Seat, bool) {
	number = strings.TrimSpace(number)
	for _, seat := range seats {
		if strings.EqualFold(seat.SeatNumber, number) {
			return seat, true
		}
	}
	return model.Seat{}, false
}

func seatItem(seat model.Seat) string {
	return fmt.Sprintf("%s  row %d col %d  %s", seat.SeatNumber, seat.RowPosition, seat.ColumnPosition, seat.ReservableType.Label())
}

func seatSearcher(seats []model.Seat) func(input string, index int) bool {
	return func(input string, index int) bool {
		input = strings.ToLower(strings.TrimSpace(input))
		if input == "" {
			return true
		}
		return strings.Contains(strings.ToLower(seatItem(seats[index])), input)
	}
}

func promptSelectSeat(seats []model.Seat) (model.Seat, error) {
	items := make([]string, len(seats))
	for i, seat := range seats {
		items[i] = seatItem(seat)
	}

	selectSeat := promptui.Select{
		Label:             "Select Seat",
		Items:             items,
		Size:              10,
		Searcher:          seatSearcher(seats),
		StartInSearchMode: true,
	}
	index, _, err := selectSeat.Run()
	if err != nil {
		return model.Seat{}, fmt.Errorf("select seat: %w", err)
	}
	return seats[index], nil
}

func renderSeatDetail(out io.Writer, seat model.Seat) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("Seat " + seat.SeatNumber)
	t.AppendRows([]table.Row{
		{"Status", seat.ReservableType.Label()},
		{"Row", seat.RowPosition},
		{"Column", seat.ColumnPosition},
		{"Section", seat.SectionId},
		{"QR code", seat.QrCode},
		{"Alignment", seat.Alignment},
		{"Type", seat.Type},
		{"Active", strconv.FormatBool(seat.IsActive)},
		{"ID", seat.Id},
	})
	t.Render()
}
