package model

type ReservableType string

const (
	Reservable    ReservableType = "RESERVABLE"
	NotReservable ReservableType = "NOT_RESERVABLE"
)

// Label returns the human readable status. Unknown values are passed through.
func (r ReservableType) Label() string {
	switch r {
	case Reservable:
		return "Reservable"
	case NotReservable:
		return "Not Reservable"
	default:
		return string(r)
	}
}

type SeatResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Result     []Seat `json:"result"`
}

type Seat struct {
	Id             string         `json:"id"`
	RowPosition    int            `json:"rowPosition"`
	ColumnPosition int            `json:"columnPosition"`
	SeatNumber     string         `json:"seatNumber"`
	ReservableType ReservableType `json:"reservableType"`
	SectionId      string         `json:"sectionId"`
	QrCode         string         `json:"qrCode"`
	Alignment      string         `json:"alignment"`
	Type           string         `json:"type"`
	IsActive       bool           `json:"isActive"`
}

func (s Seat) IsReservable() bool {
	return s.ReservableType == Reservable
}
