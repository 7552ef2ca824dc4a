package ticket

import "time"

type TicketStatus string

const (
	StatusReserved TicketStatus = "RESERVED"
	StatusSold     TicketStatus = "SOLD"
	StatusUsed     TicketStatus = "USED"
)

type Ticket struct {
	ID           int64
	TicketCode   string
	CategoryID   int64
	CategoryName string
	EventID      string
	OrderID      *int64
	UserID       *int64
	SeatInfo     *string
	Status       TicketStatus
	ReservedAt   *time.Time
	SoldAt       *time.Time
	UsedAt       *time.Time
}
