package ticket

import "time"

type TicketResponse struct {
	TicketCode   string     `json:"ticket_code"`
	CategoryID   int64      `json:"category_id"`
	CategoryName string     `json:"category_name"`
	EventID      string     `json:"event_id"`
	OrderID      *int64     `json:"order_id,omitempty"`
	UserID       *int64     `json:"user_id,omitempty"`
	SeatInfo     *string    `json:"seat_info,omitempty"`
	Status       string     `json:"status"`
	ReservedAt   *time.Time `json:"reserved_at,omitempty"`
	SoldAt       *time.Time `json:"sold_at,omitempty"`
	UsedAt       *time.Time `json:"used_at,omitempty"`
}

func (r *TicketResponse) PopulateFromEntity(t Ticket) {
	r.TicketCode = t.TicketCode
	r.CategoryID = t.CategoryID
	r.CategoryName = t.CategoryName
	r.EventID = t.EventID
	r.OrderID = t.OrderID
	r.UserID = t.UserID
	r.SeatInfo = t.SeatInfo
	r.Status = string(t.Status)
	r.ReservedAt = t.ReservedAt
	r.SoldAt = t.SoldAt
	r.UsedAt = t.UsedAt
}

type GetManyTicketsResponse struct {
	Tickets []TicketResponse `json:"tickets"`
}

func (r *GetManyTicketsResponse) PopulateFromEntities(tickets []Ticket) {
	r.Tickets = make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		var tr TicketResponse
		tr.PopulateFromEntity(t)
		r.Tickets = append(r.Tickets, tr)
	}
}
