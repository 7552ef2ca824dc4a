package ticket

import "time"

type ReserveTicketsResponse struct {
	SessionID   string    `json:"session_id"`
	CategoryID  int64     `json:"category_id"`
	Quantity    int64     `json:"quantity"`
	TicketCodes []string  `json:"ticket_codes"`
	ReservedAt  time.Time `json:"reserved_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type TicketResponse struct {
	TicketCode string     `json:"ticket_code"`
	CategoryID int64      `json:"category_id"`
	OrderID    *int64     `json:"order_id,omitempty"`
	UserID     *int64     `json:"user_id,omitempty"`
	SeatInfo   *string    `json:"seat_info,omitempty"`
	Status     string     `json:"status"`
	ReservedAt *time.Time `json:"reserved_at,omitempty"`
	SoldAt     *time.Time `json:"sold_at,omitempty"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
}

func (r *TicketResponse) PopulateFromEntity(t Ticket) {
	r.TicketCode = t.TicketCode
	r.CategoryID = t.CategoryID
	r.OrderID = t.OrderID
	r.UserID = t.UserID
	r.SeatInfo = t.SeatInfo
	r.Status = string(t.Status)
	r.ReservedAt = t.ReservedAt
	r.SoldAt = t.SoldAt
	r.UsedAt = t.UsedAt
}

type ConfirmSaleResponse struct {
	Tickets []TicketResponse `json:"tickets"`
}

func (r *ConfirmSaleResponse) PopulateFromEntities(tickets []Ticket) {
	r.Tickets = make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		var tr TicketResponse
		tr.PopulateFromEntity(t)
		r.Tickets = append(r.Tickets, tr)
	}
}

type CancelReservationResponse struct {
	SessionID string `json:"session_id"`
	Released  int64  `json:"released"`
}

type AvailabilityResponse struct {
	CategoryID int64 `json:"category_id"`
	Total      int64 `json:"total"`
	Sold       int64 `json:"sold"`
	Reserved   int64 `json:"reserved"`
	Available  int64 `json:"available"`
}

type GetMyTicketsResponse struct {
	Tickets []TicketResponse `json:"tickets"`
}

func (r *GetMyTicketsResponse) PopulateFromEntities(tickets []Ticket) {
	r.Tickets = make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		var tr TicketResponse
		tr.PopulateFromEntity(t)
		r.Tickets = append(r.Tickets, tr)
	}
}
