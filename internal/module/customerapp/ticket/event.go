package ticket

import "time"

type SoldTicket struct {
	TicketCode string `json:"ticket_code"`
	CategoryID int64  `json:"category_id"`
}

// TicketSoldEvent is published after a settlement so downstream collaborators
// (order record-keeping, notification) can react.
type TicketSoldEvent struct {
	SessionID string       `json:"session_id"`
	OrderID   int64        `json:"order_id"`
	UserID    int64        `json:"user_id"`
	SoldAt    time.Time    `json:"sold_at"`
	Tickets   []SoldTicket `json:"tickets"`
}

// ReservationExpiredEvent is published after a sweep released stale holds so
// the shopping-cart collaborator can clear the matching carts.
type ReservationExpiredEvent struct {
	SessionIDs []string  `json:"session_ids"`
	Released   int64     `json:"released"`
	OccurredAt time.Time `json:"occurred_at"`
}
