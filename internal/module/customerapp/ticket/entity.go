package ticket

import "time"

type TicketStatus string

const (
	StatusReserved TicketStatus = "RESERVED"
	StatusSold     TicketStatus = "SOLD"
	StatusUsed     TicketStatus = "USED"
)

// Category carries the aggregate stock counters for one ticket category. The
// counters are only ever mutated while holding the category's row lock.
type Category struct {
	ID               int64
	EventID          string
	Name             string
	Price            float64
	TotalQuantity    int64
	SoldQuantity     int64
	ReservedQuantity int64
	Status           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (c *Category) AvailableQuantity() int64 {
	return c.TotalQuantity - c.SoldQuantity - c.ReservedQuantity
}

// TryReserve moves qty units into the reserved counter. It makes no partial
// reservation: when qty exceeds the available quantity nothing changes and
// false is returned.
func (c *Category) TryReserve(qty int64) bool {
	if qty > c.AvailableQuantity() {
		return false
	}

	c.ReservedQuantity += qty
	return true
}

// CommitSale moves qty units from reserved to sold. The reserved counter is
// clamped at zero; false signals the clamp so the caller can log the
// consistency anomaly.
func (c *Category) CommitSale(qty int64) bool {
	c.SoldQuantity += qty

	if c.ReservedQuantity < qty {
		c.ReservedQuantity = 0
		return false
	}

	c.ReservedQuantity -= qty
	return true
}

// ReleaseHold returns qty units from reserved back to the pool, clamping the
// counter at zero. False signals the clamp.
func (c *Category) ReleaseHold(qty int64) bool {
	if c.ReservedQuantity < qty {
		c.ReservedQuantity = 0
		return false
	}

	c.ReservedQuantity -= qty
	return true
}

type Ticket struct {
	ID         int64
	TicketCode string
	CategoryID int64
	OrderID    *int64
	UserID     *int64
	SeatInfo   *string
	Status     TicketStatus
	SessionID  *string
	ReservedAt *time.Time
	SoldAt     *time.Time
	UsedAt     *time.Time
	CreatedAt  time.Time
}
