package category

import "time"

type CategoryStatus string

const (
	StatusAvailable CategoryStatus = "AVAILABLE"
	StatusSoldOut   CategoryStatus = "SOLD_OUT"
	StatusHidden    CategoryStatus = "HIDDEN"
)

type Category struct {
	ID               int64
	EventID          string
	Name             string
	Description      *string
	Price            float64
	TotalQuantity    int64
	SoldQuantity     int64
	ReservedQuantity int64
	Status           CategoryStatus
	SalesStartAt     *time.Time
	SalesEndAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (c *Category) AvailableQuantity() int64 {
	return c.TotalQuantity - c.SoldQuantity - c.ReservedQuantity
}
