package category

import "time"

type CreateCategoryRequest struct {
	EventID       string     `json:"event_id" validate:"required"`
	Name          string     `json:"name" validate:"required"`
	Description   *string    `json:"description"`
	Price         float64    `json:"price" validate:"gte=0"`
	TotalQuantity int64      `json:"total_quantity" validate:"required,min=1"`
	SalesStartAt  *time.Time `json:"sales_start_at"`
	SalesEndAt    *time.Time `json:"sales_end_at"`
}

type UpdateCategoryRequest struct {
	Name          string     `json:"name" validate:"required"`
	Description   *string    `json:"description"`
	Price         float64    `json:"price" validate:"gte=0"`
	TotalQuantity int64      `json:"total_quantity" validate:"required,min=1"`
	Status        *string    `json:"status" validate:"omitempty,oneof=AVAILABLE SOLD_OUT HIDDEN"`
	SalesStartAt  *time.Time `json:"sales_start_at"`
	SalesEndAt    *time.Time `json:"sales_end_at"`
}
