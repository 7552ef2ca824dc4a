package category

import "time"

type CategoryResponse struct {
	ID                int64      `json:"id"`
	EventID           string     `json:"event_id"`
	Name              string     `json:"name"`
	Description       *string    `json:"description,omitempty"`
	Price             float64    `json:"price"`
	TotalQuantity     int64      `json:"total_quantity"`
	SoldQuantity      int64      `json:"sold_quantity"`
	ReservedQuantity  int64      `json:"reserved_quantity"`
	AvailableQuantity int64      `json:"available_quantity"`
	Status            string     `json:"status"`
	SalesStartAt      *time.Time `json:"sales_start_at,omitempty"`
	SalesEndAt        *time.Time `json:"sales_end_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (r *CategoryResponse) PopulateFromEntity(c Category) {
	r.ID = c.ID
	r.EventID = c.EventID
	r.Name = c.Name
	r.Description = c.Description
	r.Price = c.Price
	r.TotalQuantity = c.TotalQuantity
	r.SoldQuantity = c.SoldQuantity
	r.ReservedQuantity = c.ReservedQuantity
	r.AvailableQuantity = c.AvailableQuantity()
	r.Status = string(c.Status)
	r.SalesStartAt = c.SalesStartAt
	r.SalesEndAt = c.SalesEndAt
	r.CreatedAt = c.CreatedAt
	r.UpdatedAt = c.UpdatedAt
}

type GetManyCategoryResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

func (r *GetManyCategoryResponse) PopulateFromEntities(categories []Category) {
	r.Categories = make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		var cr CategoryResponse
		cr.PopulateFromEntity(c)
		r.Categories = append(r.Categories, cr)
	}
}
