package ticket

type ReserveTicketsRequest struct {
	CategoryID int64  `json:"category_id" validate:"required"`
	Quantity   int64  `json:"quantity" validate:"required,min=1"`
	SessionID  string `json:"session_id" validate:"required"`
}

type ConfirmSaleRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	OrderID   int64  `json:"order_id" validate:"required"`
	UserID    int64  `json:"user_id" validate:"required"`
}
