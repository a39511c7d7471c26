package domain

import "time"

const (
	EventOrderCreated  = "ORDER_CREATED"
	EventStatusUpdated = "STATUS_UPDATED"
)

type OrderEvent struct {
	Type        string      `json:"type"`
	OrderID     int         `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	Status      OrderStatus `json:"status"`
	TotalAmount float64     `json:"total_amount"`
	Timestamp   time.Time   `json:"timestamp"`
}
