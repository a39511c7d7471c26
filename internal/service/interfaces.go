package service

import (
	"context"
	"time"

	"sufra-pos/internal/domain"
)

// Repositories return (nil, nil) when the record is absent or soft-deleted;
// a non-nil error always means an infrastructure failure.

type OrderRepository interface {
	// CreateOrder persists the order with its items and first history row in
	// one transaction, marking the table OCCUPIED when tableID is set.
	CreateOrder(ctx context.Context, order *domain.Order, tableID *int) error
	GetOrder(ctx context.Context, orderID int) (*domain.Order, error)
	// TransitionOrder locks the order row, re-reads its current state, asks
	// decide for a plan, and applies the plan atomically. A nil plan with a
	// nil error means the transition was already applied (no-op).
	TransitionOrder(ctx context.Context, orderID int, decide func(current *domain.Order) (*domain.TransitionPlan, error)) (*domain.Order, error)
	SaveReceiptQR(ctx context.Context, orderID int, qr []byte) error
	GetReceiptQR(ctx context.Context, orderID int) ([]byte, error)
}

type CatalogRepository interface {
	GetCatalogEntry(ctx context.Context, itemType domain.LineItemType, id int) (*domain.CatalogEntry, error)
	GetCookingMethod(ctx context.Context, id int) (*domain.CookingMethod, error)
}

type DirectoryRepository interface {
	GetCustomer(ctx context.Context, id int) (*domain.Customer, error)
	GetCompany(ctx context.Context, id int) (*domain.Company, error)
	GetTable(ctx context.Context, id int) (*domain.Table, error)
	GetDeliveryArea(ctx context.Context, id int) (*domain.DeliveryArea, error)
}

type OrderCache interface {
	GetOrder(ctx context.Context, orderID int) (*domain.Order, error)
	SetOrder(ctx context.Context, order *domain.Order) error
	DeleteOrder(ctx context.Context, orderID int) error
	GetIdempotent(ctx context.Context, key string) (*domain.Order, error)
	SetIdempotent(ctx context.Context, key string, order *domain.Order) error
}

type DailyCounter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
}

type OrderServiceInterface interface {
	Create(ctx context.Context, req *CreateOrderRequest, staff domain.Staff, idempotencyKey string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int, newStatus domain.OrderStatus, staff domain.Staff, note string) (*domain.Order, error)
	Get(ctx context.Context, orderID int) (*OrderDetails, error)
	ReceiptQR(ctx context.Context, orderID int) ([]byte, error)
}

var _ OrderServiceInterface = (*OrderService)(nil)
