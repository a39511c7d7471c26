package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"sufra-pos/internal/domain"
)

const publishAttempts = 3

type CreateOrderRequest struct {
	OrderType           domain.OrderType    `json:"order_type"`
	CustomerType        domain.CustomerType `json:"customer_type"`
	CustomerID          *int                `json:"customer_id,omitempty"`
	CompanyID           *int                `json:"company_id,omitempty"`
	TableID             *int                `json:"table_id,omitempty"`
	DeliveryAreaID      *int                `json:"delivery_area_id,omitempty"`
	Lines               []OrderLineRequest  `json:"items"`
	SpecialInstructions string              `json:"special_instructions,omitempty"`
}

// OrderDetails is an order enriched with derived progress fields for reads.
type OrderDetails struct {
	domain.Order
	ItemsReady       int  `json:"items_ready"`
	TotalItems       int  `json:"total_items"`
	FullyReady       bool `json:"fully_ready"`
	RemainingMinutes *int `json:"remaining_minutes,omitempty"`
}

type OrderService struct {
	orders    OrderRepository
	directory DirectoryRepository
	validator *ItemValidator
	numbers   *OrderNumberGenerator
	cache     OrderCache
	publisher EventPublisher
	qrEncoder QRGenerator
	now       func() time.Time
}

func NewOrderService(
	orders OrderRepository,
	directory DirectoryRepository,
	validator *ItemValidator,
	numbers *OrderNumberGenerator,
	cache OrderCache,
	publisher EventPublisher,
	qrEncoder QRGenerator,
) *OrderService {
	return &OrderService{
		orders:    orders,
		directory: directory,
		validator: validator,
		numbers:   numbers,
		cache:     cache,
		publisher: publisher,
		qrEncoder: qrEncoder,
		now:       time.Now,
	}
}

// Create validates, prices and persists a new order. Steps before the
// persistence transaction perform zero writes; everything after the commit is
// best-effort and never fails the call.
func (s *OrderService) Create(ctx context.Context, req *CreateOrderRequest, staff domain.Staff, idempotencyKey string) (*domain.Order, error) {
	if idempotencyKey != "" && s.cache != nil {
		if prior, err := s.cache.GetIdempotent(ctx, idempotencyKey); err != nil {
			log.Printf("idempotency lookup failed for key %s: %v", idempotencyKey, err)
		} else if prior != nil {
			return prior, nil
		}
	}

	area, err := s.validateOrderLevel(ctx, req)
	if err != nil {
		return nil, err
	}

	validated := make([]*ValidatedLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		v, err := s.validator.Validate(ctx, line)
		if err != nil {
			return nil, err
		}
		validated = append(validated, v)
	}

	totals := CalculateTotals(validated, area)

	now := s.now()
	readyAt := now.Add(time.Duration(totals.EstimatedMinutes) * time.Minute)
	order := &domain.Order{
		OrderNumber:         s.numbers.Next(ctx),
		OrderType:           req.OrderType,
		CustomerType:        req.CustomerType,
		Status:              domain.StatusPending,
		Subtotal:            totals.Subtotal,
		TaxAmount:           totals.TaxAmount,
		DeliveryFee:         totals.DeliveryFee,
		TotalAmount:         totals.TotalAmount,
		CustomerID:          req.CustomerID,
		CompanyID:           req.CompanyID,
		TableID:             req.TableID,
		DeliveryAreaID:      req.DeliveryAreaID,
		CashierID:           &staff.ID,
		SpecialInstructions: req.SpecialInstructions,
		EstimatedReadyTime:  &readyAt,
	}
	for _, v := range validated {
		item := domain.OrderItem{
			ItemType:            v.Req.ItemType,
			CookingMethodID:     v.Req.CookingMethodID,
			Name:                v.Name,
			Quantity:            v.Req.Quantity,
			UnitPrice:           v.UnitPrice,
			TotalPrice:          v.TotalPrice,
			Status:              domain.ItemPending,
			SpecialInstructions: v.Req.SpecialInstructions,
		}
		item.SetRef(v.Req.RefID)
		order.Items = append(order.Items, item)
	}

	var tableID *int
	if req.OrderType == domain.OrderTypeDineIn {
		tableID = req.TableID
	}
	if err := s.orders.CreateOrder(ctx, order, tableID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.afterCreate(ctx, order, idempotencyKey)
	return order, nil
}

func (s *OrderService) validateOrderLevel(ctx context.Context, req *CreateOrderRequest) (*domain.DeliveryArea, error) {
	if len(req.Lines) == 0 {
		return nil, invalidInputf("order must contain at least one item")
	}
	switch req.OrderType {
	case domain.OrderTypeDineIn, domain.OrderTypeTakeaway, domain.OrderTypeDelivery,
		domain.OrderTypeParty, domain.OrderTypeOpenBuffet:
	default:
		return nil, invalidInputf("unknown order type %q", req.OrderType)
	}

	switch req.CustomerType {
	case domain.CustomerTypeCompany:
		if req.CompanyID == nil {
			return nil, invalidInputf("company order requires a company id")
		}
		if req.CustomerID != nil {
			return nil, invalidInputf("company order must not carry a customer id")
		}
		company, err := s.directory.GetCompany(ctx, *req.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if company == nil {
			return nil, notFoundf("company %d", *req.CompanyID)
		}
		if !company.IsActive {
			return nil, conflictf("company %q is not active", company.Name)
		}
	case domain.CustomerTypeIndividual:
		if req.CompanyID != nil {
			return nil, invalidInputf("individual order must not carry a company id")
		}
		if req.CustomerID != nil {
			customer, err := s.directory.GetCustomer(ctx, *req.CustomerID)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
			if customer == nil {
				return nil, notFoundf("customer %d", *req.CustomerID)
			}
			if !customer.IsActive {
				return nil, conflictf("customer %q is not active", customer.Name)
			}
		}
	default:
		return nil, invalidInputf("unknown customer type %q", req.CustomerType)
	}

	if req.OrderType == domain.OrderTypeDineIn {
		if req.TableID == nil {
			return nil, invalidInputf("dine-in order requires a table")
		}
		table, err := s.directory.GetTable(ctx, *req.TableID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if table == nil {
			return nil, notFoundf("table %d", *req.TableID)
		}
		if table.Status != domain.TableAvailable {
			return nil, conflictf("table %s is %s", table.Number, table.Status)
		}
	}

	if req.OrderType == domain.OrderTypeDelivery {
		if req.DeliveryAreaID == nil {
			return nil, invalidInputf("delivery order requires a delivery area")
		}
		area, err := s.directory.GetDeliveryArea(ctx, *req.DeliveryAreaID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if area == nil {
			return nil, notFoundf("delivery area %d", *req.DeliveryAreaID)
		}
		if !area.IsActive {
			return nil, conflictf("delivery area %q is not active", area.Name)
		}
		return area, nil
	}

	return nil, nil
}

func (s *OrderService) afterCreate(ctx context.Context, order *domain.Order, idempotencyKey string) {
	// Background retries must outlive the request.
	ctx = context.WithoutCancel(ctx)
	if s.cache != nil {
		bestEffort("cache order", 1, func() error {
			return s.cache.SetOrder(ctx, order)
		})
		if idempotencyKey != "" {
			bestEffort("store idempotency key", 1, func() error {
				return s.cache.SetIdempotent(ctx, idempotencyKey, order)
			})
		}
	}
	if s.publisher != nil {
		bestEffort("publish "+domain.EventOrderCreated, publishAttempts, func() error {
			return s.publisher.Publish(ctx, domain.OrderEvent{
				Type:        domain.EventOrderCreated,
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				Status:      order.Status,
				TotalAmount: order.TotalAmount,
				Timestamp:   s.now(),
			})
		})
	}
	if s.qrEncoder != nil {
		if qr, err := s.qrEncoder.Generate(order.ID); err == nil {
			bestEffort("store receipt qr", 1, func() error {
				return s.orders.SaveReceiptQR(ctx, order.ID, qr)
			})
		}
	}
}

// PlanTransition decides whether an order may move to target and which side
// effects accompany the change. Pure; the repository applies the plan under
// the order's row lock.
func PlanTransition(current *domain.Order, target domain.OrderStatus, staff domain.Staff, note string, at time.Time) (*domain.TransitionPlan, error) {
	if !target.IsValid() {
		return nil, invalidInputf("unknown status %q", target)
	}
	if !current.Status.CanTransition(target) {
		allowed := "none"
		if next := current.Status.AllowedNext(); len(next) > 0 {
			allowed = ""
			for i, s := range next {
				if i > 0 {
					allowed += ", "
				}
				allowed += string(s)
			}
		}
		return nil, conflictf("cannot change status from %s to %s (allowed: %s)",
			current.Status, target, allowed)
	}

	if note == "" {
		note = fmt.Sprintf("Status changed to %s", target)
	}
	staffID := staff.ID
	plan := &domain.TransitionPlan{
		From: current.Status,
		To:   target,
		At:   at,
		History: domain.OrderStatusHistory{
			OrderID:   current.ID,
			OldStatus: current.Status,
			NewStatus: target,
			StaffID:   &staffID,
			Note:      note,
		},
	}

	switch target {
	case domain.StatusConfirmed:
		plan.AssignKitchen = staff.KitchenStaffID
	case domain.StatusPreparing:
		plan.Cascade = &domain.ItemCascade{From: domain.ItemPending, To: domain.ItemPreparing}
	case domain.StatusReady:
		plan.Cascade = &domain.ItemCascade{From: domain.ItemPreparing, To: domain.ItemReady}
	case domain.StatusServed:
		plan.AssignHall = staff.HallManagerID
	case domain.StatusDelivered:
		plan.AssignDelivery = staff.DeliveryStaffID
	}

	switch target {
	case domain.StatusServed, domain.StatusDelivered, domain.StatusCancelled:
		plan.ReleaseTable = current.TableID != nil
	}

	return plan, nil
}

// UpdateStatus applies one state-machine transition. The current status is
// re-read under the row lock, so concurrent requests serialize and the loser
// re-evaluates against the winner's result.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int, newStatus domain.OrderStatus, staff domain.Staff, note string) (*domain.Order, error) {
	updated, err := s.orders.TransitionOrder(ctx, orderID, func(current *domain.Order) (*domain.TransitionPlan, error) {
		if current == nil {
			return nil, notFoundf("order %d", orderID)
		}
		return PlanTransition(current, newStatus, staff, note, s.now())
	})
	if err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	if s.cache != nil {
		bestEffort("invalidate order cache", 1, func() error {
			return s.cache.DeleteOrder(ctx, orderID)
		})
	}
	if s.publisher != nil {
		bestEffort("publish "+domain.EventStatusUpdated, publishAttempts, func() error {
			return s.publisher.Publish(ctx, domain.OrderEvent{
				Type:        domain.EventStatusUpdated,
				OrderID:     updated.ID,
				OrderNumber: updated.OrderNumber,
				Status:      updated.Status,
				TotalAmount: updated.TotalAmount,
				Timestamp:   s.now(),
			})
		})
	}
	return updated, nil
}

// Get returns the order enriched with item progress and a remaining-time
// estimate. Reads through the cache when one is wired.
func (s *OrderService) Get(ctx context.Context, orderID int) (*OrderDetails, error) {
	var order *domain.Order
	if s.cache != nil {
		if cached, err := s.cache.GetOrder(ctx, orderID); err == nil && cached != nil {
			order = cached
		}
	}
	if order == nil {
		fetched, err := s.orders.GetOrder(ctx, orderID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if fetched == nil {
			return nil, notFoundf("order %d", orderID)
		}
		order = fetched
	}

	details := &OrderDetails{Order: *order, TotalItems: len(order.Items)}
	for _, item := range order.Items {
		if item.Status == domain.ItemReady {
			details.ItemsReady++
		}
	}
	details.FullyReady = details.TotalItems > 0 && details.ItemsReady == details.TotalItems

	// Remaining time only means something while the kitchen is still working.
	switch order.Status {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusPreparing:
		if order.EstimatedReadyTime != nil {
			remaining := int(time.Until(*order.EstimatedReadyTime).Minutes())
			if remaining < 0 {
				remaining = 0
			}
			details.RemainingMinutes = &remaining
		}
	}

	return details, nil
}

// ReceiptQR returns the stored receipt QR, regenerating it when missing.
func (s *OrderService) ReceiptQR(ctx context.Context, orderID int) ([]byte, error) {
	qr, err := s.orders.GetReceiptQR(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qrEncoder != nil {
		if regenerated, err := s.qrEncoder.Generate(orderID); err == nil {
			bestEffort("store receipt qr", 1, func() error {
				return s.orders.SaveReceiptQR(ctx, orderID, regenerated)
			})
			return regenerated, nil
		}
	}
	return qr, nil
}
