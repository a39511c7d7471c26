package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusServed    OrderStatus = "SERVED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// allowedTransitions defines valid status transitions. Key is the current
// status, value is the set of statuses it can move to. SERVED, DELIVERED and
// CANCELLED are terminal.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusServed, StatusDelivered},
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusServed, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// CanTransition reports whether the order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowedNext lists the statuses reachable from s. Empty for terminal states.
func (s OrderStatus) AllowedNext() []OrderStatus {
	return allowedTransitions[s]
}

// ItemCascade moves every line item in From to To.
type ItemCascade struct {
	From ItemStatus
	To   ItemStatus
}

// TransitionPlan describes one status change plus the side effects that must
// commit atomically with it.
type TransitionPlan struct {
	From           OrderStatus
	To             OrderStatus
	At             time.Time
	Cascade        *ItemCascade
	ReleaseTable   bool
	AssignKitchen  *int
	AssignHall     *int
	AssignDelivery *int
	History        OrderStatusHistory
}
