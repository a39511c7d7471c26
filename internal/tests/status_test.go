package tests

import (
	"testing"
	"time"

	"sufra-pos/internal/domain"
	"sufra-pos/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []domain.OrderStatus{
	domain.StatusPending, domain.StatusConfirmed, domain.StatusPreparing,
	domain.StatusReady, domain.StatusServed, domain.StatusDelivered,
	domain.StatusCancelled,
}

func TestStatusMachineClosure(t *testing.T) {
	allowed := map[domain.OrderStatus][]domain.OrderStatus{
		domain.StatusPending:   {domain.StatusConfirmed, domain.StatusCancelled},
		domain.StatusConfirmed: {domain.StatusPreparing, domain.StatusCancelled},
		domain.StatusPreparing: {domain.StatusReady, domain.StatusCancelled},
		domain.StatusReady:     {domain.StatusServed, domain.StatusDelivered},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}

	for _, terminal := range []domain.OrderStatus{domain.StatusServed, domain.StatusDelivered, domain.StatusCancelled} {
		assert.True(t, terminal.IsTerminal())
		assert.Empty(t, terminal.AllowedNext())
	}
}

func TestPlanTransition(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tableID := 4
	kitchenID := 11
	hallID := 12
	deliveryID := 13

	staff := domain.Staff{
		ID:              7,
		KitchenStaffID:  &kitchenID,
		HallManagerID:   &hallID,
		DeliveryStaffID: &deliveryID,
	}

	tests := []struct {
		name         string
		order        *domain.Order
		target       domain.OrderStatus
		note         string
		wantErr      error
		wantCascade  *domain.ItemCascade
		wantRelease  bool
		wantKitchen  bool
		wantHall     bool
		wantDelivery bool
		wantNote     string
	}{
		{
			name:    "unknown status",
			order:   &domain.Order{ID: 1, Status: domain.StatusPending},
			target:  "SHIPPED",
			wantErr: service.ErrInvalidInput,
		},
		{
			name:    "disallowed transition",
			order:   &domain.Order{ID: 1, Status: domain.StatusPending},
			target:  domain.StatusReady,
			wantErr: service.ErrConflict,
		},
		{
			name:    "terminal state has no exits",
			order:   &domain.Order{ID: 1, Status: domain.StatusCancelled},
			target:  domain.StatusConfirmed,
			wantErr: service.ErrConflict,
		},
		{
			name:        "confirm assigns kitchen staff",
			order:       &domain.Order{ID: 1, Status: domain.StatusPending},
			target:      domain.StatusConfirmed,
			wantKitchen: true,
			wantNote:    "Status changed to CONFIRMED",
		},
		{
			name:        "preparing cascades pending items",
			order:       &domain.Order{ID: 1, Status: domain.StatusConfirmed},
			target:      domain.StatusPreparing,
			wantCascade: &domain.ItemCascade{From: domain.ItemPending, To: domain.ItemPreparing},
			wantNote:    "Status changed to PREPARING",
		},
		{
			name:        "ready cascades preparing items",
			order:       &domain.Order{ID: 1, Status: domain.StatusPreparing},
			target:      domain.StatusReady,
			wantCascade: &domain.ItemCascade{From: domain.ItemPreparing, To: domain.ItemReady},
			wantNote:    "Status changed to READY",
		},
		{
			name:        "served releases table without cascading items",
			order:       &domain.Order{ID: 1, Status: domain.StatusReady, TableID: &tableID},
			target:      domain.StatusServed,
			note:        "handed over",
			wantRelease: true,
			wantHall:    true,
			wantNote:    "handed over",
		},
		{
			name:         "delivered assigns delivery staff",
			order:        &domain.Order{ID: 1, Status: domain.StatusReady},
			target:       domain.StatusDelivered,
			wantDelivery: true,
			wantNote:     "Status changed to DELIVERED",
		},
		{
			name:        "cancel releases table",
			order:       &domain.Order{ID: 1, Status: domain.StatusPending, TableID: &tableID},
			target:      domain.StatusCancelled,
			wantRelease: true,
			wantNote:    "Status changed to CANCELLED",
		},
		{
			name:     "cancel without table releases nothing",
			order:    &domain.Order{ID: 1, Status: domain.StatusPending},
			target:   domain.StatusCancelled,
			wantNote: "Status changed to CANCELLED",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			plan, err := service.PlanTransition(testCase.order, testCase.target, staff, testCase.note, now)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.Nil(t, plan)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, testCase.order.Status, plan.From)
			assert.Equal(t, testCase.target, plan.To)
			assert.Equal(t, now, plan.At)
			assert.Equal(t, testCase.wantCascade, plan.Cascade)
			assert.Equal(t, testCase.wantRelease, plan.ReleaseTable)

			if testCase.wantKitchen {
				assert.Equal(t, &kitchenID, plan.AssignKitchen)
			} else {
				assert.Nil(t, plan.AssignKitchen)
			}
			if testCase.wantHall {
				assert.Equal(t, &hallID, plan.AssignHall)
			} else {
				assert.Nil(t, plan.AssignHall)
			}
			if testCase.wantDelivery {
				assert.Equal(t, &deliveryID, plan.AssignDelivery)
			} else {
				assert.Nil(t, plan.AssignDelivery)
			}

			assert.Equal(t, testCase.order.Status, plan.History.OldStatus)
			assert.Equal(t, testCase.target, plan.History.NewStatus)
			assert.Equal(t, testCase.wantNote, plan.History.Note)
			require.NotNil(t, plan.History.StaffID)
			assert.Equal(t, staff.ID, *plan.History.StaffID)
		})
	}
}

func TestPlanTransitionConflictListsAllowed(t *testing.T) {
	order := &domain.Order{ID: 1, Status: domain.StatusPending}
	_, err := service.PlanTransition(order, domain.StatusServed, domain.Staff{ID: 1}, "", time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIRMED")
	assert.Contains(t, err.Error(), "CANCELLED")

	_, err = service.PlanTransition(&domain.Order{ID: 1, Status: domain.StatusDelivered},
		domain.StatusServed, domain.Staff{ID: 1}, "", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none")
}
