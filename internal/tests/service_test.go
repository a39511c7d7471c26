package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"sufra-pos/internal/domain"
	"sufra-pos/internal/mocks"
	"sufra-pos/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderServiceMocks struct {
	repo      *mocks.OrderRepository
	directory *mocks.DirectoryRepository
	catalog   *mocks.CatalogRepository
	counter   *mocks.DailyCounter
	cache     *mocks.OrderCache
	publisher *mocks.EventPublisher
}

func newOrderService(t *testing.T) (*service.OrderService, orderServiceMocks) {
	m := orderServiceMocks{
		repo:      mocks.NewOrderRepository(t),
		directory: mocks.NewDirectoryRepository(t),
		catalog:   mocks.NewCatalogRepository(t),
		counter:   mocks.NewDailyCounter(t),
		cache:     mocks.NewOrderCache(t),
		publisher: mocks.NewEventPublisher(t),
	}
	validator := service.NewItemValidator(service.NewCatalogLookup(m.catalog))
	numbers := service.NewOrderNumberGenerator(m.counter)
	svc := service.NewOrderService(m.repo, m.directory, validator, numbers, m.cache, m.publisher, nil)
	return svc, m
}

func TestOrderService_CreateDineIn(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(t)

	tableID := 5
	req := &service.CreateOrderRequest{
		OrderType:    domain.OrderTypeDineIn,
		CustomerType: domain.CustomerTypeIndividual,
		TableID:      &tableID,
		Lines: []service.OrderLineRequest{
			{ItemType: domain.LineTypeItem, RefID: 1, Quantity: 2},
		},
	}

	m.cache.On("GetIdempotent", ctx, "key-1").Return(nil, nil).Once()
	m.directory.On("GetTable", ctx, 5).
		Return(&domain.Table{ID: 5, Number: "T5", Status: domain.TableAvailable}, nil).Once()
	m.catalog.On("GetCatalogEntry", ctx, domain.LineTypeItem, 1).
		Return(&domain.CatalogEntry{Name: "Cola", BasePrice: 20, IsAvailable: true}, nil).Once()
	m.counter.On("Incr", ctx, mock.Anything).Return(int64(7), nil).Once()
	m.repo.On("CreateOrder", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			order := args.Get(1).(*domain.Order)
			order.ID = 101
			occupied := args.Get(2).(*int)
			require.NotNil(t, occupied)
			assert.Equal(t, 5, *occupied)
		}).Return(nil).Once()
	m.cache.On("SetOrder", mock.Anything, mock.Anything).Return(nil).Once()
	m.cache.On("SetIdempotent", mock.Anything, "key-1", mock.Anything).Return(nil).Once()
	m.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
		return e.Type == domain.EventOrderCreated && e.OrderID == 101
	})).Return(nil).Once()

	order, err := svc.Create(ctx, req, domain.Staff{ID: 3}, "key-1")

	require.NoError(t, err)
	assert.Equal(t, 101, order.ID)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, 40.0, order.Subtotal)
	assert.Equal(t, 6.0, order.TaxAmount)
	assert.Equal(t, 0.0, order.DeliveryFee)
	assert.Equal(t, 46.0, order.TotalAmount)
	assert.False(t, order.IsPaid)
	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, domain.ItemPending, item.Status)
	assert.Equal(t, 20.0, item.UnitPrice)
	assert.Equal(t, 40.0, item.TotalPrice)
	require.NotNil(t, item.ItemID)
	assert.Equal(t, 1, *item.ItemID)
	assert.Nil(t, item.RecipeID)
	assert.Nil(t, item.MealID)
	require.NotNil(t, order.EstimatedReadyTime)
	// 10 minutes of prep rounds up to the 15-minute floor.
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *order.EstimatedReadyTime, time.Minute)
}

func TestOrderService_CreateIdempotentReplay(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(t)

	existing := &domain.Order{ID: 55, OrderNumber: "ORD-20250310-123456-001", Status: domain.StatusPending}
	m.cache.On("GetIdempotent", ctx, "replay").Return(existing, nil).Once()

	order, err := svc.Create(ctx, &service.CreateOrderRequest{}, domain.Staff{ID: 1}, "replay")

	require.NoError(t, err)
	assert.Equal(t, existing, order)
	m.repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_CreateValidationFailures(t *testing.T) {
	ctx := context.Background()
	companyID := 9
	customerID := 41
	tableID := 5
	areaID := 2
	line := []service.OrderLineRequest{{ItemType: domain.LineTypeItem, RefID: 1, Quantity: 1}}

	tests := []struct {
		name         string
		req          *service.CreateOrderRequest
		prepareMocks func(m orderServiceMocks)
		wantErr      error
	}{
		{
			name: "empty item list",
			req: &service.CreateOrderRequest{
				OrderType:    domain.OrderTypeTakeaway,
				CustomerType: domain.CustomerTypeIndividual,
			},
			wantErr: service.ErrInvalidInput,
		},
		{
			name: "unknown order type",
			req: &service.CreateOrderRequest{
				OrderType:    "DRIVE_THRU",
				CustomerType: domain.CustomerTypeIndividual,
				Lines:        line,
			},
			wantErr: service.ErrInvalidInput,
		},
		{
			name: "company order without company id",
			req: &service.CreateOrderRequest{
				OrderType:    domain.OrderTypeTakeaway,
				CustomerType: domain.CustomerTypeCompany,
				Lines:        line,
			},
			wantErr: service.ErrInvalidInput,
		},
		{
			name: "individual order with company id",
			req: &service.CreateOrderRequest{
				OrderType:    domain.OrderTypeTakeaway,
				CustomerType: domain.CustomerTypeIndividual,
				CompanyID:    &companyID,
				Lines:        line,
			},
			wantErr: service.ErrInvalidInput,
		},
		{
			name: "company order with customer id",
			req: &service.CreateOrderRequest{
				OrderType:    domain.OrderTypeTakeaway,
				CustomerType: domain.CustomerTypeCompany,
				CompanyID:    &companyID,
				CustomerID:   &customerID,
				Lines:        line,
			},
			wantErr: service.ErrInvalidInput,
		},
		{
			name: "inactive company",
			req: &service.CreateOrderRequest{
				OrderType:    domain.OrderTypeTakeaway,
				CustomerType: domain.CustomerTypeCompany,
				CompanyID:    &companyID,
				Lines:        line,
			},
			prepareMocks: func(m orderServiceMocks) {
				m.directory.On("GetCompany", ctx, 9).
					Return(&domain.Company{ID: 9, Name: "Acme", IsActive: false}, nil).Once()
			},
			wantErr: service.ErrConflict,
		},
		{
			name: "dine-in without table",
			req: &service.CreateOrderRequest{
				OrderType:    domain.OrderTypeDineIn,
				CustomerType: domain.CustomerTypeIndividual,
				Lines:        line,
			},
			wantErr: service.ErrInvalidInput,
		},
		{
			name: "dine-in table missing",
			req: &service.CreateOrderRequest{
				OrderType:    domain.OrderTypeDineIn,
				CustomerType: domain.CustomerTypeIndividual,
				TableID:      &tableID,
				Lines:        line,
			},
			prepareMocks: func(m orderServiceMocks) {
				m.directory.On("GetTable", ctx, 5).Return(nil, nil).Once()
			},
			wantErr: service.ErrNotFound,
		},
		{
			name: "dine-in table occupied",
			req: &service.CreateOrderRequest{
				OrderType:    domain.OrderTypeDineIn,
				CustomerType: domain.CustomerTypeIndividual,
				TableID:      &tableID,
				Lines:        line,
			},
			prepareMocks: func(m orderServiceMocks) {
				m.directory.On("GetTable", ctx, 5).
					Return(&domain.Table{ID: 5, Number: "T5", Status: domain.TableOccupied}, nil).Once()
			},
			wantErr: service.ErrConflict,
		},
		{
			name: "delivery without area",
			req: &service.CreateOrderRequest{
				OrderType:    domain.OrderTypeDelivery,
				CustomerType: domain.CustomerTypeIndividual,
				Lines:        line,
			},
			wantErr: service.ErrInvalidInput,
		},
		{
			name: "delivery area inactive",
			req: &service.CreateOrderRequest{
				OrderType:      domain.OrderTypeDelivery,
				CustomerType:   domain.CustomerTypeIndividual,
				DeliveryAreaID: &areaID,
				Lines:          line,
			},
			prepareMocks: func(m orderServiceMocks) {
				m.directory.On("GetDeliveryArea", ctx, 2).
					Return(&domain.DeliveryArea{ID: 2, Name: "North", IsActive: false}, nil).Once()
			},
			wantErr: service.ErrConflict,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, m := newOrderService(t)
			if testCase.prepareMocks != nil {
				testCase.prepareMocks(m)
			}

			order, err := svc.Create(ctx, testCase.req, domain.Staff{ID: 1}, "")

			assert.ErrorIs(t, err, testCase.wantErr)
			assert.Nil(t, order)
			m.repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_CreateInsufficientStockLeavesNoWrites(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(t)

	stock := 1
	m.catalog.On("GetCatalogEntry", ctx, domain.LineTypeItem, 1).
		Return(&domain.CatalogEntry{Name: "Juice", BasePrice: 8, IsAvailable: true, CurrentStock: &stock}, nil).Once()

	order, err := svc.Create(ctx, &service.CreateOrderRequest{
		OrderType:    domain.OrderTypeTakeaway,
		CustomerType: domain.CustomerTypeIndividual,
		Lines: []service.OrderLineRequest{
			{ItemType: domain.LineTypeItem, RefID: 1, Quantity: 2},
		},
	}, domain.Staff{ID: 1}, "")

	var stockErr *service.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Nil(t, order)
	m.repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestOrderService_CreateDeliveryTotals(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(t)

	areaID := 2
	m.directory.On("GetDeliveryArea", ctx, 2).
		Return(&domain.DeliveryArea{ID: 2, Name: "North", Fee: 15, EstimatedDeliveryTime: 30, IsActive: true}, nil).Once()
	m.catalog.On("GetCatalogEntry", ctx, domain.LineTypeRecipe, 3).
		Return(&domain.CatalogEntry{Name: "Mandi", BasePrice: 100, IsAvailable: true}, nil).Once()
	m.counter.On("Incr", ctx, mock.Anything).Return(int64(8), nil).Once()
	m.repo.On("CreateOrder", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			order := args.Get(1).(*domain.Order)
			order.ID = 102
			// Not a dine-in order, so no table is occupied.
			assert.Nil(t, args.Get(2))
		}).Return(nil).Once()
	m.cache.On("SetOrder", mock.Anything, mock.Anything).Return(nil).Once()
	m.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	order, err := svc.Create(ctx, &service.CreateOrderRequest{
		OrderType:      domain.OrderTypeDelivery,
		CustomerType:   domain.CustomerTypeIndividual,
		DeliveryAreaID: &areaID,
		Lines: []service.OrderLineRequest{
			{ItemType: domain.LineTypeRecipe, RefID: 3, Quantity: 1},
		},
	}, domain.Staff{ID: 1}, "")

	require.NoError(t, err)
	assert.Equal(t, 100.0, order.Subtotal)
	assert.Equal(t, 15.0, order.TaxAmount)
	assert.Equal(t, 15.0, order.DeliveryFee)
	assert.Equal(t, 130.0, order.TotalAmount)
	// 15 min prep + 30 min travel.
	assert.WithinDuration(t, time.Now().Add(45*time.Minute), *order.EstimatedReadyTime, time.Minute)
}

func TestOrderService_CreatePublishFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(t)

	m.catalog.On("GetCatalogEntry", ctx, domain.LineTypeItem, 1).
		Return(&domain.CatalogEntry{Name: "Cola", BasePrice: 5, IsAvailable: true}, nil).Once()
	m.counter.On("Incr", ctx, mock.Anything).Return(int64(9), nil).Once()
	m.repo.On("CreateOrder", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	m.cache.On("SetOrder", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()
	published := make(chan struct{}, 3)
	m.publisher.On("Publish", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { published <- struct{}{} }).
		Return(errors.New("broker down")).Times(3)

	start := time.Now()
	order, err := svc.Create(ctx, &service.CreateOrderRequest{
		OrderType:    domain.OrderTypeTakeaway,
		CustomerType: domain.CustomerTypeIndividual,
		Lines: []service.OrderLineRequest{
			{ItemType: domain.LineTypeItem, RefID: 1, Quantity: 1},
		},
	}, domain.Staff{ID: 1}, "")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.NotNil(t, order)
	// Only the first publish attempt runs on the request path; the backoff
	// between retries must not delay the caller.
	assert.Less(t, elapsed, 200*time.Millisecond)
	for i := 0; i < 3; i++ {
		select {
		case <-published:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for publish retries")
		}
	}
}

func TestOrderService_CreatePersistenceFailure(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(t)

	m.catalog.On("GetCatalogEntry", ctx, domain.LineTypeItem, 1).
		Return(&domain.CatalogEntry{Name: "Cola", BasePrice: 5, IsAvailable: true}, nil).Once()
	m.counter.On("Incr", ctx, mock.Anything).Return(int64(10), nil).Once()
	m.repo.On("CreateOrder", ctx, mock.Anything, mock.Anything).Return(errors.New("lock timeout")).Once()

	order, err := svc.Create(ctx, &service.CreateOrderRequest{
		OrderType:    domain.OrderTypeTakeaway,
		CustomerType: domain.CustomerTypeIndividual,
		Lines: []service.OrderLineRequest{
			{ItemType: domain.LineTypeItem, RefID: 1, Quantity: 1},
		},
	}, domain.Staff{ID: 1}, "")

	assert.ErrorIs(t, err, service.ErrUnavailable)
	assert.Nil(t, order)
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func transitionAgainst(fixture *domain.Order) func(context.Context, int, func(*domain.Order) (*domain.TransitionPlan, error)) (*domain.Order, error) {
	return func(ctx context.Context, orderID int, decide func(*domain.Order) (*domain.TransitionPlan, error)) (*domain.Order, error) {
		plan, err := decide(fixture)
		if err != nil {
			return nil, err
		}
		updated := *fixture
		updated.Status = plan.To
		if plan.Cascade != nil {
			updated.Items = append([]domain.OrderItem(nil), fixture.Items...)
			for i := range updated.Items {
				if updated.Items[i].Status == plan.Cascade.From {
					updated.Items[i].Status = plan.Cascade.To
				}
			}
		}
		return &updated, nil
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(t)

	fixture := &domain.Order{
		ID:          101,
		OrderNumber: "ORD-20250310-123456-001",
		Status:      domain.StatusConfirmed,
		Items: []domain.OrderItem{
			{ID: 1, Status: domain.ItemPending},
			{ID: 2, Status: domain.ItemPending},
		},
	}

	m.repo.On("TransitionOrder", ctx, 101, mock.Anything).
		Return(transitionAgainst(fixture)).Once()
	m.cache.On("DeleteOrder", mock.Anything, 101).Return(nil).Once()
	m.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
		return e.Type == domain.EventStatusUpdated && e.Status == domain.StatusPreparing
	})).Return(nil).Once()

	updated, err := svc.UpdateStatus(ctx, 101, domain.StatusPreparing, domain.Staff{ID: 4}, "")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPreparing, updated.Status)
	for _, item := range updated.Items {
		assert.Equal(t, domain.ItemPreparing, item.Status)
	}
}

func TestOrderService_UpdateStatusServedKeepsItemStatuses(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(t)

	tableID := 5
	fixture := &domain.Order{
		ID:      101,
		Status:  domain.StatusReady,
		TableID: &tableID,
		Items: []domain.OrderItem{
			{ID: 1, Status: domain.ItemReady},
			{ID: 2, Status: domain.ItemReady},
			{ID: 3, Status: domain.ItemReady},
		},
	}

	m.repo.On("TransitionOrder", ctx, 101, mock.Anything).
		Return(transitionAgainst(fixture)).Once()
	m.cache.On("DeleteOrder", mock.Anything, 101).Return(nil).Once()
	m.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := svc.UpdateStatus(ctx, 101, domain.StatusServed, domain.Staff{ID: 4}, "")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusServed, updated.Status)
	for _, item := range updated.Items {
		assert.Equal(t, domain.ItemReady, item.Status)
	}
}

func TestOrderService_UpdateStatusConflict(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(t)

	fixture := &domain.Order{ID: 101, Status: domain.StatusPending}
	m.repo.On("TransitionOrder", ctx, 101, mock.Anything).
		Return(transitionAgainst(fixture)).Once()

	updated, err := svc.UpdateStatus(ctx, 101, domain.StatusReady, domain.Staff{ID: 4}, "")

	assert.ErrorIs(t, err, service.ErrConflict)
	assert.Nil(t, updated)
	m.cache.AssertNotCalled(t, "DeleteOrder", mock.Anything, mock.Anything)
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestOrderService_UpdateStatusNotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(t)

	m.repo.On("TransitionOrder", ctx, 404, mock.Anything).
		Return(func(ctx context.Context, orderID int, decide func(*domain.Order) (*domain.TransitionPlan, error)) (*domain.Order, error) {
			return nil, func() error { _, err := decide(nil); return err }()
		}).Once()

	updated, err := svc.UpdateStatus(ctx, 404, domain.StatusConfirmed, domain.Staff{ID: 4}, "")

	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Nil(t, updated)
}

func TestOrderService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit with progress fields", func(t *testing.T) {
		svc, m := newOrderService(t)

		readyAt := time.Now().Add(20 * time.Minute)
		m.cache.On("GetOrder", ctx, 101).Return(&domain.Order{
			ID:                 101,
			Status:             domain.StatusPreparing,
			EstimatedReadyTime: &readyAt,
			Items: []domain.OrderItem{
				{ID: 1, Status: domain.ItemReady},
				{ID: 2, Status: domain.ItemReady},
				{ID: 3, Status: domain.ItemPreparing},
			},
		}, nil).Once()

		details, err := svc.Get(ctx, 101)

		require.NoError(t, err)
		assert.Equal(t, 2, details.ItemsReady)
		assert.Equal(t, 3, details.TotalItems)
		assert.False(t, details.FullyReady)
		require.NotNil(t, details.RemainingMinutes)
		assert.InDelta(t, 19, *details.RemainingMinutes, 1)
		m.repo.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
	})

	t.Run("cache miss falls back to repository", func(t *testing.T) {
		svc, m := newOrderService(t)

		m.cache.On("GetOrder", ctx, 101).Return(nil, nil).Once()
		m.repo.On("GetOrder", ctx, 101).Return(&domain.Order{
			ID:     101,
			Status: domain.StatusReady,
			Items: []domain.OrderItem{
				{ID: 1, Status: domain.ItemReady},
			},
		}, nil).Once()

		details, err := svc.Get(ctx, 101)

		require.NoError(t, err)
		assert.True(t, details.FullyReady)
		// No remaining time once the kitchen is done.
		assert.Nil(t, details.RemainingMinutes)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newOrderService(t)

		m.cache.On("GetOrder", ctx, 404).Return(nil, nil).Once()
		m.repo.On("GetOrder", ctx, 404).Return(nil, nil).Once()

		details, err := svc.Get(ctx, 404)

		assert.ErrorIs(t, err, service.ErrNotFound)
		assert.Nil(t, details)
	})
}
