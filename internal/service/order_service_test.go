package service

import (
	"context"
	"testing"

	"solestore/internal/inventory"
	"solestore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, []model.OrderItem, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Order), args.Get(1).([]model.OrderItem), args.Error(2)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, userID, orderID uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, tx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ItemsTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.OrderItem, error) {
	args := m.Called(ctx, tx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status model.OrderStatus) error {
	args := m.Called(ctx, tx, orderID, status)
	return args.Error(0)
}

// MockStockLedger is a mock implementation of StockLedger.
type MockStockLedger struct {
	mock.Mock
}

func (m *MockStockLedger) Reserve(ctx context.Context, q inventory.Querier, product *model.Product, quantity int) error {
	args := m.Called(ctx, q, product, quantity)
	return args.Error(0)
}

func (m *MockStockLedger) Release(ctx context.Context, q inventory.Querier, productID uuid.UUID, quantity int) error {
	args := m.Called(ctx, q, productID, quantity)
	return args.Error(0)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

func shippingFixture() *model.CheckoutRequest {
	return &model.CheckoutRequest{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@example.com",
		Address:    "12 Analytical Way",
		City:       "London",
		PostalCode: "EC1A 1BB",
	}
}

func TestOrderService_Checkout_Success(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	product1 := uuid.New()
	product2 := uuid.New()

	lines := []model.CartLine{
		{
			CartItem:    model.CartItem{CartID: cart.ID, ProductID: product1, Size: "9", Quantity: 2},
			ProductName: "Air Zoom 90",
			Price:       dec("100"),
		},
		{
			CartItem:      model.CartItem{CartID: cart.ID, ProductID: product2, Size: "10", Quantity: 3},
			ProductName:   "Court Classic",
			Price:         dec("100"),
			DiscountPrice: decPtr("80"),
		},
	}

	mockOrderRepo := new(MockOrderRepository)
	mockCartRepo := new(MockCartRepository)
	mockLedger := new(MockStockLedger)
	mockTx := new(MockTx)

	svc := NewOrderService(mockOrderRepo, mockCartRepo, mockLedger, logger)

	mockCartRepo.On("GetByUser", ctx, userID).Return(cart, nil)
	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockCartRepo.On("LinesTx", ctx, mockTx, cart.ID).Return(lines, nil)
	mockLedger.On("Reserve", ctx, mockTx, mock.MatchedBy(func(p *model.Product) bool {
		return p.ID == product1
	}), 2).Return(nil)
	mockLedger.On("Reserve", ctx, mockTx, mock.MatchedBy(func(p *model.Product) bool {
		return p.ID == product2
	}), 3).Return(nil)

	var createdOrder *model.Order
	mockOrderRepo.On("Create", ctx, mockTx, mock.AnythingOfType("*model.Order")).
		Run(func(args mock.Arguments) {
			createdOrder = args.Get(2).(*model.Order)
		}).Return(nil)

	var createdItems []model.OrderItem
	mockOrderRepo.On("CreateItems", ctx, mockTx, mock.AnythingOfType("[]model.OrderItem")).
		Run(func(args mock.Arguments) {
			createdItems = args.Get(2).([]model.OrderItem)
		}).Return(nil)

	mockCartRepo.On("DeleteTx", ctx, mockTx, cart.ID).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	resp, err := svc.Checkout(ctx, userID, shippingFixture())

	require.NoError(t, err)
	require.NotNil(t, resp)

	// Total is 2*100 + 3*80 = 440, priced with discounts applied.
	require.NotNil(t, createdOrder)
	assert.Equal(t, model.StatusPending, createdOrder.Status)
	assert.True(t, createdOrder.TotalCost.Equal(dec("440")),
		"expected total 440, got %s", createdOrder.TotalCost)
	assert.Equal(t, userID, createdOrder.UserID)

	// One item per cart line, unit prices snapshotted at checkout.
	require.Len(t, createdItems, 2)
	assert.True(t, createdItems[0].Price.Equal(dec("100")))
	assert.True(t, createdItems[1].Price.Equal(dec("80")))
	assert.Equal(t, 2, createdItems[0].Quantity)
	assert.Equal(t, 3, createdItems[1].Quantity)

	assert.True(t, mockTx.committed)
	assert.False(t, mockTx.rolledBack)

	mockOrderRepo.AssertExpectations(t)
	mockCartRepo.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
}

func TestOrderService_Checkout_NoCart(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	mockOrderRepo := new(MockOrderRepository)
	mockCartRepo := new(MockCartRepository)
	mockLedger := new(MockStockLedger)

	svc := NewOrderService(mockOrderRepo, mockCartRepo, mockLedger, logger)

	mockCartRepo.On("GetByUser", ctx, userID).Return(nil, nil)

	_, err := svc.Checkout(ctx, userID, shippingFixture())

	assert.ErrorIs(t, err, model.ErrCartEmpty)
	mockOrderRepo.AssertNotCalled(t, "BeginTx")
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}

	mockOrderRepo := new(MockOrderRepository)
	mockCartRepo := new(MockCartRepository)
	mockLedger := new(MockStockLedger)
	mockTx := new(MockTx)

	svc := NewOrderService(mockOrderRepo, mockCartRepo, mockLedger, logger)

	mockCartRepo.On("GetByUser", ctx, userID).Return(cart, nil)
	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockCartRepo.On("LinesTx", ctx, mockTx, cart.ID).Return([]model.CartLine{}, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	_, err := svc.Checkout(ctx, userID, shippingFixture())

	assert.ErrorIs(t, err, model.ErrCartEmpty)
	assert.True(t, mockTx.rolledBack)
	mockLedger.AssertNotCalled(t, "Reserve")
	mockOrderRepo.AssertNotCalled(t, "Create")
}

func TestOrderService_Checkout_InsufficientStockAbortsAll(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	product1 := uuid.New()
	product2 := uuid.New()

	// First line fits, second asks for 10 against stock of 3.
	lines := []model.CartLine{
		{CartItem: model.CartItem{ProductID: product1, Size: "9", Quantity: 1}, ProductName: "Air Zoom 90", Price: dec("100")},
		{CartItem: model.CartItem{ProductID: product2, Size: "10", Quantity: 10}, ProductName: "Court Classic", Price: dec("60")},
	}

	mockOrderRepo := new(MockOrderRepository)
	mockCartRepo := new(MockCartRepository)
	mockLedger := new(MockStockLedger)
	mockTx := new(MockTx)

	svc := NewOrderService(mockOrderRepo, mockCartRepo, mockLedger, logger)

	mockCartRepo.On("GetByUser", ctx, userID).Return(cart, nil)
	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockCartRepo.On("LinesTx", ctx, mockTx, cart.ID).Return(lines, nil)
	mockLedger.On("Reserve", ctx, mockTx, mock.MatchedBy(func(p *model.Product) bool {
		return p.ID == product1
	}), 1).Return(nil)
	mockLedger.On("Reserve", ctx, mockTx, mock.MatchedBy(func(p *model.Product) bool {
		return p.ID == product2
	}), 10).Return(&model.InsufficientStockError{
		ProductID:   product2,
		ProductName: "Court Classic",
		Requested:   10,
		Available:   3,
	})
	mockTx.On("Rollback", ctx).Return(nil)

	_, err := svc.Checkout(ctx, userID, shippingFixture())

	require.Error(t, err)
	var stockErr *model.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Court Classic", stockErr.ProductName)

	// The whole checkout rolls back: no order, no items, no cart deletion.
	assert.True(t, mockTx.rolledBack)
	assert.False(t, mockTx.committed)
	mockOrderRepo.AssertNotCalled(t, "Create")
	mockOrderRepo.AssertNotCalled(t, "CreateItems")
	mockCartRepo.AssertNotCalled(t, "DeleteTx")
}

func TestOrderService_Checkout_MissingShippingFields(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockOrderRepo := new(MockOrderRepository)
	mockCartRepo := new(MockCartRepository)
	mockLedger := new(MockStockLedger)

	svc := NewOrderService(mockOrderRepo, mockCartRepo, mockLedger, logger)

	req := shippingFixture()
	req.Email = ""

	_, err := svc.Checkout(ctx, uuid.New(), req)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "email is required")
	mockCartRepo.AssertNotCalled(t, "GetByUser")
}

func TestOrderService_Cancel_PendingOrderRestoresStock(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	orderID := uuid.New()
	product1 := uuid.New()
	product2 := uuid.New()

	order := &model.Order{ID: orderID, UserID: userID, Status: model.StatusPending}
	items := []model.OrderItem{
		{ID: uuid.New(), OrderID: orderID, ProductID: product1, Quantity: 2},
		{ID: uuid.New(), OrderID: orderID, ProductID: product2, Quantity: 5},
	}

	mockOrderRepo := new(MockOrderRepository)
	mockCartRepo := new(MockCartRepository)
	mockLedger := new(MockStockLedger)
	mockTx := new(MockTx)

	svc := NewOrderService(mockOrderRepo, mockCartRepo, mockLedger, logger)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("GetForUpdate", ctx, mockTx, userID, orderID).Return(order, nil)
	mockOrderRepo.On("UpdateStatus", ctx, mockTx, orderID, model.StatusCancelled).Return(nil)
	mockOrderRepo.On("ItemsTx", ctx, mockTx, orderID).Return(items, nil)
	mockLedger.On("Release", ctx, mockTx, product1, 2).Return(nil)
	mockLedger.On("Release", ctx, mockTx, product2, 5).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	cancelled, err := svc.Cancel(ctx, userID, orderID)

	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.True(t, mockTx.committed)

	// Each item released exactly once.
	mockLedger.AssertNumberOfCalls(t, "Release", 2)
	mockOrderRepo.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
}

func TestOrderService_Cancel_AlreadyCancelled(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	orderID := uuid.New()
	order := &model.Order{ID: orderID, UserID: userID, Status: model.StatusCancelled}

	mockOrderRepo := new(MockOrderRepository)
	mockCartRepo := new(MockCartRepository)
	mockLedger := new(MockStockLedger)
	mockTx := new(MockTx)

	svc := NewOrderService(mockOrderRepo, mockCartRepo, mockLedger, logger)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("GetForUpdate", ctx, mockTx, userID, orderID).Return(order, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	_, err := svc.Cancel(ctx, userID, orderID)

	require.Error(t, err)
	var transitionErr *model.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, model.StatusCancelled, transitionErr.From)

	// No second release ever happens for a cancelled order.
	mockLedger.AssertNotCalled(t, "Release")
	mockOrderRepo.AssertNotCalled(t, "UpdateStatus")
	assert.True(t, mockTx.rolledBack)
}

func TestOrderService_Cancel_ShippedOrderRejected(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	orderID := uuid.New()
	order := &model.Order{ID: orderID, UserID: userID, Status: model.StatusShipped}

	mockOrderRepo := new(MockOrderRepository)
	mockCartRepo := new(MockCartRepository)
	mockLedger := new(MockStockLedger)
	mockTx := new(MockTx)

	svc := NewOrderService(mockOrderRepo, mockCartRepo, mockLedger, logger)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("GetForUpdate", ctx, mockTx, userID, orderID).Return(order, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	_, err := svc.Cancel(ctx, userID, orderID)

	var transitionErr *model.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	mockLedger.AssertNotCalled(t, "Release")
}

func TestOrderService_Cancel_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	orderID := uuid.New()

	mockOrderRepo := new(MockOrderRepository)
	mockCartRepo := new(MockCartRepository)
	mockLedger := new(MockStockLedger)
	mockTx := new(MockTx)

	svc := NewOrderService(mockOrderRepo, mockCartRepo, mockLedger, logger)

	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("GetForUpdate", ctx, mockTx, userID, orderID).Return(nil, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	_, err := svc.Cancel(ctx, userID, orderID)

	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestOrderService_GetOrder_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	orderID := uuid.New()

	mockOrderRepo := new(MockOrderRepository)
	mockCartRepo := new(MockCartRepository)
	mockLedger := new(MockStockLedger)

	svc := NewOrderService(mockOrderRepo, mockCartRepo, mockLedger, logger)

	mockOrderRepo.On("GetByID", ctx, userID, orderID).Return(nil, nil, nil)

	_, err := svc.GetOrder(ctx, userID, orderID)

	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestOrderService_ListOrders(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	userID := uuid.New()
	orders := []model.Order{
		{ID: uuid.New(), UserID: userID, Status: model.StatusDelivered},
		{ID: uuid.New(), UserID: userID, Status: model.StatusPending},
	}

	mockOrderRepo := new(MockOrderRepository)
	mockCartRepo := new(MockCartRepository)
	mockLedger := new(MockStockLedger)

	svc := NewOrderService(mockOrderRepo, mockCartRepo, mockLedger, logger)

	mockOrderRepo.On("ListByUser", ctx, userID).Return(orders, nil)

	result, err := svc.ListOrders(ctx, userID)

	require.NoError(t, err)
	assert.Len(t, result, 2)
}
