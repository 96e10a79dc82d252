package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"solestore/internal/model"
	"solestore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	ledger    StockLedger
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	ledger StockLedger,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		ledger:    ledger,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Checkout materialises the user's cart into an order. Stock reservations,
// the order and item inserts, and the cart deletion all run on one
// transaction: either the whole order commits or nothing does.
func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, req *model.CheckoutRequest) (*model.OrderResponse, error) {
	if err := s.validateCheckoutRequest(req); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}
	if cart == nil {
		return nil, model.ErrCartEmpty
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	lines, err := s.cartRepo.LinesTx(ctx, tx, cart.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to load cart lines")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}
	if len(lines) == 0 {
		err = model.ErrCartEmpty
		return nil, err
	}

	// Reserve stock line by line, in cart insertion order. The first line
	// that cannot be satisfied aborts the whole checkout; the rollback
	// undoes every reservation made so far.
	for i := range lines {
		line := &lines[i]
		product := &model.Product{ID: line.ProductID, Name: line.ProductName}
		if err = s.ledger.Reserve(ctx, tx, product, line.Quantity); err != nil {
			var stockErr *model.InsufficientStockError
			if errors.As(err, &stockErr) {
				s.logger.Warn().
					Str("cart_id", cart.ID.String()).
					Str("product_id", line.ProductID.String()).
					Int("requested", stockErr.Requested).
					Int("available", stockErr.Available).
					Msg("checkout aborted: insufficient stock")
				return nil, err
			}
			s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to reserve stock")
			return nil, fmt.Errorf("failed to checkout: %w", err)
		}
	}

	// Total and unit prices are snapshotted now, before the cart goes away.
	view := model.CartView{Lines: lines}
	now := time.Now()
	order := &model.Order{
		ID:         uuid.New(),
		UserID:     userID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Status:     model.StatusPending,
		TotalCost:  view.TotalPrice(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	items := make([]model.OrderItem, len(lines))
	for i := range lines {
		items[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: lines[i].ProductID,
			Size:      lines[i].Size,
			Price:     lines[i].UnitPrice(),
			Quantity:  lines[i].Quantity,
		}
	}

	if err = s.orderRepo.CreateItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	if err = s.cartRepo.DeleteTx(ctx, tx, cart.ID); err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to delete cart")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Int("item_count", len(items)).
		Str("total_cost", order.TotalCost.String()).
		Msg("order created successfully")

	return &model.OrderResponse{Order: *order, Items: items}, nil
}

// Cancel transitions a pending or processing order to cancelled and returns
// each item's quantity to product stock. The row lock taken by GetForUpdate
// plus the single allowed entry into cancelled make the stock release
// exactly-once: a cancelled order can never be cancelled again.
func (s *orderService) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err := s.orderRepo.GetForUpdate(ctx, tx, userID, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to lock order")
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	if order == nil {
		err = model.ErrOrderNotFound
		return nil, err
	}

	if !order.Status.Cancellable() {
		err = &model.InvalidTransitionError{
			OrderID: order.ID,
			From:    order.Status,
			To:      model.StatusCancelled,
		}
		s.logger.Warn().
			Str("order_id", order.ID.String()).
			Str("status", string(order.Status)).
			Msg("order cannot be cancelled")
		return nil, err
	}

	if err = s.orderRepo.UpdateStatus(ctx, tx, order.ID, model.StatusCancelled); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	items, err := s.orderRepo.ItemsTx(ctx, tx, order.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to load order items")
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	for i := range items {
		if err = s.ledger.Release(ctx, tx, items[i].ProductID, items[i].Quantity); err != nil {
			s.logger.Error().
				Err(err).
				Str("order_id", order.ID.String()).
				Str("product_id", items[i].ProductID.String()).
				Msg("failed to release stock")
			return nil, fmt.Errorf("failed to cancel order: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	order.Status = model.StatusCancelled

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(items)).
		Msg("order cancelled, stock restored")

	return order, nil
}

// ListOrders retrieves the user's orders, newest first.
func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// GetOrder retrieves an order owned by the user with its items.
func (s *orderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, userID, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", orderID.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return &model.OrderResponse{Order: *order, Items: items}, nil
}

// validateCheckoutRequest validates the shipping details.
func (s *orderService) validateCheckoutRequest(req *model.CheckoutRequest) error {
	if req == nil {
		return fmt.Errorf("checkout request is nil")
	}
	if req.FirstName == "" {
		return fmt.Errorf("first name is required")
	}
	if req.LastName == "" {
		return fmt.Errorf("last name is required")
	}
	if req.Email == "" {
		return fmt.Errorf("email is required")
	}
	if req.Address == "" {
		return fmt.Errorf("address is required")
	}
	if req.City == "" {
		return fmt.Errorf("city is required")
	}
	if req.PostalCode == "" {
		return fmt.Errorf("postal code is required")
	}
	return nil
}
