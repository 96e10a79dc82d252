package service

import (
	"context"
	"fmt"

	"solestore/internal/model"
	"solestore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// AddItem adds a product+size line to the user's cart, creating the cart on
// first use. Quantity is validated but stock is not; reservations happen at
// checkout only.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *model.AddItemRequest) (*model.CartView, error) {
	if req == nil {
		return nil, fmt.Errorf("add item request is nil")
	}
	if req.Quantity <= 0 {
		s.logger.Warn().
			Str("product_id", req.ProductID.String()).
			Int("quantity", req.Quantity).
			Msg("invalid quantity")
		return nil, model.ErrInvalidQuantity
	}
	if req.Size == "" {
		return nil, fmt.Errorf("size is required")
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", req.ProductID.String()).Msg("failed to fetch product")
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get or create cart")
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	item := model.CartItem{
		ProductID: req.ProductID,
		Size:      req.Size,
		Quantity:  req.Quantity,
	}
	if err := s.cartRepo.UpsertItem(ctx, cart.ID, item, req.Override); err != nil {
		s.logger.Error().
			Err(err).
			Str("cart_id", cart.ID.String()).
			Str("product_id", req.ProductID.String()).
			Msg("failed to upsert cart item")
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	s.logger.Info().
		Str("cart_id", cart.ID.String()).
		Str("product_id", req.ProductID.String()).
		Str("size", req.Size).
		Int("quantity", req.Quantity).
		Bool("override", req.Override).
		Msg("item added to cart")

	return s.view(ctx, cart)
}

// RemoveItem deletes the matching line. An absent cart or line is a no-op.
func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, req *model.RemoveItemRequest) error {
	if req == nil {
		return fmt.Errorf("remove item request is nil")
	}

	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get cart")
		return fmt.Errorf("failed to remove item: %w", err)
	}
	if cart == nil {
		return nil
	}

	removed, err := s.cartRepo.DeleteItem(ctx, cart.ID, req.ProductID, req.Size)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("cart_id", cart.ID.String()).
			Str("product_id", req.ProductID.String()).
			Msg("failed to delete cart item")
		return fmt.Errorf("failed to remove item: %w", err)
	}

	if removed {
		s.logger.Info().
			Str("cart_id", cart.ID.String()).
			Str("product_id", req.ProductID.String()).
			Str("size", req.Size).
			Msg("item removed from cart")
	}

	return nil
}

// GetCart retrieves the user's cart with its lines and totals.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.CartView, error) {
	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		return &model.CartView{Lines: []model.CartLine{}}, nil
	}

	return s.view(ctx, cart)
}

func (s *cartService) view(ctx context.Context, cart *model.Cart) (*model.CartView, error) {
	lines, err := s.cartRepo.Lines(ctx, cart.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to load cart lines")
		return nil, fmt.Errorf("failed to load cart lines: %w", err)
	}
	if lines == nil {
		lines = []model.CartLine{}
	}

	return &model.CartView{Cart: cart, Lines: lines}, nil
}
