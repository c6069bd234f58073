package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/groceryai/backend/internal/domain"
)

// CartServiceConfig holds configuration for the cart service
type CartServiceConfig struct {
	SessionTTL time.Duration
}

// CartService manages one shopping cart per session
type CartService struct {
	repo       domain.CartRepository
	resolver   *HalalStatusResolver
	comparator *PriceComparator
	sessionTTL time.Duration
	now        func() time.Time

	// mu serializes read-modify-write cycles against the repository
	mu sync.Mutex
}

// NewCartService creates a new cart service with dependencies
func NewCartService(
	repo domain.CartRepository,
	resolver *HalalStatusResolver,
	comparator *PriceComparator,
	config CartServiceConfig,
) *CartService {
	ttl := config.SessionTTL
	if ttl == 0 {
		ttl = 24 * time.Hour // Default one day
	}

	return &CartService{
		repo:       repo,
		resolver:   resolver,
		comparator: comparator,
		sessionTTL: ttl,
		now:        time.Now,
	}
}

// Create starts a new session with an empty cart
func (s *CartService) Create(ctx context.Context) (*domain.Cart, error) {
	now := s.now()
	cart := &domain.Cart{
		ID:        uuid.New().String(),
		Items:     []domain.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Save(ctx, cart, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	log.Printf("[CART] Created session %s", cart.ID)
	return cart, nil
}

// Get returns the cart of a session
func (s *CartService) Get(ctx context.Context, id string) (*domain.Cart, error) {
	return s.repo.Get(ctx, id)
}

// Summary returns the totals of a session's cart
func (s *CartService) Summary(ctx context.Context, id string) (domain.CartSummary, error) {
	cart, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.CartSummary{}, err
	}
	return cart.Summary(), nil
}

// AddItem snapshots the product and price of barcode into the cart.
// Savings grow by market average minus store price, as shown on the scan screen.
func (s *CartService) AddItem(ctx context.Context, id, barcode string, expiry time.Time) (*domain.Cart, error) {
	if err := domain.ValidateBarcode(barcode); err != nil {
		return nil, err
	}

	product := s.resolver.Resolve(barcode)
	price := s.comparator.Compare(barcode)

	return s.mutate(ctx, id, func(cart *domain.Cart) error {
		cart.Items = append(cart.Items, domain.CartItem{
			Barcode:     barcode,
			Name:        product.Name,
			Halal:       product.Halal,
			Certificate: product.Certificate,
			Price:       price.StorePrice,
			ExpiryDate:  expiry.Format(domain.DateLayout),
		})
		cart.Savings += price.MarketAvg - price.StorePrice
		return nil
	})
}

// RemoveItem deletes the item at index, keeping the order of the rest
func (s *CartService) RemoveItem(ctx context.Context, id string, index int) (*domain.Cart, error) {
	return s.mutate(ctx, id, func(cart *domain.Cart) error {
		if index < 0 || index >= len(cart.Items) {
			return fmt.Errorf("%w: %d", domain.ErrItemIndexOutOfRange, index)
		}
		cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
		return nil
	})
}

// Clear empties the cart; accumulated savings are kept until checkout
func (s *CartService) Clear(ctx context.Context, id string) (*domain.Cart, error) {
	return s.mutate(ctx, id, func(cart *domain.Cart) error {
		cart.Items = []domain.CartItem{}
		return nil
	})
}

// Checkout returns the final summary and resets items and savings
func (s *CartService) Checkout(ctx context.Context, id string) (domain.CartSummary, error) {
	var summary domain.CartSummary
	_, err := s.mutate(ctx, id, func(cart *domain.Cart) error {
		summary = cart.Summary()
		cart.Items = []domain.CartItem{}
		cart.Savings = 0
		return nil
	})
	if err != nil {
		return domain.CartSummary{}, err
	}

	log.Printf("[CART] Checkout session %s: %d items, total %.2f", id, summary.TotalItems, summary.TotalPrice)
	return summary, nil
}

// Close ends a session and discards its cart
func (s *CartService) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	log.Printf("[CART] Closed session %s", id)
	return nil
}

// mutate loads a cart, applies fn and saves the result
func (s *CartService) mutate(ctx context.Context, id string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(cart); err != nil {
		return nil, err
	}
	cart.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, cart, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return cart, nil
}
