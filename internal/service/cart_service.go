package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/abhishek6717/navodaya-store/internal/cache"
	"github.com/abhishek6717/navodaya-store/internal/domain"
	"github.com/abhishek6717/navodaya-store/internal/repository"
	"golang.org/x/sync/singleflight"
)

type CartService struct {
	repo    repository.CartRepository
	users   repository.UserRepository
	catalog repository.CatalogRepository
	cache   cache.CartCache
	sfg     singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartRepository, users repository.UserRepository, catalog repository.CatalogRepository, cartCache cache.CartCache) *CartService {
	return &CartService{
		repo:    repo,
		users:   users,
		catalog: catalog,
		cache:   cartCache,
	}
}

// GetCart returns the cart resolved against the current catalog state.
// A user with no cart gets an empty cart shape, never an error.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.ResolvedCart, error) {
	cart, err := s.rawCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, cart)
}

func (s *CartService) rawCart(ctx context.Context, userID string) (*domain.Cart, error) {
	// Use singleflight to collapse concurrent cache misses for the same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, userID)
		if errGet != nil && errors.Is(errGet, repository.ErrCartNotFound) {
			return &domain.Cart{
				UserID:    userID,
				Items:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			errSet := s.cache.Set(context.Background(), userID, cart)
			if errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

func (s *CartService) resolve(ctx context.Context, cart *domain.Cart) (*domain.ResolvedCart, error) {
	resolved := &domain.ResolvedCart{
		UserID:    cart.UserID,
		Items:     make([]domain.ResolvedCartItem, 0, len(cart.Items)),
		Version:   cart.Version,
		UpdatedAt: cart.UpdatedAt,
	}

	var total float64
	for _, item := range cart.Items {
		line := domain.ResolvedCartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}

		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil && !errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		// A product deleted from the catalog stays in the cart with zero
		// values rather than hiding the line.
		if err == nil {
			line.Name = product.Name
			line.Price = product.Price
			line.PhotoURL = product.PhotoURL
			line.Subtotal = product.Price * float64(item.Quantity)
		}

		total += line.Subtotal
		resolved.Items = append(resolved.Items, line)
	}

	resolved.Total = total
	return resolved, nil
}

// AddItem increments the line for productID by quantity, creating the cart
// on first add. Fails with ErrUserNotFound for an unknown user. Stock is
// not checked here.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, repository.ErrUserNotFound
	}

	cart, err := s.repo.AddItem(ctx, userID, productID, quantity)
	if err != nil {
		log.Printf("repo add item error: %v", err)
		return nil, err
	}

	s.invalidateCache(userID)
	return cart, nil
}

// SetQuantity writes the value verbatim; the caller is responsible for
// positive values.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	cart, err := s.repo.SetItemQuantity(ctx, userID, productID, quantity)
	if err != nil {
		log.Printf("repo update item quantity error: %v", err)
		return nil, err
	}

	s.invalidateCache(userID)
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	cart, err := s.repo.RemoveItem(ctx, userID, productID)
	if err != nil {
		log.Printf("repo remove item error: %v", err)
		return nil, err
	}

	s.invalidateCache(userID)
	return cart, nil
}

func (s *CartService) ClearCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.ClearCart(ctx, userID)
	if err != nil {
		log.Printf("repo clear cart error: %v", err)
		return nil, err
	}

	s.invalidateCache(userID)
	return cart, nil
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
