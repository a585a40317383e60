package service

import (
	"context"

	"github.com/abhishek6717/navodaya-store/internal/domain"
	"github.com/abhishek6717/navodaya-store/internal/repository"
)

type OrderService struct {
	repo repository.OrderRepository
}

func NewOrderService(repo repository.OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

func (s *OrderService) ListForBuyer(ctx context.Context, buyerID string) ([]domain.Order, error) {
	return s.repo.FindByBuyer(ctx, buyerID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.repo.FindAll(ctx)
}

// UpdateStatus persists the given status verbatim; there is no transition
// table, any value may follow any other.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*domain.Order, error) {
	return s.repo.UpdateStatus(ctx, orderID, status)
}
