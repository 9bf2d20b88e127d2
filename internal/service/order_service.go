package service

import (
	"context"

	"sokoni/market/internal/model"
	"sokoni/market/internal/repository"
)

type OrderService struct {
	orders  *repository.OrderRepository
	catalog *repository.CatalogRepository
}

func NewOrderService(orders *repository.OrderRepository, catalog *repository.CatalogRepository) *OrderService {
	return &OrderService{orders: orders, catalog: catalog}
}

// PlaceOrder creates a pending order and decrements the product's stock
// in one transaction. The product row stays locked until commit, so
// concurrent orders cannot oversell.
func (s *OrderService) PlaceOrder(ctx context.Context, productID string, quantity int) (*model.Order, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	var order *model.Order
	err := s.orders.RunAtomic(ctx, func(ctx context.Context) error {
		product, err := s.catalog.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		if product.Quantity < quantity {
			return model.ErrInsufficientStock
		}

		order = &model.Order{
			ProductID: product.ID,
			Quantity:  quantity,
			Total:     product.Price * int64(quantity),
			Status:    model.OrderStatusPending,
		}
		if err := s.orders.Create(ctx, order); err != nil {
			return err
		}

		return s.catalog.DecrementStock(ctx, product.ID, quantity)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*model.Order, error) {
	return s.orders.Get(ctx, id)
}
