package service

import (
	"context"

	"sokoni/market/internal/model"
	"sokoni/market/internal/repository"
)

type CatalogService struct {
	repo *repository.CatalogRepository
}

func NewCatalogService(repo *repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) List(ctx context.Context) ([]model.Product, error) {
	return s.repo.List(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id string) (*model.Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, p *model.Product) error {
	return s.repo.Create(ctx, p)
}

func (s *CatalogService) Replace(ctx context.Context, p *model.Product) error {
	return s.repo.Replace(ctx, p)
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

var seedProducts = []model.Product{
	{Name: "Laptop", Description: "High-performance laptop", Price: 120000, Image: "https://via.placeholder.com/300x200?text=Laptop", Location: "Store A, 123 Main St", Quantity: 5},
	{Name: "Phone", Description: "Smartphone with camera", Price: 70000, Image: "https://via.placeholder.com/300x200?text=Phone", Location: "Store B, 456 Elm St", Quantity: 10},
	{Name: "Headphones", Description: "Noise-cancelling headphones", Price: 25000, Image: "https://via.placeholder.com/300x200?text=Headphones", Location: "Store A, 123 Main St", Quantity: 8},
}

// Seed inserts the sample products when the catalog is empty.
func (s *CatalogService) Seed(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for i := range seedProducts {
		p := seedProducts[i]
		if err := s.repo.Create(ctx, &p); err != nil {
			return err
		}
	}
	return nil
}
