package service

import (
	"context"
	"log"

	"github.com/comparathor/backend/internal/db"
	"github.com/comparathor/backend/internal/model"
)

// Notifier fans an event out to every connected websocket client. A nil
// notifier disables notifications.
type Notifier interface {
	Broadcast(event string, data any)
}

type ProductService struct {
	repo     *db.Postgres
	notifier Notifier
}

func NewProductService(repo *db.Postgres, notifier Notifier) *ProductService {
	return &ProductService{repo: repo, notifier: notifier}
}

func (s *ProductService) List(ctx context.Context, filter model.ProductFilter) ([]*model.ProductResponse, error) {
	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*model.ProductResponse, 0, len(products))
	for _, p := range products {
		avg, total, err := s.repo.RatingSummary(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, p.Response(avg, total))
	}
	return responses, nil
}

func (s *ProductService) Get(ctx context.Context, productID int64) (*model.ProductResponse, error) {
	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	avg, total, err := s.repo.RatingSummary(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p.Response(avg, total), nil
}

func (s *ProductService) Create(ctx context.Context, req model.ProductRequest) (*model.ProductResponse, error) {
	p, err := s.repo.CreateProduct(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Printf("[Product] Created id=%d name=%q", p.ID, p.Name)
	s.notify("product_created", p.Response(0, 0))
	return p.Response(0, 0), nil
}

func (s *ProductService) Update(ctx context.Context, productID int64, req model.ProductRequest) (*model.ProductResponse, error) {
	p, err := s.repo.UpdateProduct(ctx, productID, req)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	avg, total, err := s.repo.RatingSummary(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("[Product] Updated id=%d", p.ID)
	s.notify("product_updated", p.Response(avg, total))
	return p.Response(avg, total), nil
}

func (s *ProductService) Delete(ctx context.Context, productID int64) error {
	deleted, err := s.repo.DeleteProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	log.Printf("[Product] Deleted id=%d", productID)
	s.notify("product_deleted", map[string]int64{"id": productID})
	return nil
}

func (s *ProductService) notify(event string, data any) {
	if s.notifier != nil {
		s.notifier.Broadcast(event, data)
	}
}
