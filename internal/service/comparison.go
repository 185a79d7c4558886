package service

import (
	"context"

	"github.com/comparathor/backend/internal/db"
	"github.com/comparathor/backend/internal/model"
)

type ComparisonService struct {
	repo *db.Postgres
}

func NewComparisonService(repo *db.Postgres) *ComparisonService {
	return &ComparisonService{repo: repo}
}

func (s *ComparisonService) Create(ctx context.Context, userID int64, req model.ComparisonRequest) (*model.ComparisonResponse, error) {
	c, err := s.repo.CreateComparison(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, c)
}

// Get enforces ownership: only the owner or an admin can read a comparison.
func (s *ComparisonService) Get(ctx context.Context, caller *model.AuthUser, comparisonID int64) (*model.ComparisonResponse, error) {
	c, err := s.repo.GetComparison(ctx, comparisonID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if c.UserID != caller.ID && caller.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.respond(ctx, c)
}

func (s *ComparisonService) ListMine(ctx context.Context, userID int64) ([]*model.ComparisonResponse, error) {
	comparisons, err := s.repo.ListComparisonsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*model.ComparisonResponse, 0, len(comparisons))
	for _, c := range comparisons {
		resp, err := s.respond(ctx, c)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func (s *ComparisonService) Update(ctx context.Context, caller *model.AuthUser, comparisonID int64, req model.ComparisonUpdateRequest) (*model.ComparisonResponse, error) {
	c, err := s.repo.GetComparison(ctx, comparisonID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if c.UserID != caller.ID && caller.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}

	updated, err := s.repo.UpdateComparison(ctx, comparisonID, req.Name, req.Description)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.respond(ctx, updated)
}

func (s *ComparisonService) Delete(ctx context.Context, caller *model.AuthUser, comparisonID int64) error {
	c, err := s.repo.GetComparison(ctx, comparisonID)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	if c.UserID != caller.ID && caller.Role != model.RoleAdmin {
		return ErrForbidden
	}

	deleted, err := s.repo.DeleteComparison(ctx, comparisonID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *ComparisonService) AddProduct(ctx context.Context, caller *model.AuthUser, comparisonID, productID int64) (*model.ComparisonResponse, error) {
	c, err := s.repo.GetComparison(ctx, comparisonID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if c.UserID != caller.ID && caller.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}

	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.repo.AddComparisonProduct(ctx, comparisonID, productID); err != nil {
		return nil, err
	}
	return s.respond(ctx, c)
}

func (s *ComparisonService) RemoveProduct(ctx context.Context, caller *model.AuthUser, comparisonID, productID int64) (*model.ComparisonResponse, error) {
	c, err := s.repo.GetComparison(ctx, comparisonID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if c.UserID != caller.ID && caller.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}

	removed, err := s.repo.RemoveComparisonProduct(ctx, comparisonID, productID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrNotFound
	}
	return s.respond(ctx, c)
}

func (s *ComparisonService) respond(ctx context.Context, c *model.Comparison) (*model.ComparisonResponse, error) {
	products, err := s.repo.ListComparisonProducts(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	projections := make([]*model.ProductResponse, 0, len(products))
	for _, p := range products {
		avg, total, err := s.repo.RatingSummary(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		projections = append(projections, p.Response(avg, total))
	}

	return &model.ComparisonResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		Products:    projections,
	}, nil
}
