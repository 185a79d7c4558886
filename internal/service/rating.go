package service

import (
	"context"
	"log"

	"github.com/comparathor/backend/internal/db"
	"github.com/comparathor/backend/internal/model"
)

type RatingService struct {
	repo     *db.Postgres
	notifier Notifier
}

func NewRatingService(repo *db.Postgres, notifier Notifier) *RatingService {
	return &RatingService{repo: repo, notifier: notifier}
}

// Rate records the caller's score for a product. A second rating from the
// same user replaces the first.
func (s *RatingService) Rate(ctx context.Context, userID int64, req model.RatingRequest) (*model.RatingResponse, error) {
	if _, err := s.repo.GetProduct(ctx, req.ProductID); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	r, err := s.repo.UpsertRating(ctx, req.ProductID, userID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	log.Printf("[Rating] product=%d user=%d rating=%.1f", r.ProductID, r.UserID, r.Rating)
	if s.notifier != nil {
		s.notifier.Broadcast("rating_created", r.Response())
	}
	return r.Response(), nil
}

func (s *RatingService) ListByProduct(ctx context.Context, productID int64) ([]*model.RatingResponse, error) {
	ratings, err := s.repo.ListRatingsByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	responses := make([]*model.RatingResponse, 0, len(ratings))
	for _, r := range ratings {
		responses = append(responses, r.Response())
	}
	return responses, nil
}
