package db

import (
	"context"

	"github.com/comparathor/backend/internal/model"
)

// UpsertRating creates or replaces the caller's rating for a product.
// One rating per (product, user) is enforced by the table's UNIQUE constraint.
func (db *Postgres) UpsertRating(ctx context.Context, productID, userID int64, rating float64, comment string) (*model.Rating, error) {
	query := `
		INSERT INTO ratings (product_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (product_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment
		RETURNING id, product_id, user_id, rating, comment, created_at
	`
	var r model.Rating
	err := db.Pool.QueryRow(ctx, query, productID, userID, rating, comment).Scan(
		&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Comment, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (db *Postgres) ListRatingsByProduct(ctx context.Context, productID int64) ([]*model.Rating, error) {
	query := `
		SELECT id, product_id, user_id, rating, comment, created_at
		FROM ratings
		WHERE product_id = $1
		ORDER BY created_at DESC
	`
	rows, err := db.Pool.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []*model.Rating
	for rows.Next() {
		var r model.Rating
		if err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, &r)
	}
	return ratings, rows.Err()
}

// RatingSummary returns the average and count for a product, zero values when
// the product has no ratings yet.
func (db *Postgres) RatingSummary(ctx context.Context, productID int64) (float64, int, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM ratings
		WHERE product_id = $1
	`
	var avg float64
	var total int
	if err := db.Pool.QueryRow(ctx, query, productID).Scan(&avg, &total); err != nil {
		return 0, 0, err
	}
	return avg, total, nil
}
