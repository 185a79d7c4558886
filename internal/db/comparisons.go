package db

import (
	"context"

	"github.com/comparathor/backend/internal/model"
)

// CreateComparison inserts the comparison and its product set in one
// transaction so a failed product insert never leaves a half-built comparison.
func (db *Postgres) CreateComparison(ctx context.Context, userID int64, req model.ComparisonRequest) (*model.Comparison, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var c model.Comparison
	err = tx.QueryRow(ctx, `
		INSERT INTO comparisons (user_id, name, description, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, user_id, name, description, created_at
	`, userID, req.Name, req.Description).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Description, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, productID := range req.ProductIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO comparison_products (comparison_id, product_id)
			VALUES ($1, $2) ON CONFLICT DO NOTHING
		`, c.ID, productID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &c, nil
}

func (db *Postgres) GetComparison(ctx context.Context, comparisonID int64) (*model.Comparison, error) {
	var c model.Comparison
	err := db.Pool.QueryRow(ctx, `
		SELECT id, user_id, name, description, created_at
		FROM comparisons
		WHERE id = $1
	`, comparisonID).Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (db *Postgres) ListComparisonsByUser(ctx context.Context, userID int64) ([]*model.Comparison, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, name, description, created_at
		FROM comparisons
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comparisons []*model.Comparison
	for rows.Next() {
		var c model.Comparison
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		comparisons = append(comparisons, &c)
	}
	return comparisons, rows.Err()
}

// UpdateComparison overwrites name/description. Empty fields keep the
// stored value.
func (db *Postgres) UpdateComparison(ctx context.Context, comparisonID int64, name, description string) (*model.Comparison, error) {
	var c model.Comparison
	err := db.Pool.QueryRow(ctx, `
		UPDATE comparisons SET
			name = COALESCE(NULLIF($2, ''), name),
			description = COALESCE(NULLIF($3, ''), description)
		WHERE id = $1
		RETURNING id, user_id, name, description, created_at
	`, comparisonID, name, description).Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (db *Postgres) DeleteComparison(ctx context.Context, comparisonID int64) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM comparisons WHERE id = $1`, comparisonID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (db *Postgres) AddComparisonProduct(ctx context.Context, comparisonID, productID int64) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO comparison_products (comparison_id, product_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING
	`, comparisonID, productID)
	return err
}

func (db *Postgres) RemoveComparisonProduct(ctx context.Context, comparisonID, productID int64) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM comparison_products
		WHERE comparison_id = $1 AND product_id = $2
	`, comparisonID, productID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (db *Postgres) ListComparisonProducts(ctx context.Context, comparisonID int64) ([]*model.Product, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT p.id, p.name, p.category, p.price, p.stock, p.description,
			p.brand, p.model, p.image_url, p.created_at, p.updated_at
		FROM comparison_products cp
		JOIN products p ON p.id = cp.product_id
		WHERE cp.comparison_id = $1
		ORDER BY p.id
	`, comparisonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock,
			&p.Description, &p.Brand, &p.Model, &p.ImageURL,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}
