package db

import (
	"context"
	"fmt"

	"github.com/comparathor/backend/internal/model"
)

const productColumns = `
	id, name, category, price, stock, description, brand, model, image_url, created_at, updated_at
`

// ListProducts applies the optional filter clauses. Filters compose with AND;
// name matching is a case-insensitive substring search.
func (db *Postgres) ListProducts(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	var args []any

	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Brand != "" {
		args = append(args, filter.Brand)
		query += fmt.Sprintf(" AND brand = $%d", len(args))
	}
	if filter.MinPrice > 0 {
		args = append(args, filter.MinPrice)
		query += fmt.Sprintf(" AND price >= $%d", len(args))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		query += fmt.Sprintf(" AND price <= $%d", len(args))
	}
	query += " ORDER BY id"

	rows, err := db.Pool.Query(ctx, query, args...)
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

func (db *Postgres) GetProduct(ctx context.Context, productID int64) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p model.Product
	err := db.Pool.QueryRow(ctx, query, productID).Scan(
		&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock,
		&p.Description, &p.Brand, &p.Model, &p.ImageURL,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *Postgres) CreateProduct(ctx context.Context, req model.ProductRequest) (*model.Product, error) {
	query := `
		INSERT INTO products (name, category, price, stock, description, brand, model, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + productColumns
	var p model.Product
	err := db.Pool.QueryRow(ctx, query,
		req.Name, req.Category, req.Price, req.Stock, req.Description, req.Brand, req.Model,
	).Scan(
		&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock,
		&p.Description, &p.Brand, &p.Model, &p.ImageURL,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *Postgres) UpdateProduct(ctx context.Context, productID int64, req model.ProductRequest) (*model.Product, error) {
	query := `
		UPDATE products SET
			name = $2, category = $3, price = $4, stock = $5,
			description = $6, brand = $7, model = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns
	var p model.Product
	err := db.Pool.QueryRow(ctx, query,
		productID, req.Name, req.Category, req.Price, req.Stock, req.Description, req.Brand, req.Model,
	).Scan(
		&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock,
		&p.Description, &p.Brand, &p.Model, &p.ImageURL,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *Postgres) DeleteProduct(ctx context.Context, productID int64) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
