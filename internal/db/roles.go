package db

import (
	"context"

	"github.com/comparathor/backend/internal/model"
)

func (db *Postgres) ListRoles(ctx context.Context) ([]*model.Role, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id, role FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*model.Role
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Role); err != nil {
			return nil, err
		}
		roles = append(roles, &role)
	}
	return roles, rows.Err()
}

func (db *Postgres) CreateRole(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO roles (role) VALUES ($1) RETURNING id, role`, name).
		Scan(&role.ID, &role.Role)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (db *Postgres) UpdateRole(ctx context.Context, roleID int64, name string) (*model.Role, error) {
	var role model.Role
	err := db.Pool.QueryRow(ctx,
		`UPDATE roles SET role = $2 WHERE id = $1 RETURNING id, role`, roleID, name).
		Scan(&role.ID, &role.Role)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (db *Postgres) DeleteRole(ctx context.Context, roleID int64) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, roleID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
