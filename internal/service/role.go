package service

import (
	"context"

	"github.com/comparathor/backend/internal/db"
	"github.com/comparathor/backend/internal/model"
)

type RoleService struct {
	repo *db.Postgres
}

func NewRoleService(repo *db.Postgres) *RoleService {
	return &RoleService{repo: repo}
}

func (s *RoleService) List(ctx context.Context) ([]*model.Role, error) {
	return s.repo.ListRoles(ctx)
}

func (s *RoleService) Create(ctx context.Context, name string) (*model.Role, error) {
	role, err := s.repo.CreateRole(ctx, name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateRole
		}
		return nil, err
	}
	return role, nil
}

func (s *RoleService) Update(ctx context.Context, roleID int64, name string) (*model.Role, error) {
	role, err := s.repo.UpdateRole(ctx, roleID, name)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateRole
		}
		return nil, err
	}
	return role, nil
}

func (s *RoleService) Delete(ctx context.Context, roleID int64) error {
	deleted, err := s.repo.DeleteRole(ctx, roleID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
