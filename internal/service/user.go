package service

import (
	"context"

	"github.com/comparathor/backend/internal/db"
	"github.com/comparathor/backend/internal/model"
)

type UserService struct {
	repo *db.Postgres
}

func NewUserService(repo *db.Postgres) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) List(ctx context.Context) ([]*model.UserResponse, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*model.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.Response())
	}
	return responses, nil
}

func (s *UserService) Get(ctx context.Context, userID int64) (*model.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.Response(), nil
}

// UpdateProfile lets a user change their own name, email or password. A new
// password is re-hashed; the stored hash is otherwise untouched.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req model.UserUpdateRequest) (*model.UserResponse, error) {
	passwordHash := ""
	if req.Password != "" {
		hash, err := HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = hash
	}

	user, err := s.repo.UpdateUser(ctx, userID, req.Name, normalizeEmail(req.Email), passwordHash)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return user.Response(), nil
}
