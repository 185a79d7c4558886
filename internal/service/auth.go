package service

import (
	"context"
	"errors"
	"strings"

	"github.com/comparathor/backend/internal/db"
	"github.com/comparathor/backend/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrMisconfigured      = errors.New("auth config invalid")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrMissingToken       = errors.New("missing token")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateRole      = errors.New("role already exists")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
)

// UserStore is the persistence contract the auth service needs. *db.Postgres
// satisfies it; tests use fakes.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, userID int64) (*model.User, error)
	CreateUser(ctx context.Context, name, email, passwordHash, role string) (*model.User, error)
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService orchestrates registration, login, refresh and logout, and
// resolves the caller behind a bearer token on every protected request.
type AuthService struct {
	users       UserStore
	codec       *TokenCodec
	revocations RevocationRegistry
}

func NewAuthService(users UserStore, codec *TokenCodec, revocations RevocationRegistry) *AuthService {
	return &AuthService{
		users:       users,
		codec:       codec,
		revocations: revocations,
	}
}

// Register creates an identity with the default role and issues both tokens.
// The users.email UNIQUE constraint is the arbiter for concurrent registration
// races; the lookup here only gives duplicates a cheaper answer.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, TokenPair, error) {
	email = normalizeEmail(email)

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, TokenPair{}, ErrDuplicateEmail
	} else if !db.IsNoRows(err) {
		return nil, TokenPair{}, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, TokenPair{}, err
	}

	user, err := s.users.CreateUser(ctx, name, email, hash, model.RoleRegistered)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, TokenPair{}, ErrDuplicateEmail
		}
		return nil, TokenPair{}, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, tokens, nil
}

// Login never reveals whether the email exists: unknown email and wrong
// password both come back as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, TokenPair, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, TokenPair{}, ErrInvalidCredentials
		}
		return nil, TokenPair{}, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, tokens, nil
}

// Refresh mints a new access token against a still-valid refresh token. The
// refresh token itself is returned unchanged: no rotation, a refresh token
// keeps working until it expires or is revoked by logout. The tradeoff is
// that a stolen refresh token cannot be detected through reuse.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return TokenPair{}, ErrUnauthorized
	}

	revoked, err := s.revocations.IsRevoked(ctx, refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	if revoked {
		return TokenPair{}, ErrTokenRevoked
	}

	claims, err := s.codec.Decode(refreshToken)
	if err != nil {
		return TokenPair{}, ErrUnauthorized
	}

	accessToken, err := s.codec.IssueAccessToken(claims.Subject, claims.Role)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout denylists the refresh token. The token is not validated first:
// revoking garbage is a harmless no-op and logout must always succeed for
// anything the client still holds.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return ErrMissingToken
	}

	expiresAt := s.codec.now().Add(s.codec.RefreshTTL())
	if claims, err := s.codec.Decode(refreshToken); err == nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return s.revocations.Revoke(ctx, refreshToken, expiresAt)
}

// ResolveCaller turns a bearer access token into the current identity. The
// role comes from the database, not the token, so a role change takes effect
// on the next request; a deleted identity surfaces as ErrUserNotFound even if
// the token is still within its TTL.
func (s *AuthService) ResolveCaller(ctx context.Context, accessToken string) (*model.AuthUser, error) {
	claims, err := s.codec.Decode(accessToken)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &model.AuthUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

func (s *AuthService) issueTokens(user *model.User) (TokenPair, error) {
	accessToken, err := s.codec.IssueAccessToken(user.Email, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	refreshToken, err := s.codec.IssueRefreshToken(user.Email, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
