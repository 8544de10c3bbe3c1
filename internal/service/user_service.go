package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/JusticeIsreal/url-shortener/internal/token"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	DeleteByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserService provisions administrative accounts and issues login tokens.
type UserService struct {
	store     UserStore
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewUserService(store UserStore, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		store:     store,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Register creates a new administrative account. Only super_admin callers may
// provision users, and nobody can mint another super_admin.
func (s *UserService) Register(ctx context.Context, requester domain.Identity, req *domain.RegisterUserRequest) (*domain.User, error) {
	if !requester.IsSuperAdmin() {
		return nil, fmt.Errorf("%w: only super_admin can register users", domain.ErrForbidden)
	}

	rank := domain.RankAdmin
	if req.Rank != "" {
		rank = domain.Rank(req.Rank)
	}
	if rank == domain.RankSuperAdmin {
		return nil, fmt.Errorf("%w: cannot create super_admin accounts", domain.ErrForbidden)
	}
	if !rank.Valid() {
		return nil, fmt.Errorf("%w: unknown rank %q", domain.ErrInvalidInput, req.Rank)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: string(hashed),
		Rank:           rank,
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return nil, storeFailure(ctx, "create_user", "", err)
	}

	return user, nil
}

// Login verifies credentials and returns a signed token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrForbidden)
		}
		return "", nil, storeFailure(ctx, "find_user_by_email", "", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrForbidden)
	}

	signed, err := token.Issue(s.jwtSecret, s.tokenTTL, user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return signed, user, nil
}

// Delete removes an administrative account by email. super_admin only.
func (s *UserService) Delete(ctx context.Context, requester domain.Identity, email string) (*domain.User, error) {
	if !requester.IsSuperAdmin() {
		return nil, fmt.Errorf("%w: only super_admin can delete users", domain.ErrForbidden)
	}

	user, err := s.store.DeleteByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, storeFailure(ctx, "delete_user", "", err)
	}

	return user, nil
}
