package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"parkgate/internal/apperr"
	"parkgate/internal/cache"
	"parkgate/internal/logger"
	"parkgate/internal/models"
	"parkgate/internal/repository"
)

// UserService handles registration, credential checks for the auth
// middleware, and the admin account surface. Successful credential checks
// are cached briefly so the bcrypt comparison is not repeated on every
// request.
type UserService struct {
	repos *repository.Repositories
	cache *cache.Client
}

func NewUserService(repos *repository.Repositories, cacheClient *cache.Client) *UserService {
	return &UserService{repos: repos, cache: cacheClient}
}

// Register creates a customer account.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.RoleCustomer,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	if err := s.repos.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Validation("username", "username or email is already registered")
		}
		return nil, apperr.Persistence("create user", err)
	}

	logger.WithContext(ctx).Info("User registered", "user_id", user.UserID, "username", user.Username)
	return user, nil
}

// Authenticate verifies a username/password pair and returns the account.
// The comparison result is cached; the cache stores only a hash-derived key
// and the user ID, never the credentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	log := logger.WithContext(ctx)

	var cacheKey string
	if s.cache != nil {
		cacheKey = cache.AuthKey(username, password)
		userID, err := s.cache.GetAuthUserID(ctx, cacheKey)
		if err != nil {
			log.Warn("Auth cache read failed", "error", err)
		} else if userID != 0 {
			user, err := s.repos.Users.GetByID(ctx, userID)
			if err == nil && user != nil {
				return user, nil
			}
		}
	}

	user, err := s.repos.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Persistence("load user", err)
	}
	if user == nil {
		return nil, apperr.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.ErrUnauthorized
	}

	if s.cache != nil {
		if err := s.cache.SetAuthUserID(ctx, cacheKey, user.UserID); err != nil {
			log.Warn("Auth cache write failed", "error", err)
		}
	}

	return user, nil
}

// ListCustomers returns customer accounts for the admin listing.
func (s *UserService) ListCustomers(ctx context.Context) ([]models.User, error) {
	users, err := s.repos.Users.ListByRole(ctx, models.RoleCustomer)
	if err != nil {
		return nil, apperr.Persistence("list users", err)
	}
	return users, nil
}

// Delete removes a customer account. Admins cannot delete themselves or any
// account that still holds active bookings.
func (s *UserService) Delete(ctx context.Context, adminID, userID int64) error {
	if adminID == userID {
		return apperr.Validation("", "you cannot delete your own account")
	}

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return apperr.Persistence("load user", err)
	}
	if user == nil {
		return apperr.ErrNotFound
	}

	active, err := s.repos.Users.CountActiveBookings(ctx, userID)
	if err != nil {
		return apperr.Persistence("count bookings", err)
	}
	if active > 0 {
		return fmt.Errorf("%w: user has %d active bookings", apperr.ErrConflict, active)
	}

	deleted, err := s.repos.Users.Delete(ctx, userID)
	if err != nil {
		return apperr.Persistence("delete user", err)
	}
	if !deleted {
		return apperr.ErrNotFound
	}

	logger.WithContext(ctx).Info("User deleted", "user_id", userID, "by", adminID)
	return nil
}
