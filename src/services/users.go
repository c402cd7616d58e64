package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/connectups/backend/src/common"
	"github.com/connectups/backend/src/models"
	"github.com/connectups/backend/src/store"
)

// UserService is the identity directory plus signup/login. Lookups are
// ErrNotFound-tolerant by contract: a freshly created user may not be
// resolvable yet and callers are expected to degrade, not crash.
type UserService struct {
	store store.Store
	log   *slog.Logger
}

func NewUserService(st store.Store, log *slog.Logger) *UserService {
	return &UserService{store: st, log: log}
}

const minPasswordLen = 6

// Signup registers a user after checking handle and email uniqueness.
func (s *UserService) Signup(ctx context.Context, name, username, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if name == "" || username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: all fields are required", common.ErrEmptyInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrEmptyInput, minPasswordLen)
	}
	if _, err := s.store.Users().FindByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username is taken", common.ErrAlreadyExists)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if _, err := s.store.Users().FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email is already registered", common.ErrAlreadyExists)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := s.store.Users().Create(ctx, &models.User{
		Name:     name,
		Username: username,
		Email:    email,
		Password: string(hashed),
		JoinedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", "user", user.Id.Hex(), "username", username)
	return user, nil
}

// Login verifies credentials; any mismatch reads the same to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.Users().FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)
	}
	return user, nil
}

// ResolveByID looks a user up by stable id.
func (s *UserService) ResolveByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.store.Users().FindByID(ctx, id)
}

// ResolveByHandle looks a user up by their chosen handle.
func (s *UserService) ResolveByHandle(ctx context.Context, handle string) (*models.User, error) {
	return s.store.Users().FindByUsername(ctx, handle)
}

// Search matches handles and display names case-insensitively.
func (s *UserService) Search(ctx context.Context, term string, limit int64) ([]models.User, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	return s.store.Users().Search(ctx, term, limit)
}
