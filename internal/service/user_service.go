package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"jupiter/internal/cache"
	apperrors "jupiter/internal/errors"
	"jupiter/internal/model"
	"jupiter/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes profile lookups for signed-in users.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// GetProfile loads the user a session belongs to. The password hash is never cached.
func (s *userService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	parsed, err := strconv.ParseUint(userID, 10, 64)
	if err != nil || parsed == 0 {
		return nil, apperrors.ErrUserNotFound
	}
	id := uint(parsed)

	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}
