package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"socialnet/internal/cache"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes read access to public profiles.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.PublicUser, error)
	Invalidate(ctx context.Context, id uuid.UUID)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.PublicUser, error) {
	var cached model.PublicUser
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	public := model.ToPublicUser(user)
	s.cache.SetJSON(ctx, s.cacheKey(id), public, userCacheTTL)
	return &public, nil
}

func (s *userService) Invalidate(ctx context.Context, id uuid.UUID) {
	s.cache.Delete(ctx, s.cacheKey(id))
}
