package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ilimi/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService wraps Redis with JSON marshalling and entity-aware helpers.
// It fronts user lookups on the hot authentication path.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// GenerateKey builds a namespaced cache key, e.g. user:id:42.
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// cachedUser is the cache wire form of a user. The API representation hides
// the credential fields behind json:"-"; the cache must round-trip every
// field or a cache hit would hand back a user with a zero token version and
// an empty password hash.
type cachedUser struct {
	ID                   uint      `json:"id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
	Email                string    `json:"email"`
	Password             string    `json:"password"`
	FirstName            string    `json:"first_name"`
	LastName             string    `json:"last_name"`
	PhoneNumber          string    `json:"phone_number"`
	IsActive             bool      `json:"is_active"`
	IsPhoneVerified      bool      `json:"is_phone_verified"`
	IsEmailVerified      bool      `json:"is_email_verified"`
	RequirePasswordReset bool      `json:"require_password_reset"`
	TokenVersion         int       `json:"token_version"`
}

func toCachedUser(user *models.User) *cachedUser {
	return &cachedUser{
		ID:                   user.ID,
		CreatedAt:            user.CreatedAt,
		UpdatedAt:            user.UpdatedAt,
		Email:                user.Email,
		Password:             user.Password,
		FirstName:            user.FirstName,
		LastName:             user.LastName,
		PhoneNumber:          user.PhoneNumber,
		IsActive:             user.IsActive,
		IsPhoneVerified:      user.IsPhoneVerified,
		IsEmailVerified:      user.IsEmailVerified,
		RequirePasswordReset: user.RequirePasswordReset,
		TokenVersion:         user.TokenVersion,
	}
}

func (c *cachedUser) toModel() *models.User {
	user := &models.User{
		Email:                c.Email,
		Password:             c.Password,
		FirstName:            c.FirstName,
		LastName:             c.LastName,
		PhoneNumber:          c.PhoneNumber,
		IsActive:             c.IsActive,
		IsPhoneVerified:      c.IsPhoneVerified,
		IsEmailVerified:      c.IsEmailVerified,
		RequirePasswordReset: c.RequirePasswordReset,
		TokenVersion:         c.TokenVersion,
	}
	user.ID = c.ID
	user.CreatedAt = c.CreatedAt
	user.UpdatedAt = c.UpdatedAt
	return user
}

// CacheUser stores a user under its id, email and phone keys.
func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}

	keys := []string{
		s.GenerateKey("user", "id", user.ID),
		s.GenerateKey("user", "email", user.Email),
	}
	if user.PhoneNumber != "" {
		keys = append(keys, s.GenerateKey("user", "phone", user.PhoneNumber))
	}

	entry := toCachedUser(user)
	for _, key := range keys {
		if err := s.Set(ctx, key, entry); err != nil {
			return err
		}
	}
	return nil
}

// GetUser loads a cached user by key.
func (s *CacheService) GetUser(ctx context.Context, key string) (*models.User, error) {
	var entry cachedUser
	found, err := s.Get(ctx, key, &entry)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("user not found in cache")
	}
	return entry.toModel(), nil
}

// InvalidateUser drops every cache key referencing the user. Must run after
// any write that changes verification, activation or token-version state.
func (s *CacheService) InvalidateUser(ctx context.Context, user *models.User) error {
	keys := []string{
		s.GenerateKey("user", "id", user.ID),
		s.GenerateKey("user", "email", user.Email),
	}
	if user.PhoneNumber != "" {
		keys = append(keys, s.GenerateKey("user", "phone", user.PhoneNumber))
	}
	return s.Delete(ctx, keys...)
}

// HealthCheck pings the Redis backend.
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// FlushAll clears the cache. Used on startup in development.
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close releases the underlying client.
func (s *CacheService) Close() error {
	return s.client.Close()
}
