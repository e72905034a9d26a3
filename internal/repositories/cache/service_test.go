package cache

import (
	"encoding/json"
	"testing"
	"time"

	"ilimi/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestUserCacheEncodingRoundTrip(t *testing.T) {
	user := &models.User{
		Email:                "kwame@example.com",
		Password:             "$2a$10$hashhashhashhashhashha",
		FirstName:            "Kwame",
		LastName:             "Boateng",
		PhoneNumber:          "+233241234567",
		IsActive:             true,
		IsPhoneVerified:      true,
		RequirePasswordReset: true,
		TokenVersion:         3,
	}
	user.ID = 7
	user.CreatedAt = time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)

	data, err := json.Marshal(toCachedUser(user))
	assert.NoError(t, err)

	var entry cachedUser
	assert.NoError(t, json.Unmarshal(data, &entry))
	got := entry.toModel()

	assert.Equal(t, uint(7), got.ID)
	assert.Equal(t, "kwame@example.com", got.Email)
	assert.Equal(t, user.Password, got.Password, "password hash must survive the cache")
	assert.Equal(t, 3, got.TokenVersion, "token version must survive the cache")
	assert.True(t, got.RequirePasswordReset)
	assert.True(t, got.IsActive)
	assert.True(t, got.IsPhoneVerified)
	assert.Equal(t, user.CreatedAt, got.CreatedAt)
}

func TestGenerateKey(t *testing.T) {
	s := &CacheService{}

	assert.Equal(t, "user:id:42", s.GenerateKey("user", "id", uint(42)))
	assert.Equal(t, "user:email:a@b.com", s.GenerateKey("user", "email", "a@b.com"))
}
