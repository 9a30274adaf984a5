package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlacklistedToken_Revokes(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	token := BlacklistedToken{ExpiresAt: now.Add(time.Hour)}

	assert.True(t, token.Revokes(now))
	assert.True(t, token.Revokes(now.Add(59*time.Minute)))
	assert.False(t, token.Revokes(now.Add(time.Hour)))
	assert.False(t, token.Revokes(now.Add(2*time.Hour)))
}

func TestBlacklistedToken_BeforeCreateDefaults(t *testing.T) {
	token := &BlacklistedToken{JTI: "abc", UserID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)}

	require.NoError(t, token.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, token.ID)
	assert.False(t, token.BlacklistedAt.IsZero())
	assert.Equal(t, BlacklistReasonLogout, token.Reason)

	expired := &BlacklistedToken{JTI: "old", Reason: BlacklistReasonExpired}
	require.NoError(t, expired.BeforeCreate(nil))
	assert.Equal(t, BlacklistReasonExpired, expired.Reason)
}
