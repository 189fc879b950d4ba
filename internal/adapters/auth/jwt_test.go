package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
)

func TestAuthenticator_IssueAndVerify(t *testing.T) {
	a := NewAuthenticator("test-secret", time.Hour)
	id := domain.Identity{UID: "u-1", DisplayName: "Alice", Email: "alice@example.com", PhotoURL: "https://img.test/a.png"}

	token, expires, err := a.Issue(id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	got, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestAuthenticator_Verify_Rejects(t *testing.T) {
	a := NewAuthenticator("test-secret", time.Hour)
	other := NewAuthenticator("other-secret", time.Hour)
	expired := NewAuthenticator("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	foreign, _, err := other.Issue(domain.Identity{UID: "u-1"})
	require.NoError(t, err)
	stale, _, err := expired.Issue(domain.Identity{UID: "u-1"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: foreign},
		{name: "expired", token: stale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Verify(tt.token)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}

func TestAuthenticator_Issue_RequiresUID(t *testing.T) {
	_, _, err := NewAuthenticator("s", time.Hour).Issue(domain.Identity{})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestContextIdentity(t *testing.T) {
	var provider ContextIdentity

	_, ok := provider.CurrentIdentity(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), domain.Identity{UID: "u-2"})
	id, ok := provider.CurrentIdentity(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u-2", id.UID)
}
