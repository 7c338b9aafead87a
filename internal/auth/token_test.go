package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtheosYThomas/north-lions-v6/internal/clock"
	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

func TestTokenIssuer(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	ttl := time.Hour

	t.Run("round trip", func(t *testing.T) {
		issuer := NewTokenIssuer("test-secret", ttl, clock.NewFixed(now))

		token, err := issuer.Issue("member-1")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		memberID, err := issuer.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, "member-1", memberID)
	})

	t.Run("expired token", func(t *testing.T) {
		issuer := NewTokenIssuer("test-secret", ttl, clock.NewFixed(now))
		token, err := issuer.Issue("member-1")
		require.NoError(t, err)

		later := NewTokenIssuer("test-secret", ttl, clock.NewFixed(now.Add(2*time.Hour)))
		_, err = later.Parse(token)
		require.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("wrong secret", func(t *testing.T) {
		issuer := NewTokenIssuer("test-secret", ttl, clock.NewFixed(now))
		token, err := issuer.Issue("member-1")
		require.NoError(t, err)

		other := NewTokenIssuer("other-secret", ttl, clock.NewFixed(now))
		_, err = other.Parse(token)
		require.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("garbage token", func(t *testing.T) {
		issuer := NewTokenIssuer("test-secret", ttl, clock.NewFixed(now))

		_, err := issuer.Parse("not-a-token")
		require.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
}
