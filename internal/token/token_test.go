package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/prasowlabs/moi-kanakku/internal/session"
)

func newTestService(ttl time.Duration) *Service {
	return NewService(session.NewMemoryStore(), []byte("test-secret"), ttl)
}

func TestIssueAndVerify(t *testing.T) {
	svc := newTestService(time.Hour)
	ctx := t.Context()

	signed, err := svc.Issue(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	id, err := svc.Verify(ctx, signed)
	require.NoError(t, err)
	require.EqualValues(t, 42, id)
}

func TestIssueRequiresPrincipal(t *testing.T) {
	svc := newTestService(time.Hour)
	_, err := svc.Issue(t.Context(), 0)
	require.Error(t, err)
}

// The second issue silently invalidates the first: the single-session
// policy in one test.
func TestSecondIssueStalesFirst(t *testing.T) {
	svc := newTestService(time.Hour)
	ctx := t.Context()

	first, err := svc.Issue(ctx, 42)
	require.NoError(t, err)
	second, err := svc.Issue(ctx, 42)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = svc.Verify(ctx, first)
	require.ErrorIs(t, err, ErrStale)

	id, err := svc.Verify(ctx, second)
	require.NoError(t, err)
	require.EqualValues(t, 42, id)
}

// Back-to-back issues land within the same second; the jti claim keeps
// each token distinct so the store overwrite actually stales the prior one.
func TestRapidIssuesAreDistinct(t *testing.T) {
	svc := newTestService(time.Hour)
	ctx := t.Context()

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		tok, err := svc.Issue(ctx, 7)
		require.NoError(t, err)
		require.False(t, seen[tok])
		seen[tok] = true
	}
}

// Expiry wins over staleness: a token past its TTL reports ErrExpired
// even though the store no longer holds it either.
func TestExpiredBeatsStale(t *testing.T) {
	svc := newTestService(-time.Minute)
	ctx := t.Context()

	signed, err := svc.Issue(ctx, 42)
	require.NoError(t, err)

	_, err = svc.Verify(ctx, signed)
	require.ErrorIs(t, err, ErrExpired)
}

func TestMalformedToken(t *testing.T) {
	svc := newTestService(time.Hour)
	ctx := t.Context()

	_, err := svc.Verify(ctx, "not-a-token")
	require.ErrorIs(t, err, ErrMalformed)

	// Right shape, wrong key.
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": float64(42),
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := other.SignedString([]byte("different-secret"))
	require.NoError(t, err)
	_, err = svc.Verify(ctx, signed)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestInvalidateDropsSession(t *testing.T) {
	svc := newTestService(time.Hour)
	ctx := t.Context()

	signed, err := svc.Issue(ctx, 42)
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(ctx, 42))

	_, err = svc.Verify(ctx, signed)
	require.ErrorIs(t, err, ErrStale)

	_, ok := svc.Current(ctx, 42)
	require.False(t, ok)
}
