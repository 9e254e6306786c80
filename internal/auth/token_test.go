package auth

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/config"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/user/entity"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestHandler(t *testing.T, clock *fakeClock) *TokenHandler {
	t.Helper()
	opts := []Option{}
	if clock != nil {
		opts = append(opts, WithClock(clock.Now))
	}
	h, err := NewTokenHandler(config.AuthConfig{Secret: testSecret, Lifetime: 7 * 24 * time.Hour}, opts...)
	require.NoError(t, err)
	return h
}

func TestNewTokenHandler_RejectsBadConfig(t *testing.T) {
	_, err := NewTokenHandler(config.AuthConfig{Secret: nil, Lifetime: time.Hour})
	assert.Error(t, err)

	_, err = NewTokenHandler(config.AuthConfig{Secret: []byte("short"), Lifetime: time.Hour})
	assert.Error(t, err)

	_, err = NewTokenHandler(config.AuthConfig{Secret: testSecret, Lifetime: 0})
	assert.Error(t, err)
}

func TestIssueValidate_RoundTrip(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, nil)

	tok, err := h.Issue(&entity.User{ID: 42, Username: "alice"})
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	id, ok := h.Validate(tok)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestValidate_Idempotent(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, nil)
	tok, err := h.Issue(&entity.User{ID: 7})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		id, ok := h.Validate(tok)
		require.True(t, ok)
		require.Equal(t, int64(7), id)
	}
}

func TestValidate_Expired(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	h := newTestHandler(t, clock)

	tok, err := h.Issue(&entity.User{ID: 1})
	require.NoError(t, err)

	clock.Advance(7*24*time.Hour - time.Second)
	_, ok := h.Validate(tok)
	assert.True(t, ok, "token must be valid just before expiry")

	clock.Advance(2 * time.Second)
	_, ok = h.Validate(tok)
	assert.False(t, ok, "token must be rejected once exp has passed")
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, nil)
	other, err := NewTokenHandler(config.AuthConfig{Secret: []byte("ffffffffffffffffffffffffffffffff"), Lifetime: time.Hour})
	require.NoError(t, err)

	tok, err := other.Issue(&entity.User{ID: 1})
	require.NoError(t, err)

	_, ok := h.Validate(tok)
	assert.False(t, ok)
}

func TestValidate_FlippedByte(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, nil)
	tok, err := h.Issue(&entity.User{ID: 99})
	require.NoError(t, err)

	for i := 0; i < len(tok); i++ {
		b := []byte(tok)
		b[i] ^= 0x01
		_, ok := h.Validate(string(b))
		require.False(t, ok, "flipped byte %d accepted", i)
	}
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, nil)

	for _, tok := range []string{"", "not.a.jwt", "abc", strings.Repeat("a", 200)} {
		_, ok := h.Validate(tok)
		assert.False(t, ok, tok)
	}
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, nil)

	claims := Claims{UserID: 5, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, ok := h.Validate(none)
	assert.False(t, ok)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)
	_, ok = h.Validate(hs512)
	assert.False(t, ok)
}

func TestValidate_RequiresExpiry(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, nil)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 5}).SignedString(testSecret)
	require.NoError(t, err)

	_, ok := h.Validate(tok)
	assert.False(t, ok)
}

func TestValidate_RequiresUserID(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, nil)

	tok, err := h.Issue(&entity.User{ID: 0})
	require.NoError(t, err)

	_, ok := h.Validate(tok)
	assert.False(t, ok)
}
