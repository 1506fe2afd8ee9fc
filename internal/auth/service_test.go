package auth_test

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/crucial707/catalog/internal/auth"
	"github.com/crucial707/catalog/internal/models"
	"github.com/crucial707/catalog/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newService(t *testing.T, c *clock) *auth.Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := []auth.Option{auth.WithLogger(logger)}
	if c != nil {
		opts = append(opts, auth.WithClock(c.now))
	}
	return auth.NewService(store.NewMemoryUsers(), secret, 0, opts...)
}

func TestRegisterThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := newService(t, c)

	require.NoError(t, s.Register(ctx, "alice", "pw1"))

	tok, err := s.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.Equal(t, "alice", tok.Subject)
	assert.Equal(t, c.t.Add(7*24*time.Hour), tok.ExpiresAt)

	sub, err := s.Validate(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s := newService(t, nil)

	require.NoError(t, s.Register(ctx, "alice", "pw1"))
	err := s.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, auth.ErrDuplicateUsername)

	// The original password still works.
	_, err = s.Authenticate(ctx, "alice", "pw1")
	assert.NoError(t, err)
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	s := newService(t, nil)

	var verr *models.ValidationError
	err := s.Register(ctx, "", "pw")
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "username")

	err = s.Register(ctx, "bob", "")
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "password")

	err = s.Register(ctx, "bob", strings.Repeat("x", 73))
	require.True(t, errors.As(err, &verr))
}

func TestRegister_BlankUsername(t *testing.T) {
	ctx := context.Background()
	s := newService(t, nil)

	var verr *models.ValidationError
	err := s.Register(ctx, " \t ", "pw")
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "required", verr.Fields["username"])

	_, err = s.Authenticate(ctx, " \t ", "pw")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	s := newService(t, nil)
	require.NoError(t, s.Register(ctx, "alice", "pw1"))

	_, err := s.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = s.Authenticate(ctx, "ghost", "pw1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = s.Authenticate(ctx, "", "")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestValidate_Expired(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := newService(t, c)
	require.NoError(t, s.Register(ctx, "alice", "pw1"))

	tok, err := s.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)

	c.t = c.t.Add(7*24*time.Hour - time.Minute)
	_, err = s.Validate(tok.Token)
	require.NoError(t, err)

	c.t = c.t.Add(2 * time.Minute)
	_, err = s.Validate(tok.Token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestValidate_Tampered(t *testing.T) {
	ctx := context.Background()
	s := newService(t, nil)
	require.NoError(t, s.Register(ctx, "alice", "pw1"))
	tok, err := s.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)

	// Same header and claims, signed with another key.
	parts := strings.Split(tok.Token, ".")
	require.Len(t, parts, 3)
	sig, err := jwt.SigningMethodHS256.Sign(parts[0]+"."+parts[1], []byte("other-secret"))
	require.NoError(t, err)
	forged := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(sig)

	_, err = s.Validate(forged)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = s.Validate("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	s := newService(t, nil)

	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	require.NoError(t, err)
	_, err = s.Validate(hs512)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.Validate(none)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidate_RequiresExpiry(t *testing.T) {
	s := newService(t, nil)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "alice"}).SignedString(secret)
	require.NoError(t, err)
	_, err = s.Validate(noExp)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
