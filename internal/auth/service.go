// Package auth registers credentials, authenticates them and issues and
// validates stateless HS256 access tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/crucial707/catalog/internal/models"
	"github.com/crucial707/catalog/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")
)

// DefaultTTL is the validity window of an issued token.
const DefaultTTL = 7 * 24 * time.Hour

// CredentialStore persists users. Create reports a taken username with
// store.ErrDuplicate and GetByUsername a missing one with store.ErrNotFound.
type CredentialStore interface {
	Create(ctx context.Context, username, passwordHash string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
}

// Token is an issued access token.
type Token struct {
	Token     string    `json:"token"`
	Subject   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

type claims struct {
	UID int `json:"uid"`
	jwt.RegisteredClaims
}

type Service struct {
	users  CredentialStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    *slog.Logger
}

type Option func(*Service)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService returns a Service signing with secret. A ttl <= 0 selects DefaultTTL.
func NewService(users CredentialStore, secret []byte, ttl time.Duration, opts ...Option) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Service{
		users:  users,
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ==========================
// Register
// ==========================

// Register stores a new credential with a bcrypt hash of password.
func (s *Service) Register(ctx context.Context, username, password string) error {
	if err := models.Validate(models.Credentials{Username: username, Password: password}); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return models.NewValidationError("password", "must be at most 72 bytes")
		}
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err := s.users.Create(ctx, username, string(hash)); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			s.log.InfoContext(ctx, "register rejected", "username", username, "reason", "taken")
			return ErrDuplicateUsername
		}
		return fmt.Errorf("create user: %w", err)
	}

	s.log.InfoContext(ctx, "user registered", "username", username)
	return nil
}

// ==========================
// Authenticate
// ==========================

// Authenticate checks username and password and issues a token. Unknown users
// and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Token, error) {
	if username == "" || password == "" {
		return Token{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn the same bcrypt cost as a real comparison.
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			s.log.InfoContext(ctx, "login failed", "username", username, "reason", "unknown user")
			return Token{}, ErrInvalidCredentials
		}
		return Token{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.InfoContext(ctx, "login failed", "username", username, "reason", "wrong password")
		return Token{}, ErrInvalidCredentials
	}

	tok, err := s.issue(user)
	if err != nil {
		return Token{}, err
	}
	s.log.InfoContext(ctx, "login succeeded", "username", username)
	return tok, nil
}

func (s *Service) issue(user models.User) (Token, error) {
	now := s.now()
	c := claims{
		UID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Token: signed, Subject: user.Username, ExpiresAt: c.ExpiresAt.Time}, nil
}

// ==========================
// Validate
// ==========================

// Validate verifies signature and expiry and returns the token's subject.
func (s *Service) Validate(token string) (string, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return "", ErrInvalidToken
	}
	return c.Subject, nil
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	return dummy
}
