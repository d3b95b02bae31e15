package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/immobiligb/immobili-api/internal/apperrors"
	"github.com/immobiligb/immobili-api/internal/models"
)

const (
	// Tokens live for a week. Long on purpose: consumers are batch
	// pipelines, and there is no refresh endpoint.
	defaultTokenTTL = 168 * time.Hour

	defaultSigningMethod = "HS256"
)

// Token manager with sensible defaults
type Config struct {
	// Secret key to sign tokens
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Token lifetime
	// If not set than default is used
	TTL time.Duration

	// Clock override, used in tests
	Now func() time.Time
}

// TokenManager issues and validates stateless signed bearer tokens.
// No token is ever stored: validity is signature plus expiry, and a
// leaked token stays valid until it naturally expires. There is no
// revocation by design.
type TokenManager struct {
	key string
	alg jwt.SigningMethod
	ttl time.Duration
	now func() time.Time
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	if cfg.TTL == 0 {
		cfg.TTL = defaultTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &TokenManager{
		key: cfg.SecretKey,
		alg: jwt.GetSigningMethod(cfg.Alg),
		ttl: cfg.TTL,
		now: cfg.Now,
	}, nil
}

// TTL this manager issues tokens with
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a signed token for the subject
func (m *TokenManager) Issue(subject string) (models.IssuedToken, error) {
	now := m.now().Truncate(time.Second)
	expiresAt := now.Add(m.ttl)

	token := jwt.NewWithClaims(
		m.alg,
		jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	)

	signed, err := token.SignedString([]byte(m.key))
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing token. Err: %w", err)
	}

	return models.IssuedToken{
		Value:     signed,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}

// Parse validates the token string and returns its subject.
// Errors are one of apperrors.ErrTokenExpired, ErrTokenSignatureInvalid
// or ErrTokenMalformed.
func (m *TokenManager) Parse(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			return []byte(m.key), nil
		},
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", apperrors.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", apperrors.ErrTokenSignatureInvalid
	case err != nil:
		return "", fmt.Errorf("%w: %v", apperrors.ErrTokenMalformed, err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: subject claim missing", apperrors.ErrTokenMalformed)
	}

	return claims.Subject, nil
}
