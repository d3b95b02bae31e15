package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/immobiligb/immobili-api/internal/apperrors"
	"github.com/immobiligb/immobili-api/internal/models"
	"github.com/immobiligb/immobili-api/internal/service/auth/tokenmanager"
)

// Auth service: checks the service-account credential and issues or
// validates bearer tokens
type Service struct {
	creds  *CredentialStore
	tokens *tokenmanager.TokenManager
}

func NewService(creds *CredentialStore, tokens *tokenmanager.TokenManager) (*Service, error) {
	if creds == nil || tokens == nil {
		return nil, errors.New("credential store and token manager must not be nil")
	}

	return &Service{creds: creds, tokens: tokens}, nil
}

// Login checks credentials and issues a token
// Has to return apperrors.ErrInvalidCredentials on mismatch
func (s *Service) Login(ctx context.Context, username string, password string) (models.IssuedToken, error) {
	if err := s.creds.Check(username, password); err != nil {
		return models.IssuedToken{}, err
	}

	token, err := s.tokens.Issue(username)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	return token, nil
}

// TokenTTL of issued tokens, exposed for the login response expires_in
func (s *Service) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// Auth validates the bearer token of the request and returns its subject
func (s *Service) Auth(ctx context.Context, r *http.Request) (string, error) {
	tokenString, err := bearerToken(r)
	if err != nil {
		return "", err
	}

	return s.tokens.Parse(tokenString)
}

// bearerToken extracts the token from 'Authorization: Bearer <token>'
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("%w: authorization header missing", apperrors.ErrTokenMalformed)
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", fmt.Errorf("%w: authorization header is not a bearer token", apperrors.ErrTokenMalformed)
	}

	return token, nil
}
