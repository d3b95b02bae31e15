package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immobiligb/immobili-api/internal/handlers/authctx"
)

type stubAuthService struct {
	subject string
	err     error
}

func (s *stubAuthService) Auth(_ context.Context, _ *http.Request) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.subject, nil
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("puts the token subject into the request context", func(t *testing.T) {
		var gotSubject string
		var found bool

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotSubject, found = authctx.Subject(r.Context())
			w.WriteHeader(http.StatusOK)
		})
		handler := AuthMiddleware(&stubAuthService{subject: "public_api"})(next)

		req := httptest.NewRequest(http.MethodGet, "/immobili", nil)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)

		require.Equal(t, http.StatusOK, res.Code)
		require.True(t, found, "subject should be stored in the context")
		assert.Equal(t, "public_api", gotSubject)
	})

	t.Run("any token failure is the same 401", func(t *testing.T) {
		for _, failure := range []error{
			errors.New("token expired"),
			errors.New("signature mismatch"),
			errors.New("no authorization header"),
		} {
			t.Run(failure.Error(), func(t *testing.T) {
				nextCalled := false
				next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					nextCalled = true
				})
				handler := AuthMiddleware(&stubAuthService{err: failure})(next)

				req := httptest.NewRequest(http.MethodGet, "/immobili", nil)
				res := httptest.NewRecorder()
				handler.ServeHTTP(res, req)

				require.Equal(t, http.StatusUnauthorized, res.Code)
				assert.Equal(t, "Bearer", res.Header().Get("WWW-Authenticate"))
				assert.False(t, nextCalled, "rejected requests must not reach the handler")
				assert.Contains(t, res.Body.String(), "Could not validate credentials")
			})
		}
	})
}
