package handlers

import (
	"errors"
	"net/http"

	"github.com/immobiligb/immobili-api/internal/apperrors"
	"github.com/immobiligb/immobili-api/internal/handlers/render"
	"github.com/immobiligb/immobili-api/internal/logger"
)

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func handleLogin(as authService, logger logger.Logger) http.Handler {
	type LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[LoginRequest](w, r)
		if err != nil {
			return
		}

		token, err := as.Login(r.Context(), data.Username, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrInvalidCredentials):
				w.Header().Set("WWW-Authenticate", "Bearer")
				render.ServiceError(w, "Incorrect username or password", http.StatusUnauthorized)
			default:
				logger.Error("login failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, TokenResponse{
			AccessToken: token.Value,
			TokenType:   "bearer",
			ExpiresIn:   int64(as.TokenTTL().Seconds()),
		})
	})
}
