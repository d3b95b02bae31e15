package handlers

import (
	"net/http"

	"github.com/immobiligb/immobili-api/internal/handlers/render"
)

const serviceVersion = "1.0.0"

func handleRoot() http.Handler {
	type RootResponse struct {
		Service string `json:"service"`
		Version string `json:"version"`
		Status  string `json:"status"`
		Auth    string `json:"auth"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, RootResponse{
			Service: "Immobili Images API",
			Version: serviceVersion,
			Status:  "online",
			Auth:    "/api/v1/auth/login",
		})
	})
}

func handleHealth() http.Handler {
	type HealthResponse struct {
		Status string `json:"status"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, HealthResponse{Status: "healthy"})
	})
}
