package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"sounddeck/config"
	"sounddeck/core/auth"
	"sounddeck/core/ingest"
	"sounddeck/core/player"
	"sounddeck/repository"
)

// APIHandler carries the shared dependencies of all HTTP handlers.
type APIHandler struct {
	clipRepo     repository.ClipRepository
	playlistRepo repository.PlaylistRepository
	hotkeyRepo   repository.HotkeyRepository
	userRepo     repository.UserRepository
	co           *player.Coordinator
	importer     *ingest.Importer
	cfg          *config.Config
}

// NewAPIHandler creates the handler set.
func NewAPIHandler(
	clipRepo repository.ClipRepository,
	playlistRepo repository.PlaylistRepository,
	hotkeyRepo repository.HotkeyRepository,
	userRepo repository.UserRepository,
	co *player.Coordinator,
	importer *ingest.Importer,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		clipRepo:     clipRepo,
		playlistRepo: playlistRepo,
		hotkeyRepo:   hotkeyRepo,
		userRepo:     userRepo,
		co:           co,
		importer:     importer,
		cfg:          cfg,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// AuthMiddleware checks for a valid JWT bearer token.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), "userID", claims.UserID)
		ctx = context.WithValue(ctx, "username", claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetUserIDFromContext extracts the user ID set by AuthMiddleware.
func GetUserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value("userID").(int64)
	if !ok {
		return 0, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}
