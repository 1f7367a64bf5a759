package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pixil98/go-realm/internal/auth"
	"github.com/pixil98/go-realm/internal/storage"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	PlayerID int64  `json:"playerId"`
	Username string `json:"username"`
}

// loginHandler exchanges credentials for a token. Account management beyond
// that lives outside this service.
type loginHandler struct {
	players storage.PlayerStore
	tokens  *auth.Tokens
}

func newLoginHandler(players storage.PlayerStore, tokens *auth.Tokens) *loginHandler {
	return &loginHandler{players: players, tokens: tokens}
}

func (h *loginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	record, err := h.players.FindPlayerByUsername(r.Context(), req.Username)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("looking up player for login", "username", req.Username, "error", err)
			writeJSONError(w, http.StatusInternalServerError, "login failed")
			return
		}
		// Unknown user and bad password answer the same way.
		writeJSONError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := auth.CheckPassword(record.PasswordHash, req.Password); err != nil {
		writeJSONError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(record.ID, record.Username)
	if err != nil {
		slog.Error("issuing token", "playerId", record.ID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "login failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{
		Token:    token,
		PlayerID: record.ID,
		Username: record.Username,
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
