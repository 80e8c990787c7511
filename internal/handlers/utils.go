// internal/handlers/utils.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/artfolk/gavel/internal/game"
)

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a game error onto an HTTP status with a JSON body.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, httpStatusFor(err), map[string]string{"error": err.Error()})
}

// httpStatusFor maps the game error taxonomy onto HTTP status codes.
func httpStatusFor(err error) int {
	var cfgErr *game.ConfigurationError
	switch {
	case errors.Is(err, game.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrRoomFull), errors.Is(err, game.ErrGameAlreadyStarted):
		return http.StatusConflict
	case errors.Is(err, game.ErrNotYourTurn), errors.Is(err, game.ErrWrongPhase):
		return http.StatusForbidden
	case errors.Is(err, game.ErrInvalidAction), errors.As(err, &cfgErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// sendWsMessage marshals and writes a single websocket text message with a
// short deadline so one slow client cannot stall the sender.
func sendWsMessage(ctx context.Context, conn *websocket.Conn, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, data)
}

// sendWsError reports a rejected action back to the offending client only.
func sendWsError(ctx context.Context, conn *websocket.Conn, err error) {
	_ = sendWsMessage(ctx, conn, map[string]string{
		"type":  "error",
		"error": err.Error(),
	})
}

// extractTokenFromCookie pulls the auth token from the request cookie.
func extractTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie("auth_token")
	if err != nil {
		return "", errors.New("missing auth_token cookie")
	}
	return cookie.Value, nil
}

// setAuthCookie attaches the session token to the response.
func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
