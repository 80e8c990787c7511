// internal/handlers/room.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/artfolk/gavel/internal/auth"
	"github.com/artfolk/gavel/internal/game"
)

type createRoomRequest struct {
	PlayerName string `json:"playerName"`
}

type createRoomResponse struct {
	RoomCode string    `json:"roomCode"`
	PlayerID uuid.UUID `json:"playerId"`
}

type joinRoomRequest struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type joinRoomResponse struct {
	RoomCode string        `json:"roomCode"`
	PlayerID uuid.UUID     `json:"playerId"`
	State    game.GameView `json:"state"`
}

// CreateRoomHandler creates a new room with the caller as host and returns
// the room code plus a session cookie identifying the host seat.
//
// POST /room/create
func (s *GameServer) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		http.Error(w, "playerName is required", http.StatusBadRequest)
		return
	}

	code := s.Rooms.NewRoomCode()
	g, hostID := game.NewGame(code, name)
	g.Describer = s.Describer
	g.BroadcastFn = s.createBroadcastFunc()
	s.Rooms.Add(g)

	token, err := auth.CreateSessionToken(hostID.String())
	if err != nil {
		s.Logger.Errorf("failed to create session token: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	setAuthCookie(w, token)

	s.Logger.Infof("room %s created by %s", code, name)
	writeJSON(w, http.StatusCreated, createRoomResponse{RoomCode: code, PlayerID: hostID})
}

// JoinRoomHandler seats a player in an existing room during setup.
//
// POST /room/join
func (s *GameServer) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		http.Error(w, "playerName is required", http.StatusBadRequest)
		return
	}

	g, ok := s.lookupRoom(req.RoomCode)
	if !ok {
		writeError(w, game.ErrRoomNotFound)
		return
	}

	playerID, err := g.AddPlayer(name)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := auth.CreateSessionToken(playerID.String())
	if err != nil {
		s.Logger.Errorf("failed to create session token: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	setAuthCookie(w, token)

	g.Mu.Lock()
	view := g.ViewFor(playerID)
	code := g.RoomCode
	g.Mu.Unlock()

	s.Logger.Infof("player %s joined room %s", name, code)
	writeJSON(w, http.StatusOK, joinRoomResponse{RoomCode: code, PlayerID: playerID, State: view})
}

// RoomStateHandler returns the caller's view of the room state. The caller
// must present a session cookie for a seat in the room.
//
// GET /room/state/{room_code}
func (s *GameServer) RoomStateHandler(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/room/state/")
	g, ok := s.lookupRoom(code)
	if !ok {
		writeError(w, game.ErrRoomNotFound)
		return
	}

	playerID, err := s.authenticatePlayer(r, g)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	g.Mu.Lock()
	view := g.ViewFor(playerID)
	g.Mu.Unlock()
	writeJSON(w, http.StatusOK, view)
}

// authenticatePlayer resolves the session cookie to a seated player id.
func (s *GameServer) authenticatePlayer(r *http.Request, g *game.Game) (uuid.UUID, error) {
	token, err := extractTokenFromCookie(r)
	if err != nil {
		return uuid.Nil, err
	}
	sub, err := auth.AuthenticateSessionToken(token)
	if err != nil {
		return uuid.Nil, err
	}
	playerID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, err
	}

	g.Mu.Lock()
	defer g.Mu.Unlock()
	for _, p := range g.Players {
		if p.ID == playerID {
			return playerID, nil
		}
	}
	return uuid.Nil, errors.New("player is not seated in this room")
}
