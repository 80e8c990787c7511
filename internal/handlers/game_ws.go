// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/artfolk/gavel/internal/cache"
	"github.com/artfolk/gavel/internal/game"
	"github.com/artfolk/gavel/internal/models"
)

// GameWSHandler upgrades to a websocket for a seated player and pumps their
// actions into the game until disconnect.
//
// GET /room/ws/{room_code}
func (s *GameServer) GameWSHandler(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/room/ws/")
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

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:       []string{"gavel"},
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.Logger.Errorf("websocket accept failed for room %s: %v", code, err)
		return
	}
	if conn.Subprotocol() != "gavel" {
		conn.Close(websocket.StatusPolicyViolation, "client must speak the gavel subprotocol")
		return
	}

	ctx := r.Context()
	s.attachConn(g, playerID, conn)
	s.Logger.Infof("player %s connected to room %s", playerID, g.RoomCode)

	defer func() {
		s.detachConn(g, playerID, conn)
		conn.Close(websocket.StatusNormalClosure, "closing")
		s.Logger.Infof("player %s disconnected from room %s", playerID, g.RoomCode)
	}()

	s.readLoop(ctx, g, playerID, conn)
}

// attachConn registers the socket on the player's seat and pushes an initial
// full snapshot so a (re)connecting client is immediately current.
func (s *GameServer) attachConn(g *game.Game, playerID uuid.UUID, conn *websocket.Conn) {
	g.Mu.Lock()
	for _, p := range g.Players {
		if p.ID == playerID {
			if p.Conn != nil {
				p.Conn.Close(websocket.StatusPolicyViolation, "connection superseded")
			}
			p.Conn = conn
			p.Connected = true
		}
	}
	view := g.ViewFor(playerID)
	g.Mu.Unlock()

	if err := sendWsMessage(context.Background(), conn, wsStateMessage(view)); err != nil {
		s.Logger.Warnf("failed to send initial state to %s: %v", playerID, err)
	}
}

// detachConn clears the seat's socket unless a newer connection replaced it.
func (s *GameServer) detachConn(g *game.Game, playerID uuid.UUID, conn *websocket.Conn) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	for _, p := range g.Players {
		if p.ID == playerID && p.Conn == conn {
			p.Conn = nil
			p.Connected = false
		}
	}
}

// readLoop decodes incoming actions and applies them. Rejections go back to
// the sender only; accepted actions broadcast through the game's commit path.
func (s *GameServer) readLoop(ctx context.Context, g *game.Game, playerID uuid.UUID, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var action models.GameAction
		if err := json.Unmarshal(data, &action); err != nil {
			sendWsError(ctx, conn, err)
			continue
		}
		if action.Type == "ping" {
			_ = sendWsMessage(ctx, conn, map[string]string{"type": "pong"})
			continue
		}

		if err := g.HandleAction(playerID, action); err != nil {
			s.Logger.WithFields(logrus.Fields{
				"room":   g.RoomCode,
				"player": playerID,
				"action": action.Type,
			}).Warnf("action rejected: %v", err)
			sendWsError(ctx, conn, err)
			continue
		}

		if cache.Rdb != nil {
			g.Mu.Lock()
			version := g.Version
			g.Mu.Unlock()
			record := cache.ActionRecord{
				RoomCode:  g.RoomCode,
				ActorID:   playerID,
				Action:    action.Type,
				Payload:   action.Payload,
				Version:   version,
				Timestamp: time.Now().Unix(),
			}
			go func() {
				pushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := cache.PushActionRecord(pushCtx, record); err != nil {
					s.Logger.Warnf("failed to queue action record: %v", err)
				}
			}()
		}
	}
}

// SpectateHandler streams the fully redacted room view to a read-only
// observer. It rides the pub/sub fan-out, so it requires Redis.
//
// GET /room/watch/{room_code}
func (s *GameServer) SpectateHandler(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/room/watch/")
	g, ok := s.lookupRoom(code)
	if !ok {
		writeError(w, game.ErrRoomNotFound)
		return
	}
	if cache.Rdb == nil {
		http.Error(w, "spectating requires the event stream", http.StatusServiceUnavailable)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:       []string{"gavel"},
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.Logger.Errorf("websocket accept failed for spectator on room %s: %v", code, err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "closing")

	ctx := r.Context()
	g.Mu.Lock()
	view := g.ViewFor(uuid.Nil)
	g.Mu.Unlock()
	if err := sendWsMessage(ctx, conn, wsStateMessage(view)); err != nil {
		return
	}

	unsubscribe, err := cache.SubscribeRoom(ctx, g.RoomCode, func(data []byte) {
		writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := conn.Write(writeCtx, websocket.MessageText, data); err != nil {
			s.Logger.Debugf("spectator write failed in room %s: %v", g.RoomCode, err)
		}
	})
	if err != nil {
		s.Logger.Warnf("failed to subscribe spectator to room %s: %v", g.RoomCode, err)
		conn.Close(websocket.StatusInternalError, "event stream unavailable")
		return
	}
	defer unsubscribe()

	// Hold the socket open, draining control frames, until the spectator
	// leaves.
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}

type wsOutbound struct {
	conn    *websocket.Conn
	payload []byte
}

// createBroadcastFunc builds the per-room broadcast callback. It runs with
// the game lock held, so it snapshots per-player views and the persistence
// payload synchronously and does all network sends on goroutines.
func (s *GameServer) createBroadcastFunc() func(*game.Game) {
	return func(g *game.Game) {
		var outbound []wsOutbound
		for _, p := range g.Players {
			if p.Conn == nil {
				continue
			}
			data, err := json.Marshal(wsStateMessage(g.ViewFor(p.ID)))
			if err != nil {
				s.Logger.Errorf("failed to marshal view for %s: %v", p.ID, err)
				continue
			}
			outbound = append(outbound, wsOutbound{conn: p.Conn, payload: data})
		}

		var snapshot, spectatorView []byte
		if cache.Rdb != nil {
			var err error
			snapshot, err = json.Marshal(g)
			if err != nil {
				s.Logger.Errorf("failed to marshal room %s snapshot: %v", g.RoomCode, err)
			}
			// The published view is fully redacted (no hands, no sealed
			// amounts); the durable snapshot stays complete for restores.
			spectatorView, err = json.Marshal(wsStateMessage(g.ViewFor(uuid.Nil)))
			if err != nil {
				s.Logger.Errorf("failed to marshal room %s spectator view: %v", g.RoomCode, err)
			}
		}
		roomCode := g.RoomCode

		go func() {
			for _, out := range outbound {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				err := out.conn.Write(ctx, websocket.MessageText, out.payload)
				cancel()
				if err != nil {
					s.Logger.Debugf("broadcast write failed in room %s: %v", roomCode, err)
				}
			}
			if snapshot != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := cache.SaveRoomState(ctx, roomCode, snapshot); err != nil {
					s.Logger.Warnf("failed to persist room %s: %v", roomCode, err)
				}
			}
			if spectatorView != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := cache.PublishRoomState(ctx, roomCode, spectatorView); err != nil {
					s.Logger.Warnf("failed to publish room %s: %v", roomCode, err)
				}
			}
		}()
	}
}

// wsStateMessage wraps a view in the outbound envelope clients switch on.
func wsStateMessage(view game.GameView) map[string]interface{} {
	return map[string]interface{}{
		"type":  "state",
		"state": view,
	}
}
