// internal/handlers/game_server.go
package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/artfolk/gavel/internal/cache"
	"github.com/artfolk/gavel/internal/game"
)

// GameServer holds the shared dependencies of the HTTP and websocket
// handlers: the live room registry, a logger, and the flavor-text source
// wired into every new game.
type GameServer struct {
	Rooms     *game.RoomStore
	Logger    *logrus.Logger
	Describer game.Describer
}

func NewGameServer(logger *logrus.Logger, describer game.Describer) *GameServer {
	return &GameServer{
		Rooms:     game.NewRoomStore(),
		Logger:    logger,
		Describer: describer,
	}
}

// lookupRoom finds the room in memory, falling back to the durable snapshot
// so rooms survive a process restart while Redis is connected.
func (s *GameServer) lookupRoom(code string) (*game.Game, bool) {
	if g, ok := s.Rooms.Get(code); ok {
		return g, true
	}
	if cache.Rdb == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	data, err := cache.LoadRoomState(ctx, game.NormalizeRoomCode(code))
	if err != nil {
		return nil, false
	}

	g := &game.Game{}
	if err := json.Unmarshal(data, g); err != nil {
		s.Logger.Errorf("failed to decode stored room %s: %v", code, err)
		return nil, false
	}
	g.Rehydrate()
	g.Describer = s.Describer
	g.BroadcastFn = s.createBroadcastFunc()
	s.Rooms.Add(g)
	s.Logger.Infof("room %s restored from snapshot", g.RoomCode)
	return g, true
}
