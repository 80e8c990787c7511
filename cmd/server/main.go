// cmd/server/main.go
package main

import (
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/artfolk/gavel/internal/auth"
	"github.com/artfolk/gavel/internal/cache"
	"github.com/artfolk/gavel/internal/critic"
	"github.com/artfolk/gavel/internal/handlers"
	"github.com/artfolk/gavel/internal/middleware"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	auth.Init()

	if err := cache.ConnectRedis(); err != nil {
		// The engine runs fine without Redis; rooms just won't survive a
		// process restart.
		logger.Warnf("continuing without Redis: %v", err)
	}

	gameServer := handlers.NewGameServer(logger, critic.NewFromEnv(logger))

	mux := http.NewServeMux()
	mux.HandleFunc("/room/create", gameServer.CreateRoomHandler)
	mux.HandleFunc("/room/join", gameServer.JoinRoomHandler)
	mux.HandleFunc("/room/state/", gameServer.RoomStateHandler)
	mux.HandleFunc("/room/ws/", gameServer.GameWSHandler)
	mux.HandleFunc("/room/watch/", gameServer.SpectateHandler)

	handler := middleware.LogMiddleware(logger)(mux)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	logger.Infof("auction server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}
