// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup; a
// nil client means the service runs without a durable store.
var Rdb *redis.Client

// DefaultQueueName is the Redis list (queue) name for accepted action records.
var DefaultQueueName = "gavel_actions"

const (
	stateKeyPrefix = "gavel:room:"
	channelPrefix  = "gavel:events:"
)

// ErrNoState indicates no snapshot is stored under the room code.
var ErrNoState = errors.New("no stored state for room")

// ActionRecord holds one accepted player action for the log queue.
type ActionRecord struct {
	RoomCode  string                 `json:"room_code"`
	ActorID   uuid.UUID              `json:"actor_id"`
	Action    string                 `json:"action"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Version   int64                  `json:"version"`
	Timestamp int64                  `json:"timestamp"`
}

// ConnectRedis initializes the global Redis client with environment
// variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis() error {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		Rdb = nil
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

func roomKey(roomCode string) string {
	return stateKeyPrefix + strings.ToUpper(roomCode)
}

func roomChannel(roomCode string) string {
	return channelPrefix + strings.ToUpper(roomCode)
}

// SaveRoomState stores the full authoritative snapshot under the room key.
// The TTL (ROOM_TTL, default 24h) bounds the room's lifetime; nothing
// outlives it.
func SaveRoomState(ctx context.Context, roomCode string, data []byte) error {
	ttl := getEnvDuration("ROOM_TTL", 24*time.Hour)
	if err := Rdb.Set(ctx, roomKey(roomCode), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save state for room %s: %w", roomCode, err)
	}
	return nil
}

// LoadRoomState fetches the stored snapshot for the room, or ErrNoState.
func LoadRoomState(ctx context.Context, roomCode string) ([]byte, error) {
	data, err := Rdb.Get(ctx, roomKey(roomCode)).Bytes()
	if err == redis.Nil {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state for room %s: %w", roomCode, err)
	}
	return data, nil
}

// PublishRoomState pushes the snapshot to the room's pub/sub channel so
// other subscribers (or processes) see every state change.
func PublishRoomState(ctx context.Context, roomCode string, data []byte) error {
	if err := Rdb.Publish(ctx, roomChannel(roomCode), data).Err(); err != nil {
		return fmt.Errorf("failed to publish state for room %s: %w", roomCode, err)
	}
	return nil
}

// SubscribeRoom invokes onUpdate with every snapshot published for the room
// until the returned unsubscribe function is called or ctx is done.
func SubscribeRoom(ctx context.Context, roomCode string, onUpdate func([]byte)) (func(), error) {
	sub := Rdb.Subscribe(ctx, roomChannel(roomCode))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe to room %s: %w", roomCode, err)
	}
	go func() {
		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				onUpdate([]byte(msg.Payload))
			case <-ctx.Done():
				return
			}
		}
	}()
	return func() { sub.Close() }, nil
}

// PushActionRecord serializes the record and pushes it to the action queue.
// This does not block game logic beyond a quick network send.
func PushActionRecord(ctx context.Context, record ActionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal ActionRecord: %w", err)
	}
	queueName := getEnv("ACTION_QUEUE_NAME", DefaultQueueName)
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list %q: %w", queueName, err)
	}
	return nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// getEnvDuration parses an environment variable as a duration, else a default.
func getEnvDuration(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
