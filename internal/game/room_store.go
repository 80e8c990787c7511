package game

import (
	"math/rand"
	"strings"
	"sync"
)

// roomCodeAlphabet excludes nothing; codes are matched case-insensitively.
const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RoomCodeLength is the fixed length of a room token.
const RoomCodeLength = 4

// RoomStore holds the live games of this process, keyed by room code.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[string]*Game
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*Game),
	}
}

// NormalizeRoomCode maps user input onto the canonical (uppercase) form.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewRoomCode generates a code not currently in use by this store.
func (s *RoomStore) NewRoomCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		b := make([]byte, RoomCodeLength)
		for i := range b {
			b[i] = roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))]
		}
		code := string(b)
		if _, taken := s.rooms[code]; !taken {
			return code
		}
	}
}

func (s *RoomStore) Add(g *Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[NormalizeRoomCode(g.RoomCode)] = g
}

func (s *RoomStore) Get(code string) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.rooms[NormalizeRoomCode(code)]
	return g, exists
}

func (s *RoomStore) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, NormalizeRoomCode(code))
}
