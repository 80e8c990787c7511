package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player is one seat in a room. The hand is owned exclusively by the player;
// Purchased holds paintings won this round and is cleared at settlement.
type Player struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Money     int             `json:"money"`
	Hand      []*Card         `json:"hand"`
	Purchased []*Card         `json:"purchasedPaintings"`
	Connected bool            `json:"connected"`
	Conn      *websocket.Conn `json:"-"`
}

// HandCard returns the card with the given id from the player's hand, or nil.
func (p *Player) HandCard(cardID string) *Card {
	for _, c := range p.Hand {
		if c.ID == cardID {
			return c
		}
	}
	return nil
}

// RemoveFromHand removes the card with the given id from the hand and reports
// whether it was present.
func (p *Player) RemoveFromHand(cardID string) bool {
	for i, c := range p.Hand {
		if c.ID == cardID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}
