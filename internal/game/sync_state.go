// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"

	"github.com/artfolk/gavel/internal/models"
)

// ViewPlayer is one seat as seen by a requesting player. Only the requester's
// own hand is included; everyone else shows a hand size.
type ViewPlayer struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Money     int            `json:"money"`
	HandSize  int            `json:"handSize"`
	Hand      []*models.Card `json:"hand,omitempty"`
	Purchased []*models.Card `json:"purchasedPaintings"`
	Connected bool           `json:"connected"`
	IsActor   bool           `json:"isCurrentTurn"`
}

// HiddenView redacts sealed amounts until the reveal. SealedBy always shows
// who has committed; Bids appears only after Revealed, except the
// requester's own amount, which is echoed back as MyBid.
type HiddenView struct {
	SealedBy []uuid.UUID       `json:"sealedBy"`
	Revealed bool              `json:"revealed"`
	Bids     map[uuid.UUID]int `json:"bids,omitempty"`
	MyBid    *int              `json:"myBid,omitempty"`
}

// AuctionView is the client-facing auction state.
type AuctionView struct {
	Cards        []*models.Card     `json:"cards"`
	AuctioneerID uuid.UUID          `json:"auctioneerId"`
	Type         models.AuctionType `json:"type"`

	Open     *OpenBidding     `json:"open,omitempty"`
	OneOffer *OneOfferBidding `json:"oneOffer,omitempty"`
	Hidden   *HiddenView      `json:"hidden,omitempty"`
	Fixed    *FixedSale       `json:"fixed,omitempty"`
	Double   *DoublePending   `json:"double,omitempty"`

	Description        string `json:"description,omitempty"`
	DescriptionPending bool   `json:"descriptionPending"`
}

// GameView is the full-state snapshot broadcast to a participant.
type GameView struct {
	RoomCode        string         `json:"roomCode"`
	HostID          uuid.UUID      `json:"hostId"`
	Players         []ViewPlayer   `json:"players"`
	Round           int            `json:"round"`
	Phase           Phase          `json:"phase"`
	DeckSize        int            `json:"deckSize"`
	PlayedThisRound []PlayedCard   `json:"playedCardsThisRound"`
	Values          ValuationBoard `json:"artistValues"`
	TurnOrder       []uuid.UUID    `json:"turnOrder"`
	AuctioneerID    uuid.UUID      `json:"currentAuctioneerId"`
	ActorID         uuid.UUID      `json:"currentPlayerId"`
	Auction         *AuctionView   `json:"auctionState,omitempty"`
	RoundEndCard    *models.Card   `json:"roundEndCard,omitempty"`
	ActionLog       []string       `json:"actionLog"`
	Version         int64          `json:"version"`
}

// ViewFor builds the snapshot of the game as seen by forPlayer. The caller
// must hold g.Mu.
func (g *Game) ViewFor(forPlayer uuid.UUID) GameView {
	view := GameView{
		RoomCode:        g.RoomCode,
		HostID:          g.HostID,
		Round:           g.Round,
		Phase:           g.Phase,
		DeckSize:        len(g.Deck),
		PlayedThisRound: g.PlayedThisRound,
		Values:          g.Values,
		TurnOrder:       g.TurnOrder,
		AuctioneerID:    g.AuctioneerID,
		ActorID:         g.ActorID,
		RoundEndCard:    g.RoundEndCard,
		ActionLog:       g.ActionLog,
		Version:         g.Version,
	}

	for _, p := range g.Players {
		vp := ViewPlayer{
			ID:        p.ID,
			Name:      p.Name,
			Money:     p.Money,
			HandSize:  len(p.Hand),
			Purchased: p.Purchased,
			Connected: p.Connected,
			IsActor:   p.ID == g.ActorID,
		}
		if p.ID == forPlayer {
			vp.Hand = p.Hand
		}
		view.Players = append(view.Players, vp)
	}

	if g.Auction != nil {
		view.Auction = g.auctionViewFor(forPlayer)
	}
	return view
}

func (g *Game) auctionViewFor(forPlayer uuid.UUID) *AuctionView {
	a := g.Auction
	av := &AuctionView{
		Cards:              a.Cards,
		AuctioneerID:       a.AuctioneerID,
		Type:               a.Type,
		Open:               a.Open,
		OneOffer:           a.OneOffer,
		Fixed:              a.Fixed,
		Double:             a.Double,
		Description:        a.Description,
		DescriptionPending: a.DescriptionPending,
	}
	if a.Hidden != nil {
		hv := &HiddenView{Revealed: a.Hidden.Revealed}
		for _, pid := range g.TurnOrder {
			if _, ok := a.Hidden.Sealed[pid]; ok {
				hv.SealedBy = append(hv.SealedBy, pid)
			}
		}
		if a.Hidden.Revealed {
			hv.Bids = a.Hidden.Sealed
		} else if amt, ok := a.Hidden.Sealed[forPlayer]; ok {
			mine := amt
			hv.MyBid = &mine
		}
		av.Hidden = hv
	}
	return av
}
