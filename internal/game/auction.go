// internal/game/auction.go
package game

import (
	"github.com/google/uuid"

	"github.com/artfolk/gavel/internal/models"
)

// AuctionState is the transient state of the auction in progress. It exists
// only while the phase is AUCTION_BIDDING and is cleared the instant the
// auction resolves. Exactly one of the variant fields is non-nil, matching
// Type; each variant carries only the fields its protocol needs.
type AuctionState struct {
	Seq          int64              `json:"seq"`
	Cards        []*models.Card     `json:"cards"`
	AuctioneerID uuid.UUID          `json:"auctioneerId"`
	Type         models.AuctionType `json:"type"`

	Open     *OpenBidding     `json:"open,omitempty"`
	OneOffer *OneOfferBidding `json:"oneOffer,omitempty"`
	Hidden   *HiddenBidding   `json:"hidden,omitempty"`
	Fixed    *FixedSale       `json:"fixed,omitempty"`
	Double   *DoublePending   `json:"double,omitempty"`

	Description        string `json:"description,omitempty"`
	DescriptionPending bool   `json:"descriptionPending"`
}

// OpenBidding rotates among non-passed players; the auctioneer may bid too.
type OpenBidding struct {
	HighBid      int                `json:"highBid"`
	HighBidderID uuid.UUID          `json:"highBidderId"`
	Passed       map[uuid.UUID]bool `json:"passed"`
	Acted        bool               `json:"acted"`
	Closed       bool               `json:"closed"`
}

// OneOfferBidding gives each player after the auctioneer exactly one chance
// to bid or pass. The earliest bidder keeps the high bid on ties.
type OneOfferBidding struct {
	HighBid      int       `json:"highBid"`
	HighBidderID uuid.UUID `json:"highBidderId"`
	Closed       bool      `json:"closed"`
}

// HiddenBidding collects one sealed amount per player, compared only after
// the auctioneer reveals.
type HiddenBidding struct {
	Sealed   map[uuid.UUID]int `json:"sealedBids"`
	Revealed bool              `json:"revealed"`
}

// FixedSale is priced by the auctioneer, then offered to the other players in
// turn order. The first acceptance buys immediately.
type FixedSale struct {
	Price    int                `json:"price"`
	PriceSet bool               `json:"priceSet"`
	BuyerID  uuid.UUID          `json:"buyerId"`
	Declined map[uuid.UUID]bool `json:"declined"`
	Closed   bool               `json:"closed"`
}

// DoublePending waits for the partner holding an eligible second card to
// contribute it or decline. Either way the auction then runs under open
// rules.
type DoublePending struct {
	PartnerID uuid.UUID `json:"partnerId"`
}

// Result returns the terminal winner and price, and whether the protocol has
// reached its terminal condition. When nobody bid, the auctioneer wins at
// price 0.
func (a *AuctionState) Result(turnOrder []uuid.UUID) (uuid.UUID, int, bool) {
	switch {
	case a.Open != nil:
		if !a.Open.Closed {
			return uuid.Nil, 0, false
		}
		if a.Open.HighBidderID != uuid.Nil {
			return a.Open.HighBidderID, a.Open.HighBid, true
		}
		return a.AuctioneerID, 0, true
	case a.OneOffer != nil:
		if !a.OneOffer.Closed {
			return uuid.Nil, 0, false
		}
		if a.OneOffer.HighBidderID != uuid.Nil {
			return a.OneOffer.HighBidderID, a.OneOffer.HighBid, true
		}
		return a.AuctioneerID, 0, true
	case a.Hidden != nil:
		if !a.Hidden.Revealed {
			return uuid.Nil, 0, false
		}
		// Highest sealed amount wins; the turn-order walk breaks ties in
		// favor of the earlier position.
		winner := uuid.Nil
		best := 0
		for _, pid := range turnOrder {
			if amt := a.Hidden.Sealed[pid]; amt > best {
				best = amt
				winner = pid
			}
		}
		if winner == uuid.Nil {
			return a.AuctioneerID, 0, true
		}
		return winner, best, true
	case a.Fixed != nil:
		if !a.Fixed.Closed {
			return uuid.Nil, 0, false
		}
		if a.Fixed.BuyerID != uuid.Nil {
			return a.Fixed.BuyerID, a.Fixed.Price, true
		}
		// All declined: the auctioneer keeps the card, no sale.
		return a.AuctioneerID, 0, true
	}
	// A pending double contribution is never terminal.
	return uuid.Nil, 0, false
}

// newAuctionState builds the variant matching the active protocol for the
// given cards.
func newAuctionState(seq int64, auctioneerID uuid.UUID, protocol models.AuctionType, cards ...*models.Card) *AuctionState {
	a := &AuctionState{
		Seq:          seq,
		Cards:        cards,
		AuctioneerID: auctioneerID,
		Type:         protocol,
	}
	switch protocol {
	case models.AuctionOpen:
		a.Open = &OpenBidding{Passed: make(map[uuid.UUID]bool)}
	case models.AuctionOneOffer:
		a.OneOffer = &OneOfferBidding{}
	case models.AuctionHidden:
		a.Hidden = &HiddenBidding{Sealed: make(map[uuid.UUID]int)}
	case models.AuctionFixedPrice:
		a.Fixed = &FixedSale{Declined: make(map[uuid.UUID]bool)}
	}
	return a
}

// convertToOpen switches a double auction into an open auction over its
// current card set, after the partner contributed or declined.
func (a *AuctionState) convertToOpen() {
	a.Double = nil
	a.Type = models.AuctionOpen
	a.Open = &OpenBidding{Passed: make(map[uuid.UUID]bool)}
}

// placeBid handles place_bid for the open and one-offer protocols. The caller
// has already verified phase and actor.
func (g *Game) placeBid(playerID uuid.UUID, amount int) error {
	a := g.Auction
	bidder := g.playerByID(playerID)
	switch {
	case a.Open != nil:
		o := a.Open
		if amount <= o.HighBid {
			return invalidf("bid must exceed the current high bid of %d", o.HighBid)
		}
		if amount > bidder.Money {
			return invalidf("bid of %d exceeds your balance of %d", amount, bidder.Money)
		}
		o.HighBid = amount
		o.HighBidderID = playerID
		o.Acted = true
		g.appendLog("%s bids %dk.", bidder.Name, amount)
		g.advanceOpenActor(playerID)
	case a.OneOffer != nil:
		o := a.OneOffer
		if amount < 1 {
			return invalidf("bid must be at least 1")
		}
		if amount > bidder.Money {
			return invalidf("bid of %d exceeds your balance of %d", amount, bidder.Money)
		}
		// Strictly-greater replacement keeps the earliest bidder on ties.
		if amount > o.HighBid {
			o.HighBid = amount
			o.HighBidderID = playerID
		}
		g.appendLog("%s offers %dk.", bidder.Name, amount)
		g.advanceOneOfferActor(playerID)
	default:
		return invalidf("bidding is not part of a %s auction", a.Type)
	}
	return nil
}

// passBid handles pass_bid for the open and one-offer protocols.
func (g *Game) passBid(playerID uuid.UUID) error {
	a := g.Auction
	passer := g.playerByID(playerID)
	switch {
	case a.Open != nil:
		o := a.Open
		if playerID == o.HighBidderID {
			return invalidf("the high bidder cannot pass")
		}
		firstAction := !o.Acted
		o.Acted = true
		o.Passed[playerID] = true
		g.appendLog("%s passes.", passer.Name)
		if firstAction {
			// The first entrant passing ends the auction immediately; the
			// auctioneer takes the card at price 0.
			o.Closed = true
			g.ActorID = a.AuctioneerID
			return nil
		}
		g.advanceOpenActor(playerID)
	case a.OneOffer != nil:
		g.appendLog("%s passes.", passer.Name)
		g.advanceOneOfferActor(playerID)
	default:
		return invalidf("passing is not part of a %s auction", a.Type)
	}
	return nil
}

// advanceOpenActor closes the open auction if at most one non-passed player
// remains, otherwise rotates the actor to the next non-passed player.
func (g *Game) advanceOpenActor(after uuid.UUID) {
	o := g.Auction.Open
	remaining := 0
	for _, pid := range g.TurnOrder {
		if !o.Passed[pid] {
			remaining++
		}
	}
	if remaining <= 1 {
		o.Closed = true
		g.ActorID = g.Auction.AuctioneerID
		return
	}
	g.ActorID = g.nextNonPassed(after, o.Passed)
}

// advanceOneOfferActor walks the turn order once; when the walk returns to
// the auctioneer everyone has had their single chance.
func (g *Game) advanceOneOfferActor(after uuid.UUID) {
	next := g.nextInOrder(after)
	if next == g.Auction.AuctioneerID {
		g.Auction.OneOffer.Closed = true
		g.ActorID = g.Auction.AuctioneerID
		return
	}
	g.ActorID = next
}

// placeHiddenBid seals one amount for the player. Sealing is simultaneous, so
// this action is exempt from the single-actor gate.
func (g *Game) placeHiddenBid(playerID uuid.UUID, amount int) error {
	a := g.Auction
	if a.Hidden == nil {
		return invalidf("sealed bids are not part of a %s auction", a.Type)
	}
	if a.Hidden.Revealed {
		return invalidf("bids have already been revealed")
	}
	if _, dup := a.Hidden.Sealed[playerID]; dup {
		return invalidf("you have already sealed a bid")
	}
	bidder := g.playerByID(playerID)
	if amount < 0 {
		return invalidf("bid cannot be negative")
	}
	if amount > bidder.Money {
		return invalidf("bid of %d exceeds your balance of %d", amount, bidder.Money)
	}
	a.Hidden.Sealed[playerID] = amount
	// Amounts stay out of the shared log until the reveal.
	g.appendLog("%s seals a bid.", bidder.Name)
	return nil
}

// revealHiddenBids flips all sealed bids face up at once. Every player must
// have sealed first; play is purely action-driven, so a missing bid shows up
// in the snapshot rather than timing out.
func (g *Game) revealHiddenBids() error {
	a := g.Auction
	if a.Hidden == nil {
		return invalidf("there are no sealed bids to reveal")
	}
	if a.Hidden.Revealed {
		return invalidf("bids have already been revealed")
	}
	if len(a.Hidden.Sealed) < len(g.Players) {
		return invalidf("waiting for %d more sealed bids", len(g.Players)-len(a.Hidden.Sealed))
	}
	a.Hidden.Revealed = true
	for _, pid := range g.TurnOrder {
		g.appendLog("%s bid %dk.", g.playerByID(pid).Name, a.Hidden.Sealed[pid])
	}
	g.ActorID = a.AuctioneerID
	return nil
}

// setFixedPrice names the sale price and starts the turn-order walk.
func (g *Game) setFixedPrice(price int) error {
	a := g.Auction
	if a.Fixed == nil {
		return invalidf("a %s auction has no fixed price", a.Type)
	}
	if a.Fixed.PriceSet {
		return invalidf("the price has already been set")
	}
	if price < 1 {
		return invalidf("price must be at least 1")
	}
	a.Fixed.Price = price
	a.Fixed.PriceSet = true
	g.appendLog("%s offers the painting for %dk.", g.playerByID(a.AuctioneerID).Name, price)
	g.ActorID = g.nextInOrder(a.AuctioneerID)
	return nil
}

// acceptFixedPrice buys immediately at the named price.
func (g *Game) acceptFixedPrice(playerID uuid.UUID) error {
	a := g.Auction
	if a.Fixed == nil || !a.Fixed.PriceSet {
		return invalidf("there is no fixed price to accept")
	}
	buyer := g.playerByID(playerID)
	if a.Fixed.Price > buyer.Money {
		return invalidf("price of %d exceeds your balance of %d", a.Fixed.Price, buyer.Money)
	}
	a.Fixed.BuyerID = playerID
	a.Fixed.Closed = true
	g.appendLog("%s accepts the price of %dk.", buyer.Name, a.Fixed.Price)
	g.ActorID = a.AuctioneerID
	return nil
}

// passFixedPrice declines and moves the offer to the next player; when the
// walk returns to the auctioneer, everyone declined and there is no sale.
func (g *Game) passFixedPrice(playerID uuid.UUID) error {
	a := g.Auction
	if a.Fixed == nil || !a.Fixed.PriceSet {
		return invalidf("there is no fixed price to decline")
	}
	a.Fixed.Declined[playerID] = true
	g.appendLog("%s declines.", g.playerByID(playerID).Name)
	next := g.nextInOrder(playerID)
	if next == a.AuctioneerID {
		a.Fixed.Closed = true
		g.ActorID = a.AuctioneerID
		return nil
	}
	g.ActorID = next
	return nil
}

// addSecondDoubleCard contributes the partner's card, making a combined
// two-card auction run under open rules.
func (g *Game) addSecondDoubleCard(playerID uuid.UUID, cardID string) error {
	a := g.Auction
	if a.Double == nil {
		return invalidf("no second card is being awaited")
	}
	partner := g.playerByID(playerID)
	card := partner.HandCard(cardID)
	if card == nil {
		return invalidf("card %q is not in your hand", cardID)
	}
	if card.Type != models.AuctionDouble || card.Artist != a.Cards[0].Artist {
		return invalidf("the second card must be a double auction painting by %s", a.Cards[0].Artist)
	}
	partner.RemoveFromHand(cardID)
	a.Cards = append(a.Cards, card)
	a.convertToOpen()
	g.appendLog("%s adds %q to the auction. Both paintings sell together.", partner.Name, card.ID)
	g.ActorID = g.nextInOrder(a.AuctioneerID)
	return nil
}

// passOnDouble declines to contribute; the single card goes to open auction.
func (g *Game) passOnDouble(playerID uuid.UUID) error {
	a := g.Auction
	if a.Double == nil {
		return invalidf("no second card is being awaited")
	}
	g.appendLog("%s declines to add a second painting.", g.playerByID(playerID).Name)
	a.convertToOpen()
	g.ActorID = g.nextInOrder(a.AuctioneerID)
	return nil
}

// doublePartner finds the first player after the auctioneer in turn order
// holding a same-artist double card, or uuid.Nil.
func (g *Game) doublePartner(auctioneerID uuid.UUID, artist models.Artist) uuid.UUID {
	pid := g.nextInOrder(auctioneerID)
	for pid != auctioneerID {
		for _, c := range g.playerByID(pid).Hand {
			if c.Type == models.AuctionDouble && c.Artist == artist {
				return pid
			}
		}
		pid = g.nextInOrder(pid)
	}
	return uuid.Nil
}
