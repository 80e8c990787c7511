// internal/game/game.go
package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/artfolk/gavel/internal/models"
)

// Phase is one of the top-level game states.
type Phase string

const (
	PhaseSetup          Phase = "SETUP"
	PhaseAuctionStart   Phase = "AUCTION_START"
	PhaseAuctionBidding Phase = "AUCTION_BIDDING"
	PhaseScoring        Phase = "SCORING"
	PhaseGameOver       Phase = "GAME_OVER"
)

// actionLogCap bounds the action log; the most recent entry comes first.
const actionLogCap = 20

// Describer supplies flavor text for a painting under auction. It must never
// fail; implementations return a fallback string instead.
type Describer interface {
	Describe(ctx context.Context, artist models.Artist, cardID string) string
}

// PlayedCard pairs an artist with a card sold this round.
type PlayedCard struct {
	Artist models.Artist `json:"artist"`
	Card   *models.Card  `json:"card"`
}

// Game holds the entire authoritative state for a single room in memory. All
// mutation goes through HandleAction (or AddPlayer during setup) under Mu;
// each accepted mutation increments Version, so stale snapshots are
// detectable downstream.
type Game struct {
	RoomCode string    `json:"roomCode"`
	HostID   uuid.UUID `json:"hostId"`

	Players []*models.Player `json:"players"`
	Round   int              `json:"round"`
	Phase   Phase            `json:"phase"`

	Deck            []*models.Card `json:"deck"`
	PlayedThisRound []PlayedCard   `json:"playedCardsThisRound"`
	Values          ValuationBoard `json:"artistValues"`

	TurnOrder    []uuid.UUID `json:"turnOrder"`
	AuctioneerID uuid.UUID   `json:"currentAuctioneerId"`
	ActorID      uuid.UUID   `json:"currentPlayerId"`

	Auction      *AuctionState `json:"auctionState,omitempty"`
	RoundEndCard *models.Card  `json:"roundEndCard,omitempty"`

	ActionLog []string `json:"actionLog"`
	Version   int64    `json:"version"`

	auctionSeq int64
	rng        *rand.Rand

	Mu sync.Mutex `json:"-"`

	// BroadcastFn, if set, is invoked with Mu held after every accepted
	// mutation. Implementations read what they need synchronously and send
	// asynchronously.
	BroadcastFn func(*Game) `json:"-"`

	// Describer, if set, is queried asynchronously when an auction starts.
	Describer Describer `json:"-"`
}

// NewGame creates a room in the Setup phase with the host as its only
// player. It returns the game and the host's player id.
func NewGame(roomCode, hostName string) (*Game, uuid.UUID) {
	hostID := uuid.New()
	g := &Game{
		RoomCode: roomCode,
		HostID:   hostID,
		Players: []*models.Player{{
			ID:        hostID,
			Name:      hostName,
			Money:     InitialMoney,
			Hand:      []*models.Card{},
			Purchased: []*models.Card{},
		}},
		Round:        1,
		Phase:        PhaseSetup,
		Values:       NewValuationBoard(),
		AuctioneerID: hostID,
		ActorID:      hostID,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	g.appendLog("Room created by %s. Waiting for players...", hostName)
	return g, hostID
}

// AddPlayer seats a new player during Setup. It fails with ErrRoomFull or
// ErrGameAlreadyStarted without mutating state.
func (g *Game) AddPlayer(name string) (uuid.UUID, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Phase != PhaseSetup {
		return uuid.Nil, ErrGameAlreadyStarted
	}
	if len(g.Players) >= MaxPlayers {
		return uuid.Nil, ErrRoomFull
	}
	p := &models.Player{
		ID:        uuid.New(),
		Name:      name,
		Money:     InitialMoney,
		Hand:      []*models.Card{},
		Purchased: []*models.Card{},
	}
	g.Players = append(g.Players, p)
	g.appendLog("%s has joined the room.", name)
	g.commit()
	return p.ID, nil
}

// phaseActions is the central gate: which action types are legal in which
// phase. GAME_OVER is terminal; nothing is legal there.
var phaseActions = map[Phase]map[string]bool{
	PhaseSetup: {
		models.ActionStartGame: true,
	},
	PhaseAuctionStart: {
		models.ActionStartAuction: true,
	},
	PhaseAuctionBidding: {
		models.ActionPlaceBid:            true,
		models.ActionPassBid:             true,
		models.ActionPlaceHiddenBid:      true,
		models.ActionRevealHiddenBids:    true,
		models.ActionSetFixedPrice:       true,
		models.ActionAcceptFixedPrice:    true,
		models.ActionPassFixedPrice:      true,
		models.ActionAddSecondDoubleCard: true,
		models.ActionPassOnDouble:        true,
		models.ActionResolveAuction:      true,
	},
	PhaseScoring: {
		models.ActionStartNextRound: true,
	},
	PhaseGameOver: {},
}

// HandleAction validates and applies one player action. Rejected actions
// return an error from the taxonomy in errors.go and leave state (and
// Version) untouched.
func (g *Game) HandleAction(playerID uuid.UUID, action models.GameAction) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.gateAction(playerID, action.Type); err != nil {
		return err
	}

	var err error
	switch action.Type {
	case models.ActionStartGame:
		err = g.startGame()
	case models.ActionStartAuction:
		err = g.startAuction(action.CardID())
	case models.ActionPlaceBid:
		err = g.withAmount(action, func(amount int) error { return g.placeBid(playerID, amount) })
	case models.ActionPassBid:
		err = g.passBid(playerID)
	case models.ActionPlaceHiddenBid:
		err = g.withAmount(action, func(amount int) error { return g.placeHiddenBid(playerID, amount) })
	case models.ActionRevealHiddenBids:
		err = g.revealHiddenBids()
	case models.ActionSetFixedPrice:
		err = g.withAmount(action, func(price int) error { return g.setFixedPrice(price) })
	case models.ActionAcceptFixedPrice:
		err = g.acceptFixedPrice(playerID)
	case models.ActionPassFixedPrice:
		err = g.passFixedPrice(playerID)
	case models.ActionAddSecondDoubleCard:
		err = g.addSecondDoubleCard(playerID, action.CardID())
	case models.ActionPassOnDouble:
		err = g.passOnDouble(playerID)
	case models.ActionResolveAuction:
		err = g.resolveAuction()
	case models.ActionStartNextRound:
		err = g.settleRound()
	default:
		err = invalidf("unknown action type %q", action.Type)
	}
	if err != nil {
		return err
	}
	g.commit()
	return nil
}

// gateAction applies the phase table and the actor gate. Sealed hidden bids
// are simultaneous, so place_hidden_bid only requires a seat.
func (g *Game) gateAction(playerID uuid.UUID, actionType string) error {
	if !phaseActions[g.Phase][actionType] {
		return ErrWrongPhase
	}
	if g.playerByID(playerID) == nil {
		return ErrNotYourTurn
	}
	if actionType == models.ActionPlaceHiddenBid {
		return nil
	}
	if playerID != g.ActorID {
		return ErrNotYourTurn
	}
	return nil
}

// withAmount rejects actions whose payload lacks a numeric amount.
func (g *Game) withAmount(action models.GameAction, fn func(int) error) error {
	amount, ok := action.Amount()
	if !ok {
		return invalidf("missing amount")
	}
	return fn(amount)
}

// startGame shuffles the seating into a fixed turn order, shuffles the deck,
// deals round-1 hands and opens the first auction turn.
func (g *Game) startGame() error {
	n := len(g.Players)
	count, err := DealCount(n, 1)
	if err != nil {
		return err
	}

	g.rng.Shuffle(n, func(i, j int) {
		g.Players[i], g.Players[j] = g.Players[j], g.Players[i]
	})
	deck := BuildDeck()
	g.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	g.TurnOrder = make([]uuid.UUID, n)
	for i, p := range g.Players {
		g.TurnOrder[i] = p.ID
		p.Hand = append(p.Hand, deck[:count]...)
		deck = deck[count:]
	}
	g.Deck = deck

	g.AuctioneerID = g.TurnOrder[0]
	g.ActorID = g.AuctioneerID
	g.Phase = PhaseAuctionStart
	g.appendLog("It's %s's turn to auction.", g.playerByID(g.AuctioneerID).Name)
	g.appendLog("Game started with %d players. Round 1 begins.", n)
	log.Infof("room %s: game started with %d players", g.RoomCode, n)
	return nil
}

// startAuction removes the card from the auctioneer's hand and opens the
// protocol matching its auction type. Flavor text is fetched asynchronously
// and patched in if the auction is still current when it arrives.
func (g *Game) startAuction(cardID string) error {
	auctioneer := g.playerByID(g.AuctioneerID)
	card := auctioneer.HandCard(cardID)
	if card == nil {
		return invalidf("card %q is not in your hand", cardID)
	}
	auctioneer.RemoveFromHand(cardID)

	g.auctionSeq++
	protocol := card.Type
	var partner uuid.UUID
	if protocol == models.AuctionDouble {
		partner = g.doublePartner(g.AuctioneerID, card.Artist)
		if partner == uuid.Nil {
			// No eligible second card anywhere: the double card sells alone
			// under open rules.
			protocol = models.AuctionOpen
		}
	}
	a := newAuctionState(g.auctionSeq, g.AuctioneerID, protocol, card)
	if partner != uuid.Nil {
		a.Double = &DoublePending{PartnerID: partner}
	}
	g.Auction = a
	g.Phase = PhaseAuctionBidding
	g.appendLog("%s puts %q by %s up for auction.", auctioneer.Name, card.ID, card.Artist)

	switch {
	case a.Double != nil:
		g.ActorID = a.Double.PartnerID
	case a.Hidden != nil, a.Fixed != nil:
		// Hidden bids are simultaneous and the fixed price is still unset;
		// the auctioneer holds the turn either way.
		g.ActorID = g.AuctioneerID
	default:
		g.ActorID = g.nextInOrder(g.AuctioneerID)
	}

	if g.Describer != nil {
		a.DescriptionPending = true
		go g.fetchDescription(a.Seq, card)
	}
	return nil
}

// fetchDescription asks the critic for flavor text and patches it into the
// auction if it is still the current one. A late arrival after resolution is
// dropped.
func (g *Game) fetchDescription(seq int64, card *models.Card) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	text := g.Describer.Describe(ctx, card.Artist, card.ID)

	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Auction == nil || g.Auction.Seq != seq {
		log.Debugf("room %s: dropping late description for %s", g.RoomCode, card.ID)
		return
	}
	g.Auction.Description = text
	g.Auction.DescriptionPending = false
	g.commit()
}

// commit finalizes an accepted mutation: bump the version and broadcast.
// Callers hold Mu.
func (g *Game) commit() {
	g.Version++
	if g.BroadcastFn != nil {
		g.BroadcastFn(g)
	}
}

// Rehydrate reinitializes the unexported runtime state after a game is
// decoded from a stored snapshot.
func (g *Game) Rehydrate() {
	g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	g.auctionSeq = g.Version
}

// appendLog prepends a formatted entry, trimming to the cap.
func (g *Game) appendLog(format string, args ...interface{}) {
	entry := fmt.Sprintf(format, args...)
	g.ActionLog = append([]string{entry}, g.ActionLog...)
	if len(g.ActionLog) > actionLogCap {
		g.ActionLog = g.ActionLog[:actionLogCap]
	}
}

func (g *Game) playerByID(id uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// nextInOrder returns the player after the given one in the fixed turn
// order, wrapping around.
func (g *Game) nextInOrder(after uuid.UUID) uuid.UUID {
	for i, pid := range g.TurnOrder {
		if pid == after {
			return g.TurnOrder[(i+1)%len(g.TurnOrder)]
		}
	}
	return after
}

// nextNonPassed returns the next player in turn order who has not passed.
func (g *Game) nextNonPassed(after uuid.UUID, passed map[uuid.UUID]bool) uuid.UUID {
	pid := g.nextInOrder(after)
	for i := 0; i < len(g.TurnOrder); i++ {
		if !passed[pid] {
			return pid
		}
		pid = g.nextInOrder(pid)
	}
	return after
}

// playedCounts tallies cards sold this round per artist.
func (g *Game) playedCounts() map[models.Artist]int {
	counts := make(map[models.Artist]int)
	for _, pc := range g.PlayedThisRound {
		counts[pc.Artist]++
	}
	return counts
}
