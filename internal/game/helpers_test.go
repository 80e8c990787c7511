package game

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/artfolk/gavel/internal/models"
)

// setupBiddingGame builds a game mid-flight with n seated players, a fixed
// turn order and the first player as host and auctioneer, ready to open an
// auction.
func setupBiddingGame(n int) (*Game, []uuid.UUID) {
	g := &Game{
		RoomCode: "TEST",
		Round:    1,
		Phase:    PhaseAuctionStart,
		Values:   NewValuationBoard(),
		rng:      rand.New(rand.NewSource(1)),
	}
	ids := make([]uuid.UUID, n)
	for i := 0; i < n; i++ {
		id := uuid.New()
		ids[i] = id
		g.Players = append(g.Players, &models.Player{
			ID:        id,
			Name:      fmt.Sprintf("player%d", i),
			Money:     InitialMoney,
			Hand:      []*models.Card{},
			Purchased: []*models.Card{},
		})
		g.TurnOrder = append(g.TurnOrder, id)
	}
	g.HostID = ids[0]
	g.AuctioneerID = ids[0]
	g.ActorID = ids[0]
	return g, ids
}

// giveCard places a card with the given attributes into the player's hand.
func giveCard(g *Game, pid uuid.UUID, artist models.Artist, at models.AuctionType, id string) *models.Card {
	card := &models.Card{ID: id, Artist: artist, Type: at}
	p := g.playerByID(pid)
	p.Hand = append(p.Hand, card)
	return card
}

// do submits an action and requires it to be accepted.
func do(t *testing.T, g *Game, pid uuid.UUID, actionType string, payload map[string]interface{}) {
	t.Helper()
	err := g.HandleAction(pid, models.GameAction{Type: actionType, Payload: payload})
	require.NoError(t, err, "action %s by %s", actionType, pid)
}

func amountPayload(amount int) map[string]interface{} {
	return map[string]interface{}{"amount": float64(amount)}
}

func cardPayload(id string) map[string]interface{} {
	return map[string]interface{}{"id": id}
}
