// internal/game/deck.go
package game

import (
	"fmt"

	"github.com/artfolk/gavel/internal/models"
)

const (
	// InitialMoney is every player's starting balance.
	InitialMoney = 100

	// RoundEndPaintingCount is the played-card count for a single artist that
	// ends the round.
	RoundEndPaintingCount = 5

	// MinPlayers and MaxPlayers bound the supported room sizes.
	MinPlayers = 3
	MaxPlayers = 5

	// TotalRounds is the number of rounds in a full game.
	TotalRounds = 4

	// DeckSize is the fixed number of painting cards in the catalog.
	DeckSize = 70
)

var auctionTypeOrder = []models.AuctionType{
	models.AuctionOpen,
	models.AuctionOneOffer,
	models.AuctionHidden,
	models.AuctionFixedPrice,
	models.AuctionDouble,
}

// cardCounts gives each artist's card count per auction type, indexed in
// auctionTypeOrder. Row sums: 12, 13, 15, 15, 15 = 70.
var cardCounts = map[models.Artist][5]int{
	models.ManuelCarvalho: {3, 3, 2, 2, 2},
	models.SigridThaler:   {3, 3, 3, 2, 2},
	models.DanielMelim:    {4, 3, 3, 3, 2},
	models.RamonMartins:   {4, 3, 3, 3, 2},
	models.RafaelSilveira: {4, 4, 3, 2, 2},
}

// BuildDeck deterministically enumerates the full 70-card catalog. Ids are
// 0-based per (artist, auction type) pair, so they are stable across builds
// and collision-free; the image seed index runs per artist.
func BuildDeck() []*models.Card {
	deck := make([]*models.Card, 0, DeckSize)
	for _, artist := range models.ArtistOrder {
		counts := cardCounts[artist]
		imageIdx := 0
		for ti, at := range auctionTypeOrder {
			for i := 0; i < counts[ti]; i++ {
				deck = append(deck, &models.Card{
					ID:       fmt.Sprintf("%s-%s-%d", artist.Slug(), at, i),
					Artist:   artist,
					Type:     at,
					ImageURL: fmt.Sprintf("https://picsum.photos/seed/%s_%d/200/300", artist.Slug(), imageIdx),
				})
				imageIdx++
			}
		}
	}
	return deck
}

// dealTable maps player count to the number of cards dealt to each player at
// the start of rounds 1 through 4.
var dealTable = map[int][TotalRounds]int{
	3: {10, 6, 6, 0},
	4: {9, 4, 4, 0},
	5: {8, 3, 3, 0},
}

// DealCount returns how many cards each player is dealt at the start of the
// given round (1-based). Player counts outside 3-5 are a ConfigurationError.
func DealCount(numPlayers, round int) (int, error) {
	rounds, ok := dealTable[numPlayers]
	if !ok {
		return 0, &ConfigurationError{
			Reason: fmt.Sprintf("unsupported player count %d (need %d-%d)", numPlayers, MinPlayers, MaxPlayers),
		}
	}
	if round < 1 || round > TotalRounds {
		return 0, &ConfigurationError{Reason: fmt.Sprintf("round %d out of range", round)}
	}
	return rounds[round-1], nil
}
