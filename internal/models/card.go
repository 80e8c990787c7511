// internal/models/card.go
package models

import "strings"

// Artist is one of the five painters whose works circulate in the game.
type Artist string

const (
	ManuelCarvalho Artist = "Manuel Carvalho"
	SigridThaler   Artist = "Sigrid Thaler"
	DanielMelim    Artist = "Daniel Melim"
	RamonMartins   Artist = "Ramon Martins"
	RafaelSilveira Artist = "Rafael Silveira"
)

// ArtistOrder is the fixed precedence order used for ranking tie-breaks.
var ArtistOrder = []Artist{
	ManuelCarvalho,
	SigridThaler,
	DanielMelim,
	RamonMartins,
	RafaelSilveira,
}

// ArtistRank returns the precedence index of a, or len(ArtistOrder) if unknown.
func ArtistRank(a Artist) int {
	for i, other := range ArtistOrder {
		if other == a {
			return i
		}
	}
	return len(ArtistOrder)
}

// Slug returns the lowercase, dash-separated form used in card ids and image seeds.
func (a Artist) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(a)), " ", "-")
}

// AuctionType tags a card with the auction mechanism used to sell it.
type AuctionType string

const (
	AuctionOpen       AuctionType = "open"
	AuctionOneOffer   AuctionType = "one_offer"
	AuctionHidden     AuctionType = "hidden"
	AuctionFixedPrice AuctionType = "fixed_price"
	AuctionDouble     AuctionType = "double"
)

// Card is an immutable painting card. Cards are created once at deck build
// time and never mutated afterward.
type Card struct {
	ID       string      `json:"id"`
	Artist   Artist      `json:"artist"`
	Type     AuctionType `json:"auctionType"`
	ImageURL string      `json:"imageUrl"`
}
