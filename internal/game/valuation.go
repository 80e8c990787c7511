// internal/game/valuation.go
package game

import (
	"sort"

	"github.com/artfolk/gavel/internal/models"
)

// RankBonuses are credited to the top three ranked artists at settlement.
var RankBonuses = [3]int{30, 20, 10}

// ValuationBoard records, per artist, the bonus set at each round's
// settlement. A nil slot means the artist did not place in the top three that
// round. A slot, once set, is permanent.
type ValuationBoard map[models.Artist][]*int

// NewValuationBoard returns a board with all slots unset.
func NewValuationBoard() ValuationBoard {
	b := make(ValuationBoard, len(models.ArtistOrder))
	for _, a := range models.ArtistOrder {
		b[a] = make([]*int, TotalRounds)
	}
	return b
}

// Record sets the bonus for the artist in the given round's slot (1-based).
// Recording over an already-set slot is a no-op.
func (b ValuationBoard) Record(artist models.Artist, round, bonus int) {
	slots := b[artist]
	if slots == nil || round < 1 || round > len(slots) || slots[round-1] != nil {
		return
	}
	v := bonus
	slots[round-1] = &v
}

// TotalValue is the current value of one painting by the artist: the sum of
// all set slots, with unset slots counting as zero.
func (b ValuationBoard) TotalValue(artist models.Artist) int {
	total := 0
	for _, s := range b[artist] {
		if s != nil {
			total += *s
		}
	}
	return total
}

// RankArtists orders the artists played this round by played-card count
// descending. Ties break by the fixed artist precedence order; artists with
// no plays are excluded.
func RankArtists(counts map[models.Artist]int) []models.Artist {
	ranked := make([]models.Artist, 0, len(models.ArtistOrder))
	for _, a := range models.ArtistOrder {
		if counts[a] > 0 {
			ranked = append(ranked, a)
		}
	}
	// Stable sort keeps the precedence order for equal counts.
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	return ranked
}
