// internal/game/round.go
package game

import (
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/artfolk/gavel/internal/models"
)

// resolveAuction settles the active protocol's terminal result: the winner
// pays (the auctioneer, or the bank when buying their own lot), takes the
// cards, and the sold paintings count toward the round-end trigger. If no
// artist reached the trigger, the auctioneer role rotates.
func (g *Game) resolveAuction() error {
	a := g.Auction
	winnerID, price, terminal := a.Result(g.TurnOrder)
	if !terminal {
		return invalidf("the auction is still in progress")
	}

	winner := g.playerByID(winnerID)
	auctioneer := g.playerByID(a.AuctioneerID)
	winner.Money -= price
	if winnerID == a.AuctioneerID {
		g.appendLog("%s wins the auction for %dk, paying the bank.", winner.Name, price)
	} else {
		auctioneer.Money += price
		g.appendLog("%s wins the auction, paying %dk to %s.", winner.Name, price, auctioneer.Name)
	}

	winner.Purchased = append(winner.Purchased, a.Cards...)
	for _, c := range a.Cards {
		g.PlayedThisRound = append(g.PlayedThisRound, PlayedCard{Artist: c.Artist, Card: c})
	}
	soldCards := a.Cards
	g.Auction = nil

	counts := g.playedCounts()
	for _, c := range soldCards {
		if counts[c.Artist] >= RoundEndPaintingCount {
			g.RoundEndCard = c
			g.Phase = PhaseScoring
			g.ActorID = g.HostID
			g.appendLog("The 5th painting by %s has been played! The round ends.", c.Artist)
			log.Infof("room %s: round %d ended on %s", g.RoomCode, g.Round, c.ID)
			return nil
		}
	}

	next := g.nextInOrder(g.AuctioneerID)
	g.AuctioneerID = next
	g.ActorID = next
	g.Phase = PhaseAuctionStart
	g.appendLog("Play passes to %s.", g.playerByID(next).Name)
	return nil
}

// settleRound ranks the artists played this round, records their bonuses,
// pays out every purchased top-three painting at the artist's total recorded
// value, and either ends the game after round 4 or deals the next round.
func (g *Game) settleRound() error {
	counts := g.playedCounts()
	ranked := RankArtists(counts)

	g.appendLog("End of Round %d rankings: 1st: %s, 2nd: %s, 3rd: %s.",
		g.Round, rankedName(ranked, 0), rankedName(ranked, 1), rankedName(ranked, 2))

	topThree := make(map[models.Artist]bool, 3)
	for i, artist := range ranked {
		if i >= len(RankBonuses) {
			break
		}
		g.Values.Record(artist, g.Round, RankBonuses[i])
		topThree[artist] = true
	}

	for _, pid := range g.TurnOrder {
		p := g.playerByID(pid)
		earnings := 0
		for _, painting := range p.Purchased {
			if topThree[painting.Artist] {
				value := g.Values.TotalValue(painting.Artist)
				earnings += value
				g.appendLog("%s sells a %s painting for %dk.", p.Name, painting.Artist, value)
			} else {
				g.appendLog("%s's %s painting is worthless this round.", p.Name, painting.Artist)
			}
		}
		p.Money += earnings
		p.Purchased = []*models.Card{}
	}

	if g.Round == TotalRounds {
		g.Phase = PhaseGameOver
		g.ActorID = uuid.Nil
		g.appendLog("Game Over! Final scores revealed.")
		log.Infof("room %s: game over", g.RoomCode)
		return nil
	}

	g.Round++
	count, err := DealCount(len(g.Players), g.Round)
	if err != nil {
		return err
	}
	if count > 0 {
		for _, pid := range g.TurnOrder {
			p := g.playerByID(pid)
			p.Hand = append(p.Hand, g.Deck[:count]...)
			g.Deck = g.Deck[count:]
		}
	}

	g.PlayedThisRound = nil
	g.RoundEndCard = nil
	g.Phase = PhaseAuctionStart
	// The auctioneer who ended the last round keeps the rotation slot.
	g.ActorID = g.AuctioneerID
	g.appendLog("Round %d begins.", g.Round)
	return nil
}

func rankedName(ranked []models.Artist, i int) string {
	if i < len(ranked) {
		return string(ranked[i])
	}
	return "N/A"
}
