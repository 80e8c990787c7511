package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artfolk/gavel/internal/models"
)

func TestOpenAuctionRotationAndResolution(t *testing.T) {
	g, ids := setupBiddingGame(3)
	a, b, c := ids[0], ids[1], ids[2]
	card := giveCard(g, a, models.SigridThaler, models.AuctionOpen, "st-open-0")

	do(t, g, a, models.ActionStartAuction, cardPayload(card.ID))
	assert.Equal(t, PhaseAuctionBidding, g.Phase)
	assert.Equal(t, b, g.ActorID, "bidding starts left of the auctioneer")

	do(t, g, b, models.ActionPlaceBid, amountPayload(20))
	assert.Equal(t, c, g.ActorID)

	do(t, g, c, models.ActionPlaceBid, amountPayload(25))
	assert.Equal(t, a, g.ActorID, "rotation wraps back to the auctioneer")

	do(t, g, a, models.ActionPassBid, nil)
	assert.Equal(t, b, g.ActorID)

	do(t, g, b, models.ActionPassBid, nil)
	require.True(t, g.Auction.Open.Closed)
	assert.Equal(t, a, g.ActorID, "the auctioneer settles a closed auction")

	do(t, g, a, models.ActionResolveAuction, nil)
	assert.Equal(t, InitialMoney-25, g.playerByID(c).Money)
	assert.Equal(t, InitialMoney+25, g.playerByID(a).Money)
	assert.Equal(t, []*models.Card{card}, g.playerByID(c).Purchased)
	assert.Len(t, g.PlayedThisRound, 1)
	assert.Nil(t, g.Auction)
	assert.Equal(t, PhaseAuctionStart, g.Phase)
	assert.Equal(t, b, g.AuctioneerID, "the auctioneer role rotates")
	assert.Equal(t, b, g.ActorID)
}

func TestOpenAuctionFirstEntrantPassEndsImmediately(t *testing.T) {
	g, ids := setupBiddingGame(3)
	a, b := ids[0], ids[1]
	card := giveCard(g, a, models.DanielMelim, models.AuctionOpen, "dm-open-0")

	do(t, g, a, models.ActionStartAuction, cardPayload(card.ID))
	do(t, g, b, models.ActionPassBid, nil)

	require.True(t, g.Auction.Open.Closed)
	do(t, g, a, models.ActionResolveAuction, nil)

	// Nobody bid: the auctioneer keeps the painting at price 0, paying the bank.
	assert.Equal(t, InitialMoney, g.playerByID(a).Money)
	assert.Equal(t, []*models.Card{card}, g.playerByID(a).Purchased)
}

func TestOpenAuctionBidValidation(t *testing.T) {
	g, ids := setupBiddingGame(3)
	a, b, c := ids[0], ids[1], ids[2]
	card := giveCard(g, a, models.RamonMartins, models.AuctionOpen, "rm-open-0")
	do(t, g, a, models.ActionStartAuction, cardPayload(card.ID))

	do(t, g, b, models.ActionPlaceBid, amountPayload(20))

	err := g.HandleAction(c, models.GameAction{Type: models.ActionPlaceBid, Payload: amountPayload(20)})
	assert.ErrorIs(t, err, ErrInvalidAction, "bid must exceed the high bid")

	err = g.HandleAction(c, models.GameAction{Type: models.ActionPlaceBid, Payload: amountPayload(InitialMoney + 1)})
	assert.ErrorIs(t, err, ErrInvalidAction, "bid must not exceed the balance")

	// State must be untouched by the rejections.
	assert.Equal(t, 20, g.Auction.Open.HighBid)
	assert.Equal(t, b, g.Auction.Open.HighBidderID)
	assert.Equal(t, c, g.ActorID)
}

func TestOpenAuctionHighBidderCannotPass(t *testing.T) {
	g, ids := setupBiddingGame(3)
	a, b := ids[0], ids[1]
	card := giveCard(g, a, models.RafaelSilveira, models.AuctionOpen, "rs-open-0")
	do(t, g, a, models.ActionStartAuction, cardPayload(card.ID))
	do(t, g, b, models.ActionPlaceBid, amountPayload(20))

	g.ActorID = b
	err := g.HandleAction(b, models.GameAction{Type: models.ActionPassBid})
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.False(t, g.Auction.Open.Closed)
}

func TestOneOfferEarliestBidderWinsTies(t *testing.T) {
	g, ids := setupBiddingGame(3)
	a, b, c := ids[0], ids[1], ids[2]
	card := giveCard(g, a, models.SigridThaler, models.AuctionOneOffer, "st-oneoffer-0")

	do(t, g, a, models.ActionStartAuction, cardPayload(card.ID))
	assert.Equal(t, b, g.ActorID)

	do(t, g, b, models.ActionPlaceBid, amountPayload(10))
	do(t, g, c, models.ActionPlaceBid, amountPayload(10))

	require.True(t, g.Auction.OneOffer.Closed, "the walk wraps after the last player")
	assert.Equal(t, b, g.Auction.OneOffer.HighBidderID, "an equal offer does not displace the earlier one")

	do(t, g, a, models.ActionResolveAuction, nil)
	assert.Equal(t, InitialMoney-10, g.playerByID(b).Money)
	assert.Equal(t, InitialMoney+10, g.playerByID(a).Money)
}

func TestOneOfferAllPassFallsToAuctioneer(t *testing.T) {
	g, ids := setupBiddingGame(3)
	a, b, c := ids[0], ids[1], ids[2]
	card := giveCard(g, a, models.DanielMelim, models.AuctionOneOffer, "dm-oneoffer-0")

	do(t, g, a, models.ActionStartAuction, cardPayload(card.ID))
	do(t, g, b, models.ActionPassBid, nil)
	do(t, g, c, models.ActionPassBid, nil)

	do(t, g, a, models.ActionResolveAuction, nil)
	assert.Equal(t, InitialMoney, g.playerByID(a).Money)
	assert.Len(t, g.playerByID(a).Purchased, 1)
}

func TestHiddenAuctionSealRevealAndTieBreak(t *testing.T) {
	g, ids := setupBiddingGame(3)
	a, b, c := ids[0], ids[1], ids[2]
	card := giveCard(g, a, models.RamonMartins, models.AuctionHidden, "rm-hidden-0")

	do(t, g, a, models.ActionStartAuction, cardPayload(card.ID))
	assert.Equal(t, a, g.ActorID, "the auctioneer holds the turn while bids are sealed")

	// Reveal requires every player to have sealed first.
	do(t, g, a, models.ActionPlaceHiddenBid, amountPayload(10))
	do(t, g, b, models.ActionPlaceHiddenBid, amountPayload(20))
	err := g.HandleAction(a, models.GameAction{Type: models.ActionRevealHiddenBids})
	assert.ErrorIs(t, err, ErrInvalidAction)

	do(t, g, c, models.ActionPlaceHiddenBid, amountPayload(20))
	do(t, g, a, models.ActionRevealHiddenBids, nil)
	require.True(t, g.Auction.Hidden.Revealed)

	// B and C tied at 20; B is earlier in turn order.
	do(t, g, a, models.ActionResolveAuction, nil)
	assert.Equal(t, InitialMoney-20, g.playerByID(b).Money)
	assert.Equal(t, InitialMoney+20, g.playerByID(a).Money)
	assert.Equal(t, []*models.Card{card}, g.playerByID(b).Purchased)
}

func TestHiddenAuctionAuctioneerWinnerPaysBank(t *testing.T) {
	g, ids := setupBiddingGame(3)
	a, b, c := ids[0], ids[1], ids[2]
	card := giveCard(g, a, models.RafaelSilveira, models.AuctionHidden, "rs-hidden-0")

	do(t, g, a, models.ActionStartAuction, cardPayload(card.ID))
	do(t, g, a, models.ActionPlaceHiddenBid, amountPayload(50))
	do(t, g, b, models.ActionPlaceHiddenBid, amountPayload(10))
	do(t, g, c, models.ActionPlaceHiddenBid, amountPayload(10))
	do(t, g, a, models.ActionRevealHiddenBids, nil)
	do(t, g, a, models.ActionResolveAuction, nil)

	assert.Equal(t, InitialMoney-50, g.playerByID(a).Money)
	assert.Len(t, g.playerByID(a).Purchased, 1)
}

func TestHiddenAuctionRejectsDuplicateSeal(t *testing.T) {
	g, ids := setupBiddingGame(3)
	a, b := ids[0], ids[1]
	card := giveCard(g, a, models.SigridThaler, models.AuctionHidden, "st-hidden-0")

	do(t, g, a, models.ActionStartAuction, cardPayload(card.ID))
	do(t, g, b, models.ActionPlaceHiddenBid, amountPayload(15))

	err := g.HandleAction(b, models.GameAction{Type: models.ActionPlaceHiddenBid, Payload: amountPayload(25)})
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.Equal(t, 15, g.Auction.Hidden.Sealed[b])
}

func TestHiddenAuctionViewRedactsSealedAmounts(t *testing.T) {
	g, ids := setupBiddingGame(3)
	a, b, c := ids[0], ids[1], ids[2]
	card := giveCard(g, a, models.DanielMelim, models.AuctionHidden, "dm-hidden-0")

	do(t, g, a, models.ActionStartAuction, cardPayload(card.ID))
	do(t, g, b, models.ActionPlaceHiddenBid, amountPayload(20))

	g.Mu.Lock()
	bView := g.ViewFor(b)
	cView := g.ViewFor(c)
	g.Mu.Unlock()

	require.NotNil(t, bView.Auction.Hidden)
	assert.Nil(t, bView.Auction.Hidden.Bids, "amounts stay hidden until the reveal")
	require.NotNil(t, bView.Auction.Hidden.MyBid)
	assert.Equal(t, 20, *bView.Auction.Hidden.MyBid)
	assert.Equal(t, []uuid.UUID{b}, bView.Auction.Hidden.SealedBy)

	assert.Nil(t, cView.Auction.Hidden.Bids)
	assert.Nil(t, cView.Auction.Hidden.MyBid, "only the sealer sees their own amount")
	assert.Equal(t, []uuid.UUID{b}, cView.Auction.Hidden.SealedBy)
}

func TestFixedPriceAccept(t *testing.T) {
	g, ids := setupBiddingGame(3)
	a, b := ids[0], ids[1]
	card := giveCard(g, a, models.ManuelCarvalho, models.AuctionFixedPrice, "mc-fixed-0")

	do(t, g, a, models.ActionStartAuction, cardPayload(card.ID))
	assert.Equal(t, a, g.ActorID, "the auctioneer must set the price first")

	err := g.HandleAction(a, models.GameAction{Type: models.ActionAcceptFixedPrice})
	assert.ErrorIs(t, err, ErrInvalidAction, "nothing to accept before the price is set")

	do(t, g, a, models.ActionSetFixedPrice, amountPayload(30))
	assert.Equal(t, b, g.ActorID)

	do(t, g, b, models.ActionAcceptFixedPrice, nil)
	do(t, g, a, models.ActionResolveAuction, nil)

	assert.Equal(t, InitialMoney-30, g.playerByID(b).Money)
	assert.Equal(t, InitialMoney+30, g.playerByID(a).Money)
	assert.Equal(t, []*models.Card{card}, g.playerByID(b).Purchased)
}

func TestFixedPriceAllDecline(t *testing.T) {
	g, ids := setupBiddingGame(3)
	a, b, c := ids[0], ids[1], ids[2]
	card := giveCard(g, a, models.SigridThaler, models.AuctionFixedPrice, "st-fixed-0")

	do(t, g, a, models.ActionStartAuction, cardPayload(card.ID))
	do(t, g, a, models.ActionSetFixedPrice, amountPayload(40))
	do(t, g, b, models.ActionPassFixedPrice, nil)
	assert.Equal(t, c, g.ActorID)
	do(t, g, c, models.ActionPassFixedPrice, nil)

	require.True(t, g.Auction.Fixed.Closed)
	do(t, g, a, models.ActionResolveAuction, nil)

	// Everyone declined: the auctioneer keeps the painting for free.
	assert.Equal(t, InitialMoney, g.playerByID(a).Money)
	assert.Len(t, g.playerByID(a).Purchased, 1)
}

func TestFixedPriceCannotAcceptBeyondBalance(t *testing.T) {
	g, ids := setupBiddingGame(3)
	a, b := ids[0], ids[1]
	card := giveCard(g, a, models.RamonMartins, models.AuctionFixedPrice, "rm-fixed-0")
	g.playerByID(b).Money = 20

	do(t, g, a, models.ActionStartAuction, cardPayload(card.ID))
	do(t, g, a, models.ActionSetFixedPrice, amountPayload(30))

	err := g.HandleAction(b, models.GameAction{Type: models.ActionAcceptFixedPrice})
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.False(t, g.Auction.Fixed.Closed)
}

func TestDoubleAuctionPartnerContributes(t *testing.T) {
	g, ids := setupBiddingGame(3)
	a, b, c := ids[0], ids[1], ids[2]
	first := giveCard(g, a, models.RafaelSilveira, models.AuctionDouble, "rs-double-0")
	second := giveCard(g, b, models.RafaelSilveira, models.AuctionDouble, "rs-double-1")

	do(t, g, a, models.ActionStartAuction, cardPayload(first.ID))
	require.NotNil(t, g.Auction.Double)
	assert.Equal(t, b, g.Auction.Double.PartnerID)
	assert.Equal(t, b, g.ActorID, "the partner decides before bidding opens")

	do(t, g, b, models.ActionAddSecondDoubleCard, cardPayload(second.ID))
	assert.Nil(t, g.Auction.Double)
	assert.Equal(t, models.AuctionOpen, g.Auction.Type)
	assert.Len(t, g.Auction.Cards, 2)
	assert.Empty(t, g.playerByID(b).Hand)
	assert.Equal(t, b, g.ActorID)

	do(t, g, b, models.ActionPlaceBid, amountPayload(10))
	do(t, g, c, models.ActionPassBid, nil)
	do(t, g, a, models.ActionPassBid, nil)
	do(t, g, a, models.ActionResolveAuction, nil)

	// Both paintings go to the winner and both count toward the round end.
	assert.Equal(t, []*models.Card{first, second}, g.playerByID(b).Purchased)
	assert.Len(t, g.PlayedThisRound, 2)
	assert.Equal(t, InitialMoney-10, g.playerByID(b).Money)
	assert.Equal(t, InitialMoney+10, g.playerByID(a).Money)
}

func TestDoubleAuctionPartnerDeclines(t *testing.T) {
	g, ids := setupBiddingGame(3)
	a, b := ids[0], ids[1]
	card := giveCard(g, a, models.DanielMelim, models.AuctionDouble, "dm-double-0")
	giveCard(g, b, models.DanielMelim, models.AuctionDouble, "dm-double-1")

	do(t, g, a, models.ActionStartAuction, cardPayload(card.ID))
	do(t, g, b, models.ActionPassOnDouble, nil)

	assert.Nil(t, g.Auction.Double)
	assert.Equal(t, models.AuctionOpen, g.Auction.Type)
	assert.Len(t, g.Auction.Cards, 1)
	assert.Len(t, g.playerByID(b).Hand, 1, "the declined card stays in hand")
	assert.Equal(t, b, g.ActorID)
}

func TestDoubleAuctionWithoutPartnerRunsOpen(t *testing.T) {
	g, ids := setupBiddingGame(3)
	a, b := ids[0], ids[1]
	card := giveCard(g, a, models.ManuelCarvalho, models.AuctionDouble, "mc-double-0")

	do(t, g, a, models.ActionStartAuction, cardPayload(card.ID))

	// Nobody holds a matching second card: the single painting sells open.
	assert.Nil(t, g.Auction.Double)
	assert.Equal(t, models.AuctionOpen, g.Auction.Type)
	assert.Equal(t, b, g.ActorID)
}

func TestDoubleAuctionRejectsMismatchedSecondCard(t *testing.T) {
	g, ids := setupBiddingGame(3)
	a, b := ids[0], ids[1]
	card := giveCard(g, a, models.RafaelSilveira, models.AuctionDouble, "rs-double-0")
	giveCard(g, b, models.RafaelSilveira, models.AuctionDouble, "rs-double-1")
	wrongArtist := giveCard(g, b, models.SigridThaler, models.AuctionDouble, "st-double-0")
	wrongType := giveCard(g, b, models.RafaelSilveira, models.AuctionOpen, "rs-open-0")

	do(t, g, a, models.ActionStartAuction, cardPayload(card.ID))

	err := g.HandleAction(b, models.GameAction{Type: models.ActionAddSecondDoubleCard, Payload: cardPayload(wrongArtist.ID)})
	assert.ErrorIs(t, err, ErrInvalidAction)

	err = g.HandleAction(b, models.GameAction{Type: models.ActionAddSecondDoubleCard, Payload: cardPayload(wrongType.ID)})
	assert.ErrorIs(t, err, ErrInvalidAction)

	require.NotNil(t, g.Auction.Double, "rejections leave the pending contribution open")
}

func TestResolveRejectedWhileAuctionInProgress(t *testing.T) {
	g, ids := setupBiddingGame(3)
	a, b := ids[0], ids[1]
	card := giveCard(g, a, models.SigridThaler, models.AuctionOpen, "st-open-0")

	do(t, g, a, models.ActionStartAuction, cardPayload(card.ID))
	do(t, g, b, models.ActionPlaceBid, amountPayload(10))

	g.ActorID = a
	err := g.HandleAction(a, models.GameAction{Type: models.ActionResolveAuction})
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.NotNil(t, g.Auction)
}
