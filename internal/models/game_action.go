package models

// GameAction captures a player's submitted move.
type GameAction struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Action type constants accepted by the state machine.
const (
	ActionStartGame           = "start_game"
	ActionStartAuction        = "start_auction"
	ActionPlaceBid            = "place_bid"
	ActionPassBid             = "pass_bid"
	ActionPlaceHiddenBid      = "place_hidden_bid"
	ActionRevealHiddenBids    = "reveal_hidden_bids"
	ActionSetFixedPrice       = "set_fixed_price"
	ActionAcceptFixedPrice    = "accept_fixed_price"
	ActionPassFixedPrice      = "pass_fixed_price"
	ActionAddSecondDoubleCard = "add_second_double_card"
	ActionPassOnDouble        = "pass_on_double"
	ActionResolveAuction      = "resolve_auction"
	ActionStartNextRound      = "start_next_round"
)

// CardID extracts the "id" field from the payload, if present.
func (a GameAction) CardID() string {
	if a.Payload == nil {
		return ""
	}
	if v, ok := a.Payload["id"].(string); ok {
		return v
	}
	return ""
}

// Amount extracts the "amount" field from the payload. JSON numbers arrive as
// float64.
func (a GameAction) Amount() (int, bool) {
	if a.Payload == nil {
		return 0, false
	}
	switch v := a.Payload["amount"].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}
