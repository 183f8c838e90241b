package state

// TokenPool is a color-keyed enemy token draw/discard pile pair (spec §3
// "enemyTokens").
type TokenPool struct {
	Draw    []EnemyDefID `json:"draw"`
	Discard []EnemyDefID `json:"discard"`
}

// Offer is a market slot (card or unit offer row).
type Offer struct {
	CardIDs []CardID   `json:"card_ids,omitempty"`
	UnitIDs []UnitDefID `json:"unit_ids,omitempty"`
}

// CooperativeAssault tracks a proposed or active multi-player assault
// (spec §3 "pendingCooperativeAssault", invariant I8).
type CooperativeAssault struct {
	InitiatorID   PlayerID            `json:"initiator_id"`
	SiteID        SiteID              `json:"site_id"`
	InvitedPlayers []PlayerID         `json:"invited_players"`
	Responses     map[PlayerID]bool   `json:"responses"`
}

// GameState is the immutable root value the engine reduces over (spec
// §3). It is never mutated in place by anything outside the command
// pipeline; every processAction call produces a new *GameState via
// Clone-then-mutate.
type GameState struct {
	Players            []*Player              `json:"players"`
	TurnOrder          []PlayerID             `json:"turn_order"`
	CurrentPlayerIndex int                    `json:"current_player_index"`

	// Map is re-injected by the deployment after deserialization; tile
	// geometry is an external collaborator, not part of the persisted
	// core state (spec §1).
	Map     MapView              `json:"-"`
	Offers  map[string]Offer     `json:"offers"`
	Decks   map[string][]CardID  `json:"decks"`

	EnemyTokens map[TokenColor]*TokenPool `json:"enemy_tokens"`

	Combat *CombatState `json:"combat,omitempty"`

	ActiveModifiers []Modifier `json:"active_modifiers"`

	PendingCooperativeAssault *CooperativeAssault `json:"pending_cooperative_assault,omitempty"`

	RNG RNGState `json:"rng"`

	TimeOfDay   TimeOfDay `json:"time_of_day"`
	RoundNumber int       `json:"round_number"`
}

// MapView is the opaque adjacency/cost abstraction the core consults
// (spec §1: "beyond the adjacency/cost abstraction the core consumes").
// Concrete tile geometry and rendering live outside the core.
type MapView interface {
	// IsAdjacent reports whether b is reachable from a in one step.
	IsAdjacent(a, b HexCoord) bool
	// MoveCost returns the move-point cost of stepping from a to b, and
	// false if the step is not legal (impassable, unexplored, ...).
	MoveCost(a, b HexCoord) (int, bool)
	// SiteAt returns the site occupying a hex, if any.
	SiteAt(hex HexCoord) (SiteID, bool)
	// IsExplored reports whether a tile has been revealed.
	IsExplored(hex HexCoord) bool
}

// CurrentPlayer returns the player whose turn it is.
func (g *GameState) CurrentPlayer() *Player {
	if g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

// PlayerByID finds a player by id, or nil.
func (g *GameState) PlayerByID(id PlayerID) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Clone returns a new GameState with every nested mutable collection
// copied, so commands can safely hold a pre-image (spec §9 "Undo
// model") and the engine can treat state as a persistent value.
func (g *GameState) Clone() *GameState {
	if g == nil {
		return nil
	}
	cp := *g
	cp.Players = make([]*Player, len(g.Players))
	for i, p := range g.Players {
		cp.Players[i] = p.Clone()
	}
	cp.TurnOrder = append([]PlayerID(nil), g.TurnOrder...)

	cp.Offers = make(map[string]Offer, len(g.Offers))
	for k, v := range g.Offers {
		o := Offer{
			CardIDs: append([]CardID(nil), v.CardIDs...),
			UnitIDs: append([]UnitDefID(nil), v.UnitIDs...),
		}
		cp.Offers[k] = o
	}

	cp.Decks = make(map[string][]CardID, len(g.Decks))
	for k, v := range g.Decks {
		cp.Decks[k] = append([]CardID(nil), v...)
	}

	cp.EnemyTokens = make(map[TokenColor]*TokenPool, len(g.EnemyTokens))
	for k, v := range g.EnemyTokens {
		tp := TokenPool{
			Draw:    append([]EnemyDefID(nil), v.Draw...),
			Discard: append([]EnemyDefID(nil), v.Discard...),
		}
		cp.EnemyTokens[k] = &tp
	}

	cp.Combat = g.Combat.Clone()

	cp.ActiveModifiers = append([]Modifier(nil), g.ActiveModifiers...)

	if g.PendingCooperativeAssault != nil {
		ca := *g.PendingCooperativeAssault
		ca.InvitedPlayers = append([]PlayerID(nil), g.PendingCooperativeAssault.InvitedPlayers...)
		ca.Responses = make(map[PlayerID]bool, len(g.PendingCooperativeAssault.Responses))
		for k, v := range g.PendingCooperativeAssault.Responses {
			ca.Responses[k] = v
		}
		cp.PendingCooperativeAssault = &ca
	}

	return &cp
}
