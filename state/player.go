package state

import (
	"github.com/KirkDiggler/rpg-toolkit/mechanics/resources"
)

// resourceOwner is a minimal core.Entity implementation used only to
// satisfy resources.Resource's Owner() requirement. It is a plain value
// (not a pointer back into Player) so resource fields never create the
// cyclic owning-pointer shape spec §9 warns against.
type resourceOwner string

// GetID implements core.Entity.
func (o resourceOwner) GetID() string { return string(o) }

// GetType implements core.Entity.
func (o resourceOwner) GetType() string { return "player" }

// PureManaToken is a single-use mana token gained this turn from a card
// or site, distinct from banked Crystals.
type PureManaToken struct {
	Color  Color  `json:"color"`
	Source string `json:"source"`
}

// CombatAttackBreakdown accumulates a player's attack/block contributions
// for the current combat phase, broken down by attack type and element
// (spec §3 "combatAccumulator").
type CombatAttackBreakdown struct {
	Attack   map[AttackType]map[Element]int `json:"attack"`
	Assigned map[AttackType]map[Element]int `json:"assigned"`
	Block    map[Element]int                `json:"block"`
}

// NewCombatAttackBreakdown returns a zeroed breakdown ready for mutation.
func NewCombatAttackBreakdown() CombatAttackBreakdown {
	return CombatAttackBreakdown{
		Attack:   map[AttackType]map[Element]int{},
		Assigned: map[AttackType]map[Element]int{},
		Block:    map[Element]int{},
	}
}

// PlayerFlags groups the miscellaneous booleans tracked per-turn.
type PlayerFlags struct {
	IsResting           bool `json:"is_resting"`
	HasTakenActionThisTurn bool `json:"has_taken_action_this_turn"`
	IsTimeBentTurn      bool `json:"is_time_bent_turn"`
	UsedManaFromSource  bool `json:"used_mana_from_source"`
	HasRestedThisTurn   bool `json:"has_rested_this_turn"`
	HasCombattedThisTurn bool `json:"has_combatted_this_turn"`
}

// SkillCooldownSets groups the four disjoint-by-window usage sets named
// in spec §3/invariant I4. A skill in UsedThisCombat may also appear in
// UsedThisRound (combat nests inside a round); the engine purges each set
// at its own boundary event (round end clears UsedThisRound, etc).
type SkillCooldownSets struct {
	UsedThisRound   map[SkillID]struct{} `json:"used_this_round"`
	UsedThisTurn    map[SkillID]struct{} `json:"used_this_turn"`
	UsedThisCombat  map[SkillID]struct{} `json:"used_this_combat"`
	UsedNextTurn    map[SkillID]struct{} `json:"used_next_turn"`
}

// NewSkillCooldownSets returns four empty sets.
func NewSkillCooldownSets() SkillCooldownSets {
	return SkillCooldownSets{
		UsedThisRound:  map[SkillID]struct{}{},
		UsedThisTurn:   map[SkillID]struct{}{},
		UsedThisCombat: map[SkillID]struct{}{},
		UsedNextTurn:   map[SkillID]struct{}{},
	}
}

// PlayerUnit is a recruited unit attached to a player.
type PlayerUnit struct {
	InstanceID  UnitInstanceID `json:"instance_id"`
	DefID       UnitDefID      `json:"def_id"`
	IsWounded   bool           `json:"is_wounded"`
	IsReady     bool           `json:"is_ready"`
	UsedInCombat bool          `json:"used_in_combat"`
	Level       int            `json:"level"`
}

// Player is one hero's full state (spec §3).
type Player struct {
	ID       PlayerID `json:"id"`
	HeroID   string   `json:"hero_id"`
	Position HexCoord `json:"position"`

	Hand         []CardID `json:"hand"`
	Deck         []CardID `json:"deck"`
	Discard      []CardID `json:"discard"`
	PlayArea     []CardID `json:"play_area"`
	RemovedCards []CardID `json:"removed_cards"`

	Units []PlayerUnit `json:"units"`

	// Crystals are banked, persistent mana crystals backed by
	// mechanics/resources.Resource so consumption/restoration goes
	// through the same Consume/Restore contract the rest of the corpus
	// uses for any depletable pool.
	Crystals map[Color]resources.Resource `json:"-"`
	// PureMana is single-use mana gained this turn; it is not a pool
	// because it is discarded wholesale at turn end rather than capped.
	PureMana []PureManaToken `json:"pure_mana"`

	Fame           int `json:"fame"`
	Reputation     int `json:"reputation"` // clamped to [-7, 7]
	Level          int `json:"level"`
	Armor          int `json:"armor"`
	HandLimit      int `json:"hand_limit"`
	CommandTokens  int `json:"command_tokens"`

	MovePoints      resources.Resource `json:"-"`
	InfluencePoints resources.Resource `json:"-"`

	SkillCooldowns SkillCooldownSets `json:"skill_cooldowns"`

	PendingChoice           *PendingChoice           `json:"pending_choice,omitempty"`
	PendingDiscardForBonus  *PendingDiscardForBonus  `json:"pending_discard_for_bonus,omitempty"`
	PendingTraining         *PendingTraining         `json:"pending_training,omitempty"`

	CombatAccumulator CombatAttackBreakdown `json:"combat_accumulator"`

	Flags PlayerFlags `json:"flags"`

	AttachedBanners []UnitInstanceID `json:"attached_banners"`

	WoundsReceivedThisTurn int `json:"wounds_received_this_turn"`

	TimeBendingSetAsideCards []CardID `json:"time_bending_set_aside_cards"`
}

// NewPlayer constructs a Player with zeroed resource pools ready for
// mutation by commands.
func NewPlayer(id PlayerID, heroID string) *Player {
	owner := resourceOwner(id)
	crystals := map[Color]resources.Resource{}
	for _, c := range []Color{ColorRed, ColorBlue, ColorGreen, ColorWhite} {
		crystals[c] = resources.NewSimpleResource(resources.SimpleResourceConfig{
			ID:      "crystal_" + string(c) + "_" + string(id),
			Type:    resources.ResourceTypeCustom,
			Owner:   owner,
			Key:     "crystal_" + string(c),
			Current: 0,
			Maximum: 3,
		})
	}
	return &Player{
		ID:                id,
		Crystals:          crystals,
		MovePoints:        resources.NewSimpleResource(resources.SimpleResourceConfig{ID: "move_" + string(id), Type: resources.ResourceTypeCustom, Owner: owner, Key: "move", Current: 0, Maximum: 0}),
		InfluencePoints:   resources.NewSimpleResource(resources.SimpleResourceConfig{ID: "influence_" + string(id), Type: resources.ResourceTypeCustom, Owner: owner, Key: "influence", Current: 0, Maximum: 0}),
		SkillCooldowns:    NewSkillCooldownSets(),
		CombatAccumulator: NewCombatAttackBreakdown(),
		HandLimit:         5,
		CommandTokens:     1,
	}
}

// HasPendingEntity reports whether any of the three mutually-exclusive
// pending slots (invariant I3) is occupied.
func (p *Player) HasPendingEntity() bool {
	return p.PendingChoice != nil || p.PendingDiscardForBonus != nil || p.PendingTraining != nil
}

// Clone returns a deep-enough copy of Player for use as a command
// pre-image or as part of GameState.Clone. Resource pools are cloned by
// value via CloneResource so mutating the copy never affects the
// original's Consume/Restore state.
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Hand = append([]CardID(nil), p.Hand...)
	cp.Deck = append([]CardID(nil), p.Deck...)
	cp.Discard = append([]CardID(nil), p.Discard...)
	cp.PlayArea = append([]CardID(nil), p.PlayArea...)
	cp.RemovedCards = append([]CardID(nil), p.RemovedCards...)
	cp.Units = append([]PlayerUnit(nil), p.Units...)
	cp.PureMana = append([]PureManaToken(nil), p.PureMana...)
	cp.AttachedBanners = append([]UnitInstanceID(nil), p.AttachedBanners...)
	cp.TimeBendingSetAsideCards = append([]CardID(nil), p.TimeBendingSetAsideCards...)

	cp.Crystals = make(map[Color]resources.Resource, len(p.Crystals))
	for k, v := range p.Crystals {
		cp.Crystals[k] = CloneResource(v)
	}
	cp.MovePoints = CloneResource(p.MovePoints)
	cp.InfluencePoints = CloneResource(p.InfluencePoints)

	cp.SkillCooldowns = cloneCooldownSets(p.SkillCooldowns)

	if p.PendingChoice != nil {
		pc := *p.PendingChoice
		pc.Options = append([]CardEffect(nil), p.PendingChoice.Options...)
		pc.RemainingEffects = append([]CardEffect(nil), p.PendingChoice.RemainingEffects...)
		cp.PendingChoice = &pc
	}
	if p.PendingDiscardForBonus != nil {
		pd := *p.PendingDiscardForBonus
		cp.PendingDiscardForBonus = &pd
	}
	if p.PendingTraining != nil {
		pt := *p.PendingTraining
		cp.PendingTraining = &pt
	}

	cp.CombatAccumulator = cloneBreakdown(p.CombatAccumulator)

	return &cp
}

func cloneCooldownSets(s SkillCooldownSets) SkillCooldownSets {
	out := NewSkillCooldownSets()
	for k := range s.UsedThisRound {
		out.UsedThisRound[k] = struct{}{}
	}
	for k := range s.UsedThisTurn {
		out.UsedThisTurn[k] = struct{}{}
	}
	for k := range s.UsedThisCombat {
		out.UsedThisCombat[k] = struct{}{}
	}
	for k := range s.UsedNextTurn {
		out.UsedNextTurn[k] = struct{}{}
	}
	return out
}

func cloneBreakdown(b CombatAttackBreakdown) CombatAttackBreakdown {
	out := NewCombatAttackBreakdown()
	for at, byElem := range b.Attack {
		m := map[Element]int{}
		for e, v := range byElem {
			m[e] = v
		}
		out.Attack[at] = m
	}
	for at, byElem := range b.Assigned {
		m := map[Element]int{}
		for e, v := range byElem {
			m[e] = v
		}
		out.Assigned[at] = m
	}
	for e, v := range b.Block {
		out.Block[e] = v
	}
	return out
}

// ClampReputation enforces the ±7 bound (spec §8 boundary behavior).
func ClampReputation(rep int) int {
	if rep > 7 {
		return 7
	}
	if rep < -7 {
		return -7
	}
	return rep
}
