// Package validate implements the Validator Chain (spec §4.2): for each
// action.Type, an ordered list of predicates that must all pass before a
// command.Factory is even consulted. Grounded on the teacher's
// pipeline.Registry — a single registry keyed by a string ref, storing
// values behind an `any` that the caller type-asserts back — adapted
// here to key by action.Type and store slices of Rule rather than
// pipeline factories, since every validator chain shares one input shape
// (state.GameState, action.Action) and one output shape (error).
package validate

import (
	"github.com/hexrealm/engine/action"
	"github.com/hexrealm/engine/content"
	"github.com/hexrealm/engine/engineerr"
	"github.com/hexrealm/engine/modifier"
	"github.com/hexrealm/engine/state"
)

// Rule is one predicate in a chain. A nil return means the rule passed.
type Rule func(g *state.GameState, pid state.PlayerID, a action.Action) error

// Chain is an ordered list of Rule; Run stops at the first failure.
type Chain []Rule

// Run executes every rule in order, returning the first error.
func (c Chain) Run(g *state.GameState, pid state.PlayerID, a action.Action) error {
	for _, rule := range c {
		if err := rule(g, pid, a); err != nil {
			return err
		}
	}
	return nil
}

// Registry maps action.Type to its Chain, mirroring pipeline.Registry's
// Register/Get shape but without the generic type-assertion dance since
// every chain here has the same (state, action) -> error signature.
type Registry struct {
	chains map[action.Type]Chain
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{chains: map[action.Type]Chain{}}
}

// Register installs the chain for typ, replacing any existing one.
func (r *Registry) Register(typ action.Type, chain Chain) {
	r.chains[typ] = chain
}

// Validate runs the chain registered for a.Type. An action.Type with no
// registered chain fails closed with RULE_VIOLATION — every accepted
// action.Type must be wired (spec §9 "Discriminated unions").
func (r *Registry) Validate(g *state.GameState, pid state.PlayerID, a action.Action) error {
	chain, ok := r.chains[a.Type]
	if !ok {
		return engineerr.Newf(engineerr.RuleViolation, string(pid), string(a.Type), "no validator chain registered for action type %q", a.Type)
	}
	return chain.Run(g, pid, a)
}

// --- common rules shared across many chains ---

// RuleIsCurrentPlayer fails with NOT_YOUR_TURN unless pid is the active
// player.
func RuleIsCurrentPlayer(g *state.GameState, pid state.PlayerID, a action.Action) error {
	cur := g.CurrentPlayer()
	if cur == nil || cur.ID != pid {
		return engineerr.New(engineerr.NotYourTurn, string(pid), string(a.Type), "it is not your turn")
	}
	return nil
}

// RuleNoPendingEntity fails with CHOICE_REQUIRED when pid has an
// unresolved PendingChoice/PendingDiscardForBonus/PendingTraining — spec
// invariant I3: a player with a pending entity may take no other action
// besides RESOLVE_CHOICE (and its discard/training equivalents).
func RuleNoPendingEntity(g *state.GameState, pid state.PlayerID, a action.Action) error {
	p := g.PlayerByID(pid)
	if p == nil {
		return engineerr.New(engineerr.Internal, string(pid), string(a.Type), "unknown player")
	}
	if p.HasPendingEntity() {
		return engineerr.New(engineerr.ChoiceRequired, string(pid), string(a.Type), "resolve the pending choice before taking another action")
	}
	return nil
}

// RuleNotInCombat fails with WRONG_PHASE when combat is active.
func RuleNotInCombat(g *state.GameState, pid state.PlayerID, a action.Action) error {
	if g.Combat != nil {
		return engineerr.New(engineerr.WrongPhase, string(pid), string(a.Type), "action not available during combat")
	}
	return nil
}

// RuleInCombat fails with WRONG_PHASE when combat is not active.
func RuleInCombat(g *state.GameState, pid state.PlayerID, a action.Action) error {
	if g.Combat == nil {
		return engineerr.New(engineerr.WrongPhase, string(pid), string(a.Type), "action only available during combat")
	}
	return nil
}

// RuleCombatPhase fails with WRONG_PHASE unless combat is in one of
// wanted.
func RuleCombatPhase(wanted ...state.Phase) Rule {
	return func(g *state.GameState, pid state.PlayerID, a action.Action) error {
		if g.Combat == nil {
			return engineerr.New(engineerr.WrongPhase, string(pid), string(a.Type), "no active combat")
		}
		for _, w := range wanted {
			if g.Combat.Phase == w {
				return nil
			}
		}
		return engineerr.Newf(engineerr.WrongPhase, string(pid), string(a.Type), "action not available in phase %s", g.Combat.Phase)
	}
}

// RuleHandContainsCard fails with TARGET_INVALID unless a.CardID is in
// pid's hand.
func RuleHandContainsCard(g *state.GameState, pid state.PlayerID, a action.Action) error {
	p := g.PlayerByID(pid)
	if p == nil {
		return engineerr.New(engineerr.Internal, string(pid), string(a.Type), "unknown player")
	}
	for _, c := range p.Hand {
		if c == a.CardID {
			return nil
		}
	}
	return engineerr.New(engineerr.TargetInvalid, string(pid), string(a.Type), "card is not in hand")
}

// RuleNoSpaceBendingDuringTimeBend fails with RULE_VIOLATION when a
// Space Bending card is played powered during a Time-Bent extra turn —
// the Time Bending chain-prevention rule. Other cards play powered
// normally on such a turn.
func RuleNoSpaceBendingDuringTimeBend(catalog content.Catalog) Rule {
	return func(g *state.GameState, pid state.PlayerID, a action.Action) error {
		p := g.PlayerByID(pid)
		if p == nil || !p.Flags.IsTimeBentTurn {
			return nil
		}
		if def, ok := catalog.Card(a.CardID); ok && def.IsSpaceBending {
			return engineerr.New(engineerr.RuleViolation, string(pid), string(a.Type), "cannot chain a powered Space Bending play during a Time-Bent turn")
		}
		return nil
	}
}

// RuleTargetNotArcaneImmune fails with TARGET_INVALID when the action
// names an arcane-immune enemy as its target — Arcane Immunity bars
// skill/spell targeting. Actions without an enemy target pass.
func RuleTargetNotArcaneImmune(g *state.GameState, pid state.PlayerID, a action.Action) error {
	if a.EnemyTarget == "" || g.Combat == nil {
		return nil
	}
	if modifier.IsArcaneImmune(g, a.EnemyTarget) {
		return engineerr.New(engineerr.TargetInvalid, string(pid), string(a.Type), "enemy is immune to arcane targeting")
	}
	return nil
}

// RuleNotResting fails with WRONG_PHASE while pid.Flags.IsResting.
func RuleNotResting(g *state.GameState, pid state.PlayerID, a action.Action) error {
	p := g.PlayerByID(pid)
	if p != nil && p.Flags.IsResting {
		return engineerr.New(engineerr.WrongPhase, string(pid), string(a.Type), "cannot act while resting")
	}
	return nil
}
