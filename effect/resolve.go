// Package effect implements the Effect Resolver (spec §4.5): applying a
// terminal state.CardEffect directly to state.GameState, and turning a
// Choice/Compound effect into a state.PendingChoice when it cannot be
// auto-resolved.
//
// The resolver never blocks and never loops waiting on input — a choice
// that cannot be auto-resolved is parked on the player as data
// (state.PendingChoice) and control returns to the caller immediately,
// mirroring the teacher's Core.Apply/Remove lifecycle functions that
// return as soon as their side effect is recorded rather than driving
// any further control flow themselves.
package effect

import (
	"github.com/hexrealm/engine/modifier"
	"github.com/hexrealm/engine/state"
)

func isChoiceLike(kind state.CardEffectKind) bool {
	switch kind {
	case state.EffectKindChoice, state.EffectKindCardBoost, state.EffectKindManaDraw, state.EffectKindEnemySelect:
		return true
	default:
		return false
	}
}

// Resolution is the result of resolving one state.CardEffect.
type Resolution struct {
	// Pending is set when the effect (or one of its sub-effects) could
	// not be auto-resolved and has been parked as p.PendingChoice.
	Pending bool
	// Emitted names amount/element/kind tuples the caller should turn
	// into gameevent.Event instances; kept here rather than importing
	// gameevent to avoid a package cycle (command depends on both).
	Emitted []Emission
}

// Emission is one terminal effect application worth reporting as an
// event.
type Emission struct {
	Kind    state.CardEffectKind
	Amount  int
	Element state.Element
}

// IsResolvable reports whether eff can be fully applied without player
// input. Terminal and Compound effects are always resolvable (Compound's
// resolvability is decided sub-effect by sub-effect as it walks). A
// Choice-family effect is resolvable only when its viable option count
// is 0 or 1 — the spec §4.5 "0/1/many rule": zero viable options is a
// no-op, one auto-selects, and only "many" ever parks a PendingChoice.
func IsResolvable(g *state.GameState, pid state.PlayerID, eff state.CardEffect) bool {
	if !isChoiceLike(eff.Kind) {
		return true
	}
	return len(viableOptions(g, pid, eff.Options)) <= 1
}

// viableOptions filters eff's Options down to those whose preconditions
// currently hold: an EnemySelect/AbilityNullify option naming an absent
// enemy is not viable, and neither is one naming an arcane-immune enemy
// (Arcane Immunity bars skill/spell targeting). Callers with richer
// game-content preconditions can pre-filter Options before calling
// Resolve.
func viableOptions(g *state.GameState, pid state.PlayerID, options []state.CardEffect) []state.CardEffect {
	var out []state.CardEffect
	for _, opt := range options {
		if opt.Kind == state.EffectKindEnemySelect || opt.Kind == state.EffectKindAbilityNullify {
			if g.Combat == nil || g.Combat.EnemyByID(opt.EnemyTarget) == nil {
				continue
			}
			if modifier.IsArcaneImmune(g, opt.EnemyTarget) {
				continue
			}
		}
		out = append(out, opt)
	}
	return out
}

// Resolve applies eff to g for pid. If eff (or its first sub-effect, for
// Compound) is a Choice with more than one viable option, a
// state.PendingChoice is written onto the player and Resolution.Pending
// is true; otherwise every terminal effect is applied immediately.
func Resolve(g *state.GameState, pid state.PlayerID, eff state.CardEffect) Resolution {
	p := g.PlayerByID(pid)
	if p == nil {
		return Resolution{}
	}

	if eff.Kind == state.EffectKindCompound {
		return resolveCompound(g, p, eff.SubEffects)
	}
	if isChoiceLike(eff.Kind) {
		return resolveChoiceLike(g, p, eff, nil)
	}
	applyTerminal(g, p, eff)
	return Resolution{Emitted: []Emission{{Kind: eff.Kind, Amount: eff.Amount, Element: eff.Element}}}
}

// resolveCompound resolves sub-effects in order, stopping (and stashing
// the remainder as RemainingEffects) the moment one of them parks a
// PendingChoice (spec §4.5 "Compound effect remaining-effects stashing").
func resolveCompound(g *state.GameState, p *state.Player, subEffects []state.CardEffect) Resolution {
	var emitted []Emission
	for i, sub := range subEffects {
		if isChoiceLike(sub.Kind) {
			res := resolveChoiceLike(g, p, sub, subEffects[i+1:])
			res.Emitted = append(emitted, res.Emitted...)
			return res
		}
		applyTerminal(g, p, sub)
		emitted = append(emitted, Emission{Kind: sub.Kind, Amount: sub.Amount, Element: sub.Element})
	}
	return Resolution{Emitted: emitted}
}

// resolveChoiceLike implements the 0/1/many rule for any Choice-family
// effect kind, stashing remaining as the parked PendingChoice's
// RemainingEffects when it has to park.
func resolveChoiceLike(g *state.GameState, p *state.Player, eff state.CardEffect, remaining []state.CardEffect) Resolution {
	viable := viableOptions(g, p.ID, eff.Options)
	switch len(viable) {
	case 0:
		if len(remaining) > 0 {
			return resolveCompound(g, p, remaining)
		}
		return Resolution{}
	case 1:
		sub := Resolve(g, p.ID, viable[0])
		if sub.Pending {
			return sub
		}
		if len(remaining) > 0 {
			rest := resolveCompound(g, p, remaining)
			rest.Emitted = append(sub.Emitted, rest.Emitted...)
			return rest
		}
		return sub
	default:
		p.PendingChoice = &state.PendingChoice{
			Options:          viable,
			RemainingEffects: remaining,
		}
		return Resolution{Pending: true}
	}
}

func applyTerminal(g *state.GameState, p *state.Player, eff state.CardEffect) {
	switch eff.Kind {
	case state.EffectKindGainMove:
		state.Grant(p.MovePoints, eff.Amount)
	case state.EffectKindGainInfluence:
		state.Grant(p.InfluencePoints, eff.Amount)
	case state.EffectKindGainAttack:
		addBreakdown(p.CombatAccumulator.Attack, eff.AttackType, eff.Element, eff.Amount)
	case state.EffectKindGainBlock:
		p.CombatAccumulator.Block[eff.Element] += eff.Amount
	case state.EffectKindHeal:
		remaining := eff.Amount
		for i := range p.Units {
			if remaining == 0 {
				break
			}
			if p.Units[i].IsWounded {
				p.Units[i].IsWounded = false
				remaining--
			}
		}
	case state.EffectKindDraw:
		// Draw from the top of the deck; an empty or short deck draws
		// fewer cards and still succeeds (spec §8 boundary behavior).
		n := eff.Amount
		if n > len(p.Deck) {
			n = len(p.Deck)
		}
		p.Hand = append(p.Hand, p.Deck[:n]...)
		p.Deck = append([]state.CardID(nil), p.Deck[n:]...)
	case state.EffectKindGainManaToken:
		p.PureMana = append(p.PureMana, state.PureManaToken{Color: eff.Color, Source: "effect"})
	case state.EffectKindGainCrystal:
		if crystal, ok := p.Crystals[eff.Color]; ok {
			crystal.Restore(eff.Amount)
		}
	case state.EffectKindAddModifier:
		if eff.Modifier != nil {
			modifier.Add(g, *eff.Modifier)
		}
	case state.EffectKindAbilityNullify:
		// viableOptions already screens choice paths; a directly-resolved
		// nullify against an arcane-immune enemy has no effect either.
		if modifier.IsArcaneImmune(g, eff.EnemyTarget) {
			return
		}
		modifier.Add(g, state.Modifier{
			ID:              "nullify_" + string(eff.EnemyTarget) + "_" + string(eff.Ability),
			Source:          state.ModifierSource{Kind: state.ModifierSourceRule, RuleName: "ability_nullify"},
			Duration:        state.Duration{Kind: state.DurationCombat},
			Scope:           state.Scope{Kind: state.ScopeOneEnemy, EnemyID: eff.EnemyTarget},
			Effect:          state.ModifierEffect{Kind: state.EffectAbilityNullifier, Ability: eff.Ability},
			CreatedByPlayer: p.ID,
		})
	}
}

func addBreakdown(m map[state.AttackType]map[state.Element]int, at state.AttackType, el state.Element, amount int) {
	byElem, ok := m[at]
	if !ok {
		byElem = map[state.Element]int{}
		m[at] = byElem
	}
	byElem[el] += amount
}

// ResolveChoice applies the option at index from p's PendingChoice,
// clears the pending slot, and then resolves any RemainingEffects (spec
// §4.5). It is the effect-level half of the RESOLVE_CHOICE command; the
// command itself is responsible for validating the index is in range.
func ResolveChoice(g *state.GameState, pid state.PlayerID, index int) Resolution {
	p := g.PlayerByID(pid)
	if p == nil || p.PendingChoice == nil {
		return Resolution{}
	}
	pc := p.PendingChoice
	chosen := pc.Options[index]
	remaining := pc.RemainingEffects
	p.PendingChoice = nil

	res := Resolve(g, pid, chosen)
	if res.Pending {
		return res
	}
	if len(remaining) > 0 {
		rest := resolveCompound(g, p, remaining)
		rest.Emitted = append(res.Emitted, rest.Emitted...)
		return rest
	}
	return res
}
