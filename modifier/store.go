// Package modifier implements the Modifier Store (spec §4.4): add/query/
// remove scoped, durational effect records, and the handful of
// "effective value" compositions the combat machine and valid-actions
// projection need (effective enemy attack, effective attack element,
// resistance removal, effective sideways value).
//
// Every function here is a pure read over state.GameState except Add and
// the Purge family, which replace g.ActiveModifiers on the GameState they
// are given and return that same pointer; callers hand them the working
// copy the engine cloned for the current action.
package modifier

import (
	"github.com/hexrealm/engine/state"
)

// Add appends a modifier to g.ActiveModifiers in place and returns g.
// Callers (commands) are expected to have already cloned g via a
// pre-image if they need to undo; Add itself does not clone.
func Add(g *state.GameState, m state.Modifier) *state.GameState {
	g.ActiveModifiers = append(g.ActiveModifiers, m)
	return g
}

// GetForPlayer returns every modifier that applies to pid: modifiers it
// created that are scoped to itself, plus every globally-scoped modifier.
func GetForPlayer(g *state.GameState, pid state.PlayerID) []state.Modifier {
	var out []state.Modifier
	for _, m := range g.ActiveModifiers {
		if m.Scope.Kind == state.ScopeGlobal {
			out = append(out, m)
			continue
		}
		if m.Scope.Kind == state.ScopeSelf && m.CreatedByPlayer == pid {
			out = append(out, m)
		}
	}
	return out
}

// GetForEnemy returns every modifier whose scope matches AllEnemies or
// OneEnemy(enemyID), ignoring which player created it (enemy-scoped
// modifiers affect the enemy regardless of whose turn it is).
func GetForEnemy(g *state.GameState, enemyID state.EnemyInstanceID) []state.Modifier {
	var out []state.Modifier
	for _, m := range g.ActiveModifiers {
		switch m.Scope.Kind {
		case state.ScopeAllEnemies:
			out = append(out, m)
		case state.ScopeOneEnemy:
			if m.Scope.EnemyID == enemyID {
				out = append(out, m)
			}
		}
	}
	return out
}

// GetForUnit returns every modifier scoped to OneUnit(unitID).
func GetForUnit(g *state.GameState, unitID state.UnitInstanceID) []state.Modifier {
	var out []state.Modifier
	for _, m := range g.ActiveModifiers {
		if m.Scope.Kind == state.ScopeOneUnit && m.Scope.UnitID == unitID {
			out = append(out, m)
		}
	}
	return out
}

// IsAbilityNullified reports whether any active AbilityNullifier
// modifier targets enemyID/ability.
func IsAbilityNullified(g *state.GameState, enemyID state.EnemyInstanceID, ability state.Ability) bool {
	for _, m := range GetForEnemy(g, enemyID) {
		if m.Effect.Kind == state.EffectAbilityNullifier && m.Effect.Ability == ability {
			return true
		}
	}
	return false
}

// GetEffectiveEnemyAttack composes attack-modifying modifiers for one
// attack instance in the ordering mandated by spec §4.4:
//  1. additive bonuses, in insertion order
//  2. element conversions (handled by GetEffectiveAttackElement, not here)
//  3. resistance removals (not an attack-value change; see IsResistanceRemoved)
//  4. multiplicative doublings (Swift), unless nullified
//  5. Cumbersome reductions — applied BEFORE Swift, an explicit exception
//     for the block-requirement calculation (spec §4.4, §9 Open Question 2)
func GetEffectiveEnemyAttack(g *state.GameState, enemyID state.EnemyInstanceID, base int) int {
	value := base
	for _, m := range GetForEnemy(g, enemyID) {
		if m.Effect.Kind == state.EffectAttackBonus {
			value += m.Effect.Amount
		}
	}

	if HasAbility(g, enemyID, state.AbilityCumbersome) && !IsAbilityNullified(g, enemyID, state.AbilityCumbersome) {
		for _, m := range GetForEnemy(g, enemyID) {
			if m.Effect.Kind == state.EffectCompetitivePenalty {
				value -= m.Effect.Amount
			}
		}
		for _, m := range GetForEnemy(g, enemyID) {
			if m.Effect.Kind == state.EffectCumbersomePenalty {
				value -= m.Effect.Amount
			}
		}
	}

	if HasAbility(g, enemyID, state.AbilitySwift) && !IsAbilityNullified(g, enemyID, state.AbilitySwift) {
		value *= 2
	}

	if value < 0 {
		value = 0
	}
	return value
}

// GetEffectiveEnemyDamage composes the damage one of enemyID's attacks
// deals to its assigned target: additive bonuses in insertion order,
// then Brutal doubling unless nullified (spec §4.6 "Brutal doubles
// assigned damage"). Swift never applies here — it doubles the block
// *requirement*, not the damage dealt (see GetEffectiveEnemyAttack).
func GetEffectiveEnemyDamage(g *state.GameState, enemyID state.EnemyInstanceID, base int) int {
	value := base
	for _, m := range GetForEnemy(g, enemyID) {
		if m.Effect.Kind == state.EffectAttackBonus {
			value += m.Effect.Amount
		}
	}
	if HasAbility(g, enemyID, state.AbilityBrutal) && !IsAbilityNullified(g, enemyID, state.AbilityBrutal) {
		value *= 2
	}
	if value < 0 {
		value = 0
	}
	return value
}

// GetEffectiveEnemyArmor applies EnemyArmorDelta modifiers (Shield Bash
// armor reduction, siege-engine bonuses) to an enemy's printed armor,
// never letting it drop below 1.
func GetEffectiveEnemyArmor(g *state.GameState, enemyID state.EnemyInstanceID, base int) int {
	value := base
	for _, m := range GetForEnemy(g, enemyID) {
		if m.Effect.Kind == state.EffectEnemyArmorDelta {
			value += m.Effect.Amount
		}
	}
	if value < 1 {
		value = 1
	}
	return value
}

// IsArcaneImmune reports whether enemyID carries Arcane Immunity and it
// has not been nullified. An arcane-immune enemy is not a legal target
// for skills or spell effects that pick an enemy (TARGET_INVALID,
// spec §7).
func IsArcaneImmune(g *state.GameState, enemyID state.EnemyInstanceID) bool {
	return HasAbility(g, enemyID, state.AbilityArcaneImmune) &&
		!IsAbilityNullified(g, enemyID, state.AbilityArcaneImmune)
}

// ColdToughnessActive reports whether pid currently benefits from a
// Cold Toughness modifier (ice block gains a bonus per enemy ability
// and resistance during DECLARE_BLOCK).
func ColdToughnessActive(g *state.GameState, pid state.PlayerID) bool {
	for _, m := range GetForPlayer(g, pid) {
		if m.Effect.Kind == state.EffectColdToughness {
			return true
		}
	}
	return false
}

// ShieldBashActive reports whether pid currently benefits from a Shield
// Bash modifier (excess block on a successful DECLARE_BLOCK converts
// into an armor reduction on the blocked enemy).
func ShieldBashActive(g *state.GameState, pid state.PlayerID) bool {
	for _, m := range GetForPlayer(g, pid) {
		if m.Effect.Kind == state.EffectShieldBash {
			return true
		}
	}
	return false
}

// HasAbility reports whether enemyID's definition carries ability,
// regardless of modifiers. Callers combine this with IsAbilityNullified.
func HasAbility(g *state.GameState, enemyID state.EnemyInstanceID, ability state.Ability) bool {
	if g.Combat == nil {
		return false
	}
	e := g.Combat.EnemyByID(enemyID)
	if e == nil {
		return false
	}
	_, ok := e.Definition.Abilities[ability]
	return ok
}

// GetEffectiveAttackElement walks ConvertAttackElement modifiers; the
// most recently added matching conversion wins (spec §4.4).
func GetEffectiveAttackElement(g *state.GameState, enemyID state.EnemyInstanceID, rawElement state.Element) state.Element {
	result := rawElement
	for _, m := range GetForEnemy(g, enemyID) {
		if m.Effect.Kind == state.EffectConvertAttackElement && m.Effect.Element == result {
			result = m.Effect.ToElement
		}
	}
	return result
}

// IsResistanceRemoved reports whether any RemoveResistance modifier
// targets enemyID/element.
func IsResistanceRemoved(g *state.GameState, enemyID state.EnemyInstanceID, element state.Element) bool {
	for _, m := range GetForEnemy(g, enemyID) {
		if m.Effect.Kind == state.EffectRemoveResistance && m.Effect.Element == element {
			return true
		}
	}
	return false
}

// SidewaysArgs bundles the call arguments getEffectiveSidewaysValue
// evaluates a SidewaysCondition against (spec §4.4).
type SidewaysArgs struct {
	IsWound         bool
	UsedManaFromSource bool
	ColorMatch      state.Color
	CardType        string
}

// GetEffectiveSidewaysValue sums SidewaysValue modifiers for pid whose
// Condition (nil or matching) evaluates true against args, added on top
// of base (the card's own printed sideways value).
func GetEffectiveSidewaysValue(g *state.GameState, pid state.PlayerID, base int, args SidewaysArgs) int {
	value := base
	for _, m := range GetForPlayer(g, pid) {
		if m.Effect.Kind != state.EffectSidewaysValue {
			continue
		}
		if conditionMatches(m.Effect.Condition, args) {
			value += m.Effect.Amount
		}
	}
	return value
}

func conditionMatches(c *state.SidewaysCondition, args SidewaysArgs) bool {
	if c == nil {
		return true
	}
	if c.RequireWound && !args.IsWound {
		return false
	}
	if c.RequireManaFromSource && !args.UsedManaFromSource {
		return false
	}
	if c.RequireColorMatch != "" && c.RequireColorMatch != args.ColorMatch {
		return false
	}
	if c.RequireCardType != "" && c.RequireCardType != args.CardType {
		return false
	}
	return true
}

// Purge removes every modifier satisfying predicate from
// g.ActiveModifiers in place and returns g. Typical predicates filter by Duration.Kind and, for
// DURATION_TURN/ROUND, by CreatedByPlayer/CreatedAtRound (spec invariant
// 6, §8 I4/I5).
func Purge(g *state.GameState, predicate func(state.Modifier) bool) *state.GameState {
	kept := g.ActiveModifiers[:0:0]
	for _, m := range g.ActiveModifiers {
		if !predicate(m) {
			kept = append(kept, m)
		}
	}
	g.ActiveModifiers = kept
	return g
}

// PurgeTurnBoundary removes every DURATION_TURN modifier scoped to pid
// (invariant I4, called by the END_TURN command).
func PurgeTurnBoundary(g *state.GameState, pid state.PlayerID) *state.GameState {
	return Purge(g, func(m state.Modifier) bool {
		return m.Duration.Kind == state.DurationTurn && m.CreatedByPlayer == pid
	})
}

// PurgeCombatBoundary removes every DURATION_COMBAT modifier (invariant
// I5, called when combat ends).
func PurgeCombatBoundary(g *state.GameState) *state.GameState {
	return Purge(g, func(m state.Modifier) bool {
		return m.Duration.Kind == state.DurationCombat
	})
}

// PurgeRoundBoundary removes every DURATION_ROUND modifier (invariant 6,
// called at round end).
func PurgeRoundBoundary(g *state.GameState) *state.GameState {
	return Purge(g, func(m state.Modifier) bool {
		return m.Duration.Kind == state.DurationRound
	})
}
