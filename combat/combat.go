// Package combat implements the Combat State Machine (spec §4.6):
// phase sequencing (RANGED_SIEGE -> BLOCK -> ASSIGN_DAMAGE -> ATTACK),
// summon resolution, block application (elemental efficiency, Swift
// doubling, the Cumbersome-before-Swift exception), damage assignment
// (unit eligibility, Brutal doubling, Poison/Paralyze) and attack
// finalization (combined armor, resistance halving, conquest/fame
// crediting). Every function is a pure state.GameState -> state.GameState
// transformation over an already-cloned working copy, matching the
// engine's Clone-then-mutate discipline.
package combat

import (
	"github.com/hexrealm/engine/modifier"
	"github.com/hexrealm/engine/state"
)

// summonPool maps a summoning ability to the token pool it draws from.
func summonPool(e *state.CombatEnemy) (state.TokenColor, bool) {
	switch {
	case hasAbility(e, state.AbilitySummon):
		return "brown", true
	case hasAbility(e, state.AbilitySummonGreen):
		return "green", true
	default:
		return "", false
	}
}

// ResolveSummons runs at the RANGED_SIEGE -> BLOCK transition (spec
// §4.6 "Before BLOCK entry"): for each enemy whose summon ability is
// active (not nullified), draw tokens from the color-appropriate pool
// with faction priority — a token matching the summoner's faction is
// taken in preference to the top token. Summoned enemies join
// combat.Enemies linked back to their summoner; a summoner that drew at
// least one token becomes hidden and stops being a valid block/damage
// target. An empty pool leaves the summoner visible and attacking
// normally.
func ResolveSummons(g *state.GameState, catalog EnemyCatalog) []Summon {
	if g.Combat == nil {
		return nil
	}
	var summons []Summon
	// Iterate by index over the initial roster only: enemies appended
	// during the loop are this phase's summons and never summon in turn.
	initial := len(g.Combat.Enemies)
	for i := 0; i < initial; i++ {
		e := &g.Combat.Enemies[i]
		pool, ok := summonPool(e)
		if !ok || e.Flags.IsDefeated {
			continue
		}
		if hasAbility(e, state.AbilitySummon) && modifier.IsAbilityNullified(g, e.InstanceID, state.AbilitySummon) {
			continue
		}
		if hasAbility(e, state.AbilitySummonGreen) && modifier.IsAbilityNullified(g, e.InstanceID, state.AbilitySummonGreen) {
			continue
		}

		count := e.Definition.SummonCount
		if count == 0 {
			count = 1
		}
		drawn := 0
		for n := 0; n < count; n++ {
			tp := g.EnemyTokens[pool]
			if tp == nil || len(tp.Draw) == 0 {
				break
			}
			idx := 0
			if e.Definition.Faction != "" {
				for j, defID := range tp.Draw {
					if def, ok := catalog.Enemy(defID); ok && def.Faction == e.Definition.Faction {
						idx = j
						break
					}
				}
			}
			defID := tp.Draw[idx]
			tp.Draw = append(append([]state.EnemyDefID(nil), tp.Draw[:idx]...), tp.Draw[idx+1:]...)

			def, ok := catalog.Enemy(defID)
			if !ok {
				tp.Discard = append(tp.Discard, defID)
				continue
			}

			newEnemy := state.CombatEnemy{
				InstanceID:           state.EnemyInstanceID(state.NextInstanceID("enemy")),
				EnemyID:              defID,
				Definition:           def,
				AttacksBlocked:       make([]bool, len(def.Attacks)),
				AttacksCancelled:     make([]bool, len(def.Attacks)),
				SummonedByInstanceID: g.Combat.Enemies[i].InstanceID,
				SummonedFromPool:     pool,
			}
			g.Combat.Enemies = append(g.Combat.Enemies, newEnemy)
			e = &g.Combat.Enemies[i] // re-take: append may have moved the backing array
			summons = append(summons, Summon{EnemyInstanceID: newEnemy.InstanceID, EnemyDefID: defID, SummonedBy: e.InstanceID})
			drawn++
		}
		if drawn > 0 {
			e.Flags.IsSummonerHidden = true
		}
	}
	return summons
}

// Summon records one resolved summon for event emission.
type Summon struct {
	EnemyInstanceID state.EnemyInstanceID
	EnemyDefID      state.EnemyDefID
	SummonedBy      state.EnemyInstanceID
}

// SummonDiscard records one summoned enemy returned to its pool at the
// ATTACK-phase transition.
type SummonDiscard struct {
	EnemyInstanceID state.EnemyInstanceID
	EnemyDefID      state.EnemyDefID
	Pool            state.TokenColor
}

// DiscardSummons runs at the ASSIGN_DAMAGE -> ATTACK transition (spec
// §4.6 "ATTACK"): every summoned enemy — defeated or not — is removed
// from combat and its token returned to its color discard pile (no
// fame, no conquest credit), and every hidden summoner unhides.
func DiscardSummons(g *state.GameState) []SummonDiscard {
	if g.Combat == nil {
		return nil
	}
	var discards []SummonDiscard
	kept := g.Combat.Enemies[:0:0]
	for _, e := range g.Combat.Enemies {
		if e.SummonedByInstanceID == "" {
			kept = append(kept, e)
			continue
		}
		pool := e.SummonedFromPool
		if tp := g.EnemyTokens[pool]; tp != nil {
			tp.Discard = append(tp.Discard, e.EnemyID)
		}
		delete(g.Combat.PendingDamage, e.InstanceID)
		delete(g.Combat.PendingBlock, e.InstanceID)
		discards = append(discards, SummonDiscard{EnemyInstanceID: e.InstanceID, EnemyDefID: e.EnemyID, Pool: pool})
	}
	g.Combat.Enemies = kept
	for i := range g.Combat.Enemies {
		g.Combat.Enemies[i].Flags.IsSummonerHidden = false
	}
	return discards
}

// EnemyCatalog is the subset of content.Catalog combat needs, kept
// narrow here to avoid an import cycle with the content package's own
// dependency on state only.
type EnemyCatalog interface {
	Enemy(id state.EnemyDefID) (state.EnemyDefinition, bool)
}

func hasAbility(e *state.CombatEnemy, a state.Ability) bool {
	_, ok := e.Definition.Abilities[a]
	return ok
}

// AdvancePhase moves combat to the next phase, resetting per-phase
// accumulators as needed. Returns false if combat has already reached
// its terminal phase (callers should end combat instead).
func AdvancePhase(g *state.GameState) (state.Phase, bool) {
	next, ok := state.NextPhase(g.Combat.Phase)
	if !ok {
		return g.Combat.Phase, false
	}
	g.Combat.Phase = next
	if next == state.PhaseBlock {
		g.Combat.PendingSwiftBlock = map[state.EnemyInstanceID]state.ElementalDamage{}
	}
	return next, true
}

// BlockRequirement is the amount of block value a player must commit to
// fully block one of enemyID's attacks, honoring the Cumbersome-before-
// Swift composition exception (spec §4.4, §9 Open Question 2): Cumbersome
// reduces the enemy's attack value before Swift doubles what remains, so
// that blocking a Cumbersome+Swift enemy never requires more than double
// the Cumbersome-reduced base.
func BlockRequirement(g *state.GameState, enemyID state.EnemyInstanceID, attackIndex int) int {
	e := g.Combat.EnemyByID(enemyID)
	if e == nil || attackIndex < 0 || attackIndex >= len(e.Definition.Attacks) {
		return 0
	}
	base := e.Definition.Attacks[attackIndex].Amount
	return modifier.GetEffectiveEnemyAttack(g, enemyID, base)
}

// EffectiveBlock computes the blocking power of committed against one of
// enemyID's attacks: a block element matching the attack's effective
// element counts in full, any other element is halved (floored), and an
// active Cold Toughness modifier adds one per enemy ability and
// resistance when any ice block was committed (spec §4.6 "BLOCK").
func EffectiveBlock(g *state.GameState, pid state.PlayerID, enemyID state.EnemyInstanceID, attackIndex int, committed state.ElementalDamage) int {
	e := g.Combat.EnemyByID(enemyID)
	if e == nil || attackIndex < 0 || attackIndex >= len(e.Definition.Attacks) {
		return 0
	}
	attackElement := modifier.GetEffectiveAttackElement(g, enemyID, e.Definition.Attacks[attackIndex].Element)
	total := 0
	for element, v := range committed {
		if element == attackElement {
			total += v
		} else {
			total += v / 2
		}
	}
	if committed[state.ElementIce] > 0 && modifier.ColdToughnessActive(g, pid) {
		total += len(e.Definition.Abilities) + len(e.Definition.Resistances)
	}
	return total
}

// BlockOutcome reports one DeclareBlock resolution.
type BlockOutcome struct {
	Blocked   bool
	Effective int
	Required  int
	// Excess is the effective block beyond the *undoubled* requirement,
	// feeding Shield Bash's armor reduction on success.
	Excess int
}

// DeclareBlock commits blockValue of element against one of enemyID's
// attacks. The committed value joins any block already pending against
// that enemy; the attack is marked blocked once the pending pool's
// effective value (elemental efficiency, Cold Toughness) meets the
// Swift-doubled requirement. Block is consumed whether or not the
// threshold is reached (spec §4.6: "block is consumed regardless").
func DeclareBlock(g *state.GameState, pid state.PlayerID, enemyID state.EnemyInstanceID, attackIndex int, element state.Element, blockValue int) BlockOutcome {
	e := g.Combat.EnemyByID(enemyID)
	if e == nil || attackIndex < 0 || attackIndex >= len(e.AttacksBlocked) {
		return BlockOutcome{}
	}
	if g.Combat.PendingBlock[enemyID] == nil {
		g.Combat.PendingBlock[enemyID] = state.ElementalDamage{}
	}
	g.Combat.PendingBlock[enemyID][element] += blockValue

	required := BlockRequirement(g, enemyID, attackIndex)
	effective := EffectiveBlock(g, pid, enemyID, attackIndex, g.Combat.PendingBlock[enemyID])

	out := BlockOutcome{Effective: effective, Required: required}
	if effective >= required {
		e.AttacksBlocked[attackIndex] = true
		e.DeriveIsBlocked()
		out.Blocked = true
		undoubled := modifier.GetEffectiveEnemyAttack(g, enemyID, e.Definition.Attacks[attackIndex].Amount)
		if hasAbility(e, state.AbilitySwift) && !modifier.IsAbilityNullified(g, enemyID, state.AbilitySwift) {
			undoubled = required / 2
		}
		if excess := effective - undoubled; excess > 0 {
			out.Excess = excess
		}
		// The pending pool was spent blocking this attack; a later block
		// against another of this enemy's attacks starts from zero.
		g.Combat.PendingBlock[enemyID] = state.ElementalDamage{}
	}
	return out
}

// IsResistanceRemoved re-exports modifier.IsResistanceRemoved so callers
// in this package don't need a second import alias.
func IsResistanceRemoved(g *state.GameState, enemyID state.EnemyInstanceID, element state.Element) bool {
	return modifier.IsResistanceRemoved(g, enemyID, element)
}

// UnitEligibleForDamage reports whether u may have damage assigned to it
// instead of the hero — ready, not wounded, and not already used this
// combat to block (spec §4.6 "unit eligibility").
func UnitEligibleForDamage(u state.PlayerUnit) bool {
	return u.IsReady && !u.IsWounded && !u.UsedInCombat
}

// IsAttacking reports whether e still threatens the player this combat:
// standing, visible, and with at least one attack neither blocked nor
// cancelled.
func IsAttacking(e *state.CombatEnemy) bool {
	if e.Flags.IsDefeated || e.Flags.IsSummonerHidden {
		return false
	}
	for i := range e.Definition.Attacks {
		blocked := i < len(e.AttacksBlocked) && e.AttacksBlocked[i]
		cancelled := i < len(e.AttacksCancelled) && e.AttacksCancelled[i]
		if !blocked && !cancelled {
			return true
		}
	}
	return false
}

// AllAttackersAssigned reports whether every attacking enemy has had its
// damage assigned — the ASSIGN_DAMAGE phase may only end once this holds
// (spec §4.6 "The phase ends only when every attacking enemy has been
// assigned").
func AllAttackersAssigned(g *state.GameState) bool {
	for i := range g.Combat.Enemies {
		e := &g.Combat.Enemies[i]
		if IsAttacking(e) && !e.Flags.DamageAssigned {
			return false
		}
	}
	return true
}

// ResolveEnemyDamage resolves one unblocked enemy's own attacks against
// whatever the player assigned them to (hero or a standing-in unit):
// armor absorbs, Brutal doubles (unless nullified), resistance halves
// matching elements (unless removed by a modifier), and an unabsorbed
// remainder wounds the target. A Poison/Paralyze enemy applies its extra
// effect whenever any wound gets through (spec §4.6 "ASSIGN_DAMAGE").
func ResolveEnemyDamage(g *state.GameState, enemyID state.EnemyInstanceID, armor int) (woundAmount int, poisoned, paralyzed bool) {
	e := g.Combat.EnemyByID(enemyID)
	if e == nil {
		return 0, false, false
	}
	for i, atk := range e.Definition.Attacks {
		if i < len(e.AttacksBlocked) && e.AttacksBlocked[i] {
			continue
		}
		if i < len(e.AttacksCancelled) && e.AttacksCancelled[i] {
			continue
		}
		element := modifier.GetEffectiveAttackElement(g, enemyID, atk.Element)
		amount := modifier.GetEffectiveEnemyDamage(g, enemyID, atk.Amount)

		if _, resisted := e.Definition.Resistances[element]; resisted && !modifier.IsResistanceRemoved(g, enemyID, element) {
			amount /= 2
		}

		remaining := amount - armor
		if remaining < 0 {
			remaining = 0
		}
		woundAmount += remaining

		if remaining > 0 {
			if hasAbility(e, state.AbilityPoison) && !modifier.IsAbilityNullified(g, enemyID, state.AbilityPoison) {
				poisoned = true
			}
			if hasAbility(e, state.AbilityParalyze) && !modifier.IsAbilityNullified(g, enemyID, state.AbilityParalyze) {
				paralyzed = true
			}
		}
	}
	return woundAmount, poisoned, paralyzed
}

// HeroArmor sums a player's base armor with any active ArmorBonus
// modifiers (spec §4.6 "combined armor", hero side).
func HeroArmor(g *state.GameState, p *state.Player) int {
	armor := p.Armor
	for _, mod := range modifier.GetForPlayer(g, p.ID) {
		if mod.Effect.Kind == state.EffectArmorBonus {
			armor += mod.Effect.Amount
		}
	}
	return armor
}

// UnitArmor adds a recruited unit's own armor contribution on top of
// HeroArmor when that unit is standing in for the hero against one
// enemy's attack.
func UnitArmor(g *state.GameState, p *state.Player, assignedUnit state.UnitInstanceID, unitArmor func(state.UnitInstanceID) int) int {
	armor := HeroArmor(g, p)
	if assignedUnit != "" {
		armor += unitArmor(assignedUnit)
	}
	return armor
}

// CombinedArmor sums the effective armor of every enemy in targets — the
// "combined armor" a grouped attack must meet or exceed (spec §4.6 "may
// group multiple enemies sharing combined armor"), with Shield Bash
// armor reductions already applied.
func CombinedArmor(g *state.GameState, targets []state.EnemyInstanceID) int {
	total := 0
	for _, id := range targets {
		if e := g.Combat.EnemyByID(id); e != nil {
			total += modifier.GetEffectiveEnemyArmor(g, id, e.Definition.Armor)
		}
	}
	return total
}

// FinalizeAttack compares a player's assigned attack (by element)
// against the combined armor of the declared target group and, if it
// meets or exceeds that total, marks every enemy in the group defeated
// and returns the total fame they're worth. Per spec §4.6 ("for each
// element, if the enemy resists... halve"), an element's contribution to
// the combined attack is halved whenever any target in the group resists
// it (and that resistance hasn't been removed) — the group is only as
// effective against a resisted element as its weakest-matched member.
func FinalizeAttack(g *state.GameState, assigned map[state.Element]int, targets []state.EnemyInstanceID) (defeated []state.EnemyInstanceID, fame int, ok bool) {
	combined := CombinedArmor(g, targets)
	total := 0
	for element, amount := range assigned {
		for _, id := range targets {
			e := g.Combat.EnemyByID(id)
			if e == nil {
				continue
			}
			if _, resisted := e.Definition.Resistances[element]; resisted && !modifier.IsResistanceRemoved(g, id, element) {
				amount /= 2
				break
			}
		}
		total += amount
	}
	if total < combined {
		return nil, 0, false
	}
	for _, id := range targets {
		e := g.Combat.EnemyByID(id)
		if e == nil || e.Flags.IsDefeated {
			continue
		}
		e.Flags.IsDefeated = true
		if e.SummonedByInstanceID == "" {
			fame += e.Definition.Fame
		}
		defeated = append(defeated, id)
	}
	return defeated, fame, true
}

// IsCombatOver reports whether every enemy still in combat is defeated
// (victory). Callers combine it with their own loss detection (e.g.
// exhausted hand with enemies still standing at end of ATTACK phase).
func IsCombatOver(g *state.GameState) bool {
	for _, e := range g.Combat.Enemies {
		if !e.Flags.IsDefeated {
			return false
		}
	}
	return true
}
