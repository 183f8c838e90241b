package combat

import (
	"testing"

	"github.com/hexrealm/engine/state"
	"github.com/stretchr/testify/require"
)

func blockTestState(abilities map[state.Ability]struct{}, attack state.EnemyAttack) *state.GameState {
	if abilities == nil {
		abilities = map[state.Ability]struct{}{}
	}
	return &state.GameState{
		Players: []*state.Player{state.NewPlayer("p1", "tovak")},
		Combat: state.NewCombatState([]state.CombatEnemy{{
			InstanceID: "e1",
			Definition: state.EnemyDefinition{
				Attacks:     []state.EnemyAttack{attack},
				Abilities:   abilities,
				Resistances: map[state.Element]struct{}{},
			},
			AttacksBlocked:   []bool{false},
			AttacksCancelled: []bool{false},
		}}, state.HexCoord{}),
	}
}

func TestBlockRequirementDoublesForSwift(t *testing.T) {
	g := blockTestState(map[state.Ability]struct{}{state.AbilitySwift: {}},
		state.EnemyAttack{AttackType: state.AttackMelee, Element: state.ElementPhysical, Amount: 3})

	require.Equal(t, 6, BlockRequirement(g, "e1", 0))
}

func TestBlockRequirementCumbersomeReducesBeforeSwift(t *testing.T) {
	g := blockTestState(map[state.Ability]struct{}{state.AbilitySwift: {}, state.AbilityCumbersome: {}},
		state.EnemyAttack{AttackType: state.AttackMelee, Element: state.ElementPhysical, Amount: 4})
	g.ActiveModifiers = []state.Modifier{{
		Scope:  state.Scope{Kind: state.ScopeOneEnemy, EnemyID: "e1"},
		Effect: state.ModifierEffect{Kind: state.EffectCumbersomePenalty, Amount: 1},
	}}

	// (4 - 1) * 2, not 4*2 - 1.
	require.Equal(t, 6, BlockRequirement(g, "e1", 0))
}

func TestBlockRequirementCompetitivePenaltyBeforeCumbersome(t *testing.T) {
	g := blockTestState(map[state.Ability]struct{}{state.AbilityCumbersome: {}},
		state.EnemyAttack{AttackType: state.AttackMelee, Element: state.ElementPhysical, Amount: 5})
	g.ActiveModifiers = []state.Modifier{
		{Scope: state.Scope{Kind: state.ScopeOneEnemy, EnemyID: "e1"}, Effect: state.ModifierEffect{Kind: state.EffectCumbersomePenalty, Amount: 2}},
		{Scope: state.Scope{Kind: state.ScopeOneEnemy, EnemyID: "e1"}, Effect: state.ModifierEffect{Kind: state.EffectCompetitivePenalty, Amount: 1}},
	}

	require.Equal(t, 2, BlockRequirement(g, "e1", 0))
}

func TestEffectiveBlockHalvesMismatchedElement(t *testing.T) {
	g := blockTestState(nil, state.EnemyAttack{AttackType: state.AttackMelee, Element: state.ElementFire, Amount: 4})

	committed := state.ElementalDamage{state.ElementFire: 2, state.ElementIce: 3}
	// fire matches in full, ice halves to 1.
	require.Equal(t, 3, EffectiveBlock(g, "p1", "e1", 0, committed))
}

func TestEffectiveBlockHonorsElementConversion(t *testing.T) {
	g := blockTestState(nil, state.EnemyAttack{AttackType: state.AttackMelee, Element: state.ElementFire, Amount: 4})
	g.ActiveModifiers = []state.Modifier{{
		Scope:  state.Scope{Kind: state.ScopeOneEnemy, EnemyID: "e1"},
		Effect: state.ModifierEffect{Kind: state.EffectConvertAttackElement, Element: state.ElementFire, ToElement: state.ElementIce},
	}}

	committed := state.ElementalDamage{state.ElementIce: 3}
	require.Equal(t, 3, EffectiveBlock(g, "p1", "e1", 0, committed), "ice block matches the converted attack element in full")
}

func TestEffectiveBlockColdToughnessBonus(t *testing.T) {
	g := blockTestState(map[state.Ability]struct{}{state.AbilityBrutal: {}},
		state.EnemyAttack{AttackType: state.AttackMelee, Element: state.ElementIce, Amount: 5})
	g.Combat.Enemies[0].Definition.Resistances = map[state.Element]struct{}{state.ElementFire: {}}
	g.ActiveModifiers = []state.Modifier{{
		Scope:           state.Scope{Kind: state.ScopeSelf},
		CreatedByPlayer: "p1",
		Effect:          state.ModifierEffect{Kind: state.EffectColdToughness},
	}}

	committed := state.ElementalDamage{state.ElementIce: 2}
	// 2 matching ice + 1 per ability and resistance (1 + 1).
	require.Equal(t, 4, EffectiveBlock(g, "p1", "e1", 0, committed))
}

func TestDeclareBlockConsumesPoolOnFailureAndSucceedsOnTopUp(t *testing.T) {
	g := blockTestState(nil, state.EnemyAttack{AttackType: state.AttackMelee, Element: state.ElementPhysical, Amount: 4})

	out := DeclareBlock(g, "p1", "e1", 0, state.ElementPhysical, 2)
	require.False(t, out.Blocked)
	require.Equal(t, 2, out.Effective)
	require.Equal(t, 4, out.Required)

	// The failed block stays committed against this enemy; topping up
	// crosses the threshold.
	out = DeclareBlock(g, "p1", "e1", 0, state.ElementPhysical, 2)
	require.True(t, out.Blocked)
	require.True(t, g.Combat.EnemyByID("e1").Flags.IsBlocked)
}

func TestDeclareBlockExcessFeedsShieldBash(t *testing.T) {
	g := blockTestState(nil, state.EnemyAttack{AttackType: state.AttackMelee, Element: state.ElementPhysical, Amount: 3})

	out := DeclareBlock(g, "p1", "e1", 0, state.ElementPhysical, 5)
	require.True(t, out.Blocked)
	require.Equal(t, 2, out.Excess)
}

func TestDeclareBlockExcessIsUndoubledForSwift(t *testing.T) {
	g := blockTestState(map[state.Ability]struct{}{state.AbilitySwift: {}},
		state.EnemyAttack{AttackType: state.AttackMelee, Element: state.ElementPhysical, Amount: 3})

	// required 6, undoubled 3; committing 7 leaves an excess of 4 over
	// the undoubled base.
	out := DeclareBlock(g, "p1", "e1", 0, state.ElementPhysical, 7)
	require.True(t, out.Blocked)
	require.Equal(t, 4, out.Excess)
}

func TestResolveEnemyDamageBrutalDoublesUnlessNullified(t *testing.T) {
	g := blockTestState(map[state.Ability]struct{}{state.AbilityBrutal: {}},
		state.EnemyAttack{AttackType: state.AttackMelee, Element: state.ElementPhysical, Amount: 3})

	wound, _, _ := ResolveEnemyDamage(g, "e1", 2)
	require.Equal(t, 4, wound, "3 doubled to 6, armor absorbs 2")

	g.ActiveModifiers = []state.Modifier{{
		Scope:  state.Scope{Kind: state.ScopeOneEnemy, EnemyID: "e1"},
		Effect: state.ModifierEffect{Kind: state.EffectAbilityNullifier, Ability: state.AbilityBrutal},
	}}
	wound, _, _ = ResolveEnemyDamage(g, "e1", 2)
	require.Equal(t, 1, wound, "nullified Brutal applies the raw attack")
}

func TestResolveEnemyDamageSkipsBlockedAttacks(t *testing.T) {
	g := blockTestState(nil, state.EnemyAttack{AttackType: state.AttackMelee, Element: state.ElementPhysical, Amount: 5})
	g.Combat.Enemies[0].AttacksBlocked[0] = true

	wound, _, _ := ResolveEnemyDamage(g, "e1", 0)
	require.Zero(t, wound)
}

func TestFinalizeAttackRemovedResistanceCountsFullValue(t *testing.T) {
	g := &state.GameState{Combat: state.NewCombatState([]state.CombatEnemy{{
		InstanceID: "e1",
		Definition: state.EnemyDefinition{
			Armor:       3,
			Fame:        4,
			Resistances: map[state.Element]struct{}{state.ElementIce: {}},
			Abilities:   map[state.Ability]struct{}{},
		},
	}}, state.HexCoord{})}
	g.ActiveModifiers = []state.Modifier{{
		Scope:  state.Scope{Kind: state.ScopeOneEnemy, EnemyID: "e1"},
		Effect: state.ModifierEffect{Kind: state.EffectRemoveResistance, Element: state.ElementIce},
	}}

	defeated, fame, ok := FinalizeAttack(g, map[state.Element]int{state.ElementIce: 3}, []state.EnemyInstanceID{"e1"})
	require.True(t, ok, "3 ice meets armor 3 once the ice resistance is removed")
	require.Equal(t, []state.EnemyInstanceID{"e1"}, defeated)
	require.Equal(t, 4, fame)
}

func TestCombinedArmorAppliesShieldBashReduction(t *testing.T) {
	g := &state.GameState{Combat: state.NewCombatState([]state.CombatEnemy{{
		InstanceID: "e1",
		Definition: state.EnemyDefinition{Armor: 5},
	}}, state.HexCoord{})}
	g.ActiveModifiers = []state.Modifier{{
		Scope:  state.Scope{Kind: state.ScopeOneEnemy, EnemyID: "e1"},
		Effect: state.ModifierEffect{Kind: state.EffectEnemyArmorDelta, Amount: -2},
	}}

	require.Equal(t, 3, CombinedArmor(g, []state.EnemyInstanceID{"e1"}))
}

func TestAllAttackersAssigned(t *testing.T) {
	g := blockTestState(nil, state.EnemyAttack{AttackType: state.AttackMelee, Element: state.ElementPhysical, Amount: 2})
	require.False(t, AllAttackersAssigned(g))

	g.Combat.Enemies[0].Flags.DamageAssigned = true
	require.True(t, AllAttackersAssigned(g))
}
