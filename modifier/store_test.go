package modifier

import (
	"testing"

	"github.com/hexrealm/engine/state"
	"github.com/stretchr/testify/require"
)

func enemyState(abilities ...state.Ability) *state.GameState {
	abilitySet := map[state.Ability]struct{}{}
	for _, a := range abilities {
		abilitySet[a] = struct{}{}
	}
	return &state.GameState{
		Combat: state.NewCombatState([]state.CombatEnemy{{
			InstanceID: "e1",
			Definition: state.EnemyDefinition{Abilities: abilitySet},
		}}, state.HexCoord{}),
	}
}

func forEnemy(kind state.EffectKind, amount int) state.Modifier {
	return state.Modifier{
		Scope:  state.Scope{Kind: state.ScopeOneEnemy, EnemyID: "e1"},
		Effect: state.ModifierEffect{Kind: kind, Amount: amount},
	}
}

func TestGetForPlayerFiltersScope(t *testing.T) {
	g := &state.GameState{ActiveModifiers: []state.Modifier{
		{Scope: state.Scope{Kind: state.ScopeSelf}, CreatedByPlayer: "p1"},
		{Scope: state.Scope{Kind: state.ScopeSelf}, CreatedByPlayer: "p2"},
		{Scope: state.Scope{Kind: state.ScopeGlobal}, CreatedByPlayer: "p2"},
	}}

	mods := GetForPlayer(g, "p1")
	require.Len(t, mods, 2, "own self-scoped plus global")
}

func TestGetForEnemyMatchesAllEnemiesAndOneEnemy(t *testing.T) {
	g := &state.GameState{ActiveModifiers: []state.Modifier{
		{Scope: state.Scope{Kind: state.ScopeAllEnemies}},
		{Scope: state.Scope{Kind: state.ScopeOneEnemy, EnemyID: "e1"}},
		{Scope: state.Scope{Kind: state.ScopeOneEnemy, EnemyID: "e2"}},
	}}

	require.Len(t, GetForEnemy(g, "e1"), 2)
}

func TestEffectiveEnemyAttackOrdering(t *testing.T) {
	g := enemyState(state.AbilitySwift, state.AbilityCumbersome)
	g.ActiveModifiers = []state.Modifier{
		forEnemy(state.EffectAttackBonus, 2),
		forEnemy(state.EffectCumbersomePenalty, 1),
		forEnemy(state.EffectCompetitivePenalty, 1),
	}

	// (4 + 2 - 1 - 1) * 2: additive bonus, then the penalties, then Swift
	// doubling last.
	require.Equal(t, 8, GetEffectiveEnemyAttack(g, "e1", 4))
}

func TestEffectiveEnemyAttackSwiftNullified(t *testing.T) {
	g := enemyState(state.AbilitySwift)
	g.ActiveModifiers = []state.Modifier{{
		Scope:  state.Scope{Kind: state.ScopeOneEnemy, EnemyID: "e1"},
		Effect: state.ModifierEffect{Kind: state.EffectAbilityNullifier, Ability: state.AbilitySwift},
	}}

	require.Equal(t, 4, GetEffectiveEnemyAttack(g, "e1", 4))
}

func TestEffectiveEnemyAttackClampsAtZero(t *testing.T) {
	g := enemyState(state.AbilityCumbersome)
	g.ActiveModifiers = []state.Modifier{forEnemy(state.EffectCumbersomePenalty, 9)}

	require.Equal(t, 0, GetEffectiveEnemyAttack(g, "e1", 3))
}

func TestEffectiveEnemyDamageBrutalNotSwift(t *testing.T) {
	g := enemyState(state.AbilitySwift)
	require.Equal(t, 3, GetEffectiveEnemyDamage(g, "e1", 3), "Swift doubles block, never damage")

	g = enemyState(state.AbilityBrutal)
	require.Equal(t, 6, GetEffectiveEnemyDamage(g, "e1", 3))
}

func TestEffectiveAttackElementMostRecentConversionWins(t *testing.T) {
	g := enemyState()
	g.ActiveModifiers = []state.Modifier{
		{Scope: state.Scope{Kind: state.ScopeOneEnemy, EnemyID: "e1"}, Effect: state.ModifierEffect{Kind: state.EffectConvertAttackElement, Element: state.ElementFire, ToElement: state.ElementIce}},
		{Scope: state.Scope{Kind: state.ScopeOneEnemy, EnemyID: "e1"}, Effect: state.ModifierEffect{Kind: state.EffectConvertAttackElement, Element: state.ElementIce, ToElement: state.ElementPhysical}},
	}

	// fire -> ice, then the later conversion carries ice -> physical.
	require.Equal(t, state.ElementPhysical, GetEffectiveAttackElement(g, "e1", state.ElementFire))
}

func TestIsResistanceRemoved(t *testing.T) {
	g := enemyState()
	require.False(t, IsResistanceRemoved(g, "e1", state.ElementIce))

	g.ActiveModifiers = []state.Modifier{{
		Scope:  state.Scope{Kind: state.ScopeOneEnemy, EnemyID: "e1"},
		Effect: state.ModifierEffect{Kind: state.EffectRemoveResistance, Element: state.ElementIce},
	}}
	require.True(t, IsResistanceRemoved(g, "e1", state.ElementIce))
	require.False(t, IsResistanceRemoved(g, "e1", state.ElementFire))
}

func TestEffectiveEnemyArmorNeverBelowOne(t *testing.T) {
	g := enemyState()
	g.ActiveModifiers = []state.Modifier{forEnemy(state.EffectEnemyArmorDelta, -10)}

	require.Equal(t, 1, GetEffectiveEnemyArmor(g, "e1", 4))
}

func TestSidewaysValueConditions(t *testing.T) {
	g := &state.GameState{ActiveModifiers: []state.Modifier{
		{
			Scope:           state.Scope{Kind: state.ScopeSelf},
			CreatedByPlayer: "p1",
			Effect: state.ModifierEffect{
				Kind:      state.EffectSidewaysValue,
				Amount:    1,
				Condition: &state.SidewaysCondition{RequireManaFromSource: true},
			},
		},
		{
			Scope:           state.Scope{Kind: state.ScopeSelf},
			CreatedByPlayer: "p1",
			Effect:          state.ModifierEffect{Kind: state.EffectSidewaysValue, Amount: 1},
		},
	}}

	require.Equal(t, 2, GetEffectiveSidewaysValue(g, "p1", 1, SidewaysArgs{}), "unconditional bonus applies")
	require.Equal(t, 3, GetEffectiveSidewaysValue(g, "p1", 1, SidewaysArgs{UsedManaFromSource: true}))
}

func TestPurgeBoundaries(t *testing.T) {
	g := &state.GameState{ActiveModifiers: []state.Modifier{
		{Duration: state.Duration{Kind: state.DurationTurn}, CreatedByPlayer: "p1"},
		{Duration: state.Duration{Kind: state.DurationTurn}, CreatedByPlayer: "p2"},
		{Duration: state.Duration{Kind: state.DurationCombat}},
		{Duration: state.Duration{Kind: state.DurationRound}},
		{Duration: state.Duration{Kind: state.DurationPermanent}},
	}}

	PurgeTurnBoundary(g, "p1")
	require.Len(t, g.ActiveModifiers, 4, "only p1's turn-scoped modifier goes")

	PurgeCombatBoundary(g)
	require.Len(t, g.ActiveModifiers, 3)

	PurgeRoundBoundary(g)
	require.Len(t, g.ActiveModifiers, 2)
}
