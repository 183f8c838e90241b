package combat

import (
	"testing"

	"github.com/hexrealm/engine/state"
	"github.com/stretchr/testify/require"
)

type stubCatalog map[state.EnemyDefID]state.EnemyDefinition

func (c stubCatalog) Enemy(id state.EnemyDefID) (state.EnemyDefinition, bool) {
	d, ok := c[id]
	return d, ok
}

func summoner(id state.EnemyInstanceID, ability state.Ability, faction string) state.CombatEnemy {
	return state.CombatEnemy{
		InstanceID: id,
		Definition: state.EnemyDefinition{
			Faction:   faction,
			Abilities: map[state.Ability]struct{}{ability: {}},
			Attacks:   []state.EnemyAttack{{AttackType: state.AttackMelee, Element: state.ElementPhysical, Amount: 3}},
		},
		AttacksBlocked:   []bool{false},
		AttacksCancelled: []bool{false},
	}
}

func summonTestState(pool []state.EnemyDefID, enemies ...state.CombatEnemy) *state.GameState {
	return &state.GameState{
		Combat: state.NewCombatState(enemies, state.HexCoord{}),
		EnemyTokens: map[state.TokenColor]*state.TokenPool{
			"brown": {Draw: pool},
		},
	}
}

func TestResolveSummonsDrawsTopTokenAndHidesSummoner(t *testing.T) {
	state.ResetInstanceCounter()
	catalog := stubCatalog{
		"gargoyle_0": {Armor: 4, Fame: 2},
	}
	g := summonTestState([]state.EnemyDefID{"gargoyle_0"}, summoner("orc_0", state.AbilitySummon, "orcs"))

	summons := ResolveSummons(g, catalog)
	require.Len(t, summons, 1)
	require.Equal(t, state.EnemyDefID("gargoyle_0"), summons[0].EnemyDefID)
	require.Equal(t, state.EnemyInstanceID("orc_0"), summons[0].SummonedBy)

	require.Len(t, g.Combat.Enemies, 2)
	require.True(t, g.Combat.EnemyByID("orc_0").Flags.IsSummonerHidden)
	require.Equal(t, state.EnemyInstanceID("orc_0"), g.Combat.Enemies[1].SummonedByInstanceID)
	require.Equal(t, state.TokenColor("brown"), g.Combat.Enemies[1].SummonedFromPool)
	require.Empty(t, g.EnemyTokens["brown"].Draw)
}

func TestResolveSummonsPrefersSummonerFaction(t *testing.T) {
	state.ResetInstanceCounter()
	catalog := stubCatalog{
		"gargoyle_0": {Faction: "dungeon"},
		"orc_grunt":  {Faction: "orcs"},
	}
	g := summonTestState([]state.EnemyDefID{"gargoyle_0", "orc_grunt"}, summoner("orc_0", state.AbilitySummon, "orcs"))

	summons := ResolveSummons(g, catalog)
	require.Len(t, summons, 1)
	require.Equal(t, state.EnemyDefID("orc_grunt"), summons[0].EnemyDefID)
	require.Equal(t, []state.EnemyDefID{"gargoyle_0"}, g.EnemyTokens["brown"].Draw)
}

func TestResolveSummonsEmptyPoolLeavesSummonerVisible(t *testing.T) {
	g := summonTestState(nil, summoner("orc_0", state.AbilitySummon, "orcs"))

	summons := ResolveSummons(g, stubCatalog{})
	require.Empty(t, summons)
	require.Len(t, g.Combat.Enemies, 1)
	require.False(t, g.Combat.EnemyByID("orc_0").Flags.IsSummonerHidden)
}

func TestResolveSummonsMultiSummonStopsWhenPoolEmpties(t *testing.T) {
	state.ResetInstanceCounter()
	catalog := stubCatalog{
		"gargoyle_0": {},
		"gargoyle_1": {},
	}
	s := summoner("dragon_0", state.AbilitySummon, "")
	s.Definition.SummonCount = 3
	g := summonTestState([]state.EnemyDefID{"gargoyle_0", "gargoyle_1"}, s)

	summons := ResolveSummons(g, catalog)
	require.Len(t, summons, 2, "pool of two satisfies a triple summon partially")
	require.True(t, g.Combat.EnemyByID("dragon_0").Flags.IsSummonerHidden, "one successful draw is enough to hide")
}

func TestResolveSummonsSkipsNullifiedAbility(t *testing.T) {
	catalog := stubCatalog{"gargoyle_0": {}}
	g := summonTestState([]state.EnemyDefID{"gargoyle_0"}, summoner("orc_0", state.AbilitySummon, "orcs"))
	g.ActiveModifiers = []state.Modifier{{
		Scope:  state.Scope{Kind: state.ScopeOneEnemy, EnemyID: "orc_0"},
		Effect: state.ModifierEffect{Kind: state.EffectAbilityNullifier, Ability: state.AbilitySummon},
	}}

	require.Empty(t, ResolveSummons(g, catalog))
	require.Len(t, g.EnemyTokens["brown"].Draw, 1)
}

func TestDiscardSummonsReturnsTokensAndUnhidesSummoner(t *testing.T) {
	state.ResetInstanceCounter()
	catalog := stubCatalog{"gargoyle_0": {}}
	g := summonTestState([]state.EnemyDefID{"gargoyle_0"}, summoner("orc_0", state.AbilitySummon, "orcs"))
	ResolveSummons(g, catalog)
	require.Len(t, g.Combat.Enemies, 2)

	discards := DiscardSummons(g)
	require.Len(t, discards, 1)
	require.Equal(t, state.EnemyDefID("gargoyle_0"), discards[0].EnemyDefID)
	require.Len(t, g.Combat.Enemies, 1)
	require.Equal(t, []state.EnemyDefID{"gargoyle_0"}, g.EnemyTokens["brown"].Discard)
	require.False(t, g.Combat.EnemyByID("orc_0").Flags.IsSummonerHidden)
}
