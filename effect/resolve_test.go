package effect

import (
	"testing"

	"github.com/hexrealm/engine/state"
	"github.com/stretchr/testify/require"
)

func singlePlayerState() (*state.GameState, *state.Player) {
	p := state.NewPlayer("p1", "tovak")
	g := &state.GameState{Players: []*state.Player{p}}
	return g, p
}

func TestResolveTerminalGainMove(t *testing.T) {
	g, p := singlePlayerState()

	res := Resolve(g, "p1", state.CardEffect{Kind: state.EffectKindGainMove, Amount: 3})
	require.False(t, res.Pending)
	require.Len(t, res.Emitted, 1)
	require.Equal(t, 3, p.MovePoints.Current())
}

func TestResolveDrawStopsAtEmptyDeck(t *testing.T) {
	g, p := singlePlayerState()
	p.Deck = []state.CardID{"march", "rage"}

	res := Resolve(g, "p1", state.CardEffect{Kind: state.EffectKindDraw, Amount: 5})
	require.False(t, res.Pending)
	require.Equal(t, []state.CardID{"march", "rage"}, p.Hand)
	require.Empty(t, p.Deck)
}

func TestResolveGainManaToken(t *testing.T) {
	g, p := singlePlayerState()

	Resolve(g, "p1", state.CardEffect{Kind: state.EffectKindGainManaToken, Color: state.ColorBlue})
	require.Len(t, p.PureMana, 1)
	require.Equal(t, state.ColorBlue, p.PureMana[0].Color)
}

func TestResolveChoiceZeroViableOptionsIsNoOp(t *testing.T) {
	g, p := singlePlayerState()
	// Both options target enemies that do not exist (no combat).
	eff := state.CardEffect{Kind: state.EffectKindChoice, Options: []state.CardEffect{
		{Kind: state.EffectKindEnemySelect, EnemyTarget: "ghost"},
		{Kind: state.EffectKindAbilityNullify, EnemyTarget: "ghost", Ability: state.AbilityBrutal},
	}}

	res := Resolve(g, "p1", eff)
	require.False(t, res.Pending)
	require.Nil(t, p.PendingChoice)
	require.True(t, IsResolvable(g, "p1", eff), "zero viable options auto-resolves to a no-op")
}

func TestResolveChoiceSingleOptionAutoResolves(t *testing.T) {
	g, p := singlePlayerState()
	eff := state.CardEffect{Kind: state.EffectKindChoice, Options: []state.CardEffect{
		{Kind: state.EffectKindGainInfluence, Amount: 2},
	}}

	res := Resolve(g, "p1", eff)
	require.False(t, res.Pending)
	require.Nil(t, p.PendingChoice)
	require.Equal(t, 2, p.InfluencePoints.Current())
}

func TestResolveChoiceManyOptionsParksPendingChoice(t *testing.T) {
	g, p := singlePlayerState()
	eff := state.CardEffect{Kind: state.EffectKindChoice, Options: []state.CardEffect{
		{Kind: state.EffectKindGainMove, Amount: 2},
		{Kind: state.EffectKindGainInfluence, Amount: 2},
	}}

	res := Resolve(g, "p1", eff)
	require.True(t, res.Pending)
	require.NotNil(t, p.PendingChoice)
	require.Len(t, p.PendingChoice.Options, 2)
	require.False(t, IsResolvable(g, "p1", eff))
}

func TestCompoundStashesRemainderOnPendingChoice(t *testing.T) {
	g, p := singlePlayerState()
	eff := state.CardEffect{Kind: state.EffectKindCompound, SubEffects: []state.CardEffect{
		{Kind: state.EffectKindGainMove, Amount: 1},
		{Kind: state.EffectKindChoice, Options: []state.CardEffect{
			{Kind: state.EffectKindGainMove, Amount: 2},
			{Kind: state.EffectKindGainInfluence, Amount: 2},
		}},
		{Kind: state.EffectKindGainInfluence, Amount: 5},
	}}

	res := Resolve(g, "p1", eff)
	require.True(t, res.Pending)
	require.Equal(t, 1, p.MovePoints.Current(), "sub-effects before the choice applied")
	require.Equal(t, 0, p.InfluencePoints.Current(), "sub-effects after the choice wait")
	require.Len(t, p.PendingChoice.RemainingEffects, 1)

	// Resolving the choice applies the pick, then the stashed tail.
	res = ResolveChoice(g, "p1", 1)
	require.False(t, res.Pending)
	require.Nil(t, p.PendingChoice)
	require.Equal(t, 7, p.InfluencePoints.Current())
}

func TestResolveChoiceClearsPendingBeforeApplying(t *testing.T) {
	g, p := singlePlayerState()
	Resolve(g, "p1", state.CardEffect{Kind: state.EffectKindChoice, Options: []state.CardEffect{
		{Kind: state.EffectKindGainMove, Amount: 2},
		{Kind: state.EffectKindGainInfluence, Amount: 3},
	}})
	require.NotNil(t, p.PendingChoice)

	ResolveChoice(g, "p1", 0)
	require.Nil(t, p.PendingChoice)
	require.Equal(t, 2, p.MovePoints.Current())
}

func TestResolveAbilityNullifyAddsCombatModifier(t *testing.T) {
	g, _ := singlePlayerState()
	g.Combat = state.NewCombatState([]state.CombatEnemy{{
		InstanceID: "e1",
		Definition: state.EnemyDefinition{Abilities: map[state.Ability]struct{}{state.AbilityBrutal: {}}},
	}}, state.HexCoord{})

	Resolve(g, "p1", state.CardEffect{Kind: state.EffectKindAbilityNullify, EnemyTarget: "e1", Ability: state.AbilityBrutal})
	require.Len(t, g.ActiveModifiers, 1)
	require.Equal(t, state.DurationCombat, g.ActiveModifiers[0].Duration.Kind)
	require.Equal(t, state.EffectAbilityNullifier, g.ActiveModifiers[0].Effect.Kind)
}

func TestArcaneImmuneEnemyIsNotAViableTarget(t *testing.T) {
	g, p := singlePlayerState()
	g.Combat = state.NewCombatState([]state.CombatEnemy{
		{
			InstanceID: "sorcerer_0",
			Definition: state.EnemyDefinition{Abilities: map[state.Ability]struct{}{state.AbilityArcaneImmune: {}, state.AbilityBrutal: {}}},
		},
		{
			InstanceID: "wolf_0",
			Definition: state.EnemyDefinition{Abilities: map[state.Ability]struct{}{state.AbilityBrutal: {}}},
		},
	}, state.HexCoord{})

	eff := state.CardEffect{Kind: state.EffectKindChoice, Options: []state.CardEffect{
		{Kind: state.EffectKindAbilityNullify, EnemyTarget: "sorcerer_0", Ability: state.AbilityBrutal},
		{Kind: state.EffectKindAbilityNullify, EnemyTarget: "wolf_0", Ability: state.AbilityBrutal},
	}}

	// The immune enemy drops out, leaving a single option that
	// auto-resolves against the wolf.
	res := Resolve(g, "p1", eff)
	require.False(t, res.Pending)
	require.Nil(t, p.PendingChoice)
	require.Len(t, g.ActiveModifiers, 1)
	require.Equal(t, state.EnemyInstanceID("wolf_0"), g.ActiveModifiers[0].Scope.EnemyID)
}

func TestDirectNullifyAgainstArcaneImmuneIsANoOp(t *testing.T) {
	g, _ := singlePlayerState()
	g.Combat = state.NewCombatState([]state.CombatEnemy{{
		InstanceID: "sorcerer_0",
		Definition: state.EnemyDefinition{Abilities: map[state.Ability]struct{}{state.AbilityArcaneImmune: {}, state.AbilityBrutal: {}}},
	}}, state.HexCoord{})

	Resolve(g, "p1", state.CardEffect{Kind: state.EffectKindAbilityNullify, EnemyTarget: "sorcerer_0", Ability: state.AbilityBrutal})
	require.Empty(t, g.ActiveModifiers)
}

func TestHealClearsWoundedUnits(t *testing.T) {
	g, p := singlePlayerState()
	p.Units = []state.PlayerUnit{
		{InstanceID: "u1", IsWounded: true},
		{InstanceID: "u2", IsWounded: true},
	}

	Resolve(g, "p1", state.CardEffect{Kind: state.EffectKindHeal, Amount: 1})
	require.False(t, p.Units[0].IsWounded)
	require.True(t, p.Units[1].IsWounded, "heal amount caps the units healed")
}
