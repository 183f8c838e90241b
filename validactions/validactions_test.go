package validactions

import (
	"testing"

	"github.com/hexrealm/engine/content"
	"github.com/hexrealm/engine/state"
	"github.com/stretchr/testify/require"
)

func fixtureCatalog() *content.StaticCatalog {
	c := content.NewStaticCatalog()
	c.Cards["march"] = content.CardDef{
		ID:            "march",
		Color:         state.ColorGreen,
		SidewaysValue: 1,
		BasicEffect:   state.CardEffect{Kind: state.EffectKindGainMove, Amount: 2},
		PoweredEffect: state.CardEffect{Kind: state.EffectKindGainMove, Amount: 4},
	}
	c.Units["footman"] = content.UnitDef{ID: "footman", Cost: 4}
	return c
}

func fixtureState() *state.GameState {
	p := state.NewPlayer("p1", "tovak")
	p.Hand = []state.CardID{"march"}
	return &state.GameState{
		Players:            []*state.Player{p},
		TurnOrder:          []state.PlayerID{"p1"},
		CurrentPlayerIndex: 0,
		Offers:             map[string]state.Offer{"units": {UnitIDs: []state.UnitDefID{"footman"}}},
	}
}

func TestComputeNormalModeCardPlayability(t *testing.T) {
	g := fixtureState()
	catalog := fixtureCatalog()

	va := Compute(g, catalog, "p1")
	require.Equal(t, ModeNormal, va.Mode)
	require.Len(t, va.Cards, 1)

	card := va.Cards[0]
	require.True(t, card.Basic)
	require.False(t, card.Powered, "no green mana available")
	require.True(t, card.Sideways)
	require.ElementsMatch(t, []SidewaysOption{
		{Kind: "influence", Value: 1},
		{Kind: "move", Value: 1},
	}, card.SidewaysOptions)
}

func TestComputePoweredNeedsMatchingMana(t *testing.T) {
	g := fixtureState()
	g.Players[0].Crystals[state.ColorGreen].Restore(1)

	va := Compute(g, fixtureCatalog(), "p1")
	require.True(t, va.Cards[0].Powered)
}

func TestComputeTimeBentTurnBlocksOnlySpaceBendingPowered(t *testing.T) {
	catalog := fixtureCatalog()
	catalog.Cards["space_bending"] = content.CardDef{
		ID:             "space_bending",
		Color:          state.ColorGreen,
		IsSpaceBending: true,
		BasicEffect:    state.CardEffect{Kind: state.EffectKindGainMove, Amount: 1},
		PoweredEffect:  state.CardEffect{Kind: state.EffectKindGainMove, Amount: 3},
	}

	g := fixtureState()
	g.Players[0].Hand = []state.CardID{"march", "space_bending"}
	g.Players[0].Crystals[state.ColorGreen].Restore(1)
	g.Players[0].Flags.IsTimeBentTurn = true

	va := Compute(g, catalog, "p1")
	byID := map[state.CardID]CardPlayability{}
	for _, c := range va.Cards {
		byID[c.CardID] = c
	}
	require.True(t, byID["march"].Powered, "ordinary powered plays survive a time-bent turn")
	require.False(t, byID["space_bending"].Powered, "Space Bending may not chain")
	require.True(t, byID["space_bending"].Basic)
}

func TestComputeSidewaysMoveExcludedAfterRest(t *testing.T) {
	g := fixtureState()
	g.Players[0].Flags.HasRestedThisTurn = true

	va := Compute(g, fixtureCatalog(), "p1")
	require.Equal(t, []SidewaysOption{{Kind: "influence", Value: 1}}, va.Cards[0].SidewaysOptions)
}

func TestComputeRecruitOptionsHonorCommandTokensAndInfluence(t *testing.T) {
	g := fixtureState()
	catalog := fixtureCatalog()

	va := Compute(g, catalog, "p1")
	require.Empty(t, va.RecruitOptions, "cost 4 exceeds influence 0")

	state.Grant(g.Players[0].InfluencePoints, 4)
	va = Compute(g, catalog, "p1")
	require.Equal(t, []RecruitOption{{UnitID: "footman", Cost: 4}}, va.RecruitOptions)

	g.Players[0].Units = []state.PlayerUnit{{InstanceID: "u1"}}
	va = Compute(g, catalog, "p1")
	require.Empty(t, va.RecruitOptions, "no free command token")
}

func TestComputePendingChoiceModeWinsOverEverything(t *testing.T) {
	g := fixtureState()
	g.Players[0].PendingChoice = &state.PendingChoice{Options: []state.CardEffect{
		{Kind: state.EffectKindGainMove}, {Kind: state.EffectKindGainInfluence},
	}}
	g.Combat = state.NewCombatState(nil, state.HexCoord{})

	va := Compute(g, fixtureCatalog(), "p1")
	require.Equal(t, ModePendingChoice, va.Mode)
	require.Equal(t, 2, va.ChoiceOptionCount)
}

func combatFixture() *state.GameState {
	g := fixtureState()
	g.Combat = state.NewCombatState([]state.CombatEnemy{
		{
			InstanceID: "fort_0",
			Definition: state.EnemyDefinition{
				Armor:     3,
				Abilities: map[state.Ability]struct{}{state.AbilityFortified: {}},
				Attacks:   []state.EnemyAttack{{AttackType: state.AttackMelee, Element: state.ElementPhysical, Amount: 2}},
			},
			AttacksBlocked:   []bool{false},
			AttacksCancelled: []bool{false},
		},
		{
			InstanceID: "wolf_0",
			Definition: state.EnemyDefinition{
				Armor:     2,
				Abilities: map[state.Ability]struct{}{},
				Attacks:   []state.EnemyAttack{{AttackType: state.AttackMelee, Element: state.ElementFire, Amount: 3}},
			},
			AttacksBlocked:   []bool{false},
			AttacksCancelled: []bool{false},
		},
	}, state.HexCoord{})
	return g
}

func TestComputeRangedSiegeMarksFortifiedTargets(t *testing.T) {
	g := combatFixture()

	va := Compute(g, fixtureCatalog(), "p1")
	require.Equal(t, ModeCombat, va.Mode)
	require.Equal(t, state.PhaseRangedSiege, va.Phase)
	require.Len(t, va.AttackTargets, 2)

	byID := map[state.EnemyInstanceID]AttackTargetOption{}
	for _, opt := range va.AttackTargets {
		byID[opt.EnemyInstanceID] = opt
	}
	require.True(t, byID["fort_0"].RangedExcluded)
	require.False(t, byID["wolf_0"].RangedExcluded)
}

func TestComputeBlockPhaseSkipsHiddenSummonersAndBlockedAttacks(t *testing.T) {
	g := combatFixture()
	g.Combat.Phase = state.PhaseBlock
	g.Combat.Enemies[0].Flags.IsSummonerHidden = true

	va := Compute(g, fixtureCatalog(), "p1")
	require.Len(t, va.BlockOptions, 1)
	require.Equal(t, state.EnemyInstanceID("wolf_0"), va.BlockOptions[0].EnemyInstanceID)
	require.Equal(t, 3, va.BlockOptions[0].MinimumBlock)
	require.Equal(t, state.ElementFire, va.BlockOptions[0].Element)

	g.Combat.Enemies[1].AttacksBlocked[0] = true
	va = Compute(g, fixtureCatalog(), "p1")
	require.Empty(t, va.BlockOptions)
}

func TestComputeAssignDamageGatesPhaseEnd(t *testing.T) {
	g := combatFixture()
	g.Combat.Phase = state.PhaseAssignDamage

	va := Compute(g, fixtureCatalog(), "p1")
	require.Len(t, va.AttackTargets, 2)
	require.False(t, va.CanEndCombatPhase, "unassigned attackers hold the phase open")

	for i := range g.Combat.Enemies {
		g.Combat.Enemies[i].Flags.DamageAssigned = true
	}
	va = Compute(g, fixtureCatalog(), "p1")
	require.Empty(t, va.AttackTargets)
	require.True(t, va.CanEndCombatPhase)
}

func TestComputeAttackPhaseFinalizeNeedsDeclaredTargets(t *testing.T) {
	g := combatFixture()
	g.Combat.Phase = state.PhaseAttack

	va := Compute(g, fixtureCatalog(), "p1")
	require.False(t, va.CanFinalizeAttack)
	require.True(t, va.CanEndCombatPhase)

	g.Combat.DeclaredAttackTargets = []state.EnemyInstanceID{"wolf_0"}
	va = Compute(g, fixtureCatalog(), "p1")
	require.True(t, va.CanFinalizeAttack)
}
