package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlayerCloneIsIndependent(t *testing.T) {
	p := NewPlayer("p1", "tovak")
	p.Hand = []CardID{"card_1", "card_2"}
	p.Crystals[ColorRed].Restore(1)

	cp := p.Clone()
	cp.Hand[0] = "mutated"
	cp.Crystals[ColorRed].Restore(1)

	require.Equal(t, CardID("card_1"), p.Hand[0], "original hand must not see clone mutation")
	require.Equal(t, 1, p.Crystals[ColorRed].Current(), "original crystal resource must not see clone mutation")
	require.Equal(t, 2, cp.Crystals[ColorRed].Current())
}

func TestClampReputation(t *testing.T) {
	require.Equal(t, 7, ClampReputation(12))
	require.Equal(t, -7, ClampReputation(-12))
	require.Equal(t, 3, ClampReputation(3))
}

func TestCheckInvariantsCatchesTooManyUnits(t *testing.T) {
	p := NewPlayer("p1", "tovak")
	p.CommandTokens = 1
	p.Units = []PlayerUnit{{InstanceID: "u1"}, {InstanceID: "u2"}}
	g := &GameState{Players: []*Player{p}}

	err := CheckInvariants(g)
	require.Error(t, err)
}

func TestCheckInvariantsCatchesDuplicateEnemyInstance(t *testing.T) {
	g := &GameState{
		Combat: NewCombatState([]CombatEnemy{
			{InstanceID: "e1"},
			{InstanceID: "e1"},
		}, HexCoord{}),
	}
	require.Error(t, CheckInvariants(g))
}

func TestDeriveIsBlocked(t *testing.T) {
	e := CombatEnemy{AttacksBlocked: []bool{true, false}}
	e.DeriveIsBlocked()
	require.False(t, e.Flags.IsBlocked)

	e.AttacksBlocked = []bool{true, true}
	e.DeriveIsBlocked()
	require.True(t, e.Flags.IsBlocked)
}

func TestGameStateCloneDeepCopiesCombat(t *testing.T) {
	g := &GameState{
		Players: []*Player{NewPlayer("p1", "tovak")},
		Combat:  NewCombatState([]CombatEnemy{{InstanceID: "e1", AttacksBlocked: []bool{false}}}, HexCoord{Q: 1, R: 2}),
	}
	cp := g.Clone()
	cp.Combat.Enemies[0].AttacksBlocked[0] = true
	require.False(t, g.Combat.Enemies[0].AttacksBlocked[0])
}
