package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGameStateJSONRoundTrip(t *testing.T) {
	p := NewPlayer("p1", "tovak")
	p.Hand = []CardID{"march", "rage"}
	p.Deck = []CardID{"stamina"}
	p.Fame = 11
	p.Reputation = -2
	p.Crystals[ColorBlue].Restore(2)
	Grant(p.MovePoints, 3)
	Grant(p.InfluencePoints, 5)
	_ = p.InfluencePoints.Consume(1)
	p.SkillCooldowns.UsedThisRound["motivation"] = struct{}{}
	p.PendingChoice = &PendingChoice{
		SourceCardID: "rage",
		Options: []CardEffect{
			{Kind: EffectKindGainAttack, Amount: 2, Element: ElementPhysical, AttackType: AttackMelee},
			{Kind: EffectKindGainBlock, Amount: 2, Element: ElementPhysical},
		},
	}

	g := &GameState{
		Players:            []*Player{p},
		TurnOrder:          []PlayerID{"p1"},
		CurrentPlayerIndex: 0,
		Offers:             map[string]Offer{"units": {UnitIDs: []UnitDefID{"footman"}}},
		Decks:              map[string][]CardID{"advanced": {"fire_bolt"}},
		EnemyTokens: map[TokenColor]*TokenPool{
			"brown": {Draw: []EnemyDefID{"gargoyle_0"}, Discard: []EnemyDefID{"orc_0"}},
		},
		Combat: NewCombatState([]CombatEnemy{{
			InstanceID: "e1",
			EnemyID:    "orc_war_beasts",
			Definition: EnemyDefinition{
				Armor:       3,
				Fame:        4,
				Attacks:     []EnemyAttack{{AttackType: AttackMelee, Element: ElementFire, Amount: 3}},
				Resistances: map[Element]struct{}{ElementFire: {}},
				Abilities:   map[Ability]struct{}{AbilityBrutal: {}},
			},
			AttacksBlocked:   []bool{false},
			AttacksCancelled: []bool{false},
		}}, HexCoord{Q: 2, R: -1}),
		ActiveModifiers: []Modifier{{
			ID:              "m1",
			Source:          ModifierSource{Kind: ModifierSourceCard, CardID: "rage"},
			Duration:        Duration{Kind: DurationCombat},
			Scope:           Scope{Kind: ScopeOneEnemy, EnemyID: "e1"},
			Effect:          ModifierEffect{Kind: EffectAttackBonus, Amount: 1},
			CreatedByPlayer: "p1",
		}},
		RNG:         RNGState{Seed: 99, Counter: 4},
		TimeOfDay:   TimeNight,
		RoundNumber: 3,
	}

	data, err := json.Marshal(g)
	require.NoError(t, err)

	var back GameState
	require.NoError(t, json.Unmarshal(data, &back))

	require.Equal(t, g.TurnOrder, back.TurnOrder)
	require.Equal(t, g.RNG, back.RNG)
	require.Equal(t, g.TimeOfDay, back.TimeOfDay)
	require.Equal(t, g.Offers, back.Offers)
	require.Equal(t, g.EnemyTokens, back.EnemyTokens)
	require.Equal(t, g.ActiveModifiers, back.ActiveModifiers)
	require.Equal(t, g.Combat.Enemies, back.Combat.Enemies)

	bp := back.Players[0]
	require.Equal(t, p.Hand, bp.Hand)
	require.Equal(t, p.Fame, bp.Fame)
	require.Equal(t, p.Reputation, bp.Reputation)
	require.Equal(t, 2, bp.Crystals[ColorBlue].Current())
	require.Equal(t, 3, bp.MovePoints.Current())
	require.Equal(t, 4, bp.InfluencePoints.Current())
	require.Equal(t, 5, bp.InfluencePoints.Maximum())
	require.Contains(t, bp.SkillCooldowns.UsedThisRound, SkillID("motivation"))
	require.Equal(t, p.PendingChoice, bp.PendingChoice)
}
