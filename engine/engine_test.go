package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/hexrealm/engine/action"
	"github.com/hexrealm/engine/content"
	"github.com/hexrealm/engine/engineerr"
	"github.com/hexrealm/engine/gameevent"
	"github.com/hexrealm/engine/state"
)

// stubMap is a minimal state.MapView: every hex is adjacent to every
// other hex at cost 1 and always explored, which is all moveCommand
// needs to exercise its happy and unhappy paths.
type stubMap struct{}

func (stubMap) IsAdjacent(a, b state.HexCoord) bool { return a != b }
func (stubMap) MoveCost(a, b state.HexCoord) (int, bool) {
	if a == b {
		return 0, false
	}
	return 1, true
}
func (stubMap) SiteAt(hex state.HexCoord) (state.SiteID, bool) { return "", false }
func (stubMap) IsExplored(hex state.HexCoord) bool             { return true }

const unitOfferKey = "units_village"

func newTestEngine(catalog *content.StaticCatalog) *Engine {
	validators, commands := Wire(Deps{
		Catalog:      catalog,
		EnemiesAt:    func(g *state.GameState, hex state.HexCoord) []state.CombatEnemy { return nil },
		UnitArmor:    func(state.UnitInstanceID) int { return 0 },
		SiteEffect:   func(state.SiteID) (state.CardEffect, bool) { return state.CardEffect{}, false },
		UnitOfferKey: unitOfferKey,
		PlunderFameGain: 3,
	})
	return New(validators, commands, nil)
}

func newTestState(t *testing.T) (*state.GameState, *content.StaticCatalog) {
	t.Helper()
	state.ResetInstanceCounter()

	catalog := content.NewStaticCatalog()
	catalog.Units["footman"] = content.UnitDef{ID: "footman", Name: "Footman", Cost: 2}

	p1 := state.NewPlayer("p1", "hero-a")
	p1.InfluencePoints.SetMaximum(5)
	p1.InfluencePoints.Restore(5)
	p1.MovePoints.SetMaximum(4)
	p1.MovePoints.Restore(4)

	p2 := state.NewPlayer("p2", "hero-b")

	g := &state.GameState{
		Players:            []*state.Player{p1, p2},
		TurnOrder:          []state.PlayerID{"p1", "p2"},
		CurrentPlayerIndex: 0,
		Map:                stubMap{},
		Offers: map[string]state.Offer{
			unitOfferKey: {UnitIDs: []state.UnitDefID{"footman"}},
		},
		Decks:       map[string][]state.CardID{},
		EnemyTokens: map[state.TokenColor]*state.TokenPool{},
	}
	return g, catalog
}

func TestProcessAction_RecruitUnit_SuccessThenOutOfCommandTokens(t *testing.T) {
	g, catalog := newTestState(t)
	eng := newTestEngine(catalog)

	g2, events := eng.ProcessAction(g, "p1", action.Action{Type: action.TypeRecruitUnit, UnitID: "footman"})
	require.Len(t, events, 1)
	require.Equal(t, "UNIT_RECRUITED", string(events[0].Type))
	require.Len(t, g2.Players[0].Units, 1)
	require.Equal(t, 3, g2.Players[0].InfluencePoints.Current())
	require.Empty(t, g2.Offers[unitOfferKey].UnitIDs)

	// original state is untouched: Clone-then-mutate discipline.
	require.Empty(t, g.Players[0].Units)
	require.Equal(t, 5, g.Players[0].InfluencePoints.Current())

	// second recruit attempt: every command slot is taken (CommandTokens
	// defaults to 1), so the offer being restocked doesn't help.
	catalog.Units["archer"] = content.UnitDef{ID: "archer", Name: "Archer", Cost: 1}
	offer := g2.Offers[unitOfferKey]
	offer.UnitIDs = append(offer.UnitIDs, "archer")
	g2.Offers[unitOfferKey] = offer

	g3, events2 := eng.ProcessAction(g2, "p1", action.Action{Type: action.TypeRecruitUnit, UnitID: "archer"})
	require.Len(t, events2, 1)
	require.Equal(t, "INVALID_ACTION", string(events2[0].Type))
	require.Equal(t, string(engineerr.MissingResource), events2[0].Code)
	require.Contains(t, events2[0].Message, "command slot")
	require.Same(t, g2, g3)
	require.Len(t, g3.Players[0].Units, 1)
}

func TestProcessAction_Move_UndoRestoresPositionAndPoints(t *testing.T) {
	g, catalog := newTestState(t)
	eng := newTestEngine(catalog)

	from := g.Players[0].Position
	to := state.HexCoord{Q: from.Q + 1, R: from.R}

	g2, events := eng.ProcessAction(g, "p1", action.Action{Type: action.TypeMove, DestHex: to})
	require.Len(t, events, 1)
	require.Equal(t, "MOVED", string(events[0].Type))
	require.Equal(t, to, g2.Players[0].Position)
	require.Equal(t, 3, g2.Players[0].MovePoints.Current())
	require.True(t, eng.CanUndo("p1"))

	g3, undoEvents := eng.ProcessAction(g2, "p1", action.Action{Type: action.TypeUndo})
	require.Len(t, undoEvents, 1)
	require.Equal(t, "UNDO_APPLIED", string(undoEvents[0].Type))
	require.Equal(t, from, g3.Players[0].Position)
	require.Equal(t, 4, g3.Players[0].MovePoints.Current())
	require.False(t, eng.CanUndo("p1"))
}

func TestProcessAction_Undo_BlockedPastCheckpoint(t *testing.T) {
	g, catalog := newTestState(t)
	eng := newTestEngine(catalog)

	// MOVE leaves a reversible entry, then END_TURN leaves a checkpoint;
	// UNDO must refuse to reach back past it.
	g2, _ := eng.ProcessAction(g, "p1", action.Action{Type: action.TypeMove, DestHex: state.HexCoord{Q: 1}})
	g3, endEvents := eng.ProcessAction(g2, "p1", action.Action{Type: action.TypeEndTurn})
	require.NotEmpty(t, endEvents)
	require.Equal(t, "TURN_ENDED", string(endEvents[0].Type))
	require.False(t, eng.CanUndo("p1"))

	g4, undoEvents := eng.ProcessAction(g3, "p1", action.Action{Type: action.TypeUndo})
	require.Len(t, undoEvents, 1)
	require.Equal(t, "INVALID_ACTION", string(undoEvents[0].Type))
	require.Equal(t, string(engineerr.UndoBlocked), undoEvents[0].Code)
	require.Same(t, g3, g4)
}

func TestProcessAction_UndoWithEmptyHistory(t *testing.T) {
	g, catalog := newTestState(t)
	eng := newTestEngine(catalog)

	g2, events := eng.ProcessAction(g, "p1", action.Action{Type: action.TypeUndo})
	require.Len(t, events, 1)
	require.Equal(t, string(engineerr.UndoBlocked), events[0].Code)
	require.Same(t, g, g2)
}

func TestProcessAction_UnvalidatedAction_NotYourTurn(t *testing.T) {
	g, catalog := newTestState(t)
	eng := newTestEngine(catalog)

	g2, events := eng.ProcessAction(g, "p2", action.Action{Type: action.TypeMove, DestHex: state.HexCoord{Q: 1}})
	require.Len(t, events, 1)
	require.Equal(t, string(engineerr.NotYourTurn), events[0].Code)
	require.Same(t, g, g2)
}

func TestProcessAction_PublishesOntoBus(t *testing.T) {
	g, catalog := newTestState(t)
	validators, commands := Wire(Deps{
		Catalog:         catalog,
		EnemiesAt:       func(g *state.GameState, hex state.HexCoord) []state.CombatEnemy { return nil },
		UnitArmor:       func(state.UnitInstanceID) int { return 0 },
		SiteEffect:      func(state.SiteID) (state.CardEffect, bool) { return state.CardEffect{}, false },
		UnitOfferKey:    unitOfferKey,
		PlunderFameGain: 3,
	})
	bus := events.NewBus()
	eng := New(validators, commands, bus)

	var received []gameevent.Event
	_, err := bus.Subscribe(gameevent.RefFor(gameevent.TypeMoved), func(evt gameevent.Event) error {
		received = append(received, evt)
		return nil
	})
	require.NoError(t, err)

	from := g.Players[0].Position
	to := state.HexCoord{Q: from.Q + 1, R: from.R}
	_, evts := eng.ProcessAction(g, "p1", action.Action{Type: action.TypeMove, DestHex: to})
	require.Len(t, evts, 1)
	require.Len(t, received, 1)
	require.Equal(t, gameevent.TypeMoved, received[0].Type)
}
