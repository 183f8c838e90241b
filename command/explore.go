package command

import (
	"github.com/hexrealm/engine/action"
	"github.com/hexrealm/engine/engineerr"
	"github.com/hexrealm/engine/gameevent"
	"github.com/hexrealm/engine/rng"
	"github.com/hexrealm/engine/state"
)

// exploreCommand reveals an unexplored hex and may draw an enemy token
// onto it. It is irreversible (spec §4.3): exploration fans out into map
// content the engine does not own, and it consumes an RNG draw, so the
// history records a checkpoint rather than a reversible entry.
type exploreCommand struct {
	pid     state.PlayerID
	destHex state.HexCoord
}

// NewExploreFactory returns the command.Factory for EXPLORE.
func NewExploreFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &exploreCommand{pid: pid, destHex: a.DestHex}, nil
	}
}

func (c *exploreCommand) Type() action.Type        { return action.TypeExplore }
func (c *exploreCommand) PlayerID() state.PlayerID { return c.pid }
func (c *exploreCommand) IsReversible() bool       { return false }

func (c *exploreCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeExplore), "unknown player")
	}
	if g.Map == nil {
		return nil, engineerr.New(engineerr.RuleViolation, string(c.pid), string(action.TypeExplore), "no map loaded")
	}
	if !g.Map.IsAdjacent(p.Position, c.destHex) {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeExplore), "destination is not adjacent")
	}
	if g.Map.IsExplored(c.destHex) {
		return nil, engineerr.New(engineerr.RuleViolation, string(c.pid), string(action.TypeExplore), "hex is already explored")
	}
	cost, ok := g.Map.MoveCost(p.Position, c.destHex)
	if !ok {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeExplore), "destination is not passable")
	}
	if p.MovePoints.Current() < cost {
		return nil, engineerr.New(engineerr.MissingResource, string(c.pid), string(action.TypeExplore), "insufficient move points")
	}

	if err := p.MovePoints.Consume(cost); err != nil {
		return nil, engineerr.New(engineerr.MissingResource, string(c.pid), string(action.TypeExplore), err.Error())
	}
	p.Position = c.destHex

	events := []gameevent.Event{{
		Type:     gameevent.TypeExplored,
		PlayerID: c.pid,
	}}

	source := rng.Resume(g.RNG.Seed, g.RNG.Counter)
	pool := g.EnemyTokens[state.TokenColor("brown")]
	if pool != nil && len(pool.Draw) > 0 {
		idx := source.DrawIndex(len(pool.Draw))
		defID := pool.Draw[idx]
		pool.Draw = append(append([]state.EnemyDefID(nil), pool.Draw[:idx]...), pool.Draw[idx+1:]...)

		events = append(events, gameevent.Event{
			Type:       gameevent.TypeEnemySummoned,
			PlayerID:   c.pid,
			EnemyDefID: defID,
		})
	}
	g.RNG.Seed, g.RNG.Counter = source.Seed(), source.Counter()

	return events, nil
}

func (c *exploreCommand) Undo(g *state.GameState) error {
	panic("explore is irreversible; engine must never call Undo on it")
}
