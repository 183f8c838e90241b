package command

import (
	"github.com/hexrealm/engine/action"
	"github.com/hexrealm/engine/engineerr"
	"github.com/hexrealm/engine/gameevent"
	"github.com/hexrealm/engine/state"
)

// moveCommand spends a player's move points to step to an adjacent,
// explored hex (spec §4.2 "MOVE"). Reversible: Undo restores the prior
// position and refunds the spent move points.
type moveCommand struct {
	pid     state.PlayerID
	destHex state.HexCoord

	fromHex state.HexCoord
	cost    int
}

// NewMoveFactory returns the command.Factory for MOVE.
func NewMoveFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &moveCommand{pid: pid, destHex: a.DestHex}, nil
	}
}

func (c *moveCommand) Type() action.Type          { return action.TypeMove }
func (c *moveCommand) PlayerID() state.PlayerID   { return c.pid }
func (c *moveCommand) IsReversible() bool         { return true }

func (c *moveCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeMove), "unknown player")
	}
	if g.Map == nil {
		return nil, engineerr.New(engineerr.RuleViolation, string(c.pid), string(action.TypeMove), "no map loaded")
	}
	if !g.Map.IsAdjacent(p.Position, c.destHex) {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeMove), "destination is not adjacent")
	}
	cost, ok := g.Map.MoveCost(p.Position, c.destHex)
	if !ok {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeMove), "destination is not passable")
	}
	if p.MovePoints.Current() < cost {
		return nil, engineerr.New(engineerr.MissingResource, string(c.pid), string(action.TypeMove), "insufficient move points")
	}

	c.fromHex = p.Position
	c.cost = cost

	if err := p.MovePoints.Consume(cost); err != nil {
		return nil, engineerr.New(engineerr.MissingResource, string(c.pid), string(action.TypeMove), err.Error())
	}
	p.Position = c.destHex

	return []gameevent.Event{{
		Type:     gameevent.TypeMoved,
		PlayerID: c.pid,
		Amount:   cost,
	}}, nil
}

func (c *moveCommand) Undo(g *state.GameState) error {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeMove), "unknown player")
	}
	p.Position = c.fromHex
	p.MovePoints.Restore(c.cost)
	return nil
}
