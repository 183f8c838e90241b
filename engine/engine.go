// Package engine implements the Engine Driver (spec §4.1): the single
// processAction entry point that runs the validator chain, builds and
// executes a command, records history (reversible entry or checkpoint),
// and hands back the new state plus the events produced. The
// validator/command lookup keeps the teacher's registry-of-factories
// pattern as a plain map[action.Type]Factory rather than its generic
// pipeline.Registry, since every action here shares one fixed
// (state, playerID, action) -> (state, events) input/output shape.
package engine

import (
	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/hexrealm/engine/action"
	"github.com/hexrealm/engine/command"
	"github.com/hexrealm/engine/engineerr"
	"github.com/hexrealm/engine/gameevent"
	"github.com/hexrealm/engine/state"
	"github.com/hexrealm/engine/validate"
)

// historyEntry is one record in a player's undo stack. A nil Command
// marks a checkpoint: an irreversible command's boundary, past which
// Undo must never reach (spec §9 "Undo model").
type historyEntry struct {
	Command command.Command
}

func (h historyEntry) isCheckpoint() bool { return h.Command == nil }

// Engine ties together the validator and command registries with the
// per-player undo history. It holds no GameState itself — GameState is
// threaded through ProcessAction/Undo by the caller, who must discard
// any state value once a newer one has been returned (spec §5 "Shared
// resources: None").
type Engine struct {
	Validators *validate.Registry
	Commands   *command.Registry

	// Bus mirrors every event ProcessAction/Undo produces (spec §4.1 step
	// 6: "the engine invokes Combat Transitions... to emit follow-on
	// events"). The authoritative output remains the returned slice; the
	// bus is a secondary, synchronous fan-out a deployment can subscribe
	// to (e.g. a presentation layer wanting push notifications) without
	// the driver itself becoming asynchronous (spec §5).
	Bus events.EventBus

	history map[state.PlayerID][]historyEntry
}

// New returns an Engine ready to process actions against the given
// validator/command registries (see Wire for a concrete instance). bus
// may be nil, in which case events are only ever returned, never
// published.
func New(validators *validate.Registry, commands *command.Registry, bus events.EventBus) *Engine {
	return &Engine{
		Validators: validators,
		Commands:   commands,
		Bus:        bus,
		history:    map[state.PlayerID][]historyEntry{},
	}
}

// publish mirrors evts onto e.Bus, if one was configured. Publish errors
// (e.g. a misbehaving subscriber) never affect the authoritative result;
// they would only ever indicate an INTERNAL-class bug in a subscriber the
// engine itself does not own.
func (e *Engine) publish(evts []gameevent.Event) {
	if e.Bus == nil {
		return
	}
	for _, evt := range evts {
		_ = e.Bus.Publish(evt)
	}
}

// ProcessAction is the engine's single entry point (spec §4.1). It never
// mutates g: on any rejection it returns g unchanged alongside a single
// INVALID_ACTION event; on success it returns a new *state.GameState and
// the ordered events the command produced.
func (e *Engine) ProcessAction(g *state.GameState, pid state.PlayerID, a action.Action) (*state.GameState, []gameevent.Event) {
	if a.Type == action.TypeUndo {
		return e.undo(g, pid)
	}

	if err := e.Validators.Validate(g, pid, a); err != nil {
		evts := []gameevent.Event{invalidEvent(pid, err)}
		e.publish(evts)
		return g, evts
	}

	cmd, err := e.Commands.Build(pid, a)
	if err != nil {
		evts := []gameevent.Event{invalidEvent(pid, err)}
		e.publish(evts)
		return g, evts
	}

	working := g.Clone()
	evts, err := cmd.Execute(working)
	if err != nil {
		rejected := []gameevent.Event{invalidEvent(pid, err)}
		e.publish(rejected)
		return g, rejected
	}

	// Any command whose execute consumed RNG draws must have declared
	// itself irreversible (spec §4.1 step 5); the engine trusts that
	// declaration rather than inspecting RNG.Counter itself, since only
	// the command knows whether a draw it made is the one that moved it.
	if cmd.IsReversible() {
		e.history[pid] = append(e.history[pid], historyEntry{Command: cmd})
	} else {
		e.history[pid] = append(e.history[pid], historyEntry{})
	}

	e.publish(evts)
	return working, evts
}

// undo implements the UNDO action (spec §4.1 "UNDO action"): pop the
// active player's top history entry and run its Undo, or reject with
// UNDO_BLOCKED if the stack is empty or topped by a checkpoint.
func (e *Engine) undo(g *state.GameState, pid state.PlayerID) (*state.GameState, []gameevent.Event) {
	stack := e.history[pid]
	if len(stack) == 0 {
		evts := []gameevent.Event{gameevent.Invalid(pid, string(engineerr.UndoBlocked), "nothing to undo")}
		e.publish(evts)
		return g, evts
	}
	top := stack[len(stack)-1]
	if top.isCheckpoint() {
		evts := []gameevent.Event{gameevent.Invalid(pid, string(engineerr.UndoBlocked), "cannot undo past a checkpoint")}
		e.publish(evts)
		return g, evts
	}

	working := g.Clone()
	if err := top.Command.Undo(working); err != nil {
		evts := []gameevent.Event{invalidEvent(pid, err)}
		e.publish(evts)
		return g, evts
	}

	e.history[pid] = stack[:len(stack)-1]
	evts := []gameevent.Event{{Type: gameevent.TypeUndoApplied, PlayerID: pid}}
	e.publish(evts)
	return working, evts
}

// CanUndo reports whether pid currently has a reversible command on top
// of their history stack. Exposed for the valid-actions projection.
func (e *Engine) CanUndo(pid state.PlayerID) bool {
	stack := e.history[pid]
	return len(stack) > 0 && !stack[len(stack)-1].isCheckpoint()
}

func invalidEvent(pid state.PlayerID, err error) gameevent.Event {
	return gameevent.Invalid(pid, string(engineerr.CodeOf(err)), err.Error())
}
