// Package command implements the Command layer (spec §4.1-§4.2):
// Command instances produced by a per-action.Type Factory, each able to
// execute against a state.GameState and, when reversible, undo its own
// effect. Grounded on the teacher's pipeline.Factory[I,O]/Registry
// pattern (a map from a ref to a factory, type-asserted back out by the
// caller) but specialized: every Command here shares one Execute
// signature, so the registry stores Factory directly rather than
// reaching for generics.
package command

import (
	"github.com/hexrealm/engine/action"
	"github.com/hexrealm/engine/engineerr"
	"github.com/hexrealm/engine/gameevent"
	"github.com/hexrealm/engine/state"
)

// Command is one executable/undoable unit of game logic (spec §4.2).
type Command interface {
	// Type identifies which action.Type produced this command.
	Type() action.Type
	// PlayerID is the acting player.
	PlayerID() state.PlayerID
	// IsReversible reports whether Undo can restore the pre-image.
	// Irreversible commands (EXPLORE, DECLARE_BLOCK, ...) push a
	// checkpoint onto the history instead of a reversible entry (spec
	// §4.3, invariant I7/I8).
	IsReversible() bool
	// Execute mutates g in place and returns the events produced. g is
	// always a command-owned working copy by the time Execute is called;
	// commands never need to clone it themselves.
	Execute(g *state.GameState) ([]gameevent.Event, error)
	// Undo reverses Execute's effect on g. Only called when IsReversible
	// is true; implementations of irreversible commands may panic here
	// as a programmer-error backstop; the engine itself never calls
	// Undo on an irreversible command (spec invariant I8).
	Undo(g *state.GameState) error
}

// Factory builds a Command from a validated action.Action. Validation
// has already run by the time Build is called (spec §4.1 pipeline
// order); Build itself should only fail for INTERNAL-class inconsistency.
type Factory func(pid state.PlayerID, a action.Action) (Command, error)

// Registry maps action.Type to the Factory that builds its Command,
// mirroring pipeline.Registry.Register/Get.
type Registry struct {
	factories map[action.Type]Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[action.Type]Factory{}}
}

// Register installs factory for typ, replacing any existing one.
func (r *Registry) Register(typ action.Type, factory Factory) {
	r.factories[typ] = factory
}

// Build looks up and invokes the factory registered for a.Type.
func (r *Registry) Build(pid state.PlayerID, a action.Action) (Command, error) {
	factory, ok := r.factories[a.Type]
	if !ok {
		return nil, engineerr.Newf(engineerr.RuleViolation, string(pid), string(a.Type), "no command factory registered for action type %q", a.Type)
	}
	return factory(pid, a)
}
