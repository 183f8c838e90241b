// Package engineerr defines the error taxonomy carried by INVALID_ACTION
// events (spec §7). It is a thin set of rpgerr.Code constants plus
// constructors so validators and commands never hand-roll error strings.
package engineerr

import (
	"errors"

	"github.com/KirkDiggler/rpg-toolkit/rpgerr"
)

// Error codes surfaced on INVALID_ACTION events. These are the only codes
// the engine ever produces; anything else reaching a caller is a bug.
const (
	// WrongPhase means the action isn't allowed in the current combat or
	// turn phase.
	WrongPhase rpgerr.Code = "WRONG_PHASE"
	// NotYourTurn means the acting player is not the current player.
	NotYourTurn rpgerr.Code = "NOT_YOUR_TURN"
	// MissingResource means mana/influence/move-points/command-tokens/cards
	// were insufficient.
	MissingResource rpgerr.Code = "MISSING_RESOURCE"
	// TargetInvalid means the target entity is absent or ineligible.
	TargetInvalid rpgerr.Code = "TARGET_INVALID"
	// OnCooldown means a skill/ability was already used in its cooldown
	// window.
	OnCooldown rpgerr.Code = "ON_COOLDOWN"
	// ChoiceRequired means a pending choice must be resolved first.
	ChoiceRequired rpgerr.Code = "CHOICE_REQUIRED"
	// RuleViolation is the catch-all for rule-specific rejections.
	RuleViolation rpgerr.Code = "RULE_VIOLATION"
	// UndoBlocked means the undo stack is empty or the top entry is a
	// checkpoint.
	UndoBlocked rpgerr.Code = "UNDO_BLOCKED"
	// Internal should never occur; it indicates a bug.
	Internal rpgerr.Code = "INTERNAL"
)

// New builds a validation error with the given code and message, tagging
// it with the rejected action type and player for diagnostics.
func New(code rpgerr.Code, playerID, actionType, message string) *rpgerr.Error {
	return rpgerr.New(code, message,
		rpgerr.WithMeta("player_id", playerID),
		rpgerr.WithMeta("action_type", actionType),
	)
}

// Newf is New with a formatted message.
func Newf(code rpgerr.Code, playerID, actionType, format string, args ...any) *rpgerr.Error {
	return rpgerr.NewfWithOpts(code, []rpgerr.Option{
		rpgerr.WithMeta("player_id", playerID),
		rpgerr.WithMeta("action_type", actionType),
	}, format, args...)
}

// CodeOf extracts the rpgerr.Code from an error, defaulting to Internal
// for errors that didn't originate from this package's constructors.
func CodeOf(err error) rpgerr.Code {
	var rpgErr *rpgerr.Error
	if errors.As(err, &rpgErr) {
		return rpgErr.Code
	}
	return Internal
}
