// Package gameevent defines the closed, tagged-union output schema the
// engine emits (spec §6 "Event schema"). Events are append-only within a
// single processAction call; there is no retraction.
package gameevent

import (
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/hexrealm/engine/state"
)

// Type identifies a GameEvent variant.
type Type string

// Event type tags.
const (
	TypeCardPlayed          Type = "CARD_PLAYED"
	TypeManaSpent           Type = "MANA_SPENT"
	TypeMoved               Type = "MOVED"
	TypeExplored            Type = "EXPLORED"
	TypeEnemyBlocked        Type = "ENEMY_BLOCKED"
	TypeBlockFailed         Type = "BLOCK_FAILED"
	TypeAttackFailed        Type = "ATTACK_FAILED"
	TypeEnemyDefeated       Type = "ENEMY_DEFEATED"
	TypeEnemySummoned       Type = "ENEMY_SUMMONED"
	TypeSummonedEnemyDiscarded Type = "SUMMONED_ENEMY_DISCARDED"
	TypeCombatPhaseChanged  Type = "COMBAT_PHASE_CHANGED"
	TypeCombatEnded         Type = "COMBAT_ENDED"
	TypeCombatStarted       Type = "COMBAT_STARTED"
	TypeDamageAssigned      Type = "DAMAGE_ASSIGNED"
	TypeWoundReceived       Type = "WOUND_RECEIVED"
	TypeReputationChanged   Type = "REPUTATION_CHANGED"
	TypeFameGained          Type = "FAME_GAINED"
	TypeTurnEnded           Type = "TURN_ENDED"
	TypeTurnStarted         Type = "TURN_STARTED"
	TypeRoundEnded          Type = "ROUND_ENDED"
	TypeChoiceRequired      Type = "CHOICE_REQUIRED"
	TypeChoiceResolved      Type = "CHOICE_RESOLVED"
	TypeUnitRecruited       Type = "UNIT_RECRUITED"
	TypeUnitActivated       Type = "UNIT_ACTIVATED"
	TypeSkillUsed           Type = "SKILL_USED"
	TypeRestDeclared        Type = "REST_DECLARED"
	TypeRestCompleted       Type = "REST_COMPLETED"
	TypeCardsDrawn          Type = "CARDS_DRAWN"
	TypeModifierAdded       Type = "MODIFIER_ADDED"
	TypeModifiersPurged     Type = "MODIFIERS_PURGED"
	TypeCooperativeAssaultProposed Type = "COOPERATIVE_ASSAULT_PROPOSED"
	TypeCooperativeAssaultResponded Type = "COOPERATIVE_ASSAULT_RESPONDED"
	TypeCooperativeAssaultResolved Type = "COOPERATIVE_ASSAULT_RESOLVED"
	TypeUndoApplied         Type = "UNDO_APPLIED"
	TypeInvalidAction       Type = "INVALID_ACTION"
)

// Event is the tagged union of all engine-observable occurrences.
type Event struct {
	Type Type `json:"type"`

	PlayerID state.PlayerID `json:"player_id,omitempty"`

	CardID state.CardID `json:"card_id,omitempty"`

	EnemyInstanceID state.EnemyInstanceID `json:"enemy_instance_id,omitempty"`
	EnemyDefID      state.EnemyDefID      `json:"enemy_def_id,omitempty"`

	UnitInstanceID state.UnitInstanceID `json:"unit_instance_id,omitempty"`

	Phase    state.Phase `json:"phase,omitempty"`
	FromPhase state.Phase `json:"from_phase,omitempty"`

	Amount int `json:"amount,omitempty"`

	Element state.Element `json:"element,omitempty"`

	Victory bool `json:"victory,omitempty"`

	// Code/Message are populated only on TypeInvalidAction (spec §7).
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`

	// Extra carries variant-specific detail too narrow to promote to a
	// top-level field (e.g. per-enemy outcome breakdowns on COMBAT_ENDED).
	Extra map[string]any `json:"extra,omitempty"`
}

// Invalid builds an INVALID_ACTION event (spec §7).
func Invalid(playerID state.PlayerID, code, message string) Event {
	return Event{
		Type:     TypeInvalidAction,
		PlayerID: playerID,
		Code:     code,
		Message:  message,
	}
}

var (
	refMu    sync.Mutex
	refCache = map[Type]*core.Ref{}
)

// EventRef implements events.Event so every Event can be mirrored onto
// the engine's internal events.Bus (spec §4.1 step 6 cascade hook)
// without teaching the bus a second vocabulary: the Type tag already
// distinguishes variants, so the ref just wraps it. events.Bus matches
// subscriptions to published events by comparing *core.Ref pointer
// identity, so the ref for a given Type must be interned rather than
// allocated fresh per call.
func (e Event) EventRef() *core.Ref {
	return RefFor(e.Type)
}

// RefFor returns the interned *core.Ref for typ, minting and caching it
// on first use. Subscribers call this to build the ref they pass to
// events.EventBus.Subscribe without needing a sample Event value.
func RefFor(typ Type) *core.Ref {
	refMu.Lock()
	defer refMu.Unlock()
	if r, ok := refCache[typ]; ok {
		return r
	}
	r := core.MustNewRef(core.RefInput{Module: "hexrealm", Type: "gameevent", Value: string(typ)})
	refCache[typ] = r
	return r
}

// Context satisfies events.Event. Nothing in this engine cancels or
// rewrites an already-decided event through bus middleware, so a fresh,
// unused context is enough to carry the value through Publish.
func (e Event) Context() *events.EventContext {
	return events.NewEventContext()
}
