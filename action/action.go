// Package action defines the closed, tagged-union input schema the
// engine accepts (spec §6 "Action schema"). Every Action carries a
// stable Type tag plus variant-specific fields; unknown/zero-value
// fields for a given Type are simply unused rather than causing runtime
// errors, mirroring the teacher's core.Ref/typed-constant discipline
// over ad-hoc map[string]any payloads.
package action

import "github.com/hexrealm/engine/state"

// Type identifies a PlayerAction variant.
type Type string

// Action type tags. This list must stay in lockstep with the
// command.Registry and validate.Registry entries (spec §9 "Discriminated
// unions": adding a variant here without wiring a validator+factory is a
// defect, not a runtime no-op).
const (
	TypeMove                       Type = "MOVE"
	TypeExplore                    Type = "EXPLORE"
	TypePlayCardBasic               Type = "PLAY_CARD_BASIC"
	TypePlayCardPowered             Type = "PLAY_CARD_POWERED"
	TypePlayCardSideways             Type = "PLAY_CARD_SIDEWAYS"
	TypeResolveChoice               Type = "RESOLVE_CHOICE"
	TypeInteract                    Type = "INTERACT"
	TypeDeclareRest                 Type = "DECLARE_REST"
	TypeCompleteRest                Type = "COMPLETE_REST"
	TypeEnterCombat                 Type = "ENTER_COMBAT"
	TypeEndCombatPhase              Type = "END_COMBAT_PHASE"
	TypeDeclareBlock                Type = "DECLARE_BLOCK"
	TypeDeclareAttackTargets        Type = "DECLARE_ATTACK_TARGETS"
	TypeFinalizeAttack              Type = "FINALIZE_ATTACK"
	TypeAssignDamage                Type = "ASSIGN_DAMAGE"
	TypeAssignAttack                Type = "ASSIGN_ATTACK"
	TypeUnassignAttack              Type = "UNASSIGN_ATTACK"
	TypeAssignBlock                 Type = "ASSIGN_BLOCK"
	TypeUnassignBlock               Type = "UNASSIGN_BLOCK"
	TypeRecruitUnit                 Type = "RECRUIT_UNIT"
	TypeActivateUnit                Type = "ACTIVATE_UNIT"
	TypeEndTurn                     Type = "END_TURN"
	TypeUseSkill                    Type = "USE_SKILL"
	TypeProposeCooperativeAssault   Type = "PROPOSE_COOPERATIVE_ASSAULT"
	TypeRespondToCooperativeAssault Type = "RESPOND_TO_COOPERATIVE_ASSAULT"
	TypeResolveCooperativeAssault   Type = "RESOLVE_COOPERATIVE_ASSAULT"
	TypeAttachBanner                Type = "ATTACH_BANNER"
	TypeActivateBanner               Type = "ACTIVATE_BANNER"
	TypeBurn                         Type = "BURN"
	TypePlunder                      Type = "PLUNDER"
	TypeUndo                         Type = "UNDO"
)

// Action is the tagged union of all player intents.
type Action struct {
	Type Type `json:"type"`

	CardID      state.CardID      `json:"card_id,omitempty"`
	ManaSource  state.Color       `json:"mana_source,omitempty"`
	SkillID     state.SkillID     `json:"skill_id,omitempty"`
	UnitID      state.UnitDefID   `json:"unit_id,omitempty"`
	UnitInstance state.UnitInstanceID `json:"unit_instance,omitempty"`

	DestHex HexCoordRef `json:"dest_hex,omitempty"`

	EnemyTargets []state.EnemyInstanceID `json:"enemy_targets,omitempty"`
	EnemyTarget  state.EnemyInstanceID   `json:"enemy_target,omitempty"`
	AttackIndex  int                     `json:"attack_index,omitempty"`

	AssignAttackType state.AttackType `json:"assign_attack_type,omitempty"`
	AssignElement    state.Element    `json:"assign_element,omitempty"`
	AssignAmount     int              `json:"assign_amount,omitempty"`

	AssignToUnit state.UnitInstanceID `json:"assign_to_unit,omitempty"`
	AssignToHero bool                 `json:"assign_to_hero,omitempty"`

	SidewaysBonusKind string `json:"sideways_bonus_kind,omitempty"` // "move","influence","attack","block"

	ChoiceIndex int `json:"choice_index,omitempty"`

	DiscardHandIndices []int `json:"discard_hand_indices,omitempty"`

	SiteID        state.SiteID   `json:"site_id,omitempty"`
	InvitedPlayers []state.PlayerID `json:"invited_players,omitempty"`
	Accept        bool           `json:"accept,omitempty"`
}

// HexCoordRef is state.HexCoord re-exported so callers don't need to
// import state just to build a MOVE action.
type HexCoordRef = state.HexCoord
