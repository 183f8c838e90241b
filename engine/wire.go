package engine

import (
	"github.com/hexrealm/engine/action"
	"github.com/hexrealm/engine/combat"
	"github.com/hexrealm/engine/command"
	"github.com/hexrealm/engine/content"
	"github.com/hexrealm/engine/engineerr"
	"github.com/hexrealm/engine/state"
	"github.com/hexrealm/engine/validate"
)

// Deps collects the external collaborators a deployment must supply to
// wire a complete Engine (spec §1 "out of scope: external collaborators").
// The core never reaches for these itself; Wire closes over them once so
// command factories stay free of deployment-specific lookups.
type Deps struct {
	// Catalog is the read-only content lookup (spec §6 "Game data").
	Catalog content.Catalog
	// EnemiesAt resolves which CombatEnemy tokens occupy a hex at the
	// moment ENTER_COMBAT is declared; owned by the map/content layer.
	EnemiesAt func(g *state.GameState, hex state.HexCoord) []state.CombatEnemy
	// UnitArmor resolves a recruited unit's armor contribution when it
	// stands in for the hero during ASSIGN_DAMAGE.
	UnitArmor func(state.UnitInstanceID) int
	// UnitResists reports whether a recruited unit resists an element —
	// a resistant unit absorbs an attack without wounding, once per
	// combat.
	UnitResists func(state.UnitInstanceID, state.Element) bool
	// SiteEffect resolves the CardEffect an INTERACT at a site triggers,
	// if any.
	SiteEffect func(state.SiteID) (state.CardEffect, bool)
	// UnitOfferKey names the Offers row RECRUIT_UNIT draws from (a real
	// deployment may have several village/city offer rows; this engine
	// exercises one per Wire call, matching the seed scenarios in spec §8).
	UnitOfferKey string
	// PlunderFameGain is the fixed fame award PLUNDER grants (spec §4.3
	// "Burn/Plunder").
	PlunderFameGain int
}

// Wire builds the validator and command registries for every action.Type
// the spec names, ready to hand to New. It is the single place that
// decides, per action, which validator predicates must pass before its
// command.Factory is consulted (spec §4.1 step 1-2).
func Wire(d Deps) (*validate.Registry, *command.Registry) {
	validators := validate.NewRegistry()
	commands := command.NewRegistry()

	reg := func(typ action.Type, chain validate.Chain, factory command.Factory) {
		validators.Register(typ, chain)
		commands.Register(typ, factory)
	}

	// --- normal-turn actions ---
	reg(action.TypeMove,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleNotInCombat, validate.RuleNotResting},
		command.NewMoveFactory())

	reg(action.TypeExplore,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleNotInCombat, validate.RuleNotResting},
		command.NewExploreFactory())

	reg(action.TypePlayCardBasic,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleHandContainsCard},
		command.NewPlayCardBasicFactory(d.Catalog))

	reg(action.TypePlayCardPowered,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleHandContainsCard, validate.RuleNoSpaceBendingDuringTimeBend(d.Catalog)},
		command.NewPlayCardPoweredFactory(d.Catalog))

	reg(action.TypePlayCardSideways,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleHandContainsCard},
		command.NewPlayCardSidewaysFactory(d.Catalog))

	reg(action.TypeResolveChoice,
		validate.Chain{validate.RuleIsCurrentPlayer, rulePendingChoiceExists},
		command.NewResolveChoiceFactory())

	reg(action.TypeInteract,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleNotInCombat},
		command.NewInteractFactory(d.SiteEffect))

	reg(action.TypeDeclareRest,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleNotInCombat, validate.RuleNotResting},
		command.NewDeclareRestFactory())

	reg(action.TypeCompleteRest,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, ruleIsResting},
		command.NewCompleteRestFactory())

	reg(action.TypeEnterCombat,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleNotInCombat, validate.RuleNotResting},
		command.NewEnterCombatFactory(d.EnemiesAt))

	reg(action.TypeRecruitUnit,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleNotInCombat},
		command.NewRecruitUnitFactory(d.Catalog, d.UnitOfferKey))

	reg(action.TypeActivateUnit,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity},
		command.NewActivateUnitFactory())

	reg(action.TypeEndTurn,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleNotInCombat},
		command.NewEndTurnFactory())

	reg(action.TypeUseSkill,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleTargetNotArcaneImmune},
		command.NewUseSkillFactory(d.Catalog))

	// --- combat-phase actions ---
	reg(action.TypeEndCombatPhase,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleInCombat},
		command.NewEndCombatPhaseFactory(d.Catalog))

	reg(action.TypeDeclareAttackTargets,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleCombatPhase(state.PhaseRangedSiege, state.PhaseAttack)},
		command.NewDeclareAttackTargetsFactory())

	reg(action.TypeAssignAttack,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleCombatPhase(state.PhaseRangedSiege, state.PhaseAttack)},
		command.NewAssignAttackFactory())

	reg(action.TypeUnassignAttack,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleCombatPhase(state.PhaseRangedSiege, state.PhaseAttack)},
		command.NewUnassignAttackFactory())

	reg(action.TypeDeclareBlock,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleCombatPhase(state.PhaseBlock)},
		command.NewDeclareBlockFactory())

	reg(action.TypeAssignBlock,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleCombatPhase(state.PhaseBlock)},
		command.NewAssignBlockFactory())

	reg(action.TypeUnassignBlock,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleCombatPhase(state.PhaseBlock)},
		command.NewUnassignBlockFactory())

	reg(action.TypeAssignDamage,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleCombatPhase(state.PhaseAssignDamage)},
		command.NewAssignDamageFactory(d.UnitArmor, d.UnitResists))

	reg(action.TypeFinalizeAttack,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleCombatPhase(state.PhaseRangedSiege, state.PhaseAttack)},
		command.NewFinalizeAttackFactory())

	// --- cooperative assault / banner / treasure actions ---
	reg(action.TypeProposeCooperativeAssault,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleNotInCombat, ruleNoActiveAssault},
		command.NewProposeCooperativeAssaultFactory())

	reg(action.TypeRespondToCooperativeAssault,
		validate.Chain{ruleHasActiveAssaultInvite},
		command.NewRespondToCooperativeAssaultFactory())

	reg(action.TypeResolveCooperativeAssault,
		validate.Chain{ruleHasActiveAssault},
		command.NewResolveCooperativeAssaultFactory())

	reg(action.TypeAttachBanner,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleNotInCombat},
		command.NewAttachBannerFactory())

	reg(action.TypeActivateBanner,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity},
		command.NewActivateBannerFactory())

	reg(action.TypeBurn,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity, validate.RuleHandContainsCard},
		command.NewBurnFactory())

	reg(action.TypePlunder,
		validate.Chain{validate.RuleIsCurrentPlayer, validate.RuleNoPendingEntity},
		command.NewPlunderFactory(d.PlunderFameGain))

	return validators, commands
}

// content.Catalog's Enemy method already matches combat.EnemyCatalog
// structurally, so Wire passes d.Catalog straight through with no
// adapter needed.
var _ combat.EnemyCatalog = content.Catalog(nil)

// rulePendingChoiceExists fails with TARGET_INVALID: a RESOLVE_CHOICE
// with nothing parked in PendingChoice has no effect it could possibly
// resolve.
func rulePendingChoiceExists(g *state.GameState, pid state.PlayerID, a action.Action) error {
	p := g.PlayerByID(pid)
	if p == nil {
		return engineerr.New(engineerr.Internal, string(pid), string(a.Type), "unknown player")
	}
	if p.PendingChoice == nil {
		return engineerr.New(engineerr.TargetInvalid, string(pid), string(a.Type), "no pending choice to resolve")
	}
	return nil
}

// ruleIsResting fails with WRONG_PHASE unless pid has an open rest
// declared (COMPLETE_REST only makes sense after DECLARE_REST).
func ruleIsResting(g *state.GameState, pid state.PlayerID, a action.Action) error {
	p := g.PlayerByID(pid)
	if p == nil || !p.Flags.IsResting {
		return engineerr.New(engineerr.WrongPhase, string(pid), string(a.Type), "no rest declared to complete")
	}
	return nil
}

// ruleNoActiveAssault fails with RULE_VIOLATION when a cooperative
// assault proposal is already open (spec invariant I8: at most one).
func ruleNoActiveAssault(g *state.GameState, pid state.PlayerID, a action.Action) error {
	if g.PendingCooperativeAssault != nil {
		return engineerr.New(engineerr.RuleViolation, string(pid), string(a.Type), "a cooperative assault proposal is already open")
	}
	return nil
}

// ruleHasActiveAssault fails with RULE_VIOLATION unless a proposal is
// open for the acting player to resolve.
func ruleHasActiveAssault(g *state.GameState, pid state.PlayerID, a action.Action) error {
	ca := g.PendingCooperativeAssault
	if ca == nil || ca.InitiatorID != pid {
		return engineerr.New(engineerr.RuleViolation, string(pid), string(a.Type), "no cooperative assault proposal to resolve")
	}
	return nil
}

// ruleHasActiveAssaultInvite fails with RULE_VIOLATION when no proposal
// is open and with TARGET_INVALID when pid was not invited to the open
// proposal (RESPOND_TO_COOPERATIVE_ASSAULT
// is the one action type any invited player may take out of turn).
func ruleHasActiveAssaultInvite(g *state.GameState, pid state.PlayerID, a action.Action) error {
	ca := g.PendingCooperativeAssault
	if ca == nil {
		return engineerr.New(engineerr.RuleViolation, string(pid), string(a.Type), "no cooperative assault proposal open")
	}
	for _, invited := range ca.InvitedPlayers {
		if invited == pid {
			return nil
		}
	}
	return engineerr.New(engineerr.TargetInvalid, string(pid), string(a.Type), "player was not invited to this assault")
}
