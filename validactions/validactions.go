// Package validactions implements the Valid Actions Projection (spec
// §4.7): a pure read-only function over state.GameState that enumerates
// the legal action menu for one player, without mutating anything. It is
// the client-facing "what can I do right now" query, distinct from (and
// never a substitute for) validate.Registry's per-action rejection logic
// — Compute is allowed to be permissive where a validator would need to
// be exact, since its job is to drive UI affordances, not gate mutation.
package validactions

import (
	"github.com/hexrealm/engine/combat"
	"github.com/hexrealm/engine/content"
	"github.com/hexrealm/engine/effect"
	"github.com/hexrealm/engine/modifier"
	"github.com/hexrealm/engine/state"
)

// Mode discriminates the shape of ValidActions (spec §4.7 "tagged
// variant").
type Mode string

// Modes.
const (
	ModeNormal                Mode = "normal"
	ModeCombat                Mode = "combat"
	ModeResting               Mode = "resting"
	ModeCooperativeProposal   Mode = "cooperative-proposal"
	ModePendingChoice         Mode = "pending-choice"
)

// CardPlayability reports the three booleans spec §4.7 calls "the
// subsystem's workhorse" for one card in hand.
type CardPlayability struct {
	CardID   state.CardID
	Basic    bool
	Powered  bool
	Sideways bool
	// SidewaysOptions lists the bonus kinds ("move","influence","attack",
	// "block") the card can be played sideways for in the current
	// context, with the effective value applied.
	SidewaysOptions []SidewaysOption
}

// SidewaysOption is one sideways-play choice with its effective value.
type SidewaysOption struct {
	Kind  string
	Value int
}

// RecruitOption is one recruitable unit with its reputation-adjusted
// cost.
type RecruitOption struct {
	UnitID state.UnitDefID
	Cost   int
}

// BlockOption describes one blockable attack slot.
type BlockOption struct {
	EnemyInstanceID state.EnemyInstanceID
	AttackIndex     int
	MinimumBlock    int
	Element         state.Element
}

// AttackTargetOption describes one enemy eligible to receive assigned
// attack/damage right now. Armor is the effective (modifier-adjusted)
// value. RangedExcluded marks a fortified enemy that siege and melee may
// target but ranged may not (spec §4.6 "RANGED_SIEGE").
type AttackTargetOption struct {
	EnemyInstanceID state.EnemyInstanceID
	Armor           int
	RangedExcluded  bool
}

// SkillOption is one activatable skill.
type SkillOption struct {
	SkillID state.SkillID
}

// SiteOption is one interactable site at the player's current position.
type SiteOption struct {
	SiteID state.SiteID
}

// ValidActions is the complete legal-action menu for one player at one
// moment (spec §4.7).
type ValidActions struct {
	Mode Mode

	CanEndTurn    bool
	CanMove       bool
	CanExplore    bool
	CanRest       bool
	CanUndo       bool

	Cards []CardPlayability

	RecruitOptions []RecruitOption
	Skills         []SkillOption
	Sites          []SiteOption

	// Combat-mode fields, populated only when Mode == ModeCombat.
	Phase           state.Phase
	BlockOptions    []BlockOption
	AttackTargets   []AttackTargetOption
	CanFinalizeAttack bool
	CanEndCombatPhase bool

	// PendingChoice-mode fields.
	ChoiceOptionCount int

	// CooperativeProposal-mode fields.
	AwaitingResponseFrom []state.PlayerID
}

// Compute returns the current legal-action menu for pid. It never
// mutates g (spec §4.7 "pure").
func Compute(g *state.GameState, catalog content.Catalog, pid state.PlayerID) ValidActions {
	p := g.PlayerByID(pid)
	if p == nil {
		return ValidActions{}
	}

	if p.PendingChoice != nil {
		return ValidActions{Mode: ModePendingChoice, ChoiceOptionCount: len(p.PendingChoice.Options)}
	}
	if g.PendingCooperativeAssault != nil {
		ca := g.PendingCooperativeAssault
		var awaiting []state.PlayerID
		for _, inv := range ca.InvitedPlayers {
			if _, responded := ca.Responses[inv]; !responded {
				awaiting = append(awaiting, inv)
			}
		}
		if len(awaiting) > 0 && (ca.InitiatorID == pid || containsPlayer(ca.InvitedPlayers, pid)) {
			return ValidActions{Mode: ModeCooperativeProposal, AwaitingResponseFrom: awaiting}
		}
	}
	if g.Combat != nil {
		return computeCombat(g, catalog, p)
	}
	if p.Flags.IsResting {
		return ValidActions{Mode: ModeResting, CanUndo: len(g.Players) > 0}
	}

	isCurrent := g.CurrentPlayer() != nil && g.CurrentPlayer().ID == pid
	va := ValidActions{
		Mode:       ModeNormal,
		CanEndTurn: isCurrent,
		CanMove:    isCurrent && p.MovePoints.Current() > 0,
		CanExplore: isCurrent,
		CanRest:    isCurrent && !p.Flags.HasRestedThisTurn,
	}
	va.Cards = cardPlayabilities(g, catalog, p)
	va.RecruitOptions = recruitOptions(g, catalog, p)
	va.Skills = skillOptions(catalog, p)
	return va
}

func containsPlayer(ids []state.PlayerID, pid state.PlayerID) bool {
	for _, id := range ids {
		if id == pid {
			return true
		}
	}
	return false
}

func cardPlayabilities(g *state.GameState, catalog content.Catalog, p *state.Player) []CardPlayability {
	out := make([]CardPlayability, 0, len(p.Hand))
	for _, cid := range p.Hand {
		def, ok := catalog.Card(cid)
		if !ok {
			continue
		}
		out = append(out, cardPlayability(g, p, def))
	}
	return out
}

func cardPlayability(g *state.GameState, p *state.Player, def content.CardDef) CardPlayability {
	cp := CardPlayability{CardID: def.ID}

	if def.BasicEffect.Kind != "" {
		cp.Basic = effect.IsResolvable(g, p.ID, def.BasicEffect)
	} else {
		cp.Basic = true
	}

	if def.PoweredEffect.Kind != "" {
		canPower := p.Crystals[def.Color] != nil && p.Crystals[def.Color].Current() > 0
		if !canPower {
			for _, m := range p.PureMana {
				if m.Color == def.Color {
					canPower = true
					break
				}
			}
		}
		// Time Bending chain prevention bars only Space Bending's powered
		// play during a Time-Bent extra turn, not powered plays generally.
		if p.Flags.IsTimeBentTurn && def.IsSpaceBending {
			canPower = false
		}
		cp.Powered = canPower && effect.IsResolvable(g, p.ID, def.PoweredEffect)
	}

	if def.SidewaysValue > 0 {
		cp.Sideways, cp.SidewaysOptions = sidewaysOptions(g, p, def)
	}

	return cp
}

func sidewaysOptions(g *state.GameState, p *state.Player, def content.CardDef) (bool, []SidewaysOption) {
	args := modifier.SidewaysArgs{
		IsWound:            def.IsWound,
		UsedManaFromSource: p.Flags.UsedManaFromSource,
		ColorMatch:         def.Color,
	}
	value := modifier.GetEffectiveSidewaysValue(g, p.ID, def.SidewaysValue, args)
	if value <= 0 {
		return false, nil
	}

	var kinds []string
	if g.Combat != nil {
		switch g.Combat.Phase {
		case state.PhaseBlock:
			kinds = []string{"block"}
		case state.PhaseRangedSiege, state.PhaseAttack:
			kinds = []string{"attack"}
		}
	} else {
		kinds = []string{"influence"}
		if !p.Flags.HasRestedThisTurn {
			kinds = append(kinds, "move")
		}
	}

	opts := make([]SidewaysOption, 0, len(kinds))
	for _, k := range kinds {
		opts = append(opts, SidewaysOption{Kind: k, Value: value})
	}
	return len(opts) > 0, opts
}

func recruitOptions(g *state.GameState, catalog content.Catalog, p *state.Player) []RecruitOption {
	if len(p.Units) >= p.CommandTokens {
		return nil
	}
	var out []RecruitOption
	for _, offer := range g.Offers {
		for _, uid := range offer.UnitIDs {
			def, ok := catalog.Unit(uid)
			if !ok {
				continue
			}
			cost := def.Cost
			for _, m := range modifier.GetForPlayer(g, p.ID) {
				if m.Effect.Kind == state.EffectRecruitCostDelta {
					cost += m.Effect.Amount
				}
			}
			if cost < 0 {
				cost = 0
			}
			if p.InfluencePoints.Current() >= cost {
				out = append(out, RecruitOption{UnitID: uid, Cost: cost})
			}
		}
	}
	return out
}

func skillOptions(catalog content.Catalog, p *state.Player) []SkillOption {
	var out []SkillOption
	check := func(ids map[state.SkillID]struct{}, skillID state.SkillID) bool {
		_, used := ids[skillID]
		return !used
	}
	for skillID := range allKnownSkillSets(p) {
		def, ok := catalog.Skill(skillID)
		if !ok {
			continue
		}
		var set map[state.SkillID]struct{}
		switch def.Cooldown {
		case "round":
			set = p.SkillCooldowns.UsedThisRound
		case "combat":
			set = p.SkillCooldowns.UsedThisCombat
		default:
			set = p.SkillCooldowns.UsedThisTurn
		}
		if check(set, skillID) {
			out = append(out, SkillOption{SkillID: skillID})
		}
	}
	return out
}

// allKnownSkillSets returns the distinct skill ids already recorded in
// any of a player's cooldown sets, standing in for a hero-skill roster
// the engine does not own (skill assignment is content data, spec §1).
func allKnownSkillSets(p *state.Player) map[state.SkillID]struct{} {
	out := map[state.SkillID]struct{}{}
	for id := range p.SkillCooldowns.UsedThisRound {
		out[id] = struct{}{}
	}
	for id := range p.SkillCooldowns.UsedThisTurn {
		out[id] = struct{}{}
	}
	for id := range p.SkillCooldowns.UsedThisCombat {
		out[id] = struct{}{}
	}
	for id := range p.SkillCooldowns.UsedNextTurn {
		out[id] = struct{}{}
	}
	return out
}

func computeCombat(g *state.GameState, catalog content.Catalog, p *state.Player) ValidActions {
	va := ValidActions{Mode: ModeCombat, Phase: g.Combat.Phase}
	va.Cards = cardPlayabilities(g, catalog, p)

	switch g.Combat.Phase {
	case state.PhaseRangedSiege:
		for i := range g.Combat.Enemies {
			e := &g.Combat.Enemies[i]
			if e.Flags.IsDefeated || e.Flags.IsSummonerHidden {
				continue
			}
			fortified := false
			if _, ok := e.Definition.Abilities[state.AbilityFortified]; ok && !modifier.IsAbilityNullified(g, e.InstanceID, state.AbilityFortified) {
				fortified = true
			}
			va.AttackTargets = append(va.AttackTargets, AttackTargetOption{
				EnemyInstanceID: e.InstanceID,
				Armor:           modifier.GetEffectiveEnemyArmor(g, e.InstanceID, e.Definition.Armor),
				RangedExcluded:  fortified || g.Combat.IsAtFortifiedSite,
			})
		}
		va.CanFinalizeAttack = len(g.Combat.DeclaredAttackTargets) > 0
		va.CanEndCombatPhase = true
	case state.PhaseBlock:
		for i := range g.Combat.Enemies {
			e := &g.Combat.Enemies[i]
			if e.Flags.IsDefeated || e.Flags.IsSummonerHidden {
				continue
			}
			for idx, atk := range e.Definition.Attacks {
				if idx < len(e.AttacksBlocked) && e.AttacksBlocked[idx] {
					continue
				}
				if idx < len(e.AttacksCancelled) && e.AttacksCancelled[idx] {
					continue
				}
				va.BlockOptions = append(va.BlockOptions, BlockOption{
					EnemyInstanceID: e.InstanceID,
					AttackIndex:     idx,
					MinimumBlock:    combat.BlockRequirement(g, e.InstanceID, idx),
					Element:         atk.Element,
				})
			}
		}
		va.CanEndCombatPhase = true
	case state.PhaseAssignDamage:
		for i := range g.Combat.Enemies {
			e := &g.Combat.Enemies[i]
			if e.Flags.DamageAssigned || !combat.IsAttacking(e) {
				continue
			}
			va.AttackTargets = append(va.AttackTargets, AttackTargetOption{
				EnemyInstanceID: e.InstanceID,
				Armor:           modifier.GetEffectiveEnemyArmor(g, e.InstanceID, e.Definition.Armor),
			})
		}
		va.CanEndCombatPhase = combat.AllAttackersAssigned(g)
	case state.PhaseAttack:
		for i := range g.Combat.Enemies {
			e := &g.Combat.Enemies[i]
			if e.Flags.IsDefeated {
				continue
			}
			va.AttackTargets = append(va.AttackTargets, AttackTargetOption{
				EnemyInstanceID: e.InstanceID,
				Armor:           modifier.GetEffectiveEnemyArmor(g, e.InstanceID, e.Definition.Armor),
			})
		}
		va.CanFinalizeAttack = len(g.Combat.DeclaredAttackTargets) > 0
		va.CanEndCombatPhase = true
	}
	return va
}
