package command

import (
	"github.com/hexrealm/engine/action"
	"github.com/hexrealm/engine/combat"
	"github.com/hexrealm/engine/engineerr"
	"github.com/hexrealm/engine/gameevent"
	"github.com/hexrealm/engine/modifier"
	"github.com/hexrealm/engine/state"
)

// enterCombatCommand starts a CombatState against the enemies standing
// at a player's current hex (spec §4.2 "ENTER_COMBAT"). Irreversible:
// entering combat is a player-facing commitment the same way DECLARE_BLOCK
// is, and the combat it opens will consume RNG-ordered token pools.
type enterCombatCommand struct {
	pid       state.PlayerID
	enemiesAt func(g *state.GameState, hex state.HexCoord) []state.CombatEnemy
}

// NewEnterCombatFactory returns the Factory for ENTER_COMBAT. enemiesAt
// resolves which tokens occupy a hex (the map/content layer owns that;
// combat itself does not own map state).
func NewEnterCombatFactory(enemiesAt func(g *state.GameState, hex state.HexCoord) []state.CombatEnemy) Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &enterCombatCommand{pid: pid, enemiesAt: enemiesAt}, nil
	}
}

func (c *enterCombatCommand) Type() action.Type        { return action.TypeEnterCombat }
func (c *enterCombatCommand) PlayerID() state.PlayerID { return c.pid }
func (c *enterCombatCommand) IsReversible() bool       { return false }

func (c *enterCombatCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeEnterCombat), "unknown player")
	}
	if g.Combat != nil {
		return nil, engineerr.New(engineerr.WrongPhase, string(c.pid), string(action.TypeEnterCombat), "combat already in progress")
	}
	enemies := c.enemiesAt(g, p.Position)
	if len(enemies) == 0 {
		return nil, engineerr.New(engineerr.RuleViolation, string(c.pid), string(action.TypeEnterCombat), "no enemies to fight")
	}

	g.Combat = state.NewCombatState(enemies, p.Position)
	p.Flags.HasCombattedThisTurn = true

	return []gameevent.Event{{Type: gameevent.TypeCombatStarted, PlayerID: c.pid}}, nil
}

func (c *enterCombatCommand) Undo(g *state.GameState) error {
	panic("enter-combat is irreversible; engine must never call Undo on it")
}

// endCombatPhaseCommand advances the combat phase, running the
// transition work spec §4.6 attaches to each boundary: summons resolve
// before BLOCK entry, the ranged/siege pools clear, summoned enemies are
// discarded (and summoners unhide) on ATTACK entry, and ending the
// ATTACK phase ends combat altogether. Irreversible: every transition
// is a commitment (and the BLOCK entry consumes summon tokens).
type endCombatPhaseCommand struct {
	pid     state.PlayerID
	catalog combat.EnemyCatalog
}

// NewEndCombatPhaseFactory returns the Factory for END_COMBAT_PHASE.
func NewEndCombatPhaseFactory(catalog combat.EnemyCatalog) Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &endCombatPhaseCommand{pid: pid, catalog: catalog}, nil
	}
}

func (c *endCombatPhaseCommand) Type() action.Type        { return action.TypeEndCombatPhase }
func (c *endCombatPhaseCommand) PlayerID() state.PlayerID { return c.pid }
func (c *endCombatPhaseCommand) IsReversible() bool       { return false }

func (c *endCombatPhaseCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeEndCombatPhase), "unknown player")
	}
	if g.Combat == nil {
		return nil, engineerr.New(engineerr.WrongPhase, string(c.pid), string(action.TypeEndCombatPhase), "no active combat")
	}
	from := g.Combat.Phase

	if from == state.PhaseAttack {
		return c.endCombat(g, p)
	}
	if from == state.PhaseAssignDamage && !combat.AllAttackersAssigned(g) {
		return nil, engineerr.New(engineerr.RuleViolation, string(c.pid), string(action.TypeEndCombatPhase), "every attacking enemy must have its damage assigned first")
	}

	var events []gameevent.Event

	if from == state.PhaseRangedSiege {
		// Summons resolve before BLOCK entry (spec §4.6).
		for _, s := range combat.ResolveSummons(g, c.catalog) {
			events = append(events, gameevent.Event{
				Type:            gameevent.TypeEnemySummoned,
				PlayerID:        c.pid,
				EnemyInstanceID: s.EnemyInstanceID,
				EnemyDefID:      s.EnemyDefID,
			})
		}
		// Pending damage, assigned attack, and the ranged/siege pools are
		// cleared; melee carries over.
		g.Combat.PendingDamage = map[state.EnemyInstanceID]state.ElementalDamage{}
		p.CombatAccumulator.Assigned = map[state.AttackType]map[state.Element]int{}
		delete(p.CombatAccumulator.Attack, state.AttackRanged)
		delete(p.CombatAccumulator.Attack, state.AttackSiege)
	}

	if from == state.PhaseBlock {
		// Unspent block expires with the phase.
		g.Combat.PendingBlock = map[state.EnemyInstanceID]state.ElementalDamage{}
		p.CombatAccumulator.Block = map[state.Element]int{}
	}

	next, ok := combat.AdvancePhase(g)
	if !ok {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeEndCombatPhase), "no next phase")
	}

	if next == state.PhaseAttack {
		for _, d := range combat.DiscardSummons(g) {
			events = append(events, gameevent.Event{
				Type:            gameevent.TypeSummonedEnemyDiscarded,
				PlayerID:        c.pid,
				EnemyInstanceID: d.EnemyInstanceID,
				EnemyDefID:      d.EnemyDefID,
			})
		}
	}

	events = append(events, gameevent.Event{Type: gameevent.TypeCombatPhaseChanged, PlayerID: c.pid, Phase: next, FromPhase: from})
	return events, nil
}

// endCombat closes out combat at the end of the ATTACK phase (spec §4.6
// "On end-of-phase, combat ends"): undiscarded summon tokens return to
// their piles (invariant I5), combat-scoped modifiers and cooldowns are
// purged, and COMBAT_ENDED reports victory and the fame aggregate.
func (c *endCombatPhaseCommand) endCombat(g *state.GameState, p *state.Player) ([]gameevent.Event, error) {
	combat.DiscardSummons(g)
	won := combat.IsCombatOver(g)
	fame := g.Combat.FameGained

	g.Combat = nil
	modifier.PurgeCombatBoundary(g)
	for _, pl := range g.Players {
		pl.SkillCooldowns.UsedThisCombat = map[state.SkillID]struct{}{}
		for i := range pl.Units {
			pl.Units[i].UsedInCombat = false
		}
		pl.CombatAccumulator = state.NewCombatAttackBreakdown()
	}

	return []gameevent.Event{{Type: gameevent.TypeCombatEnded, PlayerID: p.ID, Victory: won, Amount: fame}}, nil
}

func (c *endCombatPhaseCommand) Undo(g *state.GameState) error {
	panic("end-combat-phase is irreversible; engine must never call Undo on it")
}

// declareBlockCommand commits a player's accumulated block value against
// one attack of one enemy (spec §4.2 "DECLARE_BLOCK", §4.6 "DeclareBlock
// elemental efficiency, Swift doubling, Cumbersome exception"). The
// block value consumed comes out of the player's CombatAccumulator.Block
// pool for the chosen element. Irreversible: once block value leaves the
// accumulator it is considered committed for the phase.
type declareBlockCommand struct {
	pid         state.PlayerID
	enemyID     state.EnemyInstanceID
	attackIndex int
	element     state.Element
	amount      int
}

// NewDeclareBlockFactory returns the Factory for DECLARE_BLOCK.
func NewDeclareBlockFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &declareBlockCommand{
			pid:         pid,
			enemyID:     a.EnemyTarget,
			attackIndex: a.AttackIndex,
			element:     a.AssignElement,
			amount:      a.AssignAmount,
		}, nil
	}
}

func (c *declareBlockCommand) Type() action.Type        { return action.TypeDeclareBlock }
func (c *declareBlockCommand) PlayerID() state.PlayerID { return c.pid }
func (c *declareBlockCommand) IsReversible() bool       { return false }

func (c *declareBlockCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeDeclareBlock), "unknown player")
	}
	if g.Combat == nil || g.Combat.Phase != state.PhaseBlock {
		return nil, engineerr.New(engineerr.WrongPhase, string(c.pid), string(action.TypeDeclareBlock), "not in block phase")
	}
	e := g.Combat.EnemyByID(c.enemyID)
	if e == nil {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeDeclareBlock), "unknown enemy")
	}
	if e.Flags.IsSummonerHidden {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeDeclareBlock), "a hidden summoner cannot be blocked")
	}
	if c.attackIndex < 0 || c.attackIndex >= len(e.AttacksBlocked) {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeDeclareBlock), "no such attack")
	}
	if e.AttacksBlocked[c.attackIndex] {
		return nil, engineerr.New(engineerr.RuleViolation, string(c.pid), string(action.TypeDeclareBlock), "attack is already blocked")
	}
	if p.CombatAccumulator.Block[c.element] < c.amount {
		return nil, engineerr.New(engineerr.MissingResource, string(c.pid), string(action.TypeDeclareBlock), "insufficient accumulated block")
	}

	shieldBash := modifier.ShieldBashActive(g, c.pid)
	p.CombatAccumulator.Block[c.element] -= c.amount
	out := combat.DeclareBlock(g, c.pid, c.enemyID, c.attackIndex, c.element, c.amount)

	if !out.Blocked {
		return []gameevent.Event{{Type: gameevent.TypeBlockFailed, PlayerID: c.pid, EnemyInstanceID: c.enemyID, Amount: out.Effective}}, nil
	}

	events := []gameevent.Event{{Type: gameevent.TypeEnemyBlocked, PlayerID: c.pid, EnemyInstanceID: c.enemyID, Amount: c.attackIndex}}

	// Burning Shield: a successful block against this enemy scorches the
	// blocker (spec §4.6 "Successful block triggers side effects").
	if _, burning := e.Definition.Abilities[state.AbilityBurningShield]; burning && !modifier.IsAbilityNullified(g, c.enemyID, state.AbilityBurningShield) {
		p.Discard = append(p.Discard, state.WoundCardID)
		p.WoundsReceivedThisTurn++
		g.Combat.WoundsThisCombat++
		events = append(events, gameevent.Event{Type: gameevent.TypeWoundReceived, PlayerID: c.pid, EnemyInstanceID: c.enemyID, Amount: 1})
	}

	// Shield Bash: excess undoubled block dents the enemy's armor for the
	// rest of the combat.
	if shieldBash && out.Excess > 0 {
		modifier.Add(g, state.Modifier{
			ID:              "shield_bash_" + string(c.enemyID),
			Source:          state.ModifierSource{Kind: state.ModifierSourceRule, RuleName: "shield_bash"},
			Duration:        state.Duration{Kind: state.DurationCombat},
			Scope:           state.Scope{Kind: state.ScopeOneEnemy, EnemyID: c.enemyID},
			Effect:          state.ModifierEffect{Kind: state.EffectEnemyArmorDelta, Amount: -out.Excess},
			CreatedAtRound:  g.RoundNumber,
			CreatedByPlayer: c.pid,
		})
	}

	return events, nil
}

func (c *declareBlockCommand) Undo(g *state.GameState) error {
	panic("declare-block is irreversible; engine must never call Undo on it")
}

// assignDamageCommand assigns one unblocked, attacking enemy's own damage
// to the hero or to a standing-in unit (spec §4.2/§4.6 "ASSIGN_DAMAGE"):
// armor absorbs, Brutal doubles, resistance halves, Poison/Paralyze apply
// their side effects on any unabsorbed remainder. Irreversible: the
// phase's bookkeeping (wounds, hand discards) is the kind of
// player-facing commitment the rest of the combat phases also make
// irreversible once declared.
type assignDamageCommand struct {
	pid          state.PlayerID
	enemyID      state.EnemyInstanceID
	assignedUnit state.UnitInstanceID
	unitArmor    func(state.UnitInstanceID) int
	unitResists  func(state.UnitInstanceID, state.Element) bool
}

// NewAssignDamageFactory returns the Factory for ASSIGN_DAMAGE. unitArmor
// and unitResists resolve a unit instance's armor and elemental
// resistances from content.
func NewAssignDamageFactory(unitArmor func(state.UnitInstanceID) int, unitResists func(state.UnitInstanceID, state.Element) bool) Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &assignDamageCommand{pid: pid, enemyID: a.EnemyTarget, assignedUnit: a.AssignToUnit, unitArmor: unitArmor, unitResists: unitResists}, nil
	}
}

func (c *assignDamageCommand) Type() action.Type        { return action.TypeAssignDamage }
func (c *assignDamageCommand) PlayerID() state.PlayerID { return c.pid }
func (c *assignDamageCommand) IsReversible() bool       { return false }

func (c *assignDamageCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeAssignDamage), "unknown player")
	}
	if g.Combat == nil || g.Combat.Phase != state.PhaseAssignDamage {
		return nil, engineerr.New(engineerr.WrongPhase, string(c.pid), string(action.TypeAssignDamage), "not in assign-damage phase")
	}
	e := g.Combat.EnemyByID(c.enemyID)
	if e == nil {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeAssignDamage), "unknown enemy")
	}
	if e.Flags.DamageAssigned {
		return nil, engineerr.New(engineerr.RuleViolation, string(c.pid), string(action.TypeAssignDamage), "enemy damage already assigned")
	}
	if !combat.IsAttacking(e) {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeAssignDamage), "enemy is not attacking")
	}
	var target *state.PlayerUnit
	if c.assignedUnit != "" {
		for i := range p.Units {
			if p.Units[i].InstanceID == c.assignedUnit {
				target = &p.Units[i]
				break
			}
		}
		if target == nil || !combat.UnitEligibleForDamage(*target) || target.UsedInCombat {
			return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeAssignDamage), "unit is not eligible to take this damage")
		}
	}

	armor := combat.UnitArmor(g, p, c.assignedUnit, c.unitArmor)
	wound, poisoned, paralyzed := combat.ResolveEnemyDamage(g, c.enemyID, armor)
	e.Flags.DamageAssigned = true

	events := []gameevent.Event{}
	if target != nil {
		target.UsedInCombat = true
		if wound > 0 {
			// A resistant unit absorbs the whole attack without wounding,
			// once per combat (spec §4.6 "unit eligibility").
			if c.unitResists != nil && unitResistsAll(g, c.enemyID, c.assignedUnit, c.unitResists) {
				wound = 0
			} else {
				target.IsWounded = true
				events = append(events, gameevent.Event{Type: gameevent.TypeWoundReceived, PlayerID: c.pid, EnemyInstanceID: c.enemyID, UnitInstanceID: c.assignedUnit, Amount: wound})
			}
		}
	} else if wound > 0 {
		p.WoundsReceivedThisTurn += wound
		g.Combat.WoundsThisCombat += wound
		events = append(events, gameevent.Event{Type: gameevent.TypeWoundReceived, PlayerID: c.pid, EnemyInstanceID: c.enemyID, Amount: wound})
		// Poison sends the wound to the deck instead of the discard pile
		// (spec §4.6 "ASSIGN_DAMAGE").
		for i := 0; i < wound; i++ {
			if poisoned {
				p.Deck = append(p.Deck, state.WoundCardID)
			} else {
				p.Discard = append(p.Discard, state.WoundCardID)
			}
		}
	}
	if paralyzed && target == nil {
		p.Discard = append(p.Discard, p.Hand...)
		p.Hand = nil
	}
	events = append(events, gameevent.Event{Type: gameevent.TypeDamageAssigned, PlayerID: c.pid, EnemyInstanceID: c.enemyID, Amount: wound})
	return events, nil
}

// unitResistsAll reports whether the unit resists every effective attack
// element the enemy brings — the condition for a resistant absorb.
func unitResistsAll(g *state.GameState, enemyID state.EnemyInstanceID, unit state.UnitInstanceID, resists func(state.UnitInstanceID, state.Element) bool) bool {
	e := g.Combat.EnemyByID(enemyID)
	if e == nil || len(e.Definition.Attacks) == 0 {
		return false
	}
	for _, atk := range e.Definition.Attacks {
		element := modifier.GetEffectiveAttackElement(g, enemyID, atk.Element)
		if !resists(unit, element) {
			return false
		}
	}
	return true
}

func (c *assignDamageCommand) Undo(g *state.GameState) error {
	panic("assign-damage is irreversible; engine must never call Undo on it")
}

// finalizeAttackCommand resolves the player's declared swing in either
// attack window (spec §4.6 "RANGED_SIEGE"/"ATTACK"): the damage assigned
// to the declared group (g.Combat.PendingDamage over
// DeclaredAttackTargets) is compared against the group's combined armor,
// and if it meets or exceeds that total, every enemy in the group is
// defeated at once and its fame credited immediately (spec §4.6 "Fame
// accounting").
type finalizeAttackCommand struct {
	pid state.PlayerID
}

// NewFinalizeAttackFactory returns the Factory for FINALIZE_ATTACK.
func NewFinalizeAttackFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &finalizeAttackCommand{pid: pid}, nil
	}
}

func (c *finalizeAttackCommand) Type() action.Type        { return action.TypeFinalizeAttack }
func (c *finalizeAttackCommand) PlayerID() state.PlayerID { return c.pid }
func (c *finalizeAttackCommand) IsReversible() bool       { return false }

func (c *finalizeAttackCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeFinalizeAttack), "unknown player")
	}
	if g.Combat == nil || (g.Combat.Phase != state.PhaseAttack && g.Combat.Phase != state.PhaseRangedSiege) {
		return nil, engineerr.New(engineerr.WrongPhase, string(c.pid), string(action.TypeFinalizeAttack), "not in an attack window")
	}
	targets := g.Combat.DeclaredAttackTargets
	if len(targets) == 0 {
		return nil, engineerr.New(engineerr.RuleViolation, string(c.pid), string(action.TypeFinalizeAttack), "no attack targets declared")
	}

	assigned := state.ElementalDamage{}
	for _, id := range targets {
		for element, v := range g.Combat.PendingDamage[id] {
			assigned[element] += v
		}
	}

	defeated, fame, ok := combat.FinalizeAttack(g, assigned, targets)
	if !ok {
		g.Combat.DeclaredAttackTargets = nil
		return []gameevent.Event{{Type: gameevent.TypeAttackFailed, PlayerID: c.pid}}, nil
	}

	p.Fame += fame
	g.Combat.FameGained += fame
	g.Combat.DeclaredAttackTargets = nil

	// Spent damage leaves both sides of the assigned/pending mirror
	// (invariant I2): drain the phase's attack families in order.
	families := []state.AttackType{state.AttackMelee}
	if g.Combat.Phase == state.PhaseRangedSiege {
		families = []state.AttackType{state.AttackRanged, state.AttackSiege}
	}
	for _, id := range defeated {
		for element, v := range g.Combat.PendingDamage[id] {
			for _, fam := range families {
				byElem := p.CombatAccumulator.Assigned[fam]
				if byElem == nil {
					continue
				}
				take := v
				if byElem[element] < take {
					take = byElem[element]
				}
				byElem[element] -= take
				v -= take
				if v == 0 {
					break
				}
			}
		}
		delete(g.Combat.PendingDamage, id)
	}

	events := make([]gameevent.Event, 0, len(defeated)+1)
	for _, id := range defeated {
		events = append(events, gameevent.Event{Type: gameevent.TypeEnemyDefeated, PlayerID: c.pid, EnemyInstanceID: id})
	}
	events = append(events, gameevent.Event{Type: gameevent.TypeFameGained, PlayerID: c.pid, Amount: fame})
	return events, nil
}

func (c *finalizeAttackCommand) Undo(g *state.GameState) error {
	panic("finalize-attack is irreversible; engine must never call Undo on it")
}
