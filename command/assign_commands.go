package command

import (
	"github.com/hexrealm/engine/action"
	"github.com/hexrealm/engine/engineerr"
	"github.com/hexrealm/engine/gameevent"
	"github.com/hexrealm/engine/modifier"
	"github.com/hexrealm/engine/state"
)

// phaseAllowsAttackType reports whether an attack family may be assigned
// in the current combat phase: ranged/siege during RANGED_SIEGE, melee
// during ATTACK (spec §4.6 — "accumulated ranged/siege attack is cleared
// (melee carries over)").
func phaseAllowsAttackType(phase state.Phase, at state.AttackType) bool {
	switch phase {
	case state.PhaseRangedSiege:
		return at == state.AttackRanged || at == state.AttackSiege
	case state.PhaseAttack:
		return at == state.AttackMelee
	default:
		return false
	}
}

// declareAttackTargetsCommand records which enemies the acting player
// intends to direct its accumulated attack at (spec §4.2
// "DECLARE_ATTACK_TARGETS"); it does not itself move any attack value
// (that is ASSIGN_ATTACK), it only fixes the group FINALIZE_ATTACK will
// check against combined armor. Reversible.
type declareAttackTargetsCommand struct {
	pid     state.PlayerID
	targets []state.EnemyInstanceID

	prior []state.EnemyInstanceID
}

// NewDeclareAttackTargetsFactory returns the Factory for
// DECLARE_ATTACK_TARGETS.
func NewDeclareAttackTargetsFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &declareAttackTargetsCommand{pid: pid, targets: a.EnemyTargets}, nil
	}
}

func (c *declareAttackTargetsCommand) Type() action.Type        { return action.TypeDeclareAttackTargets }
func (c *declareAttackTargetsCommand) PlayerID() state.PlayerID { return c.pid }
func (c *declareAttackTargetsCommand) IsReversible() bool       { return true }

func (c *declareAttackTargetsCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	if g.Combat == nil || (g.Combat.Phase != state.PhaseAttack && g.Combat.Phase != state.PhaseRangedSiege) {
		return nil, engineerr.New(engineerr.WrongPhase, string(c.pid), string(action.TypeDeclareAttackTargets), "not in an attack window")
	}
	for _, t := range c.targets {
		e := g.Combat.EnemyByID(t)
		if e == nil {
			return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeDeclareAttackTargets), "unknown enemy target")
		}
		if e.Flags.IsDefeated {
			return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeDeclareAttackTargets), "enemy already defeated")
		}
		if e.Flags.IsSummonerHidden {
			return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeDeclareAttackTargets), "a hidden summoner cannot be targeted")
		}
	}
	c.prior = g.Combat.DeclaredAttackTargets
	g.Combat.DeclaredAttackTargets = append([]state.EnemyInstanceID(nil), c.targets...)
	return []gameevent.Event{{Type: gameevent.TypeCombatPhaseChanged, PlayerID: c.pid, Phase: g.Combat.Phase}}, nil
}

func (c *declareAttackTargetsCommand) Undo(g *state.GameState) error {
	if g.Combat != nil {
		g.Combat.DeclaredAttackTargets = c.prior
	}
	return nil
}

// assignAttackCommand moves accumulated attack value onto one enemy:
// pendingDamage[enemy][element] and the player's assigned mirror move in
// lockstep (spec §4.6 "AssignAttack accumulates pendingDamage... and
// mirrors it", invariant I2). Ranged attack value can never target a
// Fortified enemy (spec §4.6 "Ranged attacks cannot target Fortified
// enemies; Siege may"). Reversible.
type assignAttackCommand struct {
	pid     state.PlayerID
	enemyID state.EnemyInstanceID
	attType state.AttackType
	element state.Element
	amount  int
}

// NewAssignAttackFactory returns the Factory for ASSIGN_ATTACK.
func NewAssignAttackFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &assignAttackCommand{
			pid: pid, enemyID: a.EnemyTarget,
			attType: a.AssignAttackType, element: a.AssignElement, amount: a.AssignAmount,
		}, nil
	}
}

func (c *assignAttackCommand) Type() action.Type        { return action.TypeAssignAttack }
func (c *assignAttackCommand) PlayerID() state.PlayerID { return c.pid }
func (c *assignAttackCommand) IsReversible() bool       { return true }

func (c *assignAttackCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeAssignAttack), "unknown player")
	}
	if g.Combat == nil {
		return nil, engineerr.New(engineerr.WrongPhase, string(c.pid), string(action.TypeAssignAttack), "no active combat")
	}
	if !phaseAllowsAttackType(g.Combat.Phase, c.attType) {
		return nil, engineerr.Newf(engineerr.WrongPhase, string(c.pid), string(action.TypeAssignAttack), "%s attack cannot be assigned in phase %s", c.attType, g.Combat.Phase)
	}
	e := g.Combat.EnemyByID(c.enemyID)
	if e == nil || e.Flags.IsDefeated {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeAssignAttack), "unknown or defeated enemy")
	}
	if e.Flags.IsSummonerHidden {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeAssignAttack), "a hidden summoner cannot be targeted")
	}
	if c.attType == state.AttackRanged {
		fortified := false
		if _, ok := e.Definition.Abilities[state.AbilityFortified]; ok && !modifier.IsAbilityNullified(g, c.enemyID, state.AbilityFortified) {
			fortified = true
		}
		if g.Combat.IsAtFortifiedSite {
			fortified = true
		}
		if fortified {
			return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeAssignAttack), "ranged attacks cannot target a fortified enemy")
		}
	}
	byElem, ok := p.CombatAccumulator.Attack[c.attType]
	if !ok || byElem[c.element] < c.amount {
		return nil, engineerr.New(engineerr.MissingResource, string(c.pid), string(action.TypeAssignAttack), "insufficient accumulated attack")
	}

	byElem[c.element] -= c.amount
	byAssigned, ok := p.CombatAccumulator.Assigned[c.attType]
	if !ok {
		byAssigned = map[state.Element]int{}
		p.CombatAccumulator.Assigned[c.attType] = byAssigned
	}
	byAssigned[c.element] += c.amount

	if g.Combat.PendingDamage[c.enemyID] == nil {
		g.Combat.PendingDamage[c.enemyID] = state.ElementalDamage{}
	}
	g.Combat.PendingDamage[c.enemyID][c.element] += c.amount

	return []gameevent.Event{{Type: gameevent.TypeDamageAssigned, PlayerID: c.pid, EnemyInstanceID: c.enemyID, Element: c.element, Amount: c.amount}}, nil
}

func (c *assignAttackCommand) Undo(g *state.GameState) error {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeAssignAttack), "unknown player")
	}
	if g.Combat != nil && g.Combat.PendingDamage[c.enemyID] != nil {
		g.Combat.PendingDamage[c.enemyID][c.element] -= c.amount
	}
	p.CombatAccumulator.Assigned[c.attType][c.element] -= c.amount
	if p.CombatAccumulator.Attack[c.attType] == nil {
		p.CombatAccumulator.Attack[c.attType] = map[state.Element]int{}
	}
	p.CombatAccumulator.Attack[c.attType][c.element] += c.amount
	return nil
}

// unassignAttackCommand reverses a prior ASSIGN_ATTACK before the swing
// is finalized. Reversible.
type unassignAttackCommand struct {
	pid     state.PlayerID
	enemyID state.EnemyInstanceID
	attType state.AttackType
	element state.Element
	amount  int
}

// NewUnassignAttackFactory returns the Factory for UNASSIGN_ATTACK.
func NewUnassignAttackFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &unassignAttackCommand{
			pid: pid, enemyID: a.EnemyTarget,
			attType: a.AssignAttackType, element: a.AssignElement, amount: a.AssignAmount,
		}, nil
	}
}

func (c *unassignAttackCommand) Type() action.Type        { return action.TypeUnassignAttack }
func (c *unassignAttackCommand) PlayerID() state.PlayerID { return c.pid }
func (c *unassignAttackCommand) IsReversible() bool       { return true }

func (c *unassignAttackCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeUnassignAttack), "unknown player")
	}
	if g.Combat == nil {
		return nil, engineerr.New(engineerr.WrongPhase, string(c.pid), string(action.TypeUnassignAttack), "no active combat")
	}
	pending := g.Combat.PendingDamage[c.enemyID]
	if pending == nil || pending[c.element] < c.amount {
		return nil, engineerr.New(engineerr.MissingResource, string(c.pid), string(action.TypeUnassignAttack), "insufficient assigned attack to retract")
	}
	byAssigned := p.CombatAccumulator.Assigned[c.attType]
	if byAssigned == nil || byAssigned[c.element] < c.amount {
		return nil, engineerr.New(engineerr.MissingResource, string(c.pid), string(action.TypeUnassignAttack), "insufficient assigned attack to retract")
	}

	pending[c.element] -= c.amount
	byAssigned[c.element] -= c.amount
	if p.CombatAccumulator.Attack[c.attType] == nil {
		p.CombatAccumulator.Attack[c.attType] = map[state.Element]int{}
	}
	p.CombatAccumulator.Attack[c.attType][c.element] += c.amount
	return nil, nil
}

func (c *unassignAttackCommand) Undo(g *state.GameState) error {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeUnassignAttack), "unknown player")
	}
	p.CombatAccumulator.Attack[c.attType][c.element] -= c.amount
	if p.CombatAccumulator.Assigned[c.attType] == nil {
		p.CombatAccumulator.Assigned[c.attType] = map[state.Element]int{}
	}
	p.CombatAccumulator.Assigned[c.attType][c.element] += c.amount
	if g.Combat != nil {
		if g.Combat.PendingDamage[c.enemyID] == nil {
			g.Combat.PendingDamage[c.enemyID] = state.ElementalDamage{}
		}
		g.Combat.PendingDamage[c.enemyID][c.element] += c.amount
	}
	return nil
}

// assignBlockCommand/unassignBlockCommand move accumulated block value
// into/out of the player's block pool ahead of DECLARE_BLOCK (spec §4.2
// "ASSIGN_BLOCK"/"UNASSIGN_BLOCK" — the distinction from DECLARE_BLOCK
// is that these may still be revised before the block phase ends). Both
// reversible; DECLARE_BLOCK is the irreversible commit step.
type assignBlockCommand struct {
	pid     state.PlayerID
	element state.Element
	amount  int
}

// NewAssignBlockFactory returns the Factory for ASSIGN_BLOCK (staging
// block value into the player's accumulator ahead of DECLARE_BLOCK).
func NewAssignBlockFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &assignBlockCommand{pid: pid, element: a.AssignElement, amount: a.AssignAmount}, nil
	}
}

func (c *assignBlockCommand) Type() action.Type        { return action.TypeAssignBlock }
func (c *assignBlockCommand) PlayerID() state.PlayerID { return c.pid }
func (c *assignBlockCommand) IsReversible() bool       { return true }

func (c *assignBlockCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeAssignBlock), "unknown player")
	}
	p.CombatAccumulator.Block[c.element] += c.amount
	return nil, nil
}

func (c *assignBlockCommand) Undo(g *state.GameState) error {
	p := g.PlayerByID(c.pid)
	if p != nil {
		p.CombatAccumulator.Block[c.element] -= c.amount
	}
	return nil
}

type unassignBlockCommand struct {
	pid     state.PlayerID
	element state.Element
	amount  int
}

// NewUnassignBlockFactory returns the Factory for UNASSIGN_BLOCK.
func NewUnassignBlockFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &unassignBlockCommand{pid: pid, element: a.AssignElement, amount: a.AssignAmount}, nil
	}
}

func (c *unassignBlockCommand) Type() action.Type        { return action.TypeUnassignBlock }
func (c *unassignBlockCommand) PlayerID() state.PlayerID { return c.pid }
func (c *unassignBlockCommand) IsReversible() bool       { return true }

func (c *unassignBlockCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeUnassignBlock), "unknown player")
	}
	if p.CombatAccumulator.Block[c.element] < c.amount {
		return nil, engineerr.New(engineerr.MissingResource, string(c.pid), string(action.TypeUnassignBlock), "insufficient assigned block to retract")
	}
	p.CombatAccumulator.Block[c.element] -= c.amount
	return nil, nil
}

func (c *unassignBlockCommand) Undo(g *state.GameState) error {
	p := g.PlayerByID(c.pid)
	if p != nil {
		p.CombatAccumulator.Block[c.element] += c.amount
	}
	return nil
}
