package command

import (
	"github.com/hexrealm/engine/action"
	"github.com/hexrealm/engine/content"
	"github.com/hexrealm/engine/engineerr"
	"github.com/hexrealm/engine/gameevent"
	"github.com/hexrealm/engine/modifier"
	"github.com/hexrealm/engine/state"
)

// endTurnCommand purges DURATION_TURN modifiers the acting player
// created, clears per-turn flags/cooldown sets, and advances
// CurrentPlayerIndex (spec §4.2 "END_TURN", invariant I4). Irreversible:
// undoing a turn boundary would reopen cooldown windows already closed
// for other players, so it is a checkpoint.
type endTurnCommand struct {
	pid state.PlayerID
}

// NewEndTurnFactory returns the Factory for END_TURN.
func NewEndTurnFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &endTurnCommand{pid: pid}, nil
	}
}

func (c *endTurnCommand) Type() action.Type        { return action.TypeEndTurn }
func (c *endTurnCommand) PlayerID() state.PlayerID { return c.pid }
func (c *endTurnCommand) IsReversible() bool       { return false }

func (c *endTurnCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeEndTurn), "unknown player")
	}
	if g.Combat != nil {
		return nil, engineerr.New(engineerr.WrongPhase, string(c.pid), string(action.TypeEndTurn), "cannot end turn during combat")
	}
	if p.HasPendingEntity() {
		return nil, engineerr.New(engineerr.ChoiceRequired, string(c.pid), string(action.TypeEndTurn), "resolve the pending choice first")
	}

	modifier.PurgeTurnBoundary(g, c.pid)
	p.PureMana = nil
	p.Flags.HasTakenActionThisTurn = false
	p.Flags.UsedManaFromSource = false
	p.Flags.HasRestedThisTurn = false
	p.Flags.HasCombattedThisTurn = false
	p.WoundsReceivedThisTurn = 0
	p.SkillCooldowns.UsedThisTurn = p.SkillCooldowns.UsedNextTurn
	p.SkillCooldowns.UsedNextTurn = map[state.SkillID]struct{}{}

	events := []gameevent.Event{{Type: gameevent.TypeTurnEnded, PlayerID: c.pid}}

	g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % len(g.Players)
	if g.CurrentPlayerIndex == 0 {
		g.RoundNumber++
		modifier.PurgeRoundBoundary(g)
		for _, pl := range g.Players {
			pl.SkillCooldowns.UsedThisRound = map[state.SkillID]struct{}{}
		}
		events = append(events, gameevent.Event{Type: gameevent.TypeRoundEnded, Amount: g.RoundNumber})
	}
	next := g.CurrentPlayer()
	if next != nil {
		events = append(events, gameevent.Event{Type: gameevent.TypeTurnStarted, PlayerID: next.ID})
	}
	return events, nil
}

func (c *endTurnCommand) Undo(g *state.GameState) error {
	panic("end-turn is irreversible; engine must never call Undo on it")
}

// recruitUnitCommand spends influence to recruit a unit from an offer
// row into the player's roster (spec §4.2 "RECRUIT_UNIT"). Reversible.
type recruitUnitCommand struct {
	pid     state.PlayerID
	unitDef state.UnitDefID
	catalog content.Catalog

	minted       state.UnitInstanceID
	spentInfluence int
	offerKey     string
	offerIdx     int
}

// NewRecruitUnitFactory returns the Factory for RECRUIT_UNIT. offerKey
// names which Offers row the unit must come from (e.g. "units_village").
func NewRecruitUnitFactory(catalog content.Catalog, offerKey string) Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &recruitUnitCommand{pid: pid, unitDef: a.UnitID, catalog: catalog, offerKey: offerKey}, nil
	}
}

func (c *recruitUnitCommand) Type() action.Type        { return action.TypeRecruitUnit }
func (c *recruitUnitCommand) PlayerID() state.PlayerID { return c.pid }
func (c *recruitUnitCommand) IsReversible() bool       { return true }

func (c *recruitUnitCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeRecruitUnit), "unknown player")
	}
	if len(p.Units) >= p.CommandTokens {
		return nil, engineerr.New(engineerr.MissingResource, string(c.pid), string(action.TypeRecruitUnit), "no free command slot for another unit")
	}
	def, ok := c.catalog.Unit(c.unitDef)
	if !ok {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeRecruitUnit), "unknown unit")
	}

	offer := g.Offers[c.offerKey]
	idx := -1
	for i, u := range offer.UnitIDs {
		if u == c.unitDef {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeRecruitUnit), "unit is not in the offer")
	}
	c.offerIdx = idx

	cost := def.Cost
	for _, m := range modifier.GetForPlayer(g, c.pid) {
		if m.Effect.Kind == state.EffectRecruitCostDelta {
			cost += m.Effect.Amount
		}
	}
	if cost < 0 {
		cost = 0
	}
	if p.InfluencePoints.Current() < cost {
		return nil, engineerr.New(engineerr.MissingResource, string(c.pid), string(action.TypeRecruitUnit), "insufficient influence")
	}
	if err := p.InfluencePoints.Consume(cost); err != nil {
		return nil, engineerr.New(engineerr.MissingResource, string(c.pid), string(action.TypeRecruitUnit), err.Error())
	}
	c.spentInfluence = cost

	c.minted = state.UnitInstanceID(state.NextInstanceID("unit"))
	p.Units = append(p.Units, state.PlayerUnit{InstanceID: c.minted, DefID: c.unitDef, IsReady: true})
	offer.UnitIDs = append(offer.UnitIDs[:idx:idx], offer.UnitIDs[idx+1:]...)
	g.Offers[c.offerKey] = offer

	return []gameevent.Event{{Type: gameevent.TypeUnitRecruited, PlayerID: c.pid, UnitInstanceID: c.minted, Amount: cost}}, nil
}

func (c *recruitUnitCommand) Undo(g *state.GameState) error {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeRecruitUnit), "unknown player")
	}
	for i, u := range p.Units {
		if u.InstanceID == c.minted {
			p.Units = append(p.Units[:i:i], p.Units[i+1:]...)
			break
		}
	}
	p.InfluencePoints.Restore(c.spentInfluence)
	offer := g.Offers[c.offerKey]
	offer.UnitIDs = append(offer.UnitIDs[:c.offerIdx:c.offerIdx], append([]state.UnitDefID{c.unitDef}, offer.UnitIDs[c.offerIdx:]...)...)
	g.Offers[c.offerKey] = offer
	return nil
}

// activateUnitCommand brings a recruited unit into play for the current
// combat or exploration step (spec §4.2 "ACTIVATE_UNIT"). Reversible.
type activateUnitCommand struct {
	pid      state.PlayerID
	instance state.UnitInstanceID
}

// NewActivateUnitFactory returns the Factory for ACTIVATE_UNIT.
func NewActivateUnitFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &activateUnitCommand{pid: pid, instance: a.UnitInstance}, nil
	}
}

func (c *activateUnitCommand) Type() action.Type        { return action.TypeActivateUnit }
func (c *activateUnitCommand) PlayerID() state.PlayerID { return c.pid }
func (c *activateUnitCommand) IsReversible() bool       { return true }

func (c *activateUnitCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeActivateUnit), "unknown player")
	}
	for i := range p.Units {
		if p.Units[i].InstanceID == c.instance {
			if p.Units[i].IsWounded {
				return nil, engineerr.New(engineerr.RuleViolation, string(c.pid), string(action.TypeActivateUnit), "unit is wounded")
			}
			if p.Units[i].UsedInCombat {
				return nil, engineerr.New(engineerr.OnCooldown, string(c.pid), string(action.TypeActivateUnit), "unit already used this combat")
			}
			p.Units[i].UsedInCombat = true
			return []gameevent.Event{{Type: gameevent.TypeUnitActivated, PlayerID: c.pid, UnitInstanceID: c.instance}}, nil
		}
	}
	return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeActivateUnit), "unknown unit instance")
}

func (c *activateUnitCommand) Undo(g *state.GameState) error {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeActivateUnit), "unknown player")
	}
	for i := range p.Units {
		if p.Units[i].InstanceID == c.instance {
			p.Units[i].UsedInCombat = false
		}
	}
	return nil
}
