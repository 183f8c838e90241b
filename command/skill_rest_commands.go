package command

import (
	"github.com/hexrealm/engine/action"
	"github.com/hexrealm/engine/content"
	"github.com/hexrealm/engine/effect"
	"github.com/hexrealm/engine/engineerr"
	"github.com/hexrealm/engine/gameevent"
	"github.com/hexrealm/engine/state"
)

// useSkillCommand activates a hero skill, honoring its cooldown window
// (round/turn/combat; any other Cooldown value, "once" included, is
// tracked in the turn window) in state.SkillCooldownSets (spec §4.2
// "USE_SKILL", invariant I4) and resolving the skill's effect.
// Reversible unless the effect draws cards — a motivational draw reveals
// hidden deck order and sets a checkpoint instead (spec §5).
type useSkillCommand struct {
	pid     state.PlayerID
	skillID state.SkillID
	catalog content.Catalog
	draws   bool

	priorPlayer    *state.Player
	priorModifiers []state.Modifier
}

// NewUseSkillFactory returns the Factory for USE_SKILL.
func NewUseSkillFactory(catalog content.Catalog) Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		draws := false
		if def, ok := catalog.Skill(a.SkillID); ok {
			draws = effectDraws(def.Effect)
		}
		return &useSkillCommand{pid: pid, skillID: a.SkillID, catalog: catalog, draws: draws}, nil
	}
}

// effectDraws reports whether eff (or any nested effect) draws cards.
func effectDraws(eff state.CardEffect) bool {
	if eff.Kind == state.EffectKindDraw {
		return true
	}
	for _, sub := range eff.SubEffects {
		if effectDraws(sub) {
			return true
		}
	}
	for _, opt := range eff.Options {
		if effectDraws(opt) {
			return true
		}
	}
	return false
}

func (c *useSkillCommand) Type() action.Type        { return action.TypeUseSkill }
func (c *useSkillCommand) PlayerID() state.PlayerID { return c.pid }
func (c *useSkillCommand) IsReversible() bool       { return !c.draws }

func (c *useSkillCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeUseSkill), "unknown player")
	}
	def, ok := c.catalog.Skill(c.skillID)
	if !ok {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeUseSkill), "unknown skill")
	}

	var set map[state.SkillID]struct{}
	switch def.Cooldown {
	case "round":
		set = p.SkillCooldowns.UsedThisRound
	case "turn":
		set = p.SkillCooldowns.UsedThisTurn
	case "combat":
		set = p.SkillCooldowns.UsedThisCombat
	default:
		set = p.SkillCooldowns.UsedThisTurn
	}
	if _, used := set[c.skillID]; used {
		return nil, engineerr.New(engineerr.OnCooldown, string(c.pid), string(action.TypeUseSkill), "skill already used in its cooldown window")
	}

	c.priorPlayer = p.Clone()
	c.priorModifiers = append([]state.Modifier(nil), g.ActiveModifiers...)

	set[c.skillID] = struct{}{}
	p.SkillCooldowns.UsedThisRound[c.skillID] = struct{}{}

	events := []gameevent.Event{{Type: gameevent.TypeSkillUsed, PlayerID: c.pid}}
	if def.Effect.Kind != "" {
		handBefore := len(p.Hand)
		res := effect.Resolve(g, c.pid, def.Effect)
		if res.Pending {
			events = append(events, gameevent.Event{Type: gameevent.TypeChoiceRequired, PlayerID: c.pid})
		}
		if drawn := len(p.Hand) - handBefore; drawn > 0 {
			events = append(events, gameevent.Event{Type: gameevent.TypeCardsDrawn, PlayerID: c.pid, Amount: drawn})
		}
	}
	return events, nil
}

func (c *useSkillCommand) Undo(g *state.GameState) error {
	if c.priorPlayer == nil {
		return engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeUseSkill), "no pre-image captured")
	}
	for i, p := range g.Players {
		if p.ID == c.pid {
			g.Players[i] = c.priorPlayer.Clone()
			break
		}
	}
	g.ActiveModifiers = append([]state.Modifier(nil), c.priorModifiers...)
	return nil
}

// declareRestCommand marks a player resting for the turn (spec §4.2
// "DECLARE_REST"). Reversible.
type declareRestCommand struct {
	pid state.PlayerID
}

// NewDeclareRestFactory returns the Factory for DECLARE_REST.
func NewDeclareRestFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &declareRestCommand{pid: pid}, nil
	}
}

func (c *declareRestCommand) Type() action.Type        { return action.TypeDeclareRest }
func (c *declareRestCommand) PlayerID() state.PlayerID { return c.pid }
func (c *declareRestCommand) IsReversible() bool       { return true }

func (c *declareRestCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeDeclareRest), "unknown player")
	}
	if p.Flags.HasRestedThisTurn {
		return nil, engineerr.New(engineerr.RuleViolation, string(c.pid), string(action.TypeDeclareRest), "already rested this turn")
	}
	p.Flags.IsResting = true
	return []gameevent.Event{{Type: gameevent.TypeRestDeclared, PlayerID: c.pid}}, nil
}

func (c *declareRestCommand) Undo(g *state.GameState) error {
	p := g.PlayerByID(c.pid)
	if p != nil {
		p.Flags.IsResting = false
	}
	return nil
}

// completeRestCommand ends a declared rest, discarding wounds from hand
// (standard rest) per the count chosen and marking the turn complete
// (spec §4.2 "COMPLETE_REST"). Irreversible: the discarded cards leave
// the reversible domain (deck/discard ordering is content data the
// engine does not own).
type completeRestCommand struct {
	pid     state.PlayerID
	discard []int
}

// NewCompleteRestFactory returns the Factory for COMPLETE_REST.
func NewCompleteRestFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &completeRestCommand{pid: pid, discard: a.DiscardHandIndices}, nil
	}
}

func (c *completeRestCommand) Type() action.Type        { return action.TypeCompleteRest }
func (c *completeRestCommand) PlayerID() state.PlayerID { return c.pid }
func (c *completeRestCommand) IsReversible() bool       { return false }

func (c *completeRestCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeCompleteRest), "unknown player")
	}
	if !p.Flags.IsResting {
		return nil, engineerr.New(engineerr.WrongPhase, string(c.pid), string(action.TypeCompleteRest), "not resting")
	}

	idxSet := map[int]struct{}{}
	for _, i := range c.discard {
		idxSet[i] = struct{}{}
	}
	var kept []state.CardID
	for i, cid := range p.Hand {
		if _, drop := idxSet[i]; drop {
			p.Discard = append(p.Discard, cid)
			continue
		}
		kept = append(kept, cid)
	}
	p.Hand = kept
	p.Flags.IsResting = false
	p.Flags.HasRestedThisTurn = true

	return []gameevent.Event{{Type: gameevent.TypeRestCompleted, PlayerID: c.pid, Amount: len(c.discard)}}, nil
}

func (c *completeRestCommand) Undo(g *state.GameState) error {
	panic("complete-rest is irreversible; engine must never call Undo on it")
}

// interactCommand resolves a site interaction (village/monastery/keep/
// etc. — spec §4.2 "INTERACT"); the concrete effect of a site is content
// data the engine does not own, so interactCommand only applies the
// pre-resolved state.CardEffect the caller supplies via catalog lookup
// keyed by site kind, mirroring how PLAY_CARD resolves a CardDef.
type interactCommand struct {
	pid       state.PlayerID
	siteID    state.SiteID
	siteEffect func(state.SiteID) (state.CardEffect, bool)
}

// NewInteractFactory returns the Factory for INTERACT. siteEffect
// resolves a site's effect from content; combat/effect have no map
// dependency of their own.
func NewInteractFactory(siteEffect func(state.SiteID) (state.CardEffect, bool)) Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &interactCommand{pid: pid, siteID: a.SiteID, siteEffect: siteEffect}, nil
	}
}

func (c *interactCommand) Type() action.Type        { return action.TypeInteract }
func (c *interactCommand) PlayerID() state.PlayerID { return c.pid }
func (c *interactCommand) IsReversible() bool       { return false }

func (c *interactCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeInteract), "unknown player")
	}
	eff, ok := c.siteEffect(c.siteID)
	if !ok {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeInteract), "unknown or unavailable site")
	}
	res := effect.Resolve(g, c.pid, eff)
	events := []gameevent.Event{}
	if res.Pending {
		events = append(events, gameevent.Event{Type: gameevent.TypeChoiceRequired, PlayerID: c.pid})
	}
	for _, em := range res.Emitted {
		events = append(events, gameevent.Event{Type: gameevent.TypeReputationChanged, PlayerID: c.pid, Amount: em.Amount})
	}
	return events, nil
}

func (c *interactCommand) Undo(g *state.GameState) error {
	panic("interact is irreversible; engine must never call Undo on it")
}
