package command

import (
	"github.com/hexrealm/engine/action"
	"github.com/hexrealm/engine/engineerr"
	"github.com/hexrealm/engine/gameevent"
	"github.com/hexrealm/engine/state"
)

// proposeCooperativeAssaultCommand opens a multi-player assault proposal
// against a site (spec §4.2 "PROPOSE_COOPERATIVE_ASSAULT", invariant I8:
// at most one active cooperative assault proposal at a time). Reversible.
type proposeCooperativeAssaultCommand struct {
	pid     state.PlayerID
	siteID  state.SiteID
	invited []state.PlayerID
}

// NewProposeCooperativeAssaultFactory returns the Factory for
// PROPOSE_COOPERATIVE_ASSAULT.
func NewProposeCooperativeAssaultFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &proposeCooperativeAssaultCommand{pid: pid, siteID: a.SiteID, invited: a.InvitedPlayers}, nil
	}
}

func (c *proposeCooperativeAssaultCommand) Type() action.Type        { return action.TypeProposeCooperativeAssault }
func (c *proposeCooperativeAssaultCommand) PlayerID() state.PlayerID { return c.pid }
func (c *proposeCooperativeAssaultCommand) IsReversible() bool       { return true }

func (c *proposeCooperativeAssaultCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	if g.PendingCooperativeAssault != nil {
		return nil, engineerr.New(engineerr.RuleViolation, string(c.pid), string(action.TypeProposeCooperativeAssault), "a cooperative assault is already pending")
	}
	if len(c.invited) == 0 {
		return nil, engineerr.New(engineerr.RuleViolation, string(c.pid), string(action.TypeProposeCooperativeAssault), "must invite at least one player")
	}
	for _, inv := range c.invited {
		if g.PlayerByID(inv) == nil {
			return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeProposeCooperativeAssault), "unknown invited player")
		}
	}
	g.PendingCooperativeAssault = &state.CooperativeAssault{
		InitiatorID:    c.pid,
		SiteID:         c.siteID,
		InvitedPlayers: c.invited,
		Responses:      map[state.PlayerID]bool{},
	}
	return []gameevent.Event{{Type: gameevent.TypeCooperativeAssaultProposed, PlayerID: c.pid}}, nil
}

func (c *proposeCooperativeAssaultCommand) Undo(g *state.GameState) error {
	g.PendingCooperativeAssault = nil
	return nil
}

// respondToCooperativeAssaultCommand records one invited player's
// accept/decline (spec §4.2 "RESPOND_TO_COOPERATIVE_ASSAULT"). Irreversible.
type respondToCooperativeAssaultCommand struct {
	pid    state.PlayerID
	accept bool

	hadPrior  bool
	priorVal  bool
}

// NewRespondToCooperativeAssaultFactory returns the Factory for
// RESPOND_TO_COOPERATIVE_ASSAULT.
func NewRespondToCooperativeAssaultFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &respondToCooperativeAssaultCommand{pid: pid, accept: a.Accept}, nil
	}
}

func (c *respondToCooperativeAssaultCommand) Type() action.Type { return action.TypeRespondToCooperativeAssault }
func (c *respondToCooperativeAssaultCommand) PlayerID() state.PlayerID { return c.pid }
func (c *respondToCooperativeAssaultCommand) IsReversible() bool       { return false }

func (c *respondToCooperativeAssaultCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	ca := g.PendingCooperativeAssault
	if ca == nil {
		return nil, engineerr.New(engineerr.RuleViolation, string(c.pid), string(action.TypeRespondToCooperativeAssault), "no pending cooperative assault")
	}
	invited := false
	for _, inv := range ca.InvitedPlayers {
		if inv == c.pid {
			invited = true
			break
		}
	}
	if !invited {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeRespondToCooperativeAssault), "not invited to this assault")
	}
	c.priorVal, c.hadPrior = ca.Responses[c.pid]
	ca.Responses[c.pid] = c.accept
	return []gameevent.Event{{Type: gameevent.TypeCooperativeAssaultResponded, PlayerID: c.pid, Victory: c.accept}}, nil
}

func (c *respondToCooperativeAssaultCommand) Undo(g *state.GameState) error {
	ca := g.PendingCooperativeAssault
	if ca == nil {
		return nil
	}
	if c.hadPrior {
		ca.Responses[c.pid] = c.priorVal
	} else {
		delete(ca.Responses, c.pid)
	}
	return nil
}

// resolveCooperativeAssaultCommand finalizes a proposal once every
// invited player has responded, clearing the pending slot (spec §4.2
// "RESOLVE_COOPERATIVE_ASSAULT"). Irreversible: combat entry for the
// joining players follows as separate ENTER_COMBAT actions.
type resolveCooperativeAssaultCommand struct {
	pid state.PlayerID
}

// NewResolveCooperativeAssaultFactory returns the Factory for
// RESOLVE_COOPERATIVE_ASSAULT.
func NewResolveCooperativeAssaultFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &resolveCooperativeAssaultCommand{pid: pid}, nil
	}
}

func (c *resolveCooperativeAssaultCommand) Type() action.Type        { return action.TypeResolveCooperativeAssault }
func (c *resolveCooperativeAssaultCommand) PlayerID() state.PlayerID { return c.pid }
func (c *resolveCooperativeAssaultCommand) IsReversible() bool       { return false }

func (c *resolveCooperativeAssaultCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	ca := g.PendingCooperativeAssault
	if ca == nil {
		return nil, engineerr.New(engineerr.RuleViolation, string(c.pid), string(action.TypeResolveCooperativeAssault), "no pending cooperative assault")
	}
	if ca.InitiatorID != c.pid {
		return nil, engineerr.New(engineerr.NotYourTurn, string(c.pid), string(action.TypeResolveCooperativeAssault), "only the initiator may resolve the assault")
	}
	for _, inv := range ca.InvitedPlayers {
		if _, responded := ca.Responses[inv]; !responded {
			return nil, engineerr.New(engineerr.RuleViolation, string(c.pid), string(action.TypeResolveCooperativeAssault), "not every invited player has responded")
		}
	}
	g.PendingCooperativeAssault = nil
	return []gameevent.Event{{Type: gameevent.TypeCooperativeAssaultResolved, PlayerID: c.pid}}, nil
}

func (c *resolveCooperativeAssaultCommand) Undo(g *state.GameState) error {
	panic("resolve-cooperative-assault is irreversible; engine must never call Undo on it")
}

// attachBannerCommand attaches a banner-type unit's passive bonus to the
// player (spec §4.2 "ATTACH_BANNER"). Reversible.
type attachBannerCommand struct {
	pid      state.PlayerID
	instance state.UnitInstanceID
}

// NewAttachBannerFactory returns the Factory for ATTACH_BANNER.
func NewAttachBannerFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &attachBannerCommand{pid: pid, instance: a.UnitInstance}, nil
	}
}

func (c *attachBannerCommand) Type() action.Type        { return action.TypeAttachBanner }
func (c *attachBannerCommand) PlayerID() state.PlayerID { return c.pid }
func (c *attachBannerCommand) IsReversible() bool       { return true }

func (c *attachBannerCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeAttachBanner), "unknown player")
	}
	found := false
	for _, u := range p.Units {
		if u.InstanceID == c.instance {
			found = true
			break
		}
	}
	if !found {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeAttachBanner), "unit not owned by player")
	}
	for _, b := range p.AttachedBanners {
		if b == c.instance {
			return nil, engineerr.New(engineerr.RuleViolation, string(c.pid), string(action.TypeAttachBanner), "banner already attached")
		}
	}
	p.AttachedBanners = append(p.AttachedBanners, c.instance)
	return nil, nil
}

func (c *attachBannerCommand) Undo(g *state.GameState) error {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil
	}
	for i, b := range p.AttachedBanners {
		if b == c.instance {
			p.AttachedBanners = append(p.AttachedBanners[:i:i], p.AttachedBanners[i+1:]...)
			break
		}
	}
	return nil
}

// activateBannerCommand marks an attached banner as used for the rest of
// the combat (spec §4.2 "ACTIVATE_BANNER"), so it can be activated once
// per combat. It records the use only; no bonus effect is resolved here.
// Reversible.
type activateBannerCommand struct {
	pid      state.PlayerID
	instance state.UnitInstanceID
}

// NewActivateBannerFactory returns the Factory for ACTIVATE_BANNER.
func NewActivateBannerFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &activateBannerCommand{pid: pid, instance: a.UnitInstance}, nil
	}
}

func (c *activateBannerCommand) Type() action.Type        { return action.TypeActivateBanner }
func (c *activateBannerCommand) PlayerID() state.PlayerID { return c.pid }
func (c *activateBannerCommand) IsReversible() bool       { return true }

func (c *activateBannerCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeActivateBanner), "unknown player")
	}
	attached := false
	for _, b := range p.AttachedBanners {
		if b == c.instance {
			attached = true
			break
		}
	}
	if !attached {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeActivateBanner), "banner is not attached")
	}
	if _, used := p.SkillCooldowns.UsedThisCombat[state.SkillID(c.instance)]; used {
		return nil, engineerr.New(engineerr.OnCooldown, string(c.pid), string(action.TypeActivateBanner), "banner already used this combat")
	}
	p.SkillCooldowns.UsedThisCombat[state.SkillID(c.instance)] = struct{}{}
	return nil, nil
}

func (c *activateBannerCommand) Undo(g *state.GameState) error {
	p := g.PlayerByID(c.pid)
	if p != nil {
		delete(p.SkillCooldowns.UsedThisCombat, state.SkillID(c.instance))
	}
	return nil
}

// burnCommand permanently removes a card from the game in exchange for
// a one-time bonus (spec §4.2 "BURN"). Irreversible: RemovedCards is a
// one-way zone.
type burnCommand struct {
	pid    state.PlayerID
	cardID state.CardID
}

// NewBurnFactory returns the Factory for BURN.
func NewBurnFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &burnCommand{pid: pid, cardID: a.CardID}, nil
	}
}

func (c *burnCommand) Type() action.Type        { return action.TypeBurn }
func (c *burnCommand) PlayerID() state.PlayerID { return c.pid }
func (c *burnCommand) IsReversible() bool       { return false }

func (c *burnCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeBurn), "unknown player")
	}
	idx := -1
	for i, cid := range p.Hand {
		if cid == c.cardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeBurn), "card is not in hand")
	}
	p.Hand = append(p.Hand[:idx:idx], p.Hand[idx+1:]...)
	p.RemovedCards = append(p.RemovedCards, c.cardID)
	state.Grant(p.InfluencePoints, 1)
	return nil, nil
}

func (c *burnCommand) Undo(g *state.GameState) error {
	panic("burn is irreversible; engine must never call Undo on it")
}

// plunderCommand converts a defeated keep/city's spoils into fame for the
// conquering player (spec §4.2 "PLUNDER"); it grants no crystals.
// Reversible.
type plunderCommand struct {
	pid      state.PlayerID
	siteID   state.SiteID
	fameGain int
}

// NewPlunderFactory returns the Factory for PLUNDER.
func NewPlunderFactory(fameGain int) Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &plunderCommand{pid: pid, siteID: a.SiteID, fameGain: fameGain}, nil
	}
}

func (c *plunderCommand) Type() action.Type        { return action.TypePlunder }
func (c *plunderCommand) PlayerID() state.PlayerID { return c.pid }
func (c *plunderCommand) IsReversible() bool       { return true }

func (c *plunderCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypePlunder), "unknown player")
	}
	p.Fame += c.fameGain
	return []gameevent.Event{{Type: gameevent.TypeFameGained, PlayerID: c.pid, Amount: c.fameGain}}, nil
}

func (c *plunderCommand) Undo(g *state.GameState) error {
	p := g.PlayerByID(c.pid)
	if p != nil {
		p.Fame -= c.fameGain
	}
	return nil
}
