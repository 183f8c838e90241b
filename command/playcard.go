package command

import (
	"github.com/hexrealm/engine/action"
	"github.com/hexrealm/engine/content"
	"github.com/hexrealm/engine/effect"
	"github.com/hexrealm/engine/engineerr"
	"github.com/hexrealm/engine/gameevent"
	"github.com/hexrealm/engine/modifier"
	"github.com/hexrealm/engine/state"
)

// playCardCommand plays a card from hand for its basic or powered effect
// (spec §4.2 "PLAY_CARD_BASIC"/"PLAY_CARD_POWERED"). Powered play requires
// consuming a matching mana crystal or PureMana token first. Reversible.
type playCardCommand struct {
	pid     state.PlayerID
	cardID  state.CardID
	manaSrc state.Color
	powered bool
	catalog content.Catalog

	// Pre-image: the resolved effect may touch any of the player's pools
	// and push modifiers, so the command snapshots the whole player plus
	// the modifier list it will append to (spec §9 "Undo model" — capture
	// what you overwrite).
	priorPlayer    *state.Player
	priorModifiers []state.Modifier
}

// NewPlayCardBasicFactory returns the Factory for PLAY_CARD_BASIC.
func NewPlayCardBasicFactory(catalog content.Catalog) Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &playCardCommand{pid: pid, cardID: a.CardID, catalog: catalog}, nil
	}
}

// NewPlayCardPoweredFactory returns the Factory for PLAY_CARD_POWERED.
func NewPlayCardPoweredFactory(catalog content.Catalog) Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &playCardCommand{pid: pid, cardID: a.CardID, manaSrc: a.ManaSource, powered: true, catalog: catalog}, nil
	}
}

func (c *playCardCommand) Type() action.Type {
	if c.powered {
		return action.TypePlayCardPowered
	}
	return action.TypePlayCardBasic
}
func (c *playCardCommand) PlayerID() state.PlayerID { return c.pid }
func (c *playCardCommand) IsReversible() bool       { return true }

func (c *playCardCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(c.Type()), "unknown player")
	}
	def, ok := c.catalog.Card(c.cardID)
	if !ok {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(c.Type()), "unknown card")
	}

	idx := -1
	for i, cid := range p.Hand {
		if cid == c.cardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(c.Type()), "card is not in hand")
	}

	c.priorPlayer = p.Clone()
	c.priorModifiers = append([]state.Modifier(nil), g.ActiveModifiers...)

	eff := def.BasicEffect
	if c.powered {
		eff = def.PoweredEffect
		if err := c.consumeMana(p); err != nil {
			c.priorPlayer, c.priorModifiers = nil, nil
			return nil, err
		}
	}

	p.Hand = append(p.Hand[:idx:idx], p.Hand[idx+1:]...)
	p.PlayArea = append(p.PlayArea, c.cardID)

	res := effect.Resolve(g, c.pid, eff)

	events := []gameevent.Event{{
		Type:     gameevent.TypeCardPlayed,
		PlayerID: c.pid,
		CardID:   c.cardID,
	}}
	if res.Pending {
		events = append(events, gameevent.Event{Type: gameevent.TypeChoiceRequired, PlayerID: c.pid, CardID: c.cardID})
	}
	for _, em := range res.Emitted {
		events = append(events, gameevent.Event{
			Type:     gameevent.TypeCardPlayed,
			PlayerID: c.pid,
			CardID:   c.cardID,
			Amount:   em.Amount,
			Element:  em.Element,
		})
	}
	return events, nil
}

func (c *playCardCommand) consumeMana(p *state.Player) error {
	for i, tok := range p.PureMana {
		if tok.Color == c.manaSrc {
			p.PureMana = append(p.PureMana[:i:i], p.PureMana[i+1:]...)
			p.Flags.UsedManaFromSource = true
			return nil
		}
	}
	crystal, ok := p.Crystals[c.manaSrc]
	if !ok || crystal.Current() < 1 {
		return engineerr.New(engineerr.MissingResource, string(c.pid), string(c.Type()), "no mana of the required color available")
	}
	if err := crystal.Consume(1); err != nil {
		return engineerr.New(engineerr.MissingResource, string(c.pid), string(c.Type()), err.Error())
	}
	return nil
}

func (c *playCardCommand) Undo(g *state.GameState) error {
	if c.priorPlayer == nil {
		return engineerr.New(engineerr.Internal, string(c.pid), string(c.Type()), "no pre-image captured")
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

// playCardSidewaysCommand plays a card face-down for move/influence/
// attack/block, scaled by modifier.GetEffectiveSidewaysValue (spec §4.2
// "PLAY_CARD_SIDEWAYS", §4.4).
type playCardSidewaysCommand struct {
	pid     state.PlayerID
	cardID  state.CardID
	kind    string
	catalog content.Catalog

	handIndex int
	granted   int
}

// NewPlayCardSidewaysFactory returns the Factory for PLAY_CARD_SIDEWAYS.
func NewPlayCardSidewaysFactory(catalog content.Catalog) Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &playCardSidewaysCommand{pid: pid, cardID: a.CardID, kind: a.SidewaysBonusKind, catalog: catalog}, nil
	}
}

func (c *playCardSidewaysCommand) Type() action.Type        { return action.TypePlayCardSideways }
func (c *playCardSidewaysCommand) PlayerID() state.PlayerID { return c.pid }
func (c *playCardSidewaysCommand) IsReversible() bool       { return true }

func (c *playCardSidewaysCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypePlayCardSideways), "unknown player")
	}
	def, ok := c.catalog.Card(c.cardID)
	if !ok {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypePlayCardSideways), "unknown card")
	}
	idx := -1
	for i, cid := range p.Hand {
		if cid == c.cardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypePlayCardSideways), "card is not in hand")
	}
	c.handIndex = idx

	value := modifier.GetEffectiveSidewaysValue(g, c.pid, def.SidewaysValue, modifier.SidewaysArgs{
		IsWound: def.IsWound,
		CardType: "sideways",
	})
	c.granted = value

	p.Hand = append(p.Hand[:idx:idx], p.Hand[idx+1:]...)
	p.PlayArea = append(p.PlayArea, c.cardID)

	switch c.kind {
	case "move":
		state.Grant(p.MovePoints, value)
	case "influence":
		state.Grant(p.InfluencePoints, value)
	case "attack":
		if p.CombatAccumulator.Attack[state.AttackMelee] == nil {
			p.CombatAccumulator.Attack[state.AttackMelee] = map[state.Element]int{}
		}
		p.CombatAccumulator.Attack[state.AttackMelee][state.ElementPhysical] += value
	case "block":
		p.CombatAccumulator.Block[state.ElementPhysical] += value
	}

	return []gameevent.Event{{
		Type:     gameevent.TypeCardPlayed,
		PlayerID: c.pid,
		CardID:   c.cardID,
		Amount:   value,
	}}, nil
}

func (c *playCardSidewaysCommand) Undo(g *state.GameState) error {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return engineerr.New(engineerr.Internal, string(c.pid), string(action.TypePlayCardSideways), "unknown player")
	}
	for i, cid := range p.PlayArea {
		if cid == c.cardID {
			p.PlayArea = append(p.PlayArea[:i:i], p.PlayArea[i+1:]...)
			break
		}
	}
	p.Hand = append(p.Hand[:c.handIndex:c.handIndex], append([]state.CardID{c.cardID}, p.Hand[c.handIndex:]...)...)

	switch c.kind {
	case "move":
		state.Ungrant(p.MovePoints, c.granted)
	case "influence":
		state.Ungrant(p.InfluencePoints, c.granted)
	case "attack":
		p.CombatAccumulator.Attack[state.AttackMelee][state.ElementPhysical] -= c.granted
	case "block":
		p.CombatAccumulator.Block[state.ElementPhysical] -= c.granted
	}
	return nil
}

// resolveChoiceCommand applies the chosen option of a parked
// PendingChoice (spec §4.2 "RESOLVE_CHOICE"). Not reversible: the parked
// choice usually descends from an irreversible trigger (a site draw, a
// motivational skill), and re-parking a half-resolved compound effect on
// undo would need the original resolution order replayed, so it is
// treated as a checkpoint boundary like exploration.
type resolveChoiceCommand struct {
	pid   state.PlayerID
	index int
}

// NewResolveChoiceFactory returns the Factory for RESOLVE_CHOICE.
func NewResolveChoiceFactory() Factory {
	return func(pid state.PlayerID, a action.Action) (Command, error) {
		return &resolveChoiceCommand{pid: pid, index: a.ChoiceIndex}, nil
	}
}

func (c *resolveChoiceCommand) Type() action.Type        { return action.TypeResolveChoice }
func (c *resolveChoiceCommand) PlayerID() state.PlayerID { return c.pid }
func (c *resolveChoiceCommand) IsReversible() bool       { return false }

func (c *resolveChoiceCommand) Execute(g *state.GameState) ([]gameevent.Event, error) {
	p := g.PlayerByID(c.pid)
	if p == nil {
		return nil, engineerr.New(engineerr.Internal, string(c.pid), string(action.TypeResolveChoice), "unknown player")
	}
	if p.PendingChoice == nil {
		return nil, engineerr.New(engineerr.RuleViolation, string(c.pid), string(action.TypeResolveChoice), "no pending choice")
	}
	if c.index < 0 || c.index >= len(p.PendingChoice.Options) {
		return nil, engineerr.New(engineerr.TargetInvalid, string(c.pid), string(action.TypeResolveChoice), "choice index out of range")
	}

	res := effect.ResolveChoice(g, c.pid, c.index)
	events := []gameevent.Event{{Type: gameevent.TypeChoiceResolved, PlayerID: c.pid, Amount: c.index}}
	if res.Pending {
		events = append(events, gameevent.Event{Type: gameevent.TypeChoiceRequired, PlayerID: c.pid})
	}
	return events, nil
}

func (c *resolveChoiceCommand) Undo(g *state.GameState) error {
	panic("resolve-choice is irreversible; engine must never call Undo on it")
}
