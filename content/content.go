// Package content defines the read-only game-data tables the core
// consults (spec §1 "out of scope": card/enemy/unit definitions, tile
// art are external collaborators; the core only needs lookup). A
// StaticCatalog backed by in-memory maps is provided for tests; a real
// deployment would back Catalog with its own data-loading layer, which
// is explicitly out of scope here.
package content

import "github.com/hexrealm/engine/state"

// CardDef is a card's static definition. IsSpaceBending marks the cards
// whose powered play is barred during a Time-Bent extra turn (the
// Time Bending chain-prevention rule); everything else plays powered
// normally on such a turn.
type CardDef struct {
	ID             state.CardID
	Name           string
	Color          state.Color
	SidewaysValue  int
	IsWound        bool
	IsSpaceBending bool
	BasicEffect    state.CardEffect
	PoweredEffect  state.CardEffect
}

// UnitDef is a recruitable unit's static definition.
type UnitDef struct {
	ID          state.UnitDefID
	Name        string
	Cost        int
	Color       state.Color
	Armor       int
	ResistFire  bool
	ResistIce   bool
}

// SkillDef is a hero skill's static definition. Effect, when non-zero,
// is resolved through the effect resolver on activation; a skill whose
// effect draws cards is irreversible (spec §5 "motivational draws").
type SkillDef struct {
	ID       state.SkillID
	Name     string
	Cooldown string // "round", "turn" or "combat"; any other value is treated as "turn"
	Effect   state.CardEffect
}

// TileDef is a map tile's static definition (geometry/art excluded per
// spec §1; only what the engine needs to validate moves/interactions).
type TileDef struct {
	ID       state.TileID
	IsCity   bool
	SiteKind string
}

// Catalog is the read-only interface the core consults for game content.
type Catalog interface {
	Card(id state.CardID) (CardDef, bool)
	Enemy(id state.EnemyDefID) (state.EnemyDefinition, bool)
	Unit(id state.UnitDefID) (UnitDef, bool)
	Skill(id state.SkillID) (SkillDef, bool)
	Tile(id state.TileID) (TileDef, bool)
}

// StaticCatalog is an in-memory Catalog, suitable for tests and for
// bootstrapping a real catalog implementation.
type StaticCatalog struct {
	Cards  map[state.CardID]CardDef
	Enemies map[state.EnemyDefID]state.EnemyDefinition
	Units  map[state.UnitDefID]UnitDef
	Skills map[state.SkillID]SkillDef
	Tiles  map[state.TileID]TileDef
}

// NewStaticCatalog returns an empty catalog ready for population.
func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{
		Cards:   map[state.CardID]CardDef{},
		Enemies: map[state.EnemyDefID]state.EnemyDefinition{},
		Units:   map[state.UnitDefID]UnitDef{},
		Skills:  map[state.SkillID]SkillDef{},
		Tiles:   map[state.TileID]TileDef{},
	}
}

// Card implements Catalog.
func (c *StaticCatalog) Card(id state.CardID) (CardDef, bool) {
	d, ok := c.Cards[id]
	return d, ok
}

// Enemy implements Catalog.
func (c *StaticCatalog) Enemy(id state.EnemyDefID) (state.EnemyDefinition, bool) {
	d, ok := c.Enemies[id]
	return d, ok
}

// Unit implements Catalog.
func (c *StaticCatalog) Unit(id state.UnitDefID) (UnitDef, bool) {
	d, ok := c.Units[id]
	return d, ok
}

// Skill implements Catalog.
func (c *StaticCatalog) Skill(id state.SkillID) (SkillDef, bool) {
	d, ok := c.Skills[id]
	return d, ok
}

// Tile implements Catalog.
func (c *StaticCatalog) Tile(id state.TileID) (TileDef, bool) {
	d, ok := c.Tiles[id]
	return d, ok
}

var _ Catalog = (*StaticCatalog)(nil)
