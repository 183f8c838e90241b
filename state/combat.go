package state

// Phase is one of the four combat state-machine phases (spec §4.6).
type Phase string

// Combat phases, in their fixed sequence.
const (
	PhaseRangedSiege  Phase = "ranged_siege"
	PhaseBlock        Phase = "block"
	PhaseAssignDamage Phase = "assign_damage"
	PhaseAttack       Phase = "attack"
)

// NextPhase returns the phase that follows p, or ("", false) if p is the
// terminal phase (Attack ends combat rather than advancing).
func NextPhase(p Phase) (Phase, bool) {
	switch p {
	case PhaseRangedSiege:
		return PhaseBlock, true
	case PhaseBlock:
		return PhaseAssignDamage, true
	case PhaseAssignDamage:
		return PhaseAttack, true
	default:
		return "", false
	}
}

// ElementalDamage maps Element to an amount of pending damage or block.
type ElementalDamage map[Element]int

// Sum returns the total across all elements.
func (e ElementalDamage) Sum() int {
	total := 0
	for _, v := range e {
		total += v
	}
	return total
}

// Clone returns a copy.
func (e ElementalDamage) Clone() ElementalDamage {
	out := make(ElementalDamage, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// EnemyFlags groups the per-enemy booleans the combat machine tracks.
type EnemyFlags struct {
	IsBlocked            bool `json:"is_blocked"`
	IsDefeated           bool `json:"is_defeated"`
	DamageAssigned       bool `json:"damage_assigned"`
	IsRequiredForConquest bool `json:"is_required_for_conquest"`
	IsSummonerHidden     bool `json:"is_summoner_hidden,omitempty"`
}

// EnemyDefinition is the read-only, content-catalog-backed shape of an
// enemy (spec §3 "definition").
type EnemyDefinition struct {
	Armor          int               `json:"armor"`
	Attacks        []EnemyAttack     `json:"attacks"`
	Resistances    map[Element]struct{} `json:"resistances"`
	Abilities      map[Ability]struct{} `json:"abilities"`
	Fame           int               `json:"fame"`
	Faction        string            `json:"faction"`
	SummonCount    int               `json:"summon_count,omitempty"` // multi-summon abilities
}

// EnemyAttack is one entry in an enemy's (possibly multi-attack) attack
// list.
type EnemyAttack struct {
	AttackType AttackType `json:"attack_type"`
	Element    Element    `json:"element"`
	Amount     int        `json:"amount"`
}

// CombatEnemy is one enemy token participating in the active combat.
type CombatEnemy struct {
	InstanceID EnemyInstanceID `json:"instance_id"`
	EnemyID    EnemyDefID      `json:"enemy_id"`
	Definition EnemyDefinition `json:"definition"`
	Flags      EnemyFlags      `json:"flags"`

	// AttacksBlocked/AttacksCancelled parallel Definition.Attacks by
	// index (spec §9 "multi-attack enemies"). Flags.IsBlocked is the
	// derived conjunction of AttacksBlocked.
	AttacksBlocked    []bool `json:"attacks_blocked"`
	AttacksCancelled  []bool `json:"attacks_cancelled"`

	SummonedByInstanceID EnemyInstanceID `json:"summoned_by_instance_id,omitempty"`

	// SummonedFromPool names the token pool a summoned enemy was drawn
	// from, so the ATTACK-phase transition can return its token to the
	// right discard pile (spec §4.6 "ATTACK", invariant I5).
	SummonedFromPool TokenColor `json:"summoned_from_pool,omitempty"`
}

// DeriveIsBlocked recomputes Flags.IsBlocked as the conjunction of
// AttacksBlocked (spec §9). Call after any AttacksBlocked mutation.
func (e *CombatEnemy) DeriveIsBlocked() {
	if len(e.AttacksBlocked) == 0 {
		e.Flags.IsBlocked = false
		return
	}
	for _, b := range e.AttacksBlocked {
		if !b {
			e.Flags.IsBlocked = false
			return
		}
	}
	e.Flags.IsBlocked = true
}

// Clone returns a deep copy.
func (e CombatEnemy) Clone() CombatEnemy {
	cp := e
	cp.AttacksBlocked = append([]bool(nil), e.AttacksBlocked...)
	cp.AttacksCancelled = append([]bool(nil), e.AttacksCancelled...)
	resist := make(map[Element]struct{}, len(e.Definition.Resistances))
	for k, v := range e.Definition.Resistances {
		resist[k] = v
	}
	abilities := make(map[Ability]struct{}, len(e.Definition.Abilities))
	for k, v := range e.Definition.Abilities {
		abilities[k] = v
	}
	cp.Definition.Resistances = resist
	cp.Definition.Abilities = abilities
	cp.Definition.Attacks = append([]EnemyAttack(nil), e.Definition.Attacks...)
	return cp
}

// AssaultOrigin records where a cooperative assault combat originated,
// for crediting conquest/fame correctly once it resolves.
type AssaultOrigin struct {
	InitiatorID PlayerID   `json:"initiator_id"`
	SiteID      SiteID     `json:"site_id"`
}

// CombatContext carries read-only framing data the combat machine needs
// but does not own (site type, whether this is an offense/defense, etc).
type CombatContext struct {
	IsOffense bool   `json:"is_offense"`
	SiteKind  string `json:"site_kind,omitempty"`
}

// CombatState is the active combat sub-state-machine (spec §3, §4.6).
type CombatState struct {
	Phase    Phase         `json:"phase"`
	Enemies  []CombatEnemy `json:"enemies"`

	PendingDamage     map[EnemyInstanceID]ElementalDamage `json:"pending_damage"`
	PendingBlock      map[EnemyInstanceID]ElementalDamage `json:"pending_block"`
	PendingSwiftBlock map[EnemyInstanceID]ElementalDamage `json:"pending_swift_block,omitempty"`

	WoundsThisCombat int `json:"wounds_this_combat"`
	FameGained       int `json:"fame_gained"`

	IsAtFortifiedSite       bool   `json:"is_at_fortified_site"`
	UnitsAllowed            bool   `json:"units_allowed"`
	NightManaRules          bool   `json:"night_mana_rules"`
	AssaultOrigin           *AssaultOrigin `json:"assault_origin,omitempty"`
	DiscardEnemiesOnFailure bool   `json:"discard_enemies_on_failure"`
	CombatHexCoord          HexCoord `json:"combat_hex_coord"`
	CombatContext           CombatContext `json:"combat_context"`

	// DeclaredAttackTargets is the group DECLARE_ATTACK_TARGETS fixed for
	// the current ATTACK-phase melee swing (spec §4.6 "may group multiple
	// enemies sharing combined armor"). FINALIZE_ATTACK reads this group
	// rather than a single target so a grouped attack defeats every member
	// at once when the combined armor check succeeds.
	DeclaredAttackTargets []EnemyInstanceID `json:"declared_attack_targets,omitempty"`
}

// NewCombatState returns an initialized CombatState starting in the
// ranged/siege phase with the given enemies.
func NewCombatState(enemies []CombatEnemy, hex HexCoord) *CombatState {
	return &CombatState{
		Phase:             PhaseRangedSiege,
		Enemies:           enemies,
		PendingDamage:     map[EnemyInstanceID]ElementalDamage{},
		PendingBlock:      map[EnemyInstanceID]ElementalDamage{},
		PendingSwiftBlock: map[EnemyInstanceID]ElementalDamage{},
		CombatHexCoord:    hex,
	}
}

// EnemyByID finds an enemy by instance id, or nil.
func (c *CombatState) EnemyByID(id EnemyInstanceID) *CombatEnemy {
	for i := range c.Enemies {
		if c.Enemies[i].InstanceID == id {
			return &c.Enemies[i]
		}
	}
	return nil
}

// Clone returns a deep copy.
func (c *CombatState) Clone() *CombatState {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Enemies = make([]CombatEnemy, len(c.Enemies))
	for i, e := range c.Enemies {
		cp.Enemies[i] = e.Clone()
	}
	cp.PendingDamage = cloneDamageMap(c.PendingDamage)
	cp.PendingBlock = cloneDamageMap(c.PendingBlock)
	cp.PendingSwiftBlock = cloneDamageMap(c.PendingSwiftBlock)
	cp.DeclaredAttackTargets = append([]EnemyInstanceID(nil), c.DeclaredAttackTargets...)
	if c.AssaultOrigin != nil {
		ao := *c.AssaultOrigin
		cp.AssaultOrigin = &ao
	}
	return &cp
}

func cloneDamageMap(m map[EnemyInstanceID]ElementalDamage) map[EnemyInstanceID]ElementalDamage {
	out := make(map[EnemyInstanceID]ElementalDamage, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}
