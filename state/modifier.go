package state

// ModifierSourceKind discriminates what granted a Modifier.
type ModifierSourceKind string

// Modifier source kinds.
const (
	ModifierSourceCard  ModifierSourceKind = "card"
	ModifierSourceSkill ModifierSourceKind = "skill"
	ModifierSourceUnit  ModifierSourceKind = "unit"
	ModifierSourceBanner ModifierSourceKind = "banner"
	ModifierSourceRule  ModifierSourceKind = "rule"
)

// ModifierSource identifies where a modifier came from, for stacking and
// debugging (mirrors the teacher's core.Source discipline).
type ModifierSource struct {
	Kind     ModifierSourceKind `json:"kind"`
	CardID   CardID             `json:"card_id,omitempty"`
	SkillID  SkillID            `json:"skill_id,omitempty"`
	UnitID   UnitInstanceID     `json:"unit_id,omitempty"`
	RuleName string             `json:"rule_name,omitempty"`
}

// DurationKind discriminates how long a Modifier stays active.
type DurationKind string

// Duration kinds.
const (
	DurationTurn          DurationKind = "turn"
	DurationCombat        DurationKind = "combat"
	DurationRound         DurationKind = "round"
	DurationUntilNextTurn DurationKind = "until_next_turn"
	DurationPermanent     DurationKind = "permanent"
	DurationUntilCondition DurationKind = "until_condition"
)

// Duration is a tagged duration value. ConditionTag is only meaningful
// when Kind == DurationUntilCondition; purging such a modifier requires
// the caller to know the condition has been satisfied (modifier.Purge
// takes an explicit predicate for this reason).
type Duration struct {
	Kind         DurationKind `json:"kind"`
	ConditionTag string       `json:"condition_tag,omitempty"`
}

// ScopeKind discriminates what a Modifier applies to.
type ScopeKind string

// Scope kinds.
const (
	ScopeSelf      ScopeKind = "self"
	ScopeOneEnemy  ScopeKind = "one_enemy"
	ScopeAllEnemies ScopeKind = "all_enemies"
	ScopeOneUnit   ScopeKind = "one_unit"
	ScopeGlobal    ScopeKind = "global"
)

// Scope is a tagged scope value.
type Scope struct {
	Kind     ScopeKind       `json:"kind"`
	EnemyID  EnemyInstanceID `json:"enemy_id,omitempty"`
	UnitID   UnitInstanceID  `json:"unit_id,omitempty"`
}

// EffectKind discriminates the ≥30 Modifier effect variants named in
// spec §3. Only the kinds the engine actually computes against are
// enumerated here; new kinds require updating the modifier package's
// composition order and effect.Resolve's switch (spec §9, "Discriminated
// unions").
type EffectKind string

// Modifier effect kinds.
const (
	EffectRuleOverride        EffectKind = "rule_override"
	EffectAbilityNullifier    EffectKind = "ability_nullifier"
	EffectRemoveResistance    EffectKind = "remove_resistance"
	EffectConvertAttackElement EffectKind = "convert_attack_element"
	EffectSidewaysValue       EffectKind = "sideways_value"
	EffectCardBoost           EffectKind = "card_boost"
	EffectAttackBonus         EffectKind = "attack_bonus"
	EffectBlockBonus          EffectKind = "block_bonus"
	EffectMoveBonus           EffectKind = "move_bonus"
	EffectInfluenceBonus      EffectKind = "influence_bonus"
	EffectArmorBonus          EffectKind = "armor_bonus"
	EffectResistanceGrant     EffectKind = "resistance_grant"
	EffectSwiftGrant          EffectKind = "swift_grant"
	EffectBrutalGrant         EffectKind = "brutal_grant"
	EffectFortifiedGrant      EffectKind = "fortified_grant"
	EffectCumbersomePenalty   EffectKind = "cumbersome_penalty"
	EffectCompetitivePenalty  EffectKind = "competitive_penalty" // Nature's Vengeance-style
	EffectEnemyArmorDelta     EffectKind = "enemy_armor_delta"   // Shield Bash et al.
	EffectColdToughness       EffectKind = "cold_toughness"      // ice block bonus per enemy ability/resistance
	EffectShieldBash          EffectKind = "shield_bash"         // excess block reduces enemy armor
	EffectRecruitCostDelta    EffectKind = "recruit_cost_delta"
	EffectHandLimitDelta      EffectKind = "hand_limit_delta"
	EffectReputationShield    EffectKind = "reputation_shield"
)

// ModifierEffect is the tagged payload of a Modifier. Only the fields
// relevant to Kind are populated; the rest are zero.
type ModifierEffect struct {
	Kind EffectKind `json:"kind"`

	// Ability is used by AbilityNullifier.
	Ability Ability `json:"ability,omitempty"`
	// Element is used by RemoveResistance, ConvertAttackElement (as the
	// "from" element when paired with ToElement) and ResistanceGrant.
	Element Element `json:"element,omitempty"`
	// ToElement is used by ConvertAttackElement.
	ToElement Element `json:"to_element,omitempty"`
	// Amount is the generic numeric magnitude for bonus/delta kinds.
	Amount int `json:"amount,omitempty"`
	// Condition, when non-nil, gates SidewaysValue application; nil means
	// unconditional.
	Condition *SidewaysCondition `json:"condition,omitempty"`
	// RuleKey/RuleValue are used by RuleOverride.
	RuleKey   string `json:"rule_key,omitempty"`
	RuleValue string `json:"rule_value,omitempty"`
}

// SidewaysCondition gates an EffectSidewaysValue modifier against the
// call arguments described in spec §4.4 ("getEffectiveSidewaysValue").
type SidewaysCondition struct {
	RequireWound          bool   `json:"require_wound,omitempty"`
	RequireManaFromSource bool   `json:"require_mana_from_source,omitempty"`
	RequireColorMatch     Color  `json:"require_color_match,omitempty"`
	RequireCardType       string `json:"require_card_type,omitempty"`
}

// Modifier is a stacked, scoped, durational rule/effect override (spec
// §3, §4.4). Modifiers are immutable once created; purging removes them
// from GameState.ActiveModifiers wholesale rather than mutating in place.
type Modifier struct {
	ID              string         `json:"id"`
	Source          ModifierSource `json:"source"`
	Duration        Duration       `json:"duration"`
	Scope           Scope          `json:"scope"`
	Effect          ModifierEffect `json:"effect"`
	CreatedAtRound  int            `json:"created_at_round"`
	CreatedByPlayer PlayerID       `json:"created_by_player"`
}
