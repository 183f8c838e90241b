package state

// CardEffectKind discriminates the terminal/compound/choice effect
// variants a card, skill, or unit ability can produce (spec §4.5).
type CardEffectKind string

// Card effect kinds.
const (
	EffectKindGainMove       CardEffectKind = "gain_move"
	EffectKindGainInfluence  CardEffectKind = "gain_influence"
	EffectKindGainAttack     CardEffectKind = "gain_attack"
	EffectKindGainBlock      CardEffectKind = "gain_block"
	EffectKindHeal           CardEffectKind = "heal"
	EffectKindDraw           CardEffectKind = "draw"
	EffectKindGainManaToken  CardEffectKind = "gain_mana_token"
	EffectKindGainCrystal    CardEffectKind = "gain_crystal"
	EffectKindAddModifier    CardEffectKind = "add_modifier"
	EffectKindChoice         CardEffectKind = "choice"
	EffectKindCompound       CardEffectKind = "compound"
	EffectKindCardBoost      CardEffectKind = "card_boost_choice"
	EffectKindManaDraw       CardEffectKind = "mana_draw_choice"
	EffectKindEnemySelect    CardEffectKind = "enemy_select_choice"
	EffectKindAbilityNullify CardEffectKind = "ability_nullify"
)

// CardEffect is a tagged effect payload. Terminal kinds use the scalar
// fields directly; Choice/Compound use Options/SubEffects.
type CardEffect struct {
	Kind CardEffectKind `json:"kind"`

	// Amount is the generic magnitude for gain_*/heal kinds.
	Amount int `json:"amount,omitempty"`
	// Element qualifies GainAttack/GainBlock.
	Element Element `json:"element,omitempty"`
	// Color qualifies GainManaToken/GainCrystal.
	Color Color `json:"color,omitempty"`
	// AttackType qualifies GainAttack.
	AttackType AttackType `json:"attack_type,omitempty"`
	// Modifier is used by AddModifier.
	Modifier *Modifier `json:"modifier,omitempty"`
	// Options holds the candidate effects for Choice; it is filtered to
	// resolvable options by effect.IsResolvable before a PendingChoice is
	// created (spec §4.5's 0/1/many rule).
	Options []CardEffect `json:"options,omitempty"`
	// SubEffects holds the ordered steps of a Compound effect.
	SubEffects []CardEffect `json:"sub_effects,omitempty"`
	// EnemyTarget is used by ability-nullify / enemy-select effects.
	EnemyTarget EnemyInstanceID `json:"enemy_target,omitempty"`
	// Ability is used by AbilityNullify.
	Ability Ability `json:"ability,omitempty"`
}

// PendingChoice parks a suspended effect resolution (spec §3, §4.5,
// §9 "Pending-choice suspension"). At most one exists per player at a
// time (invariant I3).
type PendingChoice struct {
	SourceCardID       CardID         `json:"source_card_id,omitempty"`
	SourceSkillID      SkillID        `json:"source_skill_id,omitempty"`
	SourceUnitInstance UnitInstanceID `json:"source_unit_instance,omitempty"`
	Options            []CardEffect   `json:"options"`
	RemainingEffects   []CardEffect   `json:"remaining_effects,omitempty"`
}

// PendingDiscardForBonus parks a "discard N cards for a bonus" prompt —
// distinct from PendingChoice because its resolution carries a set of
// hand indices rather than a single option index.
type PendingDiscardForBonus struct {
	Count      int    `json:"count"`
	BonusKind  string `json:"bonus_kind"`
	BonusValue int    `json:"bonus_value"`
}

// PendingTraining parks a unit-training prompt (upgrade a unit's level).
type PendingTraining struct {
	UnitInstanceID UnitInstanceID `json:"unit_instance_id"`
}
