package battle

import (
	"github.com/moo-zh/battlemon/internal/data"
	"github.com/moo-zh/battlemon/internal/rng"
)

// EffectResult is the per-invocation scratch every op reports through. The
// orchestrator zeroes it before each dispatch and reads it afterwards.
type EffectResult struct {
	Missed        bool
	Failed        bool
	Damage        uint16
	Effectiveness uint16
	Critical      bool
	StatusApplied bool
	SwitchOut     bool
	BatonPass     bool

	PursuitIntercept bool
	PursuitUserSlot  uint8
}

// DamageOverride lets an effect or the orchestrator substitute inputs of
// the damage calculation. Zero means "use the move/stat value".
type DamageOverride struct {
	Power   uint16
	Attack  uint16
	Defense uint16
}

// SlotRef pairs a slot with the mon occupying it, for effects that sweep
// every battler.
type SlotRef struct {
	Slot *SlotState
	Mon  *MonState
	ID   uint8
}

// Context is the blackboard one effect invocation runs against. It names
// which concrete field/side/slot/mon instances are attacker and defender
// plus the active move, and carries the result scratch. Ops mutate only
// through it; the pointers are re-aimed by the orchestrator whenever the
// acting side changes and must not be retained past the invocation.
type Context struct {
	Field *FieldState

	AttackerSide *SideState
	DefenderSide *SideState

	Attacker *SlotState
	Defender *SlotState

	AttackerMon *MonState
	DefenderMon *MonState

	AttackerActive *ActiveMon
	DefenderActive *ActiveMon

	AttackerSlot uint8
	DefenderSlot uint8

	Move *data.Move

	Result   EffectResult
	Override DamageOverride

	// Iteration counts repeat-action passes, for effects whose power or
	// accuracy scales per hit.
	Iteration int

	// HitSubstitute is set by damage application when a substitute soaked
	// the hit, so drain and secondary effects know the mon was untouched.
	HitSubstitute bool

	// SkipRandom disables the 85-100% damage spread for deterministic runs.
	SkipRandom bool

	AllSlots  [MaxBattleSlots]SlotRef
	SlotCount int

	RNG   rng.Source
	Items *ItemHooks
}

// ResetScratch zeroes the per-invocation scratch ahead of a dispatch.
func (c *Context) ResetScratch() {
	c.Result = EffectResult{PursuitUserSlot: NoSlot}
	c.Override = DamageOverride{}
	c.Iteration = 0
	c.HitSubstitute = false
}

// DefenderHasSubstitute reports whether a live substitute shields the
// defender.
func (c *Context) DefenderHasSubstitute() bool {
	return c.Defender.HasVolatile(VolSubstitute) && c.Defender.SubstituteHP > 0
}

// EffectivePower is the move power with any override applied.
func (c *Context) EffectivePower() uint16 {
	if c.Override.Power != 0 {
		return c.Override.Power
	}
	return uint16(c.Move.Power)
}

// SwapRoles flips attacker and defender in place. The orchestrator uses it
// for magic-coat bounces.
func (c *Context) SwapRoles() {
	c.AttackerSide, c.DefenderSide = c.DefenderSide, c.AttackerSide
	c.Attacker, c.Defender = c.Defender, c.Attacker
	c.AttackerMon, c.DefenderMon = c.DefenderMon, c.AttackerMon
	c.AttackerActive, c.DefenderActive = c.DefenderActive, c.AttackerActive
	c.AttackerSlot, c.DefenderSlot = c.DefenderSlot, c.AttackerSlot
}
