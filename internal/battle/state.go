// Package battle implements the core battle engine: the four-scope state
// model, the staged effect pipeline its moves resolve through, the held-item
// hook dispatch, and the per-turn orchestrator.
package battle

import (
	"fmt"

	"github.com/moo-zh/battlemon/internal/data"
)

// MaxBattleSlots is the size of the slot array. The engine resolves singles
// only, but side/slot bookkeeping is laid out so a four-slot format does not
// need a state redesign.
const MaxBattleSlots = 4

// NoSlot marks an absent slot reference in attacker/target fields.
const NoSlot uint8 = 0xFF

// Weather is the field weather variant.
type Weather uint8

const (
	WeatherNone Weather = iota
	WeatherSun
	WeatherRain
	WeatherSandstorm
	WeatherHail
)

var weatherNames = map[Weather]string{
	WeatherNone:      "NONE",
	WeatherSun:       "SUN",
	WeatherRain:      "RAIN",
	WeatherSandstorm: "SANDSTORM",
	WeatherHail:      "HAIL",
}

func (w Weather) String() string {
	if name, ok := weatherNames[w]; ok {
		return name
	}
	return fmt.Sprintf("WEATHER_%d", uint8(w))
}

// FutureSightSlot is one pending delayed attack.
type FutureSightSlot struct {
	TurnsUntilLand uint8
	AttackerSlot   uint8
	Damage         uint16
	Move           data.MoveID
}

// WishSlot is one pending delayed heal.
type WishSlot struct {
	TurnsUntilHeal uint8
	HPToRestore    uint16
}

const delayedSlots = 4

// FieldState is the battle-wide scope. It lives for the whole battle and is
// reset explicitly between battles.
type FieldState struct {
	Weather      Weather
	WeatherTurns uint8 // 0 = permanent
	FutureSight  [delayedSlots]FutureSightSlot
	Wishes       [delayedSlots]WishSlot
}

// Reset restores the field scope to its between-battles state.
func (f *FieldState) Reset() {
	*f = FieldState{}
}

// SideState is the per-team scope. Screen timers count turns remaining with
// 0 meaning inactive.
type SideState struct {
	ReflectTurns     uint8
	LightScreenTurns uint8
	SafeguardTurns   uint8
	MistTurns        uint8
	SpikesLayers     uint8 // 0..3
	FollowMeTarget   uint8 // NoSlot = none
}

// Reset restores the side scope to its between-battles state.
func (s *SideState) Reset() {
	*s = SideState{FollowMeTarget: NoSlot}
}

// MaxSpikesLayers is the spikes layer cap.
const MaxSpikesLayers = 3

// Volatile is the 32-bit per-slot volatile status bitset. Volatiles clear
// on switch-out, except for the subset baton pass carries over.
type Volatile uint32

const (
	VolConfused Volatile = 1 << iota
	VolInfatuated
	VolFocusEnergy
	VolSubstitute
	VolLeechSeed
	VolCursed
	VolNightmare
	VolTrapped
	VolWrapped
	VolTormented
	VolDisabled
	VolTaunted
	VolEncored
	VolCharging
	VolSemiInvulnerable
	VolDestinyBond
	VolGrudge
	VolIngrained
	VolYawn
	VolPerishSong
	VolLockOn
	VolCharged
	VolDefenseCurl
	VolRage
	VolForesight
	VolBide
	VolUproar
	VolTransformed
	VolProtected
	VolEndured
	VolFlinched
)

// batonPassVolatiles is the subset of volatiles baton pass hands to the
// incoming battler.
const batonPassVolatiles = VolConfused | VolFocusEnergy | VolSubstitute |
	VolLeechSeed | VolCursed | VolTrapped | VolIngrained | VolPerishSong | VolLockOn

// perTurnVolatiles clear at turn start regardless of what happened.
const perTurnVolatiles = VolProtected | VolEndured | VolFlinched

// Stage indexes into SlotState.Stages.
const (
	StageAtk = iota
	StageDef
	StageSpeed
	StageSpAtk
	StageSpDef
	StageAccuracy
	StageEvasion

	stageCount = 7
)

var stageNames = [stageCount]string{"ATK", "DEF", "SPEED", "SP_ATK", "SP_DEF", "ACCURACY", "EVASION"}

// StageName returns the display name for a stat-stage index.
func StageName(i int) string {
	if i >= 0 && i < stageCount {
		return stageNames[i]
	}
	return fmt.Sprintf("STAGE_%d", i)
}

// SlotState is the per-battle-position scope. It is zeroed on send-in,
// reset on switch-out, and partially preserved by baton pass.
type SlotState struct {
	Stages    [stageCount]int8
	Volatiles Volatile

	ConfusionTurns  uint8
	WrapTurns       uint8
	TauntTurns      uint8
	EncoreTurns     uint8
	DisableTurns    uint8
	PerishCount     uint8
	StockpileCount  uint8
	FuryCutterPower uint8
	RolloutHits     uint8
	YawnTurns       uint8

	SubstituteHP uint16

	DisabledMove data.MoveID
	EncoredMove  data.MoveID
	LastMoveUsed data.MoveID
	ChargingMove data.MoveID

	// Damage-taken ledger for the current turn.
	PhysicalDamageTaken uint16
	SpecialDamageTaken  uint16
	PhysicalAttacker    uint8 // NoSlot = none
	SpecialAttacker     uint8 // NoSlot = none

	InfatuatedWith  uint8 // NoSlot = none
	LeechSeedTarget uint8 // NoSlot = none
	TrappedBy       uint8 // NoSlot = none

	IsFirstTurn   bool
	MovedThisTurn bool
	BounceMove    bool

	HeldItem     data.Item
	ItemConsumed bool
}

// newSlotState returns a slot in its send-in default state holding item.
func newSlotState(item data.Item) SlotState {
	s := SlotState{HeldItem: item, IsFirstTurn: true}
	s.clearSlotRefs()
	return s
}

func (s *SlotState) clearSlotRefs() {
	s.PhysicalAttacker = NoSlot
	s.SpecialAttacker = NoSlot
	s.InfatuatedWith = NoSlot
	s.LeechSeedTarget = NoSlot
	s.TrappedBy = NoSlot
}

// ClearForSwitch resets the slot for a plain switch-out. The held item and
// its consumed flag stay with the position's incoming battler only insofar
// as the caller re-seeds them; here everything volatile is dropped.
func (s *SlotState) ClearForSwitch() {
	item, consumed := s.HeldItem, s.ItemConsumed
	*s = newSlotState(item)
	s.ItemConsumed = consumed
}

// ClearForBatonPass resets the slot like a switch but preserves exactly the
// baton-passed state: stat stages, substitute HP, perish count, the
// leech-seed target, and the baton-pass volatile subset.
func (s *SlotState) ClearForBatonPass() {
	stages := s.Stages
	subHP := s.SubstituteHP
	perish := s.PerishCount
	leech := s.LeechSeedTarget
	vols := s.Volatiles & batonPassVolatiles

	s.ClearForSwitch()

	s.Stages = stages
	s.SubstituteHP = subHP
	s.PerishCount = perish
	s.LeechSeedTarget = leech
	s.Volatiles = vols
}

// ClearTurnFlags drops the per-turn state at turn start: protect/endure/
// flinch volatiles, the damage ledger, moved-this-turn, and magic coat.
// Calling it twice in a row is a no-op the second time.
func (s *SlotState) ClearTurnFlags() {
	s.Volatiles &^= perTurnVolatiles
	s.PhysicalDamageTaken = 0
	s.SpecialDamageTaken = 0
	s.PhysicalAttacker = NoSlot
	s.SpecialAttacker = NoSlot
	s.MovedThisTurn = false
	s.BounceMove = false
}

// HasVolatile reports whether every bit of v is set.
func (s *SlotState) HasVolatile(v Volatile) bool {
	return s.Volatiles&v == v
}

// SetVolatile sets the given bits.
func (s *SlotState) SetVolatile(v Volatile) {
	s.Volatiles |= v
}

// ClearVolatile clears the given bits.
func (s *SlotState) ClearVolatile(v Volatile) {
	s.Volatiles &^= v
}

// RecordDamageTaken updates the turn ledger after a committed hit.
func (s *SlotState) RecordDamageTaken(physical bool, dmg uint16, attacker uint8) {
	if physical {
		s.PhysicalDamageTaken += dmg
		s.PhysicalAttacker = attacker
	} else {
		s.SpecialDamageTaken += dmg
		s.SpecialAttacker = attacker
	}
}

// Status is the primary (non-volatile) status condition. It lives on the
// mon and persists through switches.
type Status uint8

const (
	StatusNone Status = iota
	StatusSleep
	StatusPoison
	StatusBurn
	StatusFreeze
	StatusParalysis
	StatusToxic
)

var statusNames = map[Status]string{
	StatusNone:      "NONE",
	StatusSleep:     "SLEEP",
	StatusPoison:    "POISON",
	StatusBurn:      "BURN",
	StatusFreeze:    "FREEZE",
	StatusParalysis: "PARALYSIS",
	StatusToxic:     "TOXIC",
}

func (st Status) String() string {
	if name, ok := statusNames[st]; ok {
		return name
	}
	return fmt.Sprintf("STATUS_%d", uint8(st))
}

// MonState is the per-party-member scope. It is created by rental setup and
// mutated for the rest of the battle.
type MonState struct {
	CurrentHP uint16
	MaxHP     uint16

	Status       Status
	SleepTurns   uint8
	ToxicCounter uint8 // 1..15 while toxic; reset to 1 on switch-in

	PP [4]uint8
}

// IsFainted reports whether the mon is out of the battle.
func (m *MonState) IsFainted() bool {
	return m.CurrentHP == 0
}

// ApplyDamage subtracts hp, flooring at zero, and returns the amount
// actually dealt.
func (m *MonState) ApplyDamage(dmg uint16) uint16 {
	if dmg > m.CurrentHP {
		dmg = m.CurrentHP
	}
	m.CurrentHP -= dmg
	return dmg
}

// Heal restores hp, capping at max, and returns the amount restored.
func (m *MonState) Heal(hp uint16) uint16 {
	room := m.MaxHP - m.CurrentHP
	if hp > room {
		hp = room
	}
	m.CurrentHP += hp
	return hp
}

// ActiveMon is the read-mostly mirror of a battler's final stats and types
// the damage kernel reads. It is populated at switch-in and not recomputed
// afterwards.
type ActiveMon struct {
	Level     uint8
	Attack    uint16
	Defense   uint16
	Speed     uint16
	SpAttack  uint16
	SpDefense uint16
	Type1     data.Type
	Type2     data.Type
	Species   data.Species
	Ability   data.Ability
}

// HasType reports whether t is one of the battler's types.
func (a *ActiveMon) HasType(t data.Type) bool {
	return t != data.TypeNone && (a.Type1 == t || a.Type2 == t)
}
