package battle

import (
	"testing"

	"github.com/moo-zh/battlemon/internal/data"
)

func TestClearTurnFlags_Idempotent(t *testing.T) {
	s := newSlotState(data.ItemLeftovers)
	s.SetVolatile(VolProtected | VolEndured | VolFlinched | VolConfused)
	s.PhysicalDamageTaken = 40
	s.PhysicalAttacker = 1
	s.MovedThisTurn = true
	s.BounceMove = true

	s.ClearTurnFlags()
	snapshot := s
	s.ClearTurnFlags()

	if s != snapshot {
		t.Error("ClearTurnFlags should be idempotent")
	}
	if s.HasVolatile(VolProtected) || s.HasVolatile(VolEndured) || s.HasVolatile(VolFlinched) {
		t.Error("Per-turn volatiles survived the clear")
	}
	if !s.HasVolatile(VolConfused) {
		t.Error("Confusion should persist across turns")
	}
	if s.PhysicalDamageTaken != 0 || s.PhysicalAttacker != NoSlot {
		t.Error("Damage ledger survived the clear")
	}
}

func TestClearForBatonPass_PreservesExactly(t *testing.T) {
	s := newSlotState(data.ItemLeftovers)
	s.Stages = [7]int8{2, -1, 0, 6, 0, 1, -3}
	s.SetVolatile(VolConfused | VolFocusEnergy | VolSubstitute | VolLeechSeed |
		VolCursed | VolTrapped | VolIngrained | VolPerishSong | VolLockOn |
		VolFlinched | VolTaunted | VolCharging)
	s.SubstituteHP = 55
	s.PerishCount = 2
	s.LeechSeedTarget = 1
	s.ConfusionTurns = 3
	s.TauntTurns = 2
	s.LastMoveUsed = data.MoveTackle
	s.ChargingMove = data.MoveSkyAttack

	s.ClearForBatonPass()

	// Preserved.
	if s.Stages != [7]int8{2, -1, 0, 6, 0, 1, -3} {
		t.Errorf("Stages not preserved: %v", s.Stages)
	}
	if s.SubstituteHP != 55 || s.PerishCount != 2 || s.LeechSeedTarget != 1 {
		t.Error("Substitute/perish/leech not preserved")
	}
	for _, v := range []Volatile{VolConfused, VolFocusEnergy, VolSubstitute,
		VolLeechSeed, VolCursed, VolTrapped, VolIngrained, VolPerishSong, VolLockOn} {
		if !s.HasVolatile(v) {
			t.Errorf("Baton-passed volatile %b lost", v)
		}
	}

	// Everything else resets.
	for _, v := range []Volatile{VolFlinched, VolTaunted, VolCharging} {
		if s.HasVolatile(v) {
			t.Errorf("Volatile %b should not survive baton pass", v)
		}
	}
	if s.ConfusionTurns != 0 || s.TauntTurns != 0 {
		t.Error("Counters should reset on baton pass")
	}
	if s.LastMoveUsed != data.MoveNone || s.ChargingMove != data.MoveNone {
		t.Error("Move trackers should reset on baton pass")
	}
	if !s.IsFirstTurn {
		t.Error("Incoming battler should be on its first turn")
	}
}

func TestClearForSwitch_DropsEverything(t *testing.T) {
	s := newSlotState(data.ItemQuickClaw)
	s.Stages[StageAtk] = 4
	s.SetVolatile(VolSubstitute | VolConfused)
	s.SubstituteHP = 40
	s.PerishCount = 1

	s.ClearForSwitch()

	if s.Stages[StageAtk] != 0 || s.Volatiles != 0 || s.SubstituteHP != 0 || s.PerishCount != 0 {
		t.Errorf("Switch-out left state behind: %+v", s)
	}
	if s.HeldItem != data.ItemQuickClaw {
		t.Error("Held item reference should stay with the slot")
	}
	if s.InfatuatedWith != NoSlot || s.TrappedBy != NoSlot || s.LeechSeedTarget != NoSlot {
		t.Error("Relationship slots should reset to none")
	}
}

func TestSubstituteInvariant(t *testing.T) {
	s := newSlotState(data.ItemNone)
	if s.HasVolatile(VolSubstitute) != (s.SubstituteHP > 0) {
		t.Error("Fresh slot violates the substitute invariant")
	}

	s.SetVolatile(VolSubstitute)
	s.SubstituteHP = 30
	if s.HasVolatile(VolSubstitute) != (s.SubstituteHP > 0) {
		t.Error("Armed substitute violates the invariant")
	}
}

func TestMonState_DamageAndHeal(t *testing.T) {
	m := MonState{CurrentHP: 50, MaxHP: 100}

	if dealt := m.ApplyDamage(80); dealt != 50 {
		t.Errorf("Overkill dealt: got %d, want 50", dealt)
	}
	if m.CurrentHP != 0 || !m.IsFainted() {
		t.Error("Mon should faint at zero HP")
	}

	m.CurrentHP = 90
	if healed := m.Heal(50); healed != 10 {
		t.Errorf("Overheal: got %d, want 10", healed)
	}
	if m.CurrentHP != m.MaxHP {
		t.Errorf("HP after heal: %d", m.CurrentHP)
	}
}

func TestFieldAndSideReset(t *testing.T) {
	var f FieldState
	f.Weather = WeatherHail
	f.WeatherTurns = 3
	f.Reset()
	if f.Weather != WeatherNone || f.WeatherTurns != 0 {
		t.Error("Field reset incomplete")
	}

	var s SideState
	s.SpikesLayers = 2
	s.ReflectTurns = 4
	s.Reset()
	if s.SpikesLayers != 0 || s.ReflectTurns != 0 || s.FollowMeTarget != NoSlot {
		t.Error("Side reset incomplete")
	}
}

func TestActiveMonHasType(t *testing.T) {
	a := ActiveMon{Type1: data.TypeWater, Type2: data.TypeNone}
	if !a.HasType(data.TypeWater) || a.HasType(data.TypeFire) {
		t.Error("HasType mismatch")
	}
	if a.HasType(data.TypeNone) {
		t.Error("TypeNone must never match")
	}
}
