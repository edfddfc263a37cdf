package battle

import (
	"github.com/moo-zh/battlemon/internal/data"
	"github.com/moo-zh/battlemon/internal/rng"
)

// rngScripted is shorthand for a scripted draw sequence.
func rngScripted(draws ...uint16) rng.Source {
	return rng.NewScripted(draws...)
}

// testFixture wires a minimal two-slot battlefield for op and item tests
// that drive the pipeline without a full engine.
type testFixture struct {
	field   FieldState
	sides   [2]SideState
	slots   [2]SlotState
	mons    [2]MonState
	actives [2]ActiveMon
	ctx     Context
}

// newFixture builds two level-50 normal-type battlers with flat 100 stats
// and 150 HP.
func newFixture(source rng.Source) *testFixture {
	f := &testFixture{}
	f.field.Reset()
	for s := 0; s < 2; s++ {
		f.sides[s].Reset()
		f.slots[s] = newSlotState(data.ItemNone)
		f.mons[s] = MonState{CurrentHP: 150, MaxHP: 150}
		f.actives[s] = ActiveMon{
			Level:     50,
			Attack:    100,
			Defense:   100,
			Speed:     100,
			SpAttack:  100,
			SpDefense: 100,
			Type1:     data.TypeNormal,
			Type2:     data.TypeNone,
		}
	}

	f.ctx = Context{
		Field: &f.field,
		RNG:   source,
		Items: NewItemHooks(),
	}
	f.aim(0)
	return f
}

// aim points the context's attacker at the given slot.
func (f *testFixture) aim(attacker int) {
	defender := 1 - attacker
	f.ctx.AttackerSide = &f.sides[attacker]
	f.ctx.DefenderSide = &f.sides[defender]
	f.ctx.Attacker = &f.slots[attacker]
	f.ctx.Defender = &f.slots[defender]
	f.ctx.AttackerMon = &f.mons[attacker]
	f.ctx.DefenderMon = &f.mons[defender]
	f.ctx.AttackerActive = &f.actives[attacker]
	f.ctx.DefenderActive = &f.actives[defender]
	f.ctx.AttackerSlot = uint8(attacker)
	f.ctx.DefenderSlot = uint8(defender)
	for s := 0; s < 2; s++ {
		f.ctx.AllSlots[s] = SlotRef{Slot: &f.slots[s], Mon: &f.mons[s], ID: uint8(s)}
	}
	f.ctx.SlotCount = 2
}

// dispatch resets the scratch and runs an action with the given move.
func (f *testFixture) dispatch(move data.MoveID, action Action) EffectResult {
	mv, ok := data.LookupMove(move)
	if !ok {
		mv = data.Move{ID: move, Type: data.TypeNormal, Power: 40, Accuracy: 100}
	}
	f.ctx.Move = &mv
	f.ctx.SkipRandom = true
	f.ctx.ResetScratch()
	action.Run(&f.ctx)
	return f.ctx.Result
}
