package battle

import (
	"fmt"
	"math/bits"

	"github.com/moo-zh/battlemon/internal/battle/calc"
	"github.com/moo-zh/battlemon/internal/data"
)

// Rental setup: deriving a battle-ready mon, slot, and active view from a
// Battle Factory rental descriptor.

// factoryIV is the flat IV every factory rental carries.
const factoryIV = 31

// totalEVs is the EV budget split across the flagged stats.
const totalEVs = 510

// maxEVPerStat caps a single stat's share of the budget.
const maxEVPerStat = 255

// decodeEVSpread expands the EV spread bits (bit 0 = HP through bit 5 =
// sp.def) into a per-stat EV array: each flagged stat receives an equal
// share of the budget, capped at 255.
func decodeEVSpread(spread uint8) [data.BaseStatCount]uint8 {
	var evs [data.BaseStatCount]uint8
	k := bits.OnesCount8(spread & 0x3F)
	if k == 0 {
		return evs
	}
	share := totalEVs / k
	if share > maxEVPerStat {
		share = maxEVPerStat
	}
	for i := 0; i < data.BaseStatCount; i++ {
		if spread&(1<<i) != 0 {
			evs[i] = uint8(share)
		}
	}
	return evs
}

// SetupRental derives the three battle-state pieces for one rental at the
// given level.
func SetupRental(r data.Rental, level uint8) (MonState, SlotState, ActiveMon, error) {
	row, ok := data.LookupSpecies(r.Species)
	if !ok {
		return MonState{}, SlotState{}, ActiveMon{}, fmt.Errorf("rental: unknown species %d", r.Species)
	}

	var ivs [data.BaseStatCount]uint8
	for i := range ivs {
		ivs[i] = factoryIV
	}

	stats := calc.Stats(calc.StatInputs{
		Base:     row.BaseStats,
		IVs:      ivs,
		EVs:      decodeEVSpread(r.EVSpreadBits),
		Level:    level,
		Nature:   r.Nature,
		ForceHP1: r.Species == data.SpeciesShedinja,
	})

	mon := MonState{
		CurrentHP: stats.HP,
		MaxHP:     stats.HP,
		Status:    StatusNone,
	}
	for i, mv := range r.Moves {
		if row, ok := data.LookupMove(mv); ok {
			mon.PP[i] = row.PP
		}
	}

	slot := newSlotState(r.HeldItem)

	ability := row.Ability1
	if r.AbilitySlot != 0 && row.Ability2 != data.AbilityNone {
		ability = row.Ability2
	}

	active := ActiveMon{
		Level:     level,
		Attack:    stats.Attack,
		Defense:   stats.Defense,
		Speed:     stats.Speed,
		SpAttack:  stats.SpAttack,
		SpDefense: stats.SpDefense,
		Type1:     row.Type1,
		Type2:     row.Type2,
		Species:   row.ID,
		Ability:   ability,
	}

	return mon, slot, active, nil
}
