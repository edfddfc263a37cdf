package battle

import (
	"testing"

	"github.com/moo-zh/battlemon/internal/data"
)

func TestDecodeEVSpread(t *testing.T) {
	// No bits: no EVs.
	if evs := decodeEVSpread(0); evs != [6]uint8{} {
		t.Errorf("Empty spread: %v", evs)
	}

	// Two stats: 255 each (510/2).
	evs := decodeEVSpread(1<<data.BaseAttack | 1<<data.BaseSpeed)
	if evs[data.BaseAttack] != 255 || evs[data.BaseSpeed] != 255 {
		t.Errorf("Two-way spread: %v", evs)
	}
	if evs[data.BaseHP] != 0 {
		t.Error("Unflagged stat received EVs")
	}

	// Three stats: 170 each.
	evs = decodeEVSpread(1<<data.BaseHP | 1<<data.BaseDefense | 1<<data.BaseSpDefense)
	for _, i := range []int{data.BaseHP, data.BaseDefense, data.BaseSpDefense} {
		if evs[i] != 170 {
			t.Errorf("Three-way spread stat %d: got %d, want 170", i, evs[i])
		}
	}

	// One stat: capped at 255, not 510.
	evs = decodeEVSpread(1 << data.BaseHP)
	if evs[data.BaseHP] != 255 {
		t.Errorf("Single-stat spread: got %d, want 255", evs[data.BaseHP])
	}
}

func TestSetupRental(t *testing.T) {
	r := data.Rental{
		Species:  data.SpeciesKangaskhan,
		Moves:    [4]data.MoveID{data.MovePound, data.MoveBite, data.MoveNone, data.MoveNone},
		HeldItem: data.ItemLeftovers,
		Nature:   data.NatureHardy,
	}

	mon, slot, active, err := SetupRental(r, 50)
	if err != nil {
		t.Fatal(err)
	}

	// Kangaskhan at 50, 31 IVs, no EVs: HP (210+31)*50/100 + 60 = 180.
	if mon.MaxHP != 180 || mon.CurrentHP != 180 {
		t.Errorf("HP: %d/%d, want 180/180", mon.CurrentHP, mon.MaxHP)
	}
	if mon.Status != StatusNone {
		t.Errorf("Fresh mon status: %s", mon.Status)
	}
	if mon.PP[0] != 35 || mon.PP[1] != 25 {
		t.Errorf("PP: %v", mon.PP)
	}
	if mon.PP[2] != 0 {
		t.Error("Empty move slot should carry no PP")
	}

	if slot.HeldItem != data.ItemLeftovers || !slot.IsFirstTurn {
		t.Errorf("Slot defaults: %+v", slot)
	}
	for _, st := range slot.Stages {
		if st != 0 {
			t.Error("Fresh slot should have neutral stages")
		}
	}

	if active.Level != 50 || active.Type1 != data.TypeNormal || active.Type2 != data.TypeNone {
		t.Errorf("Active view: %+v", active)
	}
	// Attack base 95: (190+31)*50/100 + 5 = 115.
	if active.Attack != 115 {
		t.Errorf("Attack: got %d, want 115", active.Attack)
	}
}

func TestSetupRental_Shedinja(t *testing.T) {
	r := data.Rental{Species: data.SpeciesShedinja, Nature: data.NatureHardy}
	mon, _, _, err := SetupRental(r, 50)
	if err != nil {
		t.Fatal(err)
	}
	if mon.MaxHP != 1 || mon.CurrentHP != 1 {
		t.Errorf("Shedinja HP: %d/%d, want 1/1", mon.CurrentHP, mon.MaxHP)
	}
}

func TestSetupRental_AbilitySelection(t *testing.T) {
	// Snorlax has a single ability; slot 1 falls back to it.
	r := data.Rental{Species: data.SpeciesSnorlax, Nature: data.NatureHardy, AbilitySlot: 1}
	_, _, active, err := SetupRental(r, 50)
	if err != nil {
		t.Fatal(err)
	}
	if active.Ability != data.AbilityImmunity {
		t.Errorf("Ability fallback: got %s, want IMMUNITY", active.Ability)
	}

	r.AbilitySlot = 0
	_, _, active, _ = SetupRental(r, 50)
	if active.Ability != data.AbilityImmunity {
		t.Errorf("Primary ability: got %s", active.Ability)
	}
}

func TestSetupRental_UnknownSpecies(t *testing.T) {
	if _, _, _, err := SetupRental(data.Rental{Species: data.Species(4242)}, 50); err == nil {
		t.Error("Expected an error for an unknown species")
	}
}
