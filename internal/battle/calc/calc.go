// Package calc holds the pure Generation-III battle arithmetic: stat
// derivation, stage multipliers, accuracy, type effectiveness, critical
// hits, and the damage formula. Functions take every input explicitly and
// draw randomness only through an injected rng.Source, so each kernel is
// reproducible under a fixed seed.
package calc

import (
	"github.com/moo-zh/battlemon/internal/data"
	"github.com/moo-zh/battlemon/internal/rng"
)

// DualNeutral is the pair-effectiveness value for a neutral hit against two
// types (10 * 10).
const DualNeutral = 100

// StatBlock is a full derived stat set at a given level.
type StatBlock struct {
	HP        uint16
	Attack    uint16
	Defense   uint16
	Speed     uint16
	SpAttack  uint16
	SpDefense uint16
}

// StatInputs carries everything the stat formula needs for one mon.
type StatInputs struct {
	Base    [data.BaseStatCount]uint8
	IVs     [data.BaseStatCount]uint8
	EVs     [data.BaseStatCount]uint8
	Level   uint8
	Nature  data.Nature
	ForceHP1 bool // Shedinja
}

// Stats derives the full stat block.
//
// HP   = floor((2*base + iv + ev/4) * level / 100) + level + 10
// Rest = floor((floor((2*base + iv + ev/4) * level / 100) + 5) * nature)
func Stats(in StatInputs) StatBlock {
	core := func(i int) uint32 {
		return (2*uint32(in.Base[i]) + uint32(in.IVs[i]) + uint32(in.EVs[i])/4) * uint32(in.Level) / 100
	}

	var out StatBlock
	if in.ForceHP1 {
		out.HP = 1
	} else {
		out.HP = uint16(core(data.BaseHP) + uint32(in.Level) + 10)
	}

	other := func(i, natureStat int) uint16 {
		v := core(i) + 5
		switch data.NatureModifier(in.Nature, natureStat) {
		case 1:
			v = v * 11 / 10
		case -1:
			v = v * 9 / 10
		}
		return uint16(v)
	}

	out.Attack = other(data.BaseAttack, 0)
	out.Defense = other(data.BaseDefense, 1)
	out.Speed = other(data.BaseSpeed, 2)
	out.SpAttack = other(data.BaseSpAttack, 3)
	out.SpDefense = other(data.BaseSpDefense, 4)
	return out
}

// ApplyStage runs a stat through the regular stage multiplier table.
func ApplyStage(stat uint16, stage int8) uint16 {
	r := data.StatStageRatios[data.ClampStage(stage)+6]
	return uint16(uint32(stat) * uint32(r.Num) / uint32(r.Den))
}

// EffectiveSpeed is the speed used for turn ordering: stage-adjusted, then
// quartered under paralysis. Quick Claw does not enter here; the
// orchestrator handles it as a separate tie-break signal.
func EffectiveSpeed(speed uint16, stage int8, paralyzed bool) uint16 {
	v := ApplyStage(speed, stage)
	if paralyzed {
		v /= 4
	}
	return v
}

// EffectiveAccuracy combines base accuracy with the attacker's accuracy
// stage and the defender's evasion stage, clamped to 100.
func EffectiveAccuracy(base uint8, accStage, evaStage int8) uint16 {
	acc := data.AccuracyStageRatios[data.ClampStage(accStage)+6]
	eva := data.AccuracyStageRatios[data.ClampStage(evaStage)+6]
	v := uint32(base) * uint32(acc.Num) / uint32(acc.Den)
	v = v * uint32(eva.Den) / uint32(eva.Num)
	if v > 100 {
		v = 100
	}
	return uint16(v)
}

// CheckAccuracy rolls the accuracy check. A base accuracy of 0 marks a
// never-miss move and consumes no draw.
func CheckAccuracy(base uint8, accStage, evaStage int8, r rng.Source) bool {
	if base == 0 {
		return true
	}
	return r.RandBelow(100) < EffectiveAccuracy(base, accStage, evaStage)
}

// PairEffectiveness multiplies the per-type chart values for the defender's
// two types. Mono-type defenders pass TypeNone as the second type, whose
// row is neutral, so the product lands in {0, 25, 50, 100, 200, 400}.
func PairEffectiveness(moveType, defType1, defType2 data.Type) uint16 {
	return uint16(data.TypeEffectiveness(moveType, defType1)) * uint16(data.TypeEffectiveness(moveType, defType2))
}

// RollCritical draws the critical-hit check for the given crit stage. The
// stage is clamped to the table before indexing.
func RollCritical(stage uint8, r rng.Source) bool {
	if stage > data.MaxCritStage {
		stage = data.MaxCritStage
	}
	return r.RandBelow(data.CritChanceDenominators[stage]) == 0
}

// DamageInputs is the parameter block for the damage kernel. Attack and
// Defense are the raw stats for the relevant pair (physical or special);
// the kernel applies the stages itself so it can honour crit stage rules.
type DamageInputs struct {
	Level        uint8
	Power        uint16
	Attack       uint16
	Defense      uint16
	AttackStage  int8
	DefenseStage int8
	MoveType     data.Type
	AttackerType1 data.Type
	AttackerType2 data.Type
	DefenderType1 data.Type
	DefenderType2 data.Type
	Critical     bool
	SkipRandom   bool
}

// DamageResult is what the kernel reports back.
type DamageResult struct {
	Damage        uint16
	Effectiveness uint16 // pair effectiveness; DualNeutral is 100
	Critical      bool
}

// Damage computes Generation-III damage. Criticals ignore the attacker's
// negative attack stages and the defender's positive defense stages; both
// apply otherwise. The random factor is a draw in [0,16) subtracted from
// 100, giving the 85-100% spread.
func Damage(in DamageInputs, r rng.Source) DamageResult {
	atkStage := in.AttackStage
	defStage := in.DefenseStage
	if in.Critical {
		if atkStage < 0 {
			atkStage = 0
		}
		if defStage > 0 {
			defStage = 0
		}
	}

	atk := uint32(ApplyStage(in.Attack, atkStage))
	def := uint32(ApplyStage(in.Defense, defStage))
	if def == 0 {
		def = 1
	}

	dmg := (2*uint32(in.Level)/5 + 2) * uint32(in.Power) * atk / def / 50
	dmg += 2

	if in.Critical {
		dmg *= 2
	}

	if in.MoveType != data.TypeNone && (in.MoveType == in.AttackerType1 || in.MoveType == in.AttackerType2) {
		dmg = dmg * 3 / 2
	}

	eff := PairEffectiveness(in.MoveType, in.DefenderType1, in.DefenderType2)
	dmg = dmg * uint32(eff) / DualNeutral

	if !in.SkipRandom {
		dmg = dmg * (100 - uint32(r.RandBelow(16))) / 100
	}

	if dmg == 0 && eff != 0 {
		dmg = 1
	}
	if dmg > 0xFFFF {
		dmg = 0xFFFF
	}

	return DamageResult{Damage: uint16(dmg), Effectiveness: eff, Critical: in.Critical}
}
