// Package data holds the read-only tables the battle engine consults: species
// base stats, move data, the type chart, nature modifiers, stat-stage ratios,
// and held-item identifiers. Everything here is immutable after init.
package data

import "fmt"

// Type is an elemental type. TypeNone marks the absent second type of a
// mono-type species; its chart row and column are neutral.
type Type uint8

const (
	TypeNone Type = iota
	TypeNormal
	TypeFighting
	TypeFlying
	TypePoison
	TypeGround
	TypeRock
	TypeBug
	TypeGhost
	TypeSteel
	TypeFire
	TypeWater
	TypeGrass
	TypeElectric
	TypePsychic
	TypeIce
	TypeDragon
	TypeDark

	typeCount = 18
)

var typeNames = map[Type]string{
	TypeNone:     "NONE",
	TypeNormal:   "NORMAL",
	TypeFighting: "FIGHTING",
	TypeFlying:   "FLYING",
	TypePoison:   "POISON",
	TypeGround:   "GROUND",
	TypeRock:     "ROCK",
	TypeBug:      "BUG",
	TypeGhost:    "GHOST",
	TypeSteel:    "STEEL",
	TypeFire:     "FIRE",
	TypeWater:    "WATER",
	TypeGrass:    "GRASS",
	TypeElectric: "ELECTRIC",
	TypePsychic:  "PSYCHIC",
	TypeIce:      "ICE",
	TypeDragon:   "DRAGON",
	TypeDark:     "DARK",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TYPE_%d", uint8(t))
}

// IsPhysical reports whether moves of this type read the physical stat pair.
// Generation III splits physical/special by type, not per move.
func (t Type) IsPhysical() bool {
	switch t {
	case TypeNormal, TypeFighting, TypeFlying, TypePoison, TypeGround,
		TypeRock, TypeBug, TypeGhost, TypeSteel:
		return true
	}
	return false
}

// Effectiveness multipliers, scaled by 10 so the chart stays integral.
const (
	EffectNone    uint8 = 0
	EffectHalf    uint8 = 5
	EffectNeutral uint8 = 10
	EffectDouble  uint8 = 20
)

// typeChart[attacking][defending], values scaled by 10. Cells default to
// neutral; init fills in the non-neutral matchups.
var typeChart [typeCount][typeCount]uint8

func init() {
	for a := 0; a < typeCount; a++ {
		for d := 0; d < typeCount; d++ {
			typeChart[a][d] = EffectNeutral
		}
	}

	set := func(atk, def Type, v uint8) {
		typeChart[atk][def] = v
	}

	set(TypeNormal, TypeRock, EffectHalf)
	set(TypeNormal, TypeGhost, EffectNone)
	set(TypeNormal, TypeSteel, EffectHalf)

	set(TypeFighting, TypeNormal, EffectDouble)
	set(TypeFighting, TypeFlying, EffectHalf)
	set(TypeFighting, TypePoison, EffectHalf)
	set(TypeFighting, TypeRock, EffectDouble)
	set(TypeFighting, TypeBug, EffectHalf)
	set(TypeFighting, TypeGhost, EffectNone)
	set(TypeFighting, TypeSteel, EffectDouble)
	set(TypeFighting, TypePsychic, EffectHalf)
	set(TypeFighting, TypeIce, EffectDouble)
	set(TypeFighting, TypeDark, EffectDouble)

	set(TypeFlying, TypeFighting, EffectDouble)
	set(TypeFlying, TypeRock, EffectHalf)
	set(TypeFlying, TypeBug, EffectDouble)
	set(TypeFlying, TypeSteel, EffectHalf)
	set(TypeFlying, TypeGrass, EffectDouble)
	set(TypeFlying, TypeElectric, EffectHalf)

	set(TypePoison, TypePoison, EffectHalf)
	set(TypePoison, TypeGround, EffectHalf)
	set(TypePoison, TypeRock, EffectHalf)
	set(TypePoison, TypeGhost, EffectHalf)
	set(TypePoison, TypeSteel, EffectNone)
	set(TypePoison, TypeGrass, EffectDouble)

	set(TypeGround, TypeFlying, EffectNone)
	set(TypeGround, TypePoison, EffectDouble)
	set(TypeGround, TypeRock, EffectDouble)
	set(TypeGround, TypeBug, EffectHalf)
	set(TypeGround, TypeSteel, EffectDouble)
	set(TypeGround, TypeFire, EffectDouble)
	set(TypeGround, TypeGrass, EffectHalf)
	set(TypeGround, TypeElectric, EffectDouble)

	set(TypeRock, TypeFighting, EffectHalf)
	set(TypeRock, TypeFlying, EffectDouble)
	set(TypeRock, TypeGround, EffectHalf)
	set(TypeRock, TypeBug, EffectDouble)
	set(TypeRock, TypeSteel, EffectHalf)
	set(TypeRock, TypeFire, EffectDouble)
	set(TypeRock, TypeIce, EffectDouble)

	set(TypeBug, TypeFighting, EffectHalf)
	set(TypeBug, TypeFlying, EffectHalf)
	set(TypeBug, TypePoison, EffectHalf)
	set(TypeBug, TypeGhost, EffectHalf)
	set(TypeBug, TypeSteel, EffectHalf)
	set(TypeBug, TypeFire, EffectHalf)
	set(TypeBug, TypeGrass, EffectDouble)
	set(TypeBug, TypePsychic, EffectDouble)
	set(TypeBug, TypeDark, EffectDouble)

	set(TypeGhost, TypeNormal, EffectNone)
	set(TypeGhost, TypeGhost, EffectDouble)
	set(TypeGhost, TypeSteel, EffectHalf)
	set(TypeGhost, TypePsychic, EffectDouble)
	set(TypeGhost, TypeDark, EffectHalf)

	set(TypeSteel, TypeRock, EffectDouble)
	set(TypeSteel, TypeSteel, EffectHalf)
	set(TypeSteel, TypeFire, EffectHalf)
	set(TypeSteel, TypeWater, EffectHalf)
	set(TypeSteel, TypeElectric, EffectHalf)
	set(TypeSteel, TypeIce, EffectDouble)

	set(TypeFire, TypeRock, EffectHalf)
	set(TypeFire, TypeBug, EffectDouble)
	set(TypeFire, TypeSteel, EffectDouble)
	set(TypeFire, TypeFire, EffectHalf)
	set(TypeFire, TypeWater, EffectHalf)
	set(TypeFire, TypeGrass, EffectDouble)
	set(TypeFire, TypeIce, EffectDouble)
	set(TypeFire, TypeDragon, EffectHalf)

	set(TypeWater, TypeGround, EffectDouble)
	set(TypeWater, TypeRock, EffectDouble)
	set(TypeWater, TypeFire, EffectDouble)
	set(TypeWater, TypeWater, EffectHalf)
	set(TypeWater, TypeGrass, EffectHalf)
	set(TypeWater, TypeDragon, EffectHalf)

	set(TypeGrass, TypeFlying, EffectHalf)
	set(TypeGrass, TypePoison, EffectHalf)
	set(TypeGrass, TypeGround, EffectDouble)
	set(TypeGrass, TypeRock, EffectDouble)
	set(TypeGrass, TypeBug, EffectHalf)
	set(TypeGrass, TypeSteel, EffectHalf)
	set(TypeGrass, TypeFire, EffectHalf)
	set(TypeGrass, TypeWater, EffectDouble)
	set(TypeGrass, TypeGrass, EffectHalf)
	set(TypeGrass, TypeDragon, EffectHalf)

	set(TypeElectric, TypeFlying, EffectDouble)
	set(TypeElectric, TypeGround, EffectNone)
	set(TypeElectric, TypeWater, EffectDouble)
	set(TypeElectric, TypeGrass, EffectHalf)
	set(TypeElectric, TypeElectric, EffectHalf)
	set(TypeElectric, TypeDragon, EffectHalf)

	set(TypePsychic, TypeFighting, EffectDouble)
	set(TypePsychic, TypePoison, EffectDouble)
	set(TypePsychic, TypeSteel, EffectHalf)
	set(TypePsychic, TypePsychic, EffectHalf)
	set(TypePsychic, TypeDark, EffectNone)

	set(TypeIce, TypeFlying, EffectDouble)
	set(TypeIce, TypeGround, EffectDouble)
	set(TypeIce, TypeSteel, EffectHalf)
	set(TypeIce, TypeFire, EffectHalf)
	set(TypeIce, TypeWater, EffectHalf)
	set(TypeIce, TypeGrass, EffectDouble)
	set(TypeIce, TypeIce, EffectHalf)
	set(TypeIce, TypeDragon, EffectDouble)

	set(TypeDragon, TypeSteel, EffectHalf)
	set(TypeDragon, TypeDragon, EffectDouble)

	set(TypeDark, TypeFighting, EffectHalf)
	set(TypeDark, TypeGhost, EffectDouble)
	set(TypeDark, TypePsychic, EffectDouble)
	set(TypeDark, TypeDark, EffectHalf)
	set(TypeDark, TypeSteel, EffectHalf)
}

// TypeEffectiveness returns the single-type multiplier scaled by 10.
func TypeEffectiveness(attacking, defending Type) uint8 {
	if attacking >= typeCount || defending >= typeCount {
		return EffectNeutral
	}
	return typeChart[attacking][defending]
}
