package data

import "fmt"

// Ability identifies a species ability. Only abilities the engine consults
// are enumerated; everything else maps to AbilityNone behaviour.
type Ability uint8

const (
	AbilityNone Ability = iota
	AbilityClearBody
	AbilityWhiteSmoke
	AbilityImmunity
	AbilityLimber
	AbilityVitalSpirit
	AbilityInsomnia
	AbilityWaterVeil
	AbilityMagmaArmor
	AbilityWonderGuard
	AbilityNaturalCure
	AbilitySwiftSwim
	AbilityChlorophyll
	AbilityIntimidate
	AbilityLevitate
	AbilityStatic
	AbilitySturdy
	AbilityGuts
	AbilitySandVeil
)

var abilityNames = map[Ability]string{
	AbilityNone:        "NONE",
	AbilityClearBody:   "CLEAR_BODY",
	AbilityWhiteSmoke:  "WHITE_SMOKE",
	AbilityImmunity:    "IMMUNITY",
	AbilityLimber:      "LIMBER",
	AbilityVitalSpirit: "VITAL_SPIRIT",
	AbilityInsomnia:    "INSOMNIA",
	AbilityWaterVeil:   "WATER_VEIL",
	AbilityMagmaArmor:  "MAGMA_ARMOR",
	AbilityWonderGuard: "WONDER_GUARD",
	AbilityNaturalCure: "NATURAL_CURE",
	AbilitySwiftSwim:   "SWIFT_SWIM",
	AbilityChlorophyll: "CHLOROPHYLL",
	AbilityIntimidate:  "INTIMIDATE",
	AbilityLevitate:    "LEVITATE",
	AbilityStatic:      "STATIC",
	AbilitySturdy:      "STURDY",
	AbilityGuts:        "GUTS",
	AbilitySandVeil:    "SAND_VEIL",
}

func (a Ability) String() string {
	if name, ok := abilityNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ABILITY_%d", uint8(a))
}

// Species identifies a species row in the species table.
type Species uint16

const (
	SpeciesNone Species = iota
	SpeciesPikachu
	SpeciesRaichu
	SpeciesDugtrio
	SpeciesMachamp
	SpeciesGengar
	SpeciesFarfetchd
	SpeciesChansey
	SpeciesKangaskhan
	SpeciesStarmie
	SpeciesTauros
	SpeciesGyarados
	SpeciesLapras
	SpeciesDitto
	SpeciesSnorlax
	SpeciesDragonite
	SpeciesMeganium
	SpeciesTyphlosion
	SpeciesFeraligatr
	SpeciesSkarmory
	SpeciesHoundoom
	SpeciesBlaziken
	SpeciesGardevoir
	SpeciesAggron
	SpeciesFlygon
	SpeciesWalrein
	SpeciesSalamence
	SpeciesMetagross
	SpeciesRegice
	SpeciesShedinja
)

// BaseStatCount is the length of a base-stat row:
// HP, attack, defense, speed, sp.atk, sp.def.
const BaseStatCount = 6

// Base-stat row indexes.
const (
	BaseHP = iota
	BaseAttack
	BaseDefense
	BaseSpeed
	BaseSpAttack
	BaseSpDefense
)

// SpeciesRow is one entry of the species table.
type SpeciesRow struct {
	ID        Species
	Name      string
	BaseStats [BaseStatCount]uint8
	Type1     Type
	Type2     Type // TypeNone for mono-type species
	Ability1  Ability
	Ability2  Ability
}

var speciesTable = map[Species]SpeciesRow{
	SpeciesPikachu:    {SpeciesPikachu, "Pikachu", [6]uint8{35, 55, 30, 90, 50, 40}, TypeElectric, TypeNone, AbilityStatic, AbilityNone},
	SpeciesRaichu:     {SpeciesRaichu, "Raichu", [6]uint8{60, 90, 55, 100, 90, 80}, TypeElectric, TypeNone, AbilityStatic, AbilityNone},
	SpeciesDugtrio:    {SpeciesDugtrio, "Dugtrio", [6]uint8{35, 80, 50, 120, 50, 70}, TypeGround, TypeNone, AbilitySandVeil, AbilityNone},
	SpeciesMachamp:    {SpeciesMachamp, "Machamp", [6]uint8{90, 130, 80, 55, 65, 85}, TypeFighting, TypeNone, AbilityGuts, AbilityNone},
	SpeciesGengar:     {SpeciesGengar, "Gengar", [6]uint8{60, 65, 60, 110, 130, 75}, TypeGhost, TypePoison, AbilityLevitate, AbilityNone},
	SpeciesFarfetchd:  {SpeciesFarfetchd, "Farfetch'd", [6]uint8{52, 65, 55, 60, 58, 62}, TypeNormal, TypeFlying, AbilityNone, AbilityNone},
	SpeciesChansey:    {SpeciesChansey, "Chansey", [6]uint8{250, 5, 5, 50, 35, 105}, TypeNormal, TypeNone, AbilityNaturalCure, AbilityNone},
	SpeciesKangaskhan: {SpeciesKangaskhan, "Kangaskhan", [6]uint8{105, 95, 80, 90, 40, 80}, TypeNormal, TypeNone, AbilityNone, AbilityNone},
	SpeciesStarmie:    {SpeciesStarmie, "Starmie", [6]uint8{60, 75, 85, 115, 100, 85}, TypeWater, TypePsychic, AbilityNaturalCure, AbilityNone},
	SpeciesTauros:     {SpeciesTauros, "Tauros", [6]uint8{75, 100, 95, 110, 40, 70}, TypeNormal, TypeNone, AbilityIntimidate, AbilityNone},
	SpeciesGyarados:   {SpeciesGyarados, "Gyarados", [6]uint8{95, 125, 79, 81, 60, 100}, TypeWater, TypeFlying, AbilityIntimidate, AbilityNone},
	SpeciesLapras:     {SpeciesLapras, "Lapras", [6]uint8{130, 85, 80, 60, 85, 95}, TypeWater, TypeIce, AbilityWaterVeil, AbilityNone},
	SpeciesDitto:      {SpeciesDitto, "Ditto", [6]uint8{48, 48, 48, 48, 48, 48}, TypeNormal, TypeNone, AbilityLimber, AbilityNone},
	SpeciesSnorlax:    {SpeciesSnorlax, "Snorlax", [6]uint8{160, 110, 65, 30, 65, 110}, TypeNormal, TypeNone, AbilityImmunity, AbilityNone},
	SpeciesDragonite:  {SpeciesDragonite, "Dragonite", [6]uint8{91, 134, 95, 80, 100, 100}, TypeDragon, TypeFlying, AbilityNone, AbilityNone},
	SpeciesMeganium:   {SpeciesMeganium, "Meganium", [6]uint8{80, 82, 100, 80, 83, 100}, TypeGrass, TypeNone, AbilityChlorophyll, AbilityNone},
	SpeciesTyphlosion: {SpeciesTyphlosion, "Typhlosion", [6]uint8{78, 84, 78, 100, 109, 85}, TypeFire, TypeNone, AbilityNone, AbilityNone},
	SpeciesFeraligatr: {SpeciesFeraligatr, "Feraligatr", [6]uint8{85, 105, 100, 78, 79, 83}, TypeWater, TypeNone, AbilityNone, AbilityNone},
	SpeciesSkarmory:   {SpeciesSkarmory, "Skarmory", [6]uint8{65, 80, 140, 70, 40, 70}, TypeSteel, TypeFlying, AbilitySturdy, AbilityNone},
	SpeciesHoundoom:   {SpeciesHoundoom, "Houndoom", [6]uint8{75, 90, 50, 95, 110, 80}, TypeDark, TypeFire, AbilityNone, AbilityNone},
	SpeciesBlaziken:   {SpeciesBlaziken, "Blaziken", [6]uint8{80, 120, 70, 80, 110, 70}, TypeFire, TypeFighting, AbilityNone, AbilityNone},
	SpeciesGardevoir:  {SpeciesGardevoir, "Gardevoir", [6]uint8{68, 65, 65, 80, 125, 115}, TypePsychic, TypeNone, AbilityNone, AbilityNone},
	SpeciesAggron:     {SpeciesAggron, "Aggron", [6]uint8{70, 110, 180, 50, 60, 60}, TypeSteel, TypeRock, AbilitySturdy, AbilityNone},
	SpeciesFlygon:     {SpeciesFlygon, "Flygon", [6]uint8{80, 100, 80, 100, 80, 80}, TypeGround, TypeDragon, AbilityLevitate, AbilityNone},
	SpeciesWalrein:    {SpeciesWalrein, "Walrein", [6]uint8{110, 80, 90, 65, 95, 90}, TypeIce, TypeWater, AbilityNone, AbilityNone},
	SpeciesSalamence:  {SpeciesSalamence, "Salamence", [6]uint8{95, 135, 80, 100, 110, 80}, TypeDragon, TypeFlying, AbilityIntimidate, AbilityNone},
	SpeciesMetagross:  {SpeciesMetagross, "Metagross", [6]uint8{80, 135, 130, 70, 95, 90}, TypeSteel, TypePsychic, AbilityClearBody, AbilityNone},
	SpeciesRegice:     {SpeciesRegice, "Regice", [6]uint8{80, 50, 100, 50, 100, 200}, TypeIce, TypeNone, AbilityClearBody, AbilityNone},
	SpeciesShedinja:   {SpeciesShedinja, "Shedinja", [6]uint8{1, 90, 45, 40, 30, 30}, TypeBug, TypeGhost, AbilityWonderGuard, AbilityNone},
}

// LookupSpecies returns the species row and whether it exists.
func LookupSpecies(id Species) (SpeciesRow, bool) {
	row, ok := speciesTable[id]
	return row, ok
}
