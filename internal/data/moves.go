package data

import "fmt"

// MoveID identifies a move row. MoveNone marks an empty move slot.
type MoveID uint16

const (
	MoveNone MoveID = iota
	MoveTackle
	MovePound
	MoveQuickAttack
	MoveTakeDown
	MoveDoubleEdge
	MoveAbsorb
	MoveMegaDrain
	MoveGigaDrain
	MoveDragonRage
	MovePoisonSting
	MoveSludgeBomb
	MoveRecover
	MoveSoftBoiled
	MoveHaze
	MoveSwordsDance
	MoveGrowl
	MoveTailWhip
	MoveStringShot
	MoveSmokescreen
	MovePoisonPowder
	MoveThunderWave
	MoveWillOWisp
	MoveLightScreen
	MoveReflect
	MoveSafeguard
	MoveMist
	MoveSpikes
	MoveSandstorm
	MoveSunnyDay
	MoveRainDance
	MoveHail
	MoveSkyAttack
	MoveBatonPass
	MovePursuit
	MovePerishSong
	MoveMagicCoat
	MoveSlash
	MoveCrabhammer
	MoveTripleKick
	MoveThunderbolt
	MoveIceBeam
	MoveFlamethrower
	MoveSurf
	MoveEarthquake
	MoveShadowBall
	MoveCrunch
	MoveDragonClaw
	MovePsychic
	MoveIronTail
	MoveHeadbutt
	MoveBodySlam
	MoveFlareBlitz
	MoveAcidArmor
	MoveAgility
	MoveBite
)

// EffectTag selects the effect composition a move resolves through. Tags
// without a registered composition fall back to the plain damaging hit.
type EffectTag uint8

const (
	EffectHit EffectTag = iota
	EffectAbsorbHit
	EffectRecoilQuarter
	EffectDragonRage
	EffectPoisonHit
	EffectRestoreHP
	EffectHaze
	EffectAtkUp2
	EffectAtkDown
	EffectDefDown
	EffectSpeedDown
	EffectAccDown
	EffectDefUp2
	EffectSpeedUp2
	EffectPoisonStatus
	EffectParalyzeStatus
	EffectBurnStatus
	EffectLightScreen
	EffectReflect
	EffectSafeguard
	EffectMist
	EffectSpikes
	EffectSandstorm
	EffectSunnyDay
	EffectRainDance
	EffectHail
	EffectSkyAttack
	EffectBatonPass
	EffectPursuit
	EffectPerishSong
	EffectMagicCoat
	EffectHighCrit
	EffectTripleKick
	EffectParalyzeHit
	EffectBurnHit
	EffectFreezeHit
	EffectFlinchHit
	EffectDefDownHit

	// Tags below are defined in move data but intentionally unregistered;
	// they resolve through the fallback hit so battles stay playable.
	EffectStubRampage
	EffectStubMultiHit
	EffectStubTrap
)

// MoveFlag is a bitfield of move properties consulted by the orchestrator
// and the item hooks.
type MoveFlag uint8

const (
	FlagMakesContact MoveFlag = 1 << iota
	FlagProtectAffected
	FlagMagicCoatAffected
	FlagSnatchAffected
	FlagMirrorMoveAffected
	FlagKingsRockAffected
)

// Target describes who a move is aimed at.
type Target uint8

const (
	TargetFoe Target = iota
	TargetSelf
	TargetOwnSide
	TargetFoeSide
	TargetField
	TargetAll
)

// Move is one row of the move table. Accuracy 0 means the move never misses
// and consumes no accuracy roll. Priority is in -7..+5.
type Move struct {
	ID           MoveID
	Name         string
	Type         Type
	Power        uint8
	Accuracy     uint8
	PP           uint8
	Priority     int8
	Effect       EffectTag
	EffectChance uint8 // percentage for secondary effects; 0 = not chance-gated
	Target       Target
	Flags        MoveFlag
}

const contactKR = FlagMakesContact | FlagProtectAffected | FlagMirrorMoveAffected | FlagKingsRockAffected

var moveTable = map[MoveID]Move{
	MoveTackle:       {MoveTackle, "Tackle", TypeNormal, 35, 95, 35, 0, EffectHit, 0, TargetFoe, contactKR},
	MovePound:        {MovePound, "Pound", TypeNormal, 40, 100, 35, 0, EffectHit, 0, TargetFoe, contactKR},
	MoveQuickAttack:  {MoveQuickAttack, "Quick Attack", TypeNormal, 40, 100, 30, 1, EffectHit, 0, TargetFoe, contactKR},
	MoveTakeDown:     {MoveTakeDown, "Take Down", TypeNormal, 90, 85, 20, 0, EffectRecoilQuarter, 0, TargetFoe, contactKR},
	MoveDoubleEdge:   {MoveDoubleEdge, "Double-Edge", TypeNormal, 120, 100, 15, 0, EffectRecoilQuarter, 0, TargetFoe, contactKR},
	MoveAbsorb:       {MoveAbsorb, "Absorb", TypeGrass, 20, 100, 25, 0, EffectAbsorbHit, 0, TargetFoe, FlagProtectAffected | FlagMirrorMoveAffected},
	MoveMegaDrain:    {MoveMegaDrain, "Mega Drain", TypeGrass, 40, 100, 15, 0, EffectAbsorbHit, 0, TargetFoe, FlagProtectAffected | FlagMirrorMoveAffected},
	MoveGigaDrain:    {MoveGigaDrain, "Giga Drain", TypeGrass, 60, 100, 5, 0, EffectAbsorbHit, 0, TargetFoe, FlagProtectAffected | FlagMirrorMoveAffected},
	MoveDragonRage:   {MoveDragonRage, "Dragon Rage", TypeDragon, 0, 100, 10, 0, EffectDragonRage, 0, TargetFoe, FlagProtectAffected | FlagMirrorMoveAffected},
	MovePoisonSting:  {MovePoisonSting, "Poison Sting", TypePoison, 15, 100, 35, 0, EffectPoisonHit, 30, TargetFoe, FlagProtectAffected | FlagMirrorMoveAffected},
	MoveSludgeBomb:   {MoveSludgeBomb, "Sludge Bomb", TypePoison, 90, 100, 10, 0, EffectPoisonHit, 30, TargetFoe, FlagProtectAffected | FlagMirrorMoveAffected | FlagKingsRockAffected},
	MoveRecover:      {MoveRecover, "Recover", TypeNormal, 0, 0, 20, 0, EffectRestoreHP, 0, TargetSelf, FlagSnatchAffected},
	MoveSoftBoiled:   {MoveSoftBoiled, "Soft-Boiled", TypeNormal, 0, 0, 10, 0, EffectRestoreHP, 0, TargetSelf, FlagSnatchAffected},
	MoveHaze:         {MoveHaze, "Haze", TypeIce, 0, 0, 30, 0, EffectHaze, 0, TargetAll, 0},
	MoveSwordsDance:  {MoveSwordsDance, "Swords Dance", TypeNormal, 0, 0, 30, 0, EffectAtkUp2, 0, TargetSelf, FlagSnatchAffected},
	MoveGrowl:        {MoveGrowl, "Growl", TypeNormal, 0, 100, 40, 0, EffectAtkDown, 0, TargetFoe, FlagProtectAffected | FlagMagicCoatAffected | FlagMirrorMoveAffected},
	MoveTailWhip:     {MoveTailWhip, "Tail Whip", TypeNormal, 0, 100, 30, 0, EffectDefDown, 0, TargetFoe, FlagProtectAffected | FlagMagicCoatAffected | FlagMirrorMoveAffected},
	MoveStringShot:   {MoveStringShot, "String Shot", TypeBug, 0, 95, 40, 0, EffectSpeedDown, 0, TargetFoe, FlagProtectAffected | FlagMagicCoatAffected | FlagMirrorMoveAffected},
	MoveSmokescreen:  {MoveSmokescreen, "Smokescreen", TypeNormal, 0, 100, 20, 0, EffectAccDown, 0, TargetFoe, FlagProtectAffected | FlagMagicCoatAffected | FlagMirrorMoveAffected},
	MovePoisonPowder: {MovePoisonPowder, "Poison Powder", TypeGrass, 0, 75, 35, 0, EffectPoisonStatus, 0, TargetFoe, FlagProtectAffected | FlagMagicCoatAffected | FlagMirrorMoveAffected},
	MoveThunderWave:  {MoveThunderWave, "Thunder Wave", TypeElectric, 0, 100, 20, 0, EffectParalyzeStatus, 0, TargetFoe, FlagProtectAffected | FlagMagicCoatAffected | FlagMirrorMoveAffected},
	MoveWillOWisp:    {MoveWillOWisp, "Will-O-Wisp", TypeFire, 0, 75, 15, 0, EffectBurnStatus, 0, TargetFoe, FlagProtectAffected | FlagMagicCoatAffected | FlagMirrorMoveAffected},
	MoveLightScreen:  {MoveLightScreen, "Light Screen", TypePsychic, 0, 0, 30, 0, EffectLightScreen, 0, TargetOwnSide, FlagSnatchAffected},
	MoveReflect:      {MoveReflect, "Reflect", TypePsychic, 0, 0, 20, 0, EffectReflect, 0, TargetOwnSide, FlagSnatchAffected},
	MoveSafeguard:    {MoveSafeguard, "Safeguard", TypeNormal, 0, 0, 25, 0, EffectSafeguard, 0, TargetOwnSide, FlagSnatchAffected},
	MoveMist:         {MoveMist, "Mist", TypeIce, 0, 0, 30, 0, EffectMist, 0, TargetOwnSide, FlagSnatchAffected},
	MoveSpikes:       {MoveSpikes, "Spikes", TypeGround, 0, 0, 20, 0, EffectSpikes, 0, TargetFoeSide, FlagMagicCoatAffected},
	MoveSandstorm:    {MoveSandstorm, "Sandstorm", TypeRock, 0, 0, 10, 0, EffectSandstorm, 0, TargetField, 0},
	MoveSunnyDay:     {MoveSunnyDay, "Sunny Day", TypeFire, 0, 0, 5, 0, EffectSunnyDay, 0, TargetField, 0},
	MoveRainDance:    {MoveRainDance, "Rain Dance", TypeWater, 0, 0, 5, 0, EffectRainDance, 0, TargetField, 0},
	MoveHail:         {MoveHail, "Hail", TypeIce, 0, 0, 10, 0, EffectHail, 0, TargetField, 0},
	MoveSkyAttack:    {MoveSkyAttack, "Sky Attack", TypeFlying, 140, 90, 5, 0, EffectSkyAttack, 30, TargetFoe, FlagProtectAffected | FlagMirrorMoveAffected | FlagKingsRockAffected},
	MoveBatonPass:    {MoveBatonPass, "Baton Pass", TypeNormal, 0, 0, 40, 0, EffectBatonPass, 0, TargetSelf, 0},
	MovePursuit:      {MovePursuit, "Pursuit", TypeDark, 40, 100, 20, 0, EffectPursuit, 0, TargetFoe, contactKR},
	MovePerishSong:   {MovePerishSong, "Perish Song", TypeNormal, 0, 0, 5, 0, EffectPerishSong, 0, TargetAll, 0},
	MoveMagicCoat:    {MoveMagicCoat, "Magic Coat", TypePsychic, 0, 0, 15, 4, EffectMagicCoat, 0, TargetSelf, 0},
	MoveSlash:        {MoveSlash, "Slash", TypeNormal, 70, 100, 20, 0, EffectHighCrit, 0, TargetFoe, contactKR},
	MoveCrabhammer:   {MoveCrabhammer, "Crabhammer", TypeWater, 90, 85, 10, 0, EffectHighCrit, 0, TargetFoe, contactKR},
	MoveTripleKick:   {MoveTripleKick, "Triple Kick", TypeFighting, 10, 90, 10, 0, EffectTripleKick, 0, TargetFoe, contactKR},
	MoveThunderbolt:  {MoveThunderbolt, "Thunderbolt", TypeElectric, 95, 100, 15, 0, EffectParalyzeHit, 10, TargetFoe, FlagProtectAffected | FlagMirrorMoveAffected},
	MoveIceBeam:      {MoveIceBeam, "Ice Beam", TypeIce, 95, 100, 10, 0, EffectFreezeHit, 10, TargetFoe, FlagProtectAffected | FlagMirrorMoveAffected},
	MoveFlamethrower: {MoveFlamethrower, "Flamethrower", TypeFire, 95, 100, 15, 0, EffectBurnHit, 10, TargetFoe, FlagProtectAffected | FlagMirrorMoveAffected},
	MoveSurf:         {MoveSurf, "Surf", TypeWater, 95, 100, 15, 0, EffectHit, 0, TargetFoe, FlagProtectAffected | FlagMirrorMoveAffected},
	MoveEarthquake:   {MoveEarthquake, "Earthquake", TypeGround, 100, 100, 10, 0, EffectHit, 0, TargetFoe, FlagProtectAffected | FlagMirrorMoveAffected},
	MoveShadowBall:   {MoveShadowBall, "Shadow Ball", TypeGhost, 80, 100, 15, 0, EffectHit, 0, TargetFoe, FlagProtectAffected | FlagMirrorMoveAffected | FlagKingsRockAffected},
	MoveCrunch:       {MoveCrunch, "Crunch", TypeDark, 80, 100, 15, 0, EffectHit, 0, TargetFoe, contactKR},
	MoveDragonClaw:   {MoveDragonClaw, "Dragon Claw", TypeDragon, 80, 100, 15, 0, EffectHit, 0, TargetFoe, contactKR},
	MovePsychic:      {MovePsychic, "Psychic", TypePsychic, 90, 100, 10, 0, EffectHit, 0, TargetFoe, FlagProtectAffected | FlagMirrorMoveAffected},
	MoveIronTail:     {MoveIronTail, "Iron Tail", TypeSteel, 100, 75, 15, 0, EffectDefDownHit, 30, TargetFoe, contactKR},
	MoveHeadbutt:     {MoveHeadbutt, "Headbutt", TypeNormal, 70, 100, 15, 0, EffectFlinchHit, 30, TargetFoe, contactKR},
	MoveBodySlam:     {MoveBodySlam, "Body Slam", TypeNormal, 85, 100, 15, 0, EffectParalyzeHit, 30, TargetFoe, contactKR},
	MoveFlareBlitz:   {MoveFlareBlitz, "Flare Blitz", TypeFire, 120, 100, 15, 0, EffectRecoilQuarter, 0, TargetFoe, contactKR},
	MoveAcidArmor:    {MoveAcidArmor, "Acid Armor", TypePoison, 0, 0, 40, 0, EffectDefUp2, 0, TargetSelf, FlagSnatchAffected},
	MoveAgility:      {MoveAgility, "Agility", TypePsychic, 0, 0, 30, 0, EffectSpeedUp2, 0, TargetSelf, FlagSnatchAffected},
	MoveBite:         {MoveBite, "Bite", TypeDark, 60, 100, 25, 0, EffectFlinchHit, 30, TargetFoe, contactKR},
}

// LookupMove returns the move row and whether it exists.
func LookupMove(id MoveID) (Move, bool) {
	m, ok := moveTable[id]
	return m, ok
}

func (m MoveID) String() string {
	if m == MoveNone {
		return "NONE"
	}
	if mv, ok := moveTable[m]; ok {
		return mv.Name
	}
	return fmt.Sprintf("MOVE_%d", uint16(m))
}

// HighCritical reports whether the move carries an innate +1 crit stage.
func (m Move) HighCritical() bool {
	return m.Effect == EffectHighCrit
}
