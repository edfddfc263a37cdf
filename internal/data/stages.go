package data

// Stat-stage ratios. A stage in [-6, +6] indexes these tables at stage+6.

// StageRatio is an integer fraction applied to a battle stat.
type StageRatio struct {
	Num uint16
	Den uint16
}

// StatStageRatios maps stages -6..+6 to the regular stat multiplier:
// -6 = 10/40 up through +6 = 40/10.
var StatStageRatios = [13]StageRatio{
	{10, 40}, {10, 35}, {10, 30}, {10, 25}, {10, 20}, {10, 15},
	{10, 10},
	{15, 10}, {20, 10}, {25, 10}, {30, 10}, {35, 10}, {40, 10},
}

// AccuracyStageRatios maps stages -6..+6 to the accuracy/evasion multiplier,
// which runs on thirds rather than the regular stat curve: -6 = 3/9, +6 = 9/3.
var AccuracyStageRatios = [13]StageRatio{
	{3, 9}, {3, 8}, {3, 7}, {3, 6}, {3, 5}, {3, 4},
	{3, 3},
	{4, 3}, {5, 3}, {6, 3}, {7, 3}, {8, 3}, {9, 3},
}

// MaxCritStage is the highest critical-hit stage; boosts past it are lost.
const MaxCritStage = 4

// CritChanceDenominators maps crit stage 0..4 to the denominator of the
// critical-hit chance: {1/16, 1/8, 1/4, 1/3, 1/2}.
var CritChanceDenominators = [MaxCritStage + 1]uint16{16, 8, 4, 3, 2}

const (
	// MinStatStage and MaxStatStage bound every stat stage.
	MinStatStage = -6
	MaxStatStage = 6
)

// ClampStage clamps a stage delta result into [-6, +6].
func ClampStage(s int8) int8 {
	if s < MinStatStage {
		return MinStatStage
	}
	if s > MaxStatStage {
		return MaxStatStage
	}
	return s
}
