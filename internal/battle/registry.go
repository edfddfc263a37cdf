package battle

import (
	"fmt"

	"github.com/moo-zh/battlemon/internal/data"
)

// Registry maps move effect tags to validated effect compositions. Tags
// without a registered composition deterministically fall back to the
// plain damaging hit, so a battle never stalls on an unimplemented move.
type Registry struct {
	effects  map[data.EffectTag]*Effect
	fallback *Effect
}

// hitDomains is the mask of the baseline damaging pipeline.
const hitDomains = DomainSlot | DomainMon | DomainTransient

// hitChain is the baseline pipeline every damaging move shares.
func hitChain() []Action {
	return []Action{OpCheckAccuracy(), OpCalculateDamage(), OpApplyDamage()}
}

// hitWith builds Hit with extra post-damage actions spliced in before the
// effect-aware faint check.
func hitWith(extra ...Action) *Sequence {
	actions := hitChain()
	actions = append(actions, extra...)
	actions = append(actions, OpCheckFaintAfterEffect())
	return Seq(actions...)
}

// NewRegistry builds and validates every registered composition. Any
// validation failure is a structural error that must prevent the engine
// from starting.
func NewRegistry() (*Registry, error) {
	r := &Registry{effects: make(map[data.EffectTag]*Effect)}

	r.fallback = &Effect{
		Name:    "Hit",
		Domains: hitDomains,
		Action:  Seq(append(hitChain(), OpCheckFaint())...),
	}

	add := func(tag data.EffectTag, name string, domains DomainMask, action Action) {
		r.effects[tag] = &Effect{Name: name, Domains: domains, Action: action}
	}

	add(data.EffectHit, "Hit", hitDomains, Seq(append(hitChain(), OpCheckFaint())...))
	add(data.EffectHighCrit, "HighCritHit", hitDomains, Seq(append(hitChain(), OpCheckFaint())...))

	add(data.EffectAbsorbHit, "AbsorbHit", hitDomains, hitWith(OpDrainHalfHP()))
	add(data.EffectRecoilQuarter, "RecoilHit", hitDomains, hitWith(OpRecoilQuarter()))

	add(data.EffectDragonRage, "DragonRage", hitDomains,
		Seq(OpCheckAccuracy(), OpSetFixedDamage(40), OpApplyDamage(), OpCheckFaint()))

	add(data.EffectPoisonHit, "PoisonHit", hitDomains, hitWith(OpTryApplyStatus(StatusPoison, 30)))
	add(data.EffectParalyzeHit, "ParalyzeHit", hitDomains, hitWith(OpTryApplyMoveStatus(StatusParalysis)))
	add(data.EffectBurnHit, "BurnHit", hitDomains, hitWith(OpTryApplyMoveStatus(StatusBurn)))
	add(data.EffectFreezeHit, "FreezeHit", hitDomains, hitWith(OpTryApplyMoveStatus(StatusFreeze)))
	add(data.EffectFlinchHit, "FlinchHit", hitDomains, hitWith(OpTryApplyFlinch(30)))
	add(data.EffectDefDownHit, "DefDownHit", hitDomains,
		hitWith(OpTryModifyDefenderStat(StageDef, -1, 30)))

	add(data.EffectRestoreHP, "RestoreHP", DomainMon|DomainTransient, Seq(OpHealHalf()))
	add(data.EffectHaze, "Haze", DomainSlot, Seq(OpResetAllStats()))

	add(data.EffectAtkUp2, "AtkUp2", DomainSlot|DomainTransient,
		Seq(OpModifyUserStat(StageAtk, +2)))
	add(data.EffectDefUp2, "DefUp2", DomainSlot|DomainTransient,
		Seq(OpModifyUserStat(StageDef, +2)))
	add(data.EffectSpeedUp2, "SpeedUp2", DomainSlot|DomainTransient,
		Seq(OpModifyUserStat(StageSpeed, +2)))

	add(data.EffectAtkDown, "AtkDown", DomainSlot|DomainTransient,
		Seq(OpCheckAccuracy(), OpModifyDefenderStat(StageAtk, -1)))
	add(data.EffectDefDown, "DefDown", DomainSlot|DomainTransient,
		Seq(OpCheckAccuracy(), OpModifyDefenderStat(StageDef, -1)))
	add(data.EffectSpeedDown, "SpeedDown", DomainSlot|DomainTransient,
		Seq(OpCheckAccuracy(), OpModifyDefenderStat(StageSpeed, -1)))
	add(data.EffectAccDown, "AccDown", DomainSlot|DomainTransient,
		Seq(OpCheckAccuracy(), OpModifyDefenderStat(StageAccuracy, -1)))

	add(data.EffectPoisonStatus, "PoisonStatus", hitDomains,
		Seq(OpCheckAccuracy(), OpApplyStatusMove(StatusPoison)))
	add(data.EffectParalyzeStatus, "ParalyzeStatus", hitDomains,
		Seq(OpCheckAccuracy(), OpApplyStatusMove(StatusParalysis)))
	add(data.EffectBurnStatus, "BurnStatus", hitDomains,
		Seq(OpCheckAccuracy(), OpApplyStatusMove(StatusBurn)))

	add(data.EffectLightScreen, "LightScreen", DomainSide|DomainTransient, Seq(OpSetLightScreen()))
	add(data.EffectReflect, "Reflect", DomainSide|DomainTransient, Seq(OpSetReflect()))
	add(data.EffectSafeguard, "Safeguard", DomainSide|DomainTransient, Seq(OpSetSafeguard()))
	add(data.EffectMist, "Mist", DomainSide|DomainTransient, Seq(OpSetMist()))
	add(data.EffectSpikes, "Spikes", DomainSide|DomainTransient, Seq(OpAddSpikes()))

	add(data.EffectSandstorm, "Sandstorm", DomainField|DomainTransient, Seq(OpSetWeather(WeatherSandstorm)))
	add(data.EffectSunnyDay, "SunnyDay", DomainField|DomainTransient, Seq(OpSetWeather(WeatherSun)))
	add(data.EffectRainDance, "RainDance", DomainField|DomainTransient, Seq(OpSetWeather(WeatherRain)))
	add(data.EffectHail, "Hail", DomainField|DomainTransient, Seq(OpSetWeather(WeatherHail)))

	add(data.EffectSkyAttack, "SkyAttack", hitDomains,
		Match(StageFaintChecked,
			Branch{Name: "charge", When: WhenNotCharging, Do: OpBeginCharge(false)},
			Branch{Name: "unleash", Do: Seq(
				OpClearCharge(),
				OpCheckAccuracy(),
				OpCalculateDamage(),
				OpApplyDamage(),
				OpTryApplyFlinch(30),
				OpCheckFaintAfterEffect(),
			)},
		))

	add(data.EffectBatonPass, "BatonPass", DomainSlot|DomainTransient, Seq(OpRequestBatonPass()))

	add(data.EffectPursuit, "Pursuit", hitDomains,
		Seq(append([]Action{OpMarkPursuitReady()}, append(hitChain(), OpCheckFaint())...)...))

	add(data.EffectPerishSong, "PerishSong", DomainSlot|DomainMon|DomainTransient, Seq(OpApplyPerishSong()))
	add(data.EffectMagicCoat, "MagicCoat", DomainSlot, Seq(OpSetMagicCoat()))

	// Triple Kick ramps 10/20/30 power across up to three sub-hits,
	// stopping once the target drops or a kick misses.
	add(data.EffectTripleKick, "TripleKick", hitDomains,
		RepeatWhile(3,
			func(ctx *Context) bool { return !ctx.Result.Missed && !ctx.DefenderMon.IsFainted() },
			Seq(
				OpSetIterationPower(10),
				OpCheckAccuracy(),
				OpCalculateDamage(),
				OpApplyDamage(),
				OpCheckFaint(),
			),
			StageFaintChecked,
		))

	for tag, eff := range r.effects {
		if err := eff.Validate(); err != nil {
			return nil, fmt.Errorf("registry: tag %d: %w", tag, err)
		}
	}
	if err := r.fallback.Validate(); err != nil {
		return nil, fmt.Errorf("registry: fallback: %w", err)
	}

	return r, nil
}

// Lookup returns the composition for a tag, or the deterministic fallback
// hit when the tag is unregistered.
func (r *Registry) Lookup(tag data.EffectTag) *Effect {
	if eff, ok := r.effects[tag]; ok {
		return eff
	}
	return r.fallback
}

// Registered reports whether the tag has its own composition.
func (r *Registry) Registered(tag data.EffectTag) bool {
	_, ok := r.effects[tag]
	return ok
}
