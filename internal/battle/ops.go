package battle

import (
	"fmt"

	"github.com/moo-zh/battlemon/internal/battle/calc"
	"github.com/moo-zh/battlemon/internal/data"
)

// Atomic operations. Each op declares its domain mask and the pipeline
// stage window it occupies; the DSL refuses compositions that violate
// either. Ops signal move-time failure through the result scratch and
// never abort the pipeline themselves.

// OpCheckAccuracy rolls the accuracy check and records a miss. Never-miss
// moves (base accuracy 0) hit without consuming a draw.
func OpCheckAccuracy() *Op {
	return &Op{
		name:    "CheckAccuracy",
		domains: DomainSlot | DomainTransient,
		in:      StageGenesis,
		out:     StageAccuracyResolved,
		run: func(ctx *Context) {
			hit := calc.CheckAccuracy(
				ctx.Move.Accuracy,
				ctx.Attacker.Stages[StageAccuracy],
				ctx.Defender.Stages[StageEvasion],
				ctx.RNG,
			)
			ctx.Result.Missed = !hit
		},
	}
}

// critStage derives the attacker's critical stage before item hooks run.
func critStage(ctx *Context) uint8 {
	var stage uint8
	if ctx.Attacker.HasVolatile(VolFocusEnergy) {
		stage += 2
	}
	if ctx.Move.HighCritical() {
		stage++
	}
	if stage > data.MaxCritStage {
		stage = data.MaxCritStage
	}
	return stage
}

// OpCalculateDamage runs the damage kernel and stores damage,
// effectiveness, and the critical flag in the result. Pre-damage-calc item
// hooks fire here and may adjust attack, defense, power, and crit stage.
func OpCalculateDamage() *Op {
	return &Op{
		name:    "CalculateDamage",
		domains: DomainSlot | DomainMon | DomainTransient,
		in:      StageAccuracyResolved,
		out:     StageDamageCalculated,
		run: func(ctx *Context) {
			if ctx.Result.Missed {
				ctx.Result.Damage = 0
				return
			}

			physical := ctx.Move.Type.IsPhysical()
			var atk, def uint16
			if physical {
				atk, def = ctx.AttackerActive.Attack, ctx.DefenderActive.Defense
			} else {
				atk, def = ctx.AttackerActive.SpAttack, ctx.DefenderActive.SpDefense
			}
			if ctx.Override.Attack != 0 {
				atk = ctx.Override.Attack
			}
			if ctx.Override.Defense != 0 {
				def = ctx.Override.Defense
			}

			ev := PreDamageCalcEvent{
				Attack:    atk,
				Defense:   def,
				CritStage: critStage(ctx),
				Power:     ctx.EffectivePower(),
			}
			ctx.Items.FirePreDamageCalc(ctx, &ev)

			crit := calc.RollCritical(ev.CritStage, ctx.RNG)

			var atkStage, defStage int8
			if physical {
				atkStage = ctx.Attacker.Stages[StageAtk]
				defStage = ctx.Defender.Stages[StageDef]
			} else {
				atkStage = ctx.Attacker.Stages[StageSpAtk]
				defStage = ctx.Defender.Stages[StageSpDef]
			}

			res := calc.Damage(calc.DamageInputs{
				Level:         ctx.AttackerActive.Level,
				Power:         ev.Power,
				Attack:        ev.Attack,
				Defense:       ev.Defense,
				AttackStage:   atkStage,
				DefenseStage:  defStage,
				MoveType:      ctx.Move.Type,
				AttackerType1: ctx.AttackerActive.Type1,
				AttackerType2: ctx.AttackerActive.Type2,
				DefenderType1: ctx.DefenderActive.Type1,
				DefenderType2: ctx.DefenderActive.Type2,
				Critical:      crit,
				SkipRandom:    ctx.SkipRandom,
			}, ctx.RNG)

			dmg := res.Damage
			// Screens halve the matching damage class unless the hit crits.
			if !crit && dmg > 1 {
				if physical && ctx.DefenderSide.ReflectTurns > 0 {
					dmg /= 2
				} else if !physical && ctx.DefenderSide.LightScreenTurns > 0 {
					dmg /= 2
				}
			}

			ctx.Result.Damage = dmg
			ctx.Result.Effectiveness = res.Effectiveness
			ctx.Result.Critical = res.Critical
		},
	}
}

// OpSetFixedDamage writes a fixed damage amount, bypassing the kernel.
func OpSetFixedDamage(n uint16) *Op {
	return &Op{
		name:    fmt.Sprintf("SetFixedDamage<%d>", n),
		domains: DomainSlot | DomainMon | DomainTransient,
		in:      StageAccuracyResolved,
		out:     StageDamageCalculated,
		run: func(ctx *Context) {
			if ctx.Result.Missed {
				return
			}
			ctx.Result.Damage = n
			ctx.Result.Effectiveness = calc.DualNeutral
		},
	}
}

// OpApplyDamage commits the calculated damage. A live substitute soaks the
// hit: overflow past its HP is discarded and the SUBSTITUTE volatile clears
// when it breaks. Otherwise the pre-apply item hook may reduce the damage
// before it lands, and the post-apply hook runs on the committed amount.
func OpApplyDamage() *Op {
	return &Op{
		name:    "ApplyDamage",
		domains: DomainSlot | DomainMon | DomainTransient,
		in:      StageDamageCalculated,
		out:     StageDamageApplied,
		run: func(ctx *Context) {
			if ctx.Result.Missed || ctx.Result.Damage == 0 {
				return
			}

			if ctx.DefenderHasSubstitute() {
				ctx.HitSubstitute = true
				if ctx.Result.Damage >= ctx.Defender.SubstituteHP {
					ctx.Defender.SubstituteHP = 0
					ctx.Defender.ClearVolatile(VolSubstitute)
				} else {
					ctx.Defender.SubstituteHP -= ctx.Result.Damage
				}
				return
			}

			pre := PreDamageApplyEvent{
				Damage:     ctx.Result.Damage,
				DefenderHP: ctx.DefenderMon.CurrentHP,
			}
			ctx.Items.FirePreDamageApply(ctx, &pre)

			dealt := ctx.DefenderMon.ApplyDamage(pre.Damage)
			ctx.Defender.RecordDamageTaken(ctx.Move.Type.IsPhysical(), dealt, ctx.AttackerSlot)
			ctx.Result.Damage = dealt

			post := PostDamageApplyEvent{
				DamageDealt:   dealt,
				WasCritical:   ctx.Result.Critical,
				TargetFainted: ctx.DefenderMon.IsFainted(),
			}
			ctx.Items.FirePostDamageApply(ctx, &post)
			if post.AttackerHeal > 0 {
				ctx.AttackerMon.Heal(post.AttackerHeal)
			}
			if post.AttackerRecoil > 0 {
				ctx.AttackerMon.ApplyDamage(post.AttackerRecoil)
			}
			if post.CauseFlinch && !ctx.Defender.MovedThisTurn {
				ctx.Defender.SetVolatile(VolFlinched)
			}
		},
	}
}

// OpDrainHP heals the attacker by pct% of the damage dealt (minimum 1).
// A substitute soaking the hit blocks the drain.
func OpDrainHP(pct uint16) *Op {
	return &Op{
		name:    fmt.Sprintf("DrainHP<%d>", pct),
		domains: DomainMon | DomainTransient,
		in:      StageDamageApplied,
		out:     StageEffectApplied,
		run: func(ctx *Context) {
			if ctx.Result.Missed || ctx.Result.Damage == 0 || ctx.HitSubstitute {
				return
			}
			heal := ctx.Result.Damage * pct / 100
			if heal == 0 {
				heal = 1
			}
			ctx.AttackerMon.Heal(heal)
		},
	}
}

// OpDrainHalfHP is the common 50% drain.
func OpDrainHalfHP() *Op { return OpDrainHP(50) }

// OpRecoil damages the attacker by pct% of the damage dealt (minimum 1).
func OpRecoil(pct uint16) *Op {
	return &Op{
		name:    fmt.Sprintf("Recoil<%d>", pct),
		domains: DomainMon | DomainTransient,
		in:      StageDamageApplied,
		out:     StageEffectApplied,
		run: func(ctx *Context) {
			if ctx.Result.Missed || ctx.Result.Damage == 0 {
				return
			}
			recoil := ctx.Result.Damage * pct / 100
			if recoil == 0 {
				recoil = 1
			}
			ctx.AttackerMon.ApplyDamage(recoil)
		},
	}
}

// OpRecoilQuarter is the common 25% recoil.
func OpRecoilQuarter() *Op { return OpRecoil(25) }

// OpHealUser heals the attacker by pct% of its max HP. Fails at full HP.
func OpHealUser(pct uint16) *Op {
	return &Op{
		name:    fmt.Sprintf("HealUser<%d>", pct),
		domains: DomainMon | DomainTransient,
		in:      StageGenesis,
		out:     StageEffectApplied,
		run: func(ctx *Context) {
			if ctx.AttackerMon.CurrentHP == ctx.AttackerMon.MaxHP {
				ctx.Result.Failed = true
				return
			}
			heal := ctx.AttackerMon.MaxHP * pct / 100
			if heal == 0 {
				heal = 1
			}
			ctx.AttackerMon.Heal(heal)
		},
	}
}

// OpHealHalf is the common 50% self-heal.
func OpHealHalf() *Op { return OpHealUser(50) }

// OpCheckFaint observes faint state after damage; the orchestrator samples
// the battle result at this boundary. No mutation.
func OpCheckFaint() *Op {
	return &Op{
		name:    "CheckFaint",
		domains: DomainMon,
		in:      StageDamageApplied,
		out:     StageFaintChecked,
		run:     func(*Context) {},
	}
}

// OpCheckFaintAfterEffect is the faint observation point for pipelines
// with post-damage effects.
func OpCheckFaintAfterEffect() *Op {
	return &Op{
		name:    "CheckFaintAfterEffect",
		domains: DomainMon,
		in:      StageEffectApplied,
		out:     StageFaintChecked,
		run:     func(*Context) {},
	}
}

// modifyStage applies a clamped delta to one stage and reports whether
// anything changed.
func modifyStage(slot *SlotState, stat int, delta int8) bool {
	old := slot.Stages[stat]
	next := data.ClampStage(old + delta)
	slot.Stages[stat] = next
	return next != old
}

// statDropBlocked consults mist and stat-guard abilities on the defender.
func statDropBlocked(ctx *Context) bool {
	if ctx.DefenderSide.MistTurns > 0 {
		return true
	}
	switch ctx.DefenderActive.Ability {
	case data.AbilityClearBody, data.AbilityWhiteSmoke:
		return true
	}
	return false
}

// OpModifyUserStat shifts one of the attacker's stages, failing when the
// clamp leaves it unchanged.
func OpModifyUserStat(stat int, delta int8) *Op {
	return &Op{
		name:    fmt.Sprintf("ModifyUserStat<%s,%+d>", StageName(stat), delta),
		domains: DomainSlot | DomainTransient,
		in:      StageGenesis,
		out:     StageEffectApplied,
		run: func(ctx *Context) {
			if !modifyStage(ctx.Attacker, stat, delta) {
				ctx.Result.Failed = true
			}
		},
	}
}

// OpModifyDefenderStat shifts one of the defender's stages. Drops are
// blocked by mist and by Clear Body / White Smoke; a blocked or clamped-out
// change fails. Skipped on miss.
func OpModifyDefenderStat(stat int, delta int8) *Op {
	return &Op{
		name:    fmt.Sprintf("ModifyDefenderStat<%s,%+d>", StageName(stat), delta),
		domains: DomainSlot | DomainTransient,
		in:      StageGenesis,
		out:     StageEffectApplied,
		run: func(ctx *Context) {
			if ctx.Result.Missed {
				return
			}
			if delta < 0 && statDropBlocked(ctx) {
				ctx.Result.Failed = true
				return
			}
			if !modifyStage(ctx.Defender, stat, delta) {
				ctx.Result.Failed = true
			}
		},
	}
}

// OpTryModifyDefenderStat is the chance-gated secondary variant. A failed
// roll or blocked drop does not mark the move failed.
func OpTryModifyDefenderStat(stat int, delta int8, chance uint8) *Op {
	return &Op{
		name:    fmt.Sprintf("TryModifyDefenderStat<%s,%+d,%d%%>", StageName(stat), delta, chance),
		domains: DomainSlot | DomainTransient,
		in:      StageDamageApplied,
		out:     StageEffectApplied,
		run: func(ctx *Context) {
			if ctx.Result.Missed {
				return
			}
			if ctx.RNG.RandBelow(100) >= uint16(chance) {
				return
			}
			if delta < 0 && statDropBlocked(ctx) {
				return
			}
			modifyStage(ctx.Defender, stat, delta)
		},
	}
}

// OpResetAllStats zeroes every stage on every active slot.
func OpResetAllStats() *Op {
	return &Op{
		name:    "ResetAllStats",
		domains: DomainSlot,
		in:      StageGenesis,
		out:     StageEffectApplied,
		run: func(ctx *Context) {
			for i := 0; i < ctx.SlotCount; i++ {
				ctx.AllSlots[i].Slot.Stages = [stageCount]int8{}
			}
		},
	}
}

// statusBlocked reports whether the defender's types, side safeguard, or
// ability block the given status.
func statusBlocked(ctx *Context, st Status) bool {
	if ctx.DefenderSide.SafeguardTurns > 0 {
		return true
	}
	active := ctx.DefenderActive
	switch st {
	case StatusBurn:
		return active.HasType(data.TypeFire) || active.Ability == data.AbilityWaterVeil
	case StatusFreeze:
		return active.HasType(data.TypeIce) || active.Ability == data.AbilityMagmaArmor
	case StatusPoison, StatusToxic:
		return active.HasType(data.TypePoison) || active.HasType(data.TypeSteel) ||
			active.Ability == data.AbilityImmunity
	case StatusParalysis:
		return active.HasType(data.TypeElectric) || active.Ability == data.AbilityLimber
	case StatusSleep:
		return active.Ability == data.AbilityVitalSpirit || active.Ability == data.AbilityInsomnia
	}
	return false
}

// applyStatus commits a primary status onto the defending mon.
func applyStatus(ctx *Context, st Status) {
	ctx.DefenderMon.Status = st
	switch st {
	case StatusSleep:
		ctx.DefenderMon.SleepTurns = uint8(ctx.RNG.RandBelow(3)) + 1
	case StatusToxic:
		ctx.DefenderMon.ToxicCounter = 1
	}
	ctx.Result.StatusApplied = true
}

// OpTryApplyStatus is the chance-gated secondary status. Skipped on miss;
// immunity or an existing status silently blocks.
func OpTryApplyStatus(st Status, chance uint8) *Op {
	return &Op{
		name:    fmt.Sprintf("TryApplyStatus<%s,%d%%>", st, chance),
		domains: DomainMon | DomainTransient,
		in:      StageDamageApplied,
		out:     StageEffectApplied,
		run: func(ctx *Context) {
			if ctx.Result.Missed || ctx.HitSubstitute {
				return
			}
			if ctx.RNG.RandBelow(100) >= uint16(chance) {
				return
			}
			if ctx.DefenderMon.Status != StatusNone || ctx.DefenderMon.IsFainted() {
				return
			}
			if statusBlocked(ctx, st) {
				return
			}
			applyStatus(ctx, st)
		},
	}
}

// OpTryApplyMoveStatus is OpTryApplyStatus with the roll percentage taken
// from the move's effect-chance column.
func OpTryApplyMoveStatus(st Status) *Op {
	return &Op{
		name:    fmt.Sprintf("TryApplyMoveStatus<%s>", st),
		domains: DomainMon | DomainTransient,
		in:      StageDamageApplied,
		out:     StageEffectApplied,
		run: func(ctx *Context) {
			if ctx.Result.Missed || ctx.HitSubstitute {
				return
			}
			if ctx.RNG.RandBelow(100) >= uint16(ctx.Move.EffectChance) {
				return
			}
			if ctx.DefenderMon.Status != StatusNone || ctx.DefenderMon.IsFainted() {
				return
			}
			if statusBlocked(ctx, st) {
				return
			}
			applyStatus(ctx, st)
		},
	}
}

// OpSetIterationPower overrides the move power to base*(iteration+1), for
// repeat effects whose hits ramp up.
func OpSetIterationPower(base uint16) *Op {
	return &Op{
		name:    fmt.Sprintf("SetIterationPower<%d>", base),
		domains: DomainTransient,
		in:      StageGenesis,
		out:     StageGenesis,
		run: func(ctx *Context) {
			ctx.Override.Power = base * uint16(ctx.Iteration+1)
		},
	}
}

// OpApplyStatusMove is the primary effect of a pure status move; a blocked
// application marks the move failed.
func OpApplyStatusMove(st Status) *Op {
	return &Op{
		name:    fmt.Sprintf("ApplyStatusMove<%s>", st),
		domains: DomainMon | DomainTransient,
		in:      StageGenesis,
		out:     StageEffectApplied,
		run: func(ctx *Context) {
			if ctx.Result.Missed {
				return
			}
			if ctx.DefenderMon.Status != StatusNone || ctx.DefenderMon.IsFainted() ||
				ctx.DefenderHasSubstitute() || statusBlocked(ctx, st) {
				ctx.Result.Failed = true
				return
			}
			applyStatus(ctx, st)
		},
	}
}

// OpTryApplyFlinch flinches the defender if it has not yet moved this
// turn. Chance 0 means unconditional; skipped on miss.
func OpTryApplyFlinch(chance uint8) *Op {
	return &Op{
		name:    fmt.Sprintf("TryApplyFlinch<%d%%>", chance),
		domains: DomainSlot | DomainTransient,
		in:      StageDamageApplied,
		out:     StageEffectApplied,
		run: func(ctx *Context) {
			if ctx.Result.Missed || ctx.Defender.MovedThisTurn {
				return
			}
			if chance > 0 && ctx.RNG.RandBelow(100) >= uint16(chance) {
				return
			}
			ctx.Defender.SetVolatile(VolFlinched)
		},
	}
}

// OpBeginCharge starts a two-turn move: records the real move id and sets
// CHARGING, plus SEMI_INVULNERABLE for moves that leave the field.
func OpBeginCharge(semiInvulnerable bool) *Op {
	return &Op{
		name:    "BeginCharge",
		domains: DomainSlot,
		in:      StageGenesis,
		out:     StageFaintChecked,
		run: func(ctx *Context) {
			ctx.Attacker.ChargingMove = ctx.Move.ID
			ctx.Attacker.SetVolatile(VolCharging)
			if semiInvulnerable {
				ctx.Attacker.SetVolatile(VolSemiInvulnerable)
			}
		},
	}
}

// OpClearCharge ends the charge turn.
func OpClearCharge() *Op {
	return &Op{
		name:    "ClearCharge",
		domains: DomainSlot,
		in:      StageGenesis,
		out:     StageAccuracyResolved,
		run: func(ctx *Context) {
			ctx.Attacker.ChargingMove = data.MoveNone
			ctx.Attacker.ClearVolatile(VolCharging | VolSemiInvulnerable)
		},
	}
}

// OpSetWeather starts five turns of the given weather; setting the active
// weather again fails.
func OpSetWeather(w Weather) *Op {
	return &Op{
		name:    fmt.Sprintf("SetWeather<%s>", w),
		domains: DomainField | DomainTransient,
		in:      StageGenesis,
		out:     StageEffectApplied,
		run: func(ctx *Context) {
			if ctx.Field.Weather == w {
				ctx.Result.Failed = true
				return
			}
			ctx.Field.Weather = w
			ctx.Field.WeatherTurns = 5
		},
	}
}

// sideTimerOp builds the shared five-turn side-screen op shape.
func sideTimerOp(name string, timer func(*SideState) *uint8) *Op {
	return &Op{
		name:    name,
		domains: DomainSide | DomainTransient,
		in:      StageGenesis,
		out:     StageEffectApplied,
		run: func(ctx *Context) {
			t := timer(ctx.AttackerSide)
			if *t > 0 {
				ctx.Result.Failed = true
				return
			}
			*t = 5
		},
	}
}

// OpSetReflect raises Reflect on the attacker's side for five turns.
func OpSetReflect() *Op {
	return sideTimerOp("SetReflect", func(s *SideState) *uint8 { return &s.ReflectTurns })
}

// OpSetLightScreen raises Light Screen on the attacker's side.
func OpSetLightScreen() *Op {
	return sideTimerOp("SetLightScreen", func(s *SideState) *uint8 { return &s.LightScreenTurns })
}

// OpSetSafeguard raises Safeguard on the attacker's side.
func OpSetSafeguard() *Op {
	return sideTimerOp("SetSafeguard", func(s *SideState) *uint8 { return &s.SafeguardTurns })
}

// OpSetMist raises Mist on the attacker's side.
func OpSetMist() *Op {
	return sideTimerOp("SetMist", func(s *SideState) *uint8 { return &s.MistTurns })
}

// OpAddSpikes lays a spikes layer on the defender's side, failing at the
// three-layer cap.
func OpAddSpikes() *Op {
	return &Op{
		name:    "AddSpikes",
		domains: DomainSide | DomainTransient,
		in:      StageGenesis,
		out:     StageEffectApplied,
		run: func(ctx *Context) {
			if ctx.DefenderSide.SpikesLayers >= MaxSpikesLayers {
				ctx.Result.Failed = true
				return
			}
			ctx.DefenderSide.SpikesLayers++
		},
	}
}

// OpSetMagicCoat arms the attacker's bounce for the rest of the turn.
func OpSetMagicCoat() *Op {
	return &Op{
		name:    "SetMagicCoat",
		domains: DomainSlot,
		in:      StageGenesis,
		out:     StageEffectApplied,
		run: func(ctx *Context) {
			ctx.Attacker.BounceMove = true
		},
	}
}

// OpRequestBatonPass asks the orchestrator to switch out with state
// carried over.
func OpRequestBatonPass() *Op {
	return &Op{
		name:    "RequestBatonPass",
		domains: DomainSlot | DomainTransient,
		in:      StageGenesis,
		out:     StageTerminus,
		run: func(ctx *Context) {
			ctx.Result.BatonPass = true
			ctx.Result.SwitchOut = true
		},
	}
}

// OpMarkPursuitReady flags the attacker as ready to intercept a switch.
func OpMarkPursuitReady() *Op {
	return &Op{
		name:    "MarkPursuitReady",
		domains: DomainSlot | DomainTransient,
		in:      StageGenesis,
		out:     StageEffectApplied,
		run: func(ctx *Context) {
			ctx.Result.PursuitIntercept = true
			ctx.Result.PursuitUserSlot = ctx.AttackerSlot
		},
	}
}

// OpApplyPerishSong starts the perish count on every active battler that
// does not already carry it; fails when no one is newly affected.
func OpApplyPerishSong() *Op {
	return &Op{
		name:    "ApplyPerishSong",
		domains: DomainSlot | DomainMon | DomainTransient,
		in:      StageGenesis,
		out:     StageEffectApplied,
		run: func(ctx *Context) {
			affected := false
			for i := 0; i < ctx.SlotCount; i++ {
				ref := ctx.AllSlots[i]
				if ref.Mon.IsFainted() || ref.Slot.HasVolatile(VolPerishSong) {
					continue
				}
				ref.Slot.SetVolatile(VolPerishSong)
				ref.Slot.PerishCount = 3
				affected = true
			}
			if !affected {
				ctx.Result.Failed = true
			}
		},
	}
}
