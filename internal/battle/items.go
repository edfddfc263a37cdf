package battle

import (
	"github.com/moo-zh/battlemon/internal/data"
)

// Item hook dispatch. Five event types fire at three move-pipeline
// boundaries and two turn-pipeline boundaries. A held-item id routes
// straight to a per-item handler; items with no handler for an event are
// no-ops. Handlers read the context but mutate only their event payload —
// the stage-transition callsite applies the payload back to real state.

// PreDamageCalcEvent fires between AccuracyResolved and DamageCalculated.
// Attack/Defense/Power are the values about to enter the damage kernel.
type PreDamageCalcEvent struct {
	Attack    uint16
	Defense   uint16
	CritStage uint8
	Power     uint16
}

// PreDamageApplyEvent fires between DamageCalculated and DamageApplied.
// DefenderHP is read-only.
type PreDamageApplyEvent struct {
	Damage        uint16
	DefenderHP    uint16
	SurvivedFatal bool
}

// PostDamageApplyEvent fires between DamageApplied and EffectApplied.
// DamageDealt, WasCritical, and TargetFainted are read-only.
type PostDamageApplyEvent struct {
	AttackerHeal   uint16
	AttackerRecoil uint16
	CauseFlinch    bool

	DamageDealt   uint16
	WasCritical   bool
	TargetFainted bool
}

// TurnStartEvent fires between TurnGenesis and PriorityDetermined.
type TurnStartEvent struct {
	PriorityBoost bool
}

// TurnEndEvent fires between ActionsResolved and TurnEnd.
type TurnEndEvent struct {
	HealAmount   uint16
	DamageAmount uint16
}

// ItemHooks dispatches held-item handlers. The zero value is not usable;
// construct with NewItemHooks so the handler tables are in place.
type ItemHooks struct {
	preCalcAttacker map[data.Item]func(*Context, *PreDamageCalcEvent)
	preCalcDefender map[data.Item]func(*Context, *PreDamageCalcEvent)
	preApply        map[data.Item]func(*Context, *PreDamageApplyEvent)
	postApply       map[data.Item]func(*Context, *PostDamageApplyEvent)
	turnStart       map[data.Item]func(*Context, *SlotRef, *TurnStartEvent)
	turnEnd         map[data.Item]func(*Context, *SlotRef, *TurnEndEvent)
}

// NewItemHooks builds the dispatch tables.
func NewItemHooks() *ItemHooks {
	h := &ItemHooks{
		preCalcAttacker: make(map[data.Item]func(*Context, *PreDamageCalcEvent)),
		preCalcDefender: make(map[data.Item]func(*Context, *PreDamageCalcEvent)),
		preApply:        make(map[data.Item]func(*Context, *PreDamageApplyEvent)),
		postApply:       make(map[data.Item]func(*Context, *PostDamageApplyEvent)),
		turnStart:       make(map[data.Item]func(*Context, *SlotRef, *TurnStartEvent)),
		turnEnd:         make(map[data.Item]func(*Context, *SlotRef, *TurnEndEvent)),
	}

	h.preCalcAttacker[data.ItemScopeLens] = func(_ *Context, ev *PreDamageCalcEvent) {
		if ev.CritStage < data.MaxCritStage {
			ev.CritStage++
		}
	}
	h.preCalcAttacker[data.ItemChoiceBand] = func(_ *Context, ev *PreDamageCalcEvent) {
		ev.Attack = uint16(uint32(ev.Attack) * 3 / 2)
	}
	h.preCalcAttacker[data.ItemLuckyPunch] = func(ctx *Context, ev *PreDamageCalcEvent) {
		if ctx.AttackerActive.Species == data.SpeciesChansey {
			ev.CritStage += 2
			if ev.CritStage > data.MaxCritStage {
				ev.CritStage = data.MaxCritStage
			}
		}
	}
	h.preCalcAttacker[data.ItemStick] = func(ctx *Context, ev *PreDamageCalcEvent) {
		if ctx.AttackerActive.Species == data.SpeciesFarfetchd {
			ev.CritStage += 2
			if ev.CritStage > data.MaxCritStage {
				ev.CritStage = data.MaxCritStage
			}
		}
	}
	h.preCalcAttacker[data.ItemLightBall] = func(ctx *Context, ev *PreDamageCalcEvent) {
		if ctx.AttackerActive.Species == data.SpeciesPikachu && !ctx.Move.Type.IsPhysical() {
			ev.Attack *= 2
		}
	}
	// One registration per type-boost item; each checks its own type match.
	for _, item := range []data.Item{
		data.ItemSilkScarf, data.ItemBlackBelt, data.ItemSharpBeak,
		data.ItemPoisonBarb, data.ItemSoftSand, data.ItemHardStone,
		data.ItemSilverPowder, data.ItemSpellTag, data.ItemMetalCoat,
		data.ItemCharcoal, data.ItemMysticWater, data.ItemMiracleSeed,
		data.ItemMagnet, data.ItemTwistedSpoon, data.ItemNeverMeltIce,
		data.ItemDragonFang, data.ItemBlackGlasses,
	} {
		boost := item.TypeBoostTarget()
		h.preCalcAttacker[item] = func(ctx *Context, ev *PreDamageCalcEvent) {
			if ctx.Move.Type == boost {
				ev.Power = ev.Power * 11 / 10
			}
		}
	}

	h.preCalcDefender[data.ItemMetalPowder] = func(ctx *Context, ev *PreDamageCalcEvent) {
		if ctx.DefenderActive.Species == data.SpeciesDitto {
			ev.Defense = ev.Defense * 3 / 2
		}
	}

	h.preApply[data.ItemFocusBand] = func(ctx *Context, ev *PreDamageApplyEvent) {
		if ev.Damage >= ev.DefenderHP && ctx.RNG.RandBelow(100) < 12 {
			ev.Damage = ev.DefenderHP - 1
			ev.SurvivedFatal = true
		}
	}

	h.postApply[data.ItemKingsRock] = func(ctx *Context, ev *PostDamageApplyEvent) {
		if ev.DamageDealt == 0 || ev.TargetFainted {
			return
		}
		if ctx.Move.Flags&data.FlagKingsRockAffected == 0 {
			return
		}
		if ctx.RNG.RandBelow(10) == 0 {
			ev.CauseFlinch = true
		}
	}
	h.postApply[data.ItemShellBell] = func(_ *Context, ev *PostDamageApplyEvent) {
		if ev.DamageDealt == 0 {
			return
		}
		heal := ev.DamageDealt / 8
		if heal == 0 {
			heal = 1
		}
		ev.AttackerHeal = heal
	}

	h.turnStart[data.ItemQuickClaw] = func(ctx *Context, _ *SlotRef, ev *TurnStartEvent) {
		if ctx.RNG.RandBelow(5) == 0 {
			ev.PriorityBoost = true
		}
	}

	h.turnEnd[data.ItemLeftovers] = func(_ *Context, ref *SlotRef, ev *TurnEndEvent) {
		if ref.Mon.IsFainted() {
			return
		}
		heal := ref.Mon.MaxHP / 16
		if heal == 0 {
			heal = 1
		}
		ev.HealAmount = heal
	}
	h.turnEnd[data.ItemBlackSludge] = func(ctx *Context, ref *SlotRef, ev *TurnEndEvent) {
		if ref.Mon.IsFainted() {
			return
		}
		amount := ref.Mon.MaxHP / 16
		if amount == 0 {
			amount = 1
		}
		// Heals poison types, hurts everyone else.
		var active *ActiveMon
		if ref.ID == ctx.AttackerSlot {
			active = ctx.AttackerActive
		} else {
			active = ctx.DefenderActive
		}
		if active.HasType(data.TypePoison) {
			ev.HealAmount = amount
		} else {
			ev.DamageAmount = amount
		}
	}

	return h
}

func heldItem(s *SlotState) data.Item {
	if s.ItemConsumed {
		return data.ItemNone
	}
	return s.HeldItem
}

// FirePreDamageCalc runs attacker then defender pre-calculation handlers.
func (h *ItemHooks) FirePreDamageCalc(ctx *Context, ev *PreDamageCalcEvent) {
	if fn, ok := h.preCalcAttacker[heldItem(ctx.Attacker)]; ok {
		fn(ctx, ev)
	}
	if fn, ok := h.preCalcDefender[heldItem(ctx.Defender)]; ok {
		fn(ctx, ev)
	}
}

// FirePreDamageApply runs the defender's pre-apply handler.
func (h *ItemHooks) FirePreDamageApply(ctx *Context, ev *PreDamageApplyEvent) {
	if fn, ok := h.preApply[heldItem(ctx.Defender)]; ok {
		fn(ctx, ev)
	}
}

// FirePostDamageApply runs the attacker's post-apply handler.
func (h *ItemHooks) FirePostDamageApply(ctx *Context, ev *PostDamageApplyEvent) {
	if fn, ok := h.postApply[heldItem(ctx.Attacker)]; ok {
		fn(ctx, ev)
	}
}

// FireTurnStart runs the holder's turn-start handler.
func (h *ItemHooks) FireTurnStart(ctx *Context, ref *SlotRef, ev *TurnStartEvent) {
	if fn, ok := h.turnStart[heldItem(ref.Slot)]; ok {
		fn(ctx, ref, ev)
	}
}

// FireTurnEnd runs the holder's turn-end handler.
func (h *ItemHooks) FireTurnEnd(ctx *Context, ref *SlotRef, ev *TurnEndEvent) {
	if fn, ok := h.turnEnd[heldItem(ref.Slot)]; ok {
		fn(ctx, ref, ev)
	}
}
