package battle

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/moo-zh/battlemon/internal/battle/calc"
	"github.com/moo-zh/battlemon/internal/data"
	"github.com/moo-zh/battlemon/internal/rng"
)

// Outcome is the sampled battle result. Numbering is stable.
type Outcome uint8

const (
	OutcomeP1Wins  Outcome = 0
	OutcomeP2Wins  Outcome = 1
	OutcomeOngoing Outcome = 0xFF
)

func (o Outcome) String() string {
	switch o {
	case OutcomeP1Wins:
		return "P1_WINS"
	case OutcomeP2Wins:
		return "P2_WINS"
	case OutcomeOngoing:
		return "ONGOING"
	}
	return fmt.Sprintf("OUTCOME_%d", uint8(o))
}

// ActionKind tags a player action.
type ActionKind uint8

const (
	ActionMove ActionKind = iota
	ActionSwitch
	ActionRun
)

// TurnAction is one side's choice for a turn.
type TurnAction struct {
	Kind       ActionKind
	MoveIndex  uint8 // 0..3 for ActionMove
	PartyIndex uint8 // 0..5 for ActionSwitch
}

// MoveAction builds a move action.
func MoveAction(index uint8) TurnAction { return TurnAction{Kind: ActionMove, MoveIndex: index} }

// SwitchAction builds a switch action.
func SwitchAction(party uint8) TurnAction { return TurnAction{Kind: ActionSwitch, PartyIndex: party} }

// partyMember is one rental-derived mon. Mon state persists through
// switches; the active view is re-installed at each send-in.
type partyMember struct {
	rental data.Rental
	mon    MonState
	active ActiveMon
}

// Config configures a new engine. RNG takes precedence over Seed when set.
type Config struct {
	PartyP1 []data.Rental
	PartyP2 []data.Rental
	Level   uint8 // defaults to 50
	Seed    uint32
	RNG     rng.Source

	// SkipRandom disables the damage spread draw, for deterministic runs.
	SkipRandom bool

	Logger *zap.Logger
}

// Engine is the core battle engine: it owns all four state scopes and
// drives the staged effect pipeline for each action. Strictly
// single-threaded; every call runs to completion on the caller's
// goroutine.
type Engine struct {
	logger   *zap.Logger
	rng      rng.Source
	registry *Registry
	items    *ItemHooks

	level      uint8
	skipRandom bool

	parties   [2][]partyMember
	activeIdx [2]uint8

	field   FieldState
	sides   [2]SideState
	slots   [2]SlotState
	actives [2]ActiveMon

	ctx        Context
	lastResult [2]EffectResult
	turn       int
}

// New builds an engine for the given parties. Structural errors (empty
// parties, invalid rentals, effect-registry validation failures) are
// returned and must prevent the battle from starting.
func New(cfg Config) (*Engine, error) {
	if len(cfg.PartyP1) == 0 || len(cfg.PartyP2) == 0 {
		return nil, fmt.Errorf("battle: both sides need at least one rental")
	}
	if len(cfg.PartyP1) > 6 || len(cfg.PartyP2) > 6 {
		return nil, fmt.Errorf("battle: party larger than six")
	}

	registry, err := NewRegistry()
	if err != nil {
		return nil, err
	}

	level := cfg.Level
	if level == 0 {
		level = 50
	}

	source := cfg.RNG
	if source == nil {
		source = rng.New(cfg.Seed)
	}

	e := &Engine{
		logger:     cfg.Logger,
		rng:        source,
		registry:   registry,
		items:      NewItemHooks(),
		level:      level,
		skipRandom: cfg.SkipRandom,
	}

	load := func(side int, rentals []data.Rental) error {
		for _, r := range rentals {
			mon, _, active, err := SetupRental(r, level)
			if err != nil {
				return err
			}
			e.parties[side] = append(e.parties[side], partyMember{rental: r, mon: mon, active: active})
		}
		return nil
	}
	if err := load(0, cfg.PartyP1); err != nil {
		return nil, err
	}
	if err := load(1, cfg.PartyP2); err != nil {
		return nil, err
	}

	e.field.Reset()
	for s := 0; s < 2; s++ {
		e.sides[s].Reset()
		e.sendIn(s, 0, false)
	}

	if e.logger != nil {
		e.logger.Info("battle started",
			zap.Int("party_p1", len(e.parties[0])),
			zap.Int("party_p2", len(e.parties[1])),
			zap.Uint8("level", level),
		)
	}

	return e, nil
}

// NewSingle is the one-rental-per-side convenience constructor.
func NewSingle(r1, r2 data.Rental, level uint8, seed uint32) (*Engine, error) {
	return New(Config{
		PartyP1: []data.Rental{r1},
		PartyP2: []data.Rental{r2},
		Level:   level,
		Seed:    seed,
	})
}

// activeMember returns the party member currently in a side's slot.
func (e *Engine) activeMember(side int) *partyMember {
	return &e.parties[side][e.activeIdx[side]]
}

// Accessors. All views are read-only for the host; mutating through them
// is outside the engine contract.

// Turn returns the number of completed turns.
func (e *Engine) Turn() int { return e.turn }

// Mon returns the active mon state for a side (0 or 1).
func (e *Engine) Mon(side int) *MonState { return &e.activeMember(side).mon }

// Slot returns a side's slot state.
func (e *Engine) Slot(side int) *SlotState { return &e.slots[side] }

// Side returns a side's team state.
func (e *Engine) Side(side int) *SideState { return &e.sides[side] }

// Active returns a side's active-mon view.
func (e *Engine) Active(side int) *ActiveMon { return &e.actives[side] }

// Field returns the field state.
func (e *Engine) Field() *FieldState { return &e.field }

// LastResult returns the effect result of a side's most recent dispatch.
func (e *Engine) LastResult(side int) EffectResult { return e.lastResult[side] }

// Result samples the battle outcome: a side loses when its whole party
// has fainted.
func (e *Engine) Result() Outcome {
	alive := func(side int) bool {
		for i := range e.parties[side] {
			if !e.parties[side][i].mon.IsFainted() {
				return true
			}
		}
		return false
	}
	p1, p2 := alive(0), alive(1)
	switch {
	case p1 && !p2:
		return OutcomeP1Wins
	case p2 && !p1:
		return OutcomeP2Wins
	default:
		return OutcomeOngoing
	}
}

// populateContext re-aims the context so attacker points at the given
// side. Called every time the acting side changes within a turn.
func (e *Engine) populateContext(attacker int, move *data.Move) {
	defender := 1 - attacker
	e.ctx = Context{
		Field:          &e.field,
		AttackerSide:   &e.sides[attacker],
		DefenderSide:   &e.sides[defender],
		Attacker:       &e.slots[attacker],
		Defender:       &e.slots[defender],
		AttackerMon:    &e.activeMember(attacker).mon,
		DefenderMon:    &e.activeMember(defender).mon,
		AttackerActive: &e.actives[attacker],
		DefenderActive: &e.actives[defender],
		AttackerSlot:   uint8(attacker),
		DefenderSlot:   uint8(defender),
		Move:           move,
		RNG:            e.rng,
		Items:          e.items,
		SkipRandom:     e.skipRandom,
	}
	for s := 0; s < 2; s++ {
		e.ctx.AllSlots[s] = SlotRef{Slot: &e.slots[s], Mon: &e.activeMember(s).mon, ID: uint8(s)}
	}
	e.ctx.SlotCount = 2
	e.ctx.ResetScratch()
}

// validateAction rejects malformed and disallowed actions before any
// state changes.
func (e *Engine) validateAction(side int, act TurnAction) error {
	switch act.Kind {
	case ActionRun:
		// Battle Factory battles cannot be run from.
		return fmt.Errorf("battle: RUN is disallowed")
	case ActionMove:
		if act.MoveIndex > 3 {
			return fmt.Errorf("battle: move index %d out of range", act.MoveIndex)
		}
		member := e.activeMember(side)
		id := member.rental.Moves[act.MoveIndex]
		if id == data.MoveNone {
			return fmt.Errorf("battle: empty move slot %d", act.MoveIndex)
		}
		if _, ok := data.LookupMove(id); !ok {
			return fmt.Errorf("battle: unknown move %d", id)
		}
		// Choice Band locks the holder into its first pick.
		if e.slots[side].HeldItem == data.ItemChoiceBand &&
			e.slots[side].LastMoveUsed != data.MoveNone &&
			id != e.slots[side].LastMoveUsed && !e.slots[side].HasVolatile(VolCharging) {
			return fmt.Errorf("battle: %s is locked into %s", data.ItemChoiceBand, e.slots[side].LastMoveUsed)
		}
	case ActionSwitch:
		if int(act.PartyIndex) >= len(e.parties[side]) {
			return fmt.Errorf("battle: party index %d out of range", act.PartyIndex)
		}
		if act.PartyIndex == e.activeIdx[side] {
			return fmt.Errorf("battle: already active")
		}
		if e.parties[side][act.PartyIndex].mon.IsFainted() {
			return fmt.Errorf("battle: cannot send in a fainted mon")
		}
	default:
		return fmt.Errorf("battle: unknown action kind %d", act.Kind)
	}
	return nil
}

// actionPriority maps an action to its ordering bracket: the move's own
// priority for moves, 6 for switches (they precede every move).
func (e *Engine) actionPriority(side int, act TurnAction) int8 {
	if act.Kind == ActionSwitch {
		return 6
	}
	id := e.chosenMove(side, act)
	if mv, ok := data.LookupMove(id); ok {
		return mv.Priority
	}
	return 0
}

// chosenMove resolves the move id an action will dispatch, honouring an
// in-progress charge lock.
func (e *Engine) chosenMove(side int, act TurnAction) data.MoveID {
	if e.slots[side].HasVolatile(VolCharging) && e.slots[side].ChargingMove != data.MoveNone {
		return e.slots[side].ChargingMove
	}
	return e.activeMember(side).rental.Moves[act.MoveIndex]
}

// determineOrder picks who acts first. Strictly higher priority wins;
// a lone quick-claw trigger breaks the bracket; then effective speed;
// an exact tie is a single uniform coin flip.
func (e *Engine) determineOrder(prio [2]int8, quickClaw [2]bool, speed [2]uint16) int {
	switch {
	case prio[0] > prio[1]:
		return 0
	case prio[1] > prio[0]:
		return 1
	}
	if quickClaw[0] != quickClaw[1] {
		if quickClaw[0] {
			return 0
		}
		return 1
	}
	switch {
	case speed[0] > speed[1]:
		return 0
	case speed[1] > speed[0]:
		return 1
	}
	return int(e.rng.RandBelow(2))
}

// effectiveSpeed computes a side's ordering speed.
func (e *Engine) effectiveSpeed(side int) uint16 {
	paralyzed := e.activeMember(side).mon.Status == StatusParalysis
	return calc.EffectiveSpeed(e.actives[side].Speed, e.slots[side].Stages[StageSpeed], paralyzed)
}

// ExecuteTurn drives one full turn from the pair of chosen actions.
// Both actions are validated before any state changes.
func (e *Engine) ExecuteTurn(actionP1, actionP2 TurnAction) error {
	if e.Result() != OutcomeOngoing {
		return fmt.Errorf("battle: already decided")
	}
	if err := e.validateAction(0, actionP1); err != nil {
		return err
	}
	if err := e.validateAction(1, actionP2); err != nil {
		return err
	}

	actions := [2]TurnAction{actionP1, actionP2}
	e.lastResult = [2]EffectResult{}

	// TurnGenesis: clear per-turn flags, then fire turn-start item hooks.
	for s := 0; s < 2; s++ {
		e.slots[s].ClearTurnFlags()
	}
	var quickClaw [2]bool
	for s := 0; s < 2; s++ {
		e.populateContext(s, nil)
		ev := TurnStartEvent{}
		ref := e.ctx.AllSlots[s]
		e.items.FireTurnStart(&e.ctx, &ref, &ev)
		quickClaw[s] = ev.PriorityBoost
	}

	// PriorityDetermined.
	prio := [2]int8{e.actionPriority(0, actions[0]), e.actionPriority(1, actions[1])}
	speed := [2]uint16{e.effectiveSpeed(0), e.effectiveSpeed(1)}
	first := e.determineOrder(prio, quickClaw, speed)
	second := 1 - first

	if e.logger != nil {
		e.logger.Debug("turn order determined",
			zap.Int("turn", e.turn+1),
			zap.Int("first", first),
			zap.Int8s("priority", prio[:]),
			zap.Bools("quick_claw", quickClaw[:]),
		)
	}

	// ActionsResolving.
	weatherBefore := e.field.Weather
	acted := [2]bool{}
	e.performAction(first, actions, &acted)

	if !acted[second] {
		skip := e.activeMember(second).mon.IsFainted() ||
			e.lastResult[first].SwitchOut || e.lastResult[second].SwitchOut
		if !skip {
			e.performAction(second, actions, &acted)
		}
	}

	// ActionsResolved: turn-end item hooks, then residual effects.
	e.fireTurnEndHooks()
	e.applyResiduals(weatherBefore)

	e.turn++
	return nil
}

// performAction resolves one side's action, including the pursuit
// intercept on switches.
func (e *Engine) performAction(side int, actions [2]TurnAction, acted *[2]bool) {
	act := actions[side]
	acted[side] = true

	if e.activeMember(side).mon.IsFainted() {
		return
	}

	switch act.Kind {
	case ActionSwitch:
		opposing := 1 - side
		if !acted[opposing] && actions[opposing].Kind == ActionMove &&
			!e.activeMember(opposing).mon.IsFainted() {
			id := e.chosenMove(opposing, actions[opposing])
			if mv, ok := data.LookupMove(id); ok && mv.Effect == data.EffectPursuit {
				// Pursuit runs before the switch at doubled power.
				e.executeMove(opposing, actions[opposing], 2*uint16(mv.Power))
				acted[opposing] = true
				if e.activeMember(side).mon.IsFainted() {
					return
				}
			}
		}
		e.sendIn(side, act.PartyIndex, false)
	case ActionMove:
		e.executeMove(side, act, 0)
	}
}

// executeMove populates the context and dispatches the move's effect.
// powerOverride is non-zero only for the pursuit intercept.
func (e *Engine) executeMove(side int, act TurnAction, powerOverride uint16) {
	slot := &e.slots[side]
	defer func() { slot.MovedThisTurn = true }()

	if slot.HasVolatile(VolFlinched) {
		if e.logger != nil {
			e.logger.Debug("flinched", zap.Int("side", side))
		}
		return
	}
	if !e.checkStatusCanMove(side) {
		return
	}

	id := e.chosenMove(side, act)
	mv, ok := data.LookupMove(id)
	if !ok {
		return
	}
	wasCharging := slot.HasVolatile(VolCharging)

	attacker := side
	bounced := false
	defenderSlot := &e.slots[1-side]
	if mv.Flags&data.FlagMagicCoatAffected != 0 && defenderSlot.BounceMove {
		defenderSlot.BounceMove = false
		bounced = true
	}

	e.populateContext(attacker, &mv)
	if bounced {
		e.ctx.SwapRoles()
	}
	if powerOverride != 0 {
		e.ctx.Override.Power = powerOverride
	}

	eff := e.registry.Lookup(mv.Effect)
	eff.Action.Run(&e.ctx)

	e.lastResult[side] = e.ctx.Result

	if e.logger != nil {
		e.logger.Debug("move resolved",
			zap.Int("side", side),
			zap.String("move", mv.Name),
			zap.String("effect", eff.Name),
			zap.Bool("missed", e.ctx.Result.Missed),
			zap.Bool("failed", e.ctx.Result.Failed),
			zap.Uint16("damage", e.ctx.Result.Damage),
		)
	}

	beganCharging := !wasCharging && slot.HasVolatile(VolCharging)
	if !beganCharging {
		slot.LastMoveUsed = id
		if e.activeMember(side).mon.PP[act.MoveIndex] > 0 {
			e.activeMember(side).mon.PP[act.MoveIndex]--
		}
	}

	if e.ctx.Result.SwitchOut {
		e.handleRequestedSwitch(side, e.ctx.Result.BatonPass)
	}
}

// checkStatusCanMove gates a move on the primary status: sleep counts
// down, freeze thaws one time in five, paralysis fully stops one time in
// four.
func (e *Engine) checkStatusCanMove(side int) bool {
	mon := &e.activeMember(side).mon
	switch mon.Status {
	case StatusSleep:
		if mon.SleepTurns > 0 {
			mon.SleepTurns--
		}
		if mon.SleepTurns == 0 {
			mon.Status = StatusNone
			return true
		}
		return false
	case StatusFreeze:
		if e.rng.RandBelow(5) == 0 {
			mon.Status = StatusNone
			return true
		}
		return false
	case StatusParalysis:
		return e.rng.RandBelow(4) != 0
	}
	return true
}

// handleRequestedSwitch fulfils a switch_out result (baton pass or a
// phazing effect) with the next healthy party member. With no replacement
// available the request is dropped.
func (e *Engine) handleRequestedSwitch(side int, batonPass bool) {
	for i := range e.parties[side] {
		if uint8(i) == e.activeIdx[side] || e.parties[side][i].mon.IsFainted() {
			continue
		}
		e.sendIn(side, uint8(i), batonPass)
		return
	}
}

// sendIn swaps a party member into a side's slot, resetting slot state
// (or baton-passing the preserved subset), installing the active view,
// and applying entry hazards.
func (e *Engine) sendIn(side int, partyIdx uint8, batonPass bool) {
	if batonPass {
		e.slots[side].ClearForBatonPass()
	} else {
		e.slots[side].ClearForSwitch()
	}

	e.activeIdx[side] = partyIdx
	member := e.activeMember(side)
	e.slots[side].HeldItem = member.rental.HeldItem
	e.slots[side].ItemConsumed = false
	e.slots[side].IsFirstTurn = true
	e.actives[side] = member.active

	if member.mon.Status == StatusToxic {
		member.mon.ToxicCounter = 1
	}

	e.applySpikes(side)

	if e.logger != nil {
		e.logger.Debug("sent in",
			zap.Int("side", side),
			zap.Uint8("party_index", partyIdx),
			zap.Bool("baton_pass", batonPass),
		)
	}
}

// applySpikes deals entry-hazard damage to a grounded mon on send-in.
func (e *Engine) applySpikes(side int) {
	layers := e.sides[side].SpikesLayers
	if layers == 0 {
		return
	}
	active := &e.actives[side]
	if active.HasType(data.TypeFlying) || active.Ability == data.AbilityLevitate {
		return
	}
	mon := &e.activeMember(side).mon
	var div uint16
	switch layers {
	case 1:
		div = 8
	case 2:
		div = 6
	default:
		div = 4
	}
	dmg := mon.MaxHP / div
	if dmg == 0 {
		dmg = 1
	}
	mon.ApplyDamage(dmg)
}

// fireTurnEndHooks runs held-item turn-end handlers for every living
// battler and applies their payloads.
func (e *Engine) fireTurnEndHooks() {
	for s := 0; s < 2; s++ {
		mon := &e.activeMember(s).mon
		if mon.IsFainted() {
			continue
		}
		e.populateContext(s, nil)
		ref := e.ctx.AllSlots[s]
		ev := TurnEndEvent{}
		e.items.FireTurnEnd(&e.ctx, &ref, &ev)
		if ev.HealAmount > 0 {
			mon.Heal(ev.HealAmount)
		}
		if ev.DamageAmount > 0 {
			mon.ApplyDamage(ev.DamageAmount)
		}
	}
}

// applyResiduals runs the end-of-turn residual phase: weather, status
// damage, leech seed, perish count, and timed field/side effects.
func (e *Engine) applyResiduals(weatherBefore Weather) {
	e.tickWeather(weatherBefore)

	for s := 0; s < 2; s++ {
		mon := &e.activeMember(s).mon
		if mon.IsFainted() {
			continue
		}

		switch mon.Status {
		case StatusBurn:
			mon.ApplyDamage(residual(mon.MaxHP, 8))
		case StatusPoison:
			mon.ApplyDamage(residual(mon.MaxHP, 8))
		case StatusToxic:
			dmg := mon.MaxHP * uint16(mon.ToxicCounter) / 16
			if dmg == 0 {
				dmg = 1
			}
			mon.ApplyDamage(dmg)
			if mon.ToxicCounter < 15 {
				mon.ToxicCounter++
			}
		}

		slot := &e.slots[s]
		if slot.HasVolatile(VolLeechSeed) && slot.LeechSeedTarget != NoSlot && !mon.IsFainted() {
			target := int(slot.LeechSeedTarget)
			if target < 2 {
				seeder := &e.activeMember(target).mon
				if !seeder.IsFainted() {
					drained := mon.ApplyDamage(residual(mon.MaxHP, 8))
					seeder.Heal(drained)
				}
			}
		}

		if slot.HasVolatile(VolPerishSong) && !mon.IsFainted() {
			if slot.PerishCount > 0 {
				slot.PerishCount--
			}
			if slot.PerishCount == 0 {
				mon.CurrentHP = 0
			}
		}
	}

	for s := 0; s < 2; s++ {
		side := &e.sides[s]
		tickTimer(&side.ReflectTurns)
		tickTimer(&side.LightScreenTurns)
		tickTimer(&side.SafeguardTurns)
		tickTimer(&side.MistTurns)
	}

	e.tickDelayedEffects()
}

// tickWeather applies weather chip damage and counts the weather down.
// The counter does not tick on the turn the weather was summoned, and a
// zero counter at set time means the weather is permanent.
func (e *Engine) tickWeather(weatherBefore Weather) {
	if e.field.Weather == WeatherSandstorm || e.field.Weather == WeatherHail {
		for s := 0; s < 2; s++ {
			mon := &e.activeMember(s).mon
			if mon.IsFainted() {
				continue
			}
			active := &e.actives[s]
			immune := false
			if e.field.Weather == WeatherSandstorm {
				immune = active.HasType(data.TypeRock) || active.HasType(data.TypeGround) ||
					active.HasType(data.TypeSteel)
			} else {
				immune = active.HasType(data.TypeIce)
			}
			if !immune {
				mon.ApplyDamage(residual(mon.MaxHP, 16))
			}
		}
	}

	if e.field.Weather != WeatherNone && e.field.Weather == weatherBefore &&
		e.field.WeatherTurns > 0 {
		e.field.WeatherTurns--
		if e.field.WeatherTurns == 0 {
			e.field.Weather = WeatherNone
		}
	}
}

// tickDelayedEffects counts down wish and future-sight slots and lands
// the ones that reach zero.
func (e *Engine) tickDelayedEffects() {
	for i := range e.field.Wishes {
		w := &e.field.Wishes[i]
		if w.TurnsUntilHeal == 0 {
			continue
		}
		w.TurnsUntilHeal--
		if w.TurnsUntilHeal == 0 && w.HPToRestore > 0 {
			// Wish slots are side-indexed by position parity.
			side := i % 2
			mon := &e.activeMember(side).mon
			if !mon.IsFainted() {
				mon.Heal(w.HPToRestore)
			}
			w.HPToRestore = 0
		}
	}

	for i := range e.field.FutureSight {
		f := &e.field.FutureSight[i]
		if f.TurnsUntilLand == 0 {
			continue
		}
		f.TurnsUntilLand--
		if f.TurnsUntilLand == 0 && f.Damage > 0 {
			if f.AttackerSlot != NoSlot && int(f.AttackerSlot) < 2 {
				target := 1 - int(f.AttackerSlot)
				mon := &e.activeMember(target).mon
				if !mon.IsFainted() {
					mon.ApplyDamage(f.Damage)
				}
			}
			f.Damage = 0
		}
	}
}

// residual is the common max-HP fraction with a minimum of 1.
func residual(maxHP, div uint16) uint16 {
	v := maxHP / div
	if v == 0 {
		v = 1
	}
	return v
}

func tickTimer(t *uint8) {
	if *t > 0 {
		*t--
	}
}
