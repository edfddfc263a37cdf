package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moo-zh/battlemon/internal/battle/calc"
	"github.com/moo-zh/battlemon/internal/data"
)

// fastAttacker is a Kangaskhan set: 90 base speed, normal type.
func fastAttacker(moves ...data.MoveID) data.Rental {
	r := data.Rental{Species: data.SpeciesKangaskhan, Nature: data.NatureHardy}
	copy(r.Moves[:], moves)
	return r
}

// slowDefender is a Snorlax set: 30 base speed, normal type.
func slowDefender(moves ...data.MoveID) data.Rental {
	r := data.Rental{Species: data.SpeciesSnorlax, Nature: data.NatureHardy}
	copy(r.Moves[:], moves)
	return r
}

func newTestEngine(t *testing.T, p1, p2 data.Rental, draws ...uint16) *Engine {
	t.Helper()
	e, err := New(Config{
		PartyP1:    []data.Rental{p1},
		PartyP2:    []data.Rental{p2},
		Level:      50,
		RNG:        rngScripted(draws...),
		SkipRandom: true,
	})
	require.NoError(t, err)
	return e
}

func TestEngine_BasicHit(t *testing.T) {
	// Draws: p1 accuracy, p1 crit, p2 accuracy, p2 crit.
	e := newTestEngine(t,
		fastAttacker(data.MovePound),
		slowDefender(data.MovePound),
		0, 1, 0, 1)

	hpBefore := e.Mon(1).CurrentHP

	want := calc.Damage(calc.DamageInputs{
		Level:         50,
		Power:         40,
		Attack:        e.Active(0).Attack,
		Defense:       e.Active(1).Defense,
		MoveType:      data.TypeNormal,
		AttackerType1: data.TypeNormal,
		DefenderType1: data.TypeNormal,
		SkipRandom:    true,
	}, rngScripted(0))

	require.NoError(t, e.ExecuteTurn(MoveAction(0), MoveAction(0)))

	res := e.LastResult(0)
	assert.False(t, res.Missed)
	assert.False(t, res.Critical)
	assert.Equal(t, want.Damage, res.Damage)
	assert.Equal(t, uint16(calc.DualNeutral), res.Effectiveness)
	assert.Equal(t, hpBefore-want.Damage, e.Mon(1).CurrentHP)
	assert.Equal(t, OutcomeOngoing, e.Result())
}

func TestEngine_DragonRage(t *testing.T) {
	e := newTestEngine(t,
		fastAttacker(data.MoveDragonRage),
		slowDefender(data.MoveSafeguard),
		0, 0, 0)

	hpBefore := e.Mon(1).CurrentHP
	require.NoError(t, e.ExecuteTurn(MoveAction(0), MoveAction(0)))

	// Exactly 40, regardless of stats and types.
	assert.Equal(t, hpBefore-40, e.Mon(1).CurrentHP)
	assert.Equal(t, uint16(40), e.LastResult(0).Damage)
}

func TestEngine_DragonRage_FaintSkipsSecondAction(t *testing.T) {
	e := newTestEngine(t,
		fastAttacker(data.MoveDragonRage),
		slowDefender(data.MovePound),
		0, 0, 0, 0)

	e.Mon(1).CurrentHP = 30
	p1Before := e.Mon(0).CurrentHP

	require.NoError(t, e.ExecuteTurn(MoveAction(0), MoveAction(0)))

	assert.True(t, e.Mon(1).IsFainted())
	// The fainted side's action never fires.
	assert.Equal(t, p1Before, e.Mon(0).CurrentHP)
	assert.Equal(t, OutcomeP1Wins, e.Result())
}

func TestEngine_SwordsDanceDoublesDamage(t *testing.T) {
	e := newTestEngine(t,
		fastAttacker(data.MoveSwordsDance, data.MovePound),
		slowDefender(data.MoveSafeguard, data.MoveSafeguard),
		// Turn 1: no draws. Turn 2: p1 accuracy + crit.
		0, 1, 0, 1)

	require.NoError(t, e.ExecuteTurn(MoveAction(0), MoveAction(0)))
	assert.Equal(t, int8(2), e.Slot(0).Stages[StageAtk], "swords dance should go 0 -> +2")

	baseline := calc.Damage(calc.DamageInputs{
		Level: 50, Power: 40,
		Attack: e.Active(0).Attack, Defense: e.Active(1).Defense,
		MoveType: data.TypeNormal, AttackerType1: data.TypeNormal,
		DefenderType1: data.TypeNormal, SkipRandom: true,
	}, rngScripted(0))
	boosted := calc.Damage(calc.DamageInputs{
		Level: 50, Power: 40,
		Attack: e.Active(0).Attack, Defense: e.Active(1).Defense,
		AttackStage: 2,
		MoveType:    data.TypeNormal, AttackerType1: data.TypeNormal,
		DefenderType1: data.TypeNormal, SkipRandom: true,
	}, rngScripted(0))

	require.NoError(t, e.ExecuteTurn(MoveAction(1), MoveAction(1)))
	assert.Equal(t, boosted.Damage, e.LastResult(0).Damage)

	// The +2 multiplier is 2/1, so the boosted hit is within rounding of
	// double the baseline.
	assert.InDelta(t, float64(2*baseline.Damage), float64(boosted.Damage), 4)
}

func TestEngine_SandstormAndRepeatFails(t *testing.T) {
	e := newTestEngine(t,
		fastAttacker(data.MoveSandstorm),
		slowDefender(data.MoveSandstorm))

	require.NoError(t, e.ExecuteTurn(MoveAction(0), MoveAction(0)))

	// p1 is faster: its sandstorm lands, p2's fails with state unchanged.
	assert.Equal(t, WeatherSandstorm, e.Field().Weather)
	assert.Equal(t, uint8(5), e.Field().WeatherTurns, "counter must not tick on the summoning turn")
	assert.False(t, e.LastResult(0).Failed)
	assert.True(t, e.LastResult(1).Failed)

	// Both normal-types took sandstorm chip damage at turn end.
	assert.Equal(t, e.Mon(0).MaxHP-e.Mon(0).MaxHP/16, e.Mon(0).CurrentHP)

	// The counter ticks on following turns.
	require.NoError(t, e.ExecuteTurn(MoveAction(0), MoveAction(0)))
	assert.Equal(t, uint8(4), e.Field().WeatherTurns)
}

func TestEngine_HazeClearsAllStages(t *testing.T) {
	e := newTestEngine(t,
		fastAttacker(data.MoveHaze),
		slowDefender(data.MoveRecover))

	e.Slot(0).Stages[StageAtk] = 3
	e.Slot(1).Stages[StageDef] = -2

	require.NoError(t, e.ExecuteTurn(MoveAction(0), MoveAction(0)))

	for s := 0; s < 2; s++ {
		for i, v := range e.Slot(s).Stages {
			assert.Zero(t, v, "slot %d stage %s", s, StageName(i))
		}
	}
}

func TestEngine_QuickClawReversesOrder(t *testing.T) {
	p1 := slowDefender(data.MoveBite)
	p1.HeldItem = data.ItemQuickClaw
	p2 := fastAttacker(data.MoveBite)

	// Draws: quick claw (0 of 5 = trigger), p1 accuracy, p1 crit,
	// p1 flinch roll (0 < 30). p2 is flinched and never draws.
	e := newTestEngine(t, p1, p2, 0, 0, 1, 0)

	require.NoError(t, e.ExecuteTurn(MoveAction(0), MoveAction(0)))

	// The slower quick-claw holder moved first and flinched the fast side.
	assert.Equal(t, e.Mon(0).MaxHP, e.Mon(0).CurrentHP, "p1 should be untouched")
	assert.Less(t, e.Mon(1).CurrentHP, e.Mon(1).MaxHP, "p2 should have been hit")
}

func TestEngine_WithoutQuickClawFastSideMovesFirst(t *testing.T) {
	// Same matchup, no item: p2 (faster) flinches p1 instead.
	e := newTestEngine(t,
		slowDefender(data.MoveBite),
		fastAttacker(data.MoveBite),
		0, 1, 0)

	require.NoError(t, e.ExecuteTurn(MoveAction(0), MoveAction(0)))

	assert.Equal(t, e.Mon(1).MaxHP, e.Mon(1).CurrentHP, "p2 should be untouched")
	assert.Less(t, e.Mon(0).CurrentHP, e.Mon(0).MaxHP, "p1 should have been hit")
}

func TestEngine_DetermineOrder(t *testing.T) {
	e := newTestEngine(t, fastAttacker(data.MovePound), slowDefender(data.MovePound))

	// Priority dominates speed.
	assert.Equal(t, 0, e.determineOrder([2]int8{1, 0}, [2]bool{}, [2]uint16{10, 200}))
	assert.Equal(t, 1, e.determineOrder([2]int8{0, 1}, [2]bool{}, [2]uint16{200, 10}))

	// Quick claw breaks ties within a bracket only.
	assert.Equal(t, 1, e.determineOrder([2]int8{0, 0}, [2]bool{false, true}, [2]uint16{200, 10}))
	assert.Equal(t, 0, e.determineOrder([2]int8{1, 0}, [2]bool{false, true}, [2]uint16{10, 200}))

	// Speed decides inside the bracket; no coin flip is consumed.
	assert.Equal(t, 0, e.determineOrder([2]int8{0, 0}, [2]bool{}, [2]uint16{120, 80}))
	assert.Equal(t, 1, e.determineOrder([2]int8{0, 0}, [2]bool{}, [2]uint16{80, 120}))
}

func TestEngine_RunIsRejected(t *testing.T) {
	e := newTestEngine(t, fastAttacker(data.MovePound), slowDefender(data.MovePound))
	err := e.ExecuteTurn(TurnAction{Kind: ActionRun}, MoveAction(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RUN")
}

func TestEngine_InvalidActions(t *testing.T) {
	e := newTestEngine(t, fastAttacker(data.MovePound), slowDefender(data.MovePound))

	assert.Error(t, e.ExecuteTurn(MoveAction(7), MoveAction(0)), "move index out of range")
	assert.Error(t, e.ExecuteTurn(MoveAction(1), MoveAction(0)), "empty move slot")
	assert.Error(t, e.ExecuteTurn(SwitchAction(0), MoveAction(0)), "switching to the active slot")
	assert.Error(t, e.ExecuteTurn(SwitchAction(3), MoveAction(0)), "party index out of range")
}

func TestEngine_PursuitInterceptsSwitch(t *testing.T) {
	pursuer := fastAttacker(data.MovePursuit)
	switcher := slowDefender(data.MovePound)

	e, err := New(Config{
		PartyP1:    []data.Rental{pursuer},
		PartyP2:    []data.Rental{switcher, slowDefender(data.MovePound)},
		Level:      50,
		RNG:        rngScripted(0, 1),
		SkipRandom: true,
	})
	require.NoError(t, err)

	outgoing := e.Mon(1) // party slot 0's mon persists through the switch
	hpBefore := outgoing.CurrentHP

	doubled := calc.Damage(calc.DamageInputs{
		Level: 50, Power: 80, // pursuit 40 doubled on intercept
		// Dark is a special type: the special stat pair applies.
		Attack: e.Active(0).SpAttack, Defense: e.Active(1).SpDefense,
		MoveType: data.TypeDark, AttackerType1: data.TypeNormal,
		DefenderType1: data.TypeNormal, SkipRandom: true,
	}, rngScripted(0))

	require.NoError(t, e.ExecuteTurn(MoveAction(0), SwitchAction(1)))

	// The switch completed, and the outgoing mon was hit at doubled power
	// on its way out.
	assert.Equal(t, hpBefore-doubled.Damage, e.parties[1][0].mon.CurrentHP)
	assert.Equal(t, uint8(1), e.activeIdx[1])
	assert.True(t, e.LastResult(0).PursuitIntercept)
}

func TestEngine_MagicCoatBouncesStatusMove(t *testing.T) {
	e := newTestEngine(t,
		slowDefender(data.MoveMagicCoat),
		fastAttacker(data.MoveThunderWave),
		// Magic Coat has +4 priority, so p1 arms the bounce first; then
		// p2's thunder wave draws accuracy and lands on p2 itself.
		0)

	require.NoError(t, e.ExecuteTurn(MoveAction(0), MoveAction(0)))

	assert.Equal(t, StatusParalysis, e.Mon(1).Status, "bounced move should hit its user")
	assert.Equal(t, StatusNone, e.Mon(0).Status)
	assert.False(t, e.Slot(0).BounceMove, "bounce is consumed")
}

func TestEngine_BatonPassPreservesStages(t *testing.T) {
	e, err := New(Config{
		PartyP1: []data.Rental{
			fastAttacker(data.MoveSwordsDance, data.MoveBatonPass),
			fastAttacker(data.MovePound),
		},
		PartyP2:    []data.Rental{slowDefender(data.MoveRecover)},
		Level:      50,
		RNG:        rngScripted(0),
		SkipRandom: true,
	})
	require.NoError(t, err)

	require.NoError(t, e.ExecuteTurn(MoveAction(0), MoveAction(0)))
	require.Equal(t, int8(2), e.Slot(0).Stages[StageAtk])

	require.NoError(t, e.ExecuteTurn(MoveAction(1), MoveAction(0)))

	assert.Equal(t, uint8(1), e.activeIdx[0], "baton pass should bring in the replacement")
	assert.Equal(t, int8(2), e.Slot(0).Stages[StageAtk], "stages ride the baton")
}

func TestEngine_PoisonAndToxicResiduals(t *testing.T) {
	e := newTestEngine(t,
		fastAttacker(data.MoveRecover),
		slowDefender(data.MoveSafeguard))

	e.Mon(1).Status = StatusPoison
	hp := e.Mon(1).CurrentHP
	require.NoError(t, e.ExecuteTurn(MoveAction(0), MoveAction(0)))
	assert.Equal(t, hp-e.Mon(1).MaxHP/8, e.Mon(1).CurrentHP)

	// Toxic ramps with its counter.
	e.Mon(1).Status = StatusToxic
	e.Mon(1).ToxicCounter = 1
	hp = e.Mon(1).CurrentHP
	require.NoError(t, e.ExecuteTurn(MoveAction(0), MoveAction(0)))
	assert.Equal(t, hp-e.Mon(1).MaxHP/16, e.Mon(1).CurrentHP)
	assert.Equal(t, uint8(2), e.Mon(1).ToxicCounter)

	hp = e.Mon(1).CurrentHP
	require.NoError(t, e.ExecuteTurn(MoveAction(0), MoveAction(0)))
	assert.Equal(t, hp-e.Mon(1).MaxHP*2/16, e.Mon(1).CurrentHP)
}

func TestEngine_PerishSongCountdown(t *testing.T) {
	e := newTestEngine(t,
		fastAttacker(data.MovePerishSong, data.MoveRecover),
		slowDefender(data.MoveRecover))

	require.NoError(t, e.ExecuteTurn(MoveAction(0), MoveAction(0)))
	assert.Equal(t, uint8(2), e.Slot(0).PerishCount, "count ticks at the end of the singing turn")

	require.NoError(t, e.ExecuteTurn(MoveAction(1), MoveAction(0)))
	require.NoError(t, e.ExecuteTurn(MoveAction(1), MoveAction(0)))

	assert.True(t, e.Mon(0).IsFainted())
	assert.True(t, e.Mon(1).IsFainted())
}

func TestEngine_LeftoversHealAtTurnEnd(t *testing.T) {
	holder := fastAttacker(data.MoveRecover)
	holder.HeldItem = data.ItemLeftovers

	e := newTestEngine(t, holder, slowDefender(data.MoveRecover))
	e.Mon(0).CurrentHP = 50

	// Recover heals half max first; leftovers add max/16 at turn end.
	require.NoError(t, e.ExecuteTurn(MoveAction(0), MoveAction(0)))

	// 50 + max/2 stays below max, so the leftovers heal shows in the total.
	expected := uint16(50) + e.Mon(0).MaxHP/2 + e.Mon(0).MaxHP/16
	assert.Equal(t, expected, e.Mon(0).CurrentHP)
}

func TestEngine_SpikesDamageOnSwitchIn(t *testing.T) {
	e, err := New(Config{
		PartyP1: []data.Rental{fastAttacker(data.MoveSpikes)},
		PartyP2: []data.Rental{
			slowDefender(data.MoveRecover),
			slowDefender(data.MoveRecover),
		},
		Level:      50,
		RNG:        rngScripted(0),
		SkipRandom: true,
	})
	require.NoError(t, err)

	require.NoError(t, e.ExecuteTurn(MoveAction(0), MoveAction(0)))
	require.Equal(t, uint8(1), e.Side(1).SpikesLayers)

	require.NoError(t, e.ExecuteTurn(MoveAction(0), SwitchAction(1)))

	incoming := &e.parties[1][1].mon
	assert.Equal(t, incoming.MaxHP-incoming.MaxHP/8, incoming.CurrentHP,
		"one layer costs 1/8 max HP on entry")
	assert.Equal(t, uint8(2), e.Side(1).SpikesLayers)
}

func TestEngine_DeterministicReplay(t *testing.T) {
	run := func() []uint16 {
		e, err := New(Config{
			PartyP1: []data.Rental{fastAttacker(data.MovePound, data.MoveSwordsDance)},
			PartyP2: []data.Rental{slowDefender(data.MoveBite, data.MoveRecover)},
			Level:   50,
			Seed:    0xCAFE,
		})
		require.NoError(t, err)

		var trace []uint16
		script := [][2]TurnAction{
			{MoveAction(1), MoveAction(0)},
			{MoveAction(0), MoveAction(0)},
			{MoveAction(0), MoveAction(1)},
		}
		for _, pair := range script {
			if e.Result() != OutcomeOngoing {
				break
			}
			require.NoError(t, e.ExecuteTurn(pair[0], pair[1]))
			trace = append(trace, e.Mon(0).CurrentHP, e.Mon(1).CurrentHP)
		}
		return trace
	}

	assert.Equal(t, run(), run(), "same seed and actions must replay bit-identically")
}
