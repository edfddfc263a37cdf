package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moo-zh/battlemon/internal/data"
)

func TestManager_BattleLifecycle(t *testing.T) {
	m := NewManager(nil)

	id, err := m.CreateBattle(Config{
		PartyP1: []data.Rental{fastAttacker(data.MovePound)},
		PartyP2: []data.Rental{slowDefender(data.MovePound)},
		Seed:    7,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	view, err := m.View(id)
	require.NoError(t, err)
	assert.Equal(t, id, view.BattleID)
	assert.Equal(t, "ONGOING", view.Outcome)
	assert.Equal(t, "Kangaskhan", view.Players[0].Mon.Species)

	outcome, err := m.SubmitTurn(id, MoveAction(0), MoveAction(0))
	require.NoError(t, err)
	assert.Equal(t, OutcomeOngoing, outcome)

	view, err = m.View(id)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Turn)
	assert.Less(t, view.Players[1].Mon.CurrentHP, view.Players[1].Mon.MaxHP)

	m.EndBattle(id)
	_, err = m.View(id)
	assert.Error(t, err)
}

func TestManager_UnknownBattle(t *testing.T) {
	m := NewManager(nil)
	_, err := m.SubmitTurn("missing", MoveAction(0), MoveAction(0))
	assert.Error(t, err)
}

func TestManager_RejectsInvalidConfig(t *testing.T) {
	m := NewManager(nil)
	_, err := m.CreateBattle(Config{})
	assert.Error(t, err)
}

func TestParseRental(t *testing.T) {
	r, err := ParseRental(uint16(data.SpeciesGengar),
		[4]uint16{uint16(data.MoveShadowBall), uint16(data.MoveThunderWave), 0, 0},
		uint8(data.ItemLeftovers), uint8(data.NatureTimid), 0x09, 0)
	require.NoError(t, err)
	assert.Equal(t, data.SpeciesGengar, r.Species)
	assert.Equal(t, data.MoveShadowBall, r.Moves[0])
	assert.Equal(t, data.MoveNone, r.Moves[2])

	_, err = ParseRental(9999, [4]uint16{}, 0, 0, 0, 0)
	assert.Error(t, err, "unknown species")

	_, err = ParseRental(uint16(data.SpeciesGengar), [4]uint16{65000, 0, 0, 0}, 0, 0, 0, 0)
	assert.Error(t, err, "unknown move")

	_, err = ParseRental(uint16(data.SpeciesGengar), [4]uint16{}, 0, 99, 0, 0)
	assert.Error(t, err, "unknown nature")
}
