package battle

import "github.com/moo-zh/battlemon/internal/data"

// JSON view types for the host surface. Views are plain snapshots; they
// carry no references back into engine state.

// MonView is the host-facing mon snapshot.
type MonView struct {
	Species   string `json:"species"`
	CurrentHP uint16 `json:"current_hp"`
	MaxHP     uint16 `json:"max_hp"`
	Status    string `json:"status"`
	Fainted   bool   `json:"fainted"`
}

// SlotView is the host-facing slot snapshot.
type SlotView struct {
	Stages       [7]int8 `json:"stages"`
	SubstituteHP uint16  `json:"substitute_hp"`
	PerishCount  uint8   `json:"perish_count"`
	LastMoveUsed string  `json:"last_move_used"`
	HeldItem     string  `json:"held_item"`
	Charging     bool    `json:"charging"`
	Confused     bool    `json:"confused"`
}

// SideView is the host-facing side snapshot.
type SideView struct {
	ReflectTurns     uint8 `json:"reflect_turns"`
	LightScreenTurns uint8 `json:"light_screen_turns"`
	SafeguardTurns   uint8 `json:"safeguard_turns"`
	MistTurns        uint8 `json:"mist_turns"`
	SpikesLayers     uint8 `json:"spikes_layers"`
}

// PlayerView groups one player's visible state.
type PlayerView struct {
	Mon       MonView   `json:"mon"`
	Slot      SlotView  `json:"slot"`
	Side      SideView  `json:"side"`
	PartyLeft int       `json:"party_left"`
	Moves     []string  `json:"moves"`
}

// BattleView is the full battle snapshot the server serialises.
type BattleView struct {
	BattleID     string        `json:"battle_id"`
	Turn         int           `json:"turn"`
	Weather      string        `json:"weather"`
	WeatherTurns uint8         `json:"weather_turns"`
	Outcome      string        `json:"outcome"`
	Players      [2]PlayerView `json:"players"`
}

func buildView(id string, e *Engine) BattleView {
	v := BattleView{
		BattleID:     id,
		Turn:         e.Turn(),
		Weather:      e.Field().Weather.String(),
		WeatherTurns: e.Field().WeatherTurns,
		Outcome:      e.Result().String(),
	}

	for s := 0; s < 2; s++ {
		member := e.activeMember(s)
		mon := &member.mon
		slot := e.Slot(s)
		side := e.Side(s)

		row, _ := data.LookupSpecies(member.rental.Species)

		left := 0
		for i := range e.parties[s] {
			if !e.parties[s][i].mon.IsFainted() {
				left++
			}
		}

		moves := make([]string, 0, 4)
		for _, mv := range member.rental.Moves {
			if mv != data.MoveNone {
				moves = append(moves, mv.String())
			}
		}

		v.Players[s] = PlayerView{
			Mon: MonView{
				Species:   row.Name,
				CurrentHP: mon.CurrentHP,
				MaxHP:     mon.MaxHP,
				Status:    mon.Status.String(),
				Fainted:   mon.IsFainted(),
			},
			Slot: SlotView{
				Stages:       slot.Stages,
				SubstituteHP: slot.SubstituteHP,
				PerishCount:  slot.PerishCount,
				LastMoveUsed: slot.LastMoveUsed.String(),
				HeldItem:     slot.HeldItem.String(),
				Charging:     slot.HasVolatile(VolCharging),
				Confused:     slot.HasVolatile(VolConfused),
			},
			Side: SideView{
				ReflectTurns:     side.ReflectTurns,
				LightScreenTurns: side.LightScreenTurns,
				SafeguardTurns:   side.SafeguardTurns,
				MistTurns:        side.MistTurns,
				SpikesLayers:     side.SpikesLayers,
			},
			PartyLeft: left,
			Moves:     moves,
		}
	}

	return v
}
