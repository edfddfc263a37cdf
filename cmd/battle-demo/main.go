// Command battle-demo runs a scripted Battle Factory battle in the
// terminal and prints the turn-by-turn state.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/moo-zh/battlemon/internal/battle"
	"github.com/moo-zh/battlemon/internal/data"
)

var (
	seed    = flag.Uint("seed", 1, "PRNG seed (0 = platform entropy)")
	verbose = flag.Bool("v", false, "enable debug logging")
)

func main() {
	flag.Parse()

	var logger *zap.Logger
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
		logger = l
		defer logger.Sync()
	}

	p1 := data.Rental{
		Species:      data.SpeciesSalamence,
		Moves:        [4]data.MoveID{data.MoveDragonClaw, data.MoveEarthquake, data.MoveFlamethrower, data.MoveSwordsDance},
		HeldItem:     data.ItemLeftovers,
		Nature:       data.NatureAdamant,
		EVSpreadBits: 1<<data.BaseAttack | 1<<data.BaseSpeed,
	}
	p2 := data.Rental{
		Species:      data.SpeciesMetagross,
		Moves:        [4]data.MoveID{data.MoveIronTail, data.MovePsychic, data.MoveReflect, data.MoveIceBeam},
		HeldItem:     data.ItemQuickClaw,
		Nature:       data.NatureAdamant,
		EVSpreadBits: 1<<data.BaseHP | 1<<data.BaseAttack,
	}

	engine, err := battle.New(battle.Config{
		PartyP1: []data.Rental{p1},
		PartyP2: []data.Rental{p2},
		Level:   50,
		Seed:    uint32(*seed),
		Logger:  logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start battle: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%v vs %v\n\n", data.SpeciesSalamence, data.SpeciesMetagross)

	script := [][2]battle.TurnAction{
		{battle.MoveAction(3), battle.MoveAction(2)}, // Swords Dance vs Reflect
		{battle.MoveAction(1), battle.MoveAction(3)}, // Earthquake vs Ice Beam
		{battle.MoveAction(0), battle.MoveAction(1)},
		{battle.MoveAction(0), battle.MoveAction(1)},
		{battle.MoveAction(2), battle.MoveAction(0)},
	}

	for i, pair := range script {
		if engine.Result() != battle.OutcomeOngoing {
			break
		}
		if err := engine.ExecuteTurn(pair[0], pair[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Turn %d failed: %v\n", i+1, err)
			os.Exit(1)
		}
		printTurn(engine, i+1)
	}

	fmt.Printf("Result: %s\n", engine.Result())
}

func printTurn(e *battle.Engine, turn int) {
	fmt.Printf("--- turn %d ---\n", turn)
	for s := 0; s < 2; s++ {
		mon := e.Mon(s)
		fmt.Printf("  p%d: %3d/%3d HP  status=%s  atk_stage=%+d\n",
			s+1, mon.CurrentHP, mon.MaxHP, mon.Status, e.Slot(s).Stages[0])
	}
	if e.Field().Weather != battle.WeatherNone {
		fmt.Printf("  weather: %s (%d turns)\n", e.Field().Weather, e.Field().WeatherTurns)
	}
}
