package battle

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moo-zh/battlemon/internal/data"
)

// Manager tracks live battles for the host surface. The engines themselves
// are single-threaded; the manager serialises access per battle.
type Manager struct {
	logger *zap.Logger

	mu      sync.RWMutex
	battles map[string]*managedBattle
}

type managedBattle struct {
	mu     sync.Mutex
	engine *Engine
}

// NewManager creates a battle manager.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		logger:  logger,
		battles: make(map[string]*managedBattle),
	}
}

// CreateBattle builds an engine for the given parties and returns its id.
func (m *Manager) CreateBattle(cfg Config) (string, error) {
	engine, err := New(cfg)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()

	m.mu.Lock()
	m.battles[id] = &managedBattle{engine: engine}
	m.mu.Unlock()

	if m.logger != nil {
		m.logger.Info("battle created",
			zap.String("battle_id", id),
			zap.Int("party_p1", len(cfg.PartyP1)),
			zap.Int("party_p2", len(cfg.PartyP2)),
		)
	}

	return id, nil
}

func (m *Manager) get(id string) (*managedBattle, error) {
	m.mu.RLock()
	b, ok := m.battles[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("battle %s not found", id)
	}
	return b, nil
}

// SubmitTurn executes one turn of the identified battle and returns the
// outcome afterwards.
func (m *Manager) SubmitTurn(id string, actionP1, actionP2 TurnAction) (Outcome, error) {
	b, err := m.get(id)
	if err != nil {
		return OutcomeOngoing, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.engine.ExecuteTurn(actionP1, actionP2); err != nil {
		return b.engine.Result(), err
	}

	outcome := b.engine.Result()
	if m.logger != nil {
		m.logger.Debug("turn executed",
			zap.String("battle_id", id),
			zap.Int("turn", b.engine.Turn()),
			zap.String("outcome", outcome.String()),
		)
	}
	return outcome, nil
}

// View returns a snapshot of the identified battle.
func (m *Manager) View(id string) (BattleView, error) {
	b, err := m.get(id)
	if err != nil {
		return BattleView{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return buildView(id, b.engine), nil
}

// EndBattle drops a battle from the manager.
func (m *Manager) EndBattle(id string) {
	m.mu.Lock()
	delete(m.battles, id)
	m.mu.Unlock()

	if m.logger != nil {
		m.logger.Info("battle ended", zap.String("battle_id", id))
	}
}

// ParseRental converts a wire rental descriptor into the data form,
// validating the species and moves exist.
func ParseRental(species uint16, moves [4]uint16, item uint8, nature uint8, evBits uint8, abilitySlot uint8) (data.Rental, error) {
	r := data.Rental{
		Species:      data.Species(species),
		HeldItem:     data.Item(item),
		Nature:       data.Nature(nature),
		EVSpreadBits: evBits,
		AbilitySlot:  abilitySlot,
	}
	if _, ok := data.LookupSpecies(r.Species); !ok {
		return data.Rental{}, fmt.Errorf("unknown species %d", species)
	}
	if r.Nature >= data.NatureCount {
		return data.Rental{}, fmt.Errorf("unknown nature %d", nature)
	}
	for i, mv := range moves {
		id := data.MoveID(mv)
		if id != data.MoveNone {
			if _, ok := data.LookupMove(id); !ok {
				return data.Rental{}, fmt.Errorf("unknown move %d", mv)
			}
		}
		r.Moves[i] = id
	}
	return r, nil
}
