// Package server exposes the battle manager over REST and websocket.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/moo-zh/battlemon/internal/battle"
	"github.com/moo-zh/battlemon/internal/config"
	"github.com/moo-zh/battlemon/internal/data"
	"github.com/moo-zh/battlemon/internal/repository"
)

// Server handles the REST surface.
type Server struct {
	cfg     config.ServerConfig
	manager *battle.Manager
	records *repository.BattleRepository // nil disables persistence
	level   uint8
	logger  *zap.Logger
}

// NewServer creates the REST server.
func NewServer(cfg config.ServerConfig, manager *battle.Manager, records *repository.BattleRepository, level uint8, logger *zap.Logger) *Server {
	return &Server{
		cfg:     cfg,
		manager: manager,
		records: records,
		level:   level,
		logger:  logger,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/battles", s.handleCreateBattle).Methods(http.MethodPost)
	r.HandleFunc("/api/battles/{id}", s.handleGetBattle).Methods(http.MethodGet)
	r.HandleFunc("/api/battles/{id}/turn", s.handleTurn).Methods(http.MethodPost)
	return r
}

// ListenAndServe blocks serving the REST API until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.HTTP.Address,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.HTTP.ReadTimeout,
		WriteTimeout: s.cfg.HTTP.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if s.logger != nil {
		s.logger.Info("http server listening", zap.String("address", s.cfg.HTTP.Address))
	}
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// RentalRequest is the wire form of a rental descriptor.
type RentalRequest struct {
	Species     uint16    `json:"species"`
	Moves       [4]uint16 `json:"moves"`
	Item        uint8     `json:"item"`
	Nature      uint8     `json:"nature"`
	EVBits      uint8     `json:"ev_bits"`
	AbilitySlot uint8     `json:"ability_slot"`
}

// CreateBattleRequest starts a battle between two parties.
type CreateBattleRequest struct {
	PartyP1 []RentalRequest `json:"party_p1"`
	PartyP2 []RentalRequest `json:"party_p2"`
	Seed    uint32          `json:"seed"`
}

// ActionRequest is the wire form of a turn action.
type ActionRequest struct {
	Kind       string `json:"kind"` // "move", "switch", "run"
	MoveIndex  uint8  `json:"move_index"`
	PartyIndex uint8  `json:"party_index"`
}

// TurnRequest carries both sides' actions.
type TurnRequest struct {
	ActionP1 ActionRequest `json:"action_p1"`
	ActionP2 ActionRequest `json:"action_p2"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateBattle(w http.ResponseWriter, r *http.Request) {
	var req CreateBattleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p1, err := parseRentals(req.PartyP1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p2, err := parseRentals(req.PartyP2)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.manager.CreateBattle(battle.Config{
		PartyP1: p1,
		PartyP2: p2,
		Level:   s.level,
		Seed:    req.Seed,
		Logger:  s.logger,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.manager.View(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetBattle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	view, err := s.manager.View(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a1, err := parseAction(req.ActionP1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a2, err := parseAction(req.ActionP2)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := s.manager.SubmitTurn(id, a1, a2)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.manager.View(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if outcome != battle.OutcomeOngoing {
		s.recordResult(r.Context(), id, outcome, view)
	}

	writeJSON(w, http.StatusOK, view)
}

// recordResult persists a finished battle when a repository is attached.
func (s *Server) recordResult(ctx context.Context, id string, outcome battle.Outcome, view battle.BattleView) {
	if s.records == nil {
		return
	}
	rec := repository.BattleRecord{
		BattleID:  id,
		Winner:    int(outcome),
		Turns:     view.Turn,
		SpeciesP1: view.Players[0].Mon.Species,
		SpeciesP2: view.Players[1].Mon.Species,
		EndedAt:   time.Now().UTC(),
	}
	if err := s.records.RecordResult(ctx, rec); err != nil && s.logger != nil {
		s.logger.Warn("failed to record battle result",
			zap.String("battle_id", id),
			zap.Error(err),
		)
	}
}

func parseRentals(reqs []RentalRequest) ([]data.Rental, error) {
	out := make([]data.Rental, 0, len(reqs))
	for _, rr := range reqs {
		r, err := battle.ParseRental(rr.Species, rr.Moves, rr.Item, rr.Nature, rr.EVBits, rr.AbilitySlot)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parseAction(req ActionRequest) (battle.TurnAction, error) {
	switch req.Kind {
	case "move":
		return battle.MoveAction(req.MoveIndex), nil
	case "switch":
		return battle.SwitchAction(req.PartyIndex), nil
	case "run":
		return battle.TurnAction{Kind: battle.ActionRun}, nil
	default:
		return battle.TurnAction{}, fmt.Errorf("unknown action kind %q", req.Kind)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
