package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/moo-zh/battlemon/internal/battle"
	"github.com/moo-zh/battlemon/internal/config"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

// WSMessage is the websocket envelope in both directions.
type WSMessage struct {
	Type     string          `json:"type"`
	BattleID string          `json:"battle_id,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type wsClient struct {
	conn     *websocket.Conn
	send     chan []byte
	battleID string
}

// WSServer streams battle views to spectating clients and accepts turn
// submissions over the socket.
type WSServer struct {
	cfg     config.WebSocketConfig
	manager *battle.Manager
	logger  *zap.Logger

	mu      sync.RWMutex
	clients map[*wsClient]bool
}

// NewWSServer creates the websocket server.
func NewWSServer(cfg config.WebSocketConfig, manager *battle.Manager, logger *zap.Logger) *WSServer {
	return &WSServer{
		cfg:     cfg,
		manager: manager,
		logger:  logger,
		clients: make(map[*wsClient]bool),
	}
}

// ListenAndServe blocks serving the websocket endpoint until the context
// ends.
func (s *WSServer) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.Path, s.handleWS)

	srv := &http.Server{Addr: s.cfg.Address, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if s.logger != nil {
		s.logger.Info("websocket server listening",
			zap.String("address", s.cfg.Address),
			zap.String("path", s.cfg.Path),
		)
	}
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *WSServer) handleWS(w http.ResponseWriter, r *http.Request) {
	battleID := r.URL.Query().Get("battle_id")
	if battleID == "" {
		http.Error(w, "battle_id is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("websocket upgrade failed", zap.Error(err))
		}
		return
	}

	client := &wsClient{conn: conn, send: make(chan []byte, 16), battleID: battleID}

	s.mu.Lock()
	s.clients[client] = true
	s.mu.Unlock()

	go s.writePump(client)
	go s.readPump(client)

	// Send the current view straight away.
	if view, err := s.manager.View(battleID); err == nil {
		s.sendView(client, view)
	}
}

func (s *WSServer) readPump(client *wsClient) {
	defer s.dropClient(client)

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.sendError(client, "invalid message")
			continue
		}

		switch msg.Type {
		case "turn":
			var req TurnRequest
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				s.sendError(client, "invalid turn payload")
				continue
			}
			a1, err := parseAction(req.ActionP1)
			if err != nil {
				s.sendError(client, err.Error())
				continue
			}
			a2, err := parseAction(req.ActionP2)
			if err != nil {
				s.sendError(client, err.Error())
				continue
			}
			if _, err := s.manager.SubmitTurn(client.battleID, a1, a2); err != nil {
				s.sendError(client, err.Error())
				continue
			}
			s.broadcastView(client.battleID)
		case "view":
			if view, err := s.manager.View(client.battleID); err == nil {
				s.sendView(client, view)
			} else {
				s.sendError(client, err.Error())
			}
		default:
			s.sendError(client, "unknown message type")
		}
	}
}

func (s *WSServer) writePump(client *wsClient) {
	for raw := range client.send {
		if err := client.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			return
		}
	}
}

func (s *WSServer) dropClient(client *wsClient) {
	s.mu.Lock()
	if s.clients[client] {
		delete(s.clients, client)
		close(client.send)
	}
	s.mu.Unlock()
	_ = client.conn.Close()
}

func (s *WSServer) sendView(client *wsClient, view battle.BattleView) {
	payload, err := json.Marshal(view)
	if err != nil {
		return
	}
	raw, err := json.Marshal(WSMessage{Type: "view", BattleID: client.battleID, Payload: payload})
	if err != nil {
		return
	}
	select {
	case client.send <- raw:
	default:
	}
}

func (s *WSServer) sendError(client *wsClient, msg string) {
	raw, err := json.Marshal(WSMessage{Type: "error", BattleID: client.battleID, Error: msg})
	if err != nil {
		return
	}
	select {
	case client.send <- raw:
	default:
	}
}

// broadcastView pushes the latest view to every client watching a battle.
func (s *WSServer) broadcastView(battleID string) {
	view, err := s.manager.View(battleID)
	if err != nil {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for client := range s.clients {
		if client.battleID == battleID {
			s.sendView(client, view)
		}
	}
}
