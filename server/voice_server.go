package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/allokoli/configurator/config"
	"github.com/allokoli/configurator/flow"
	"github.com/allokoli/configurator/messages"
	"github.com/allokoli/configurator/session"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

// VoiceServer receives voice-platform events (transcripts, function calls,
// call lifecycle) over a websocket and applies them to sessions.
type VoiceServer struct {
	httpServer *http.Server
	upgrader   websocket.Upgrader
	engine     *flow.Engine
	sessions   *session.Manager
	config     *config.Config
}

// voiceState is the ack sent back after each applied event.
type voiceState struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Step      int    `json:"step"`
}

type voiceError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func NewVoiceServer(cfg *config.Config, engine *flow.Engine, sessions *session.Manager) *VoiceServer {
	s := &VoiceServer{
		engine:   engine,
		sessions: sessions,
		config:   cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				for _, allowed := range cfg.AllowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/voice/events", s.handleVoiceEvents)
	mux.HandleFunc("/health", s.handleHealth)

	// Determine which port to use
	port := cfg.VoicePort
	if cfg.ServerType == "voice" {
		// When running as standalone voice server, use the main port
		port = cfg.Port
	}

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
		// No ReadTimeout/WriteTimeout — these interfere with long-lived WebSocket connections.
	}

	return s
}

// Start begins listening for connections
func (s *VoiceServer) Start() error {
	addr := s.httpServer.Addr
	log.Printf("🎤 Voice event server starting on %s", addr)
	log.Printf("📡 Voice endpoint: ws://localhost%s/voice/events", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server
func (s *VoiceServer) Shutdown(ctx context.Context) error {
	log.Println("🛑 Shutting down voice server...")
	return s.httpServer.Shutdown(ctx)
}

func (s *VoiceServer) handleVoiceEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Voice WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("🎤 Voice connection opened from %s", r.RemoteAddr)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("🔌 Voice connection closed: %v", err)
			return
		}

		var ev messages.VoiceEvent
		if err := sonic.Unmarshal(data, &ev); err != nil {
			_ = conn.WriteJSON(voiceError{Type: "error", Error: "invalid event"})
			continue
		}
		if ev.SessionID == "" {
			_ = conn.WriteJSON(voiceError{Type: "error", Error: "missing sessionId"})
			continue
		}

		sess, err := s.sessions.GetOrCreate(r.Context(), ev.SessionID, messages.ModeVoice)
		if err != nil {
			log.Printf("Failed to resolve voice session %s: %v", ev.SessionID, err)
			_ = conn.WriteJSON(voiceError{Type: "error", Error: "session unavailable"})
			continue
		}

		if err := s.engine.HandleVoiceEvent(sess, ev); err != nil {
			log.Printf("Voice event failed for session %s: %v", sess.ID, err)
			_ = conn.WriteJSON(voiceError{Type: "error", Error: err.Error()})
			continue
		}

		sess.Lock()
		step := sess.Step
		sess.Unlock()
		_ = conn.WriteJSON(voiceState{Type: "state", SessionID: sess.ID, Step: step})
	}
}

func (s *VoiceServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","server":"voice","sessions":%d}`, s.sessions.ActiveCount())
}
