package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/allokoli/configurator/config"
	"github.com/allokoli/configurator/flow"
	"github.com/allokoli/configurator/messages"
	"github.com/allokoli/configurator/session"

	"github.com/bytedance/sonic"
)

// HTTPServer serves the chat-mode configuration dialogue.
type HTTPServer struct {
	httpServer *http.Server
	engine     *flow.Engine
	sessions   *session.Manager
	config     *config.Config
}

func NewHTTPServer(cfg *config.Config, engine *flow.Engine, sessions *session.Manager) *HTTPServer {
	s := &HTTPServer{
		engine:   engine,
		sessions: sessions,
		config:   cfg,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		// A turn can block on a provisioning call; the write timeout must
		// outlast it.
		WriteTimeout: cfg.ProvisioningTimeout + 10*time.Second,
	}

	return s
}

// Start begins listening for connections
func (s *HTTPServer) Start() error {
	log.Printf("🚀 Chat server starting on port %d", s.config.Port)
	log.Printf("📡 Chat endpoint: http://localhost:%d/chat", s.config.Port)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	log.Println("🛑 Shutting down chat server...")
	return s.httpServer.Shutdown(ctx)
}

func (s *HTTPServer) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messages.NewErrorResponse(
			messages.ErrCodeInvalidRequest, "❌ Une erreur est survenue. Pouvez-vous réessayer ?", flow.StepModeSelect))
		return
	}

	var req messages.TurnRequest
	if err := sonic.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, messages.NewErrorResponse(
			messages.ErrCodeInvalidRequest, "❌ Une erreur est survenue. Pouvez-vous réessayer ?", flow.StepModeSelect))
		return
	}

	mode := req.Mode
	if mode == "" {
		mode = messages.ModeChat
	}

	sess, err := s.sessions.GetOrCreate(r.Context(), req.SessionID, mode)
	if err != nil {
		log.Printf("Failed to create session: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, messages.NewErrorResponse(
			messages.ErrCodeSessionFailed, "❌ Impossible de démarrer la session. Réessayez dans quelques instants.", req.Step))
		return
	}

	log.Printf("💬 [CHAT] session %s step %d", sess.ID, req.Step)
	resp := s.engine.Turn(r.Context(), sess, req.Step, req.Message, req.UserID)

	if resp.NextStep != nil && *resp.NextStep >= flow.StepDone {
		s.sessions.Archive(r.Context(), sess)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","sessions":%d}`, s.sessions.ActiveCount())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
