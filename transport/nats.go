// Package transport exposes the configuration dialogue over NATS
// request/reply, for callers that sit on the message bus instead of HTTP.
package transport

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/allokoli/configurator/config"
	"github.com/allokoli/configurator/flow"
	"github.com/allokoli/configurator/messages"
	"github.com/allokoli/configurator/session"

	"github.com/bytedance/sonic"
	"github.com/nats-io/nats.go"
)

type NATSTransport struct {
	conn     *nats.Conn
	sub      *nats.Subscription
	config   *config.Config
	engine   *flow.Engine
	sessions *session.Manager
}

func NewNATSTransport(cfg *config.Config, engine *flow.Engine, sessions *session.Manager) (*NATSTransport, error) {
	conn, err := nats.Connect(cfg.NatsURL,
		nats.Name("allokoli-configurator"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1), // Infinite reconnects
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Printf("📨 Connected to NATS server: %s", cfg.NatsURL)

	return &NATSTransport{
		conn:     conn,
		config:   cfg,
		engine:   engine,
		sessions: sessions,
	}, nil
}

func (nt *NATSTransport) Start() error {
	// Turns can take as long as a provisioning call; handle each message on
	// its own goroutine so one session's build never stalls the others. The
	// session mutex keeps turns within a session serialized.
	sub, err := nt.conn.Subscribe(nt.config.NatsSubject, func(msg *nats.Msg) {
		go nt.handleTurnRequest(msg)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", nt.config.NatsSubject, err)
	}
	nt.sub = sub

	log.Printf("📨 Subscribed to subject: %s", nt.config.NatsSubject)
	return nil
}

func (nt *NATSTransport) handleTurnRequest(msg *nats.Msg) {
	nt.respond(msg, nt.turn(msg.Data))
}

// turn runs one dialogue turn from a raw request body. Split from the NATS
// plumbing so the request/response contract is testable without a broker.
func (nt *NATSTransport) turn(data []byte) *messages.TurnResponse {
	var req messages.TurnRequest
	if err := sonic.Unmarshal(data, &req); err != nil {
		log.Printf("Error parsing turn request: %v", err)
		return messages.NewErrorResponse(messages.ErrCodeInvalidRequest,
			"❌ Une erreur est survenue. Pouvez-vous réessayer ?", flow.StepModeSelect)
	}

	// Turns can block on a provisioning call.
	ctx, cancel := context.WithTimeout(context.Background(), nt.config.ProvisioningTimeout+10*time.Second)
	defer cancel()

	mode := req.Mode
	if mode == "" {
		mode = messages.ModeChat
	}

	sess, err := nt.sessions.GetOrCreate(ctx, req.SessionID, mode)
	if err != nil {
		log.Printf("Failed to create session: %v", err)
		return messages.NewErrorResponse(messages.ErrCodeSessionFailed,
			"❌ Impossible de démarrer la session. Réessayez dans quelques instants.", req.Step)
	}

	log.Printf("📨 [NATS] session %s step %d", sess.ID, req.Step)
	resp := nt.engine.Turn(ctx, sess, req.Step, req.Message, req.UserID)

	if resp.NextStep != nil && *resp.NextStep >= flow.StepDone {
		nt.sessions.Archive(ctx, sess)
	}

	return resp
}

func (nt *NATSTransport) respond(msg *nats.Msg, resp *messages.TurnResponse) {
	data, err := sonic.Marshal(resp)
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

func (nt *NATSTransport) Close() error {
	if nt.sub != nil {
		_ = nt.sub.Unsubscribe()
	}
	if nt.conn != nil {
		nt.conn.Close()
		log.Println("📨 NATS connection closed")
	}
	return nil
}
