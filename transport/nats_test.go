package transport

import (
	"context"
	"testing"
	"time"

	"github.com/allokoli/configurator/config"
	"github.com/allokoli/configurator/flow"
	"github.com/allokoli/configurator/gateway"
	"github.com/allokoli/configurator/messages"
	"github.com/allokoli/configurator/models"
	"github.com/allokoli/configurator/session"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct{}

func (stubGateway) CreateAssistant(context.Context, *models.AssistantConfiguration, gateway.AssistantMeta) (string, error) {
	return "asst_123", nil
}

func (stubGateway) ProvisionNumber(context.Context, string, string) (gateway.ProvisionedNumber, error) {
	return gateway.ProvisionedNumber{Number: "+33145000000", ID: "phone_456"}, nil
}

func testTransport(t *testing.T) (*NATSTransport, *session.Manager) {
	t.Helper()
	cfg := &config.Config{
		RedisURL:            "127.0.0.1:1",
		MaxSessions:         10,
		SessionTimeout:      30 * time.Minute,
		ProvisioningTimeout: 5 * time.Second,
		NatsSubject:         "configurator.turn",
		DefaultAreaCode:     "01",
	}
	sessions, err := session.NewManager(cfg)
	require.NoError(t, err)
	t.Cleanup(sessions.Shutdown)

	nt := &NATSTransport{
		config:   cfg,
		engine:   flow.NewEngine(stubGateway{}, nil, cfg.DefaultAreaCode),
		sessions: sessions,
	}
	return nt, sessions
}

func sendTurn(t *testing.T, nt *NATSTransport, req messages.TurnRequest) *messages.TurnResponse {
	t.Helper()
	payload, err := sonic.Marshal(req)
	require.NoError(t, err)
	return nt.turn(payload)
}

func TestTurn_FirstTurnCreatesSession(t *testing.T) {
	nt, sessions := testTransport(t)

	resp := sendTurn(t, nt, messages.TurnRequest{Message: "🎤 Par la voix", Step: 0})

	require.NotNil(t, resp.NextStep)
	assert.Equal(t, flow.StepBusinessType, *resp.NextStep)
	assert.Equal(t, messages.ModeVoice, resp.Mode)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, 1, sessions.ActiveCount())
}

func TestTurn_ReusesSession(t *testing.T) {
	nt, sessions := testTransport(t)

	first := sendTurn(t, nt, messages.TurnRequest{Message: "💬 Par écrit", Step: 0})
	second := sendTurn(t, nt, messages.TurnRequest{
		Message:   "J'ai une pizzeria à Lyon",
		Step:      *first.NextStep,
		SessionID: first.SessionID,
	})

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, 1, sessions.ActiveCount())

	sess, ok := sessions.Get(first.SessionID)
	require.True(t, ok)
	assert.Equal(t, "restaurant", sess.Profile.Sector)
}

func TestTurn_InvalidPayload(t *testing.T) {
	nt, sessions := testTransport(t)

	resp := nt.turn([]byte("{not json"))

	assert.Equal(t, messages.ErrCodeInvalidRequest, resp.ErrorCode)
	require.NotNil(t, resp.NextStep)
	assert.Equal(t, flow.StepModeSelect, *resp.NextStep)
	assert.Zero(t, sessions.ActiveCount())
}

func TestTurn_TerminalStepArchivesSession(t *testing.T) {
	nt, sessions := testTransport(t)

	first := sendTurn(t, nt, messages.TurnRequest{Message: "bonjour", Step: 0})
	require.Equal(t, 1, sessions.ActiveCount())

	sess, ok := sessions.Get(first.SessionID)
	require.True(t, ok)
	sess.Lock()
	sess.Profile = models.BusinessProfile{
		Sector:        "restaurant",
		AssistantName: "Assistant Mario",
		Tone:          "chaleureux",
		KeyInfo:       []string{"Ouvert 9h-18h"},
	}
	sess.Unlock()

	resp := sendTurn(t, nt, messages.TurnRequest{
		Message:   "✅ Oui, créer mon assistant !",
		Step:      flow.StepBuild,
		SessionID: first.SessionID,
	})
	require.NotNil(t, resp.NextStep)
	require.Equal(t, flow.StepKnowledgeBaseOffer, *resp.NextStep)

	resp = sendTurn(t, nt, messages.TurnRequest{
		Step:      flow.StepPhoneProvision,
		SessionID: first.SessionID,
	})
	require.NotNil(t, resp.NextStep)
	assert.Equal(t, flow.StepDone, *resp.NextStep)
	assert.Equal(t, messages.ComponentSuccess, resp.Component)
	assert.Zero(t, sessions.ActiveCount())
}

// The bus and HTTP front ends share one turn engine; for the same request
// they must produce byte-identical response payloads.
func TestTurn_PayloadMatchesEngine(t *testing.T) {
	nt, _ := testTransport(t)

	req := messages.TurnRequest{Message: "💬 Par écrit", Step: 0, SessionID: "sess-parity"}
	viaNATS := sendTurn(t, nt, req)

	cfg := &config.Config{
		RedisURL:       "127.0.0.1:1",
		MaxSessions:    10,
		SessionTimeout: 30 * time.Minute,
	}
	sessions, err := session.NewManager(cfg)
	require.NoError(t, err)
	t.Cleanup(sessions.Shutdown)

	engine := flow.NewEngine(stubGateway{}, nil, "01")
	sess, err := sessions.GetOrCreate(context.Background(), req.SessionID, messages.ModeChat)
	require.NoError(t, err)
	direct := engine.Turn(context.Background(), sess, req.Step, req.Message, req.UserID)

	natsBody, err := sonic.Marshal(viaNATS)
	require.NoError(t, err)
	directBody, err := sonic.Marshal(direct)
	require.NoError(t, err)
	assert.Equal(t, string(directBody), string(natsBody))
}
