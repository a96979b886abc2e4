// Package flow drives the configuration dialogue: a fixed set of ordered
// steps, an explicit transition table, and a driver that enforces the
// completeness guard before the assistant is built.
package flow

import (
	"context"
	"strings"

	"github.com/allokoli/configurator/gateway"
	"github.com/allokoli/configurator/messages"
	"github.com/allokoli/configurator/models"
	"github.com/allokoli/configurator/session"
)

// Dialogue steps, in order. Values past StepPhoneProvision collapse to the
// terminal response.
const (
	StepModeSelect = iota
	StepBusinessType
	StepAssistantName
	StepTone
	StepKeyInformation
	StepBuild
	StepKnowledgeBaseOffer
	StepTest
	StepPhoneProvision
	StepDone
)

// Provisioner is the provisioning-platform surface the dialogue needs.
type Provisioner interface {
	CreateAssistant(ctx context.Context, cfg *models.AssistantConfiguration, meta gateway.AssistantMeta) (string, error)
	ProvisionNumber(ctx context.Context, assistantID, areaCode string) (gateway.ProvisionedNumber, error)
}

// Recorder persists the finished configuration. Failures are logged and never
// surfaced to the caller; the dialogue still reports the provisioning result.
type Recorder interface {
	SaveAssistant(ctx context.Context, profile *models.BusinessProfile, userID string) error
}

type handlerFunc func(ctx context.Context, e *Engine, sess *session.Session, message, userID string) *messages.TurnResponse

// transitions keeps the state machine's contract in one place: step in,
// handler out. Steps missing from the table are terminal.
var transitions = map[int]handlerFunc{
	StepModeSelect:         handleModeSelect,
	StepBusinessType:       handleBusinessType,
	StepAssistantName:      handleAssistantName,
	StepTone:               handleTone,
	StepKeyInformation:     handleKeyInformation,
	StepBuild:              handleBuild,
	StepKnowledgeBaseOffer: handleKnowledgeBase,
	StepTest:               handleTesting,
	StepPhoneProvision:     handlePhoneProvision,
}

// Engine executes dialogue turns. It is stateless itself; all dialogue state
// lives in the session.
type Engine struct {
	gateway  Provisioner
	store    Recorder
	areaCode string
}

// NewEngine creates a dialogue engine. store may be nil when no persistence
// backend is configured.
func NewEngine(gw Provisioner, store Recorder, areaCode string) *Engine {
	return &Engine{gateway: gw, store: store, areaCode: areaCode}
}

// parsesInput reports whether the handler for step reads the utterance. A
// blank message at one of these steps gets a re-prompt with no state change.
func parsesInput(step int) bool {
	switch step {
	case StepBusinessType, StepAssistantName, StepTone, StepKeyInformation:
		return true
	}
	return false
}

// Turn processes one utterance at the given step, mutates the session under
// its lock, and returns the reply. Gateway calls block the owning session's
// turn only; other sessions proceed in parallel.
func (e *Engine) Turn(ctx context.Context, sess *session.Session, step int, message, userID string) *messages.TurnResponse {
	sess.Lock()
	defer sess.Unlock()

	if parsesInput(step) && strings.TrimSpace(message) == "" {
		return finish(sess, messages.NewErrorResponse(messages.ErrCodeEmptyMessage,
			"🤔 Je n'ai rien reçu. Pouvez-vous reformuler ?", step))
	}

	handler, ok := transitions[step]
	if !ok {
		return finish(sess, terminalResponse())
	}

	// The step handlers advance unconditionally; the guard that keeps an
	// incomplete profile out of Build lives here.
	if step == StepBuild && !sess.Profile.Complete() {
		sess.Step = StepKeyInformation
		return finish(sess, messages.NewErrorResponse(messages.ErrCodeInvalidRequest,
			"🤔 **Il me manque encore quelques informations** avant de créer votre assistant. Reprenons : quelles sont les informations importantes pour vos clients ?",
			StepKeyInformation))
	}

	if strings.TrimSpace(message) != "" {
		sess.AppendTurn("user", message)
	}

	resp := handler(ctx, e, sess, message, userID)
	if resp.NextStep != nil {
		sess.Step = *resp.NextStep
	}
	sess.AppendTurn("assistant", resp.Content)
	return finish(sess, resp)
}

// finish stamps the session identity on the response. Caller holds the lock.
func finish(sess *session.Session, resp *messages.TurnResponse) *messages.TurnResponse {
	resp.SessionID = sess.ID
	if resp.Mode == "" {
		resp.Mode = sess.Mode
	}
	return resp
}

func terminalResponse() *messages.TurnResponse {
	return (&messages.TurnResponse{
		Content: "🎉 **Félicitations !** Votre assistant AlloKoli est prêt !",
	}).WithComponent(messages.ComponentSuccess)
}
