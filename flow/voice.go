package flow

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/allokoli/configurator/messages"
	"github.com/allokoli/configurator/models"
	"github.com/allokoli/configurator/session"

	"github.com/bytedance/sonic"
)

// stepTopics maps question topics spotted in the assistant's own utterances
// to the step those questions belong to. Inference is advisory: an explicit
// update_step signal pins the step and later inference is ignored until the
// pin is released.
var stepTopics = []struct {
	step     int
	keywords []string
}{
	{StepBusinessType, []string{"votre activité", "quel type d'établissement", "parlez-moi de"}},
	{StepAssistantName, []string{"quel nom", "nom voulez-vous", "appeler votre assistant"}},
	{StepTone, []string{"quel ton", "ton souhaitez-vous"}},
	{StepKeyInformation, []string{"informations importantes", "informations clés", "vos horaires", "vos spécialités", "vos tarifs"}},
	{StepBuild, []string{"récapitulatif", "créer votre assistant"}},
	{StepTest, []string{"test fonctionne", "testons votre assistant"}},
	{StepPhoneProvision, []string{"numéro de téléphone"}},
}

// InferStep spots the dialogue step an assistant utterance belongs to.
// Returns false when no topic matches.
func InferStep(transcript string) (int, bool) {
	lower := strings.ToLower(transcript)
	for _, topic := range stepTopics {
		for _, kw := range topic.keywords {
			if strings.Contains(lower, kw) {
				return topic.step, true
			}
		}
	}
	return 0, false
}

// HandleVoiceEvent applies one voice-platform event to the session. Both
// event sources (transcripts and function calls) mutate the session under
// its lock, so a step update and a profile update each apply atomically.
func (e *Engine) HandleVoiceEvent(sess *session.Session, ev messages.VoiceEvent) error {
	switch ev.Type {
	case messages.EventTranscript:
		var p messages.TranscriptPayload
		if err := sonic.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("bad transcript payload: %w", err)
		}
		sess.Lock()
		sess.AppendTurn(p.Role, p.Transcript)
		if p.Role == "assistant" {
			if step, ok := InferStep(p.Transcript); ok {
				sess.SuggestStep(step)
			}
		}
		sess.Unlock()
		return nil

	case messages.EventFunctionCall:
		var p messages.FunctionCallPayload
		if err := sonic.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("bad function-call payload: %w", err)
		}
		return e.applySignal(sess, p)

	case messages.EventCallStart:
		sess.Lock()
		sess.Mode = messages.ModeVoice
		sess.Unlock()
		sess.Touch()
		return nil

	case messages.EventCallEnd:
		sess.Touch()
		return nil

	default:
		return fmt.Errorf("unknown voice event type %q", ev.Type)
	}
}

func (e *Engine) applySignal(sess *session.Session, p messages.FunctionCallPayload) error {
	sess.Lock()
	defer sess.Unlock()

	switch p.Name {
	case messages.SignalUpdateStep:
		step, err := signalStep(p.Parameters)
		if err != nil {
			return err
		}
		sess.PinStep(step)
		log.Printf("📍 session %s pinned at step %d", sess.ID, step)
		return nil

	case messages.SignalSaveConfig:
		mergeConfig(&sess.Profile, p.Parameters)
		log.Printf("💾 session %s configuration saved from voice signal", sess.ID)
		return nil

	default:
		return fmt.Errorf("unknown function call %q", p.Name)
	}
}

// signalStep reads the step parameter of an update_step signal; the platform
// sends it as a number or a numeric string.
func signalStep(params map[string]any) (int, error) {
	switch v := params["step"].(type) {
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("bad step parameter %q", v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("missing step parameter")
}

// mergeConfig applies the profile fields carried by a save_config signal.
// Unknown or empty fields are ignored; key information keeps its cap.
func mergeConfig(p *models.BusinessProfile, params map[string]any) {
	if v, ok := params["assistant_name"].(string); ok && v != "" {
		p.AssistantName = v
	}
	if v, ok := params["business_name"].(string); ok && v != "" {
		p.BusinessName = v
	}
	if v, ok := params["sector"].(string); ok && v != "" {
		p.Sector = v
	}
	if v, ok := params["tone"].(string); ok && v != "" {
		p.Tone = v
	}
	if v, ok := params["custom_instructions"].(string); ok && v != "" {
		p.CustomInstructions = v
	}
	if raw, ok := params["key_information"].([]any); ok {
		var items []string
		for _, entry := range raw {
			s, ok := entry.(string)
			if !ok || strings.TrimSpace(s) == "" {
				continue
			}
			items = append(items, strings.TrimSpace(s))
			if len(items) == models.MaxKeyInformation {
				break
			}
		}
		if len(items) > 0 {
			p.KeyInfo = items
		}
	}
}
