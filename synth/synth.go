// Package synth assembles the final assistant configuration from a business
// profile, a sector template, and a chosen voice. Synthesize is pure: the same
// inputs always produce the same configuration, and no I/O happens here.
package synth

import (
	"fmt"
	"strings"

	"github.com/allokoli/configurator/catalog"
	"github.com/allokoli/configurator/models"
)

// Fixed call policy, not user-configurable.
const (
	silenceTimeoutSeconds = 30
	maxDurationSeconds    = 1200
)

var endCallPhrases = []string{"au revoir", "merci", "bonne journée", "à bientôt"}

// boundaryClause is appended to every sector's prompt, without exception: the
// assistant must never handle payments, confirm anything unverified, or make
// information up.
const boundaryClause = `LIMITES STRICTES:
- Ne prends aucun paiement
- Ne confirme aucun rendez-vous sans vérification préalable
- Ne donne jamais d'informations non vérifiées ou inventées
- Si tu ne sais pas répondre, dis-le honnêtement et propose de prendre un message`

// modelParams maps a sector to its language-model parameters. Urgency-driven
// sectors run colder and shorter, relationship-driven sectors warmer.
var modelParams = map[string]models.ModelConfig{
	"restaurant": {Provider: "openai", Model: "gpt-4o", Temperature: 0.7, MaxTokens: 1000},
	"salon":      {Provider: "openai", Model: "gpt-4o", Temperature: 0.7, MaxTokens: 1000},
	"ecommerce":  {Provider: "openai", Model: "gpt-4o", Temperature: 0.5, MaxTokens: 1200},
	"artisan":    {Provider: "openai", Model: "gpt-4o-mini", Temperature: 0.3, MaxTokens: 800},
	"service":    {Provider: "openai", Model: "gpt-4o", Temperature: 0.6, MaxTokens: 1200},
	"medical":    {Provider: "openai", Model: "gpt-4o", Temperature: 0.4, MaxTokens: 1000},
}

var transcriber = models.TranscriberConfig{Provider: "deepgram", Model: "nova-2", Language: "fr"}

// Synthesize combines the accumulated profile, the sector template, and the
// selected voice into a complete assistant configuration.
func Synthesize(profile *models.BusinessProfile, tpl catalog.Template, voice catalog.Voice) models.AssistantConfiguration {
	name := profile.BusinessName
	if name == "" {
		name = profile.AssistantName
	}

	model, ok := modelParams[profile.Sector]
	if !ok {
		model = modelParams["service"]
	}
	model.SystemPrompt = buildSystemPrompt(profile, tpl, name)

	return models.AssistantConfiguration{
		Name:  profile.AssistantName,
		Model: model,
		Voice: models.VoiceConfig{
			Provider: voice.Provider,
			VoiceID:  voice.VoiceID,
		},
		Transcriber:           transcriber,
		FirstMessage:          buildFirstMessage(profile, tpl, name),
		EndCallMessage:        fmt.Sprintf("Merci d'avoir contacté %s. À très bientôt !", name),
		EndCallPhrases:        endCallPhrases,
		SilenceTimeoutSeconds: silenceTimeoutSeconds,
		MaxDurationSeconds:    maxDurationSeconds,
	}
}

func buildSystemPrompt(profile *models.BusinessProfile, tpl catalog.Template, businessName string) string {
	tone := profile.Tone
	if tone == "" {
		tone = tpl.Tone
	}

	r := strings.NewReplacer(
		"{assistant_name}", profile.AssistantName,
		"{business_name}", businessName,
		"{tone}", tone,
		"{capabilities}", strings.Join(tpl.Capabilities, ", "),
	)

	var b strings.Builder
	b.WriteString(r.Replace(tpl.PromptSkeleton))

	if len(profile.KeyInfo) > 0 {
		b.WriteString("\n\nINFORMATIONS IMPORTANTES À CONNAÎTRE:")
		for i, info := range profile.KeyInfo {
			fmt.Fprintf(&b, "\n%d. %s", i+1, info)
		}
	}

	if profile.CustomInstructions != "" {
		b.WriteString("\n\nINSTRUCTIONS SUPPLÉMENTAIRES:\n")
		b.WriteString(profile.CustomInstructions)
	}

	b.WriteString("\n\n")
	b.WriteString(boundaryClause)
	return b.String()
}

func buildFirstMessage(profile *models.BusinessProfile, tpl catalog.Template, businessName string) string {
	if tpl.FirstMessageTemplate != "" {
		return strings.ReplaceAll(tpl.FirstMessageTemplate, "{business_name}", businessName)
	}
	return fmt.Sprintf("Bonjour ! Je suis %s, l'assistant vocal de %s. Comment puis-je vous aider aujourd'hui ?",
		profile.AssistantName, businessName)
}
