package flow

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/allokoli/configurator/catalog"
	"github.com/allokoli/configurator/classifier"
	"github.com/allokoli/configurator/gateway"
	"github.com/allokoli/configurator/messages"
	"github.com/allokoli/configurator/models"
	"github.com/allokoli/configurator/session"
	"github.com/allokoli/configurator/synth"
)

var (
	toneLetters       = regexp.MustCompile(`[^a-z]`)
	keyInfoSeparators = regexp.MustCompile(`[,;.\n-]`)
)

func handleModeSelect(_ context.Context, _ *Engine, sess *session.Session, message, _ string) *messages.TurnResponse {
	lower := strings.ToLower(message)
	if strings.Contains(message, "🎤") || strings.Contains(lower, "voix") || strings.Contains(lower, "parler") {
		sess.Mode = messages.ModeVoice
		resp := messages.NewTurnResponse(
			"🎤 **Mode vocal activé !** Cliquez sur le micro pour commencer à parler. Je vais vous poser quelques questions pour créer votre assistant.",
			StepBusinessType)
		resp.Mode = messages.ModeVoice
		return resp
	}

	sess.Mode = messages.ModeChat
	resp := messages.NewTurnResponse(
		"💬 **Parfait !** Commençons par le chat.\n\n**Parlez-moi de votre activité :** restaurant, plomberie, consultation, salon de beauté, garage... ?",
		StepBusinessType)
	resp.Mode = messages.ModeChat
	return resp
}

func handleBusinessType(_ context.Context, _ *Engine, sess *session.Session, message, _ string) *messages.TurnResponse {
	res, err := classifier.Classify(message)
	if err != nil {
		return messages.NewErrorResponse(messages.ErrCodeEmptyMessage,
			"🤔 Pouvez-vous me décrire votre activité en quelques mots ?", StepBusinessType)
	}

	p := &sess.Profile
	p.Sector = res.Sector
	p.Confidence = res.Confidence
	p.BusinessName = res.BusinessName
	p.Location = res.Location
	p.Size = res.Size
	p.RawInput = message
	p.AddServices(res.Services)

	content := fmt.Sprintf(
		"✅ **%s**, excellent choix ! %s\n\n**Quel nom voulez-vous donner à votre assistant ?**",
		res.Sector, catalog.Suggestion(res.Sector))
	return messages.NewTurnResponse(content, StepAssistantName).WithConfig(snapshot(sess))
}

func handleAssistantName(_ context.Context, _ *Engine, sess *session.Session, message, _ string) *messages.TurnResponse {
	name := strings.TrimSpace(message)
	sess.Profile.AssistantName = name

	content := fmt.Sprintf(
		"✅ **%q**, parfait ! J'aime beaucoup ce nom.\n\n**Quel ton souhaitez-vous pour votre assistant ?**",
		name)
	return messages.NewTurnResponse(content, StepTone).
		WithOptions(catalog.ToneOptions(sess.Profile.Sector)...).
		WithConfig(snapshot(sess))
}

func handleTone(_ context.Context, _ *Engine, sess *session.Session, message, _ string) *messages.TurnResponse {
	tone := toneLetters.ReplaceAllString(strings.ToLower(message), "")
	sess.Profile.Tone = tone

	content := fmt.Sprintf(
		"✅ **Ton %s**, parfait ! Cela correspondra bien à votre clientèle.\n\n%s",
		tone, catalog.InfoPrompt(sess.Profile.Sector))
	return messages.NewTurnResponse(content, StepKeyInformation).WithConfig(snapshot(sess))
}

func handleKeyInformation(_ context.Context, _ *Engine, sess *session.Session, message, _ string) *messages.TurnResponse {
	items := parseKeyInformation(message)
	p := &sess.Profile
	p.KeyInfo = items
	p.RawKeyInfo = message

	var bullets strings.Builder
	for _, info := range items {
		fmt.Fprintf(&bullets, "• %s\n", info)
	}

	content := fmt.Sprintf(
		"✅ **Informations enregistrées !** Votre assistant connaîtra :\n%s\n🎉 **Récapitulatif :**\n• **Métier :** %s\n• **Nom :** %s\n• **Ton :** %s\n• **Infos clés :** %d éléments\n\n**Ces informations sont-elles correctes ?**",
		bullets.String(), p.Sector, p.AssistantName, p.Tone, len(items))
	return messages.NewTurnResponse(content, StepBuild).
		WithOptions("✅ Oui, créer mon assistant !", "✏️ Je veux modifier quelque chose").
		WithConfig(snapshot(sess))
}

func handleBuild(ctx context.Context, e *Engine, sess *session.Session, _, userID string) *messages.TurnResponse {
	p := &sess.Profile
	tpl := catalog.TemplateFor(p.Sector)
	voices := catalog.VoicesFor(p.Sector, "fr", p.BusinessName)
	cfg := synth.Synthesize(p, tpl, voices.Primary)

	log.Printf("🤖 [CREATION] creating assistant %q (sector %s, session %s)", cfg.Name, p.Sector, sess.ID)
	assistantID, err := e.gateway.CreateAssistant(ctx, &cfg, gateway.AssistantMeta{
		UserID:       userID,
		BusinessName: businessLabel(p),
		Sector:       p.Sector,
	})
	if err != nil {
		log.Printf("❌ [CREATION] session %s: %v", sess.ID, err)
		return messages.NewErrorResponse(messages.ErrCodeGatewayFailed,
			"❌ **Erreur lors de la création.** Nous allons réessayer.\n\nVoulez-vous reprendre la création ?",
			StepBuild).
			WithOptions("🔄 Réessayer", "📞 Contacter le support")
	}

	p.AssistantID = assistantID
	p.CreatedAt = time.Now().UTC()

	content := fmt.Sprintf(
		"🎉 **Assistant créé avec succès !**\n\n✅ **%s** est maintenant opérationnel !\n\n**Voulez-vous enrichir votre assistant avec une base de connaissances ?** (documents, site web, infos spécifiques)",
		p.AssistantName)
	return messages.NewTurnResponse(content, StepKnowledgeBaseOffer).
		WithOptions("📚 Ajouter des documents", "⏭️ Passer au test").
		WithComponent(messages.ComponentKnowledgeBase).
		WithConfig(snapshot(sess))
}

func handleKnowledgeBase(_ context.Context, _ *Engine, sess *session.Session, message, _ string) *messages.TurnResponse {
	if strings.Contains(message, "📚") || strings.Contains(strings.ToLower(message), "documents") {
		return messages.NewTurnResponse(
			"📚 **Excellent !** Ajoutons une base de connaissances à votre assistant.\n\nVous pouvez transmettre vos documents pour que votre assistant donne des réponses plus précises et personnalisées.",
			StepTest).
			WithComponent(messages.ComponentKnowledgeBase).
			WithConfig(snapshot(sess))
	}

	return messages.NewTurnResponse(
		"✅ **Pas de problème !** Votre assistant peut déjà répondre aux questions de base grâce aux informations que vous avez fournies.\n\n**Testons votre assistant maintenant !**",
		StepTest).
		WithComponent(messages.ComponentTestAssistant).
		WithConfig(snapshot(sess))
}

func handleTesting(_ context.Context, _ *Engine, sess *session.Session, message, _ string) *messages.TurnResponse {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(message, "✅") || strings.Contains(lower, "fonctionne"):
		return messages.NewTurnResponse(
			"🎉 **Parfait !** Votre assistant fonctionne bien.\n\n**Dernière étape :** obtenons votre numéro de téléphone pour que vos clients puissent appeler votre assistant !",
			StepPhoneProvision).
			WithComponent(messages.ComponentPhoneNumber).
			WithConfig(snapshot(sess))

	case strings.Contains(message, "❌") || strings.Contains(lower, "problème"):
		return messages.NewTurnResponse(
			"🔧 **Pas de souci !** Nous allons ajuster votre assistant.\n\nQuel est le problème rencontré ?",
			StepTest).
			WithOptions("Le ton ne convient pas", "Il manque des informations", "Autre problème")

	default:
		content := fmt.Sprintf(
			"🎧 **Test en cours...** Votre assistant répond :\n\n*\"Bonjour ! Je suis l'assistant de %s. Comment puis-je vous aider aujourd'hui ?\"*\n\n**Le test fonctionne-t-il bien ?**",
			sess.Profile.AssistantName)
		return messages.NewTurnResponse(content, StepTest).
			WithOptions("✅ Parfait !", "❌ Il y a un problème")
	}
}

func handlePhoneProvision(ctx context.Context, e *Engine, sess *session.Session, _, userID string) *messages.TurnResponse {
	p := &sess.Profile
	log.Printf("📞 [PHONE] provisioning number for assistant %s (session %s)", p.AssistantID, sess.ID)
	num, err := e.gateway.ProvisionNumber(ctx, p.AssistantID, e.areaCode)
	if err != nil {
		log.Printf("❌ [PHONE] session %s: %v", sess.ID, err)
		return messages.NewErrorResponse(messages.ErrCodeGatewayFailed,
			"❌ **Erreur lors de l'attribution du numéro.** Nous allons réessayer dans quelques instants.\n\nVotre assistant est créé, nous finalisons juste l'attribution du numéro.",
			StepPhoneProvision).
			WithOptions("🔄 Réessayer", "📧 M'envoyer les détails par email")
	}

	p.PhoneNumber = num.Number
	p.PhoneNumberID = num.ID
	p.CompletedAt = time.Now().UTC()

	// Persistence failures are non-fatal: the assistant and number exist, and
	// the configuration is reconstructible from the session.
	if e.store != nil {
		if err := e.store.SaveAssistant(ctx, p, userID); err != nil {
			log.Printf("⚠️ [DB] session %s: failed to save assistant: %v", sess.ID, err)
		}
	}

	content := fmt.Sprintf(
		"🎉 **FÉLICITATIONS !** Votre assistant est maintenant opérationnel !\n\n📞 **Votre numéro :** %s\n\n✅ Votre assistant **%s** est prêt à recevoir des appels !\n\nVous recevrez un email avec tous les détails. Vous pouvez dès maintenant appeler ce numéro pour tester !",
		num.Number, p.AssistantName)
	return messages.NewTurnResponse(content, StepDone).
		WithComponent(messages.ComponentSuccess).
		WithConfig(snapshot(sess))
}

// parseKeyInformation splits an utterance on common delimiters, keeping at
// most MaxKeyInformation trimmed non-empty fragments. When splitting yields
// nothing usable the whole trimmed input is kept as a single item.
func parseKeyInformation(input string) []string {
	var items []string
	for _, part := range keyInfoSeparators.Split(input, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		items = append(items, part)
		if len(items) == models.MaxKeyInformation {
			break
		}
	}
	if len(items) == 0 {
		return []string{strings.TrimSpace(input)}
	}
	return items
}

func businessLabel(p *models.BusinessProfile) string {
	if p.BusinessName != "" {
		return p.BusinessName
	}
	return p.AssistantName
}

// snapshot copies the profile so the response can be serialized after the
// session lock is released.
func snapshot(sess *session.Session) *models.BusinessProfile {
	p := sess.Profile
	return &p
}
