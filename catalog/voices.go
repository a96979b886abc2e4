package catalog

import (
	"fmt"
	"strings"
)

// Voice is one synthetic-voice candidate for a sector.
type Voice struct {
	ID       string
	Name     string
	Provider string
	VoiceID  string
	Style    string
	Reason   string
	Language string
}

// VoiceSelection is a ranked recommendation: one primary voice, two
// alternatives, and a sector-specific sample phrase for previewing them.
type VoiceSelection struct {
	Primary      Voice
	Alternatives []Voice
	SampleText   string
}

// sectorVoices lists exactly three candidates per sector, best first.
var sectorVoices = map[string][]Voice{
	"restaurant": {
		{ID: "azure_denise", Name: "Denise - Chaleureuse", Provider: "azure", VoiceID: "fr-FR-DeniseNeural", Style: "Accueillante et conviviale", Reason: "Voix française naturelle, idéale pour restaurants", Language: "fr-FR"},
		{ID: "elevenlabs_sarah", Name: "Sarah - Élégante", Provider: "elevenlabs", VoiceID: "shimmer", Style: "Élégante et raffinée", Reason: "Qualité premium pour expérience haut de gamme", Language: "fr"},
		{ID: "openai_alloy", Name: "Alloy - Amicale", Provider: "openai", VoiceID: "alloy", Style: "Décontractée et sympathique", Reason: "Équilibre qualité/coût optimal", Language: "fr"},
	},
	"salon": {
		{ID: "elevenlabs_professional", Name: "Emma - Professionnelle", Provider: "elevenlabs", VoiceID: "shimmer", Style: "Professionnelle et bienveillante", Reason: "Parfaite pour secteur beauté et bien-être", Language: "fr"},
		{ID: "azure_professional", Name: "Julie - Experte", Provider: "azure", VoiceID: "fr-FR-DeniseNeural", Style: "Experte et rassurante", Reason: "Voix claire pour prises de rendez-vous", Language: "fr-FR"},
		{ID: "openai_nova", Name: "Nova - Moderne", Provider: "openai", VoiceID: "nova", Style: "Moderne et dynamique", Reason: "Ton jeune adapté aux salons tendance", Language: "fr"},
	},
	"ecommerce": {
		{ID: "openai_alloy_support", Name: "Alloy - Support", Provider: "openai", VoiceID: "alloy", Style: "Patiente et informatrice", Reason: "Idéale pour service client e-commerce", Language: "fr"},
		{ID: "azure_helpful", Name: "Alice - Serviable", Provider: "azure", VoiceID: "fr-FR-DeniseNeural", Style: "Dynamique et précise", Reason: "Efficace pour informations produits", Language: "fr-FR"},
		{ID: "deepgram_efficient", Name: "Aura - Efficace", Provider: "deepgram", VoiceID: "aura", Style: "Rapide et claire", Reason: "Optimisée pour latence faible", Language: "fr"},
	},
	"artisan": {
		{ID: "openai_echo", Name: "Echo - Rassurant", Provider: "openai", VoiceID: "echo", Style: "Calme et rassurant", Reason: "Parfait pour urgences et dépannages", Language: "fr"},
		{ID: "azure_technical", Name: "Marc - Technique", Provider: "azure", VoiceID: "fr-FR-HenriNeural", Style: "Technique et direct", Reason: "Voix masculine pour secteur technique", Language: "fr-FR"},
		{ID: "deepgram_fast", Name: "Aura - Rapide", Provider: "deepgram", VoiceID: "aura", Style: "Très rapide", Reason: "Réponse immédiate pour urgences", Language: "fr"},
	},
	"service": {
		{ID: "elevenlabs_expert", Name: "Marie - Experte", Provider: "elevenlabs", VoiceID: "shimmer", Style: "Compétente et rassurante", Reason: "Crédibilité pour services de conseil", Language: "fr"},
		{ID: "azure_consultant", Name: "Sophie - Conseillère", Provider: "azure", VoiceID: "fr-FR-DeniseNeural", Style: "Bienveillante et sage", Reason: "Ton professionnel pour consultations", Language: "fr-FR"},
		{ID: "openai_professional", Name: "Alloy - Corporate", Provider: "openai", VoiceID: "alloy", Style: "Formelle et fiable", Reason: "Standard professionnel polyvalent", Language: "fr"},
	},
	"medical": {
		{ID: "azure_medical", Name: "Claire - Médicale", Provider: "azure", VoiceID: "fr-FR-DeniseNeural", Style: "Calme et professionnelle", Reason: "Adaptée au secteur médical", Language: "fr-FR"},
		{ID: "openai_calm", Name: "Nova - Apaisante", Provider: "openai", VoiceID: "nova", Style: "Douce et rassurante", Reason: "Idéale pour patients anxieux", Language: "fr"},
		{ID: "elevenlabs_medical", Name: "Dr. Emma - Experte", Provider: "elevenlabs", VoiceID: "shimmer", Style: "Experte et bienveillante", Reason: "Crédibilité médicale premium", Language: "fr"},
	},
}

var sampleTexts = map[string]string{
	"restaurant": "Bonjour et bienvenue chez %s ! Avez-vous une réservation ou souhaitez-vous découvrir nos spécialités du jour ?",
	"salon":      "Bonjour ! Bienvenue au salon %s. Avez-vous rendez-vous ou souhaitez-vous prendre un créneau pour une coupe ou une coloration ?",
	"ecommerce":  "Bonjour ! Je suis l'assistante de %s. Je peux vous aider avec vos commandes, le suivi de livraison ou nos produits.",
	"artisan":    "Bonjour, ici %s. Avez-vous une urgence de plomberie, électricité ou chauffage ? Je vous mets en relation rapidement.",
	"service":    "Bonjour ! Je suis l'assistante de %s. Comment puis-je vous accompagner dans votre projet de consultation ?",
	"medical":    "Bonjour, cabinet médical %s. Souhaitez-vous prendre rendez-vous ou avez-vous une urgence ?",
}

// SampleText renders the sector's preview phrase with the business name, or a
// generic noun when the name is not known yet.
func SampleText(sector, businessName string) string {
	if businessName == "" {
		businessName = "votre entreprise"
	}
	tpl, ok := sampleTexts[sector]
	if !ok {
		tpl = sampleTexts["service"]
	}
	return fmt.Sprintf(tpl, businessName)
}

// VoicesFor returns the ranked voice recommendation for a sector. Unknown
// sectors resolve to the service list; a language filter that empties the
// list falls back to the unfiltered sector list, never to an empty result.
func VoicesFor(sector, language, businessName string) VoiceSelection {
	voices, ok := sectorVoices[sector]
	if !ok {
		voices = sectorVoices["service"]
	}

	if language != "" {
		filtered := make([]Voice, 0, len(voices))
		for _, v := range voices {
			if strings.HasPrefix(v.Language, language) {
				filtered = append(filtered, v)
			}
		}
		if len(filtered) > 0 {
			voices = filtered
		}
	}

	sel := VoiceSelection{
		Primary:    voices[0],
		SampleText: SampleText(sector, businessName),
	}
	if len(voices) > 1 {
		end := len(voices)
		if end > 3 {
			end = 3
		}
		sel.Alternatives = voices[1:end]
	}
	return sel
}
