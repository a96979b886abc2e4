package flow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/allokoli/configurator/gateway"
	"github.com/allokoli/configurator/messages"
	"github.com/allokoli/configurator/models"
	"github.com/allokoli/configurator/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	failCreate  bool
	failNumber  bool
	createCalls int
	numberCalls int
	lastConfig  *models.AssistantConfiguration
	lastMeta    gateway.AssistantMeta
	lastArea    string
}

func (f *fakeGateway) CreateAssistant(_ context.Context, cfg *models.AssistantConfiguration, meta gateway.AssistantMeta) (string, error) {
	f.createCalls++
	f.lastConfig = cfg
	f.lastMeta = meta
	if f.failCreate {
		return "", errors.New("upstream unavailable")
	}
	return "asst_123", nil
}

func (f *fakeGateway) ProvisionNumber(_ context.Context, assistantID, areaCode string) (gateway.ProvisionedNumber, error) {
	f.numberCalls++
	f.lastArea = areaCode
	if f.failNumber {
		return gateway.ProvisionedNumber{}, errors.New("no numbers available")
	}
	return gateway.ProvisionedNumber{Number: "+33145000000", ID: "phone_456"}, nil
}

type fakeStore struct {
	fail  bool
	saved []*models.BusinessProfile
}

func (f *fakeStore) SaveAssistant(_ context.Context, profile *models.BusinessProfile, _ string) error {
	if f.fail {
		return errors.New("db down")
	}
	p := *profile
	f.saved = append(f.saved, &p)
	return nil
}

func newTestEngine() (*Engine, *fakeGateway, *fakeStore) {
	gw := &fakeGateway{}
	st := &fakeStore{}
	return NewEngine(gw, st, "01"), gw, st
}

func newTestSession() *session.Session {
	return &session.Session{
		ID:           "sess-test",
		Mode:         messages.ModeChat,
		CreatedAt:    time.Now(),
		LastActivity: time.Now(),
	}
}

func completeProfile() models.BusinessProfile {
	return models.BusinessProfile{
		Sector:        "restaurant",
		BusinessName:  "Chez Mario",
		AssistantName: "Assistant Mario",
		Tone:          "chaleureux",
		KeyInfo:       []string{"Ouvert 9h-18h"},
	}
}

func TestTurn_ModeSelectVoice(t *testing.T) {
	e, _, _ := newTestEngine()

	for _, input := range []string{"🎤 Mode vocal", "je préfère la voix", "Je veux PARLER"} {
		sess := newTestSession()
		resp := e.Turn(context.Background(), sess, StepModeSelect, input, "")

		require.NotNil(t, resp.NextStep, "input %q", input)
		assert.Equal(t, StepBusinessType, *resp.NextStep)
		assert.Equal(t, messages.ModeVoice, resp.Mode)
		assert.Equal(t, messages.ModeVoice, sess.Mode)
	}
}

func TestTurn_ModeSelectDefaultsToChat(t *testing.T) {
	e, _, _ := newTestEngine()
	sess := newTestSession()

	resp := e.Turn(context.Background(), sess, StepModeSelect, "💬 Continuer par écrit", "")
	require.NotNil(t, resp.NextStep)
	assert.Equal(t, StepBusinessType, *resp.NextStep)
	assert.Equal(t, messages.ModeChat, resp.Mode)
	assert.Equal(t, StepBusinessType, sess.Step)
}

func TestTurn_BusinessTypeClassifies(t *testing.T) {
	e, _, _ := newTestEngine()
	sess := newTestSession()

	resp := e.Turn(context.Background(), sess, StepBusinessType, "J'ai une pizzeria à Lyon, spécialité calzone", "")

	require.NotNil(t, resp.NextStep)
	assert.Equal(t, StepAssistantName, *resp.NextStep)
	assert.Equal(t, "restaurant", sess.Profile.Sector)
	assert.Equal(t, "Lyon", sess.Profile.Location)
	assert.Contains(t, sess.Profile.Services, "calzone")
	assert.GreaterOrEqual(t, sess.Profile.Confidence, 0.33)
	assert.Contains(t, resp.Content, "restaurant")
	require.NotNil(t, resp.Config)
	assert.Equal(t, "restaurant", resp.Config.Sector)
}

func TestTurn_AssistantNameOffersSectorTones(t *testing.T) {
	e, _, _ := newTestEngine()
	sess := newTestSession()
	sess.Profile.Sector = "restaurant"

	resp := e.Turn(context.Background(), sess, StepAssistantName, "  Assistant Mario  ", "")

	require.NotNil(t, resp.NextStep)
	assert.Equal(t, StepTone, *resp.NextStep)
	assert.Equal(t, "Assistant Mario", sess.Profile.AssistantName)
	assert.Equal(t, []string{"Chaleureux", "Amical", "Professionnel"}, resp.Options)
}

func TestTurn_ToneNormalized(t *testing.T) {
	e, _, _ := newTestEngine()
	sess := newTestSession()

	resp := e.Turn(context.Background(), sess, StepTone, "Chaleureux !!", "")

	require.NotNil(t, resp.NextStep)
	assert.Equal(t, StepKeyInformation, *resp.NextStep)
	assert.Equal(t, "chaleureux", sess.Profile.Tone)
}

func TestTurn_KeyInformationSplit(t *testing.T) {
	e, _, _ := newTestEngine()
	sess := newTestSession()

	resp := e.Turn(context.Background(), sess, StepKeyInformation, "Ouvert 9h-18h; Livraison gratuite; Sans gluten disponible", "")

	require.NotNil(t, resp.NextStep)
	assert.Equal(t, StepBuild, *resp.NextStep)
	// "9h-18h" splits on the hyphen too; every fragment is trimmed and
	// non-empty.
	require.NotEmpty(t, sess.Profile.KeyInfo)
	for _, info := range sess.Profile.KeyInfo {
		assert.NotEmpty(t, info)
		assert.Equal(t, info, strings.TrimSpace(info))
	}
	assert.LessOrEqual(t, len(sess.Profile.KeyInfo), models.MaxKeyInformation)
}

func TestParseKeyInformation(t *testing.T) {
	t.Run("three items", func(t *testing.T) {
		items := parseKeyInformation("Ouvert tous les jours; Livraison gratuite; Sans gluten disponible")
		assert.Equal(t, []string{"Ouvert tous les jours", "Livraison gratuite", "Sans gluten disponible"}, items)
	})

	t.Run("caps at five", func(t *testing.T) {
		items := parseKeyInformation("un, deux, trois, quatre, cinq, six, sept")
		assert.Len(t, items, models.MaxKeyInformation)
	})

	t.Run("no delimiter keeps whole input", func(t *testing.T) {
		items := parseKeyInformation("Ouvert tous les jours")
		assert.Equal(t, []string{"Ouvert tous les jours"}, items)
	})

	t.Run("hyphen inside a time range splits too", func(t *testing.T) {
		// The hyphen is a list delimiter, so a time range like 9h-18h
		// yields two fragments rather than one.
		items := parseKeyInformation("Ouvert 9h-18h; Fermé dimanche; Menu à 25€")
		assert.Equal(t, []string{"Ouvert 9h", "18h", "Fermé dimanche", "Menu à 25€"}, items)
	})

	t.Run("only delimiters falls back to trimmed input", func(t *testing.T) {
		items := parseKeyInformation(",;,")
		assert.Equal(t, []string{",;,"}, items)
	})
}

func TestTurn_EmptyMessageRejected(t *testing.T) {
	e, _, _ := newTestEngine()

	for _, step := range []int{StepBusinessType, StepAssistantName, StepTone, StepKeyInformation} {
		sess := newTestSession()
		sess.Step = step

		resp := e.Turn(context.Background(), sess, step, "   ", "")

		assert.Equal(t, messages.ErrCodeEmptyMessage, resp.ErrorCode, "step %d", step)
		require.NotNil(t, resp.NextStep)
		assert.Equal(t, step, *resp.NextStep, "step %d", step)
		assert.Equal(t, step, sess.Step, "step %d", step)
		assert.Empty(t, sess.History, "step %d", step)
	}
}

func TestTurn_BuildGuardBlocksIncompleteProfile(t *testing.T) {
	e, gw, _ := newTestEngine()
	sess := newTestSession()
	sess.Profile = completeProfile()
	sess.Profile.KeyInfo = nil
	sess.Step = StepBuild

	resp := e.Turn(context.Background(), sess, StepBuild, "✅ Oui, créer mon assistant !", "")

	require.NotNil(t, resp.NextStep)
	assert.Equal(t, StepKeyInformation, *resp.NextStep)
	assert.Equal(t, StepKeyInformation, sess.Step)
	assert.Zero(t, gw.createCalls)
}

func TestTurn_BuildSuccess(t *testing.T) {
	e, gw, _ := newTestEngine()
	sess := newTestSession()
	sess.Profile = completeProfile()

	resp := e.Turn(context.Background(), sess, StepBuild, "✅ Oui, créer mon assistant !", "user-1")

	require.NotNil(t, resp.NextStep)
	assert.Equal(t, StepKnowledgeBaseOffer, *resp.NextStep)
	assert.Equal(t, messages.ComponentKnowledgeBase, resp.Component)
	assert.Equal(t, "asst_123", sess.Profile.AssistantID)
	assert.False(t, sess.Profile.CreatedAt.IsZero())

	require.Equal(t, 1, gw.createCalls)
	require.NotNil(t, gw.lastConfig)
	assert.Equal(t, "Assistant Mario", gw.lastConfig.Name)
	assert.Equal(t, "user-1", gw.lastMeta.UserID)
	assert.Equal(t, "Chez Mario", gw.lastMeta.BusinessName)
	assert.Equal(t, "restaurant", gw.lastMeta.Sector)
}

func TestTurn_BuildFailureStaysAtBuild(t *testing.T) {
	e, gw, _ := newTestEngine()
	gw.failCreate = true
	sess := newTestSession()
	sess.Profile = completeProfile()
	sess.Step = StepBuild

	resp := e.Turn(context.Background(), sess, StepBuild, "✅ Oui, créer mon assistant !", "")

	require.NotNil(t, resp.NextStep)
	assert.Equal(t, StepBuild, *resp.NextStep)
	assert.Equal(t, StepBuild, sess.Step)
	assert.Equal(t, messages.ErrCodeGatewayFailed, resp.ErrorCode)
	assert.Contains(t, resp.Options, "🔄 Réessayer")
	assert.Empty(t, sess.Profile.AssistantID)
}

func TestTurn_BuildRetryAfterFailureSucceeds(t *testing.T) {
	e, gw, _ := newTestEngine()
	gw.failCreate = true
	sess := newTestSession()
	sess.Profile = completeProfile()

	resp := e.Turn(context.Background(), sess, StepBuild, "✅ Oui, créer mon assistant !", "")
	require.Equal(t, StepBuild, *resp.NextStep)

	gw.failCreate = false
	resp = e.Turn(context.Background(), sess, StepBuild, "🔄 Réessayer", "")
	require.NotNil(t, resp.NextStep)
	assert.Equal(t, StepKnowledgeBaseOffer, *resp.NextStep)
	assert.Equal(t, 2, gw.createCalls)
}

func TestTurn_KnowledgeBaseBranches(t *testing.T) {
	e, _, _ := newTestEngine()

	t.Run("opt in", func(t *testing.T) {
		sess := newTestSession()
		resp := e.Turn(context.Background(), sess, StepKnowledgeBaseOffer, "📚 Ajouter des documents", "")
		require.NotNil(t, resp.NextStep)
		assert.Equal(t, StepTest, *resp.NextStep)
		assert.Equal(t, messages.ComponentKnowledgeBase, resp.Component)
	})

	t.Run("skip", func(t *testing.T) {
		sess := newTestSession()
		resp := e.Turn(context.Background(), sess, StepKnowledgeBaseOffer, "⏭️ Passer au test", "")
		require.NotNil(t, resp.NextStep)
		assert.Equal(t, StepTest, *resp.NextStep)
		assert.Equal(t, messages.ComponentTestAssistant, resp.Component)
	})
}

func TestTurn_TestingBranches(t *testing.T) {
	e, _, _ := newTestEngine()

	t.Run("works", func(t *testing.T) {
		sess := newTestSession()
		resp := e.Turn(context.Background(), sess, StepTest, "✅ Parfait !", "")
		require.NotNil(t, resp.NextStep)
		assert.Equal(t, StepPhoneProvision, *resp.NextStep)
		assert.Equal(t, messages.ComponentPhoneNumber, resp.Component)
	})

	t.Run("problem loops back", func(t *testing.T) {
		sess := newTestSession()
		resp := e.Turn(context.Background(), sess, StepTest, "❌ Il y a un problème", "")
		require.NotNil(t, resp.NextStep)
		assert.Equal(t, StepTest, *resp.NextStep)
		assert.NotEmpty(t, resp.Options)
	})

	t.Run("anything else simulates a call", func(t *testing.T) {
		sess := newTestSession()
		sess.Profile.AssistantName = "Assistant Mario"
		resp := e.Turn(context.Background(), sess, StepTest, "allo ?", "")
		require.NotNil(t, resp.NextStep)
		assert.Equal(t, StepTest, *resp.NextStep)
		assert.Contains(t, resp.Content, "Assistant Mario")
	})
}

func TestTurn_PhoneProvisionSuccess(t *testing.T) {
	e, gw, st := newTestEngine()
	sess := newTestSession()
	sess.Profile = completeProfile()
	sess.Profile.AssistantID = "asst_123"

	resp := e.Turn(context.Background(), sess, StepPhoneProvision, "", "user-1")

	require.NotNil(t, resp.NextStep)
	assert.Equal(t, StepDone, *resp.NextStep)
	assert.Equal(t, messages.ComponentSuccess, resp.Component)
	assert.Contains(t, resp.Content, "+33145000000")

	assert.Equal(t, "+33145000000", sess.Profile.PhoneNumber)
	assert.Equal(t, "phone_456", sess.Profile.PhoneNumberID)
	assert.False(t, sess.Profile.CompletedAt.IsZero())
	assert.Equal(t, "01", gw.lastArea)

	require.Len(t, st.saved, 1)
	assert.Equal(t, "asst_123", st.saved[0].AssistantID)
}

func TestTurn_PhoneProvisionFailureStays(t *testing.T) {
	e, gw, st := newTestEngine()
	gw.failNumber = true
	sess := newTestSession()
	sess.Profile = completeProfile()
	sess.Profile.AssistantID = "asst_123"
	sess.Step = StepPhoneProvision

	resp := e.Turn(context.Background(), sess, StepPhoneProvision, "", "")

	require.NotNil(t, resp.NextStep)
	assert.Equal(t, StepPhoneProvision, *resp.NextStep)
	assert.Equal(t, StepPhoneProvision, sess.Step)
	assert.Contains(t, resp.Options, "🔄 Réessayer")
	assert.Empty(t, sess.Profile.PhoneNumber)
	assert.Empty(t, st.saved)
}

func TestTurn_StoreFailureDoesNotFailTurn(t *testing.T) {
	e, _, st := newTestEngine()
	st.fail = true
	sess := newTestSession()
	sess.Profile = completeProfile()
	sess.Profile.AssistantID = "asst_123"

	resp := e.Turn(context.Background(), sess, StepPhoneProvision, "", "")

	require.NotNil(t, resp.NextStep)
	assert.Equal(t, StepDone, *resp.NextStep)
	assert.Equal(t, messages.ComponentSuccess, resp.Component)
	assert.Empty(t, resp.ErrorCode)
}

func TestTurn_NilStoreTolerated(t *testing.T) {
	gw := &fakeGateway{}
	e := NewEngine(gw, nil, "01")
	sess := newTestSession()
	sess.Profile = completeProfile()
	sess.Profile.AssistantID = "asst_123"

	resp := e.Turn(context.Background(), sess, StepPhoneProvision, "", "")
	require.NotNil(t, resp.NextStep)
	assert.Equal(t, StepDone, *resp.NextStep)
}

func TestTurn_OutOfRangeStepIsTerminal(t *testing.T) {
	e, gw, _ := newTestEngine()

	for _, step := range []int{StepDone, 42, -1, 1000} {
		sess := newTestSession()
		sess.Profile = completeProfile()

		resp := e.Turn(context.Background(), sess, step, "bonjour", "")

		assert.Nil(t, resp.NextStep, "step %d", step)
		assert.Equal(t, messages.ComponentSuccess, resp.Component, "step %d", step)
		assert.Contains(t, resp.Content, "Félicitations", "step %d", step)
	}
	assert.Zero(t, gw.createCalls)
}

func TestTurn_FullHappyPath(t *testing.T) {
	e, gw, st := newTestEngine()
	sess := newTestSession()
	ctx := context.Background()

	turns := []struct {
		message string
		next    int
	}{
		{"💬 Par écrit", StepBusinessType},
		{"J'ai une pizzeria à Lyon, spécialité calzone", StepAssistantName},
		{"Assistant Mario", StepTone},
		{"Chaleureux !!", StepKeyInformation},
		{"Ouvert tous les jours; Livraison gratuite; Sans gluten disponible", StepBuild},
		{"✅ Oui, créer mon assistant !", StepKnowledgeBaseOffer},
		{"⏭️ Passer au test", StepTest},
		{"✅ Parfait !", StepPhoneProvision},
		{"", StepDone},
	}

	step := StepModeSelect
	for _, turn := range turns {
		resp := e.Turn(ctx, sess, step, turn.message, "user-1")
		require.NotNil(t, resp.NextStep, "message %q", turn.message)
		require.Equal(t, turn.next, *resp.NextStep, "message %q", turn.message)
		require.Empty(t, resp.ErrorCode, "message %q", turn.message)
		step = *resp.NextStep
	}

	assert.Equal(t, 1, gw.createCalls)
	assert.Equal(t, 1, gw.numberCalls)
	require.Len(t, st.saved, 1)
	assert.Equal(t, "chaleureux", st.saved[0].Tone)
	assert.Equal(t, "restaurant", st.saved[0].Sector)
	assert.Equal(t, "+33145000000", st.saved[0].PhoneNumber)
	assert.NotEmpty(t, sess.History)
}
