package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kalagato/valuebot-backend/internal/models"
)

type sentMessage struct {
	To      string
	Text    string
	Buttons []string
}

// fakeMessenger records every outbound message.
type fakeMessenger struct {
	sent []sentMessage
}

func (f *fakeMessenger) SendText(to, text string) error {
	f.sent = append(f.sent, sentMessage{To: to, Text: text})
	return nil
}

func (f *fakeMessenger) SendButtons(to, text string, buttons []string) error {
	f.sent = append(f.sent, sentMessage{To: to, Text: text, Buttons: buttons})
	return nil
}

func (f *fakeMessenger) last() sentMessage {
	if len(f.sent) == 0 {
		return sentMessage{}
	}
	return f.sent[len(f.sent)-1]
}

// fakeSink records saved leads and can be told to fail.
type fakeSink struct {
	leads []*models.ValuationLead
	fail  bool
}

func (f *fakeSink) SaveLead(lead *models.ValuationLead) error {
	if f.fail {
		return fmt.Errorf("sink unavailable")
	}
	f.leads = append(f.leads, lead)
	return nil
}

// fakeNotifier records valuation emails and can be told to fail.
type fakeNotifier struct {
	emails []string
	fail   bool
}

func (f *fakeNotifier) SendValuation(toEmail, displayName, formatted string) error {
	if f.fail {
		return fmt.Errorf("smtp unavailable")
	}
	f.emails = append(f.emails, toEmail+": "+formatted)
	return nil
}

type engineFixture struct {
	engine    *DialogueEngine
	sessions  *SessionManager
	messenger *fakeMessenger
	sink      *fakeSink
	notifier  *fakeNotifier
}

func newEngineFixture() *engineFixture {
	sessions := NewSessionManager(DefaultSessionTTL)
	messenger := &fakeMessenger{}
	sink := &fakeSink{}
	notifier := &fakeNotifier{}
	return &engineFixture{
		engine:    NewDialogueEngine(sessions, messenger, notifier, sink),
		sessions:  sessions,
		messenger: messenger,
		sink:      sink,
		notifier:  notifier,
	}
}

const testUser = "15550001111"

func TestFirstContactSendsConsentButtons(t *testing.T) {
	f := newEngineFixture()
	f.engine.HandleEvent(testUser, "hi", false)

	last := f.messenger.last()
	if last.Text != GreetingText {
		t.Errorf("expected greeting, got %q", last.Text)
	}
	if len(last.Buttons) != 2 || last.Buttons[0] != "Yes" || last.Buttons[1] != "No" {
		t.Errorf("expected Yes/No buttons, got %v", last.Buttons)
	}
	if _, exists := f.sessions.Get(testUser); !exists {
		t.Error("expected session to be created on first contact")
	}
}

func TestConsentDeclineEndsSession(t *testing.T) {
	f := newEngineFixture()
	f.engine.HandleEvent(testUser, "hi", false)
	f.engine.HandleEvent(testUser, "no", true)

	if f.messenger.last().Text != DeclineText {
		t.Errorf("expected decline text, got %q", f.messenger.last().Text)
	}
	if _, exists := f.sessions.Get(testUser); exists {
		t.Error("session should be destroyed after decline")
	}

	// Next contact starts over at consent
	f.engine.HandleEvent(testUser, "hello again", false)
	if f.messenger.last().Text != GreetingText {
		t.Errorf("expected greeting after decline restart, got %q", f.messenger.last().Text)
	}
}

func TestConsentNudgeIsIdempotent(t *testing.T) {
	f := newEngineFixture()
	f.engine.HandleEvent(testUser, "hi", false)
	f.engine.HandleEvent(testUser, "what is this?", false)

	last := f.messenger.last()
	if last.Text != GreetingText || len(last.Buttons) != 2 {
		t.Errorf("expected consent re-prompt, got %q %v", last.Text, last.Buttons)
	}

	session, _ := f.sessions.Get(testUser)
	if session.Phase != models.PhaseAwaitingConsent {
		t.Errorf("phase changed to %q on unrecognized consent input", session.Phase)
	}
}

func TestConsentYesAsksForListing(t *testing.T) {
	f := newEngineFixture()
	f.engine.HandleEvent(testUser, "hi", false)
	f.engine.HandleEvent(testUser, "yes", true)

	last := f.messenger.last()
	if last.Text != ListingText {
		t.Errorf("expected listing prompt, got %q", last.Text)
	}
	if len(last.Buttons) != 3 {
		t.Errorf("expected three listing buttons, got %v", last.Buttons)
	}
}

func TestUnrecognizedListingReprompts(t *testing.T) {
	f := newEngineFixture()
	f.engine.HandleEvent(testUser, "hi", false)
	f.engine.HandleEvent(testUser, "yes", true)
	f.engine.HandleEvent(testUser, "somewhere else", false)

	if f.messenger.last().Text != ListingText {
		t.Errorf("expected listing re-prompt, got %q", f.messenger.last().Text)
	}

	session, _ := f.sessions.Get(testUser)
	if session.Phase != models.PhaseAwaitingListing || session.Questions != nil {
		t.Error("listing phase must not advance on unrecognized input")
	}
}

func TestInvalidAnswerRepromptsWithoutAdvancing(t *testing.T) {
	f := newEngineFixture()
	f.engine.HandleEvent(testUser, "hi", false)
	f.engine.HandleEvent(testUser, "yes", true)
	f.engine.HandleEvent(testUser, "play_store", true)
	f.engine.HandleEvent(testUser, "https://play.google.com/store/apps/details?id=x", false)

	// Now at the revenue question; answer with garbage.
	before := len(f.messenger.sent)
	f.engine.HandleEvent(testUser, "abc", false)

	session, _ := f.sessions.Get(testUser)
	if session.QuestionIndex != 1 {
		t.Errorf("question index advanced to %d on invalid input", session.QuestionIndex)
	}
	if len(session.Answers) != 1 {
		t.Errorf("answers changed on invalid input: %v", session.Answers)
	}
	if len(f.messenger.sent) != before+2 {
		t.Fatalf("expected error + re-prompt, got %d messages", len(f.messenger.sent)-before)
	}
	if !strings.Contains(f.messenger.sent[before].Text, "numeric") {
		t.Errorf("expected numeric error, got %q", f.messenger.sent[before].Text)
	}
	if f.messenger.last().Text != session.Questions[1].Prompt {
		t.Errorf("expected same question re-prompt, got %q", f.messenger.last().Text)
	}
}

func TestEmptyInputRepromptsCurrentQuestion(t *testing.T) {
	f := newEngineFixture()
	f.engine.HandleEvent(testUser, "hi", false)
	f.engine.HandleEvent(testUser, "yes", true)
	f.engine.HandleEvent(testUser, "app_store", true)

	f.engine.HandleEvent(testUser, "   ", false)

	session, _ := f.sessions.Get(testUser)
	if session.QuestionIndex != 0 {
		t.Errorf("index advanced to %d on empty input", session.QuestionIndex)
	}
	if !strings.Contains(f.messenger.last().Text, "didn't receive any text") {
		t.Errorf("expected empty-input re-prompt, got %q", f.messenger.last().Text)
	}
}

func TestStrayConsentTokensIgnoredMidFlow(t *testing.T) {
	f := newEngineFixture()
	f.engine.HandleEvent(testUser, "hi", false)
	f.engine.HandleEvent(testUser, "yes", true)
	f.engine.HandleEvent(testUser, "both", false)

	before := len(f.messenger.sent)
	f.engine.HandleEvent(testUser, "yes", true)
	f.engine.HandleEvent(testUser, "no", false)

	session, _ := f.sessions.Get(testUser)
	if session.QuestionIndex != 0 || len(session.Answers) != 0 {
		t.Error("stray consent token changed session state")
	}
	if len(f.messenger.sent) != before {
		t.Errorf("stray consent token triggered %d message(s)", len(f.messenger.sent)-before)
	}
}

func TestEndToEndBothListing(t *testing.T) {
	f := newEngineFixture()

	steps := []string{
		"hi",
		"yes",
		"both",
		"https://apps.apple.com/us/app/example/id123",
		"https://play.google.com/store/apps/details?id=com.example",
		"250000",
		"50000",
		"10000",
		"20000",
		"2",
		"a@b.com",
		"skip",
	}
	for _, step := range steps {
		f.engine.HandleEvent(testUser, step, false)
	}

	if len(f.sink.leads) != 1 {
		t.Fatalf("expected one saved lead, got %d", len(f.sink.leads))
	}
	lead := f.sink.leads[0]

	if lead.Phone != "" {
		t.Errorf("skip should map phone to empty string, got %q", lead.Phone)
	}
	if lead.RevenueType != "Subscription" {
		t.Errorf("revenue type = %q, want Subscription", lead.RevenueType)
	}
	if lead.ValuationMin != 30000 || lead.ValuationMax != 46000 || lead.ValuationMid != 38000 {
		t.Errorf("valuation = (%v, %v, %v), want (30000, 46000, 38000)",
			lead.ValuationMin, lead.ValuationMax, lead.ValuationMid)
	}
	if lead.AppStoreLink == "" || lead.PlayStoreLink == "" {
		t.Error("expected both store links recorded")
	}

	if len(f.notifier.emails) != 1 || !strings.HasPrefix(f.notifier.emails[0], "a@b.com:") {
		t.Errorf("expected one valuation email to a@b.com, got %v", f.notifier.emails)
	}
	if f.messenger.last().Text != ThankYouText {
		t.Errorf("expected thank-you ack, got %q", f.messenger.last().Text)
	}
	if _, exists := f.sessions.Get(testUser); exists {
		t.Error("session must be destroyed after completion")
	}
}

func TestCompletionWithFailingEmail(t *testing.T) {
	f := newEngineFixture()
	f.notifier.fail = true

	runSingleStoreFlow(f)

	if len(f.sink.leads) != 1 {
		t.Fatalf("lead should still be saved when email fails, got %d", len(f.sink.leads))
	}
	if !strings.Contains(f.messenger.last().Text, "couldn't send the email") {
		t.Errorf("expected degraded email ack, got %q", f.messenger.last().Text)
	}
	if _, exists := f.sessions.Get(testUser); exists {
		t.Error("session must be destroyed even when email fails")
	}
}

func TestCompletionWithFailingSink(t *testing.T) {
	f := newEngineFixture()
	f.sink.fail = true

	runSingleStoreFlow(f)

	if len(f.notifier.emails) != 1 {
		t.Fatalf("email should still go out when the sink fails, got %d", len(f.notifier.emails))
	}
	if !strings.Contains(f.messenger.last().Text, "may not have been saved") {
		t.Errorf("expected degraded save ack, got %q", f.messenger.last().Text)
	}
	if _, exists := f.sessions.Get(testUser); exists {
		t.Error("session must be destroyed even when the sink fails")
	}
}

// runSingleStoreFlow walks a Play-Store-only conversation to completion.
func runSingleStoreFlow(f *engineFixture) {
	steps := []string{
		"hi",
		"yes",
		"play",
		"https://play.google.com/store/apps/details?id=com.example",
		"100000",
		"20000",
		"5000",
		"50000",
		"1,3",
		"dev@example.com",
		"skip",
	}
	for _, step := range steps {
		f.engine.HandleEvent(testUser, step, false)
	}
}

func TestSessionTimeoutRestartsAtConsent(t *testing.T) {
	sessions := NewSessionManager(50 * time.Millisecond)
	messenger := &fakeMessenger{}
	engine := NewDialogueEngine(sessions, messenger, &fakeNotifier{}, &fakeSink{})

	engine.HandleEvent(testUser, "hi", false)
	engine.HandleEvent(testUser, "yes", true)
	engine.HandleEvent(testUser, "both", false)
	engine.HandleEvent(testUser, "https://apps.apple.com/us/app/x/id1", false)

	time.Sleep(80 * time.Millisecond)

	engine.HandleEvent(testUser, "250000", false)

	last := messenger.last()
	if last.Text != GreetingText {
		t.Errorf("expected consent restart after timeout, got %q", last.Text)
	}

	session, exists := sessions.Get(testUser)
	if !exists {
		t.Fatal("expected fresh session after timeout")
	}
	if session.Phase != models.PhaseAwaitingConsent || len(session.Answers) != 0 {
		t.Error("prior partial answers must be discarded after timeout")
	}
}

func TestBrokenSessionIsDestroyedNotFatal(t *testing.T) {
	f := newEngineFixture()
	f.engine.HandleEvent(testUser, "hi", false)
	f.engine.HandleEvent(testUser, "yes", true)
	f.engine.HandleEvent(testUser, "both", false)

	// Corrupt the session the way a bug would: index past the sequence.
	session, _ := f.sessions.Get(testUser)
	session.QuestionIndex = 99

	f.engine.HandleEvent(testUser, "250000", false)

	if f.messenger.last().Text != RestartText {
		t.Errorf("expected restart message, got %q", f.messenger.last().Text)
	}
	if _, exists := f.sessions.Get(testUser); exists {
		t.Error("broken session must be destroyed")
	}

	// Other users are unaffected; the next contact works normally.
	f.engine.HandleEvent("15550002222", "hi", false)
	if f.messenger.last().Text != GreetingText {
		t.Errorf("engine unusable after broken session: %q", f.messenger.last().Text)
	}
}
