package services

import (
	"log"
	"strings"
	"time"

	"github.com/kalagato/valuebot-backend/internal/models"
)

// Messenger delivers outbound messages to a user. Implementations log their
// own failures; the engine fires and forgets.
type Messenger interface {
	SendText(to, text string) error
	SendButtons(to, text string, buttons []string) error
}

// RecordSink receives one flat record per completed conversation.
type RecordSink interface {
	SaveLead(lead *models.ValuationLead) error
}

// Notifier emails the valuation result to the user.
type Notifier interface {
	SendValuation(toEmail, displayName, formattedValuation string) error
}

// DialogueEngine drives one linear questionnaire per user: consent, an
// optional listing branch, a validated question sequence, then valuation
// and side effects. All state lives in the SessionManager; the engine
// itself is stateless between calls.
type DialogueEngine struct {
	sessions  *SessionManager
	messenger Messenger
	records   []RecordSink
	notifier  Notifier
}

// NewDialogueEngine wires the engine to its collaborators. Any number of
// record sinks may be attached (spreadsheet, database); a nil notifier
// degrades to the "couldn't email" acknowledgement.
func NewDialogueEngine(sessions *SessionManager, messenger Messenger, notifier Notifier, records ...RecordSink) *DialogueEngine {
	return &DialogueEngine{
		sessions:  sessions,
		messenger: messenger,
		records:   records,
		notifier:  notifier,
	}
}

// Sessions exposes the session manager (for monitoring endpoints and the
// expiry sweeper).
func (e *DialogueEngine) Sessions() *SessionManager {
	return e.sessions
}

// HandleEvent processes one deduplicated inbound message or button tap.
// Events for the same identifier are serialized; different identifiers
// proceed in parallel.
func (e *DialogueEngine) HandleEvent(identifier, input string, isButton bool) {
	unlock := e.sessions.LockIdentifier(identifier)
	defer unlock()

	defer func() {
		// A broken session must never take down the process or touch
		// other sessions: drop it and ask the user to restart.
		if r := recover(); r != nil {
			log.Printf("❌ Dialogue panic for %s: %v", identifier, r)
			e.sessions.Delete(identifier)
			e.messenger.SendText(identifier, RestartText)
		}
	}()

	session, exists := e.sessions.Get(identifier)
	if !exists {
		session = e.sessions.Create(identifier)
		e.messenger.SendButtons(identifier, GreetingText, []string{"Yes", "No"})
		return
	}
	e.sessions.Touch(session)

	trimmed := strings.TrimSpace(input)

	switch session.Phase {
	case models.PhaseAwaitingConsent:
		e.handleConsent(session, trimmed)
	case models.PhaseAwaitingListing:
		e.handleListing(session, trimmed)
	case models.PhaseInQuestion:
		e.handleAnswer(session, trimmed)
	default:
		log.Printf("❌ Session for %s in unknown phase %q - restarting", identifier, session.Phase)
		e.sessions.Delete(identifier)
		e.messenger.SendText(identifier, RestartText)
	}
}

func isConsentToken(val string) (yes, no bool) {
	switch strings.ToLower(val) {
	case "yes", "yes_reply", "yes_response":
		return true, false
	case "no", "no_reply", "no_response":
		return false, true
	}
	return false, false
}

func (e *DialogueEngine) handleConsent(session *models.Session, input string) {
	yes, no := isConsentToken(input)

	switch {
	case no:
		e.messenger.SendText(session.Identifier, DeclineText)
		e.sessions.Delete(session.Identifier)
		log.Printf("User %s declined - session ended", session.Identifier)

	case yes:
		session.Phase = models.PhaseAwaitingListing
		e.messenger.SendButtons(session.Identifier, ListingText, []string{"App Store", "Play Store", "Both"})

	default:
		// Typed "hi" or anything else: nudge with the same prompt.
		e.messenger.SendButtons(session.Identifier, GreetingText, []string{"Yes", "No"})
	}
}

func (e *DialogueEngine) handleListing(session *models.Session, input string) {
	listing, ok := MatchListing(input)
	if !ok {
		e.messenger.SendButtons(session.Identifier, ListingText, []string{"App Store", "Play Store", "Both"})
		return
	}

	session.Listing = listing
	session.Questions = BuildQuestionFlow(listing)
	session.Phase = models.PhaseInQuestion
	session.QuestionIndex = 0
	e.messenger.SendText(session.Identifier, session.Questions[0].Prompt)
}

func (e *DialogueEngine) handleAnswer(session *models.Session, input string) {
	question, ok := session.CurrentQuestion()
	if !ok {
		log.Printf("❌ Session for %s has no current question (index %d of %d) - restarting",
			session.Identifier, session.QuestionIndex, len(session.Questions))
		e.sessions.Delete(session.Identifier)
		e.messenger.SendText(session.Identifier, RestartText)
		return
	}

	// Delayed consent button deliveries arriving mid-flow are not answers;
	// absorb them without re-prompting.
	if yes, no := isConsentToken(input); yes || no {
		log.Printf("Ignoring stray consent token %q from %s mid-flow", input, session.Identifier)
		return
	}

	if input == "" {
		e.messenger.SendText(session.Identifier, "I didn't receive any text. "+question.Prompt)
		return
	}

	normalized, errMsg, valid := ValidateAnswer(question, input)
	if !valid {
		e.messenger.SendText(session.Identifier, errMsg)
		e.messenger.SendText(session.Identifier, question.Prompt)
		return
	}

	session.Answers[question.Key] = normalized
	session.QuestionIndex++

	if session.QuestionIndex < len(session.Questions) {
		e.messenger.SendText(session.Identifier, session.Questions[session.QuestionIndex].Prompt)
		return
	}

	session.Phase = models.PhaseComplete
	e.complete(session)
}

// complete computes the valuation, attempts persistence and email, sends
// the acknowledgement and destroys the session. Sink failures degrade the
// acknowledgement text but never keep the session alive.
func (e *DialogueEngine) complete(session *models.Session) {
	answers := session.Answers
	profit := ParseProfit(answers[models.AnswerProfit])
	vmin, vmax, vmid := ComputeValuation(profit, answers[models.AnswerRevenueType])

	lead := &models.ValuationLead{
		UserPhone:     session.Identifier,
		AppStoreLink:  answers[models.AnswerAppStoreLink],
		PlayStoreLink: answers[models.AnswerPlayStoreLink],
		Revenue:       answers[models.AnswerRevenue],
		MarketingCost: answers[models.AnswerMarketingCost],
		ServerCost:    answers[models.AnswerServerCost],
		Profit:        answers[models.AnswerProfit],
		RevenueType:   answers[models.AnswerRevenueType],
		Email:         answers[models.AnswerEmail],
		Phone:         answers[models.AnswerPhone],
		ValuationMin:  vmin,
		ValuationMax:  vmax,
		ValuationMid:  vmid,
		CreatedAt:     time.Now().UTC(),
	}

	saved := true
	for _, sink := range e.records {
		if err := sink.SaveLead(lead); err != nil {
			log.Printf("❌ Failed to save lead for %s: %v", session.Identifier, err)
			saved = false
		}
	}

	emailed := false
	if e.notifier != nil {
		formatted := FormatValuation(vmin, vmax)
		if err := e.notifier.SendValuation(lead.Email, "there", formatted); err != nil {
			log.Printf("❌ Failed to email valuation to %s: %v", lead.Email, err)
		} else {
			emailed = true
		}
	}

	switch {
	case saved && emailed:
		e.messenger.SendText(session.Identifier, ThankYouText)
	case saved:
		e.messenger.SendText(session.Identifier, "✅ Saved your data, but we couldn't send the email automatically. "+ThankYouText)
	case emailed:
		e.messenger.SendText(session.Identifier, "⚠️ We emailed your valuation, but your details may not have been saved. Our team will follow up.")
	default:
		e.messenger.SendText(session.Identifier, "⚠️ We computed your valuation, but your data may not have been saved and the email failed. Our team will follow up.")
	}

	e.sessions.Delete(session.Identifier)
	log.Printf("Conversation completed for %s (min=%.2f max=%.2f)", session.Identifier, vmin, vmax)
}
