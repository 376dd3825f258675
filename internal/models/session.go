package models

import "time"

// Phase is the position of a session in the questionnaire state machine.
type Phase string

const (
	PhaseAwaitingConsent Phase = "awaiting_consent"
	PhaseAwaitingListing Phase = "awaiting_listing"
	PhaseInQuestion      Phase = "in_question"
	PhaseComplete        Phase = "complete"
)

// Listing is the user's declared store presence. It is chosen once and
// decides which link questions appear in the sequence.
type Listing string

const (
	ListingAppStore  Listing = "app_store"
	ListingPlayStore Listing = "play_store"
	ListingBoth      Listing = "both"
)

// Session holds the full in-memory state of one user's questionnaire.
// Sessions live only in process memory; a restart drops them and the user
// starts over at consent.
type Session struct {
	Identifier    string            `json:"identifier"` // phone number
	Phase         Phase             `json:"phase"`
	QuestionIndex int               `json:"question_index"` // valid while Phase == PhaseInQuestion
	Listing       Listing           `json:"listing,omitempty"`
	Questions     []Question        `json:"questions"` // immutable once built
	Answers       map[string]string `json:"answers"`
	CreatedAt     time.Time         `json:"created_at"`
	LastActive    time.Time         `json:"last_active"`
}

// CurrentQuestion returns the pending question, or false when the session is
// not in the question phase or the index is out of range.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.Phase != PhaseInQuestion || s.Questions == nil {
		return Question{}, false
	}
	if s.QuestionIndex < 0 || s.QuestionIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.QuestionIndex], true
}
