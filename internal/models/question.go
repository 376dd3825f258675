package models

// QuestionKind selects the validation rule applied to an answer.
type QuestionKind string

const (
	KindText          QuestionKind = "text"
	KindNumber        QuestionKind = "number"
	KindURL           QuestionKind = "url"
	KindAppStoreURL   QuestionKind = "app_store_url"
	KindPlayStoreURL  QuestionKind = "play_store_url"
	KindEmail         QuestionKind = "email"
	KindPhoneOptional QuestionKind = "phone_optional"
	KindMultiChoice   QuestionKind = "multi_choice"
)

// Question is the static definition of one prompt: its answer key, the text
// sent to the user, and how the reply is validated. Choices maps selector
// tokens ("1", "2", ...) to canonical labels for multi-choice questions.
type Question struct {
	Key     string            `json:"key"`
	Prompt  string            `json:"prompt"`
	Kind    QuestionKind      `json:"kind"`
	Choices map[string]string `json:"choices,omitempty"`
}
