package models

// Suggestion is one ranked candidate next action for a user.
type Suggestion struct {
	ActionType string  `json:"action_type"`
	Score      float64 `json:"score"`
	Rationale  string  `json:"rationale"`
	Untested   bool    `json:"untested"`
}

// ContextSignals are the lightweight activity signals the suggestion engine
// blends with pattern confidence.
type ContextSignals struct {
	// PendingDocumentActions counts document-sourced pending actions per
	// action type, so only the proposed types get the review boost.
	PendingDocumentActions map[string]int
	OverdueInvoices        int
	LowCashBalance         bool
}

// IntentResult is the output of the upstream intent recognizer. A kind of
// "none" is a pure chat response and produces no action.
type IntentResult struct {
	Kind       string                 `json:"kind"` // action | none
	ActionType string                 `json:"action_type"`
	Payload    map[string]interface{} `json:"payload"`
	Confidence float64                `json:"confidence"`
	MessageRef string                 `json:"message_ref,omitempty"`
}

// DocumentExtraction is the output of the upstream document extractor.
type DocumentExtraction struct {
	DocumentType    string                 `json:"document_type"`
	ActionType      string                 `json:"action_type"`
	Fields          map[string]interface{} `json:"fields"`
	FieldConfidence map[string]float64     `json:"field_confidence"`
	OpenQuestions   []string               `json:"open_questions"`
	DocumentRef     string                 `json:"document_ref,omitempty"`
}
