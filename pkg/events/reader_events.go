package events

import "time"

const (
	TypePreferenceChanged = "PREFERENCE_CHANGED"
	TypeDocumentComposed  = "DOCUMENT_COMPOSED"
)

// PreferenceState is the event-stream copy of a session's view state.
type PreferenceState struct {
	Layout     string   `json:"layout"`
	Notes      string   `json:"notes"`
	Script     string   `json:"script"`
	References []string `json:"references"`
	Highlight  bool     `json:"highlight"`
}

type PreferenceChangedPayload struct {
	SessionID string          `json:"session_id"`
	State     PreferenceState `json:"state"`
}

type DocumentComposedPayload struct {
	SessionID string `json:"session_id"`
	Uid       string `json:"uid"`
	Lang      string `json:"lang"`
	Mismatch  bool   `json:"mismatch"`
}

// NewPreferenceChanged records that a session saved a new view state.
func NewPreferenceChanged(sessionID string, state PreferenceState) Event {
	return BaseEvent{
		Type:       TypePreferenceChanged,
		Data:       PreferenceChangedPayload{SessionID: sessionID, State: state},
		OccurredAt: time.Now(),
	}
}

// NewDocumentComposed records one rendered document delivery, carrying the
// publication facts interested consumers need.
func NewDocumentComposed(sessionID, uid, lang string, mismatch bool) Event {
	return BaseEvent{
		Type: TypeDocumentComposed,
		Data: DocumentComposedPayload{
			SessionID: sessionID,
			Uid:       uid,
			Lang:      lang,
			Mismatch:  mismatch,
		},
		OccurredAt: time.Now(),
	}
}
