package dto

import "github.com/google/uuid"

// PreferenceChangedMessage travels over the in-process bus from the
// preference service to the state broadcaster.
type PreferenceChangedMessage struct {
	SessionId uuid.UUID    `json:"session_id"`
	State     ViewStateDTO `json:"state"`
	Restored  bool         `json:"restored"`
}
