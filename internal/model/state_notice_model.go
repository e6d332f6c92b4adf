package model

// StateNotice is pushed to connected reader clients whenever the effective
// view state of their session changes.
type StateNotice struct {
	SessionId  string   `json:"session_id"`
	Layout     string   `json:"layout"`
	Notes      string   `json:"notes"`
	Script     string   `json:"script"`
	References []string `json:"references"`
	Highlight  bool     `json:"highlight"`
	Restored   bool     `json:"restored"`
}
