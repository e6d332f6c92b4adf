package store

// Lookup is the active dictionary lookup of a session, if any.
type Lookup struct {
	SegmentID string `json:"segment_id"`
	Word      string `json:"word"`
}

// Session is the transient runtime state of one reader session. Persisted
// preferences live in the preference store; everything here may be lost on
// restart without harm.
type Session struct {
	ID string `json:"id"`

	// Last document the session composed, for state broadcasts.
	LastUid string `json:"last_uid"`

	// ActiveLookup is set while the dictionary pane is open.
	ActiveLookup *Lookup `json:"active_lookup"`

	// RestorePending is set by a restore-settings action and consumed by the
	// next compose, which then ignores the URL parameters outright.
	RestorePending bool `json:"restore_pending"`

	// TransliterationGen orders script changes: responses carrying an older
	// generation than the current one are discarded.
	TransliterationGen uint64 `json:"transliteration_gen"`
}
