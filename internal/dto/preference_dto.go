package dto

type GetPreferenceResponse struct {
	Layout     string   `json:"layout"`
	Notes      string   `json:"notes"`
	Script     string   `json:"script"`
	References []string `json:"references"`
	Highlight  bool     `json:"highlight"`
}

type UpdatePreferenceRequest struct {
	Layout     string   `json:"layout" validate:"required,oneof=plain sidebyside linebyline"`
	Notes      string   `json:"notes" validate:"required,oneof=none asterisk sidenotes"`
	Script     string   `json:"script" validate:"required"`
	References []string `json:"references" validate:"required,min=1"`
	Highlight  bool     `json:"highlight"`
}

type UpdatePreferenceResponse struct {
	Mismatch bool `json:"mismatch"`
}

type RestorePreferenceResponse struct {
	Layout     string   `json:"layout"`
	Notes      string   `json:"notes"`
	Script     string   `json:"script"`
	References []string `json:"references"`
	Highlight  bool     `json:"highlight"`
}
