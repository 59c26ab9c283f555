package dto

// CreateFormRequest adds a form to the catalog.
type CreateFormRequest struct {
	Name         string `json:"name"`
	JotformEmbed string `json:"jotform_embed"`
	ButtonImage  string `json:"button_image"`
}

// UpdateFormRequest partial update; nil fields are kept.
type UpdateFormRequest struct {
	Name         *string `json:"name"`
	JotformEmbed *string `json:"jotform_embed"`
	ButtonImage  *string `json:"button_image"`
}
