package dto

// CreateBAARequest adds a business associate.
type CreateBAARequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	LoginID      string  `json:"login_id"`
	JotformEmbed string  `json:"jotform_embed"`
}

// UpdateBAARequest partial update; nil fields are kept.
type UpdateBAARequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	LoginID      *string `json:"login_id"`
	JotformEmbed *string `json:"jotform_embed"`
}

// BAAFormResponse the embed a BAA has to fill in.
type BAAFormResponse struct {
	EmbedCode string `json:"embedCode"`
}
