package model

// Form catalog entry wrapping a JotForm embed — forms
type Form struct {
	IDModel
	Name         string `gorm:"type:text;not null" json:"name"`
	JotformEmbed string `gorm:"type:text"          json:"jotform_embed"`
	ButtonImage  string `gorm:"type:text"          json:"button_image"`
}

// TableName table name
func (Form) TableName() string { return "forms" }
