package model

// BAA business associate — baas
// BAAs sign in with LoginID only.
type BAA struct {
	IDModel
	Name         *string `gorm:"type:text"          json:"name"`
	Email        *string `gorm:"type:text"          json:"email"`
	LoginID      string  `gorm:"type:text;not null" json:"login_id"`
	JotformEmbed string  `gorm:"type:text"          json:"jotform_embed"`
}

// TableName table name
func (BAA) TableName() string { return "baas" }
