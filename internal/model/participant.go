package model

// Participant — participants
type Participant struct {
	IDModel
	Name    string `gorm:"type:text;not null" json:"name"`
	LoginID string `gorm:"type:text;not null" json:"login_id"`
}

// TableName table name
func (Participant) TableName() string { return "participants" }
