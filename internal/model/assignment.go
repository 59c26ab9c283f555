package model

// Assignment participant ↔ form relation — assignments
type Assignment struct {
	ParticipantID uint `gorm:"primaryKey;autoIncrement:false" json:"participant_id"`
	FormID        uint `gorm:"primaryKey;autoIncrement:false" json:"form_id"`
}

// TableName table name
func (Assignment) TableName() string { return "assignments" }
