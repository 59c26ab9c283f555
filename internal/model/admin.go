package model

// Admin administrator credential — admins
type Admin struct {
	IDModel
	Username     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null"             json:"-"`
}

// TableName table name
func (Admin) TableName() string { return "admins" }
