package model

// IDModel integer primary key shared by the catalog tables.
type IDModel struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`
}
