package models

import "time"

// Invite ist eine Team-Einladung. Der Token wird beim Anlegen als UUID
// generiert und beim Annehmen entwertet.
type Invite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OwnerID  uint   `json:"owner_id" gorm:"index;not null"`
	Email    string `json:"email" gorm:"not null" binding:"required,email"`
	Token    string `json:"token" gorm:"uniqueIndex;not null"`
	Accepted bool   `json:"accepted" gorm:"default:false"`
}

// TableName gibt explizit den Tabellennamen an.
func (Invite) TableName() string {
	return "invites"
}
