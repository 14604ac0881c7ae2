package models

import "time"

// User repräsentiert einen Mandanten (Firma/Account). Alle Ingredients,
// Alerts und Dokumente hängen an genau einem User.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email       string `json:"email" gorm:"uniqueIndex;not null"`
	CompanyName string `json:"company_name"`
	Plan        string `json:"plan" gorm:"default:'free'"` // free, starter, pro, enterprise

	// APIToken authentifiziert den Mandanten (X-API-KEY Header).
	APIToken string `json:"-" gorm:"uniqueIndex;not null"`
}

// TableName gibt explizit den Tabellennamen an.
func (User) TableName() string {
	return "users"
}
