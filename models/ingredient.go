package models

import "time"

// Ingredient repräsentiert einen vom Mandanten überwachten Inhaltsstoff.
// (owner_id, name) ist bewusst nicht eindeutig: ein Mandant darf
// Beinahe-Duplikate anlegen.
type Ingredient struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OwnerID   uint   `json:"owner_id" gorm:"index;not null"`
	Name      string `json:"name" gorm:"not null" binding:"required"`
	CasNumber string `json:"cas_number,omitempty"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Ingredient) TableName() string {
	return "ingredients"
}
