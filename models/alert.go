package models

import "time"

// Alert speichert einen gefundenen Treffer zwischen einem Ingredient und
// einem Eintrag einer Regulierungsliste. Pro Mandant existiert höchstens ein
// Alert je (ingredient_id, substance_name, source), abgesichert durch den
// Unique-Index idx_alerts_dedup, damit konkurrierende Läufe keine Duplikate
// erzeugen können.
type Alert struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OwnerID uint `json:"owner_id" gorm:"column:owner_id;index;uniqueIndex:idx_alerts_dedup;not null"`

	// Nullable: wird das Ingredient später gelöscht, bleibt der Alert bestehen.
	IngredientID *uint       `json:"ingredient_id" gorm:"uniqueIndex:idx_alerts_dedup"`
	Ingredient   *Ingredient `json:"-" gorm:"constraint:OnDelete:SET NULL"`

	SubstanceName string `json:"substance_name" gorm:"size:512;not null;uniqueIndex:idx_alerts_dedup"`
	CasNumber     string `json:"cas_number,omitempty"`
	Source        string `json:"source" gorm:"size:64;index;uniqueIndex:idx_alerts_dedup"`
	Regulation    string `json:"regulation"`
	Reason        string `json:"reason,omitempty" gorm:"type:text"`
	ReferenceURL  string `json:"reference_url,omitempty"`

	IsRead bool `json:"is_read" gorm:"default:false"`
}

// TableName gibt explizit den Tabellennamen an.
func (Alert) TableName() string {
	return "alerts"
}
