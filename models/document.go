package models

import "time"

// Document repräsentiert eine vom Mandanten hochgeladene Datei
// (Sicherheitsdatenblatt, Rezeptur o.ä.). Die Datei selbst liegt im S3,
// hier nur die Metadaten.
type Document struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OwnerID     uint   `json:"owner_id" gorm:"index;not null"`
	FileName    string `json:"file_name" gorm:"not null"`
	ContentType string `json:"content_type,omitempty"`
	SizeBytes   int64  `json:"size_bytes"`
	S3Link      string `json:"s3_link" gorm:"type:text"`
}

// TableName gibt explizit den Tabellennamen an.
func (Document) TableName() string {
	return "documents"
}
