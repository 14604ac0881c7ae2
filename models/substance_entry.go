package models

// SubstanceEntry ist ein Eintrag einer Regulierungsliste, wie ihn ein
// Source-Provider liefert. Wird nie persistiert, pro Lauf frisch geholt
// (oder aus einem Snapshot gelesen) und nur gegen Ingredients verglichen.
type SubstanceEntry struct {
	Name         string `json:"name"`
	CasNumber    string `json:"cas_number,omitempty"`
	Reason       string `json:"reason,omitempty"`
	Regulation   string `json:"regulation"`
	ReferenceURL string `json:"reference_url,omitempty"`

	// Source wird vom Normalizer gestempelt, z.B. "ECHA_SVHC".
	Source string `json:"source"`
}
