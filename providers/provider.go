package providers

import (
	"context"

	"reach-radar/models"
)

// Result ist das Ergebnis eines Provider-Abrufs. Degraded markiert, dass
// statt der Live-Daten ein Fallback (letzter erfolgreicher Abruf oder der
// eincompilierte Snapshot) geliefert wurde. Aufrufer können das loggen,
// die Matching-Logik interessiert es nicht.
type Result struct {
	Entries  []models.SubstanceEntry
	Degraded bool
}

// Provider ist das Interface, das jede Regulierungsquelle (z.B. ECHA,
// EUR-Lex, ANSM) implementieren muss.
type Provider interface {
	// Fetch holt die aktuelle Substanzliste der Quelle. Ein fehlgeschlagener
	// Live-Abruf führt zum Fallback, nicht zu einem Fehler. error ist nur
	// für Fälle reserviert, in denen auch kein Fallback existiert.
	Fetch(ctx context.Context) (Result, error)

	// Source gibt die eindeutige Kennung der Quelle zurück (z.B. "ECHA_SVHC").
	Source() string
}
