package services

import "reach-radar/models"

// AlertKey ist der natürliche Deduplizierungsschlüssel eines Alerts
// innerhalb eines Mandanten.
type AlertKey struct {
	IngredientID  uint
	SubstanceName string
	Source        string
}

// ProposedAlert ist ein Treffer aus dem Matcher, der noch gegen bestehende
// Alerts dedupliziert werden muss.
type ProposedAlert struct {
	Ingredient models.Ingredient
	Entry      models.SubstanceEntry
	Kind       MatchKind
}

// KeyFor bildet den Dedup-Schlüssel eines Treffers. Der Substanzname geht
// unverändert ein (keine Normalisierung): innerhalb einer Quelle ist die
// Schreibweise stabil, und genau darauf stützt sich die Idempotenz.
func KeyFor(p ProposedAlert) AlertKey {
	return AlertKey{
		IngredientID:  p.Ingredient.ID,
		SubstanceName: p.Entry.Name,
		Source:        p.Entry.Source,
	}
}

// KeysFromAlerts baut die Schlüsselmenge der bereits persistierten Alerts
// eines Mandanten. Alerts, deren Ingredient inzwischen gelöscht wurde,
// erhalten den Schlüssel mit Ingredient-ID 0.
func KeysFromAlerts(alerts []models.Alert) map[AlertKey]struct{} {
	keys := make(map[AlertKey]struct{}, len(alerts))
	for _, a := range alerts {
		var ingredientID uint
		if a.IngredientID != nil {
			ingredientID = *a.IngredientID
		}
		keys[AlertKey{
			IngredientID:  ingredientID,
			SubstanceName: a.SubstanceName,
			Source:        a.Source,
		}] = struct{}{}
	}
	return keys
}

// FilterNew behält nur Treffer, deren Schlüssel noch nicht in existing
// vorkommt. Akzeptierte Schlüssel werden SOFORT in existing eingetragen,
// damit ein späterer Treffer desselben Laufs mit gleichem Schlüssel ebenfalls
// verworfen wird (z.B. wenn eine Quelle dieselbe Substanz doppelt listet).
// existing wird dabei mutiert. Die Eingabereihenfolge bleibt erhalten.
func FilterNew(existing map[AlertKey]struct{}, proposed []ProposedAlert) (accepted []ProposedAlert, skipped int) {
	for _, p := range proposed {
		key := KeyFor(p)
		if _, ok := existing[key]; ok {
			skipped++
			continue
		}
		existing[key] = struct{}{}
		accepted = append(accepted, p)
	}
	return accepted, skipped
}
