package models

// planLimits bildet Plan → maximale Anzahl überwachter Ingredients ab.
// -1 = unbegrenzt. Abrechnungslogik selbst lebt außerhalb dieses Services.
var planLimits = map[string]int{
	"free":       5,
	"starter":    25,
	"pro":        100,
	"enterprise": -1,
}

// MaxIngredients gibt das Ingredient-Kontingent für einen Plan zurück.
// Unbekannte Pläne fallen auf das Free-Kontingent zurück.
func MaxIngredients(plan string) int {
	if limit, ok := planLimits[plan]; ok {
		return limit
	}
	return planLimits["free"]
}
