package services

import (
	"strings"

	"reach-radar/models"
)

// MatchKind beschreibt das Ergebnis eines Vergleichs zwischen Ingredient und
// Listeneintrag.
type MatchKind int

const (
	// NoMatch: die beiden beziehen sich nicht auf dieselbe Substanz.
	NoMatch MatchKind = iota
	// CasMatch: identische CAS-Nummern auf beiden Seiten.
	CasMatch
	// NameMatch: Namensgleichheit bzw. beidseitige Teilstring-Enthaltung.
	NameMatch
)

// String gibt die Kennung des MatchKind zurück.
func (k MatchKind) String() string {
	switch k {
	case CasMatch:
		return "cas"
	case NameMatch:
		return "name"
	default:
		return "none"
	}
}

// minContainsLen ist die Untergrenze für den Teilstring-Vergleich: kürzere
// Namen matchen nur bei voller Gleichheit, sonst produziert z.B. "lead" in
// "unleaded" falsche Treffer.
const minContainsLen = 4

// MatchIngredient entscheidet, ob ein Ingredient und ein Listeneintrag
// dieselbe Substanz bezeichnen. Reihenfolge ist verbindlich:
//
//  1. Sind beide CAS-Nummern vorhanden, zählt ausschließlich deren
//     Gleichheit. Bei Abweichung gibt es KEINEN Rückfall auf den
//     Namensvergleich. Dass dadurch ein Tippfehler in der CAS-Nummer einer
//     Quelle einen Treffer trotz identischer Namen unterdrückt, ist
//     bekanntes, abgenommenes Verhalten (Policy, kein Bug).
//  2. Fehlt mindestens eine CAS-Nummer, werden die Namen getrimmt und
//     kleingeschrieben verglichen: unterhalb von vier Zeichen nur volle
//     Gleichheit, ab vier Zeichen beidseitige Teilstring-Enthaltung.
//
// Die Funktion ist frei von Seiteneffekten und wird von beiden
// Orchestrator-Varianten geteilt.
func MatchIngredient(ing models.Ingredient, entry models.SubstanceEntry) MatchKind {
	ingCas := normalize(ing.CasNumber)
	entryCas := normalize(entry.CasNumber)

	if ingCas != "" && entryCas != "" {
		if ingCas == entryCas {
			return CasMatch
		}
		return NoMatch
	}

	ingName := normalize(ing.Name)
	entryName := normalize(entry.Name)
	if ingName == "" || entryName == "" {
		return NoMatch
	}

	if len(ingName) < minContainsLen || len(entryName) < minContainsLen {
		if ingName == entryName {
			return NameMatch
		}
		return NoMatch
	}

	if strings.Contains(ingName, entryName) || strings.Contains(entryName, ingName) {
		return NameMatch
	}
	return NoMatch
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
