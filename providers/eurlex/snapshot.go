package eurlex

import "reach-radar/models"

// snapshotEntries liefert einen eincompilierten Auszug des Annex II als
// letzten Fallback. Stand: konsolidierte Fassung 2025.
func snapshotEntries() []models.SubstanceEntry {
	reference := "https://eur-lex.europa.eu/legal-content/EN/TXT/?uri=CELEX:02009R1223-20250401"
	entries := []models.SubstanceEntry{
		{Name: "Hydroquinone", CasNumber: "123-31-9", Reason: "Prohibited in cosmetic products (Annex II)"},
		{Name: "Formaldehyde", CasNumber: "50-00-0", Reason: "Prohibited in cosmetic products (Annex II)"},
		{Name: "Lead acetate", CasNumber: "301-04-2", Reason: "Prohibited in cosmetic products (Annex II)"},
		{Name: "Methanol", CasNumber: "67-56-1", Reason: "Restricted; max 5 % as denaturant"},
		{Name: "Butylphenyl methylpropional (Lilial)", CasNumber: "80-54-6", Reason: "Prohibited since March 2022 (CMR)"},
		{Name: "Zinc pyrithione", CasNumber: "13463-41-7", Reason: "Prohibited since March 2022 (CMR)"},
		{Name: "Hydroxyisohexyl 3-cyclohexene carboxaldehyde (HICC)", CasNumber: "31906-04-4", Reason: "Prohibited; skin sensitiser"},
		{Name: "Chloroform", CasNumber: "67-66-3", Reason: "Prohibited in cosmetic products (Annex II)"},
		{Name: "Dichloromethane", CasNumber: "75-09-2", Reason: "Restricted; max 35 % in aerosols"},
		{Name: "Triclosan", CasNumber: "3380-34-5", Reason: "Restricted preservative; max 0.3 %"},
		{Name: "Salicylic acid", CasNumber: "69-72-7", Reason: "Restricted; not for children under 3 years"},
		{Name: "Resorcinol", CasNumber: "108-46-3", Reason: "Restricted; hair dye substance"},
		{Name: "Thioglycolic acid and its salts", CasNumber: "68-11-1", Reason: "Restricted; depilatories and perms"},
		{Name: "Hydrogen peroxide", CasNumber: "7722-84-1", Reason: "Restricted; oral and hair products"},
		{Name: "Kojic acid", CasNumber: "501-30-4", Reason: "Restricted since 2024; max 1 % in face products"},
	}
	for i := range entries {
		entries[i].Regulation = regulationLabel
		entries[i].ReferenceURL = reference
	}
	return entries
}
