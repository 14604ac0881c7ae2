package echa

import "reach-radar/models"

// snapshotEntries liefert einen eincompilierten Auszug der Kandidatenliste
// als letzten Fallback, falls weder Live-Abruf noch Zwischenspeicher
// verfügbar sind. Stand der Daten: Kandidatenliste Mitte 2025.
func snapshotEntries() []models.SubstanceEntry {
	reference := "https://echa.europa.eu/candidate-list-table"
	entries := []models.SubstanceEntry{
		{Name: "Bis(2-ethylhexyl) phthalate (DEHP)", CasNumber: "117-81-7", Reason: "Toxic for reproduction; endocrine disrupting properties"},
		{Name: "Dibutyl phthalate (DBP)", CasNumber: "84-74-2", Reason: "Toxic for reproduction; endocrine disrupting properties"},
		{Name: "Benzyl butyl phthalate (BBP)", CasNumber: "85-68-7", Reason: "Toxic for reproduction"},
		{Name: "Diisobutyl phthalate (DIBP)", CasNumber: "84-69-5", Reason: "Toxic for reproduction"},
		{Name: "Lead chromate", CasNumber: "7758-97-6", Reason: "Carcinogenic; toxic for reproduction"},
		{Name: "Lead monoxide (lead oxide)", CasNumber: "1317-36-8", Reason: "Toxic for reproduction"},
		{Name: "Cadmium", CasNumber: "7440-43-9", Reason: "Carcinogenic; specific target organ toxicity"},
		{Name: "Cadmium oxide", CasNumber: "1306-19-0", Reason: "Carcinogenic; specific target organ toxicity"},
		{Name: "4,4'-isopropylidenediphenol (Bisphenol A)", CasNumber: "80-05-7", Reason: "Toxic for reproduction; endocrine disrupting properties"},
		{Name: "Boric acid", CasNumber: "10043-35-3", Reason: "Toxic for reproduction"},
		{Name: "Disodium tetraborate, anhydrous", CasNumber: "1330-43-4", Reason: "Toxic for reproduction"},
		{Name: "Trichloroethylene", CasNumber: "79-01-6", Reason: "Carcinogenic"},
		{Name: "Anthracene", CasNumber: "120-12-7", Reason: "PBT"},
		{Name: "Hexabromocyclododecane (HBCDD)", CasNumber: "25637-99-4", Reason: "PBT"},
		{Name: "Musk xylene", CasNumber: "81-15-2", Reason: "vPvB"},
		{Name: "Cobalt dichloride", CasNumber: "7646-79-9", Reason: "Carcinogenic; toxic for reproduction"},
		{Name: "1-Methyl-2-pyrrolidone (NMP)", CasNumber: "872-50-4", Reason: "Toxic for reproduction"},
		{Name: "Perfluorooctanoic acid (PFOA)", CasNumber: "335-67-1", Reason: "Toxic for reproduction; PBT"},
		{Name: "Perfluorobutane sulfonic acid (PFBS) and its salts", CasNumber: "375-73-5", Reason: "Equivalent level of concern; endocrine disrupting properties"},
		{Name: "Melamine", CasNumber: "108-78-1", Reason: "Equivalent level of concern having probable serious effects to human health"},
		{Name: "Bisphenol S", CasNumber: "80-09-1", Reason: "Toxic for reproduction; endocrine disrupting properties"},
		{Name: "Dechlorane Plus", CasNumber: "13560-89-9", Reason: "vPvB"},
	}
	for i := range entries {
		entries[i].Regulation = regulationLabel
		entries[i].ReferenceURL = reference
	}
	return entries
}
