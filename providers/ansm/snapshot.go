package ansm

import "reach-radar/models"

// snapshotEntries liefert einen eincompilierten Auszug der ANSM-Liste als
// letzten Fallback.
func snapshotEntries() []models.SubstanceEntry {
	reference := "https://ansm.sante.fr/dossiers-thematiques/substances-sous-surveillance"
	entries := []models.SubstanceEntry{
		{Name: "Phenoxyethanol", CasNumber: "122-99-6", Reason: "Restriction recommandée dans les produits pour le siège des enfants"},
		{Name: "Titanium dioxide (nano)", CasNumber: "13463-67-7", Reason: "Surveillance renforcée des formes nanoparticulaires"},
		{Name: "Triclosan", CasNumber: "3380-34-5", Reason: "Perturbateur endocrinien suspecté"},
		{Name: "Butylparaben", CasNumber: "94-26-8", Reason: "Perturbateur endocrinien suspecté"},
		{Name: "Propylparaben", CasNumber: "94-13-3", Reason: "Perturbateur endocrinien suspecté"},
		{Name: "Aluminium chlorohydrate", CasNumber: "12042-91-0", Reason: "Limitation de concentration recommandée"},
		{Name: "Cyclopentasiloxane (D5)", CasNumber: "541-02-6", Reason: "Surveillance environnementale"},
		{Name: "Methylisothiazolinone", CasNumber: "2682-20-4", Reason: "Allergène de contact"},
	}
	for i := range entries {
		entries[i].Regulation = regulationLabel
		entries[i].ReferenceURL = reference
	}
	return entries
}
