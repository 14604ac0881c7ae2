package eurlex

import "encoding/xml"

// AnnexExport ist die Top-Level-Struktur des Annex-II-XML-Exports.
type AnnexExport struct {
	XMLName    xml.Name         `xml:"annexExport"`
	Annex      string           `xml:"annex,attr"`
	Substances []AnnexSubstance `xml:"substance"`
}

// AnnexSubstance repräsentiert einen einzelnen Listeneintrag im Export.
type AnnexSubstance struct {
	ReferenceNumber string `xml:"refNumber"`
	ChemicalName    string `xml:"chemicalName"`
	CasNumber       string `xml:"casNumber"`
	EcNumber        string `xml:"ecNumber"`
	Restriction     string `xml:"restriction"`
	CelexURL        string `xml:"celexUrl"`
}
