package eurlex

import (
	"context"
	"encoding/xml"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reach-radar/config"
)

const annexExportURL = "https://eurlex.example.test/annex-ii.xml"

func testConfig() *config.Config {
	return &config.Config{
		EurLexBaseURL:       annexExportURL,
		MinPlausibleEntries: 2,
		SnapshotTTL:         time.Hour,
	}
}

const annexExportXML = `<?xml version="1.0" encoding="UTF-8"?>
<annexExport annex="II">
  <substance>
    <refNumber>395</refNumber>
    <chemicalName>Hydroquinone</chemicalName>
    <casNumber>123-31-9</casNumber>
    <ecNumber>204-617-8</ecNumber>
    <restriction>Prohibited in cosmetic products</restriction>
    <celexUrl>https://eur-lex.example.test/celex/32009R1223</celexUrl>
  </substance>
  <substance>
    <refNumber>1380</refNumber>
    <chemicalName>  Butylphenyl methylpropional (Lilial)  </chemicalName>
    <casNumber> 80-54-6 </casNumber>
    <restriction>CMR 1B, prohibited since 2022</restriction>
  </substance>
  <substance>
    <refNumber>9999</refNumber>
    <chemicalName></chemicalName>
    <casNumber>0-00-0</casNumber>
    <restriction>deleted entry</restriction>
  </substance>
</annexExport>`

func TestMapExportSkipsDeletedEntries(t *testing.T) {
	t.Parallel()

	var export AnnexExport
	require.NoError(t, xml.Unmarshal([]byte(annexExportXML), &export))
	assert.Equal(t, "II", export.Annex)
	require.Len(t, export.Substances, 3)

	entries := mapExport(&export)
	require.Len(t, entries, 2)

	assert.Equal(t, "Hydroquinone", entries[0].Name)
	assert.Equal(t, "123-31-9", entries[0].CasNumber)
	assert.Equal(t, "Prohibited in cosmetic products", entries[0].Reason)
	assert.Equal(t, "Regulation (EC) No 1223/2009 Annex II", entries[0].Regulation)
	assert.Equal(t, "https://eur-lex.example.test/celex/32009R1223", entries[0].ReferenceURL)

	// Whitespace aus dem Export wird getrimmt.
	assert.Equal(t, "Butylphenyl methylpropional (Lilial)", entries[1].Name)
	assert.Equal(t, "80-54-6", entries[1].CasNumber)
}

func TestFetchDecodesAnnexExport(t *testing.T) {
	httpmock.ActivateNonDefault(httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", annexExportURL,
		httpmock.NewStringResponder(200, annexExportXML))

	f := NewFetcher(testConfig(), zap.NewNop())
	result, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Degraded)
	assert.Len(t, result.Entries, 2)
}

func TestFetchFallsBackToSnapshotOnBrokenXML(t *testing.T) {
	httpmock.ActivateNonDefault(httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", annexExportURL,
		httpmock.NewStringResponder(200, "<annexExport><substance>"))

	f := NewFetcher(testConfig(), zap.NewNop())
	result, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Degraded)
	assert.Len(t, result.Entries, len(snapshotEntries()))
}
