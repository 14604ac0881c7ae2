package ansm

import (
	"context"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reach-radar/config"
)

const vigilanceURL = "https://ansm.example.test/vigilance"

func testConfig() *config.Config {
	return &config.Config{
		AnsmBaseURL: vigilanceURL,
		SnapshotTTL: time.Hour,
	}
}

const vigilanceJSON = `[
  {"nom": "Triclosan", "numero_cas": "3380-34-5", "motif": "Perturbateur endocrinien suspecté", "lien": "https://ansm.example.test/f/triclosan"},
  {"nom": "Phénoxyéthanol", "numero_cas": "122-99-6", "motif": "Restriction chez les enfants", "lien": ""},
  {"nom": "  Butylparabène ", "numero_cas": " 94-26-8 ", "motif": "", "lien": ""},
  {"nom": "", "numero_cas": "0-00-0", "motif": "entrée vide", "lien": ""},
  {"nom": "Lilial", "numero_cas": "80-54-6", "motif": "Interdit depuis 2022", "lien": ""},
  {"nom": "Zinc pyrithione", "numero_cas": "13463-41-7", "motif": "CMR 1B", "lien": ""},
  {"nom": "Formaldéhyde", "numero_cas": "50-00-0", "motif": "Libérateurs soumis à mention", "lien": ""}
]`

func TestFetchDecodesFrenchAPIFields(t *testing.T) {
	httpmock.ActivateNonDefault(httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", vigilanceURL,
		httpmock.NewStringResponder(200, vigilanceJSON))

	f := NewFetcher(testConfig(), zap.NewNop())
	result, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Degraded)
	// Der namenlose Datensatz wird verworfen.
	require.Len(t, result.Entries, 6)

	first := result.Entries[0]
	assert.Equal(t, "Triclosan", first.Name)
	assert.Equal(t, "3380-34-5", first.CasNumber)
	assert.Equal(t, "Perturbateur endocrinien suspecté", first.Reason)
	assert.Equal(t, "ANSM vigilance list", first.Regulation)
	assert.Equal(t, "https://ansm.example.test/f/triclosan", first.ReferenceURL)

	// Name und CAS werden getrimmt.
	assert.Equal(t, "Butylparabène", result.Entries[2].Name)
	assert.Equal(t, "94-26-8", result.Entries[2].CasNumber)
}

func TestFetchFallsBackToSnapshotOnBrokenJSON(t *testing.T) {
	httpmock.ActivateNonDefault(httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", vigilanceURL,
		httpmock.NewStringResponder(200, `{"error": "not a list"}`))

	f := NewFetcher(testConfig(), zap.NewNop())
	result, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Degraded)
	assert.Len(t, result.Entries, len(snapshotEntries()))
}

// Unter fünf Einträgen gilt die Liste als kaputt.
func TestFetchFallsBackOnTruncatedList(t *testing.T) {
	httpmock.ActivateNonDefault(httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", vigilanceURL,
		httpmock.NewStringResponder(200, `[{"nom": "Triclosan", "numero_cas": "3380-34-5"}]`))

	f := NewFetcher(testConfig(), zap.NewNop())
	result, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Degraded)
	assert.Len(t, result.Entries, len(snapshotEntries()))
}
