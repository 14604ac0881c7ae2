package echa

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

const candidateListURL = "https://echa.example.test/candidate-list"

func testConfig() *config.Config {
	return &config.Config{
		EchaBaseURL:         candidateListURL,
		MinPlausibleEntries: 2,
		SnapshotTTL:         time.Hour,
	}
}

const candidateListHTML = `<html><body>
<table>
<tr><th>Substance name</th><th>EC No</th><th>CAS No</th><th>Reason for inclusion</th></tr>
<tr>
  <td><a href="/substance/dehp">Bis(2-ethylhexyl) phthalate (DEHP)</a></td>
  <td>204-211-0</td>
  <td>117-81-7</td>
  <td>Toxic for reproduction</td>
</tr>
<tr>
  <td><a href="/substance/anthracene">Anthracene</a></td>
  <td>204-371-1</td>
  <td>120-12-7</td>
  <td>PBT</td>
</tr>
<tr>
  <td>Cadmium</td>
  <td>231-152-8</td>
  <td>7440-43-9</td>
  <td>Carcinogenic</td>
</tr>
<tr><td colspan="4">Showing 3 of 3 results</td></tr>
</table>
</body></html>`

func TestFetchParsesCandidateTable(t *testing.T) {
	httpmock.ActivateNonDefault(httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", candidateListURL,
		httpmock.NewStringResponder(200, candidateListHTML))

	f := NewFetcher(testConfig(), zap.NewNop())
	result, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Degraded)
	require.Len(t, result.Entries, 3)

	first := result.Entries[0]
	assert.Equal(t, "Bis(2-ethylhexyl) phthalate (DEHP)", first.Name)
	assert.Equal(t, "117-81-7", first.CasNumber)
	assert.Equal(t, "Toxic for reproduction", first.Reason)
	assert.Equal(t, "REACH Candidate List (SVHC)", first.Regulation)
	assert.Equal(t, "/substance/dehp", first.ReferenceURL)

	// Zeile ohne Link bleibt trotzdem ein gültiger Eintrag.
	assert.Equal(t, "Cadmium", result.Entries[2].Name)
	assert.Empty(t, result.Entries[2].ReferenceURL)
}

func TestFetchFallsBackToSnapshotOnServerError(t *testing.T) {
	httpmock.ActivateNonDefault(httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", candidateListURL,
		httpmock.NewStringResponder(503, "maintenance"))

	f := NewFetcher(testConfig(), zap.NewNop())
	result, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Degraded)
	assert.Len(t, result.Entries, len(snapshotEntries()))
}

// Eine leere oder fast leere Tabelle ist ein kaputter Abruf, kein Ergebnis.
func TestFetchFallsBackOnImplausiblySmallList(t *testing.T) {
	httpmock.ActivateNonDefault(httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", candidateListURL,
		httpmock.NewStringResponder(200, `<html><body><table>
<tr><td><a href="/x">Anthracene</a></td><td>204-371-1</td><td>120-12-7</td><td>PBT</td></tr>
</table></body></html>`))

	f := NewFetcher(testConfig(), zap.NewNop())
	result, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Degraded)
	assert.Len(t, result.Entries, len(snapshotEntries()))
}

// Nach einem erfolgreichen Abruf deckt der Last-Good-Cache spätere Ausfälle
// ab, der statische Snapshot bleibt außen vor.
func TestFetchPrefersLastGoodOverSnapshot(t *testing.T) {
	httpmock.ActivateNonDefault(httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", candidateListURL,
		httpmock.NewStringResponder(200, candidateListHTML))

	f := NewFetcher(testConfig(), zap.NewNop())
	live, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, live.Entries, 3)

	httpmock.Reset()
	httpmock.RegisterResponder("GET", candidateListURL,
		httpmock.NewErrorResponder(assert.AnError))

	degraded, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.True(t, degraded.Degraded)
	assert.Equal(t, live.Entries, degraded.Entries)
}
