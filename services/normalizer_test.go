package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reach-radar/models"
	"reach-radar/providers"
)

// stubProvider liefert vorgegebene Einträge ohne Netzwerkzugriff.
type stubProvider struct {
	source   string
	entries  []models.SubstanceEntry
	degraded bool
	err      error
	delay    time.Duration
}

func (s stubProvider) Fetch(ctx context.Context) (providers.Result, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return providers.Result{}, ctx.Err()
		}
	}
	if s.err != nil {
		return providers.Result{}, s.err
	}
	return providers.Result{Entries: s.entries, Degraded: s.degraded}, nil
}

func (s stubProvider) Source() string { return s.source }

func TestCollectStampsSourceAndCounts(t *testing.T) {
	t.Parallel()

	normalizer := NewSourceNormalizer(zap.NewNop(), []providers.Provider{
		stubProvider{source: "ECHA_SVHC", entries: []models.SubstanceEntry{
			{Name: "Anthracene", CasNumber: "120-12-7"},
			{Name: "Cadmium", CasNumber: "7440-43-9"},
		}},
		stubProvider{source: "ANSM", entries: []models.SubstanceEntry{
			{Name: "Phénoxyéthanol"},
		}},
	}, time.Second)

	entries, counts := normalizer.Collect(context.Background())

	require.Len(t, entries, 3)
	for _, e := range entries[:2] {
		assert.Equal(t, "ECHA_SVHC", e.Source)
	}
	assert.Equal(t, "ANSM", entries[2].Source)
	assert.Equal(t, map[string]int{"ECHA_SVHC": 2, "ANSM": 1}, counts)
}

// Die abgeflachte Sequenz steht in Provider-Reihenfolge, auch wenn ein
// früher Provider später fertig wird.
func TestCollectKeepsProviderOrder(t *testing.T) {
	t.Parallel()

	normalizer := NewSourceNormalizer(zap.NewNop(), []providers.Provider{
		stubProvider{source: "ECHA_SVHC", delay: 50 * time.Millisecond,
			entries: []models.SubstanceEntry{{Name: "DEHP"}}},
		stubProvider{source: "EURLEX_COSMETICS",
			entries: []models.SubstanceEntry{{Name: "Hydroquinone"}}},
	}, time.Second)

	entries, _ := normalizer.Collect(context.Background())

	require.Len(t, entries, 2)
	assert.Equal(t, "ECHA_SVHC", entries[0].Source)
	assert.Equal(t, "EURLEX_COSMETICS", entries[1].Source)
}

func TestCollectIsolatesFailingSource(t *testing.T) {
	t.Parallel()

	normalizer := NewSourceNormalizer(zap.NewNop(), []providers.Provider{
		stubProvider{source: "ECHA_SVHC", err: errors.New("komplettausfall")},
		stubProvider{source: "ANSM", entries: []models.SubstanceEntry{{Name: "Triclosan"}}},
	}, time.Second)

	entries, counts := normalizer.Collect(context.Background())

	require.Len(t, entries, 1)
	assert.Equal(t, "ANSM", entries[0].Source)
	assert.Equal(t, 0, counts["ECHA_SVHC"])
	assert.Equal(t, 1, counts["ANSM"])
}

func TestCollectAppliesTimeoutPerProvider(t *testing.T) {
	t.Parallel()

	normalizer := NewSourceNormalizer(zap.NewNop(), []providers.Provider{
		stubProvider{source: "ECHA_SVHC", delay: 5 * time.Second,
			entries: []models.SubstanceEntry{{Name: "DEHP"}}},
		stubProvider{source: "ANSM", entries: []models.SubstanceEntry{{Name: "Triclosan"}}},
	}, 20*time.Millisecond)

	entries, counts := normalizer.Collect(context.Background())

	require.Len(t, entries, 1)
	assert.Equal(t, 0, counts["ECHA_SVHC"])
	assert.Equal(t, 1, counts["ANSM"])
}
