package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"reach-radar/models"
	"reach-radar/providers"
)

// SourceNormalizer holt die Listen aller konfigurierten Quellen parallel ab
// und flacht sie zu einer Sequenz ab, jeder Eintrag gestempelt mit seiner
// Quellen-Kennung. Einzelne Quellen dürfen unabhängig voneinander
// fehlschlagen oder degradieren; der Normalizer verwirft und sortiert nichts.
type SourceNormalizer struct {
	Logger    *zap.Logger
	Providers []providers.Provider
	Timeout   time.Duration
}

// NewSourceNormalizer erstellt einen neuen SourceNormalizer.
func NewSourceNormalizer(logger *zap.Logger, provs []providers.Provider, timeout time.Duration) *SourceNormalizer {
	return &SourceNormalizer{Logger: logger, Providers: provs, Timeout: timeout}
}

// Collect ruft alle Provider parallel ab (jeder mit eigenem Timeout) und gibt
// die abgeflachte Sequenz plus die Anzahl Einträge je Quelle zurück. Die
// Ergebnisse stehen in Provider-Reihenfolge, unabhängig davon, welcher Abruf
// zuerst fertig wird.
func (n *SourceNormalizer) Collect(ctx context.Context) ([]models.SubstanceEntry, map[string]int) {
	results := make([]providers.Result, len(n.Providers))

	var wg sync.WaitGroup
	for i, p := range n.Providers {
		wg.Add(1)
		go func(i int, p providers.Provider) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, n.Timeout)
			defer cancel()

			result, err := p.Fetch(fetchCtx)
			if err != nil {
				// Provider ohne jeglichen Fallback: Quelle liefert für diesen
				// Lauf nichts, der Lauf selbst geht weiter.
				n.Logger.Error("Quelle lieferte weder Live-Daten noch Fallback",
					zap.String("source", p.Source()), zap.Error(err))
				results[i] = providers.Result{Degraded: true}
				return
			}
			results[i] = result
		}(i, p)
	}
	wg.Wait()

	counts := make(map[string]int, len(n.Providers))
	var flat []models.SubstanceEntry
	for i, p := range n.Providers {
		source := p.Source()
		for _, entry := range results[i].Entries {
			entry.Source = source
			flat = append(flat, entry)
		}
		counts[source] = len(results[i].Entries)
		if results[i].Degraded {
			n.Logger.Warn("Quelle im degradierten Modus (Fallback-Daten)",
				zap.String("source", source), zap.Int("count", counts[source]))
		}
	}

	n.Logger.Info("Quellenlisten zusammengeführt",
		zap.Int("total_entries", len(flat)), zap.Any("per_source", counts))
	return flat, counts
}
