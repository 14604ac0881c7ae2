package eurlex

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"reach-radar/config"
	"reach-radar/models"
	"reach-radar/providers"
)

// SourceID identifiziert die EUR-Lex-Kosmetikliste als Quelle.
const SourceID = "EURLEX_COSMETICS"

const regulationLabel = "Regulation (EC) No 1223/2009 Annex II"

var httpClient = &http.Client{Timeout: 60 * time.Second}

// Fetcher implementiert das Provider-Interface für die Verbotsliste der
// EU-Kosmetikverordnung (Annex II, EUR-Lex-Export).
type Fetcher struct {
	Config   *config.Config
	Logger   *zap.Logger
	lastGood *providers.LastGood
}

// NewFetcher erstellt einen neuen EUR-Lex-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		Config:   cfg,
		Logger:   logger,
		lastGood: providers.NewLastGood(cfg.SnapshotTTL),
	}
}

// Source gibt die Kennung der Quelle zurück.
func (f *Fetcher) Source() string {
	return SourceID
}

// Fetch holt den Annex-II-Export. Fehlschläge und unplausibel kleine
// Ergebnisse führen zum Fallback, nie zu einem Fehler.
func (f *Fetcher) Fetch(ctx context.Context) (providers.Result, error) {
	log := f.Logger.With(zap.String("source", SourceID))

	entries, err := f.fetchLive(ctx)
	if err != nil {
		log.Warn("Live-Abruf des Annex-II-Exports fehlgeschlagen, nutze Fallback", zap.Error(err))
		return f.fallback(), nil
	}
	if len(entries) < f.Config.MinPlausibleEntries {
		log.Warn("Annex-II-Export unplausibel klein, nutze Fallback",
			zap.Int("count", len(entries)), zap.Int("min", f.Config.MinPlausibleEntries))
		return f.fallback(), nil
	}

	f.lastGood.Store(entries)
	log.Info("Annex-II-Export abgerufen", zap.Int("count", len(entries)))
	return providers.Result{Entries: entries}, nil
}

func (f *Fetcher) fetchLive(ctx context.Context) ([]models.SubstanceEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Config.EurLexBaseURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("eur-lex request failed with status: %d", resp.StatusCode)
	}

	var export AnnexExport
	if err := xml.NewDecoder(resp.Body).Decode(&export); err != nil {
		return nil, err
	}
	return mapExport(&export), nil
}

func (f *Fetcher) fallback() providers.Result {
	if cached, ok := f.lastGood.Load(); ok {
		f.Logger.Info("Nutze letzten erfolgreichen EUR-Lex-Abruf", zap.Int("count", len(cached)))
		return providers.Result{Entries: cached, Degraded: true}
	}
	snap := snapshotEntries()
	f.Logger.Info("Nutze statischen EUR-Lex-Snapshot", zap.Int("count", len(snap)))
	return providers.Result{Entries: snap, Degraded: true}
}

// mapExport konvertiert den XML-Export in unsere internen Einträge.
// Zeilen ohne Substanznamen (gestrichene Einträge) werden verworfen.
func mapExport(export *AnnexExport) []models.SubstanceEntry {
	var entries []models.SubstanceEntry
	for _, sub := range export.Substances {
		name := strings.TrimSpace(sub.ChemicalName)
		if name == "" {
			continue
		}
		entries = append(entries, models.SubstanceEntry{
			Name:         name,
			CasNumber:    strings.TrimSpace(sub.CasNumber),
			Reason:       strings.TrimSpace(sub.Restriction),
			Regulation:   regulationLabel,
			ReferenceURL: strings.TrimSpace(sub.CelexURL),
		})
	}
	return entries
}
