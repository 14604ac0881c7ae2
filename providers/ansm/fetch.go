package ansm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"reach-radar/config"
	"reach-radar/models"
	"reach-radar/providers"
)

// SourceID identifiziert die ANSM-Überwachungsliste als Quelle.
const SourceID = "ANSM"

const regulationLabel = "ANSM vigilance list"

var httpClient = &http.Client{Timeout: 60 * time.Second}

// substanceRecord bildet einen Eintrag der französischsprachigen API ab.
type substanceRecord struct {
	Nom       string `json:"nom"`
	NumeroCas string `json:"numero_cas"`
	Motif     string `json:"motif"`
	Lien      string `json:"lien"`
}

// Fetcher implementiert das Provider-Interface für die Liste der
// französischen Arzneimittel- und Produktsicherheitsbehörde.
type Fetcher struct {
	Config   *config.Config
	Logger   *zap.Logger
	lastGood *providers.LastGood
}

// NewFetcher erstellt einen neuen ANSM-Fetcher.
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

// Fetch holt die Überwachungsliste der ANSM-API. Fehlschläge und unplausibel
// kleine Ergebnisse führen zum Fallback, nie zu einem Fehler.
func (f *Fetcher) Fetch(ctx context.Context) (providers.Result, error) {
	log := f.Logger.With(zap.String("source", SourceID))

	entries, err := f.fetchLive(ctx)
	if err != nil {
		log.Warn("Live-Abruf der ANSM-Liste fehlgeschlagen, nutze Fallback", zap.Error(err))
		return f.fallback(), nil
	}
	// Die ANSM-Liste ist deutlich kürzer als die EU-Listen, daher ein
	// eigener, niedrigerer Plausibilitäts-Schwellwert.
	if len(entries) < 5 {
		log.Warn("ANSM-Liste unplausibel klein, nutze Fallback", zap.Int("count", len(entries)))
		return f.fallback(), nil
	}

	f.lastGood.Store(entries)
	log.Info("ANSM-Liste abgerufen", zap.Int("count", len(entries)))
	return providers.Result{Entries: entries}, nil
}

func (f *Fetcher) fetchLive(ctx context.Context) ([]models.SubstanceEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Config.AnsmBaseURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ansm request failed with status: %d", resp.StatusCode)
	}

	var records []substanceRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, err
	}

	var entries []models.SubstanceEntry
	for _, rec := range records {
		name := strings.TrimSpace(rec.Nom)
		if name == "" {
			continue
		}
		entries = append(entries, models.SubstanceEntry{
			Name:         name,
			CasNumber:    strings.TrimSpace(rec.NumeroCas),
			Reason:       strings.TrimSpace(rec.Motif),
			Regulation:   regulationLabel,
			ReferenceURL: strings.TrimSpace(rec.Lien),
		})
	}
	return entries, nil
}

func (f *Fetcher) fallback() providers.Result {
	if cached, ok := f.lastGood.Load(); ok {
		f.Logger.Info("Nutze letzten erfolgreichen ANSM-Abruf", zap.Int("count", len(cached)))
		return providers.Result{Entries: cached, Degraded: true}
	}
	snap := snapshotEntries()
	f.Logger.Info("Nutze statischen ANSM-Snapshot", zap.Int("count", len(snap)))
	return providers.Result{Entries: snap, Degraded: true}
}
