package echa

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"reach-radar/config"
	"reach-radar/models"
	"reach-radar/providers"
)

// SourceID identifiziert die ECHA-Kandidatenliste (SVHC) als Quelle.
const SourceID = "ECHA_SVHC"

const regulationLabel = "REACH Candidate List (SVHC)"

var httpClient = &http.Client{Timeout: 60 * time.Second}

// Fetcher implementiert das Provider-Interface für die ECHA-Kandidatenliste.
type Fetcher struct {
	Config   *config.Config
	Logger   *zap.Logger
	lastGood *providers.LastGood
}

// NewFetcher erstellt einen neuen ECHA-Fetcher.
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

// Fetch holt die Kandidatenliste von der ECHA-Webseite. Schlägt der Abruf
// fehl oder ist das Ergebnis unplausibel klein, greift der Fallback.
func (f *Fetcher) Fetch(ctx context.Context) (providers.Result, error) {
	log := f.Logger.With(zap.String("source", SourceID))

	entries, err := f.fetchLive(ctx)
	if err != nil {
		log.Warn("Live-Abruf der ECHA-Liste fehlgeschlagen, nutze Fallback", zap.Error(err))
		return f.fallback(), nil
	}
	if len(entries) < f.Config.MinPlausibleEntries {
		log.Warn("ECHA-Liste unplausibel klein, nutze Fallback",
			zap.Int("count", len(entries)), zap.Int("min", f.Config.MinPlausibleEntries))
		return f.fallback(), nil
	}

	f.lastGood.Store(entries)
	log.Info("ECHA-Kandidatenliste abgerufen", zap.Int("count", len(entries)))
	return providers.Result{Entries: entries}, nil
}

func (f *Fetcher) fetchLive(ctx context.Context) ([]models.SubstanceEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Config.EchaBaseURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("echa request failed with status: %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, err
	}
	return parseCandidateTable(doc), nil
}

func (f *Fetcher) fallback() providers.Result {
	if cached, ok := f.lastGood.Load(); ok {
		f.Logger.Info("Nutze letzten erfolgreichen ECHA-Abruf", zap.Int("count", len(cached)))
		return providers.Result{Entries: cached, Degraded: true}
	}
	snap := snapshotEntries()
	f.Logger.Info("Nutze statischen ECHA-Snapshot", zap.Int("count", len(snap)))
	return providers.Result{Entries: snap, Degraded: true}
}

// parseCandidateTable extrahiert Substanz-Zeilen aus der Kandidatenlisten-
// Tabelle. Erwartetes Zeilenlayout: Name | EC-Nr | CAS-Nr | Aufnahmegrund.
func parseCandidateTable(doc *html.Node) []models.SubstanceEntry {
	var entries []models.SubstanceEntry

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			if entry, ok := parseRow(n); ok {
				entries = append(entries, entry)
			}
			return // Zeilen nicht doppelt besuchen
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return entries
}

func parseRow(tr *html.Node) (models.SubstanceEntry, bool) {
	var cells []string
	var link string

	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "td" {
			continue
		}
		cells = append(cells, strings.TrimSpace(nodeText(c)))
		if link == "" {
			link = firstHref(c)
		}
	}

	// Header- und Füllzeilen haben keine oder zu wenige Datenzellen.
	if len(cells) < 3 || cells[0] == "" {
		return models.SubstanceEntry{}, false
	}

	entry := models.SubstanceEntry{
		Name:         cells[0],
		CasNumber:    cells[2],
		Regulation:   regulationLabel,
		ReferenceURL: link,
	}
	if len(cells) >= 4 {
		entry.Reason = cells[3]
	}
	return entry, true
}

// nodeText sammelt den Textinhalt eines Knotens inklusive Kindknoten.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}

func firstHref(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "a" {
		for _, attr := range n.Attr {
			if attr.Key == "href" {
				return attr.Val
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if href := firstHref(c); href != "" {
			return href
		}
	}
	return ""
}
