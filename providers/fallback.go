package providers

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"reach-radar/models"
)

const lastGoodKey = "last_good"

// LastGood hält den letzten erfolgreichen Abruf eines Providers im Prozess
// vor. Läuft der TTL ab, greift wieder der statische Snapshot.
type LastGood struct {
	cache *gocache.Cache
}

// NewLastGood erstellt einen Zwischenspeicher mit der gegebenen Lebensdauer.
func NewLastGood(ttl time.Duration) *LastGood {
	return &LastGood{cache: gocache.New(ttl, ttl)}
}

// Store merkt sich einen erfolgreichen Abruf.
func (l *LastGood) Store(entries []models.SubstanceEntry) {
	l.cache.Set(lastGoodKey, entries, gocache.DefaultExpiration)
}

// Load gibt den letzten erfolgreichen Abruf zurück, falls vorhanden.
func (l *LastGood) Load() ([]models.SubstanceEntry, bool) {
	v, ok := l.cache.Get(lastGoodKey)
	if !ok {
		return nil, false
	}
	entries, ok := v.([]models.SubstanceEntry)
	return entries, ok
}
