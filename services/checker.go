package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reach-radar/config"
	"reach-radar/models"
)

// CheckService orchestriert den gesamten Abgleich: Quellen abrufen,
// Ingredients matchen, deduplizieren, Alerts schreiben, benachrichtigen.
// Die On-Demand-Variante (RunForUser) und der Batch-Lauf (RunForAllUsers)
// teilen sich denselben Kern in checkUser, Matching und Dedup existieren
// bewusst nur einmal.
type CheckService struct {
	Config     *config.Config
	DB         *gorm.DB
	Logger     *zap.Logger
	Normalizer *SourceNormalizer
	Notifier   Notifier
}

// NewCheckService erstellt eine neue Instanz des CheckService.
func NewCheckService(cfg *config.Config, db *gorm.DB, logger *zap.Logger, normalizer *SourceNormalizer, notifier Notifier) *CheckService {
	return &CheckService{
		Config:     cfg,
		DB:         db,
		Logger:     logger,
		Normalizer: normalizer,
		Notifier:   notifier,
	}
}

// CheckResult sind die Kennzahlen eines Laufs für einen einzelnen Mandanten.
type CheckResult struct {
	SourceCounts       map[string]int `json:"sourceCounts"`
	IngredientsChecked int            `json:"ingredientsChecked"`
	AlertsCreated      int            `json:"alertsCreated"`
	DuplicatesSkipped  int            `json:"duplicatesSkipped"`
	EmailSent          bool           `json:"emailSent"`
}

// BatchResult sind die aggregierten Kennzahlen eines Batch-Laufs über alle
// Mandanten.
type BatchResult struct {
	UsersChecked      int     `json:"usersChecked"`
	AlertsCreated     int     `json:"alertsCreated"`
	NotificationsSent int     `json:"notificationsSent"`
	ElapsedSeconds    float64 `json:"elapsedSeconds"`
}

// insertOutcome unterscheidet einen echten Insert von einem bereits durch
// einen konkurrierenden Lauf geschriebenen Alert.
type insertOutcome int

const (
	outcomeInserted insertOutcome = iota
	outcomeAlreadyExists
)

// RunForUser führt den Abgleich für genau einen Mandanten aus (On-Demand-
// Variante). Ein Lesefehler auf den Ingredients ist fatal; alles Weitere
// degradiert nur die Kennzahlen.
func (s *CheckService) RunForUser(ctx context.Context, user models.User) (*CheckResult, error) {
	var ingredients []models.Ingredient
	if err := s.DB.WithContext(ctx).Where("owner_id = ?", user.ID).Order("id").Find(&ingredients).Error; err != nil {
		s.Logger.Error("Fehler beim Laden der Ingredients", zap.Uint("owner_id", user.ID), zap.Error(err))
		return nil, err
	}

	entries, counts := s.Normalizer.Collect(ctx)

	result, err := s.checkUser(ctx, user, ingredients, entries)
	if err != nil {
		return nil, err
	}
	result.SourceCounts = counts
	return result, nil
}

// RunForAllUsers führt den Abgleich für alle Mandanten aus (Batch-Variante,
// vom Scheduler getriggert). Die Quellen werden genau einmal abgerufen und
// über alle Mandanten geteilt. Ein Fehler bei einem Mandanten wird geloggt
// und isoliert, der Lauf geht beim nächsten Mandanten weiter.
func (s *CheckService) RunForAllUsers(ctx context.Context) (*BatchResult, error) {
	start := time.Now()

	entries, counts := s.Normalizer.Collect(ctx)

	var ingredients []models.Ingredient
	if err := s.DB.WithContext(ctx).Order("owner_id, id").Find(&ingredients).Error; err != nil {
		s.Logger.Error("Fehler beim Laden aller Ingredients", zap.Error(err))
		return nil, err
	}
	grouped := make(map[uint][]models.Ingredient)
	for _, ing := range ingredients {
		grouped[ing.OwnerID] = append(grouped[ing.OwnerID], ing)
	}

	var users []models.User
	if err := s.DB.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		s.Logger.Error("Fehler beim Laden der Mandanten", zap.Error(err))
		return nil, err
	}

	batch := &BatchResult{}
	for _, user := range users {
		group, ok := grouped[user.ID]
		if !ok {
			continue // Mandant ohne überwachte Ingredients
		}

		result, err := s.checkUser(ctx, user, group, entries)
		if err != nil {
			s.Logger.Error("Fehler beim Verarbeiten des Mandanten, Lauf geht weiter",
				zap.Uint("owner_id", user.ID), zap.Error(err))
			continue
		}
		batch.UsersChecked++
		batch.AlertsCreated += result.AlertsCreated
		if result.EmailSent {
			batch.NotificationsSent++
		}
	}

	batch.ElapsedSeconds = time.Since(start).Seconds()
	s.Logger.Info("Batch-Lauf abgeschlossen",
		zap.Int("users_checked", batch.UsersChecked),
		zap.Int("alerts_created", batch.AlertsCreated),
		zap.Int("notifications_sent", batch.NotificationsSent),
		zap.Float64("elapsed_seconds", batch.ElapsedSeconds),
		zap.Any("source_counts", counts))
	return batch, nil
}

// checkUser ist der gemeinsame Kern beider Varianten: matchen, gegen
// bestehende Alerts deduplizieren, schreiben, benachrichtigen.
func (s *CheckService) checkUser(ctx context.Context, user models.User, ingredients []models.Ingredient, entries []models.SubstanceEntry) (*CheckResult, error) {
	log := s.Logger.With(zap.Uint("owner_id", user.ID))

	// Treffer in stabiler Reihenfolge sammeln: Ingredient-Reihenfolge außen,
	// Quellen-Reihenfolge innen. Darauf stützt sich die In-Lauf-Dedup.
	var proposed []ProposedAlert
	for _, ing := range ingredients {
		for _, entry := range entries {
			if kind := MatchIngredient(ing, entry); kind != NoMatch {
				proposed = append(proposed, ProposedAlert{Ingredient: ing, Entry: entry, Kind: kind})
			}
		}
	}

	var existing []models.Alert
	if err := s.DB.WithContext(ctx).Where("owner_id = ?", user.ID).Find(&existing).Error; err != nil {
		log.Error("Fehler beim Laden der bestehenden Alerts", zap.Error(err))
		return nil, err
	}

	accepted, skipped := FilterNew(KeysFromAlerts(existing), proposed)

	result := &CheckResult{
		IngredientsChecked: len(ingredients),
		DuplicatesSkipped:  skipped,
	}

	// Einzel-Inserts mit Fehler-Isolation: ein fehlgeschlagener Insert
	// blockiert die übrigen nicht.
	var created []models.Alert
	for _, p := range accepted {
		ingredientID := p.Ingredient.ID
		alert := models.Alert{
			OwnerID:       user.ID,
			IngredientID:  &ingredientID,
			SubstanceName: p.Entry.Name,
			CasNumber:     p.Entry.CasNumber,
			Source:        p.Entry.Source,
			Regulation:    p.Entry.Regulation,
			Reason:        p.Entry.Reason,
			ReferenceURL:  p.Entry.ReferenceURL,
		}

		outcome, err := s.insertAlert(ctx, &alert)
		if err != nil {
			log.Error("Insert eines Alerts fehlgeschlagen",
				zap.String("substance", p.Entry.Name), zap.String("source", p.Entry.Source), zap.Error(err))
			continue
		}
		if outcome == outcomeAlreadyExists {
			// Ein konkurrierender Lauf war schneller: zählt als Duplikat,
			// taucht nicht in der Benachrichtigung auf.
			result.DuplicatesSkipped++
			continue
		}

		ingredient := p.Ingredient
		alert.Ingredient = &ingredient // nur für die Mail-Zusammenfassung
		created = append(created, alert)
		result.AlertsCreated++
	}

	if len(created) > 0 {
		if err := s.Notifier.SendAlertSummary(ctx, user, created); err != nil {
			// Alerts sind bereits persistiert; der Versand darf den Lauf
			// nicht scheitern lassen.
			log.Warn("Benachrichtigung fehlgeschlagen", zap.Error(err))
		} else {
			result.EmailSent = true
		}
	}

	log.Info("Mandanten-Abgleich abgeschlossen",
		zap.Int("ingredients_checked", result.IngredientsChecked),
		zap.Int("alerts_created", result.AlertsCreated),
		zap.Int("duplicates_skipped", result.DuplicatesSkipped),
		zap.Bool("email_sent", result.EmailSent))
	return result, nil
}

// insertAlert schreibt einen Alert mit ON CONFLICT DO NOTHING auf dem
// Dedup-Index. RowsAffected == 0 heißt: ein anderer Lauf hat denselben
// Schlüssel bereits geschrieben. Das ist erwartet und kein Fehler.
func (s *CheckService) insertAlert(ctx context.Context, alert *models.Alert) (insertOutcome, error) {
	res := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "owner_id"}, {Name: "ingredient_id"}, {Name: "substance_name"}, {Name: "source"},
		},
		DoNothing: true,
	}).Create(alert)
	if res.Error != nil {
		return outcomeInserted, res.Error
	}
	if res.RowsAffected == 0 {
		return outcomeAlreadyExists, nil
	}
	return outcomeInserted, nil
}
