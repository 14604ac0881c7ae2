package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
	"go.uber.org/zap"

	"reach-radar/config"
	"reach-radar/models"
)

// Notifier verschickt die Zusammenfassung neuer Alerts an einen Mandanten.
// Fehler beim Versand dürfen den Check-Lauf nie scheitern lassen, die
// Alerts sind zu diesem Zeitpunkt bereits persistiert.
type Notifier interface {
	SendAlertSummary(ctx context.Context, user models.User, alerts []models.Alert) error
}

// EmailNotifier verschickt Mails über eine Shoutrrr-SMTP-URL.
type EmailNotifier struct {
	smtpURL string
	logger  *zap.Logger
}

// NewEmailNotifier erstellt einen neuen EmailNotifier.
func NewEmailNotifier(cfg *config.Config, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{smtpURL: cfg.SMTPURL, logger: logger}
}

// SendAlertSummary schickt eine Mail mit allen neuen Alerts dieses Laufs.
func (n *EmailNotifier) SendAlertSummary(ctx context.Context, user models.User, alerts []models.Alert) error {
	if n.smtpURL == "" {
		return fmt.Errorf("smtp url ist nicht konfiguriert")
	}
	if len(alerts) == 0 {
		return nil
	}

	sender, err := shoutrrr.CreateSender(recipientURL(n.smtpURL, user.Email))
	if err != nil {
		return fmt.Errorf("shoutrrr sender: %w", err)
	}
	sender.SetLogger(log.New(io.Discard, "", 0))

	params := stypes.Params{}
	params.SetTitle(fmt.Sprintf("reach-radar: %d neue Treffer auf Regulierungslisten", len(alerts)))

	body := summaryBody(user, alerts)
	for _, sendErr := range sender.Send(body, &params) {
		if sendErr != nil {
			return fmt.Errorf("mailversand an %s: %w", user.Email, sendErr)
		}
	}

	n.logger.Info("Alert-Zusammenfassung verschickt",
		zap.String("recipient", user.Email), zap.Int("alerts", len(alerts)))
	return nil
}

// recipientURL hängt den Empfänger an die konfigurierte Shoutrrr-URL an.
func recipientURL(base, email string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "to=" + email
}

func summaryBody(user models.User, alerts []models.Alert) string {
	var sb strings.Builder

	displayName := user.CompanyName
	if displayName == "" {
		displayName = user.Email
	}
	fmt.Fprintf(&sb, "Hallo %s,\n\n", displayName)
	fmt.Fprintf(&sb, "bei der letzten Prüfung wurden %d Ihrer überwachten Inhaltsstoffe neu auf Regulierungslisten gefunden:\n\n", len(alerts))

	for _, a := range alerts {
		fmt.Fprintf(&sb, "- %s", a.SubstanceName)
		if a.CasNumber != "" {
			fmt.Fprintf(&sb, " (CAS %s)", a.CasNumber)
		}
		if a.Ingredient != nil {
			fmt.Fprintf(&sb, "\n  Ihr Inhaltsstoff: %s", a.Ingredient.Name)
		}
		fmt.Fprintf(&sb, "\n  Quelle: %s - %s\n", a.Source, a.Regulation)
		if a.Reason != "" {
			fmt.Fprintf(&sb, "  Grund: %s\n", a.Reason)
		}
		if a.ReferenceURL != "" {
			fmt.Fprintf(&sb, "  Referenz: %s\n", a.ReferenceURL)
		}
	}

	sb.WriteString("\nDetails im Dashboard unter /alerts.\n")
	return sb.String()
}
