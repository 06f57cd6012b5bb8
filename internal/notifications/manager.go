// Package notifications announces projection milestones as desktop notifications
package notifications

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/mrcode/hba1c-impact/internal/models"
)

// Milestone kinds
const (
	milestoneMedication = "medication"
	milestoneRemission  = "remission"
)

// Notifier sends a desktop notification
type Notifier func(title, message string) error

// Manager sends a notification the first time a projection reaches a better
// medication-suspension or remission tier
type Manager struct {
	settings *models.Settings
	notify   Notifier
	// Highest tier rank announced per milestone kind
	announced map[string]int
	mu        sync.Mutex
}

// NewManager creates a new notification manager
func NewManager(settings *models.Settings) *Manager {
	return &Manager{
		settings:  settings,
		notify:    beeepNotify,
		announced: make(map[string]int),
	}
}

// UpdateSettings updates the settings reference
func (m *Manager) UpdateSettings(settings *models.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = settings
}

// CheckAndNotify sends notifications for milestones the projection reaches
// that have not been announced yet
func (m *Manager) CheckAndNotify(p models.Projection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.settings.NotificationsEnabled() {
		return nil
	}

	lang := m.settings.Lang()
	for _, c := range m.milestones(p) {
		title, message := m.formatNotification(p, c.kind, lang)
		if err := m.notify(title, message); err != nil {
			return fmt.Errorf("sending %s notification: %w", c.kind, err)
		}
		m.announced[c.kind] = c.rank
	}
	return nil
}

type milestone struct {
	kind string
	rank int
}

// milestones returns the kinds whose tier improved past what was announced.
// Low tiers are never announced.
func (m *Manager) milestones(p models.Projection) []milestone {
	var found []milestone

	if rank := p.MedicationSuspension.Rank(); rank > 0 && rank > m.announced[milestoneMedication] {
		found = append(found, milestone{milestoneMedication, rank})
	}
	if rank := p.Remission.Rank(); rank >= models.RemissionPossible.Rank() && rank > m.announced[milestoneRemission] {
		found = append(found, milestone{milestoneRemission, rank})
	}

	return found
}

// formatNotification creates the notification title and message
func (m *Manager) formatNotification(p models.Projection, kind, lang string) (string, string) {
	var title, message string
	es := lang == models.LangSpanish

	switch kind {
	case milestoneMedication:
		if es {
			title = "💊 Medicación"
			message = fmt.Sprintf("Probabilidad de reducir o suspender medicación: %s (HbA1c proyectada %.2f%%)",
				p.MedicationSuspension.Label(lang), p.ProjectedHbA1c)
		} else {
			title = "💊 Medication"
			message = fmt.Sprintf("Chance of reducing or stopping medication: %s (projected HbA1c %.2f%%)",
				p.MedicationSuspension.Label(lang), p.ProjectedHbA1c)
		}
	case milestoneRemission:
		if es {
			title = "🎯 Remisión parcial"
			message = fmt.Sprintf("Remisión parcial: %s con una pérdida de peso del %.1f%%",
				p.Remission.Label(lang), p.WeightLossPct)
		} else {
			title = "🎯 Partial remission"
			message = fmt.Sprintf("Partial remission: %s with %.1f%% weight loss",
				p.Remission.Label(lang), p.WeightLossPct)
		}
	}

	return title, message
}

// ClearAlertState forgets announced tiers for one kind, or all kinds if empty
func (m *Manager) ClearAlertState(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if kind == "" {
		m.announced = make(map[string]int)
	} else {
		delete(m.announced, kind)
	}
}

// SendTestNotification sends a test notification
func (m *Manager) SendTestNotification() error {
	return m.notify("HbA1c Impact", "Test notification - notifications are working!")
}

func beeepNotify(title, message string) error {
	// Use beeep for cross-platform notifications
	return beeep.Notify(title, message, "")
}
