// Package app binds the calculator to the desktop shell
package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mrcode/hba1c-impact/internal/chart"
	"github.com/mrcode/hba1c-impact/internal/models"
	"github.com/mrcode/hba1c-impact/internal/notifications"
	"github.com/mrcode/hba1c-impact/internal/presenter"
	"github.com/mrcode/hba1c-impact/internal/tray"
	"github.com/wailsapp/wails/v3/pkg/application"
)

// Version is set at build time
var Version = "1.0.0"

// Events emitted to the frontend
const (
	EventProjectionUpdate = "projection:update"
	EventChartUpdate      = "chart:update"
)

// CalculatorService is bound to the frontend. Form edits go through the
// presenter; projections fan out to the window, the tray and notifications.
type CalculatorService struct {
	settings      *models.Settings
	presenter     *presenter.Presenter
	canvas        *chart.Canvas
	notifyManager *notifications.Manager
	iconGen       *tray.IconGenerator
	logger        *slog.Logger

	mu   sync.RWMutex
	app  *application.App
	tray *application.SystemTray
}

// NewCalculatorService creates the service from loaded settings
func NewCalculatorService(settings *models.Settings, logger *slog.Logger) *CalculatorService {
	if logger == nil {
		logger = slog.Default()
	}

	canvas := chart.NewCanvas(settings.ChartWidth, settings.ChartHeight)
	s := &CalculatorService{
		settings:      settings,
		canvas:        canvas,
		notifyManager: notifications.NewManager(settings),
		iconGen:       tray.NewIconGenerator(),
		logger:        logger,
	}

	s.presenter = presenter.New(canvas,
		presenter.WithDebounce(time.Duration(settings.ChartDebounceMS)*time.Millisecond),
		presenter.WithLanguage(settings.Lang()),
		presenter.WithColors(settings.ChartColorCurrent, settings.ChartColorProjected),
		presenter.WithSuggestedMax(settings.ChartSuggestedMax),
		presenter.WithLogger(logger.With("component", "presenter")),
	)
	s.presenter.Subscribe(s.onProjection)
	s.presenter.OnRedraw(s.onRedraw)

	return s
}

// ServiceStartup draws the chart once the application is running
func (s *CalculatorService) ServiceStartup(_ context.Context, _ application.ServiceOptions) error {
	s.presenter.Mount()
	s.updateTray(s.presenter.Projection())
	return nil
}

// ServiceShutdown stops pending redraws
func (s *CalculatorService) ServiceShutdown() error {
	s.presenter.Close()
	return nil
}

// SetApp sets the application used to emit events
func (s *CalculatorService) SetApp(app *application.App) {
	s.mu.Lock()
	s.app = app
	s.mu.Unlock()
}

// SetTray sets the system tray refreshed on every projection
func (s *CalculatorService) SetTray(t *application.SystemTray) {
	s.mu.Lock()
	s.tray = t
	s.mu.Unlock()

	s.updateTray(s.presenter.Projection())
}

func (s *CalculatorService) onProjection(p models.Projection) {
	s.mu.RLock()
	a := s.app
	s.mu.RUnlock()

	if a != nil {
		a.Event.Emit(EventProjectionUpdate, p)
	}

	s.updateTray(p)

	if err := s.notifyManager.CheckAndNotify(p); err != nil {
		s.logger.Warn("notification failed", "error", err)
	}
}

func (s *CalculatorService) onRedraw(_ *chart.Chart) {
	s.mu.RLock()
	a := s.app
	s.mu.RUnlock()

	if a == nil {
		return
	}

	encoded, err := s.GetChartPNG()
	if err != nil {
		s.logger.Warn("encoding chart", "error", err)
		return
	}
	a.Event.Emit(EventChartUpdate, encoded)
}

func (s *CalculatorService) updateTray(p models.Projection) {
	s.mu.RLock()
	t := s.tray
	s.mu.RUnlock()

	if t == nil {
		return
	}

	lang := s.settings.Lang()
	t.SetLabel(tray.Label(p, lang))
	t.SetTooltip(tray.Tooltip(p, lang))

	if iconData := s.iconGen.Generate(p); iconData != nil {
		t.SetIcon(iconData)
	}
}

// apply validates the edited form state before committing it
func (s *CalculatorService) apply(field string, mutate func(*models.Assessment)) (models.Projection, error) {
	a := s.presenter.Assessment()
	mutate(&a)
	if err := a.Validate(); err != nil {
		return s.presenter.Projection(), fmt.Errorf("invalid %s: %w", field, err)
	}
	return s.presenter.Set(a), nil
}

// Public methods for Binding

// GetAssessment returns the current form state
func (s *CalculatorService) GetAssessment() models.Assessment {
	return s.presenter.Assessment()
}

// GetProjection returns the projection for the current form state
func (s *CalculatorService) GetProjection() models.Projection {
	return s.presenter.Projection()
}

// UpdateAssessment replaces the whole form state
func (s *CalculatorService) UpdateAssessment(a models.Assessment) (models.Projection, error) {
	return s.apply("assessment", func(cur *models.Assessment) { *cur = a })
}

func (s *CalculatorService) SetAge(age int) (models.Projection, error) {
	return s.apply("age", func(a *models.Assessment) { a.Age = age })
}

func (s *CalculatorService) SetSex(sex models.Sex) (models.Projection, error) {
	return s.apply("sex", func(a *models.Assessment) { a.Sex = sex })
}

func (s *CalculatorService) SetWeights(current, target float64) (models.Projection, error) {
	return s.apply("weights", func(a *models.Assessment) {
		a.CurrentWeight = current
		a.TargetWeight = target
	})
}

func (s *CalculatorService) SetActivity(level models.ActivityLevel, improvement int) (models.Projection, error) {
	return s.apply("activity", func(a *models.Assessment) {
		a.Activity = level
		a.ActivityImprovement = improvement
	})
}

func (s *CalculatorService) SetDiet(quality models.DietQuality, improvement int) (models.Projection, error) {
	return s.apply("diet", func(a *models.Assessment) {
		a.Diet = quality
		a.DietImprovement = improvement
	})
}

func (s *CalculatorService) SetCurrentHbA1c(value float64) (models.Projection, error) {
	return s.apply("HbA1c", func(a *models.Assessment) { a.CurrentHbA1c = value })
}

// Reset restores the default form state
func (s *CalculatorService) Reset() models.Projection {
	return s.presenter.Reset()
}

// GetChartPNG returns the chart as a base64 encoded PNG
func (s *CalculatorService) GetChartPNG() (string, error) {
	data, err := s.presenter.ChartPNG()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (s *CalculatorService) GetSettings() *models.Settings {
	return s.settings.Clone()
}

// SaveSettings stores the settings and applies them. Language, chart colours,
// suggested maximum and debounce take effect immediately; chart and window
// size apply on the next start.
func (s *CalculatorService) SaveSettings(settings *models.Settings) error {
	if lang := settings.Language; lang != models.LangEnglish && lang != models.LangSpanish {
		return fmt.Errorf("unsupported language %q", lang)
	}
	for _, c := range []string{settings.ChartColorCurrent, settings.ChartColorProjected} {
		if _, ok := chart.ParseHexColor(c); !ok {
			return fmt.Errorf("invalid chart colour %q", c)
		}
	}

	s.settings.Update(settings)
	if err := s.settings.Save(); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	s.notifyManager.UpdateSettings(s.settings)
	applied := s.settings.Clone()
	s.presenter.SetLanguage(applied.Lang())
	s.presenter.SetColors(applied.ChartColorCurrent, applied.ChartColorProjected)
	s.presenter.SetSuggestedMax(applied.ChartSuggestedMax)
	s.presenter.SetDebounce(time.Duration(applied.ChartDebounceMS) * time.Millisecond)
	s.presenter.Redraw()
	s.updateTray(s.presenter.Projection())

	return nil
}

func (s *CalculatorService) SendTestNotification() error {
	return s.notifyManager.SendTestNotification()
}

func (s *CalculatorService) GetVersion() string {
	return Version
}
