package app

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mrcode/hba1c-impact/internal/models"
	"github.com/wailsapp/wails/v3/pkg/application"
)

func newTestService(t *testing.T) *CalculatorService {
	t.Helper()
	settings := models.DefaultSettings()
	settings.ChartWidth = 160
	settings.ChartHeight = 120
	s := NewCalculatorService(settings, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = s.ServiceShutdown() })
	return s
}

func TestCalculatorService_Defaults(t *testing.T) {
	s := newTestService(t)

	if got := s.GetAssessment(); got != models.DefaultAssessment() {
		t.Errorf("GetAssessment() = %+v, want defaults", got)
	}
	if got := s.GetProjection().ProjectedHbA1c; got != 7.19 {
		t.Errorf("ProjectedHbA1c = %v, want 7.19", got)
	}
	if s.GetVersion() == "" {
		t.Error("GetVersion() returned empty string")
	}
}

func TestCalculatorService_Setters(t *testing.T) {
	s := newTestService(t)

	if _, err := s.SetActivity(models.ActivitySedentary, 60); err != nil {
		t.Fatalf("SetActivity() error = %v", err)
	}
	p, err := s.SetDiet(models.DietPoor, 60)
	if err != nil {
		t.Fatalf("SetDiet() error = %v", err)
	}
	if p.ProjectedHbA1c != 6.51 {
		t.Errorf("ProjectedHbA1c = %v, want 6.51", p.ProjectedHbA1c)
	}

	if _, err := s.SetWeights(90, 80); err != nil {
		t.Fatalf("SetWeights() error = %v", err)
	}
	if _, err := s.SetAge(70); err != nil {
		t.Fatalf("SetAge() error = %v", err)
	}
	if _, err := s.SetSex(models.SexFemale); err != nil {
		t.Fatalf("SetSex() error = %v", err)
	}
	if _, err := s.SetCurrentHbA1c(9.5); err != nil {
		t.Fatalf("SetCurrentHbA1c() error = %v", err)
	}

	a := s.GetAssessment()
	if a.CurrentWeight != 90 || a.TargetWeight != 80 || a.Age != 70 || a.Sex != models.SexFemale || a.CurrentHbA1c != 9.5 {
		t.Errorf("Assessment not updated: %+v", a)
	}

	if got := s.Reset(); got.ProjectedHbA1c != 7.19 {
		t.Errorf("Reset() projected = %v, want 7.19", got.ProjectedHbA1c)
	}
}

func TestCalculatorService_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*CalculatorService) error
		field string
	}{
		{"Negative age", func(s *CalculatorService) error { _, err := s.SetAge(-1); return err }, "age"},
		{"Unknown sex", func(s *CalculatorService) error { _, err := s.SetSex("other"); return err }, "sex"},
		{"Zero target weight", func(s *CalculatorService) error { _, err := s.SetWeights(80, 0); return err }, "weights"},
		{"Improvement over 100", func(s *CalculatorService) error {
			_, err := s.SetActivity(models.ActivityLight, 101)
			return err
		}, "activity"},
		{"Unknown diet", func(s *CalculatorService) error { _, err := s.SetDiet("excellent", 0); return err }, "diet"},
		{"HbA1c out of range", func(s *CalculatorService) error { _, err := s.SetCurrentHbA1c(20); return err }, "HbA1c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t)

			err := tt.apply(s)
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), "invalid "+tt.field) {
				t.Errorf("Error = %q, want it to name %q", err, tt.field)
			}
			if s.GetAssessment() != models.DefaultAssessment() {
				t.Error("Rejected input must leave the form state unchanged")
			}
		})
	}
}

func TestCalculatorService_UpdateAssessment(t *testing.T) {
	s := newTestService(t)

	a := models.DefaultAssessment()
	a.TargetWeight = a.CurrentWeight
	a.Activity = models.ActivityHigh
	a.Diet = models.DietVeryGood
	a.CurrentHbA1c = 6.0
	p, err := s.UpdateAssessment(a)
	if err != nil {
		t.Fatalf("UpdateAssessment() error = %v", err)
	}
	if p.ProjectedHbA1c != 4.9 {
		t.Errorf("ProjectedHbA1c = %v, want 4.9", p.ProjectedHbA1c)
	}

	a.Age = 0
	if _, err := s.UpdateAssessment(a); err == nil {
		t.Error("Expected error for zero age")
	}
}

func TestCalculatorService_ChartPNG(t *testing.T) {
	s := newTestService(t)

	if err := s.ServiceStartup(context.Background(), application.ServiceOptions{}); err != nil {
		t.Fatalf("ServiceStartup() error = %v", err)
	}

	encoded, err := s.GetChartPNG()
	if err != nil {
		t.Fatalf("GetChartPNG() error = %v", err)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("Chart is not base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Chart is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 160 || img.Bounds().Dy() != 120 {
		t.Errorf("Chart size = %v, want 160x120", img.Bounds())
	}
}

func TestCalculatorService_SaveSettings(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	s := newTestService(t)

	updated := s.GetSettings()
	updated.Language = models.LangSpanish
	if err := s.SaveSettings(updated); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	if s.GetSettings().Language != models.LangSpanish {
		t.Error("Language not applied")
	}
	if _, err := os.Stat(filepath.Join(dir, "hba1c-impact", "settings.json")); err != nil {
		t.Errorf("Settings file not written: %v", err)
	}

	updated.Language = "fr"
	if err := s.SaveSettings(updated); err == nil {
		t.Error("Expected error for unsupported language")
	}

	updated.Language = models.LangEnglish
	updated.ChartColorCurrent = "red"
	if err := s.SaveSettings(updated); err == nil {
		t.Error("Expected error for invalid chart colour")
	}
}

func TestCalculatorService_SaveSettingsAppliesChartStyle(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	s := newTestService(t)

	updated := s.GetSettings()
	updated.ChartColorCurrent = "#000000"
	updated.ChartColorProjected = "#ffffff"
	updated.ChartSuggestedMax = 16
	updated.ChartDebounceMS = 50
	if err := s.SaveSettings(updated); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	c := s.presenter.Chart()
	if c == nil {
		t.Fatal("Expected chart after saving settings")
	}
	cfg := c.Config()
	if cfg.Dataset.Colors[0] != "#000000" || cfg.Dataset.Colors[1] != "#ffffff" {
		t.Errorf("Colors = %v, want saved colours", cfg.Dataset.Colors)
	}
	if cfg.Options.SuggestedMax != 16 {
		t.Errorf("SuggestedMax = %v, want 16", cfg.Options.SuggestedMax)
	}
}
