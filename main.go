// Package main is the entry point for the HbA1c Impact application
package main

import (
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mrcode/hba1c-impact/internal/app"
	"github.com/mrcode/hba1c-impact/internal/models"
	"github.com/mrcode/hba1c-impact/internal/tray"
	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("loading .env", "error", err)
	}

	settings := models.DefaultSettings()
	if err := settings.Load(); err != nil {
		slog.Warn("loading settings, using defaults", "error", err)
	}
	if err := settings.ApplyEnv(); err != nil {
		slog.Warn("ignoring environment override", "error", err)
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      settings.SlogLevel(),
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	svc := app.NewCalculatorService(settings, logger)

	wailsApp := application.New(application.Options{
		Name:        "HbA1c Impact",
		Description: "Educational HbA1c impact calculator",
		Logger:      logger,
		Services: []application.Service{
			application.NewService(svc),
		},
		Assets: application.AssetOptions{
			Handler: application.AssetFileServerFS(assets),
		},
		Mac: application.MacOptions{
			ApplicationShouldTerminateAfterLastWindowClosed: !settings.ShowTray,
		},
	})
	svc.SetApp(wailsApp)

	window := wailsApp.Window.NewWithOptions(application.WebviewWindowOptions{
		Title:            "HbA1c Impact",
		Width:            settings.WindowWidth,
		Height:           settings.WindowHeight,
		MinWidth:         600,
		MinHeight:        500,
		URL:              "/",
		BackgroundColour: application.NewRGB(27, 38, 54),
	})

	if settings.ShowTray && tray.IsTraySupported() {
		// Hide instead of close while the tray keeps the app alive
		window.RegisterHook(events.Common.WindowClosing, func(e *application.WindowEvent) {
			window.Hide()
			e.Cancel()
		})

		menu := application.NewMenu()
		menu.Add("Show").OnClick(func(*application.Context) {
			window.Show()
			window.Focus()
		})
		menu.AddSeparator()
		menu.Add("Quit").OnClick(func(*application.Context) {
			wailsApp.Quit()
		})

		systray := wailsApp.SystemTray.New()
		systray.SetIcon(tray.NewIconGenerator().Placeholder())
		systray.SetMenu(menu)
		systray.OnClick(func() {
			window.Show()
			window.Focus()
		})
		svc.SetTray(systray)
	}

	if err := wailsApp.Run(); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
