// Package tray renders the system tray icon for the projected HbA1c
package tray

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"runtime"

	"github.com/fogleman/gg"
	"github.com/mrcode/hba1c-impact/internal/chart"
	"github.com/mrcode/hba1c-impact/internal/models"
)

const osWindows = "windows"

// IconGenerator draws tray icons
type IconGenerator struct {
	goos string
}

// NewIconGenerator creates an icon generator for the running platform
func NewIconGenerator() *IconGenerator {
	return &IconGenerator{goos: runtime.GOOS}
}

// Generate draws the projected HbA1c on a badge coloured by its band.
// Windows gets ICO data, other platforms PNG. Returns nil on encoding failure.
func (g *IconGenerator) Generate(p models.Projection) []byte {
	text := "---"
	if !math.IsNaN(p.ProjectedHbA1c) {
		text = fmt.Sprintf("%.1f", p.ProjectedHbA1c)
	}
	return g.generate(text, StatusColor(p.Interpretation))
}

// Placeholder draws the icon shown before the first projection
func (g *IconGenerator) Placeholder() []byte {
	return g.generate("---", "#808080")
}

func (g *IconGenerator) generate(text, bgHex string) []byte {
	// Size constants
	const (
		width  = 64 // Higher resolution for better scaling
		height = 64
		radius = 16
	)

	dc := gg.NewContext(width, height)

	// Transparent background
	dc.SetRGBA(0, 0, 0, 0)
	dc.Clear()

	bg, ok := chart.ParseHexColor(bgHex)
	if !ok {
		bg = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}

	dc.SetColor(bg)
	dc.DrawRoundedRectangle(0, 0, float64(width), float64(height), float64(radius))
	dc.Fill()

	// Text color (black or white depending on brightness)
	brightness := (int(bg.R)*299 + int(bg.G)*587 + int(bg.B)*114) / 1000
	if brightness > 128 {
		dc.SetColor(color.Black)
	} else {
		dc.SetColor(color.White)
	}

	if face, err := chart.Face(26); err == nil {
		dc.SetFontFace(face)
		dc.DrawStringAnchored(text, width/2, height/2-6, 0.5, 0.5)
	}
	if face, err := chart.Face(14); err == nil {
		dc.SetFontFace(face)
		dc.DrawStringAnchored("%", width/2, height-14, 0.5, 0.5)
	}

	if g.goos == osWindows {
		return imageToICO(dc.Image())
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil
	}

	return buf.Bytes()
}

// StatusColor returns the badge colour for an interpretation band
func StatusColor(i models.Interpretation) string {
	switch i {
	case models.InterpretationLow:
		return "#f97316" // Orange
	case models.InterpretationNormal:
		return "#4ade80" // Green
	case models.InterpretationPrediabetes:
		return "#a3e635" // Lime
	case models.InterpretationGoodControl:
		return "#22c55e" // Darker green
	case models.InterpretationIntermediateControl:
		return "#facc15" // Yellow
	case models.InterpretationPoorControl:
		return "#ef4444" // Red
	default:
		return "#808080" // Gray for unknown
	}
}

// Label formats the text shown next to the tray icon
func Label(p models.Projection, lang string) string {
	return fmt.Sprintf("%.2f%% %s", p.ProjectedHbA1c, p.Interpretation.Label(lang))
}

// Tooltip formats a multi-line summary of the projection
func Tooltip(p models.Projection, lang string) string {
	if lang == models.LangSpanish {
		return fmt.Sprintf("HbA1c: %.2f%% → %.2f%%\n%s\nSuspensión de medicación: %s\nRiesgo cardiovascular: %s",
			p.CurrentHbA1c, p.ProjectedHbA1c,
			p.Interpretation.Label(lang),
			p.MedicationSuspension.Label(lang),
			p.CardiovascularRisk.RiskLabel(lang))
	}
	return fmt.Sprintf("HbA1c: %.2f%% → %.2f%%\n%s\nMedication suspension: %s\nCardiovascular risk: %s",
		p.CurrentHbA1c, p.ProjectedHbA1c,
		p.Interpretation.Label(lang),
		p.MedicationSuspension.Label(lang),
		p.CardiovascularRisk.RiskLabel(lang))
}

// IsTraySupported returns true if system tray is supported on this platform
func IsTraySupported() bool {
	switch runtime.GOOS {
	case "linux", osWindows, "darwin":
		return true
	default:
		return false
	}
}

// imageToICO converts an image to ICO format
// ICO format structure:
// - ICONDIR header (6 bytes)
// - ICONDIRENTRY for each image (16 bytes)
// - PNG data for each image
func imageToICO(img image.Image) []byte {
	var buf bytes.Buffer

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil
	}
	pngData := pngBuf.Bytes()

	// ICONDIR: reserved, type (1 = ICO), image count
	_ = binary.Write(&buf, binary.LittleEndian, uint16(0))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))

	bounds := img.Bounds()
	buf.WriteByte(icoDimension(bounds.Dx()))
	buf.WriteByte(icoDimension(bounds.Dy()))
	// No palette, reserved
	buf.WriteByte(0)
	buf.WriteByte(0)
	// Color planes, bits per pixel
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(32))
	// #nosec G115 -- PNG size is limited by memory and will not overflow uint32
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pngData)))
	// Offset to image data (header + directory entry = 6 + 16 = 22)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(22))

	buf.Write(pngData)

	return buf.Bytes()
}

// icoDimension encodes a width or height, where 0 means 256
func icoDimension(v int) byte {
	if v >= 256 {
		return 0
	}
	return byte(v)
}
