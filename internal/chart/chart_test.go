package chart

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLabels = Labels{Current: "Current HbA1c", Projected: "Projected HbA1c", Dataset: "HbA1c (%)"}

func TestHbA1cConfig(t *testing.T) {
	cfg := HbA1cConfig(8.0, 7.19, testLabels)

	assert.Equal(t, "bar", cfg.Type)
	assert.Equal(t, []string{"Current HbA1c", "Projected HbA1c"}, cfg.Labels)
	assert.Equal(t, []float64{8.0, 7.19}, cfg.Dataset.Data)
	assert.Equal(t, []string{ColorCurrent, ColorProjected}, cfg.Dataset.Colors)
	assert.False(t, cfg.Options.Animation)
	assert.True(t, cfg.Options.BeginAtZero)
	assert.Equal(t, 14.0, cfg.Options.SuggestedMax)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Axis(t *testing.T) {
	cfg := HbA1cConfig(8.0, 7.19, testLabels)
	assert.Equal(t, 0.0, cfg.YMin())
	assert.Equal(t, 14.0, cfg.YMax())

	// Data above the suggested max stretches the axis to the next tick
	cfg = HbA1cConfig(15.1, 13, testLabels)
	assert.Equal(t, 16.0, cfg.YMax())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"No data", func(c *Config) { c.Dataset.Data = nil }},
		{"Missing label", func(c *Config) { c.Labels = c.Labels[:1] }},
		{"Missing color", func(c *Config) { c.Dataset.Colors = c.Dataset.Colors[:1] }},
		{"Bad color", func(c *Config) { c.Dataset.Colors[0] = "red" }},
		{"Bad hex digits", func(c *Config) { c.Dataset.Colors[1] = "#zzzzzz" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := HbA1cConfig(8, 7, testLabels)
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNew_DrawsBars(t *testing.T) {
	canvas := NewCanvas(400, 300)
	c, err := New(canvas.Context(), HbA1cConfig(8.0, 7.19, testLabels))
	require.NoError(t, err)
	require.NotNil(t, c)

	img := canvas.Image()
	red, _ := ParseHexColor(ColorCurrent)
	green, _ := ParseHexColor(ColorProjected)

	// Sample just above the x axis in the middle of each slot
	plotWidth := 400.0 - marginLeft - marginRight
	y := 300 - marginBottom - 5
	left := int(marginLeft + plotWidth/4)
	right := int(marginLeft + plotWidth*3/4)

	assert.Equal(t, red, toRGBA(img.At(left, y)))
	assert.Equal(t, green, toRGBA(img.At(right, y)))
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, HbA1cConfig(8, 7, testLabels))
	assert.Error(t, err)

	cfg := HbA1cConfig(8, 7, testLabels)
	cfg.Dataset.Data = nil
	_, err = New(gg.NewContext(10, 10), cfg)
	assert.Error(t, err)
}

func TestChart_Destroy(t *testing.T) {
	canvas := NewCanvas(200, 150)
	c, err := New(canvas.Context(), HbA1cConfig(8, 7, testLabels))
	require.NoError(t, err)

	c.Destroy()
	assert.True(t, c.Destroyed())

	img := canvas.Image()
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 10 {
		for x := bounds.Min.X; x < bounds.Max.X; x += 10 {
			require.Equal(t, color.RGBA{255, 255, 255, 255}, toRGBA(img.At(x, y)), "pixel %d,%d", x, y)
		}
	}

	// Second destroy is a no-op
	c.Destroy()
	assert.True(t, c.Destroyed())
}

func TestCanvas_Detach(t *testing.T) {
	canvas := NewCanvas(100, 80)
	assert.NotNil(t, canvas.Context())

	canvas.Detach()
	assert.Nil(t, canvas.Context())

	canvas.Attach()
	assert.NotNil(t, canvas.Context())

	var missing *Canvas
	assert.Nil(t, missing.Context())
}

func TestCanvas_PNG(t *testing.T) {
	canvas := NewCanvas(120, 90)
	_, err := New(canvas.Context(), HbA1cConfig(8, 7, testLabels))
	require.NoError(t, err)

	data, err := canvas.PNG()
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 90, img.Bounds().Dy())
}

func TestParseHexColor(t *testing.T) {
	c, ok := ParseHexColor("#198754")
	assert.True(t, ok)
	assert.Equal(t, color.RGBA{0x19, 0x87, 0x54, 0xff}, c)

	for _, bad := range []string{"", "198754", "#19875", "#1987545"} {
		_, ok := ParseHexColor(bad)
		assert.False(t, ok, "ParseHexColor(%q)", bad)
	}
}

func toRGBA(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
