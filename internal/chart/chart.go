package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Default bar colours
const (
	ColorCurrent   = "#dc3545" // Red
	ColorProjected = "#198754" // Green

	DefaultSuggestedMax = 14
)

// Layout in pixels
const (
	marginLeft   = 44
	marginRight  = 16
	marginTop    = 34
	marginBottom = 34
	barFill      = 0.55 // Share of each slot covered by the bar
	tickStep     = 2.0
)

// Config describes a bar chart with a single dataset
type Config struct {
	Type    string   `json:"type"`
	Labels  []string `json:"labels"`
	Dataset Dataset  `json:"dataset"`
	Options Options  `json:"options"`
}

// Dataset is one series of values with a colour per bar
type Dataset struct {
	Label  string    `json:"label"`
	Data   []float64 `json:"data"`
	Colors []string  `json:"backgroundColor"`
}

// Options controls axes and animation
type Options struct {
	Animation    bool    `json:"animation"`
	BeginAtZero  bool    `json:"beginAtZero"`
	SuggestedMax float64 `json:"suggestedMax"`
}

// Labels are the category and dataset captions of the HbA1c chart
type Labels struct {
	Current   string
	Projected string
	Dataset   string
}

// HbA1cConfig builds the two-bar current vs projected chart
func HbA1cConfig(current, projected float64, labels Labels) Config {
	return Config{
		Type:   "bar",
		Labels: []string{labels.Current, labels.Projected},
		Dataset: Dataset{
			Label:  labels.Dataset,
			Data:   []float64{current, projected},
			Colors: []string{ColorCurrent, ColorProjected},
		},
		Options: Options{
			Animation:    false,
			BeginAtZero:  true,
			SuggestedMax: DefaultSuggestedMax,
		},
	}
}

// Validate checks that the config can be drawn
func (c Config) Validate() error {
	n := len(c.Dataset.Data)
	if n == 0 {
		return errors.New("chart has no data")
	}
	if len(c.Labels) != n {
		return fmt.Errorf("chart has %d labels for %d values", len(c.Labels), n)
	}
	if len(c.Dataset.Colors) != n {
		return fmt.Errorf("chart has %d colors for %d values", len(c.Dataset.Colors), n)
	}
	for _, hex := range c.Dataset.Colors {
		if _, ok := ParseHexColor(hex); !ok {
			return fmt.Errorf("invalid color %q", hex)
		}
	}
	return nil
}

// YMax returns the top of the value axis: the suggested max, raised to the
// next tick when the data exceeds it
func (c Config) YMax() float64 {
	top := c.Options.SuggestedMax
	for _, v := range c.Dataset.Data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) && v > top {
			top = v
		}
	}
	if top <= 0 {
		top = tickStep
	}
	return math.Ceil(top/tickStep) * tickStep
}

// YMin returns the bottom of the value axis
func (c Config) YMin() float64 {
	if c.Options.BeginAtZero {
		return 0
	}
	lowest := math.Inf(1)
	for _, v := range c.Dataset.Data {
		lowest = math.Min(lowest, v)
	}
	return math.Floor(lowest/tickStep) * tickStep
}

// Chart is a bar chart drawn on a context. It owns the pixels of the
// context until destroyed.
type Chart struct {
	mu        sync.Mutex
	dc        *gg.Context
	cfg       Config
	destroyed bool
}

// New validates cfg and draws it on dc
func New(dc *gg.Context, cfg Config) (*Chart, error) {
	if dc == nil {
		return nil, errors.New("no drawing context")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Chart{dc: dc, cfg: cfg}
	c.draw()
	return c, nil
}

// Config returns the configuration the chart was built from
func (c *Chart) Config() Config {
	return c.cfg
}

// Destroyed reports whether Destroy has been called
func (c *Chart) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// Destroy clears the chart from its context. Calling it again is a no-op.
func (c *Chart) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return
	}
	c.destroyed = true
	c.dc.SetColor(color.White)
	c.dc.Clear()
}

func (c *Chart) draw() {
	dc := c.dc
	width := float64(dc.Width())
	height := float64(dc.Height())

	plotLeft := float64(marginLeft)
	plotRight := width - marginRight
	plotTop := float64(marginTop)
	plotBottom := height - marginBottom
	plotHeight := plotBottom - plotTop

	yMin := c.cfg.YMin()
	yMax := c.cfg.YMax()
	scale := func(v float64) float64 {
		v = math.Max(yMin, math.Min(yMax, v))
		return plotBottom - (v-yMin)/(yMax-yMin)*plotHeight
	}

	dc.SetColor(color.White)
	dc.Clear()

	// Grid and ticks
	setFont(dc, 11)
	dc.SetLineWidth(1)
	for v := yMin; v <= yMax+1e-9; v += tickStep {
		y := scale(v)
		dc.SetHexColor("#e5e7eb")
		dc.DrawLine(plotLeft, y, plotRight, y)
		dc.Stroke()
		dc.SetHexColor("#4b5563")
		dc.DrawStringAnchored(fmt.Sprintf("%g", v), plotLeft-6, y, 1, 0.5)
	}

	// Axes
	dc.SetHexColor("#4b5563")
	dc.DrawLine(plotLeft, plotTop, plotLeft, plotBottom)
	dc.DrawLine(plotLeft, plotBottom, plotRight, plotBottom)
	dc.Stroke()

	// Bars
	n := len(c.cfg.Dataset.Data)
	slot := (plotRight - plotLeft) / float64(n)
	barWidth := slot * barFill
	for i, v := range c.cfg.Dataset.Data {
		x := plotLeft + slot*float64(i) + (slot-barWidth)/2
		top := scale(v)
		rgb, _ := ParseHexColor(c.cfg.Dataset.Colors[i])
		dc.SetColor(rgb)
		dc.DrawRectangle(x, top, barWidth, plotBottom-top)
		dc.Fill()

		dc.SetHexColor("#111827")
		setFont(dc, 12)
		dc.DrawStringAnchored(fmt.Sprintf("%.2f", v), x+barWidth/2, top-4, 0.5, 0)
		dc.DrawStringAnchored(c.cfg.Labels[i], x+barWidth/2, plotBottom+8, 0.5, 1)
	}

	// Legend
	if c.cfg.Dataset.Label != "" {
		setFont(dc, 12)
		dc.SetHexColor("#111827")
		dc.DrawStringAnchored(c.cfg.Dataset.Label, width/2, marginTop/2, 0.5, 0.5)
	}
}

var (
	fontOnce sync.Once
	baseFont *truetype.Font
	fontErr  error
)

// setFont applies the Go regular face at size, leaving the context's
// current face untouched if the font cannot be parsed
func setFont(dc *gg.Context, size float64) {
	face, err := Face(size)
	if err != nil {
		return
	}
	dc.SetFontFace(face)
}

// Face returns a new Go regular font face of the given size. Faces keep a
// glyph cache and must not be shared between goroutines.
func Face(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		baseFont, fontErr = truetype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	return truetype.NewFace(baseFont, &truetype.Options{Size: size}), nil
}

// ParseHexColor parses a #rrggbb string
func ParseHexColor(hex string) (color.RGBA, bool) {
	var r, g, b uint8
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{}, false
	}
	if n, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil || n != 3 {
		return color.RGBA{}, false
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, true
}
