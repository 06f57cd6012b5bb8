// Package presenter holds the assessment form state and keeps the derived
// projection and the HbA1c chart in step with it
package presenter

import (
	"bytes"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fogleman/gg"
	"github.com/mrcode/hba1c-impact/internal/chart"
	"github.com/mrcode/hba1c-impact/internal/formula"
	"github.com/mrcode/hba1c-impact/internal/models"
)

// DefaultDebounce is the quiet period before a chart redraw
const DefaultDebounce = 200 * time.Millisecond

// ErrNoSurface is returned when the chart surface is not available
var ErrNoSurface = errors.New("chart surface not available")

// Presenter owns the assessment and everything derived from it.
//
// Every mutation recomputes the projection synchronously. When the projected
// HbA1c changes, a chart redraw is scheduled after a quiet period; triggers
// arriving during that period replace the pending one.
type Presenter struct {
	mu         sync.Mutex
	assessment models.Assessment
	projection models.Projection

	surface      chart.Surface
	chart        *chart.Chart
	labels       chart.Labels
	colors       [2]string
	suggestedMax float64

	delay     time.Duration
	debounced func(f func())
	mounted   bool
	closed    bool
	redraws   int

	projectionSubs []func(models.Projection)
	redrawSubs     []func(*chart.Chart)

	logger *slog.Logger
}

// Option configures a Presenter
type Option func(*Presenter)

// WithDebounce sets the quiet period before a redraw
func WithDebounce(d time.Duration) Option {
	return func(p *Presenter) { p.delay = d }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(p *Presenter) { p.logger = l }
}

// WithLanguage sets the chart captions language
func WithLanguage(lang string) Option {
	return func(p *Presenter) { p.labels = chart.Labels(models.HbA1cChartLabels(lang)) }
}

// WithColors sets the current and projected bar colours
func WithColors(current, projected string) Option {
	return func(p *Presenter) { p.colors = [2]string{current, projected} }
}

// WithSuggestedMax sets the suggested top of the value axis
func WithSuggestedMax(v float64) Option {
	return func(p *Presenter) { p.suggestedMax = v }
}

// WithAssessment replaces the default starting form state
func WithAssessment(a models.Assessment) Option {
	return func(p *Presenter) { p.assessment = a }
}

// New creates a presenter drawing on surface, starting from the default
// assessment
func New(surface chart.Surface, opts ...Option) *Presenter {
	p := &Presenter{
		assessment:   models.DefaultAssessment(),
		surface:      surface,
		labels:       chart.Labels(models.HbA1cChartLabels(models.LangEnglish)),
		colors:       [2]string{chart.ColorCurrent, chart.ColorProjected},
		suggestedMax: chart.DefaultSuggestedMax,
		delay:        DefaultDebounce,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.debounced = debounce.New(p.delay)
	p.projection = formula.Compute(p.assessment)
	return p
}

// Assessment returns a copy of the current form state
func (p *Presenter) Assessment() models.Assessment {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.assessment
}

// Projection returns the outputs derived from the current form state
func (p *Presenter) Projection() models.Projection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.projection
}

// Subscribe registers fn to receive every recomputed projection
func (p *Presenter) Subscribe(fn func(models.Projection)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.projectionSubs = append(p.projectionSubs, fn)
}

// OnRedraw registers fn to be called after every chart rebuild
func (p *Presenter) OnRedraw(fn func(*chart.Chart)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.redrawSubs = append(p.redrawSubs, fn)
}

// Update applies mutate to the form state and recomputes the projection
func (p *Presenter) Update(mutate func(*models.Assessment)) models.Projection {
	p.mu.Lock()
	mutate(&p.assessment)
	prev := p.projection.ProjectedHbA1c
	p.projection = formula.Compute(p.assessment)
	next := p.projection
	schedule := p.mounted && !p.closed && next.ProjectedHbA1c != prev
	subs := slices.Clone(p.projectionSubs)
	debounced := p.debounced
	delay := p.delay
	p.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}

	if schedule {
		p.logger.Debug("projected HbA1c changed, scheduling chart redraw",
			"from", prev, "to", next.ProjectedHbA1c, "delay", delay)
		debounced(p.redraw)
	}

	return next
}

// Set replaces the whole form state
func (p *Presenter) Set(a models.Assessment) models.Projection {
	return p.Update(func(cur *models.Assessment) { *cur = a })
}

// Reset restores the default form state
func (p *Presenter) Reset() models.Projection {
	return p.Set(models.DefaultAssessment())
}

// SetLanguage switches the chart captions. Takes effect on the next redraw.
func (p *Presenter) SetLanguage(lang string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.labels = chart.Labels(models.HbA1cChartLabels(lang))
}

// SetColors sets the current and projected bar colours. Takes effect on the
// next redraw.
func (p *Presenter) SetColors(current, projected string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.colors = [2]string{current, projected}
}

// SetSuggestedMax sets the suggested top of the value axis. Takes effect on
// the next redraw.
func (p *Presenter) SetSuggestedMax(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.suggestedMax = v
}

// SetDebounce changes the quiet period for redraws scheduled from now on
func (p *Presenter) SetDebounce(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if d == p.delay {
		return
	}
	p.delay = d
	p.debounced = debounce.New(d)
}

// SetSurface replaces the rendering surface
func (p *Presenter) SetSurface(s chart.Surface) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.surface = s
}

// Mount draws the chart immediately, without waiting for the debounce. Only
// the first call has an effect.
func (p *Presenter) Mount() {
	p.mu.Lock()
	if p.mounted || p.closed {
		p.mu.Unlock()
		return
	}
	p.mounted = true
	p.mu.Unlock()

	p.logger.Debug("mounting chart")
	p.redraw()
}

// Redraw rebuilds the chart now, bypassing the debounce
func (p *Presenter) Redraw() {
	p.redraw()
}

// Close stops future redraws and destroys the chart
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.chart != nil {
		p.chart.Destroy()
		p.chart = nil
	}
}

// Chart returns the current chart, or nil if none has been drawn
func (p *Presenter) Chart() *chart.Chart {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chart
}

// Redraws returns how many times the chart has been built
func (p *Presenter) Redraws() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.redraws
}

// ChartPNG encodes the surface as it currently looks
func (p *Presenter) ChartPNG() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	dc := p.context()
	if dc == nil {
		return nil, ErrNoSurface
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Presenter) redraw() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}

	dc := p.context()
	if dc == nil {
		p.mu.Unlock()
		p.logger.Warn("chart surface not available, skipping redraw")
		return
	}

	if p.chart != nil {
		p.logger.Debug("destroying chart to rebuild it")
		p.chart.Destroy()
		p.chart = nil
	}

	c, err := chart.New(dc, p.chartConfig())
	if err != nil {
		p.mu.Unlock()
		p.logger.Error("building chart", "error", err)
		return
	}
	p.chart = c
	p.redraws++
	subs := slices.Clone(p.redrawSubs)
	p.mu.Unlock()

	p.logger.Debug("chart built", "current", c.Config().Dataset.Data[0], "projected", c.Config().Dataset.Data[1])
	for _, fn := range subs {
		fn(c)
	}
}

// chartConfig must be called with p.mu held
func (p *Presenter) chartConfig() chart.Config {
	cfg := chart.HbA1cConfig(p.assessment.CurrentHbA1c, p.projection.ProjectedHbA1c, p.labels)
	cfg.Dataset.Colors = []string{p.colors[0], p.colors[1]}
	cfg.Options.SuggestedMax = p.suggestedMax
	return cfg
}

// context must be called with p.mu held
func (p *Presenter) context() *gg.Context {
	if p.surface == nil {
		return nil
	}
	return p.surface.Context()
}
