// Package chart draws the HbA1c bar chart onto a raster surface
package chart

import (
	"bytes"
	"image"
	"image/png"
	"sync"

	"github.com/fogleman/gg"
)

// Surface is a drawable area a chart can be built on
type Surface interface {
	// Context returns the drawing context, or nil when the surface is not
	// available (not yet mounted, or detached).
	Context() *gg.Context
}

// Canvas is an in-memory Surface of fixed size
type Canvas struct {
	mu       sync.Mutex
	width    int
	height   int
	dc       *gg.Context
	detached bool
}

// NewCanvas creates an attached canvas of the given size
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		width:  width,
		height: height,
		dc:     gg.NewContext(width, height),
	}
}

// Context returns the drawing context, or nil while detached
func (c *Canvas) Context() *gg.Context {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.detached {
		return nil
	}
	return c.dc
}

// Detach makes the canvas unavailable for drawing
func (c *Canvas) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detached = true
}

// Attach makes the canvas available again with a blank context
func (c *Canvas) Attach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detached = false
	c.dc = gg.NewContext(c.width, c.height)
}

// Size returns the canvas dimensions in pixels
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// Image returns the current pixels
func (c *Canvas) Image() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dc.Image()
}

// PNG encodes the current pixels
func (c *Canvas) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
