// Package display defines the interactive viewer collaborator that
// `show` and `convert -show` hand a decoded framebuffer to. An actual
// windowed viewer is outside this repository's scope (spec.md's
// Non-goals exclude real-time playback/animation); this package only
// fixes the contract a future viewer implementation would satisfy, and
// provides a no-op implementation usable wherever `-show` is not
// requested or no windowing backend is available.
package display

import "scipic/internal/raster"

// Frame is the coordinate and tap state delivered to a Display's frame
// callback: (x, y, tapped).
type Frame struct {
	X, Y   int
	Tapped bool
}

// Display shows a framebuffer and cooperatively delivers frame/input
// events to onFrame until the viewer is closed.
type Display interface {
	Show(fb *raster.Raster, onFrame func(Frame)) error
}

// Null is a Display that renders nothing and returns immediately; it
// satisfies the interface for headless runs and tests.
type Null struct{}

func (Null) Show(*raster.Raster, func(Frame)) error { return nil }
