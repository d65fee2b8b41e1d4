package convert

import "github.com/xkilldash9x/deskpilot/internal/capslock"

// Default sandbox dimensions. The remote executor VM runs a 1920x1080 display.
const (
	DefaultSandboxWidth  = 1920
	DefaultSandboxHeight = 1080
)

// Config holds the knobs shared by every action converter. Treat a Config as
// immutable once a converter is built; runtime retargeting goes through the
// converter's SetTargetScreen, never through field writes.
type Config struct {
	// SandboxWidth and SandboxHeight are the target surface extents commands
	// are scaled into.
	SandboxWidth  int
	SandboxHeight int
	// DragDuration is the drag travel time in seconds.
	DragDuration float64
	// ScrollAmount is the notch count per scroll command.
	ScrollAmount int
	// WaitDuration is the default wait in seconds when an action omits one.
	WaitDuration float64
	// HotkeyInterval is the inter-key delay in seconds within one hotkey.
	HotkeyInterval float64
	// CapslockMode selects virtual (session) or OS (system) caps-lock
	// handling.
	CapslockMode capslock.Mode
	// StrictCoordinates raises a range error for out-of-range model
	// coordinates instead of clamping them.
	StrictCoordinates bool
}

// DefaultConfig returns the converter defaults used across the pipeline.
func DefaultConfig() Config {
	return Config{
		SandboxWidth:      DefaultSandboxWidth,
		SandboxHeight:     DefaultSandboxHeight,
		DragDuration:      0.5,
		ScrollAmount:      2,
		WaitDuration:      1.0,
		HotkeyInterval:    0.1,
		CapslockMode:      capslock.ModeSession,
		StrictCoordinates: false,
	}
}

// normalized fills zero-valued dimensions so a partially constructed Config
// cannot produce a divide-by-zero scaler.
func (c Config) normalized() Config {
	if c.SandboxWidth <= 0 {
		c.SandboxWidth = DefaultSandboxWidth
	}
	if c.SandboxHeight <= 0 {
		c.SandboxHeight = DefaultSandboxHeight
	}
	if c.CapslockMode == "" {
		c.CapslockMode = capslock.ModeSession
	}
	return c
}
