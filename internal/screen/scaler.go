package screen

import (
	"fmt"
	"math"
)

// RangeError reports a strict-mode input coordinate outside the declared
// source extents. It is fatal for the action that produced it.
type RangeError struct {
	Axis  string  // "x" or "y"
	Value float64 // offending input coordinate
	Max   int     // inclusive upper bound of the source extent
}

func (e *RangeError) Error() string {
	return fmt.Sprintf(
		"%s coordinate %g out of valid range [0, %d]; coordinates must be normalized between 0 and %d",
		e.Axis, e.Value, e.Max, e.Max)
}

// Options controls a single Scale call.
type Options struct {
	// Clamp bounds the scaled result to [0, target-1]. This is the default
	// behavior everywhere in the pipeline; disabling it is only useful for
	// diagnostics.
	Clamp bool
	// PreventCornerLock nudges results landing on the outermost 1-pixel
	// border inward by one unit. Desktop automation fail-safes abort when the
	// cursor hits a literal screen corner.
	PreventCornerLock bool
	// Strict raises a RangeError for inputs outside [0, source extent]
	// before any scaling happens.
	Strict bool
}

// DefaultOptions are the options used by converters for ordinary actions.
func DefaultOptions() Options { return Options{Clamp: true} }

// Scaler performs a linear remap between a fixed source coordinate space
// (the model's dialect space) and a configurable target space (the sandbox or
// physical display). The target side is mutable so a long-lived converter can
// be retargeted to another display without being rebuilt.
//
// Scaler is not safe for concurrent use; callers serialize steps against one
// converter instance.
type Scaler struct {
	sourceWidth  int
	sourceHeight int
	targetWidth  int
	targetHeight int
	originX      int
	originY      int
	scaleX       float64
	scaleY       float64
}

// NewScaler builds a scaler mapping [0, sourceWidth]x[0, sourceHeight] onto a
// targetWidth x targetHeight surface with a zero origin.
func NewScaler(sourceWidth, sourceHeight, targetWidth, targetHeight int) *Scaler {
	s := &Scaler{
		sourceWidth:  sourceWidth,
		sourceHeight: sourceHeight,
	}
	s.SetTargetSize(targetWidth, targetHeight)
	return s
}

// SetTargetSize mutates the target extents and rederives the scale factors in
// place. Dependent converters keep working without reconstruction.
func (s *Scaler) SetTargetSize(width, height int) {
	s.targetWidth = width
	s.targetHeight = height
	s.scaleX = float64(width) / float64(s.sourceWidth)
	s.scaleY = float64(height) / float64(s.sourceHeight)
}

// SetOrigin mutates the origin offset added to every scaled result. Used for
// multi-monitor targeting where the target display does not start at (0, 0).
func (s *Scaler) SetOrigin(x, y int) {
	s.originX = x
	s.originY = y
}

// SourceWidth returns the fixed source extent on the x axis.
func (s *Scaler) SourceWidth() int { return s.sourceWidth }

// SourceHeight returns the fixed source extent on the y axis.
func (s *Scaler) SourceHeight() int { return s.sourceHeight }

// OriginX returns the current x origin offset.
func (s *Scaler) OriginX() int { return s.originX }

// OriginY returns the current y origin offset.
func (s *Scaler) OriginY() int { return s.originY }

// TargetWidth returns the current target extent on the x axis.
func (s *Scaler) TargetWidth() int { return s.targetWidth }

// TargetHeight returns the current target extent on the y axis.
func (s *Scaler) TargetHeight() int { return s.targetHeight }

// ScaleX returns the derived x scale factor (target/source).
func (s *Scaler) ScaleX() float64 { return s.scaleX }

// ScaleY returns the derived y scale factor (target/source).
func (s *Scaler) ScaleY() float64 { return s.scaleY }

// Scale remaps one source-space coordinate pair into the target space.
// Order of operations: strict range check, linear scale + round, clamp,
// corner nudge, origin offset.
func (s *Scaler) Scale(x, y float64, opts Options) (int, int, error) {
	if opts.Strict {
		if x < 0 || x > float64(s.sourceWidth) {
			return 0, 0, &RangeError{Axis: "x", Value: x, Max: s.sourceWidth}
		}
		if y < 0 || y > float64(s.sourceHeight) {
			return 0, 0, &RangeError{Axis: "y", Value: y, Max: s.sourceHeight}
		}
	}

	sx := int(math.Round(x * s.scaleX))
	sy := int(math.Round(y * s.scaleY))

	if opts.Clamp {
		sx = clamp(sx, 0, s.targetWidth-1)
		sy = clamp(sy, 0, s.targetHeight-1)
	}

	if opts.PreventCornerLock {
		sx = nudgeFromBorder(sx, s.targetWidth)
		sy = nudgeFromBorder(sy, s.targetHeight)
	}

	return sx + s.originX, sy + s.originY, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// nudgeFromBorder moves a coordinate sitting on the outermost 1-pixel border
// one unit inward.
func nudgeFromBorder(v, extent int) int {
	if v <= 0 {
		return 1
	}
	if v >= extent-1 {
		return extent - 2
	}
	return v
}
