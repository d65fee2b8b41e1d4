package session

import "github.com/xkilldash9x/deskpilot/internal/screen"

// Resettable is implemented by components carrying session-scoped mutable
// state (cursor position, caps-lock) that must be cleared between tasks.
type Resettable interface {
	Reset()
}

// Retargetable is implemented by components whose coordinate output can be
// redirected to another display without rebuilding them.
type Retargetable interface {
	SetTargetScreen(screen.Screen)
}

// ResetIfCapable resets v when it carries resettable state. It reports
// whether a reset happened, so callers can log what was actually cleared.
func ResetIfCapable(v any) bool {
	if r, ok := v.(Resettable); ok {
		r.Reset()
		return true
	}
	return false
}

// RetargetIfCapable points v at another display when it supports that.
func RetargetIfCapable(v any, s screen.Screen) bool {
	if r, ok := v.(Retargetable); ok {
		r.SetTargetScreen(s)
		return true
	}
	return false
}
