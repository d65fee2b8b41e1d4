// Package capslock tracks the virtual caps-lock modifier across one
// automation session.
//
// In "session" mode the toggle never reaches the OS: the manager flips an
// internal flag and typed text is upper-cased on the way out, so the host
// machine's keyboard state is left untouched. In "system" mode the toggle is
// delegated to the OS and this manager is inert.
package capslock

import "strings"

// Mode selects who owns the caps-lock toggle.
type Mode string

const (
	// ModeSession keeps the toggle virtual, scoped to this session.
	ModeSession Mode = "session"
	// ModeSystem forwards the toggle to the OS keyboard state.
	ModeSystem Mode = "system"
)

// ParseMode maps a config string onto a Mode, defaulting to session.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeSystem)) {
		return ModeSystem
	}
	return ModeSession
}

// Manager is the two-state machine (disabled/enabled) behind the virtual
// caps-lock key. Not safe for concurrent use; it is owned by exactly one
// converter or handler instance.
type Manager struct {
	mode    Mode
	enabled bool
}

// NewManager returns a manager in the disabled state.
func NewManager(mode Mode) *Manager {
	return &Manager{mode: mode}
}

// Mode returns the configured ownership mode.
func (m *Manager) Mode() Mode { return m.mode }

// Enabled reports whether the virtual toggle is currently on. Always false in
// system mode.
func (m *Manager) Enabled() bool { return m.enabled }

// Toggle flips the virtual state. No-op in system mode, where the OS owns the
// toggle instead.
func (m *Manager) Toggle() {
	if m.mode == ModeSession {
		m.enabled = !m.enabled
	}
}

// Reset forces the disabled state. Called at session start/end and whenever a
// terminal action is processed.
func (m *Manager) Reset() {
	m.enabled = false
}

// TransformText upper-cases text when the virtual toggle is on; identity
// otherwise.
func (m *Manager) TransformText(text string) string {
	if m.mode == ModeSession && m.enabled {
		return strings.ToUpper(text)
	}
	return text
}

// ShouldDelegateToSystem reports whether a bare caps-lock hotkey must be
// forwarded to the OS rather than toggled virtually.
func (m *Manager) ShouldDelegateToSystem() bool {
	return m.mode == ModeSystem
}
