// Package keys canonicalizes key-name spelling variants against the closed
// pyautogui key vocabulary used by the portable command strings.
package keys

import (
	"fmt"
	"strings"
)

// InvalidKeyError reports hotkey tokens outside the canonical vocabulary.
// The message carries a corrected-name suggestion per offending token.
type InvalidKeyError struct {
	Keys        []string // offending tokens, normalized
	Suggestions []string // one human-readable hint per token
}

func (e *InvalidKeyError) Error() string {
	return "invalid key name(s) in hotkey: " + strings.Join(e.Suggestions, ", ")
}

// aliasGroups maps canonical names to the spelling variants models emit.
var aliasGroups = map[string][]string{
	"pageup":      {"page_up", "pgup"},
	"pagedown":    {"page_down", "pgdn"},
	"printscreen": {"print_screen", "prtsc", "prtscr"},
	"numlock":     {"num_lock"},
	"scrolllock":  {"scroll_lock"},
	"capslock":    {"caps_lock", "caps"},
	"win":         {"windows", "super", "meta"},
	"command":     {"cmd"},
	"ctrl":        {"control"},
	"volumemute":  {"mute"},
	"playpause":   {"play"},
}

// aliases is the flattened variant -> canonical lookup built from aliasGroups.
var aliases = func() map[string]string {
	m := make(map[string]string)
	for canonical, variants := range aliasGroups {
		for _, v := range variants {
			m[v] = canonical
		}
	}
	return m
}()

// validKeys is the closed vocabulary of named keys the executor accepts.
// Single printable characters are always valid and are not listed here.
var validKeys = func() map[string]struct{} {
	names := []string{
		"accept", "add", "alt", "altleft", "altright", "apps",
		"backspace", "break", "browserback", "browserfavorites",
		"browserforward", "browserhome", "browserrefresh", "browsersearch",
		"browserstop", "capslock", "clear", "command", "ctrl", "ctrlleft",
		"ctrlright", "decimal", "del", "delete", "divide", "down", "end",
		"enter", "esc", "escape", "execute", "final", "fn", "help", "home",
		"insert", "left", "multiply", "nexttrack", "num0", "num1", "num2",
		"num3", "num4", "num5", "num6", "num7", "num8", "num9", "numlock",
		"option", "optionleft", "optionright", "pagedown", "pageup", "pause",
		"pgdn", "pgup", "playpause", "prevtrack", "printscreen", "return",
		"right", "scrolllock", "select", "separator", "shift", "shiftleft",
		"shiftright", "sleep", "space", "stop", "subtract", "tab", "up",
		"volumedown", "volumemute", "volumeup", "win", "winleft", "winright",
	}
	for i := 1; i <= 24; i++ {
		names = append(names, fmt.Sprintf("f%d", i))
	}
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}()

// Normalize canonicalizes one key name: case-folds, strips whitespace and
// maps known alias spellings onto the vocabulary's canonical form. Unknown
// names pass through unchanged so callers can decide whether to validate.
func Normalize(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return key
}

// IsValid reports whether a normalized key belongs to the vocabulary.
func IsValid(key string) bool {
	if len([]rune(key)) == 1 {
		return true
	}
	_, ok := validKeys[key]
	return ok
}

// Validate checks every key against the vocabulary and returns an
// InvalidKeyError enumerating the offenders with corrected-name hints.
func Validate(list []string) error {
	var bad, hints []string
	for _, k := range list {
		if k == "" || IsValid(k) {
			continue
		}
		bad = append(bad, k)
		hints = append(hints, suggestionFor(k))
	}
	if len(bad) > 0 {
		return &InvalidKeyError{Keys: bad, Suggestions: hints}
	}
	return nil
}

// suggestionFor renders a corrective hint for one invalid key name.
func suggestionFor(key string) string {
	switch {
	case key == "ret":
		return fmt.Sprintf("'%s' -> use 'enter' or 'return'", key)
	case strings.HasPrefix(key, "num") && len(key) > 3:
		return fmt.Sprintf("'%s' -> numpad keys use format 'num0'-'num9'", key)
	default:
		return fmt.Sprintf("'%s' is not a valid key name", key)
	}
}

// ParseHotkey splits a hotkey string into normalized key names. Surrounding
// parentheses are stripped, "+" is the primary separator with "," as the
// fallback (models emit both "ctrl+c" and "alt, tab"), and empty tokens are
// dropped. With validate set, every token is checked against the vocabulary.
func ParseHotkey(s string, validate bool) ([]string, error) {
	s = strings.Trim(s, "()")

	sep := ","
	if strings.Contains(s, "+") {
		sep = "+"
	}

	var out []string
	for _, tok := range strings.Split(s, sep) {
		k := Normalize(tok)
		if k != "" {
			out = append(out, k)
		}
	}

	if validate {
		if err := Validate(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}
