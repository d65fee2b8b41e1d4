package schemas

import (
	"regexp"
	"strconv"
	"strings"
)

// -- Normalized Action Schemas --

// ActionType enumerates the normalized automation instructions the translation
// pipeline understands. This is a closed vocabulary: parsers drop anything
// outside it and converters refuse to emit commands for it.
type ActionType string

const (
	ActionClick         ActionType = "click"           // Single left click at "x, y".
	ActionLeftDouble    ActionType = "left_double"     // Double left click at "x, y".
	ActionLeftTriple    ActionType = "left_triple"     // Triple left click at "x, y".
	ActionRightSingle   ActionType = "right_single"    // Single right click at "x, y".
	ActionDrag          ActionType = "drag"            // Drag from "x1, y1" to "x2, y2".
	ActionMouseMove     ActionType = "mouse_move"      // Move cursor to "x, y" without clicking.
	ActionLeftClickDrag ActionType = "left_click_drag" // Drag from the running cursor to "x, y".
	ActionPressClick    ActionType = "press_click"     // Click while holding keys; JSON argument.
	ActionHotkey        ActionType = "hotkey"          // Press a key combination, e.g. "ctrl+c".
	ActionTypeText      ActionType = "type"            // Type literal text.
	ActionScroll        ActionType = "scroll"          // Scroll at "x, y, direction".
	ActionWait          ActionType = "wait"            // Pause for the given (or default) seconds.
	ActionFinish        ActionType = "finish"          // Terminal: task completed.
	ActionFail          ActionType = "fail"            // Terminal: task infeasible.
	ActionCallUser      ActionType = "call_user"       // Request user intervention; no command emitted.
)

// IsTerminal reports whether the action ends a batch. At most one terminal
// action is permitted per batch; converters enforce that invariant.
func (t ActionType) IsTerminal() bool {
	return t == ActionFinish || t == ActionFail
}

// Valid reports whether t belongs to the closed action vocabulary.
func (t ActionType) Valid() bool {
	switch t {
	case ActionClick, ActionLeftDouble, ActionLeftTriple, ActionRightSingle,
		ActionDrag, ActionMouseMove, ActionLeftClickDrag, ActionPressClick,
		ActionHotkey, ActionTypeText, ActionScroll, ActionWait,
		ActionFinish, ActionFail, ActionCallUser:
		return true
	}
	return false
}

// Action is one normalized automation instruction. Argument encoding is
// positional and type specific ("x, y" for clicks, "x1, y1, x2, y2" for drags,
// "x, y, direction" for scrolls, a JSON object for press_click, free text for
// type). Count is a repeat factor and is always >= 1.
type Action struct {
	Type     ActionType `json:"type"`
	Argument string     `json:"argument"`
	Count    int        `json:"count"`
}

// Step is the parser's output bundle for one model response: the extracted
// reasoning, the ordered action sequence and whether the batch contains a
// terminal action.
type Step struct {
	Reason  string   `json:"reason"`
	Actions []Action `json:"actions"`
	Stop    bool     `json:"stop"`
}

// -- Coordinate Argument Helpers --

// Model coordinates arrive as loosely formatted comma separated integers.
// These helpers only recognize the strict "digits, digits" shapes; converters
// layer richer (and chattier) diagnostics on top for their own grammars.

var (
	coordsRe     = regexp.MustCompile(`^(\d+),\s*(\d+)`)
	dragCoordsRe = regexp.MustCompile(`^(\d+),\s*(\d+),\s*(\d+),\s*(\d+)`)
	scrollRe     = regexp.MustCompile(`^(\d+),\s*(\d+),\s*(\w+)`)
)

// ParseCoords extracts "x, y" from an action argument. The second return value
// is false when the argument does not match.
func ParseCoords(arg string) (x, y int, ok bool) {
	m := coordsRe.FindStringSubmatch(arg)
	if m == nil {
		return 0, 0, false
	}
	x, _ = strconv.Atoi(m[1])
	y, _ = strconv.Atoi(m[2])
	return x, y, true
}

// ParseDragCoords extracts "x1, y1, x2, y2" from a drag argument.
func ParseDragCoords(arg string) (x1, y1, x2, y2 int, ok bool) {
	m := dragCoordsRe.FindStringSubmatch(arg)
	if m == nil {
		return 0, 0, 0, 0, false
	}
	x1, _ = strconv.Atoi(m[1])
	y1, _ = strconv.Atoi(m[2])
	x2, _ = strconv.Atoi(m[3])
	y2, _ = strconv.Atoi(m[4])
	return x1, y1, x2, y2, true
}

// ParseScroll extracts "x, y, direction" from a scroll argument. Direction is
// lowercased and must be "up" or "down".
func ParseScroll(arg string) (x, y int, direction string, ok bool) {
	m := scrollRe.FindStringSubmatch(arg)
	if m == nil {
		return 0, 0, "", false
	}
	direction = strings.ToLower(m[3])
	if direction != "up" && direction != "down" {
		return 0, 0, "", false
	}
	x, _ = strconv.Atoi(m[1])
	y, _ = strconv.Atoi(m[2])
	return x, y, direction, true
}

// PressClickArgument is the decoded JSON payload of a press_click action:
// hold Keys, perform ClickType at Coordinate, release Keys.
type PressClickArgument struct {
	Keys       []string `json:"keys"`
	ClickType  string   `json:"click_type"`
	Coordinate [2]int   `json:"coordinate"`
}

// ValidPressClickType reports whether ct is one of the click kinds a
// press_click action may carry.
func ValidPressClickType(ct string) bool {
	switch ct {
	case "left_click", "right_click", "double_click", "triple_click":
		return true
	}
	return false
}
