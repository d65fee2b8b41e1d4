package convert

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot/api/schemas"
	"github.com/xkilldash9x/deskpilot/internal/keys"
	"github.com/xkilldash9x/deskpilot/internal/screen"
)

// nativeCoordSize is the native dialect's normalized coordinate space:
// both axes span 0-1000.
const nativeCoordSize = 1000

// nativeSupported is the vocabulary echoed in unknown-action errors to steer
// the model back on track.
var nativeSupported = []string{
	"click", "left_double", "left_triple", "right_single", "drag",
	"mouse_move", "left_click_drag", "press_click", "hotkey", "type",
	"scroll", "wait", "finish", "fail", "call_user",
}

// Native converts normalized Actions (the native model dialect, 0-1000
// coordinate space) into portable command strings. One instance is long-lived
// per automation session and owns the session's cursor and caps-lock state;
// callers must serialize batches against it.
type Native struct {
	converterCore
}

// NewNative builds a native-dialect converter. A nil logger falls back to a
// no-op logger.
func NewNative(cfg Config, logger *zap.Logger) *Native {
	return &Native{converterCore: newCore(cfg, logger, nativeCoordSize, nativeCoordSize)}
}

// CoordWidth returns the dialect's source coordinate width.
func (n *Native) CoordWidth() int { return nativeCoordSize }

// CoordHeight returns the dialect's source coordinate height.
func (n *Native) CoordHeight() int { return nativeCoordSize }

// Reset clears the session-scoped converter state (cursor, caps-lock).
func (n *Native) Reset() { n.reset() }

// SetTargetScreen retargets command scaling to another display.
func (n *Native) SetTargetScreen(s screen.Screen) { n.setTargetScreen(s) }

// Convert translates one action batch. Per-action failures are collected and
// logged, not fatal to siblings; a second terminal action aborts the whole
// batch before any command is returned. Count is honored by re-emitting the
// per-action command list, and exactly one returned command carries IsLast.
func (n *Native) Convert(actions []schemas.Action) ([]Command, error) {
	var (
		out         []Command
		failures    []ConversionFailure
		skipped     []string
		hasTerminal bool
	)

	for _, action := range actions {
		if action.Type.IsTerminal() {
			if hasTerminal {
				return nil, &DuplicateTerminalActionError{ActionType: string(action.Type)}
			}
			hasTerminal = true
		}

		singles, err := n.convertSingle(action)
		if err != nil {
			repr := fmt.Sprintf("%s(%s)", action.Type, action.Argument)
			n.logger.Error("failed to convert action",
				zap.String("action", repr), zap.Error(err))
			failures = append(failures, ConversionFailure{Action: repr, Err: err})
			continue
		}
		if len(singles) == 0 {
			skipped = append(skipped, string(action.Type))
			continue
		}
		out = append(out, repeatCommands(singles, action.Count)...)
	}

	if len(skipped) > 0 {
		n.logger.Debug("skipped no-op actions", zap.Strings("actions", skipped))
	}
	if len(out) == 0 && len(actions) > 0 && len(failures) > 0 {
		return nil, &AllConversionsFailedError{Total: len(actions), Failures: failures}
	}
	if hasTerminal {
		n.reset()
	}
	return markLast(out), nil
}

// convertSingle maps one action onto its command list. An empty list with a
// nil error is a deliberate no-op (call_user, session-mode caps-lock toggle).
func (n *Native) convertSingle(action schemas.Action) ([]string, error) {
	argument := strings.Trim(action.Argument, "()")

	switch action.Type {
	case schemas.ActionClick:
		x, y, err := n.parseClickCoords(argument)
		if err != nil {
			return nil, err
		}
		n.markCursor(x, y)
		return []string{cmdClick(x, y)}, nil

	case schemas.ActionLeftDouble:
		x, y, err := n.parseClickCoords(argument)
		if err != nil {
			return nil, err
		}
		n.markCursor(x, y)
		return []string{cmdDoubleClick(x, y)}, nil

	case schemas.ActionLeftTriple:
		x, y, err := n.parseClickCoords(argument)
		if err != nil {
			return nil, err
		}
		n.markCursor(x, y)
		return []string{cmdTripleClick(x, y)}, nil

	case schemas.ActionRightSingle:
		x, y, err := n.parseClickCoords(argument)
		if err != nil {
			return nil, err
		}
		n.markCursor(x, y)
		return []string{cmdRightClick(x, y)}, nil

	case schemas.ActionMouseMove:
		x, y, err := n.parseClickCoords(argument)
		if err != nil {
			return nil, err
		}
		n.markCursor(x, y)
		return []string{cmdMoveTo(x, y)}, nil

	case schemas.ActionDrag:
		sx, sy, ex, ey, err := n.parseDragCoords(argument)
		if err != nil {
			return nil, err
		}
		n.markCursor(ex, ey)
		return []string{cmdMoveTo(sx, sy), cmdDragTo(ex, ey, n.cfg.DragDuration)}, nil

	case schemas.ActionLeftClickDrag:
		// End position comes from the argument; the start is the running
		// cursor (or target center before any coordinate-bearing action).
		ex, ey, err := n.parseClickCoords(argument)
		if err != nil {
			return nil, err
		}
		sx, sy := n.lastOrCenter()
		n.markCursor(ex, ey)
		return []string{cmdMoveTo(sx, sy), cmdDragTo(ex, ey, n.cfg.DragDuration)}, nil

	case schemas.ActionPressClick:
		return n.convertPressClick(action.Argument)

	case schemas.ActionHotkey:
		return n.convertHotkey(argument)

	case schemas.ActionTypeText:
		text := strings.Trim(argument, "\"'")
		text = n.caps.TransformText(text)
		return []string{cmdTypewrite(text)}, nil

	case schemas.ActionScroll:
		return n.convertScroll(argument)

	case schemas.ActionWait:
		seconds := n.cfg.WaitDuration
		if argument != "" {
			var err error
			seconds, err = strconv.ParseFloat(argument, 64)
			if err != nil {
				return nil, fmt.Errorf(
					"invalid wait duration %q: expected numeric value in seconds, e.g. 'wait(2.0)'", argument)
			}
		}
		return []string{cmdWait(seconds)}, nil

	case schemas.ActionFinish:
		n.logger.Info("task completion action -> DONE")
		return []string{MarkerDone}, nil

	case schemas.ActionFail:
		n.logger.Info("task infeasible action -> FAIL")
		return []string{MarkerFail}, nil

	case schemas.ActionCallUser:
		n.logger.Info("user intervention requested")
		return nil, nil

	default:
		return nil, &UnknownActionError{ActionType: string(action.Type), Supported: nativeSupported}
	}
}

// parseClickCoords parses an "x, y" argument and scales it into the sandbox.
// The error messages are deliberately specific: they are echoed back to the
// model verbatim on the next round.
func (n *Native) parseClickCoords(argument string) (int, int, error) {
	if err := rejectCompoundArgument("click", argument); err != nil {
		return 0, 0, err
	}

	parts := splitArgument(argument)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf(
			"invalid click coordinate format %q: expected 'x, y' (comma-separated numeric values)", argument)
	}

	x, errX := strconv.ParseFloat(parts[0], 64)
	y, errY := strconv.ParseFloat(parts[1], 64)
	if errX != nil || errY != nil {
		return 0, 0, fmt.Errorf(
			"failed to parse click coords %q: coordinates must be comma-separated numeric values, e.g. 'click(500, 300)'", argument)
	}
	return n.scale(x, y)
}

// parseDragCoords parses an "x1, y1, x2, y2" argument and scales both points.
func (n *Native) parseDragCoords(argument string) (int, int, int, int, error) {
	if err := rejectCompoundArgument("drag", argument); err != nil {
		return 0, 0, 0, 0, err
	}

	parts := splitArgument(argument)
	if len(parts) != 4 {
		return 0, 0, 0, 0, fmt.Errorf(
			"invalid drag coordinate format %q: expected 'x1, y1, x2, y2' (4 comma-separated numeric values)", argument)
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf(
				"failed to parse drag coords %q: coordinates must be comma-separated numeric values, e.g. 'drag(100, 200, 300, 400)'", argument)
		}
		vals[i] = v
	}

	sx, sy, err := n.scale(vals[0], vals[1])
	if err != nil {
		return 0, 0, 0, 0, err
	}
	ex, ey, err := n.scale(vals[2], vals[3])
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return sx, sy, ex, ey, nil
}

// convertScroll parses "x, y, direction" and emits a move plus a signed
// scroll.
func (n *Native) convertScroll(argument string) ([]string, error) {
	parts := splitArgument(argument)
	if len(parts) != 3 {
		return nil, fmt.Errorf(
			"invalid scroll format %q: expected 'x, y, direction' (3 comma-separated values), got %d parts",
			argument, len(parts))
	}

	x, errX := strconv.ParseFloat(parts[0], 64)
	y, errY := strconv.ParseFloat(parts[1], 64)
	if errX != nil || errY != nil {
		return nil, fmt.Errorf(
			"invalid scroll coordinates %q: x and y must be numeric values, e.g. 'scroll(500, 300, up)'", argument)
	}

	sx, sy, err := n.scale(x, y)
	if err != nil {
		return nil, err
	}

	amount := n.cfg.ScrollAmount
	switch strings.ToLower(parts[2]) {
	case "up":
	case "down":
		amount = -amount
	default:
		return nil, fmt.Errorf(
			"invalid scroll direction %q in %q: expected 'up' or 'down'", parts[2], argument)
	}

	n.markCursor(sx, sy)
	return []string{cmdMoveTo(sx, sy), cmdScroll(amount)}, nil
}

// convertHotkey parses and validates a hotkey combination, routing a bare
// caps-lock press through the session state machine.
func (n *Native) convertHotkey(argument string) ([]string, error) {
	keyNames, err := keys.ParseHotkey(argument, true)
	if err != nil {
		return nil, err
	}
	if len(keyNames) == 0 {
		return nil, fmt.Errorf(
			"invalid hotkey format %q: expected key names like 'ctrl+c', 'alt+tab'", argument)
	}

	if len(keyNames) == 1 && keyNames[0] == "capslock" {
		if n.caps.ShouldDelegateToSystem() {
			return []string{cmdHotkey([]string{"capslock"}, n.cfg.HotkeyInterval)}, nil
		}
		// Session mode: flip the virtual state; no command reaches the OS.
		n.caps.Toggle()
		return nil, nil
	}
	return []string{cmdHotkey(keyNames, n.cfg.HotkeyInterval)}, nil
}

// convertPressClick decodes the press_click JSON argument and emits the
// hold-click-release sequence.
func (n *Native) convertPressClick(argument string) ([]string, error) {
	var payload schemas.PressClickArgument
	if err := json.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(argument, &payload); err != nil {
		return nil, fmt.Errorf("invalid press_click argument %q: expected JSON with keys, click_type and coordinate", argument)
	}
	if !schemas.ValidPressClickType(payload.ClickType) {
		return nil, fmt.Errorf(
			"invalid press_click click_type %q: expected left_click, right_click, double_click or triple_click",
			payload.ClickType)
	}

	normalized := make([]string, 0, len(payload.Keys))
	for _, k := range payload.Keys {
		if nk := keys.Normalize(k); nk != "" {
			normalized = append(normalized, nk)
		}
	}
	if err := keys.Validate(normalized); err != nil {
		return nil, err
	}

	x, y, err := n.scale(float64(payload.Coordinate[0]), float64(payload.Coordinate[1]))
	if err != nil {
		return nil, err
	}

	click, _ := clickCommandFor(payload.ClickType, x, y)
	out := make([]string, 0, len(normalized)*2+1)
	for _, k := range normalized {
		out = append(out, cmdKeyDown(k))
	}
	out = append(out, click)
	for i := len(normalized) - 1; i >= 0; i-- {
		out = append(out, cmdKeyUp(normalized[i]))
	}
	n.markCursor(x, y)
	return out, nil
}

// rejectCompoundArgument catches the common failure mode of a model gluing
// several actions into one argument with "and"/"then".
func rejectCompoundArgument(kind, argument string) error {
	lower := strings.ToLower(argument)
	if strings.Contains(lower, " and ") || strings.Contains(lower, " then ") {
		return fmt.Errorf(
			"invalid %s format %q: cannot combine multiple actions with 'and' or 'then'; each action must be separate in the action list",
			kind, argument)
	}
	return nil
}

// splitArgument splits a comma-separated argument into trimmed fields,
// treating an empty argument as zero fields.
func splitArgument(argument string) []string {
	if strings.TrimSpace(argument) == "" {
		return nil
	}
	parts := strings.Split(argument, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
