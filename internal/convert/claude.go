package convert

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot/api/schemas"
	"github.com/xkilldash9x/deskpilot/internal/keys"
	"github.com/xkilldash9x/deskpilot/internal/screen"
)

// Claude addresses the screen in fixed XGA pixels.
const (
	claudeCoordWidth  = 1024
	claudeCoordHeight = 768
)

// Claude converts Claude computer-use actions into portable command strings.
// The dialect has a finish-equivalent (terminate) but no fail-equivalent, so
// the duplicate-terminal check spans terminate actions only.
type Claude struct {
	converterCore
}

// NewClaude builds a Claude-dialect converter.
func NewClaude(cfg Config, logger *zap.Logger) *Claude {
	return &Claude{converterCore: newCore(cfg, logger, claudeCoordWidth, claudeCoordHeight)}
}

// CoordWidth returns the dialect's source coordinate width.
func (c *Claude) CoordWidth() int { return claudeCoordWidth }

// CoordHeight returns the dialect's source coordinate height.
func (c *Claude) CoordHeight() int { return claudeCoordHeight }

// Reset clears the session-scoped converter state.
func (c *Claude) Reset() { c.reset() }

// SetTargetScreen retargets command scaling to another display.
func (c *Claude) SetTargetScreen(s screen.Screen) { c.setTargetScreen(s) }

// Convert translates one Claude action batch. Unknown action kinds are
// skipped with a debug log (Claude invents verbs freely); per-action failures
// degrade gracefully unless the whole batch produced nothing.
func (c *Claude) Convert(actions []schemas.ClaudeAction) ([]Command, error) {
	var (
		out         []Command
		failures    []ConversionFailure
		skipped     []string
		hasTerminal bool
	)

	for _, action := range actions {
		kind := strings.ToLower(action.Type)
		if kind == "terminate" {
			if hasTerminal {
				return nil, &DuplicateTerminalActionError{ActionType: kind}
			}
			hasTerminal = true
		}

		singles, err := c.convertSingle(action)
		if err != nil {
			repr := fmt.Sprintf("%s(%v)", action.Type, action.Coordinate)
			c.logger.Error("failed to convert claude action",
				zap.String("action", repr), zap.Error(err))
			failures = append(failures, ConversionFailure{Action: repr, Err: err})
			continue
		}
		if len(singles) == 0 {
			skipped = append(skipped, kind)
			continue
		}
		for _, s := range singles {
			out = append(out, Command{Text: s})
		}
	}

	if len(skipped) > 0 {
		c.logger.Debug("skipped no-op actions", zap.Strings("actions", skipped))
	}
	if len(out) == 0 && len(actions) > 0 && len(failures) > 0 {
		return nil, &AllConversionsFailedError{Total: len(actions), Failures: failures}
	}
	if hasTerminal {
		c.reset()
	}
	return markLast(out), nil
}

// coordsOrLast scales the action's coordinate when present, else falls back
// to the running cursor (or target center).
func (c *Claude) coordsOrLast(action schemas.ClaudeAction) (int, int, error) {
	if action.Coordinate != nil {
		x, y, err := c.scale(float64(action.Coordinate[0]), float64(action.Coordinate[1]))
		if err != nil {
			return 0, 0, err
		}
		c.markCursor(x, y)
		return x, y, nil
	}
	x, y := c.lastOrCenter()
	return x, y, nil
}

func (c *Claude) convertSingle(action schemas.ClaudeAction) ([]string, error) {
	switch strings.ToLower(action.Type) {
	case "screenshot", "cursor_position":
		// Pure observation actions produce no input commands.
		return nil, nil

	case "mouse_move":
		if action.Coordinate == nil {
			return nil, fmt.Errorf("coordinate is required for mouse_move")
		}
		x, y, err := c.scale(float64(action.Coordinate[0]), float64(action.Coordinate[1]))
		if err != nil {
			return nil, err
		}
		c.markCursor(x, y)
		return []string{cmdMoveTo(x, y)}, nil

	case "left_click":
		x, y, err := c.coordsOrLast(action)
		if err != nil {
			return nil, err
		}
		return []string{cmdClick(x, y)}, nil

	case "double_click":
		x, y, err := c.coordsOrLast(action)
		if err != nil {
			return nil, err
		}
		return []string{cmdDoubleClick(x, y)}, nil

	case "triple_click":
		x, y, err := c.coordsOrLast(action)
		if err != nil {
			return nil, err
		}
		return []string{cmdTripleClick(x, y)}, nil

	case "right_click":
		x, y, err := c.coordsOrLast(action)
		if err != nil {
			return nil, err
		}
		return []string{cmdRightClick(x, y)}, nil

	case "middle_click":
		x, y, err := c.coordsOrLast(action)
		if err != nil {
			return nil, err
		}
		return []string{cmdMiddleClick(x, y)}, nil

	case "left_click_drag":
		// The start point defaults to the running cursor when the model
		// omits an explicit start_coordinate.
		var sx, sy int
		if action.StartCoordinate != nil {
			var err error
			sx, sy, err = c.scale(float64(action.StartCoordinate[0]), float64(action.StartCoordinate[1]))
			if err != nil {
				return nil, err
			}
		} else {
			sx, sy = c.lastOrCenter()
		}

		if action.Coordinate == nil {
			return nil, fmt.Errorf("coordinate (end position) is required for left_click_drag")
		}
		ex, ey, err := c.scale(float64(action.Coordinate[0]), float64(action.Coordinate[1]))
		if err != nil {
			return nil, err
		}
		c.markCursor(ex, ey)
		return []string{cmdMoveTo(sx, sy), cmdDragTo(ex, ey, c.cfg.DragDuration)}, nil

	case "type":
		if action.Text == nil {
			return nil, fmt.Errorf("text is required for type action")
		}
		return []string{cmdTypewrite(*action.Text)}, nil

	case "key":
		if action.Text == nil {
			return nil, fmt.Errorf("text is required for key action")
		}
		keyNames := parseClaudeHotkey(*action.Text)
		if len(keyNames) == 0 {
			return nil, fmt.Errorf("invalid key combination %q", *action.Text)
		}
		return []string{cmdHotkey(keyNames, c.cfg.HotkeyInterval)}, nil

	case "scroll":
		if action.Coordinate == nil {
			return nil, fmt.Errorf("coordinate is required for scroll action")
		}
		x, y, err := c.scale(float64(action.Coordinate[0]), float64(action.Coordinate[1]))
		if err != nil {
			return nil, err
		}

		amount := c.cfg.ScrollAmount
		if action.ScrollAmount != nil {
			amount = *action.ScrollAmount
		}
		direction := strings.ToLower(strings.TrimSpace(action.ScrollDirection))
		if direction == "" {
			direction = "down"
		}
		switch direction {
		case "up":
		case "down":
			amount = -amount
		default:
			return nil, fmt.Errorf("invalid scroll direction %q", action.ScrollDirection)
		}

		c.markCursor(x, y)
		return []string{cmdMoveTo(x, y), cmdScroll(amount)}, nil

	case "wait":
		seconds := c.cfg.WaitDuration
		if action.Duration != nil {
			seconds = *action.Duration
		}
		return []string{cmdWait(seconds)}, nil

	case "terminate":
		c.logger.Info("claude terminate action -> DONE")
		return []string{MarkerDone}, nil
	}

	c.logger.Debug("unknown claude action type", zap.String("type", action.Type))
	return nil, nil
}

// parseClaudeHotkey splits a Claude key combination, which uses "-" or "+" as
// separators, into normalized key names.
func parseClaudeHotkey(text string) []string {
	text = strings.ReplaceAll(text, "-", "+")
	var out []string
	for _, tok := range strings.Split(text, "+") {
		if k := keys.Normalize(tok); k != "" {
			out = append(out, k)
		}
	}
	return out
}
