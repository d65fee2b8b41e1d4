package convert

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot/api/schemas"
	"github.com/xkilldash9x/deskpilot/internal/keys"
	"github.com/xkilldash9x/deskpilot/internal/screen"
)

// Qwen3 uses an inclusive 0-999 coordinate space.
const qwen3CoordSize = 999

// Qwen3 converts Qwen3 computer-use actions into portable command strings.
// Unlike the other dialects its running cursor starts valid, at the sandbox
// center, so coordinate-less pointer actions always have a position to act on.
type Qwen3 struct {
	converterCore
}

// NewQwen3 builds a Qwen3-dialect converter.
func NewQwen3(cfg Config, logger *zap.Logger) *Qwen3 {
	q := &Qwen3{converterCore: newCore(cfg, logger, qwen3CoordSize, qwen3CoordSize)}
	q.centerCursor()
	return q
}

func (q *Qwen3) centerCursor() {
	q.markCursor(q.centerPoint())
}

// CoordWidth returns the dialect's source coordinate width.
func (q *Qwen3) CoordWidth() int { return qwen3CoordSize }

// CoordHeight returns the dialect's source coordinate height.
func (q *Qwen3) CoordHeight() int { return qwen3CoordSize }

// Reset clears the session-scoped converter state and re-centers the cursor.
func (q *Qwen3) Reset() {
	q.reset()
	q.centerCursor()
}

// SetTargetScreen retargets command scaling to another display. The cursor is
// re-centered on the new surface.
func (q *Qwen3) SetTargetScreen(s screen.Screen) {
	q.setTargetScreen(s)
	q.centerCursor()
}

// Convert translates one Qwen3 action batch. terminate is the dialect's only
// terminal verb and is covered by the duplicate-terminal check.
func (q *Qwen3) Convert(actions []schemas.Qwen3Action) ([]Command, error) {
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

		singles, err := q.convertSingle(action)
		if err != nil {
			repr := fmt.Sprintf("%s(%v)", action.Type, action.Coordinate)
			q.logger.Error("failed to convert qwen3 action",
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
		q.logger.Debug("skipped no-op actions", zap.Strings("actions", skipped))
	}
	if len(out) == 0 && len(actions) > 0 && len(failures) > 0 {
		return nil, &AllConversionsFailedError{Total: len(actions), Failures: failures}
	}
	if hasTerminal {
		q.Reset()
	}
	return markLast(out), nil
}

// coordsOrCursor scales the action's coordinate when present, else returns the
// running cursor, which is always valid for this dialect.
func (q *Qwen3) coordsOrCursor(action schemas.Qwen3Action) (int, int, error) {
	if len(action.Coordinate) >= 2 {
		x, y, err := q.scale(float64(action.Coordinate[0]), float64(action.Coordinate[1]))
		if err != nil {
			return 0, 0, err
		}
		q.markCursor(x, y)
		return x, y, nil
	}
	x, y := q.lastOrCenter()
	return x, y, nil
}

func (q *Qwen3) convertSingle(action schemas.Qwen3Action) ([]string, error) {
	switch strings.ToLower(action.Type) {
	case "screenshot", "cursor_position":
		return nil, nil

	case "mouse_move":
		if len(action.Coordinate) < 2 {
			return nil, fmt.Errorf("coordinate is required for mouse_move")
		}
		x, y, err := q.scale(float64(action.Coordinate[0]), float64(action.Coordinate[1]))
		if err != nil {
			return nil, err
		}
		q.markCursor(x, y)
		return []string{cmdMoveTo(x, y)}, nil

	case "left_click", "click":
		x, y, err := q.coordsOrCursor(action)
		if err != nil {
			return nil, err
		}
		return []string{cmdClick(x, y)}, nil

	case "double_click":
		x, y, err := q.coordsOrCursor(action)
		if err != nil {
			return nil, err
		}
		return []string{cmdDoubleClick(x, y)}, nil

	case "triple_click":
		x, y, err := q.coordsOrCursor(action)
		if err != nil {
			return nil, err
		}
		return []string{cmdTripleClick(x, y)}, nil

	case "right_click":
		x, y, err := q.coordsOrCursor(action)
		if err != nil {
			return nil, err
		}
		return []string{cmdRightClick(x, y)}, nil

	case "middle_click":
		x, y, err := q.coordsOrCursor(action)
		if err != nil {
			return nil, err
		}
		return []string{cmdMiddleClick(x, y)}, nil

	case "left_click_drag":
		// Drag starts from the running cursor; the payload carries the end.
		sx, sy := q.lastOrCenter()
		if len(action.Coordinate) < 2 {
			return nil, fmt.Errorf("coordinate (end position) is required for left_click_drag")
		}
		ex, ey, err := q.scale(float64(action.Coordinate[0]), float64(action.Coordinate[1]))
		if err != nil {
			return nil, err
		}
		q.markCursor(ex, ey)
		return []string{cmdMoveTo(sx, sy), cmdDragTo(ex, ey, q.cfg.DragDuration)}, nil

	case "type":
		if action.Text == nil {
			return nil, fmt.Errorf("text is required for type action")
		}
		return []string{cmdTypewrite(*action.Text)}, nil

	case "key":
		if len(action.Keys) == 0 {
			return nil, fmt.Errorf("keys is required for key action")
		}
		keyNames := make([]string, 0, len(action.Keys))
		for _, k := range action.Keys {
			if n := keys.Normalize(k); n != "" {
				keyNames = append(keyNames, n)
			}
		}
		if len(keyNames) == 0 {
			return nil, fmt.Errorf("invalid key combination %v", action.Keys)
		}
		return []string{cmdHotkey(keyNames, q.cfg.HotkeyInterval)}, nil

	case "scroll", "hscroll":
		x, y, err := q.coordsOrCursor(action)
		if err != nil {
			return nil, err
		}
		// Positive pixels scroll up (content moves down), negative down.
		amount := q.cfg.ScrollAmount
		if action.Pixels != nil && *action.Pixels < 0 {
			amount = -amount
		}
		return []string{cmdMoveTo(x, y), cmdScroll(amount)}, nil

	case "wait":
		seconds := q.cfg.WaitDuration
		if action.Time != nil {
			seconds = *action.Time
		}
		return []string{cmdWait(seconds)}, nil

	case "terminate":
		q.logger.Info("qwen3 terminate action -> DONE", zap.String("status", action.Status))
		return []string{MarkerDone}, nil

	case "answer":
		// The answer text travels in the model's reasoning channel, not as an
		// input command.
		q.logger.Info("qwen3 answer action", zap.Stringp("text", action.Text))
		return nil, nil
	}

	q.logger.Debug("unknown qwen3 action type", zap.String("type", action.Type))
	return nil, nil
}
