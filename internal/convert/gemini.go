package convert

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot/api/schemas"
	"github.com/xkilldash9x/deskpilot/internal/keys"
	"github.com/xkilldash9x/deskpilot/internal/screen"
)

// Gemini uses a 0-1000 normalized coordinate space.
const geminiCoordSize = 1000

// Gemini converts Gemini computer-use actions into portable command strings.
// Beyond plain pointer actions the dialect carries high-level browser verbs
// (navigate, search, go_back) that expand into multi-command sequences of
// keyboard shortcut, typed text and key press.
type Gemini struct {
	converterCore
}

// NewGemini builds a Gemini-dialect converter.
func NewGemini(cfg Config, logger *zap.Logger) *Gemini {
	return &Gemini{converterCore: newCore(cfg, logger, geminiCoordSize, geminiCoordSize)}
}

// CoordWidth returns the dialect's source coordinate width.
func (g *Gemini) CoordWidth() int { return geminiCoordSize }

// CoordHeight returns the dialect's source coordinate height.
func (g *Gemini) CoordHeight() int { return geminiCoordSize }

// Reset clears the session-scoped converter state.
func (g *Gemini) Reset() { g.reset() }

// SetTargetScreen retargets command scaling to another display.
func (g *Gemini) SetTargetScreen(s screen.Screen) { g.setTargetScreen(s) }

// Convert translates one Gemini action batch. The dialect has no terminal
// verbs, so the duplicate-terminal invariant never triggers here; everything
// else follows the common contract.
func (g *Gemini) Convert(actions []schemas.GeminiAction) ([]Command, error) {
	var (
		out      []Command
		failures []ConversionFailure
		skipped  []string
	)

	for _, action := range actions {
		singles, err := g.convertSingle(action)
		if err != nil {
			repr := fmt.Sprintf("%s(x=%v, y=%v)", action.Type, intOrNil(action.X), intOrNil(action.Y))
			g.logger.Error("failed to convert gemini action",
				zap.String("action", repr), zap.Error(err))
			failures = append(failures, ConversionFailure{Action: repr, Err: err})
			continue
		}
		if len(singles) == 0 {
			skipped = append(skipped, strings.ToLower(action.Type))
			continue
		}
		for _, s := range singles {
			out = append(out, Command{Text: s})
		}
	}

	if len(skipped) > 0 {
		g.logger.Debug("skipped no-op actions", zap.Strings("actions", skipped))
	}
	if len(out) == 0 && len(actions) > 0 && len(failures) > 0 {
		return nil, &AllConversionsFailedError{Total: len(actions), Failures: failures}
	}
	return markLast(out), nil
}

func intOrNil(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

// scaleXY requires both coordinates and scales them, updating the cursor.
func (g *Gemini) scaleXY(action schemas.GeminiAction) (int, int, error) {
	if action.X == nil || action.Y == nil {
		return 0, 0, fmt.Errorf("x and y are required for %s", strings.ToLower(action.Type))
	}
	x, y, err := g.scale(float64(*action.X), float64(*action.Y))
	if err != nil {
		return 0, 0, err
	}
	g.markCursor(x, y)
	return x, y, nil
}

func (g *Gemini) convertSingle(action schemas.GeminiAction) ([]string, error) {
	interval := g.cfg.HotkeyInterval

	switch strings.ToLower(action.Type) {
	case "open_web_browser":
		// The browser is already the target surface.
		return nil, nil

	case "click_at":
		x, y, err := g.scaleXY(action)
		if err != nil {
			return nil, err
		}
		return []string{cmdClick(x, y)}, nil

	case "hover_at":
		x, y, err := g.scaleXY(action)
		if err != nil {
			return nil, err
		}
		return []string{cmdMoveTo(x, y)}, nil

	case "type_text_at":
		x, y, err := g.scaleXY(action)
		if err != nil {
			return nil, err
		}
		if action.Text == nil {
			return nil, fmt.Errorf("text is required for type_text_at")
		}

		commands := []string{cmdClick(x, y)}
		if action.ClearBeforeTyping {
			commands = append(commands,
				cmdHotkey([]string{"ctrl", "a"}, interval),
				cmdPress("delete"))
		}
		commands = append(commands, cmdTypewrite(*action.Text))
		if action.PressEnter {
			commands = append(commands, cmdPress("enter"))
		}
		return commands, nil

	case "scroll_document":
		// Whole-document scrolling maps onto paging keys.
		switch strings.ToLower(strings.TrimSpace(action.Direction)) {
		case "down", "":
			return []string{cmdPress("pagedown")}, nil
		case "up":
			return []string{cmdPress("pageup")}, nil
		case "left":
			return []string{cmdPress("left")}, nil
		case "right":
			return []string{cmdPress("right")}, nil
		default:
			return nil, fmt.Errorf("invalid scroll direction %q", action.Direction)
		}

	case "scroll_at":
		x, y, err := g.scaleXY(action)
		if err != nil {
			return nil, err
		}

		amount := g.cfg.ScrollAmount
		if action.Magnitude != nil {
			// Magnitude arrives in model-space pixels; 100 px per notch.
			amount = *action.Magnitude / 100
			if amount < 1 {
				amount = 1
			}
		}

		direction := strings.ToLower(strings.TrimSpace(action.Direction))
		switch direction {
		case "up":
		case "down":
			amount = -amount
		default:
			g.logger.Debug("unsupported scroll direction, defaulting to down",
				zap.String("direction", direction))
			amount = -amount
		}
		return []string{cmdMoveTo(x, y), cmdScroll(amount)}, nil

	case "wait_5_seconds":
		return []string{cmdWait(5)}, nil

	case "go_back":
		return []string{cmdHotkey([]string{"alt", "left"}, interval)}, nil

	case "go_forward":
		return []string{cmdHotkey([]string{"alt", "right"}, interval)}, nil

	case "search":
		// Focus the address bar and load the search engine.
		return []string{
			cmdHotkey([]string{"ctrl", "l"}, interval),
			cmdTypewrite("https://www.google.com"),
			cmdPress("enter"),
		}, nil

	case "navigate":
		if action.URL == "" {
			return nil, fmt.Errorf("url is required for navigate action")
		}
		url := action.URL
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			url = "https://" + url
		}
		return []string{
			cmdHotkey([]string{"ctrl", "l"}, interval),
			cmdHotkey([]string{"ctrl", "a"}, interval),
			cmdTypewrite(url),
			cmdPress("enter"),
		}, nil

	case "key_combination":
		if action.Keys == "" {
			return nil, fmt.Errorf("keys is required for key_combination action")
		}
		keyNames := parseGeminiHotkey(action.Keys)
		if len(keyNames) == 0 {
			return nil, fmt.Errorf("invalid key combination %q", action.Keys)
		}
		return []string{cmdHotkey(keyNames, interval)}, nil

	case "drag_and_drop":
		if action.X == nil || action.Y == nil {
			return nil, fmt.Errorf("x and y (start position) are required for drag_and_drop")
		}
		if action.DestinationX == nil || action.DestinationY == nil {
			return nil, fmt.Errorf("destination_x and destination_y are required for drag_and_drop")
		}

		sx, sy, err := g.scale(float64(*action.X), float64(*action.Y))
		if err != nil {
			return nil, err
		}
		ex, ey, err := g.scale(float64(*action.DestinationX), float64(*action.DestinationY))
		if err != nil {
			return nil, err
		}
		g.markCursor(ex, ey)
		return []string{cmdMoveTo(sx, sy), cmdDragTo(ex, ey, g.cfg.DragDuration)}, nil
	}

	g.logger.Debug("unknown gemini action type", zap.String("type", action.Type))
	return nil, nil
}

// parseGeminiHotkey splits a Gemini key combination ("ctrl+c", "ctrl-c") into
// normalized key names.
func parseGeminiHotkey(keysStr string) []string {
	keysStr = strings.ReplaceAll(keysStr, "-", "+")
	var out []string
	for _, tok := range strings.Split(keysStr, "+") {
		if k := keys.Normalize(tok); k != "" {
			out = append(out, k)
		}
	}
	return out
}
