package convert

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot/internal/capslock"
	"github.com/xkilldash9x/deskpilot/internal/screen"
)

// Command is one portable command string paired with the batch-position flag
// downstream executors key off. IsLast is true only on the final command of
// the final repeat of the final action in a batch; the executor uses it to
// know when to wait for the UI to settle and take a fresh screenshot.
type Command struct {
	Text   string
	IsLast bool
}

// Literal markers in the command vocabulary.
const (
	MarkerDone = "DONE"
	MarkerFail = "FAIL"
)

// Cursor is the converter's explicit last-known-pointer state, in target
// coordinates. Valid is false until the first coordinate-bearing action.
type Cursor struct {
	X, Y  int
	Valid bool
}

// converterCore carries the state and helpers every dialect converter shares:
// the coordinate scaler, the caps-lock machine and the running cursor. It is
// long-lived per automation session and must not be shared across goroutines.
type converterCore struct {
	cfg    Config
	logger *zap.Logger
	scaler *screen.Scaler
	caps   *capslock.Manager
	cursor Cursor
}

func newCore(cfg Config, logger *zap.Logger, coordWidth, coordHeight int) converterCore {
	cfg = cfg.normalized()
	if logger == nil {
		logger = zap.NewNop()
	}
	return converterCore{
		cfg:    cfg,
		logger: logger,
		scaler: screen.NewScaler(coordWidth, coordHeight, cfg.SandboxWidth, cfg.SandboxHeight),
		caps:   capslock.NewManager(cfg.CapslockMode),
	}
}

// scale remaps a dialect-space coordinate into the sandbox, honoring the
// configured strict policy.
func (c *converterCore) scale(x, y float64) (int, int, error) {
	return c.scaler.Scale(x, y, screen.Options{Clamp: true, Strict: c.cfg.StrictCoordinates})
}

// markCursor records the last known pointer position in target coordinates.
func (c *converterCore) markCursor(x, y int) {
	c.cursor = Cursor{X: x, Y: y, Valid: true}
}

// lastOrCenter returns the running cursor, falling back to the target center.
// The center includes the origin offset so it lands on the right display.
func (c *converterCore) lastOrCenter() (int, int) {
	if c.cursor.Valid {
		return c.cursor.X, c.cursor.Y
	}
	return c.centerPoint()
}

// centerPoint is the target display's center in physical coordinates.
func (c *converterCore) centerPoint() (int, int) {
	return c.scaler.OriginX() + c.scaler.TargetWidth()/2,
		c.scaler.OriginY() + c.scaler.TargetHeight()/2
}

// reset clears the session-scoped mutable state: caps-lock and cursor.
func (c *converterCore) reset() {
	c.caps.Reset()
	c.cursor = Cursor{}
}

// setTargetScreen retargets the scaler to another display without rebuilding
// the converter. The cursor is invalidated: its coordinates belonged to the
// previous surface.
func (c *converterCore) setTargetScreen(s screen.Screen) {
	c.scaler.SetTargetSize(s.Width, s.Height)
	c.scaler.SetOrigin(s.X, s.Y)
	c.cursor = Cursor{}
	c.logger.Debug("converter retargeted", zap.Stringer("screen", s))
}

// markLast flags the final command of a fully expanded batch.
func markLast(cmds []Command) []Command {
	if len(cmds) > 0 {
		cmds[len(cmds)-1].IsLast = true
	}
	return cmds
}

// repeatCommands expands one action's command list count times.
func repeatCommands(singles []string, count int) []Command {
	if count < 1 {
		count = 1
	}
	out := make([]Command, 0, len(singles)*count)
	for i := 0; i < count; i++ {
		for _, s := range singles {
			out = append(out, Command{Text: s})
		}
	}
	return out
}

// -- Command String Builders --
//
// The wire vocabulary is a small closed set of pyautogui call strings plus
// the WAIT/DONE/FAIL literals. Keep every format in one place so the step
// translator and the tests agree on the exact shapes.

// pyFloat renders a float the way the executor's Python parser expects.
func pyFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// pyQuote renders a single-quoted Python string literal.
func pyQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

func cmdClick(x, y int) string       { return fmt.Sprintf("pyautogui.click(x=%d, y=%d)", x, y) }
func cmdDoubleClick(x, y int) string { return fmt.Sprintf("pyautogui.doubleClick(x=%d, y=%d)", x, y) }
func cmdTripleClick(x, y int) string { return fmt.Sprintf("pyautogui.tripleClick(x=%d, y=%d)", x, y) }
func cmdRightClick(x, y int) string  { return fmt.Sprintf("pyautogui.rightClick(x=%d, y=%d)", x, y) }
func cmdMiddleClick(x, y int) string {
	return fmt.Sprintf("pyautogui.click(x=%d, y=%d, button='middle')", x, y)
}
func cmdMoveTo(x, y int) string { return fmt.Sprintf("pyautogui.moveTo(%d, %d)", x, y) }
func cmdDragTo(x, y int, duration float64) string {
	return fmt.Sprintf("pyautogui.dragTo(%d, %d, duration=%s)", x, y, pyFloat(duration))
}
func cmdScroll(amount int) string { return fmt.Sprintf("pyautogui.scroll(%d)", amount) }
func cmdPress(key string) string  { return fmt.Sprintf("pyautogui.press(%s)", pyQuote(key)) }
func cmdKeyDown(key string) string {
	return fmt.Sprintf("pyautogui.keyDown(%s)", pyQuote(key))
}
func cmdKeyUp(key string) string { return fmt.Sprintf("pyautogui.keyUp(%s)", pyQuote(key)) }
func cmdTypewrite(text string) string {
	return fmt.Sprintf("pyautogui.typewrite(%s)", pyQuote(text))
}
func cmdHotkey(keyNames []string, interval float64) string {
	quoted := make([]string, len(keyNames))
	for i, k := range keyNames {
		quoted[i] = pyQuote(k)
	}
	return fmt.Sprintf("pyautogui.hotkey(%s, interval=%s)",
		strings.Join(quoted, ", "), pyFloat(interval))
}
func cmdWait(seconds float64) string { return fmt.Sprintf("WAIT(%s)", pyFloat(seconds)) }

// clickCommandFor maps a press_click click kind onto its builder.
func clickCommandFor(clickType string, x, y int) (string, bool) {
	switch clickType {
	case "left_click":
		return cmdClick(x, y), true
	case "right_click":
		return cmdRightClick(x, y), true
	case "double_click":
		return cmdDoubleClick(x, y), true
	case "triple_click":
		return cmdTripleClick(x, y), true
	}
	return "", false
}
