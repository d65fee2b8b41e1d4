package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/deskpilot/api/schemas"
)

func coordPtr(x, y int) *[2]int { return &[2]int{x, y} }
func strPtr(s string) *string   { return &s }
func intPtr(n int) *int         { return &n }
func f64Ptr(f float64) *float64 { return &f }

func TestClaudeConvertPointerActions(t *testing.T) {
	t.Run("left_click scales from XGA space", func(t *testing.T) {
		c := NewClaude(DefaultConfig(), nil)

		cmds, err := c.Convert([]schemas.ClaudeAction{
			{Type: "left_click", Coordinate: coordPtr(512, 384)},
		})
		require.NoError(t, err)
		require.Len(t, cmds, 1)
		assert.Equal(t, "pyautogui.click(x=960, y=540)", cmds[0].Text)
		assert.True(t, cmds[0].IsLast)
	})

	t.Run("click without coordinate uses the running cursor", func(t *testing.T) {
		c := NewClaude(DefaultConfig(), nil)

		cmds, err := c.Convert([]schemas.ClaudeAction{
			{Type: "mouse_move", Coordinate: coordPtr(512, 384)},
			{Type: "left_click"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"pyautogui.moveTo(960, 540)",
			"pyautogui.click(x=960, y=540)",
		}, texts(t, cmds))
	})

	t.Run("click on a fresh converter falls back to the center", func(t *testing.T) {
		c := NewClaude(DefaultConfig(), nil)

		cmds, err := c.Convert([]schemas.ClaudeAction{{Type: "double_click"}})
		require.NoError(t, err)
		assert.Equal(t, "pyautogui.doubleClick(x=960, y=540)", cmds[0].Text)
	})

	t.Run("left_click_drag honors the start coordinate", func(t *testing.T) {
		c := NewClaude(DefaultConfig(), nil)

		cmds, err := c.Convert([]schemas.ClaudeAction{
			{Type: "left_click_drag", StartCoordinate: coordPtr(0, 0), Coordinate: coordPtr(512, 384)},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"pyautogui.moveTo(0, 0)",
			"pyautogui.dragTo(960, 540, duration=0.5)",
		}, texts(t, cmds))
	})

	t.Run("left_click_drag requires the end coordinate", func(t *testing.T) {
		c := NewClaude(DefaultConfig(), nil)

		_, err := c.Convert([]schemas.ClaudeAction{{Type: "left_click_drag"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "coordinate (end position) is required")
	})
}

func TestClaudeConvertKeyboardActions(t *testing.T) {
	t.Run("key splits on dash and plus", func(t *testing.T) {
		c := NewClaude(DefaultConfig(), nil)

		cmds, err := c.Convert([]schemas.ClaudeAction{{Type: "key", Text: strPtr("ctrl-s")}})
		require.NoError(t, err)
		assert.Equal(t, "pyautogui.hotkey('ctrl', 's', interval=0.1)", cmds[0].Text)
	})

	t.Run("type requires text", func(t *testing.T) {
		c := NewClaude(DefaultConfig(), nil)

		cmds, err := c.Convert([]schemas.ClaudeAction{{Type: "type", Text: strPtr("hi")}})
		require.NoError(t, err)
		assert.Equal(t, "pyautogui.typewrite('hi')", cmds[0].Text)

		_, err = c.Convert([]schemas.ClaudeAction{{Type: "type"}})
		require.Error(t, err)
	})
}

func TestClaudeConvertScroll(t *testing.T) {
	t.Run("explicit direction and amount", func(t *testing.T) {
		c := NewClaude(DefaultConfig(), nil)

		cmds, err := c.Convert([]schemas.ClaudeAction{
			{Type: "scroll", Coordinate: coordPtr(512, 384), ScrollDirection: "up", ScrollAmount: intPtr(3)},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"pyautogui.moveTo(960, 540)",
			"pyautogui.scroll(3)",
		}, texts(t, cmds))
	})

	t.Run("missing direction defaults to down", func(t *testing.T) {
		c := NewClaude(DefaultConfig(), nil)

		cmds, err := c.Convert([]schemas.ClaudeAction{
			{Type: "scroll", Coordinate: coordPtr(512, 384)},
		})
		require.NoError(t, err)
		assert.Equal(t, "pyautogui.scroll(-2)", cmds[1].Text)
	})

	t.Run("sideways scrolling is rejected", func(t *testing.T) {
		c := NewClaude(DefaultConfig(), nil)

		_, err := c.Convert([]schemas.ClaudeAction{
			{Type: "scroll", Coordinate: coordPtr(1, 1), ScrollDirection: "left"},
		})
		require.Error(t, err)
	})
}

func TestClaudeConvertWaitAndTerminate(t *testing.T) {
	c := NewClaude(DefaultConfig(), nil)

	cmds, err := c.Convert([]schemas.ClaudeAction{{Type: "wait", Duration: f64Ptr(2)}})
	require.NoError(t, err)
	assert.Equal(t, "WAIT(2)", cmds[0].Text)

	cmds, err = c.Convert([]schemas.ClaudeAction{{Type: "terminate"}})
	require.NoError(t, err)
	assert.Equal(t, []string{MarkerDone}, texts(t, cmds))

	_, err = c.Convert([]schemas.ClaudeAction{{Type: "terminate"}, {Type: "terminate"}})
	require.Error(t, err)
	var dupErr *DuplicateTerminalActionError
	assert.ErrorAs(t, err, &dupErr)
}

func TestClaudeConvertNoOps(t *testing.T) {
	c := NewClaude(DefaultConfig(), nil)

	// Observation actions and invented verbs are skipped without failing the
	// batch.
	cmds, err := c.Convert([]schemas.ClaudeAction{
		{Type: "screenshot"},
		{Type: "cursor_position"},
		{Type: "hold_key"},
	})
	require.NoError(t, err)
	assert.Empty(t, cmds)
}
