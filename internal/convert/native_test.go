package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/deskpilot/api/schemas"
	"github.com/xkilldash9x/deskpilot/internal/capslock"
	"github.com/xkilldash9x/deskpilot/internal/screen"
)

func texts(t *testing.T, cmds []Command) []string {
	t.Helper()
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Text
	}
	return out
}

func act(typ schemas.ActionType, arg string) schemas.Action {
	return schemas.Action{Type: typ, Argument: arg, Count: 1}
}

func TestNativeConvertPointerActions(t *testing.T) {
	t.Run("click scales into the sandbox", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		cmds, err := n.Convert([]schemas.Action{act(schemas.ActionClick, "500, 300")})
		require.NoError(t, err)
		require.Len(t, cmds, 1)
		assert.Equal(t, "pyautogui.click(x=960, y=324)", cmds[0].Text)
		assert.True(t, cmds[0].IsLast)
	})

	t.Run("double, triple and right clicks", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		cmds, err := n.Convert([]schemas.Action{
			act(schemas.ActionLeftDouble, "0, 0"),
			act(schemas.ActionLeftTriple, "1000, 1000"),
			act(schemas.ActionRightSingle, "500, 500"),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"pyautogui.doubleClick(x=0, y=0)",
			"pyautogui.tripleClick(x=1919, y=1079)",
			"pyautogui.rightClick(x=960, y=540)",
		}, texts(t, cmds))
	})

	t.Run("drag emits move then drag", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		cmds, err := n.Convert([]schemas.Action{act(schemas.ActionDrag, "100, 200, 300, 400")})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"pyautogui.moveTo(192, 216)",
			"pyautogui.dragTo(576, 432, duration=0.5)",
		}, texts(t, cmds))
	})

	t.Run("left_click_drag starts from the running cursor", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		cmds, err := n.Convert([]schemas.Action{
			act(schemas.ActionClick, "500, 300"),
			act(schemas.ActionLeftClickDrag, "600, 400"),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"pyautogui.click(x=960, y=324)",
			"pyautogui.moveTo(960, 324)",
			"pyautogui.dragTo(1152, 432, duration=0.5)",
		}, texts(t, cmds))
	})

	t.Run("left_click_drag without prior cursor starts at the center", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		cmds, err := n.Convert([]schemas.Action{act(schemas.ActionLeftClickDrag, "600, 400")})
		require.NoError(t, err)
		assert.Equal(t, "pyautogui.moveTo(960, 540)", cmds[0].Text)
	})

	t.Run("compound arguments are rejected with guidance", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		_, err := n.Convert([]schemas.Action{act(schemas.ActionClick, "500, 300 and 600, 400")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot combine multiple actions")
	})
}

func TestNativeConvertKeyboardActions(t *testing.T) {
	t.Run("hotkey with interval", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		cmds, err := n.Convert([]schemas.Action{act(schemas.ActionHotkey, "ctrl+c")})
		require.NoError(t, err)
		require.Len(t, cmds, 1)
		assert.Equal(t, "pyautogui.hotkey('ctrl', 'c', interval=0.1)", cmds[0].Text)
	})

	t.Run("invalid key names surface suggestions", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		_, err := n.Convert([]schemas.Action{act(schemas.ActionHotkey, "ctrl+ret")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "use 'enter' or 'return'")
	})

	t.Run("type quotes and escapes text", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		cmds, err := n.Convert([]schemas.Action{act(schemas.ActionTypeText, "it's here")})
		require.NoError(t, err)
		assert.Equal(t, `pyautogui.typewrite('it\'s here')`, cmds[0].Text)
	})

	t.Run("count expands with exactly one IsLast", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		cmds, err := n.Convert([]schemas.Action{
			{Type: schemas.ActionHotkey, Argument: "ctrl+c", Count: 3},
		})
		require.NoError(t, err)
		require.Len(t, cmds, 3)
		lastCount := 0
		for _, c := range cmds {
			assert.Equal(t, "pyautogui.hotkey('ctrl', 'c', interval=0.1)", c.Text)
			if c.IsLast {
				lastCount++
			}
		}
		assert.Equal(t, 1, lastCount)
		assert.True(t, cmds[2].IsLast)
	})
}

func TestNativeCapslock(t *testing.T) {
	t.Run("session mode keeps the toggle virtual", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		// The toggle itself emits nothing.
		cmds, err := n.Convert([]schemas.Action{act(schemas.ActionHotkey, "capslock")})
		require.NoError(t, err)
		assert.Empty(t, cmds)

		// Typed text is upper-cased while the virtual toggle is on.
		cmds, err = n.Convert([]schemas.Action{act(schemas.ActionTypeText, "hello")})
		require.NoError(t, err)
		assert.Equal(t, "pyautogui.typewrite('HELLO')", cmds[0].Text)

		// A terminal action resets the session state.
		_, err = n.Convert([]schemas.Action{act(schemas.ActionFinish, "")})
		require.NoError(t, err)
		cmds, err = n.Convert([]schemas.Action{act(schemas.ActionTypeText, "hello")})
		require.NoError(t, err)
		assert.Equal(t, "pyautogui.typewrite('hello')", cmds[0].Text)
	})

	t.Run("system mode forwards the key press", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CapslockMode = capslock.ModeSystem
		n := NewNative(cfg, nil)

		cmds, err := n.Convert([]schemas.Action{act(schemas.ActionHotkey, "capslock")})
		require.NoError(t, err)
		require.Len(t, cmds, 1)
		assert.Equal(t, "pyautogui.hotkey('capslock', interval=0.1)", cmds[0].Text)
	})
}

func TestNativePressClick(t *testing.T) {
	n := NewNative(DefaultConfig(), nil)

	arg := `{"keys": ["ctrl", "shift"], "click_type": "left_click", "coordinate": [500, 300]}`
	cmds, err := n.Convert([]schemas.Action{act(schemas.ActionPressClick, arg)})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"pyautogui.keyDown('ctrl')",
		"pyautogui.keyDown('shift')",
		"pyautogui.click(x=960, y=324)",
		"pyautogui.keyUp('shift')",
		"pyautogui.keyUp('ctrl')",
	}, texts(t, cmds))

	_, err = n.Convert([]schemas.Action{act(schemas.ActionPressClick, `{"click_type": "hover"}`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "click_type")
}

func TestNativeScroll(t *testing.T) {
	n := NewNative(DefaultConfig(), nil)

	cmds, err := n.Convert([]schemas.Action{act(schemas.ActionScroll, "500, 300, up")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"pyautogui.moveTo(960, 324)",
		"pyautogui.scroll(2)",
	}, texts(t, cmds))

	cmds, err = n.Convert([]schemas.Action{act(schemas.ActionScroll, "500,300,down")})
	require.NoError(t, err)
	assert.Equal(t, "pyautogui.scroll(-2)", cmds[1].Text)

	_, err = n.Convert([]schemas.Action{act(schemas.ActionScroll, "500, 300, sideways")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scroll direction")
}

func TestNativeTerminals(t *testing.T) {
	t.Run("finish and fail map to markers", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		cmds, err := n.Convert([]schemas.Action{act(schemas.ActionFinish, "")})
		require.NoError(t, err)
		assert.Equal(t, []string{MarkerDone}, texts(t, cmds))

		cmds, err = n.Convert([]schemas.Action{act(schemas.ActionFail, "")})
		require.NoError(t, err)
		assert.Equal(t, []string{MarkerFail}, texts(t, cmds))
	})

	t.Run("wait renders seconds", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		cmds, err := n.Convert([]schemas.Action{act(schemas.ActionWait, "2.5")})
		require.NoError(t, err)
		assert.Equal(t, "WAIT(2.5)", cmds[0].Text)

		cmds, err = n.Convert([]schemas.Action{act(schemas.ActionWait, "")})
		require.NoError(t, err)
		assert.Equal(t, "WAIT(1)", cmds[0].Text)
	})

	t.Run("duplicate terminal aborts before emitting anything", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		cmds, err := n.Convert([]schemas.Action{
			act(schemas.ActionFinish, ""),
			act(schemas.ActionFail, ""),
		})
		require.Error(t, err)
		assert.Nil(t, cmds)
		var dupErr *DuplicateTerminalActionError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, "fail", dupErr.ActionType)
	})

	t.Run("call_user is a logged no-op", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		cmds, err := n.Convert([]schemas.Action{act(schemas.ActionCallUser, "")})
		require.NoError(t, err)
		assert.Empty(t, cmds)
	})
}

func TestNativeFailureHandling(t *testing.T) {
	t.Run("all conversions failed", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		_, err := n.Convert([]schemas.Action{act(schemas.ActionClick, "abc, def")})
		require.Error(t, err)
		var allErr *AllConversionsFailedError
		require.ErrorAs(t, err, &allErr)
		assert.Equal(t, 1, allErr.Total)
		require.Len(t, allErr.Failures, 1)
	})

	t.Run("partial failure degrades gracefully", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		cmds, err := n.Convert([]schemas.Action{
			act(schemas.ActionClick, "abc, def"),
			act(schemas.ActionClick, "500, 300"),
		})
		require.NoError(t, err)
		require.Len(t, cmds, 1)
		assert.Equal(t, "pyautogui.click(x=960, y=324)", cmds[0].Text)
	})

	t.Run("empty batch yields nothing", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		cmds, err := n.Convert(nil)
		require.NoError(t, err)
		assert.Empty(t, cmds)
	})

	t.Run("unknown action type lists the vocabulary", func(t *testing.T) {
		n := NewNative(DefaultConfig(), nil)

		_, err := n.Convert([]schemas.Action{act(schemas.ActionType("warp"), "1, 2")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown action type "warp"`)
		assert.Contains(t, err.Error(), "press_click")
	})
}

func TestNativeStrictCoordinates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StrictCoordinates = true
	n := NewNative(cfg, nil)

	_, err := n.Convert([]schemas.Action{act(schemas.ActionClick, "1500, 300")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of valid range")

	cmds, err := n.Convert([]schemas.Action{act(schemas.ActionClick, "1000, 0")})
	require.NoError(t, err)
	assert.Equal(t, "pyautogui.click(x=1919, y=0)", cmds[0].Text)
}

func TestNativeRetargeting(t *testing.T) {
	n := NewNative(DefaultConfig(), nil)

	n.SetTargetScreen(screen.Screen{X: 1920, Y: 0, Width: 1280, Height: 720})

	cmds, err := n.Convert([]schemas.Action{act(schemas.ActionClick, "500, 500")})
	require.NoError(t, err)
	assert.Equal(t, "pyautogui.click(x=2560, y=360)", cmds[0].Text)
}
