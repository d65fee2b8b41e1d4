package session

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/xkilldash9x/deskpilot/api/schemas"
	"github.com/xkilldash9x/deskpilot/internal/convert"
	"github.com/xkilldash9x/deskpilot/internal/parse"
	"github.com/xkilldash9x/deskpilot/internal/screen"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSessionTranslate(t *testing.T) {
	t.Run("tagged output end to end", func(t *testing.T) {
		s := New(convert.DefaultConfig(), nil)

		raw := "<|think_start|>clicking submit<|think_end|>\n" +
			"<|action_start|>click(500, 300) & wait(2)<|action_end|>"

		result, err := s.Translate(raw)
		require.NoError(t, err)
		assert.Equal(t, "clicking submit", result.Step.Reason)
		assert.False(t, result.Step.Stop)

		want := []schemas.ExecStep{
			{Type: schemas.ExecPyautogui, Parameters: map[string]any{"code": "pyautogui.click(x=960, y=324)"}},
			{Type: schemas.ExecSleep, Parameters: map[string]any{"seconds": float64(2)}},
		}
		if diff := cmp.Diff(want, result.Steps); diff != "" {
			t.Errorf("steps mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("tool-call output end to end", func(t *testing.T) {
		s := New(convert.DefaultConfig(), nil)

		raw := `<tool_call>{"name": "computer_use", "arguments": {"action": "terminate", "status": "success"}}</tool_call>`

		result, err := s.Translate(raw)
		require.NoError(t, err)
		assert.True(t, result.Step.Stop)
		require.Len(t, result.Commands, 1)
		assert.Equal(t, convert.MarkerDone, result.Commands[0].Text)
		assert.True(t, result.Commands[0].IsLast)
	})

	t.Run("unparseable output yields an empty result", func(t *testing.T) {
		s := New(convert.DefaultConfig(), nil)

		result, err := s.Translate("just prose, no markers")
		require.NoError(t, err)
		assert.Empty(t, result.Commands)
		assert.Empty(t, result.Steps)
	})

	t.Run("duplicate terminal propagates", func(t *testing.T) {
		s := New(convert.DefaultConfig(), nil)

		raw := "<|action_start|>finish() & fail()<|action_end|>"
		_, err := s.Translate(raw)
		require.Error(t, err)
		var dupErr *convert.DuplicateTerminalActionError
		assert.ErrorAs(t, err, &dupErr)
	})

	t.Run("explicit parser mode is honored", func(t *testing.T) {
		s := New(convert.DefaultConfig(), nil, WithParserMode(parse.ModeTagged))

		// Tool-call markers are ignored in tagged mode.
		raw := `<tool_call>{"arguments": {"action": "left_click", "coordinate": [1, 1]}}</tool_call>`
		result, err := s.Translate(raw)
		require.NoError(t, err)
		assert.Empty(t, result.Commands)
	})
}

func TestSessionState(t *testing.T) {
	t.Run("capslock state spans rounds until reset", func(t *testing.T) {
		s := New(convert.DefaultConfig(), nil)

		_, err := s.Translate("<|action_start|>hotkey(capslock)<|action_end|>")
		require.NoError(t, err)

		result, err := s.Translate("<|action_start|>type(hello)<|action_end|>")
		require.NoError(t, err)
		require.Len(t, result.Commands, 1)
		assert.Equal(t, "pyautogui.typewrite('HELLO')", result.Commands[0].Text)

		s.Reset()
		result, err = s.Translate("<|action_start|>type(hello)<|action_end|>")
		require.NoError(t, err)
		assert.Equal(t, "pyautogui.typewrite('hello')", result.Commands[0].Text)
	})

	t.Run("retargeting moves subsequent output", func(t *testing.T) {
		s := New(convert.DefaultConfig(), nil)
		s.SetTargetScreen(screen.Screen{X: 1920, Y: 0, Width: 1280, Height: 720})

		result, err := s.Translate("<|action_start|>click(500, 500)<|action_end|>")
		require.NoError(t, err)
		assert.Equal(t, "pyautogui.click(x=2560, y=360)", result.Commands[0].Text)
	})

	t.Run("sessions have distinct identifiers", func(t *testing.T) {
		a := New(convert.DefaultConfig(), nil)
		b := New(convert.DefaultConfig(), nil)
		assert.NotEmpty(t, a.ID())
		assert.NotEqual(t, a.ID(), b.ID())
	})
}

func TestCapabilityHelpers(t *testing.T) {
	s := New(convert.DefaultConfig(), nil)

	assert.True(t, ResetIfCapable(s))
	assert.False(t, ResetIfCapable(42))

	assert.True(t, RetargetIfCapable(s, screen.Screen{Width: 800, Height: 600}))
	assert.False(t, RetargetIfCapable("nope", screen.Screen{}))
}
