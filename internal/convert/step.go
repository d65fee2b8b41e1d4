package convert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xkilldash9x/deskpilot/api/schemas"
)

var waitRe = regexp.MustCompile(`(?i)^WAIT\(([0-9]*\.?[0-9]+)\)$`)

// pyMarkers identify command strings that are executable automation code
// rather than shell commands.
var pyMarkers = []string{"pyautogui", "pynputcontroller", "_smart_paste"}

// ToStep translates one portable command string into an executable step.
// The vocabulary is closed: DONE/FAIL terminals and WAIT(n) become sleeps,
// automation code becomes a pyautogui step, and anything else is treated as
// a shell command.
func ToStep(command string) (schemas.ExecStep, error) {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return schemas.ExecStep{}, fmt.Errorf("empty command")
	}

	upper := strings.ToUpper(trimmed)
	if upper == MarkerDone || upper == MarkerFail {
		// Terminals carry no executable payload; a zero sleep keeps the
		// executor's step loop uniform.
		return schemas.ExecStep{
			Type:       schemas.ExecSleep,
			Parameters: map[string]any{"seconds": float64(0)},
		}, nil
	}

	if m := waitRe.FindStringSubmatch(trimmed); m != nil {
		seconds, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return schemas.ExecStep{}, fmt.Errorf("invalid wait duration %q: %w", m[1], err)
		}
		return schemas.ExecStep{
			Type:       schemas.ExecSleep,
			Parameters: map[string]any{"seconds": seconds},
		}, nil
	}

	lower := strings.ToLower(trimmed)
	for _, marker := range pyMarkers {
		if strings.Contains(lower, marker) {
			return schemas.ExecStep{
				Type:       schemas.ExecPyautogui,
				Parameters: map[string]any{"code": trimmed},
			}, nil
		}
	}

	return schemas.ExecStep{
		Type:       schemas.ExecShell,
		Parameters: map[string]any{"command": trimmed, "shell": true},
	}, nil
}

// ToSteps translates a command batch, preserving order. It fails on the first
// untranslatable command so a partially executed batch is never produced.
func ToSteps(commands []Command) ([]schemas.ExecStep, error) {
	steps := make([]schemas.ExecStep, 0, len(commands))
	for i, c := range commands {
		step, err := ToStep(c.Text)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}
