// Package parse turns raw model output into a normalized Step. Two grammars
// are supported: the tagged block grammar (paired think/action tags with
// &-joined calls) and the tool-call grammar (JSON payloads inside
// <tool_call> tags). Malformed fragments are skipped, never fatal to the
// whole Step.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xkilldash9x/deskpilot/api/schemas"
)

// Mode selects which grammar to apply to the raw output.
type Mode string

const (
	// ModeTagged parses the <|think_start|>/<|action_start|> block grammar.
	ModeTagged Mode = "tagged"
	// ModeToolCall parses <tool_call> JSON payloads.
	ModeToolCall Mode = "tool_call"
	// ModeAuto prefers the tool-call grammar when its markers are present and
	// productive, falling back to the tagged grammar.
	ModeAuto Mode = "auto"
)

// ParseMode maps a config string onto a Mode. Unknown strings map to auto.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeTagged:
		return ModeTagged
	case ModeToolCall:
		return ModeToolCall
	default:
		return ModeAuto
	}
}

var (
	thinkBlockRe  = regexp.MustCompile(`(?s)<\|think_start\|>(.*?)<\|think_end\|>`)
	actionBlockRe = regexp.MustCompile(`(?s)<\|action_start\|>(.*?)<\|action_end\|>`)
	actionCallRe  = regexp.MustCompile(`(?s)^(\w+)\((.*)\)`)
)

// Parse turns raw model output into a Step according to the selected mode.
// The returned Step's Stop flag is true iff the action list contains a
// terminal action. The only error condition is an unsupported mode; grammar
// violations degrade to an empty or partial Step instead.
func Parse(raw string, mode Mode) (schemas.Step, error) {
	switch mode {
	case ModeTagged:
		return parseTagged(raw), nil
	case ModeToolCall:
		return parseToolCalls(raw), nil
	case ModeAuto:
		return parseAuto(raw), nil
	default:
		return schemas.Step{}, fmt.Errorf("unsupported parser mode %q: expected tagged, tool_call or auto", mode)
	}
}

// parseAuto implements the preference order: tool-call when its markers are
// present and productive, then tagged when its markers are present, then a
// final tool-call attempt, then tagged.
func parseAuto(raw string) schemas.Step {
	if strings.Contains(raw, "<tool_call>") {
		if step := parseToolCalls(raw); productive(step) {
			return step
		}
	}
	if strings.Contains(raw, "<|action_start|>") || strings.Contains(raw, "<|think_start|>") {
		return parseTagged(raw)
	}
	if step := parseToolCalls(raw); productive(step) {
		return step
	}
	return parseTagged(raw)
}

func productive(step schemas.Step) bool {
	return len(step.Actions) > 0 || step.Reason != ""
}

// parseTagged parses the tagged block grammar.
func parseTagged(raw string) schemas.Step {
	var step schemas.Step

	if m := thinkBlockRe.FindStringSubmatch(raw); m != nil {
		step.Reason = strings.TrimSpace(m[1])
	}

	m := actionBlockRe.FindStringSubmatch(raw)
	if m == nil {
		return step
	}

	for _, call := range splitActions(strings.TrimSpace(m[1])) {
		action, ok := parseActionCall(strings.TrimSpace(call))
		if !ok {
			// Unknown or malformed call: dropped, not fatal.
			continue
		}
		step.Actions = append(step.Actions, action)
		if action.Type.IsTerminal() {
			step.Stop = true
		}
	}
	return step
}

// splitActions splits an action block on '&' separators that sit outside
// parentheses, so nested calls like type(func(a, b)) survive intact.
//
// The split is deliberately not quote-aware: a literal '&' inside typed text
// will split the batch. Changing that would silently diverge from the wire
// behavior existing prompts rely on, so the ambiguity is kept.
func splitActions(block string) []string {
	var (
		out     []string
		current strings.Builder
		depth   int
	)
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			out = append(out, s)
		}
		current.Reset()
	}

	for _, r := range block {
		switch r {
		case '(':
			depth++
			current.WriteRune(r)
		case ')':
			depth--
			current.WriteRune(r)
		case '&':
			if depth == 0 {
				flush()
			} else {
				current.WriteRune(r)
			}
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return out
}

// parseActionCall parses one "name(args)" call into a normalized Action.
// The type() payload is preserved verbatim; every other argument is trimmed.
// hotkey and scroll calls may carry a trailing repeat count.
func parseActionCall(call string) (schemas.Action, bool) {
	m := actionCallRe.FindStringSubmatch(call)
	if m == nil {
		return schemas.Action{}, false
	}

	actionType := schemas.ActionType(strings.ToLower(m[1]))
	if !actionType.Valid() {
		return schemas.Action{}, false
	}

	argument := m[2]
	if actionType != schemas.ActionTypeText {
		argument = strings.TrimSpace(argument)
	}

	count := 1
	switch actionType {
	case schemas.ActionHotkey:
		// hotkey(key, c) presses key c times. The final comma field is the
		// count; when it is not numeric it is discarded rather than folded
		// back into the key.
		if idx := strings.LastIndex(argument, ","); idx >= 0 && strings.TrimSpace(argument[idx+1:]) != "" {
			if c, err := strconv.Atoi(strings.TrimSpace(argument[idx+1:])); err == nil {
				count = c
			}
			argument = strings.TrimSpace(argument[:idx])
		}
	case schemas.ActionScroll:
		// scroll(x, y, direction, c) scrolls c notches.
		parts := strings.Split(argument, ",")
		if len(parts) >= 4 {
			if c, err := strconv.Atoi(strings.TrimSpace(parts[3])); err == nil {
				count = c
			}
			argument = fmt.Sprintf("%s,%s,%s",
				strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]))
		}
	}
	if count < 1 {
		count = 1
	}

	return schemas.Action{Type: actionType, Argument: argument, Count: count}, true
}
