package parse

import (
	"regexp"
	"strconv"
	"strings"

	json "github.com/json-iterator/go"
	"github.com/tidwall/gjson"

	"github.com/xkilldash9x/deskpilot/api/schemas"
)

// toolName is the fixed tool identifier computer-use payloads must carry.
// Payloads naming any other tool are skipped.
const toolName = "computer_use"

var (
	thinkTagRe      = regexp.MustCompile(`(?si)<think>(.*?)</think>`)
	toolCallRe      = regexp.MustCompile(`(?si)<tool_call>\s*(.*?)\s*</tool_call>`)
	actionSummaryRe = regexp.MustCompile(`(?m)^[ \t]*Action[ \t]*:[ \t]*(.+)$`)
	codeFenceOpenRe = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	codeFenceEndRe  = regexp.MustCompile("\\s*```$")
	keySepRe        = regexp.MustCompile(`[+,]`)
)

// parseToolCalls parses the tool-call grammar: an optional <think> reasoning
// block (with an "Action:" summary line as fallback), plus one or more
// independently parsed <tool_call> JSON payloads. A malformed payload is
// skipped, not fatal to the Step.
func parseToolCalls(raw string) schemas.Step {
	var step schemas.Step

	if m := thinkTagRe.FindStringSubmatch(raw); m != nil {
		step.Reason = strings.TrimSpace(m[1])
	}
	if step.Reason == "" {
		if m := actionSummaryRe.FindStringSubmatch(raw); m != nil {
			step.Reason = strings.TrimSpace(m[1])
		}
	}

	for _, m := range toolCallRe.FindAllStringSubmatch(raw, -1) {
		payload := stripCodeFence(m[1])
		if !gjson.Valid(payload) {
			continue
		}
		action, ok := toolCallToAction(gjson.Parse(payload))
		if !ok {
			continue
		}
		step.Actions = append(step.Actions, action)
		if action.Type.IsTerminal() {
			step.Stop = true
		}
	}
	return step
}

// stripCodeFence removes a surrounding markdown code fence, which some models
// wrap around their JSON payloads.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = codeFenceOpenRe.ReplaceAllString(s, "")
		s = codeFenceEndRe.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}

// toolCallToAction maps one tool-call object onto a normalized Action. The
// bool result is false when the payload names a foreign tool, carries no
// action, or fails the per-action field requirements.
func toolCallToAction(root gjson.Result) (schemas.Action, bool) {
	if !root.IsObject() {
		return schemas.Action{}, false
	}

	if name := strings.TrimSpace(root.Get("name").String()); name != "" && name != toolName {
		return schemas.Action{}, false
	}

	args := root.Get("arguments")
	if args.Type == gjson.String {
		// Some providers double-encode the arguments object.
		if !gjson.Valid(args.String()) {
			return schemas.Action{}, false
		}
		args = gjson.Parse(args.String())
	}
	if !args.IsObject() {
		return schemas.Action{}, false
	}

	name := strings.ToLower(strings.TrimSpace(args.Get("action").String()))
	if name == "" {
		return schemas.Action{}, false
	}

	count := positiveInt(args.Get("count"), 1)

	switch name {
	case "key":
		keys := extractKeys(args.Get("keys"))
		if len(keys) == 0 {
			return schemas.Action{}, false
		}
		return schemas.Action{
			Type:     schemas.ActionHotkey,
			Argument: strings.Join(keys, "+"),
			Count:    count,
		}, true

	case "type":
		return schemas.Action{
			Type:     schemas.ActionTypeText,
			Argument: args.Get("text").String(),
			Count:    count,
		}, true

	case "mouse_move":
		x, y, ok := extractCoords(args.Get("coordinate"))
		if !ok {
			return schemas.Action{}, false
		}
		return coordAction(schemas.ActionMouseMove, x, y, count), true

	case "left_click", "right_click", "double_click", "triple_click":
		x, y, ok := extractCoords(args.Get("coordinate"))
		if !ok {
			return schemas.Action{}, false
		}
		mapped := map[string]schemas.ActionType{
			"left_click":   schemas.ActionClick,
			"right_click":  schemas.ActionRightSingle,
			"double_click": schemas.ActionLeftDouble,
			"triple_click": schemas.ActionLeftTriple,
		}[name]
		return coordAction(mapped, x, y, count), true

	case "left_click_drag":
		x, y, ok := extractCoords(args.Get("coordinate"))
		if !ok {
			return schemas.Action{}, false
		}
		return coordAction(schemas.ActionLeftClickDrag, x, y, count), true

	case "press_click":
		return pressClickAction(args, count)

	case "scroll":
		x, y, ok := extractCoords(args.Get("coordinate"))
		if !ok {
			x, y = 500, 500
		}
		direction, scrollCount := scrollDirectionAndCount(args)
		return schemas.Action{
			Type:     schemas.ActionScroll,
			Argument: strconv.Itoa(x) + ", " + strconv.Itoa(y) + ", " + direction,
			Count:    scrollCount,
		}, true

	case "wait":
		seconds := 1.0
		if t := args.Get("time"); t.Type == gjson.Number {
			seconds = t.Float()
		}
		return schemas.Action{
			Type:     schemas.ActionWait,
			Argument: strconv.FormatFloat(seconds, 'f', -1, 64),
			Count:    1,
		}, true

	case "terminate":
		status := strings.ToLower(strings.TrimSpace(args.Get("status").String()))
		terminal := schemas.ActionFinish
		if status == "failure" {
			terminal = schemas.ActionFail
		}
		return schemas.Action{Type: terminal, Argument: "", Count: 1}, true
	}

	// Unknown action names are dropped silently.
	return schemas.Action{}, false
}

func coordAction(t schemas.ActionType, x, y, count int) schemas.Action {
	return schemas.Action{
		Type:     t,
		Argument: strconv.Itoa(x) + ", " + strconv.Itoa(y),
		Count:    count,
	}
}

// pressClickAction re-encodes a press_click payload as the compact JSON
// argument the native converter consumes.
func pressClickAction(args gjson.Result, count int) (schemas.Action, bool) {
	x, y, ok := extractCoords(args.Get("coordinate"))
	if !ok {
		return schemas.Action{}, false
	}
	clickType := strings.ToLower(strings.TrimSpace(args.Get("click_type").String()))
	if !schemas.ValidPressClickType(clickType) {
		return schemas.Action{}, false
	}
	keys := extractKeys(args.Get("keys"))
	if keys == nil {
		keys = []string{}
	}

	payload, err := json.ConfigCompatibleWithStandardLibrary.Marshal(schemas.PressClickArgument{
		Keys:       keys,
		ClickType:  clickType,
		Coordinate: [2]int{x, y},
	})
	if err != nil {
		return schemas.Action{}, false
	}
	return schemas.Action{
		Type:     schemas.ActionPressClick,
		Argument: string(payload),
		Count:    count,
	}, true
}

// extractKeys accepts a JSON array of key names or a single "+"/","-joined
// string.
func extractKeys(v gjson.Result) []string {
	var out []string
	switch {
	case v.IsArray():
		for _, e := range v.Array() {
			if k := strings.TrimSpace(e.String()); k != "" {
				out = append(out, k)
			}
		}
	case v.Type == gjson.String:
		for _, tok := range keySepRe.Split(v.String(), -1) {
			if k := strings.TrimSpace(tok); k != "" {
				out = append(out, k)
			}
		}
	}
	return out
}

// extractCoords reads a two-element coordinate array, truncating fractional
// values.
func extractCoords(v gjson.Result) (int, int, bool) {
	if !v.IsArray() {
		return 0, 0, false
	}
	arr := v.Array()
	if len(arr) < 2 {
		return 0, 0, false
	}
	x, okX := coordValue(arr[0])
	y, okY := coordValue(arr[1])
	if !okX || !okY {
		return 0, 0, false
	}
	return x, y, true
}

// coordValue tolerates numbers encoded as JSON strings.
func coordValue(r gjson.Result) (int, bool) {
	switch r.Type {
	case gjson.Number:
		return int(r.Float()), true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.String()), 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}

// positiveInt coerces a JSON number to an int >= 1.
func positiveInt(v gjson.Result, def int) int {
	if v.Type != gjson.Number {
		return def
	}
	n := int(v.Float())
	if n < 1 {
		return 1
	}
	return n
}

// scrollDirectionAndCount resolves a scroll payload's direction and repeat
// count. A missing or foreign direction is inferred from the sign of the raw
// count: negative scrolls down, everything else up.
func scrollDirectionAndCount(args gjson.Result) (string, int) {
	direction := strings.ToLower(strings.TrimSpace(args.Get("direction").String()))

	signed := 1
	if c := args.Get("count"); c.Type == gjson.Number {
		signed = int(c.Float())
	}

	if direction != "up" && direction != "down" {
		if signed < 0 {
			direction = "down"
		} else {
			direction = "up"
		}
	}

	count := signed
	if count < 0 {
		count = -count
	}
	if count < 1 {
		count = 1
	}
	return direction, count
}
