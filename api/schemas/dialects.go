package schemas

// -- External VLM Dialect Schemas --
//
// Each supported vision model speaks its own action vocabulary and coordinate
// space. These records mirror the models' tool-use payloads one to one; they
// are NOT interchangeable with the normalized Action type. Conversion is one
// directional, dialect record -> portable command strings.

// ClaudeAction is one Claude computer-use action. Claude addresses the screen
// in fixed XGA pixels (1024x768). Optional fields are pointers so a zero
// coordinate can be told apart from an absent one.
type ClaudeAction struct {
	Type            string   `json:"action"`
	Coordinate      *[2]int  `json:"coordinate,omitempty"`
	StartCoordinate *[2]int  `json:"start_coordinate,omitempty"`
	Text            *string  `json:"text,omitempty"`
	ScrollDirection string   `json:"scroll_direction,omitempty"`
	ScrollAmount    *int     `json:"scroll_amount,omitempty"`
	Duration        *float64 `json:"duration,omitempty"`
}

// GeminiAction is one Gemini computer-use action. Gemini uses a 0-1000
// normalized space and carries high-level browser verbs (navigate, search,
// go_back) that expand into multi-command sequences.
type GeminiAction struct {
	Type              string  `json:"action"`
	X                 *int    `json:"x,omitempty"`
	Y                 *int    `json:"y,omitempty"`
	Text              *string `json:"text,omitempty"`
	PressEnter        bool    `json:"press_enter,omitempty"`
	ClearBeforeTyping bool    `json:"clear_before_typing,omitempty"`
	Direction         string  `json:"direction,omitempty"`
	Magnitude         *int    `json:"magnitude,omitempty"`
	DestinationX      *int    `json:"destination_x,omitempty"`
	DestinationY      *int    `json:"destination_y,omitempty"`
	Keys              string  `json:"keys,omitempty"`
	URL               string  `json:"url,omitempty"`
}

// Qwen3Action is one Qwen3-VL computer-use action. Qwen3 uses a 0-999
// normalized space, an explicit key list for hotkeys, and omits coordinates on
// most actions, implicitly reusing a running cursor the converter tracks.
type Qwen3Action struct {
	Type       string   `json:"action"`
	Coordinate []int    `json:"coordinate,omitempty"`
	Text       *string  `json:"text,omitempty"`
	Keys       []string `json:"keys,omitempty"`
	Pixels     *int     `json:"pixels,omitempty"`
	Time       *float64 `json:"time,omitempty"`
	Status     string   `json:"status,omitempty"`
}
