package screen

import "fmt"

// Screen describes one physical or virtual display surface inside the global
// desktop coordinate space. X and Y are the top-left origin of the display;
// on a single-monitor setup both are zero.
type Screen struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// String renders the screen as "WxH@(X,Y)" for log fields.
func (s Screen) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", s.Width, s.Height, s.X, s.Y)
}
