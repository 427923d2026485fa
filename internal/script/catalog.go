package script

// Pattern describes a selectable maneuver for operator front-ends.
type Pattern struct {
	Mode     uint8   `json:"mode"`
	Name     string  `json:"name"`
	Subtitle string  `json:"subtitle"`
	Duration float64 `json:"duration_s,omitempty"` // nominal run time, 0 for open-ended
}

// Catalog lists every mode Script understands.
var Catalog = []Pattern{
	{ModeIdle, "Manual", "Joystick control", 0},
	{ModeCircle, "Circle", "Constant arc", 4},
	{ModeFigure8A, "Figure-8", "Default", 4},
	{ModeFigure8B, "Figure-8", "Slow / wide", 6},
	{ModeFigure8C, "Figure-8", "Fast / tight", 3},
	{ModeSpin, "Spin", "In place", 3},
	{ModeStopAndGo, "Stop-and-Go", "Burst / pause", 4},
	{ModeSquare, "Square", "Hard turns", 6},
	{ModeSlalom, "Slalom", "Wide weave", 4},
	{ModeHoldUp, "Balance", "Hold +5°", 6},
	{ModeHoldDown, "Balance", "Hold -5°", 6},
	{ModeOscillate, "Balance", "Slow oscillation", 10},
}

// Lookup returns the catalog entry for mode.
func Lookup(mode uint8) (Pattern, bool) {
	if int(mode) < len(Catalog) {
		return Catalog[mode], true
	}
	return Pattern{}, false
}
