package intersection

import "fmt"

// Color is a traffic-light color. Blank means "no color": the signal is
// reset to its off/neutral rendering.
type Color string

const (
	ColorBlank  Color = ""
	ColorRed    Color = "Red"
	ColorYellow Color = "Yellow"
	ColorGreen  Color = "Green"
)

// ParseColor converts a document string into a Color. The empty string
// and "Blank" both map to ColorBlank.
func ParseColor(s string) (Color, error) {
	switch s {
	case "", "Blank":
		return ColorBlank, nil
	case "Red":
		return ColorRed, nil
	case "Yellow":
		return ColorYellow, nil
	case "Green":
		return ColorGreen, nil
	default:
		return ColorBlank, fmt.Errorf("unknown traffic-light color %q", s)
	}
}

// Arrow is a traffic-light arrow lamp. Blank means "no arrow" and is
// dropped from arrow lists at parse time.
type Arrow string

const (
	ArrowBlank    Arrow = ""
	ArrowLeft     Arrow = "Left"
	ArrowRight    Arrow = "Right"
	ArrowStraight Arrow = "Straight"
)

// ParseArrow converts a document string into an Arrow. The empty string
// and "Blank" both map to ArrowBlank.
func ParseArrow(s string) (Arrow, error) {
	switch s {
	case "", "Blank":
		return ArrowBlank, nil
	case "Left":
		return ArrowLeft, nil
	case "Right":
		return ArrowRight, nil
	case "Straight":
		return ArrowStraight, nil
	default:
		return ArrowBlank, fmt.Errorf("unknown traffic-light arrow %q", s)
	}
}

// Signal is one per-signal command triple within a state: the signal to
// drive, the color to show, and the arrow lamps to light in order.
type Signal struct {
	ID     int
	Color  Color
	Arrows []Arrow
}
