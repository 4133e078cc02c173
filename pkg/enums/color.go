package enums

import (
	"fmt"
	"strings"
)

// Color identifies one raw liquid column. The order matches potion_type vectors.
type Color string

const (
	ColorRed   Color = "red"
	ColorGreen Color = "green"
	ColorBlue  Color = "blue"
	ColorDark  Color = "dark"
)

// Colors lists every color in potion_type order.
var Colors = []Color{ColorRed, ColorGreen, ColorBlue, ColorDark}

// IsValid reports whether the value matches a known color.
func (c Color) IsValid() bool {
	return c.Index() >= 0
}

// Index returns the position of the color inside a potion_type vector, or -1.
func (c Color) Index() int {
	for i, candidate := range Colors {
		if candidate == c {
			return i
		}
	}
	return -1
}

// ParseColor converts raw input into Color.
func ParseColor(value string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(value)))
	if !c.IsValid() {
		return "", fmt.Errorf("invalid color %q", value)
	}
	return c, nil
}

// ColorAt returns the color stored at the provided potion_type index.
func ColorAt(index int) (Color, bool) {
	if index < 0 || index >= len(Colors) {
		return "", false
	}
	return Colors[index], true
}
