package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// palette holds the RGB hex value used by pixel renderers for each color.
var palette = [...]string{
	ColorDefault:       "#e5e7eb",
	ColorRed:           "#ef4444",
	ColorGreen:         "#22c55e",
	ColorYellow:        "#facc15",
	ColorBlue:          "#3b82f6",
	ColorMagenta:       "#a855f7",
	ColorCyan:          "#06b6d4",
	ColorWhite:         "#ffffff",
	ColorBrightRed:     "#f87171",
	ColorBrightGreen:   "#4ade80",
	ColorBrightYellow:  "#fde047",
	ColorBrightBlue:    "#60a5fa",
	ColorBrightMagenta: "#ec4899",
	ColorBrightCyan:    "#67e8f9",
	ColorBrightWhite:   "#f9fafb",
	ColorOrange:        "#f59e0b",
	ColorGray:          "#444444",
}

// Hex returns the color as a "#rrggbb" string.
func (c Color) Hex() string {
	if int(c) < len(palette) {
		return palette[c]
	}
	return palette[ColorDefault]
}

var colorNames = map[string]Color{
	"default":        ColorDefault,
	"red":            ColorRed,
	"green":          ColorGreen,
	"yellow":         ColorYellow,
	"blue":           ColorBlue,
	"magenta":        ColorMagenta,
	"cyan":           ColorCyan,
	"white":          ColorWhite,
	"bright_red":     ColorBrightRed,
	"bright_green":   ColorBrightGreen,
	"bright_yellow":  ColorBrightYellow,
	"bright_blue":    ColorBrightBlue,
	"bright_magenta": ColorBrightMagenta,
	"bright_cyan":    ColorBrightCyan,
	"bright_white":   ColorBrightWhite,
	"orange":         ColorOrange,
	"gray":           ColorGray,
}

// ParseColor resolves a config color name. Unknown names map to ColorDefault.
func ParseColor(name string) Color {
	return colorNames[name]
}
