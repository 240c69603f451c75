package core

import "testing"

func TestColorHex(t *testing.T) {
	tests := []struct {
		color    Color
		expected string
	}{
		{ColorOrange, "#f59e0b"},
		{ColorGray, "#444444"},
		{ColorBrightMagenta, "#ec4899"},
		{Color(200), "#e5e7eb"},
	}

	for _, tc := range tests {
		if got := tc.color.Hex(); got != tc.expected {
			t.Errorf("Color(%d).Hex() = %q, expected %q", tc.color, got, tc.expected)
		}
	}
}

func TestParseColor(t *testing.T) {
	if ParseColor("red") != ColorRed {
		t.Error("red should parse")
	}
	if ParseColor("bright_green") != ColorBrightGreen {
		t.Error("bright_green should parse")
	}
	if ParseColor("chartreuse") != ColorDefault {
		t.Error("unknown names should map to the default color")
	}
}
