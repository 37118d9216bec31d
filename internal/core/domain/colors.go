package domain

import "regexp"

var nonHex = regexp.MustCompile(`[^A-Fa-f0-9]`)

// HexifyColor normalizes an arbitrary string into a hex color value:
// a leading '#' is added when missing, the value is truncated to 7
// characters, and non-hexadecimal characters are replaced with '0'.
func HexifyColor(color string) string {
	c := color
	if len(c) == 0 || c[0] != '#' {
		c = "#" + c
	}
	if len(c) > 7 {
		c = c[:7]
	}
	return "#" + nonHex.ReplaceAllString(c[1:], "0")
}
