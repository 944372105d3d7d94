package logo

import (
	"fmt"
	"net/url"
	"strings"
)

// PlaceholderLabel returns the two-letter label shown on a generated
// placeholder: the first two characters of the name, uppercased.
func PlaceholderLabel(name string) string {
	if name == "" {
		return "??"
	}
	if len(name) == 1 {
		return strings.ToUpper(name)
	}
	return strings.ToUpper(name[:2])
}

// PlaceholderHue derives the placeholder's background hue from the name:
// the sum of the name's byte values modulo 360.
func PlaceholderHue(name string) int {
	sum := 0
	for i := 0; i < len(name); i++ {
		sum += int(name[i])
	}
	return sum % 360
}

// Placeholder generates a deterministic SVG data URL for the given
// domain/name: a solid square whose color is derived from the name, with
// the label overlaid. The same name always yields the same image.
func Placeholder(name string) string {
	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 40 40">`+
			`<rect width="40" height="40" fill="hsl(%d, 65%%, 45%%)" rx="4"/>`+
			`<text x="50%%" y="50%%" font-family="Arial" font-size="20" fill="white" text-anchor="middle" dy=".3em" font-weight="bold">%s</text>`+
			`</svg>`,
		PlaceholderHue(name), PlaceholderLabel(name))

	return "data:image/svg+xml," + url.PathEscape(svg)
}
