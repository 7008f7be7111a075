package wheel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// namedColors maps the colour words users may type to their canonical hex value.
var namedColors = map[string]string{
	"red":     "#FF0000",
	"blue":    "#0000FF",
	"green":   "#00FF00",
	"yellow":  "#FFFF00",
	"orange":  "#FFA500",
	"purple":  "#800080",
	"pink":    "#FFC0CB",
	"cyan":    "#00FFFF",
	"magenta": "#FF00FF",
	"lime":    "#00FF00",
	"navy":    "#000080",
	"teal":    "#008080",
	"olive":   "#808000",
	"maroon":  "#800000",
	"gray":    "#808080",
	"silver":  "#C0C0C0",
	"black":   "#000000",
	"white":   "#FFFFFF",
}

// ColorResolver turns free-form colour input into a canonical #RRGGBB string.
type ColorResolver struct {
	rnd Random
}

// NewColorResolver creates a resolver drawing fallback colours from rnd.
func NewColorResolver(rnd Random) *ColorResolver {
	if rnd == nil {
		rnd = DefaultRandom
	}

	return &ColorResolver{rnd: rnd}
}

var defaultResolver = NewColorResolver(DefaultRandom)

// ResolveColor resolves token with the package default resolver.
func ResolveColor(token string) string {
	return defaultResolver.Resolve(token)
}

// Resolve returns the hex value for a named colour, the upper-cased input for a valid
// #RRGGBB token, and otherwise a uniformly random colour. Unrecognised input is not an error.
func (r *ColorResolver) Resolve(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))

	if hex, ok := namedColors[token]; ok {
		return hex
	}

	if IsHexColor(token) {
		return strings.ToUpper(token)
	}

	return fmt.Sprintf("#%06X", r.rnd.IntN(0x1000000))
}

// IsHexColor reports whether s is '#' followed by exactly six hex digits.
func IsHexColor(s string) bool {
	// colorful.Hex also accepts the #RGB shorthand, so the length is pinned first.
	if len(s) != 7 || s[0] != '#' {
		return false
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return false
	}

	// Sscanf stops at the first non-hex rune without failing, the round trip catches that.
	return c.Hex() == strings.ToLower(s)
}

// NamedColors returns the colour words the resolver understands.
func NamedColors() []string {
	names := make([]string, 0, len(namedColors))
	for name := range namedColors {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
