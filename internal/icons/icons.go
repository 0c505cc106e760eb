// Package icons defines the fixed icon-key vocabulary used to render
// categories. Unknown keys fall back to the default glyph rather than
// erroring, so stored data never breaks rendering.
package icons

import "sort"

// DefaultKey is the icon used when a category carries an unknown key.
const DefaultKey = "tag"

// glyphs maps each known icon key to its rendered glyph.
var glyphs = map[string]string{
	"home":           "🏠",
	"shopping-cart":  "🛒",
	"credit-card":    "💳",
	"utensils":       "🍽️",
	"car":            "🚗",
	"heart":          "❤️",
	"film":           "🎬",
	"gift":           "🎁",
	"briefcase":      "💼",
	"piggy-bank":     "🐖",
	"bolt":           "⚡",
	"book":           "📚",
	"plane":          "✈️",
	"music":          "🎵",
	"phone":          "📱",
	"wrench":         "🔧",
	"graduation-cap": "🎓",
	"chart-line":     "📈",
	"wallet":         "👛",
	"tag":            "🏷️",
}

// Lookup returns the glyph for the given key, falling back to the
// default glyph when the key is not part of the vocabulary.
func Lookup(key string) string {
	if glyph, ok := glyphs[key]; ok {
		return glyph
	}
	return glyphs[DefaultKey]
}

// IsKnown reports whether key is part of the vocabulary.
func IsKnown(key string) bool {
	_, ok := glyphs[key]
	return ok
}

// Keys returns the vocabulary in sorted order, for clients offering
// icon choices.
func Keys() []string {
	keys := make([]string, 0, len(glyphs))
	for k := range glyphs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
