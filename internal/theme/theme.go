// Package theme holds the ChessMate design-system class tables. Every
// resolver is a pure lookup over fixed literals keyed by dark-mode flag and
// category; resolvers never compute class names at runtime.
package theme

import "fmt"

// pair holds the light and dark class strings for one category.
type pair struct {
	light string
	dark  string
}

func (p pair) resolve(dark bool) string {
	if dark {
		return p.dark
	}
	return p.light
}

var backgrounds = map[string]pair{
	"primary":   {light: "bg-gray-50", dark: "bg-gray-900"},
	"secondary": {light: "bg-white", dark: "bg-gray-800"},
	"tertiary":  {light: "bg-gray-100", dark: "bg-gray-700"},
}

var texts = map[string]pair{
	"primary":   {light: "text-gray-900", dark: "text-gray-100"},
	"secondary": {light: "text-gray-700", dark: "text-gray-300"},
	"muted":     {light: "text-gray-500", dark: "text-gray-400"},
	"accent":    {light: "text-emerald-600", dark: "text-emerald-400"},
}

var borders = pair{light: "border-gray-200", dark: "border-gray-700"}

var cards = pair{
	light: "bg-white border border-gray-200 shadow-sm",
	dark:  "bg-gray-800 border border-gray-700 shadow-md",
}

var buttons = map[string]pair{
	"primary":   {light: "bg-emerald-600 text-white hover:bg-emerald-700", dark: "bg-emerald-500 text-white hover:bg-emerald-400"},
	"secondary": {light: "bg-gray-200 text-gray-900 hover:bg-gray-300", dark: "bg-gray-700 text-gray-100 hover:bg-gray-600"},
	"danger":    {light: "bg-red-600 text-white hover:bg-red-700", dark: "bg-red-500 text-white hover:bg-red-400"},
}

var shadowSizes = map[string]string{
	"sm": "shadow-sm",
	"md": "shadow-md",
	"lg": "shadow-lg",
	"xl": "shadow-xl",
}

var shadowModes = pair{light: "shadow-gray-300/40", dark: "shadow-black/40"}

// Background returns the surface classes for a category. Categories are
// primary, secondary and tertiary; empty selects primary.
func Background(dark bool, category string) string {
	return lookup("background", backgrounds, category, "primary").resolve(dark)
}

// Text returns the text classes for a category. Categories are primary,
// secondary, muted and accent; empty selects primary.
func Text(dark bool, category string) string {
	return lookup("text", texts, category, "primary").resolve(dark)
}

// Border returns the border color classes for the mode.
func Border(dark bool) string {
	return borders.resolve(dark)
}

// Card returns the composite card surface classes for the mode.
func Card(dark bool) string {
	return cards.resolve(dark)
}

// Button returns the button classes for a variant. Variants are primary,
// secondary and danger; empty selects primary.
func Button(dark bool, variant string) string {
	return lookup("button", buttons, variant, "primary").resolve(dark)
}

// Shadow returns the elevation classes for a size joined with the mode's
// shadow tint. Sizes are sm, md, lg and xl; empty selects md.
func Shadow(dark bool, size string) string {
	if size == "" {
		size = "md"
	}
	literal, ok := shadowSizes[size]
	if !ok {
		panic(fmt.Sprintf("theme: unknown shadow size %q", size))
	}
	return literal + " " + shadowModes.resolve(dark)
}

// lookup resolves a category against a table, panicking on categories the
// table does not define.
func lookup(table string, m map[string]pair, key, def string) pair {
	if key == "" {
		key = def
	}
	p, ok := m[key]
	if !ok {
		panic(fmt.Sprintf("theme: unknown %s category %q", table, key))
	}
	return p
}
