package model

import (
	"fmt"
	"strings"
)

// Color is the accent a task is rendered with.
type Color int

const (
	ColorPurple Color = iota
	ColorOrange
	ColorBlue
	ColorGreen
	ColorRed
	ColorPink
	ColorCyan
	ColorYellow
)

var colorNames = [...]string{
	ColorPurple: "purple",
	ColorOrange: "orange",
	ColorBlue:   "blue",
	ColorGreen:  "green",
	ColorRed:    "red",
	ColorPink:   "pink",
	ColorCyan:   "cyan",
	ColorYellow: "yellow",
}

// AllColors lists every color in display order.
func AllColors() []Color {
	out := make([]Color, len(colorNames))
	for i := range colorNames {
		out[i] = Color(i)
	}
	return out
}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return colorNames[ColorPurple]
	}
	return colorNames[c]
}

// ParseColor maps a name to a Color. Unknown names fall back to purple.
func ParseColor(s string) Color {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range colorNames {
		if name == s {
			return Color(i)
		}
	}
	return ColorPurple
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	*c = ParseColor(string(b))
	return nil
}

// Symbol is the glyph shown next to a task.
type Symbol int

const (
	SymbolCheckmark Symbol = iota
	SymbolStar
	SymbolFlame
	SymbolBolt
	SymbolBook
	SymbolHeart
	SymbolLeaf
	SymbolBriefcase
)

var symbolNames = [...]string{
	SymbolCheckmark: "checkmark",
	SymbolStar:      "star",
	SymbolFlame:     "flame",
	SymbolBolt:      "bolt",
	SymbolBook:      "book",
	SymbolHeart:     "heart",
	SymbolLeaf:      "leaf",
	SymbolBriefcase: "briefcase",
}

var symbolGlyphs = [...]string{
	SymbolCheckmark: "✓",
	SymbolStar:      "★",
	SymbolFlame:     "🔥",
	SymbolBolt:      "⚡",
	SymbolBook:      "📖",
	SymbolHeart:     "♥",
	SymbolLeaf:      "🍃",
	SymbolBriefcase: "💼",
}

// AllSymbols lists every symbol in display order.
func AllSymbols() []Symbol {
	out := make([]Symbol, len(symbolNames))
	for i := range symbolNames {
		out[i] = Symbol(i)
	}
	return out
}

func (s Symbol) String() string {
	if s < 0 || int(s) >= len(symbolNames) {
		return symbolNames[SymbolCheckmark]
	}
	return symbolNames[s]
}

// Glyph returns the terminal glyph for s.
func (s Symbol) Glyph() string {
	if s < 0 || int(s) >= len(symbolGlyphs) {
		return symbolGlyphs[SymbolCheckmark]
	}
	return symbolGlyphs[s]
}

// ParseSymbol maps a name to a Symbol. Unknown names fall back to checkmark.
func ParseSymbol(s string) Symbol {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range symbolNames {
		if name == s {
			return Symbol(i)
		}
	}
	return SymbolCheckmark
}

// MarshalText implements encoding.TextMarshaler.
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Symbol) UnmarshalText(b []byte) error {
	*s = ParseSymbol(string(b))
	return nil
}

// ValidateColorName reports an error when s is non-empty and not a known
// color. Used by input surfaces that should reject typos instead of
// silently defaulting.
func ValidateColorName(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	for _, name := range colorNames {
		if name == s {
			return nil
		}
	}
	return fmt.Errorf("unknown color %q (want one of %s)", s, strings.Join(colorNames[:], ", "))
}

// ValidateSymbolName is the Symbol counterpart of ValidateColorName.
func ValidateSymbolName(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	for _, name := range symbolNames {
		if name == s {
			return nil
		}
	}
	return fmt.Errorf("unknown symbol %q (want one of %s)", s, strings.Join(symbolNames[:], ", "))
}
