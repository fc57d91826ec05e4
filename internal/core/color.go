package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Color is a person's favourite color. The zero value is not a valid color.
type Color int

const (
	ColorBlue Color = iota + 1
	ColorGreen
	ColorViolet
	ColorRed
	ColorYellow
	ColorTurquoise
	ColorWhite
)

// colorNames holds the canonical (German) name of every color, indexed by id.
var colorNames = [...]string{
	ColorBlue:      "blau",
	ColorGreen:     "grün",
	ColorViolet:    "violett",
	ColorRed:       "rot",
	ColorYellow:    "gelb",
	ColorTurquoise: "türkis",
	ColorWhite:     "weiß",
}

// colorAliases maps every accepted lowercase token to its color.
var colorAliases = map[string]Color{
	"blau": ColorBlue, "blue": ColorBlue,
	"grün": ColorGreen, "gruen": ColorGreen, "green": ColorGreen,
	"violett": ColorViolet, "violet": ColorViolet, "purple": ColorViolet,
	"rot": ColorRed, "red": ColorRed,
	"gelb": ColorYellow, "yellow": ColorYellow,
	"türkis": ColorTurquoise, "tuerkis": ColorTurquoise, "turquoise": ColorTurquoise,
	"weiß": ColorWhite, "weiss": ColorWhite, "white": ColorWhite,
}

// Colors returns all colors in id order.
func Colors() []Color {
	out := make([]Color, 0, len(colorNames)-1)
	for c := ColorBlue; c <= ColorWhite; c++ {
		out = append(out, c)
	}
	return out
}

// colorChoices lists the canonical names for user messages.
func colorChoices() string {
	colors := Colors()
	names := make([]string, len(colors))
	for i, c := range colors {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}

// ParseColor resolves a color from its name, alias or numeric id.
// Matching ignores case and surrounding whitespace.
func ParseColor(s string) (Color, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	if c, ok := colorAliases[token]; ok {
		return c, nil
	}
	if id, err := strconv.Atoi(token); err == nil {
		if c := Color(id); c.Valid() {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrInvalidColor, s)
}

// Valid reports whether c is one of the known colors.
func (c Color) Valid() bool {
	return c >= ColorBlue && c <= ColorWhite
}

// ID returns the stable numeric id used by the stores.
func (c Color) ID() int {
	return int(c)
}

// String returns the canonical name, or "Color(n)" for unknown values.
func (c Color) String() string {
	if !c.Valid() {
		return "Color(" + strconv.Itoa(int(c)) + ")"
	}
	return colorNames[c]
}

// MarshalJSON encodes the canonical name.
func (c Color) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidColor, int(c))
	}
	return json.Marshal(colorNames[c])
}

// UnmarshalJSON accepts a name, alias, or numeric id (as number or string).
// A JSON null leaves c unchanged, so a missing color is reported by the
// required rule rather than as an unknown color.
func (c *Color) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var token string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &token); err != nil {
			return err
		}
	} else {
		token = string(data)
	}

	parsed, err := ParseColor(token)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
