package charts

import (
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Theme selects the chart background and grid styling.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Themes lists the selectable themes.
func Themes() []Theme { return []Theme{ThemeDark, ThemeLight} }

// ParseTheme accepts "dark"/"light" and the plotly template names.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dark", "plotly_dark":
		return ThemeDark, nil
	case "light", "white", "plotly_white":
		return ThemeLight, nil
	}
	return "", fmt.Errorf("unknown theme %q (use dark|light)", s)
}

type themeColors struct {
	background drawing.Color
	canvas     drawing.Color
	axis       drawing.Color
	grid       drawing.Color
	text       drawing.Color
}

var themeTable = map[Theme]themeColors{
	ThemeDark: {
		background: hex("111111"),
		canvas:     hex("111111"),
		axis:       hex("506784"),
		grid:       hex("283442"),
		text:       hex("F2F5FA"),
	},
	ThemeLight: {
		background: hex("FFFFFF"),
		canvas:     hex("FFFFFF"),
		axis:       hex("C8D4E3"),
		grid:       hex("EBF0F8"),
		text:       hex("2A3F5F"),
	},
}

// Palette is a named, ordered color sequence applied across all charts.
type Palette struct {
	Name   string
	Colors []string
}

var palettes = []Palette{
	{Name: "Plotly", Colors: []string{"636EFA", "EF553B", "00CC96", "AB63FA", "FFA15A", "19D3F3", "FF6692", "B6E880", "FF97FF", "FECB52"}},
	{Name: "Pastel", Colors: []string{"66C5CC", "F6CF71", "F89C74", "DCB0F2", "87C55F", "9EB9F3", "FE88B1", "C9DB74", "8BE0A4", "B497E7", "B3B3B3"}},
	{Name: "Dark24", Colors: []string{
		"2E91E5", "E15F99", "1CA71C", "FB0D0D", "DA16FF", "222A2A", "B68100", "750D86", "EB663B", "511CFB", "00A08B", "FB00D1",
		"FC0080", "B2828D", "6C7C32", "778AAE", "862A16", "A777F1", "620042", "1616A7", "DA60CA", "6C4516", "0D2A63", "AF0038",
	}},
	{Name: "Set2", Colors: []string{"66C2A5", "FC8D62", "8DA0CB", "E78AC3", "A6D854", "FFD92F", "E5C494", "B3B3B3"}},
	{Name: "Set3", Colors: []string{"8DD3C7", "FFFFB3", "BEBADA", "FB8072", "80B1D3", "FDB462", "B3DE69", "FCCDE5", "D9D9D9", "BC80BD", "CCEBC5", "FFED6F"}},
}

// DefaultPalette is used when none is configured.
const DefaultPalette = "Dark24"

// Palettes lists the selectable palettes in menu order.
func Palettes() []Palette { return append([]Palette(nil), palettes...) }

// PaletteNames lists the palette names in menu order.
func PaletteNames() []string {
	out := make([]string, len(palettes))
	for i, p := range palettes {
		out[i] = p.Name
	}
	return out
}

// ParsePalette resolves a palette by name, case-insensitively.
func ParsePalette(name string) (Palette, error) {
	for _, p := range palettes {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return Palette{}, fmt.Errorf("unknown palette %q (use %s)", name, strings.Join(PaletteNames(), "|"))
}

// Color returns the i-th color, wrapping around.
func (p Palette) Color(i int) drawing.Color {
	if len(p.Colors) == 0 {
		return drawing.ColorBlack
	}
	if i < 0 {
		i = -i
	}
	return hex(p.Colors[i%len(p.Colors)])
}

// Hex returns the i-th color as a CSS hex string.
func (p Palette) Hex(i int) string {
	if len(p.Colors) == 0 {
		return "#000000"
	}
	if i < 0 {
		i = -i
	}
	return "#" + p.Colors[i%len(p.Colors)]
}

func hex(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}

// colorPalette adapts a theme and palette to go-chart.
type colorPalette struct {
	theme  themeColors
	series Palette
}

func (c colorPalette) BackgroundColor() drawing.Color       { return c.theme.background }
func (c colorPalette) BackgroundStrokeColor() drawing.Color { return c.theme.background }
func (c colorPalette) CanvasColor() drawing.Color           { return c.theme.canvas }
func (c colorPalette) CanvasStrokeColor() drawing.Color     { return c.theme.canvas }
func (c colorPalette) AxisStrokeColor() drawing.Color       { return c.theme.axis }
func (c colorPalette) TextColor() drawing.Color             { return c.theme.text }
func (c colorPalette) GetSeriesColor(index int) drawing.Color {
	return c.series.Color(index)
}
