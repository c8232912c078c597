package artwork

import "github.com/lucasb-eyer/go-colorful"

const defaultStyleHex = "#f5f5f5"

var styleHex = map[string]string{
	"Renesans":         "#F4CCCC",
	"Manieryzm":        "#FCE5CD",
	"Barok":            "#FFF2CC",
	"Rokoko":           "#D9EAD3",
	"Klasycyzm":        "#D0E0E3",
	"Neoklasycyzm":     "#D0E0E3",
	"Romantyzm":        "#CFE2F3",
	"Akademizm":        "#D9D2E9",
	"Realizm":          "#EAD1DC",
	"Impresjonizm":     "#E6B8AF",
	"Postimpresjonizm": "#F9CB9C",
	"Symbolizm":        "#B6D7A8",
	"Secesja":          "#A2C4C9",
	"Fowizm":           "#F6B26B",
	"Ekspresjonizm":    "#FFE599",
	"Kubizm":           "#B4A7D6",
	"Surrealizm":       "#D5A6BD",
	"Sztuka Japońska":  "#E0E0E0",
}

// HasStyleColor reports whether style has its own colour
func HasStyleColor(style string) bool {
	_, ok := styleHex[style]
	return ok
}

// StyleColor returns the colour associated with an art style, or a neutral
// grey for unknown styles
func StyleColor(style string) colorful.Color {
	hex, ok := styleHex[style]
	if !ok {
		hex = defaultStyleHex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(defaultStyleHex)
	}
	return c
}
