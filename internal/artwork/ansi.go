package artwork

import (
	"crypto/md5"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// Renderer turns assets into half-block ANSI art
type Renderer struct {
	Width    int    // Character columns
	Height   int    // Character rows
	CacheDir string // Rendered art is cached here when set
}

// Render returns ANSI art for asset. Placeholders (and a nil image) are
// drawn as a box tinted with the style colour and labelled with the title.
func (r Renderer) Render(asset Asset, img image.Image, style string) string {
	if r.Width <= 0 {
		r.Width = 40
	}
	if r.Height <= 0 {
		r.Height = 24
	}
	if asset.IsPlaceholder() || img == nil {
		return r.placeholder(asset.Label, style)
	}

	cachePath := r.cachePath(asset)
	if cachePath != "" {
		if data, err := os.ReadFile(cachePath); err == nil {
			return string(data)
		}
	}

	art := imageToAnsi(img, r.Width, r.Height)

	if cachePath != "" {
		if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err == nil {
			_ = os.WriteFile(cachePath, []byte(art), 0644)
		}
	}
	return art
}

func (r Renderer) cachePath(asset Asset) string {
	if r.CacheDir == "" {
		return ""
	}
	name := fmt.Sprintf("%x.ansi", md5.Sum([]byte(fmt.Sprintf("%s@%dx%d", asset.Ref, r.Width, r.Height))))
	return filepath.Join(r.CacheDir, name)
}

// imageToAnsi converts an image to ANSI art
func imageToAnsi(img image.Image, width, height int) string {
	// Resize image to desired dimensions (doubled for half-block characters)
	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	var buffer strings.Builder
	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			col1, _ := colorful.MakeColor(getColorAt(resized, x, y))
			col2, _ := colorful.MakeColor(getColorAt(resized, x+1, y))
			col3, _ := colorful.MakeColor(getColorAt(resized, x, y+1))
			col4, _ := colorful.MakeColor(getColorAt(resized, x+1, y+1))

			// Top pixels as foreground, bottom pixels as background
			fg := averageColor(col1, col2)
			bg := averageColor(col3, col4)

			buffer.WriteString(ansiColorString('▀', fg, bg))
		}
		buffer.WriteString("\n")
	}
	return buffer.String()
}

// getColorAt returns the color at a specific coordinate
func getColorAt(img image.Image, x, y int) color.Color {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		return img.At(x, y)
	}
	return color.RGBA{0, 0, 0, 255}
}

// averageColor calculates the average of multiple colors
func averageColor(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	count := float64(len(colors))
	return colorful.Color{R: r / count, G: g / count, B: b / count}
}

// ansiColorString formats a character with 24-bit foreground and background colours
func ansiColorString(char rune, fg, bg colorful.Color) string {
	r1, g1, b1 := fg.Clamped().RGB255()
	r2, g2, b2 := bg.Clamped().RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c\x1b[0m", r1, g1, b1, r2, g2, b2, char)
}

// placeholder draws a tinted box with the label centred in it
func (r Renderer) placeholder(label, style string) string {
	bg := StyleColor(style)
	fg := colorful.Color{R: 0.16, G: 0.16, B: 0.16}

	lines := WrapText(label, r.Width-4)
	top := (r.Height - len(lines)) / 2

	var buffer strings.Builder
	for y := 0; y < r.Height; y++ {
		text := ""
		if i := y - top; i >= 0 && i < len(lines) {
			text = lines[i]
		}
		row := centre(text, r.Width)
		for _, ch := range row {
			buffer.WriteString(ansiColorString(ch, fg, bg))
		}
		buffer.WriteString("\n")
	}
	return buffer.String()
}

func centre(text string, width int) string {
	n := utf8.RuneCountInString(text)
	if n >= width {
		return string([]rune(text)[:width])
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-n-left)
}

// WrapText wraps text to a specified width
func WrapText(text string, width int) []string {
	if width < 10 {
		width = 40
	}

	var result []string
	var currentLine string
	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case utf8.RuneCountInString(currentLine)+1+utf8.RuneCountInString(word) <= width:
			currentLine += " " + word
		default:
			result = append(result, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		result = append(result, currentLine)
	}
	if len(result) == 0 {
		return []string{""}
	}
	return result
}
