package analysis

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/bhecquet/seleniumRobot-sub010/internal/fielddetector"
)

var missingColor = color.RGBA{R: 255, A: 255}

// AnnotatedPath is where the marked copy of a reference picture is written.
func AnnotatedPath(referencePath string) string {
	return strings.TrimSuffix(referencePath, filepath.Ext(referencePath)) + ".annotated.png"
}

// AnnotateMissing writes a copy of the reference picture where missing labels
// are underlined and missing fields are boxed in red. It returns the copy path.
func AnnotateMissing(referencePath string, labels []fielddetector.Label, fields []fielddetector.Field) (string, error) {
	img, err := fielddetector.LoadImage(referencePath)
	if err != nil {
		return "", fmt.Errorf("load reference: %w", err)
	}

	for _, l := range labels {
		y := l.Top + l.Height
		drawLine(img, l.Left, l.Left+l.Width, y, missingColor)
	}
	for _, f := range fields {
		l := f.Label
		drawRectangle(img, l.Left, l.Top, l.Left+l.Width, l.Top+l.Height, missingColor)
		if f.ClassName != "" && l.Top >= 13 {
			drawText(img, f.ClassName, l.Left, l.Top-2, missingColor)
		}
	}

	out := AnnotatedPath(referencePath)
	file, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", out, err)
	}
	defer func() { _ = file.Close() }()
	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encode %s: %w", out, err)
	}
	return out, nil
}

// drawLine draws a horizontal line, both ends included.
func drawLine(img *image.RGBA, x1, x2, y int, c color.Color) {
	b := img.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	for x := max(x1, b.Min.X); x <= min(x2, b.Max.X-1); x++ {
		img.Set(x, y, c)
	}
}

// drawRectangle draws a rectangle outline, corners (x2, y2) included.
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	drawLine(img, x1, x2, y1, c)
	drawLine(img, x1, x2, y2, c)

	b := img.Bounds()
	for y := max(y1, b.Min.Y); y <= min(y2, b.Max.Y-1); y++ {
		if x1 >= b.Min.X && x1 < b.Max.X {
			img.Set(x1, y, c)
		}
		if x2 >= b.Min.X && x2 < b.Max.X {
			img.Set(x2, y, c)
		}
	}
}

// drawText writes text with its baseline at (x, y).
func drawText(img *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
