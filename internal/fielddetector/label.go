package fielddetector

import (
	"image"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// labelTextThreshold is the Jaro-Winkler similarity above which two label
// texts are the same text read twice.
const labelTextThreshold = 0.9

var jaroWinkler = metrics.NewJaroWinkler()

// TextSimilarity returns the Jaro-Winkler similarity of a and b, in [0, 1].
func TextSimilarity(a, b string) float64 {
	return strutil.Similarity(a, b, jaroWinkler)
}

// Label is a detected text region. Coordinates are screenshot pixels.
// An empty Text means the region carries no text.
type Label struct {
	Left   int    `json:"left"`
	Right  int    `json:"right"`
	Top    int    `json:"top"`
	Bottom int    `json:"bottom"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Text   string `json:"text,omitempty"`
}

// NewLabel builds a label from its edges, deriving width and height.
func NewLabel(left, right, top, bottom int, text string) Label {
	return Label{
		Left:   left,
		Right:  right,
		Top:    top,
		Bottom: bottom,
		Width:  right - left,
		Height: bottom - top,
		Text:   text,
	}
}

// Rectangle returns the label box.
func (l Label) Rectangle() image.Rectangle {
	return image.Rect(l.Left, l.Top, l.Left+l.Width, l.Top+l.Height)
}

// Center returns the integer center of the box.
func (l Label) Center() image.Point {
	return image.Pt((l.Left+l.Right)/2, (l.Top+l.Bottom)/2)
}

// Contains reports whether inner lies entirely inside l. Edges are inclusive,
// so a label sharing a border with l is still contained; a partial overlap is not.
func (l Label) Contains(inner Label) bool {
	return inner.Left >= l.Left &&
		inner.Right <= l.Right &&
		inner.Top >= l.Top &&
		inner.Bottom <= l.Bottom
}

// CenterInside reports whether the center of l lies strictly inside outer.
func (l Label) CenterInside(outer Label) bool {
	c := l.Center()
	return c.X > outer.Left && c.X < outer.Right &&
		c.Y > outer.Top && c.Y < outer.Bottom
}

// IsFieldRightOf reports whether field's center is right of l's center and
// vertically within l.
func (l Label) IsFieldRightOf(field Field) bool {
	fc := field.Label.Center()
	return l.Center().X < fc.X && fc.Y > l.Top && fc.Y < l.Bottom
}

// IsFieldLeftOf is the mirror of IsFieldRightOf.
func (l Label) IsFieldLeftOf(field Field) bool {
	fc := field.Label.Center()
	return l.Center().X > fc.X && fc.Y > l.Top && fc.Y < l.Bottom
}

// IsFieldAbove reports whether field's center is above l's center and
// horizontally within l.
func (l Label) IsFieldAbove(field Field) bool {
	fc := field.Label.Center()
	return l.Center().Y > fc.Y && fc.X > l.Left && fc.X < l.Right
}

// IsFieldBelow is the mirror of IsFieldAbove.
func (l Label) IsFieldBelow(field Field) bool {
	fc := field.Label.Center()
	return l.Center().Y < fc.Y && fc.X > l.Left && fc.X < l.Right
}

// Moved returns a copy of l translated by (dx, dy).
func (l Label) Moved(dx, dy int) Label {
	l.Left += dx
	l.Top += dy
	l.Right = l.Left + l.Width
	l.Bottom = l.Top + l.Height
	return l
}

// Match reports whether other is the same label seen on another picture.
// Texts must be equal or close (Jaro-Winkler above 0.9) and l's center must
// lie inside other. When neither label has text only the position counts.
func (l Label) Match(other Label) bool {
	switch {
	case l.Text == "" && other.Text == "":
	case l.Text == "" || other.Text == "":
		return false
	case l.Text != other.Text && TextSimilarity(l.Text, other.Text) <= labelTextThreshold:
		return false
	}
	return l.CenterInside(other)
}
