package fielddetector

import (
	"fmt"
	"image"
)

// Field class names the error cause finder looks for.
const (
	ClassErrorMessage = "error_message"
	ClassErrorField   = "error_field"
)

// maxRelatedDepth bounds how many nested related_field objects are followed
// when decoding a detection response.
const maxRelatedDepth = 8

// Field is a detected UI region tagged with a class, such as an input box,
// a radio button or an error message. Related points to the field attached to
// this one (the input box of a labelled field, for instance).
type Field struct {
	ClassName string `json:"class_name,omitempty"`
	ClassID   int    `json:"class_id"`
	WithLabel bool   `json:"with_label"`
	Label     Label  `json:"label"`
	Related   *Field `json:"related_field,omitempty"`
}

// NewField builds a field without related field.
func NewField(left, right, top, bottom int, text, className string) Field {
	return Field{
		ClassName: className,
		Label:     NewLabel(left, right, top, bottom, text),
	}
}

// Equal compares class name and label (box and text).
func (f Field) Equal(other Field) bool {
	return f.ClassName == other.ClassName && f.Label == other.Label
}

// Match reports whether other is the same field seen on another picture.
func (f Field) Match(other Field) bool {
	return f.ClassName != "" && f.ClassName == other.ClassName && f.Label.Match(other.Label)
}

// Rectangle returns the field box.
func (f Field) Rectangle() image.Rectangle {
	return f.Label.Rectangle()
}

// InnerRectangle returns the related field box when there is one.
func (f Field) InnerRectangle() image.Rectangle {
	if f.Related != nil {
		return f.Related.Rectangle()
	}
	return f.Rectangle()
}

// Moved returns a copy of f translated by (dx, dy), related field included.
func (f Field) Moved(dx, dy int) Field {
	f.Label = f.Label.Moved(dx, dy)
	if f.Related != nil {
		related := f.Related.Moved(dx, dy)
		f.Related = &related
	}
	return f
}

// String gives the class, the text and the box, for instance
// "field[text=Name]: [x=0,y=10,width=100,height=20]".
func (f Field) String() string {
	l := f.Label
	return fmt.Sprintf("%s[text=%s]: [x=%d,y=%d,width=%d,height=%d]", f.ClassName, l.Text, l.Left, l.Top, l.Width, l.Height)
}
