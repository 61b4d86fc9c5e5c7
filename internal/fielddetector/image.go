package fielddetector

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// prepareImage returns the PNG bytes uploaded to the service. Screenshots in
// another format are converted; a resize factor other than 1 scales the picture.
func prepareImage(data []byte, resize float64) ([]byte, error) {
	if resize <= 0 {
		return nil, fmt.Errorf("invalid resize factor %v", resize)
	}
	if resize == 1 && bytes.HasPrefix(data, pngSignature) {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if resize != 1 {
		img = scaleImage(img, resize)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func scaleImage(src image.Image, factor float64) image.Image {
	b := src.Bounds()
	w := max(1, int(math.Round(float64(b.Dx())*factor)))
	h := max(1, int(math.Round(float64(b.Dy())*factor)))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// LoadImage decodes any supported screenshot format into RGBA.
func LoadImage(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba, nil
}

func unscale(v int, factor float64) int {
	return int(math.Round(float64(v) / factor))
}

func (l Label) unscaled(factor float64) Label {
	l.Left = unscale(l.Left, factor)
	l.Right = unscale(l.Right, factor)
	l.Top = unscale(l.Top, factor)
	l.Bottom = unscale(l.Bottom, factor)
	l.Width = unscale(l.Width, factor)
	l.Height = unscale(l.Height, factor)
	return l
}

func (f Field) unscaled(factor float64) Field {
	f.Label = f.Label.unscaled(factor)
	if f.Related != nil {
		related := f.Related.unscaled(factor)
		f.Related = &related
	}
	return f
}

// unscaled maps coordinates detected on a picture resized by factor back to
// the original picture.
func (d Detection) unscaled(factor float64) Detection {
	if factor == 1 {
		return d
	}
	out := Detection{
		Fields: make([]Field, len(d.Fields)),
		Labels: make([]Label, len(d.Labels)),
	}
	for i, f := range d.Fields {
		out.Fields[i] = f.unscaled(factor)
	}
	for i, l := range d.Labels {
		out.Labels[i] = l.unscaled(factor)
	}
	return out
}
