package mapsurface

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/vendor-discovery/internal/domain"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const (
	defaultCanvasWidth  = 640
	defaultCanvasHeight = 480
	maxCanvasSize       = 2048
	pinRadius           = 7
	gridStep            = 64
)

var (
	colorLand    = color.RGBA{242, 239, 233, 255}
	colorGrid    = color.RGBA{224, 220, 212, 255}
	colorPin     = color.RGBA{231, 76, 60, 255}
	colorOutline = color.RGBA{255, 255, 255, 255}
	colorText    = color.RGBA{51, 51, 51, 255}
	colorMuted   = color.RGBA{200, 200, 200, 255}
	colorPanel   = color.RGBA{90, 90, 90, 255}
)

var (
	fontOnce   sync.Once
	parsedFont *truetype.Font
	fontErr    error
)

func loadFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		parsedFont, fontErr = freetype.ParseFont(goregular.TTF)
	})
	return parsedFont, fontErr
}

func newFace(size float64) (font.Face, error) {
	f, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func clampCanvas(v int) int {
	if v > maxCanvasSize {
		return maxCanvasSize
	}
	return v
}

// renderMap draws markers over a plain web-mercator grid.
func renderMap(v domain.Viewport, markers []domain.Marker, width, height int) ([]byte, error) {
	width, height = clampCanvas(width), clampCanvas(height)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorLand), image.Point{}, draw.Src)

	for x := 0; x < width; x += gridStep {
		for y := 0; y < height; y++ {
			img.Set(x, y, colorGrid)
		}
	}
	for y := 0; y < height; y += gridStep {
		for x := 0; x < width; x++ {
			img.Set(x, y, colorGrid)
		}
	}

	face, err := newFace(12)
	if err != nil {
		return nil, err
	}
	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(colorText), Face: face}

	for _, m := range markers {
		px, py := toPixel(m.Position, v, width, height)
		if px < -pinRadius || py < -pinRadius || px > float64(width+pinRadius) || py > float64(height+pinRadius) {
			continue
		}
		drawPin(img, int(math.Round(px)), int(math.Round(py)))
		if m.Label != "" {
			drawer.Dot = fixed.P(int(px)+pinRadius+3, int(py)+4)
			drawer.DrawString(m.Label)
		}
	}

	return encodePNG(img)
}

// renderPlaceholder - заглушка вместо карты
func renderPlaceholder(message string, width, height int) ([]byte, error) {
	width, height = clampCanvas(width), clampCanvas(height)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorPanel), image.Point{}, draw.Src)

	face, err := newFace(16)
	if err != nil {
		return nil, err
	}
	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(colorMuted), Face: face}

	lines := wrap(drawer, message, width-40)
	lineHeight := 22
	y := height/2 - (len(lines)*lineHeight)/2 + 16
	for _, line := range lines {
		w := drawer.MeasureString(line).Ceil()
		drawer.Dot = fixed.P((width-w)/2, y)
		drawer.DrawString(line)
		y += lineHeight
	}

	return encodePNG(img)
}

func drawPin(img *image.RGBA, cx, cy int) {
	outer := pinRadius + 2
	for dy := -outer; dy <= outer; dy++ {
		for dx := -outer; dx <= outer; dx++ {
			d := dx*dx + dy*dy
			switch {
			case d <= pinRadius*pinRadius:
				img.Set(cx+dx, cy+dy, colorPin)
			case d <= outer*outer:
				img.Set(cx+dx, cy+dy, colorOutline)
			}
		}
	}
}

func wrap(d *font.Drawer, text string, maxWidth int) []string {
	words := strings.Fields(text)
	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if current != "" && d.MeasureString(candidate).Ceil() > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
