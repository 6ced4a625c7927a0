package render

import (
	"fmt"
	"math"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Glyphs below this pixel size are unreadable and are not drawn.
const minTextPixels = 4

var (
	monoOnce sync.Once
	mono     *truetype.Font
	monoErr  error
)

func monoFont() (*truetype.Font, error) {
	monoOnce.Do(func() {
		mono, monoErr = truetype.Parse(gomono.TTF)
		if monoErr != nil {
			monoErr = fmt.Errorf("failed to parse font: %v", monoErr)
		}
	})
	return mono, monoErr
}

// faceCache holds faces by whole-pixel size. Faces keep glyph caches and
// must not be shared between goroutines, so each Renderer owns one.
type faceCache map[int]font.Face

func (c faceCache) face(size float64) (font.Face, error) {
	px := int(math.Round(size))
	if f, ok := c[px]; ok {
		return f, nil
	}
	ttf, err := monoFont()
	if err != nil {
		return nil, err
	}
	f := truetype.NewFace(ttf, &truetype.Options{
		Size:    float64(px),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	c[px] = f
	return f, nil
}
