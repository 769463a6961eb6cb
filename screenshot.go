package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// maxFrameWidth keeps attachments well under Discord's upload limit.
const maxFrameWidth = 1920

// frameSource supplies the picture attached to a notification.
type frameSource interface {
	Frame() (image.Image, error)
}

// fileFrame reads the newest frame the game client wrote to disk.
type fileFrame struct {
	path string
}

func (f fileFrame) Frame() (image.Image, error) {
	r, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %v: %w", f.path, err)
	}
	return scaleFrame(img), nil
}

func scaleFrame(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxFrameWidth {
		return img
	}
	h := b.Dy() * maxFrameWidth / b.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, maxFrameWidth, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

var (
	cardBackground = color.RGBA{0x2b, 0x2d, 0x31, 0xff}
	cardForeground = color.RGBA{0xf2, 0xf3, 0xf5, 0xff}
)

const (
	cardFontSize = 18
	cardPadding  = 16
)

// cardFrame renders the notification text when no game frame is available.
type cardFrame struct {
	text string
}

func (c cardFrame) Frame() (image.Image, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: cardFontSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	defer face.Close()

	lines := strings.Split(c.text, "\n")
	metrics := face.Metrics()
	lineH := metrics.Height.Ceil()
	w := 0
	for _, l := range lines {
		if lw := font.MeasureString(face, l).Ceil(); lw > w {
			w = lw
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, w+2*cardPadding, lineH*len(lines)+2*cardPadding))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(cardBackground), image.Point{}, xdraw.Src)

	d := &font.Drawer{Dst: img, Src: image.NewUniform(cardForeground), Face: face}
	for i, l := range lines {
		d.Dot = fixed.P(cardPadding, cardPadding+metrics.Ascent.Ceil()+i*lineH)
		d.DrawString(l)
	}
	return img, nil
}

// captureFrame returns PNG bytes from src, falling back to a rendered card
// of text when the capture fails.
func captureFrame(src frameSource, text string) ([]byte, error) {
	var img image.Image
	if src != nil {
		var err error
		if img, err = src.Frame(); err != nil {
			logWarn("screenshot: %v", err)
			img = nil
		}
	}
	if img == nil {
		var err error
		if img, err = (cardFrame{text: text}).Frame(); err != nil {
			return nil, fmt.Errorf("render card: %w", err)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// saveScreenshot keeps a copy of a sent frame under the data directory.
func saveScreenshot(player string, data []byte) {
	dir := filepath.Join(dataDirPath, "Screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logError("screenshot: create %v: %v", dir, err)
		return
	}
	ts := time.Now().Format("2006-01-02-15-04-05")
	name := "slayer"
	if player != "" {
		name = player
	}
	fn := filepath.Join(dir, fmt.Sprintf("%v__%s.png", name, ts))
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		logError("screenshot: write %v: %v", fn, err)
		return
	}
	logDebug("snapshot saved: %s", filepath.Base(fn))
}
