// Package qr renders printable QR labels for containers: the code encodes
// the container's URL, with the container name drawn beneath it.
package qr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/homeqr/server/cache"
	"github.com/homeqr/server/config"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	codeSize  = 320 // rendered QR square, px
	padTop    = 24
	padBottom = 48 // extra whitespace below the label for cutting
	textGap   = 12
	lineGap   = 6
	cacheTTL  = 24 * time.Hour
)

// Generator renders, caches and stores container label PNGs.
type Generator struct {
	baseURL string
	dir     string
	cache   cache.Cache
	logger  *zap.Logger
}

// NewGenerator creates a Generator. The label directory is created if
// missing.
func NewGenerator(cfg config.QRConfig, c cache.Cache, logger *zap.Logger) (*Generator, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	return &Generator{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		dir:     cfg.Dir,
		cache:   c,
		logger:  logger,
	}, nil
}

// ContainerURL is the address encoded into a container's QR code.
func (g *Generator) ContainerURL(id string) string {
	return fmt.Sprintf("%s/container/%s", g.baseURL, id)
}

// LabelPNG returns the label image for a container, from cache when the
// name has not changed since the last render.
func (g *Generator) LabelPNG(ctx context.Context, id, name string) ([]byte, error) {
	key := cacheKey(id, name)
	if cached, err := g.cache.Get(ctx, key); err == nil {
		return []byte(cached), nil
	}

	data, err := renderLabel(g.ContainerURL(id), name)
	if err != nil {
		return nil, err
	}
	if err := g.cache.Set(ctx, key, string(data), cacheTTL); err != nil {
		g.logger.Warn("qr cache set failed", zap.String("container_id", id), zap.Error(err))
	}
	return data, nil
}

// SaveLabel writes the label PNG into the label directory for printing.
func (g *Generator) SaveLabel(ctx context.Context, id, name string) error {
	data, err := g.LabelPNG(ctx, id, name)
	if err != nil {
		return err
	}
	return os.WriteFile(g.labelPath(id), data, 0o644)
}

// RemoveLabel deletes a container's label file. Filesystem errors are
// logged and ignored; a leftover PNG is harmless and the prune task sweeps
// it up eventually.
func (g *Generator) RemoveLabel(id string) {
	if err := os.Remove(g.labelPath(id)); err != nil && !os.IsNotExist(err) {
		g.logger.Warn("qr label remove failed", zap.String("container_id", id), zap.Error(err))
	}
}

func (g *Generator) labelPath(id string) string {
	return filepath.Join(g.dir, id+".png")
}

func cacheKey(id, name string) string {
	// The name is part of the key, so renames miss the cache and old
	// entries age out by TTL.
	return "qrlabel:" + id + ":" + name
}

// renderLabel draws the QR code with the container name centered beneath,
// word-wrapped to roughly 1.3× the code width.
func renderLabel(url, label string) ([]byte, error) {
	code, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	qrImg := code.Image(codeSize)
	qrW := qrImg.Bounds().Dx()
	qrH := qrImg.Bounds().Dy()

	face := basicfont.Face7x13
	lines := wrapLabel(strings.TrimSpace(label), face, qrW*13/10)

	lineHeight := face.Metrics().Height.Ceil()
	textW := 0
	for _, ln := range lines {
		if w := font.MeasureString(face, ln).Ceil(); w > textW {
			textW = w
		}
	}
	textH := lineHeight*len(lines) + lineGap*(len(lines)-1)

	outW := qrW + 2*padTop
	if w := textW + 2*padTop; w > outW {
		outW = w
	}
	outH := padTop + qrH + textGap + textH + padBottom

	canvas := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect((outW-qrW)/2, padTop, (outW-qrW)/2+qrW, padTop+qrH), qrImg, qrImg.Bounds().Min, draw.Src)

	y := padTop + qrH + textGap + face.Metrics().Ascent.Ceil()
	for _, ln := range lines {
		w := font.MeasureString(face, ln).Ceil()
		d := font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(color.Black),
			Face: face,
			Dot:  fixed.P((outW-w)/2, y),
		}
		d.DrawString(ln)
		y += lineHeight + lineGap
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// wrapLabel breaks the label into lines no wider than maxWidth. A word too
// long for a line of its own still gets one.
func wrapLabel(label string, face font.Face, maxWidth int) []string {
	if label == "" {
		return []string{""}
	}
	var lines []string
	line := ""
	for _, word := range strings.Fields(label) {
		candidate := strings.TrimSpace(line + " " + word)
		if font.MeasureString(face, candidate).Ceil() <= maxWidth || line == "" {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
