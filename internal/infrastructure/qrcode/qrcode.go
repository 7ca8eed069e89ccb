// Package qrcode renders property access links as PNG data URLs.
package qrcode

import (
	"encoding/base64"
	"fmt"

	qr "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels.
const DefaultSize = 400

// Generator encodes text into QR code images.
type Generator struct {
	size int
}

func NewGenerator(size int) *Generator {
	if size <= 0 {
		size = DefaultSize
	}
	return &Generator{size: size}
}

// DataURL returns content as a base64 PNG data URL.
func (g *Generator) DataURL(content string) (string, error) {
	png, err := qr.Encode(content, qr.Medium, g.size)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
