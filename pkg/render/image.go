package render

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// ImageFormat selects the encoding used when writing a finished frame.
type ImageFormat int

const (
	FormatBMP ImageFormat = iota // 24-bit uncompressed, bottom-up
	FormatPNG
)

// FormatFromPath picks an image format from a file extension.
func FormatFromPath(path string) (ImageFormat, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".bmp":
		return FormatBMP, nil
	case ".png":
		return FormatPNG, nil
	default:
		return 0, fmt.Errorf("unsupported image format: %q (use .bmp or .png)", ext)
	}
}

// Encode writes the framebuffer's color plane to w.
// Colors are written opaque, so BMP output is 24 bits per pixel.
func (fb *Framebuffer) Encode(w io.Writer, format ImageFormat) error {
	img := fb.ToImage()
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xFF
	}

	switch format {
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatPNG:
		return png.Encode(w, img)
	default:
		return fmt.Errorf("unknown image format %d", format)
	}
}

// Save writes the framebuffer to path, choosing the format by extension.
func (fb *Framebuffer) Save(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	return fb.save(path, format)
}

// SaveBMP saves the framebuffer as a 24-bit BMP file.
func (fb *Framebuffer) SaveBMP(path string) error {
	return fb.save(path, FormatBMP)
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	return fb.save(path, FormatPNG)
}

func (fb *Framebuffer) save(path string, format ImageFormat) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := fb.Encode(w, format); err != nil {
		f.Close()
		return fmt.Errorf("encode image: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write image: %w", err)
	}
	return f.Close()
}
