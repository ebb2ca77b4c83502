package renderer

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Format is an output image encoding
type Format string

const (
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
	FormatPPM Format = "ppm" // binary P6
)

// Formats lists the supported output encodings
var Formats = []Format{FormatPNG, FormatBMP, FormatPPM}

// ParseFormat resolves a format name, case-insensitively
func ParseFormat(name string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimPrefix(name, ".")))
	for _, known := range Formats {
		if format == known {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown image format %q (want png, bmp or ppm)", name)
}

// FormatFromPath infers the format from a file extension
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("no file extension in %q", path)
	}
	return ParseFormat(ext)
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatPPM:
		return EncodePPM(w, img)
	default:
		return fmt.Errorf("unknown image format %q", format)
	}
}

// EncodePPM writes img as a binary (P6) PPM with 8-bit channels, rows top first
func EncodePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}

	row := make([]byte, 0, 3*bounds.Dx())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row = row[:0]
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			row = append(row, byte(r>>8), byte(g>>8), byte(b>>8))
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// SaveImage encodes img to path, creating parent directories as needed
func SaveImage(path string, img image.Image, format Format) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()

	if err := Encode(file, img, format); err != nil {
		return fmt.Errorf("encoding %s as %s: %w", path, format, err)
	}
	return nil
}
