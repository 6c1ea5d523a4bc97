package imageio

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format identifies an image encoding
type Format string

const (
	FormatPNG  Format = "png"
	FormatPPM  Format = "ppm"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// Compression identifies an optional stream wrapper around the encoded image
type Compression string

const (
	CompressionNone   Compression = ""
	CompressionZstd   Compression = "zst"
	CompressionSnappy Compression = "sz"
)

var formatsByExtension = map[string]Format{
	".png":  FormatPNG,
	".ppm":  FormatPPM,
	".bmp":  FormatBMP,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
}

// ParsePath derives the image format and compression from a file name such
// as "render.png" or "render.ppm.zst"
func ParsePath(path string) (Format, Compression, error) {
	name := strings.ToLower(filepath.Base(path))
	compression := CompressionNone

	switch ext := filepath.Ext(name); ext {
	case ".zst":
		compression = CompressionZstd
		name = strings.TrimSuffix(name, ext)
	case ".sz":
		compression = CompressionSnappy
		name = strings.TrimSuffix(name, ext)
	}

	format, ok := formatsByExtension[filepath.Ext(name)]
	if !ok {
		return "", "", fmt.Errorf("unsupported image extension in %q (want .png, .ppm, .bmp, .tif or .tiff, optionally with .zst or .sz)", path)
	}
	return format, compression, nil
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatPPM:
		err = EncodePPM(w, img)
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// Save writes img to path, choosing the encoder and compression from the file name
func Save(path string, img image.Image) error {
	format, compression, err := ParsePath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if err := writeCompressed(file, img, format, compression); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close image file: %w", err)
	}
	return nil
}

// writeCompressed encodes img through the compression stream and flushes it
func writeCompressed(w io.Writer, img image.Image, format Format, compression Compression) error {
	var stream io.WriteCloser
	switch compression {
	case CompressionNone:
		return Encode(w, img, format)
	case CompressionZstd:
		encoder, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("failed to create zstd stream: %w", err)
		}
		stream = encoder
	case CompressionSnappy:
		stream = snappy.NewBufferedWriter(w)
	default:
		return fmt.Errorf("unsupported compression %q", compression)
	}

	if err := Encode(stream, img, format); err != nil {
		stream.Close()
		return err
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to flush %s stream: %w", compression, err)
	}
	return nil
}

// Load decodes an image written by Save, undoing any compression suffix
func Load(path string) (image.Image, error) {
	_, compression, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	switch compression {
	case CompressionZstd:
		decoder, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd stream: %w", err)
		}
		defer decoder.Close()
		r = decoder
	case CompressionSnappy:
		r = snappy.NewReader(file)
	}

	// Format is detected from the stream header; bmp and tiff register themselves on import
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// EncodePNGBase64 encodes img as PNG and returns it base64 encoded
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
