package imageio

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
)

const ppmMagic = "P6"

// Header limits keep a hostile header from forcing a huge allocation
const (
	maxPPMDimension = 1 << 15
	maxPPMPixels    = 1 << 25
	maxPPMValue     = 65535
	maxPPMToken     = 32
)

func init() {
	image.RegisterFormat("ppm", ppmMagic, DecodePPM, DecodePPMConfig)
}

// EncodePPM writes img as a binary (P6) portable pixmap with 8-bit channels.
// Alpha is dropped.
func EncodePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n255\n", ppmMagic, bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}

	row := make([]byte, 0, 3*bounds.Dx())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row = row[:0]
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			row = append(row, c.R, c.G, c.B)
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// DecodePPMConfig reads the dimensions of a P6 pixmap
func DecodePPMConfig(r io.Reader) (image.Config, error) {
	width, height, _, err := readPPMHeader(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBAModel, Width: width, Height: height}, nil
}

// DecodePPM reads a P6 pixmap with a maximum channel value of 255
func DecodePPM(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	width, height, maxValue, err := readPPMHeader(br)
	if err != nil {
		return nil, err
	}
	if maxValue != 255 {
		return nil, fmt.Errorf("ppm: unsupported max value %d", maxValue)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := make([]byte, 3*width)
	for y := 0; y < height; y++ {
		if _, err := io.ReadFull(br, row); err != nil {
			return nil, fmt.Errorf("ppm: short pixel data: %w", err)
		}
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: row[3*x], G: row[3*x+1], B: row[3*x+2], A: 255})
		}
	}

	return img, nil
}

// readPPMHeader parses "P6 <width> <height> <max>" followed by one whitespace byte.
// Comment lines starting with '#' are skipped.
func readPPMHeader(br *bufio.Reader) (width, height, maxValue int, err error) {
	magic, err := readPPMToken(br)
	if err != nil {
		return 0, 0, 0, err
	}
	if magic != ppmMagic {
		return 0, 0, 0, fmt.Errorf("ppm: bad magic %q", magic)
	}

	values := make([]int, 3)
	for i := range values {
		token, err := readPPMToken(br)
		if err != nil {
			return 0, 0, 0, err
		}
		if _, err := fmt.Sscanf(token, "%d", &values[i]); err != nil || values[i] <= 0 {
			return 0, 0, 0, fmt.Errorf("ppm: bad header value %q", token)
		}
	}

	width, height, maxValue = values[0], values[1], values[2]
	if width > maxPPMDimension || height > maxPPMDimension || width*height > maxPPMPixels {
		return 0, 0, 0, fmt.Errorf("ppm: image too large (%dx%d)", width, height)
	}
	if maxValue > maxPPMValue {
		return 0, 0, 0, fmt.Errorf("ppm: bad max value %d", maxValue)
	}

	return width, height, maxValue, nil
}

// readPPMToken returns the next whitespace-delimited header token and consumes
// the single whitespace byte that terminates it
func readPPMToken(br *bufio.Reader) (string, error) {
	var token []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			return "", fmt.Errorf("ppm: truncated header: %w", err)
		}

		switch {
		case b == '#' && len(token) == 0:
			if _, err := br.ReadString('\n'); err != nil {
				return "", fmt.Errorf("ppm: truncated comment: %w", err)
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			if len(token) > 0 {
				return string(token), nil
			}
		default:
			if len(token) == maxPPMToken {
				return "", fmt.Errorf("ppm: header token too long")
			}
			token = append(token, b)
		}
	}
}
