package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/ledongthuc/pdf"
	"golang.org/x/image/draw"
)

// maxFormDepth bounds recursion into form XObjects when looking for images.
const maxFormDepth = 3

// minOCRWidth is the width below which images are upscaled before OCR.
const minOCRWidth = 1000

var errUnsupportedImage = errors.New("unsupported image encoding")

// pageImage is an image XObject decoded to raw samples.
type pageImage struct {
	Name             string
	Width            int
	Height           int
	ColorSpace       string // DeviceGray, DeviceRGB or DeviceCMYK
	BitsPerComponent int
	Data             []byte
}

// imageXObject is an image stream found in a page's resources.
type imageXObject struct {
	name string
	v    pdf.Value
}

// findImages lists the image XObjects reachable from resources, including
// those nested in form XObjects. Names are visited in sorted order.
func findImages(resources pdf.Value, depth int) []imageXObject {
	xobjects := resources.Key("XObject")
	if xobjects.Kind() != pdf.Dict {
		return nil
	}

	var images []imageXObject
	for _, name := range xobjects.Keys() {
		x := xobjects.Key(name)
		switch x.Key("Subtype").Name() {
		case "Image":
			images = append(images, imageXObject{name: name, v: x})
		case "Form":
			if depth < maxFormDepth {
				images = append(images, findImages(x.Key("Resources"), depth+1)...)
			}
		}
	}
	return images
}

// countImages returns the number of images drawn from a page's resources.
func countImages(page pdf.Page) int {
	return len(findImages(page.Resources(), 0))
}

// decodeImage reads the samples of an image XObject. Only unfiltered,
// Flate and ASCII85 streams are decoded.
func decodeImage(x imageXObject) (img *pageImage, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("decoding image %s: %v", x.name, r)
		}
	}()

	v := x.v
	if !supportedFilters(v.Key("Filter")) {
		return nil, fmt.Errorf("image %s: %w", x.name, errUnsupportedImage)
	}

	width := int(v.Key("Width").Int64())
	height := int(v.Key("Height").Int64())
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image %s missing Width or Height", x.name)
	}

	bpc := 8
	if b := v.Key("BitsPerComponent"); b.Kind() == pdf.Integer {
		bpc = int(b.Int64())
	}
	colorSpace := "DeviceGray"
	if v.Key("ImageMask").Bool() {
		bpc = 1
	} else if cs := v.Key("ColorSpace"); cs.Kind() != pdf.Null {
		colorSpace = parseColorSpace(cs)
	}
	if colorSpace == "" {
		return nil, fmt.Errorf("image %s: %w", x.name, errUnsupportedImage)
	}

	rc := v.Reader()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image stream: %w", err)
	}

	return &pageImage{
		Name:             x.name,
		Width:            width,
		Height:           height,
		ColorSpace:       colorSpace,
		BitsPerComponent: bpc,
		Data:             data,
	}, nil
}

func supportedFilters(filter pdf.Value) bool {
	ok := func(name string) bool {
		return name == "FlateDecode" || name == "ASCII85Decode"
	}
	switch filter.Kind() {
	case pdf.Null:
		return true
	case pdf.Name:
		return ok(filter.Name())
	case pdf.Array:
		for i := 0; i < filter.Len(); i++ {
			if !ok(filter.Index(i).Name()) {
				return false
			}
		}
		return true
	}
	return false
}

// parseColorSpace maps a color space object to a device color space, or ""
// when the samples cannot be interpreted without a palette or function.
func parseColorSpace(cs pdf.Value) string {
	switch cs.Kind() {
	case pdf.Name:
		switch cs.Name() {
		case "DeviceGray", "CalGray", "G":
			return "DeviceGray"
		case "DeviceRGB", "CalRGB", "RGB":
			return "DeviceRGB"
		case "DeviceCMYK", "CMYK":
			return "DeviceCMYK"
		}
	case pdf.Array:
		switch cs.Index(0).Name() {
		case "ICCBased":
			switch cs.Index(1).Key("N").Int64() {
			case 1:
				return "DeviceGray"
			case 3:
				return "DeviceRGB"
			case 4:
				return "DeviceCMYK"
			}
		case "CalGray":
			return "DeviceGray"
		case "CalRGB":
			return "DeviceRGB"
		}
	}
	return ""
}

// PNG converts the decoded samples to PNG, upscaling small images so that
// OCR has enough pixels to work with.
func (img *pageImage) PNG() ([]byte, error) {
	var goImg image.Image
	var err error

	switch img.ColorSpace {
	case "DeviceRGB":
		goImg, err = img.toRGBImage()
	case "DeviceCMYK":
		goImg, err = img.toCMYKImage()
	default:
		goImg, err = img.toGrayImage()
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, upscale(goImg)); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// upscale enlarges images narrower than minOCRWidth by an integer factor of
// at most 4.
func upscale(src image.Image) image.Image {
	b := src.Bounds()
	if b.Dx() == 0 || b.Dx() >= minOCRWidth {
		return src
	}
	factor := (minOCRWidth + b.Dx() - 1) / b.Dx()
	if factor > 4 {
		factor = 4
	}
	if factor < 2 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func (img *pageImage) toGrayImage() (*image.Gray, error) {
	switch img.BitsPerComponent {
	case 1:
		return img.toBilevelGray()
	case 4:
		return img.to4BitGray()
	case 8:
		goImg := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
		expectedSize := img.Width * img.Height
		if len(img.Data) < expectedSize {
			return nil, fmt.Errorf("insufficient data: got %d, expected %d", len(img.Data), expectedSize)
		}
		copy(goImg.Pix, img.Data[:expectedSize])
		return goImg, nil
	default:
		return nil, fmt.Errorf("unsupported bits per component: %d", img.BitsPerComponent)
	}
}

// toBilevelGray expands 1-bit rows, MSB first; 0 is black.
func (img *pageImage) toBilevelGray() (*image.Gray, error) {
	goImg := image.NewGray(image.Rect(0, 0, img.Width, img.Height))

	bytesPerRow := (img.Width + 7) / 8
	if expectedSize := bytesPerRow * img.Height; len(img.Data) < expectedSize {
		return nil, fmt.Errorf("insufficient data for 1-bit image: got %d, expected %d", len(img.Data), expectedSize)
	}

	for y := 0; y < img.Height; y++ {
		row := img.Data[y*bytesPerRow:]
		for x := 0; x < img.Width; x++ {
			if (row[x/8]>>(7-x%8))&1 != 0 {
				goImg.Pix[y*img.Width+x] = 255
			}
		}
	}
	return goImg, nil
}

func (img *pageImage) to4BitGray() (*image.Gray, error) {
	goImg := image.NewGray(image.Rect(0, 0, img.Width, img.Height))

	bytesPerRow := (img.Width + 1) / 2
	if expectedSize := bytesPerRow * img.Height; len(img.Data) < expectedSize {
		return nil, fmt.Errorf("insufficient data for 4-bit image: got %d, expected %d", len(img.Data), expectedSize)
	}

	for y := 0; y < img.Height; y++ {
		row := img.Data[y*bytesPerRow:]
		for x := 0; x < img.Width; x++ {
			nibble := row[x/2] & 0x0F
			if x%2 == 0 {
				nibble = row[x/2] >> 4
			}
			goImg.Pix[y*img.Width+x] = nibble * 17
		}
	}
	return goImg, nil
}

func (img *pageImage) toRGBImage() (*image.RGBA, error) {
	if img.BitsPerComponent != 8 {
		return nil, fmt.Errorf("unsupported bits per component for RGB: %d", img.BitsPerComponent)
	}

	goImg := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	n := img.Width * img.Height
	if len(img.Data) < n*3 {
		return nil, fmt.Errorf("insufficient data for RGB image: got %d, expected %d", len(img.Data), n*3)
	}

	for i := 0; i < n; i++ {
		copy(goImg.Pix[i*4:i*4+3], img.Data[i*3:i*3+3])
		goImg.Pix[i*4+3] = 255
	}
	return goImg, nil
}

func (img *pageImage) toCMYKImage() (*image.RGBA, error) {
	if img.BitsPerComponent != 8 {
		return nil, fmt.Errorf("unsupported bits per component for CMYK: %d", img.BitsPerComponent)
	}

	goImg := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	n := img.Width * img.Height
	if len(img.Data) < n*4 {
		return nil, fmt.Errorf("insufficient data for CMYK image: got %d, expected %d", len(img.Data), n*4)
	}

	for i := 0; i < n; i++ {
		s := img.Data[i*4:]
		r, g, b := color.CMYKToRGB(s[0], s[1], s[2], s[3])
		goImg.Pix[i*4+0] = r
		goImg.Pix[i*4+1] = g
		goImg.Pix[i*4+2] = b
		goImg.Pix[i*4+3] = 255
	}
	return goImg, nil
}
