package document

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"pdfgen/raw"
)

// docImage is an image XObject shared across the document; identical
// bytes register once.
type docImage struct {
	name          string
	ref           raw.Ref
	width, height int
}

// ImageOptions sizes a placed image. With no fields set the image is
// placed at natural size (one point per pixel).
type ImageOptions struct {
	// Width and Height scale the image; setting only one preserves the
	// aspect ratio.
	Width, Height float64
	// Scale multiplies the natural size; ignored when Width or Height
	// is set.
	Scale float64
	// Fit scales the image proportionally to fit inside a box.
	Fit *[2]float64
}

// Image places image data on the current page. JPEG data passes
// through untouched with a DCTDecode filter; PNG data is re-encoded as
// raw pixels, with the alpha channel split into a soft mask.
func (d *Document) Image(data []byte, x, y float64, opts ...ImageOptions) error {
	img, err := d.registerImage(data)
	if err != nil {
		return err
	}

	var o ImageOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	w, h := placedSize(float64(img.width), float64(img.height), o)

	p := d.Page()
	p.addXObject(img.name, img.ref)
	c := &p.content
	c.Save()
	// Image space is bottom-up with a unit square; in the flipped page
	// space the height is negated and the origin moved to the bottom.
	c.Transform(w, 0, 0, -h, x, y+h)
	c.XObject(img.name)
	c.Restore()
	return nil
}

func placedSize(nw, nh float64, o ImageOptions) (w, h float64) {
	switch {
	case o.Fit != nil:
		s := o.Fit[0] / nw
		if r := o.Fit[1] / nh; r < s {
			s = r
		}
		return nw * s, nh * s
	case o.Width > 0 && o.Height > 0:
		return o.Width, o.Height
	case o.Width > 0:
		return o.Width, nh * o.Width / nw
	case o.Height > 0:
		return nw * o.Height / nh, o.Height
	case o.Scale > 0:
		return nw * o.Scale, nh * o.Scale
	default:
		return nw, nh
	}
}

func (d *Document) registerImage(data []byte) (*docImage, error) {
	sum := sha256.Sum256(data)
	key := string(sum[:])
	if img, ok := d.images[key]; ok {
		return img, nil
	}

	var (
		img *docImage
		err error
	)
	switch {
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		img, err = d.registerJPEG(data)
	case len(data) >= 8 && bytes.Equal(data[:8], pngSignature):
		img, err = d.registerPNG(data)
	default:
		return nil, fmt.Errorf("document: image data is neither JPEG nor PNG")
	}
	if err != nil {
		return nil, err
	}
	img.name = fmt.Sprintf("Im%d", len(d.images)+1)
	d.images[key] = img
	return img, nil
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

// registerJPEG scans the marker stream for the frame header and embeds
// the file as-is under a DCTDecode filter.
func (d *Document) registerJPEG(data []byte) (*docImage, error) {
	bits, width, height, comps, err := jpegFrame(data)
	if err != nil {
		return nil, err
	}

	var space raw.Name
	decode := raw.Array(nil)
	switch comps {
	case 1:
		space = "DeviceGray"
	case 3:
		space = "DeviceRGB"
	case 4:
		space = "DeviceCMYK"
		// Adobe JPEGs store CMYK inverted.
		decode = raw.Array{
			raw.Integer(1), raw.Integer(0), raw.Integer(1), raw.Integer(0),
			raw.Integer(1), raw.Integer(0), raw.Integer(1), raw.Integer(0),
		}
	default:
		return nil, fmt.Errorf("document: jpeg has %d components", comps)
	}

	dict := raw.Dict{
		"Type":             raw.Name("XObject"),
		"Subtype":          raw.Name("Image"),
		"Width":            raw.Integer(width),
		"Height":           raw.Integer(height),
		"ColorSpace":       space,
		"BitsPerComponent": raw.Integer(bits),
		"Filter":           raw.Name("DCTDecode"),
	}
	if decode != nil {
		dict["Decode"] = decode
	}
	obj := d.w.Alloc(dict)
	if _, err := obj.Write(data); err != nil {
		return nil, err
	}
	if err := obj.End(); err != nil {
		return nil, err
	}
	return &docImage{ref: obj.Ref(), width: width, height: height}, nil
}

// jpegFrame walks the marker segments to the SOF header.
func jpegFrame(data []byte) (bits, width, height, comps int, err error) {
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			return 0, 0, 0, 0, fmt.Errorf("document: jpeg marker expected at offset %d", i)
		}
		marker := data[i+1]
		if marker == 0xFF {
			i++
			continue
		}
		if marker == 0xD8 || (marker >= 0xD0 && marker <= 0xD7) {
			i += 2
			continue
		}
		length := int(binary.BigEndian.Uint16(data[i+2:]))
		switch {
		case marker >= 0xC0 && marker <= 0xCF &&
			marker != 0xC4 && marker != 0xC8 && marker != 0xCC:
			if i+2+length > len(data) || length < 8 {
				return 0, 0, 0, 0, fmt.Errorf("document: jpeg frame header truncated")
			}
			seg := data[i+4:]
			return int(seg[0]),
				int(binary.BigEndian.Uint16(seg[3:])),
				int(binary.BigEndian.Uint16(seg[1:])),
				int(seg[5]), nil
		case marker == 0xDA:
			// start of scan without a frame header first
			return 0, 0, 0, 0, fmt.Errorf("document: jpeg has no frame header")
		}
		i += 2 + length
	}
	return 0, 0, 0, 0, fmt.Errorf("document: jpeg has no frame header")
}

// registerPNG decodes the image and writes raw samples, splitting any
// alpha channel into a DeviceGray soft mask.
func (d *Document) registerPNG(data []byte) (*docImage, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("document: decode png: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, draw.Src)

	pixels := make([]byte, 0, w*h*3)
	alpha := make([]byte, 0, w*h)
	hasAlpha := false
	for i := 0; i < w*h; i++ {
		off := i * 4
		pixels = append(pixels, nrgba.Pix[off], nrgba.Pix[off+1], nrgba.Pix[off+2])
		a := nrgba.Pix[off+3]
		alpha = append(alpha, a)
		if a < 255 {
			hasAlpha = true
		}
	}

	dict := raw.Dict{
		"Type":             raw.Name("XObject"),
		"Subtype":          raw.Name("Image"),
		"Width":            raw.Integer(w),
		"Height":           raw.Integer(h),
		"ColorSpace":       raw.Name("DeviceRGB"),
		"BitsPerComponent": raw.Integer(8),
	}
	if hasAlpha {
		mask := d.w.Alloc(raw.Dict{
			"Type":             raw.Name("XObject"),
			"Subtype":          raw.Name("Image"),
			"Width":            raw.Integer(w),
			"Height":           raw.Integer(h),
			"ColorSpace":       raw.Name("DeviceGray"),
			"BitsPerComponent": raw.Integer(8),
		})
		if _, err := mask.Write(alpha); err != nil {
			return nil, err
		}
		if err := mask.End(); err != nil {
			return nil, err
		}
		dict["SMask"] = mask.Ref()
	}

	obj := d.w.Alloc(dict)
	if _, err := obj.Write(pixels); err != nil {
		return nil, err
	}
	if err := obj.End(); err != nil {
		return nil, err
	}
	return &docImage{ref: obj.Ref(), width: w, height: h}, nil
}
