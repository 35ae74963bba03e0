package texture

import (
	"errors"
	"fmt"
	"image"
)

// ErrTGA reports TGA data this decoder cannot read.
var ErrTGA = errors.New("unsupported or corrupt TGA")

// TGA image types handled by decodeTGA.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
	tgaHeaderSize   = 18
)

// decodeTGA decodes uncompressed and RLE true-colour TGA images with 24 or
// 32 bits per pixel. TGA has no magic number, so it is selected by file
// extension rather than registered with image.RegisterFormat.
func decodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: %d byte header", ErrTGA, len(data))
	}
	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: colour-mapped", ErrTGA)
	}
	if imageType != tgaTrueColor && imageType != tgaTrueColorRLE {
		return nil, fmt.Errorf("%w: image type %d", ErrTGA, imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrTGA, bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: empty %dx%d image", ErrTGA, width, height)
	}
	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: truncated id field", ErrTGA)
	}

	px := &tgaPixels{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		bpp:         bpp / 8,
		total:       width * height,
		topToBottom: topToBottom,
	}
	var err error
	if imageType == tgaTrueColor {
		err = px.raw(px.total)
	} else {
		err = px.rle()
	}
	if err != nil {
		return nil, err
	}
	return px.img, nil
}

// tgaPixels writes BGR(A) source pixels into img in file order.
type tgaPixels struct {
	img         *image.RGBA
	src         []byte
	pos         int // read offset into src
	bpp         int
	n           int // pixels written
	total       int
	topToBottom bool
}

func (p *tgaPixels) next() ([4]byte, error) {
	if p.pos+p.bpp > len(p.src) {
		return [4]byte{}, fmt.Errorf("%w: pixel data truncated at %d/%d", ErrTGA, p.n, p.total)
	}
	s := p.src[p.pos:]
	c := [4]byte{s[2], s[1], s[0], 255}
	if p.bpp == 4 {
		c[3] = s[3]
	}
	p.pos += p.bpp
	return c, nil
}

func (p *tgaPixels) put(c [4]byte) {
	w := p.img.Rect.Dx()
	x, y := p.n%w, p.n/w
	if !p.topToBottom {
		y = p.img.Rect.Dy() - 1 - y
	}
	copy(p.img.Pix[p.img.PixOffset(x, y):], c[:])
	p.n++
}

func (p *tgaPixels) raw(count int) error {
	for i := 0; i < count && p.n < p.total; i++ {
		c, err := p.next()
		if err != nil {
			return err
		}
		p.put(c)
	}
	return nil
}

func (p *tgaPixels) rle() error {
	for p.n < p.total {
		if p.pos >= len(p.src) {
			return fmt.Errorf("%w: RLE data truncated at %d/%d", ErrTGA, p.n, p.total)
		}
		header := p.src[p.pos]
		p.pos++
		count := int(header&0x7F) + 1

		if header&0x80 == 0 {
			if err := p.raw(count); err != nil {
				return err
			}
			continue
		}
		c, err := p.next()
		if err != nil {
			return err
		}
		for i := 0; i < count && p.n < p.total; i++ {
			p.put(c)
		}
	}
	return nil
}
