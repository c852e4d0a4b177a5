package stage

import "image/color"

// pickColorCodec maps dense pick ids to RGB colors and back. Each channel
// carries bits significant bits stored in the top of the byte; the unused
// low bits hold the midpoint pattern so that small rounding by a GPU
// pipeline still decodes to the same id. Id 0 is the background.
type pickColorCodec struct {
	bits  uint
	debug bool
}

func newPickColorCodec(bits int, debug bool) pickColorCodec {
	if bits < 1 || bits > 8 {
		bits = DefaultPickColorBits
	}
	return pickColorCodec{bits: uint(bits), debug: debug}
}

// capacity returns the largest encodable id.
func (c pickColorCodec) capacity() uint32 {
	return uint32(1)<<(3*c.bits) - 1
}

func (c pickColorCodec) mask() uint32 {
	return uint32(1)<<c.bits - 1
}

// encode returns the opaque color for id. Ids above capacity wrap, so
// callers must check capacity first.
func (c pickColorCodec) encode(id uint32) color.RGBA {
	m := c.mask()
	b := id & m
	g := (id >> c.bits) & m
	r := (id >> (2 * c.bits)) & m
	return color.RGBA{
		R: c.channel(r),
		G: c.channel(g),
		B: c.channel(b),
		A: 0xff,
	}
}

func (c pickColorCodec) channel(v uint32) uint8 {
	ch := uint8(v<<(8-c.bits)) | uint8(0x7f>>c.bits)
	if c.debug {
		ch = ^ch
	}
	return ch
}

// decode returns the id stored in col.
func (c pickColorCodec) decode(col color.RGBA) uint32 {
	r, g, b := col.R, col.G, col.B
	if c.debug {
		r, g, b = ^r, ^g, ^b
	}
	shift := 8 - c.bits
	return uint32(r>>shift)<<(2*c.bits) |
		uint32(g>>shift)<<c.bits |
		uint32(b>>shift)
}

// background returns the color of id 0.
func (c pickColorCodec) background() color.RGBA {
	return c.encode(0)
}
