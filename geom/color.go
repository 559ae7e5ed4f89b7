package geom

// Color is a linear RGB color, each channel in 0..1.
type Color struct {
	R, G, B Element
}

func NewColorHex(hex uint32) *Color {
	return &Color{
		R: Element(hex>>16&0xff) / 255,
		G: Element(hex>>8&0xff) / 255,
		B: Element(hex&0xff) / 255,
	}
}

func (c *Color) Lerp(c2 *Color, t Element) *Color {
	return &Color{
		R: c.R + (c2.R-c.R)*t,
		G: c.G + (c2.G-c.G)*t,
		B: c.B + (c2.B-c.B)*t,
	}
}

func (c *Color) Invert() *Color {
	return &Color{R: 1 - c.R, G: 1 - c.G, B: 1 - c.B}
}
