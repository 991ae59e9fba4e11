package pic

import (
	"fmt"

	"scipic/internal/pen"
	"scipic/internal/scierr"
)

// Point is a single (x, y) coordinate in canvas space.
type Point struct{ X, Y int }

// Encoder is the PicEncoder: a byte-buffer builder for SCI0 opcode
// streams, with low-level emitters for each primitive plus a greedy
// polyline segmenter that picks the shortest coordinate encoding.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an encoder primed with the picture header.
func NewEncoder() *Encoder {
	return &Encoder{buf: append([]byte(nil), Header[0], Header[1])}
}

// Bytes returns the accumulated opcode stream. Call End first.
func (e *Encoder) Bytes() []byte { return e.buf }

// End appends the pictureEnd opcode.
func (e *Encoder) End() {
	e.buf = append(e.buf, byte(OpPictureEnd))
}

func (e *Encoder) emit(bs ...byte) {
	e.buf = append(e.buf, bs...)
}

// EncodeAbsolute appends the 3-byte absolute coordinate encoding for
// (x, y). x, y must each fit in 12 bits (0..4095).
func (e *Encoder) EncodeAbsolute(x, y int) error {
	if x < 0 || x > 0xFFF || y < 0 || y > 0xFFF {
		return scierr.Wrap(scierr.ErrEncode, "encodeAbsolute", fmt.Errorf("coordinate (%d,%d) out of 12-bit range", x, y))
	}
	u := byte((x>>4)&0xF0) | byte((y>>8)&0x0F)
	lx := byte(x & 0xFF)
	ly := byte(y & 0xFF)
	e.emit(u, lx, ly)
	return nil
}

func (e *Encoder) appendAbsolute(x, y int) error {
	if err := e.EncodeAbsolute(x, y); err != nil {
		return err
	}
	return nil
}

// EncodeVisual appends a setVisualColor opcode selecting a palette
// index.
func (e *Encoder) EncodeVisual(colorIndex int) error {
	if colorIndex < 0 || colorIndex > 0xFF {
		return scierr.Wrap(scierr.ErrEncode, "encodeVisual", fmt.Errorf("color index %d out of byte range", colorIndex))
	}
	e.emit(byte(OpSetVisualColor), byte(colorIndex))
	return nil
}

// EncodeFill appends a single-point floodFill opcode.
func (e *Encoder) EncodeFill(x, y int) error {
	e.emit(byte(OpFloodFill))
	return e.EncodeAbsolute(x, y)
}

// EncodeFills appends one floodFill opcode covering all given seeds.
func (e *Encoder) EncodeFills(points []Point) error {
	if len(points) == 0 {
		return nil
	}
	e.emit(byte(OpFloodFill))
	for _, p := range points {
		if err := e.EncodeAbsolute(p.X, p.Y); err != nil {
			return err
		}
	}
	return nil
}

// EncodeSolidCirclePattern appends a setPattern opcode selecting a
// solid (non-textured, non-rectangular), non-textured circle stamp of
// the given size (0..7).
func (e *Encoder) EncodeSolidCirclePattern(size int) error {
	if size < 0 || size > int(patternFlagSizeMask) {
		return scierr.Wrap(scierr.ErrEncode, "encodeSolidCirclePattern", fmt.Errorf("pattern size %d out of range", size))
	}
	e.emit(byte(OpSetPattern), byte(size))
	return nil
}

// EncodePatterns appends a longPatterns opcode stamping a solid circle
// at every point (used to emit the pixel-area point lists from V7).
func (e *Encoder) EncodePatterns(points []Point) error {
	if len(points) == 0 {
		return nil
	}
	e.emit(byte(OpLongPatterns))
	for _, p := range points {
		if err := e.EncodeAbsolute(p.X, p.Y); err != nil {
			return err
		}
	}
	return nil
}

// EncodeColors appends the opcodes needed to load the given palette:
// a setEntirePalette command for every complete 40-entry bank
// (including bank 0) that differs from the SCI0 default bank, followed
// by a single sparse setPaletteEntries command for any changed slots
// in the trailing, less-than-a-full-bank remainder.
//
// Bank 0 must never be loaded through the sparse form when the palette
// spans more than one bank: the interpreter locks any bank-0 slot
// written by setPaletteEntries, and a later setVisualColor for an
// index >= 40 whose idx % BankSize slot is locked coerces down into
// that slot instead of the intended bank's pen. Routing
// bank 0 through setEntirePalette instead sets no locks, so that
// coercion never has a slot to land on incorrectly. The trailing
// remainder's indices are always >= BankSize once bank 0 is complete,
// so the interpreter's lock check (which only fires for i < BankSize)
// never applies to them.
func (e *Encoder) EncodeColors(p *pen.Palette) error {
	n := p.Size()
	fullBanks := n / pen.BankSize

	for bank := 0; bank < fullBanks; bank++ {
		base := bank * pen.BankSize
		differs := false
		for i := 0; i < pen.BankSize; i++ {
			if p.Get(base+i) != pen.DefaultBank[i] {
				differs = true
				break
			}
		}
		if !differs {
			continue
		}
		e.emit(byte(OpExtendedCommand), byte(ExtSetEntirePalette), byte(bank))
		for i := 0; i < pen.BankSize; i++ {
			e.emit(packPen(p.Get(base + i)))
		}
	}

	tailStart := fullBanks * pen.BankSize
	var sparse []int
	for i := tailStart; i < n; i++ {
		if p.Get(i) != pen.DefaultBank[i%pen.BankSize] {
			sparse = append(sparse, i)
		}
	}

	if len(sparse) > 0 {
		e.emit(byte(OpExtendedCommand), byte(ExtSetPaletteEntries))
		for _, i := range sparse {
			e.emit(byte(i), packPen(p.Get(i)))
		}
	}

	return nil
}

func packPen(pn pen.Pen) byte {
	return pn.A<<4 | pn.B&0x0F
}

// coordClass classifies a single relative step by magnitude, following
// the greedy segmentation rule: Short when both magnitudes are at most
// 6, Medium when both fit in -127..127 and the sign-magnitude y byte
// stays below the opcode range (dy >= -111), else Long.
type coordClass int

const (
	classShort coordClass = iota
	classMedium
	classLong
)

func classify(dx, dy int) coordClass {
	m := abs(dx)
	if abs(dy) > m {
		m = abs(dy)
	}
	switch {
	case m < 7:
		return classShort
	case m < 128 && dy > -112:
		return classMedium
	default:
		return classLong
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func encodeShortByte(dx, dy int) (byte, error) {
	if dx < -7 || dx > 7 || dy < -7 || dy > 7 {
		return 0, scierr.Wrap(scierr.ErrEncode, "encodeShort", fmt.Errorf("delta (%d,%d) exceeds short range", dx, dy))
	}
	var b byte
	if dx < 0 {
		b |= 0x80 | byte(-dx)<<4
	} else {
		b |= byte(dx) << 4
	}
	if dy < 0 {
		b |= 0x08 | byte(-dy)
	} else {
		b |= byte(dy)
	}
	if b >= CommandThreshold {
		return 0, scierr.Wrap(scierr.ErrEncode, "encodeShort", fmt.Errorf("short byte 0x%02x collides with opcode space", b))
	}
	return b, nil
}

func encodeMediumBytes(dx, dy int) (byte, byte, error) {
	if dy < -127 || dy > 127 || dx < -127 || dx > 127 {
		return 0, 0, scierr.Wrap(scierr.ErrEncode, "encodeMedium", fmt.Errorf("delta (%d,%d) exceeds medium range", dx, dy))
	}
	var by byte
	if dy < 0 {
		by = 0x80 | byte(-dy)
	} else {
		by = byte(dy)
	}
	if by >= CommandThreshold {
		return 0, 0, scierr.Wrap(scierr.ErrEncode, "encodeMedium", fmt.Errorf("medium y-byte 0x%02x collides with opcode space", by))
	}
	bx := byte(int8(dx))
	return by, bx, nil
}

// EncodeMultiLine appends the opcode(s) drawing the polyline through
// points, greedily grouping consecutive steps of the same coordinate
// class into a single shortRelativeLines/mediumRelativeLines/longLines
// run, each opened with an absolute anchor.
func (e *Encoder) EncodeMultiLine(points []Point) error {
	if len(points) < 2 {
		return nil
	}

	i := 0
	for i < len(points)-1 {
		cls := classify(points[i+1].X-points[i].X, points[i+1].Y-points[i].Y)

		switch cls {
		case classShort:
			e.emit(byte(OpShortRelativeLines))
		case classMedium:
			e.emit(byte(OpMediumRelativeLines))
		case classLong:
			e.emit(byte(OpLongLines))
		}
		if err := e.appendAbsolute(points[i].X, points[i].Y); err != nil {
			return err
		}

		j := i
		for j < len(points)-1 && classify(points[j+1].X-points[j].X, points[j+1].Y-points[j].Y) == cls {
			dx := points[j+1].X - points[j].X
			dy := points[j+1].Y - points[j].Y
			switch cls {
			case classShort:
				b, err := encodeShortByte(dx, dy)
				if err != nil {
					return err
				}
				e.emit(b)
			case classMedium:
				by, bx, err := encodeMediumBytes(dx, dy)
				if err != nil {
					return err
				}
				e.emit(by, bx)
			case classLong:
				if err := e.appendAbsolute(points[j+1].X, points[j+1].Y); err != nil {
					return err
				}
			}
			j++
		}
		i = j
	}
	return nil
}
