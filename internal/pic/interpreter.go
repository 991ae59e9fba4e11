package pic

import (
	"fmt"

	"scipic/internal/ega"
	"scipic/internal/pen"
	"scipic/internal/raster"
	"scipic/internal/scierr"
)

// Header is the two-byte prefix every valid SCI0 picture resource
// begins with.
var Header = [2]byte{0x81, 0x00}

// Interpreter is the PicInterpreter opcode state machine: a stateful
// bytecode decoder that rasterizes an SCI0 picture opcode stream onto a
// 320x190 EGA-indexed framebuffer.
type Interpreter struct {
	data []byte
	pos  int

	fb            *raster.Raster
	visualEnabled bool
	color         pen.Pen
	patternFlags  uint8

	palette *pen.Palette
	locked  map[int]bool
}

// New constructs an interpreter for the given opcode stream. The
// framebuffer starts cleared to EGA background (0x0F) and the default
// four-bank palette is loaded.
func New(data []byte) *Interpreter {
	fb := raster.New(Width, Height)
	fb.Clear(ega.Background)
	return &Interpreter{
		data:          data,
		fb:            fb,
		visualEnabled: true,
		palette:       pen.Default(),
		locked:        make(map[int]bool),
	}
}

// Framebuffer returns the decoded EGA-indexed raster. Valid after Run
// returns successfully.
func (in *Interpreter) Framebuffer() *raster.Raster { return in.fb }

// Run executes the opcode stream to completion (a pictureEnd opcode) or
// returns the first error encountered.
func (in *Interpreter) Run() error {
	if len(in.data) < 2 || in.data[0] != Header[0] || in.data[1] != Header[1] {
		return scierr.Wrap(scierr.ErrDecode, "pic.Run", fmt.Errorf("invalid header"))
	}
	in.pos = 2

	for {
		cmd, err := in.readByte()
		if err != nil {
			return scierr.Wrap(scierr.ErrDecode, "pic.Run", err)
		}

		if Op(cmd) == OpPictureEnd {
			return nil
		}

		if err := in.dispatch(Op(cmd)); err != nil {
			return err
		}
	}
}

func (in *Interpreter) dispatch(op Op) error {
	switch op {
	case OpSetVisualColor:
		code, err := in.readByte()
		if err != nil {
			return scierr.Wrap(scierr.ErrDecode, "setVisualColor", err)
		}
		idx := int(code)
		if in.locked[idx%pen.BankSize] {
			idx = idx % pen.BankSize
		}
		if idx < 0 || idx >= in.palette.Size() {
			return scierr.Wrap(scierr.ErrDecode, "setVisualColor", fmt.Errorf("palette index %d out of range", idx))
		}
		in.color = in.palette.Get(idx)
		in.visualEnabled = true

	case OpDisableVisual:
		in.visualEnabled = false

	case OpSetPriorityColor:
		if _, err := in.readByte(); err != nil {
			return scierr.Wrap(scierr.ErrDecode, "setPriorityColor", err)
		}

	case OpDisablePriority:
		// ignored

	case OpSetControlColor:
		if _, err := in.readByte(); err != nil {
			return scierr.Wrap(scierr.ErrDecode, "setControlColor", err)
		}

	case OpDisableControl:
		// ignored

	case OpLongLines:
		return in.parseLongLines()

	case OpShortRelativeLines:
		return in.parseShortRelativeLines()

	case OpMediumRelativeLines:
		return in.parseMediumRelativeLines()

	case OpSetPattern:
		v, err := in.readByte()
		if err != nil {
			return scierr.Wrap(scierr.ErrDecode, "setPattern", err)
		}
		in.patternFlags = v

	case OpShortRelativePatterns:
		return in.parseShortRelativePatterns()

	case OpMediumRelativePatterns:
		return in.parseMediumRelativePatterns()

	case OpLongPatterns:
		return in.parseLongPatterns()

	case OpFloodFill:
		return in.parseFloodFill()

	case OpExtendedCommand:
		sub, err := in.readByte()
		if err != nil {
			return scierr.Wrap(scierr.ErrDecode, "extendedCommand", err)
		}
		return in.parseExtended(ExtOp(sub))

	default:
		return scierr.Wrap(scierr.ErrDecode, "dispatch", fmt.Errorf("unhandled opcode 0x%02x", op))
	}

	return nil
}

// --- stream primitives ---

func (in *Interpreter) readByte() (uint8, error) {
	if in.pos >= len(in.data) {
		return 0, fmt.Errorf("unexpected end of stream")
	}
	b := in.data[in.pos]
	in.pos++
	return b, nil
}

// peekIsCommand implements the "next is command" predicate: end of
// stream counts as a command, so open-ended payload loops terminate.
func (in *Interpreter) peekIsCommand() bool {
	if in.pos >= len(in.data) {
		return true
	}
	return in.data[in.pos] >= CommandThreshold
}

func (in *Interpreter) readAbsolute() (int, int, error) {
	u, err := in.readByte()
	if err != nil {
		return 0, 0, err
	}
	lx, err := in.readByte()
	if err != nil {
		return 0, 0, err
	}
	ly, err := in.readByte()
	if err != nil {
		return 0, 0, err
	}
	x := int(u&0xF0)<<4 | int(lx)
	y := int(u&0x0F)<<8 | int(ly)
	return x, y, nil
}

func (in *Interpreter) readShortRelative(x, y int) (int, int, error) {
	v, err := in.readByte()
	if err != nil {
		return 0, 0, err
	}
	var dx, dy int
	if v&0x80 != 0 {
		dx = -int((v & 0x70) >> 4)
	} else {
		dx = int(v >> 4)
	}
	if v&0x08 != 0 {
		dy = -int(v & 0x07)
	} else {
		dy = int(v & 0x07)
	}
	return x + dx, y + dy, nil
}

func (in *Interpreter) readMediumRelative(x, y int) (int, int, error) {
	by, err := in.readByte()
	if err != nil {
		return 0, 0, err
	}
	bx, err := in.readByte()
	if err != nil {
		return 0, 0, err
	}
	var dy int
	if by&0x80 != 0 {
		dy = -int(by & 0x7F)
	} else {
		dy = int(by)
	}
	dx := int(int8(bx))
	return x + dx, y + dy, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// --- drawing primitives ---

func (in *Interpreter) plot(x, y int) {
	if !in.visualEnabled {
		return
	}
	in.fb.Put(x, y, in.color.Effective(x, y))
}

func (in *Interpreter) drawLine(x0, y0, x1, y1 int) {
	if !in.visualEnabled {
		return
	}
	in.fb.LineFunc(x0, y0, x1, y1, in.plot)
}

func (in *Interpreter) floodFill(x, y int) error {
	if !in.visualEnabled {
		return nil
	}
	col := in.color
	err := in.fb.FloodWhere(x, y, ega.Background,
		func(int, int) bool { return true },
		func(px, py int) uint8 { return col.Effective(px, py) },
	)
	if err != nil {
		return scierr.Wrap(scierr.ErrRaster, "floodFill", err)
	}
	return nil
}

func (in *Interpreter) drawPattern(x, y int, textureSelector uint8) {
	if !in.visualEnabled {
		return
	}

	size := int(in.patternFlags & patternFlagSizeMask)
	x = clamp(x, size, Width-1-size)
	y = clamp(y, size, Height-1-size)

	isRect := in.patternFlags&patternFlagRectangle != 0
	useTexture := in.patternFlags&patternFlagUseTexture != 0

	patternIndex := int(textureSelector>>1) & 0x7F
	textureBit := int(textureIndex[patternIndex])

	nextTextureBit := func() bool {
		bit := testBit(textureData[:], textureBit)
		textureBit++
		if textureBit == 0xFF {
			textureBit = 0
		}
		return bit
	}

	circleBit := 0
	for py := y - size; py <= y+size; py++ {
		for px := x - size; px <= x+size+1; px++ {
			inFootprint := isRect
			if !isRect {
				inFootprint = testBit(circleBitmaps[size], circleBit)
				circleBit++
			}
			if !inFootprint {
				continue
			}
			if useTexture {
				if nextTextureBit() {
					in.plot(px, py)
				}
			} else {
				in.plot(px, py)
			}
		}
	}
}

// --- opcode payload parsers ---

func (in *Interpreter) parseLongLines() error {
	x, y, err := in.readAbsolute()
	if err != nil {
		return scierr.Wrap(scierr.ErrDecode, "longLines", err)
	}
	for !in.peekIsCommand() {
		nx, ny, err := in.readAbsolute()
		if err != nil {
			return scierr.Wrap(scierr.ErrDecode, "longLines", err)
		}
		in.drawLine(x, y, nx, ny)
		x, y = nx, ny
	}
	return nil
}

func (in *Interpreter) parseShortRelativeLines() error {
	x, y, err := in.readAbsolute()
	if err != nil {
		return scierr.Wrap(scierr.ErrDecode, "shortRelativeLines", err)
	}
	for {
		nx, ny, err := in.readShortRelative(x, y)
		if err != nil {
			return scierr.Wrap(scierr.ErrDecode, "shortRelativeLines", err)
		}
		in.drawLine(x, y, nx, ny)
		x, y = nx, ny
		if in.peekIsCommand() {
			return nil
		}
	}
}

func (in *Interpreter) parseMediumRelativeLines() error {
	x, y, err := in.readAbsolute()
	if err != nil {
		return scierr.Wrap(scierr.ErrDecode, "mediumRelativeLines", err)
	}
	for {
		nx, ny, err := in.readMediumRelative(x, y)
		if err != nil {
			return scierr.Wrap(scierr.ErrDecode, "mediumRelativeLines", err)
		}
		nx = clamp(nx, 0, Width-1)
		ny = clamp(ny, 0, Height-1)
		in.drawLine(x, y, nx, ny)
		x, y = nx, ny
		if in.peekIsCommand() {
			return nil
		}
	}
}

func (in *Interpreter) parseShortRelativePatterns() error {
	var texture uint8
	if in.patternFlags&patternFlagUseTexture != 0 {
		v, err := in.readByte()
		if err != nil {
			return scierr.Wrap(scierr.ErrDecode, "shortRelativePatterns", err)
		}
		texture = v
	}
	x, y, err := in.readAbsolute()
	if err != nil {
		return scierr.Wrap(scierr.ErrDecode, "shortRelativePatterns", err)
	}
	in.drawPattern(x, y, texture)

	for !in.peekIsCommand() {
		if in.patternFlags&patternFlagUseTexture != 0 {
			v, err := in.readByte()
			if err != nil {
				return scierr.Wrap(scierr.ErrDecode, "shortRelativePatterns", err)
			}
			texture = v
		}
		x, y, err = in.readShortRelative(x, y)
		if err != nil {
			return scierr.Wrap(scierr.ErrDecode, "shortRelativePatterns", err)
		}
		in.drawPattern(x, y, texture)
	}
	return nil
}

func (in *Interpreter) parseMediumRelativePatterns() error {
	var texture uint8
	if in.patternFlags&patternFlagUseTexture != 0 {
		v, err := in.readByte()
		if err != nil {
			return scierr.Wrap(scierr.ErrDecode, "mediumRelativePatterns", err)
		}
		texture = v
	}
	x, y, err := in.readAbsolute()
	if err != nil {
		return scierr.Wrap(scierr.ErrDecode, "mediumRelativePatterns", err)
	}
	in.drawPattern(x, y, texture)

	for !in.peekIsCommand() {
		if in.patternFlags&patternFlagUseTexture != 0 {
			v, err := in.readByte()
			if err != nil {
				return scierr.Wrap(scierr.ErrDecode, "mediumRelativePatterns", err)
			}
			texture = v
		}
		x, y, err = in.readMediumRelative(x, y)
		if err != nil {
			return scierr.Wrap(scierr.ErrDecode, "mediumRelativePatterns", err)
		}
		in.drawPattern(x, y, texture)
	}
	return nil
}

func (in *Interpreter) parseLongPatterns() error {
	for !in.peekIsCommand() {
		var texture uint8
		if in.patternFlags&patternFlagUseTexture != 0 {
			v, err := in.readByte()
			if err != nil {
				return scierr.Wrap(scierr.ErrDecode, "longPatterns", err)
			}
			texture = v
		}
		x, y, err := in.readAbsolute()
		if err != nil {
			return scierr.Wrap(scierr.ErrDecode, "longPatterns", err)
		}
		in.drawPattern(x, y, texture)
	}
	return nil
}

func (in *Interpreter) parseFloodFill() error {
	for !in.peekIsCommand() {
		x, y, err := in.readAbsolute()
		if err != nil {
			return scierr.Wrap(scierr.ErrDecode, "floodFill", err)
		}
		if err := in.floodFill(x, y); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) parseExtended(sub ExtOp) error {
	switch sub {
	case ExtSetPaletteEntries:
		for !in.peekIsCommand() {
			i, err := in.readByte()
			if err != nil {
				return scierr.Wrap(scierr.ErrDecode, "setPaletteEntries", err)
			}
			colorByte, err := in.readByte()
			if err != nil {
				return scierr.Wrap(scierr.ErrDecode, "setPaletteEntries", err)
			}
			if int(i) >= in.palette.Size() {
				return scierr.Wrap(scierr.ErrDecode, "setPaletteEntries", fmt.Errorf("palette entry index %d out of range", i))
			}
			in.palette.Set(int(i), pen.Pen{A: colorByte >> 4, B: colorByte & 0x0F})
			if int(i) < pen.BankSize {
				in.locked[int(i)] = true
			}
		}
		return nil

	case ExtSetEntirePalette:
		bank, err := in.readByte()
		if err != nil {
			return scierr.Wrap(scierr.ErrDecode, "setEntirePalette", err)
		}
		if bank > 3 {
			return scierr.Wrap(scierr.ErrDecode, "setEntirePalette", fmt.Errorf("invalid palette bank %d", bank))
		}
		base := int(bank) * pen.BankSize
		for i := 0; i < pen.BankSize; i++ {
			colorByte, err := in.readByte()
			if err != nil {
				return scierr.Wrap(scierr.ErrDecode, "setEntirePalette", err)
			}
			in.palette.Set(base+i, pen.Pen{A: colorByte >> 4, B: colorByte & 0x0F})
		}
		return nil

	case ExtSetMonoPalette, ExtSetMonoVisual, ExtDisableMonoVisual,
		ExtSetMonoDirect, ExtDisableMonoDirect, ExtSetPriorityBands:
		// recognized but not rendered; scan forward to the next opcode.
		for !in.peekIsCommand() {
			if _, err := in.readByte(); err != nil {
				return scierr.Wrap(scierr.ErrDecode, "extended-skip", err)
			}
		}
		return nil

	case ExtEmbedCel:
		for !in.peekIsCommand() {
			if _, err := in.readByte(); err != nil {
				return scierr.Wrap(scierr.ErrDecode, "embedCel", err)
			}
		}
		return nil

	default:
		return scierr.Wrap(scierr.ErrDecode, "parseExtended", fmt.Errorf("unhandled extended opcode 0x%02x", sub))
	}
}
