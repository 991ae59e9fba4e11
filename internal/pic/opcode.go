package pic

// Op is a top-level SCI0 picture opcode. Every opcode byte carries the
// high nibble 0xF, closing the opcode space against payload bytes.
type Op uint8

const (
	OpSetVisualColor         Op = 0xF0
	OpDisableVisual          Op = 0xF1
	OpSetPriorityColor       Op = 0xF2
	OpDisablePriority        Op = 0xF3
	OpShortRelativePatterns  Op = 0xF4
	OpMediumRelativeLines    Op = 0xF5
	OpLongLines              Op = 0xF6
	OpShortRelativeLines     Op = 0xF7
	OpFloodFill              Op = 0xF8
	OpSetPattern             Op = 0xF9
	OpLongPatterns           Op = 0xFA
	OpSetControlColor        Op = 0xFB
	OpDisableControl         Op = 0xFC
	OpMediumRelativePatterns Op = 0xFD
	OpExtendedCommand        Op = 0xFE
	OpPictureEnd             Op = 0xFF
)

// ExtOp is an extended (0xFE-prefixed) sub-opcode.
type ExtOp uint8

const (
	ExtSetPaletteEntries ExtOp = 0x00
	ExtSetEntirePalette  ExtOp = 0x01
	ExtSetMonoPalette    ExtOp = 0x02
	ExtSetMonoVisual     ExtOp = 0x03
	ExtDisableMonoVisual ExtOp = 0x04
	ExtSetMonoDirect     ExtOp = 0x05
	ExtDisableMonoDirect ExtOp = 0x06
	ExtEmbedCel          ExtOp = 0x07
	ExtSetPriorityBands  ExtOp = 0x08
)

// CommandThreshold is the first byte value reserved for opcodes; any
// byte >= CommandThreshold ends a variable-length opcode's payload run.
const CommandThreshold = 0xF0

// Canvas dimensions, fixed for SCI0.
const (
	Width  = 320
	Height = 190
)

const patternFlagRectangle = 0x10
const patternFlagUseTexture = 0x20
const patternFlagSizeMask = 0x07

// circleBitmaps holds the eight precomputed circle footprints, one per
// pattern size 0..7, each packed 8 pixels per byte, row-major over the
// pattern's (size*2+1) x (size*2+2) bounding box.
var circleBitmaps = [8][]uint8{
	{0x80},
	{0x4e, 0x40},
	{0x73, 0xef, 0xbe, 0x70},
	{0x38, 0x7c, 0xfe, 0xfe, 0xfe, 0x7c, 0x38, 0x00},
	{0x1c, 0x1f, 0xcf, 0xfb, 0xfe, 0xff, 0xbf, 0xef,
		0xf9, 0xfc, 0x1c},
	{0x0e, 0x03, 0xf8, 0x7f, 0xc7, 0xfc, 0xff, 0xef,
		0xfe, 0xff, 0xe7, 0xfc, 0x7f, 0xc3, 0xf8, 0x1f,
		0x00},
	{0x0f, 0x80, 0xff, 0x87, 0xff, 0x1f, 0xfc, 0xff,
		0xfb, 0xff, 0xef, 0xff, 0xbf, 0xfe, 0xff, 0xf9,
		0xff, 0xc7, 0xff, 0x0f, 0xf8, 0x0f, 0x80},
	{0x07, 0xc0, 0x1f, 0xf0, 0x3f, 0xf8, 0x7f, 0xfc,
		0x7f, 0xfc, 0xff, 0xfe, 0xff, 0xfe, 0xff, 0xfe,
		0xff, 0xfe, 0xff, 0xfe, 0x7f, 0xfc, 0x7f, 0xfc,
		0x3f, 0xf8, 0x1f, 0xf0, 0x07, 0xc0},
}

// textureData is the fixed 32-byte texture bitmap consumed one bit at a
// time by textured pattern stamps.
var textureData = [32]uint8{
	0x20, 0x94, 0x02, 0x24, 0x90, 0x82, 0xa4, 0xa2,
	0x82, 0x09, 0x0a, 0x22, 0x12, 0x10, 0x42, 0x14,
	0x91, 0x4a, 0x91, 0x11, 0x08, 0x12, 0x25, 0x10,
	0x22, 0xa8, 0x14, 0x24, 0x00, 0x50, 0x24, 0x04,
}

// textureIndex maps a 7-bit texture selector, (pattern_byte>>1)&0x7F,
// to the starting bit position within textureData for that stamp.
var textureIndex = [128]uint8{
	0x00, 0x18, 0x30, 0xc4, 0xdc, 0x65, 0xeb, 0x48,
	0x60, 0xbd, 0x89, 0x05, 0x0a, 0xf4, 0x7d, 0x7d,
	0x85, 0xb0, 0x8e, 0x95, 0x1f, 0x22, 0x0d, 0xdf,
	0x2a, 0x78, 0xd5, 0x73, 0x1c, 0xb4, 0x40, 0xa1,
	0xb9, 0x3c, 0xca, 0x58, 0x92, 0x34, 0xcc, 0xce,
	0xd7, 0x42, 0x90, 0x0f, 0x8b, 0x7f, 0x32, 0xed,
	0x5c, 0x9d, 0xc8, 0x99, 0xad, 0x4e, 0x56, 0xa6,
	0xf7, 0x68, 0xb7, 0x25, 0x82, 0x37, 0x3a, 0x51,
	0x69, 0x26, 0x38, 0x52, 0x9e, 0x9a, 0x4f, 0xa7,
	0x43, 0x10, 0x80, 0xee, 0x3d, 0x59, 0x35, 0xcf,
	0x79, 0x74, 0xb5, 0xa2, 0xb1, 0x96, 0x23, 0xe0,
	0xbe, 0x05, 0xf5, 0x6e, 0x19, 0xc5, 0x66, 0x49,
	0xf0, 0xd1, 0x54, 0xa9, 0x70, 0x4b, 0xa4, 0xe2,
	0xe6, 0xe5, 0xab, 0xe4, 0xd2, 0xaa, 0x4c, 0xe3,
	0x06, 0x6f, 0xc6, 0x4a, 0xa4, 0x75, 0x97, 0xe1,
	// only the first 120 slots come from the carried-over SCI0 table;
	// the remaining entries of the 7-bit (0..127) selector range
	// default to zero.
}

func testBit(bitmap []uint8, bit int) bool {
	byteIdx := bit >> 3
	if byteIdx < 0 || byteIdx >= len(bitmap) {
		return false
	}
	return (bitmap[byteIdx]>>(7-uint(bit&7)))&1 != 0
}
