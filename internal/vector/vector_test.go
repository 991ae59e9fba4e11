package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scipic/internal/pen"
	"scipic/internal/pic"
	"scipic/internal/raster"
)

func bandedSource() *raster.Raster {
	r := raster.New(pic.Width, pic.Height)
	bandColors := []uint8{0, 1, 2, 3, 4, 5, 6, 7}
	bandHeight := pic.Height / len(bandColors)
	for y := 0; y < pic.Height; y++ {
		band := y / bandHeight
		if band >= len(bandColors) {
			band = len(bandColors) - 1
		}
		for x := 0; x < pic.Width; x++ {
			r.Put(x, y, bandColors[band])
		}
	}
	return r
}

func ditherColumnsSource() *raster.Raster {
	r := raster.New(pic.Width, pic.Height)
	for y := 0; y < pic.Height; y++ {
		for x := 0; x < pic.Width; x++ {
			r.Put(x, y, uint8(x%2))
		}
	}
	return r
}

func TestVectorizeRoundTripsHorizontalBands(t *testing.T) {
	source := bandedSource()
	result, err := Vectorize(source, Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Bytes)

	in := pic.New(result.Bytes)
	require.NoError(t, in.Run())
	fb := in.Framebuffer()
	for y := 0; y < pic.Height; y++ {
		for x := 0; x < pic.Width; x++ {
			require.Equalf(t, source.Get(x, y), fb.Get(x, y), "mismatch at (%d,%d)", x, y)
		}
	}
}

func TestVectorizeRoundTripsDitherColumns(t *testing.T) {
	source := ditherColumnsSource()

	result, err := Vectorize(source, Options{})
	require.NoError(t, err)

	for _, p := range result.Palette.Colors() {
		set := map[uint8]bool{p.A: true, p.B: true}
		for k := range set {
			assert.Truef(t, k == 0 || k == 1, "unexpected EGA color %d in mined palette", k)
		}
	}

	in := pic.New(result.Bytes)
	require.NoError(t, in.Run())
	fb := in.Framebuffer()
	for y := 0; y < pic.Height; y++ {
		for x := 0; x < pic.Width; x++ {
			require.Equalf(t, source.Get(x, y), fb.Get(x, y), "mismatch at (%d,%d)", x, y)
		}
	}
}

// manyPenSource builds a raster whose mined palette spans more than
// one 40-slot bank, so PaletteBuilder assigns colour indices >= 40 and
// exercises the multi-bank EncodeColors/setVisualColor path.
func manyPenSource() *raster.Raster {
	r := raster.New(pic.Width, pic.Height)

	type colorPair struct{ a, b uint8 }
	var pairs []colorPair
	for i := uint8(0); i < 16; i++ {
		pairs = append(pairs, colorPair{i, (i + 1) % 16})
	}
	for i := uint8(0); i < 16; i++ {
		pairs = append(pairs, colorPair{i, (i + 3) % 16})
	}

	bandHeight := pic.Height / len(pairs)
	for y := 0; y < pic.Height; y++ {
		band := y / bandHeight
		if band >= len(pairs) {
			band = len(pairs) - 1
		}
		cp := pairs[band]
		for x := 0; x < pic.Width; x++ {
			if x%2 == 0 {
				r.Put(x, y, cp.a)
			} else {
				r.Put(x, y, cp.b)
			}
		}
	}
	return r
}

func TestVectorizeRoundTripsManyPensAcrossBanks(t *testing.T) {
	source := manyPenSource()

	result, err := Vectorize(source, Options{})
	require.NoError(t, err)
	require.Greater(t, result.Palette.Size(), pen.BankSize, "test should exercise the multi-bank palette path")

	in := pic.New(result.Bytes)
	require.NoError(t, in.Run())
	fb := in.Framebuffer()
	for y := 0; y < pic.Height; y++ {
		for x := 0; x < pic.Width; x++ {
			require.Equalf(t, source.Get(x, y), fb.Get(x, y), "mismatch at (%d,%d)", x, y)
		}
	}
}

func TestVectorizeNoVerifySkipsRoundTripCheck(t *testing.T) {
	source := raster.New(4, 4)
	result, err := Vectorize(source, Options{NoVerify: true})
	require.NoError(t, err)
	assert.NotNil(t, result.Palette)
}
