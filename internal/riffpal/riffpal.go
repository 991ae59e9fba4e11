// Package riffpal reads and writes Windows RIFF "PAL " palette files,
// letting a resolved SCI0 pen palette round-trip through external
// palette editors. Pens are exported as their two resolved EGA RGB
// colors in sequence (A then B for each slot), and re-imported the
// same way.
package riffpal

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/image/riff"

	"scipic/internal/ega"
	"scipic/internal/pen"
	"scipic/internal/scierr"
)

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

// Write serializes a pen.Palette as a RIFF PAL file. Each pen becomes
// two consecutive palette entries (its A and B EGA colors), so the
// file holds 2*palette.Size() colors.
func Write(w io.Writer, p *pen.Palette) (int64, error) {
	colors := p.Colors()
	count := len(colors) * 2

	body := 4 + count*4 // palVersion + palNumEntries + 4 bytes/color
	total := 4 + (4 + 4 + body)

	if err := writeBytes(w, riffType[:]); err != nil {
		return 0, scierr.Wrap(scierr.ErrIO, "riffpal.Write", err)
	}
	if err := writeBytes(w, binary.LittleEndian.AppendUint32(nil, uint32(total))); err != nil {
		return 0, scierr.Wrap(scierr.ErrIO, "riffpal.Write", err)
	}
	if err := writeBytes(w, palType[:]); err != nil {
		return 0, scierr.Wrap(scierr.ErrIO, "riffpal.Write", err)
	}
	if err := writeBytes(w, dataType[:]); err != nil {
		return 0, scierr.Wrap(scierr.ErrIO, "riffpal.Write", err)
	}
	if err := writeBytes(w, binary.LittleEndian.AppendUint32(nil, uint32(body))); err != nil {
		return 0, scierr.Wrap(scierr.ErrIO, "riffpal.Write", err)
	}
	if err := writeBytes(w, []byte{0, 0x03}); err != nil {
		return 0, scierr.Wrap(scierr.ErrIO, "riffpal.Write", err)
	}
	if err := writeBytes(w, binary.LittleEndian.AppendUint16(nil, uint16(count))); err != nil {
		return 0, scierr.Wrap(scierr.ErrIO, "riffpal.Write", err)
	}

	var n int64
	for _, pn := range colors {
		for _, idx := range [2]uint8{pn.A, pn.B} {
			c := ega.ToRGBA(idx)
			if err := writeBytes(w, []byte{c.R, c.G, c.B, 0x00}); err != nil {
				return n, scierr.Wrap(scierr.ErrIO, "riffpal.Write", err)
			}
			n++
		}
	}

	return n, nil
}

// Read parses a RIFF PAL file back into a slice of RGB entries, dropping
// each entry's flags byte
// (undoing the pen-pair packing is the caller's responsibility, since
// the file format itself has no notion of pens).
func Read(r io.Reader) ([]ega.RGB, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, scierr.Wrap(scierr.ErrIO, "riffpal.Read", fmt.Errorf("opening RIFF stream: %w", err))
	}
	if formType != palType {
		return nil, scierr.Wrap(scierr.ErrIO, "riffpal.Read", fmt.Errorf("unsupported RIFF content type: %s", string(formType[:])))
	}

	id, _, data, err := rd.Next()
	if err != nil {
		return nil, scierr.Wrap(scierr.ErrIO, "riffpal.Read", err)
	}
	if id != dataType {
		return nil, scierr.Wrap(scierr.ErrIO, "riffpal.Read", fmt.Errorf("unexpected chunk type: %s", string(id[:])))
	}

	return readPaletteChunk(data)
}

func readPaletteChunk(r io.Reader) ([]ega.RGB, error) {
	buf := make([]byte, 2)

	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, scierr.Wrap(scierr.ErrIO, "riffpal.readPaletteChunk", fmt.Errorf("reading version: %w", err))
	}
	ver := binary.BigEndian.Uint16(buf)
	if ver != 3 {
		return nil, scierr.Wrap(scierr.ErrIO, "riffpal.readPaletteChunk", fmt.Errorf("unsupported palette version: %d", ver))
	}

	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, scierr.Wrap(scierr.ErrIO, "riffpal.readPaletteChunk", fmt.Errorf("reading entry count: %w", err))
	}
	count := binary.LittleEndian.Uint16(buf)

	res := make([]ega.RGB, count)
	buf4 := make([]byte, 4)
	for i := uint16(0); i < count; i++ {
		if _, err := io.ReadFull(r, buf4); err != nil {
			return res, scierr.Wrap(scierr.ErrIO, "riffpal.readPaletteChunk", fmt.Errorf("reading color %d/%d: %w", i, count, err))
		}
		res[i] = ega.RGB{R: buf4[0], G: buf4[1], B: buf4[2]}
	}

	return res, nil
}

func writeBytes(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return fmt.Errorf("wrote only %d/%d bytes", n, len(b))
	}
	return nil
}
