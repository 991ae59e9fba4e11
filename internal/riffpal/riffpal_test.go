package riffpal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scipic/internal/ega"
	"scipic/internal/pen"
)

func TestWriteReadRoundTripsColors(t *testing.T) {
	p := pen.New([]pen.Pen{{A: 0x0, B: 0x0}, {A: 0x1, B: 0x9}, {A: 0xF, B: 0x4}})

	var buf bytes.Buffer
	n, err := Write(&buf, p)
	require.NoError(t, err)
	assert.Equal(t, int64(p.Size()*2), n)

	got, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, got, p.Size()*2)

	want := []ega.RGB{}
	for _, pn := range p.Colors() {
		want = append(want, ega.Palette[pn.A], ega.Palette[pn.B])
	}
	assert.Equal(t, want, got)
}

func TestReadRejectsNonPALContent(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not a riff file")))
	assert.Error(t, err)
}

func TestWriteEmptyPalette(t *testing.T) {
	p := pen.New(nil)
	var buf bytes.Buffer
	n, err := Write(&buf, p)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}
