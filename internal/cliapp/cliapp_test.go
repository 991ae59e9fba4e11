package cliapp

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertValidateDerivesOutputFromInput(t *testing.T) {
	c := &ConvertCmd{Input: "picture.png"}
	require.NoError(t, c.Validate(nil))
	assert.True(t, filepath.IsAbs(c.Input))
	assert.Equal(t, "picture.pic", filepath.Base(c.Output))
}

func TestConvertValidateKeepsExplicitOutput(t *testing.T) {
	c := &ConvertCmd{Input: "picture.png", Output: "out.pic"}
	require.NoError(t, c.Validate(nil))
	assert.Equal(t, "out.pic", filepath.Base(c.Output))
	assert.True(t, filepath.IsAbs(c.Output))
}

func TestConvertValidateResolvesPreviewAndPaletteOut(t *testing.T) {
	c := &ConvertCmd{Input: "picture.png", Preview: "preview.png", PaletteOut: "picture.pal"}
	require.NoError(t, c.Validate(nil))
	assert.True(t, filepath.IsAbs(c.Preview))
	assert.True(t, filepath.IsAbs(c.PaletteOut))
}

func TestShowValidateResolvesAbsolutePath(t *testing.T) {
	c := &ShowCmd{File: "room.pic"}
	require.NoError(t, c.Validate(nil))
	assert.True(t, filepath.IsAbs(c.File))
}

func TestBatchValidateRejectsMissingScanDir(t *testing.T) {
	c := &BatchCmd{Scan: filepath.Join(t.TempDir(), "does-not-exist"), Dest: "converted"}
	assert.Error(t, c.Validate(nil))
}

func TestBatchValidateResolvesRelativeDestUnderScan(t *testing.T) {
	dir := t.TempDir()
	c := &BatchCmd{Scan: dir, Dest: "converted"}
	require.NoError(t, c.Validate(nil))
	assert.Equal(t, filepath.Join(dir, "converted"), c.Dest)
}
