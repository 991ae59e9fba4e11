// Package scierr defines the sentinel error kinds surfaced at the CLI
// boundary: IO, decode, encode, raster, and verification failures.
package scierr

import (
	"errors"
	"fmt"
)

var (
	// ErrIO marks a file that could not be opened, read, or written.
	ErrIO = errors.New("io error")
	// ErrDecode marks a malformed picture resource: bad header, unknown
	// opcode, invalid palette bank/index, or truncated stream.
	ErrDecode = errors.New("decode error")
	// ErrEncode marks an emission that would produce an ambiguous or
	// out-of-range opcode stream.
	ErrEncode = errors.New("encode error")
	// ErrRaster marks a fatal raster operation failure (fill stack
	// overflow).
	ErrRaster = errors.New("raster error")
	// ErrVerify marks a post-encode round-trip mismatch.
	ErrVerify = errors.New("verify error")
)

// Wrap annotates err with op and kind so that both fmt.Errorf-style
// messages and errors.Is(err, kind) keep working.
func Wrap(kind error, op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
