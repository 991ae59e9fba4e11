// Package cliapp is the CLI surface: a kong command tree exposing
// `show` (decode and display a picture resource) and `convert`
// (vectorize a raster image into one), mirroring the structure of the
// teacher's mangle.CLICmd and orient.CLICmd.
package cliapp

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/alecthomas/kong"

	"scipic/internal/display"
	"scipic/internal/imageio"
	"scipic/internal/pic"
	"scipic/internal/raster"
	"scipic/internal/riffpal"
	"scipic/internal/scierr"
	"scipic/internal/vector"
)

// CLI is the root command tree: `scipic show ...` / `scipic convert ...` /
// `scipic batch ...`.
type CLI struct {
	Show    ShowCmd    `cmd:"" help:"Decode and display a picture resource"`
	Convert ConvertCmd `cmd:"" help:"Vectorize a raster image into a picture resource"`
	Batch   BatchCmd   `cmd:"" help:"Vectorize every image in a folder into picture resources"`
}

// ShowCmd implements `show <file.pic>`.
type ShowCmd struct {
	File string `arg:"" help:"Picture resource to decode" type:"existingfile"`
}

func (c *ShowCmd) Validate(kctx *kong.Context) error {
	abs, err := filepath.Abs(c.File)
	if err != nil {
		return fmt.Errorf("invalid picture path %q: %w", c.File, err)
	}
	c.File = abs
	return nil
}

func (c *ShowCmd) Run() error {
	logger := slog.Default().With("file", c.File)

	data, err := os.ReadFile(c.File)
	if err != nil {
		return scierr.Wrap(scierr.ErrIO, "show", err)
	}

	in := pic.New(data)
	if err := in.Run(); err != nil {
		return err
	}

	logger.Info("decoded", "width", pic.Width, "height", pic.Height)

	return display.Null{}.Show(in.Framebuffer(), func(display.Frame) {})
}

// ConvertCmd implements `convert <input-image> [<output.pic>]`.
type ConvertCmd struct {
	Input  string `arg:"" help:"Source raster image (PNG, GIF, JPEG, BMP, TIFF, WEBP)" type:"existingfile"`
	Output string `arg:"" optional:"" help:"Destination .pic file; defaults to the input name with a .pic extension"`

	Show       bool `help:"Open an interactive viewer comparing converted vs original" name:"show"`
	NoVerify   bool `help:"Skip post-encode interpreter verification" name:"noverify"`
	NoDimCheck bool `help:"On dimension mismatch, warn but proceed instead of failing" name:"nodimcheck"`

	Preview    string `help:"Render the EGA-dithered reconstruction to this image path" name:"preview"`
	PaletteOut string `help:"Write the mined palette to this RIFF PAL file" name:"palette-out"`
}

func (c *ConvertCmd) Validate(kctx *kong.Context) error {
	abs, err := filepath.Abs(c.Input)
	if err != nil {
		return fmt.Errorf("invalid input path %q: %w", c.Input, err)
	}
	c.Input = abs

	if c.Output == "" {
		ext := filepath.Ext(c.Input)
		c.Output = strings.TrimSuffix(c.Input, ext) + ".pic"
	} else if !filepath.IsAbs(c.Output) {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}
		c.Output = filepath.Join(wd, c.Output)
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}
	if c.Preview != "" && !filepath.IsAbs(c.Preview) {
		c.Preview = filepath.Join(wd, c.Preview)
	}
	if c.PaletteOut != "" && !filepath.IsAbs(c.PaletteOut) {
		c.PaletteOut = filepath.Join(wd, c.PaletteOut)
	}

	return nil
}

func (c *ConvertCmd) Run() error {
	logger := slog.Default().With("input", c.Input, "output", c.Output)

	result, img, source, err := convertOne(logger, convertOptions{
		input:      c.Input,
		output:     c.Output,
		noVerify:   c.NoVerify,
		noDimCheck: c.NoDimCheck,
		preview:    c.Preview,
		paletteOut: c.PaletteOut,
	})
	if err != nil {
		return err
	}

	logger.Info("converted", "bytes", len(result.Bytes), "pens", result.Palette.Size())

	if c.Show {
		delta := imageio.PerceptualDelta(img, source)
		logger.Info("perceptual delta", "mean_oklab_distance", delta)

		in := pic.New(result.Bytes)
		if err := in.Run(); err != nil {
			return err
		}
		return display.Null{}.Show(in.Framebuffer(), func(display.Frame) {})
	}

	return nil
}

// convertOptions bundles convertOne's parameters, shared by ConvertCmd
// and BatchCmd.
type convertOptions struct {
	input, output        string
	noVerify, noDimCheck bool
	preview, paletteOut  string
}

// convertOne runs the load -> optional resize -> quantize -> vectorize
// -> save pipeline shared by ConvertCmd and BatchCmd. When set, preview
// renders the EGA-dithered reconstruction alongside the .pic output,
// and paletteOut writes the mined palette as a RIFF PAL file.
func convertOne(logger *slog.Logger, opts convertOptions) (vector.Result, image.Image, *raster.Raster, error) {
	img, format, err := imageio.Load(opts.input)
	if err != nil {
		return vector.Result{}, nil, nil, err
	}
	logger = logger.With("format", format)

	bounds := img.Bounds()
	if bounds.Dx() != pic.Width || bounds.Dy() != pic.Height {
		if !opts.noDimCheck {
			return vector.Result{}, nil, nil, scierr.Wrap(scierr.ErrIO, "convert",
				fmt.Errorf("image is %dx%d, want %dx%d (pass -nodimcheck to proceed anyway)", bounds.Dx(), bounds.Dy(), pic.Width, pic.Height))
		}
		logger.Warn("dimension mismatch, proceeding", "got_width", bounds.Dx(), "got_height", bounds.Dy())
		img = imageio.Resize(logger, img, pic.Width, pic.Height)
	}

	source := imageio.ToEGA(img, pic.Width, pic.Height)

	result, err := vector.Vectorize(source, vector.Options{NoVerify: opts.noVerify})
	if err != nil {
		return vector.Result{}, nil, nil, err
	}

	if result.OmittedEGA > 0 {
		logger.Warn("palette too colourful, mined pens truncated", "omitted_ega_colors", result.OmittedEGA)
	}

	if err := os.WriteFile(opts.output, result.Bytes, 0o644); err != nil {
		return vector.Result{}, nil, nil, scierr.Wrap(scierr.ErrIO, "convert", err)
	}

	if opts.preview != "" {
		in := pic.New(result.Bytes)
		if err := in.Run(); err != nil {
			return vector.Result{}, nil, nil, err
		}
		previewImg := imageio.Preview(in.Framebuffer())
		previewFormat := strings.TrimPrefix(filepath.Ext(opts.preview), ".")
		if err := imageio.SavePreview(previewImg, previewFormat, opts.preview); err != nil {
			return vector.Result{}, nil, nil, err
		}
		logger.Info("wrote preview", "preview", opts.preview, "mean_oklab_distance", imageio.PerceptualDelta(img, source))
	}

	if opts.paletteOut != "" {
		f, err := os.Create(opts.paletteOut)
		if err != nil {
			return vector.Result{}, nil, nil, scierr.Wrap(scierr.ErrIO, "convert", err)
		}
		_, writeErr := riffpal.Write(f, result.Palette)
		closeErr := f.Close()
		if writeErr != nil {
			return vector.Result{}, nil, nil, writeErr
		}
		if closeErr != nil {
			return vector.Result{}, nil, nil, scierr.Wrap(scierr.ErrIO, "convert", closeErr)
		}
		logger.Info("wrote palette", "palette_out", opts.paletteOut)
	}

	return result, img, source, nil
}

// BatchCmd implements a folder-scan batch conversion, the same shape as
// the teacher's own folder-batch CLI, fanning work out across a
// worker pool instead of processing one image at a time.
type BatchCmd struct {
	Scan string `help:"Source folder to scan" default:"."`
	Dest string `help:"Destination folder for picture resources" default:"converted"`
	Jobs int    `help:"Number of concurrent workers (0 = GOMAXPROCS)" default:"0"`

	NoVerify   bool `help:"Skip post-encode interpreter verification" name:"noverify"`
	NoDimCheck bool `help:"On dimension mismatch, warn but proceed instead of failing" name:"nodimcheck"`

	Previews bool `help:"Also write a .png preview alongside each .pic" name:"previews"`
	Palettes bool `help:"Also write a .pal RIFF palette alongside each .pic" name:"palettes"`
}

func (c *BatchCmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	return nil
}

// buildConvertOptions derives the input/output (and, when requested,
// preview/palette) paths for one file of a batch run.
func (c *BatchCmd) buildConvertOptions(fileName string) convertOptions {
	input := filepath.Join(c.Scan, fileName)
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	output := filepath.Join(c.Dest, stem+".pic")

	opts := convertOptions{
		input:      input,
		output:     output,
		noVerify:   c.NoVerify,
		noDimCheck: c.NoDimCheck,
	}
	if c.Previews {
		opts.preview = filepath.Join(c.Dest, stem+".png")
	}
	if c.Palettes {
		opts.paletteOut = filepath.Join(c.Dest, stem+".pal")
	}
	return opts
}

func (c *BatchCmd) Run() error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return scierr.Wrap(scierr.ErrIO, "batch", fmt.Errorf("creating destination folder %q: %w", c.Dest, err))
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return scierr.Wrap(scierr.ErrIO, "batch", fmt.Errorf("reading folder %q: %w", c.Scan, err))
	}

	names := make(chan string)
	workers := c.Jobs
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	var processedCount, errCount atomic.Uint64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for fileName := range names {
				opts := c.buildConvertOptions(fileName)
				logger := slog.Default().With("input", opts.input, "output", opts.output)

				if _, _, _, err := convertOne(logger, opts); err != nil {
					errCount.Add(1)
					logger.Error("could not convert image", "error", err)
					continue
				}
				processedCount.Add(1)
			}
		}()
	}

	for _, file := range files {
		if !file.IsDir() {
			names <- file.Name()
		}
	}
	close(names)
	wg.Wait()

	processed := processedCount.Load()
	errs := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errs, "total", processed+errs)

	if errs > 0 {
		return fmt.Errorf("error converting %d files", errs)
	}
	return nil
}
