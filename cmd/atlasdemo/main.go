// Command atlasdemo draws scrolling text through a glyph atlas for a number
// of simulated frames and writes the final atlas texture to a PNG.
//
// Usage:
//
//	atlasdemo [-config demo.toml] [-size 128] [-max 1024] [-frames 120] [-shaping] [-o atlas.png]
//
// Every few frames the text size changes, so the atlas keeps filling up,
// evicting expired glyphs and growing.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/text"
	"github.com/gogpu/glyphatlas/texture"
)

// sizeSteps scales the font size; the demo moves to the next step every
// stepFrames frames.
var sizeSteps = []float64{1, 1.5, 2, 1.25, 3}

const stepFrames = 10

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "atlasdemo:", err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("atlasdemo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "TOML config file")
		dumpConfig = fs.String("write-config", "", "write the effective config to this file and exit")
		size       = fs.Int("size", 0, "initial atlas size (power of two)")
		maxSize    = fs.Int("max", 0, "maximum atlas size")
		fontFile   = fs.String("font", "", "TrueType/OpenType font file (default Go Regular)")
		fontSize   = fs.Float64("font-size", 0, "font size in pixels")
		shaping    = fs.Bool("shaping", false, "shape text with HarfBuzz")
		bitmap     = fs.Bool("bitmap", false, "use the fixed 7x13 bitmap font")
		frames     = fs.Int("frames", 0, "number of frames to simulate")
		output     = fs.String("o", "", "output PNG file")
		verbose    = fs.Bool("v", false, "log every glyph")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	conf, err := readConfig(*configPath)
	if err != nil {
		return err
	}
	// Flags given on the command line override the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "size":
			conf.AtlasSize = *size
		case "max":
			conf.MaxSize = *maxSize
		case "font":
			conf.FontFile = *fontFile
		case "font-size":
			conf.FontSize = *fontSize
		case "shaping":
			conf.Shaping = *shaping
		case "bitmap":
			conf.Bitmap = *bitmap
		case "frames":
			conf.Frames = *frames
		case "o":
			conf.Output = *output
		case "v":
			conf.Verbose = *verbose
		}
	})
	if *dumpConfig != "" {
		return writeConfig(*dumpConfig, &conf)
	}
	if err := conf.validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if conf.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	glyphatlas.SetLogger(logger)
	defer glyphatlas.SetLogger(nil)

	tex := texture.New(conf.AtlasSize, conf.MaxSize)
	atlas, err := glyphatlas.New(tex, glyphatlas.WithConfig(glyphatlas.Config{
		Size:         conf.AtlasSize,
		MaxSize:      conf.MaxSize,
		ClearEvicted: true,
	}))
	if err != nil {
		return err
	}

	providers, err := newProviders(&conf)
	if err != nil {
		return err
	}
	drawer := text.NewDrawer(atlas, 0)

	for frame := 0; frame < conf.Frames; frame++ {
		if err := atlas.BeginFrame(); err != nil {
			return err
		}
		p := providers[(frame/stepFrames)%len(providers)]
		lineHeight := max(p.Metrics().Height.Ceil(), 1)
		for k := 0; k < conf.Visible; k++ {
			line := conf.Lines[(frame+k)%len(conf.Lines)]
			if _, err := drawer.Draw(p, line, 4, (k+1)*lineHeight); err != nil {
				return fmt.Errorf("frame %d: %w", frame, err)
			}
		}
		atlas.EndFrame()
	}

	st := atlas.Stats()
	w, h := atlas.Size()
	logger.Info("atlasdemo: done",
		"frames", conf.Frames,
		"size", fmt.Sprintf("%dx%d", w, h),
		"glyphs", atlas.Len(),
		"hit_rate", fmt.Sprintf("%.1f%%", st.HitRate()),
		"evictions", st.Evictions,
		"line_evictions", st.LineEvictions,
		"resizes", st.Resizes,
		"skipped", drawer.Skipped(),
		"bitmap_cache_hit_rate", fmt.Sprintf("%.1f%%", drawer.CacheHitRate()*100))

	if conf.Output == "" {
		return nil
	}
	if err := tex.SavePNG(conf.Output); err != nil {
		return err
	}
	logger.Info("atlasdemo: atlas saved", "path", conf.Output)
	return nil
}

// newProviders returns one provider per size step. Providers of one font
// share a font id; sizes keep their cache ids apart.
func newProviders(conf *config) ([]text.Provider, error) {
	if conf.Bitmap {
		return []text.Provider{text.NewBitmapProvider(1)}, nil
	}
	data := goregular.TTF
	if conf.FontFile != "" {
		var err error
		if data, err = os.ReadFile(conf.FontFile); err != nil {
			return nil, err
		}
	}
	out := make([]text.Provider, 0, len(sizeSteps))
	for _, step := range sizeSteps {
		var (
			p   text.Provider
			err error
		)
		if conf.Shaping {
			p, err = text.NewShapedProvider(data, 1, conf.FontSize*step)
		} else {
			p, err = text.NewOpenTypeProvider(data, 1, conf.FontSize*step)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, errors.New("no font sizes configured")
	}
	return out, nil
}
