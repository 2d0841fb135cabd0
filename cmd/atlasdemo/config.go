package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type config struct {
	AtlasSize int      `toml:"atlas_size"`
	MaxSize   int      `toml:"max_size"`
	FontFile  string   `toml:"font_file"`
	FontSize  float64  `toml:"font_size"`
	Shaping   bool     `toml:"shaping"`
	Bitmap    bool     `toml:"bitmap"`
	Frames    int      `toml:"frames"`
	Visible   int      `toml:"visible_lines"`
	Output    string   `toml:"output"`
	Verbose   bool     `toml:"verbose"`
	Lines     []string `toml:"lines"`
}

func defaultConfig() config {
	return config{
		AtlasSize: 128,
		MaxSize:   1024,
		FontSize:  16,
		Frames:    120,
		Visible:   6,
		Output:    "atlas.png",
		Lines: []string{
			"The quick brown fox jumps over the lazy dog.",
			"Pack my box with five dozen liquor jugs!",
			"Sphinx of black quartz, judge my vow.",
			"0123456789 +-*/=<>()[]{} #$%&@",
			"Ünïcödé façade, naïve café, smörgåsbord.",
			"How vexingly quick daft zebras jump.",
			"THE FIVE BOXING WIZARDS JUMP QUICKLY",
			"office affluent flow: ligatures fi fl ffi",
		},
	}
}

// readConfig decodes the TOML file at path over the defaults.
func readConfig(path string) (config, error) {
	conf := defaultConfig()
	if path == "" {
		return conf, nil
	}
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return conf, fmt.Errorf("couldn't read config file: %w", err)
	}
	return conf, nil
}

func writeConfig(path string, conf *config) error {
	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(conf); err != nil {
		return fmt.Errorf("couldn't encode config: %w", err)
	}
	return os.WriteFile(path, buffer.Bytes(), 0o644) //nolint:gosec // config is not secret
}

func (c *config) validate() error {
	switch {
	case c.Frames <= 0:
		return fmt.Errorf("frames must be positive, got %d", c.Frames)
	case c.Visible <= 0:
		return fmt.Errorf("visible_lines must be positive, got %d", c.Visible)
	case len(c.Lines) == 0:
		return fmt.Errorf("no lines to draw")
	case c.FontSize <= 0 && !c.Bitmap:
		return fmt.Errorf("font_size must be positive, got %v", c.FontSize)
	}
	return nil
}
