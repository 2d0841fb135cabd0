package glyphatlas

import "log/slog"

// Config holds atlas configuration.
type Config struct {
	// Size is the initial width and height of the atlas texture.
	// Must be a power of 2. Default: 256
	Size int

	// MaxSize caps atlas growth below the renderer's maximum texture size.
	// Zero means the renderer's limit.
	MaxSize int

	// ClearEvicted zeroes the texture area of evicted glyphs.
	// Default: true
	ClearEvicted bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Size:         256,
		ClearEvicted: true,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Size < 16 {
		return &ConfigError{Field: "Size", Reason: "must be at least 16"}
	}
	if !isPowerOfTwo(c.Size) {
		return &ConfigError{Field: "Size", Reason: "must be power of 2"}
	}
	if c.MaxSize < 0 {
		return &ConfigError{Field: "MaxSize", Reason: "must be non-negative"}
	}
	if c.MaxSize > 0 && c.MaxSize < c.Size {
		return &ConfigError{Field: "MaxSize", Reason: "must be at least Size"}
	}
	return nil
}

// Option configures an Atlas during creation.
//
// Example:
//
//	a, err := glyphatlas.New(tex,
//	    glyphatlas.WithConfig(glyphatlas.Config{Size: 512, ClearEvicted: true}),
//	    glyphatlas.WithLogger(slog.Default()),
//	)
type Option func(*options)

type options struct {
	config Config
	logger *slog.Logger
}

func defaultOptions() options {
	return options{config: DefaultConfig()}
}

// WithConfig replaces the default configuration.
func WithConfig(c Config) Option {
	return func(o *options) {
		o.config = c
	}
}

// WithLogger sets a logger for one atlas, overriding the package logger
// set with SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
