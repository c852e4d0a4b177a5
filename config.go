package stage

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Default configuration values.
const (
	DefaultWidth             = 640
	DefaultHeight            = 480
	DefaultPickColorBits     = 8
	DefaultClipHistoryLength = 4
	DefaultWarmupFrames      = 3
	DefaultMaxDamageRegions  = 16
	DefaultDragDeadZone      = 4.0 // pixels
)

// Config holds stage-wide settings. The zero value is not usable; start from
// DefaultConfig or load a TOML file with LoadConfig.
//
//	title = "picking"
//	width = 640
//	height = 480
//	pick_color_bits = 8
//	debug_pick_colors = false
//	clip_history_length = 4
//	warmup_frames = 3
type Config struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`

	// PickColorBits is the number of bits per color channel used to encode
	// pick ids (1-8). Lower values model low-depth framebuffers.
	PickColorBits int `toml:"pick_color_bits"`
	// DebugPickColors inverts pick colors so the pick buffer is visible.
	DebugPickColors bool `toml:"debug_pick_colors"`

	// ClipHistoryLength is how many committed redraw clips are remembered for
	// repairing back buffers older than one frame.
	ClipHistoryLength int `toml:"clip_history_length"`
	// WarmupFrames is how many initial frames are always committed as full
	// redraws.
	WarmupFrames int `toml:"warmup_frames"`
	// MaxDamageRegions is the region count above which damage is coalesced
	// into its bounding box.
	MaxDamageRegions int `toml:"max_damage_regions"`

	DragDeadZone float64 `toml:"drag_dead_zone"`
	DumpDir      string  `toml:"dump_dir"`
	Debug        bool    `toml:"debug"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Title:             "stage",
		Width:             DefaultWidth,
		Height:            DefaultHeight,
		PickColorBits:     DefaultPickColorBits,
		ClipHistoryLength: DefaultClipHistoryLength,
		WarmupFrames:      DefaultWarmupFrames,
		MaxDamageRegions:  DefaultMaxDamageRegions,
		DragDeadZone:      DefaultDragDeadZone,
		DumpDir:           "pickdumps",
	}
}

// ParseConfig decodes TOML data on top of DefaultConfig and validates it.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("parse config: unknown key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads a TOML file on top of DefaultConfig and validates it.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Width < 0 || c.Height < 0:
		return errors.New("width and height must not be negative")
	case c.PickColorBits < 1 || c.PickColorBits > 8:
		return fmt.Errorf("pick_color_bits must be in [1, 8], got %d", c.PickColorBits)
	case c.ClipHistoryLength < 1:
		return fmt.Errorf("clip_history_length must be positive, got %d", c.ClipHistoryLength)
	case c.WarmupFrames < 0:
		return fmt.Errorf("warmup_frames must not be negative, got %d", c.WarmupFrames)
	case c.MaxDamageRegions < 1:
		return fmt.Errorf("max_damage_regions must be positive, got %d", c.MaxDamageRegions)
	case c.DragDeadZone < 0:
		return fmt.Errorf("drag_dead_zone must not be negative, got %v", c.DragDeadZone)
	}
	return nil
}
