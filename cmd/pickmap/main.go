// Command pickmap renders a stage with the software backend and prints which
// actor a pick returns across a grid of sample points.
//
// Without -scene it builds the 12x16 reference grid, optionally with a
// clipped cover (-cover). With -png it also writes the pick buffer.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"

	"github.com/phanxgames/stage"
	"github.com/phanxgames/stage/softbackend"
)

func main() {
	configPath := flag.String("config", "", "stage config TOML file")
	scenePath := flag.String("scene", "", "scene TOML file (default: reference grid)")
	modeName := flag.String("mode", "all", "pick mode: all or reactive")
	cover := flag.Bool("cover", false, "add a clipped cover over the reference grid")
	cols := flag.Int("cols", 48, "sample columns")
	rows := flag.Int("rows", 24, "sample rows")
	plain := flag.Bool("plain", false, "print without colors")
	pngPath := flag.String("png", "", "write the pick buffer to this PNG file")
	verbose := flag.Bool("v", false, "log pick passes")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pickmap [flags]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*configPath, *scenePath, *modeName, *cover, *cols, *rows, *plain, *pngPath, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "pickmap: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, scenePath, modeName string, cover bool, cols, rows int, plain bool, pngPath string, verbose bool) error {
	if verbose {
		stage.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	mode, ok := stage.ParsePickMode(modeName)
	if !ok {
		return fmt.Errorf("unknown pick mode %q", modeName)
	}
	if cols <= 0 || rows <= 0 {
		return fmt.Errorf("sample grid must be positive, got %dx%d", cols, rows)
	}

	cfg := stage.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = stage.LoadConfig(configPath); err != nil {
			return err
		}
	}
	cfg.Debug = cfg.Debug || verbose

	s, err := newStage(cfg, scenePath, cover)
	if err != nil {
		return err
	}
	defer s.Unrealize()

	m, err := samplePickMap(s, mode, cols, rows)
	if err != nil {
		return err
	}
	if plain {
		fmt.Print(m.Plain())
	} else {
		fmt.Println(m.Render())
	}

	if pngPath != "" {
		img, err := s.PickBufferImage(mode)
		if err != nil {
			return err
		}
		f, err := os.Create(pngPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := png.Encode(f, img); err != nil {
			return fmt.Errorf("encode %s: %w", pngPath, err)
		}
		fmt.Fprintf(os.Stderr, "Saved pick buffer to %s\n", pngPath)
	}
	return nil
}

// newStage builds and realizes a stage holding either the scene file or the
// reference grid.
func newStage(cfg stage.Config, scenePath string, cover bool) (*stage.Stage, error) {
	s := stage.NewStage(softbackend.New(), cfg)
	if err := s.Realize(); err != nil {
		return nil, err
	}
	if scenePath == "" {
		buildGrid(s, gridCols, gridRows)
		if cover {
			addCover(s, gridCols, gridRows, 2)
		}
		return s, nil
	}
	sf, err := loadScene(scenePath)
	if err != nil {
		return nil, err
	}
	if err := sf.build(s); err != nil {
		return nil, fmt.Errorf("scene %s: %w", scenePath, err)
	}
	return s, nil
}

// Reference grid dimensions.
const (
	gridCols = 12
	gridRows = 16
)
