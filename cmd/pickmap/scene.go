package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/phanxgames/stage"
)

// sceneFile is a TOML scene description:
//
//	[[actor]]
//	name = "panel"
//	x = 10
//	y = 10
//	width = 200
//	height = 100
//	color = "#3366cc"
//	reactive = true
//
//	[[actor]]
//	name = "button"
//	parent = "panel"
//	x = 20
//	y = 20
//	width = 40
//	height = 40
//	shape = "circle"
//	clip = [0, 0, 30, 40]
//
// Actors are added in file order; a parent must appear before its children.
type sceneFile struct {
	Actors []sceneActor `toml:"actor"`
}

type sceneActor struct {
	Name     string    `toml:"name"`
	Parent   string    `toml:"parent"`
	Group    bool      `toml:"group"`
	X        float64   `toml:"x"`
	Y        float64   `toml:"y"`
	Width    float64   `toml:"width"`
	Height   float64   `toml:"height"`
	Color    string    `toml:"color"`
	Reactive bool      `toml:"reactive"`
	Hidden   bool      `toml:"hidden"`
	Opacity  *int      `toml:"opacity"`
	Clip     []float64 `toml:"clip"`
	Shape    string    `toml:"shape"`
	Z        int       `toml:"z"`
}

// loadScene reads and decodes a scene file.
func loadScene(path string) (*sceneFile, error) {
	var sf sceneFile
	md, err := toml.DecodeFile(path, &sf)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load scene %s: unknown key %q", path, undecoded[0].String())
	}
	return &sf, nil
}

// build adds the scene's actors to the stage root.
func (sf *sceneFile) build(s *stage.Stage) error {
	byName := map[string]*stage.Actor{"": s.Root()}
	for i, sa := range sf.Actors {
		if sa.Name == "" {
			return fmt.Errorf("actor %d: missing name", i)
		}
		if _, dup := byName[sa.Name]; dup {
			return fmt.Errorf("actor %q: duplicate name", sa.Name)
		}
		parent, ok := byName[sa.Parent]
		if !ok {
			return fmt.Errorf("actor %q: unknown parent %q", sa.Name, sa.Parent)
		}
		a, err := sa.actor()
		if err != nil {
			return fmt.Errorf("actor %q: %w", sa.Name, err)
		}
		parent.AddChild(a)
		byName[sa.Name] = a
	}
	return nil
}

func (sa sceneActor) actor() (*stage.Actor, error) {
	var a *stage.Actor
	if sa.Group {
		a = stage.NewGroup(sa.Name)
		a.SetGeometry(stage.Box{X: sa.X, Y: sa.Y, Width: sa.Width, Height: sa.Height})
	} else {
		c := stage.ColorWhite
		if sa.Color != "" {
			var err error
			if c, err = parseHexColor(sa.Color); err != nil {
				return nil, err
			}
		}
		a = stage.NewRectangle(sa.Name, sa.X, sa.Y, sa.Width, sa.Height, c)
	}
	a.SetReactive(sa.Reactive)
	a.SetVisible(!sa.Hidden)
	a.SetZIndex(sa.Z)
	if sa.Opacity != nil {
		if *sa.Opacity < 0 || *sa.Opacity > 255 {
			return nil, fmt.Errorf("opacity %d out of range [0, 255]", *sa.Opacity)
		}
		a.SetOpacity(uint8(*sa.Opacity))
	}
	if sa.Clip != nil {
		if len(sa.Clip) != 4 {
			return nil, fmt.Errorf("clip needs 4 numbers, got %d", len(sa.Clip))
		}
		a.SetClip(stage.Box{X: sa.Clip[0], Y: sa.Clip[1], Width: sa.Clip[2], Height: sa.Clip[3]})
	}
	switch sa.Shape {
	case "", "rect":
	case "circle":
		r := min(sa.Width, sa.Height) / 2
		a.SetPickShape(stage.PickCircle{CenterX: sa.Width / 2, CenterY: sa.Height / 2, Radius: r})
	case "diamond":
		w, h := sa.Width, sa.Height
		a.SetPickShape(stage.PickPolygon{Points: []stage.Vec2{{X: w / 2}, {X: w, Y: h / 2}, {X: w / 2, Y: h}, {Y: h / 2}}})
	default:
		return nil, fmt.Errorf("unknown shape %q", sa.Shape)
	}
	return a, nil
}

// parseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func parseHexColor(s string) (stage.Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return stage.Color{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return stage.Color{}, fmt.Errorf("bad color %q", s)
	}
	return stage.Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// buildGrid tiles the stage with cols x rows uniquely colored rectangles
// named "cell_<col>_<row>" and returns them row by row. Cell sizes use
// integer division of the stage size.
func buildGrid(s *stage.Stage, cols, rows int) []*stage.Actor {
	w, h := s.Size()
	cw, ch := w/cols, h/rows
	cells := make([]*stage.Actor, 0, cols*rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := stage.Color{
				R: float64(x) / float64(max(cols-1, 1)),
				G: float64(y) / float64(max(rows-1, 1)),
				B: 0.5,
				A: 1,
			}
			a := stage.NewRectangle(fmt.Sprintf("cell_%d_%d", x, y),
				float64(x*cw), float64(y*ch), float64(cw), float64(ch), c)
			a.SetReactive(true)
			s.Root().AddChild(a)
			cells = append(cells, a)
		}
	}
	return cells
}

// addCover adds a red full-stage rectangle clipped to everything but a
// border of the given number of grid cells.
func addCover(s *stage.Stage, cols, rows, border int) *stage.Actor {
	w, h := s.Size()
	cw, ch := w/cols, h/rows
	cover := stage.NewRectangle("cover", 0, 0, float64(w), float64(h), stage.Color{R: 1, A: 1})
	cover.SetClip(stage.Box{
		X:      float64(cw * border),
		Y:      float64(ch * border),
		Width:  float64(cw * (cols - 2*border)),
		Height: float64(ch * (rows - 2*border)),
	})
	s.Root().AddChild(cover)
	return cover
}
