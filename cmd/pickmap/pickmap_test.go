package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phanxgames/stage"
	"github.com/phanxgames/stage/softbackend"
)

func testStage(t *testing.T, w, h int) *stage.Stage {
	t.Helper()
	cfg := stage.DefaultConfig()
	cfg.Width, cfg.Height = w, h
	s := stage.NewStage(softbackend.New(), cfg)
	if err := s.Realize(); err != nil {
		t.Fatal(err)
	}
	return s
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want stage.Color
		ok   bool
	}{
		{"#ff0000", stage.Color{R: 1, A: 1}, true},
		{"00ff00", stage.Color{G: 1, A: 1}, true},
		{"#00f", stage.Color{B: 1, A: 1}, true},
		{"#ffffff00", stage.Color{R: 1, G: 1, B: 1}, true},
		{"#12345", stage.Color{}, false},
		{"#gg0000", stage.Color{}, false},
	}
	for _, tt := range tests {
		got, err := parseHexColor(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("parseHexColor(%q) = %+v, %v; want %+v, ok=%v", tt.in, got, err, tt.want, tt.ok)
		}
	}
}

func TestGridPickMap(t *testing.T) {
	s := testStage(t, 640, 480)
	cells := buildGrid(s, gridCols, gridRows)
	cover := addCover(s, gridCols, gridRows, 2)

	m, err := samplePickMap(s, stage.PickAll, gridCols, gridRows)
	if err != nil {
		t.Fatal(err)
	}
	for y := range gridRows {
		for x := range gridCols {
			want := cells[y*gridCols+x]
			if x >= 2 && x < gridCols-2 && y >= 2 && y < gridRows-2 {
				want = cover
			}
			if got := m.At(x, y); got != want {
				t.Errorf("cell (%d, %d) = %v, want %s", x, y, got, want.Name)
			}
		}
	}

	lines := strings.Split(strings.TrimSuffix(m.Plain(), "\n"), "\n")
	if len(lines) != gridRows {
		t.Fatalf("Plain has %d lines, want %d", len(lines), gridRows)
	}
	for _, l := range lines {
		if len(l) != gridCols {
			t.Fatalf("line %q has %d columns, want %d", l, len(l), gridCols)
		}
	}
	if lines[0][0] != '0' || lines[0][1] != '1' {
		t.Errorf("first row = %q, want symbols in order of appearance", lines[0])
	}
	if lines[5][5] != lines[10][8] {
		t.Errorf("cover cells use different symbols: %q vs %q", lines[5][5], lines[10][8])
	}
	if out := m.Render(); !strings.Contains(out, "legend") || !strings.Contains(out, "cover") {
		t.Errorf("Render output lacks the legend:\n%s", out)
	}
}

func TestPickMapBackground(t *testing.T) {
	s := testStage(t, 40, 20)
	s.Root().AddChild(stage.NewRectangle("left", 0, 0, 20, 20, stage.ColorWhite))

	m, err := samplePickMap(s, stage.PickAll, 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := m.Plain(), "00..\n00..\n"; got != want {
		t.Errorf("Plain = %q, want %q", got, want)
	}

	m, err = samplePickMap(s, stage.PickReactive, 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := m.Plain(), "....\n....\n"; got != want {
		t.Errorf("reactive Plain = %q, want %q", got, want)
	}
}

func TestSceneBuild(t *testing.T) {
	path := writeFile(t, "scene.toml", `
[[actor]]
name = "panel"
x = 10
y = 10
width = 100
height = 100
color = "#3366cc"
reactive = true

[[actor]]
name = "button"
parent = "panel"
x = 20
y = 20
width = 40
height = 40
shape = "circle"
clip = [0, 0, 20, 40]
reactive = true
z = 1

[[actor]]
name = "ghost"
width = 10
height = 10
hidden = true
opacity = 0
`)
	sf, err := loadScene(path)
	if err != nil {
		t.Fatal(err)
	}
	s := testStage(t, 200, 200)
	if err := sf.build(s); err != nil {
		t.Fatal(err)
	}

	panel := s.Root().ChildAt(0)
	button := panel.ChildAt(0)
	ghost := s.Root().ChildAt(1)
	if panel.Name != "panel" || button.Name != "button" || ghost.Name != "ghost" {
		t.Fatalf("tree = %s/%s, %s", panel.Name, button.Name, ghost.Name)
	}
	if !button.HasCustomPickShape() || button.ZIndex != 1 {
		t.Errorf("button shape/z not applied")
	}
	if clip, ok := button.Clip(); !ok || clip.Width != 20 {
		t.Errorf("button clip = %+v, %v", clip, ok)
	}
	if ghost.Visible() || ghost.Opacity() != 0 {
		t.Errorf("ghost visible=%v opacity=%d", ghost.Visible(), ghost.Opacity())
	}

	// Inside the clipped half of the circle.
	if a := s.ActorAt(45, 50, stage.PickReactive); a != button {
		t.Errorf("pick in button = %v", a)
	}
	// Right half is clipped away, so the panel shows through.
	if a := s.ActorAt(65, 50, stage.PickReactive); a != panel {
		t.Errorf("pick in clipped half = %v", a)
	}
}

func TestSceneErrors(t *testing.T) {
	tests := []struct {
		name  string
		scene string
		msg   string
	}{
		{"unknown key", "[[actor]]\nname = \"a\"\nsize = 3\n", `unknown key`},
		{"missing name", "[[actor]]\nx = 1\n", "missing name"},
		{"duplicate", "[[actor]]\nname = \"a\"\n[[actor]]\nname = \"a\"\n", "duplicate name"},
		{"unknown parent", "[[actor]]\nname = \"a\"\nparent = \"b\"\n", `unknown parent "b"`},
		{"bad color", "[[actor]]\nname = \"a\"\ncolor = \"red\"\n", "bad color"},
		{"bad clip", "[[actor]]\nname = \"a\"\nclip = [1, 2]\n", "clip needs 4 numbers"},
		{"bad opacity", "[[actor]]\nname = \"a\"\nopacity = 300\n", "out of range"},
		{"bad shape", "[[actor]]\nname = \"a\"\nshape = \"star\"\n", `unknown shape "star"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sf, err := loadScene(writeFile(t, "scene.toml", tt.scene))
			if err == nil {
				err = sf.build(testStage(t, 10, 10))
			}
			if err == nil || !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("err = %v, want it to mention %q", err, tt.msg)
			}
		})
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	if err := run("", "", "some", false, 4, 4, true, "", false); err == nil {
		t.Error("unknown mode should fail")
	}
	if err := run("", "", "all", false, 0, 4, true, "", false); err == nil {
		t.Error("empty sample grid should fail")
	}
}

func TestRunWritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "pick.png")
	if err := run("", "", "all", true, 4, 4, true, out, false); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		t.Errorf("png not written: %v", err)
	}
}
