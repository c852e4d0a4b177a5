package ebitenbackend

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/stage"
)

// RunConfig configures Run.
type RunConfig struct {
	// Title is the window title.
	Title string
	// Width and Height are the window size. Zero means the stage size.
	Width, Height int
	// ShowFPS draws an FPS/TPS counter in the top-left corner.
	ShowFPS bool
	// OnUpdate, if set, runs once per tick after input has been fed to the
	// stage. dt is the tick length in seconds.
	OnUpdate func(dt float32)
}

// Run opens a window and drives s until the window is closed. The stage
// must have been created with a *Backend from this package; it is realized
// if needed.
func Run(s *stage.Stage, cfg RunConfig) error {
	g, err := NewGame(s)
	if err != nil {
		return err
	}
	g.ShowFPS = cfg.ShowFPS
	g.OnUpdate = cfg.OnUpdate

	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		w, h = s.Size()
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(w, h)
	return ebiten.RunGame(g)
}

// Game adapts a stage to ebiten.Game: Update feeds mouse and touch input,
// Draw renders damaged regions and copies the on-screen buffer to the
// window.
type Game struct {
	stage   *stage.Stage
	backend *Backend

	// ShowFPS draws an FPS/TPS counter over the stage.
	ShowFPS bool
	// OnUpdate runs once per tick; see RunConfig.OnUpdate.
	OnUpdate func(dt float32)

	touchMap  [stage.MaxPointers]ebiten.TouchID
	touchUsed [stage.MaxPointers]bool
	touchIDs  []ebiten.TouchID
	lastTouch [stage.MaxPointers]stage.PointerEvent
}

var _ ebiten.Game = (*Game)(nil)

// NewGame wraps s, realizing it if needed. It fails if the stage's backend
// is not a *Backend.
func NewGame(s *stage.Stage) (*Game, error) {
	b, ok := s.Backend().(*Backend)
	if !ok {
		return nil, fmt.Errorf("ebitenbackend: stage backend is %T, want *ebitenbackend.Backend", s.Backend())
	}
	if !s.IsRealized() {
		if err := s.Realize(); err != nil {
			return nil, err
		}
	}
	return &Game{stage: s, backend: b}, nil
}

// Update advances injected input or, when none is pending, feeds the real
// mouse and touch state to the stage. OnUpdate runs last.
func (g *Game) Update() error {
	if !g.stage.Update() {
		mods := readModifiers()
		g.processMouse(mods)
		g.processTouches(mods)
	}
	if g.OnUpdate != nil {
		g.OnUpdate(float32(1.0 / float64(ebiten.TPS())))
	}
	return nil
}

// Draw repaints damage and presents the on-screen buffer.
func (g *Game) Draw(screen *ebiten.Image) {
	if _, err := g.stage.RenderFrame(); err != nil && !errors.Is(err, stage.ErrUnready) {
		stage.Logger().Warn("ebitenbackend: render frame failed", "err", err)
	}
	if img := g.backend.Screen(); img != nil {
		screen.DrawImage(img, nil)
	}
	if g.ShowFPS {
		drawFPS(screen)
	}
}

// Layout keeps the logical screen at the stage size; ebiten scales it to
// the window.
func (g *Game) Layout(_, _ int) (int, int) {
	w, h := g.stage.Size()
	return max(w, 1), max(h, 1)
}

func drawFPS(screen *ebiten.Image) {
	bg := screen.SubImage(screen.Bounds().Intersect(fpsRect)).(*ebiten.Image)
	bg.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}
