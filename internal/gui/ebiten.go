package gui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/san-kum/dotswarm/internal/colorize"
	"github.com/san-kum/dotswarm/internal/gui/hud"
	"github.com/san-kum/dotswarm/internal/sim"
)

type game struct {
	sim           *sim.Simulator
	clock         *sim.Clock
	width, height int
	hud           bool
}

// RunEbiten is the ebiten equivalent of RunRaylib. Update runs at the
// target TPS but steps by measured wall time.
func RunEbiten(s *sim.Simulator, opts Options) error {
	opts = opts.withDefaults()

	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(opts.FPS)

	g := &game{
		sim:    s,
		clock:  sim.NewClock(),
		width:  opts.Width,
		height: opts.Height,
		hud:    opts.HUD,
	}
	if opts.HUD {
		hud.Attach(s)
	}
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("gui: ebiten: %w", err)
	}
	return nil
}

func (g *game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.width <= 0 || g.height <= 0 {
		return nil
	}
	g.sim.Step(g.clock.Tick(), sim.Bounds{Width: float64(g.width), Height: float64(g.height)})
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: ColBg.R, G: ColBg.G, B: ColBg.B, A: 255})
	g.sim.Each(func(_ int, p sim.Particle) {
		c := colorize.ColorFor(p.DX, p.DY, 1)
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), ParticleRadius, c.NRGBA(), true)
	})
	if g.hud {
		ebitenutil.DebugPrintAt(screen, hud.Text(g.sim, int(ebiten.ActualFPS()+0.5)), 10, 10)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
