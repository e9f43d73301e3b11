package gui

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/dotswarm/internal/colorize"
	"github.com/san-kum/dotswarm/internal/gui/hud"
	"github.com/san-kum/dotswarm/internal/sim"
)

// ParticleRadius is the drawn radius of every particle in pixels.
const ParticleRadius = 1.0

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

var ErrWindow = errors.New("gui: window could not be created")

type Options struct {
	Width  int
	Height int
	FPS    int
	Title  string
	// HUD draws particle count, backend, frame rate and swarm metrics in
	// the top-left corner.
	HUD bool
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	if o.FPS <= 0 {
		o.FPS = 60
	}
	if o.Title == "" {
		o.Title = "dotswarm"
	}
	return o
}

// App owns a raylib window and feeds its frame time and size to the
// simulation.
type App struct {
	Sim  *sim.Simulator
	opts Options
}

func initWindow(o Options) error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(o.Width), int32(o.Height), o.Title)
	if !rl.IsWindowReady() {
		return fmt.Errorf("%w: %dx%d", ErrWindow, o.Width, o.Height)
	}
	rl.SetTargetFPS(int32(o.FPS))
	return nil
}

// RunRaylib opens a window and blocks until it is closed.
func RunRaylib(s *sim.Simulator, opts Options) error {
	opts = opts.withDefaults()
	if err := initWindow(opts); err != nil {
		return err
	}
	defer rl.CloseWindow()

	if opts.HUD {
		hud.Attach(s)
	}
	app := &App{Sim: s, opts: opts}
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

func (a *App) viewport() sim.Bounds {
	return sim.Bounds{
		Width:  float64(rl.GetScreenWidth()),
		Height: float64(rl.GetScreenHeight()),
	}
}

func (a *App) Update() {
	b := a.viewport()
	// A minimised window reports a zero viewport; hold the swarm still.
	if b.Width <= 0 || b.Height <= 0 {
		return
	}
	a.Sim.Step(float64(rl.GetFrameTime()), b)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.Sim.Each(func(_ int, p sim.Particle) {
		c := colorize.ColorFor(p.DX, p.DY, 1).NRGBA()
		rl.DrawCircleV(
			rl.NewVector2(float32(p.X), float32(p.Y)),
			ParticleRadius,
			rl.NewColor(c.R, c.G, c.B, c.A),
		)
	})

	if a.opts.HUD {
		a.DrawHUD()
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	rl.DrawText(hud.Text(a.Sim, int(rl.GetFPS())), 10, 10, 14, ColTextDim)
}
