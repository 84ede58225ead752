// hangar - software 3D renderer in the terminal
// Flies a camera around a hangar of textured meshes, clipping, culling and
// lighting every face on the CPU.
//
// Controls:
//
//	1-6         - Render mode (wire+vertex, wire, fill, fill+wire, textured, textured+wire)
//	C/X         - Backface culling on/off
//	I/K, Up/Dn  - Pitch
//	J/L, Lt/Rt  - Yaw
//	W/S         - Move forward/backward
//	Space       - Stop all motion
//	?           - Toggle HUD
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/hangar/pkg/render"
	"github.com/taigrr/hangar/pkg/scene"
)

const controls = `Controls:
  1-6         Render mode (wire+vertex, wire, fill, fill+wire, textured, textured+wire)
  C/X         Backface culling on/off
  I/K         Pitch (Up/Down also work)
  J/L         Yaw (Left/Right also work)
  W/S         Move forward/backward
  Space       Stop
  ?           Toggle HUD
  Esc         Quit`

// options holds the command line flags.
type options struct {
	scenePath string
	assetDir  string
	fps       int
	bg        string
	fovY      float64
	near      float64
	far       float64
	queueCap  int
	mode      string
	filter    string
	texMax    int
	snapshot  string
	frames    int
	width     int
	height    int
	logPath   string
	logLevel  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd()); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "hangar",
		Short: "Software 3D renderer in the terminal",
		Long: "hangar flies a camera around a hangar of textured meshes, clipping,\n" +
			"culling and lighting every face on the CPU.\n\n" + controls,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.scenePath, "scene", "", "scene file (JSON); built-in hangar when empty")
	f.StringVar(&opts.assetDir, "assets", "assets", "asset directory for the built-in hangar")
	f.IntVar(&opts.fps, "fps", 60, "target FPS")
	f.StringVar(&opts.bg, "bg", "0,0,0", "background color (R,G,B)")
	f.Float64Var(&opts.fovY, "fov", 0, "vertical field of view in degrees (overrides scene)")
	f.Float64Var(&opts.near, "near", 0, "near clip distance (overrides scene)")
	f.Float64Var(&opts.far, "far", 0, "far clip distance (overrides scene)")
	f.IntVar(&opts.queueCap, "queue", 0, "render queue capacity (overrides scene)")
	f.StringVar(&opts.mode, "mode", "", "render mode: wire+vertex, wire, fill, fill+wire, textured, textured+wire")
	f.StringVar(&opts.filter, "filter", "", "texture filter: nearest or bilinear (overrides scene)")
	f.IntVar(&opts.texMax, "tex-max", 512, "downscale textures larger than this (0 = keep)")
	f.StringVar(&opts.snapshot, "snapshot", "", "render without a terminal and write the frame to this PNG or WebP file")
	f.IntVar(&opts.frames, "frames", 1, "frames to simulate before writing the snapshot")
	f.IntVar(&opts.width, "width", 800, "snapshot width")
	f.IntVar(&opts.height, "height", 600, "snapshot height")
	f.StringVar(&opts.logPath, "log", "", "write logs to this file")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func run(ctx context.Context, opts *options) error {
	closeLog, err := setupLogging(opts.logPath, opts.logLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	if opts.fps <= 0 {
		return fmt.Errorf("invalid fps %d", opts.fps)
	}

	var bgR, bgG, bgB uint8
	fmt.Sscanf(opts.bg, "%d,%d,%d", &bgR, &bgG, &bgB)
	bg := render.RGB(bgR, bgG, bgB)

	cfg, name, err := loadConfig(opts)
	if err != nil {
		return err
	}
	sc, err := scene.Build(cfg, opts.texMax)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}

	if opts.snapshot != "" {
		return runHeadless(sc, cfg.QueueCapacity, bg, opts)
	}
	return runTerminal(ctx, sc, cfg.QueueCapacity, bg, name, opts.fps)
}

func setupLogging(path, level string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	render.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})))
	return func() {
		render.SetLogger(nil)
		f.Close()
	}, nil
}

func loadConfig(opts *options) (scene.Config, string, error) {
	var cfg scene.Config
	name := "hangar"
	if opts.scenePath != "" {
		var err error
		cfg, err = scene.Load(opts.scenePath)
		if err != nil {
			return cfg, "", err
		}
		name = filepath.Base(opts.scenePath)
	} else {
		cfg = scene.Default(opts.assetDir)
	}

	cfg.Resolve(scene.Flags{
		FOVY:          opts.fovY,
		Near:          opts.near,
		Far:           opts.far,
		QueueCapacity: opts.queueCap,
		RenderMode:    opts.mode,
		Filter:        opts.filter,
	})
	return cfg, name, nil
}

// runHeadless renders a fixed number of frames offscreen and saves the last.
func runHeadless(sc *scene.Scene, queueCapacity int, bg render.Color, opts *options) error {
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("invalid snapshot size %dx%d", opts.width, opts.height)
	}

	fb := render.NewFramebuffer(opts.width, opts.height)
	rasterizer := render.NewRasterizer(fb)
	rasterizer.Mode = sc.Mode
	rasterizer.Background = bg

	pipeline := render.NewPipeline(sc.Camera, sc.Light, sc.Projection,
		render.Viewport{Width: opts.width, Height: opts.height}, queueCapacity)
	pipeline.Cull = sc.Cull

	var stats render.FrameStats
	for range max(opts.frames, 1) {
		stats = pipeline.Update(sc.Objects)
		rasterizer.Render(pipeline.Queue())
	}

	if err := fb.Save(opts.snapshot); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	fmt.Printf("Wrote %s (%dx%d, %d triangles, %d culled, %d dropped)\n",
		opts.snapshot, fb.Width, fb.Height, stats.Emitted, stats.Culled, stats.Dropped)
	return nil
}

func runTerminal(ctx context.Context, sc *scene.Scene, queueCapacity int, bg render.Color, name string, fps int) error {
	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)
	rasterizer := render.NewRasterizer(fb)
	rasterizer.Background = bg

	pipeline := render.NewPipeline(sc.Camera, sc.Light, sc.Projection,
		render.Viewport{Width: fbWidth, Height: fbHeight}, queueCapacity)

	view := &viewState{mode: sc.Mode, cull: sc.Cull, showHUD: true}
	flight := NewFlight(fps)
	hud := NewHUD(name, sc.TriangleCount())

	log := render.Logger()
	log.Info("terminal started", "cols", width, "rows", height,
		"framebuffer", fmt.Sprintf("%dx%d", fbWidth, fbHeight), "objects", len(sc.Objects))

	// The input goroutine never touches render state; it only sends commands.
	commands := make(chan command, 64)
	go func() {
		for ev := range term.Events() {
			var cmd command
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				cmd = command{kind: cmdResize, width: ev.Width, height: ev.Height}
			case uv.KeyPressEvent:
				var ok bool
				if cmd, ok = matchKey(ev.MatchString); !ok {
					continue
				}
			default:
				continue
			}
			select {
			case commands <- cmd:
			case <-ctx.Done():
				return
			}
		}
	}()

	targetDuration := time.Second / time.Duration(fps)
	lastFrame := time.Now()

	for {
		// Drain input queued since the last frame
	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case cmd := <-commands:
				if cmd.kind == cmdResize {
					term.Erase()
					term.Resize(cmd.width, cmd.height)
					termRenderer = render.NewTerminalRenderer(term, cmd.width, cmd.height)
					fbWidth, fbHeight = termRenderer.FramebufferSize()
					fb.Resize(fbWidth, fbHeight)
					pipeline.Resize(render.Viewport{Width: fbWidth, Height: fbHeight})
					log.Debug("resized", "cols", cmd.width, "rows", cmd.height)
					continue
				}
				if !apply(cmd, view, flight) {
					return nil
				}
			default:
				break drain
			}
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now

		if dt > 0.1 {
			dt = 0.1
		}

		fly(sc.Camera, flight, dt)

		pipeline.Cull = view.cull
		rasterizer.Mode = view.mode
		stats := pipeline.Update(sc.Objects)
		rasterizer.Render(pipeline.Queue())

		// Display
		termRenderer.Render(fb)
		hud.UpdateFPS()
		if view.showHUD {
			_, rows := termRenderer.FramebufferSize()
			termRenderer.DrawStatus(0, hud.Status(view, stats, sc.Camera))
			termRenderer.DrawStatus(rows/2-1, Help)
		}
		if err := termRenderer.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
