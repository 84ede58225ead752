package main

import (
	"fmt"
	"time"

	"github.com/taigrr/hangar/pkg/render"
)

// HUD tracks frame rate and formats the status line.
type HUD struct {
	name      string
	polyCount int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a HUD for a scene.
func NewHUD(name string, polyCount int) *HUD {
	return &HUD{name: name, polyCount: polyCount, fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Status returns the one-line summary of the current frame.
func (h *HUD) Status(view *viewState, stats render.FrameStats, cam *render.Camera) string {
	return fmt.Sprintf(" %s | %.0f fps | %s | cull %s | %d/%d tris | culled %d | clipped %d | pos %.1f,%.1f,%.1f ",
		h.name, h.fps, view.mode, view.cull,
		stats.Emitted, h.polyCount, stats.Culled, stats.ClippedAway,
		cam.Position.X, cam.Position.Y, cam.Position.Z)
}

// Help is the bottom-row key reminder.
const Help = " 1-6 mode  c/x cull  i/k pitch  j/l yaw  w/s move  space stop  ? hud  esc quit "
