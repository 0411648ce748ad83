package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/meshview/pkg/render"
)

const (
	torqueStrength = 3.0  // radians/s² while a rotate key is held
	dragStrength   = 0.03 // radians per cell of mouse drag
	zoomStep       = 0.5
	maxFrameDelta  = 0.1 // seconds
)

// RotationAxis holds the angular velocity of one axis and decays it toward
// zero with a critically damped spring.
type RotationAxis struct {
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // spring velocity of Velocity itself
}

// NewRotationAxis creates an axis whose spring runs at fps.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Step returns the rotation to apply this frame and decays the velocity.
func (a *RotationAxis) Step() float64 {
	v := a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
	return v
}

// RotationState tracks yaw and pitch momentum.
type RotationState struct {
	Yaw, Pitch RotationAxis
	fps        int
}

func NewRotationState(fps int) *RotationState {
	return &RotationState{
		Yaw:   NewRotationAxis(fps),
		Pitch: NewRotationAxis(fps),
		fps:   fps,
	}
}

// ApplyImpulse adds angular velocity.
func (r *RotationState) ApplyImpulse(yaw, pitch float64) {
	r.Yaw.Velocity += yaw
	r.Pitch.Velocity += pitch
}

// Step rotates cam by this frame's momentum.
func (r *RotationState) Step(cam *render.Camera) {
	cam.Rotate(r.Yaw.Step(), r.Pitch.Step())
}

// Reset stops all motion.
func (r *RotationState) Reset() {
	r.Yaw = NewRotationAxis(r.fps)
	r.Pitch = NewRotationAxis(r.fps)
}

// inputState collects events between frames. The event goroutine writes
// it; the frame loop drains it with take.
type inputState struct {
	mu sync.Mutex

	torqueYaw, torquePitch   float64
	impulseYaw, impulsePitch float64
	zoom                     float64
	reset                    bool
	toggleCull               bool
	toggleHUD                bool
	resized                  bool
	width, height            int

	dragging     bool
	lastX, lastY int
}

// frameInput is one frame's worth of input.
type frameInput struct {
	torqueYaw, torquePitch   float64
	impulseYaw, impulsePitch float64
	zoom                     float64
	reset                    bool
	toggleCull               bool
	toggleHUD                bool
	resized                  bool
	width, height            int
}

// take returns the pending input and clears the one-shot parts. Held-key
// torque decays instead of clearing, since key release events are not
// reported by every terminal.
func (s *inputState) take() frameInput {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := frameInput{
		torqueYaw:    s.torqueYaw,
		torquePitch:  s.torquePitch,
		impulseYaw:   s.impulseYaw,
		impulsePitch: s.impulsePitch,
		zoom:         s.zoom,
		reset:        s.reset,
		toggleCull:   s.toggleCull,
		toggleHUD:    s.toggleHUD,
		resized:      s.resized,
		width:        s.width,
		height:       s.height,
	}
	s.torqueYaw *= 0.9
	s.torquePitch *= 0.9
	s.impulseYaw, s.impulsePitch, s.zoom = 0, 0, 0
	s.reset, s.toggleCull, s.toggleHUD, s.resized = false, false, false, false
	return in
}

// handle records one terminal event. It reports false when the viewer
// should quit.
func (s *inputState) handle(ev uv.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		s.width, s.height, s.resized = ev.Width, ev.Height, true

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "ctrl+c", "q"):
			return false
		case ev.MatchString("w", "up"):
			s.torquePitch = -torqueStrength
		case ev.MatchString("s", "down"):
			s.torquePitch = torqueStrength
		case ev.MatchString("a", "left"):
			s.torqueYaw = -torqueStrength
		case ev.MatchString("d", "right"):
			s.torqueYaw = torqueStrength
		case ev.MatchString("+", "="):
			s.zoom -= zoomStep
		case ev.MatchString("-", "_"):
			s.zoom += zoomStep
		case ev.MatchString("r"):
			s.reset = true
		case ev.MatchString("b"):
			s.toggleCull = !s.toggleCull
		case ev.MatchString("?", "shift+/"):
			s.toggleHUD = !s.toggleHUD
		}

	case uv.KeyReleaseEvent:
		switch {
		case ev.MatchString("w", "up", "s", "down"):
			s.torquePitch = 0
		case ev.MatchString("a", "left", "d", "right"):
			s.torqueYaw = 0
		}

	case uv.MouseClickEvent:
		s.dragging = true
		s.lastX, s.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		s.dragging = false

	case uv.MouseMotionEvent:
		if s.dragging {
			s.impulseYaw += float64(ev.X-s.lastX) * dragStrength
			s.impulsePitch += float64(ev.Y-s.lastY) * dragStrength
			s.lastX, s.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			s.zoom -= zoomStep
		case uv.MouseWheelDown:
			s.zoom += zoomStep
		}
	}
	return true
}

// HUD renders an overlay with model info and frame statistics.
type HUD struct {
	filename  string
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD
func NewHUD(filename string) *HUD {
	return &HUD{filename: filename, fpsTime: time.Now()}
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

// Render draws the HUD directly to the terminal. The top and bottom rows
// are always cleared so that hiding the HUD takes effect.
func (h *HUD) Render(width, height int, show bool, cam render.Camera, cull render.CullMode, stats render.FrameStats) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)
	if !show {
		return
	}

	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	titleCol := max((width-len(h.filename)-2)/2, 1)
	fmt.Printf("%s%s%s%s %s %s", moveTo(1, titleCol), bold, bgBlack, fgWhite, h.filename, reset)

	tris := fmt.Sprintf(" %d tris ", stats.Triangles)
	fmt.Printf("%s%s%s%s%s%s", moveTo(1, max(width-len(tris), 1)), bgBlack, fgCyan, bold, tris, reset)

	fmt.Printf("%s%s%s drawn %d  culled %d  near %d  degenerate %d  cull:%s  dist %.1f %s",
		moveTo(height, 1), bgBlack, fgWhite,
		stats.Drawn, stats.Culled, stats.SkippedNear, stats.Degenerate, cull, cam.Distance, reset)
}

// runTerminal shows the renderer in the terminal until the user quits or
// ctx is canceled.
func runTerminal(ctx context.Context, r *render.Renderer, cam render.Camera, fps int) (err error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

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
	if err := term.Resize(width, height); err != nil {
		slog.Debug("resize terminal", "error", err)
	}

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		if shutdownErr := term.Shutdown(context.Background()); shutdownErr != nil && err == nil {
			err = fmt.Errorf("shutdown terminal: %w", shutdownErr)
		}
	}()

	r.SetFramebuffer(render.NewFramebuffer(render.TerminalFramebufferSize(width, height)))

	home := cam
	rotation := NewRotationState(fps)
	hud := NewHUD(r.Mesh().Name)
	showHUD := true
	input := &inputState{}

	go func() {
		for ev := range term.Events() {
			if !input.handle(ev) {
				cancel()
				return
			}
		}
	}()

	targetDuration := time.Second / time.Duration(fps)
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), maxFrameDelta)
		lastFrame = now

		in := input.take()
		if in.resized {
			width, height = in.width, in.height
			term.Erase()
			if err := term.Resize(width, height); err != nil {
				slog.Debug("resize terminal", "error", err)
			}
			r.SetFramebuffer(render.NewFramebuffer(render.TerminalFramebufferSize(width, height)))
		}
		if in.reset {
			rotation.Reset()
			cam = home
		}
		if in.toggleCull {
			if r.Cull == render.CullBack {
				r.Cull = render.CullNone
			} else {
				r.Cull = render.CullBack
			}
		}
		if in.toggleHUD {
			showHUD = !showHUD
		}

		rotation.ApplyImpulse(in.torqueYaw*dt+in.impulseYaw, in.torquePitch*dt+in.impulsePitch)
		rotation.Step(&cam)
		cam.Zoom(in.zoom)

		stats := r.Frame(cam)

		r.Framebuffer().Draw(term, term.Bounds())
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		hud.UpdateFPS()
		hud.Render(width, height, showHUD, cam, r.Cull, stats)

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
