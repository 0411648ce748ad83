package main

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/taigrr/meshview/pkg/render"
)

// runWindow shows the renderer in a desktop window. It blocks until the
// window closes or Escape is pressed.
func runWindow(r *render.Renderer, cam render.Camera, fps int) error {
	g := &windowGame{
		r:        r,
		cam:      cam,
		home:     cam,
		rotation: NewRotationState(fps),
		fps:      fps,
	}

	fb := r.Framebuffer()
	ebiten.SetWindowTitle("meshview - " + r.Mesh().Name)
	ebiten.SetWindowSize(fb.Width, fb.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(fps)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

type windowGame struct {
	r        *render.Renderer
	cam      render.Camera
	home     render.Camera
	rotation *RotationState
	fps      int

	img          *ebiten.Image
	dragging     bool
	lastX, lastY int
}

func (g *windowGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.rotation.Reset()
		g.cam = g.home
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		if g.r.Cull == render.CullBack {
			g.r.Cull = render.CullNone
		} else {
			g.r.Cull = render.CullBack
		}
	}

	dt := 1 / float64(g.fps)
	var yaw, pitch float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		yaw -= torqueStrength * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		yaw += torqueStrength * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		pitch -= torqueStrength * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		pitch += torqueStrength * dt
	}

	x, y := ebiten.CursorPosition()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.dragging = true
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.dragging = false
	case g.dragging:
		// Window pixels are finer than terminal cells.
		yaw += float64(x-g.lastX) * dragStrength / 4
		pitch += float64(y-g.lastY) * dragStrength / 4
	}
	g.lastX, g.lastY = x, y

	g.rotation.ApplyImpulse(yaw, pitch)
	g.rotation.Step(&g.cam)

	_, wheel := ebiten.Wheel()
	zoom := -wheel * zoomStep
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		zoom -= zoomStep
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		zoom += zoomStep
	}
	g.cam.Zoom(zoom)
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	fb := g.r.Framebuffer()
	g.r.Frame(g.cam)

	if g.img == nil || g.img.Bounds().Dx() != fb.Width || g.img.Bounds().Dy() != fb.Height {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(fb.Width, fb.Height)
	}

	g.img.WritePixels(fb.ToImage().Pix)
	screen.DrawImage(g.img, nil)
}

// Layout resizes the framebuffer to follow the window.
func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	fb := g.r.Framebuffer()
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != fb.Width || outsideHeight != fb.Height) {
		g.r.SetFramebuffer(render.NewFramebuffer(outsideWidth, outsideHeight))
	}
	return outsideWidth, outsideHeight
}
