package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	log "github.com/sirupsen/logrus"
	"github.com/wricardo/tilemap-editor/game/editor"
	"github.com/wricardo/tilemap-editor/game/tilemap"
)

var (
	backgroundColor = color.RGBA{32, 32, 40, 255}
	gridColor       = color.RGBA{255, 255, 255, 48}
)

// Game adapts an editor session to ebiten's loop
type Game struct {
	session  *editor.Session
	tileset  *ebiten.Image
	mapPath  string
	viewport tilemap.Vec2
	status   string
}

func newGame(s *editor.Session, tileset *ebiten.Image, mapPath string, viewport tilemap.Vec2) *Game {
	return &Game{
		session:  s,
		tileset:  tileset,
		mapPath:  mapPath,
		viewport: viewport,
	}
}

func pollKeys() keyState {
	x, y := ebiten.CursorPosition()
	return keyState{
		cursorX:           x,
		cursorY:           y,
		middleJustPressed: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle),
		middleDown:        ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle),
		leftDown:          ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		rightDown:         ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		shiftDown:         ebiten.IsKeyPressed(ebiten.KeyShift),
		aPressed:          inpututil.IsKeyJustPressed(ebiten.KeyA),
		sPressed:          inpututil.IsKeyJustPressed(ebiten.KeyS),
		qPressed:          inpututil.IsKeyJustPressed(ebiten.KeyQ),
		wPressed:          inpututil.IsKeyJustPressed(ebiten.KeyW),
		gPressed:          inpututil.IsKeyJustPressed(ebiten.KeyG),
	}
}

func (g *Game) Update() error {
	res := g.session.Update(pollKeys().toInput())
	if res.Changed {
		g.status = ""
	}
	if res.SaveRequested {
		if err := saveMap(g.mapPath, g.session); err != nil {
			log.Error(err)
			g.status = "save failed"
		} else {
			g.status = "saved"
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	frame := g.session.Render()
	offset := screenOffset(g.viewport, frame.Camera)

	for _, d := range frame.Directives {
		g.drawTile(screen, d, offset)
	}
	g.drawTile(screen, frame.Cursor, offset)

	for _, r := range frame.Overlay {
		vector.StrokeRect(screen,
			float32(r.X+offset.X), float32(r.Y+offset.Y),
			float32(r.W), float32(r.H),
			1, gridColor, false)
	}

	d := g.session.Grid().Dimensions()
	hud := fmt.Sprintf("layer %d/%d  tile %d  %s", g.session.SelectedLayer()+1, d.Layers, g.session.SelectedTile(), g.status)
	ebitenutil.DebugPrint(screen, hud)
}

func (g *Game) drawTile(screen *ebiten.Image, d tilemap.Directive, offset tilemap.Vec2) {
	src := d.Source
	rect := image.Rect(int(src.X), int(src.Y), int(src.X+src.W), int(src.Y+src.H))
	if !rect.In(g.tileset.Bounds()) {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(d.Dest.X+offset.X, d.Dest.Y+offset.Y)
	op.ColorScale.ScaleWithColor(d.Tint.NRGBA())
	screen.DrawImage(g.tileset.SubImage(rect).(*ebiten.Image), op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.viewport.X), int(g.viewport.Y)
}
