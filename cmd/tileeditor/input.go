package main

import (
	"github.com/wricardo/tilemap-editor/game/editor"
	"github.com/wricardo/tilemap-editor/game/tilemap"
)

// keyState is the raw key and button state polled for one tick
type keyState struct {
	cursorX, cursorY int

	middleJustPressed bool
	middleDown        bool
	leftDown          bool
	rightDown         bool
	shiftDown         bool

	aPressed bool
	sPressed bool
	qPressed bool
	wPressed bool
	gPressed bool
}

// toInput maps keys to editor actions. Shift+S saves instead of cycling
// to the next layer.
func (k keyState) toInput() editor.Input {
	return editor.Input{
		Pointer:    tilemap.Vec2{X: float64(k.cursorX), Y: float64(k.cursorY)},
		PanPressed: k.middleJustPressed,
		PanDown:    k.middleDown,
		PaintDown:  k.leftDown,
		EraseDown:  k.rightDown,
		PrevLayer:  k.aPressed,
		NextLayer:  k.sPressed && !k.shiftDown,
		Save:       k.sPressed && k.shiftDown,
		PrevTile:   k.qPressed,
		NextTile:   k.wPressed,
		ToggleGrid: k.gPressed,
	}
}

// screenOffset translates world pixels to viewport pixels. The camera is
// the world point shown at the viewport centre.
func screenOffset(viewport, camera tilemap.Vec2) tilemap.Vec2 {
	return viewport.Scale(0.5).Sub(camera)
}
