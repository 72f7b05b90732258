// Command tileeditor is the desktop tile-map editor.
//
// Controls:
//
//	left / right mouse   paint / erase on the active layer
//	middle mouse drag    pan
//	A / S                previous / next layer
//	Q / W                previous / next tile
//	G                    toggle grid overlay
//	Shift+S              save
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/tilemap-editor/game/config"
	"github.com/wricardo/tilemap-editor/game/editor"
	"github.com/wricardo/tilemap-editor/game/tileset"
	"github.com/wricardo/tilemap-editor/internal/logging"
)

func main() {
	// TILEMAP_* settings may come from a local .env
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:      "tileeditor",
		Usage:     "Edit a layered .tilemap file",
		ArgsUsage: "[MAP]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "settings",
				Value: "editor.yaml",
				Usage: "Editor settings file (optional)",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("TILEMAP_DEBUG"),
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	closer, err := logging.Setup(logging.Options{Debug: cmd.Bool("debug")})
	if err != nil {
		return err
	}
	defer closer.Close()

	settings, err := config.LoadSettings(cmd.String("settings"))
	if err != nil {
		return err
	}
	if cmd.Args().Len() > 0 {
		settings.MapPath = cmd.Args().First()
	}

	images, err := tileset.NewInspector("")
	if err != nil {
		return err
	}
	defer images.Close()

	m, err := loadMap(settings.MapPath, settings, images)
	if err != nil {
		return err
	}

	tilesetImg, _, err := ebitenutil.NewImageFromFile(images.Resolve(m.TilesetPath))
	if err != nil {
		return fmt.Errorf("failed to load tileset %s: %w", m.TilesetPath, err)
	}

	viewport := settings.Viewport()
	session, err := editor.New(m, editor.Options{ViewportSize: viewport})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"map":     settings.MapPath,
		"tileset": m.TilesetPath,
		"tiles":   m.TilesetColumns(),
	}).Info("Editor ready")

	ebiten.SetWindowSize(settings.WindowWidth, settings.WindowHeight)
	ebiten.SetWindowTitle("Tilemap Editor - " + settings.MapPath)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return ebiten.RunGame(newGame(session, tilesetImg, settings.MapPath, viewport))
}
