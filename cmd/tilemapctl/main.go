// Command tilemapctl creates, checks, and inspects .tilemap files from the
// command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/tilemap-editor/game/tilemap"
	"github.com/wricardo/tilemap-editor/game/tileset"
	"github.com/wricardo/tilemap-editor/validate"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "tilemapctl",
		Usage: "Create, validate, and inspect .tilemap files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "assets-dir",
				Usage:   "Directory tileset paths are resolved against",
				Sources: cli.EnvVars("TILEMAP_ASSETS_DIR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "new",
				Usage: "Write an empty map",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tileset", Value: tilemap.DefaultTileset, Usage: "Tileset image path"},
					&cli.IntFlag{Name: "layers", Value: 1, Usage: "Number of layers"},
					&cli.IntFlag{Name: "rows", Value: 16, Usage: "Rows per layer"},
					&cli.IntFlag{Name: "cols", Value: 16, Usage: "Columns per layer"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: tilemap.DefaultPath, Usage: "Output file"},
					&cli.BoolFlag{Name: "force", Usage: "Overwrite an existing file"},
				},
				Action: newMap,
			},
			{
				Name:      "validate",
				Usage:     "Check map files for format errors and suspicious tile ids",
				ArgsUsage: "FILE...",
				Action:    validateMaps,
			},
			{
				Name:      "stat",
				Usage:     "Print dimensions and tile usage",
				ArgsUsage: "FILE",
				Action:    statMap,
			},
			{
				Name:      "ascii",
				Usage:     "Print one layer as a grid of tile ids",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "layer", Aliases: []string{"l"}, Usage: "Layer to print"},
				},
				Action: asciiMap,
			},
			{
				Name:      "fmt",
				Usage:     "Rewrite a map in canonical form",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "write", Aliases: []string{"w"}, Usage: "Write the result back to FILE instead of stdout"},
				},
				Action: fmtMap,
			},
		},
	}
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func fileArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", fmt.Errorf("%s expects exactly one FILE argument", cmd.Name)
	}
	return cmd.Args().First(), nil
}

// parseFile decodes a map without looking at its tileset
func parseFile(path string) (string, *tilemap.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	tilesetPath, grid, err := tilemap.Parse(string(data))
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	return tilesetPath, grid, nil
}

func newMap(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if !cmd.Bool("force") {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	tilesetPath := cmd.String("tileset")
	if tilesetPath == "" || strings.ContainsRune(tilesetPath, '"') {
		return fmt.Errorf("invalid tileset path %q", tilesetPath)
	}

	grid, err := tilemap.NewGrid(int(cmd.Int("layers")), int(cmd.Int("rows")), int(cmd.Int("cols")))
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(tilemap.EncodeGrid(tilesetPath, grid)), 0o644); err != nil {
		return err
	}

	d := grid.Dimensions()
	fmt.Fprintf(stdout(cmd), "Created %s (%d layer(s), %d cols x %d rows, tileset %s)\n", path, d.Layers, d.Cols, d.Rows, tilesetPath)
	return nil
}

func validateMaps(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("validate expects at least one FILE argument")
	}

	images, err := tileset.NewInspector(cmd.String("assets-dir"))
	if err != nil {
		return err
	}
	defer images.Close()

	var results []validate.ValidationResult
	for _, path := range cmd.Args().Slice() {
		results = append(results, validate.File(path, images))
	}

	if !validate.Print(stdout(cmd), results) {
		return errors.New("validation failed")
	}
	return nil
}

func statMap(ctx context.Context, cmd *cli.Command) error {
	path, err := fileArg(cmd)
	if err != nil {
		return err
	}
	tilesetPath, grid, err := parseFile(path)
	if err != nil {
		return err
	}

	w := stdout(cmd)
	d := grid.Dimensions()
	fmt.Fprintf(w, "File:       %s\n", path)
	fmt.Fprintf(w, "Tileset:    %s\n", tilesetPath)
	fmt.Fprintf(w, "Dimensions: %d layer(s), %d cols x %d rows\n", d.Layers, d.Cols, d.Rows)

	images, err := tileset.NewInspector(cmd.String("assets-dir"))
	if err != nil {
		return err
	}
	defer images.Close()
	if width, height, err := images.ImageSize(tilesetPath); err == nil && height > 0 {
		m := tilemap.Map{TilesetPath: tilesetPath, TileSize: height, TilesetWidth: width}
		fmt.Fprintf(w, "Tiles:      %d of %dpx\n", m.TilesetColumns(), m.TileSize)
	} else {
		fmt.Fprintf(w, "Tiles:      unknown (%v)\n", err)
	}

	fmt.Fprintf(w, "Painted:    %d of %d cells\n", grid.Count(), d.Layers*d.Rows*d.Cols)

	usage := map[tilemap.TileID]int{}
	for l := 0; l < d.Layers; l++ {
		layerCount := 0
		for _, row := range grid.Layer(l) {
			for _, id := range row {
				if id != tilemap.Empty {
					usage[id]++
					layerCount++
				}
			}
		}
		fmt.Fprintf(w, "  layer %d:  %d\n", l, layerCount)
	}

	if len(usage) == 0 {
		return nil
	}
	ids := make([]tilemap.TileID, 0, len(usage))
	for id := range usage {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fmt.Fprintln(w, "Tile usage:")
	for _, id := range ids {
		fmt.Fprintf(w, "  %5d  %d\n", id, usage[id])
	}
	return nil
}

func asciiMap(ctx context.Context, cmd *cli.Command) error {
	path, err := fileArg(cmd)
	if err != nil {
		return err
	}
	_, grid, err := parseFile(path)
	if err != nil {
		return err
	}

	layer := int(cmd.Int("layer"))
	if layer < 0 || layer >= grid.LayerCount() {
		return fmt.Errorf("%w: %d (map has %d layers)", tilemap.ErrLayerOutOfRange, layer, grid.LayerCount())
	}

	rows := grid.Layer(layer)
	width := 1
	for _, row := range rows {
		for _, id := range row {
			width = max(width, len(strconv.Itoa(int(id))))
		}
	}

	w := stdout(cmd)
	for _, row := range rows {
		cells := make([]string, len(row))
		for c, id := range row {
			cell := "."
			if id != tilemap.Empty {
				cell = strconv.Itoa(int(id))
			}
			cells[c] = fmt.Sprintf("%*s", width, cell)
		}
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
	return nil
}

func fmtMap(ctx context.Context, cmd *cli.Command) error {
	path, err := fileArg(cmd)
	if err != nil {
		return err
	}
	tilesetPath, grid, err := parseFile(path)
	if err != nil {
		return err
	}

	text := tilemap.EncodeGrid(tilesetPath, grid)
	if cmd.Bool("write") {
		return os.WriteFile(path, []byte(text), 0o644)
	}
	_, err = fmt.Fprintln(stdout(cmd), text)
	return err
}
