// Command render draws a board document to a PNG or WebP file.
//
//	render -in board.json -out board.png
//	render -sample -out sample.webp
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/inamate/canvas-go/internal/asset"
	"github.com/inamate/canvas-go/internal/document"
	"github.com/inamate/canvas-go/internal/engine"
	"github.com/inamate/canvas-go/internal/raster"
)

func main() {
	in := flag.String("in", "", "board document JSON")
	out := flag.String("out", "board.png", "output image (.png or .webp)")
	sample := flag.Bool("sample", false, "render the built-in sample board instead of -in")
	assetDir := flag.String("assets", "./data/assets", "directory holding uploaded assets")
	flag.Parse()

	if err := run(*in, *out, *assetDir, *sample); err != nil {
		slog.Error("render", "error", err)
		os.Exit(1)
	}
}

func run(in, out, assetDir string, sample bool) error {
	format, err := raster.ParseFormat(filepath.Ext(out))
	if err != nil {
		return err
	}

	doc, err := loadDocument(in, sample)
	if err != nil {
		return err
	}
	if doc.Board.Width <= 0 || doc.Board.Height <= 0 {
		return fmt.Errorf("board size must be positive, got %dx%d", doc.Board.Width, doc.Board.Height)
	}

	assets, err := asset.NewStore(assetDir)
	if err != nil {
		return fmt.Errorf("open assets: %w", err)
	}

	layer := raster.New(doc.Board.Width, doc.Board.Height)
	scene, err := engine.BuildScene(doc, layer, assets)
	if err != nil {
		return err
	}
	scene.RenderAll()

	img := layer.Flatten(doc.Board.Background)

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := raster.Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	slog.Info("rendered board", "board", doc.Board.ID, "shapes", scene.Len(), "out", out)
	return nil
}

func loadDocument(path string, sample bool) (*document.Document, error) {
	if sample {
		return document.NewSampleDocument("board_sample"), nil
	}
	if path == "" {
		return nil, fmt.Errorf("-in or -sample is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &doc, nil
}
