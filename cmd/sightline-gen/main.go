package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"chosenoffset.com/sightline/internal/world/scene"
	"chosenoffset.com/sightline/internal/world/scenegen"
)

func main() {
	opts := scenegen.DefaultOptions()

	flag.StringVar(&opts.Name, "name", opts.Name, "scene name")
	flag.Int64Var(&opts.Seed, "seed", 0, "random seed (0 = current time)")
	flag.IntVar(&opts.Cells, "cells", opts.Cells, "grid is cells x cells")
	flag.Float64Var(&opts.CellSize, "size", opts.CellSize, "cell size in scene units")
	flag.Float64Var(&opts.Margin, "margin", opts.Margin, "empty border inside each cell, as a fraction of the cell size")
	flag.BoolVar(&opts.Enclose, "enclose", opts.Enclose, "surround the grid with a wall")
	output := flag.String("o", "-", "output file (.json, .yaml or .yml); - writes YAML to stdout")
	flag.Parse()

	doc, err := scenegen.Generate(opts)
	if err != nil {
		log.Fatalf("Failed to generate scene: %v", err)
	}

	format := scene.FormatYAML
	if *output != "-" {
		format = scene.FormatFromPath(*output)
	}
	data, err := doc.Marshal(format)
	if err != nil {
		log.Fatalf("Failed to encode scene: %v", err)
	}

	if *output == "-" {
		fmt.Print(string(data))
		return
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		log.Fatalf("Failed to write scene: %v", err)
	}
	log.Printf("Wrote %s (%d obstacles)", *output, len(doc.Obstacles))
}
