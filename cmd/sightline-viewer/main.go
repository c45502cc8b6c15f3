package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"chosenoffset.com/sightline/internal/config"
	"chosenoffset.com/sightline/internal/logging"
	ebitenrender "chosenoffset.com/sightline/internal/render/ebiten"
	"chosenoffset.com/sightline/internal/viewer"
	"chosenoffset.com/sightline/internal/world/scene"
)

func main() {
	configPath := flag.String("config", "", "configuration file (JSON or YAML)")
	scenePath := flag.String("scene", "", "scene file (overrides viewer.scene)")
	clip := flag.Bool("clip", false, "start with clipping to the view")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *scenePath != "" {
		cfg.Viewer.Scene = *scenePath
	}
	if *clip {
		cfg.Viewer.ClipToScreen = true
	}
	if _, err := logging.Setup(os.Stderr, cfg.Log); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	if cfg.Viewer.Scene == "" {
		log.Fatalf("No scene given: use -scene or viewer.scene")
	}
	sc, err := scene.Load(cfg.Viewer.Scene)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	v := viewer.New(cfg.Viewer, sc, renderer, inputMgr)

	engine.SetWindowSize(cfg.Viewer.WindowWidth, cfg.Viewer.WindowHeight)
	engine.SetWindowTitle(cfg.Viewer.Title + " - " + sc.Name)
	engine.SetWindowResizable(true)

	slog.Info("starting viewer", "scene", sc.Name, "segments", len(sc.Segments()))
	if err := engine.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
