package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/Garsondee/Hostile-Sense/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	var seed int64
	var profiles string
	var profile string
	var wave int
	var script string
	var debug bool

	flag.Int64Var(&seed, "seed", 1, "arena RNG seed")
	flag.StringVar(&profiles, "profiles", "configs/profiles.yaml", "profiles YAML file (watched for changes); empty uses built-in presets")
	flag.StringVar(&profile, "profile", "tactical", "profile the waves spawn with")
	flag.IntVar(&wave, "wave", 1, "starting wave")
	flag.StringVar(&script, "target-script", "", "built-in target script name or .tengo file; empty for keyboard control")
	flag.BoolVar(&debug, "debug", false, "log at debug level")
	flag.Parse()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	g, err := game.New(game.GameConfig{
		Seed:         seed,
		ProfilesPath: profiles,
		Profile:      profile,
		Wave:         wave,
		TargetScript: script,
		Logger:       logger,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	ebiten.SetWindowTitle("Hostile Sense")
	ebiten.SetWindowSize(1600, 900)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
