//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"wildfire-ca/internal/app"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	world, err := cfg.World()
	if err != nil {
		log.Fatalf("wildfire: %v", err)
	}

	game := app.New(world, cfg.Scale, cfg.TPS, cfg.Seed)
	size := world.Size()

	ebiten.SetWindowTitle("wildfire-ca")
	ebiten.SetTPS(60)
	ebiten.SetWindowSize(size.W*cfg.Scale+app.HUDWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
