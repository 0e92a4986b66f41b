package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"wildfire-ca/internal/app"
	"wildfire-ca/internal/tui"
)

func main() {
	cfg := app.NewConfig()
	cfg.Width, cfg.Height = 120, 80
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	world, err := cfg.World()
	if err != nil {
		log.Fatalf("fire-tui: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("fire-tui: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("fire-tui: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = tui.New(screen, world, cfg.TPS, cfg.Seed).Run(ctx)
	screen.Fini()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
