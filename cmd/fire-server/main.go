package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"wildfire-ca/internal/config"
	"wildfire-ca/internal/server"
)

func main() {
	path := flag.String("config", "", "path to a wildfire YAML config")
	addr := flag.String("addr", "", "listen address (overrides the config)")
	flag.Parse()

	file := config.Default()
	if *path != "" {
		var err error
		if file, err = config.FromYaml(*path); err != nil {
			log.Fatal(err)
		}
	}
	if *addr != "" {
		file.Server.Addr = *addr
	}

	srv, err := server.New(file)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("serving on %s", file.Server.Addr)
	if err := srv.Serve(ctx); err != nil {
		log.Fatal(err)
	}
}
