package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	homeroomcmd "github.com/ghchoi48/homeroom/internal/cmd/homeroom"
)

func main() {
	// A .env next to the binary is optional.
	_ = godotenv.Load()

	cfg, err := homeroomcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[HOMEROOM] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := homeroomcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("run: %v", err)
	}
}
