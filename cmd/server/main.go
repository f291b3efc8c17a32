// Package main is the entry point for the gig2sfz API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/james-see/gig2sfz/pkg/api"
	"github.com/james-see/gig2sfz/pkg/config"
	"github.com/james-see/gig2sfz/pkg/converter"
	"github.com/james-see/gig2sfz/pkg/logging"
)

func main() {
	port := flag.Int("port", 0, "Server port (default from config, 8080)")
	configPath := flag.String("config", "", "YAML config file")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	conv := converter.New()
	conv.SetPlaceholderName(cfg.PlaceholderName)
	conv.SetLogger(logger)

	fmt.Printf("Starting gig2sfz API server on port %d...\n", cfg.Server.Port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", cfg.Server.Port)

	if err := api.StartServer(cfg.Server.Port, conv); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
