package main

import (
	"fmt"
	"log"
	"os"

	"github.com/rfslib/library-api/internal/auth"
	"github.com/rfslib/library-api/internal/config"
	"github.com/rfslib/library-api/internal/database"
	"github.com/rfslib/library-api/internal/database/users"
	"github.com/rfslib/library-api/internal/entrypoint"
	"github.com/rfslib/library-api/internal/scheduler"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]

	switch command {
	case "maintenance":
		cfg := config.NewConfig()
		if cfg.Auth.JWTSecret == "" {
			fmt.Fprintf(os.Stderr, "Error: JWT_SECRET is not set\n")
			os.Exit(1)
		}
		db, err := database.NewDatabase(cfg.Database.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			}
		}()
		userRepo, err := users.NewRepository(db.DB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		tokens := auth.NewTokenHelper(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		maintenance := scheduler.NewMaintenance(db.DB, userRepo, tokens, cfg.Auth.BcryptCost)
		if err := maintenance.RunOnce(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "version":
		fmt.Printf("library-api %s (%s)\n", Version, Commit)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command>\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve        Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  maintenance  Run one maintenance pass and exit\n")
	fmt.Fprintf(os.Stderr, "  version      Print version information\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s help' to show this message.\n", os.Args[0])
}
