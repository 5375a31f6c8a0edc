package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/segmetrics-mcp/internal/config"
	"github.com/ironsheep/segmetrics-mcp/internal/logger"
	"github.com/ironsheep/segmetrics-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("segmetrics-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("segmetrics-mcp - MCP server for segmentation distance fields and metrics")
			fmt.Println()
			fmt.Println("Usage: segmetrics-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from ./.env):")
			fmt.Printf("  %s=debug      Log level: debug, info, warn, error\n", config.EnvLogLevel)
			fmt.Printf("  %s=128        Default mask binarization level (0-255)\n", config.EnvThreshold)
			fmt.Printf("  %s=0           Default cube edge for volume padding (0 = none)\n", config.EnvCubeDim)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client.")
			return
		}
	}

	cfg, warnings := config.Load()

	// Logs go to stderr; stdout is for MCP protocol
	level, ok := logger.ParseLevel(cfg.LogLevel)
	log := logger.NewConsoleLogger(level)
	if !ok {
		log.Warning("main", "unknown log level, using info", map[string]interface{}{"level": cfg.LogLevel})
	}
	for _, w := range warnings {
		log.Warning("config", w, nil)
	}

	log.Debug("main", "starting segmetrics-mcp", map[string]interface{}{
		"version":    Version,
		"build_time": BuildTime,
		"commit":     GitCommit,
		"threshold":  cfg.Threshold,
		"cube_dim":   cfg.CubeDim,
	})

	server.Version = Version
	srv := server.New(cfg, log)
	if err := srv.Run(); err != nil {
		log.Error("main", fmt.Errorf("server error: %w", err), nil)
		os.Exit(1)
	}
}
