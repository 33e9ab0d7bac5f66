package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ironsheep/rosette-tools-mcp/internal/config"
	"github.com/ironsheep/rosette-tools-mcp/internal/logging"
	"github.com/ironsheep/rosette-tools-mcp/internal/server"
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
			fmt.Printf("rosette-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	// A missing .env is normal
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Logging goes to stderr (stdout is for MCP protocol)
	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting rosette MCP server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit),
		zap.Float64("vertex_radius", cfg.VertexRadius),
		zap.Int("min_cells_for_rosette", cfg.MinCellsForRosette))

	srv := server.NewWithConfig(cfg, logger)
	if err := srv.Run(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func printHelp() {
	fmt.Println("rosette-tools-mcp - MCP server for rosette and junction detection in cell label masks")
	fmt.Println()
	fmt.Println("Usage: rosette-tools-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from ./.env):")
	fmt.Println("  ROSETTE_CONFIG=path.yaml       YAML configuration file")
	fmt.Println("  ROSETTE_VERTEX_RADIUS=15       Contact and clustering radius in pixels")
	fmt.Println("  ROSETTE_MIN_CELLS=5            Cells needed for a vertex to be a rosette")
	fmt.Println("  ROSETTE_NEIGHBOR_RADIUS=1.5    Boundary distance for neighbouring cells")
	fmt.Println("  ROSETTE_MIN_CELL_AREA=100      Smallest accepted cell area in pixels")
	fmt.Println("  ROSETTE_MAX_CELL_AREA=5000     Largest accepted cell area (0 = no limit)")
	fmt.Println("  ROSETTE_WORKERS=0              Contact search workers (0 = all CPUs)")
	fmt.Println("  ROSETTE_BACKGROUND=#000000     Background colour of colour masks")
	fmt.Println("  ROSETTE_LOG_LEVEL=info         debug, info, warn or error")
	fmt.Println("  ROSETTE_DEV=false              Human-readable console logs")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
