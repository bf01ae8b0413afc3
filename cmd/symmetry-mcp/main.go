package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/symmetry-mcp/internal/config"
	"github.com/ironsheep/symmetry-mcp/internal/features"
	"github.com/ironsheep/symmetry-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("symmetry-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			fmt.Printf("  Features:   %s\n", features.Backend())
			return
		case "--help", "-h", "help":
			printUsage()
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if len(os.Args) > 1 && os.Args[1] == "detect" {
		os.Exit(runDetect(cfg, os.Args[2:], os.Stdout))
	}

	if cfg.Debug() {
		log.Printf("Symmetry MCP Server v%s (built %s, commit %s, features %s)", Version, BuildTime, GitCommit, features.Backend())
	}

	srv := server.New(cfg, Version)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printUsage() {
	fmt.Println("symmetry-mcp - MCP server for mirror-symmetry detection")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  symmetry-mcp                 Serve MCP over stdin/stdout")
	fmt.Println("  symmetry-mcp detect [options] <image|glob>...")
	fmt.Println("                               Print the mirror axis of each image")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Detect options:")
	fmt.Println("  --vertical       Allow a vertical axis (θ = 0)")
	fmt.Println("  --bins N         Accumulator divisions (default from SYMMETRY_MCP_BINS)")
	fmt.Println("  --out PATH       Write the image with the axis drawn; a directory when")
	fmt.Println("                   several images are given")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  SYMMETRY_MCP_LOG_LEVEL=debug     Enable debug logging")
	fmt.Println("  SYMMETRY_MCP_BINS=200            Accumulator divisions per axis")
	fmt.Println("  SYMMETRY_MCP_WORKERS=1           Goroutines for voting")
	fmt.Println("  SYMMETRY_MCP_MAX_DIMENSION=1024  Downscale larger images (0 disables)")
	fmt.Println("  SYMMETRY_MCP_MAX_KEYPOINTS=500   Keypoints kept per image")
	fmt.Println("  SYMMETRY_MCP_LINE_COLOR=#FFFFFF  Mirror line colour")
	fmt.Println()
	fmt.Println("Without arguments the server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
