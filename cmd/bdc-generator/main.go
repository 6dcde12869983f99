package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/bdc-tools/bdc-generator/internal/config"
	"github.com/bdc-tools/bdc-generator/internal/generator"
	"github.com/bdc-tools/bdc-generator/internal/mcp"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the run mode
func setupLogging(cfg *config.Config) {
	if cfg.IsMCPMode() {
		// In MCP mode, redirect log output to stderr to avoid interfering
		// with the stdio protocol
		log.SetOutput(os.Stderr)
		if !cfg.Verbose {
			log.SetOutput(io.Discard)
		}
	} else {
		log.SetFlags(0)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	service, err := generator.NewService(generator.Settings{
		TemplatePath:       cfg.TemplatePath,
		OutputDir:          cfg.OutputDir,
		MaxFileSize:        cfg.MaxFileSize,
		FallbackCommercial: cfg.FallbackCommercial,
		PoseAmountPolicy:   cfg.PosePolicy(),
	})
	if err != nil {
		log.Fatalf("Failed to create generation service: %v", err)
	}

	if cfg.IsMCPMode() {
		runMCPMode(cfg, service)
		return
	}

	runCLIMode(cfg, service)
}

// runMCPMode serves the pipeline over MCP stdio. The parent process
// controls our lifecycle; we exit when stdin is closed or on error.
func runMCPMode(cfg *config.Config, service *generator.Service) {
	server, err := mcp.NewServer(cfg, service)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := server.Run(ctx); err != nil {
		if os.Getenv("DEBUG") != "" {
			log.Printf("Server error: %v", err)
		}
		os.Exit(1)
	}
}

// runCLIMode generates purchase orders for the devis named on the command
// line, or for a whole directory with --batch.
func runCLIMode(cfg *config.Config, service *generator.Service) {
	if cfg.Verbose {
		log.Printf("Configuration: %s", cfg.String())
	}

	var successful, failed int

	if cfg.Batch {
		batch, err := service.GenerateBatch(cfg.DevisDirectory, cfg.PoseOverride())
		if err != nil {
			log.Fatalf("Batch run failed: %v", err)
		}
		for _, result := range batch.Results {
			reportSuccess(cfg, &result)
		}
		for _, failure := range batch.Failures {
			fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", failure.Path, failure.Err)
		}
		successful, failed = batch.Successful(), batch.Failed()
	} else {
		paths := pflag.Args()
		if len(paths) == 0 {
			fmt.Fprintln(os.Stderr, "No devis files given. Pass PDF paths or use --batch.")
			pflag.Usage()
			os.Exit(2)
		}

		for _, path := range paths {
			result, err := service.Generate(generator.GenerateRequest{
				Path:         path,
				PoseOverride: cfg.PoseOverride(),
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", path, err)
				failed++
				continue
			}
			reportSuccess(cfg, result)
			successful++
		}
	}

	fmt.Printf("%d successful, %d failed\n", successful, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// reportSuccess prints one generated purchase order, with extraction detail
// in verbose mode.
func reportSuccess(cfg *config.Config, result *generator.GenerateResult) {
	fmt.Printf("Generated %s\n", result.OutputPath)

	if !cfg.Verbose {
		return
	}

	rec := result.Record
	log.Printf("  Devis: %s", rec.Reference)
	log.Printf("  Client: %s", rec.Client.Name)
	log.Printf("  Ref affaire: %s", rec.RefAffaire)
	pose := "non"
	if rec.Pose.Sold {
		pose = "oui"
	}
	log.Printf("  Pose: %s [%s]", pose, rec.Pose.Provenance)
	for field, outcome := range result.Report.Fields {
		log.Printf("  Sanitized %s (%s)", field, outcome)
	}
	for _, w := range rec.Warnings {
		log.Printf("  Warning: %s", w)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("BDC Generator\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
