package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bdc-tools/bdc-generator/internal/devis"
)

const (
	// Mode constants
	ModeCLI = "cli"
	ModeMCP = "mcp"

	// Default values
	DefaultMaxFileSize  = 50 * 1024 * 1024 // 50MB; devis exports are small
	DefaultTemplateName = "bdc_template.pdf"
	DefaultOutputDir    = "bdc_output"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the BDC generator.
type Config struct {
	// Mode selects the surface: "cli" for direct runs, "mcp" to serve the
	// pipeline over the Model Context Protocol on stdio.
	Mode string

	// TemplatePath is the AcroForm purchase order template.
	TemplatePath string
	// OutputDir receives the generated purchase orders.
	OutputDir string
	// DevisDirectory is the default directory scanned for devis PDFs.
	DevisDirectory string

	// FallbackCommercial is used when a devis names no sales contact.
	FallbackCommercial string
	// PoseAmountPolicy selects the sold-without-amount behavior:
	// "prestations" or "empty".
	PoseAmountPolicy string

	// Batch processes every devis found in DevisDirectory instead of the
	// files named on the command line.
	Batch bool
	// ForcePose and ForceNoPose override the detected installation decision.
	ForcePose   bool
	ForceNoPose bool

	// Application configuration
	Version     string
	AppName     string
	Verbose     bool
	MaxFileSize int64
}

// PoseOverride returns the forced installation decision, or nil when the
// document decides.
func (c *Config) PoseOverride() *bool {
	switch {
	case c.ForcePose:
		v := true
		return &v
	case c.ForceNoPose:
		v := false
		return &v
	default:
		return nil
	}
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:             ModeCLI,
		TemplatePath:     filepath.Join(currentDir, DefaultTemplateName),
		OutputDir:        filepath.Join(currentDir, DefaultOutputDir),
		DevisDirectory:   currentDir,
		PoseAmountPolicy: string(devis.PoseAmountFromPrestations),
		Version:          "1.0.0",
		AppName:          "bdc-generator",
		MaxFileSize:      DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths so later components never deal with relative paths
	for _, p := range []*string{&cfg.TemplatePath, &cfg.OutputDir, &cfg.DevisDirectory} {
		if *p == "" {
			continue
		}
		if expanded, err := filepath.Abs(*p); err == nil {
			*p = expanded
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("BDC")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("template", cfg.TemplatePath)
	viper.SetDefault("output", cfg.OutputDir)
	viper.SetDefault("dir", cfg.DevisDirectory)
	viper.SetDefault("commercial", cfg.FallbackCommercial)
	viper.SetDefault("poseamount", cfg.PoseAmountPolicy)
	viper.SetDefault("batch", cfg.Batch)
	viper.SetDefault("pose", cfg.ForcePose)
	viper.SetDefault("no-pose", cfg.ForceNoPose)
	viper.SetDefault("verbose", cfg.Verbose)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'cli' for direct generation, 'mcp' for an MCP stdio server")
	pflag.String("template", cfg.TemplatePath, "Path to the AcroForm purchase order template")
	pflag.String("output", cfg.OutputDir, "Directory for generated purchase orders")
	pflag.String("dir", cfg.DevisDirectory, "Default directory containing devis PDFs")
	pflag.String("commercial", cfg.FallbackCommercial, "Sales contact used when the devis names none")
	pflag.String("poseamount", cfg.PoseAmountPolicy,
		"Pose amount when installation is sold without a readable amount: 'prestations' or 'empty'")
	pflag.Bool("batch", cfg.Batch, "Process every devis PDF in the devis directory")
	pflag.Bool("pose", cfg.ForcePose, "Force the installation decision to sold")
	pflag.Bool("no-pose", cfg.ForceNoPose, "Force the installation decision to not sold")
	pflag.Bool("verbose", cfg.Verbose, "Log per-document extraction details")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum devis PDF size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("template", pflag.Lookup("template"))
	_ = viper.BindPFlag("output", pflag.Lookup("output"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("commercial", pflag.Lookup("commercial"))
	_ = viper.BindPFlag("poseamount", pflag.Lookup("poseamount"))
	_ = viper.BindPFlag("batch", pflag.Lookup("batch"))
	_ = viper.BindPFlag("pose", pflag.Lookup("pose"))
	_ = viper.BindPFlag("no-pose", pflag.Lookup("no-pose"))
	_ = viper.BindPFlag("verbose", pflag.Lookup("verbose"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nBDC Generator - builds purchase orders from devis PDFs\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s SRX2512AFF040301.pdf                    # generate one purchase order\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --batch --dir=/path/to/devis            # process a whole directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --pose devis.pdf                        # force installation sold\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=mcp --dir=/path/to/devis         # serve over MCP stdio\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  BDC_MODE         Run mode\n")
		fmt.Fprintf(os.Stderr, "  BDC_TEMPLATE     Template path\n")
		fmt.Fprintf(os.Stderr, "  BDC_OUTPUT       Output directory\n")
		fmt.Fprintf(os.Stderr, "  BDC_DIR          Devis directory\n")
		fmt.Fprintf(os.Stderr, "  BDC_COMMERCIAL   Fallback sales contact\n")
		fmt.Fprintf(os.Stderr, "  BDC_POSEAMOUNT   Pose amount fallback policy\n")
		fmt.Fprintf(os.Stderr, "  BDC_MAXFILESIZE  Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.TemplatePath = viper.GetString("template")
	cfg.OutputDir = viper.GetString("output")
	cfg.DevisDirectory = viper.GetString("dir")
	cfg.FallbackCommercial = viper.GetString("commercial")
	cfg.PoseAmountPolicy = viper.GetString("poseamount")
	cfg.Batch = viper.GetBool("batch")
	cfg.ForcePose = viper.GetBool("pose")
	cfg.ForceNoPose = viper.GetBool("no-pose")
	cfg.Verbose = viper.GetBool("verbose")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Mode != ModeCLI && c.Mode != ModeMCP {
		return errors.New("mode must be either 'cli' or 'mcp'")
	}

	if c.TemplatePath == "" {
		return errors.New("template path cannot be empty")
	}

	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}
	if _, err := os.Stat(c.OutputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDir, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.ForcePose && c.ForceNoPose {
		return errors.New("--pose and --no-pose are mutually exclusive")
	}

	switch devis.PoseAmountPolicy(c.PoseAmountPolicy) {
	case devis.PoseAmountFromPrestations, devis.PoseAmountLeaveEmpty:
	default:
		return fmt.Errorf("invalid pose amount policy: %s (must be 'prestations' or 'empty')", c.PoseAmountPolicy)
	}

	return nil
}

// PosePolicy returns the typed pose amount fallback policy.
func (c *Config) PosePolicy() devis.PoseAmountPolicy {
	return devis.PoseAmountPolicy(c.PoseAmountPolicy)
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Template: %s, OutputDir: %s, DevisDirectory: %s, PoseAmountPolicy: %s, MaxFileSize: %d}",
		c.Mode, c.TemplatePath, c.OutputDir, c.DevisDirectory, c.PoseAmountPolicy, c.MaxFileSize)
}

// IsMCPMode returns true when the generator should serve over MCP stdio.
func (c *Config) IsMCPMode() bool {
	return c.Mode == ModeMCP
}

// IsCLIMode returns true when the generator runs directly from the shell.
func (c *Config) IsCLIMode() bool {
	return c.Mode == ModeCLI
}
