package config

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Helper function to reset pflag.CommandLine for testing
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	viper.Reset()
}

// Helper function to set os.Args for testing
func setArgs(args []string) {
	os.Args = args
}

// Helper function to clear environment variables
func clearEnvVars() {
	os.Unsetenv("BDC_MODE")
	os.Unsetenv("BDC_TEMPLATE")
	os.Unsetenv("BDC_OUTPUT")
	os.Unsetenv("BDC_DIR")
	os.Unsetenv("BDC_COMMERCIAL")
	os.Unsetenv("BDC_POSEAMOUNT")
	os.Unsetenv("BDC_MAXFILESIZE")
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	originalArgs := os.Args
	originalDir, _ := os.Getwd()
	defer func() {
		os.Args = originalArgs
		_ = os.Chdir(originalDir)
		resetFlags()
		clearEnvVars()
	}()

	// Run from a temp dir so the default output dir is created there
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}

	setArgs([]string{"bdc-generator"})
	resetFlags()
	clearEnvVars()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "cli" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "cli")
	}
	if cfg.PoseAmountPolicy != "prestations" {
		t.Errorf("LoadFromFlags() PoseAmountPolicy = %v, want %v", cfg.PoseAmountPolicy, "prestations")
	}
	if cfg.MaxFileSize != 50*1024*1024 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 50*1024*1024)
	}
	if cfg.TemplatePath == "" {
		t.Error("LoadFromFlags() TemplatePath should not be empty")
	}
	if cfg.DevisDirectory == "" {
		t.Error("LoadFromFlags() DevisDirectory should not be empty")
	}
}

func TestLoadFromFlags_ValidFlags(t *testing.T) {
	tests := []struct {
		name           string
		extraArgs      []string
		wantMode       string
		wantCommercial string
		wantPosePolicy string
		wantBatch      bool
	}{
		{
			name:           "cli mode with custom directory",
			extraArgs:      nil,
			wantMode:       "cli",
			wantPosePolicy: "prestations",
		},
		{
			name:           "mcp mode",
			extraArgs:      []string{"--mode=mcp"},
			wantMode:       "mcp",
			wantPosePolicy: "prestations",
		},
		{
			name:           "fallback commercial",
			extraArgs:      []string{"--commercial=Jean MARTIN"},
			wantMode:       "cli",
			wantCommercial: "Jean MARTIN",
			wantPosePolicy: "prestations",
		},
		{
			name:           "pose amount left empty",
			extraArgs:      []string{"--poseamount=empty"},
			wantMode:       "cli",
			wantPosePolicy: "empty",
		},
		{
			name:           "batch run",
			extraArgs:      []string{"--batch"},
			wantMode:       "cli",
			wantPosePolicy: "prestations",
			wantBatch:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalArgs := os.Args
			defer func() {
				os.Args = originalArgs
				resetFlags()
				clearEnvVars()
			}()

			tempDir := t.TempDir()
			outputDir := t.TempDir()

			args := []string{"bdc-generator", "--dir=" + tempDir, "--output=" + outputDir}
			args = append(args, tt.extraArgs...)

			setArgs(args)
			resetFlags()
			clearEnvVars()

			cfg, err := LoadFromFlags()
			if err != nil {
				t.Fatalf("LoadFromFlags() unexpected error: %v", err)
			}

			if cfg.Mode != tt.wantMode {
				t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, tt.wantMode)
			}
			if cfg.FallbackCommercial != tt.wantCommercial {
				t.Errorf("LoadFromFlags() FallbackCommercial = %v, want %v", cfg.FallbackCommercial, tt.wantCommercial)
			}
			if cfg.PoseAmountPolicy != tt.wantPosePolicy {
				t.Errorf("LoadFromFlags() PoseAmountPolicy = %v, want %v", cfg.PoseAmountPolicy, tt.wantPosePolicy)
			}
			if cfg.Batch != tt.wantBatch {
				t.Errorf("LoadFromFlags() Batch = %v, want %v", cfg.Batch, tt.wantBatch)
			}
			if cfg.DevisDirectory == "" {
				t.Error("LoadFromFlags() DevisDirectory should not be empty")
			}
		})
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	outputDir := t.TempDir()

	os.Setenv("BDC_MODE", "mcp")
	os.Setenv("BDC_DIR", tempDir)
	os.Setenv("BDC_OUTPUT", outputDir)
	os.Setenv("BDC_COMMERCIAL", "Jean MARTIN")
	os.Setenv("BDC_POSEAMOUNT", "empty")
	os.Setenv("BDC_MAXFILESIZE", "2000000")

	setArgs([]string{"bdc-generator"})
	resetFlags()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "mcp" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "mcp")
	}
	if cfg.FallbackCommercial != "Jean MARTIN" {
		t.Errorf("LoadFromFlags() FallbackCommercial = %v, want %v", cfg.FallbackCommercial, "Jean MARTIN")
	}
	if cfg.PoseAmountPolicy != "empty" {
		t.Errorf("LoadFromFlags() PoseAmountPolicy = %v, want %v", cfg.PoseAmountPolicy, "empty")
	}
	if cfg.MaxFileSize != 2000000 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 2000000)
	}
}

func TestLoadFromFlags_FlagOverridesEnvironment(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	outputDir := t.TempDir()

	os.Setenv("BDC_MODE", "mcp")
	os.Setenv("BDC_COMMERCIAL", "Jean MARTIN")

	setArgs([]string{
		"bdc-generator",
		"--mode=cli",
		"--commercial=Paul DURAND",
		"--dir=" + tempDir,
		"--output=" + outputDir,
	})
	resetFlags()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	// Flags should override environment variables
	if cfg.Mode != "cli" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v (should override env)", cfg.Mode, "cli")
	}
	if cfg.FallbackCommercial != "Paul DURAND" {
		t.Errorf("LoadFromFlags() FallbackCommercial = %v, want %v (should override env)",
			cfg.FallbackCommercial, "Paul DURAND")
	}
}

func TestLoadFromFlags_InvalidMode(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	setArgs([]string{"bdc-generator", "--mode=invalid", "--dir=" + tempDir, "--output=" + t.TempDir()})
	resetFlags()
	clearEnvVars()

	_, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected error for invalid mode")
	}
	if err != nil && !contains(err.Error(), "mode must be either 'cli' or 'mcp'") {
		t.Errorf("LoadFromFlags() error = %v, want error about invalid mode", err)
	}
}

func TestLoadFromFlags_InvalidPosePolicy(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	setArgs([]string{"bdc-generator", "--poseamount=guess", "--output=" + t.TempDir()})
	resetFlags()
	clearEnvVars()

	_, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected error for invalid pose amount policy")
	}
	if err != nil && !contains(err.Error(), "invalid pose amount policy") {
		t.Errorf("LoadFromFlags() error = %v, want error about pose amount policy", err)
	}
}

func TestLoadFromFlags_ConflictingPoseOverrides(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	setArgs([]string{"bdc-generator", "--pose", "--no-pose", "--output=" + t.TempDir()})
	resetFlags()
	clearEnvVars()

	if _, err := LoadFromFlags(); err == nil {
		t.Error("LoadFromFlags() expected error for conflicting pose overrides")
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	setArgs([]string{"bdc-generator", "--version"})
	resetFlags()
	clearEnvVars()

	_, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected version error")
	}
	if err != nil && err.Error() != "version requested" {
		t.Errorf("LoadFromFlags() error = %v, want 'version requested'", err)
	}
}
