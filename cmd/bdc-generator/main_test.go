package main

import (
	"io"
	"log"
	"os"
	"testing"

	"github.com/bdc-tools/bdc-generator/internal/config"
)

func TestSetupLoggingMCPMode(t *testing.T) {
	origWriter := log.Writer()
	origFlags := log.Flags()
	defer func() {
		log.SetOutput(origWriter)
		log.SetFlags(origFlags)
	}()

	// Quiet MCP mode must drop log writes entirely; anything touching the
	// stdio pipes would corrupt the protocol stream.
	cfg := &config.Config{Mode: config.ModeMCP}
	setupLogging(cfg)
	if log.Writer() != io.Discard {
		t.Errorf("expected discarded log output in quiet MCP mode, got %T", log.Writer())
	}

	cfg.Verbose = true
	setupLogging(cfg)
	if log.Writer() != os.Stderr {
		t.Error("expected log output on stderr in verbose MCP mode")
	}
}
