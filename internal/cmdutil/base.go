package cmdutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// BaseCommandConfig holds the output settings shared by the commands
type BaseCommandConfig struct {
	OutputDir  string
	ConfigKey  string
	JSONOutput string
	WriteJSON  bool
	Overwrite  bool
}

// SetupOutputDir resolves and creates the command's output directory
func SetupOutputDir(cfg *BaseCommandConfig) error {
	// If flag wasn't provided, try to get value from config
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = viper.GetString(cfg.ConfigKey + ".output")
	}
	if outputDir == "" && cfg.ConfigKey != "" {
		// Fall back to using the config key as the directory name
		outputDir = cfg.ConfigKey
	}
	cfg.OutputDir = filepath.Clean(outputDir)

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// SetupJSONOutput resolves the JSON snapshot path when JSON output is enabled
// and creates its directory.
func SetupJSONOutput(cfg *BaseCommandConfig) error {
	if !cfg.WriteJSON {
		return nil
	}

	if cfg.JSONOutput == "" {
		jsonBaseDir := viper.GetString("jsonoutputdir")
		if jsonBaseDir == "" {
			jsonBaseDir = "json"
		}
		cfg.JSONOutput = filepath.Join(jsonBaseDir, cfg.ConfigKey+".json")
	}
	cfg.JSONOutput = filepath.Clean(cfg.JSONOutput)

	if err := os.MkdirAll(filepath.Dir(cfg.JSONOutput), 0755); err != nil {
		return fmt.Errorf("failed to create JSON output directory: %w", err)
	}
	return nil
}
