package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# Base URL of the local Ollama server
ollama_url: "http://localhost:11434"
# Ollama model identifier for the Orpheus weights
model: "hf.co/unsloth/orpheus-3b-0.1-ft-GGUF:Q8_0"

# Default voice: tara, alex, sarah, emma, daniel, michael, nova, echo
voice: "tara"
# Emotional coloring: neutral, happy, sad, angry, excited, calm, mysterious
emotion: "neutral"
# Generation mode: fast, quality, or balanced
mode: "balanced"

# Playback speed (0.5 to 2.0)
speed: 1.0
# Pitch shift (-1.0 to 1.0)
pitch: 0.0
# Output volume (0.0 to 1.0)
volume: 1.0

# Audio output
format: "wav"
sample_rate: 22050

# Request limits
timeout_seconds: 30
max_text_length: 1000

# Use the neural token decoder instead of tone synthesis
use_neural_decoder: false

cache:
  enabled: true
  # Defaults to ~/.cache/orpheus/audio when unset
  # dir: ""
  max_bytes: 268435456
  ttl: "168h"

# Log level: debug, info, warn, error
verbosity: "info"
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the orpheus config file",
	Long:    paragraph(fmt.Sprintf("\n%s the orpheus config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("orpheus config\norpheus config --config path/to/orpheus.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("Orpheus", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
