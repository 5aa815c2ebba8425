package tts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config contains all speech pipeline configuration options.
type Config struct {
	// Global settings
	Enabled   bool   `yaml:"enabled" env:"ORPHEUS_ENABLED" envDefault:"true"`
	OllamaURL string `yaml:"ollama_url" env:"ORPHEUS_OLLAMA_URL" envDefault:"http://localhost:11434"`
	Model     string `yaml:"model" env:"ORPHEUS_MODEL" envDefault:"hf.co/unsloth/orpheus-3b-0.1-ft-GGUF:Q8_0"`

	// Voice parameters
	Voice   Voice   `yaml:"voice" env:"ORPHEUS_VOICE" envDefault:"tara"`
	Emotion Emotion `yaml:"emotion" env:"ORPHEUS_EMOTION" envDefault:"neutral"`
	Mode    Mode    `yaml:"mode" env:"ORPHEUS_MODE" envDefault:"balanced"`
	Speed   float64 `yaml:"speed" env:"ORPHEUS_SPEED" envDefault:"1.0"`
	Pitch   float64 `yaml:"pitch" env:"ORPHEUS_PITCH" envDefault:"0.0"`
	Volume  float64 `yaml:"volume" env:"ORPHEUS_VOLUME" envDefault:"1.0"`

	// Audio output
	Format     Format `yaml:"format" env:"ORPHEUS_FORMAT" envDefault:"wav"`
	SampleRate int    `yaml:"sample_rate" env:"ORPHEUS_SAMPLE_RATE" envDefault:"22050"`
	BitDepth   int    `yaml:"bit_depth" env:"ORPHEUS_BIT_DEPTH" envDefault:"16"`
	OutputDir  string `yaml:"output_dir" env:"ORPHEUS_OUTPUT_DIR"`

	// Upstream behavior
	TimeoutSeconds    int     `yaml:"timeout_seconds" env:"ORPHEUS_TIMEOUT_SECONDS" envDefault:"30"`
	MaxTextLength     int     `yaml:"max_text_length" env:"ORPHEUS_MAX_TEXT_LENGTH" envDefault:"1000"`
	Temperature       float64 `yaml:"temperature" env:"ORPHEUS_TEMPERATURE" envDefault:"0.7"`
	RequestsPerMinute int     `yaml:"requests_per_minute" env:"ORPHEUS_REQUESTS_PER_MINUTE" envDefault:"60"`

	// Decoder selection
	UseNeuralDecoder bool `yaml:"use_neural_decoder" env:"ORPHEUS_USE_NEURAL_DECODER" envDefault:"false"`

	// Cache policy
	CacheEnabled  bool          `yaml:"cache_enabled" env:"ORPHEUS_CACHE_ENABLED" envDefault:"true"`
	CacheDir      string        `yaml:"cache_dir" env:"ORPHEUS_CACHE_DIR"`
	CacheMaxBytes int64         `yaml:"cache_max_bytes" env:"ORPHEUS_CACHE_MAX_BYTES" envDefault:"268435456"`
	CacheTTL      time.Duration `yaml:"cache_ttl" env:"ORPHEUS_CACHE_TTL" envDefault:"168h"`

	// Log verbosity: debug, info, warn, or error. Injected rather than read
	// from the environment by the library itself.
	Verbosity string `yaml:"verbosity" env:"ORPHEUS_VERBOSITY" envDefault:"info"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		OllamaURL: "http://localhost:11434",
		Model:     "hf.co/unsloth/orpheus-3b-0.1-ft-GGUF:Q8_0",

		Voice:   VoiceTara,
		Emotion: EmotionNeutral,
		Mode:    ModeBalanced,
		Speed:   1.0,
		Pitch:   0.0,
		Volume:  1.0,

		Format:     FormatWAV,
		SampleRate: 22050,
		BitDepth:   16,

		TimeoutSeconds:    30,
		MaxTextLength:     1000,
		Temperature:       0.7,
		RequestsPerMinute: 60,

		CacheEnabled:  true,
		CacheMaxBytes: 256 * 1024 * 1024,
		CacheTTL:      7 * 24 * time.Hour,

		Verbosity: "info",
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.OllamaURL, "http://") && !strings.HasPrefix(c.OllamaURL, "https://") {
		return fmt.Errorf("%w: ollama_url must start with http:// or https://", ErrValidation)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model cannot be empty", ErrValidation)
	}
	if !c.Voice.Valid() {
		return fmt.Errorf("%w: invalid voice %q: must be one of %v", ErrValidation, c.Voice, Voices())
	}
	if !c.Emotion.Valid() {
		return fmt.Errorf("%w: invalid emotion %q: must be one of %v", ErrValidation, c.Emotion, Emotions())
	}
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: invalid mode %q: must be one of %v", ErrValidation, c.Mode, Modes())
	}
	if c.Speed < 0.5 || c.Speed > 2.0 {
		return fmt.Errorf("%w: speed must be between 0.5 and 2.0, got %g", ErrValidation, c.Speed)
	}
	if c.Pitch < -1.0 || c.Pitch > 1.0 {
		return fmt.Errorf("%w: pitch must be between -1.0 and 1.0, got %g", ErrValidation, c.Pitch)
	}
	if c.Volume < 0.0 || c.Volume > 1.0 {
		return fmt.Errorf("%w: volume must be between 0.0 and 1.0, got %g", ErrValidation, c.Volume)
	}
	if !c.Format.Valid() {
		return fmt.Errorf("%w: format %q is not supported: only %q is implemented", ErrValidation, c.Format, FormatWAV)
	}

	validSampleRates := []int{8000, 16000, 22050, 44100, 48000}
	sampleRateValid := false
	for _, sr := range validSampleRates {
		if c.SampleRate == sr {
			sampleRateValid = true
			break
		}
	}
	if !sampleRateValid {
		return fmt.Errorf("%w: invalid sample rate %d: must be one of %v", ErrValidation, c.SampleRate, validSampleRates)
	}

	if c.BitDepth != 16 {
		return fmt.Errorf("%w: bit depth must be 16, got %d", ErrValidation, c.BitDepth)
	}
	if c.TimeoutSeconds < 5 || c.TimeoutSeconds > 120 {
		return fmt.Errorf("%w: timeout_seconds must be between 5 and 120, got %d", ErrValidation, c.TimeoutSeconds)
	}
	if c.MaxTextLength < 100 || c.MaxTextLength > 5000 {
		return fmt.Errorf("%w: max_text_length must be between 100 and 5000, got %d", ErrValidation, c.MaxTextLength)
	}
	if c.Temperature < 0.1 || c.Temperature > 1.0 {
		return fmt.Errorf("%w: temperature must be between 0.1 and 1.0, got %g", ErrValidation, c.Temperature)
	}
	if c.CacheEnabled {
		if c.CacheMaxBytes <= 0 {
			return fmt.Errorf("%w: cache_max_bytes must be positive, got %d", ErrValidation, c.CacheMaxBytes)
		}
		if c.CacheTTL <= 0 {
			return fmt.Errorf("%w: cache_ttl must be positive, got %v", ErrValidation, c.CacheTTL)
		}
	}
	return nil
}

// NewRequest builds a SynthesisRequest for text using the configured voice
// parameters.
func (c Config) NewRequest(text string) SynthesisRequest {
	return SynthesisRequest{
		Text:    text,
		Voice:   c.Voice,
		Emotion: c.Emotion,
		Mode:    c.Mode,
		Speed:   c.Speed,
		Pitch:   c.Pitch,
		Volume:  c.Volume,
		Model:   c.Model,
	}
}

// Timeout returns the upstream timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ResolveCacheDir returns the configured cache directory, defaulting to a
// per-user cache location.
func (c Config) ResolveCacheDir() (string, error) {
	if c.CacheDir != "" {
		return c.CacheDir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve cache directory: %w", err)
	}
	return filepath.Join(homeDir, ".cache", "orpheus", "audio"), nil
}

// ResolveOutputDir returns the directory uncached audio files are written
// to, defaulting to a subdirectory of the system temp directory.
func (c Config) ResolveOutputDir() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return filepath.Join(os.TempDir(), "orpheus")
}
