package tts

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad url scheme", func(c *Config) { c.OllamaURL = "localhost:11434" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"unknown voice", func(c *Config) { c.Voice = "hal" }},
		{"unknown emotion", func(c *Config) { c.Emotion = "smug" }},
		{"unknown mode", func(c *Config) { c.Mode = "ludicrous" }},
		{"speed out of range", func(c *Config) { c.Speed = 2.5 }},
		{"pitch out of range", func(c *Config) { c.Pitch = 2.0 }},
		{"volume out of range", func(c *Config) { c.Volume = 1.5 }},
		{"unsupported format", func(c *Config) { c.Format = FormatMP3 }},
		{"odd sample rate", func(c *Config) { c.SampleRate = 12345 }},
		{"wrong bit depth", func(c *Config) { c.BitDepth = 24 }},
		{"timeout too short", func(c *Config) { c.TimeoutSeconds = 2 }},
		{"timeout too long", func(c *Config) { c.TimeoutSeconds = 600 }},
		{"text limit too small", func(c *Config) { c.MaxTextLength = 10 }},
		{"text limit too large", func(c *Config) { c.MaxTextLength = 10000 }},
		{"temperature out of range", func(c *Config) { c.Temperature = 1.5 }},
		{"zero cache size", func(c *Config) { c.CacheMaxBytes = 0 }},
		{"zero cache ttl", func(c *Config) { c.CacheTTL = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("error %v does not wrap ErrValidation", err)
			}
		})
	}
}

func TestConfigCacheLimitsIgnoredWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheEnabled = false
	cfg.CacheMaxBytes = 0
	cfg.CacheTTL = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("cache limits should not apply with caching disabled: %v", err)
	}
}

func TestNewRequestCopiesVoiceParameters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Voice = VoiceDaniel
	cfg.Emotion = EmotionCalm
	cfg.Mode = ModeQuality
	cfg.Speed = 1.25
	cfg.Pitch = -0.5
	cfg.Volume = 0.8

	req := cfg.NewRequest("good evening")
	if req.Text != "good evening" {
		t.Errorf("Text = %q", req.Text)
	}
	if req.Voice != VoiceDaniel || req.Emotion != EmotionCalm || req.Mode != ModeQuality {
		t.Errorf("voice parameters not copied: %+v", req)
	}
	if req.Speed != 1.25 || req.Pitch != -0.5 || req.Volume != 0.8 {
		t.Errorf("numeric parameters not copied: %+v", req)
	}
	if req.Model != cfg.Model {
		t.Errorf("Model = %q, want %q", req.Model, cfg.Model)
	}

	if err := req.Validate(); err != nil {
		t.Errorf("request from valid config should validate: %v", err)
	}
}

func TestConfigTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeoutSeconds = 45
	if got := cfg.Timeout(); got != 45*time.Second {
		t.Errorf("Timeout() = %v, want 45s", got)
	}
}

func TestResolveCacheDirExplicit(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.CacheDir = dir

	got, err := cfg.ResolveCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != dir {
		t.Errorf("ResolveCacheDir() = %q, want %q", got, dir)
	}
}

func TestResolveCacheDirDefault(t *testing.T) {
	cfg := DefaultConfig()
	got, err := cfg.ResolveCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(".cache", "orpheus", "audio")
	if !strings.HasSuffix(got, want) {
		t.Errorf("ResolveCacheDir() = %q, want suffix %q", got, want)
	}
}

func TestResolveOutputDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputDir = "/tmp/custom"
	if got := cfg.ResolveOutputDir(); got != "/tmp/custom" {
		t.Errorf("ResolveOutputDir() = %q", got)
	}

	cfg.OutputDir = ""
	if got := cfg.ResolveOutputDir(); filepath.Base(got) != "orpheus" {
		t.Errorf("default ResolveOutputDir() = %q, want orpheus suffix", got)
	}
}
