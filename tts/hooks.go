package tts

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/orpheus-tts/orpheus-go/internal/textproc"
)

// EngineBuilder constructs an engine from a validated configuration. It is
// injected so the hook layer stays free of transport and decoder wiring.
type EngineBuilder func(Config) (*Engine, error)

// Hooks adapts the pipeline to a host chat framework's lifecycle:
// OnSettingsLoaded corresponds to the framework's "settings loaded" hook
// and BeforeMessageSent to its "before message is sent" hook. Both may be
// called from any goroutine the host dispatches.
type Hooks struct {
	mu     sync.RWMutex
	engine *Engine
	build  EngineBuilder
	logger *log.Logger
}

// NewHooks creates the hook surface. No engine exists until
// OnSettingsLoaded delivers a configuration.
func NewHooks(build EngineBuilder, logger *log.Logger) *Hooks {
	if logger == nil {
		logger = log.Default()
	}
	return &Hooks{
		build:  build,
		logger: logger.With("component", "hooks"),
	}
}

// OnSettingsLoaded validates the configuration and swaps in a freshly
// built engine. The previous engine, if any, is discarded; its cache
// directory is shared state on disk and survives the swap.
func (h *Hooks) OnSettingsLoaded(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	engine, err := h.build(cfg)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.engine = engine
	h.mu.Unlock()

	h.logger.Info("settings loaded",
		"voice", cfg.Voice,
		"emotion", cfg.Emotion,
		"mode", cfg.Mode,
		"cache", cfg.CacheEnabled)
	return nil
}

// Engine returns the active engine, or nil before settings are loaded.
func (h *Hooks) Engine() *Engine {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.engine
}

// BeforeMessageSent synthesizes speech for an outgoing chat message. The
// message is always returned unchanged: a synthesis failure is logged and
// the message is delivered text-only. The returned reference is nil when
// speech was skipped or failed.
func (h *Hooks) BeforeMessageSent(ctx context.Context, message string) (string, *AudioReference) {
	engine := h.Engine()
	if engine == nil {
		h.logger.Debug("skipping speech: settings not loaded yet")
		return message, nil
	}

	cfg := engine.Config()
	if !cfg.Enabled {
		return message, nil
	}

	ref, err := Speak(ctx, engine, message)
	if err != nil {
		h.logger.Error("speech generation failed", "error", err)
		return message, nil
	}
	return message, ref
}

// Speak is the pure (text, configuration) to (audio reference | error)
// function both hooks and the CLI route through: it cleans the text,
// truncates it to the configured limit, and runs the pipeline with the
// engine's configured voice parameters.
func Speak(ctx context.Context, engine *Engine, text string) (*AudioReference, error) {
	if engine == nil {
		return nil, ErrEngineNotInitialized
	}
	cfg := engine.Config()

	clean := textproc.Clean(text)
	clean = textproc.Truncate(clean, cfg.MaxTextLength)
	if clean == "" {
		return nil, nil
	}

	return engine.GenerateSpeech(ctx, cfg.NewRequest(clean))
}
