// Package main provides the entry point for the Orpheus CLI.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orpheus-tts/orpheus-go/internal/audio"
	"github.com/orpheus-tts/orpheus-go/internal/cache"
	"github.com/orpheus-tts/orpheus-go/tts"
	"github.com/orpheus-tts/orpheus-go/tts/ollama"
	"github.com/orpheus-tts/orpheus-go/tts/synth"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	playAudio  bool
	showStats  bool
	noCache    bool

	keyword = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#ECFD65"}).Render
	subtle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}).Render

	rootCmd = &cobra.Command{
		Use:   "orpheus [TEXT]",
		Short: "Turn chat messages into speech with a local Ollama model",
		Long: paragraph(fmt.Sprintf(
			"\nGenerate %s from text using an Orpheus model served by a local Ollama instance. Audio is cached by request fingerprint, so repeating a phrase is free.",
			keyword("speech"))),
		SilenceErrors: false,
		SilenceUsage:  true,
		Args:          cobra.MaximumNArgs(1),
		RunE:          execute,
	}
)

func paragraph(s string) string {
	return lipgloss.NewStyle().Width(78).Padding(0, 0, 0, 2).Render(s)
}

// buildEngine wires the pipeline from a validated configuration. It is
// also the builder handed to tts.NewHooks when embedding in a host
// framework.
func buildEngine(cfg tts.Config) (*tts.Engine, error) {
	logger := tts.NewLogger(os.Stderr, cfg.Verbosity)

	client, err := ollama.NewClient(ollama.Config{
		BaseURL:           cfg.OllamaURL,
		Timeout:           cfg.Timeout(),
		Temperature:       cfg.Temperature,
		RequestsPerMinute: cfg.RequestsPerMinute,
		Logger:            logger,
	})
	if err != nil {
		return nil, err
	}

	var audioCache tts.AudioCache
	if cfg.CacheEnabled {
		dir, err := cfg.ResolveCacheDir()
		if err != nil {
			return nil, err
		}
		diskCache, err := cache.New(cache.Config{
			Dir:       dir,
			MaxBytes:  cfg.CacheMaxBytes,
			TTL:       cfg.CacheTTL,
			Extension: string(cfg.Format),
		})
		if err != nil {
			return nil, err
		}
		audioCache = diskCache
	}

	return tts.NewEngine(cfg, client, synth.New(cfg), audioCache, logger)
}

func loadConfig(cmd *cobra.Command) (tts.Config, error) {
	cfg, err := env.ParseAs[tts.Config]()
	if err != nil {
		return tts.Config{}, fmt.Errorf("could not parse environment: %w", err)
	}

	// Config file and flag values sit above the environment baseline.
	if viper.IsSet("ollama_url") {
		cfg.OllamaURL = viper.GetString("ollama_url")
	}
	if viper.IsSet("model") {
		cfg.Model = viper.GetString("model")
	}
	if viper.IsSet("voice") {
		cfg.Voice = tts.Voice(viper.GetString("voice"))
	}
	if viper.IsSet("emotion") {
		cfg.Emotion = tts.Emotion(viper.GetString("emotion"))
	}
	if viper.IsSet("mode") {
		cfg.Mode = tts.Mode(viper.GetString("mode"))
	}
	if viper.IsSet("speed") {
		cfg.Speed = viper.GetFloat64("speed")
	}
	if viper.IsSet("pitch") {
		cfg.Pitch = viper.GetFloat64("pitch")
	}
	if viper.IsSet("volume") {
		cfg.Volume = viper.GetFloat64("volume")
	}
	if viper.IsSet("format") {
		cfg.Format = tts.Format(viper.GetString("format"))
	}
	if viper.IsSet("sample_rate") {
		cfg.SampleRate = viper.GetInt("sample_rate")
	}
	if viper.IsSet("timeout_seconds") {
		cfg.TimeoutSeconds = viper.GetInt("timeout_seconds")
	}
	if viper.IsSet("max_text_length") {
		cfg.MaxTextLength = viper.GetInt("max_text_length")
	}
	if viper.IsSet("use_neural_decoder") {
		cfg.UseNeuralDecoder = viper.GetBool("use_neural_decoder")
	}
	if viper.IsSet("cache.enabled") {
		cfg.CacheEnabled = viper.GetBool("cache.enabled")
	}
	if viper.IsSet("cache.dir") {
		cfg.CacheDir = viper.GetString("cache.dir")
	}
	if viper.IsSet("cache.max_bytes") {
		cfg.CacheMaxBytes = viper.GetInt64("cache.max_bytes")
	}
	if viper.IsSet("cache.ttl") {
		cfg.CacheTTL = viper.GetDuration("cache.ttl")
	}
	if viper.IsSet("verbosity") {
		cfg.Verbosity = viper.GetString("verbosity")
	}

	if noCache {
		cfg.CacheEnabled = false
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir, _ = cmd.Flags().GetString("output")
	}

	return cfg, nil
}

func execute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	text, err := readText(args)
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	ref, err := tts.Speak(cmd.Context(), engine, text)
	if err != nil {
		return err
	}
	if ref == nil {
		return fmt.Errorf("nothing to say: text was empty after cleanup")
	}

	source := "generated"
	if ref.Cached {
		source = "cached"
	}
	fmt.Printf("%s %s\n", ref.Path, subtle(fmt.Sprintf("(%s, %s)", source, ref.Duration.Round(10*time.Millisecond))))

	if showStats {
		printStats(engine.Stats())
	}

	if playAudio {
		player, err := audio.FindPlayer()
		if err != nil {
			return err
		}
		return player.Play(cmd.Context(), ref.Path)
	}
	return nil
}

func readText(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("could not read from stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no text given: pass TEXT as an argument or on stdin")
	}
	return text, nil
}

func printStats(stats tts.StatsSnapshot) {
	fmt.Printf("requests: %d  hits: %d  misses: %d  failures: %d\n",
		stats.TotalRequests, stats.CacheHits, stats.CacheMisses, stats.TotalFailures)
}

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List available voices and emotions",
	Args:  cobra.NoArgs,
	Run: func(*cobra.Command, []string) {
		fmt.Println(keyword("Voices"))
		for _, voice := range tts.Voices() {
			fmt.Printf("  %s\n", voice)
		}
		fmt.Println(keyword("Emotions"))
		for _, emotion := range tts.Emotions() {
			fmt.Printf("  %s\n", emotion)
		}
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the Ollama endpoint is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		client, err := ollama.NewClient(ollama.Config{
			BaseURL: cfg.OllamaURL,
			Timeout: cfg.Timeout(),
		})
		if err != nil {
			return err
		}

		if err := client.Health(cmd.Context()); err != nil {
			return fmt.Errorf("ollama at %s: %w", cfg.OllamaURL, err)
		}
		fmt.Printf("ollama at %s is %s\n", cfg.OllamaURL, keyword("healthy"))
		return nil
	},
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "orpheus")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "orpheus")}, dirs...)
	}

	if c := os.Getenv("ORPHEUS_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("orpheus")
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		return
	}

	configFile = filepath.Join(dirs[0], "orpheus.yml")
}

func init() {
	tryLoadConfigFromDefaultPlaces()

	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().String("voice", string(tts.VoiceTara), "voice to speak with")
	rootCmd.Flags().String("emotion", string(tts.EmotionNeutral), "emotional coloring")
	rootCmd.Flags().String("mode", string(tts.ModeBalanced), "generation mode (fast/quality/balanced)")
	rootCmd.Flags().Float64("speed", 1.0, "playback speed (0.5 to 2.0)")
	rootCmd.Flags().Float64("pitch", 0.0, "pitch shift (-1.0 to 1.0)")
	rootCmd.Flags().Float64("volume", 1.0, "output volume (0.0 to 1.0)")
	rootCmd.Flags().String("url", "", "ollama base URL")
	rootCmd.Flags().String("model", "", "ollama model identifier")
	rootCmd.Flags().String("output", "", "directory for uncached audio files")
	rootCmd.Flags().BoolVar(&playAudio, "play", false, "play the audio after generating it")
	rootCmd.Flags().BoolVar(&showStats, "stats", false, "print engine counters")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the audio cache")

	_ = viper.BindPFlag("voice", rootCmd.Flags().Lookup("voice"))
	_ = viper.BindPFlag("emotion", rootCmd.Flags().Lookup("emotion"))
	_ = viper.BindPFlag("mode", rootCmd.Flags().Lookup("mode"))
	_ = viper.BindPFlag("speed", rootCmd.Flags().Lookup("speed"))
	_ = viper.BindPFlag("pitch", rootCmd.Flags().Lookup("pitch"))
	_ = viper.BindPFlag("volume", rootCmd.Flags().Lookup("volume"))
	_ = viper.BindPFlag("ollama_url", rootCmd.Flags().Lookup("url"))
	_ = viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))

	rootCmd.AddCommand(configCmd, voicesCmd, healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
