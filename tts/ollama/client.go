// Package ollama implements the token-generation client against a local
// Ollama server's /api/generate endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/orpheus-tts/orpheus-go/tts"
)

const (
	apiGenerate = "/api/generate"
	apiTags     = "/api/tags"

	topP = 0.9
)

// Orpheus prompt framing. The model emits audio tokens only when the text
// is wrapped in these reserved special tokens.
const (
	promptPrefix = "<|reserved_special_token_250|>"
	promptSuffix = "<|end_of_text|><|reserved_special_token_251|><|reserved_special_token_252|><|reserved_special_token_248|>"
)

var stopTokens = []string{"<|end_of_text|>", "<|reserved_special_token_248|>"}

// token budget per generation mode
var numPredict = map[tts.Mode]int{
	tts.ModeFast:     1200,
	tts.ModeBalanced: 2000,
	tts.ModeQuality:  4000,
}

// Config holds client configuration.
type Config struct {
	// BaseURL is the Ollama server root, e.g. "http://localhost:11434".
	BaseURL string

	// Timeout bounds each generation call. The client never retries.
	Timeout time.Duration

	// Temperature controls vocal variability.
	Temperature float64

	// RequestsPerMinute rate-limits calls to the local server. Zero means
	// a default of 60.
	RequestsPerMinute int

	// Logger is optional.
	Logger *log.Logger
}

// Client is a stateless HTTP client for token generation. It is safe for
// concurrent use; nothing is retained between calls.
type Client struct {
	baseURL     string
	temperature float64
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *log.Logger
}

// NewClient creates a token-generation client.
func NewClient(cfg Config) (*Client, error) {
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return nil, fmt.Errorf("base URL must start with http:// or https://, got %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		limiter:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		logger:      cfg.Logger.With("component", "ollama"),
	}, nil
}

// generateRequest is the /api/generate JSON payload.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"top_p"`
	NumPredict  int      `json:"num_predict"`
	Stop        []string `json:"stop"`
}

// generateResponse is the subset of the /api/generate reply we consume.
type generateResponse struct {
	Response string `json:"response"`
}

// GenerateTokens sends one bounded POST to /api/generate and decodes the
// audio token stream from the reply. When the model produced no custom
// tokens, deterministic simulated tokens derived from the text and voice
// are substituted so the downstream synthesizer always has input.
func (c *Client) GenerateTokens(ctx context.Context, req tts.SynthesisRequest) ([]int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", tts.ErrTimeout, err)
	}

	payload := generateRequest{
		Model:  req.Model,
		Prompt: FormatPrompt(req.Voice, req.Emotion, req.Text),
		Stream: false,
		Options: generateOptions{
			Temperature: c.temperature,
			TopP:        topP,
			NumPredict:  numPredict[req.Mode],
			Stop:        stopTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+apiGenerate, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &tts.UpstreamError{
			StatusCode: resp.StatusCode,
			Detail:     strings.TrimSpace(string(detail)),
		}
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &tts.UpstreamError{
			StatusCode: resp.StatusCode,
			Detail:     fmt.Sprintf("malformed response body: %v", err),
		}
	}

	tokens := ExtractTokens(decoded.Response)
	if len(tokens) == 0 {
		c.logger.Warn("no custom tokens in model output, using simulated tokens",
			"model", req.Model, "textLength", len(req.Text))
		tokens = SimulatedTokens(req.Text, req.Voice)
	}

	c.logger.Debug("tokens generated", "count", len(tokens), "model", req.Model)
	return tokens, nil
}

// Health checks that the Ollama server is reachable via /api/tags.
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiTags, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &tts.UpstreamError{StatusCode: resp.StatusCode}
	}
	return nil
}

// FormatPrompt wraps the text in the Orpheus special-token framing. The
// emotion rides along as a parenthesized cue, which the model reads as a
// delivery hint.
func FormatPrompt(voice tts.Voice, emotion tts.Emotion, text string) string {
	spoken := text
	if emotion != "" && emotion != tts.EmotionNeutral {
		spoken = fmt.Sprintf("(%s) %s", emotion, text)
	}
	return fmt.Sprintf("%s%s: %s%s", promptPrefix, voice, spoken, promptSuffix)
}

// classifyTransportError maps HTTP transport failures onto the pipeline's
// error taxonomy: deadline problems become ErrTimeout, everything else
// ErrConnection.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", tts.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", tts.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", tts.ErrConnection, err)
}
