package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/affreight/shipengine/pkg/metrics"
)

// MediaType is one of the four document formats the ingestion pipeline
// accepts (spec §4.5 step 1).
type MediaType string

const (
	MediaPDF  MediaType = "application/pdf"
	MediaPNG  MediaType = "image/png"
	MediaJPEG MediaType = "image/jpeg"
	MediaWEBP MediaType = "image/webp"
)

// DetectMediaType resolves a document's media type from an explicit MIME
// hint, falling back to the filename extension, and defaulting to PDF
// when neither is conclusive (spec §4.5 step 1).
func DetectMediaType(mimeHint, filename string) MediaType {
	switch {
	case strings.Contains(mimeHint, "pdf"):
		return MediaPDF
	case strings.Contains(mimeHint, "png"):
		return MediaPNG
	case strings.Contains(mimeHint, "jpeg"), strings.Contains(mimeHint, "jpg"):
		return MediaJPEG
	case strings.Contains(mimeHint, "webp"):
		return MediaWEBP
	}

	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return MediaPDF
	case strings.HasSuffix(lower, ".png"):
		return MediaPNG
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return MediaJPEG
	case strings.HasSuffix(lower, ".webp"):
		return MediaWEBP
	default:
		return MediaPDF
	}
}

// ErrInvalidJSON is returned when the model's response, after fence
// stripping, still does not parse as the extraction schema.
var ErrInvalidJSON = errors.New("llm: extractor returned invalid JSON")

const defaultModel = "claude-sonnet-4-6"

// Config configures Client.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client extracts structured Bill of Lading fields from an opaque
// document via the Anthropic API. Calls are wrapped in a circuit
// breaker (sony/gobreaker) so a failing extractor degrades to fast,
// cheap rejections, and a bounded exponential retry (cenkalti/backoff)
// that only covers transient transport errors — never a business
// rejection such as invalid JSON (spec §4.5 step 2, §7 "Retries").
type Client struct {
	sdk     anthropic.Client
	model   anthropic.Model
	breaker *gobreaker.CircuitBreaker[*anthropic.Message]
}

// New builds a Client. logger is accepted for parity with every other
// constructor in this repo even though the breaker's own state-change
// hook is the only place that currently wants it.
func New(cfg Config, logger *zap.Logger) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	settings := gobreaker.Settings{
		Name:        "bl-extractor",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("bl extractor circuit breaker state change",
				zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}

	return &Client{
		sdk:     anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:   anthropic.Model(model),
		breaker: gobreaker.NewCircuitBreaker[*anthropic.Message](settings),
	}
}

// Extract sends data to the model with the fixed schema prompt and
// returns the parsed extraction.
func (c *Client) Extract(ctx context.Context, data []byte, media MediaType) (Extracted, error) {
	timer := metrics.NewTimer()
	defer timer.RecordBLExtraction()

	block := contentBlockFor(data, media)
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(block, anthropic.NewTextBlock(extractionPrompt)),
		},
	}

	raw, err := c.callWithRetry(ctx, params)
	if err != nil {
		metrics.RecordBLExtractionError("llm_call_failed")
		return Extracted{}, fmt.Errorf("bl extraction call failed: %w", err)
	}

	cleaned := stripFences(raw)
	var extracted Extracted
	if err := json.Unmarshal([]byte(cleaned), &extracted); err != nil {
		metrics.RecordBLExtractionError("invalid_json")
		return Extracted{}, ErrInvalidJSON
	}
	return extracted, nil
}

func contentBlockFor(data []byte, media MediaType) anthropic.ContentBlockParamUnion {
	encoded := base64.StdEncoding.EncodeToString(data)
	if media == MediaPDF {
		return anthropic.NewDocumentBlock(anthropic.NewBase64PDFBlock(encoded))
	}
	return anthropic.NewImageBlockBase64(string(media), encoded)
}

func (c *Client) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (string, error) {
	var result string

	operation := func() error {
		message, err := c.breaker.Execute(func() (*anthropic.Message, error) {
			return c.sdk.Messages.New(ctx, params)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || !isRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		if len(message.Content) == 0 {
			return backoff.Permanent(errors.New("empty response from extractor"))
		}
		block := message.Content[0]
		if block.Type != "text" {
			return backoff.Permanent(fmt.Errorf("unexpected content block type %q", block.Type))
		}
		result = block.Text
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}
	return result, nil
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}

	return false
}
