package providers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultRequestTimeout = 120 * time.Second

// ModelConfig configures an OpenAI-compatible chat endpoint. BaseURL may
// point at a local vLLM or any other compatible server.
type ModelConfig struct {
	Name        string        `yaml:"name" env:"VOICEVAL_MODEL_PROVIDER"`
	APIKey      string        `yaml:"api_key" env:"VOICEVAL_MODEL_API_KEY"`
	BaseURL     string        `yaml:"base_url" env:"VOICEVAL_MODEL_BASE_URL"`
	Model       string        `yaml:"model" env:"VOICEVAL_MODEL_NAME"`
	Timeout     time.Duration `yaml:"timeout"`
	Temperature float64       `yaml:"temperature"`
	// RequestsPerSecond throttles provider calls across workers; zero
	// disables throttling.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// OpenAIModel adapts an OpenAI-compatible chat completion API to the
// ModelProvider interface.
type OpenAIModel struct {
	client  *openai.Client
	cfg     ModelConfig
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewOpenAIModel builds the chat adapter. A nil logger is replaced with a
// no-op.
func NewOpenAIModel(cfg ModelConfig, logger *zap.Logger) *OpenAIModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	reqOpts := []option.RequestOption{
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
	}
	if cfg.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(cfg.APIKey))
	}
	client := openai.NewClient(reqOpts...)

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &OpenAIModel{
		client:  &client,
		cfg:     cfg,
		limiter: limiter,
		logger:  logger.With(zap.String("component", "openai_model")),
	}
}

func (m *OpenAIModel) Name() string { return "openai" }

// Generate sends the prompt (and optional audio context) to the chat
// endpoint and returns the first choice.
func (m *OpenAIModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, &ProviderError{Provider: m.Name(), Op: "rate_wait", Err: err}
		}
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, buildUserMessage(req))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(m.cfg.Model),
		Messages: messages,
	}
	if m.cfg.Temperature > 0 {
		params.Temperature = openai.Opt(m.cfg.Temperature)
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &ProviderError{
				Provider:   m.Name(),
				Op:         "chat_completion",
				StatusCode: apiErr.StatusCode,
				Err:        err,
			}
		}
		return nil, &ProviderError{Provider: m.Name(), Op: "chat_completion", Err: err}
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, &ProviderError{
			Provider: m.Name(),
			Op:       "chat_completion",
			Err:      fmt.Errorf("no choices in response"),
		}
	}

	return &Response{
		Text: resp.Choices[0].Message.Content,
		Raw:  resp.RawJSON(),
	}, nil
}

func buildUserMessage(req Request) openai.ChatCompletionMessageParamUnion {
	if len(req.Audio) == 0 {
		return openai.UserMessage(req.Prompt)
	}

	format := req.AudioFormat
	if format == "" {
		format = "wav"
	}
	parts := []openai.ChatCompletionContentPartUnionParam{
		{
			OfInputAudio: &openai.ChatCompletionContentPartInputAudioParam{
				InputAudio: openai.ChatCompletionContentPartInputAudioInputAudioParam{
					Data:   base64.StdEncoding.EncodeToString(req.Audio),
					Format: format,
				},
			},
		},
	}
	if req.Prompt != "" {
		parts = append(parts, openai.ChatCompletionContentPartUnionParam{
			OfText: &openai.ChatCompletionContentPartTextParam{Text: req.Prompt},
		})
	}
	return openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfArrayOfContentParts: parts,
			},
		},
	}
}
