// Package llm wraps langchaingo models for episode summarization.
package llm

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/raphaelgruber/retrace-go/internal/compress"
	"github.com/raphaelgruber/retrace-go/internal/config"
	"github.com/raphaelgruber/retrace-go/internal/metrics"
	"github.com/raphaelgruber/retrace-go/internal/models"
	"github.com/raphaelgruber/retrace-go/internal/token"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/bedrock"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// summarizeSystem compresses one recorded step. Facts and outcomes must
// survive the compression; pleasantries and verbatim logs must not.
const summarizeSystem = `You compress one step of an autonomous agent's action history.
Rewrite the step as a single short paragraph that preserves the action taken,
key parameters, the outcome, and any error. Omit reasoning chatter and
redundant output. Answer with the summary text only.`

// Model wraps a langchaingo LLM for episode summarization.
type Model struct {
	llm       llms.Model
	modelName string
	metrics   *metrics.Collector
}

// Compile-time check that Model implements compress.Summarizer.
var _ compress.Summarizer = (*Model)(nil)

// NewModel creates an LLM model based on configuration. ctx is only used
// by providers that resolve credentials at construction time (Bedrock).
func NewModel(ctx context.Context, cfg config.Config, collector *metrics.Collector) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.SummaryModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.SummaryModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.SummaryModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	case config.ProviderBedrock:
		awsCfg, loadErr := awsconfig.LoadDefaultConfig(ctx)
		if loadErr != nil {
			return nil, fmt.Errorf("load AWS config: %w", loadErr)
		}
		client := bedrockruntime.NewFromConfig(awsCfg)
		model, err = bedrock.New(
			bedrock.WithClient(client),
			bedrock.WithModel(cfg.SummaryModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create bedrock model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:       model,
		modelName: cfg.SummaryModel,
		metrics:   collector,
	}, nil
}

// GenerateWithSystem generates text with a system prompt.
func (m *Model) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	response, err := m.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate with system: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	return response.Choices[0].Content, nil
}

// Model returns the LLM model name.
func (m *Model) Model() string {
	return m.modelName
}

// Summarize implements compress.Summarizer: it renders the episode in
// full and asks the model to compress it to a single paragraph.
func (m *Model) Summarize(ctx context.Context, episode *models.Episode) (string, error) {
	prompt := fmt.Sprintf("Step:\n%s\n\nSummary:", episode.Format())

	start := time.Now()
	summary, err := m.GenerateWithSystem(ctx, summarizeSystem, prompt)
	if err != nil {
		return "", fmt.Errorf("summarize episode %s: %w", episode.ID, err)
	}

	if m.metrics != nil {
		m.metrics.RecordLLMUsage(metrics.OpSummarize, time.Since(start),
			int64(token.Estimate(summarizeSystem)+token.Estimate(prompt)),
			int64(token.Estimate(summary)),
		)
	}
	return summary, nil
}
