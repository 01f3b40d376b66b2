package model

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ChatClient is the subset of *openai.Client the backend needs, so tests and
// other OpenAI-compatible servers can be swapped in.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// DefaultChatModel is used when no model name is configured.
const DefaultChatModel = "gpt-4o-mini"

// OpenAI implements Summarizer and Classifier with a chat model on any
// OpenAI-compatible server (OpenAI, Ollama, vLLM, LM Studio).
type OpenAI struct {
	Client         ChatClient
	SummaryModel   string
	SentimentModel string
}

// NewOpenAI creates an OpenAI backend from settings.
func NewOpenAI(s Settings) *OpenAI {
	cfg := openai.DefaultConfig(s.APIKey)
	if s.BaseURL != "" {
		cfg.BaseURL = s.BaseURL
	}
	if s.Timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: s.Timeout}
	}
	o := &OpenAI{
		Client:         openai.NewClientWithConfig(cfg),
		SummaryModel:   s.SummaryModel,
		SentimentModel: s.SentimentModel,
	}
	if o.SummaryModel == "" || o.SummaryModel == DefaultSummaryModel {
		o.SummaryModel = DefaultChatModel
	}
	if o.SentimentModel == "" || o.SentimentModel == DefaultSentimentModel {
		o.SentimentModel = o.SummaryModel
	}
	return o
}

const summarySystemPrompt = "You are an abstractive news summarizer. " +
	"Write a faithful, neutral summary in plain prose. " +
	"Do not add facts, headings, bullet points or commentary."

const sentimentSystemPrompt = "You are a sentiment classifier for English news text. " +
	"Answer with exactly one word: POSITIVE or NEGATIVE."

// Summarize asks the chat model for a summary within the word bounds.
// Length bounds are given in words; chat models do not take token minimums.
func (o *OpenAI) Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error) {
	user := fmt.Sprintf("Summarize the following text in %d to %d words. Reply with the summary only.\n\n%s",
		opts.MinLength, opts.MaxLength, text)
	return o.complete(ctx, o.SummaryModel, summarySystemPrompt, user, opts.MaxLength*2, opts.Deterministic)
}

// Classify asks the chat model for a POSITIVE/NEGATIVE label.
func (o *OpenAI) Classify(ctx context.Context, text string) (string, error) {
	label, err := o.complete(ctx, o.SentimentModel, sentimentSystemPrompt, text, 5, true)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(strings.Trim(label, " .\n\"'")), nil
}

func (o *OpenAI) complete(ctx context.Context, model, system, user string, maxTokens int, deterministic bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens: maxTokens,
	}
	if deterministic {
		// Temperature 0 is dropped by omitempty; the smallest non-zero value is greedy in practice.
		req.Temperature = math.SmallestNonzeroFloat32
	}

	resp, err := o.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in chat completion")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("empty chat completion")
	}
	return content, nil
}
