package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultHuggingFaceURL = "https://api-inference.huggingface.co/models"
	DefaultSummaryModel   = "facebook/bart-large-cnn"
	DefaultSentimentModel = "distilbert-base-uncased-finetuned-sst-2-english"
	defaultModelTimeout   = 120 * time.Second
)

// HuggingFace calls models through the Hugging Face Inference API, or any
// server that speaks the same JSON (text-generation-inference, a local
// transformers endpoint).
type HuggingFace struct {
	BaseURL        string
	APIKey         string
	SummaryModel   string
	SentimentModel string
	client         *http.Client
	limiter        *rate.Limiter
}

// NewHuggingFace creates a HuggingFace backend, filling unset settings with defaults.
func NewHuggingFace(s Settings) *HuggingFace {
	h := &HuggingFace{
		BaseURL:        strings.TrimSuffix(s.BaseURL, "/"),
		APIKey:         s.APIKey,
		SummaryModel:   s.SummaryModel,
		SentimentModel: s.SentimentModel,
		client:         &http.Client{Timeout: s.Timeout},
	}
	if h.BaseURL == "" {
		h.BaseURL = DefaultHuggingFaceURL
	}
	if h.SummaryModel == "" {
		h.SummaryModel = DefaultSummaryModel
	}
	if h.SentimentModel == "" {
		h.SentimentModel = DefaultSentimentModel
	}
	if h.client.Timeout <= 0 {
		h.client.Timeout = defaultModelTimeout
	}
	if s.RequestsPerMinute > 0 {
		h.limiter = rate.NewLimiter(rate.Limit(float64(s.RequestsPerMinute)/60.0), 1)
	}
	return h
}

// hfRequest is the request body for the inference API.
type hfRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Options    hfOptions      `json:"options"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

type hfLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Summarize runs the summarization model with explicit length bounds.
func (h *HuggingFace) Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error) {
	req := hfRequest{
		Inputs: text,
		Parameters: map[string]any{
			"min_length": opts.MinLength,
			"max_length": opts.MaxLength,
			"do_sample":  !opts.Deterministic,
		},
		Options: hfOptions{WaitForModel: true},
	}

	var out []hfSummary
	if err := h.post(ctx, h.SummaryModel, req, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", errors.New("empty summarization response")
	}
	return strings.TrimSpace(out[0].SummaryText), nil
}

// Classify runs the text-classification model and returns the top label.
func (h *HuggingFace) Classify(ctx context.Context, text string) (string, error) {
	req := hfRequest{Inputs: text, Options: hfOptions{WaitForModel: true}}

	var raw json.RawMessage
	if err := h.post(ctx, h.SentimentModel, req, &raw); err != nil {
		return "", err
	}
	labels, err := decodeLabels(raw)
	if err != nil {
		return "", err
	}
	best := labels[0]
	for _, l := range labels[1:] {
		if l.Score > best.Score {
			best = l
		}
	}
	return best.Label, nil
}

// decodeLabels accepts both the flat and the nested-per-input response shapes.
func decodeLabels(raw json.RawMessage) ([]hfLabel, error) {
	var nested [][]hfLabel
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0], nil
	}
	var flat []hfLabel
	if err := json.Unmarshal(raw, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}
	return nil, fmt.Errorf("unexpected classification response: %s", truncateBody(raw))
}

// post sends one JSON request to a model endpoint and decodes the reply.
func (h *HuggingFace) post(ctx context.Context, model string, reqBody hfRequest, out any) error {
	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	url := h.BaseURL + "/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.APIKey)
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s returned %d: %s", model, resp.StatusCode, truncateBody(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", model, err)
	}
	log.Debug().Str("model", model).Int("input_chars", len(reqBody.Inputs)).Dur("took", time.Since(start)).Msg("model call")
	return nil
}

func truncateBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
