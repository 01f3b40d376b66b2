package model

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

func TestHuggingFace_Summarize(t *testing.T) {
	var got hfRequest
	var path, auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`[{"summary_text":"  A short summary. "}]`))
	}))
	defer srv.Close()

	h := NewHuggingFace(Settings{BaseURL: srv.URL + "/", APIKey: "secret"})
	out, err := h.Summarize(context.Background(), "long text", SummaryOptions{MinLength: 80, MaxLength: 200, Deterministic: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "A short summary." {
		t.Fatalf("unexpected summary %q", out)
	}
	if path != "/"+DefaultSummaryModel {
		t.Fatalf("unexpected model path %q", path)
	}
	if auth != "Bearer secret" {
		t.Fatalf("missing bearer token, got %q", auth)
	}
	if got.Inputs != "long text" || got.Parameters["min_length"] != float64(80) || got.Parameters["max_length"] != float64(200) || got.Parameters["do_sample"] != false {
		t.Fatalf("unexpected request: %+v", got)
	}
	if !got.Options.WaitForModel {
		t.Fatalf("expected wait_for_model")
	}
}

func TestHuggingFace_ClassifyPicksTopLabel(t *testing.T) {
	for _, body := range []string{
		`[[{"label":"NEGATIVE","score":0.2},{"label":"POSITIVE","score":0.8}]]`,
		`[{"label":"NEGATIVE","score":0.2},{"label":"POSITIVE","score":0.8}]`,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		label, err := NewHuggingFace(Settings{BaseURL: srv.URL}).Classify(context.Background(), "great news")
		srv.Close()
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", body, err)
		}
		if label != "POSITIVE" {
			t.Fatalf("expected POSITIVE for %s, got %q", body, label)
		}
	}
}

func TestHuggingFace_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Model is loading"}`))
	}))
	defer srv.Close()

	_, err := NewHuggingFace(Settings{BaseURL: srv.URL}).Summarize(context.Background(), "x", SummaryOptions{})
	if err == nil || !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "Model is loading") {
		t.Fatalf("expected status error with body, got %v", err)
	}
}

func TestHuggingFace_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"summary_text":"ok"}]`))
	}))
	defer srv.Close()

	h := NewHuggingFace(Settings{BaseURL: srv.URL, RequestsPerMinute: 1})
	if _, err := h.Summarize(context.Background(), "x", SummaryOptions{}); err != nil {
		t.Fatalf("first call should pass: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := h.Summarize(ctx, "x", SummaryOptions{}); err == nil {
		t.Fatalf("second call within the same minute should wait past the deadline")
	}
}

type capturingClient struct {
	reqs  []openai.ChatCompletionRequest
	reply string
	err   error
}

func (c *capturingClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.reqs = append(c.reqs, req)
	if c.err != nil {
		return openai.ChatCompletionResponse{}, c.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: c.reply},
		}},
	}, nil
}

func TestOpenAI_SummarizePrompt(t *testing.T) {
	cc := &capturingClient{reply: "Summary text."}
	o := &OpenAI{Client: cc, SummaryModel: "m"}

	out, err := o.Summarize(context.Background(), "article body", SummaryOptions{MinLength: 60, MaxLength: 150, Deterministic: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Summary text." {
		t.Fatalf("unexpected output %q", out)
	}
	req := cc.reqs[0]
	if req.Model != "m" || req.Temperature == 0 || req.MaxTokens != 300 {
		t.Fatalf("unexpected request settings: %+v", req)
	}
	if !strings.Contains(req.Messages[1].Content, "60 to 150 words") || !strings.Contains(req.Messages[1].Content, "article body") {
		t.Fatalf("unexpected user message: %q", req.Messages[1].Content)
	}
}

func TestOpenAI_ClassifyNormalizesLabel(t *testing.T) {
	o := &OpenAI{Client: &capturingClient{reply: " positive.\n"}, SentimentModel: "m"}
	label, err := o.Classify(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "POSITIVE" {
		t.Fatalf("got %q", label)
	}
}

func TestOpenAI_EmptyReplyIsError(t *testing.T) {
	o := &OpenAI{Client: &capturingClient{reply: "  "}, SummaryModel: "m"}
	if _, err := o.Summarize(context.Background(), "x", SummaryOptions{}); err == nil {
		t.Fatalf("expected error for empty completion")
	}
}

// slowSummarizer records the peak number of concurrent calls.
type slowSummarizer struct {
	mu       sync.Mutex
	inFlight int
	peak     int
}

func (s *slowSummarizer) Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error) {
	s.mu.Lock()
	s.inFlight++
	if s.inFlight > s.peak {
		s.peak = s.inFlight
	}
	s.mu.Unlock()
	time.Sleep(5 * time.Millisecond)
	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
	return text, nil
}

func TestService_SerializesCalls(t *testing.T) {
	slow := &slowSummarizer{}
	svc := NewService(slow, &Stub{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Summarize(context.Background(), "x", SummaryOptions{})
		}()
	}
	wg.Wait()
	if slow.peak != 1 {
		t.Fatalf("expected serialized calls, peak concurrency was %d", slow.peak)
	}
}

func TestOpen(t *testing.T) {
	for _, b := range []string{BackendHuggingFace, BackendOpenAI, BackendStub} {
		if _, err := Open(b, Settings{}); err != nil {
			t.Fatalf("Open(%q): %v", b, err)
		}
	}
	if _, err := Open("bogus", Settings{}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestStub(t *testing.T) {
	s := &Stub{MaxInputWords: 3}
	if _, err := s.Summarize(context.Background(), "a b c d", SummaryOptions{}); err == nil {
		t.Fatalf("expected input limit error")
	}
	out, _ := s.Summarize(context.Background(), "a b c", SummaryOptions{MaxLength: 2})
	if out != "a b" {
		t.Fatalf("got %q", out)
	}
	boom := errors.New("boom")
	if _, err := (&Stub{Err: boom}).Classify(context.Background(), "x"); !errors.Is(err, boom) {
		t.Fatalf("expected configured error")
	}
	if label, _ := (&Stub{}).Classify(context.Background(), "a great success"); label != "POSITIVE" {
		t.Fatalf("got %q", label)
	}
}
