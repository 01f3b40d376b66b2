package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const articlePage = `<!doctype html>
<html>
  <head><title>Harbor Ferry Returns | Coast Times</title></head>
  <body>
    <nav><a href="/">Home</a></nav>
    <article>
      <h1>Harbor Ferry Returns</h1>
      <p>The harbor ferry resumed service on Monday after a two year pause, carrying commuters between the north pier and the old town district in about twelve minutes, far faster than the bus route that replaced it.</p>
      <p>Officials said ridership on the first morning was a great success, with every early crossing full and a waiting line stretching along the pier before sunrise as people returned to their old routine.</p>
      <p>The city plans to add a second boat in the autumn and extend evening hours through the summer so that visitors can reach the waterfront restaurants without driving downtown.</p>
    </article>
  </body>
</html>`

type digestOut struct {
	Count    int `json:"count"`
	Articles []struct {
		URL       string   `json:"url"`
		Title     string   `json:"title"`
		Summary   string   `json:"summary"`
		KeyPoints []string `json:"key_points"`
		Sentiment string   `json:"sentiment"`
		Error     string   `json:"error"`
	} `json:"articles"`
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeWithStderr(t, stdin, args...)
	return out, err
}

func executeWithStderr(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func decodeDigest(t *testing.T, out string) digestOut {
	t.Helper()
	var d digestOut
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	return d
}

func TestText_Stdout(t *testing.T) {
	out, err := execute(t, "", "text", "--backend", "stub", "--json", "--stdout",
		"--text", "The ferry is back. Riders called the first week a great success for the whole city.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := decodeDigest(t, out)
	if d.Count != 1 {
		t.Fatalf("expected one article, got %d", d.Count)
	}
	a := d.Articles[0]
	if a.URL != "N/A (pasted text)" || a.Title != "User Input Text" {
		t.Fatalf("unexpected identity: %+v", a)
	}
	if a.Summary == "" || len(a.KeyPoints) == 0 || a.Sentiment != "Positive" {
		t.Fatalf("unexpected summary: %+v", a)
	}
}

func TestText_BlankStdinIsNA(t *testing.T) {
	out, err := execute(t, "  \n ", "text", "--backend", "stub", "--json", "--stdout")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := decodeDigest(t, out).Articles[0]
	if a.Sentiment != "N/A" || a.Summary != "" || len(a.KeyPoints) != 0 || a.Error != "" {
		t.Fatalf("expected N/A article, got %+v", a)
	}
}

func TestText_WritesFile(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "Some pasted text about the harbor.", "text", "--backend", "stub", "--markdown", "--output_dir", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := filepath.Join(dir, "news_digest.md")
	if !strings.Contains(out, path) {
		t.Fatalf("expected written path in output, got %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("digest not written: %v", err)
	}
	if !strings.Contains(string(data), "**Title:** User Input Text") {
		t.Fatalf("unexpected digest:\n%s", data)
	}
}

func TestSummarize_BatchContinuesPastFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/news/ferry" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, articlePage)
	}))
	defer srv.Close()

	urls := srv.URL + "/news/ferry, " + srv.URL + "/news/missing"
	out, errOut, err := executeWithStderr(t, "", "summarize", "--backend", "stub", "--browser=false", "--json", "--stdout", "--urls", urls)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(errOut, "1/2 articles failed") {
		t.Fatalf("expected failure count on stderr with --stdout, got %q", errOut)
	}
	d := decodeDigest(t, out)
	if d.Count != 2 {
		t.Fatalf("expected two articles, got %d", d.Count)
	}
	ok, bad := d.Articles[0], d.Articles[1]
	if ok.Error != "" || !strings.Contains(ok.Title, "Harbor Ferry") || ok.Summary == "" {
		t.Fatalf("unexpected first article: %+v", ok)
	}
	if ok.Sentiment != "Positive" && ok.Sentiment != "Negative" {
		t.Fatalf("unexpected sentiment %q", ok.Sentiment)
	}
	if bad.Error != "Failed to fetch URL, status code: 404" {
		t.Fatalf("unexpected error for missing page: %q", bad.Error)
	}
}

func TestSummarize_FlagValidation(t *testing.T) {
	cases := [][]string{
		{"summarize", "--backend", "stub"},
		{"summarize", "--backend", "stub", "--pdf", "--json", "https://example.com/a"},
		{"summarize", "--backend", "stub", "--pdf", "--stdout", "https://example.com/a"},
		{"summarize", "--backend", "stub", "--sitemap", "https://example.com/sitemap.xml", "https://example.com/a"},
		{"summarize", "--backend", "stub", "--site", "not a url"},
		{"summarize", "--backend", "gemini", "https://example.com/a"},
		{"text", "--backend", "stub", "--text", "a", "--file", "b.txt"},
	}
	for _, args := range cases {
		if _, err := execute(t, "", args...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}
