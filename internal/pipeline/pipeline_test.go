package pipeline

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/LJTian/StockNewsAnalyzer/internal/config"
	"github.com/LJTian/StockNewsAnalyzer/internal/processor"
	"github.com/LJTian/StockNewsAnalyzer/internal/storage"
)

func testConfig(t *testing.T, endpoint string) *config.Config {
	t.Helper()
	return &config.Config{
		OutputPath:        filepath.Join(t.TempDir(), "analysis_results.json"),
		SentimentEndpoint: endpoint,
		SentimentModel:    "test-model",
	}
}

func TestBuildWarmsUpClassifier(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`[[{"label":"positive","score":0.9},{"label":"negative","score":0.1}]]`))
	}))
	defer srv.Close()

	s, err := Build(context.Background(), testConfig(t, srv.URL), io.Discard)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if s == nil {
		t.Fatalf("expected scheduler")
	}
	if calls != 1 {
		t.Fatalf("warm-up calls = %d, want 1", calls)
	}
}

func TestBuildFailsWhenModelUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Model is currently loading"}`))
	}))
	defer srv.Close()

	if _, err := Build(context.Background(), testConfig(t, srv.URL), io.Discard); err == nil {
		t.Fatalf("expected error when warm-up fails")
	}
}

func TestSinkIsFileOnlyWithoutArchive(t *testing.T) {
	cfg := testConfig(t, "")
	sink, err := newSink(cfg)
	if err != nil {
		t.Fatalf("newSink error: %v", err)
	}
	if len(sink.Mirrors) != 0 {
		t.Fatalf("mirrors = %d, want 0", len(sink.Mirrors))
	}
	if _, ok := sink.Primary.(*storage.FileStore); !ok {
		t.Fatalf("primary = %T, want *storage.FileStore", sink.Primary)
	}

	results := []processor.Analysis{{Title: "央行降准 股市大涨", Source: "新浪财经", Impact: processor.ImpactPositive}}
	if err := sink.Save(context.Background(), results); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if _, err := os.Stat(cfg.OutputPath); err != nil {
		t.Fatalf("result file not written: %v", err)
	}
}
