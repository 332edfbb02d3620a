package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/LJTian/StockNewsAnalyzer/internal/collector"
	"github.com/LJTian/StockNewsAnalyzer/internal/config"
	"github.com/LJTian/StockNewsAnalyzer/internal/display"
	"github.com/LJTian/StockNewsAnalyzer/internal/processor"
	"github.com/LJTian/StockNewsAnalyzer/internal/scheduler"
	"github.com/LJTian/StockNewsAnalyzer/internal/sentiment"
	"github.com/LJTian/StockNewsAnalyzer/internal/storage"
)

// Build 组装采集 → 分析 → 保存的完整链路，cmd/analyzer 与 cmd/collect 共用。
// 模型初始化或归档连接失败时返回错误，由调用方决定是否退出
func Build(ctx context.Context, cfg *config.Config, out io.Writer) (*scheduler.Scheduler, error) {
	classifier, err := sentiment.New(ctx, sentiment.Options{
		Endpoint: cfg.SentimentEndpoint,
		Model:    cfg.SentimentModel,
		Token:    cfg.HFToken,
	})
	if err != nil {
		return nil, fmt.Errorf("init sentiment model: %w", err)
	}

	sink, err := newSink(cfg)
	if err != nil {
		return nil, err
	}

	registry := collector.NewRegistry(collector.DefaultSources())
	analyzer := processor.NewAnalyzer(collector.NewArticleFetcher(registry), classifier)
	return scheduler.New(registry.Sources(), collector.NewListingFetcher(), analyzer, sink, display.NewPrinter(out)), nil
}

// newSink 结果文件始终写入；配置了 POSTGRES_DSN / REDIS_ADDR 时追加归档镜像
func newSink(cfg *config.Config) (*storage.Fanout, error) {
	sink := &storage.Fanout{Primary: storage.NewFileStore(cfg.OutputPath)}
	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	if store.Enabled() {
		sink.Mirrors = append(sink.Mirrors, store)
	}
	return sink, nil
}
