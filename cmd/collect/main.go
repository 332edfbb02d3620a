package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/LJTian/StockNewsAnalyzer/internal/config"
	"github.com/LJTian/StockNewsAnalyzer/internal/pipeline"
)

// 一个仅执行一轮采集分析的命令行入口：适合手动触发
func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := pipeline.Build(ctx, cfg, os.Stdout)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	// 只执行一轮后退出
	res, err := s.RunOnce(ctx)
	if err != nil {
		log.Fatalf("collect failed: %v", err)
	}
	log.Printf("collect done, fetched=%d analyzed=%d saved=%t", res.Fetched, res.Analyzed, res.Saved)
}
