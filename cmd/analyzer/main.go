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

// 常驻进程：每小时采集一轮，直到收到 SIGINT / SIGTERM
func main() {
	log.Println("股票新闻AI分析工具启动...")
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 模型初始化失败则无法启动
	s, err := pipeline.Build(ctx, cfg, os.Stdout)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	s.Run(ctx)
}
