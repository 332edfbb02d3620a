package main

import (
	"log"

	"github.com/LJTian/StockNewsAnalyzer/internal/api"
	"github.com/LJTian/StockNewsAnalyzer/internal/collector"
	"github.com/LJTian/StockNewsAnalyzer/internal/config"
	"github.com/LJTian/StockNewsAnalyzer/internal/storage"
	"github.com/gin-gonic/gin"
)

// 只读 API：最新一轮结果（Redis 快照或结果文件）与历史归档
func main() {
	cfg := config.Load()

	if cfg.PostgresDSN == "" {
		log.Printf("warn: POSTGRES_DSN not set, /api/v1/analyses will return errors")
	}
	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	r := gin.Default()
	apiServer := api.NewServer(store, storage.NewFileStore(cfg.OutputPath), collector.DefaultSources())
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}
