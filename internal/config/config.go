package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	// 分析结果文件
	OutputPath string

	SentimentEndpoint string
	SentimentModel    string
	HFToken           string

	// 为空时不启用归档 / 快照
	PostgresDSN string
	RedisAddr   string
}

func Load() *Config {
	// .env 不存在时忽略
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:           getEnv("APP_PORT", "9000"),
		OutputPath:        getEnv("ANALYSIS_OUTPUT", "analysis_results.json"),
		SentimentEndpoint: getEnv("SENTIMENT_API_URL", "https://api-inference.huggingface.co/models/"),
		SentimentModel:    getEnv("SENTIMENT_MODEL", "uer/roberta-base-finetuned-jd-binary-chinese"),
		HFToken:           os.Getenv("HF_TOKEN"),
		PostgresDSN:       os.Getenv("POSTGRES_DSN"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
	}

	log.Printf("config loaded: output=%s model=%s archive=%t snapshot=%t",
		cfg.OutputPath, cfg.SentimentModel, cfg.PostgresDSN != "", cfg.RedisAddr != "")
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
