package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/LJTian/StockNewsAnalyzer/internal/processor"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	latestKey    = "analysis:latest"
	listCacheTTL = 5 * time.Minute
)

// AnalysisRecord 归档表：每轮结果追加写入，保留历史
type AnalysisRecord struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	Title      string  `gorm:"size:512" json:"title"`
	Source     string  `gorm:"size:64;index" json:"source"`
	Link       string  `gorm:"size:1024;index" json:"link"`
	Sentiment  string  `gorm:"size:64" json:"sentiment"`
	Confidence string  `gorm:"size:16" json:"confidence"`
	Score      float64 `json:"score"`
	Impact     string  `gorm:"size:16;index" json:"impact"`
	AnalyzedAt string  `gorm:"size:19" json:"analyzedAt"`
	// 日期 YYYY-MM-DD，用于按日期筛选
	AnalyzedDate string            `gorm:"size:10;index" json:"analyzedDate"`
	Scores       datatypes.JSONMap `gorm:"type:jsonb" json:"scores"`

	CreatedAt time.Time `json:"createdAt"`
}

func (r AnalysisRecord) ToAnalysis() processor.Analysis {
	return processor.Analysis{
		Title:      r.Title,
		Source:     r.Source,
		Link:       r.Link,
		Sentiment:  r.Sentiment,
		Confidence: r.Confidence,
		Impact:     processor.Impact(r.Impact),
		AnalyzedAt: r.AnalyzedAt,
	}
}

// Store 可选的归档（PostgreSQL）与最新结果快照（Redis），两者都可以为空
type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStore dsn 为空时不启用归档，redisAddr 为空时不启用快照
func NewStore(dsn, redisAddr string) (*Store, error) {
	s := &Store{}

	if dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(&AnalysisRecord{}); err != nil {
			return nil, err
		}
		s.DB = db
	}

	if redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: redisAddr,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("warn: redis ping failed: %v", err)
		}
		s.Redis = rdb
	}

	return s, nil
}

func (s *Store) Enabled() bool {
	return s.DB != nil || s.Redis != nil
}

// Save 归档并刷新最新快照
func (s *Store) Save(ctx context.Context, results []processor.Analysis) error {
	if s.DB != nil {
		if err := s.SaveBatch(results); err != nil {
			return fmt.Errorf("archive batch: %w", err)
		}
	}
	if s.Redis != nil {
		if err := s.SetLatest(ctx, results); err != nil {
			return fmt.Errorf("cache latest: %w", err)
		}
	}
	return nil
}

// toValidUTF8 将字符串规范为合法 UTF-8，避免 PostgreSQL invalid byte sequence 错误
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// truncateRunesDB 按 rune 数截断，确保不超过字段长度
func truncateRunesDB(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

func newRecord(a processor.Analysis) *AnalysisRecord {
	scores := make(datatypes.JSONMap, len(a.Scores))
	for label, score := range a.Scores {
		scores[label] = score
	}
	date := a.AnalyzedAt
	if len(date) >= 10 {
		date = date[:10]
	}
	return &AnalysisRecord{
		Title:        truncateRunesDB(toValidUTF8(a.Title), 512),
		Source:       a.Source,
		Link:         truncateRunesDB(a.Link, 1024),
		Sentiment:    a.Sentiment,
		Confidence:   a.Confidence,
		Score:        a.Scores[a.Sentiment],
		Impact:       string(a.Impact),
		AnalyzedAt:   a.AnalyzedAt,
		AnalyzedDate: date,
		Scores:       scores,
	}
}

// SaveBatch 追加写入一轮结果，不按链接去重
func (s *Store) SaveBatch(results []processor.Analysis) error {
	if len(results) == 0 {
		return nil
	}
	records := make([]*AnalysisRecord, 0, len(results))
	for _, a := range results {
		records = append(records, newRecord(a))
	}
	return s.DB.Create(&records).Error
}

// SetLatest 用本轮结果整体覆盖 Redis 中的最新快照
func (s *Store) SetLatest(ctx context.Context, results []processor.Analysis) error {
	bs, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return s.Redis.Set(ctx, latestKey, bs, 0).Err()
}

// Latest 读取最新快照，ok=false 表示未命中
func (s *Store) Latest(ctx context.Context) ([]processor.Analysis, bool) {
	if s.Redis == nil {
		return nil, false
	}
	bs, err := s.Redis.Get(ctx, latestKey).Bytes()
	if err != nil {
		return nil, false
	}
	var out []processor.Analysis
	if err := json.Unmarshal(bs, &out); err != nil {
		return nil, false
	}
	return out, true
}

// ListAnalyses 按来源、影响标签与可选日期返回归档记录（新的在前），并用 Redis 做短缓存
func (s *Store) ListAnalyses(ctx context.Context, source, impact string, limit int, date string) ([]AnalysisRecord, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("archive not configured")
	}
	if limit <= 0 || limit > 1000 {
		limit = 20
	}

	cacheKey := listCacheKey(source, impact, limit, date)
	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []AnalysisRecord
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	db := s.DB.WithContext(ctx).Model(&AnalysisRecord{})
	if source != "" {
		db = db.Where("source = ?", source)
	}
	if impact != "" {
		db = db.Where("impact = ?", impact)
	}
	if date != "" {
		db = db.Where("analyzed_date = ?", date)
	}

	var list []AnalysisRecord
	if err := db.Order("id DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}

	if s.Redis != nil && len(list) > 0 {
		if bs, err := json.Marshal(list); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, listCacheTTL).Err()
		}
	}
	return list, nil
}

// ListAnalyzedDates 返回有归档数据的日期（倒序）
func (s *Store) ListAnalyzedDates(ctx context.Context, limit int) ([]string, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("archive not configured")
	}
	if limit <= 0 || limit > 365 {
		limit = 31
	}
	var dates []string
	err := s.DB.WithContext(ctx).
		Model(&AnalysisRecord{}).
		Distinct("analyzed_date").
		Order("analyzed_date DESC").
		Limit(limit).
		Pluck("analyzed_date", &dates).Error
	return dates, err
}

func listCacheKey(source, impact string, limit int, date string) string {
	return fmt.Sprintf("analysis:list:%s:%s:%d:%s", source, impact, limit, date)
}
