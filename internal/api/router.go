package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/LJTian/StockNewsAnalyzer/internal/collector"
	"github.com/LJTian/StockNewsAnalyzer/internal/processor"
	"github.com/LJTian/StockNewsAnalyzer/internal/storage"
	"github.com/gin-gonic/gin"
)

// Archive 读取归档与最新快照
type Archive interface {
	Latest(ctx context.Context) ([]processor.Analysis, bool)
	ListAnalyses(ctx context.Context, source, impact string, limit int, date string) ([]storage.AnalysisRecord, error)
	ListAnalyzedDates(ctx context.Context, limit int) ([]string, error)
}

type Server struct {
	archive Archive
	file    *storage.FileStore
	sources []collector.Source
}

func NewServer(archive Archive, file *storage.FileStore, sources []collector.Source) *Server {
	return &Server{archive: archive, file: file, sources: sources}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/sources", s.listSources)
		v1.GET("/analyses/latest", s.latest)
		v1.GET("/analyses", s.listAnalyses)
		v1.GET("/dates", s.listDates)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listSources(c *gin.Context) {
	out := make([]gin.H, 0, len(s.sources))
	for _, src := range s.sources {
		out = append(out, gin.H{"name": src.Name, "url": src.URL})
	}
	ok(c, out)
}

// latest 比较 Redis 快照与结果文件的分析时间，返回较新的一份。
// 快照过期（例如 Redis 写入失败后文件已更新）时以文件为准；时间相同或文件不可读时用快照
func (s *Server) latest(c *gin.Context) {
	var snapshot []processor.Analysis
	hit := false
	if s.archive != nil {
		snapshot, hit = s.archive.Latest(c.Request.Context())
	}

	list, err := s.file.Load()
	if hit && (err != nil || newestAnalyzedAt(snapshot) >= newestAnalyzedAt(list)) {
		ok(c, snapshot)
		return
	}
	if err != nil {
		internalError(c)
		return
	}
	ok(c, list)
}

// newestAnalyzedAt 分析时间格式固定为 2006-01-02 15:04:05，可直接按字符串比较
func newestAnalyzedAt(list []processor.Analysis) string {
	newest := ""
	for _, a := range list {
		if a.AnalyzedAt > newest {
			newest = a.AnalyzedAt
		}
	}
	return newest
}

func (s *Server) listAnalyses(c *gin.Context) {
	impact := c.Query("impact")
	if impact != "" && !validImpact(impact) {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "invalid_impact",
			"message": "impact must be one of 中性/利好/利空/政策利好",
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	items, err := s.archive.ListAnalyses(c.Request.Context(), c.Query("source"), impact, limit, c.Query("date"))
	if err != nil {
		internalError(c)
		return
	}
	ok(c, items)
}

func (s *Server) listDates(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "31"))
	if err != nil || limit <= 0 {
		limit = 31
	}
	dates, err := s.archive.ListAnalyzedDates(c.Request.Context(), limit)
	if err != nil {
		internalError(c)
		return
	}
	ok(c, dates)
}

func validImpact(v string) bool {
	switch processor.Impact(v) {
	case processor.ImpactNeutral, processor.ImpactPositive, processor.ImpactNegative, processor.ImpactPolicyPositive:
		return true
	}
	return false
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    data,
	})
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    "internal_error",
		"message": "internal server error",
	})
}
