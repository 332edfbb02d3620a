package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/LJTian/StockNewsAnalyzer/internal/collector"
	"github.com/LJTian/StockNewsAnalyzer/internal/sentiment"
)

const timeLayout = "2006-01-02 15:04:05"

// Analysis 单条新闻的分析结果，JSON 字段名与历史输出文件保持一致
type Analysis struct {
	Title      string `json:"标题"`
	Source     string `json:"来源"`
	Link       string `json:"链接"`
	Sentiment  string `json:"情感"`
	Confidence string `json:"置信度"`
	Impact     Impact `json:"影响"`
	AnalyzedAt string `json:"分析时间"`

	// 模型返回的全部标签得分，只用于归档，不写入结果文件
	Scores map[string]float64 `json:"-"`
}

// Analyzer 组合正文采集、情感分类与影响标注
type Analyzer struct {
	fetcher    collector.ContentFetcher
	classifier sentiment.Classifier
	now        func() time.Time
}

func NewAnalyzer(fetcher collector.ContentFetcher, classifier sentiment.Classifier) *Analyzer {
	return &Analyzer{
		fetcher:    fetcher,
		classifier: classifier,
		now:        time.Now,
	}
}

// Analyze 分析单条新闻；任一步出错都返回错误，调用方跳过该条
func (a *Analyzer) Analyze(ctx context.Context, item collector.NewsItem) (Analysis, error) {
	content, err := a.fetcher.FetchContent(item)
	if err != nil {
		return Analysis{}, err
	}

	res, err := a.classifier.Classify(ctx, sentiment.ClipInput(content))
	if err != nil {
		return Analysis{}, fmt.Errorf("classify %q: %w", item.Title, err)
	}

	return Analysis{
		Title:      item.Title,
		Source:     item.Source,
		Link:       item.Link,
		Sentiment:  res.Label,
		Confidence: FormatConfidence(res.Score),
		Impact:     TagImpact(content),
		AnalyzedAt: a.now().Format(timeLayout),
		Scores:     res.Scores,
	}, nil
}

// FormatConfidence 0.9876 -> "98.8%"
func FormatConfidence(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}
