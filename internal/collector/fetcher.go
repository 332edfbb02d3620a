package collector

import "time"

const (
	listingTimeout = 10 * time.Second
	articleTimeout = 15 * time.Second

	// 每个来源最多取前 5 条
	maxItemsPerSource = 5
	// 正文最多保留 1000 个字符
	maxContentRunes = 1000

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// NewsItem 列表页解析出的一条新闻，只在一轮分析内使用
type NewsItem struct {
	Source string
	Title  string
	Link   string
}

// Lister 抽象列表页采集
type Lister interface {
	FetchAll(sources []Source) []NewsItem
}

// ContentFetcher 抽象正文采集
type ContentFetcher interface {
	FetchContent(item NewsItem) (string, error)
}
