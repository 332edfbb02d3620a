package collector

import (
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// ArticleFetcher 抓取文章页并提取正文
type ArticleFetcher struct {
	registry *Registry
}

func NewArticleFetcher(registry *Registry) *ArticleFetcher {
	return &ArticleFetcher{registry: registry}
}

// FetchContent 返回最多 1000 个字符的正文；选择器都取不到内容时退回标题。
// 4xx/5xx 页面照常解析（通常落到标题兜底），只有连接失败、超时等网络错误才返回错误，
// 由调用方跳过该条新闻。
func (a *ArticleFetcher) FetchContent(item NewsItem) (string, error) {
	src, ok := a.registry.Lookup(item.Source)
	if !ok {
		log.Printf("unknown source %q, use title as content", item.Source)
	}

	c := newCollector(articleTimeout, colly.ParseHTTPErrorResponse())

	var content string
	c.OnHTML("html", func(e *colly.HTMLElement) {
		content = extractContent(e.DOM, src.ContentSelectors)
	})

	if err := c.Visit(item.Link); err != nil {
		return "", fmt.Errorf("visit article %s: %w", item.Link, err)
	}

	if content == "" {
		content = item.Title
	}
	return content, nil
}

func extractContent(doc *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if text := strings.TrimSpace(node.Text()); text != "" {
			return TruncateRunes(text, maxContentRunes)
		}
	}
	return ""
}

// TruncateRunes 按 rune 截断，避免把中文截成半个字符
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}
