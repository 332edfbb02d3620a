package collector

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

// ListingFetcher 抓取来源列表页，解析标题与链接
type ListingFetcher struct{}

func NewListingFetcher() *ListingFetcher {
	return &ListingFetcher{}
}

// Fetch 抓取单个来源，最多返回 maxItemsPerSource 条
func (l *ListingFetcher) Fetch(src Source) ([]NewsItem, error) {
	c := newCollector(listingTimeout)

	results := make([]NewsItem, 0, maxItemsPerSource)
	matched := 0

	c.OnHTML(src.ItemSelector, func(e *colly.HTMLElement) {
		// 只看页面上前 5 个列表项
		if matched >= maxItemsPerSource {
			return
		}
		matched++

		a := e.DOM.Find("a").First()
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		results = append(results, NewsItem{
			Source: src.Name,
			Title:  strings.TrimSpace(a.Text()),
			Link:   absoluteLink(strings.TrimSpace(href), src.LinkPrefix),
		})
	})

	if err := c.Visit(src.URL); err != nil {
		return nil, fmt.Errorf("%s: visit listing: %w", src.Name, err)
	}
	return results, nil
}

// FetchAll 依次抓取所有来源；单个来源失败只记录日志，不影响其它来源
func (l *ListingFetcher) FetchAll(sources []Source) []NewsItem {
	log.Println("正在获取最新财经新闻...")

	var all []NewsItem
	for _, src := range sources {
		items, err := l.Fetch(src)
		if err != nil {
			log.Printf("从 %s 获取新闻失败: %v", src.Name, err)
			continue
		}
		if len(items) == 0 {
			log.Printf("fetch %s got 0 items", src.Name)
		}
		all = append(all, items...)
	}
	return all
}

// absoluteLink 非 http 开头的链接拼上来源前缀（新浪为协议相对地址，东方财富为站内路径）
func absoluteLink(href, prefix string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return prefix + href
}

func newCollector(timeout time.Duration, opts ...colly.CollectorOption) *colly.Collector {
	opts = append([]colly.CollectorOption{
		colly.UserAgent(userAgent),
		// 新浪部分页面仍是 GBK 编码
		colly.DetectCharset(),
	}, opts...)
	c := colly.NewCollector(opts...)
	c.SetRequestTimeout(timeout)
	return c
}
