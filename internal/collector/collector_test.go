package collector

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sinaListingHTML = `<html><body>
<div class="listBlk"><ul>
<li><a href="//finance.sina.com.cn/stock/a1.shtml"> 沪指收涨 </a></li>
<li><a href="https://finance.sina.com.cn/stock/a2.shtml">央行降准</a></li>
<li><span>无链接条目</span></li>
<li><a href="//finance.sina.com.cn/stock/a4.shtml">第四条</a></li>
<li><a href="//finance.sina.com.cn/stock/a5.shtml">第五条</a></li>
<li><a href="//finance.sina.com.cn/stock/a6.shtml">第六条</a></li>
</ul></div>
</body></html>`

func serveHTML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestListingFetcherFirstFiveAndAbsoluteLinks(t *testing.T) {
	srv := serveHTML(t, sinaListingHTML)

	src := DefaultSources()[0]
	src.URL = srv.URL

	items, err := NewListingFetcher().Fetch(src)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	// 只看前 5 个 li；没有链接的 li 直接跳过，后面的条目照常采集
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d: %+v", len(items), items)
	}
	if items[0].Title != "沪指收涨" {
		t.Fatalf("title should be trimmed, got %q", items[0].Title)
	}
	if items[0].Link != "https://finance.sina.com.cn/stock/a1.shtml" {
		t.Fatalf("protocol-relative link not rewritten: %q", items[0].Link)
	}
	if items[1].Link != "https://finance.sina.com.cn/stock/a2.shtml" {
		t.Fatalf("absolute link should be kept: %q", items[1].Link)
	}
	if items[3].Title != "第五条" {
		t.Fatalf("unexpected last item %q", items[3].Title)
	}
	for _, it := range items {
		if it.Source != SourceSina {
			t.Fatalf("unexpected source %q", it.Source)
		}
	}
}

func TestListingFetcherEastMoneyRelativeLinks(t *testing.T) {
	srv := serveHTML(t, `<div class="news-list"><ul><li><a href="/a/202401.html">A股三大指数</a></li></ul></div>`)

	src := DefaultSources()[1]
	src.URL = srv.URL

	items, err := NewListingFetcher().Fetch(src)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(items) != 1 || items[0].Link != "https://finance.eastmoney.com/a/202401.html" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestFetchAllIsolatesFailingSource(t *testing.T) {
	good := serveHTML(t, sinaListingHTML)
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer bad.Close()

	sources := DefaultSources()
	sources[0].URL = bad.URL
	sources[1].URL = good.URL
	// 东方财富的选择器匹配不到新浪页面，换成新浪的
	sources[1].ItemSelector = ".listBlk li"

	items := NewListingFetcher().FetchAll(sources)
	if len(items) != 4 {
		t.Fatalf("expected 4 items from healthy source, got %d", len(items))
	}
	if items[0].Source != SourceEastMoney {
		t.Fatalf("items should come from the healthy source, got %q", items[0].Source)
	}
}

func TestArticleFetcherSelectorFallbacks(t *testing.T) {
	long := strings.Repeat("涨", 1200)
	cases := []struct {
		name string
		body string
		want string
	}{
		{"primary", `<div class="article"> 主正文 </div><div id="artibody">备用</div>`, "主正文"},
		{"secondary", `<div class="article">  </div><div id="artibody">备用正文</div>`, "备用正文"},
		{"title fallback", `<div class="other">无关</div>`, "标题兜底"},
		{"truncate", `<div class="article">` + long + `</div>`, strings.Repeat("涨", 1000)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := serveHTML(t, "<html><body>"+tc.body+"</body></html>")
			f := NewArticleFetcher(NewRegistry(DefaultSources()))

			got, err := f.FetchContent(NewsItem{Source: SourceSina, Title: "标题兜底", Link: srv.URL})
			if err != nil {
				t.Fatalf("FetchContent error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("content = %q, want %q", TruncateRunes(got, 20), TruncateRunes(tc.want, 20))
			}
		})
	}
}

func TestArticleFetcherUnknownSourceUsesTitle(t *testing.T) {
	srv := serveHTML(t, `<div class="article">正文</div>`)
	f := NewArticleFetcher(NewRegistry(DefaultSources()))

	got, err := f.FetchContent(NewsItem{Source: "unknown", Title: "只有标题", Link: srv.URL})
	if err != nil {
		t.Fatalf("FetchContent error: %v", err)
	}
	if got != "只有标题" {
		t.Fatalf("content = %q, want title", got)
	}
}

func TestArticleFetcherErrorStatusFallsBackToTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "<html><body><h1>Forbidden</h1></body></html>")
	}))
	defer srv.Close()

	f := NewArticleFetcher(NewRegistry(DefaultSources()))
	got, err := f.FetchContent(NewsItem{Source: SourceSina, Title: "股价上涨", Link: srv.URL})
	if err != nil {
		t.Fatalf("403 page should not fail the item: %v", err)
	}
	if got != "股价上涨" {
		t.Fatalf("content = %q, want title fallback", got)
	}
}

func TestArticleFetcherErrorStatusStillParsesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `<html><body><div id="artibody">页面已下线</div></body></html>`)
	}))
	defer srv.Close()

	f := NewArticleFetcher(NewRegistry(DefaultSources()))
	got, err := f.FetchContent(NewsItem{Source: SourceSina, Title: "t", Link: srv.URL})
	if err != nil {
		t.Fatalf("FetchContent error: %v", err)
	}
	if got != "页面已下线" {
		t.Fatalf("content = %q", got)
	}
}

func TestArticleFetcherReturnsErrorOnTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	link := srv.URL
	srv.Close()

	f := NewArticleFetcher(NewRegistry(DefaultSources()))
	if _, err := f.FetchContent(NewsItem{Source: SourceSina, Title: "t", Link: link}); err == nil {
		t.Fatalf("expected error when the server is unreachable")
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry(DefaultSources())
	if len(r.Sources()) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(r.Sources()))
	}
	if s, ok := r.Lookup(SourceEastMoney); !ok || s.ContentSelectors[0] != ".newsContent" {
		t.Fatalf("lookup %s failed: %+v", SourceEastMoney, s)
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Fatalf("lookup of unknown source should fail")
	}
}
