package collector

// Source 描述一个新闻来源：列表页地址、列表选择器、相对链接前缀以及正文选择器
type Source struct {
	Name         string
	URL          string
	ItemSelector string
	LinkPrefix   string
	// 正文选择器按顺序尝试，第一个取到非空文本的生效
	ContentSelectors []string
}

const (
	SourceSina      = "新浪财经"
	SourceEastMoney = "东方财富"
)

// DefaultSources 固定的两个财经来源，顺序即采集顺序
func DefaultSources() []Source {
	return []Source{
		{
			Name:             SourceSina,
			URL:              "https://finance.sina.com.cn/roll/index.d.html?cid=56589",
			ItemSelector:     ".listBlk li",
			LinkPrefix:       "https:",
			ContentSelectors: []string{".article", "#artibody"},
		},
		{
			Name:             SourceEastMoney,
			URL:              "https://finance.eastmoney.com/",
			ItemSelector:     ".news-list li",
			LinkPrefix:       "https://finance.eastmoney.com",
			ContentSelectors: []string{".newsContent", "#ContentBody"},
		},
	}
}

// Registry 按名称查找来源
type Registry struct {
	sources []Source
	byName  map[string]Source
}

func NewRegistry(sources []Source) *Registry {
	r := &Registry{
		sources: sources,
		byName:  make(map[string]Source, len(sources)),
	}
	for _, s := range sources {
		r.byName[s.Name] = s
	}
	return r
}

func (r *Registry) Sources() []Source {
	return r.sources
}

func (r *Registry) Lookup(name string) (Source, bool) {
	s, ok := r.byName[name]
	return s, ok
}
