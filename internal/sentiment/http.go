package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultModel    = "uer/roberta-base-finetuned-jd-binary-chinese"
	DefaultEndpoint = "https://api-inference.huggingface.co/models/"

	classifyTimeout = 60 * time.Second
	warmupText      = "股票新闻AI分析工具启动"
)

// Options 描述推理服务地址。Endpoint 以 / 结尾时会拼上 Model
type Options struct {
	Endpoint string
	Model    string
	Token    string
}

func (o Options) url() string {
	endpoint := o.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	model := o.Model
	if model == "" {
		model = DefaultModel
	}
	if strings.HasSuffix(endpoint, "/") {
		return endpoint + model
	}
	return endpoint
}

// HTTPClassifier 调用 Hugging Face Inference 风格的文本分类接口
type HTTPClassifier struct {
	client *resty.Client
	url    string
}

type classifyRequest struct {
	Inputs  string         `json:"inputs"`
	Options map[string]any `json:"options,omitempty"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type apiError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

func NewHTTPClassifier(opts Options) *HTTPClassifier {
	client := resty.New()
	client.SetTimeout(classifyTimeout)
	client.SetHeader("Content-Type", "application/json")
	if opts.Token != "" {
		client.SetAuthToken(opts.Token)
	}
	return &HTTPClassifier{client: client, url: opts.url()}
}

// New 进程启动时的一次性初始化：创建客户端并做一次预热推理，失败即返回错误
func New(ctx context.Context, opts Options) (*HTTPClassifier, error) {
	c := NewHTTPClassifier(opts)
	log.Printf("正在初始化AI模型... (%s)", c.url)
	if _, err := c.Classify(ctx, warmupText); err != nil {
		return nil, fmt.Errorf("sentiment: init model: %w", err)
	}
	return c, nil
}

func (c *HTTPClassifier) Classify(ctx context.Context, text string) (Result, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(classifyRequest{
			Inputs:  ClipInput(text),
			Options: map[string]any{"wait_for_model": true},
		}).
		Post(c.url)
	if err != nil {
		return Result{}, fmt.Errorf("sentiment: request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(resp.Body(), &apiErr) == nil && apiErr.Error != "" {
			return Result{}, fmt.Errorf("sentiment: status %d: %s", resp.StatusCode(), apiErr.Error)
		}
		return Result{}, fmt.Errorf("sentiment: unexpected status %d", resp.StatusCode())
	}

	scores, err := decodeScores(resp.Body())
	if err != nil {
		return Result{}, err
	}
	return pickBest(scores)
}

// decodeScores 兼容 [[{label,score}]] 与 [{label,score}] 两种返回格式
func decodeScores(body []byte) ([]labelScore, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 {
			return nil, fmt.Errorf("sentiment: empty response")
		}
		return nested[0], nil
	}

	var flat []labelScore
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("sentiment: decode response: %w", err)
	}
	return flat, nil
}

func pickBest(scores []labelScore) (Result, error) {
	if len(scores) == 0 {
		return Result{}, fmt.Errorf("sentiment: no labels in response")
	}
	res := Result{Scores: make(map[string]float64, len(scores))}
	for i, s := range scores {
		res.Scores[s.Label] = s.Score
		if i == 0 || s.Score > res.Score {
			res.Label = s.Label
			res.Score = s.Score
		}
	}
	return res, nil
}
