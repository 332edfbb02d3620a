// Package sentiment 封装外部预训练情感模型：文本进，标签和置信度出。
package sentiment

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxInputRunes 送入模型的最大字符数
const MaxInputRunes = 512

// Result 模型输出。Scores 为模型返回的全部标签得分
type Result struct {
	Label  string
	Score  float64
	Scores map[string]float64
}

// Classifier 情感分类能力
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}

// ClipInput 截取送入模型的前 512 个字符
func ClipInput(text string) string {
	if utf8.RuneCountInString(text) <= MaxInputRunes {
		return text
	}
	return string([]rune(text)[:MaxInputRunes])
}

// Stub 确定性的分类器，供各包测试替换真实模型：
// 文本包含 Keywords 中任一关键词时返回 Negative 标签，否则返回 Positive 标签
type Stub struct {
	Positive string
	Negative string
	Keywords []string
	Score    float64
	Err      error
}

func (s *Stub) Classify(_ context.Context, text string) (Result, error) {
	if s.Err != nil {
		return Result{}, s.Err
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("sentiment: empty input")
	}
	label := s.Positive
	for _, kw := range s.Keywords {
		if strings.Contains(text, kw) {
			label = s.Negative
			break
		}
	}
	score := s.Score
	if score == 0 {
		score = 0.9
	}
	return Result{Label: label, Score: score, Scores: map[string]float64{label: score}}, nil
}
