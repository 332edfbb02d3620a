package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/LJTian/StockNewsAnalyzer/internal/processor"
)

const DefaultResultFile = "analysis_results.json"

// FileStore 把一轮的分析结果整体写入 JSON 文件，每次覆盖
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultResultFile
	}
	return &FileStore{Path: path}
}

func (f *FileStore) Save(_ context.Context, results []processor.Analysis) error {
	data, err := encodeResults(results)
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.Path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	log.Printf("分析结果已保存到 %s", f.Path)
	return nil
}

// Load 读取最近一次写入的结果，文件不存在时返回空列表
func (f *FileStore) Load() ([]processor.Analysis, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return []processor.Analysis{}, nil
	}
	if err != nil {
		return nil, err
	}
	var out []processor.Analysis
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	return out, nil
}

// encodeResults 两空格缩进，中文与 <>& 原样输出
func encodeResults(results []processor.Analysis) ([]byte, error) {
	if results == nil {
		results = []processor.Analysis{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return nil, fmt.Errorf("encode results: %w", err)
	}
	return buf.Bytes(), nil
}
