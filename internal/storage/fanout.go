package storage

import (
	"context"
	"log"

	"github.com/LJTian/StockNewsAnalyzer/internal/processor"
)

// Sink 接收一轮的分析结果
type Sink interface {
	Save(ctx context.Context, results []processor.Analysis) error
}

// Fanout 先写主存储（错误向上返回），再写镜像（只记录日志）
type Fanout struct {
	Primary Sink
	Mirrors []Sink
}

func (f *Fanout) Save(ctx context.Context, results []processor.Analysis) error {
	if err := f.Primary.Save(ctx, results); err != nil {
		return err
	}
	for _, m := range f.Mirrors {
		if err := m.Save(ctx, results); err != nil {
			log.Printf("warn: mirror save failed: %v", err)
		}
	}
	return nil
}
