package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/LJTian/StockNewsAnalyzer/internal/collector"
	"github.com/LJTian/StockNewsAnalyzer/internal/processor"
	"github.com/robfig/cron/v3"
)

// State 主循环的状态
type State int

const (
	StateFetching State = iota
	StateProcessing
	StateSleeping
	StateInterrupted
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateProcessing:
		return "processing"
	case StateSleeping:
		return "sleeping"
	case StateInterrupted:
		return "interrupted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Delays 三种固定等待：正常轮询、未取到新闻、意外错误。
// 用 cron.Schedule 表示，便于测试替换；唤醒时间取 Next(now)
type Delays struct {
	Normal  cron.Schedule
	Empty   cron.Schedule
	Failure cron.Schedule
}

func DefaultDelays() Delays {
	return Delays{
		Normal:  cron.Every(time.Hour),
		Empty:   cron.Every(60 * time.Second),
		Failure: cron.Every(30 * time.Second),
	}
}

// Analyzer 单条新闻分析
type Analyzer interface {
	Analyze(ctx context.Context, item collector.NewsItem) (processor.Analysis, error)
}

// ResultStore 一轮结果的持久化
type ResultStore interface {
	Save(ctx context.Context, results []processor.Analysis) error
}

// Reporter 控制台输出
type Reporter interface {
	Header()
	Analysis(a processor.Analysis)
}

// CycleResult 一轮的统计
type CycleResult struct {
	Fetched  int
	Analyzed int
	Saved    bool
}

type Scheduler struct {
	sources  []collector.Source
	lister   collector.Lister
	analyzer Analyzer
	store    ResultStore
	reporter Reporter
	delays   Delays

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func New(sources []collector.Source, lister collector.Lister, analyzer Analyzer, store ResultStore, reporter Reporter) *Scheduler {
	return &Scheduler{
		sources:  sources,
		lister:   lister,
		analyzer: analyzer,
		store:    store,
		reporter: reporter,
		delays:   DefaultDelays(),
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// machine 保存跨状态传递的数据，只在一次 Run 内有效
type machine struct {
	items []collector.NewsItem
	delay time.Duration
}

// Run 阻塞运行主循环，直到 ctx 被取消
func (s *Scheduler) Run(ctx context.Context) {
	m := &machine{}
	state := StateFetching
	for state != StateInterrupted {
		if ctx.Err() != nil {
			break
		}
		state = s.step(ctx, m, state)
	}
	log.Println("程序已停止")
}

// step 执行一个状态的工作并返回下一个状态
func (s *Scheduler) step(ctx context.Context, m *machine, state State) State {
	switch state {
	case StateFetching:
		items, err := s.fetch()
		if err != nil {
			return s.fail(m, err)
		}
		if len(items) == 0 {
			log.Println("未获取到新闻，60秒后重试...")
			m.delay = s.delayOf(s.delays.Empty)
			return StateSleeping
		}
		m.items = items
		return StateProcessing

	case StateProcessing:
		res, err := s.process(ctx, m.items)
		m.items = nil
		if ctx.Err() != nil {
			return StateInterrupted
		}
		if err != nil {
			return s.fail(m, err)
		}
		log.Printf("本次分析完成，%d条新闻已分析。下次更新在1小时后...", res.Analyzed)
		m.delay = s.delayOf(s.delays.Normal)
		return StateSleeping

	case StateSleeping:
		if err := s.sleep(ctx, m.delay); err != nil {
			return StateInterrupted
		}
		return StateFetching

	default:
		return StateInterrupted
	}
}

// RunOnce 执行一轮采集与分析后返回，不进入等待
func (s *Scheduler) RunOnce(ctx context.Context) (CycleResult, error) {
	items, err := s.fetch()
	if err != nil {
		return CycleResult{}, err
	}
	if len(items) == 0 {
		log.Println("未获取到新闻")
		return CycleResult{}, nil
	}
	res, err := s.process(ctx, items)
	if err == nil {
		log.Printf("本次分析完成，%d条新闻已分析。", res.Analyzed)
	}
	return res, err
}

func (s *Scheduler) fail(m *machine, err error) State {
	log.Printf("主程序出错: %v，30秒后重试...", err)
	m.delay = s.delayOf(s.delays.Failure)
	return StateSleeping
}

func (s *Scheduler) fetch() (items []collector.NewsItem, err error) {
	err = guard(func() error {
		items = s.lister.FetchAll(s.sources)
		return nil
	})
	return items, err
}

// process 逐条分析；单条失败只记录日志，结果非空时整体保存
func (s *Scheduler) process(ctx context.Context, items []collector.NewsItem) (res CycleResult, err error) {
	res.Fetched = len(items)
	err = guard(func() error {
		s.reporter.Header()

		results := make([]processor.Analysis, 0, len(items))
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.Printf("分析新闻: %s", item.Title)
			a, err := s.analyzer.Analyze(ctx, item)
			if err != nil {
				log.Printf("分析新闻出错: %v", err)
				continue
			}
			results = append(results, a)
			s.reporter.Analysis(a)
		}
		res.Analyzed = len(results)

		if len(results) == 0 {
			return nil
		}
		if err := s.store.Save(ctx, results); err != nil {
			return fmt.Errorf("save results: %w", err)
		}
		res.Saved = true
		return nil
	})
	return res, err
}

// delayOf 按调度计算下一次唤醒距现在的时长。cron.Every 的 Next 会对齐到整秒，
// 所以等待时长会减去 now 不足一秒的部分，唤醒总落在整秒上。
func (s *Scheduler) delayOf(schedule cron.Schedule) time.Duration {
	now := s.now()
	return schedule.Next(now).Sub(now)
}

// guard 把 panic 转成错误，交给主循环的兜底重试
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
