// Package display 负责控制台上的分析结果输出
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/LJTian/StockNewsAnalyzer/internal/processor"
	"github.com/charmbracelet/lipgloss"
)

const ruleWidth = 80

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	impactStyles = map[processor.Impact]lipgloss.Style{
		processor.ImpactPositive:       lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		processor.ImpactPolicyPositive: lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true),
		processor.ImpactNegative:       lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
		processor.ImpactNeutral:        lipgloss.NewStyle(),
	}
)

// Printer 按原控制台格式逐条打印分析结果
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{w: w}
}

// Header 每轮处理开始前的标题
func (p *Printer) Header() {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, titleStyle.Render("最新财经新闻分析结果:"))
	fmt.Fprintln(p.w, strings.Repeat("=", ruleWidth))
}

// Analysis 打印单条结果
func (p *Printer) Analysis(a processor.Analysis) {
	impact := impactStyles[a.Impact].Render(string(a.Impact))

	fmt.Fprintf(p.w, "%s %s\n", labelStyle.Render("标题:"), titleStyle.Render(a.Title))
	fmt.Fprintf(p.w, "%s %s\n", labelStyle.Render("来源:"), a.Source)
	fmt.Fprintf(p.w, "%s %s (%s)\n", labelStyle.Render("情感:"), a.Sentiment, a.Confidence)
	fmt.Fprintf(p.w, "%s %s\n", labelStyle.Render("影响:"), impact)
	fmt.Fprintf(p.w, "%s %s\n", labelStyle.Render("链接:"), a.Link)
	fmt.Fprintf(p.w, "%s %s\n", labelStyle.Render("分析时间:"), a.AnalyzedAt)
	fmt.Fprintln(p.w, strings.Repeat("-", ruleWidth))
}
