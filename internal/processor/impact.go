package processor

import "strings"

// Impact 基于关键词的市场影响标签，与模型情感标签相互独立
type Impact string

const (
	ImpactNeutral        Impact = "中性"
	ImpactPositive       Impact = "利好"
	ImpactNegative       Impact = "利空"
	ImpactPolicyPositive Impact = "政策利好"
)

var (
	positiveKeywords = []string{"涨", "利好", "增长"}
	negativeKeywords = []string{"跌", "利空", "下降"}
	policyKeywords   = []string{"政策", "支持"}
)

// TagImpact 按顺序应用规则，后命中的覆盖先命中的：
// 利空关键词覆盖利好；政策关键词只把“利好”升级为“政策利好”，不改变中性或利空。
func TagImpact(text string) Impact {
	impact := ImpactNeutral
	if containsAny(text, positiveKeywords) {
		impact = ImpactPositive
	}
	if containsAny(text, negativeKeywords) {
		impact = ImpactNegative
	}
	if containsAny(text, policyKeywords) && impact == ImpactPositive {
		impact = ImpactPolicyPositive
	}
	return impact
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
