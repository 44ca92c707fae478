// Package utils 提供推荐链路的可解释标签。
package utils

import "strings"

const (
	valueSep  = "|"
	sourceSep = ","
)

// Label 记录某个节点对商品或请求做过的标注，例如召回来源、排序分、被哪个过滤器移除。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rank / rerank
}

// MergeLabel 合并同名 Label：Value 以 '|' 累积，Source 以 ',' 累积；空值不参与合并。
func MergeLabel(existing, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}
	return Label{
		Value:  existing.Value + valueSep + incoming.Value,
		Source: joinNonEmpty(existing.Source, incoming.Source),
	}
}

// Values 返回累积的各个值。
func (l Label) Values() []string {
	if l.Value == "" {
		return nil
	}
	return strings.Split(l.Value, valueSep)
}

// Has 报告 v 是否是累积值之一。
func (l Label) Has(v string) bool {
	for _, x := range l.Values() {
		if x == v {
			return true
		}
	}
	return false
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + sourceSep + b
	}
}
