package layout

import "github.com/ByLCY/justify/num"

// 该文件定义段落输入与排版结果，供断行、渲染与调试 JSON 共用。

// Paragraph 是断行的输入：条目序列以及每个条目对应的原文片段。
// Fragments 与 Items 等长；Glue 的片段通常是空格，Penalty 的片段只在其处断行时输出（例如连字符）。
type Paragraph struct {
	Items     []Item[num.Float] `json:"items"`
	Fragments []string          `json:"fragments,omitempty"`
}

// Fragment 返回第 i 个条目的片段，缺省为空串。
func (p Paragraph) Fragment(i int) string {
	if i < 0 || i >= len(p.Fragments) {
		return ""
	}
	return p.Fragments[i]
}

// Append 追加条目及其片段。
func (p *Paragraph) Append(it Item[num.Float], fragment string) {
	p.Items = append(p.Items, it)
	p.Fragments = append(p.Fragments, fragment)
}

// Result 保存排版后的行。宽度单位由 Measurer 决定（canvas 为 mm，终端为列）。
type Result struct {
	Width     float64      `json:"width"`
	Algorithm Algorithm    `json:"algorithm"`
	Lines     []TextLine   `json:"lines"`
	Style     TextStyle    `json:"style"`
	Meta      DocumentMeta `json:"meta"`
}

// TextLine 表示排版后的一行。
type TextLine struct {
	Content string `json:"content"`
	// Width 是自然宽度（空白未伸缩时）。
	Width float64 `json:"width"`
	// Target 是该行的目标宽度。
	Target  float64   `json:"target"`
	Ratio   num.Float `json:"ratio"`
	BreakAt int       `json:"breakAt"`
	// Last 标记段落（或强制断行前）的最后一行，渲染时不两端对齐。
	Last  bool   `json:"last,omitempty"`
	Spans []Span `json:"spans"`
}

// Span 是一行中的一个 Box 片段，X 为空白伸缩之后的起点。
type Span struct {
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Width float64 `json:"width"`
}

// TextStyle 描述渲染所需的字体参数，单位均为 mm。
type TextStyle struct {
	Font       string  `json:"font"`
	FontSize   float64 `json:"fontSize"`
	LineHeight float64 `json:"lineHeight"`
	Color      Color   `json:"color"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
