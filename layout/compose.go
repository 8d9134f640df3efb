package layout

import (
	"strings"

	"github.com/ByLCY/justify/num"
)

// Compose 按断行结果把段落还原为可渲染的行。
// 断点之后被吞掉的 Glue/Penalty 不出现在下一行；未被选为断点的 Penalty 不输出任何内容。
func Compose(p Paragraph, lines []Line[num.Float], lineWidth float64, shape []float64) []TextLine {
	out := make([]TextLine, 0, len(lines))
	start := 0
	for j, l := range lines {
		target := lineWidth
		if len(shape) > 0 {
			target = shape[min(j, len(shape)-1)]
		}
		if j > 0 {
			start = skipDiscarded(p.Items, start, l.BreakAt)
		}

		var (
			sb      strings.Builder
			x       float64
			natural float64
			spans   []Span
		)
		for i := start; i < l.BreakAt; i++ {
			it := p.Items[i]
			switch it.Kind {
			case KindBox:
				w := float64(it.Width)
				frag := p.Fragment(i)
				spans = append(spans, Span{Text: frag, X: x, Width: w})
				sb.WriteString(frag)
				x += w
				natural += w
			case KindGlue:
				x += float64(l.GlueWidth(it))
				natural += float64(it.Width)
				sb.WriteString(p.Fragment(i))
			}
		}
		at := p.Items[l.BreakAt]
		if at.Kind == KindPenalty && at.Width > 0 {
			frag := p.Fragment(l.BreakAt)
			spans = append(spans, Span{Text: frag, X: x, Width: float64(at.Width)})
			sb.WriteString(frag)
			natural += float64(at.Width)
		}

		out = append(out, TextLine{
			Content: sb.String(),
			Width:   natural,
			Target:  target,
			Ratio:   l.AdjustmentRatio,
			BreakAt: l.BreakAt,
			Last:    at.IsMandatoryBreak(),
			Spans:   spans,
		})
		start = l.BreakAt + 1
	}
	return out
}

// skipDiscarded 跳过断点之后的 Glue 与非强制 Penalty。
func skipDiscarded(items []Item[num.Float], i, end int) int {
	for i < end && items[i].Kind != KindBox && !items[i].IsMandatoryBreak() {
		i++
	}
	return i
}
