package layout

import "github.com/ByLCY/justify/num"

// ConvertItems 逐字段转换条目的数值类型。
func ConvertItems[From num.Number[From], To num.Number[To]](items []Item[From], conv func(From) To) []Item[To] {
	out := make([]Item[To], len(items))
	for i, it := range items {
		out[i] = Item[To]{
			Kind:    it.Kind,
			Width:   conv(it.Width),
			Stretch: conv(it.Stretch),
			Shrink:  conv(it.Shrink),
			Cost:    conv(it.Cost),
			Flagged: it.Flagged,
		}
	}
	return out
}

// ConvertLines 逐行转换调整比的数值类型。
func ConvertLines[From num.Number[From], To num.Number[To]](lines []Line[From], conv func(From) To) []Line[To] {
	if lines == nil {
		return nil
	}
	out := make([]Line[To], len(lines))
	for i, l := range lines {
		out[i] = Line[To]{BreakAt: l.BreakAt, AdjustmentRatio: conv(l.AdjustmentRatio)}
	}
	return out
}

type via[N num.Number[N]] struct {
	inner ParagraphLayout[N]
	to    func(float64) N
	from  func(N) num.Float
}

// Via 让以 N 为数值类型的断行器接受 float 条目：输入转换为 N，结果再转回 float。
func Via[N num.Number[N]](inner ParagraphLayout[N], to func(float64) N, from func(N) num.Float) ParagraphLayout[num.Float] {
	return &via[N]{inner: inner, to: to, from: from}
}

func (v *via[N]) LayoutParagraph(items []Item[num.Float], lineWidth num.Float) []Line[num.Float] {
	conv := func(x num.Float) N { return v.to(float64(x)) }
	lines := v.inner.LayoutParagraph(ConvertItems(items, conv), conv(lineWidth))
	return ConvertLines(lines, v.from)
}
