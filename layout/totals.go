package layout

import "github.com/ByLCY/justify/num"

// sums 是宽度、伸长、压缩三项累计量。
type sums[N num.Number[N]] struct {
	width, stretch, shrink N
}

func (s sums[N]) add(w, y, z N) sums[N] {
	return sums[N]{s.width.Add(w), s.stretch.Add(y), s.shrink.Add(z)}
}

func (s sums[N]) sub(o sums[N]) sums[N] {
	return sums[N]{s.width.Sub(o.width), s.stretch.Sub(o.stretch), s.shrink.Sub(o.shrink)}
}

// totalsAfter 返回在 b 处断行后下一行的起始累计量：
// b 之后紧跟的 Glue 与 Penalty 会被断点吞掉，直到遇到 Box 或另一个强制断行。
// before 是 b 之前（不含 b）的累计量。
func totalsAfter[N num.Number[N]](items []Item[N], b int, before sums[N]) sums[N] {
	out := before
	for i := b; i < len(items); i++ {
		it := items[i]
		switch it.Kind {
		case KindBox:
			return out
		case KindGlue:
			out = out.add(it.Width, it.Stretch, it.Shrink)
		case KindPenalty:
			if i > b && it.IsMandatoryBreak() {
				return out
			}
		}
	}
	return out
}

// lineWidthAt 返回第 j 行（从 1 开始）的目标宽度。
func lineWidthAt[N num.Number[N]](shape []N, lineWidth N, j int) N {
	if len(shape) == 0 {
		return lineWidth
	}
	if j-1 < len(shape) {
		return shape[j-1]
	}
	return shape[len(shape)-1]
}

func prevItem[N num.Number[N]](items []Item[N], i int) *Item[N] {
	if i == 0 {
		return nil
	}
	return &items[i-1]
}
