package layout

import "github.com/ByLCY/justify/num"

// FirstFit 是单遍贪心断行：每次只保留一个候选断点，不回溯。
type FirstFit[N num.Number[N]] struct {
	cfg FirstFitConfig[N]
}

var _ ParagraphLayout[num.Float] = (*FirstFit[num.Float])(nil)

// NewFirstFit 使用给定配置创建贪心断行器。
func NewFirstFit[N num.Number[N]](cfg FirstFitConfig[N]) *FirstFit[N] {
	return &FirstFit[N]{cfg: cfg}
}

// Config 返回断行器的配置。
func (f *FirstFit[N]) Config() FirstFitConfig[N] { return f.cfg }

// candidate 是当前持有的断点。
type candidate[N num.Number[N]] struct {
	at        int
	before    sums[N]
	ratio     N
	mandatory bool
}

type firstFitRun[N num.Number[N]] struct {
	cfg       FirstFitConfig[N]
	items     []Item[N]
	lineWidth N
	start     sums[N]
	lines     []Line[N]
}

// LayoutParagraph 实现 ParagraphLayout。
func (f *FirstFit[N]) LayoutParagraph(items []Item[N], lineWidth N) []Line[N] {
	r := &firstFitRun[N]{cfg: f.cfg, items: items, lineWidth: lineWidth}
	return r.run()
}

func (r *firstFitRun[N]) ratioAt(b int, before sums[N]) N {
	line := before.sub(r.start)
	target := lineWidthAt(r.cfg.Shape, r.lineWidth, len(r.lines)+1)
	return r.items[b].AdjustmentRatio(line.width, line.stretch, line.shrink, target)
}

func (r *firstFitRun[N]) feasible(ratio N) bool {
	return !ratio.Less(num.Int[N](-1)) && !r.cfg.Threshold.Less(ratio)
}

// commit 在 c 处切出一行；不可行且不允许溢出时返回 false。
func (r *firstFitRun[N]) commit(c candidate[N]) bool {
	ratio := c.ratio
	if !r.feasible(ratio) {
		if !r.cfg.AllowOverflow {
			return false
		}
		var zero N
		ratio = zero
	}
	r.lines = append(r.lines, Line[N]{BreakAt: c.at, AdjustmentRatio: ratio})
	r.start = totalsAfter(r.items, c.at, c.before)
	return true
}

func (r *firstFitRun[N]) run() []Line[N] {
	var (
		sum  sums[N]
		held *candidate[N]
	)
	for b, it := range r.items {
		w, y, z, legal := it.IsLegalBreakpoint(prevItem(r.items, b))
		if legal {
			ratio := r.ratioAt(b, sum)
			if held != nil {
				tooTight := ratio.Less(num.Int[N](-1))
				tooLoose := r.cfg.Threshold.Less(ratio) && r.feasible(held.ratio)
				if tooTight || tooLoose {
					if !r.commit(*held) {
						return nil
					}
					held = nil
					ratio = r.ratioAt(b, sum)
				}
			}
			// 候选断点自身已溢出时无法被后续断点挽回：直接失败，允许溢出时记为 0。
			if ratio.Less(num.Int[N](-1)) {
				if !r.cfg.AllowOverflow {
					return nil
				}
				var zero N
				ratio = zero
			}
			held = &candidate[N]{at: b, before: sum, ratio: ratio, mandatory: it.IsMandatoryBreak()}
			if held.mandatory {
				if !r.commit(*held) {
					return nil
				}
				held = nil
				// 强制断行后重新计数，避免无穷量相减。
				var zero sums[N]
				r.start = totalsAfter(r.items, b, zero)
				sum = zero
				continue
			}
		}
		sum = sum.add(w, y, z)
	}
	if held != nil && !r.commit(*held) {
		return nil
	}
	return r.lines
}
