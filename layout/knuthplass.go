package layout

import (
	"math"

	"github.com/ByLCY/justify/num"
)

const noNode = -1

// 松紧等级：0 偏紧，1 适中，2 偏松，3 很松。
const fitnessClasses = 4

// node 是一个可行断点。所有节点存放在单次调用私有的 arena 中，
// previous/link 均为 arena 下标，noNode 表示空。
type node[N num.Number[N]] struct {
	position int
	line     int
	fitness  int
	flagged  bool
	// before 是断点之前（不含断点）的累计量，用于回溯时重算调整比。
	before sums[N]
	// after 是断点吞掉其后的空白之后的累计量，作为下一行的起点。
	after    sums[N]
	demerits N
	previous int
	link     int
}

// KnuthPlass 以最小总缺陷值为目标求全局最优断行。
type KnuthPlass[N num.Number[N]] struct {
	cfg KnuthPlassConfig[N]
}

var _ ParagraphLayout[num.Float] = (*KnuthPlass[num.Float])(nil)

// NewKnuthPlass 使用给定配置创建断行器。
func NewKnuthPlass[N num.Number[N]](cfg KnuthPlassConfig[N]) *KnuthPlass[N] {
	return &KnuthPlass[N]{cfg: cfg}
}

// Config 返回断行器的配置。
func (k *KnuthPlass[N]) Config() KnuthPlassConfig[N] { return k.cfg }

// LayoutParagraph 实现 ParagraphLayout。
func (k *KnuthPlass[N]) LayoutParagraph(items []Item[N], lineWidth N) []Line[N] {
	return k.run(items, lineWidth, nil)
}

// Trace 与 LayoutParagraph 相同，另外返回搜索过程的快照。
func (k *KnuthPlass[N]) Trace(items []Item[N], lineWidth N) ([]Line[N], *Trace[N]) {
	tr := &Trace[N]{}
	lines := k.run(items, lineWidth, tr)
	return lines, tr
}

type knuthPlassRun[N num.Number[N]] struct {
	cfg       KnuthPlassConfig[N]
	items     []Item[N]
	lineWidth N

	nodes  []node[N]
	active int
	sum    sums[N]
	// firstUniformLine 之后各行宽度相同，不同行号的候选可以合并比较。
	firstUniformLine int

	trace *Trace[N]
}

func (k *KnuthPlass[N]) run(items []Item[N], lineWidth N, tr *Trace[N]) []Line[N] {
	r := &knuthPlassRun[N]{
		cfg:              k.cfg,
		items:            items,
		lineWidth:        lineWidth,
		firstUniformLine: len(k.cfg.Shape),
		trace:            tr,
	}
	if k.cfg.Looseness != 0 {
		r.firstUniformLine = math.MaxInt
	}
	// arena 随本次调用结束整体释放。
	r.nodes = make([]node[N], 0, len(items)/2+1)
	r.active = r.newNode(node[N]{previous: noNode, link: noNode})

	for b, it := range items {
		w, y, z, legal := it.IsLegalBreakpoint(prevItem(items, b))
		if legal {
			if !r.breakpoint(b) {
				return nil
			}
			if it.IsMandatoryBreak() {
				r.rebase(b)
				continue
			}
		}
		r.sum = r.sum.add(w, y, z)
	}
	if r.active == noNode {
		return nil
	}
	return r.lines(r.choose())
}

func (r *knuthPlassRun[N]) newNode(n node[N]) int {
	r.nodes = append(r.nodes, n)
	id := len(r.nodes) - 1
	if r.trace != nil {
		r.trace.addNode(id, n)
	}
	return id
}

func fitnessClass[N num.Number[N]](ratio N) int {
	switch {
	case ratio.Less(num.Rat[N](-1, 2)):
		return 0
	case !num.Rat[N](1, 2).Less(ratio):
		return 1
	case !num.Int[N](1).Less(ratio):
		return 2
	default:
		return 3
	}
}

// demerits 返回经由 a 到达 b 的总缺陷值及该行的松紧等级。
func (r *knuthPlassRun[N]) demerits(ratio N, a *node[N], b int) (N, int) {
	var zero N
	one := num.Int[N](1)
	badness := one.Add(num.Int[N](100).Mul(ratio.Abs().Powi(3)))
	cost := r.items[b].PenaltyCost()

	var d N
	switch {
	case !cost.Less(zero):
		d = badness.Add(cost).Powi(2)
	case cost != num.NegInf[N]():
		d = badness.Powi(2).Sub(cost.Powi(2))
	default:
		d = badness.Powi(2)
	}
	if a.flagged && r.items[b].IsFlagged() {
		d = d.Add(r.cfg.FlaggedDemerit)
	}
	c := fitnessClass(ratio)
	if c-a.fitness > 1 || a.fitness-c > 1 {
		d = d.Add(r.cfg.FitnessDemerit)
	}
	return d.Add(a.demerits), c
}

// breakpoint 处理合法断点 b，活动链表清空时返回 false。
func (r *knuthPlassRun[N]) breakpoint(b int) bool {
	item := r.items[b]
	mandatory := item.IsMandatoryBreak()
	minRatio := num.Int[N](-1)

	a, prev := r.active, noNode
	for a != noNode {
		var (
			best  = [fitnessClasses]int{noNode, noNode, noNode, noNode}
			bestD [fitnessClasses]N
			minD  N
			found bool
		)
		for {
			n := &r.nodes[a]
			next := n.link
			j := n.line + 1
			line := r.sum.sub(n.after)
			ratio := item.AdjustmentRatio(line.width, line.stretch, line.shrink, lineWidthAt(r.cfg.Shape, r.lineWidth, j))

			if ratio.Less(minRatio) || mandatory {
				r.deactivate(a, prev)
			} else {
				prev = a
			}
			if !ratio.Less(minRatio) && !r.cfg.Threshold.Less(ratio) {
				d, c := r.demerits(ratio, n, b)
				if r.trace != nil {
					r.trace.addEdge(a, b, j, c, ratio, d)
				}
				if best[c] == noNode || d.Less(bestD[c]) {
					best[c], bestD[c] = a, d
				}
				if !found || d.Less(minD) {
					minD, found = d, true
				}
			}

			a = next
			if a == noNode || (r.nodes[a].line >= j && j < r.firstUniformLine) {
				break
			}
		}
		if !found {
			continue
		}

		after := totalsAfter(r.items, b, r.sum)
		limit := minD.Add(r.cfg.FitnessDemerit)
		for c := 0; c < fitnessClasses; c++ {
			if best[c] == noNode || limit.Less(bestD[c]) {
				continue
			}
			s := r.newNode(node[N]{
				position: b,
				line:     r.nodes[best[c]].line + 1,
				fitness:  c,
				flagged:  item.IsFlagged(),
				before:   r.sum,
				after:    after,
				demerits: bestD[c],
				previous: best[c],
				link:     a,
			})
			if prev == noNode {
				r.active = s
			} else {
				r.nodes[prev].link = s
			}
			prev = s
		}
	}
	return r.active != noNode
}

// deactivate 从活动链表中摘除 a；prev 是 a 之前的活动节点。
func (r *knuthPlassRun[N]) deactivate(a, prev int) {
	next := r.nodes[a].link
	if prev == noNode {
		r.active = next
	} else {
		r.nodes[prev].link = next
	}
	r.nodes[a].link = noNode
}

// rebase 在强制断行后把累计量清零，此时活动节点都位于 b。
func (r *knuthPlassRun[N]) rebase(b int) {
	var zero sums[N]
	r.sum = zero
	after := totalsAfter(r.items, b, zero)
	for a := r.active; a != noNode; a = r.nodes[a].link {
		r.nodes[a].after = after
	}
}

// choose 选出缺陷值最小的活动节点，并按 looseness 调整行数。
func (r *knuthPlassRun[N]) choose() int {
	best := r.active
	for a := r.nodes[best].link; a != noNode; a = r.nodes[a].link {
		if r.nodes[a].demerits.Less(r.nodes[best].demerits) {
			best = a
		}
	}
	q := r.cfg.Looseness
	if q == 0 {
		return best
	}

	k := r.nodes[best].line
	chosen, s := best, 0
	for a := r.active; a != noNode; a = r.nodes[a].link {
		delta := r.nodes[a].line - k
		switch {
		case (q <= delta && delta < s) || (s < delta && delta <= q):
			s, chosen = delta, a
		case delta == s && r.nodes[a].demerits.Less(r.nodes[chosen].demerits):
			chosen = a
		}
	}
	return chosen
}

// lines 从终点沿 previous 回溯，逐行重算调整比。
func (r *knuthPlassRun[N]) lines(end int) []Line[N] {
	out := make([]Line[N], r.nodes[end].line)
	for n, j := end, r.nodes[end].line; j > 0; j-- {
		cur := r.nodes[n]
		p := r.nodes[cur.previous]
		line := cur.before.sub(p.after)
		target := lineWidthAt(r.cfg.Shape, r.lineWidth, j)
		out[j-1] = Line[N]{
			BreakAt:         cur.position,
			AdjustmentRatio: r.items[cur.position].AdjustmentRatio(line.width, line.stretch, line.shrink, target),
		}
		n = cur.previous
	}
	if r.trace != nil {
		r.trace.setChosen(r.nodes, end)
	}
	return out
}
