package layout

import (
	"errors"

	"github.com/ByLCY/justify/num"
)

// Kind 区分三种条目。
type Kind uint8

const (
	KindBox Kind = iota
	KindGlue
	KindPenalty
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindGlue:
		return "glue"
	case KindPenalty:
		return "penalty"
	default:
		return "unknown"
	}
}

// Item 是段落的基本单元：Box 不可断开；Glue 是可伸缩的空白；Penalty 是断行标记。
// 只有 Glue 使用 Stretch/Shrink，只有 Penalty 使用 Cost/Flagged。
//
// Penalty 的 Cost 为 −∞ 表示强制断行，为 +∞ 表示禁止断行。
type Item[N num.Number[N]] struct {
	Kind    Kind `json:"kind"`
	Width   N    `json:"width"`
	Stretch N    `json:"stretch,omitempty"`
	Shrink  N    `json:"shrink,omitempty"`
	Cost    N    `json:"cost,omitempty"`
	Flagged bool `json:"flagged,omitempty"`
}

// Box 构造宽度为 width 的不可断开内容。
func Box[N num.Number[N]](width N) Item[N] {
	return Item[N]{Kind: KindBox, Width: width}
}

// Glue 构造可伸缩空白。
func Glue[N num.Number[N]](width, stretch, shrink N) Item[N] {
	return Item[N]{Kind: KindGlue, Width: width, Stretch: stretch, Shrink: shrink}
}

// Penalty 构造断行标记；width 只在该处断行时计入行宽（例如连字符）。
func Penalty[N num.Number[N]](width, cost N, flagged bool) Item[N] {
	return Item[N]{Kind: KindPenalty, Width: width, Cost: cost, Flagged: flagged}
}

// ForcedBreak 返回强制断行的 Penalty。
func ForcedBreak[N num.Number[N]](flagged bool) Item[N] {
	var zero N
	return Penalty(zero, num.NegInf[N](), flagged)
}

// NoBreak 返回禁止断行的 Penalty。
func NoBreak[N num.Number[N]]() Item[N] {
	var zero N
	return Penalty(zero, num.Inf[N](), false)
}

// FillGlue 返回段落末尾使用的无限拉伸空白。
func FillGlue[N num.Number[N]]() Item[N] {
	var zero N
	return Glue(zero, num.Inf[N](), zero)
}

// IsLegalBreakpoint 判断该条目能否作为断点，并返回它对累计宽度/伸长/压缩的贡献。
// prev 为前一个条目，段首传 nil。
func (it Item[N]) IsLegalBreakpoint(prev *Item[N]) (width, stretch, shrink N, legal bool) {
	switch it.Kind {
	case KindBox:
		return it.Width, stretch, shrink, false
	case KindGlue:
		return it.Width, it.Stretch, it.Shrink, prev != nil && prev.Kind == KindBox
	case KindPenalty:
		return width, stretch, shrink, it.Cost != num.Inf[N]()
	}
	return width, stretch, shrink, false
}

// IsMandatoryBreak 报告是否为代价 −∞ 的 Penalty。
func (it Item[N]) IsMandatoryBreak() bool {
	return it.Kind == KindPenalty && it.Cost == num.NegInf[N]()
}

// PenaltyCost 返回 Penalty 的代价，其他条目为 0。
func (it Item[N]) PenaltyCost() N {
	if it.Kind == KindPenalty {
		return it.Cost
	}
	var zero N
	return zero
}

// IsFlagged 报告是否为带标记的 Penalty。
func (it Item[N]) IsFlagged() bool {
	return it.Kind == KindPenalty && it.Flagged
}

// AdjustmentRatio 计算在该条目处断行时，宽度 w、伸长 y、压缩 z 的一行
// 需要把空白拉伸（正值）或压缩（负值）多少倍才能恰好填满 target。
// 无法伸缩时返回对应方向的无穷。
func (it Item[N]) AdjustmentRatio(w, y, z, target N) N {
	if it.Kind == KindPenalty {
		w = w.Add(it.Width)
	}
	var zero N
	switch {
	case w.Less(target):
		if zero.Less(y) {
			return target.Sub(w).Div(y)
		}
		return num.Inf[N]()
	case target.Less(w):
		if zero.Less(z) {
			return target.Sub(w).Div(z)
		}
		return num.NegInf[N]()
	default:
		return zero
	}
}

// Line 描述一行：在 BreakAt 处断开，空白按 AdjustmentRatio 伸缩。
type Line[N num.Number[N]] struct {
	BreakAt         int `json:"breakAt"`
	AdjustmentRatio N   `json:"adjustmentRatio"`
}

// GlueWidth 返回 glue 在该行中实际占用的宽度；非 Glue 条目返回其宽度。
func (l Line[N]) GlueWidth(it Item[N]) N {
	var zero N
	r := l.AdjustmentRatio
	if it.Kind != KindGlue || r == zero {
		return it.Width
	}
	if zero.Less(r) {
		if it.Stretch == zero || num.IsInf(r, 0) || num.IsInf(it.Stretch, 1) {
			return it.Width
		}
		return it.Width.Add(r.Mul(it.Stretch))
	}
	if it.Shrink == zero || num.IsInf(r, 0) {
		return it.Width
	}
	return it.Width.Add(r.Mul(it.Shrink))
}

// ParagraphLayout 把条目序列切分为行。
//
// items 必须以且仅以一个强制断行的 Penalty 结尾（通常前面紧跟一个无限拉伸的 Glue），
// 算法不会自动补齐；不满足时结果没有意义。需要检查时先调用 Validate。
// 返回 nil 表示在当前配置下无可行解。
type ParagraphLayout[N num.Number[N]] interface {
	LayoutParagraph(items []Item[N], lineWidth N) []Line[N]
}

var (
	ErrEmptyParagraph      = errors.New("段落为空")
	ErrMissingTerminator   = errors.New("段落必须以强制断行结尾")
	ErrMultipleTerminators = errors.New("段落末尾存在多个连续的强制断行")
	ErrInfeasible          = errors.New("当前配置下无法断行")
)

// Validate 检查条目序列是否满足 ParagraphLayout 的前置条件。
func Validate[N num.Number[N]](items []Item[N]) error {
	n := len(items)
	if n == 0 {
		return ErrEmptyParagraph
	}
	if !items[n-1].IsMandatoryBreak() {
		return ErrMissingTerminator
	}
	if n > 1 && items[n-2].IsMandatoryBreak() {
		return ErrMultipleTerminators
	}
	return nil
}
