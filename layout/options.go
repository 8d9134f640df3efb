package layout

import "github.com/ByLCY/justify/num"

// FirstFitConfig 配置贪心断行。
type FirstFitConfig[N num.Number[N]] struct {
	// Threshold 是可接受的最大调整比。
	// 新断点的调整比超过 Threshold 时，只有当前持有的断点本身可行才会先在那里断开；
	// 否则用新断点替换它，继续寻找更紧的断点。
	Threshold N
	// AllowOverflow 为真时，原本不可行的行仍会输出，调整比记为 0。
	// 为假时，调整比小于 −1 的候选断点会使整段失败。
	AllowOverflow bool
	// Shape 逐行指定目标宽度，超出部分沿用最后一项；为空时使用调用方传入的宽度。
	Shape []N
}

// DefaultFirstFitConfig 返回 threshold=1、不允许溢出的配置。
func DefaultFirstFitConfig[N num.Number[N]]() FirstFitConfig[N] {
	return FirstFitConfig[N]{Threshold: num.Int[N](1)}
}

// KnuthPlassConfig 配置全局最优断行。
type KnuthPlassConfig[N num.Number[N]] struct {
	// FlaggedDemerit 惩罚相邻两行都在带标记的 Penalty 处断开（α）。
	FlaggedDemerit N
	// FitnessDemerit 惩罚相邻两行的松紧等级相差超过一级（γ）。
	FitnessDemerit N
	// Threshold 是可接受的最大调整比（ρ）。
	Threshold N
	// Looseness 要求比最优解多（正）或少（负）几行（q）。
	Looseness int
	Shape     []N
}

// DefaultKnuthPlassConfig 返回 100/100/1/0 的默认配置。
func DefaultKnuthPlassConfig[N num.Number[N]]() KnuthPlassConfig[N] {
	return KnuthPlassConfig[N]{
		FlaggedDemerit: num.Int[N](100),
		FitnessDemerit: num.Int[N](100),
		Threshold:      num.Int[N](1),
	}
}

// Algorithm 标识断行策略。
type Algorithm string

const (
	AlgorithmFirstFit   Algorithm = "first-fit"
	AlgorithmKnuthPlass Algorithm = "knuth-plass"
)

// ParseAlgorithm 接受常见写法（first-fit/firstfit/greedy，knuth-plass/knuthplass/optimal）。
func ParseAlgorithm(s string) (Algorithm, bool) {
	switch s {
	case "first-fit", "firstfit", "greedy":
		return AlgorithmFirstFit, true
	case "", "knuth-plass", "knuthplass", "optimal", "kp":
		return AlgorithmKnuthPlass, true
	}
	return "", false
}

// Options 汇总一次断行需要的全部参数，供 CLI、服务端与配置文件共用。
type Options struct {
	Algorithm      Algorithm
	Threshold      float64
	AllowOverflow  bool
	FlaggedDemerit float64
	FitnessDemerit float64
	Looseness      int
	Shape          []float64
	// Fixed 为真时使用定点后端计算断点。
	Fixed bool
}

// DefaultOptions 返回 Knuth–Plass 的默认参数。
func DefaultOptions() Options {
	return Options{
		Algorithm:      AlgorithmKnuthPlass,
		Threshold:      1,
		FlaggedDemerit: 100,
		FitnessDemerit: 100,
	}
}

// Breaker 根据 Options 构造对应的断行器（float 后端）。
func (o Options) Breaker() ParagraphLayout[num.Float] {
	if o.Fixed {
		return Via[num.Fixed](o.fixedBreaker(), num.FixedFromFloat, func(x num.Fixed) num.Float {
			return num.Float(x.Float64())
		})
	}
	if o.Algorithm == AlgorithmFirstFit {
		return NewFirstFit(o.FirstFitConfig())
	}
	return NewKnuthPlass(o.KnuthPlassConfig())
}

// FirstFitConfig 取出贪心断行需要的参数。
func (o Options) FirstFitConfig() FirstFitConfig[num.Float] {
	return FirstFitConfig[num.Float]{
		Threshold:     num.Float(o.Threshold),
		AllowOverflow: o.AllowOverflow,
		Shape:         convertShape(o.Shape, func(w float64) num.Float { return num.Float(w) }),
	}
}

// KnuthPlassConfig 取出最优断行需要的参数。
func (o Options) KnuthPlassConfig() KnuthPlassConfig[num.Float] {
	return KnuthPlassConfig[num.Float]{
		FlaggedDemerit: num.Float(o.FlaggedDemerit),
		FitnessDemerit: num.Float(o.FitnessDemerit),
		Threshold:      num.Float(o.Threshold),
		Looseness:      o.Looseness,
		Shape:          convertShape(o.Shape, func(w float64) num.Float { return num.Float(w) }),
	}
}

func (o Options) fixedBreaker() ParagraphLayout[num.Fixed] {
	shape := convertShape(o.Shape, num.FixedFromFloat)
	if o.Algorithm == AlgorithmFirstFit {
		return NewFirstFit(FirstFitConfig[num.Fixed]{
			Threshold:     num.FixedFromFloat(o.Threshold),
			AllowOverflow: o.AllowOverflow,
			Shape:         shape,
		})
	}
	return NewKnuthPlass(KnuthPlassConfig[num.Fixed]{
		FlaggedDemerit: num.FixedFromFloat(o.FlaggedDemerit),
		FitnessDemerit: num.FixedFromFloat(o.FitnessDemerit),
		Threshold:      num.FixedFromFloat(o.Threshold),
		Looseness:      o.Looseness,
		Shape:          shape,
	})
}

func convertShape[N num.Number[N]](shape []float64, conv func(float64) N) []N {
	if len(shape) == 0 {
		return nil
	}
	out := make([]N, len(shape))
	for i, w := range shape {
		out[i] = conv(w)
	}
	return out
}
