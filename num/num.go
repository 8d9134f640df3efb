// Package num 定义断行算法所需的数值能力，以及两种可互换的实现：
// 原生浮点 Float 与饱和定点 Fixed。
package num

// Number 是断行算法对数值类型的全部要求。
// 零值必须表示数值 0；相等比较依赖 comparable。
type Number[N any] interface {
	comparable

	Add(N) N
	Sub(N) N
	Mul(N) N
	Div(N) N
	Less(N) bool
	Abs() N
	Powi(n int) N

	// 以下方法只依赖接收者的类型，不读取接收者的值。
	Int(i int) N
	Rat(num, den int) N
	Inf() N
	NegInf() N
}

// assertNumber 在编译期检查 N 满足 Number。
func assertNumber[N Number[N]]() {}

// Int 构造整数 i。
func Int[N Number[N]](i int) N {
	var zero N
	return zero.Int(i)
}

// Rat 构造有理数 num/den。
func Rat[N Number[N]](num, den int) N {
	var zero N
	return zero.Rat(num, den)
}

// Inf 返回 +∞ 哨兵。
func Inf[N Number[N]]() N {
	var zero N
	return zero.Inf()
}

// NegInf 返回 −∞ 哨兵。
func NegInf[N Number[N]]() N {
	var zero N
	return zero.NegInf()
}

// Max 返回较大者。
func Max[N Number[N]](a, b N) N {
	if a.Less(b) {
		return b
	}
	return a
}

// Min 返回较小者。
func Min[N Number[N]](a, b N) N {
	if b.Less(a) {
		return b
	}
	return a
}

// IsInf 报告 x 是否为 sign 方向上的无穷哨兵；sign 为 0 时两个方向都算。
func IsInf[N Number[N]](x N, sign int) bool {
	switch {
	case sign > 0:
		return x == Inf[N]()
	case sign < 0:
		return x == NegInf[N]()
	default:
		return x == Inf[N]() || x == NegInf[N]()
	}
}
