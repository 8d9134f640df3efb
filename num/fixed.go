package num

import (
	"math"
	"math/bits"
	"strconv"

	"golang.org/x/image/math/fixed"
)

const (
	fixedShift = 12
	fixedOne   = 1 << fixedShift
)

// Fixed 是 52.12 定点数（golang.org/x/image/math/fixed.Int52_12）的饱和封装。
//
// 所有运算在溢出时钳制到 int64 的最小/最大原始值，而不是回绕。
// 这两个钳制值同时充当 ±∞ 哨兵，这是一种近似：
//   - 与无穷的比较是与钳制值的精确相等，Inf().Sub(Int(1)) != Inf()；
//   - 任何恰好饱和的结果都会被当作无穷；
//   - 除以 0 按被除数符号得到 ±∞，0/0 得到 0。
//
// 分辨率为 1/4096，比较两种后端的比值时需要留出相应的容差。
type Fixed struct {
	v fixed.Int52_12
}

var _ = assertNumber[Fixed]

// FixedFromRaw 直接使用 52.12 原始值构造。
func FixedFromRaw(v fixed.Int52_12) Fixed { return Fixed{v: v} }

// FixedFromFloat 将 float64 转换为定点数，超出范围或为无穷时饱和。
func FixedFromFloat(f float64) Fixed {
	switch {
	case math.IsNaN(f):
		return Fixed{}
	case f >= math.MaxInt64/fixedOne:
		return Fixed{}.Inf()
	case f <= math.MinInt64/fixedOne:
		return Fixed{}.NegInf()
	}
	return Fixed{v: fixed.Int52_12(math.Round(f * fixedOne))}
}

// Raw 返回底层 52.12 值。
func (x Fixed) Raw() fixed.Int52_12 { return x.v }

// Float64 转换为 float64，±∞ 哨兵映射为 math.Inf。
func (x Fixed) Float64() float64 {
	switch x.v {
	case math.MaxInt64:
		return math.Inf(1)
	case math.MinInt64:
		return math.Inf(-1)
	}
	return float64(x.v) / fixedOne
}

func (x Fixed) String() string {
	switch x.v {
	case math.MaxInt64:
		return "inf"
	case math.MinInt64:
		return "-inf"
	}
	return strconv.FormatFloat(x.Float64(), 'f', -1, 64)
}

func (x Fixed) Add(y Fixed) Fixed {
	s := x.v + y.v
	switch {
	case y.v > 0 && s < x.v:
		return x.Inf()
	case y.v < 0 && s > x.v:
		return x.NegInf()
	}
	return Fixed{v: s}
}

func (x Fixed) Sub(y Fixed) Fixed {
	d := x.v - y.v
	switch {
	case y.v < 0 && d < x.v:
		return x.Inf()
	case y.v > 0 && d > x.v:
		return x.NegInf()
	}
	return Fixed{v: d}
}

func (x Fixed) Mul(y Fixed) Fixed {
	if x.v == 0 || y.v == 0 {
		return Fixed{}
	}
	neg := (x.v < 0) != (y.v < 0)
	hi, lo := bits.Mul64(magnitude(x.v), magnitude(y.v))
	// 乘积右移 12 位后必须仍能放进 int64。
	if hi>>(fixedShift-1) != 0 {
		return saturate(neg)
	}
	q := hi<<(64-fixedShift) | lo>>fixedShift
	if q > math.MaxInt64-1 {
		return saturate(neg)
	}
	return Fixed{v: x.v.Mul(y.v)}
}

func (x Fixed) Div(y Fixed) Fixed {
	if y.v == 0 {
		switch {
		case x.v > 0:
			return x.Inf()
		case x.v < 0:
			return x.NegInf()
		}
		return Fixed{}
	}
	neg := (x.v < 0) != (y.v < 0)
	ux, uy := magnitude(x.v), magnitude(y.v)
	hi, lo := ux>>(64-fixedShift), ux<<fixedShift
	if hi >= uy {
		return saturate(neg)
	}
	q, r := bits.Div64(hi, lo, uy)
	if r >= uy-r {
		q++
	}
	if q >= math.MaxInt64 {
		return saturate(neg)
	}
	if neg {
		return Fixed{v: -fixed.Int52_12(q)}
	}
	return Fixed{v: fixed.Int52_12(q)}
}

func (x Fixed) Less(y Fixed) bool { return x.v < y.v }

func (x Fixed) Abs() Fixed {
	switch {
	case x.v == math.MinInt64:
		return x.Inf()
	case x.v < 0:
		return Fixed{v: -x.v}
	}
	return x
}

// Powi 通过反复乘法求幂；负指数取倒数。
func (x Fixed) Powi(n int) Fixed {
	if n < 0 {
		return x.Int(1).Div(x.Powi(-n))
	}
	result := x.Int(1)
	for i := 0; i < n; i++ {
		result = result.Mul(x)
	}
	return result
}

func (Fixed) Int(i int) Fixed {
	switch {
	case i > math.MaxInt64>>fixedShift:
		return Fixed{}.Inf()
	case i < math.MinInt64>>fixedShift:
		return Fixed{}.NegInf()
	}
	return Fixed{v: fixed.Int52_12(int64(i) << fixedShift)}
}

func (x Fixed) Rat(num, den int) Fixed { return x.Int(num).Div(x.Int(den)) }
func (Fixed) Inf() Fixed               { return Fixed{v: math.MaxInt64} }
func (Fixed) NegInf() Fixed            { return Fixed{v: math.MinInt64} }

func magnitude(v fixed.Int52_12) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

func saturate(neg bool) Fixed {
	if neg {
		return Fixed{}.NegInf()
	}
	return Fixed{}.Inf()
}
