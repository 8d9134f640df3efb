package num

import (
	"math"
	"strconv"
)

// Float 是基于 float64 的数值实现，abs/pow 直接使用 math 包。
type Float float64

var _ = assertNumber[Float]

func (x Float) Add(y Float) Float { return x + y }
func (x Float) Sub(y Float) Float { return x - y }
func (x Float) Mul(y Float) Float { return x * y }
func (x Float) Div(y Float) Float { return x / y }
func (x Float) Less(y Float) bool { return x < y }
func (x Float) Abs() Float        { return Float(math.Abs(float64(x))) }

// Powi 计算 x 的整数次幂。
func (x Float) Powi(n int) Float { return Float(math.Pow(float64(x), float64(n))) }

func (Float) Int(i int) Float        { return Float(i) }
func (Float) Rat(num, den int) Float { return Float(num) / Float(den) }
func (Float) Inf() Float             { return Float(math.Inf(1)) }
func (Float) NegInf() Float          { return Float(math.Inf(-1)) }

func (x Float) Float64() float64 { return float64(x) }

func (x Float) String() string {
	return strconv.FormatFloat(float64(x), 'g', -1, 64)
}
