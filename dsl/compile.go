package dsl

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/ByLCY/justify/layout"
	"github.com/ByLCY/justify/num"
)

// Program 是编译后的条目流及其附带的排版参数。
type Program[N num.Number[N]] struct {
	Items     []layout.Item[N]
	Fragments []string
	// Width 为 0 表示文件中未给出 width。
	Width N
	Shape []N
	// Settings 以 layout.DefaultOptions 为基础，叠加文件中的设置。
	Settings layout.Options
}

// Paragraph 把条目与片段打包为 float 段落，供 layout.Typeset 使用。
func (p *Program[N]) Paragraph(conv func(N) num.Float) layout.Paragraph {
	return layout.Paragraph{
		Items:     layout.ConvertItems(p.Items, conv),
		Fragments: p.Fragments,
	}
}

// Error 指出 DSL 中出错的行。
type Error struct {
	Line int
	// Kind 是语句类型，语法错误时为 "syntax"。
	Kind string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("第 %d 行 %s: %v", e.Line, e.Kind, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Compile 把 AST 编译为数值类型为 N 的条目流。
func Compile[N num.Number[N]](doc *Document) (*Program[N], error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	prog := &Program[N]{Settings: layout.DefaultOptions()}
	for _, st := range doc.Statements {
		if err := prog.apply(st); err != nil {
			return nil, &Error{Line: st.Pos.Line, Kind: st.Kind(), Err: err}
		}
	}
	return prog, nil
}

// CompileString 解析并编译 DSL 文本。
func CompileString[N num.Number[N]](input string) (*Program[N], error) {
	doc, err := ParseString(input)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return nil, &Error{Line: perr.Position().Line, Kind: "syntax", Err: errors.New(perr.Message())}
		}
		return nil, fmt.Errorf("解析 DSL 失败: %w", err)
	}
	return Compile[N](doc)
}

func (p *Program[N]) apply(st *Statement) error {
	var zero N
	switch {
	case st.Setting != nil:
		return p.set(st.Setting)
	case st.Shape != nil:
		p.Shape = p.Shape[:0]
		p.Settings.Shape = nil
		for _, s := range st.Shape.Widths {
			w, err := parseNumber[N](s)
			if err != nil {
				return err
			}
			f, _ := num.ParseFloat(s)
			p.Shape = append(p.Shape, w)
			p.Settings.Shape = append(p.Settings.Shape, f)
		}
	case st.Box != nil:
		w, err := parseNumber[N](st.Box.Width)
		if err != nil {
			return err
		}
		p.push(layout.Box(w), string(st.Box.Label))
	case st.Glue != nil:
		g := st.Glue
		w, err := parseNumber[N](g.Width)
		if err != nil {
			return err
		}
		y, err := parseOptional(g.Stretch, zero)
		if err != nil {
			return err
		}
		z, err := parseOptional(g.Shrink, zero)
		if err != nil {
			return err
		}
		p.push(layout.Glue(w, y, z), string(g.Label))
	case st.Penalty != nil:
		pen := st.Penalty
		c, err := parseNumber[N](pen.Cost)
		if err != nil {
			return err
		}
		w, err := parseOptional(pen.Width, zero)
		if err != nil {
			return err
		}
		p.push(layout.Penalty(w, c, pen.Flagged), string(pen.Label))
	case st.Text != nil:
		seg := layout.CharSegment(string(st.Text.Value))
		// 去掉 CharSegment 自带的段落结尾，由 finish 显式给出。
		items := layout.ConvertItems(seg.Items[:len(seg.Items)-2], fromFloat[N])
		for i, it := range items {
			p.push(it, seg.Fragment(i))
		}
	case st.Finish:
		p.push(layout.FillGlue[N](), "")
		p.push(layout.ForcedBreak[N](true), "")
	}
	return nil
}

func (p *Program[N]) push(it layout.Item[N], fragment string) {
	p.Items = append(p.Items, it)
	p.Fragments = append(p.Fragments, fragment)
}

func (p *Program[N]) set(s *Setting) error {
	switch s.Key {
	case "algorithm":
		alg, ok := layout.ParseAlgorithm(s.Value)
		if !ok {
			return fmt.Errorf("未知的断行算法 %q", s.Value)
		}
		p.Settings.Algorithm = alg
		return nil
	case "overflow":
		b, err := strconv.ParseBool(s.Value)
		if err != nil {
			return fmt.Errorf("overflow 需要 true/false: %w", err)
		}
		p.Settings.AllowOverflow = b
		return nil
	case "looseness":
		q, err := strconv.Atoi(s.Value)
		if err != nil {
			return fmt.Errorf("looseness 需要整数: %w", err)
		}
		p.Settings.Looseness = q
		return nil
	}

	f, err := num.ParseFloat(s.Value)
	if err != nil {
		return err
	}
	switch s.Key {
	case "width":
		w, err := parseNumber[N](s.Value)
		if err != nil {
			return err
		}
		p.Width = w
	case "threshold":
		p.Settings.Threshold = f
	case "flagged-demerit":
		p.Settings.FlaggedDemerit = f
	case "fitness-demerit":
		p.Settings.FitnessDemerit = f
	}
	return nil
}

func parseOptional[N num.Number[N]](s string, def N) (N, error) {
	if s == "" {
		return def, nil
	}
	return parseNumber[N](s)
}

// parseNumber 直接在 N 上构造数值，十进制小数按分数处理，避免经过 float64。
func parseNumber[N num.Number[N]](s string) (N, error) {
	var zero N
	raw := strings.TrimSpace(s)
	neg := false
	if rest, ok := strings.CutPrefix(raw, "-"); ok {
		neg, raw = true, rest
	} else {
		raw = strings.TrimPrefix(raw, "+")
	}

	var v N
	switch {
	case raw == "inf":
		if neg {
			return num.NegInf[N](), nil
		}
		return num.Inf[N](), nil
	case strings.Contains(raw, "/"):
		a, b, _ := strings.Cut(raw, "/")
		n, err := decimal[N](a)
		if err != nil {
			return zero, err
		}
		d, err := decimal[N](b)
		if err != nil {
			return zero, err
		}
		if d == zero {
			return zero, fmt.Errorf("分母不能为 0: %q", s)
		}
		v = n.Div(d)
	default:
		n, err := decimal[N](raw)
		if err != nil {
			return zero, err
		}
		v = n
	}
	if neg {
		v = zero.Sub(v)
	}
	return v, nil
}

func decimal[N num.Number[N]](s string) (N, error) {
	var zero N
	intPart, frac, _ := strings.Cut(s, ".")
	digits := intPart + frac
	n, err := strconv.Atoi(digits)
	if err != nil {
		return zero, fmt.Errorf("无效的数字 %q: %w", s, err)
	}
	if len(frac) > 9 {
		return zero, fmt.Errorf("小数位过多: %q", s)
	}
	return num.Rat[N](n, int(math.Pow10(len(frac)))), nil
}

func fromFloat[N num.Number[N]](x num.Float) N {
	switch {
	case math.IsInf(float64(x), 1):
		return num.Inf[N]()
	case math.IsInf(float64(x), -1):
		return num.NegInf[N]()
	}
	return num.Rat[N](int(math.Round(float64(x)*4096)), 4096)
}
