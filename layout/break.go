package layout

import (
	"fmt"

	"github.com/ByLCY/justify/num"
)

// Break 校验段落并按 opts 断行；无可行解时返回 ErrInfeasible。
func Break(p Paragraph, lineWidth float64, opts Options) ([]Line[num.Float], error) {
	if err := Validate(p.Items); err != nil {
		return nil, err
	}
	if lineWidth <= 0 && len(opts.Shape) == 0 {
		return nil, fmt.Errorf("行宽必须大于 0，当前为 %g", lineWidth)
	}
	lines := opts.Breaker().LayoutParagraph(p.Items, num.Float(lineWidth))
	if lines == nil {
		return nil, ErrInfeasible
	}
	return lines, nil
}

// Typeset 断行并把结果组合为可渲染的 Result。
func Typeset(p Paragraph, lineWidth float64, opts Options) (*Result, error) {
	lines, err := Break(p, lineWidth, opts)
	if err != nil {
		return nil, err
	}
	return &Result{
		Width:     lineWidth,
		Algorithm: opts.Algorithm,
		Lines:     Compose(p, lines, lineWidth, opts.Shape),
	}, nil
}
