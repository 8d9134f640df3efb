// Package terminal 在终端中输出两端对齐的段落，宽度以字符列计。
package terminal

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/ByLCY/justify/layout"
	"github.com/ByLCY/justify/renderer"
)

// Measurer 以终端显示列数作为宽度（全角字符占两列）。
var Measurer = layout.MeasureFunc(func(text string) float64 {
	return float64(uniseg.StringWidth(text))
})

// Renderer 把每行的 Span 放到四舍五入后的列上，外面加一圈粗边框。
type Renderer struct {
	// Border 为 false 时只输出文本。
	Border bool
	// Style 用于边框及文字颜色，零值不着色。
	Style lipgloss.Style
}

var _ renderer.Renderer = (*Renderer)(nil)

// New 返回带粗边框的终端渲染器。
func New() *Renderer {
	return &Renderer{Border: true, Style: lipgloss.NewStyle()}
}

// Render 实现 renderer.Renderer。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	width := int(math.Ceil(result.Width))
	for _, line := range result.Lines {
		width = max(width, int(math.Ceil(line.Target)))
	}

	rows := make([]string, len(result.Lines))
	for i, line := range result.Lines {
		rows[i] = Line(line, width)
	}
	body := strings.Join(rows, "\n")
	if !r.Border {
		return []byte(body + "\n"), nil
	}
	return []byte(r.Style.Border(lipgloss.ThickBorder()).Render(body) + "\n"), nil
}

// Line 把一行排成恰好 width 列：Span 起点取整，间隙补空格，不足时右侧补齐。
func Line(line layout.TextLine, width int) string {
	var sb strings.Builder
	col := 0
	for _, span := range line.Spans {
		at := max(int(math.Round(span.X)), col)
		if col > 0 && at == col && span.X > 0 && needsGap(line, span) {
			at++
		}
		sb.WriteString(strings.Repeat(" ", at-col))
		sb.WriteString(span.Text)
		col = at + uniseg.StringWidth(span.Text)
	}
	if col < width {
		sb.WriteString(strings.Repeat(" ", width-col))
	}
	return sb.String()
}

// needsGap 报告该 Span 前面是否有被压缩到不足一列的空白。
func needsGap(line layout.TextLine, span layout.Span) bool {
	for i := 1; i < len(line.Spans); i++ {
		prev := line.Spans[i-1]
		if line.Spans[i] == span {
			return span.X-(prev.X+prev.Width) > 1e-9
		}
	}
	return false
}
