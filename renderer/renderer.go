package renderer

import "github.com/ByLCY/justify/layout"

// Renderer 将排版结果输出为最终文件，例如 PDF、SVG 或终端文本。
// Render 返回生成的数据（例如 PDF 字节切片）以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Measuring 是自带文本度量的渲染器：断行时用 Measurer 得到的宽度
// 与 Render 绘制时的宽度一致。
type Measuring interface {
	Renderer
	Measurer(style layout.TextStyle) (layout.Measurer, error)
}
