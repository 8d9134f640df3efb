package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/justify/fonts"
	"github.com/ByLCY/justify/layout"
	"github.com/ByLCY/justify/renderer"
)

// DefaultMargin 是页边距（mm）。
const DefaultMargin = 10.0

// Renderer draws composed paragraphs via github.com/tdewolff/canvas and
// measures text with the same font faces, so widths agree with the output.
type Renderer struct {
	baseDir string
	margin  float64

	// injected resources
	fontBlobs map[string][]byte // by unique name

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var _ renderer.Measuring = (*Renderer)(nil)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // fonts accessible via built-in:<name>
	// Margin 以 mm 计，为 0 时使用 DefaultMargin。
	Margin float64
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		margin:       opts.Margin,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	if r.margin <= 0 {
		r.margin = DefaultMargin
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // 读取失败时在实际使用该字体时报错
			if len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

// Measurer 返回按 style 字体测量文本宽度（mm）的 layout.Measurer。
// 约定：style.FontSize 为毫米；创建字体面时换算为 pt。
func (r *Renderer) Measurer(style layout.TextStyle) (layout.Measurer, error) {
	style = withDefaults(style)
	face, err := r.fontFace(style.Font, toPt(style.FontSize), style.Color)
	if err != nil {
		return nil, err
	}
	var mu sync.Mutex
	return layout.MeasureFunc(func(text string) float64 {
		mu.Lock()
		defer mu.Unlock()
		return face.TextWidth(text)
	}), nil
}

// Render renders the result into a single-page PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Lines) == 0 {
		return nil, fmt.Errorf("缺少可渲染的行")
	}
	style := withDefaults(result.Style)
	face, err := r.fontFace(style.Font, toPt(style.FontSize), style.Color)
	if err != nil {
		return nil, err
	}

	width := result.Width
	for _, line := range result.Lines {
		width = math.Max(width, line.Target)
	}
	pageW := width + 2*r.margin
	pageH := float64(len(result.Lines))*style.LineHeight + 2*r.margin

	var buf bytes.Buffer
	writer := pdf.New(&buf, pageW, pageH, nil)
	r.applyMeta(writer, result.Meta)

	c := canvas.New(pageW, pageH)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与排版结果保持左上角为原点
	r.drawLines(ctx, face, result.Lines, style.LineHeight)
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// drawLines 逐个 Span 绘制，X 已包含空白的伸缩。
func (r *Renderer) drawLines(ctx *canvas.Context, face *canvas.FontFace, lines []layout.TextLine, lineHeight float64) {
	// 基线位置：以行顶部加上字体上升部（Ascent）
	ascent := face.Metrics().Ascent
	cursorY := r.margin
	for _, line := range lines {
		baseline := cursorY + ascent
		for _, span := range line.Spans {
			if span.Text == "" {
				continue
			}
			ctx.DrawText(r.margin+span.X, baseline, canvas.NewTextLine(face, span.Text, canvas.Left))
		}
		cursorY += lineHeight
	}
}

func withDefaults(style layout.TextStyle) layout.TextStyle {
	if style.Font == "" {
		style.Font = fonts.Default
	}
	if style.FontSize <= 0 {
		style.FontSize = 11 * layout.PtToMm
	}
	if style.LineHeight <= 0 {
		style.LineHeight = style.FontSize * 1.4
	}
	return style
}

func (r *Renderer) fontFace(font string, size float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font string) (*canvas.FontFamily, canvas.FontStyle, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[font]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font)
	family := canvas.NewFontFamily(font)
	data, err := r.loadFontBytes(font)
	if err == nil {
		err = family.LoadFont(data, 0, style)
	}
	if err != nil {
		fallback, fbStyle, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.fontFamilies[font] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	r.fontFamilies[font] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

// loadFontBytes 依次尝试 built-in:<name>、内置字体名称与文件路径。
func (r *Renderer) loadFontBytes(font string) ([]byte, error) {
	if strings.HasPrefix(font, "built-in:") || strings.HasPrefix(font, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(font, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if data, err := fonts.Load(font); err == nil {
		return data, nil
	}
	path := font
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或内置字体名）", font)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func (r *Renderer) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	data, err := fonts.Load(fonts.Default)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("justify-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

// parseFontStyle 从字体名推断字重与斜体，例如 gobold、Inter-BoldItalic。
func parseFontStyle(name string) canvas.FontStyle {
	s := strings.ToLower(name)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

func toPt(mm float64) float64 { return mm * layout.MmToPt }
