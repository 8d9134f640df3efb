package layout

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/justify/num"
)

// Measurer 测量一段文本的宽度。
type Measurer interface {
	Measure(text string) float64
}

// MeasureFunc 让普通函数满足 Measurer。
type MeasureFunc func(text string) float64

func (f MeasureFunc) Measure(text string) float64 { return f(text) }

// SegmentOptions 控制文本到条目的转换。
type SegmentOptions struct {
	// HyphenPenalty 是在已有连字符之后断行的代价，默认 50。
	HyphenPenalty float64
	// Indent 大于 0 时在段首插入等宽的空 Box。
	Indent float64
}

// DefaultSegmentOptions 返回默认的转换参数。
func DefaultSegmentOptions() SegmentOptions {
	return SegmentOptions{HyphenPenalty: 50}
}

// Segment 把文本转换为段落条目。文本先做 NFC 规范化，再按 UAX #14 找出断行机会：
// 单词成为 Box，空格成为 Glue（伸长为空格宽度的 1/2，压缩为 1/3），
// 以连字符结尾的单词后跟一个带标记的 Penalty，其他断行机会为 Penalty(0, 0)，
// 换行符结束当前段，末尾总是补上 Penalty(+∞)、无限拉伸的 Glue 与强制断行。
func Segment(text string, m Measurer, opts SegmentOptions) Paragraph {
	var p Paragraph
	if opts.Indent > 0 {
		p.Append(Box(num.Float(opts.Indent)), "")
	}
	space := m.Measure(" ")
	text = norm.NFC.String(text)

	state := -1
	for len(text) > 0 {
		var (
			seg       string
			mustBreak bool
		)
		seg, text, mustBreak, state = uniseg.FirstLineSegmentInString(text, state)
		word := strings.TrimRightFunc(seg, unicode.IsSpace)
		trailing := seg[len(word):]
		last := len(text) == 0

		switch {
		case word != "":
			p.Append(Box(num.Float(m.Measure(word))), word)
		case mustBreak && !last:
			// 空行也要占一个 Box，否则这一行没有可伸长的内容。
			p.Append(Box(num.Float(0)), "")
		}

		switch {
		case last:
		case mustBreak:
			appendParagraphEnd(&p)
		case trailing != "":
			p.Append(Glue(num.Float(space), num.Float(space/2), num.Float(space/3)), " ")
		case endsWithHyphen(word):
			p.Append(Penalty(0, num.Float(opts.HyphenPenalty), true), "")
		default:
			p.Append(Penalty[num.Float](0, 0, false), "")
		}
	}
	appendParagraphEnd(&p)
	return p
}

func appendParagraphEnd(p *Paragraph) {
	p.Append(NoBreak[num.Float](), "")
	p.Append(FillGlue[num.Float](), "")
	p.Append(ForcedBreak[num.Float](false), "")
}

func endsWithHyphen(word string) bool {
	return strings.HasSuffix(word, "-") || strings.HasSuffix(word, "‐")
}

// CharSegment 把每个字素簇转换为宽度 1 的 Box，空白（段首除外）转换为 Glue(1, 1, 0)，
// 末尾补上无限拉伸的 Glue 与带标记的强制断行。适合等宽终端输出。
func CharSegment(text string) Paragraph {
	var p Paragraph
	one := num.Float(1)
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		s := g.Str()
		if len(p.Items) > 0 && strings.TrimSpace(s) == "" {
			p.Append(Glue(one, one, 0), " ")
			continue
		}
		p.Append(Box(one), s)
	}
	p.Append(FillGlue[num.Float](), "")
	p.Append(ForcedBreak[num.Float](true), "")
	return p
}
