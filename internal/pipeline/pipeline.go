// Package pipeline 把输入（纯文本、DSL 或条目）、配置与缓存串成一次完整的排版，
// 供命令行与 HTTP 服务共用。
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/justify/binding"
	"github.com/ByLCY/justify/cache"
	"github.com/ByLCY/justify/config"
	"github.com/ByLCY/justify/dsl"
	"github.com/ByLCY/justify/layout"
	"github.com/ByLCY/justify/num"
	"github.com/ByLCY/justify/renderer"
	canvasrenderer "github.com/ByLCY/justify/renderer/canvas"
	"github.com/ByLCY/justify/renderer/terminal"
)

// 文本的测量方式。
const (
	MeasureColumns = "columns" // 终端列宽（默认）
	MeasureChars   = "chars"   // 每个字符一个宽度为 1 的 Box
	MeasureFont    = "font"    // 按字体度量，宽度单位为 mm
)

// DefaultColumns 是列宽模式下未给出宽度时的行宽。
const DefaultColumns = 72

var (
	// ErrNoInput 表示请求中没有任何输入。
	ErrNoInput = errors.New("缺少输入：需要 text、source 或 items 之一")
	// ErrInvalid 表示请求参数无效。
	ErrInvalid = errors.New("无效的请求")
)

// Request 描述一次排版。Text、Source（DSL）与 Items 三选一。
type Request struct {
	Text      string                   `json:"text,omitempty"`
	Source    string                   `json:"source,omitempty"`
	Items     []layout.Item[num.Float] `json:"items,omitempty"`
	Fragments []string                 `json:"fragments,omitempty"`
	// Data 非空时先把 Text 与 Source 中的 ${path} 替换为对应的值。
	Data map[string]any `json:"data,omitempty"`

	// Width 为 0 时依次取 DSL 中的 width、profile 中的 width。
	Width    float64 `json:"width,omitempty"`
	Measure  string  `json:"measure,omitempty"`
	Font     string  `json:"font,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"` // pt

	Profile       string     `json:"profile,omitempty"`
	Algorithm     string     `json:"algorithm,omitempty"`
	Threshold     *num.Float `json:"threshold,omitempty"`
	Looseness     *int       `json:"looseness,omitempty"`
	AllowOverflow *bool      `json:"allowOverflow,omitempty"`
	// Backend 为 "fixed" 时使用定点后端。
	Backend string `json:"backend,omitempty"`
}

// Job 是准备好的断行输入。
type Job struct {
	Paragraph layout.Paragraph
	Options   layout.Options
	Width     float64
	Style     layout.TextStyle
}

// Runner encapsulates layout execution with caching.
// It holds no per-request state and may be shared between goroutines.
type Runner struct {
	Config *config.File
	Cache  cache.Cache
	Logger *log.Logger
	// Canvas 提供 measure=font 时的字体度量，也用于输出 PDF。
	Canvas renderer.Measuring
	// TTL 为缓存有效期，0 表示不过期。
	TTL time.Duration
}

// NewRunner fills nil dependencies with defaults: built-in config, NullCache and log.Default.
func NewRunner(cfg *config.File, c cache.Cache, logger *log.Logger) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Config: cfg,
		Cache:  c,
		Logger: logger,
		Canvas: canvasrenderer.NewRenderer(""),
		TTL:    24 * time.Hour,
	}
}

// Prepare 解析输入并合并 profile 与请求中的参数。
func (r *Runner) Prepare(req Request) (*Job, error) {
	profile, err := r.Config.Profile(req.Profile)
	if err != nil {
		return nil, err
	}
	opts := profile.Options()
	if req.Algorithm != "" {
		alg, ok := layout.ParseAlgorithm(req.Algorithm)
		if !ok {
			return nil, fmt.Errorf("%w: 未知的断行算法 %q", ErrInvalid, req.Algorithm)
		}
		opts.Algorithm = alg
	}

	job := &Job{Style: layout.TextStyle{
		Font:       profile.Font,
		FontSize:   profile.FontSizeMM(),
		LineHeight: profile.LineHeightMM(),
	}}
	if req.Font != "" {
		job.Style.Font = req.Font
	}
	if req.FontSize > 0 {
		job.Style.FontSize = req.FontSize * layout.PtToMm
		job.Style.LineHeight = profile.LineHeightMM() / profile.FontSizeMM() * job.Style.FontSize
	}

	if req.Data != nil {
		if req.Text, err = binding.Interpolate(req.Text, req.Data); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		if req.Source, err = binding.Interpolate(req.Source, req.Data); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}

	measure := req.Measure
	if measure == "" {
		measure = MeasureColumns
	}

	switch {
	case req.Source != "":
		prog, err := dsl.CompileString[num.Float](req.Source)
		if err != nil {
			return nil, err
		}
		job.Paragraph = layout.Paragraph{Items: prog.Items, Fragments: prog.Fragments}
		opts = mergeProgram(opts, prog.Settings)
		job.Width = float64(prog.Width)
	case len(req.Items) > 0:
		job.Paragraph = layout.Paragraph{Items: req.Items, Fragments: req.Fragments}
	case req.Text != "":
		switch measure {
		case MeasureChars:
			job.Paragraph = layout.CharSegment(req.Text)
		case MeasureColumns:
			job.Paragraph = layout.Segment(req.Text, terminal.Measurer, profile.SegmentOptions())
		case MeasureFont:
			m, err := r.Canvas.Measurer(job.Style)
			if err != nil {
				return nil, fmt.Errorf("加载字体失败: %w", err)
			}
			job.Paragraph = layout.Segment(req.Text, m, profile.SegmentOptions())
		default:
			return nil, fmt.Errorf("%w: 未知的测量方式 %q", ErrInvalid, measure)
		}
	default:
		return nil, ErrNoInput
	}

	if req.Threshold != nil {
		opts.Threshold = float64(*req.Threshold)
	}
	if req.Looseness != nil {
		opts.Looseness = *req.Looseness
	}
	if req.AllowOverflow != nil {
		opts.AllowOverflow = *req.AllowOverflow
	}
	switch req.Backend {
	case "", "float":
	case "fixed":
		opts.Fixed = true
	default:
		return nil, fmt.Errorf("%w: 未知的数值后端 %q", ErrInvalid, req.Backend)
	}

	if req.Width > 0 {
		job.Width = req.Width
	}
	if job.Width <= 0 {
		job.Width = profileWidth(profile, measure)
	}
	if measure != MeasureFont && len(opts.Shape) > 0 && req.Source == "" {
		// profile 中的 shape 以 mm 计，只适用于字体度量。
		opts.Shape = nil
	}
	job.Options = opts
	return job, nil
}

// mergeProgram 用 DSL 中出现过的设置覆盖 profile。
func mergeProgram(base, prog layout.Options) layout.Options {
	def := layout.DefaultOptions()
	if prog.Algorithm != def.Algorithm {
		base.Algorithm = prog.Algorithm
	}
	if prog.Threshold != def.Threshold {
		base.Threshold = prog.Threshold
	}
	if prog.FlaggedDemerit != def.FlaggedDemerit {
		base.FlaggedDemerit = prog.FlaggedDemerit
	}
	if prog.FitnessDemerit != def.FitnessDemerit {
		base.FitnessDemerit = prog.FitnessDemerit
	}
	if prog.Looseness != def.Looseness {
		base.Looseness = prog.Looseness
	}
	if prog.AllowOverflow {
		base.AllowOverflow = true
	}
	if len(prog.Shape) > 0 {
		base.Shape = prog.Shape
	}
	return base
}

func profileWidth(p config.Profile, measure string) float64 {
	l, err := p.WidthLength()
	if err != nil || l.IsZero() {
		if measure == MeasureFont {
			return 120
		}
		return DefaultColumns
	}
	if measure == MeasureFont || l.Unit == layout.UnitNone {
		return l.ToMM()
	}
	return DefaultColumns
}

// Layout 断行并组合结果；相同请求命中缓存时 cached 为 true。
func (r *Runner) Layout(ctx context.Context, req Request) (res *layout.Result, cached bool, err error) {
	key := cache.Key("layout", req)
	if data, hit, err := r.Cache.Get(ctx, key); err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	} else if hit {
		var hitRes layout.Result
		if err := json.Unmarshal(data, &hitRes); err == nil {
			r.Logger.Debug("cache hit", "key", key)
			return &hitRes, true, nil
		}
	}

	job, err := r.Prepare(req)
	if err != nil {
		return nil, false, err
	}
	start := time.Now()
	res, err = layout.Typeset(job.Paragraph, job.Width, job.Options)
	if err != nil {
		return nil, false, err
	}
	res.Style = job.Style
	r.Logger.Debug("typeset",
		"algorithm", job.Options.Algorithm,
		"items", len(job.Paragraph.Items),
		"lines", len(res.Lines),
		"duration", time.Since(start))

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		}
	}
	return res, false, nil
}

// Trace 以 Knuth–Plass 断行并返回搜索快照，忽略 algorithm 与 backend 设置。
func (r *Runner) Trace(req Request) (*Job, []layout.Line[num.Float], *layout.Trace[num.Float], error) {
	job, err := r.Prepare(req)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := layout.Validate(job.Paragraph.Items); err != nil {
		return nil, nil, nil, err
	}
	lines, tr := layout.NewKnuthPlass(job.Options.KnuthPlassConfig()).Trace(job.Paragraph.Items, num.Float(job.Width))
	return job, lines, tr, nil
}
