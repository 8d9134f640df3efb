// Package config 读取 TOML 格式的排版配置：一组默认值加若干命名 profile。
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/justify/layout"
	"github.com/ByLCY/justify/num"
)

// ErrUnknownProfile 表示请求的 profile 不存在。
var ErrUnknownProfile = errors.New("未知的 profile")

// File 对应整个配置文件。
type File struct {
	Defaults Profile            `toml:"defaults"`
	Profiles map[string]Profile `toml:"profiles"`
}

// Profile 是一组排版参数。字符串字段为空、指针字段为 nil 表示未设置。
type Profile struct {
	Algorithm      string   `toml:"algorithm"`
	Width          string   `toml:"width"`
	FontSize       string   `toml:"font_size"`
	LineHeight     string   `toml:"line_height"`
	Font           string   `toml:"font"`
	Threshold      *float64 `toml:"threshold"`
	Looseness      *int     `toml:"looseness"`
	FlaggedDemerit *float64 `toml:"flagged_demerit"`
	FitnessDemerit *float64 `toml:"fitness_demerit"`
	AllowOverflow  *bool    `toml:"allow_overflow"`
	HyphenPenalty  *float64 `toml:"hyphen_penalty"`
	Shape          []string `toml:"shape"`
	Fixed          *bool    `toml:"fixed"`
}

// Default 返回内置配置。
func Default() *File {
	threshold, looseness := 1.0, 0
	return &File{
		Defaults: Profile{
			Algorithm:  string(layout.AlgorithmKnuthPlass),
			Width:      "120mm",
			FontSize:   "11pt",
			LineHeight: "1.4x",
			Font:       "goregular",
			Threshold:  &threshold,
			Looseness:  &looseness,
		},
		Profiles: map[string]Profile{},
	}
}

// Load 读取配置文件；文件中未出现的默认值沿用 Default。
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse 解析 TOML 文本并校验。未知字段视为错误。
func Parse(data []byte) (*File, error) {
	var raw File
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("解析 TOML 失败: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("未知的配置项: %s", strings.Join(keys, ", "))
	}

	f := Default()
	f.Defaults = f.Defaults.merge(raw.Defaults)
	for name, p := range raw.Profiles {
		f.Profiles[name] = p
	}
	if err := f.Defaults.validate(); err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}
	for name, p := range f.Profiles {
		if err := f.Defaults.merge(p).validate(); err != nil {
			return nil, fmt.Errorf("profile %s: %w", name, err)
		}
	}
	return f, nil
}

// Names 按字母序返回全部 profile 名称。
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profile 返回叠加在默认值之上的命名 profile；name 为空时返回默认值。
func (f *File) Profile(name string) (Profile, error) {
	if name == "" || name == "defaults" {
		return f.Defaults, nil
	}
	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	return f.Defaults.merge(p), nil
}

// merge 返回 o 覆盖 p 中已设置字段后的结果。
func (p Profile) merge(o Profile) Profile {
	out := p
	if o.Algorithm != "" {
		out.Algorithm = o.Algorithm
	}
	if o.Width != "" {
		out.Width = o.Width
	}
	if o.FontSize != "" {
		out.FontSize = o.FontSize
	}
	if o.LineHeight != "" {
		out.LineHeight = o.LineHeight
	}
	if o.Font != "" {
		out.Font = o.Font
	}
	if o.Threshold != nil {
		out.Threshold = o.Threshold
	}
	if o.Looseness != nil {
		out.Looseness = o.Looseness
	}
	if o.FlaggedDemerit != nil {
		out.FlaggedDemerit = o.FlaggedDemerit
	}
	if o.FitnessDemerit != nil {
		out.FitnessDemerit = o.FitnessDemerit
	}
	if o.AllowOverflow != nil {
		out.AllowOverflow = o.AllowOverflow
	}
	if o.HyphenPenalty != nil {
		out.HyphenPenalty = o.HyphenPenalty
	}
	if o.Shape != nil {
		out.Shape = o.Shape
	}
	if o.Fixed != nil {
		out.Fixed = o.Fixed
	}
	return out
}

func (p Profile) validate() error {
	if _, ok := layout.ParseAlgorithm(p.Algorithm); !ok {
		return fmt.Errorf("未知的断行算法 %q", p.Algorithm)
	}
	if _, err := p.WidthMM(); err != nil {
		return err
	}
	if _, err := p.ShapeMM(); err != nil {
		return err
	}
	if p.FontSize != "" {
		if _, err := layout.ParseLength(p.FontSize); err != nil {
			return fmt.Errorf("font_size: %w", err)
		}
	}
	if p.LineHeight != "" {
		if _, err := layout.ParseLineHeight(p.LineHeight); err != nil {
			return fmt.Errorf("line_height: %w", err)
		}
	}
	if p.Threshold != nil && (math.IsNaN(*p.Threshold) || *p.Threshold < -1) {
		return fmt.Errorf("threshold 不能小于 -1: %g", *p.Threshold)
	}
	return nil
}

// WidthMM 返回以毫米计的行宽；无单位数值按原样返回（例如终端列数）。
func (p Profile) WidthMM() (float64, error) {
	l, err := p.WidthLength()
	if err != nil {
		return 0, err
	}
	return l.ToMM(), nil
}

// WidthLength 返回带单位的行宽，未设置时为零值。
func (p Profile) WidthLength() (layout.Length, error) {
	if p.Width == "" {
		return layout.Length{}, nil
	}
	l, err := layout.ParseLength(p.Width)
	if err != nil {
		return layout.Length{}, fmt.Errorf("width: %w", err)
	}
	return l, nil
}

// ShapeMM 逐项解析 shape。
func (p Profile) ShapeMM() ([]float64, error) {
	if len(p.Shape) == 0 {
		return nil, nil
	}
	out := make([]float64, len(p.Shape))
	for i, s := range p.Shape {
		l, err := layout.ParseLength(s)
		if err != nil {
			return nil, fmt.Errorf("shape[%d]: %w", i, err)
		}
		out[i] = l.ToMM()
	}
	return out, nil
}

// FontSizeMM 返回字号（mm），未设置时为 11pt。
func (p Profile) FontSizeMM() float64 {
	l, err := layout.ParseLength(p.FontSize)
	if err != nil || l.IsZero() {
		return 11 * layout.PtToMm
	}
	if l.Unit == layout.UnitNone {
		l.Unit = layout.UnitPT
	}
	return l.ToMM()
}

// LineHeightMM 按字号解析行高。
func (p Profile) LineHeightMM() float64 {
	spec, err := layout.ParseLineHeight(p.LineHeight)
	if err != nil {
		spec = layout.LineHeightSpec{Kind: layout.LineHeightFactor, Factor: 1.4}
	}
	return spec.ResolveMM(p.FontSizeMM())
}

// Options 转换为 layout.Options；未设置的参数取 layout.DefaultOptions。
func (p Profile) Options() layout.Options {
	opts := layout.DefaultOptions()
	if alg, ok := layout.ParseAlgorithm(p.Algorithm); ok {
		opts.Algorithm = alg
	}
	if p.Threshold != nil {
		opts.Threshold = *p.Threshold
	}
	if p.Looseness != nil {
		opts.Looseness = *p.Looseness
	}
	if p.FlaggedDemerit != nil {
		opts.FlaggedDemerit = *p.FlaggedDemerit
	}
	if p.FitnessDemerit != nil {
		opts.FitnessDemerit = *p.FitnessDemerit
	}
	if p.AllowOverflow != nil {
		opts.AllowOverflow = *p.AllowOverflow
	}
	if p.Fixed != nil {
		opts.Fixed = *p.Fixed
	}
	opts.Shape, _ = p.ShapeMM()
	return opts
}

// SegmentOptions 返回文本切分参数。
func (p Profile) SegmentOptions() layout.SegmentOptions {
	opts := layout.DefaultSegmentOptions()
	if p.HyphenPenalty != nil {
		opts.HyphenPenalty = *p.HyphenPenalty
	}
	return opts
}

// FirstFit 构造 float 后端的贪心配置。
func (p Profile) FirstFit() layout.FirstFitConfig[num.Float] {
	return p.Options().FirstFitConfig()
}

// KnuthPlass 构造 float 后端的最优断行配置。
func (p Profile) KnuthPlass() layout.KnuthPlassConfig[num.Float] {
	return p.Options().KnuthPlassConfig()
}
