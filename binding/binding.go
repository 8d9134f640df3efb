// Package binding 把 JSON 数据代入段落文本中的 ${path} 占位符。
package binding

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMissing 表示占位符在数据中找不到对应的值。
var ErrMissing = errors.New("找不到绑定值")

var placeholder = regexp.MustCompile(`\$\{\s*([^}]*?)\s*\}`)

// Interpolate 替换 text 中的 ${a.b[0].c}。data 为 nil 时原样返回；
// 任一路径不存在时返回 ErrMissing，并列出全部缺失的路径。
func Interpolate(text string, data map[string]any) (string, error) {
	if data == nil {
		return text, nil
	}
	var missing []string
	out := placeholder.ReplaceAllStringFunc(text, func(match string) string {
		path := placeholder.FindStringSubmatch(match)[1]
		v, ok := Lookup(data, path)
		if !ok {
			missing = append(missing, path)
			return match
		}
		return format(v)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}
	return out, nil
}

// Lookup 按 "a.b[0].c" 形式的路径取值。
func Lookup(data map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	var cur any = data
	for _, seg := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(seg, "[")
		if name != "" {
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			if cur, ok = m[name]; !ok {
				return nil, false
			}
		}
		for rest != "" {
			idx, tail, ok := strings.Cut(rest, "]")
			if !ok {
				return nil, false
			}
			i, err := strconv.Atoi(idx)
			list, isList := cur.([]any)
			if err != nil || !isList || i < 0 || i >= len(list) {
				return nil, false
			}
			cur = list[i]
			rest = strings.TrimPrefix(tail, "[")
			if tail != "" && !strings.HasPrefix(tail, "[") {
				return nil, false
			}
		}
	}
	return cur, true
}

// format 输出 JSON 值的文本形式，整数不带小数点。
func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
