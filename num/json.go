package num

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// JSON 不支持无穷，两种后端都把 ±∞ 编码为字符串 "inf" / "-inf"，解码时同时接受数字与字符串。

func (x Float) MarshalJSON() ([]byte, error) {
	return marshalFloat(float64(x))
}

func (x *Float) UnmarshalJSON(data []byte) error {
	f, err := unmarshalFloat(data)
	if err != nil {
		return err
	}
	*x = Float(f)
	return nil
}

func (x Fixed) MarshalJSON() ([]byte, error) {
	return marshalFloat(x.Float64())
}

func (x *Fixed) UnmarshalJSON(data []byte) error {
	f, err := unmarshalFloat(data)
	if err != nil {
		return err
	}
	*x = FixedFromFloat(f)
	return nil
}

func marshalFloat(f float64) ([]byte, error) {
	switch {
	case math.IsInf(f, 1):
		return []byte(`"inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-inf"`), nil
	case math.IsNaN(f):
		return nil, fmt.Errorf("无法编码 NaN")
	}
	return json.Marshal(f)
}

func unmarshalFloat(data []byte) (float64, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, err
		}
		return ParseFloat(s)
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return 0, err
	}
	return f, nil
}

// ParseFloat 解析数字字面量，支持 inf/infinity、-inf 与 a/b 形式的分数。
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	neg := false
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		neg, s = true, rest
	} else {
		s = strings.TrimPrefix(s, "+")
	}
	var f float64
	switch {
	case s == "inf" || s == "infinity" || s == "∞":
		f = math.Inf(1)
	case strings.Contains(s, "/"):
		a, b, _ := strings.Cut(s, "/")
		n, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err != nil {
			return 0, fmt.Errorf("无效的分子 %q: %w", a, err)
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(b), 64)
		if err != nil {
			return 0, fmt.Errorf("无效的分母 %q: %w", b, err)
		}
		if d == 0 {
			return 0, fmt.Errorf("分母不能为 0: %q", s)
		}
		f = n / d
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("无效的数字 %q: %w", s, err)
		}
		f = v
	}
	if neg {
		f = -f
	}
	return f, nil
}
