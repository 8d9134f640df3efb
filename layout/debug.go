package layout

import (
	"encoding/json"
	"io"

	"github.com/ByLCY/justify/num"
)

// Snapshot 记录一次 Knuth–Plass 断行的输入、结果与搜索图，便于离线分析。
type Snapshot[N num.Number[N]] struct {
	Width     N         `json:"width"`
	Items     []Item[N] `json:"items"`
	Fragments []string  `json:"fragments,omitempty"`
	Lines     []Line[N] `json:"lines"`
	Trace     *Trace[N] `json:"trace"`
}

// WriteDebugJSON 把 v 以缩进 JSON 写入 w；±∞ 写作 "inf"/"-inf"。
func WriteDebugJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
