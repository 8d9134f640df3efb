package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/justify/internal/pipeline"
	"github.com/ByLCY/justify/num"
)

// itemsExt marks DSL files; any other input is plain text.
const itemsExt = ".items"

// layoutFlags are the per-command overrides of profile values.
type layoutFlags struct {
	text      string
	width     float64
	measure   string
	algorithm string
	font      string
	fontSize  float64
	backend   string
	threshold string
	looseness int
	overflow  bool
	data      string
}

func addLayoutFlags(cmd *cobra.Command, f *layoutFlags) {
	fs := cmd.Flags()
	fs.StringVarP(&f.text, "text", "t", "", "paragraph text (instead of a file or stdin)")
	fs.Float64VarP(&f.width, "width", "w", 0, "line width (columns, or mm with --measure font)")
	fs.StringVarP(&f.measure, "measure", "m", "", "text measure: columns, chars, font")
	fs.StringVarP(&f.algorithm, "algorithm", "a", "", "line breaking algorithm: first-fit, knuth-plass")
	fs.StringVar(&f.font, "font", "", "font name or path for --measure font")
	fs.Float64Var(&f.fontSize, "font-size", 0, "font size in pt")
	fs.StringVar(&f.backend, "backend", "", "number backend: float, fixed")
	fs.StringVar(&f.threshold, "threshold", "", "maximum adjustment ratio (e.g. 1, 2.5, inf)")
	fs.IntVar(&f.looseness, "looseness", 0, "preferred change in line count")
	fs.BoolVar(&f.overflow, "overflow", false, "allow overfull lines when nothing else fits")
	fs.StringVar(&f.data, "data", "", "JSON object (or @file) bound to ${path} placeholders")
}

// request reads the input named by args (a file, "-" for stdin, or --text)
// and applies the flags the user set explicitly.
func (f *layoutFlags) request(cmd *cobra.Command, args []string, profile string) (pipeline.Request, error) {
	req := pipeline.Request{
		Width:     f.width,
		Measure:   f.measure,
		Algorithm: f.algorithm,
		Font:      f.font,
		FontSize:  f.fontSize,
		Backend:   f.backend,
		Profile:   profile,
	}

	data, isDSL, err := readInput(cmd.InOrStdin(), args, f.text)
	if err != nil {
		return req, err
	}
	if isDSL {
		req.Source = data
	} else {
		req.Text = data
	}

	fs := cmd.Flags()
	if fs.Changed("threshold") {
		t, err := num.ParseFloat(f.threshold)
		if err != nil {
			return req, fmt.Errorf("--threshold: %w", err)
		}
		tf := num.Float(t)
		req.Threshold = &tf
	}
	if fs.Changed("looseness") {
		q := f.looseness
		req.Looseness = &q
	}
	if fs.Changed("overflow") {
		b := f.overflow
		req.AllowOverflow = &b
	}
	if f.data != "" {
		data, err := parseData(f.data)
		if err != nil {
			return req, err
		}
		req.Data = data
	}
	return req, nil
}

// parseData decodes --data; "@path" reads the JSON from a file.
func parseData(s string) (map[string]any, error) {
	raw := []byte(s)
	if path, ok := strings.CutPrefix(s, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取 data 文件失败: %w", err)
		}
		raw = b
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
	}
	return data, nil
}

// readInput returns the input text and whether it is a DSL document.
func readInput(stdin io.Reader, args []string, text string) (string, bool, error) {
	if text != "" {
		return text, false, nil
	}
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", false, fmt.Errorf("读取标准输入失败: %w", err)
		}
		return strings.TrimSpace(string(data)), false, nil
	}
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("读取输入失败: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), itemsExt) {
		return string(data), true, nil
	}
	return strings.TrimSpace(string(data)), false, nil
}
