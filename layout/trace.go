package layout

import "github.com/ByLCY/justify/num"

// TraceNode 是搜索中创建过的一个可行断点。ID 0 为段首。
type TraceNode[N num.Number[N]] struct {
	ID       int  `json:"id"`
	Position int  `json:"position"`
	Line     int  `json:"line"`
	Fitness  int  `json:"fitness"`
	Flagged  bool `json:"flagged,omitempty"`
	Demerits N    `json:"demerits"`
	Previous int  `json:"previous"`
}

// TraceEdge 是一条被评估为可行的候选行：从节点 From 到断点 Position。
type TraceEdge[N num.Number[N]] struct {
	From     int `json:"from"`
	Position int `json:"position"`
	Line     int `json:"line"`
	Fitness  int `json:"fitness"`
	Ratio    N   `json:"ratio"`
	Demerits N   `json:"demerits"`
}

// Trace 记录一次 Knuth–Plass 搜索。Chosen 为最终路径上的节点 ID（自段首起）。
type Trace[N num.Number[N]] struct {
	Nodes  []TraceNode[N] `json:"nodes"`
	Edges  []TraceEdge[N] `json:"edges"`
	Chosen []int          `json:"chosen"`
}

func (t *Trace[N]) addNode(id int, n node[N]) {
	t.Nodes = append(t.Nodes, TraceNode[N]{
		ID:       id,
		Position: n.position,
		Line:     n.line,
		Fitness:  n.fitness,
		Flagged:  n.flagged,
		Demerits: n.demerits,
		Previous: n.previous,
	})
}

func (t *Trace[N]) addEdge(from, position, line, fitness int, ratio, demerits N) {
	t.Edges = append(t.Edges, TraceEdge[N]{
		From:     from,
		Position: position,
		Line:     line,
		Fitness:  fitness,
		Ratio:    ratio,
		Demerits: demerits,
	})
}

func (t *Trace[N]) setChosen(nodes []node[N], end int) {
	var path []int
	for n := end; n != noNode; n = nodes[n].previous {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	t.Chosen = path
}

// Target 返回候选行 e 创建出的节点；该候选被剪枝时返回 false。
func (t *Trace[N]) Target(e TraceEdge[N]) (TraceNode[N], bool) {
	for _, n := range t.Nodes {
		if n.Position == e.Position && n.Line == e.Line && n.Fitness == e.Fitness {
			return n, true
		}
	}
	return TraceNode[N]{}, false
}

// OnPath 报告节点是否位于最终路径上。
func (t *Trace[N]) OnPath(id int) bool {
	for _, c := range t.Chosen {
		if c == id {
			return true
		}
	}
	return false
}
