package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		back := (Length{Value: pt, Unit: UnitPT}).ToMM() * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		mm   float64
		unit Unit
	}{
		{"120mm", 120, UnitMM},
		{"2.54cm", 25.4, UnitCM},
		{"1in", 25.4, UnitIN},
		{" 72PT ", 72 * PtToMm, UnitPT},
		{"80", 80, UnitNone},
	}
	for _, c := range cases {
		l, err := ParseLength(c.in)
		if err != nil {
			t.Fatalf("ParseLength(%q): %v", c.in, err)
		}
		if l.Unit != c.unit || math.Abs(l.ToMM()-c.mm) > 1e-9 {
			t.Fatalf("ParseLength(%q) = %+v (%gmm)", c.in, l, l.ToMM())
		}
	}
	for _, bad := range []string{"", "abc", "-3mm"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("ParseLength(%q) should fail", bad)
		}
	}
	if got := (Length{Value: 10, Unit: UnitMM}).ToPT(); math.Abs(got-10*MmToPt) > 1e-9 {
		t.Fatalf("10mm → %gpt", got)
	}
}

func TestParseLineHeight(t *testing.T) {
	spec, err := ParseLineHeight("1.5x")
	if err != nil || spec.Kind != LineHeightFactor || spec.Factor != 1.5 {
		t.Fatalf("1.5x → %+v, %v", spec, err)
	}
	if got := spec.ResolveMM(4); got != 6 {
		t.Fatalf("1.5x of 4mm = %g", got)
	}
	spec, err = ParseLineHeight("10mm")
	if err != nil || spec.Kind != LineHeightAbsolute || spec.ResolveMM(4) != 10 {
		t.Fatalf("10mm → %+v, %v", spec, err)
	}
	if _, err := ParseLineHeight("0"); err == nil {
		t.Fatalf("zero factor should fail")
	}
}
