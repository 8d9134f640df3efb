package fonts

import "testing"

func TestLoadBuiltin(t *testing.T) {
	for _, name := range []string{"", "goregular", "embed:gobold", "GoMono", "goitalic"} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if len(data) < 4 {
			t.Fatalf("Load(%q) returned %d bytes", name, len(data))
		}
	}
	if _, err := Load("Inter"); err == nil {
		t.Fatalf("expected error for unknown font")
	}
	if got := Names(); len(got) != 4 || got[0] != "gobold" {
		t.Fatalf("names = %v", got)
	}
}
