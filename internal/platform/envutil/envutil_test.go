package envutil

import "testing"

func TestReaders(t *testing.T) {
	t.Setenv("MG_INT", "42")
	t.Setenv("MG_BAD_INT", "x")
	t.Setenv("MG_FLOAT", "0.25")
	t.Setenv("MG_BOOL", "off")
	t.Setenv("MG_STR", "  value ")

	if got := Int("MG_INT", 1); got != 42 {
		t.Fatalf("Int: got=%d", got)
	}
	if got := Int("MG_BAD_INT", 7); got != 7 {
		t.Fatalf("Int fallback: got=%d", got)
	}
	if got := Float("MG_FLOAT", 1); got != 0.25 {
		t.Fatalf("Float: got=%v", got)
	}
	if got := Bool("MG_BOOL", true); got {
		t.Fatalf("Bool: want=false")
	}
	if got := Bool("MG_UNSET_BOOL", true); !got {
		t.Fatalf("Bool default: want=true")
	}
	if got := String("MG_STR", "d"); got != "value" {
		t.Fatalf("String: got=%q", got)
	}
}
