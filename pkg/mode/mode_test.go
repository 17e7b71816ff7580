package mode

import "testing"

func TestRegisterAndGet(t *testing.T) {
	tbl := NewTable()
	tbl.Register("trig_mode", "radians", []string{"degrees", "radians"})
	if got := tbl.Get("trig_mode"); got != "radians" {
		t.Errorf("Get = %q, want %q", got, "radians")
	}
	tbl.Set("trig_mode", "degrees")
	if got := tbl.Get("trig_mode"); got != "degrees" {
		t.Errorf("Get = %q, want %q", got, "degrees")
	}
}

func TestGetUnregistered(t *testing.T) {
	if got := NewTable().Get("nope"); got != "" {
		t.Errorf("Get = %q, want empty", got)
	}
}

func TestProgrammingErrorsPanic(t *testing.T) {
	tbl := NewTable()
	tbl.Register("m", "a", []string{"a", "b"})
	for name, f := range map[string]func(){
		"duplicate registration": func() { tbl.Register("m", "a", nil) },
		"invalid value":          func() { tbl.Set("m", "c") },
		"unregistered set":       func() { tbl.Set("other", "a") },
		"invalid default":        func() { tbl.Register("n", "x", []string{"a"}) },
	} {
		if !panics(f) {
			t.Errorf("%s did not panic", name)
		}
	}
}

func TestUnrestrictedMode(t *testing.T) {
	tbl := NewTable()
	tbl.Register("free", "anything", nil)
	tbl.Set("free", "else")
	if got := tbl.Get("free"); got != "else" {
		t.Errorf("Get = %q, want %q", got, "else")
	}
}

func panics(f func()) (panicked bool) {
	defer func() { panicked = recover() != nil }()
	f()
	return false
}
