package register

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/go-cmp/cmp"

	"src.esc.sh/pkg/config"
	"src.esc.sh/pkg/stack"
)

func item(t *testing.T, val string) *stack.Item {
	t.Helper()
	d, _, err := apd.NewFromString(val)
	if err != nil {
		t.Fatal(err)
	}
	return stack.NewItem(config.Default(), d)
}

func TestSetGetDelete(t *testing.T) {
	r := New()
	if err := r.Set("a", item(t, "5")); err != nil {
		t.Fatal(err)
	}
	got, ok := r.Get("a")
	if !ok || got.Display() != "5" {
		t.Errorf("Get(a) = %v, %v", got, ok)
	}
	if !r.Delete("a") {
		t.Error("Delete failed")
	}
	if _, ok := r.Get("a"); ok {
		t.Error("register survived Delete")
	}
	if r.Delete("a") {
		t.Error("Delete reported success for a missing register")
	}
}

func TestInvalidNames(t *testing.T) {
	r := New()
	for _, name := range []string{"", "ab", "1", ">", " "} {
		if err := r.Set(name, item(t, "5")); err != ErrInvalidName {
			t.Errorf("Set(%q) = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestSetStoresACopy(t *testing.T) {
	r := New()
	it := item(t, "5")
	r.Set("a", it)
	stored, _ := r.Get("a")
	if stored == it {
		t.Error("registry aliases the caller's item")
	}
	if !stored.Equal(it) {
		t.Error("stored copy differs from the original")
	}
}

func TestNamesSorted(t *testing.T) {
	r := New()
	for _, name := range []string{"z", "a", "M"} {
		if err := r.Set(name, item(t, "1")); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff([]string{"M", "a", "z"}, r.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
	if r.Len() != 3 {
		t.Errorf("Len = %d, want 3", r.Len())
	}
}
