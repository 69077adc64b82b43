package validation

import (
	"testing"
)

func TestValidScopeName_Valid(t *testing.T) {
	valids := []string{
		"a",
		"ab",
		"profile",
		"profile:read",
		"email:read:e2e123",
		"a_b-c.d:scope2",
		// 64 chars (start/end alnum)
		mkLen("a", 62) + "b",
	}
	for _, v := range valids {
		if !ValidScopeName(v) {
			t.Fatalf("expected valid: %q", v)
		}
	}
}

func TestValidScopeName_Invalid(t *testing.T) {
	invalids := []string{
		"",               // empty
		":lead",          // starts with non-alnum
		"trail:",         // ends with non-alnum
		"bad space",      // space
		"UPPER",          // uppercase
		"semicolon;hack", // semicolon
		mkLen("a", 65),   // > 64 chars should be invalid
	}
	for _, v := range invalids {
		if ValidScopeName(v) {
			t.Fatalf("expected invalid: %q", v)
		}
	}
}

func TestParseScopes(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"read", []string{"read"}},
		{"read write", []string{"read", "write"}},
		{"a b a", []string{"a", "b"}}, // duplicates removed, order preserved
		{"  read\t write\nread ", []string{"read", "write"}},
	}
	for _, c := range cases {
		got := ParseScopes(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("ParseScopes(%q) = %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("ParseScopes(%q) = %v, want %v", c.in, got, c.want)
			}
		}
	}
}

func TestScopeSet_Contains(t *testing.T) {
	super := ScopeSet{"a", "b"}
	if !super.Contains(nil) {
		t.Fatal("empty subset must be trivially contained")
	}
	if !super.Contains(ScopeSet{"b"}) {
		t.Fatal("expected subset to be contained")
	}
	if !super.Contains(ScopeSet{"a", "b"}) {
		t.Fatal("expected equal set to be contained")
	}
	if (ScopeSet{}).Contains(ScopeSet{"a"}) {
		t.Fatal("empty superset must not contain a non-empty subset")
	}
	if super.Contains(ScopeSet{"a", "b", "c"}) {
		t.Fatal("proper superset must not be contained")
	}
}

func TestScopeSet_DefaultTo(t *testing.T) {
	def := ScopeSet{"read", "write"}
	if got := (ScopeSet{}).DefaultTo(def); got.String() != "read write" {
		t.Fatalf("empty set must default, got %q", got.String())
	}
	if got := (ScopeSet{"admin"}).DefaultTo(def); got.String() != "admin" {
		t.Fatalf("non-empty set must pass through, got %q", got.String())
	}
}

func TestScopeSet_Signature_OrderIndependent(t *testing.T) {
	a := ParseScopes("read write")
	b := ParseScopes("write read")
	if a.Signature() != b.Signature() {
		t.Fatalf("signatures differ: %q vs %q", a.Signature(), b.Signature())
	}
	if a.String() == b.String() {
		t.Fatal("String() should preserve request order")
	}
}

// mkLen builds a string of exactly n characters starting with prefix.
func mkLen(prefix string, total int) string {
	if total <= len(prefix) {
		return prefix[:total]
	}
	out := make([]byte, total)
	copy(out, []byte(prefix))
	for i := len(prefix); i < total; i++ {
		out[i] = 'a'
	}
	return string(out)
}
