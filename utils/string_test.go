package utils

import "testing"

// TestCamelCase 测试别名转驼峰
func TestCamelCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"mollytea", "Mollytea"},
		{"molly-tea", "MollyTea"},
		{"molly_tea", "MollyTea"},
		{"molly tea", "MollyTea"},
		{"", ""},
	}
	for _, c := range cases {
		if got := CamelCase(c.in); got != c.want {
			t.Errorf("CamelCase(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
