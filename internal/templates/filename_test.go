package templates

import "testing"

func TestCleanFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name untouched", "Mark Twain", "Mark Twain"},
		{"percent spelled out", "100% legal", "100 percent legal"},
		{"colon and comma dropped", "Title: one, two", "Title one two"},
		{"slashes to underscore", `a/b\c`, "a_b_c"},
		{"brackets to parens", "[draft] <v2>", "(draft) (v2)"},
		{"star to x", "5*5", "5x5"},
		{"question mark dropped", "why?", "why"},
		{"double quote to single", `say "hi"`, "say 'hi'"},
		{"pipe to underscore", "a|b", "a_b"},
		{"hash to at", "#1 fan", "@1 fan"},
		{"empty", "", ""},
		{"unicode passes through", "Жюль Верн – №1", "Жюль Верн – №1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CleanFileName(tt.in); got != tt.want {
				t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
