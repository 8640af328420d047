package templates

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustCompileAuthorRule(t *testing.T, regex string, group int) AuthorNameRule {
	t.Helper()

	rule := AuthorNameRule{Regex: regex, NameGroup: group}
	if err := rule.compile(); err != nil {
		t.Fatalf("compile %q: %v", regex, err)
	}

	return rule
}

func TestChooseRuleDeclarationOrder(t *testing.T) {
	t.Parallel()

	// Both rules match; the first declared one must win even though the
	// second is more specific.
	rules := []AuthorNameRule{
		mustCompileAuthorRule(t, `@(\w+)`, 1),
		mustCompileAuthorRule(t, `@(twain)`, 1),
	}

	rule, ok := chooseRule(rules, "@twain")
	if !ok {
		t.Fatal("no rule matched")
	}

	if rule.Regex != rules[0].Regex {
		t.Errorf("chose %q, want first declared rule %q", rule.Regex, rules[0].Regex)
	}
}

func TestChooseRuleNoMatch(t *testing.T) {
	t.Parallel()

	rules := []AuthorNameRule{mustCompileAuthorRule(t, `@(\w+)`, 1)}

	if _, ok := chooseRule(rules, "nothing here"); ok {
		t.Error("rule should not match")
	}
}

func TestChooseRuleEmptyList(t *testing.T) {
	t.Parallel()

	if _, ok := chooseRule([]AuthorNameRule(nil), "anything"); ok {
		t.Error("empty rule list should never match")
	}
}

func TestAuthorNameRuleNames(t *testing.T) {
	t.Parallel()

	rule := mustCompileAuthorRule(t, `@(\w+)`, 1)

	got := rule.Names("@twain and @clemens")
	want := []string{"twain", "clemens"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}

func TestBookLinkRule(t *testing.T) {
	t.Parallel()

	rule := BookLinkRule{
		Regex:       `\[\[([^]]+)\]\]: \[([^]]+)\]\(https://www\.goodreads\.com/book/show/(\d+)\)`,
		AuthorGroup: 1,
		TitleGroup:  2,
		BookIDGroup: 3,
	}
	if err := rule.compile(); err != nil {
		t.Fatalf("compile: %v", err)
	}

	link, ok := rule.Link("[[Jules Verne]]: [Around the World in Eighty Days](https://www.goodreads.com/book/show/54479)")
	if !ok {
		t.Fatal("link not found")
	}

	want := BookLink{Author: "Jules Verne", Title: "Around the World in Eighty Days", BookID: "54479"}
	if link != want {
		t.Errorf("Link = %+v, want %+v", link, want)
	}

	if _, ok := rule.Link("no link here"); ok {
		t.Error("should not find a link")
	}
}

func TestCompileRuleRejectsBadGroup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		regex string
		group int
	}{
		{"group beyond count", `(\w+)`, 2},
		{"group zero", `(\w+)`, 0},
		{"negative group", `(\w+)`, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rule := AuthorNameRule{Regex: tt.regex, NameGroup: tt.group}

			err := rule.compile()
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("compile error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestCompileRuleRejectsBadRegex(t *testing.T) {
	t.Parallel()

	rule := SeriesFileNameRule{Regex: `([`}

	err := rule.compile()
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("compile error = %v, want ErrConfiguration", err)
	}
}
