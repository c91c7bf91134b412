package filter

import "testing"

func TestPatternMatch(t *testing.T) {
	patterns, err := Compile([]string{"Home", "/^0[1-3]-/", "  "})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(patterns) != 2 {
		t.Fatalf("expected blank pattern dropped, got %d patterns", len(patterns))
	}

	cases := []struct {
		pattern Pattern
		in      string
		want    bool
	}{
		{patterns[0], "01-home-screen", true},
		{patterns[0], "testHomeScreenshots()", true},
		{patterns[0], "settings", false},
		{patterns[0], "", false},
		{patterns[1], "02-search", true},
		{patterns[1], "04-map", false},
	}
	for _, c := range cases {
		if got := c.pattern.Match(c.in); got != c.want {
			t.Fatalf("%s.Match(%q) = %v, want %v", c.pattern, c.in, got, c.want)
		}
	}
}

func TestSelectorOnlyAndSkip(t *testing.T) {
	sel, err := NewSelector([]string{"/^0\\d-/"}, []string{"map"})
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	if sel.Empty() {
		t.Fatalf("selector should not be empty")
	}

	names := []string{"01-search", "02-departures", "03-map", "settings"}
	var kept []string
	for _, name := range names {
		if sel.Keep(name) {
			kept = append(kept, name)
		}
	}
	if len(kept) != 2 || kept[0] != "01-search" || kept[1] != "02-departures" {
		t.Fatalf("unexpected kept names %v", kept)
	}
}

func TestEmptySelectorKeepsEverything(t *testing.T) {
	var sel Selector
	if !sel.Empty() {
		t.Fatalf("zero selector should be empty")
	}
	for _, name := range []string{"a", "", "anything"} {
		if !sel.Keep(name) {
			t.Fatalf("empty selector dropped %q", name)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	if _, err := Compile([]string{"/(/"}); err == nil {
		t.Fatalf("expected compile error")
	}
	if _, err := NewSelector(nil, []string{"/[/"}); err == nil {
		t.Fatalf("expected selector compile error")
	}
}
