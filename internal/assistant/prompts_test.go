package assistant

import (
	"strings"
	"testing"
)

func TestBuildPrompts(t *testing.T) {
	cases := []struct {
		name  string
		style Style
		count int
		want  []string
	}{
		{"block", StyleBlock, 5, []string{"exactly 5 question", "'###'", "TAGS:"}},
		{"inline", StyleInline, 3, []string{"exactly 3 question", "'Q1.'", "### <topic>"}},
		{"default count", StyleBlock, 0, []string{"exactly 10 question"}},
		{"capped count", StyleInline, 500, []string{"exactly 50 question"}},
	}
	for _, c := range cases {
		system, user := BuildPrompts("  커패시터 노트  ", c.style, c.count)
		if !strings.Contains(system, summaryHeading) {
			t.Errorf("%s: system prompt lacks summary heading", c.name)
		}
		for _, w := range c.want {
			if !strings.Contains(system, w) {
				t.Errorf("%s: system prompt lacks %q", c.name, w)
			}
		}
		if !strings.HasSuffix(user, "[Notes]\n커패시터 노트") {
			t.Errorf("%s: user prompt = %q", c.name, user)
		}
	}
}

func TestParseStyle(t *testing.T) {
	if s, err := ParseStyle(" Inline "); err != nil || s != StyleInline {
		t.Fatalf("ParseStyle = %q, %v", s, err)
	}
	if _, err := ParseStyle("table"); err == nil {
		t.Fatal("expected error for unknown style")
	}
}
