package studydump

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseBlock(t *testing.T) {
	cases := []struct {
		name  string
		block string
		want  Entry
		ok    bool
	}{
		{
			name:  "all fields",
			block: "Q: 질문\nA: 답변\nTAGS: 세법, 기초\nLEVEL: ADVANCED",
			want:  Entry{Question: "질문", Answer: "답변", Tags: []string{"세법", "기초"}, Level: LevelAdvanced},
			ok:    true,
		},
		{
			name:  "multi-line fields",
			block: "Q: 첫 줄\n둘째 줄\nA:\n  답 1\n  답 2\n",
			want:  Entry{Question: "첫 줄\n둘째 줄", Answer: "답 1\n  답 2", Tags: []string{}, Level: LevelBasic},
			ok:    true,
		},
		{
			name:  "last tags win and empties dropped",
			block: "TAGS: a, b\nQ: q\nA: a\nTAGS: , c ,, d\ne",
			want:  Entry{Question: "q", Answer: "a", Tags: []string{"c", "d", "e"}, Level: LevelBasic},
			ok:    true,
		},
		{
			name:  "unknown level keeps previous",
			block: "LEVEL: intermediate\nQ: q\nA: a\nLEVEL: hard",
			want:  Entry{Question: "q", Answer: "a", Tags: []string{}, Level: LevelIntermediate},
			ok:    true,
		},
		{
			name:  "lowercase prefixes and preamble",
			block: "서문은 무시된다\n  q: 질문\n  a: 답",
			want:  Entry{Question: "질문", Answer: "답", Tags: []string{}, Level: LevelBasic},
			ok:    true,
		},
		{
			name:  "later question replaces earlier",
			block: "Q: 처음\nQ: 나중\nA: 답",
			want:  Entry{Question: "나중", Answer: "답", Tags: []string{}, Level: LevelBasic},
			ok:    true,
		},
		{name: "missing answer", block: "Q: 질문만\nTAGS: x"},
		{name: "blank answer", block: "Q: 질문\nA:   \n"},
		{name: "missing question", block: "A: 답만"},
		{name: "inline markers are not fields", block: "Q. 질문\nA. 답"},
	}
	for _, c := range cases {
		got, ok := parseBlock(c.block)
		if ok != c.ok {
			t.Errorf("%s: ok = %v, want %v (%+v)", c.name, ok, c.ok, got)
			continue
		}
		if !ok {
			continue
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", c.name, diff)
		}
	}
}

func TestExtractBlocksSkipsIncomplete(t *testing.T) {
	region := "Q: 1\nA: 1\n###\n\n###Q: 2\n###Q: 3\nA: 3\n####"
	got := extractBlocks(region, MaxEntries)
	var qs []string
	for _, e := range got {
		qs = append(qs, e.Question)
	}
	if diff := cmp.Diff([]string{"1", "3"}, qs); diff != "" {
		t.Fatalf("questions mismatch (-want +got):\n%s", diff)
	}
}
