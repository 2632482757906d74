package studydump

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitSections(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Sections
	}{
		{
			name: "summary then qa heading",
			in:   "## 정리\n요약 본문\n## Q&A\nQ. a\nA. b",
			want: Sections{Summary: "요약 본문", HasSummary: true, QA: "Q. a\nA. b", HasQA: true},
		},
		{
			name: "summary ends at first question",
			in:   "# 내용 정리\n본문\nQ. a\nA. b",
			want: Sections{Summary: "본문", HasSummary: true, QA: "Q. a\nA. b", HasQA: true},
		},
		{
			name: "summary ends at delimiter",
			in:   "## 요약\n본문\n###\nQ: a\nA: b",
			want: Sections{Summary: "본문", HasSummary: true, QA: "Q: a\nA: b", HasQA: true},
		},
		{
			name: "pure note",
			in:   "# 커패시터\n전하를 저장하는 소자.",
			want: Sections{Summary: "# 커패시터\n전하를 저장하는 소자.", HasSummary: true},
		},
		{
			name: "questions without headings",
			in:   "서론 문장\nQ. a\nA. b",
			want: Sections{QA: "Q. a\nA. b", HasQA: true},
		},
		{
			name: "delimiter only",
			in:   "TAGS: x\n###\nA: b",
			want: Sections{QA: "TAGS: x\n###\nA: b", HasQA: true},
		},
		{
			name: "empty summary region is absent",
			in:   "## 정리\n\n## 문제\nQ. a\nA. b",
			want: Sections{QA: "Q. a\nA. b", HasQA: true},
		},
		{
			name: "qa heading before summary heading",
			in:   "## 퀴즈\nQ. a\nA. b\n## 요약\n본문",
			want: Sections{Summary: "본문", HasSummary: true, QA: "Q. a\nA. b", HasQA: true},
		},
		{
			name: "level three heading is not a section",
			in:   "### 정리\nQ. a\nA. b",
			want: Sections{QA: "Q. a\nA. b", HasQA: true},
		},
		{
			name: "empty qa region is absent",
			in:   "## 요약\n본문\n## Quiz",
			want: Sections{Summary: "본문", HasSummary: true},
		},
		{
			name: "empty text",
			in:   "",
			want: Sections{},
		},
	}
	for _, c := range cases {
		if diff := cmp.Diff(c.want, SplitSections(c.in)); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", c.name, diff)
		}
	}
}

func TestSplitSectionsLabelPriority(t *testing.T) {
	// "학습 정리" outranks "요약" even though it appears later.
	in := "## 요약 메모\n메모\n## 학습 정리\n정리 본문"
	got := SplitSections(in)
	if got.Summary != "정리 본문" {
		t.Fatalf("summary = %q", got.Summary)
	}
}
