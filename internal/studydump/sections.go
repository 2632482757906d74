package studydump

import (
	"strings"
	"unicode"
)

// Heading labels in priority order. Each label is searched over the whole
// text before the next one is tried.
var (
	summaryLabels = []string{"학습 정리", "내용 정리", "핵심 정리", "개념 정리", "정리", "요약", "summary"}
	qaLabels      = []string{"q&a", "qna", "예상 문제", "연습 문제", "문제", "퀴즈", "quiz", "질문"}
)

// Sections holds the optional summary and Q&A regions of a sanitized dump.
type Sections struct {
	Summary    string
	HasSummary bool
	QA         string
	HasQA      bool
}

type line struct {
	text  string
	start int // offset of the first byte
	next  int // offset just past the trailing newline
}

func splitLines(text string) []line {
	var lines []line
	for start := 0; start <= len(text); {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			lines = append(lines, line{text: text[start:], start: start, next: len(text)})
			break
		}
		end += start
		lines = append(lines, line{text: text[start:end], start: start, next: end + 1})
		start = end + 1
	}
	return lines
}

// sectionLabel returns the heading text of a level 1/2 heading with leading
// emoji, numbering and punctuation removed, lowercased.
func sectionLabel(l string) (string, bool) {
	_, text, ok := headingLine(l, 2)
	if !ok {
		return "", false
	}
	text = strings.TrimLeftFunc(text, func(r rune) bool { return !unicode.IsLetter(r) })
	return strings.ToLower(text), text != ""
}

func findHeading(lines []line, labels []string, skip int) int {
	for _, label := range labels {
		for i, l := range lines {
			if i == skip {
				continue
			}
			if text, ok := sectionLabel(l.text); ok && strings.HasPrefix(text, label) {
				return i
			}
		}
	}
	return -1
}

func firstQuestionLine(lines []line, from int) int {
	for i := from; i < len(lines); i++ {
		if isQuestionLine(lines[i].text) {
			return i
		}
	}
	return -1
}

func region(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// SplitSections locates the summary and Q&A regions of sanitized text.
func SplitSections(text string) Sections {
	var out Sections
	lines := splitLines(text)
	sum := findHeading(lines, summaryLabels, -1)
	qa := findHeading(lines, qaLabels, sum)

	sumEnd := len(text)
	switch {
	case sum >= 0:
		for i := sum + 1; i < len(lines); i++ {
			l := lines[i].text
			if i == qa || isQuestionLine(l) || startsWithDelimiter(l) {
				sumEnd = lines[i].start
				break
			}
		}
		out.Summary, out.HasSummary = region(text[lines[sum].next:sumEnd])
	case !hasQuestionLine(text) && !hasDelimiter(text):
		out.Summary, out.HasSummary = region(text)
	}

	qaEnd := len(text)
	switch q := firstQuestionLine(lines, 0); {
	case qa >= 0:
		if sum > qa {
			qaEnd = lines[sum].start
		}
		out.QA, out.HasQA = region(text[lines[qa].next:qaEnd])
	case q >= 0:
		if sum > q {
			qaEnd = lines[sum].start
		}
		out.QA, out.HasQA = region(text[lines[q].start:qaEnd])
	case sum >= 0 && hasDelimiter(text[sumEnd:]):
		out.QA, out.HasQA = region(text[sumEnd:])
	case sum < 0 && hasDelimiter(text):
		out.QA, out.HasQA = region(text)
	}
	return out
}
