package studydump

import (
	"strings"
)

func joinLines(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func isInlineBreak(l string) bool {
	_, _, heading := headingLine(l, 3)
	return heading || isQuestionLine(l)
}

// collectAnswer appends continuation lines starting at i until a blank line,
// a heading, the next question or another answer marker. It returns the
// index to resume from.
func collectAnswer(lines []string, i int, answer []string) ([]string, int) {
	for ; i < len(lines); i++ {
		l := lines[i]
		if isBlank(l) || isInlineBreak(l) {
			break
		}
		if _, ok := answerMarker(l); ok {
			break
		}
		answer = append(answer, strings.TrimSpace(l))
	}
	return answer, i
}

// nextAnswerLine reports whether the first non-blank line after i is an
// answer marker line.
func nextAnswerLine(lines []string, i int) bool {
	for j := i + 1; j < len(lines); j++ {
		if isBlank(lines[j]) {
			continue
		}
		_, ok := answerMarker(lines[j])
		return ok
	}
	return false
}

// scanPair reads the question opened at lines[i] (rest is the text after
// its marker) and looks for its answer. An explicit answer line wins over a
// same-line split, so "비타민 A. 결핍 증상은?" stays one question. An empty
// question or answer means the question was abandoned; next is where
// scanning resumes.
func scanPair(lines []string, i int, rest string) (question, answer string, next int) {
	if !nextAnswerLine(lines, i) {
		if q, a, ok := splitSameLine(rest); ok {
			ans, n := collectAnswer(lines, i+1, []string{a})
			return q, joinLines(ans), n
		}
	}

	qLines := []string{rest}
	for j := i + 1; j < len(lines); j++ {
		l := lines[j]
		if isBlank(l) {
			continue
		}
		if isInlineBreak(l) {
			return "", "", j
		}
		if a, ok := answerMarker(l); ok {
			ans, n := collectAnswer(lines, j+1, []string{a})
			return joinLines(qLines), joinLines(ans), n
		}
		qLines = append(qLines, strings.TrimSpace(l))
	}
	return "", "", len(lines)
}

func extractInline(region string, limit int) []Entry {
	lines := strings.Split(region, "\n")
	entries := []Entry{}
	tags := []string{}

	for i := 0; i < len(lines) && len(entries) < limit; {
		l := lines[i]
		if _, text, ok := headingLine(l, 3); ok {
			tags = []string{text}
			i++
			continue
		}
		rest, ok := questionMarker(l)
		if !ok {
			i++
			continue
		}
		q, a, next := scanPair(lines, i, rest)
		i = next
		if q == "" || a == "" {
			continue
		}
		entries = append(entries, Entry{
			Question: q,
			Answer:   a,
			Tags:     append([]string{}, tags...),
			Level:    LevelBasic,
		})
	}
	return entries
}
