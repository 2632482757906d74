package studydump

import (
	"strings"
	"unicode"
)

// Separators that may follow an inline Q/A marker ("Q.", "Q:", "Q)").
const inlineSeparators = ".:)"

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isBlank(line string) bool { return strings.TrimSpace(line) == "" }

func trimIndent(line string) string { return strings.TrimLeftFunc(line, unicode.IsSpace) }

// inlineMarker matches a line beginning with letter (either case), optional
// digits and one of inlineSeparators. It returns the text after the marker.
func inlineMarker(line string, letter byte) (string, bool) {
	s := trimIndent(line)
	if len(s) < 2 || (s[0] != letter && s[0] != letter+('a'-'A')) {
		return "", false
	}
	i := 1
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i >= len(s) || strings.IndexByte(inlineSeparators, s[i]) < 0 {
		return "", false
	}
	return strings.TrimSpace(s[i+1:]), true
}

func questionMarker(line string) (string, bool) { return inlineMarker(line, 'Q') }

func answerMarker(line string) (string, bool) { return inlineMarker(line, 'A') }

func isQuestionLine(line string) bool {
	_, ok := questionMarker(line)
	return ok
}

func hasQuestionLine(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if isQuestionLine(line) {
			return true
		}
	}
	return false
}

// splitSameLine finds an answer marker inside the text of a question line,
// e.g. "커패시터란? A: 전하를 저장하는 소자". Only ':' and '.' count here so
// that "a) ... b) ..." choice lists stay part of the question.
func splitSameLine(rest string) (question, answer string, ok bool) {
	for i := 1; i < len(rest); i++ {
		if c := rest[i]; c != 'A' && c != 'a' {
			continue
		}
		if p := rest[i-1]; p != ' ' && p != '\t' {
			continue
		}
		j := i + 1
		for j < len(rest) && isDigit(rest[j]) {
			j++
		}
		if j >= len(rest) || (rest[j] != ':' && rest[j] != '.') {
			continue
		}
		if j+1 < len(rest) && rest[j+1] != ' ' && rest[j+1] != '\t' {
			continue
		}
		question = strings.TrimSpace(rest[:i])
		if question == "" {
			continue
		}
		return question, strings.TrimSpace(rest[j+1:]), true
	}
	return "", "", false
}

// headingLine matches an ATX heading of level 1..maxLevel and returns its text.
func headingLine(line string, maxLevel int) (level int, text string, ok bool) {
	s := trimIndent(line)
	n := 0
	for n < len(s) && s[n] == '#' {
		n++
	}
	if n == 0 || n > maxLevel || n >= len(s) || (s[n] != ' ' && s[n] != '\t') {
		return 0, "", false
	}
	text = strings.TrimSpace(s[n:])
	if text == "" {
		return 0, "", false
	}
	return n, text, true
}

// delimiterSpans returns the byte ranges of every block delimiter in s: a run
// of three or more '#' not followed by a space or tab. "### 소제목" is a
// heading, "###", "###Q:" and "#####" are delimiters.
func delimiterSpans(s string) [][2]int {
	var spans [][2]int
	for i := 0; i < len(s); {
		if s[i] != '#' {
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] == '#' {
			j++
		}
		if j-i >= 3 && (j == len(s) || (s[j] != ' ' && s[j] != '\t')) {
			spans = append(spans, [2]int{i, j})
		}
		i = j
	}
	return spans
}

func hasDelimiter(s string) bool { return len(delimiterSpans(s)) > 0 }

// startsWithDelimiter reports whether the line opens with a block delimiter.
func startsWithDelimiter(line string) bool {
	spans := delimiterSpans(line)
	return len(spans) > 0 && strings.TrimSpace(line[:spans[0][0]]) == ""
}

type field int

const (
	fieldNone field = iota
	fieldQuestion
	fieldAnswer
	fieldTags
	fieldLevel
)

var fieldPrefixes = []struct {
	name  string
	field field
}{
	{"TAGS", fieldTags},
	{"LEVEL", fieldLevel},
	{"Q", fieldQuestion},
	{"A", fieldAnswer},
}

// fieldPrefix matches the block field prefixes Q:, A:, TAGS: and LEVEL:
// (any case) and returns the untrimmed remainder of the line.
func fieldPrefix(line string) (field, string, bool) {
	s := trimIndent(line)
	for _, p := range fieldPrefixes {
		n := len(p.name)
		if len(s) > n && s[n] == ':' && strings.EqualFold(s[:n], p.name) {
			return p.field, s[n+1:], true
		}
	}
	return fieldNone, "", false
}
