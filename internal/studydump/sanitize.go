package studydump

import (
	"strings"
	"unicode/utf8"
)

var invisibleReplacer = strings.NewReplacer(
	"\ufeff", "",
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\u00a0", " ",
)

// Sanitize normalizes line endings, drops invisible copy/paste artifacts,
// repairs escaped or mistyped markers and trims the blob. It is idempotent.
func Sanitize(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = invisibleReplacer.Replace(s)
	s = unescapeQA(s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = repairMarker(repairHashes(line))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func isASCIILetter(c byte) bool { return (c|0x20) >= 'a' && (c|0x20) <= 'z' }

// unescapeQA turns "Q\&A" and "Q&amp;A" back into "Q&A".
func unescapeQA(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c|0x20) != 'q' || (i > 0 && isASCIILetter(s[i-1])) {
			b.WriteByte(c)
			continue
		}
		k := i + 1
		for k < len(s) && s[k] == '\\' {
			k++
		}
		escaped := k > i+1
		amp := 0
		switch {
		case strings.HasPrefix(s[k:], "&amp;"):
			amp, escaped = 5, true
		case k < len(s) && s[k] == '&':
			amp = 1
		}
		a := k + amp
		if !escaped || amp == 0 || a >= len(s) || (s[a]|0x20) != 'a' ||
			(a+1 < len(s) && isASCIILetter(s[a+1])) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte(c)
		b.WriteByte('&')
		b.WriteByte(s[a])
		i = a
	}
	return b.String()
}

// repairHashes drops backslashes escaping '#' in a block delimiter (three
// or more hashes) or in a line-leading heading marker: `\#\#\#` and `\###`
// become `###`, `\## 정리` becomes `## 정리`.
func repairHashes(line string) string {
	if !strings.Contains(line, `\`) {
		return line
	}
	lead := len(line) - len(trimIndent(line))
	var b strings.Builder
	b.Grow(len(line))
	for i := 0; i < len(line); {
		c := line[i]
		if c != '\\' && c != '#' {
			b.WriteByte(c)
			i++
			continue
		}
		hashes, end := 0, i
		for {
			k := end
			for k < len(line) && line[k] == '\\' {
				k++
			}
			if k >= len(line) || line[k] != '#' {
				break
			}
			hashes++
			end = k + 1
		}
		if hashes == 0 {
			k := i
			for k < len(line) && line[k] == '\\' {
				k++
			}
			b.WriteString(line[i:k])
			i = k
			continue
		}
		if hashes >= 3 || i == lead {
			b.WriteString(strings.Repeat("#", hashes))
		} else {
			b.WriteString(line[i:end])
		}
		i = end
	}
	return b.String()
}

// markerTokenLen returns the length of a Q/A (with optional number), TAGS or
// LEVEL token at the start of s, or 0.
func markerTokenLen(s string) int {
	for _, name := range []string{"TAGS", "LEVEL"} {
		if len(s) >= len(name) && strings.EqualFold(s[:len(name)], name) {
			return len(name)
		}
	}
	if s == "" || ((s[0]|0x20) != 'q' && (s[0]|0x20) != 'a') {
		return 0
	}
	n := 1
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	return n
}

// markerSeparator decodes the separator after a marker token, mapping the
// fullwidth forms a Korean IME produces to ASCII.
func markerSeparator(s string) (sep byte, size int) {
	r, size := utf8.DecodeRuneInString(s)
	switch r {
	case ':', '.', ')':
		return byte(r), size
	case '：':
		return ':', size
	case '．':
		return '.', size
	case '）':
		return ')', size
	}
	return 0, 0
}

// repairMarker rewrites "Q：", "**Q:**", "**A**." and "**Q: text**" into
// plain markers at the start of a line.
func repairMarker(line string) string {
	body := trimIndent(line)
	indent := line[:len(line)-len(body)]
	bold := strings.HasPrefix(body, "**")
	if bold {
		body = body[2:]
	}
	n := markerTokenLen(body)
	if n == 0 {
		return line
	}
	token, rest := body[:n], body[n:]
	closed := false
	if bold && strings.HasPrefix(rest, "**") {
		rest, closed = rest[2:], true
	}
	sep, size := markerSeparator(rest)
	if size == 0 {
		return line
	}
	rest = rest[size:]
	if bold && !closed {
		if strings.HasPrefix(rest, "**") {
			rest = rest[2:]
		} else {
			trimmed := strings.TrimRight(rest, " \t")
			if strings.HasSuffix(trimmed, "**") {
				rest = strings.TrimSuffix(trimmed, "**")
			}
		}
	}
	if !bold && size == 1 {
		return line
	}
	return indent + token + string(sep) + rest
}
