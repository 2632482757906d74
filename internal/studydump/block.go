package studydump

import (
	"strings"
)

type blockState int

const (
	stateIdle blockState = iota
	stateInQuestion
	stateInAnswer
	stateInTagsOrLevel
)

// blockScan is the state of one block while its lines are scanned.
type blockScan struct {
	state    blockState
	meta     field // TAGS or LEVEL while in stateInTagsOrLevel
	buf      []string
	question string
	answer   string
	tags     []string
	level    Level
}

func (s *blockScan) open(f field, rest string) {
	s.flush()
	switch f {
	case fieldQuestion:
		s.state = stateInQuestion
	case fieldAnswer:
		s.state = stateInAnswer
	default:
		s.state, s.meta = stateInTagsOrLevel, f
	}
	s.buf = append(s.buf[:0], rest)
}

func (s *blockScan) flush() {
	text := strings.Join(s.buf, "\n")
	switch s.state {
	case stateInQuestion:
		s.question = text
	case stateInAnswer:
		s.answer = text
	case stateInTagsOrLevel:
		if s.meta == fieldTags {
			s.tags = splitTags(text)
		} else if lv, ok := ParseLevel(text); ok {
			s.level = lv
		}
	}
	s.state, s.meta, s.buf = stateIdle, fieldNone, s.buf[:0]
}

func splitTags(text string) []string {
	tags := []string{}
	for _, part := range strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == '\n' }) {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func parseBlock(block string) (Entry, bool) {
	s := blockScan{tags: []string{}, level: LevelBasic}
	for _, l := range strings.Split(block, "\n") {
		if f, rest, ok := fieldPrefix(l); ok {
			s.open(f, rest)
			continue
		}
		if s.state != stateIdle {
			s.buf = append(s.buf, l)
		}
	}
	s.flush()

	q, a := strings.TrimSpace(s.question), strings.TrimSpace(s.answer)
	if q == "" || a == "" {
		return Entry{}, false
	}
	return Entry{Question: q, Answer: a, Tags: s.tags, Level: s.level}, true
}

func splitBlocks(region string) []string {
	var blocks []string
	prev := 0
	for _, span := range delimiterSpans(region) {
		blocks = append(blocks, region[prev:span[0]])
		prev = span[1]
	}
	return append(blocks, region[prev:])
}

func extractBlocks(region string, limit int) []Entry {
	entries := []Entry{}
	for _, block := range splitBlocks(region) {
		if len(entries) >= limit {
			break
		}
		if isBlank(block) {
			continue
		}
		if e, ok := parseBlock(block); ok {
			entries = append(entries, e)
		}
	}
	return entries
}
