package studydump

import (
	"strings"
)

// Parse converts a raw study dump into a Result. It never fails and is safe
// for concurrent use.
func Parse(raw string) Result {
	sections := SplitSections(Sanitize(raw))

	var summary *Summary
	if sections.HasSummary {
		summary = newSummary(sections.Summary)
	}

	entries := []Entry{}
	if sections.HasQA {
		if extract, ok := extractors[DetectGrammar(sections.QA)]; ok {
			entries = extract(sections.QA, MaxEntries)
		}
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	return Result{
		Summary:         summary,
		Entries:         entries,
		DetectedDialect: classify(summary != nil, len(entries) > 0),
		EntryCount:      len(entries),
	}
}

func newSummary(content string) *Summary {
	title := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		title = content[:i]
	}
	title = strings.TrimSpace(title)
	if t := strings.TrimSpace(strings.TrimLeft(title, "#")); t != "" {
		title = t
	}
	return &Summary{Title: title, Content: content, StructureKind: StructureMarkdown}
}

func classify(hasSummary, hasEntries bool) Dialect {
	switch {
	case hasSummary && hasEntries:
		return DialectSummaryAndQA
	case hasSummary:
		return DialectSummaryOnly
	case hasEntries:
		return DialectQAOnly
	default:
		return DialectUnknown
	}
}
