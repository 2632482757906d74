// Package studydump turns text pasted from an AI assistant (a "study dump")
// into a summary and a list of question/answer entries.
//
// Parsing never fails: malformed input degrades to fewer entries, an absent
// summary, or an unknown result. Validate reports what a caller should show
// the learner before storing anything.
package studydump

import "strings"

// MaxEntries bounds the number of entries kept from a single dump.
const MaxEntries = 200

type Level string

const (
	LevelBasic        Level = "basic"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// ParseLevel matches s case-insensitively against the known levels.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(LevelBasic):
		return LevelBasic, true
	case string(LevelIntermediate):
		return LevelIntermediate, true
	case string(LevelAdvanced):
		return LevelAdvanced, true
	}
	return "", false
}

// Dialect is the overall shape of a parsed dump.
type Dialect string

const (
	DialectSummaryAndQA Dialect = "summaryAndQA"
	DialectSummaryOnly  Dialect = "summaryOnly"
	DialectQAOnly       Dialect = "qaOnly"
	DialectUnknown      Dialect = "unknown"
)

type StructureKind string

const StructureMarkdown StructureKind = "markdown"

type Summary struct {
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	StructureKind StructureKind `json:"structureKind"`
}

type Entry struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Tags     []string `json:"tags"`
	Level    Level    `json:"level"`
}

// Result is the output of Parse. EntryCount always equals len(Entries).
type Result struct {
	Summary         *Summary `json:"summary"`
	Entries         []Entry  `json:"entries"`
	DetectedDialect Dialect  `json:"detectedDialect"`
	EntryCount      int      `json:"entryCount"`
}
